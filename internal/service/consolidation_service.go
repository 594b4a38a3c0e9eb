package service

import (
	"context"
	"fmt"
	"time"

	"shwedadar-service/internal/models"
	"shwedadar-service/internal/typeset"
	"shwedadar-service/internal/util"

	"go.uber.org/zap"
)

const consolidationLockKey = "type-consolidation"
const consolidationLockTTL = 10 * time.Minute

// ConsolidationStore is the slice of the store the consolidation job uses.
type ConsolidationStore interface {
	GetProducts(ctx context.Context) ([]models.Product, error)
	UpdateProductTypes(ctx context.Context, id int64, types []string) error
}

// ConsolidationService rewrites every product in a tag cluster to the
// cluster's canonical tag set. The full-catalog pairwise work makes this
// an operator-triggered maintenance job, never a request-path operation.
type ConsolidationService struct {
	store     ConsolidationStore
	locker    Locker
	publisher Publisher
	logger    *zap.Logger
}

// NewConsolidationService creates a new consolidation service
func NewConsolidationService(store ConsolidationStore, locker Locker, publisher Publisher) *ConsolidationService {
	return &ConsolidationService{
		store:     store,
		locker:    locker,
		publisher: publisher,
		logger:    util.GetLogger(),
	}
}

// ConsolidationResult reports one run. UpdatedCount counts only products
// whose tag set actually changed; FailedCount counts rewrites the store
// rejected, which are logged and skipped rather than retried.
type ConsolidationResult struct {
	GroupCount   int `json:"group_count"`
	UpdatedCount int `json:"updated_count"`
	FailedCount  int `json:"failed_count"`
}

// Run clusters all products transitively by shared tags and rewrites each
// cluster member to the canonical tag set of the cluster's most-tagged
// member. Rewrites are independent best-effort writes; failures are
// accumulated, not rolled back. A second run over an unchanged catalog
// rewrites nothing.
func (s *ConsolidationService) Run(ctx context.Context) (*ConsolidationResult, error) {
	ctx, span := util.StartSpan(ctx, "ConsolidationService.Run")
	defer span.End()

	acquired, err := s.locker.AcquireLock(ctx, consolidationLockKey, consolidationLockTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire consolidation lock: %w", err)
	}
	if !acquired {
		return nil, ErrConsolidationRunning
	}
	defer func() {
		if err := s.locker.ReleaseLock(ctx, consolidationLockKey); err != nil {
			s.logger.Error("Failed to release consolidation lock", zap.Error(err))
		}
	}()

	start := time.Now()
	defer func() {
		util.ConsolidationLatency.Observe(time.Since(start).Seconds())
	}()
	util.ConsolidationRunsTotal.Inc()

	products, err := s.store.GetProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}

	tagSets := make([][]string, len(products))
	for i := range products {
		tagSets[i] = products[i].Types
	}

	clusters := typeset.Clusters(tagSets)

	result := &ConsolidationResult{GroupCount: len(clusters)}
	for _, cluster := range clusters {
		canonical := typeset.CanonicalTags(tagSets, cluster)

		for _, idx := range cluster {
			if typeset.SameTagSet(tagSets[idx], canonical) {
				continue
			}

			if err := s.store.UpdateProductTypes(ctx, products[idx].ID, canonical); err != nil {
				result.FailedCount++
				s.logger.Warn("Consolidation rewrite failed",
					zap.Int64("product_id", products[idx].ID),
					zap.Error(err))
				continue
			}
			result.UpdatedCount++
			util.ConsolidationRewritesTotal.Inc()
		}
	}

	s.logger.Info("Type consolidation completed",
		zap.Int("group_count", result.GroupCount),
		zap.Int("updated_count", result.UpdatedCount),
		zap.Int("failed_count", result.FailedCount))

	if err := s.publisher.PublishTypesConsolidated(ctx, &models.TypesConsolidatedEvent{
		BaseEvent:    newBaseEvent(models.EventTypeTypesConsolidated),
		GroupCount:   result.GroupCount,
		UpdatedCount: result.UpdatedCount,
		FailedCount:  result.FailedCount,
	}); err != nil {
		s.logger.Error("Failed to publish TypesConsolidated event", zap.Error(err))
	}

	return result, nil
}
