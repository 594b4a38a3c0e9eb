package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"shwedadar-service/config"
	"shwedadar-service/internal/auth"
	"shwedadar-service/internal/redisclient"
	"shwedadar-service/internal/service"
	"shwedadar-service/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SessionStore is the slice of the redis client the handlers use.
type SessionStore interface {
	CreateSession(ctx context.Context, session redisclient.Session, ttl time.Duration) (string, error)
	GetSession(ctx context.Context, token string, ttl time.Duration) (*redisclient.Session, error)
	DeleteSession(ctx context.Context, token string) error
}

// Handler contains HTTP handlers
type Handler struct {
	catalog       *service.CatalogService
	sales         *service.SaleService
	consolidation *service.ConsolidationService
	accounts      *service.AccountService
	gate          *auth.Gate
	sessions      SessionStore
	sessionCfg    config.SessionConfig
}

// NewHandler creates a new HTTP handler
func NewHandler(
	catalog *service.CatalogService,
	sales *service.SaleService,
	consolidation *service.ConsolidationService,
	accounts *service.AccountService,
	gate *auth.Gate,
	sessions SessionStore,
	sessionCfg config.SessionConfig,
) *Handler {
	return &Handler{
		catalog:       catalog,
		sales:         sales,
		consolidation: consolidation,
		accounts:      accounts,
		gate:          gate,
		sessions:      sessions,
		sessionCfg:    sessionCfg,
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())
	router.Use(h.sessionMiddleware())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.POST("/auth/login", h.login)
		v1.POST("/auth/logout", h.logout)

		v1.GET("/products", h.requirePermission(auth.PermProductRead), h.listProducts)
		v1.POST("/products", h.requirePermission(auth.PermProductCreate), h.createProduct)
		v1.GET("/products/suggest-types", h.requirePermission(auth.PermProductRead), h.suggestTypes)
		v1.GET("/products/type-groups", h.requirePermission(auth.PermProductRead), h.suggestTypeGroups)
		v1.GET("/products/:id", h.requirePermission(auth.PermProductRead), h.getProduct)
		v1.PUT("/products/:id", h.requirePermission(auth.PermProductUpdate), h.updateProduct)
		v1.DELETE("/products/:id", h.requirePermission(auth.PermProductDelete), h.deleteProduct)
		v1.POST("/products/:id/restock", h.requirePermission(auth.PermProductUpdate), h.restockProduct)

		v1.POST("/sales", h.requirePermission(auth.PermSaleCreate), h.createSale)
		v1.GET("/sales", h.requirePermission(auth.PermSaleRead), h.listSales)
		v1.GET("/sales/:id", h.requirePermission(auth.PermSaleRead), h.getSale)

		v1.GET("/reports/low-stock", h.requirePermission(auth.PermReportRead), h.lowStockReport)
		v1.GET("/reports/commission/:userID", h.requirePermission(auth.PermReportRead), h.commissionReport)

		v1.GET("/roles", h.requirePermission(auth.PermRoleRead), h.listRoles)
		v1.POST("/roles", h.requirePermission(auth.PermRoleCreate), h.createRole)
		v1.GET("/roles/:name", h.requirePermission(auth.PermRoleRead), h.getRole)
		v1.PUT("/roles/:name", h.requirePermission(auth.PermRoleUpdate), h.updateRole)
		v1.DELETE("/roles/:name", h.requirePermission(auth.PermRoleDelete), h.deleteRole)

		v1.GET("/users", h.requirePermission(auth.PermUserRead), h.listUsers)
		v1.POST("/users", h.requirePermission(auth.PermUserCreate), h.createUser)
		v1.GET("/users/:id", h.requirePermission(auth.PermUserRead), h.getUser)
		v1.PUT("/users/:id", h.requirePermission(auth.PermUserUpdate), h.updateUser)

		v1.POST("/admin/consolidate-types", h.requirePermission(auth.PermProductConsolidate), h.consolidateTypes)
	}
}

func (h *Handler) sessionTTL() time.Duration {
	return time.Duration(h.sessionCfg.TTLMinutes) * time.Minute
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck handles readiness check requests
func (h *Handler) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// login verifies credentials and issues a session cookie.
func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	user, err := h.accounts.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		h.respondError(c, err)
		return
	}

	token, err := h.sessions.CreateSession(c.Request.Context(), redisclient.Session{
		UserID:   user.ID,
		Username: user.Username,
		RoleName: user.RoleName,
	}, h.sessionTTL())
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.SetCookie(h.sessionCfg.CookieName, token, h.sessionCfg.TTLMinutes*60, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// logout drops the session, if any.
func (h *Handler) logout(c *gin.Context) {
	if token, err := c.Cookie(h.sessionCfg.CookieName); err == nil && token != "" {
		_ = h.sessions.DeleteSession(c.Request.Context(), token)
	}
	c.SetCookie(h.sessionCfg.CookieName, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"status": "logged out"})
}

// createProduct handles product creation
func (h *Handler) createProduct(c *gin.Context) {
	var req service.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	product, err := h.catalog.CreateProduct(c.Request.Context(), &req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

// getProduct handles get product by ID
func (h *Handler) getProduct(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	product, err := h.catalog.GetProduct(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// listProducts handles listing the catalog
func (h *Handler) listProducts(c *gin.Context) {
	products, err := h.catalog.ListProducts(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

// updateProduct handles product attribute updates
func (h *Handler) updateProduct(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	var req service.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	product, err := h.catalog.UpdateProduct(c.Request.Context(), id, &req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// deleteProduct handles product deletion
func (h *Handler) deleteProduct(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	if err := h.catalog.DeleteProduct(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

type restockRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

// restockProduct handles stock increments
func (h *Handler) restockProduct(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	var req restockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	if err := h.sales.Restock(c.Request.Context(), id, req.Quantity); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "restocked"})
}

// suggestTypes handles fuzzy type tag suggestions
func (h *Handler) suggestTypes(c *gin.Context) {
	matches, err := h.catalog.SuggestTypes(c.Request.Context(), c.Query("q"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"matches": matches})
}

// suggestTypeGroups handles tag bundle suggestions
func (h *Handler) suggestTypeGroups(c *gin.Context) {
	groups, err := h.catalog.SuggestTypeGroups(c.Request.Context(), c.Query("q"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"groups": groups})
}

// createSale handles sale recording
func (h *Handler) createSale(c *gin.Context) {
	var req service.CreateSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	resp, err := h.sales.CreateSale(c.Request.Context(), &req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// getSale handles get sale by ID
func (h *Handler) getSale(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	sale, items, err := h.sales.GetSale(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sale": sale, "items": items})
}

// listSales handles listing sales
func (h *Handler) listSales(c *gin.Context) {
	sales, err := h.sales.ListSales(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sales": sales})
}

// lowStockReport lists products at or below their threshold
func (h *Handler) lowStockReport(c *gin.Context) {
	products, err := h.catalog.LowStockReport(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

// commissionReport summarizes one staff account's attributed sales
func (h *Handler) commissionReport(c *gin.Context) {
	id, ok := h.pathID(c, "userID")
	if !ok {
		return
	}

	report, err := h.sales.Commission(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

type roleRequest struct {
	Name        string   `json:"name" binding:"required"`
	Permissions []string `json:"permissions"`
}

type rolePermissionsRequest struct {
	Permissions []string `json:"permissions"`
}

// createRole handles role creation
func (h *Handler) createRole(c *gin.Context) {
	var req roleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	role, err := h.accounts.CreateRole(c.Request.Context(), req.Name, req.Permissions)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, role)
}

// getRole handles get role by name
func (h *Handler) getRole(c *gin.Context) {
	role, err := h.accounts.GetRole(c.Request.Context(), c.Param("name"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	if role == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "role not found"})
		return
	}
	c.JSON(http.StatusOK, role)
}

// listRoles handles listing roles
func (h *Handler) listRoles(c *gin.Context) {
	roles, err := h.accounts.ListRoles(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"roles": roles, "known_permissions": auth.AllPermissions})
}

// updateRole handles replacing a role's permission list
func (h *Handler) updateRole(c *gin.Context) {
	var req rolePermissionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	if err := h.accounts.UpdateRolePermissions(c.Request.Context(), c.Param("name"), req.Permissions); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}

// deleteRole handles role deletion
func (h *Handler) deleteRole(c *gin.Context) {
	if err := h.accounts.DeleteRole(c.Request.Context(), c.Param("name")); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// createUser handles user creation
func (h *Handler) createUser(c *gin.Context) {
	var req service.UserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	user, err := h.accounts.CreateUser(c.Request.Context(), &req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

// getUser handles get user by ID
func (h *Handler) getUser(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	user, err := h.accounts.GetUser(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// listUsers handles listing users
func (h *Handler) listUsers(c *gin.Context) {
	users, err := h.accounts.ListUsers(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

// updateUser handles user attribute updates
func (h *Handler) updateUser(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	var req service.UserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	user, err := h.accounts.UpdateUser(c.Request.Context(), id, &req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// consolidateTypes triggers the maintenance consolidation run
func (h *Handler) consolidateTypes(c *gin.Context) {
	result, err := h.consolidation.Run(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) pathID(c *gin.Context, param string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(param), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + param})
		return 0, false
	}
	return id, true
}

// respondError maps service and store errors onto HTTP statuses. Internal
// failures are reported generically so store details do not leak.
func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrConsolidationRunning):
		c.JSON(http.StatusConflict, gin.H{"error": "a consolidation run is already in progress"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
