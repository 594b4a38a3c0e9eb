package auth

import "context"

// Principal identifies the authenticated actor for one request. Only the
// role name is carried; permissions are resolved fresh on every check so
// role edits apply to the actor's next action.
type Principal struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	RoleName string `json:"role_name"`
}

type principalContextKey struct{}

// ContextWithPrincipal attaches the authenticated principal to the context.
func ContextWithPrincipal(ctx context.Context, principal Principal) context.Context {
	return context.WithValue(ctx, principalContextKey{}, &principal)
}

// PrincipalFromContext extracts the authenticated principal, if any.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	if ctx == nil {
		return Principal{}, false
	}
	v, ok := ctx.Value(principalContextKey{}).(*Principal)
	if !ok || v == nil {
		return Principal{}, false
	}
	return *v, true
}
