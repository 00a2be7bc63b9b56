package middleware

import (
	"context"
	"net/http"

	"github.com/go-chi/jwtauth/v5"

	"staffdir/internal/app/service"
	"staffdir/internal/domain/model"
)

type contextKey string

const identityCtxKey contextKey = "identity"

// Identity resolves the request's bearer token to an account and stores it
// in the context. Resolution failures are non-fatal here: read guards and
// admin guards decide per operation, so an absent or invalid token simply
// means a nil identity.
func Identity(authService *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := jwtauth.TokenFromHeader(r)
			identity := authService.ResolveIdentity(r.Context(), token)
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		})
	}
}

func WithIdentity(ctx context.Context, identity *model.User) context.Context {
	return context.WithValue(ctx, identityCtxKey, identity)
}

// IdentityFromContext returns the authenticated account, or nil.
func IdentityFromContext(ctx context.Context) *model.User {
	identity, _ := ctx.Value(identityCtxKey).(*model.User)
	return identity
}
