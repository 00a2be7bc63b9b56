package middleware

import (
	"context"
	"net/http"

	"staffdir/internal/app/loader"
	"staffdir/internal/domain/repository"
)

const loadersCtxKey contextKey = "loaders"

// Loaders attaches fresh batch loaders to every request. The loaders cache
// within one request only; sharing them across requests would leak stale
// records between callers.
func Loaders(employeeRepo repository.EmployeeRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := WithLoaders(r.Context(), loader.New(employeeRepo))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func WithLoaders(ctx context.Context, loaders *loader.Loaders) context.Context {
	return context.WithValue(ctx, loadersCtxKey, loaders)
}

func LoadersFromContext(ctx context.Context) *loader.Loaders {
	loaders, _ := ctx.Value(loadersCtxKey).(*loader.Loaders)
	return loaders
}
