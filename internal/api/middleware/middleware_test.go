package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"staffdir/internal/domain/model"
)

func TestCORSAllowsConfiguredOrigin(t *testing.T) {
	t.Parallel()

	handler := CORS([]string{"http://localhost:5173"})(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}),
	)

	req := httptest.NewRequest(http.MethodPost, "/graphql", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Errorf("Allow-Origin = %q, want the request origin", got)
	}
	if got := rec.Header().Get("Access-Control-Allow-Credentials"); got != "true" {
		t.Errorf("Allow-Credentials = %q, want true", got)
	}
}

func TestCORSIgnoresUnknownOrigin(t *testing.T) {
	t.Parallel()

	handler := CORS([]string{"http://localhost:5173"})(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}),
	)

	req := httptest.NewRequest(http.MethodPost, "/graphql", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("Allow-Origin = %q, want no header for an unknown origin", got)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, the request itself still goes through", rec.Code)
	}
}

func TestCORSAnswersPreflight(t *testing.T) {
	t.Parallel()

	called := false
	handler := CORS([]string{"http://localhost:5173"})(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
		}),
	)

	req := httptest.NewRequest(http.MethodOptions, "/graphql", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("preflight status = %d, want 204", rec.Code)
	}
	if called {
		t.Error("preflight must not reach the next handler")
	}
}

func TestIdentityContextRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	if got := IdentityFromContext(ctx); got != nil {
		t.Errorf("empty context identity = %+v, want nil", got)
	}

	user := &model.User{ID: "id-1", Username: "worker", Role: model.RoleEmployee}
	ctx = WithIdentity(ctx, user)
	if got := IdentityFromContext(ctx); got != user {
		t.Errorf("identity = %+v, want the stored user", got)
	}

	// A nil identity is stored as nil, not as a typed non-nil value.
	ctx = WithIdentity(context.Background(), nil)
	if got := IdentityFromContext(ctx); got != nil {
		t.Errorf("nil identity round-tripped to %+v", got)
	}
}

func TestLoadersContextRoundTrip(t *testing.T) {
	t.Parallel()

	if got := LoadersFromContext(context.Background()); got != nil {
		t.Errorf("empty context loaders = %+v, want nil", got)
	}
}
