package api

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/graphql-go/handler"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"staffdir/internal/api/graph"
	"staffdir/internal/api/middleware"
	"staffdir/internal/app/service"
	"staffdir/internal/common"
	"staffdir/internal/domain/repository"
	"staffdir/internal/platform/config"
	"staffdir/internal/platform/metrics"
)

// NewRouter assembles the HTTP surface: the GraphQL endpoint with its
// identity and loader middleware, plus health and metrics.
func NewRouter(
	db *sql.DB,
	rdb *redis.Client,
	authService *service.AuthService,
	employeeRepo repository.EmployeeRepository,
	resolver *graph.Resolver,
	registry *prometheus.Registry,
) (http.Handler, error) {
	schema, err := graph.NewSchema(resolver)
	if err != nil {
		return nil, err
	}

	collector := metrics.NewCollector(registry)

	r := chi.NewRouter()

	// Base Middlewares
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))
	r.Use(middleware.CORS(config.AppConfig.CORSOrigins))

	r.Get("/health", healthHandler(db, rdb))
	r.Method(http.MethodGet, "/metrics", metrics.Handler(registry))

	graphqlHandler := handler.New(&handler.Config{
		Schema:     &schema,
		Pretty:     true,
		Playground: true,
	})

	r.Group(func(gr chi.Router) {
		gr.Use(middleware.Identity(authService))
		gr.Use(middleware.Loaders(employeeRepo))
		gr.Use(middleware.Metrics(collector))
		gr.Handle("/graphql", graphqlHandler)
	})

	return r, nil
}

type healthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Postgres  string `json:"postgres"`
	Redis     string `json:"redis"`
}

func healthHandler(db *sql.DB, rdb *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		resp := healthResponse{
			Status:    "healthy",
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Postgres:  "connected",
			Redis:     "connected",
		}
		if err := db.PingContext(ctx); err != nil {
			resp.Postgres = "disconnected"
			resp.Status = "degraded"
		}
		if rdb == nil {
			resp.Redis = "disabled"
		} else if err := rdb.Ping(ctx).Err(); err != nil {
			resp.Redis = "disconnected"
			resp.Status = "degraded"
		}

		code := http.StatusOK
		if resp.Status != "healthy" {
			code = http.StatusServiceUnavailable
		}
		common.RespondWithJSON(w, code, resp)
	}
}
