package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"staffdir/internal/api"
	"staffdir/internal/api/graph"
	"staffdir/internal/app/service"
	"staffdir/internal/common/security"
	"staffdir/internal/domain/repository"
	"staffdir/internal/platform/cache"
	"staffdir/internal/platform/config"
	"staffdir/internal/platform/database"
	"staffdir/internal/platform/logger"
)

func main() {
	// 1. Load Configuration
	config.Load()
	logger.SetupDefault(os.Stdout)

	// 2. Initialize JWT
	security.InitJWT()

	// 3. Initialize Database
	database.Connect()
	defer database.Close()
	if err := database.RunMigrations(config.AppConfig.DatabaseURL); err != nil {
		log.Fatalf("Could not run migrations: %v", err)
	}
	slog.Info("database connected and migrated")

	// 4. Initialize Redis
	cache.ConnectRedis()
	defer cache.CloseRedis()
	slog.Info("redis connected")

	// 5. Initialize Repositories
	userRepo := repository.NewPgUserRepository(database.DB)
	employeeRepo := repository.NewPgEmployeeRepository(database.DB)

	// 6. Initialize Services
	authService := service.NewAuthService(userRepo)
	employeeService := service.NewEmployeeService(employeeRepo, cache.RDB, config.AppConfig.StatsCacheTTL)

	// 7. Initialize Router & HTTP Server
	resolver := graph.NewResolver(authService, employeeService)
	router, err := api.NewRouter(database.DB, cache.RDB, authService, employeeRepo, resolver, prometheus.NewRegistry())
	if err != nil {
		log.Fatalf("Could not build router: %v", err)
	}

	server := &http.Server{
		Addr:         ":" + config.AppConfig.APIPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// 8. Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", config.AppConfig.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not listen on %s: %v\n", config.AppConfig.APIPort, err)
		}
	}()

	<-stop // Wait for interrupt signal

	slog.Info("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}
	slog.Info("server stopped gracefully")
}
