package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/wecare/healthtracker/internal/adapters/cache"
	"github.com/wecare/healthtracker/internal/adapters/database"
	"github.com/wecare/healthtracker/internal/adapters/providers/ai"
	"github.com/wecare/healthtracker/internal/api/handlers"
	"github.com/wecare/healthtracker/internal/api/routes"
	"github.com/wecare/healthtracker/internal/application/services"
	"github.com/wecare/healthtracker/internal/domain/repositories"
	"github.com/wecare/healthtracker/internal/infrastructure/clients/postgres"
	"github.com/wecare/healthtracker/internal/infrastructure/clients/redis"
	"github.com/wecare/healthtracker/internal/infrastructure/observability"
	"github.com/wecare/healthtracker/internal/query/loaders"
	queryservices "github.com/wecare/healthtracker/internal/query/services"
	"github.com/wecare/healthtracker/pkg/config"
	"github.com/wecare/healthtracker/pkg/secrets"
)

func main() {
	// Secrets from Vault must be in the environment before config is read
	vaultResult, err := secrets.Apply(context.Background(), secrets.LoadVaultConfigFromEnv())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load Vault secrets: %v\n", err)
		os.Exit(1)
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Log.Env, cfg.Log.Level)
	if vaultResult.Enabled {
		log.Info().
			Str("path", vaultResult.Path).
			Int("loaded", vaultResult.Loaded).
			Int("skipped", vaultResult.Skipped).
			Msg("Vault secrets applied")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to set up OpenTelemetry")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Error().Err(err).Msg("Error shutting down OpenTelemetry")
				}
			}()
			log.Info().Str("endpoint", cfg.OTEL.Endpoint).Msg("OpenTelemetry initialized")
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize metrics")
	}

	// Initialize database client
	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize PostgreSQL client")
	}
	defer pgClient.Close()

	// Base adapters
	userRepo := database.NewUserAdapter(pgClient)
	var vitalSignRepo repositories.VitalSignRepository = database.NewVitalSignAdapter(pgClient)
	var medicationRepo repositories.MedicationRepository = database.NewMedicationAdapter(pgClient)
	var consultationRepo repositories.ConsultationRepository = database.NewConsultationAdapter(pgClient)

	// Wrap the collections with the Redis list cache when Redis is configured.
	// The application works without it.
	if cfg.Redis.Enabled() {
		redisClient, err := redis.NewClient(&cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Msg("Redis unavailable, collections will not be cached")
		} else {
			defer redisClient.Close()

			cacheProvider := cache.NewRedisAdapter(redisClient)
			ttl := int(cfg.Redis.CacheTTL.Seconds())
			vitalSignRepo = database.NewCachedVitalSignAdapter(vitalSignRepo, cacheProvider, ttl, metrics)
			medicationRepo = database.NewCachedMedicationAdapter(medicationRepo, cacheProvider, ttl, metrics)
			consultationRepo = database.NewCachedConsultationAdapter(consultationRepo, cacheProvider, ttl, metrics)
			log.Info().Str("addr", cfg.Redis.RedisAddr()).Msg("Collection cache enabled")
		}
	}

	// Writes bump the generation that in-flight reads are joined under
	writeGenerations := loaders.NewGenerations()

	// Read side
	queryService := queryservices.NewHealthQueryService(
		loaders.NewLoaders(vitalSignRepo, medicationRepo, consultationRepo, writeGenerations, loaders.DefaultWait),
		userRepo,
	)

	// Write side
	vitalSignService := services.NewVitalSignService(vitalSignRepo, writeGenerations)
	medicationService := services.NewMedicationService(medicationRepo, writeGenerations)
	userService := services.NewUserService(userRepo)
	consultationService := services.NewConsultationService(
		services.NewContextAggregator(database.NewSnapshotAdapter(pgClient)),
		ai.NewConsultationGenerator(&cfg.AI),
		consultationRepo,
		writeGenerations,
		metrics,
	)

	router := routes.NewRouter(
		handlers.NewVitalSignHandler(queryService, vitalSignService),
		handlers.NewMedicationHandler(queryService, medicationService),
		handlers.NewConsultationHandler(queryService, consultationService),
		handlers.NewUserHandler(queryService, userService),
		metrics,
		cfg.Server.AllowedOrigins,
	)

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router.SetupRoutes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("addr", serverAddr).Msg("Server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Server shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error during server shutdown")
	}

	log.Info().Msg("Server stopped")
}
