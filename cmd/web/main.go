package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/zatekoja/lickingclean/internal/adapters/cache"
	"github.com/zatekoja/lickingclean/internal/api/handlers"
	"github.com/zatekoja/lickingclean/internal/api/middleware"
	"github.com/zatekoja/lickingclean/internal/api/routes"
	"github.com/zatekoja/lickingclean/internal/application/services"
	"github.com/zatekoja/lickingclean/internal/backend"
	redisclient "github.com/zatekoja/lickingclean/internal/infrastructure/clients/redis"
	"github.com/zatekoja/lickingclean/internal/infrastructure/observability"
	"github.com/zatekoja/lickingclean/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Server.Environment)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
		if err != nil {
			log.Warn().Err(err).Msg("failed to set up OpenTelemetry")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Error().Err(err).Msg("error shutting down OpenTelemetry")
				}
			}()
			log.Info().Str("endpoint", cfg.OTEL.Endpoint).Msg("OpenTelemetry initialized")
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize metrics")
	}

	// The provider cache is optional; the site runs without it
	var opts []backend.Option
	if cfg.Redis.Enabled {
		redisClient, err := redisclient.NewClient(ctx, &cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, provider reads are uncached")
		} else {
			defer redisClient.Close()
			opts = append(opts, backend.WithProviderCache(cache.NewRedisAdapter(redisClient, cache.SiteNamespace)))
		}
	}

	handle := backend.ConnectConfig(&cfg.Backend, opts...)
	defer handle.Close()
	if handle.Present() {
		log.Info().Msg("backend configured")
	} else {
		log.Warn().Str("reason", handle.Reason()).Msg("backend not available, serving fallback data")
	}

	sessions := services.NewSessionStore(func() *services.ProfileController {
		return services.NewProfileController(handle,
			services.WithStatusTTL(cfg.Booking.StatusTTL),
			services.WithMetrics(metrics),
		)
	}, cfg.Session.IdleTimeout)
	sessions.StartJanitor(ctx, time.Minute)
	defer sessions.Close()

	bookingLimiter := middleware.NewRateLimiter(cfg.Booking.RateLimit, cfg.Booking.RateBurst)
	go func() {
		ticker := time.NewTicker(10 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				bookingLimiter.Cleanup(10 * time.Minute)
			}
		}
	}()

	profileHandler, err := handlers.NewProfileHandler()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to parse page templates")
	}

	router := routes.NewRouter(profileHandler, sessions, routes.Options{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		SecureCookies:  cfg.Server.Environment == "production",
		BookingLimiter: bookingLimiter,
		Metrics:        metrics,
	})

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router.SetupRoutes(),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("server shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during server shutdown")
	}

	log.Info().Msg("server stopped")
}
