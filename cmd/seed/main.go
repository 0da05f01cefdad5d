package main

import (
	"context"
	"errors"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/zatekoja/lickingclean/internal/adapters/cache"
	"github.com/zatekoja/lickingclean/internal/adapters/database"
	"github.com/zatekoja/lickingclean/internal/backend"
	"github.com/zatekoja/lickingclean/internal/domain/entities"
	"github.com/zatekoja/lickingclean/internal/infrastructure/clients/postgres"
	redisclient "github.com/zatekoja/lickingclean/internal/infrastructure/clients/redis"
	"github.com/zatekoja/lickingclean/internal/infrastructure/observability"
	"github.com/zatekoja/lickingclean/pkg/config"
	"github.com/zatekoja/lickingclean/pkg/retry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	observability.InitLogger("licking-clean-seed", cfg.Server.Environment)

	dsn, err := backend.DSN(cfg.Backend.URL, cfg.Backend.Key)
	if errors.Is(err, backend.ErrNotConfigured) {
		log.Warn().Err(err).Msg("nothing to seed")
		os.Exit(0)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("invalid backend configuration")
	}

	client, err := postgres.Open(dsn)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	err = retry.DoWithLog(ctx, retry.DefaultConfig(), "Postgres", func() error {
		return client.Ping(ctx)
	}, func(attempt int, err error, nextDelay time.Duration) {
		log.Warn().Err(err).Int("attempt", attempt).Dur("next_delay", nextDelay).Msg("database ping failed, retrying")
	})
	if err != nil {
		log.Fatal().Err(err).Msg("database unreachable")
	}

	if err := database.Migrate(ctx, client); err != nil {
		log.Fatal().Err(err).Msg("failed to apply schema")
	}
	log.Info().Msg("schema applied")

	provider := entities.FallbackProvider()
	provider.Bio = strings.TrimPrefix(provider.Bio, "MOCK ")
	if err := database.UpsertProvider(ctx, client, provider); err != nil {
		log.Fatal().Err(err).Msg("failed to seed provider")
	}
	log.Info().Int64("provider_id", provider.ID).Str("name", provider.Name).Msg("provider seeded")

	if cfg.Redis.Enabled {
		invalidateCachedProvider(ctx, &cfg.Redis, provider.ID)
	}
}

// invalidateCachedProvider drops a stale cached copy so the site shows the seeded row
func invalidateCachedProvider(ctx context.Context, cfg *config.RedisConfig, id int64) {
	client, err := redisclient.NewClient(ctx, cfg)
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable, cached provider left to expire")
		return
	}
	defer client.Close()

	if err := database.InvalidateProvider(ctx, cache.NewRedisAdapter(client, cache.SiteNamespace), id); err != nil {
		log.Warn().Err(err).Msg("failed to invalidate cached provider")
		return
	}
	log.Info().Int64("provider_id", id).Msg("cached provider invalidated")
}
