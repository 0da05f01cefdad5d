package database

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/zatekoja/lickingclean/internal/domain/entities"
	"github.com/zatekoja/lickingclean/internal/domain/providers"
	"github.com/zatekoja/lickingclean/internal/domain/repositories"
)

// providerByIDTTL is the cache lifetime for a single provider, in seconds
const providerByIDTTL = 300

func providerCacheKey(id int64) string {
	return fmt.Sprintf("provider:%d", id)
}

// CachedProviderAdapter wraps a ProviderRepository with a read-through cache.
// Cache failures never fail a read.
type CachedProviderAdapter struct {
	adapter repositories.ProviderRepository
	cache   providers.CacheProvider
}

// NewCachedProviderAdapter creates a new cached provider adapter
func NewCachedProviderAdapter(adapter repositories.ProviderRepository, cache providers.CacheProvider) repositories.ProviderRepository {
	return &CachedProviderAdapter{
		adapter: adapter,
		cache:   cache,
	}
}

// GetByID retrieves a provider by ID, consulting the cache first
func (a *CachedProviderAdapter) GetByID(ctx context.Context, id int64) (*entities.Provider, error) {
	key := providerCacheKey(id)

	if cached, err := a.cache.Get(ctx, key); err == nil {
		var provider entities.Provider
		if err := json.Unmarshal(cached, &provider); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("discarding unreadable cached provider")
		} else {
			return &provider, nil
		}
	}

	provider, err := a.adapter.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(provider); err == nil {
		if err := a.cache.Set(ctx, key, data, providerByIDTTL); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("failed to cache provider")
		}
	}

	return provider, nil
}

// InvalidateProvider drops the cached copy of a provider so the next read goes to the database
func InvalidateProvider(ctx context.Context, cache providers.CacheProvider, id int64) error {
	return cache.Delete(ctx, providerCacheKey(id))
}
