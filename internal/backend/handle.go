// Package backend turns the two backend configuration strings into an optional
// set of data stores. It never fails: a missing, placeholder or unusable
// configuration produces an absent Handle and the site runs on fallback data.
package backend

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/zatekoja/lickingclean/internal/adapters/database"
	"github.com/zatekoja/lickingclean/internal/domain/providers"
	"github.com/zatekoja/lickingclean/internal/domain/repositories"
	"github.com/zatekoja/lickingclean/internal/infrastructure/clients/postgres"
	"github.com/zatekoja/lickingclean/pkg/config"
)

// Stores are the repositories reachable through a present Handle
type Stores struct {
	Providers repositories.ProviderRepository
	Bookings  repositories.BookingRepository
}

// Handle is either a live set of stores or an explicit absent marker.
// The zero value is absent.
type Handle struct {
	stores  Stores
	closer  io.Closer
	present bool
	reason  string
}

// Present wraps live stores. closer may be nil.
func Present(stores Stores, closer io.Closer) Handle {
	return Handle{stores: stores, closer: closer, present: true}
}

// Absent returns a handle with no backend; reason is for diagnostics only
func Absent(reason string) Handle {
	return Handle{reason: reason}
}

// Stores returns the repositories and whether the backend is present
func (h Handle) Stores() (Stores, bool) {
	return h.stores, h.present
}

// Present reports whether a backend is configured
func (h Handle) Present() bool {
	return h.present
}

// Reason explains why the handle is absent
func (h Handle) Reason() string {
	return h.reason
}

// Close releases the underlying connection pool, if any
func (h Handle) Close() error {
	if h.closer == nil {
		return nil
	}
	return h.closer.Close()
}

type options struct {
	cache providers.CacheProvider
}

// Option configures Connect
type Option func(*options)

// WithProviderCache puts a read-through cache in front of provider reads
func WithProviderCache(cache providers.CacheProvider) Option {
	return func(o *options) {
		o.cache = cache
	}
}

// ConnectConfig is Connect over the loaded backend configuration
func ConnectConfig(cfg *config.BackendConfig, opts ...Option) Handle {
	if cfg == nil {
		return Absent("backend not configured")
	}
	return Connect(cfg.URL, cfg.Key, opts...)
}

// Connect builds a handle from an endpoint URL and access key.
// It does not dial and does not retry; the first query is the first contact.
func Connect(endpoint, key string, opts ...Option) (h Handle) {
	defer func() {
		if r := recover(); r != nil {
			h = Absent(fmt.Sprintf("backend client construction panicked: %v", r))
			log.Error().Interface("panic", r).Msg("backend disabled")
		}
	}()

	dsn, err := DSN(endpoint, key)
	if errors.Is(err, ErrNotConfigured) {
		return Absent(err.Error())
	}
	if err != nil {
		log.Error().Err(err).Msg("backend disabled")
		return Absent(err.Error())
	}

	client, err := postgres.Open(dsn)
	if err != nil {
		log.Error().Err(err).Msg("backend disabled")
		return Absent(err.Error())
	}

	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	providerRepo := database.NewProviderAdapter(client)
	if o.cache != nil {
		providerRepo = database.NewCachedProviderAdapter(providerRepo, o.cache)
	}

	return Present(Stores{
		Providers: providerRepo,
		Bookings:  database.NewBookingAdapter(client),
	}, client)
}

// ErrNotConfigured is returned by DSN when either value is empty or a placeholder
var ErrNotConfigured = errors.New("backend url or key not configured")

// DSN resolves the endpoint and key to a connection string. Empty or
// placeholder values yield ErrNotConfigured.
func DSN(endpoint, key string) (string, error) {
	endpoint = strings.TrimSpace(endpoint)
	key = strings.TrimSpace(key)

	if endpoint == "" || key == "" {
		return "", ErrNotConfigured
	}
	if (&config.BackendConfig{URL: endpoint, Key: key}).IsPlaceholder() {
		return "", fmt.Errorf("%w: placeholder values", ErrNotConfigured)
	}
	return buildDSN(endpoint, key)
}

// buildDSN validates the endpoint and uses key as the password unless the URL already carries one
func buildDSN(endpoint, key string) (string, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", fmt.Errorf("invalid backend url: %w", err)
	}
	if u.Scheme != "postgres" && u.Scheme != "postgresql" {
		return "", fmt.Errorf("invalid backend url: unsupported scheme %q", u.Scheme)
	}
	if u.Hostname() == "" {
		return "", fmt.Errorf("invalid backend url: missing host")
	}

	if _, hasPassword := u.User.Password(); !hasPassword {
		username := u.User.Username()
		if username == "" {
			username = "postgres"
		}
		u.User = url.UserPassword(username, key)
	}

	return u.String(), nil
}
