package services

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/zatekoja/lickingclean/internal/backend"
	"github.com/zatekoja/lickingclean/internal/domain/entities"
	"github.com/zatekoja/lickingclean/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/lickingclean/pkg/errors"
)

// DefaultStatusTTL is how long a booking status message stays visible
const DefaultStatusTTL = 3 * time.Second

// Booking status messages. The visitor never sees a failure; mock variants
// carry a qualifier naming why the booking was simulated.
const (
	StatusBookingSaved        = "Booking Saved!"
	StatusMockNoBackend       = "Booking Saved! (Mock - no backend connection)"
	StatusMockBackendError    = "Booking Saved! (Mock - backend error)"
	StatusMockConnectionError = "Booking Saved! (Mock - connection error)"
	StatusMockRateLimited     = "Booking Saved! (Mock - rate limited)"
)

// FetchSource tells where the displayed provider came from
type FetchSource string

const (
	FetchSourceBackend  FetchSource = "backend"
	FetchSourceFallback FetchSource = "fallback"
)

// FallbackReason names the failure that caused the fallback provider to be shown
type FallbackReason string

const (
	ReasonNone        FallbackReason = ""
	ReasonNoBackend   FallbackReason = "no_backend"
	ReasonQueryError  FallbackReason = "query_error"
	ReasonEmptyResult FallbackReason = "empty_result"
	ReasonPanic       FallbackReason = "panic"
)

// FetchResult is Fetched(provider) or Fallback(provider, reason). Provider is never nil.
type FetchResult struct {
	Source   FetchSource
	Provider *entities.Provider
	Reason   FallbackReason
	Err      error
}

// Fetched wraps a provider read from the backend
func Fetched(provider *entities.Provider) FetchResult {
	return FetchResult{Source: FetchSourceBackend, Provider: provider}
}

// Fallback wraps the literal fallback provider with the reason it was used
func Fallback(reason FallbackReason, err error) FetchResult {
	return FetchResult{
		Source:   FetchSourceFallback,
		Provider: entities.FallbackProvider(),
		Reason:   reason,
		Err:      err,
	}
}

// IsFallback reports whether the fallback provider is being shown
func (r FetchResult) IsFallback() bool {
	return r.Source == FetchSourceFallback
}

// BookingOutcome tells how a booking attempt resolved
type BookingOutcome string

const (
	BookingSaved               BookingOutcome = "saved"
	BookingMockNoBackend       BookingOutcome = "mock_no_backend"
	BookingMockBackendError    BookingOutcome = "mock_backend_error"
	BookingMockConnectionError BookingOutcome = "mock_connection_error"
	BookingMockRateLimited     BookingOutcome = "mock_rate_limited"
	BookingSkippedNoProvider   BookingOutcome = "skipped_no_provider"
	BookingSkippedInProgress   BookingOutcome = "skipped_in_progress"
)

// Status returns the message shown to the visitor for the outcome
func (o BookingOutcome) Status() string {
	switch o {
	case BookingSaved:
		return StatusBookingSaved
	case BookingMockNoBackend:
		return StatusMockNoBackend
	case BookingMockBackendError:
		return StatusMockBackendError
	case BookingMockConnectionError:
		return StatusMockConnectionError
	case BookingMockRateLimited:
		return StatusMockRateLimited
	default:
		return ""
	}
}

// BookingResult is returned by Book
type BookingResult struct {
	Outcome   BookingOutcome
	Status    string
	BookingID int64
	Err       error
}

// ProfileView is a point-in-time copy of the controller state used for rendering
type ProfileView struct {
	Loading           bool
	Provider          *entities.Provider
	Source            FetchSource
	FallbackReason    FallbackReason
	Reviews           []entities.Review
	SortMode          SortMode
	BookingInProgress bool
	Status            string
}

// ControllerOption configures a ProfileController
type ControllerOption func(*ProfileController)

// WithStatusTTL overrides how long booking status messages stay visible
func WithStatusTTL(ttl time.Duration) ControllerOption {
	return func(c *ProfileController) {
		if ttl > 0 {
			c.statusTTL = ttl
		}
	}
}

// WithClock overrides the clock used for booking timestamps
func WithClock(now func() time.Time) ControllerOption {
	return func(c *ProfileController) {
		c.now = now
	}
}

// WithMetrics records load and booking outcomes
func WithMetrics(metrics *observability.Metrics) ControllerOption {
	return func(c *ProfileController) {
		c.metrics = metrics
	}
}

// WithOnReady registers a hook called each time a Load settles
func WithOnReady(fn func()) ControllerOption {
	return func(c *ProfileController) {
		c.onReady = fn
	}
}

// ProfileController owns the state of one profile page: the provider, the
// review list and its sort mode, the booking-in-progress flag and the status
// line. All state changes go through its methods.
type ProfileController struct {
	handle    backend.Handle
	statusTTL time.Duration
	now       func() time.Time
	metrics   *observability.Metrics
	onReady   func()

	mu                sync.Mutex
	loading           bool
	provider          *entities.Provider
	lastFetch         FetchResult
	reviews           []entities.Review
	sortMode          SortMode
	bookingInProgress bool
	status            string
}

// NewProfileController creates a controller in the loading state
func NewProfileController(handle backend.Handle, opts ...ControllerOption) *ProfileController {
	c := &ProfileController{
		handle:    handle,
		statusTTL: DefaultStatusTTL,
		now:       time.Now,
		loading:   true,
		reviews:   entities.MockReviews(),
		sortMode:  SortOriginal,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Load fetches the profile provider and always settles with a provider shown.
// The loading flag clears exactly once per call, whichever path ran.
// Cancellation of ctx does not abort the read.
func (c *ProfileController) Load(ctx context.Context) FetchResult {
	c.mu.Lock()
	c.loading = true
	c.mu.Unlock()
	defer c.finishLoading()

	ctx = context.WithoutCancel(ctx)
	result := c.fetchProvider(ctx)

	logger := observability.LoggerFromContext(ctx)
	switch result.Reason {
	case ReasonNone:
	case ReasonNoBackend:
		logger.Info().Str("reason", c.handle.Reason()).Msg("backend unavailable, using fallback provider")
	default:
		logger.Error().Err(result.Err).Str("fallback_reason", string(result.Reason)).Msg("error fetching provider, using fallback provider")
	}
	observability.RecordProfileLoad(ctx, c.metrics, string(result.Source), string(result.Reason))

	c.mu.Lock()
	c.provider = result.Provider
	c.lastFetch = result
	c.mu.Unlock()

	return result
}

func (c *ProfileController) finishLoading() {
	c.mu.Lock()
	c.loading = false
	c.mu.Unlock()

	if c.onReady != nil {
		c.onReady()
	}
}

func (c *ProfileController) fetchProvider(ctx context.Context) (result FetchResult) {
	defer func() {
		if r := recover(); r != nil {
			result = Fallback(ReasonPanic, fmt.Errorf("provider fetch panicked: %v", r))
		}
	}()

	stores, ok := c.handle.Stores()
	if !ok {
		return Fallback(ReasonNoBackend, apperrors.NewUnavailableError(c.handle.Reason()))
	}

	start := time.Now()
	provider, err := stores.Providers.GetByID(ctx, entities.ProfileProviderID)
	observability.RecordDBMetric(ctx, c.metrics, "providers.get_by_id", time.Since(start))

	switch {
	case apperrors.IsType(err, apperrors.ErrorTypeNotFound):
		return Fallback(ReasonEmptyResult, err)
	case err != nil:
		return Fallback(ReasonQueryError, err)
	case provider == nil:
		return Fallback(ReasonEmptyResult, apperrors.NewNotFoundError(
			fmt.Sprintf("provider with id %d not found", entities.ProfileProviderID)))
	}

	return Fetched(provider)
}

// Book records a booking for the loaded provider. It is a no-op when no
// provider is loaded or a previous booking is still in flight. Backend
// failures are reported as simulated success. Every attempt that runs
// schedules its own status clear after the status TTL; the timers are
// independent, so an earlier timer can clear a later message.
func (c *ProfileController) Book(ctx context.Context) (result BookingResult) {
	c.mu.Lock()
	if c.provider == nil {
		c.mu.Unlock()
		return BookingResult{Outcome: BookingSkippedNoProvider}
	}
	if c.bookingInProgress {
		status := c.status
		c.mu.Unlock()
		return BookingResult{Outcome: BookingSkippedInProgress, Status: status}
	}
	c.bookingInProgress = true
	providerID := c.provider.ID
	c.mu.Unlock()

	ctx = context.WithoutCancel(ctx)

	defer func() {
		result.Status = result.Outcome.Status()

		c.mu.Lock()
		c.bookingInProgress = false
		c.status = result.Status
		c.mu.Unlock()

		observability.RecordBookingOutcome(ctx, c.metrics, string(result.Outcome))
		time.AfterFunc(c.statusTTL, c.clearStatus)
	}()

	return c.insertBooking(ctx, providerID)
}

// BookThrottled settles a booking attempt refused before it reached the
// backend. Nothing is inserted; the visitor sees the simulated-success status
// and it clears after the status TTL like any other booking.
func (c *ProfileController) BookThrottled(ctx context.Context) BookingResult {
	c.mu.Lock()
	if c.provider == nil {
		c.mu.Unlock()
		return BookingResult{Outcome: BookingSkippedNoProvider}
	}
	if c.bookingInProgress {
		status := c.status
		c.mu.Unlock()
		return BookingResult{Outcome: BookingSkippedInProgress, Status: status}
	}
	c.status = StatusMockRateLimited
	c.mu.Unlock()

	observability.LoggerFromContext(ctx).Warn().Msg("booking throttled, reporting mock success")
	observability.RecordBookingOutcome(ctx, c.metrics, string(BookingMockRateLimited))
	time.AfterFunc(c.statusTTL, c.clearStatus)

	return BookingResult{Outcome: BookingMockRateLimited, Status: StatusMockRateLimited}
}

func (c *ProfileController) insertBooking(ctx context.Context, providerID int64) (result BookingResult) {
	logger := observability.LoggerFromContext(ctx)

	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("booking insert panicked: %v", r)
			logger.Error().Err(err).Msg("connection error")
			result = BookingResult{Outcome: BookingMockConnectionError, Err: err}
		}
	}()

	stores, ok := c.handle.Stores()
	if !ok {
		return BookingResult{Outcome: BookingMockNoBackend}
	}

	booking := entities.NewBooking(providerID, c.now())

	start := time.Now()
	err := stores.Bookings.Create(ctx, booking)
	observability.RecordDBMetric(ctx, c.metrics, "bookings.create", time.Since(start))
	if err != nil {
		logger.Error().Err(err).Int64("provider_id", providerID).Msg("error creating booking")
		return BookingResult{Outcome: BookingMockBackendError, Err: err}
	}

	logger.Info().Int64("booking_id", booking.ID).Int64("provider_id", providerID).Msg("booking saved")
	return BookingResult{Outcome: BookingSaved, BookingID: booking.ID}
}

func (c *ProfileController) clearStatus() {
	c.mu.Lock()
	c.status = ""
	c.mu.Unlock()
}

// ToggleSort advances the review sort mode and returns the new review order
func (c *ProfileController) ToggleSort() ([]entities.Review, SortMode) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.reviews, c.sortMode = ToggleReviewSort(c.reviews, c.sortMode)
	return slices.Clone(c.reviews), c.sortMode
}

// Snapshot returns a copy of the current state
func (c *ProfileController) Snapshot() ProfileView {
	c.mu.Lock()
	defer c.mu.Unlock()

	var provider *entities.Provider
	if c.provider != nil {
		p := *c.provider
		provider = &p
	}

	return ProfileView{
		Loading:           c.loading,
		Provider:          provider,
		Source:            c.lastFetch.Source,
		FallbackReason:    c.lastFetch.Reason,
		Reviews:           slices.Clone(c.reviews),
		SortMode:          c.sortMode,
		BookingInProgress: c.bookingInProgress,
		Status:            c.status,
	}
}
