package routes

import (
	"net/http"

	"github.com/zatekoja/lickingclean/internal/api/handlers"
	"github.com/zatekoja/lickingclean/internal/api/middleware"
	"github.com/zatekoja/lickingclean/internal/application/services"
	"github.com/zatekoja/lickingclean/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	profileHandler *handlers.ProfileHandler
	sessions       *services.SessionStore
	bookingLimiter *middleware.RateLimiter

	allowedOrigins []string
	secureCookies  bool
	metrics        *observability.Metrics
}

// Options carries the router's middleware settings
type Options struct {
	AllowedOrigins []string
	SecureCookies  bool
	BookingLimiter *middleware.RateLimiter
	Metrics        *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(profileHandler *handlers.ProfileHandler, sessions *services.SessionStore, opts Options) *Router {
	return &Router{
		mux:            http.NewServeMux(),
		profileHandler: profileHandler,
		sessions:       sessions,
		bookingLimiter: opts.BookingLimiter,
		allowedOrigins: opts.AllowedOrigins,
		secureCookies:  opts.SecureCookies,
		metrics:        opts.Metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	session := middleware.SessionMiddleware(r.sessions, r.secureCookies)
	withSession := func(h http.HandlerFunc) http.Handler {
		return session(h)
	}
	// Over-budget bookings go to the throttled handler, which still reports success
	booking := func(h, throttled http.HandlerFunc) http.Handler {
		if r.bookingLimiter == nil {
			return session(h)
		}
		return session(r.bookingLimiter.Limit(h, throttled))
	}

	// Page
	r.mux.Handle("GET /{$}", withSession(r.profileHandler.RenderProfile))
	r.mux.Handle("POST /book", booking(r.profileHandler.SubmitBooking, r.profileHandler.SubmitBookingThrottled))
	r.mux.Handle("POST /reviews/sort", withSession(r.profileHandler.SubmitSort))

	// JSON API
	r.mux.Handle("GET /api/profile", withSession(r.profileHandler.GetProfile))
	r.mux.Handle("POST /api/bookings", booking(r.profileHandler.CreateBooking, r.profileHandler.CreateBookingThrottled))
	r.mux.Handle("POST /api/reviews/sort", withSession(r.profileHandler.SortReviews))

	// Apply middleware in reverse order (last middleware wraps first)
	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	handler = middleware.ResponseOptimization(handler)

	// CORS wraps everything so preflights never reach the session layer
	handler = middleware.CORSMiddleware(r.allowedOrigins)(handler)

	return handler
}
