package handlers

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
	"time"

	"github.com/zatekoja/lickingclean/internal/api/middleware"
	"github.com/zatekoja/lickingclean/internal/application/services"
	"github.com/zatekoja/lickingclean/internal/domain/entities"
	"github.com/zatekoja/lickingclean/internal/infrastructure/observability"
)

//go:embed templates/*.html
var templateFS embed.FS

// ProfileHandler serves the profile page and its JSON API
type ProfileHandler struct {
	page *template.Template
}

// NewProfileHandler parses the embedded page template
func NewProfileHandler() (*ProfileHandler, error) {
	page, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &ProfileHandler{page: page}, nil
}

// ProfileResponse is the JSON shape of the page state
type ProfileResponse struct {
	Loading           bool               `json:"loading"`
	Provider          *entities.Provider `json:"provider"`
	Source            string             `json:"source"`
	FallbackReason    string             `json:"fallback_reason,omitempty"`
	Reviews           []entities.Review  `json:"reviews"`
	SortMode          string             `json:"sort_mode"`
	NextSortLabel     string             `json:"next_sort_label"`
	BookingInProgress bool               `json:"booking_in_progress"`
	Status            string             `json:"status,omitempty"`
}

// BookingResponse is returned by the booking endpoint. Backend failures still
// report a status; the outcome says whether the booking was simulated.
type BookingResponse struct {
	Status     string `json:"status"`
	Outcome    string `json:"outcome"`
	InProgress bool   `json:"in_progress"`
}

// SortResponse is returned by the review sort endpoint
type SortResponse struct {
	SortMode  string            `json:"sort_mode"`
	NextLabel string            `json:"next_label"`
	Reviews   []entities.Review `json:"reviews"`
}

type reviewView struct {
	entities.Review
	Stars       []bool
	DisplayDate string
}

type pageData struct {
	Loading           bool
	Provider          *entities.Provider
	Initials          string
	Stars             []bool
	Reviews           []reviewView
	SortLabel         string
	SortAriaLabel     string
	BookingInProgress bool
	Status            string
}

// RenderProfile handles GET /
func (h *ProfileHandler) RenderProfile(w http.ResponseWriter, r *http.Request) {
	controller, ok := middleware.ControllerFromContext(r.Context())
	if !ok {
		http.Error(w, "session unavailable", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := h.page.ExecuteTemplate(&buf, "profile.html", newPageData(controller.Snapshot())); err != nil {
		observability.LoggerFromContext(r.Context()).Error().Err(err).Msg("failed to render profile page")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// GetProfile handles GET /api/profile
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	controller, ok := middleware.ControllerFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusInternalServerError, "session unavailable")
		return
	}

	view := controller.Snapshot()
	respondWithJSON(w, http.StatusOK, ProfileResponse{
		Loading:           view.Loading,
		Provider:          view.Provider,
		Source:            string(view.Source),
		FallbackReason:    string(view.FallbackReason),
		Reviews:           view.Reviews,
		SortMode:          string(view.SortMode),
		NextSortLabel:     view.SortMode.NextActionLabel(),
		BookingInProgress: view.BookingInProgress,
		Status:            view.Status,
	})
}

// CreateBooking handles POST /api/bookings
func (h *ProfileHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	controller, ok := middleware.ControllerFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusInternalServerError, "session unavailable")
		return
	}

	result := controller.Book(r.Context())
	respondWithJSON(w, http.StatusOK, BookingResponse{
		Status:     result.Status,
		Outcome:    string(result.Outcome),
		InProgress: result.Outcome == services.BookingSkippedInProgress,
	})
}

// CreateBookingThrottled answers POST /api/bookings once the client is over its
// booking budget. The insert is skipped but the response matches a booking.
func (h *ProfileHandler) CreateBookingThrottled(w http.ResponseWriter, r *http.Request) {
	controller, ok := middleware.ControllerFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusInternalServerError, "session unavailable")
		return
	}

	result := controller.BookThrottled(r.Context())
	respondWithJSON(w, http.StatusOK, BookingResponse{
		Status:     result.Status,
		Outcome:    string(result.Outcome),
		InProgress: result.Outcome == services.BookingSkippedInProgress,
	})
}

// SortReviews handles POST /api/reviews/sort
func (h *ProfileHandler) SortReviews(w http.ResponseWriter, r *http.Request) {
	controller, ok := middleware.ControllerFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusInternalServerError, "session unavailable")
		return
	}

	reviews, mode := controller.ToggleSort()
	respondWithJSON(w, http.StatusOK, SortResponse{
		SortMode:  string(mode),
		NextLabel: mode.NextActionLabel(),
		Reviews:   reviews,
	})
}

// SubmitBooking handles the Book Now form post and redirects back to the page
func (h *ProfileHandler) SubmitBooking(w http.ResponseWriter, r *http.Request) {
	if controller, ok := middleware.ControllerFromContext(r.Context()); ok {
		controller.Book(r.Context())
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// SubmitBookingThrottled is SubmitBooking for a client over its booking budget
func (h *ProfileHandler) SubmitBookingThrottled(w http.ResponseWriter, r *http.Request) {
	if controller, ok := middleware.ControllerFromContext(r.Context()); ok {
		controller.BookThrottled(r.Context())
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// SubmitSort handles the sort toggle form post and redirects back to the page
func (h *ProfileHandler) SubmitSort(w http.ResponseWriter, r *http.Request) {
	if controller, ok := middleware.ControllerFromContext(r.Context()); ok {
		controller.ToggleSort()
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func newPageData(view services.ProfileView) pageData {
	data := pageData{
		Loading:           view.Loading,
		Provider:          view.Provider,
		Initials:          view.Provider.Initials(),
		Stars:             entities.StarGlyphs(view.Provider.DisplayRating()),
		SortLabel:         view.SortMode.NextActionLabel(),
		SortAriaLabel:     view.SortMode.AriaLabel(),
		BookingInProgress: view.BookingInProgress,
		Status:            view.Status,
	}
	for _, review := range view.Reviews {
		data.Reviews = append(data.Reviews, reviewView{
			Review:      review,
			Stars:       entities.StarGlyphs(review.Rating),
			DisplayDate: displayDate(review.Date),
		})
	}
	return data
}

// displayDate renders an ISO date as M/D/YYYY, leaving unparseable input as is
func displayDate(date string) string {
	t, err := time.Parse(time.DateOnly, date)
	if err != nil {
		return date
	}
	return t.Format("1/2/2006")
}
