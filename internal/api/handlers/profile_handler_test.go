package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/lickingclean/internal/api/handlers"
	"github.com/zatekoja/lickingclean/internal/api/middleware"
	"github.com/zatekoja/lickingclean/internal/application/services"
	"github.com/zatekoja/lickingclean/internal/backend"
	"github.com/zatekoja/lickingclean/internal/domain/entities"
)

type MockProviderRepository struct {
	mock.Mock
}

func (m *MockProviderRepository) GetByID(ctx context.Context, id int64) (*entities.Provider, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Provider), args.Error(1)
}

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) Create(ctx context.Context, booking *entities.Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}

func newHandler(t *testing.T) *handlers.ProfileHandler {
	t.Helper()
	handler, err := handlers.NewProfileHandler()
	require.NoError(t, err)
	return handler
}

func loadedController(handle backend.Handle) *services.ProfileController {
	controller := services.NewProfileController(handle)
	controller.Load(context.Background())
	return controller
}

func requestWith(controller *services.ProfileController, method, target string) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	if controller != nil {
		req = req.WithContext(middleware.WithController(req.Context(), controller))
	}
	return req
}

func TestProfileHandler_RenderProfile(t *testing.T) {
	handler := newHandler(t)
	controller := loadedController(backend.Absent("not configured"))

	w := httptest.NewRecorder()
	handler.RenderProfile(w, requestWith(controller, http.MethodGet, "/"))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))

	body := w.Body.String()
	assert.Contains(t, body, "Maria Rodriguez")
	assert.Contains(t, body, "MOCK Professional house cleaner")
	assert.Contains(t, body, "5/5 stars")
	assert.Contains(t, body, ">MR<")
	assert.Contains(t, body, "Book Now")
	assert.Contains(t, body, "↓ Sort by Highest Rating")
	assert.Contains(t, body, "Sort reviews by highest rating first")
	assert.Contains(t, body, "2/15/2024")
	assert.Contains(t, body, "© 2024 Licking Clean")
	assert.NotContains(t, body, "Loading provider...")
	assert.NotContains(t, body, `role="status"`)
}

func TestProfileHandler_RenderProfile_Loading(t *testing.T) {
	handler := newHandler(t)
	controller := services.NewProfileController(backend.Absent(""))

	w := httptest.NewRecorder()
	handler.RenderProfile(w, requestWith(controller, http.MethodGet, "/"))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Loading provider...")
}

func TestProfileHandler_RenderProfile_EscapesProviderContent(t *testing.T) {
	providers := new(MockProviderRepository)
	providers.On("GetByID", mock.Anything, int64(1)).
		Return(&entities.Provider{ID: 1, Name: "<script>alert(1)</script>", Bio: "bio", Rating: 3}, nil)
	handler := newHandler(t)
	controller := loadedController(backend.Present(backend.Stores{Providers: providers}, nil))

	w := httptest.NewRecorder()
	handler.RenderProfile(w, requestWith(controller, http.MethodGet, "/"))

	body := w.Body.String()
	assert.NotContains(t, body, "<script>alert(1)</script>")
	assert.Contains(t, body, "3/5 stars")
}

func TestProfileHandler_WithoutSession(t *testing.T) {
	handler := newHandler(t)

	w := httptest.NewRecorder()
	handler.GetProfile(w, requestWith(nil, http.MethodGet, "/api/profile"))
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	w = httptest.NewRecorder()
	handler.RenderProfile(w, requestWith(nil, http.MethodGet, "/"))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestProfileHandler_GetProfile(t *testing.T) {
	handler := newHandler(t)
	controller := loadedController(backend.Absent("not configured"))

	w := httptest.NewRecorder()
	handler.GetProfile(w, requestWith(controller, http.MethodGet, "/api/profile"))

	require.Equal(t, http.StatusOK, w.Code)
	var response handlers.ProfileResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))

	assert.False(t, response.Loading)
	require.NotNil(t, response.Provider)
	assert.Equal(t, "Maria Rodriguez", response.Provider.Name)
	assert.Equal(t, "fallback", response.Source)
	assert.Equal(t, "no_backend", response.FallbackReason)
	assert.Equal(t, "original", response.SortMode)
	assert.Equal(t, "↓ Sort by Highest Rating", response.NextSortLabel)
	assert.Len(t, response.Reviews, 3)
}

func TestProfileHandler_CreateBooking(t *testing.T) {
	t.Run("absent backend", func(t *testing.T) {
		handler := newHandler(t)
		controller := loadedController(backend.Absent("not configured"))

		w := httptest.NewRecorder()
		handler.CreateBooking(w, requestWith(controller, http.MethodPost, "/api/bookings"))

		require.Equal(t, http.StatusOK, w.Code)
		var response handlers.BookingResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
		assert.Equal(t, "Booking Saved! (Mock - no backend connection)", response.Status)
		assert.Equal(t, "mock_no_backend", response.Outcome)
		assert.False(t, response.InProgress)
	})

	t.Run("backend error is still a 200", func(t *testing.T) {
		providers := new(MockProviderRepository)
		bookings := new(MockBookingRepository)
		providers.On("GetByID", mock.Anything, int64(1)).Return(entities.FallbackProvider(), nil)
		bookings.On("Create", mock.Anything, mock.Anything).Return(errors.New("relation \"bookings\" does not exist"))

		handler := newHandler(t)
		controller := loadedController(backend.Present(backend.Stores{Providers: providers, Bookings: bookings}, nil))

		w := httptest.NewRecorder()
		handler.CreateBooking(w, requestWith(controller, http.MethodPost, "/api/bookings"))

		require.Equal(t, http.StatusOK, w.Code)
		var response handlers.BookingResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
		assert.Equal(t, "Booking Saved! (Mock - backend error)", response.Status)
		assert.NotContains(t, w.Body.String(), "does not exist")
	})
}

func TestProfileHandler_SortReviews(t *testing.T) {
	handler := newHandler(t)
	controller := loadedController(backend.Absent(""))

	sort := func() handlers.SortResponse {
		w := httptest.NewRecorder()
		handler.SortReviews(w, requestWith(controller, http.MethodPost, "/api/reviews/sort"))
		require.Equal(t, http.StatusOK, w.Code)

		var response handlers.SortResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
		return response
	}
	reviewIDs := func(reviews []entities.Review) []int {
		ids := make([]int, 0, len(reviews))
		for _, r := range reviews {
			ids = append(ids, r.ID)
		}
		return ids
	}

	first := sort()
	assert.Equal(t, "desc", first.SortMode)
	assert.Equal(t, "↑ Sort by Lowest Rating", first.NextLabel)
	assert.Equal(t, []int{2, 3, 1}, reviewIDs(first.Reviews))

	second := sort()
	assert.Equal(t, "asc", second.SortMode)
	assert.Equal(t, "⟲ Reset to Original Order", second.NextLabel)
	assert.Equal(t, []int{1, 2, 3}, reviewIDs(second.Reviews))

	third := sort()
	assert.Equal(t, "original", third.SortMode)
	assert.Equal(t, entities.MockReviews(), third.Reviews)
}

func TestProfileHandler_FormPostsRedirect(t *testing.T) {
	handler := newHandler(t)
	controller := loadedController(backend.Absent("not configured"))

	w := httptest.NewRecorder()
	handler.SubmitBooking(w, requestWith(controller, http.MethodPost, "/book"))
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	w = httptest.NewRecorder()
	handler.SubmitSort(w, requestWith(controller, http.MethodPost, "/reviews/sort"))
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	w = httptest.NewRecorder()
	handler.RenderProfile(w, requestWith(controller, http.MethodGet, "/"))
	body := w.Body.String()
	assert.Contains(t, body, "Booking Saved! (Mock - no backend connection)")
	assert.Contains(t, body, "↑ Sort by Lowest Rating")
}
