package database

import (
	"context"

	"github.com/doug-martin/goqu/v9"
	"github.com/zatekoja/lickingclean/internal/domain/entities"
	"github.com/zatekoja/lickingclean/internal/domain/repositories"
	"github.com/zatekoja/lickingclean/internal/infrastructure/clients/postgres"
	apperrors "github.com/zatekoja/lickingclean/pkg/errors"
)

const bookingsTable = "bookings"

// BookingAdapter implements the BookingRepository interface
type BookingAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewBookingAdapter creates a new booking adapter
func NewBookingAdapter(client *postgres.Client) repositories.BookingRepository {
	return &BookingAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create inserts a booking row. Only success or failure matters to callers;
// the returned id is recorded for logging.
func (a *BookingAdapter) Create(ctx context.Context, booking *entities.Booking) error {
	if booking == nil || booking.ProviderID == 0 {
		return apperrors.NewValidationError("booking requires a provider id")
	}

	record := goqu.Record{
		"provider_id": booking.ProviderID,
		"timestamp":   booking.Timestamp,
	}

	query, args, err := a.db.Insert(bookingsTable).
		Rows(record).
		Returning("id").
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if err := a.client.DB().QueryRowContext(ctx, query, args...).Scan(&booking.ID); err != nil {
		return apperrors.NewInternalError("failed to create booking", err)
	}

	return nil
}
