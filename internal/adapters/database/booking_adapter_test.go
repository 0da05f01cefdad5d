package database_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/lickingclean/internal/adapters/database"
	"github.com/zatekoja/lickingclean/internal/domain/entities"
	apperrors "github.com/zatekoja/lickingclean/pkg/errors"
)

func TestBookingAdapter_Create(t *testing.T) {
	at := time.Date(2024, 2, 15, 14, 30, 0, 0, time.UTC)

	t.Run("inserts provider id and timestamp", func(t *testing.T) {
		client, mock := setupMockDB(t)
		adapter := database.NewBookingAdapter(client)
		booking := entities.NewBooking(1, at)

		mock.ExpectQuery(`INSERT INTO "bookings" \("provider_id", "timestamp"\) VALUES \(1, '2024-02-15T14:30:00.000Z'\) RETURNING "id"`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(42))

		err := adapter.Create(context.Background(), booking)

		require.NoError(t, err)
		assert.Equal(t, int64(42), booking.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("insert failure is internal", func(t *testing.T) {
		client, mock := setupMockDB(t)
		adapter := database.NewBookingAdapter(client)

		mock.ExpectQuery(`INSERT INTO "bookings"`).
			WillReturnError(errors.New("violates foreign key constraint"))

		err := adapter.Create(context.Background(), entities.NewBooking(7, at))

		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeInternal))
	})

	t.Run("rejects a booking without provider", func(t *testing.T) {
		client, mock := setupMockDB(t)
		adapter := database.NewBookingAdapter(client)

		err := adapter.Create(context.Background(), &entities.Booking{})

		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
