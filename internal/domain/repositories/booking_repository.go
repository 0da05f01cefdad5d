package repositories

import (
	"context"

	"github.com/zatekoja/lickingclean/internal/domain/entities"
)

// BookingRepository defines the interface for booking data operations
type BookingRepository interface {
	// Create inserts a booking and records the server-assigned ID on it
	Create(ctx context.Context, booking *entities.Booking) error
}
