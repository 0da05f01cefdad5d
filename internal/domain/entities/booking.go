package entities

import "time"

// BookingTimestampLayout matches JavaScript's Date.toISOString output
const BookingTimestampLayout = "2006-01-02T15:04:05.000Z"

// Booking represents a service request against a provider.
// Bookings are write-once.
type Booking struct {
	ID         int64      `json:"id" db:"id"`
	ProviderID int64      `json:"provider_id" db:"provider_id"`
	Timestamp  string     `json:"timestamp" db:"timestamp"`
	CreatedAt  *time.Time `json:"created_at,omitempty" db:"created_at"`
}

// NewBooking builds the insert payload for a provider at the given instant
func NewBooking(providerID int64, now time.Time) *Booking {
	return &Booking{
		ProviderID: providerID,
		Timestamp:  now.UTC().Format(BookingTimestampLayout),
	}
}
