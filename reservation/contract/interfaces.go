package contract

import "context"

// Ledger is the system of record for bookings and the sole writer of
// slot capacity counters.
type Ledger interface {
	CreateBooking(ctx context.Context, req CreateBookingRequest) (Booking, error)
	CancelBooking(ctx context.Context, name string, date Date, timeOfDay TimeOfDay) (Booking, error)
}

// Index answers read-only availability queries from the same store the
// ledger writes to.
type Index interface {
	CheckAvailability(ctx context.Context, date Date, timeOfDay TimeOfDay, partySize int) (bool, error)
	FindNextAvailable(ctx context.Context, start Date, partySize int) (Slot, bool, error)
}

type InfoService interface {
	RestaurantDetails(ctx context.Context) ([]Attribute, error)
	Menu(ctx context.Context) ([]MenuItem, error)
	SubmitFeedback(ctx context.Context, name, email, message string) error
}

// Notifier delivers post-commit booking notifications. Failures are the
// caller's to log; they never affect the booking outcome.
type Notifier interface {
	BookingConfirmed(ctx context.Context, b Booking) error
	BookingCanceled(ctx context.Context, b Booking) error
}
