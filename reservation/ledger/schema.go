package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	contractx "github.com/tanpawarit/cauldron-reservations/reservation/contract"
)

// AvailabilitySlot is one row per configured slot occurrence. The ledger
// is the only writer of current_booked.
type AvailabilitySlot struct {
	bun.BaseModel `bun:"table:availability,alias:a"`

	Date          string `bun:"date,pk"`
	Time          string `bun:"time,pk"`
	MaxPartySize  int    `bun:"max_party_size,notnull"`
	CurrentBooked int    `bun:"current_booked,notnull,default:0"`
}

func (s *AvailabilitySlot) Slot() contractx.Slot {
	return contractx.Slot{
		Date:          contractx.Date(s.Date),
		Time:          contractx.TimeOfDay(s.Time),
		MaxPartySize:  s.MaxPartySize,
		CurrentBooked: s.CurrentBooked,
	}
}

// BookingRow is append-only: cancellation flips status, rows are never
// deleted.
type BookingRow struct {
	bun.BaseModel `bun:"table:bookings,alias:b"`

	ID            string     `bun:"id,pk"`
	CustomerName  string     `bun:"customer_name,notnull"`
	CustomerEmail string     `bun:"customer_email,notnull"`
	CustomerPhone string     `bun:"customer_phone,notnull"`
	BookingDate   string     `bun:"booking_date,notnull"`
	BookingTime   string     `bun:"booking_time,notnull"`
	PartySize     int        `bun:"party_size,notnull"`
	Status        string     `bun:"status,notnull"`
	CreatedAt     time.Time  `bun:"created_at,notnull"`
	CanceledAt    *time.Time `bun:"canceled_at"`
}

func (r *BookingRow) Booking() (contractx.Booking, error) {
	id, err := parseBookingID(r.ID)
	if err != nil {
		return contractx.Booking{}, err
	}
	return contractx.Booking{
		ID:         id,
		Name:       r.CustomerName,
		Email:      r.CustomerEmail,
		Phone:      r.CustomerPhone,
		Date:       contractx.Date(r.BookingDate),
		Time:       contractx.TimeOfDay(r.BookingTime),
		PartySize:  r.PartySize,
		Status:     contractx.BookingStatus(r.Status),
		CreatedAt:  r.CreatedAt,
		CanceledAt: r.CanceledAt,
	}, nil
}

// CreateSchema creates the availability and bookings tables when absent.
func CreateSchema(ctx context.Context, db *bun.DB) error {
	models := []any{
		(*AvailabilitySlot)(nil),
		(*BookingRow)(nil),
	}
	for _, model := range models {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("%w: create schema: %v", contractx.ErrStore, err)
		}
	}
	return nil
}
