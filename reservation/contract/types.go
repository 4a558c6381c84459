package contract

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// Date is a calendar date in canonical YYYY-MM-DD form. The canonical
// form makes string ordering equal chronological ordering, both in Go
// and in SQL.
type Date string

func NewDate(t time.Time) Date {
	return Date(t.Format(dateLayout))
}

// ParseDate accepts only the canonical layout. Loose textual dates are
// normalized at the dispatch boundary before they become a Date.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return NewDate(t), nil
}

func (d Date) Time() time.Time {
	t, _ := time.Parse(dateLayout, string(d))
	return t
}

func (d Date) AddDays(n int) Date {
	return NewDate(d.Time().AddDate(0, 0, n))
}

func (d Date) Before(other Date) bool {
	return d < other
}

func (d Date) String() string {
	return string(d)
}

// TimeOfDay is a service time in canonical HH:MM form.
type TimeOfDay string

func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}
	return TimeOfDay(t.Format(timeLayout)), nil
}

func (t TimeOfDay) String() string {
	return string(t)
}

type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCanceled  BookingStatus = "canceled"
)

// Booking is one ledger entry. Entries are never deleted; cancellation
// flips Status and stamps CanceledAt.
type Booking struct {
	ID         uuid.UUID     `json:"id"`
	Name       string        `json:"name"`
	Email      string        `json:"email"`
	Phone      string        `json:"phone"`
	Date       Date          `json:"date"`
	Time       TimeOfDay     `json:"time"`
	PartySize  int           `json:"party_size"`
	Status     BookingStatus `json:"status"`
	CreatedAt  time.Time     `json:"created_at"`
	CanceledAt *time.Time    `json:"canceled_at,omitempty"`
}

// Slot is one bookable (date, time) occurrence with its capacity state.
type Slot struct {
	Date          Date      `json:"date"`
	Time          TimeOfDay `json:"time"`
	MaxPartySize  int       `json:"max_party_size"`
	CurrentBooked int       `json:"current_booked"`
}

func (s Slot) Remaining() int {
	return s.MaxPartySize - s.CurrentBooked
}

// CreateBookingRequest carries the already-validated parameters of a
// booking into the ledger.
type CreateBookingRequest struct {
	Name      string
	Email     string
	Phone     string
	Date      Date
	Time      TimeOfDay
	PartySize int
}

// ToolResult is what a dispatch operation hands back to the orchestrator.
// Expected failures travel in Error; Result carries the typed payload.
type ToolResult struct {
	Tool   string `json:"tool"`
	Result any    `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Attribute is one restaurant detail (address, phone, opening hours...).
type Attribute struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

type MenuItem struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	DietaryTags string  `json:"dietary_tags"`
}
