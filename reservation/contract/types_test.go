package contract

import (
	"errors"
	"testing"
	"time"
)

func TestParseDateCanonical(t *testing.T) {
	t.Parallel()

	d, err := ParseDate("2024-06-01")
	if err != nil {
		t.Fatalf("ParseDate() error = %v", err)
	}
	if d != "2024-06-01" {
		t.Fatalf("ParseDate() = %q", d)
	}
}

func TestParseDateRejectsLooseInput(t *testing.T) {
	t.Parallel()

	for _, input := range []string{"", "June 1", "01/06/2024", "2024-13-01"} {
		if _, err := ParseDate(input); !errors.Is(err, ErrInvalidDate) {
			t.Fatalf("ParseDate(%q) error = %v, want ErrInvalidDate", input, err)
		}
	}
}

func TestDateAddDaysAndOrdering(t *testing.T) {
	t.Parallel()

	d := NewDate(time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC))
	next := d.AddDays(1)
	if next != "2024-07-01" {
		t.Fatalf("AddDays(1) = %q", next)
	}
	if !d.Before(next) {
		t.Fatal("expected 2024-06-30 before 2024-07-01")
	}
}

func TestParseTimeOfDay(t *testing.T) {
	t.Parallel()

	tod, err := ParseTimeOfDay("18:00")
	if err != nil {
		t.Fatalf("ParseTimeOfDay() error = %v", err)
	}
	if tod != "18:00" {
		t.Fatalf("ParseTimeOfDay() = %q", tod)
	}

	if _, err := ParseTimeOfDay("25:00"); !errors.Is(err, ErrInvalidTime) {
		t.Fatalf("ParseTimeOfDay(25:00) error = %v, want ErrInvalidTime", err)
	}
}

func TestSlotRemaining(t *testing.T) {
	t.Parallel()

	s := Slot{MaxPartySize: 10, CurrentBooked: 8}
	if s.Remaining() != 2 {
		t.Fatalf("Remaining() = %d, want 2", s.Remaining())
	}
}
