package dispatch

import (
	"errors"
	"testing"

	contractx "github.com/tanpawarit/cauldron-reservations/reservation/contract"
)

func TestParserParseDate(t *testing.T) {
	t.Parallel()

	parser := Parser{DefaultYear: 2024}

	cases := []struct {
		in   string
		want contractx.Date
	}{
		{"2024-06-01", "2024-06-01"},
		{"2024/06/01", "2024-06-01"},
		{"01 Jun 2024", "2024-06-01"},
		{"1 Jun 2024", "2024-06-01"},
		{"Jun 1 2024", "2024-06-01"},
		{"Jun 1, 2024", "2024-06-01"},
		{"June 1, 2024", "2024-06-01"},
		{" 2024-06-01 ", "2024-06-01"},
		// Yearless forms fall back to DefaultYear.
		{"June 1", "2024-06-01"},
		{"Jun 1", "2024-06-01"},
		{"1 June", "2024-06-01"},
		{"06-01", "2024-06-01"},
		{"06/01", "2024-06-01"},
	}
	for _, tc := range cases {
		got, err := parser.ParseDate(tc.in)
		if err != nil {
			t.Fatalf("ParseDate(%q) error = %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParseDate(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestParserParseDateInvalid(t *testing.T) {
	t.Parallel()

	parser := Parser{DefaultYear: 2024}

	for _, in := range []string{"", "tomorrow", "2024-13-01", "32 Jun 2024", "garbage"} {
		_, err := parser.ParseDate(in)
		if !errors.Is(err, contractx.ErrInvalidDate) {
			t.Fatalf("ParseDate(%q) error = %v, want ErrInvalidDate", in, err)
		}
	}
}

func TestParserParseTimeOfDay(t *testing.T) {
	t.Parallel()

	parser := Parser{}

	cases := []struct {
		in   string
		want contractx.TimeOfDay
	}{
		{"18:00", "18:00"},
		{"18:00:00", "18:00"},
		{"6pm", "18:00"},
		{"6 PM", "18:00"},
		{"6:30pm", "18:30"},
		{"8:00 pm", "20:00"},
		{"08:00", "08:00"},
	}
	for _, tc := range cases {
		got, err := parser.ParseTimeOfDay(tc.in)
		if err != nil {
			t.Fatalf("ParseTimeOfDay(%q) error = %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParseTimeOfDay(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestParserParseTimeOfDayInvalid(t *testing.T) {
	t.Parallel()

	parser := Parser{}

	for _, in := range []string{"", "dinner", "25:00", "6:99pm"} {
		_, err := parser.ParseTimeOfDay(in)
		if !errors.Is(err, contractx.ErrInvalidTime) {
			t.Fatalf("ParseTimeOfDay(%q) error = %v, want ErrInvalidTime", in, err)
		}
	}
}

func TestParserParsePartySize(t *testing.T) {
	t.Parallel()

	parser := Parser{}

	got, err := parser.ParsePartySize(" 4 ")
	if err != nil {
		t.Fatalf("ParsePartySize(4) error = %v", err)
	}
	if got != 4 {
		t.Fatalf("ParsePartySize(4) = %d", got)
	}

	for _, in := range []string{"", "four", "0", "-2", "2.5"} {
		_, err := parser.ParsePartySize(in)
		if !errors.Is(err, contractx.ErrInvalidPartySize) {
			t.Fatalf("ParsePartySize(%q) error = %v, want ErrInvalidPartySize", in, err)
		}
	}
}
