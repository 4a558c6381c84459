package dispatch

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	contractx "github.com/tanpawarit/cauldron-reservations/reservation/contract"
)

// Parser normalizes the loosely-typed text the orchestrator hands in.
// Everything inward of the dispatch boundary sees strict types only.
type Parser struct {
	// DefaultYear resolves dates given without a year ("June 1").
	DefaultYear int
}

var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"02 Jan 2006",
	"2 Jan 2006",
	"Jan 2 2006",
	"Jan 2, 2006",
	"January 2 2006",
	"January 2, 2006",
	"2 January 2006",
}

var yearlessDateLayouts = []string{
	"Jan 2",
	"January 2",
	"2 Jan",
	"2 January",
	"01-02",
	"01/02",
}

func (p Parser) ParseDate(s string) (contractx.Date, error) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return "", fmt.Errorf("%w: empty", contractx.ErrInvalidDate)
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return contractx.NewDate(t), nil
		}
	}
	for _, layout := range yearlessDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			year := p.DefaultYear
			if year == 0 {
				year = time.Now().UTC().Year()
			}
			return contractx.NewDate(time.Date(year, t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)), nil
		}
	}
	return "", fmt.Errorf("%w: %q", contractx.ErrInvalidDate, raw)
}

var timeLayouts = []string{
	"15:04",
	"15:04:05",
	"3:04pm",
	"3pm",
}

func (p Parser) ParseTimeOfDay(s string) (contractx.TimeOfDay, error) {
	raw := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), " ", ""))
	if raw == "" {
		return "", fmt.Errorf("%w: empty", contractx.ErrInvalidTime)
	}

	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return contractx.TimeOfDay(t.Format("15:04")), nil
		}
	}
	return "", fmt.Errorf("%w: %q", contractx.ErrInvalidTime, raw)
}

func (p Parser) ParsePartySize(s string) (int, error) {
	raw := strings.TrimSpace(s)
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", contractx.ErrInvalidPartySize, raw)
	}
	if n <= 0 {
		return 0, fmt.Errorf("%w: %d", contractx.ErrInvalidPartySize, n)
	}
	return n, nil
}
