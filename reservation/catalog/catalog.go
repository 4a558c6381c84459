package catalog

import (
	"fmt"
	"sort"
	"strings"

	contractx "github.com/tanpawarit/cauldron-reservations/reservation/contract"
)

type Config struct {
	// Comma-separated service times, e.g. "18:00,20:00".
	ServiceTimes string `split_words:"true" default:"18:00,20:00"`
	SlotCapacity int    `split_words:"true" default:"10"`
}

// Catalog is the fixed set of daily service times and the per-slot
// capacity. Immutable after New; safe for concurrent readers.
type Catalog struct {
	times    []contractx.TimeOfDay
	capacity int
}

// New validates the configured service times. Configuration errors are
// programming-contract violations and must stop startup, not surface
// per-request.
func New(cfg Config) (*Catalog, error) {
	parts := strings.Split(cfg.ServiceTimes, ",")
	times := make([]contractx.TimeOfDay, 0, len(parts))
	seen := make(map[contractx.TimeOfDay]bool, len(parts))

	for _, part := range parts {
		raw := strings.TrimSpace(part)
		if raw == "" {
			continue
		}
		t, err := contractx.ParseTimeOfDay(raw)
		if err != nil {
			return nil, fmt.Errorf("catalog service time %q: %w", raw, err)
		}
		if seen[t] {
			return nil, fmt.Errorf("catalog service time %s is duplicated", t)
		}
		seen[t] = true
		times = append(times, t)
	}

	if len(times) == 0 {
		return nil, fmt.Errorf("catalog has no service times")
	}
	if cfg.SlotCapacity <= 0 {
		return nil, fmt.Errorf("catalog slot capacity must be positive, got %d", cfg.SlotCapacity)
	}

	// Canonical order is ascending time of day, so "next slot" scans can
	// rely on plain time ordering.
	sort.Slice(times, func(i, j int) bool { return times[i] < times[j] })

	return &Catalog{times: times, capacity: cfg.SlotCapacity}, nil
}

func MustNew(cfg Config) *Catalog {
	c, err := New(cfg)
	if err != nil {
		panic(err)
	}
	return c
}

// ServiceTimes returns the configured times in catalog order.
func (c *Catalog) ServiceTimes() []contractx.TimeOfDay {
	out := make([]contractx.TimeOfDay, len(c.times))
	copy(out, c.times)
	return out
}

func (c *Catalog) Contains(t contractx.TimeOfDay) bool {
	for _, st := range c.times {
		if st == t {
			return true
		}
	}
	return false
}

// CapacityOf returns the capacity of the (date, time) slot, or
// ErrOutOfCatalogSlot when the time is not a configured service time.
func (c *Catalog) CapacityOf(date contractx.Date, t contractx.TimeOfDay) (int, error) {
	if !c.Contains(t) {
		return 0, fmt.Errorf("%w: %s %s", contractx.ErrOutOfCatalogSlot, date, t)
	}
	return c.capacity, nil
}
