package availability

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	catalogx "github.com/tanpawarit/cauldron-reservations/reservation/catalog"
	contractx "github.com/tanpawarit/cauldron-reservations/reservation/contract"
	ledgerx "github.com/tanpawarit/cauldron-reservations/reservation/ledger"
)

const DefaultHorizonDays = 90

// Index derives remaining capacity from the catalog and the ledger's
// availability rows. Read-only; every query is a single statement, so it
// observes committed state only.
type Index struct {
	db          *bun.DB
	catalog     *catalogx.Catalog
	horizonDays int
}

var _ contractx.Index = (*Index)(nil)

func New(db *bun.DB, catalog *catalogx.Catalog, horizonDays int) *Index {
	if horizonDays <= 0 {
		horizonDays = DefaultHorizonDays
	}
	return &Index{db: db, catalog: catalog, horizonDays: horizonDays}
}

// CheckAvailability reports whether the slot can seat the party. The
// comparison is inclusive: a party exactly filling the remaining seats
// fits.
func (i *Index) CheckAvailability(ctx context.Context, date contractx.Date, timeOfDay contractx.TimeOfDay, partySize int) (bool, error) {
	if partySize <= 0 {
		return false, fmt.Errorf("%w: %d", contractx.ErrInvalidPartySize, partySize)
	}
	capacity, err := i.catalog.CapacityOf(date, timeOfDay)
	if err != nil {
		return false, err
	}

	var slot ledgerx.AvailabilitySlot
	err = i.db.NewSelect().
		Model(&slot).
		Where(`"date" = ? AND "time" = ?`, string(date), string(timeOfDay)).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		// No row yet means no bookings yet; the full catalog capacity
		// remains.
		return partySize <= capacity, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: check availability: %v", contractx.ErrStore, err)
	}

	return partySize <= slot.MaxPartySize-slot.CurrentBooked, nil
}

// FindNextAvailable returns the first slot on or after start with room
// for the party, scanning ascending by date then catalog time order. The
// scan is bounded by the configured horizon; false means nothing within
// it.
func (i *Index) FindNextAvailable(ctx context.Context, start contractx.Date, partySize int) (contractx.Slot, bool, error) {
	if partySize <= 0 {
		return contractx.Slot{}, false, fmt.Errorf("%w: %d", contractx.ErrInvalidPartySize, partySize)
	}

	var slot ledgerx.AvailabilitySlot
	err := i.db.NewSelect().
		Model(&slot).
		Where(`"date" >= ?`, string(start)).
		Where(`"date" < ?`, string(start.AddDays(i.horizonDays))).
		Where("max_party_size - current_booked >= ?", partySize).
		Order("date ASC").
		Order("time ASC").
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return contractx.Slot{}, false, nil
	}
	if err != nil {
		return contractx.Slot{}, false, fmt.Errorf("%w: find next available: %v", contractx.ErrStore, err)
	}

	return slot.Slot(), true, nil
}
