package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	catalogx "github.com/tanpawarit/cauldron-reservations/reservation/catalog"
	contractx "github.com/tanpawarit/cauldron-reservations/reservation/contract"
)

// Ledger owns the only mutating operations on bookings and slot
// counters. Concurrency is resolved at the store: the capacity check and
// counter update are a single guarded UPDATE inside one transaction, so
// two racing creates on the last seats cannot both commit.
type Ledger struct {
	db      *bun.DB
	catalog *catalogx.Catalog
}

var _ contractx.Ledger = (*Ledger)(nil)

func New(db *bun.DB, catalog *catalogx.Catalog) *Ledger {
	return &Ledger{db: db, catalog: catalog}
}

// CreateBooking validates the slot against the catalog, then atomically
// verifies capacity, increments the slot counter, and inserts a
// confirmed booking. A party exactly filling the remaining seats is
// accepted.
func (l *Ledger) CreateBooking(ctx context.Context, req contractx.CreateBookingRequest) (contractx.Booking, error) {
	if req.PartySize <= 0 {
		return contractx.Booking{}, fmt.Errorf("%w: %d", contractx.ErrInvalidPartySize, req.PartySize)
	}
	capacity, err := l.catalog.CapacityOf(req.Date, req.Time)
	if err != nil {
		return contractx.Booking{}, err
	}

	row := &BookingRow{
		ID:            uuid.NewString(),
		CustomerName:  req.Name,
		CustomerEmail: req.Email,
		CustomerPhone: req.Phone,
		BookingDate:   string(req.Date),
		BookingTime:   string(req.Time),
		PartySize:     req.PartySize,
		Status:        string(contractx.BookingStatusConfirmed),
		CreatedAt:     time.Now().UTC(),
	}

	err = l.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		// The slot row normally exists from seeding; the upsert keeps an
		// in-catalog slot bookable even when it does not.
		seed := &AvailabilitySlot{
			Date:         string(req.Date),
			Time:         string(req.Time),
			MaxPartySize: capacity,
		}
		if _, err := tx.NewInsert().
			Model(seed).
			On(`CONFLICT ("date", "time") DO NOTHING`).
			Exec(ctx); err != nil {
			return err
		}

		res, err := tx.NewUpdate().
			Model((*AvailabilitySlot)(nil)).
			Set("current_booked = current_booked + ?", req.PartySize).
			Where(`"date" = ? AND "time" = ?`, string(req.Date), string(req.Time)).
			Where("current_booked + ? <= max_party_size", req.PartySize).
			Exec(ctx)
		if err != nil {
			return err
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return contractx.ErrSlotFull
		}

		_, err = tx.NewInsert().Model(row).Exec(ctx)
		return err
	})
	if err != nil {
		if errors.Is(err, contractx.ErrSlotFull) {
			return contractx.Booking{}, contractx.ErrSlotFull
		}
		return contractx.Booking{}, fmt.Errorf("%w: create booking: %v", contractx.ErrStore, err)
	}

	return row.Booking()
}

// CancelBooking cancels the earliest-created confirmed booking matching
// the name (case-insensitive) and exact slot, and releases its seats.
// Canceling an already-canceled booking reports ErrBookingNotFound.
func (l *Ledger) CancelBooking(ctx context.Context, name string, date contractx.Date, timeOfDay contractx.TimeOfDay) (contractx.Booking, error) {
	var row BookingRow
	now := time.Now().UTC()

	err := l.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		for {
			row = BookingRow{}
			err := tx.NewSelect().
				Model(&row).
				Where("lower(customer_name) = lower(?)", name).
				Where("booking_date = ?", string(date)).
				Where("booking_time = ?", string(timeOfDay)).
				Where("status = ?", string(contractx.BookingStatusConfirmed)).
				Order("created_at ASC").
				Order("id ASC").
				Limit(1).
				Scan(ctx)
			if errors.Is(err, sql.ErrNoRows) {
				return contractx.ErrBookingNotFound
			}
			if err != nil {
				return err
			}

			// Guarded flip: a concurrent cancel of the same row loses
			// here and loops to look for the next match.
			res, err := tx.NewUpdate().
				Model((*BookingRow)(nil)).
				Set("status = ?", string(contractx.BookingStatusCanceled)).
				Set("canceled_at = ?", now).
				Where("id = ? AND status = ?", row.ID, string(contractx.BookingStatusConfirmed)).
				Exec(ctx)
			if err != nil {
				return err
			}
			affected, err := res.RowsAffected()
			if err != nil {
				return err
			}
			if affected == 1 {
				break
			}
		}

		res, err := tx.NewUpdate().
			Model((*AvailabilitySlot)(nil)).
			Set("current_booked = current_booked - ?", row.PartySize).
			Where(`"date" = ? AND "time" = ?`, string(date), string(timeOfDay)).
			Where("current_booked >= ?", row.PartySize).
			Exec(ctx)
		if err != nil {
			return err
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			// Counter and ledger disagree; roll the flip back rather
			// than break the capacity invariant.
			return fmt.Errorf("slot counter out of sync for %s %s", date, timeOfDay)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, contractx.ErrBookingNotFound) {
			return contractx.Booking{}, contractx.ErrBookingNotFound
		}
		return contractx.Booking{}, fmt.Errorf("%w: cancel booking: %v", contractx.ErrStore, err)
	}

	row.Status = string(contractx.BookingStatusCanceled)
	row.CanceledAt = &now
	return row.Booking()
}

// SeedHorizon upserts one availability row per catalog service time for
// every day in [from, from+days). Existing rows keep their counters.
func (l *Ledger) SeedHorizon(ctx context.Context, from contractx.Date, days int) error {
	if days <= 0 {
		return nil
	}

	times := l.catalog.ServiceTimes()
	rows := make([]AvailabilitySlot, 0, days*len(times))
	for day := 0; day < days; day++ {
		date := from.AddDays(day)
		for _, t := range times {
			capacity, err := l.catalog.CapacityOf(date, t)
			if err != nil {
				return err
			}
			rows = append(rows, AvailabilitySlot{
				Date:         string(date),
				Time:         string(t),
				MaxPartySize: capacity,
			})
		}
	}

	if _, err := l.db.NewInsert().
		Model(&rows).
		On(`CONFLICT ("date", "time") DO NOTHING`).
		Exec(ctx); err != nil {
		return fmt.Errorf("%w: seed horizon: %v", contractx.ErrStore, err)
	}
	return nil
}

func parseBookingID(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.UUID{}, fmt.Errorf("%w: booking id %q: %v", contractx.ErrStore, s, err)
	}
	return id, nil
}
