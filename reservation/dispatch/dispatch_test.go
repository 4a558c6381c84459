package dispatch

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	auditx "github.com/tanpawarit/cauldron-reservations/reservation/audit"
	availabilityx "github.com/tanpawarit/cauldron-reservations/reservation/availability"
	catalogx "github.com/tanpawarit/cauldron-reservations/reservation/catalog"
	contractx "github.com/tanpawarit/cauldron-reservations/reservation/contract"
	infox "github.com/tanpawarit/cauldron-reservations/reservation/info"
	ledgerx "github.com/tanpawarit/cauldron-reservations/reservation/ledger"
	notifyx "github.com/tanpawarit/cauldron-reservations/reservation/notify"
)

func newTestExecutor(t *testing.T) (Executor, *auditx.MemoryRecorder) {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()
	if err := ledgerx.CreateSchema(ctx, db); err != nil {
		t.Fatalf("create ledger schema: %v", err)
	}
	if err := infox.CreateSchema(ctx, db); err != nil {
		t.Fatalf("create info schema: %v", err)
	}

	catalog := catalogx.MustNew(catalogx.Config{ServiceTimes: "18:00,20:00", SlotCapacity: 4})
	audit := &auditx.MemoryRecorder{}

	exec := NewExecutor(Deps{
		Ledger:       ledgerx.New(db, catalog),
		Index:        availabilityx.New(db, catalog, availabilityx.DefaultHorizonDays),
		Info:         infox.New(db),
		Notifier:     notifyx.Noop{},
		Audit:        audit,
		Parser:       Parser{DefaultYear: 2024},
		ServiceTimes: catalog.ServiceTimes(),
	})
	return exec, audit
}

func bookArgs(name string) map[string]any {
	return map[string]any{
		"name":       name,
		"email":      name + "@example.com",
		"phone":      "555-0100",
		"date":       "June 1",
		"time":       "6pm",
		"party_size": "2",
	}
}

func TestExecutorBookingLifecycle(t *testing.T) {
	t.Parallel()

	exec, audit := newTestExecutor(t)
	ctx := context.Background()

	// Availability first: loose argument forms resolve to 2024-06-01 18:00.
	res, err := exec(ctx, ToolCheckAvailability, map[string]any{
		"date": "June 1", "time": "6pm", "party_size": "2",
	})
	if err != nil {
		t.Fatalf("check_availability error = %v", err)
	}
	avail, ok := res.Result.(AvailabilityOutput)
	if !ok {
		t.Fatalf("check_availability result type = %T", res.Result)
	}
	if !avail.Available {
		t.Fatalf("check_availability = %q, want available", avail.Message)
	}

	// Two parties of 2 fill the slot of capacity 4.
	res, err = exec(ctx, ToolBookAppointment, bookArgs("Ann"))
	if err != nil {
		t.Fatalf("book_appointment error = %v", err)
	}
	booked, ok := res.Result.(BookingOutput)
	if !ok {
		t.Fatalf("book_appointment result type = %T", res.Result)
	}
	if booked.BookingID == "" {
		t.Fatal("book_appointment returned empty booking id")
	}
	if !strings.Contains(booked.Message, "2024-06-01 at 18:00 under Ann") {
		t.Fatalf("book_appointment message = %q", booked.Message)
	}
	if _, err = exec(ctx, ToolBookAppointment, bookArgs("Bob")); err != nil {
		t.Fatalf("book_appointment(Bob) error = %v", err)
	}

	// The slot is full: the third booking is an expected refusal, not a
	// Go error.
	res, err = exec(ctx, ToolBookAppointment, bookArgs("Cat"))
	if err != nil {
		t.Fatalf("book_appointment on full slot error = %v", err)
	}
	if res.Error == "" {
		t.Fatal("book_appointment on full slot: want refusal in result")
	}

	// Canceling Ann frees her seats again.
	res, err = exec(ctx, ToolCancelBooking, map[string]any{
		"name": "ann", "date": "2024-06-01", "time": "18:00",
	})
	if err != nil {
		t.Fatalf("cancel_booking error = %v", err)
	}
	canceled, ok := res.Result.(CancellationOutput)
	if !ok {
		t.Fatalf("cancel_booking result type = %T (error=%q)", res.Result, res.Error)
	}
	if !strings.Contains(canceled.Message, "successfully canceled") {
		t.Fatalf("cancel_booking message = %q", canceled.Message)
	}

	res, err = exec(ctx, ToolBookAppointment, bookArgs("Cat"))
	if err != nil {
		t.Fatalf("book_appointment after cancel error = %v", err)
	}
	if res.Error != "" {
		t.Fatalf("book_appointment after cancel refused: %q", res.Error)
	}

	// Every operation above left an audit entry.
	entries := audit.Entries()
	var rejected int
	for _, e := range entries {
		if e.Outcome == "rejected" {
			rejected++
		}
	}
	if len(entries) != 6 {
		t.Fatalf("audit entries = %d, want 6", len(entries))
	}
	if rejected != 1 {
		t.Fatalf("rejected audit entries = %d, want 1", rejected)
	}
}

func TestExecutorRejectsBadArguments(t *testing.T) {
	t.Parallel()

	exec, audit := newTestExecutor(t)
	ctx := context.Background()

	cases := []struct {
		name string
		tool string
		args map[string]any
	}{
		{"missing date", ToolCheckAvailability, map[string]any{"time": "18:00", "party_size": "2"}},
		{"bad date", ToolCheckAvailability, map[string]any{"date": "someday", "time": "18:00", "party_size": "2"}},
		{"bad time", ToolBookAppointment, map[string]any{
			"name": "Ann", "email": "a@x.com", "phone": "555",
			"date": "2024-06-01", "time": "dinner", "party_size": "2",
		}},
		{"bad party size", ToolFindNextAvailableDate, map[string]any{"start_date": "2024-06-01", "party_size": "zero"}},
		{"blank name", ToolCancelBooking, map[string]any{"name": "  ", "date": "2024-06-01", "time": "18:00"}},
		{"off-catalog time", ToolCheckAvailability, map[string]any{"date": "2024-06-01", "time": "19:00", "party_size": "2"}},
	}
	for _, tc := range cases {
		res, err := exec(ctx, tc.tool, tc.args)
		if err != nil {
			t.Fatalf("%s: executor error = %v", tc.name, err)
		}
		if res.Error == "" {
			t.Fatalf("%s: want rejection in result", tc.name)
		}
	}

	for _, e := range audit.Entries() {
		if e.Outcome != "rejected" {
			t.Fatalf("audit outcome = %s for %s, want rejected", e.Outcome, e.Op)
		}
	}
}

func TestExecutorFindNextAvailableDate(t *testing.T) {
	t.Parallel()

	exec, _ := newTestExecutor(t)
	ctx := context.Background()

	// Nothing is seeded, so the search comes back empty but well-formed.
	res, err := exec(ctx, ToolFindNextAvailableDate, map[string]any{
		"start_date": "2024-06-01", "party_size": "2",
	})
	if err != nil {
		t.Fatalf("find_next_available_date error = %v", err)
	}
	out, ok := res.Result.(NextAvailableOutput)
	if !ok {
		t.Fatalf("find_next_available_date result type = %T", res.Result)
	}
	if out.Found {
		t.Fatal("find_next_available_date found a slot on an empty index")
	}
	if !strings.Contains(out.Message, "No availability found") {
		t.Fatalf("find_next_available_date message = %q", out.Message)
	}
}

func TestExecutorSubmitFeedback(t *testing.T) {
	t.Parallel()

	exec, _ := newTestExecutor(t)
	ctx := context.Background()

	res, err := exec(ctx, ToolSubmitFeedback, map[string]any{
		"name": "Ann", "email": "a@x.com", "message": "Loved the tasting menu.",
	})
	if err != nil {
		t.Fatalf("submit_feedback error = %v", err)
	}
	out, ok := res.Result.(FeedbackOutput)
	if !ok {
		t.Fatalf("submit_feedback result type = %T (error=%q)", res.Result, res.Error)
	}
	if !strings.Contains(out.Message, "Thank you for your feedback") {
		t.Fatalf("submit_feedback message = %q", out.Message)
	}

	res, err = exec(ctx, ToolSubmitFeedback, map[string]any{
		"name": "Ann", "email": "a@x.com", "message": "   ",
	})
	if err != nil {
		t.Fatalf("submit_feedback(blank) error = %v", err)
	}
	if res.Error == "" {
		t.Fatal("submit_feedback(blank) accepted an empty message")
	}
}

func TestExecutorUnknownTool(t *testing.T) {
	t.Parallel()

	exec, _ := newTestExecutor(t)

	res, err := exec(context.Background(), "bookings.fly_to_moon", nil)
	if err != nil {
		t.Fatalf("unknown tool error = %v", err)
	}
	if !strings.Contains(res.Error, "is not available") {
		t.Fatalf("unknown tool result error = %q", res.Error)
	}
}

func TestBuildGroups(t *testing.T) {
	t.Parallel()

	deps := Deps{Parser: Parser{DefaultYear: 2024}, ServiceTimes: []contractx.TimeOfDay{"18:00", "20:00"}}

	bookings, _ := Build(GroupBookings, deps)
	if len(bookings) != 4 {
		t.Fatalf("bookings tools = %d, want 4", len(bookings))
	}
	info, _ := Build(GroupRestaurantInfo, deps)
	if len(info) != 3 {
		t.Fatalf("restaurant info tools = %d, want 3", len(info))
	}

	for _, ti := range append(bookings, info...) {
		if ti.Name == "" || ti.Desc == "" {
			t.Fatalf("tool %q missing name or description", ti.Name)
		}
	}
}
