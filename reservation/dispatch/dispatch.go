package dispatch

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog/log"

	auditx "github.com/tanpawarit/cauldron-reservations/reservation/audit"
	contractx "github.com/tanpawarit/cauldron-reservations/reservation/contract"
)

// Group selects which tool set is exposed to the orchestrator.
type Group string

const (
	GroupBookings       Group = "bookings"
	GroupRestaurantInfo Group = "restaurant_info"
)

const (
	ToolFindNextAvailableDate = "bookings.find_next_available_date"
	ToolCheckAvailability     = "bookings.check_availability"
	ToolBookAppointment       = "bookings.book_appointment"
	ToolCancelBooking         = "bookings.cancel_booking"
	ToolRestaurantDetails     = "restaurant.get_details"
	ToolGetMenu               = "restaurant.get_menu"
	ToolSubmitFeedback        = "restaurant.submit_feedback"
)

const (
	outcomeOK       = "ok"
	outcomeRejected = "rejected"
	outcomeFault    = "fault"
)

type Deps struct {
	Ledger       contractx.Ledger
	Index        contractx.Index
	Info         contractx.InfoService
	Notifier     contractx.Notifier
	Audit        auditx.Recorder
	Parser       Parser
	ServiceTimes []contractx.TimeOfDay
}

type Executor func(ctx context.Context, tool string, args map[string]any) (contractx.ToolResult, error)

// Build returns the tool descriptors for a group and an executor for
// them. The Desc strings are what the external orchestrator uses for
// capability discovery.
func Build(group Group, deps Deps) ([]*schema.ToolInfo, Executor) {
	return infosForGroup(group, deps.ServiceTimes), NewExecutor(deps)
}

func NewExecutor(deps Deps) Executor {
	d := &dispatcher{deps: deps}
	return func(ctx context.Context, tool string, args map[string]any) (contractx.ToolResult, error) {
		switch tool {
		case ToolFindNextAvailableDate:
			return d.findNextAvailableDate(ctx, args)
		case ToolCheckAvailability:
			return d.checkAvailability(ctx, args)
		case ToolBookAppointment:
			return d.bookAppointment(ctx, args)
		case ToolCancelBooking:
			return d.cancelBooking(ctx, args)
		case ToolRestaurantDetails:
			return d.restaurantDetails(ctx)
		case ToolGetMenu:
			return d.getMenu(ctx)
		case ToolSubmitFeedback:
			return d.submitFeedback(ctx, args)
		default:
			return contractx.ToolResult{
				Tool:  tool,
				Error: fmt.Sprintf("tool=%s is not available", tool),
			}, nil
		}
	}
}

type dispatcher struct {
	deps Deps
}

/* ------------------------------ outputs ------------------------------ */

type NextAvailableOutput struct {
	Found   bool   `json:"found"`
	Date    string `json:"date,omitempty"`
	Time    string `json:"time,omitempty"`
	Message string `json:"message"`
}

type AvailabilityOutput struct {
	Available bool   `json:"available"`
	Message   string `json:"message"`
}

type BookingOutput struct {
	BookingID string `json:"booking_id"`
	Message   string `json:"message"`
}

type CancellationOutput struct {
	BookingID string `json:"booking_id"`
	Message   string `json:"message"`
}

type FeedbackOutput struct {
	Message string `json:"message"`
}

/* ----------------------------- operations ---------------------------- */

func (d *dispatcher) findNextAvailableDate(ctx context.Context, args map[string]any) (contractx.ToolResult, error) {
	const tool = ToolFindNextAvailableDate

	rawDate, ok := stringArg(args, "start_date")
	if !ok {
		return d.reject(tool, nil, "start_date is required"), nil
	}
	rawGuests, ok := stringArg(args, "party_size")
	if !ok {
		return d.reject(tool, nil, "party_size is required"), nil
	}

	start, err := d.deps.Parser.ParseDate(rawDate)
	if err != nil {
		return d.reject(tool, map[string]string{"start_date": rawDate}, err.Error()), nil
	}
	partySize, err := d.deps.Parser.ParsePartySize(rawGuests)
	if err != nil {
		return d.reject(tool, map[string]string{"party_size": rawGuests}, err.Error()), nil
	}

	params := map[string]string{
		"start_date": string(start),
		"party_size": strconv.Itoa(partySize),
	}

	slot, found, err := d.deps.Index.FindNextAvailable(ctx, start, partySize)
	if err != nil {
		return d.fault(tool, params, err)
	}
	if !found {
		return d.ok(tool, params, NextAvailableOutput{
			Message: fmt.Sprintf("No availability found starting from %s for %d guests.", start, partySize),
		}), nil
	}
	return d.ok(tool, params, NextAvailableOutput{
		Found: true,
		Date:  string(slot.Date),
		Time:  string(slot.Time),
		Message: fmt.Sprintf("The next available slot for %d guests is %s at %s.",
			partySize, slot.Date, slot.Time),
	}), nil
}

func (d *dispatcher) checkAvailability(ctx context.Context, args map[string]any) (contractx.ToolResult, error) {
	const tool = ToolCheckAvailability

	date, timeOfDay, partySize, result := d.parseSlotArgs(tool, args)
	if result != nil {
		return *result, nil
	}

	params := map[string]string{
		"date":       string(date),
		"time":       string(timeOfDay),
		"party_size": strconv.Itoa(partySize),
	}

	available, err := d.deps.Index.CheckAvailability(ctx, date, timeOfDay, partySize)
	if err != nil {
		if errors.Is(err, contractx.ErrOutOfCatalogSlot) {
			return d.reject(tool, params, err.Error()), nil
		}
		return d.fault(tool, params, err)
	}

	message := fmt.Sprintf("There is availability on %s at %s.", date, timeOfDay)
	if !available {
		message = fmt.Sprintf("There is no availability on %s at %s.", date, timeOfDay)
	}
	return d.ok(tool, params, AvailabilityOutput{Available: available, Message: message}), nil
}

func (d *dispatcher) bookAppointment(ctx context.Context, args map[string]any) (contractx.ToolResult, error) {
	const tool = ToolBookAppointment

	date, timeOfDay, partySize, result := d.parseSlotArgs(tool, args)
	if result != nil {
		return *result, nil
	}

	name, ok := stringArg(args, "name")
	if !ok || strings.TrimSpace(name) == "" {
		return d.reject(tool, nil, "name is required"), nil
	}
	email, ok := stringArg(args, "email")
	if !ok {
		return d.reject(tool, nil, "email is required"), nil
	}
	phone, ok := stringArg(args, "phone")
	if !ok {
		return d.reject(tool, nil, "phone is required"), nil
	}

	params := map[string]string{
		"date":       string(date),
		"time":       string(timeOfDay),
		"party_size": strconv.Itoa(partySize),
		"name":       name,
	}

	booking, err := d.deps.Ledger.CreateBooking(ctx, contractx.CreateBookingRequest{
		Name:      name,
		Email:     email,
		Phone:     phone,
		Date:      date,
		Time:      timeOfDay,
		PartySize: partySize,
	})
	if err != nil {
		if errors.Is(err, contractx.ErrSlotFull) || errors.Is(err, contractx.ErrOutOfCatalogSlot) {
			return d.reject(tool, params, err.Error()), nil
		}
		return d.fault(tool, params, err)
	}

	if err := d.deps.Notifier.BookingConfirmed(ctx, booking); err != nil {
		log.Warn().Err(err).Str("booking_id", booking.ID.String()).Msg("booking confirmation notify failed")
	}

	return d.ok(tool, params, BookingOutput{
		BookingID: booking.ID.String(),
		Message: fmt.Sprintf("Appointment booked for %s at %s under %s. An email will be sent to %s.",
			booking.Date, booking.Time, booking.Name, booking.Email),
	}), nil
}

func (d *dispatcher) cancelBooking(ctx context.Context, args map[string]any) (contractx.ToolResult, error) {
	const tool = ToolCancelBooking

	rawDate, ok := stringArg(args, "date")
	if !ok {
		return d.reject(tool, nil, "date is required"), nil
	}
	rawTime, ok := stringArg(args, "time")
	if !ok {
		return d.reject(tool, nil, "time is required"), nil
	}
	name, ok := stringArg(args, "name")
	if !ok || strings.TrimSpace(name) == "" {
		return d.reject(tool, nil, "name is required"), nil
	}

	date, err := d.deps.Parser.ParseDate(rawDate)
	if err != nil {
		return d.reject(tool, map[string]string{"date": rawDate}, err.Error()), nil
	}
	timeOfDay, err := d.deps.Parser.ParseTimeOfDay(rawTime)
	if err != nil {
		return d.reject(tool, map[string]string{"time": rawTime}, err.Error()), nil
	}

	params := map[string]string{
		"date": string(date),
		"time": string(timeOfDay),
		"name": name,
	}

	booking, err := d.deps.Ledger.CancelBooking(ctx, name, date, timeOfDay)
	if err != nil {
		if errors.Is(err, contractx.ErrBookingNotFound) {
			return d.reject(tool, params, fmt.Sprintf(
				"No confirmed booking found for %s at %s under %s.", date, timeOfDay, name)), nil
		}
		return d.fault(tool, params, err)
	}

	if err := d.deps.Notifier.BookingCanceled(ctx, booking); err != nil {
		log.Warn().Err(err).Str("booking_id", booking.ID.String()).Msg("booking cancellation notify failed")
	}

	return d.ok(tool, params, CancellationOutput{
		BookingID: booking.ID.String(),
		Message: fmt.Sprintf("Booking for %s at %s under %s has been successfully canceled.",
			booking.Date, booking.Time, booking.Name),
	}), nil
}

func (d *dispatcher) restaurantDetails(ctx context.Context) (contractx.ToolResult, error) {
	const tool = ToolRestaurantDetails

	details, err := d.deps.Info.RestaurantDetails(ctx)
	if err != nil {
		return d.fault(tool, nil, err)
	}
	return d.ok(tool, nil, details), nil
}

func (d *dispatcher) getMenu(ctx context.Context) (contractx.ToolResult, error) {
	const tool = ToolGetMenu

	menu, err := d.deps.Info.Menu(ctx)
	if err != nil {
		return d.fault(tool, nil, err)
	}
	return d.ok(tool, nil, menu), nil
}

func (d *dispatcher) submitFeedback(ctx context.Context, args map[string]any) (contractx.ToolResult, error) {
	const tool = ToolSubmitFeedback

	name, ok := stringArg(args, "name")
	if !ok {
		return d.reject(tool, nil, "name is required"), nil
	}
	email, ok := stringArg(args, "email")
	if !ok {
		return d.reject(tool, nil, "email is required"), nil
	}
	message, ok := stringArg(args, "message")
	if !ok || strings.TrimSpace(message) == "" {
		return d.reject(tool, nil, "message is required"), nil
	}

	params := map[string]string{"name": name, "email": email}

	if err := d.deps.Info.SubmitFeedback(ctx, name, email, message); err != nil {
		if errors.Is(err, contractx.ErrStore) {
			return d.fault(tool, params, err)
		}
		return d.reject(tool, params, err.Error()), nil
	}
	return d.ok(tool, params, FeedbackOutput{
		Message: "Thank you for your feedback! Our team will get back to you if necessary.",
	}), nil
}

/* ------------------------------ helpers ------------------------------ */

// parseSlotArgs handles the (date, time, party_size) triple shared by
// check and book. A non-nil result is the rejection to hand back.
func (d *dispatcher) parseSlotArgs(tool string, args map[string]any) (contractx.Date, contractx.TimeOfDay, int, *contractx.ToolResult) {
	rawDate, ok := stringArg(args, "date")
	if !ok {
		r := d.reject(tool, nil, "date is required")
		return "", "", 0, &r
	}
	rawTime, ok := stringArg(args, "time")
	if !ok {
		r := d.reject(tool, nil, "time is required")
		return "", "", 0, &r
	}
	rawGuests, ok := stringArg(args, "party_size")
	if !ok {
		r := d.reject(tool, nil, "party_size is required")
		return "", "", 0, &r
	}

	date, err := d.deps.Parser.ParseDate(rawDate)
	if err != nil {
		r := d.reject(tool, map[string]string{"date": rawDate}, err.Error())
		return "", "", 0, &r
	}
	timeOfDay, err := d.deps.Parser.ParseTimeOfDay(rawTime)
	if err != nil {
		r := d.reject(tool, map[string]string{"time": rawTime}, err.Error())
		return "", "", 0, &r
	}
	partySize, err := d.deps.Parser.ParsePartySize(rawGuests)
	if err != nil {
		r := d.reject(tool, map[string]string{"party_size": rawGuests}, err.Error())
		return "", "", 0, &r
	}
	return date, timeOfDay, partySize, nil
}

func (d *dispatcher) ok(tool string, params map[string]string, result any) contractx.ToolResult {
	d.record(auditx.Entry{Op: tool, Params: params, Outcome: outcomeOK})
	return contractx.ToolResult{Tool: tool, Result: result}
}

func (d *dispatcher) reject(tool string, params map[string]string, msg string) contractx.ToolResult {
	d.record(auditx.Entry{Op: tool, Params: params, Outcome: outcomeRejected, Error: msg})
	return contractx.ToolResult{Tool: tool, Error: msg}
}

func (d *dispatcher) fault(tool string, params map[string]string, err error) (contractx.ToolResult, error) {
	d.record(auditx.Entry{Op: tool, Params: params, Outcome: outcomeFault, Error: err.Error()})
	return contractx.ToolResult{Tool: tool}, err
}

func (d *dispatcher) record(e auditx.Entry) {
	if d.deps.Audit != nil {
		d.deps.Audit.Record(e)
	}
}

func stringArg(args map[string]any, key string) (string, bool) {
	raw, ok := args[key]
	if !ok {
		return "", false
	}
	s, ok := raw.(string)
	return s, ok
}
