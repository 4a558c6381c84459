package notify

import (
	"context"

	qstashx "github.com/tanpawarit/cauldron-reservations/pkg/qstash"
	contractx "github.com/tanpawarit/cauldron-reservations/reservation/contract"
)

const (
	eventBookingConfirmed = "booking.confirmed"
	eventBookingCanceled  = "booking.canceled"
)

type bookingMessage struct {
	Event     string `json:"event"`
	BookingID string `json:"booking_id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Date      string `json:"date"`
	Time      string `json:"time"`
	PartySize int    `json:"party_size"`
}

// QStashNotifier enqueues booking notifications (the confirmation email
// promised to the customer) through QStash. Delivery is at-least-once;
// the dedup id keeps a republished booking from double-sending.
type QStashNotifier struct {
	client      *qstashx.Client
	destination string
}

var _ contractx.Notifier = (*QStashNotifier)(nil)

func NewQStashNotifier(client *qstashx.Client, destination string) *QStashNotifier {
	return &QStashNotifier{client: client, destination: destination}
}

func (n *QStashNotifier) BookingConfirmed(ctx context.Context, b contractx.Booking) error {
	return n.publish(ctx, eventBookingConfirmed, b)
}

func (n *QStashNotifier) BookingCanceled(ctx context.Context, b contractx.Booking) error {
	return n.publish(ctx, eventBookingCanceled, b)
}

func (n *QStashNotifier) publish(ctx context.Context, event string, b contractx.Booking) error {
	msg := bookingMessage{
		Event:     event,
		BookingID: b.ID.String(),
		Name:      b.Name,
		Email:     b.Email,
		Date:      string(b.Date),
		Time:      string(b.Time),
		PartySize: b.PartySize,
	}
	return n.client.PublishJSON(ctx, n.destination, msg.BookingID+":"+event, msg)
}

// Noop is the notifier used when QStash is not configured.
type Noop struct{}

var _ contractx.Notifier = Noop{}

func (Noop) BookingConfirmed(context.Context, contractx.Booking) error { return nil }
func (Noop) BookingCanceled(context.Context, contractx.Booking) error  { return nil }
