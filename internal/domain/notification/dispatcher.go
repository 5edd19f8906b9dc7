package notification

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"resort/internal/domain/booking"
	"resort/internal/domain/catalog"
)

const resortName = "Amanpulo Resort"

// Dispatcher renders booking emails and hands them to a Mailer.
type Dispatcher struct {
	mailer   Mailer
	from     string
	operator string
	now      func() time.Time
}

var _ booking.Notifier = (*Dispatcher)(nil)

func NewDispatcher(mailer Mailer, from, operator string) *Dispatcher {
	return &Dispatcher{
		mailer:   mailer,
		from:     from,
		operator: operator,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// NotifyBookingCreated tells the operator about a new reservation. The
// message carries the verification code the operator relays to the guest
// once payment arrives.
func (d *Dispatcher) NotifyBookingCreated(ctx context.Context, b *booking.Booking, room *catalog.Room) error {
	if d.operator == "" {
		return fmt.Errorf("operator email not configured")
	}
	html, err := render(operatorTmpl, b, room)
	if err != nil {
		return fmt.Errorf("render operator email: %w", err)
	}
	return d.send(ctx, Message{
		To:      d.operator,
		Subject: "New Booking - " + b.BookingReference,
		HTML:    html,
	})
}

func (d *Dispatcher) NotifyBookingConfirmed(ctx context.Context, b *booking.Booking, room *catalog.Room) error {
	html, err := render(confirmedTmpl, b, room)
	if err != nil {
		return fmt.Errorf("render confirmation email: %w", err)
	}
	return d.send(ctx, Message{
		To:      b.Email,
		Subject: "Reservation Confirmed - " + b.BookingReference,
		HTML:    html,
	})
}

func (d *Dispatcher) SendReceipt(ctx context.Context, b *booking.Booking, room *catalog.Room, pdf []byte) (string, error) {
	html, err := render(receiptTmpl, b, room)
	if err != nil {
		return "", fmt.Errorf("render receipt email: %w", err)
	}
	msg := Message{
		ID:      uuid.NewString(),
		To:      b.Email,
		Subject: fmt.Sprintf("Booking Confirmation – %s | %s", b.BookingReference, resortName),
		HTML:    html,
		Attachments: []Attachment{{
			Filename:    fmt.Sprintf("Booking_Confirmation_%s.pdf", b.BookingReference),
			ContentType: "application/pdf",
			Content:     pdf,
		}},
	}
	if err := d.send(ctx, msg); err != nil {
		return "", err
	}
	return msg.ID, nil
}

func (d *Dispatcher) send(ctx context.Context, msg Message) error {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	msg.From = d.from
	msg.CreatedAt = d.now()
	if msg.To == "" {
		return fmt.Errorf("message %s has no recipient", msg.ID)
	}
	return d.mailer.Send(ctx, msg)
}

func formatMoney(v float64) string {
	return "₱" + humanize.Comma(int64(math.Round(v)))
}
