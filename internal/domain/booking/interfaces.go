package booking

import (
	"context"
	"time"

	"resort/internal/domain/catalog"
)

// RoomLookup is satisfied by catalog.RoomRepository.
type RoomLookup interface {
	GetByID(ctx context.Context, id int64) (*catalog.Room, error)
}

type Notifier interface {
	NotifyBookingCreated(ctx context.Context, b *Booking, room *catalog.Room) error
	NotifyBookingConfirmed(ctx context.Context, b *Booking, room *catalog.Room) error
	SendReceipt(ctx context.Context, b *Booking, room *catalog.Room, pdf []byte) (messageID string, err error)
}

// RoomLocker serializes creations for one room across the
// availability check and the insert.
type RoomLocker interface {
	Lock(ctx context.Context, roomID int64) (unlock func(), err error)
}

const (
	EventCreated       = "booking.created"
	EventConfirmed     = "booking.confirmed"
	EventStatusChanged = "booking.status_changed"
	EventExpired       = "booking.expired"
)

type Event struct {
	Type      string    `json:"type"`
	Reference string    `json:"bookingReference"`
	RoomID    int64     `json:"roomId"`
	Status    Status    `json:"paymentStatus"`
	At        time.Time `json:"at"`
}

type EventPublisher interface {
	Publish(e Event)
}
