package booking

import (
	"math"
	"time"

	"resort/internal/domain/catalog"
)

type Status string

const (
	StatusAwaitingPayment Status = "awaiting_payment"
	StatusConfirmed       Status = "confirmed"
	StatusExpired         Status = "expired"
	StatusCancelled       Status = "cancelled"
)

var Statuses = []Status{StatusAwaitingPayment, StatusConfirmed, StatusExpired, StatusCancelled}

func (s Status) Valid() bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

// Occupying statuses hold inventory for their stay interval.
var occupying = []Status{StatusAwaitingPayment, StatusConfirmed}

type Guests struct {
	Adults   int `json:"adults" gorm:"column:adults;not null"`
	Children int `json:"children" gorm:"column:children;not null;default:0"`
}

func (g Guests) Total() int { return g.Adults + g.Children }

type Booking struct {
	ID               int64         `json:"id" gorm:"primaryKey"`
	BookingReference string        `json:"bookingReference" gorm:"size:32;not null;uniqueIndex"`
	VerificationCode *string       `json:"verificationCode,omitempty" gorm:"size:8;uniqueIndex"`
	RoomID           int64         `json:"roomId" gorm:"not null;index:idx_bookings_stay,priority:1"`
	Room             *catalog.Room `json:"room,omitempty" gorm:"foreignKey:RoomID"`
	GuestName        string        `json:"guestName" gorm:"size:100;not null"`
	Email            string        `json:"email" gorm:"size:255;not null;index"`
	Phone            string        `json:"phone" gorm:"size:50;not null"`
	CheckIn          time.Time     `json:"checkIn" gorm:"not null;index:idx_bookings_stay,priority:2"`
	CheckOut         time.Time     `json:"checkOut" gorm:"not null;index:idx_bookings_stay,priority:3"`
	Guests           Guests        `json:"guests" gorm:"embedded;embeddedPrefix:guests_"`
	TotalAmount      float64       `json:"totalAmount" gorm:"not null"`
	PaymentStatus    Status        `json:"paymentStatus" gorm:"size:20;not null;default:awaiting_payment;index"`
	ExpiresAt        time.Time     `json:"expiresAt" gorm:"not null;index"`
	ConfirmedAt      *time.Time    `json:"confirmedAt,omitempty"`
	SpecialRequests  string        `json:"specialRequests,omitempty" gorm:"type:text"`
	AdminNotes       string        `json:"adminNotes,omitempty" gorm:"type:text"`
	CreatedAt        time.Time     `json:"createdAt" gorm:"index"`
	UpdatedAt        time.Time     `json:"updatedAt"`
}

func (Booking) TableName() string { return "bookings" }

// Nights counts started days between check-in and check-out.
func (b *Booking) Nights() int {
	return Nights(b.CheckIn, b.CheckOut)
}

func Nights(checkIn, checkOut time.Time) int {
	d := checkOut.Sub(checkIn)
	if d <= 0 {
		return 0
	}
	return int(math.Ceil(d.Hours() / 24))
}

// IsOverdue reports an awaiting booking whose payment window has closed.
func (b *Booking) IsOverdue(now time.Time) bool {
	return b.PaymentStatus == StatusAwaitingPayment && now.After(b.ExpiresAt)
}

func (b *Booking) markConfirmed(at time.Time) {
	b.PaymentStatus = StatusConfirmed
	b.VerificationCode = nil
	b.ConfirmedAt = &at
}

func (b *Booking) markExpired() {
	b.PaymentStatus = StatusExpired
	b.VerificationCode = nil
}

// View is the JSON shape returned to clients, with derived fields.
type View struct {
	Booking
	NumberOfNights int  `json:"numberOfNights"`
	TotalGuests    int  `json:"totalGuests"`
	IsExpired      bool `json:"isExpired"`
}

// PublicView hides the verification code.
func PublicView(b Booking, now time.Time) View {
	b.VerificationCode = nil
	return AdminView(b, now)
}

func AdminView(b Booking, now time.Time) View {
	return View{
		Booking:        b,
		NumberOfNights: b.Nights(),
		TotalGuests:    b.Guests.Total(),
		IsExpired:      b.IsOverdue(now),
	}
}
