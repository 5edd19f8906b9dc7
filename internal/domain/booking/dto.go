package booking

import (
	"strings"
	"time"
)

// DateTime accepts RFC 3339 timestamps or bare YYYY-MM-DD dates (midnight UTC).
type DateTime struct {
	time.Time
}

func (d *DateTime) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		return nil
	}
	t, _, err := ParseDateTime(s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// ParseDateTime also reports whether s carried only a date.
func ParseDateTime(s string) (t time.Time, dateOnly bool, err error) {
	if t, err = time.Parse(time.RFC3339, s); err == nil {
		return t, false, nil
	}
	t, err = time.Parse(time.DateOnly, s)
	return t, true, err
}

type CreateRequest struct {
	RoomID          int64    `json:"roomId" validate:"required,gt=0"`
	GuestName       string   `json:"guestName" validate:"required,max=100"`
	Email           string   `json:"email" validate:"required,email"`
	Phone           string   `json:"phone" validate:"required,max=50"`
	CheckIn         DateTime `json:"checkIn"`
	CheckOut        DateTime `json:"checkOut"`
	Guests          Guests   `json:"guests"`
	SpecialRequests string   `json:"specialRequests" validate:"max=1000"`
}

type CreateResult struct {
	BookingReference string    `json:"bookingReference"`
	RoomName         string    `json:"roomName"`
	CheckIn          time.Time `json:"checkIn"`
	CheckOut         time.Time `json:"checkOut"`
	Nights           int       `json:"nights"`
	TotalAmount      float64   `json:"totalAmount"`
	ExpiresAt        time.Time `json:"expiresAt"`
	PaymentStatus    Status    `json:"paymentStatus"`
}

type ConfirmRequest struct {
	BookingReference string `json:"bookingReference" validate:"required"`
	VerificationCode string `json:"verificationCode" validate:"required"`
}

type ConfirmResult struct {
	BookingReference string     `json:"bookingReference"`
	GuestName        string     `json:"guestName"`
	RoomName         string     `json:"roomName"`
	CheckIn          time.Time  `json:"checkIn"`
	CheckOut         time.Time  `json:"checkOut"`
	TotalAmount      float64    `json:"totalAmount"`
	PaymentStatus    Status     `json:"paymentStatus"`
	ConfirmedAt      *time.Time `json:"confirmedAt"`
	EmailSent        bool       `json:"emailSent"`
}

type Availability struct {
	IsAvailable bool  `json:"isAvailable"`
	BookedCount int64 `json:"bookedCount"`
	TotalRooms  int   `json:"totalRooms"`
}

type UpdateStatusRequest struct {
	Status     Status  `json:"status" validate:"required,oneof=awaiting_payment confirmed expired cancelled"`
	AdminNotes *string `json:"adminNotes,omitempty" validate:"omitempty,max=1000"`
}

type UpdateStatusResult struct {
	Booking   View  `json:"booking"`
	EmailSent *bool `json:"emailSent,omitempty"`
}

type ListResult struct {
	Bookings   []View     `json:"bookings"`
	Pagination Pagination `json:"pagination"`
}

type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

type Stats struct {
	TotalBookings     int64   `json:"totalBookings"`
	ConfirmedBookings int64   `json:"confirmedBookings"`
	PendingBookings   int64   `json:"pendingBookings"`
	ExpiredBookings   int64   `json:"expiredBookings"`
	CancelledBookings int64   `json:"cancelledBookings"`
	RecentBookings    int64   `json:"recentBookings"`
	TodayBookings     int64   `json:"todayBookings"`
	TotalRevenue      float64 `json:"totalRevenue"`
}

type SendReceiptRequest struct {
	BookingReference string `json:"bookingReference" validate:"required"`
	PDFData          string `json:"pdfData" validate:"required"`
}

type ReceiptResult struct {
	MessageID string `json:"messageId"`
	SentTo    string `json:"sentTo"`
}
