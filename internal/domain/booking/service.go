package booking

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/jinzhu/now"

	"resort/internal/database"
	"resort/internal/domain/catalog"
	"resort/internal/pkg/qr"
	"resort/internal/pkg/validator"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 50
	recentWindow     = 30 * 24 * time.Hour
)

type Options struct {
	ReferencePrefix string
	Expiration      time.Duration
}

type Service struct {
	repo     *Repository
	rooms    RoomLookup
	notifier Notifier
	locker   RoomLocker
	qr       *qr.Encoder
	events   EventPublisher
	opts     Options
	now      func() time.Time
}

func NewService(
	repo *Repository,
	rooms RoomLookup,
	notifier Notifier,
	locker RoomLocker,
	qrEncoder *qr.Encoder,
	opts Options,
) *Service {
	if opts.ReferencePrefix == "" {
		opts.ReferencePrefix = "AMAN"
	}
	if opts.Expiration <= 0 {
		opts.Expiration = 6 * time.Hour
	}
	if locker == nil {
		locker = NewLocalLocker()
	}
	return &Service{
		repo:     repo,
		rooms:    rooms,
		notifier: notifier,
		locker:   locker,
		qr:       qrEncoder,
		opts:     opts,
		now:      time.Now,
	}
}

func (s *Service) SetClock(now func() time.Time) { s.now = now }

func (s *Service) SetEventPublisher(p EventPublisher) { s.events = p }

// clock returns the current instant in UTC at second precision, the form
// every stored timestamp uses.
func (s *Service) clock() time.Time {
	return s.now().UTC().Truncate(time.Second)
}

func normalize(t time.Time) time.Time {
	return t.UTC().Truncate(time.Second)
}

/* ---------- AVAILABILITY ---------- */

func (s *Service) CheckAvailability(ctx context.Context, roomID int64, checkIn, checkOut time.Time, excludeID *int64) (*Availability, error) {
	checkIn, checkOut = normalize(checkIn), normalize(checkOut)
	if !checkOut.After(checkIn) {
		return nil, fmt.Errorf("%w: check-out date must be after check-in date", ErrValidation)
	}

	totalRooms := 0
	room, err := s.rooms.GetByID(ctx, roomID)
	switch {
	case err == nil:
		totalRooms = room.TotalRooms
	case !errors.Is(err, catalog.ErrRoomNotFound):
		return nil, err
	}

	booked, err := s.repo.CountOverlapping(ctx, roomID, checkIn, checkOut, excludeID)
	if err != nil {
		return nil, err
	}

	return &Availability{
		IsAvailable: booked < int64(totalRooms),
		BookedCount: booked,
		TotalRooms:  totalRooms,
	}, nil
}

/* ---------- CREATE ---------- */

func (s *Service) Create(ctx context.Context, req CreateRequest) (*CreateResult, error) {
	if errs := validator.Validate(req); errs != nil {
		return nil, &ValidationError{Fields: errs}
	}
	if req.Guests.Adults < 1 {
		return nil, fmt.Errorf("%w: at least 1 adult is required", ErrValidation)
	}
	if req.Guests.Children < 0 {
		return nil, fmt.Errorf("%w: children cannot be negative", ErrValidation)
	}

	if req.CheckIn.IsZero() || req.CheckOut.IsZero() {
		return nil, fmt.Errorf("%w: check-in and check-out dates are required", ErrValidation)
	}
	checkIn, checkOut := normalize(req.CheckIn.Time), normalize(req.CheckOut.Time)
	if !checkOut.After(checkIn) {
		return nil, fmt.Errorf("%w: check-out date must be after check-in date", ErrValidation)
	}

	room, err := s.rooms.GetByID(ctx, req.RoomID)
	if errors.Is(err, catalog.ErrRoomNotFound) {
		return nil, ErrRoomNotFound
	}
	if err != nil {
		return nil, err
	}
	if !room.IsActive {
		return nil, ErrRoomNotFound
	}
	if req.Guests.Total() > room.MaxGuests {
		return nil, fmt.Errorf("%w: this room accommodates a maximum of %d guests", ErrValidation, room.MaxGuests)
	}

	unlock, err := s.locker.Lock(ctx, room.ID)
	if err != nil {
		return nil, err
	}
	b, err := s.insert(ctx, room, req, checkIn, checkOut)
	unlock()
	if err != nil {
		return nil, err
	}

	s.notifyCreated(ctx, *b, room)
	s.publish(EventCreated, b)

	return &CreateResult{
		BookingReference: b.BookingReference,
		RoomName:         room.Name,
		CheckIn:          b.CheckIn,
		CheckOut:         b.CheckOut,
		Nights:           b.Nights(),
		TotalAmount:      b.TotalAmount,
		ExpiresAt:        b.ExpiresAt,
		PaymentStatus:    b.PaymentStatus,
	}, nil
}

// insert must run under the room lock.
func (s *Service) insert(ctx context.Context, room *catalog.Room, req CreateRequest, checkIn, checkOut time.Time) (*Booking, error) {
	booked, err := s.repo.CountOverlapping(ctx, room.ID, checkIn, checkOut, nil)
	if err != nil {
		return nil, err
	}
	if booked >= int64(room.TotalRooms) {
		return nil, ErrNotAvailable
	}

	created := s.clock()
	last, err := s.repo.LastReference(ctx, s.opts.ReferencePrefix, created.Year())
	if err != nil {
		return nil, err
	}
	ref, err := NextReference(s.opts.ReferencePrefix, created.Year(), last)
	if err != nil {
		return nil, err
	}
	code, err := GenerateVerificationCode()
	if err != nil {
		return nil, err
	}

	nights := Nights(checkIn, checkOut)
	b := &Booking{
		BookingReference: ref,
		VerificationCode: &code,
		RoomID:           room.ID,
		GuestName:        strings.TrimSpace(req.GuestName),
		Email:            strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:            strings.TrimSpace(req.Phone),
		CheckIn:          checkIn,
		CheckOut:         checkOut,
		Guests:           req.Guests,
		TotalAmount:      float64(nights) * room.EffectivePrice(created),
		PaymentStatus:    StatusAwaitingPayment,
		ExpiresAt:        created.Add(s.opts.Expiration),
		SpecialRequests:  strings.TrimSpace(req.SpecialRequests),
		CreatedAt:        created,
		UpdatedAt:        created,
	}

	if err := s.repo.Create(ctx, b); err != nil {
		return nil, insertError(err, ref)
	}
	b.Room = room
	return b, nil
}

/* ---------- CONFIRM ---------- */

func (s *Service) Confirm(ctx context.Context, req ConfirmRequest) (*ConfirmResult, error) {
	if errs := validator.Validate(req); errs != nil {
		return nil, &ValidationError{Fields: errs}
	}

	b, err := s.repo.GetByReference(ctx, strings.ToUpper(strings.TrimSpace(req.BookingReference)))
	if err != nil {
		return nil, err
	}
	code := strings.ToUpper(strings.TrimSpace(req.VerificationCode))

	if err := s.confirm(ctx, b, code, true); err != nil {
		return nil, err
	}

	emailSent := s.notifyConfirmed(ctx, b)
	s.publish(EventConfirmed, b)

	var roomName string
	if b.Room != nil {
		roomName = b.Room.Name
	}
	return &ConfirmResult{
		BookingReference: b.BookingReference,
		GuestName:        b.GuestName,
		RoomName:         roomName,
		CheckIn:          b.CheckIn,
		CheckOut:         b.CheckOut,
		TotalAmount:      b.TotalAmount,
		PaymentStatus:    b.PaymentStatus,
		ConfirmedAt:      b.ConfirmedAt,
		EmailSent:        emailSent,
	}, nil
}

// confirm applies the state machine to b and persists the transition.
// When a concurrent writer changed the row first, the stored row is
// re-read once and classified again.
func (s *Service) confirm(ctx context.Context, b *Booking, code string, reread bool) error {
	switch b.PaymentStatus {
	case StatusConfirmed:
		return ErrAlreadyConfirmed
	case StatusCancelled:
		return ErrCancelled
	case StatusExpired:
		return ErrExpired
	}

	at := s.clock()
	if b.IsOverdue(at) {
		if err := s.expire(ctx, b); err != nil {
			return err
		}
		return ErrExpired
	}

	if b.VerificationCode == nil || *b.VerificationCode != code {
		return ErrInvalidCode
	}

	ok, err := s.repo.ConfirmIfPending(ctx, b.ID, code, at)
	if err != nil {
		return err
	}
	if !ok {
		if !reread {
			return ErrInvalidCode
		}
		fresh, err := s.repo.GetByID(ctx, b.ID)
		if err != nil {
			return err
		}
		*b = *fresh
		return s.confirm(ctx, b, code, false)
	}

	b.markConfirmed(at)
	return nil
}

/* ---------- READS ---------- */

func (s *Service) GetByReference(ctx context.Context, ref string) (*View, error) {
	b, err := s.repo.GetByReference(ctx, strings.ToUpper(strings.TrimSpace(ref)))
	if err != nil {
		return nil, err
	}
	at := s.clock()
	if b.IsOverdue(at) {
		if err := s.expire(ctx, b); err != nil {
			return nil, err
		}
	}
	v := PublicView(*b, at)
	return &v, nil
}

func (s *Service) List(ctx context.Context, f ListFilter) (*ListResult, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, f.Status)
	}
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit <= 0 {
		f.Limit = defaultPageLimit
	}
	if f.Limit > maxPageLimit {
		f.Limit = maxPageLimit
	}
	// created_at is stored in UTC; bounds must be too.
	if f.CreatedOn != nil {
		from := normalize(*f.CreatedOn)
		f.CreatedOn = &from
	}
	if f.CreatedTo != nil {
		to := normalize(*f.CreatedTo)
		f.CreatedTo = &to
	}

	rows, total, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}

	at := s.clock()
	views := make([]View, 0, len(rows))
	for i := range rows {
		if rows[i].IsOverdue(at) {
			if err := s.expire(ctx, &rows[i]); err != nil {
				return nil, err
			}
		}
		views = append(views, AdminView(rows[i], at))
	}

	return &ListResult{
		Bookings: views,
		Pagination: Pagination{
			Page:  f.Page,
			Limit: f.Limit,
			Total: total,
			Pages: int((total + int64(f.Limit) - 1) / int64(f.Limit)),
		},
	}, nil
}

/* ---------- ADMIN ---------- */

// UpdateStatus forces any status. Confirming clears the code and notifies
// the guest after the change is stored.
func (s *Service) UpdateStatus(ctx context.Context, id int64, req UpdateStatusRequest) (*UpdateStatusResult, error) {
	if errs := validator.Validate(req); errs != nil {
		return nil, &ValidationError{Fields: errs}
	}

	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	at := s.clock()
	b.PaymentStatus = req.Status
	if req.AdminNotes != nil {
		b.AdminNotes = strings.TrimSpace(*req.AdminNotes)
	}
	switch req.Status {
	case StatusConfirmed:
		b.markConfirmed(at)
	case StatusExpired:
		b.markExpired()
	}
	b.UpdatedAt = at

	if err := s.repo.Save(ctx, b); err != nil {
		return nil, err
	}

	out := &UpdateStatusResult{}
	if req.Status == StatusConfirmed {
		sent := s.notifyConfirmed(ctx, b)
		out.EmailSent = &sent
	}
	s.publish(EventStatusChanged, b)

	out.Booking = AdminView(*b, at)
	return out, nil
}

func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	if _, err := s.ExpireOverdue(ctx); err != nil {
		return nil, err
	}

	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}

	at := s.clock()
	recent, err := s.repo.CountCreatedSince(ctx, at.Add(-recentWindow))
	if err != nil {
		return nil, err
	}
	today, err := s.repo.CountCreatedSince(ctx, now.With(at).BeginningOfDay())
	if err != nil {
		return nil, err
	}
	revenue, err := s.repo.Revenue(ctx)
	if err != nil {
		return nil, err
	}

	var total int64
	for _, n := range counts {
		total += n
	}
	return &Stats{
		TotalBookings:     total,
		ConfirmedBookings: counts[StatusConfirmed],
		PendingBookings:   counts[StatusAwaitingPayment],
		ExpiredBookings:   counts[StatusExpired],
		CancelledBookings: counts[StatusCancelled],
		RecentBookings:    recent,
		TodayBookings:     today,
		TotalRevenue:      revenue,
	}, nil
}

// ExpireOverdue expires every awaiting booking past its deadline.
func (s *Service) ExpireOverdue(ctx context.Context) (int, error) {
	expired, err := s.repo.ExpireOverdue(ctx, s.clock())
	if err != nil {
		return 0, err
	}
	for i := range expired {
		s.publish(EventExpired, &expired[i])
	}
	return len(expired), nil
}

/* ---------- GUEST EXTRAS ---------- */

// CheckInPass is the payload encoded in the check-in QR code.
type CheckInPass struct {
	Reference string    `json:"ref"`
	GuestName string    `json:"guest"`
	RoomID    int64     `json:"room"`
	CheckIn   time.Time `json:"in"`
	CheckOut  time.Time `json:"out"`
}

func (s *Service) CheckInQR(ctx context.Context, ref string) ([]byte, error) {
	v, err := s.GetByReference(ctx, ref)
	if err != nil {
		return nil, err
	}
	if v.PaymentStatus != StatusConfirmed {
		return nil, ErrNotConfirmed
	}
	return s.qr.PNG(CheckInPass{
		Reference: v.BookingReference,
		GuestName: v.GuestName,
		RoomID:    v.RoomID,
		CheckIn:   v.CheckIn,
		CheckOut:  v.CheckOut,
	})
}

// SendReceipt mails a client-rendered PDF receipt to the guest.
func (s *Service) SendReceipt(ctx context.Context, req SendReceiptRequest) (*ReceiptResult, error) {
	if errs := validator.Validate(req); errs != nil {
		return nil, &ValidationError{Fields: errs}
	}
	pdf, err := decodePDF(req.PDFData)
	if err != nil {
		return nil, err
	}

	b, err := s.repo.GetByReference(ctx, strings.ToUpper(strings.TrimSpace(req.BookingReference)))
	if err != nil {
		return nil, err
	}
	if b.PaymentStatus != StatusConfirmed {
		return nil, fmt.Errorf("%w: receipt can only be sent for confirmed bookings", ErrNotConfirmed)
	}

	id, err := s.notifier.SendReceipt(ctx, b, b.Room, pdf)
	if err != nil {
		log.Printf("booking_receipt_failed ref=%s err=%v", b.BookingReference, err)
		return nil, fmt.Errorf("%w: %v", ErrEmailFailed, err)
	}
	return &ReceiptResult{MessageID: id, SentTo: b.Email}, nil
}

// decodePDF accepts raw base64 or a data URL.
func decodePDF(data string) ([]byte, error) {
	if i := strings.Index(data, ";base64,"); i >= 0 {
		data = data[i+len(";base64,"):]
	}
	pdf, err := base64.StdEncoding.DecodeString(strings.TrimSpace(data))
	if err != nil || len(pdf) == 0 {
		return nil, fmt.Errorf("%w: invalid PDF data format", ErrValidation)
	}
	return pdf, nil
}

/* ---------- HELPERS ---------- */

// insertError classifies a failed insert by the unique index it hit.
func insertError(err error, ref string) error {
	switch {
	case database.UniqueViolationOn(err, "verification_code"):
		return ErrCodeConflict
	case database.IsUniqueViolation(err):
		return fmt.Errorf("%w: %s", ErrReferenceConflict, ref)
	}
	return err
}

func (s *Service) expire(ctx context.Context, b *Booking) error {
	ok, err := s.repo.ExpireIfPending(ctx, b.ID)
	if err != nil {
		return err
	}
	b.markExpired()
	if ok {
		s.publish(EventExpired, b)
	}
	return nil
}

func (s *Service) notifyCreated(ctx context.Context, b Booking, room *catalog.Room) {
	if s.notifier == nil {
		return
	}
	go func(ctx context.Context) {
		if err := s.notifier.NotifyBookingCreated(ctx, &b, room); err != nil {
			log.Printf("booking_notify_failed event=created ref=%s err=%v", b.BookingReference, err)
		}
	}(context.WithoutCancel(ctx))
}

func (s *Service) notifyConfirmed(ctx context.Context, b *Booking) bool {
	if s.notifier == nil {
		return false
	}
	if err := s.notifier.NotifyBookingConfirmed(ctx, b, b.Room); err != nil {
		log.Printf("booking_notify_failed event=confirmed ref=%s err=%v", b.BookingReference, err)
		return false
	}
	return true
}

func (s *Service) publish(kind string, b *Booking) {
	if s.events == nil {
		return
	}
	s.events.Publish(Event{
		Type:      kind,
		Reference: b.BookingReference,
		RoomID:    b.RoomID,
		Status:    b.PaymentStatus,
		At:        s.clock(),
	})
}
