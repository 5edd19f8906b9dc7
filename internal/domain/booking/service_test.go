package booking

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"resort/internal/domain/catalog"
)

/* ==================== CREATE ==================== */

func TestCreate_DiscountedTotal(t *testing.T) {
	env := newEnv(t, nil)
	start, end := day(2026, time.March, 1), day(2026, time.May, 31)
	room := env.seedRoom(t, func(r *catalog.Room) {
		r.Discount = catalog.SeasonalDiscount{IsActive: true, Percentage: 15, StartDate: &start, EndDate: &end}
	})

	res, err := env.svc.Create(context.Background(), request(room.ID, day(2026, time.March, 15), day(2026, time.March, 20)))
	require.NoError(t, err)

	assert.Equal(t, 5, res.Nights)
	assert.Equal(t, 5100.0, res.TotalAmount)
	assert.Equal(t, StatusAwaitingPayment, res.PaymentStatus)
	assert.True(t, env.clock.Now().Add(6*time.Hour).Equal(res.ExpiresAt))
	assert.Regexp(t, `^AMAN-2026-\d{5}$`, res.BookingReference)
	assert.Equal(t, "Ocean Villa", res.RoomName)

	stored, err := env.repo.GetByReference(context.Background(), res.BookingReference)
	require.NoError(t, err)
	require.NotNil(t, stored.VerificationCode)
	assert.Regexp(t, `^[0-9A-F]{8}$`, *stored.VerificationCode)
	assert.Equal(t, "maria@example.com", stored.Email)
}

func TestCreate_NotifiesOperatorAsync(t *testing.T) {
	env := newEnv(t, nil)
	room := env.seedRoom(t, nil)

	b := env.mustCreate(t, room.ID, day(2026, time.March, 15), day(2026, time.March, 17))

	select {
	case ref := <-env.created:
		assert.Equal(t, b.BookingReference, ref)
	case <-time.After(2 * time.Second):
		t.Fatal("operator notification was not sent")
	}
	assert.Contains(t, env.events.types(), EventCreated)
}

func TestCreate_NotificationFailureDoesNotFail(t *testing.T) {
	n := &mockNotifier{}
	done := make(chan struct{})
	n.On("NotifyBookingCreated", mock.Anything, mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { close(done) }).
		Return(errors.New("smtp down"))
	env := newEnv(t, n)
	room := env.seedRoom(t, nil)

	_, err := env.svc.Create(context.Background(), request(room.ID, day(2026, time.March, 15), day(2026, time.March, 17)))
	require.NoError(t, err)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("notifier was not called")
	}
}

func TestInsertError_ClassifiesByIndex(t *testing.T) {
	env := newEnv(t, nil)
	room := env.seedRoom(t, nil)
	ctx := context.Background()
	first := env.mustCreate(t, room.ID, day(2026, time.March, 15), day(2026, time.March, 17))

	sameCode := *first
	sameCode.ID, sameCode.Room = 0, nil
	sameCode.BookingReference = "AMAN-2026-99999"
	err := insertError(env.repo.Create(ctx, &sameCode), sameCode.BookingReference)
	assert.ErrorIs(t, err, ErrCodeConflict)
	assert.NotContains(t, err.Error(), first.BookingReference)

	sameRef := *first
	other := "ZZZZ0000"
	sameRef.ID, sameRef.Room, sameRef.VerificationCode = 0, nil, &other
	err = insertError(env.repo.Create(ctx, &sameRef), sameRef.BookingReference)
	assert.ErrorIs(t, err, ErrReferenceConflict)
	assert.Contains(t, err.Error(), first.BookingReference)

	boom := errors.New("disk full")
	assert.Equal(t, boom, insertError(boom, "AMAN-2026-00001"))
}

func TestCreate_TooManyGuests(t *testing.T) {
	env := newEnv(t, nil)
	room := env.seedRoom(t, func(r *catalog.Room) { r.MaxGuests = 3 })

	req := request(room.ID, day(2026, time.March, 15), day(2026, time.March, 20))
	req.Guests = Guests{Adults: 2, Children: 2}

	_, err := env.svc.Create(context.Background(), req)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "maximum of 3 guests")
}

func TestCreate_RoomMissingOrInactive(t *testing.T) {
	env := newEnv(t, nil)
	inactive := env.seedRoom(t, func(r *catalog.Room) { r.IsActive = false })

	_, err := env.svc.Create(context.Background(), request(999, day(2026, time.March, 15), day(2026, time.March, 16)))
	assert.ErrorIs(t, err, ErrRoomNotFound)

	_, err = env.svc.Create(context.Background(), request(inactive.ID, day(2026, time.March, 15), day(2026, time.March, 16)))
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestCreate_InvalidInput(t *testing.T) {
	env := newEnv(t, nil)
	room := env.seedRoom(t, nil)
	ctx := context.Background()

	_, err := env.svc.Create(ctx, request(room.ID, day(2026, time.March, 20), day(2026, time.March, 20)))
	assert.ErrorIs(t, err, ErrValidation)

	req := request(room.ID, day(2026, time.March, 15), day(2026, time.March, 16))
	req.Guests.Adults = 0
	_, err = env.svc.Create(ctx, req)
	assert.ErrorIs(t, err, ErrValidation)

	req = request(room.ID, day(2026, time.March, 15), day(2026, time.March, 16))
	req.Email = "not-an-email"
	_, err = env.svc.Create(ctx, req)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "email", verr.Fields["Email"])

	req = request(room.ID, time.Time{}, day(2026, time.March, 16))
	_, err = env.svc.Create(ctx, req)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCreate_FullyBooked(t *testing.T) {
	env := newEnv(t, nil)
	room := env.seedRoom(t, func(r *catalog.Room) { r.TotalRooms = 1 })

	env.mustCreate(t, room.ID, day(2026, time.March, 15), day(2026, time.March, 20))

	_, err := env.svc.Create(context.Background(), request(room.ID, day(2026, time.March, 18), day(2026, time.March, 22)))
	assert.ErrorIs(t, err, ErrNotAvailable)
}

func TestCreate_AdjacentStaysDoNotConflict(t *testing.T) {
	env := newEnv(t, nil)
	room := env.seedRoom(t, func(r *catalog.Room) { r.TotalRooms = 1 })

	env.mustCreate(t, room.ID, day(2026, time.March, 15), day(2026, time.March, 20))
	env.mustCreate(t, room.ID, day(2026, time.March, 20), day(2026, time.March, 25))
	env.mustCreate(t, room.ID, day(2026, time.March, 10), day(2026, time.March, 15))
}

func TestCreate_PriceSnapshot(t *testing.T) {
	env := newEnv(t, nil)
	room := env.seedRoom(t, nil)
	ctx := context.Background()

	b := env.mustCreate(t, room.ID, day(2026, time.March, 15), day(2026, time.March, 17))
	require.Equal(t, 2400.0, b.TotalAmount)

	room.Price = 5000
	require.NoError(t, env.rooms.Save(ctx, room))

	again, err := env.repo.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 2400.0, again.TotalAmount)
}

func TestCreate_ReferenceSequence(t *testing.T) {
	env := newEnv(t, nil)
	room := env.seedRoom(t, func(r *catalog.Room) { r.TotalRooms = 10 })
	ctx := context.Background()

	// A reference from another year does not influence this year's sequence.
	old := env.mustCreate(t, room.ID, day(2026, time.April, 1), day(2026, time.April, 2))
	old.BookingReference = "AMAN-2025-00999"
	require.NoError(t, env.repo.Save(ctx, old))

	first := env.mustCreate(t, room.ID, day(2026, time.April, 1), day(2026, time.April, 2))
	second := env.mustCreate(t, room.ID, day(2026, time.April, 1), day(2026, time.April, 2))
	assert.Equal(t, "AMAN-2026-00001", first.BookingReference)
	assert.Equal(t, "AMAN-2026-00002", second.BookingReference)

	// Gaps are never refilled: the next number follows the highest one.
	first.BookingReference = "AMAN-2026-00045"
	require.NoError(t, env.repo.Save(ctx, first))
	third := env.mustCreate(t, room.ID, day(2026, time.April, 1), day(2026, time.April, 2))
	assert.Equal(t, "AMAN-2026-00046", third.BookingReference)
}

func TestCreate_ConcurrentLastSlot(t *testing.T) {
	env := newEnv(t, nil)
	room := env.seedRoom(t, func(r *catalog.Room) { r.TotalRooms = 2 })

	const attempts = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		rejected  int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.svc.Create(context.Background(), request(room.ID, day(2026, time.March, 15), day(2026, time.March, 18)))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, ErrNotAvailable):
				rejected++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 2, succeeded)
	assert.Equal(t, attempts-2, rejected)

	n, err := env.repo.CountOverlapping(context.Background(), room.ID, day(2026, time.March, 15), day(2026, time.March, 18), nil)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
}

/* ==================== AVAILABILITY ==================== */

func TestCheckAvailability_CountsAgainstInventory(t *testing.T) {
	env := newEnv(t, nil)
	room := env.seedRoom(t, func(r *catalog.Room) { r.TotalRooms = 2 })
	ctx := context.Background()
	in, out := day(2026, time.March, 15), day(2026, time.March, 20)

	a, err := env.svc.CheckAvailability(ctx, room.ID, in, out, nil)
	require.NoError(t, err)
	assert.Equal(t, Availability{IsAvailable: true, BookedCount: 0, TotalRooms: 2}, *a)

	first := env.mustCreate(t, room.ID, day(2026, time.March, 12), day(2026, time.March, 16))
	a, err = env.svc.CheckAvailability(ctx, room.ID, in, out, nil)
	require.NoError(t, err)
	assert.True(t, a.IsAvailable)
	assert.EqualValues(t, 1, a.BookedCount)

	env.mustCreate(t, room.ID, day(2026, time.March, 14), day(2026, time.March, 22))
	a, err = env.svc.CheckAvailability(ctx, room.ID, in, out, nil)
	require.NoError(t, err)
	assert.False(t, a.IsAvailable)
	assert.EqualValues(t, 2, a.BookedCount)

	a, err = env.svc.CheckAvailability(ctx, room.ID, in, out, &first.ID)
	require.NoError(t, err)
	assert.True(t, a.IsAvailable, "excluded booking frees its slot")
}

func TestCheckAvailability_OverlapShapes(t *testing.T) {
	env := newEnv(t, nil)
	room := env.seedRoom(t, func(r *catalog.Room) { r.TotalRooms = 1 })
	env.mustCreate(t, room.ID, day(2026, time.March, 15), day(2026, time.March, 20))
	ctx := context.Background()

	cases := []struct {
		name      string
		in, out   time.Time
		available bool
	}{
		{"start inside", day(2026, time.March, 17), day(2026, time.March, 22), false},
		{"end inside", day(2026, time.March, 12), day(2026, time.March, 16), false},
		{"contains", day(2026, time.March, 10), day(2026, time.March, 25), false},
		{"contained", day(2026, time.March, 16), day(2026, time.March, 18), false},
		{"ends at check-in", day(2026, time.March, 10), day(2026, time.March, 15), true},
		{"starts at check-out", day(2026, time.March, 20), day(2026, time.March, 21), true},
		{"disjoint", day(2026, time.April, 1), day(2026, time.April, 3), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a, err := env.svc.CheckAvailability(ctx, room.ID, tc.in, tc.out, nil)
			require.NoError(t, err)
			assert.Equal(t, tc.available, a.IsAvailable)
		})
	}
}

func TestCheckAvailability_IgnoresReleasedBookings(t *testing.T) {
	env := newEnv(t, nil)
	room := env.seedRoom(t, func(r *catalog.Room) { r.TotalRooms = 1 })
	ctx := context.Background()

	b := env.mustCreate(t, room.ID, day(2026, time.March, 15), day(2026, time.March, 20))
	_, err := env.svc.UpdateStatus(ctx, b.ID, UpdateStatusRequest{Status: StatusCancelled})
	require.NoError(t, err)

	a, err := env.svc.CheckAvailability(ctx, room.ID, day(2026, time.March, 15), day(2026, time.March, 20), nil)
	require.NoError(t, err)
	assert.True(t, a.IsAvailable)
}

func TestCheckAvailability_UnknownRoom(t *testing.T) {
	env := newEnv(t, nil)

	a, err := env.svc.CheckAvailability(context.Background(), 404, day(2026, time.March, 15), day(2026, time.March, 16), nil)
	require.NoError(t, err)
	assert.False(t, a.IsAvailable)
	assert.Equal(t, 0, a.TotalRooms)
}

func TestCheckAvailability_BadInterval(t *testing.T) {
	env := newEnv(t, nil)

	_, err := env.svc.CheckAvailability(context.Background(), 1, day(2026, time.March, 16), day(2026, time.March, 15), nil)
	assert.ErrorIs(t, err, ErrValidation)
}

/* ==================== CONFIRM ==================== */

func TestConfirm_HappyPathThenAlreadyConfirmed(t *testing.T) {
	env := newEnv(t, nil)
	room := env.seedRoom(t, nil)
	ctx := context.Background()
	b := env.mustCreate(t, room.ID, day(2026, time.March, 15), day(2026, time.March, 17))

	res, err := env.svc.Confirm(ctx, ConfirmRequest{
		BookingReference: "aman-2026-00001",
		VerificationCode: strings.ToLower(*b.VerificationCode),
	})
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, res.PaymentStatus)
	assert.True(t, res.EmailSent)
	assert.Equal(t, "Ocean Villa", res.RoomName)
	require.NotNil(t, res.ConfirmedAt)

	stored, err := env.repo.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, stored.PaymentStatus)
	assert.Nil(t, stored.VerificationCode)
	assert.NotNil(t, stored.ConfirmedAt)

	_, err = env.svc.Confirm(ctx, ConfirmRequest{BookingReference: b.BookingReference, VerificationCode: *b.VerificationCode})
	assert.ErrorIs(t, err, ErrAlreadyConfirmed)

	env.notifier.AssertCalled(t, "NotifyBookingConfirmed", mock.Anything, mock.Anything, mock.Anything)
	assert.Contains(t, env.events.types(), EventConfirmed)
}

func TestConfirm_WrongCodeLeavesStateAlone(t *testing.T) {
	env := newEnv(t, nil)
	room := env.seedRoom(t, nil)
	ctx := context.Background()
	b := env.mustCreate(t, room.ID, day(2026, time.March, 15), day(2026, time.March, 17))

	_, err := env.svc.Confirm(ctx, ConfirmRequest{BookingReference: b.BookingReference, VerificationCode: "00000000"})
	assert.ErrorIs(t, err, ErrInvalidCode)

	stored, err := env.repo.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusAwaitingPayment, stored.PaymentStatus)
	assert.Equal(t, b.VerificationCode, stored.VerificationCode)
}

func TestConfirm_AfterDeadlineExpires(t *testing.T) {
	env := newEnv(t, nil)
	room := env.seedRoom(t, nil)
	ctx := context.Background()
	b := env.mustCreate(t, room.ID, day(2026, time.March, 15), day(2026, time.March, 17))

	env.clock.Advance(6*time.Hour + time.Second)

	// Correct code, never read before: still rejected as expired.
	_, err := env.svc.Confirm(ctx, ConfirmRequest{BookingReference: b.BookingReference, VerificationCode: *b.VerificationCode})
	assert.ErrorIs(t, err, ErrExpired)

	stored, err := env.repo.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusExpired, stored.PaymentStatus)
	assert.Nil(t, stored.VerificationCode)

	_, err = env.svc.Confirm(ctx, ConfirmRequest{BookingReference: b.BookingReference, VerificationCode: "whatever"})
	assert.ErrorIs(t, err, ErrExpired)
	env.notifier.AssertNotCalled(t, "NotifyBookingConfirmed", mock.Anything, mock.Anything, mock.Anything)
}

func TestConfirm_AtDeadlineStillAllowed(t *testing.T) {
	env := newEnv(t, nil)
	room := env.seedRoom(t, nil)
	b := env.mustCreate(t, room.ID, day(2026, time.March, 15), day(2026, time.March, 17))

	env.clock.Advance(6 * time.Hour)

	_, err := env.svc.Confirm(context.Background(), ConfirmRequest{BookingReference: b.BookingReference, VerificationCode: *b.VerificationCode})
	assert.NoError(t, err)
}

func TestConfirm_Cancelled(t *testing.T) {
	env := newEnv(t, nil)
	room := env.seedRoom(t, nil)
	ctx := context.Background()
	b := env.mustCreate(t, room.ID, day(2026, time.March, 15), day(2026, time.March, 17))

	_, err := env.svc.UpdateStatus(ctx, b.ID, UpdateStatusRequest{Status: StatusCancelled})
	require.NoError(t, err)

	_, err = env.svc.Confirm(ctx, ConfirmRequest{BookingReference: b.BookingReference, VerificationCode: *b.VerificationCode})
	assert.ErrorIs(t, err, ErrCancelled)

	env.clock.Advance(7 * time.Hour)
	_, err = env.svc.Confirm(ctx, ConfirmRequest{BookingReference: b.BookingReference, VerificationCode: *b.VerificationCode})
	assert.ErrorIs(t, err, ErrCancelled)

	stored, err := env.repo.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, stored.PaymentStatus)
}

func TestConfirm_NotFound(t *testing.T) {
	env := newEnv(t, nil)

	_, err := env.svc.Confirm(context.Background(), ConfirmRequest{BookingReference: "AMAN-2026-00404", VerificationCode: "ABCDEF12"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestConfirm_EmailFailureKeepsConfirmation(t *testing.T) {
	n := &mockNotifier{}
	n.On("NotifyBookingCreated", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	n.On("NotifyBookingConfirmed", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("smtp down"))
	env := newEnv(t, n)
	room := env.seedRoom(t, nil)
	ctx := context.Background()
	b := env.mustCreate(t, room.ID, day(2026, time.March, 15), day(2026, time.March, 17))

	res, err := env.svc.Confirm(ctx, ConfirmRequest{BookingReference: b.BookingReference, VerificationCode: *b.VerificationCode})
	require.NoError(t, err)
	assert.False(t, res.EmailSent)

	stored, err := env.repo.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, stored.PaymentStatus)
}

/* ==================== READS ==================== */

func TestGetByReference_LazyExpiry(t *testing.T) {
	env := newEnv(t, nil)
	room := env.seedRoom(t, nil)
	ctx := context.Background()
	b := env.mustCreate(t, room.ID, day(2026, time.March, 15), day(2026, time.March, 17))

	v, err := env.svc.GetByReference(ctx, strings.ToLower(b.BookingReference))
	require.NoError(t, err)
	assert.Equal(t, StatusAwaitingPayment, v.PaymentStatus)
	assert.Nil(t, v.VerificationCode, "public view hides the code")
	require.NotNil(t, v.Room)
	assert.Equal(t, "Ocean Villa", v.Room.Name)

	env.clock.Advance(7 * time.Hour)

	v, err = env.svc.GetByReference(ctx, b.BookingReference)
	require.NoError(t, err)
	assert.Equal(t, StatusExpired, v.PaymentStatus)

	stored, err := env.repo.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusExpired, stored.PaymentStatus)
	assert.Nil(t, stored.VerificationCode)
	assert.Contains(t, env.events.types(), EventExpired)
}

func TestList_FiltersAndPaging(t *testing.T) {
	env := newEnv(t, nil)
	room := env.seedRoom(t, func(r *catalog.Room) { r.TotalRooms = 10 })
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		env.mustCreate(t, room.ID, day(2026, time.April, 1), day(2026, time.April, 3))
		env.clock.Advance(time.Minute)
	}
	req := request(room.ID, day(2026, time.April, 5), day(2026, time.April, 6))
	req.GuestName = "Juan Dela Cruz"
	req.Email = "juan@example.com"
	_, err := env.svc.Create(ctx, req)
	require.NoError(t, err)

	res, err := env.svc.List(ctx, ListFilter{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, res.Bookings, 2)
	assert.Equal(t, Pagination{Page: 1, Limit: 2, Total: 4, Pages: 2}, res.Pagination)
	assert.Equal(t, "Juan Dela Cruz", res.Bookings[0].GuestName, "newest first")
	assert.NotNil(t, res.Bookings[0].VerificationCode, "admin view keeps the code")

	found, err := env.svc.List(ctx, ListFilter{Search: "JUAN"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, found.Pagination.Total)

	byRef, err := env.svc.List(ctx, ListFilter{Search: "2026-00002"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, byRef.Pagination.Total)

	_, err = env.svc.List(ctx, ListFilter{Status: "bogus"})
	assert.ErrorIs(t, err, ErrValidation)

	capped, err := env.svc.List(ctx, ListFilter{Limit: 500})
	require.NoError(t, err)
	assert.Equal(t, maxPageLimit, capped.Pagination.Limit)
}

func TestList_CreatedRange(t *testing.T) {
	env := newEnv(t, nil)
	room := env.seedRoom(t, func(r *catalog.Room) { r.TotalRooms = 10 })
	ctx := context.Background()

	env.mustCreate(t, room.ID, day(2026, time.April, 1), day(2026, time.April, 3))
	env.clock.Advance(48 * time.Hour)
	env.mustCreate(t, room.ID, day(2026, time.April, 1), day(2026, time.April, 3))

	from := day(2026, time.March, 11)
	res, err := env.svc.List(ctx, ListFilter{CreatedOn: &from})
	require.NoError(t, err)
	assert.EqualValues(t, 1, res.Pagination.Total)

	to := day(2026, time.March, 10).Add(24*time.Hour - time.Second)
	res, err = env.svc.List(ctx, ListFilter{CreatedTo: &to})
	require.NoError(t, err)
	assert.EqualValues(t, 1, res.Pagination.Total)
}

func TestList_CreatedRangeWithOffset(t *testing.T) {
	env := newEnv(t, nil)
	room := env.seedRoom(t, nil)
	ctx := context.Background()

	// created at 2026-03-10 09:00 UTC
	env.mustCreate(t, room.ID, day(2026, time.April, 1), day(2026, time.April, 3))

	bound := func(s string) *time.Time {
		v, _, err := ParseDateTime(s)
		require.NoError(t, err)
		return &v
	}

	res, err := env.svc.List(ctx, ListFilter{CreatedOn: bound("2026-03-10T12:00:00+08:00")})
	require.NoError(t, err)
	assert.EqualValues(t, 1, res.Pagination.Total)

	res, err = env.svc.List(ctx, ListFilter{CreatedOn: bound("2026-03-10T17:00:01+08:00")})
	require.NoError(t, err)
	assert.EqualValues(t, 0, res.Pagination.Total)

	res, err = env.svc.List(ctx, ListFilter{CreatedTo: bound("2026-03-10T16:30:00+08:00")})
	require.NoError(t, err)
	assert.EqualValues(t, 0, res.Pagination.Total)

	res, err = env.svc.List(ctx, ListFilter{CreatedTo: bound("2026-03-10T17:00:00+08:00")})
	require.NoError(t, err)
	assert.EqualValues(t, 1, res.Pagination.Total)
}

func TestList_ExpiresOverdueRows(t *testing.T) {
	env := newEnv(t, nil)
	room := env.seedRoom(t, nil)
	ctx := context.Background()
	b := env.mustCreate(t, room.ID, day(2026, time.March, 15), day(2026, time.March, 17))

	env.clock.Advance(7 * time.Hour)

	res, err := env.svc.List(ctx, ListFilter{})
	require.NoError(t, err)
	require.Len(t, res.Bookings, 1)
	assert.Equal(t, StatusExpired, res.Bookings[0].PaymentStatus)
	assert.Nil(t, res.Bookings[0].VerificationCode)

	stored, err := env.repo.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusExpired, stored.PaymentStatus)
}

/* ==================== ADMIN ==================== */

func TestUpdateStatus_ConfirmNotifies(t *testing.T) {
	env := newEnv(t, nil)
	room := env.seedRoom(t, nil)
	ctx := context.Background()
	b := env.mustCreate(t, room.ID, day(2026, time.March, 15), day(2026, time.March, 17))

	notes := "Paid at front desk"
	res, err := env.svc.UpdateStatus(ctx, b.ID, UpdateStatusRequest{Status: StatusConfirmed, AdminNotes: &notes})
	require.NoError(t, err)
	require.NotNil(t, res.EmailSent)
	assert.True(t, *res.EmailSent)

	stored, err := env.repo.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, stored.PaymentStatus)
	assert.Nil(t, stored.VerificationCode)
	assert.NotNil(t, stored.ConfirmedAt)
	assert.Equal(t, notes, stored.AdminNotes)
	assert.Contains(t, env.events.types(), EventStatusChanged)
}

func TestUpdateStatus_AnyTransitionAllowed(t *testing.T) {
	env := newEnv(t, nil)
	room := env.seedRoom(t, nil)
	ctx := context.Background()
	b := env.mustCreate(t, room.ID, day(2026, time.March, 15), day(2026, time.March, 17))

	_, err := env.svc.UpdateStatus(ctx, b.ID, UpdateStatusRequest{Status: StatusConfirmed})
	require.NoError(t, err)

	res, err := env.svc.UpdateStatus(ctx, b.ID, UpdateStatusRequest{Status: StatusAwaitingPayment})
	require.NoError(t, err)
	assert.Nil(t, res.EmailSent)
	assert.Equal(t, StatusAwaitingPayment, res.Booking.PaymentStatus)
}

func TestUpdateStatus_ExpiredClearsCode(t *testing.T) {
	env := newEnv(t, nil)
	room := env.seedRoom(t, nil)
	ctx := context.Background()
	b := env.mustCreate(t, room.ID, day(2026, time.March, 15), day(2026, time.March, 17))

	_, err := env.svc.UpdateStatus(ctx, b.ID, UpdateStatusRequest{Status: StatusExpired})
	require.NoError(t, err)

	stored, err := env.repo.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.VerificationCode)
}

func TestUpdateStatus_Errors(t *testing.T) {
	env := newEnv(t, nil)
	ctx := context.Background()

	_, err := env.svc.UpdateStatus(ctx, 1, UpdateStatusRequest{Status: "refunded"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = env.svc.UpdateStatus(ctx, 42, UpdateStatusRequest{Status: StatusCancelled})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStats(t *testing.T) {
	env := newEnv(t, nil)
	room := env.seedRoom(t, func(r *catalog.Room) { r.TotalRooms = 10 })
	ctx := context.Background()

	a := env.mustCreate(t, room.ID, day(2026, time.April, 1), day(2026, time.April, 3))
	c := env.mustCreate(t, room.ID, day(2026, time.April, 1), day(2026, time.April, 2))
	stale := env.mustCreate(t, room.ID, day(2026, time.April, 1), day(2026, time.April, 2))
	_ = stale

	_, err := env.svc.Confirm(ctx, ConfirmRequest{BookingReference: a.BookingReference, VerificationCode: *a.VerificationCode})
	require.NoError(t, err)
	_, err = env.svc.UpdateStatus(ctx, c.ID, UpdateStatusRequest{Status: StatusCancelled})
	require.NoError(t, err)

	env.clock.Advance(7 * time.Hour)

	stats, err := env.svc.Stats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3, stats.TotalBookings)
	assert.EqualValues(t, 1, stats.ConfirmedBookings)
	assert.EqualValues(t, 0, stats.PendingBookings)
	assert.EqualValues(t, 1, stats.ExpiredBookings)
	assert.EqualValues(t, 1, stats.CancelledBookings)
	assert.EqualValues(t, 3, stats.RecentBookings)
	assert.EqualValues(t, 3, stats.TodayBookings)
	assert.Equal(t, 2400.0, stats.TotalRevenue)
}

func TestExpireOverdue(t *testing.T) {
	env := newEnv(t, nil)
	room := env.seedRoom(t, func(r *catalog.Room) { r.TotalRooms = 5 })
	ctx := context.Background()

	env.mustCreate(t, room.ID, day(2026, time.April, 1), day(2026, time.April, 2))
	env.clock.Advance(3 * time.Hour)
	fresh := env.mustCreate(t, room.ID, day(2026, time.April, 1), day(2026, time.April, 2))
	env.clock.Advance(4 * time.Hour)

	n, err := env.svc.ExpireOverdue(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	stored, err := env.repo.GetByID(ctx, fresh.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusAwaitingPayment, stored.PaymentStatus)

	n, err = env.svc.ExpireOverdue(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

/* ==================== EXTRAS ==================== */

func TestCheckInQR(t *testing.T) {
	env := newEnv(t, nil)
	room := env.seedRoom(t, nil)
	ctx := context.Background()
	b := env.mustCreate(t, room.ID, day(2026, time.March, 15), day(2026, time.March, 17))

	_, err := env.svc.CheckInQR(ctx, b.BookingReference)
	assert.ErrorIs(t, err, ErrNotConfirmed)

	_, err = env.svc.Confirm(ctx, ConfirmRequest{BookingReference: b.BookingReference, VerificationCode: *b.VerificationCode})
	require.NoError(t, err)

	png, err := env.svc.CheckInQR(ctx, b.BookingReference)
	require.NoError(t, err)
	assert.Equal(t, "\x89PNG", string(png[:4]))
}

func TestSendReceipt(t *testing.T) {
	env := newEnv(t, nil)
	room := env.seedRoom(t, nil)
	ctx := context.Background()
	b := env.mustCreate(t, room.ID, day(2026, time.March, 15), day(2026, time.March, 17))
	pdf := "data:application/pdf;base64," + base64.StdEncoding.EncodeToString([]byte("%PDF-1.4"))

	_, err := env.svc.SendReceipt(ctx, SendReceiptRequest{BookingReference: b.BookingReference, PDFData: pdf})
	assert.ErrorIs(t, err, ErrNotConfirmed)

	_, err = env.svc.Confirm(ctx, ConfirmRequest{BookingReference: b.BookingReference, VerificationCode: *b.VerificationCode})
	require.NoError(t, err)

	res, err := env.svc.SendReceipt(ctx, SendReceiptRequest{BookingReference: b.BookingReference, PDFData: pdf})
	require.NoError(t, err)
	assert.Equal(t, "maria@example.com", res.SentTo)
	assert.Equal(t, "msg-1", res.MessageID)
	env.notifier.AssertCalled(t, "SendReceipt", mock.Anything, mock.Anything, mock.Anything, []byte("%PDF-1.4"))

	_, err = env.svc.SendReceipt(ctx, SendReceiptRequest{BookingReference: b.BookingReference, PDFData: "%%%"})
	assert.ErrorIs(t, err, ErrValidation)
}
