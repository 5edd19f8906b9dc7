package booking

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"resort/internal/database"
	"resort/internal/domain/catalog"
	"resort/internal/pkg/qr"
)

/* ==================== MOCKS ==================== */

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) NotifyBookingCreated(ctx context.Context, b *Booking, room *catalog.Room) error {
	return m.Called(ctx, b, room).Error(0)
}

func (m *mockNotifier) NotifyBookingConfirmed(ctx context.Context, b *Booking, room *catalog.Room) error {
	return m.Called(ctx, b, room).Error(0)
}

func (m *mockNotifier) SendReceipt(ctx context.Context, b *Booking, room *catalog.Room, pdf []byte) (string, error) {
	args := m.Called(ctx, b, room, pdf)
	return args.String(0), args.Error(1)
}

// newQuietNotifier accepts every call and reports created references on the channel.
func newQuietNotifier() (*mockNotifier, chan string) {
	created := make(chan string, 64)
	n := &mockNotifier{}
	n.On("NotifyBookingCreated", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { created <- args.Get(1).(*Booking).BookingReference }).
		Return(nil).Maybe()
	n.On("NotifyBookingConfirmed", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	n.On("SendReceipt", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("msg-1", nil).Maybe()
	return n, created
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []Event
}

func (p *recordingPublisher) Publish(e Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

/* ==================== ENV ==================== */

type testEnv struct {
	svc      *Service
	repo     *Repository
	rooms    *catalog.RoomRepository
	notifier *mockNotifier
	created  chan string
	events   *recordingPublisher
	clock    *testClock
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newEnv(t *testing.T, notifier *mockNotifier) *testEnv {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := database.Connect(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&catalog.Room{}, &Booking{}))

	var created chan string
	if notifier == nil {
		notifier, created = newQuietNotifier()
	}

	env := &testEnv{
		repo:     NewRepository(db),
		rooms:    catalog.NewRoomRepository(db),
		notifier: notifier,
		created:  created,
		events:   &recordingPublisher{},
		clock:    &testClock{t: time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)},
	}
	env.svc = NewService(env.repo, env.rooms, notifier, NewLocalLocker(), qr.NewEncoder("test-secret"),
		Options{ReferencePrefix: "AMAN", Expiration: 6 * time.Hour})
	env.svc.SetClock(env.clock.Now)
	env.svc.SetEventPublisher(env.events)
	return env
}

func (e *testEnv) seedRoom(t *testing.T, mutate func(r *catalog.Room)) *catalog.Room {
	t.Helper()
	r := &catalog.Room{
		Name:        "Ocean Villa",
		Description: "Beachfront villa",
		Price:       1200,
		Images:      []string{"/img/ocean.jpg"},
		TotalRooms:  1,
		MaxGuests:   3,
		Amenities:   []string{"pool"},
		IsActive:    true,
		Category:    catalog.CategoryVilla,
	}
	if mutate != nil {
		mutate(r)
	}
	require.NoError(t, e.rooms.Create(context.Background(), r))
	if !r.IsActive {
		require.NoError(t, e.rooms.Deactivate(context.Background(), r.ID))
	}
	return r
}

func request(roomID int64, in, out time.Time) CreateRequest {
	return CreateRequest{
		RoomID:    roomID,
		GuestName: "Maria Santos",
		Email:     "Maria@Example.com",
		Phone:     "+63 900 000 0000",
		CheckIn:   DateTime{in},
		CheckOut:  DateTime{out},
		Guests:    Guests{Adults: 2},
	}
}

func (e *testEnv) mustCreate(t *testing.T, roomID int64, in, out time.Time) *Booking {
	t.Helper()
	res, err := e.svc.Create(context.Background(), request(roomID, in, out))
	require.NoError(t, err)
	b, err := e.repo.GetByReference(context.Background(), res.BookingReference)
	require.NoError(t, err)
	return b
}
