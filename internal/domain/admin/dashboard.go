package admin

import (
	"context"
	"fmt"

	"resort/internal/domain/booking"
	"resort/internal/domain/catalog"
)

type RoomCounter interface {
	CountRooms(ctx context.Context) (catalog.RoomCounts, error)
}

type BookingStats interface {
	Stats(ctx context.Context) (*booking.Stats, error)
}

// DashboardService merges room and booking figures for the back office
// landing page.
type DashboardService struct {
	rooms    RoomCounter
	bookings BookingStats
}

func NewDashboardService(rooms RoomCounter, bookings BookingStats) *DashboardService {
	return &DashboardService{rooms: rooms, bookings: bookings}
}

func (s *DashboardService) Get(ctx context.Context) (*Dashboard, error) {
	rooms, err := s.rooms.CountRooms(ctx)
	if err != nil {
		return nil, fmt.Errorf("count rooms: %w", err)
	}
	stats, err := s.bookings.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("booking stats: %w", err)
	}
	return &Dashboard{
		Rooms: DashboardRooms{Total: rooms.Total, Active: rooms.Active},
		Bookings: DashboardBookings{
			Total:     stats.TotalBookings,
			Confirmed: stats.ConfirmedBookings,
			Pending:   stats.PendingBookings,
			Recent:    stats.RecentBookings,
			Today:     stats.TodayBookings,
		},
		TotalRevenue: stats.TotalRevenue,
	}, nil
}
