package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"resort/internal/pkg/validator"
)

type Service struct {
	rooms *RoomRepository
	now   func() time.Time
}

func NewService(rooms *RoomRepository) *Service {
	return &Service{rooms: rooms, now: time.Now}
}

// SetClock replaces the time source used for discount evaluation.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

func (s *Service) Now() time.Time {
	return s.now()
}

func (s *Service) ListRooms(ctx context.Context, f RoomFilter) ([]RoomView, error) {
	rooms, err := s.rooms.ListActive(ctx, f)
	if err != nil {
		return nil, err
	}
	return NewRoomViews(rooms, s.now()), nil
}

func (s *Service) ListAllRooms(ctx context.Context) ([]RoomView, error) {
	rooms, err := s.rooms.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return NewRoomViews(rooms, s.now()), nil
}

func (s *Service) GetRoom(ctx context.Context, id int64) (*RoomView, error) {
	room, err := s.rooms.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	v := NewRoomView(*room, s.now())
	return &v, nil
}

func (s *Service) CreateRoom(ctx context.Context, req CreateRoomRequest) (*RoomView, error) {
	if errs := validator.Validate(req); errs != nil {
		return nil, validationError(errs)
	}

	room := &Room{
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		Price:       req.Price,
		Images:      req.Images,
		TotalRooms:  req.TotalRooms,
		MaxGuests:   req.MaxGuests,
		Amenities:   req.Amenities,
		Category:    req.Category,
		IsActive:    true,
	}
	if room.Category == "" {
		room.Category = CategoryVilla
	}
	if room.Amenities == nil {
		room.Amenities = []string{}
	}
	if req.IsActive != nil {
		room.IsActive = *req.IsActive
	}

	if err := s.rooms.Create(ctx, room); err != nil {
		return nil, err
	}
	// gorm skips zero-valued fields that carry a default on insert.
	if !room.IsActive {
		if err := s.rooms.Deactivate(ctx, room.ID); err != nil {
			return nil, err
		}
	}

	v := NewRoomView(*room, s.now())
	return &v, nil
}

func (s *Service) UpdateRoom(ctx context.Context, id int64, req UpdateRoomRequest) (*RoomView, error) {
	if errs := validator.Validate(req); errs != nil {
		return nil, validationError(errs)
	}

	room, err := s.rooms.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		room.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		room.Description = strings.TrimSpace(*req.Description)
	}
	if req.Price != nil {
		room.Price = *req.Price
	}
	if req.Images != nil {
		room.Images = *req.Images
	}
	if req.TotalRooms != nil {
		room.TotalRooms = *req.TotalRooms
	}
	if req.MaxGuests != nil {
		room.MaxGuests = *req.MaxGuests
	}
	if req.Amenities != nil {
		room.Amenities = *req.Amenities
	}
	if req.Category != nil {
		room.Category = *req.Category
	}
	if req.IsActive != nil {
		room.IsActive = *req.IsActive
	}

	if err := s.rooms.Save(ctx, room); err != nil {
		return nil, err
	}
	v := NewRoomView(*room, s.now())
	return &v, nil
}

// DeleteRoom deactivates the room. Bookings keep pointing at it.
func (s *Service) DeleteRoom(ctx context.Context, id int64) error {
	return s.rooms.Deactivate(ctx, id)
}

func (s *Service) UpdateDiscount(ctx context.Context, id int64, req UpdateDiscountRequest) (*RoomView, error) {
	if errs := validator.Validate(req); errs != nil {
		return nil, validationError(errs)
	}
	if req.IsActive {
		if req.StartDate == nil || req.EndDate == nil {
			return nil, fmt.Errorf("%w: active discount needs startDate and endDate", ErrValidation)
		}
		if req.EndDate.Before(*req.StartDate) {
			return nil, fmt.Errorf("%w: endDate must not be before startDate", ErrValidation)
		}
	}

	room, err := s.rooms.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	room.Discount = SeasonalDiscount{
		IsActive:   req.IsActive,
		Percentage: req.Percentage,
		StartDate:  utcPtr(req.StartDate),
		EndDate:    utcPtr(req.EndDate),
	}
	if err := s.rooms.Save(ctx, room); err != nil {
		return nil, err
	}
	v := NewRoomView(*room, s.now())
	return &v, nil
}

func (s *Service) CountRooms(ctx context.Context) (RoomCounts, error) {
	total, active, err := s.rooms.Count(ctx)
	if err != nil {
		return RoomCounts{}, err
	}
	return RoomCounts{Total: total, Active: active}, nil
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

// ValidationError carries per-field failures alongside ErrValidation.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for f, tag := range e.Fields {
		parts = append(parts, f+" "+tag)
	}
	return "validation error: " + strings.Join(parts, ", ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

func validationError(fields map[string]string) error {
	return &ValidationError{Fields: fields}
}
