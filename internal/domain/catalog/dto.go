package catalog

import "time"

type CreateRoomRequest struct {
	Name        string   `json:"name" validate:"required,max=100"`
	Description string   `json:"description" validate:"required,max=1000"`
	Price       float64  `json:"price" validate:"gte=0"`
	Images      []string `json:"images" validate:"required,min=1,dive,required"`
	TotalRooms  int      `json:"totalRooms" validate:"required,gte=1"`
	MaxGuests   int      `json:"maxGuests" validate:"required,gte=1"`
	Amenities   []string `json:"amenities"`
	Category    Category `json:"category" validate:"omitempty,oneof=villa casita pavilion suite"`
	IsActive    *bool    `json:"isActive,omitempty"`
}

type UpdateRoomRequest struct {
	Name        *string   `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Description *string   `json:"description,omitempty" validate:"omitempty,min=1,max=1000"`
	Price       *float64  `json:"price,omitempty" validate:"omitempty,gte=0"`
	Images      *[]string `json:"images,omitempty" validate:"omitempty,min=1"`
	TotalRooms  *int      `json:"totalRooms,omitempty" validate:"omitempty,gte=1"`
	MaxGuests   *int      `json:"maxGuests,omitempty" validate:"omitempty,gte=1"`
	Amenities   *[]string `json:"amenities,omitempty"`
	Category    *Category `json:"category,omitempty" validate:"omitempty,oneof=villa casita pavilion suite"`
	IsActive    *bool     `json:"isActive,omitempty"`
}

type UpdateDiscountRequest struct {
	IsActive   bool       `json:"isActive"`
	Percentage float64    `json:"percentage" validate:"gte=0,lte=100"`
	StartDate  *time.Time `json:"startDate,omitempty"`
	EndDate    *time.Time `json:"endDate,omitempty"`
}

type RoomCounts struct {
	Total  int64 `json:"total"`
	Active int64 `json:"active"`
}
