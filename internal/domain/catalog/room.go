package catalog

import (
	"math"
	"time"
)

type Category string

const (
	CategoryVilla    Category = "villa"
	CategoryCasita   Category = "casita"
	CategoryPavilion Category = "pavilion"
	CategorySuite    Category = "suite"
)

var Categories = []Category{CategoryVilla, CategoryCasita, CategoryPavilion, CategorySuite}

func (c Category) Valid() bool {
	for _, v := range Categories {
		if c == v {
			return true
		}
	}
	return false
}

// SeasonalDiscount is stored inline on the room row with a discount_ prefix.
type SeasonalDiscount struct {
	IsActive   bool       `json:"isActive" gorm:"column:is_active;not null;default:false"`
	Percentage float64    `json:"percentage" gorm:"column:percentage;not null;default:0"`
	StartDate  *time.Time `json:"startDate,omitempty" gorm:"column:start_date"`
	EndDate    *time.Time `json:"endDate,omitempty" gorm:"column:end_date"`
}

// AppliesAt reports whether the discount reduces the price at instant now.
// Both bounds are inclusive.
func (d SeasonalDiscount) AppliesAt(now time.Time) bool {
	if !d.IsActive || d.Percentage <= 0 {
		return false
	}
	if d.StartDate == nil || d.EndDate == nil {
		return false
	}
	return !now.Before(*d.StartDate) && !now.After(*d.EndDate)
}

type Room struct {
	ID          int64            `json:"id" gorm:"primaryKey"`
	Name        string           `json:"name" gorm:"size:100;not null"`
	Description string           `json:"description" gorm:"type:text;not null"`
	Price       float64          `json:"price" gorm:"not null;index"`
	Discount    SeasonalDiscount `json:"seasonalDiscount" gorm:"embedded;embeddedPrefix:discount_"`
	Images      []string         `json:"images" gorm:"type:text;serializer:json"`
	TotalRooms  int              `json:"totalRooms" gorm:"not null"`
	MaxGuests   int              `json:"maxGuests" gorm:"not null"`
	Amenities   []string         `json:"amenities" gorm:"type:text;serializer:json"`
	IsActive    bool             `json:"isActive" gorm:"not null;default:true;index"`
	Category    Category         `json:"category" gorm:"size:20;not null;default:villa;index"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

func (Room) TableName() string { return "rooms" }

// EffectivePrice is the nightly rate at instant now, rounded to whole units.
func (r *Room) EffectivePrice(now time.Time) float64 {
	if !r.Discount.AppliesAt(now) {
		return r.Price
	}
	discount := r.Price * (r.Discount.Percentage / 100)
	return math.Round(r.Price - discount)
}

func (r *Room) HasActiveDiscount(now time.Time) bool {
	return r.Discount.AppliesAt(now)
}

// RoomView is a room plus its derived pricing, as returned by the API.
type RoomView struct {
	Room
	EffectivePrice    float64 `json:"effectivePrice"`
	HasActiveDiscount bool    `json:"hasActiveDiscount"`
}

func NewRoomView(r Room, now time.Time) RoomView {
	return RoomView{
		Room:              r,
		EffectivePrice:    r.EffectivePrice(now),
		HasActiveDiscount: r.HasActiveDiscount(now),
	}
}

func NewRoomViews(rooms []Room, now time.Time) []RoomView {
	out := make([]RoomView, 0, len(rooms))
	for _, r := range rooms {
		out = append(out, NewRoomView(r, now))
	}
	return out
}
