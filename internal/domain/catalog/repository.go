package catalog

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
)

type RoomFilter struct {
	Category  Category
	MinPrice  *float64
	MaxPrice  *float64
	MinGuests int
	Search    string
}

type RoomRepository struct {
	db *gorm.DB
}

func NewRoomRepository(db *gorm.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

// ListActive returns bookable rooms, cheapest first.
func (r *RoomRepository) ListActive(ctx context.Context, f RoomFilter) ([]Room, error) {
	q := r.db.WithContext(ctx).Model(&Room{}).Where("is_active = ?", true)
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.MinPrice != nil {
		q = q.Where("price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		q = q.Where("price <= ?", *f.MaxPrice)
	}
	if f.MinGuests > 0 {
		q = q.Where("max_guests >= ?", f.MinGuests)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}

	var rooms []Room
	if err := q.Order("price ASC").Order("id ASC").Find(&rooms).Error; err != nil {
		return nil, err
	}
	return rooms, nil
}

func (r *RoomRepository) ListAll(ctx context.Context) ([]Room, error) {
	var rooms []Room
	err := r.db.WithContext(ctx).Order("created_at DESC").Order("id DESC").Find(&rooms).Error
	return rooms, err
}

func (r *RoomRepository) GetByID(ctx context.Context, id int64) (*Room, error) {
	var room Room
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&room).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRoomNotFound
	}
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *RoomRepository) Create(ctx context.Context, room *Room) error {
	return r.db.WithContext(ctx).Create(room).Error
}

// Save writes every column, so zero values such as IsActive=false persist.
func (r *RoomRepository) Save(ctx context.Context, room *Room) error {
	return r.db.WithContext(ctx).Save(room).Error
}

func (r *RoomRepository) Deactivate(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Model(&Room{}).Where("id = ?", id).Update("is_active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrRoomNotFound
	}
	return nil
}

func (r *RoomRepository) Count(ctx context.Context) (total int64, active int64, err error) {
	if err = r.db.WithContext(ctx).Model(&Room{}).Count(&total).Error; err != nil {
		return 0, 0, err
	}
	err = r.db.WithContext(ctx).Model(&Room{}).Where("is_active = ?", true).Count(&active).Error
	return total, active, err
}
