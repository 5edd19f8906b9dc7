package booking

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ListFilter struct {
	Status    Status
	CreatedOn *time.Time
	CreatedTo *time.Time
	Search    string
	Page      int
	Limit     int
}

type StatusCounts map[Status]int64

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, b *Booking) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(b).Error
}

// Save writes every column of b, including a cleared verification code.
func (r *Repository) Save(ctx context.Context, b *Booking) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(b).Error
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*Booking, error) {
	var b Booking
	err := r.db.WithContext(ctx).Preload("Room").Where("id = ?", id).First(&b).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *Repository) GetByReference(ctx context.Context, ref string) (*Booking, error) {
	var b Booking
	err := r.db.WithContext(ctx).Preload("Room").Where("booking_reference = ?", ref).First(&b).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// CountOverlapping counts occupying bookings whose stay intersects
// [checkIn, checkOut). Touching intervals do not intersect.
func (r *Repository) CountOverlapping(ctx context.Context, roomID int64, checkIn, checkOut time.Time, excludeID *int64) (int64, error) {
	q := r.db.WithContext(ctx).Model(&Booking{}).
		Where("room_id = ?", roomID).
		Where("payment_status IN ?", occupying).
		Where("check_in < ? AND check_out > ?", checkOut, checkIn)
	if excludeID != nil {
		q = q.Where("id <> ?", *excludeID)
	}

	var n int64
	err := q.Count(&n).Error
	return n, err
}

// LastReference returns the highest reference issued for the year, or "".
// Length sorts first so that sequences past 99999 still order numerically.
func (r *Repository) LastReference(ctx context.Context, prefix string, year int) (string, error) {
	var refs []string
	err := r.db.WithContext(ctx).Model(&Booking{}).
		Where("booking_reference LIKE ?", referencePattern(prefix, year)).
		Order("LENGTH(booking_reference) DESC").
		Order("booking_reference DESC").
		Limit(1).
		Pluck("booking_reference", &refs).Error
	if err != nil || len(refs) == 0 {
		return "", err
	}
	return refs[0], nil
}

// ConfirmIfPending flips an awaiting booking with the given code to confirmed.
// It reports false when the row no longer matches.
func (r *Repository) ConfirmIfPending(ctx context.Context, id int64, code string, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&Booking{}).
		Where("id = ? AND payment_status = ? AND verification_code = ?", id, StatusAwaitingPayment, code).
		Updates(map[string]any{
			"payment_status":    StatusConfirmed,
			"verification_code": nil,
			"confirmed_at":      at,
		})
	return res.RowsAffected == 1, res.Error
}

// ExpireIfPending moves one awaiting booking to expired.
func (r *Repository) ExpireIfPending(ctx context.Context, id int64) (bool, error) {
	res := r.db.WithContext(ctx).Model(&Booking{}).
		Where("id = ? AND payment_status = ?", id, StatusAwaitingPayment).
		Updates(map[string]any{
			"payment_status":    StatusExpired,
			"verification_code": nil,
		})
	return res.RowsAffected == 1, res.Error
}

// ExpireOverdue expires every awaiting booking past its deadline and returns them.
func (r *Repository) ExpireOverdue(ctx context.Context, now time.Time) ([]Booking, error) {
	var overdue []Booking
	err := r.db.WithContext(ctx).
		Where("payment_status = ? AND expires_at < ?", StatusAwaitingPayment, now).
		Find(&overdue).Error
	if err != nil || len(overdue) == 0 {
		return nil, err
	}

	ids := make([]int64, 0, len(overdue))
	for _, b := range overdue {
		ids = append(ids, b.ID)
	}
	err = r.db.WithContext(ctx).Model(&Booking{}).
		Where("id IN ? AND payment_status = ?", ids, StatusAwaitingPayment).
		Updates(map[string]any{
			"payment_status":    StatusExpired,
			"verification_code": nil,
		}).Error
	if err != nil {
		return nil, err
	}

	for i := range overdue {
		overdue[i].markExpired()
	}
	return overdue, nil
}

func (r *Repository) List(ctx context.Context, f ListFilter) ([]Booking, int64, error) {
	q := r.db.WithContext(ctx).Model(&Booking{})
	if f.Status != "" {
		q = q.Where("payment_status = ?", f.Status)
	}
	if f.CreatedOn != nil {
		q = q.Where("created_at >= ?", *f.CreatedOn)
	}
	if f.CreatedTo != nil {
		q = q.Where("created_at <= ?", *f.CreatedTo)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where(
			"LOWER(booking_reference) LIKE ? OR LOWER(email) LIKE ? OR LOWER(guest_name) LIKE ?",
			like, like, like,
		)
	}

	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []Booking
	err := q.Preload("Room").
		Order("created_at DESC").
		Order("id DESC").
		Offset((f.Page - 1) * f.Limit).
		Limit(f.Limit).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *Repository) CountByStatus(ctx context.Context) (StatusCounts, error) {
	var rows []struct {
		PaymentStatus Status
		N             int64
	}
	err := r.db.WithContext(ctx).Model(&Booking{}).
		Select("payment_status, COUNT(*) AS n").
		Group("payment_status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make(StatusCounts, len(Statuses))
	for _, row := range rows {
		out[row.PaymentStatus] = row.N
	}
	return out, nil
}

func (r *Repository) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&Booking{}).Where("created_at >= ?", since).Count(&n).Error
	return n, err
}

// Revenue sums the totals of confirmed bookings.
func (r *Repository) Revenue(ctx context.Context) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).Model(&Booking{}).
		Where("payment_status = ?", StatusConfirmed).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&total).Error
	return total, err
}
