package admin

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, a *AdminUser) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *Repository) GetByID(ctx context.Context, id string) (*AdminUser, error) {
	var a AdminUser
	if err := r.db.WithContext(ctx).First(&a, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *Repository) GetByEmail(ctx context.Context, email string) (*AdminUser, error) {
	var a AdminUser
	err := r.db.WithContext(ctx).First(&a, "email = ?", strings.ToLower(strings.TrimSpace(email))).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *Repository) UpdatePassword(ctx context.Context, id, hash string) error {
	return r.db.WithContext(ctx).Model(&AdminUser{}).
		Where("id = ?", id).
		Update("password_hash", hash).Error
}

func (r *Repository) TouchLogin(ctx context.Context, id string, at time.Time) error {
	return r.db.WithContext(ctx).Model(&AdminUser{}).
		Where("id = ?", id).
		Update("last_login_at", at).Error
}

func (r *Repository) SetActive(ctx context.Context, id string, active bool) error {
	return r.db.WithContext(ctx).Model(&AdminUser{}).
		Where("id = ?", id).
		Update("is_active", active).Error
}
