package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/ivan1013/esports-management-system/internal/domain"
	"github.com/ivan1013/esports-management-system/internal/observability"
)

var ErrUserNotFound = errors.New("user not found")

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	UpdateRefreshToken(ctx context.Context, userID uint, token string, expiresAt time.Time) error
}

type GormUserRepository struct{ db *gorm.DB }

func NewUserRepository(db *gorm.DB) UserRepository { return &GormUserRepository{db: db} }

func (r *GormUserRepository) Create(ctx context.Context, user *domain.User) error {
	err := r.db.WithContext(ctx).Create(user).Error
	if err != nil {
		observability.RecordRepositoryOperation(ctx, "user", "create", "error")
		return err
	}
	observability.RecordRepositoryOperation(ctx, "user", "create", "success")
	return nil
}

func (r *GormUserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			observability.RecordRepositoryOperation(ctx, "user", "find_by_username", "not_found")
			return nil, ErrUserNotFound
		}
		observability.RecordRepositoryOperation(ctx, "user", "find_by_username", "error")
		return nil, err
	}
	observability.RecordRepositoryOperation(ctx, "user", "find_by_username", "success")
	return &u, nil
}

func (r *GormUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.User{}).Where("username = ?", username).Count(&count).Error
	if err != nil {
		observability.RecordRepositoryOperation(ctx, "user", "exists_by_username", "error")
		return false, err
	}
	observability.RecordRepositoryOperation(ctx, "user", "exists_by_username", "success")
	return count > 0, nil
}

func (r *GormUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.User{}).Where("email = ?", email).Count(&count).Error
	if err != nil {
		observability.RecordRepositoryOperation(ctx, "user", "exists_by_email", "error")
		return false, err
	}
	observability.RecordRepositoryOperation(ctx, "user", "exists_by_email", "success")
	return count > 0, nil
}

// UpdateRefreshToken overwrites the account's single active refresh token in
// one UPDATE. The request context rides along so an aborted request never
// commits a partial overwrite; concurrent callers race last-writer-wins at
// the row level.
func (r *GormUserRepository) UpdateRefreshToken(ctx context.Context, userID uint, token string, expiresAt time.Time) error {
	res := r.db.WithContext(ctx).Model(&domain.User{}).
		Where("user_id = ?", userID).
		Updates(map[string]any{"refresh_token": token, "refresh_token_expires_at": expiresAt})
	if res.Error != nil {
		observability.RecordRepositoryOperation(ctx, "user", "update_refresh_token", "error")
		return res.Error
	}
	if res.RowsAffected == 0 {
		observability.RecordRepositoryOperation(ctx, "user", "update_refresh_token", "not_found")
		return ErrUserNotFound
	}
	observability.RecordRepositoryOperation(ctx, "user", "update_refresh_token", "success")
	return nil
}
