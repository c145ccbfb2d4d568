package repository

import (
	"context"

	"gorm.io/gorm"

	"frenchnotes/internal/model"
)

// LoginLogRepository defines persistence operations for the device login
// ledger. The count-then-write sequences that guard the approved-device quota
// must run inside WithTransaction so that two concurrent requests cannot both
// observe a count below the quota and both write.
type LoginLogRepository interface {
	Create(ctx context.Context, entry *model.LoginLog) error
	FindByID(ctx context.Context, id uint) (*model.LoginLog, error)
	FindByUserAndDevice(ctx context.Context, userID uint, deviceID string) (*model.LoginLog, error)
	CountApproved(ctx context.Context, userID uint) (int64, error)
	CountApprovedExcluding(ctx context.Context, userID, excludeID uint) (int64, error)
	UpdateStatus(ctx context.Context, id uint, status model.LoginStatus) error
	ListAll(ctx context.Context) ([]model.LoginLog, error)
	DeleteByUser(ctx context.Context, userID uint) error
	WithTransaction(ctx context.Context, fn func(ctx context.Context, repo LoginLogRepository) error) error
}

type loginLogRepository struct {
	db *gorm.DB
}

// NewLoginLogRepository builds a GORM-backed repository.
func NewLoginLogRepository(db *gorm.DB) LoginLogRepository {
	return &loginLogRepository{db: db}
}

func (r *loginLogRepository) Create(ctx context.Context, entry *model.LoginLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *loginLogRepository) FindByID(ctx context.Context, id uint) (*model.LoginLog, error) {
	var entry model.LoginLog
	if err := r.db.WithContext(ctx).First(&entry, id).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *loginLogRepository) FindByUserAndDevice(ctx context.Context, userID uint, deviceID string) (*model.LoginLog, error) {
	var entry model.LoginLog
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND device_id = ?", userID, deviceID).
		First(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *loginLogRepository) CountApproved(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.LoginLog{}).
		Where("user_id = ? AND status = ?", userID, model.LoginStatusApproved).
		Count(&count).Error
	return count, err
}

func (r *loginLogRepository) CountApprovedExcluding(ctx context.Context, userID, excludeID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.LoginLog{}).
		Where("user_id = ? AND status = ? AND id <> ?", userID, model.LoginStatusApproved, excludeID).
		Count(&count).Error
	return count, err
}

func (r *loginLogRepository) UpdateStatus(ctx context.Context, id uint, status model.LoginStatus) error {
	return r.db.WithContext(ctx).Model(&model.LoginLog{}).
		Where("id = ?", id).
		Update("status", status).Error
}

// ListAll returns every ledger entry with the owning user's identity joined in.
func (r *loginLogRepository) ListAll(ctx context.Context) ([]model.LoginLog, error) {
	var entries []model.LoginLog
	if err := r.db.WithContext(ctx).
		Preload("User").
		Order("created_at DESC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *loginLogRepository) DeleteByUser(ctx context.Context, userID uint) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&model.LoginLog{}).Error
}

// WithTransaction executes a function within a database transaction.
func (r *loginLogRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, repo LoginLogRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := &loginLogRepository{db: tx}
		return fn(ctx, txRepo)
	})
}
