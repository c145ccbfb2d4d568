package service

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"frenchnotes/internal/auth"
	"frenchnotes/internal/config"
	"frenchnotes/internal/errors"
	"frenchnotes/internal/model"
	"frenchnotes/internal/repository"
)

// ApprovedDeviceQuota is the maximum number of simultaneously approved
// devices per user.
const ApprovedDeviceQuota = 2

// LoginOutcome is the result of a student login attempt.
type LoginOutcome struct {
	Status model.LoginStatus
	Token  string // set only when Status is approved
	LogID  uint
}

// DeviceService is the device approval engine: it decides the outcome of a
// student login attempt against the user's existing ledger and handles admin
// approve/deny decisions, enforcing the approved-device quota in both paths.
type DeviceService interface {
	AttemptLogin(ctx context.Context, user *model.User, deviceID, deviceInfo string) (*LoginOutcome, error)
	Decide(ctx context.Context, logID uint, status model.LoginStatus) (*model.LoginLog, error)
	ListLogs(ctx context.Context) ([]model.LoginLog, error)
	ResetLogs(ctx context.Context, userID uint) error
}

type deviceService struct {
	logRepo    repository.LoginLogRepository
	jwtService *auth.JWTService
	mode       config.ApprovalMode
}

// NewDeviceService creates the approval engine. mode selects the policy for
// never-seen devices: auto-approve up to the quota, or queue as pending.
func NewDeviceService(logRepo repository.LoginLogRepository, jwtService *auth.JWTService, mode config.ApprovalMode) DeviceService {
	return &deviceService{
		logRepo:    logRepo,
		jwtService: jwtService,
		mode:       mode,
	}
}

// AttemptLogin assumes credentials were already verified by the caller.
//
// Known devices resolve from their existing ledger entry without mutation:
// approved issues a token, denied fails, pending returns the same pending
// entry. A new device is rejected once the quota is reached, otherwise a
// single ledger row is created with the status the configured policy
// dictates. The count and the insert share one transaction so two concurrent
// first-time logins cannot both slip under the quota.
func (s *deviceService) AttemptLogin(ctx context.Context, user *model.User, deviceID, deviceInfo string) (*LoginOutcome, error) {
	existing, err := s.logRepo.FindByUserAndDevice(ctx, user.ID, deviceID)
	if err != nil && err != gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("look up device entry: %w", err)
	}

	if existing != nil {
		switch existing.Status {
		case model.LoginStatusApproved:
			token, err := s.jwtService.GenerateSessionToken(user.ID, string(user.Role))
			if err != nil {
				return nil, fmt.Errorf("generate session token: %w", err)
			}
			return &LoginOutcome{Status: model.LoginStatusApproved, Token: token, LogID: existing.ID}, nil
		case model.LoginStatusDenied:
			return nil, errors.ErrDeviceDenied
		default:
			return &LoginOutcome{Status: model.LoginStatusPending, LogID: existing.ID}, nil
		}
	}

	entry := &model.LoginLog{
		UserID:     user.ID,
		Username:   user.Username,
		DeviceID:   deviceID,
		DeviceInfo: deviceInfo,
		Status:     model.LoginStatusPending,
	}
	if s.mode == config.ApprovalModeAuto {
		entry.Status = model.LoginStatusApproved
	}

	err = s.logRepo.WithTransaction(ctx, func(ctx context.Context, repo repository.LoginLogRepository) error {
		count, err := repo.CountApproved(ctx, user.ID)
		if err != nil {
			return fmt.Errorf("count approved devices: %w", err)
		}
		if count >= ApprovedDeviceQuota {
			return errors.ErrDeviceQuotaExceeded
		}
		return repo.Create(ctx, entry)
	})
	if err != nil {
		return nil, err
	}

	outcome := &LoginOutcome{Status: entry.Status, LogID: entry.ID}
	if entry.Status == model.LoginStatusApproved {
		token, err := s.jwtService.GenerateSessionToken(user.ID, string(user.Role))
		if err != nil {
			return nil, fmt.Errorf("generate session token: %w", err)
		}
		outcome.Token = token
	}
	return outcome, nil
}

// Decide applies an admin approval or denial to a ledger entry. Approving
// re-counts the user's other approved entries inside the same transaction so
// two pending approvals cannot both be pushed through above the quota; on a
// quota hit the entry is left unchanged. No token is issued here.
func (s *deviceService) Decide(ctx context.Context, logID uint, status model.LoginStatus) (*model.LoginLog, error) {
	if status != model.LoginStatusApproved && status != model.LoginStatusDenied {
		return nil, errors.ErrInvalidStatus
	}

	var updated *model.LoginLog
	err := s.logRepo.WithTransaction(ctx, func(ctx context.Context, repo repository.LoginLogRepository) error {
		entry, err := repo.FindByID(ctx, logID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return errors.ErrLoginLogNotFound
			}
			return fmt.Errorf("find login log: %w", err)
		}

		if status == model.LoginStatusApproved {
			count, err := repo.CountApprovedExcluding(ctx, entry.UserID, entry.ID)
			if err != nil {
				return fmt.Errorf("count approved devices: %w", err)
			}
			if count >= ApprovedDeviceQuota {
				return errors.ErrDeviceQuotaExceeded
			}
		}

		if err := repo.UpdateStatus(ctx, entry.ID, status); err != nil {
			return fmt.Errorf("update login log status: %w", err)
		}
		entry.Status = status
		updated = entry
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// ListLogs returns the whole ledger with user identity joined in.
func (s *deviceService) ListLogs(ctx context.Context) ([]model.LoginLog, error) {
	return s.logRepo.ListAll(ctx)
}

// ResetLogs wipes a user's ledger so their devices start over.
func (s *deviceService) ResetLogs(ctx context.Context, userID uint) error {
	return s.logRepo.DeleteByUser(ctx, userID)
}
