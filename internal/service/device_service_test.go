package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"frenchnotes/internal/auth"
	"frenchnotes/internal/config"
	"frenchnotes/internal/errors"
	"frenchnotes/internal/model"
	"frenchnotes/internal/repository"
)

// MockLoginLogRepository is a mock implementation of LoginLogRepository.
type MockLoginLogRepository struct {
	mock.Mock
}

func (m *MockLoginLogRepository) Create(ctx context.Context, entry *model.LoginLog) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockLoginLogRepository) FindByID(ctx context.Context, id uint) (*model.LoginLog, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.LoginLog), args.Error(1)
}

func (m *MockLoginLogRepository) FindByUserAndDevice(ctx context.Context, userID uint, deviceID string) (*model.LoginLog, error) {
	args := m.Called(ctx, userID, deviceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.LoginLog), args.Error(1)
}

func (m *MockLoginLogRepository) CountApproved(ctx context.Context, userID uint) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLoginLogRepository) CountApprovedExcluding(ctx context.Context, userID, excludeID uint) (int64, error) {
	args := m.Called(ctx, userID, excludeID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLoginLogRepository) UpdateStatus(ctx context.Context, id uint, status model.LoginStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockLoginLogRepository) ListAll(ctx context.Context) ([]model.LoginLog, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.LoginLog), args.Error(1)
}

func (m *MockLoginLogRepository) DeleteByUser(ctx context.Context, userID uint) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockLoginLogRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, repo repository.LoginLogRepository) error) error {
	m.Called(ctx, mock.Anything)
	return fn(ctx, m)
}

func testStudent() *model.User {
	return &model.User{ID: 7, Username: "alice", Role: model.RoleStudent}
}

func TestDeviceService_AttemptLogin_KnownDevices(t *testing.T) {
	tests := []struct {
		name           string
		existing       *model.LoginLog
		expectedError  error
		expectedStatus model.LoginStatus
		expectToken    bool
	}{
		{
			name:           "approved device gets a token without mutation",
			existing:       &model.LoginLog{ID: 3, UserID: 7, DeviceID: "A", Status: model.LoginStatusApproved},
			expectedStatus: model.LoginStatusApproved,
			expectToken:    true,
		},
		{
			name:          "denied device is rejected",
			existing:      &model.LoginLog{ID: 4, UserID: 7, DeviceID: "B", Status: model.LoginStatusDenied},
			expectedError: errors.ErrDeviceDenied,
		},
		{
			name:           "pending device returns the same pending entry",
			existing:       &model.LoginLog{ID: 5, UserID: 7, DeviceID: "C", Status: model.LoginStatusPending},
			expectedStatus: model.LoginStatusPending,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockLoginLogRepository)
			mockRepo.On("FindByUserAndDevice", mock.Anything, uint(7), tt.existing.DeviceID).Return(tt.existing, nil)

			svc := NewDeviceService(mockRepo, auth.NewJWTService("test-secret"), config.ApprovalModeAuto)
			outcome, err := svc.AttemptLogin(context.Background(), testStudent(), tt.existing.DeviceID, "test device")

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, outcome)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedStatus, outcome.Status)
				assert.Equal(t, tt.existing.ID, outcome.LogID)
				if tt.expectToken {
					assert.NotEmpty(t, outcome.Token)
				} else {
					assert.Empty(t, outcome.Token)
				}
			}

			// Known devices must never create or mutate ledger rows.
			mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
			mockRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestDeviceService_AttemptLogin_NewDevice(t *testing.T) {
	tests := []struct {
		name           string
		mode           config.ApprovalMode
		approvedCount  int64
		expectedError  error
		expectedStatus model.LoginStatus
		expectToken    bool
	}{
		{
			name:           "auto mode approves under quota and issues a token",
			mode:           config.ApprovalModeAuto,
			approvedCount:  1,
			expectedStatus: model.LoginStatusApproved,
			expectToken:    true,
		},
		{
			name:           "manual mode queues as pending",
			mode:           config.ApprovalModeManual,
			approvedCount:  0,
			expectedStatus: model.LoginStatusPending,
		},
		{
			name:          "quota reached rejects without creating a row",
			mode:          config.ApprovalModeAuto,
			approvedCount: 2,
			expectedError: errors.ErrDeviceQuotaExceeded,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockLoginLogRepository)
			mockRepo.On("FindByUserAndDevice", mock.Anything, uint(7), "new-device").Return(nil, gorm.ErrRecordNotFound)
			mockRepo.On("WithTransaction", mock.Anything, mock.Anything).Return(nil)
			mockRepo.On("CountApproved", mock.Anything, uint(7)).Return(tt.approvedCount, nil)
			if tt.expectedError == nil {
				mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.LoginLog")).Return(nil)
			}

			svc := NewDeviceService(mockRepo, auth.NewJWTService("test-secret"), tt.mode)
			outcome, err := svc.AttemptLogin(context.Background(), testStudent(), "new-device", "test device")

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, outcome)
				mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedStatus, outcome.Status)
				if tt.expectToken {
					assert.NotEmpty(t, outcome.Token)
				} else {
					assert.Empty(t, outcome.Token)
				}
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestDeviceService_Decide(t *testing.T) {
	tests := []struct {
		name          string
		status        model.LoginStatus
		setupMock     func(*MockLoginLogRepository)
		expectedError error
	}{
		{
			name:   "deny updates the entry",
			status: model.LoginStatusDenied,
			setupMock: func(m *MockLoginLogRepository) {
				m.On("WithTransaction", mock.Anything, mock.Anything).Return(nil)
				m.On("FindByID", mock.Anything, uint(11)).Return(&model.LoginLog{ID: 11, UserID: 7, Status: model.LoginStatusPending}, nil)
				m.On("UpdateStatus", mock.Anything, uint(11), model.LoginStatusDenied).Return(nil)
			},
		},
		{
			name:   "approve under quota updates the entry",
			status: model.LoginStatusApproved,
			setupMock: func(m *MockLoginLogRepository) {
				m.On("WithTransaction", mock.Anything, mock.Anything).Return(nil)
				m.On("FindByID", mock.Anything, uint(11)).Return(&model.LoginLog{ID: 11, UserID: 7, Status: model.LoginStatusPending}, nil)
				m.On("CountApprovedExcluding", mock.Anything, uint(7), uint(11)).Return(int64(1), nil)
				m.On("UpdateStatus", mock.Anything, uint(11), model.LoginStatusApproved).Return(nil)
			},
		},
		{
			name:   "approve at quota leaves the entry unchanged",
			status: model.LoginStatusApproved,
			setupMock: func(m *MockLoginLogRepository) {
				m.On("WithTransaction", mock.Anything, mock.Anything).Return(nil)
				m.On("FindByID", mock.Anything, uint(11)).Return(&model.LoginLog{ID: 11, UserID: 7, Status: model.LoginStatusPending}, nil)
				m.On("CountApprovedExcluding", mock.Anything, uint(7), uint(11)).Return(int64(2), nil)
			},
			expectedError: errors.ErrDeviceQuotaExceeded,
		},
		{
			name:   "missing entry",
			status: model.LoginStatusDenied,
			setupMock: func(m *MockLoginLogRepository) {
				m.On("WithTransaction", mock.Anything, mock.Anything).Return(nil)
				m.On("FindByID", mock.Anything, uint(11)).Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: errors.ErrLoginLogNotFound,
		},
		{
			name:          "invalid status value",
			status:        model.LoginStatus("bogus"),
			setupMock:     func(m *MockLoginLogRepository) {},
			expectedError: errors.ErrInvalidStatus,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockLoginLogRepository)
			tt.setupMock(mockRepo)

			svc := NewDeviceService(mockRepo, auth.NewJWTService("test-secret"), config.ApprovalModeAuto)
			entry, err := svc.Decide(context.Background(), 11, tt.status)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, entry)
				mockRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.status, entry.Status)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

// fakeLedger is an in-memory LoginLogRepository for whole-flow tests.
type fakeLedger struct {
	entries map[uint]*model.LoginLog
	nextID  uint
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{entries: map[uint]*model.LoginLog{}, nextID: 1}
}

func (f *fakeLedger) Create(_ context.Context, entry *model.LoginLog) error {
	entry.ID = f.nextID
	f.nextID++
	f.entries[entry.ID] = entry
	return nil
}

func (f *fakeLedger) FindByID(_ context.Context, id uint) (*model.LoginLog, error) {
	entry, ok := f.entries[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return entry, nil
}

func (f *fakeLedger) FindByUserAndDevice(_ context.Context, userID uint, deviceID string) (*model.LoginLog, error) {
	for _, entry := range f.entries {
		if entry.UserID == userID && entry.DeviceID == deviceID {
			return entry, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeLedger) CountApproved(_ context.Context, userID uint) (int64, error) {
	var count int64
	for _, entry := range f.entries {
		if entry.UserID == userID && entry.Status == model.LoginStatusApproved {
			count++
		}
	}
	return count, nil
}

func (f *fakeLedger) CountApprovedExcluding(ctx context.Context, userID, excludeID uint) (int64, error) {
	count, _ := f.CountApproved(ctx, userID)
	if entry, ok := f.entries[excludeID]; ok && entry.Status == model.LoginStatusApproved {
		count--
	}
	return count, nil
}

func (f *fakeLedger) UpdateStatus(_ context.Context, id uint, status model.LoginStatus) error {
	entry, ok := f.entries[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	entry.Status = status
	return nil
}

func (f *fakeLedger) ListAll(_ context.Context) ([]model.LoginLog, error) {
	out := make([]model.LoginLog, 0, len(f.entries))
	for _, entry := range f.entries {
		out = append(out, *entry)
	}
	return out, nil
}

func (f *fakeLedger) DeleteByUser(_ context.Context, userID uint) error {
	for id, entry := range f.entries {
		if entry.UserID == userID {
			delete(f.entries, id)
		}
	}
	return nil
}

func (f *fakeLedger) WithTransaction(ctx context.Context, fn func(ctx context.Context, repo repository.LoginLogRepository) error) error {
	return fn(ctx, f)
}

// Walks the canonical auto-approve lifecycle: two devices get approved, the
// third bounces off the quota, and a denied device stays locked out.
func TestDeviceService_AutoApproveLifecycle(t *testing.T) {
	ledger := newFakeLedger()
	svc := NewDeviceService(ledger, auth.NewJWTService("test-secret"), config.ApprovalModeAuto)
	ctx := context.Background()
	alice := testStudent()

	first, err := svc.AttemptLogin(ctx, alice, "A", "laptop")
	assert.NoError(t, err)
	assert.Equal(t, model.LoginStatusApproved, first.Status)
	assert.NotEmpty(t, first.Token)

	second, err := svc.AttemptLogin(ctx, alice, "B", "phone")
	assert.NoError(t, err)
	assert.Equal(t, model.LoginStatusApproved, second.Status)
	assert.NotEmpty(t, second.Token)

	// Third device bounces off the quota and leaves no row behind.
	_, err = svc.AttemptLogin(ctx, alice, "C", "tablet")
	assert.ErrorIs(t, err, errors.ErrDeviceQuotaExceeded)
	_, err = ledger.FindByUserAndDevice(ctx, alice.ID, "C")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	// Re-login from an approved device is idempotent on the ledger.
	again, err := svc.AttemptLogin(ctx, alice, "A", "laptop")
	assert.NoError(t, err)
	assert.Equal(t, first.LogID, again.LogID)
	count, _ := ledger.CountApproved(ctx, alice.ID)
	assert.Equal(t, int64(2), count)

	// Admin denies device B; B stays locked out on retry.
	_, err = svc.Decide(ctx, second.LogID, model.LoginStatusDenied)
	assert.NoError(t, err)
	_, err = svc.AttemptLogin(ctx, alice, "B", "phone")
	assert.ErrorIs(t, err, errors.ErrDeviceDenied)

	// The freed quota slot admits a new device.
	third, err := svc.AttemptLogin(ctx, alice, "C", "tablet")
	assert.NoError(t, err)
	assert.Equal(t, model.LoginStatusApproved, third.Status)
}

// Walks the manual mode flow: pending entries need an admin decision, and a
// third approval is refused once two are through.
func TestDeviceService_ManualApprovalLifecycle(t *testing.T) {
	ledger := newFakeLedger()
	svc := NewDeviceService(ledger, auth.NewJWTService("test-secret"), config.ApprovalModeManual)
	ctx := context.Background()
	alice := testStudent()

	outcomes := make([]*LoginOutcome, 0, 3)
	for _, device := range []string{"A", "B", "C"} {
		outcome, err := svc.AttemptLogin(ctx, alice, device, "device "+device)
		assert.NoError(t, err)
		assert.Equal(t, model.LoginStatusPending, outcome.Status)
		assert.Empty(t, outcome.Token)
		outcomes = append(outcomes, outcome)
	}

	// Retrying while pending returns the same entry instead of re-queueing.
	retry, err := svc.AttemptLogin(ctx, alice, "A", "device A")
	assert.NoError(t, err)
	assert.Equal(t, outcomes[0].LogID, retry.LogID)

	_, err = svc.Decide(ctx, outcomes[0].LogID, model.LoginStatusApproved)
	assert.NoError(t, err)
	_, err = svc.Decide(ctx, outcomes[1].LogID, model.LoginStatusApproved)
	assert.NoError(t, err)

	// Approving a third pending entry would break the quota invariant.
	_, err = svc.Decide(ctx, outcomes[2].LogID, model.LoginStatusApproved)
	assert.ErrorIs(t, err, errors.ErrDeviceQuotaExceeded)
	entry, _ := ledger.FindByID(ctx, outcomes[2].LogID)
	assert.Equal(t, model.LoginStatusPending, entry.Status)

	// Approved device now logs in with a token.
	outcome, err := svc.AttemptLogin(ctx, alice, "A", "device A")
	assert.NoError(t, err)
	assert.Equal(t, model.LoginStatusApproved, outcome.Status)
	assert.NotEmpty(t, outcome.Token)
}
