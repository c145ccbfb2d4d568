package model

import "time"

// LoginStatus represents the approval state of a device login entry.
type LoginStatus string

const (
	LoginStatusPending  LoginStatus = "pending"
	LoginStatusApproved LoginStatus = "approved"
	LoginStatusDenied   LoginStatus = "denied"
)

// LoginLog is the ledger entry recording one device's login history for one
// user. There is at most one row per (user, device) pair; only the approval
// engine and admin decisions ever change its status.
type LoginLog struct {
	ID         uint        `json:"id" gorm:"primaryKey"`
	UserID     uint        `json:"user_id" gorm:"not null;uniqueIndex:idx_user_device"`
	Username   string      `json:"username" gorm:"size:255;not null"`
	DeviceID   string      `json:"device_id" gorm:"size:255;not null;uniqueIndex:idx_user_device"`
	DeviceInfo string      `json:"device_info" gorm:"size:512"`
	Status     LoginStatus `json:"status" gorm:"type:varchar(20);not null;default:'pending';index"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`

	// Relations
	User User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}
