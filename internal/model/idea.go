package model

import "time"

// Idea is a proposal submitted by a user, with an optional file attachment
// stored on the media host.
type Idea struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Title       string    `json:"title" gorm:"size:255;not null"`
	Body        string    `json:"body" gorm:"type:text;not null"`
	SubmittedBy uint      `json:"submitted_by" gorm:"not null;index"`
	FilePath    string    `json:"file_path,omitempty" gorm:"size:512"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Relations
	Submitter User `json:"submitter,omitempty" gorm:"foreignKey:SubmittedBy"`
}
