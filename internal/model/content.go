package model

import "time"

// ContentType classifies a learning item.
type ContentType string

const (
	ContentTypeWriting   ContentType = "writing"
	ContentTypeSpeaking  ContentType = "speaking"
	ContentTypeReading   ContentType = "reading"
	ContentTypeListening ContentType = "listening"
	ContentTypeExamBased ContentType = "exam-based"
)

// Valid reports whether t is one of the known content types.
func (t ContentType) Valid() bool {
	switch t {
	case ContentTypeWriting, ContentTypeSpeaking, ContentTypeReading,
		ContentTypeListening, ContentTypeExamBased:
		return true
	}
	return false
}

// Content is a learning item with optional media hosted externally. The URL
// fields point into the media host, never at local storage.
type Content struct {
	ID        uint        `json:"id" gorm:"primaryKey"`
	Title     string      `json:"title" gorm:"size:255;not null"`
	Type      ContentType `json:"type" gorm:"type:varchar(20);not null;index"`
	Text      string      `json:"text" gorm:"type:text"`
	ImageURL  string      `json:"image_url,omitempty" gorm:"size:512"`
	AudioURL  string      `json:"audio_url,omitempty" gorm:"size:512"`
	VideoURL  string      `json:"video_url,omitempty" gorm:"size:512"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}
