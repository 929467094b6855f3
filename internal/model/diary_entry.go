package model

import (
	"time"
)

// Mood values a diary entry may be tagged with.
const (
	MoodVeryHappy = "very_happy"
	MoodHappy     = "happy"
	MoodNeutral   = "neutral"
	MoodSad       = "sad"
	MoodVerySad   = "very_sad"
)

// ValidMood reports whether m is one of the fixed mood values.
func ValidMood(m string) bool {
	switch m {
	case MoodVeryHappy, MoodHappy, MoodNeutral, MoodSad, MoodVerySad:
		return true
	}
	return false
}

// DiaryEntry is a personal diary entry.
// Maps to the diary_entries table.
type DiaryEntry struct {
	ID     int64 `gorm:"primaryKey" json:"id"`
	UserID int64 `gorm:"index;not null" json:"user_id"`

	// Title is optional.
	Title *string `gorm:"size:255" json:"title,omitempty"`

	// Content is the entry body, bounded to 5000 characters at the API.
	Content string `gorm:"type:text;not null" json:"content"`

	// AISuggestions holds reflection prompts attached after creation.
	AISuggestions *string `gorm:"type:text" json:"ai_suggestions,omitempty"`

	// Mood is an optional self-reported mood tag.
	Mood *string `gorm:"size:20;index" json:"mood,omitempty"`

	// Tags is an open list of user labels.
	Tags []string `gorm:"serializer:json" json:"tags"`

	// IsPrivate defaults to true.
	IsPrivate bool `gorm:"default:true" json:"is_private"`

	// EntryDate is the day the entry is about (not necessarily the day
	// it was written).
	EntryDate time.Time `gorm:"index;not null" json:"entry_date"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// TableName overrides GORM's default pluralization.
func (DiaryEntry) TableName() string {
	return "diary_entries"
}
