// Package model defines the structures mapped to database tables.
package model

import (
	"time"
)

// Gender values accepted at registration.
const (
	GenderMale   = "male"
	GenderFemale = "female"
	GenderOther  = "other"
)

// Activity level values, used to personalize prompts and wellness routines.
const (
	ActivityLevelLow      = "low"
	ActivityLevelModerate = "moderate"
	ActivityLevelHigh     = "high"
)

// User is an elderly user of the companion app.
// Maps to the users table.
type User struct {
	// ID is the primary key.
	ID int64 `gorm:"primaryKey" json:"id"`

	// Name is the display name, also interpolated into AI prompts
	// and fallback replies.
	Name string `gorm:"size:255;not null" json:"name"`

	// Email is the login identifier, globally unique.
	Email string `gorm:"size:255;uniqueIndex;not null" json:"email"`

	// PasswordHash holds the bcrypt hash of the password.
	PasswordHash string `gorm:"size:255;not null" json:"-"`

	// BirthDate is optional; when present the prompt assembler derives
	// the user's age from it.
	BirthDate *time.Time `json:"birth_date,omitempty"`

	// Gender is one of male / female / other.
	Gender string `gorm:"size:20" json:"gender,omitempty"`

	// MedicalConditions is free text supplied by the user.
	MedicalConditions *string `gorm:"type:text" json:"medical_conditions,omitempty"`

	// Interests is a free-text, comma-separated list of hobbies.
	Interests *string `gorm:"type:text" json:"interests,omitempty"`

	// ActivityLevel is one of low / moderate / high.
	ActivityLevel string `gorm:"size:20;default:moderate" json:"activity_level"`

	// Emergency contact, collected at registration.
	EmergencyContactName  string `gorm:"size:255" json:"emergency_contact_name,omitempty"`
	EmergencyContactPhone string `gorm:"size:50" json:"emergency_contact_phone,omitempty"`

	// Preferences is an open key/value mapping of app preferences.
	Preferences map[string]interface{} `gorm:"serializer:json" json:"preferences,omitempty"`

	// LastActiveAt is refreshed on every successful login.
	LastActiveAt *time.Time `json:"last_active_at,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Conversations owned by this user (one-to-many).
	Conversations []Conversation `gorm:"foreignKey:UserID" json:"conversations,omitempty"`
}

// TableName overrides GORM's default pluralization.
func (User) TableName() string {
	return "users"
}

// Age returns the user's age in full years at the given instant,
// or nil when no birth date is on file.
func (u *User) Age(now time.Time) *int {
	if u.BirthDate == nil {
		return nil
	}
	years := now.Year() - u.BirthDate.Year()
	anniversary := time.Date(now.Year(), u.BirthDate.Month(), u.BirthDate.Day(), 0, 0, 0, 0, time.UTC)
	if now.Before(anniversary) {
		years--
	}
	if years < 0 {
		years = 0
	}
	return &years
}
