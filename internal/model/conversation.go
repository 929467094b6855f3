package model

import (
	"time"
)

// Conversation types. The type selects the system preamble for prompt
// assembly and the canned fallback set; it is immutable after creation.
const (
	ConversationTypeGeneral          = "general"
	ConversationTypeWellness         = "wellness"
	ConversationTypeEmotionalSupport = "emotional_support"
)

// ValidConversationType reports whether t is one of the fixed types.
func ValidConversationType(t string) bool {
	switch t {
	case ConversationTypeGeneral, ConversationTypeWellness, ConversationTypeEmotionalSupport:
		return true
	}
	return false
}

// ConversationContext is the snapshot of owner attributes captured once when
// the conversation is created. It personalizes prompts for the lifetime of
// the conversation and is never refreshed from the profile afterwards.
type ConversationContext struct {
	// UserPreferences is copied from the owner's preferences mapping.
	UserPreferences map[string]interface{} `json:"user_preferences,omitempty"`

	// UserAge is the owner's age in years at creation time, if derivable.
	UserAge *int `json:"user_age,omitempty"`

	// ActivityLevel is the owner's activity level at creation time.
	ActivityLevel string `json:"activity_level,omitempty"`
}

// Conversation is a chat thread between a user and the AI assistant.
// Maps to the conversations table; owns its messages.
type Conversation struct {
	// ID is the primary key.
	ID int64 `gorm:"primaryKey" json:"id"`

	// UserID references the owning user. Only the owner may read or
	// append to the conversation.
	UserID int64 `gorm:"index;not null" json:"user_id"`

	// Type is one of general / wellness / emotional_support.
	Type string `gorm:"size:30;not null;default:general;index" json:"type"`

	// Title is set at most once: either explicitly at creation, or
	// derived from the first user message.
	Title *string `gorm:"size:255" json:"title,omitempty"`

	// Context is the owner snapshot captured at creation time.
	Context *ConversationContext `gorm:"serializer:json" json:"context,omitempty"`

	// LastActivityAt is refreshed whenever a message is appended.
	// Conversation lists are ordered by it, newest first.
	LastActivityAt time.Time `gorm:"index" json:"last_activity_at"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// User is the owner (many-to-one).
	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`

	// Messages in creation order (one-to-many, cascade on delete).
	Messages []Message `gorm:"foreignKey:ConversationID;constraint:OnDelete:CASCADE" json:"messages,omitempty"`
}

// TableName overrides GORM's default pluralization.
func (Conversation) TableName() string {
	return "conversations"
}
