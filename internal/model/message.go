package model

import (
	"time"
)

// Message senders.
const (
	MessageSenderUser = "user" // message written by the user
	MessageSenderAI   = "ai"   // reply produced by the assistant
)

// MessageMeta is attached to AI messages only. User messages carry no
// metadata.
type MessageMeta struct {
	// ResponseType is currently always "conversational".
	ResponseType string `json:"response_type,omitempty"`

	// Sentiment is the three-way tag (positive / neutral / negative)
	// computed over the user message this reply answers.
	Sentiment string `json:"sentiment,omitempty"`

	// GeneratedAt records when the reply was produced.
	GeneratedAt *time.Time `json:"generated_at,omitempty"`
}

// Message is a single turn in a conversation. Messages are immutable once
// created and are deleted only as a cascade of conversation deletion.
// Maps to the messages table.
type Message struct {
	// ID is the primary key; it breaks ties when two messages share a
	// creation timestamp.
	ID int64 `gorm:"primaryKey" json:"id"`

	// ConversationID references the owning conversation.
	ConversationID int64 `gorm:"index;not null" json:"conversation_id"`

	// Sender is user or ai.
	Sender string `gorm:"size:10;not null" json:"sender"`

	// Content is the message text.
	Content string `gorm:"type:text;not null" json:"content"`

	// Metadata is present on AI messages only.
	Metadata *MessageMeta `gorm:"serializer:json" json:"metadata,omitempty"`

	// CreatedAt defines the order of messages within a conversation.
	CreatedAt time.Time `gorm:"index" json:"created_at"`

	// Conversation is the owner (many-to-one).
	Conversation *Conversation `gorm:"foreignKey:ConversationID" json:"conversation,omitempty"`
}

// TableName overrides GORM's default pluralization.
func (Message) TableName() string {
	return "messages"
}

// IsFromUser reports whether the message was written by the user.
func (m *Message) IsFromUser() bool {
	return m.Sender == MessageSenderUser
}

// IsFromAI reports whether the message is an assistant reply.
func (m *Message) IsFromAI() bool {
	return m.Sender == MessageSenderAI
}
