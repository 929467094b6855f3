package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"aura-server/internal/model"
	"aura-server/pkg/util"
)

// Service-level errors mapped to HTTP responses by the handlers.
var (
	ErrConversationNotFound    = errors.New("conversation not found")
	ErrNoPermission            = errors.New("no permission on this conversation")
	ErrInvalidConversationType = errors.New("invalid conversation type")
	ErrEmptyMessage            = errors.New("message content is empty")
	ErrMessageTooLong          = errors.New("message content exceeds the maximum length")
)

const (
	// maxMessageRunes bounds the length of a single user message.
	maxMessageRunes = 1000

	// titleMaxRunes bounds a derived conversation title (before the
	// trailing ellipsis).
	titleMaxRunes = 50
)

// ConversationStore is the persistence surface the conversation service needs
// for conversations. *repository.ConversationRepository implements it.
type ConversationStore interface {
	Create(ctx context.Context, conversation *model.Conversation) error
	GetByID(ctx context.Context, id int64) (*model.Conversation, error)
	GetByIDWithMessages(ctx context.Context, id int64) (*model.Conversation, error)
	GetByUserID(ctx context.Context, userID int64) ([]model.Conversation, error)
	UpdateTitle(ctx context.Context, id int64, title string) error
	TouchLastActivity(ctx context.Context, id int64, at time.Time) error
	Delete(ctx context.Context, id int64) error
}

// MessageStore is the persistence surface for messages.
// *repository.MessageRepository implements it.
type MessageStore interface {
	Create(ctx context.Context, message *model.Message) error
	GetByConversationID(ctx context.Context, conversationID int64) ([]model.Message, error)
	GetLatestByConversationID(ctx context.Context, conversationID int64, limit int) ([]model.Message, error)
	GetLastByConversationID(ctx context.Context, conversationID int64) (*model.Message, error)
	GetFirstUserMessage(ctx context.Context, conversationID int64) (*model.Message, error)
	CountByConversationID(ctx context.Context, conversationID int64) (int64, error)
}

// UserGetter resolves a user by id. *repository.UserRepository implements it.
type UserGetter interface {
	GetByID(ctx context.Context, id int64) (*model.User, error)
}

// ReplyGenerator produces the assistant reply for a user message.
// *AIService implements it.
type ReplyGenerator interface {
	GenerateReply(ctx context.Context, conversation *model.Conversation, owner *model.User, history []model.Message, userMessage string, now time.Time) GenerationResult
}

// ConversationService orchestrates the chat flow: conversation lifecycle,
// message persistence, reply generation and title derivation.
type ConversationService struct {
	conversations ConversationStore
	messages      MessageStore
	users         UserGetter
	ai            ReplyGenerator

	// now is injected so tests control timestamps.
	now func() time.Time
}

// NewConversationService creates a ConversationService.
func NewConversationService(conversations ConversationStore, messages MessageStore, users UserGetter, ai ReplyGenerator) *ConversationService {
	return &ConversationService{
		conversations: conversations,
		messages:      messages,
		users:         users,
		ai:            ai,
		now:           time.Now,
	}
}

// MessageExchange is one user turn together with the assistant reply it
// produced.
type MessageExchange struct {
	UserMessage *model.Message `json:"user_message"`
	AIMessage   *model.Message `json:"ai_message"`
}

// ConversationSummary is a conversation list item: the conversation plus its
// last message and message count.
type ConversationSummary struct {
	Conversation *model.Conversation `json:"conversation"`
	LastMessage  *model.Message      `json:"last_message,omitempty"`
	MessageCount int64               `json:"message_count"`
}

// StartConversation creates a conversation of the given type for a user,
// snapshotting the owner's profile into the conversation context. The
// initial message is mandatory: the first exchange happens immediately and
// the returned conversation carries both messages.
func (s *ConversationService) StartConversation(ctx context.Context, userID int64, conversationType string, title *string, initialMessage string) (*model.Conversation, error) {
	if !model.ValidConversationType(conversationType) {
		return nil, ErrInvalidConversationType
	}
	// Validate before creating anything so a bad message leaves no empty
	// conversation behind.
	content, err := validateMessageContent(initialMessage)
	if err != nil {
		return nil, err
	}

	owner, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if owner == nil {
		return nil, fmt.Errorf("user %d not found", userID)
	}

	now := s.now()
	conversation := &model.Conversation{
		UserID:         userID,
		Type:           conversationType,
		Title:          title,
		Context:        snapshotContext(owner, now),
		LastActivityAt: now,
	}
	if err := s.conversations.Create(ctx, conversation); err != nil {
		return nil, err
	}

	exchange, err := s.PostMessage(ctx, userID, conversation.ID, content)
	if err != nil {
		return nil, err
	}
	conversation.Messages = []model.Message{*exchange.UserMessage, *exchange.AIMessage}
	if conversation.Title == nil {
		// PostMessage derived a title from the first message; reflect it.
		refreshed, err := s.conversations.GetByID(ctx, conversation.ID)
		if err == nil && refreshed != nil {
			conversation.Title = refreshed.Title
		}
	}

	return conversation, nil
}

// PostMessage appends a user message to a conversation and produces the
// assistant reply. Generation never fails from the caller's point of view:
// when the external service is unavailable the reply is a canned fallback.
func (s *ConversationService) PostMessage(ctx context.Context, userID, conversationID int64, content string) (*MessageExchange, error) {
	content, err := validateMessageContent(content)
	if err != nil {
		return nil, err
	}

	conversation, err := s.conversations.GetByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if conversation == nil {
		return nil, ErrConversationNotFound
	}
	if conversation.UserID != userID {
		return nil, ErrNoPermission
	}

	owner, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if owner == nil {
		return nil, fmt.Errorf("user %d not found", userID)
	}

	// History is captured before the new turn is stored; the prompt appends
	// the new turn itself.
	history, err := s.messages.GetLatestByConversationID(ctx, conversationID, historyWindow)
	if err != nil {
		return nil, err
	}

	now := s.now()
	userMessage := &model.Message{
		ConversationID: conversationID,
		Sender:         model.MessageSenderUser,
		Content:        content,
		CreatedAt:      now,
	}
	if err := s.messages.Create(ctx, userMessage); err != nil {
		return nil, err
	}

	result := s.ai.GenerateReply(ctx, conversation, owner, history, content, now)

	generatedAt := s.now()
	aiMessage := &model.Message{
		ConversationID: conversationID,
		Sender:         model.MessageSenderAI,
		Content:        result.Text,
		Metadata: &model.MessageMeta{
			ResponseType: "conversational",
			Sentiment:    result.Sentiment,
			GeneratedAt:  &generatedAt,
		},
		CreatedAt: generatedAt,
	}
	if err := s.messages.Create(ctx, aiMessage); err != nil {
		return nil, err
	}

	if conversation.Title == nil {
		if err := s.deriveTitle(ctx, conversation); err != nil {
			return nil, err
		}
	}

	if err := s.conversations.TouchLastActivity(ctx, conversationID, generatedAt); err != nil {
		return nil, err
	}

	return &MessageExchange{UserMessage: userMessage, AIMessage: aiMessage}, nil
}

// ListConversations returns a user's conversations, most recently active
// first, each with its last message and message count.
func (s *ConversationService) ListConversations(ctx context.Context, userID int64) ([]ConversationSummary, error) {
	conversations, err := s.conversations.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	summaries := make([]ConversationSummary, 0, len(conversations))
	for i := range conversations {
		conversation := conversations[i]

		lastMessage, err := s.messages.GetLastByConversationID(ctx, conversation.ID)
		if err != nil {
			return nil, err
		}
		count, err := s.messages.CountByConversationID(ctx, conversation.ID)
		if err != nil {
			return nil, err
		}

		summaries = append(summaries, ConversationSummary{
			Conversation: &conversation,
			LastMessage:  lastMessage,
			MessageCount: count,
		})
	}

	return summaries, nil
}

// GetConversation returns a conversation with its full message history in
// creation order. Only the owner may read it.
func (s *ConversationService) GetConversation(ctx context.Context, userID, conversationID int64) (*model.Conversation, error) {
	conversation, err := s.conversations.GetByIDWithMessages(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if conversation == nil {
		return nil, ErrConversationNotFound
	}
	if conversation.UserID != userID {
		return nil, ErrNoPermission
	}
	return conversation, nil
}

// DeleteConversation removes a conversation and all of its messages. Only
// the owner may delete it.
func (s *ConversationService) DeleteConversation(ctx context.Context, userID, conversationID int64) error {
	conversation, err := s.conversations.GetByID(ctx, conversationID)
	if err != nil {
		return err
	}
	if conversation == nil {
		return ErrConversationNotFound
	}
	if conversation.UserID != userID {
		return ErrNoPermission
	}
	return s.conversations.Delete(ctx, conversationID)
}

// validateMessageContent trims and bounds a user message.
func validateMessageContent(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", ErrEmptyMessage
	}
	if utf8.RuneCountInString(content) > maxMessageRunes {
		return "", ErrMessageTooLong
	}
	return content, nil
}

// deriveTitle sets the conversation title from its first user message. It is
// a no-op when no user message exists yet; once a title is set it is never
// derived again.
func (s *ConversationService) deriveTitle(ctx context.Context, conversation *model.Conversation) error {
	first, err := s.messages.GetFirstUserMessage(ctx, conversation.ID)
	if err != nil {
		return err
	}
	if first == nil {
		return nil
	}

	title := util.TruncateRunes(first.Content, titleMaxRunes) + "..."
	if err := s.conversations.UpdateTitle(ctx, conversation.ID, title); err != nil {
		return err
	}
	conversation.Title = &title
	return nil
}

// snapshotContext captures the owner attributes that personalize prompts for
// the lifetime of the conversation.
func snapshotContext(owner *model.User, now time.Time) *model.ConversationContext {
	return &model.ConversationContext{
		UserPreferences: owner.Preferences,
		UserAge:         owner.Age(now),
		ActivityLevel:   owner.ActivityLevel,
	}
}
