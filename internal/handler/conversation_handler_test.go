package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"aura-server/internal/model"
	"aura-server/internal/service"
)

// In-memory stores for exercising the handler through a real router.

type memConversations struct {
	nextID   int64
	items    map[int64]*model.Conversation
	messages *memMessages
}

func (s *memConversations) Create(_ context.Context, c *model.Conversation) error {
	s.nextID++
	c.ID = s.nextID
	stored := *c
	s.items[c.ID] = &stored
	return nil
}

func (s *memConversations) GetByID(_ context.Context, id int64) (*model.Conversation, error) {
	c, ok := s.items[id]
	if !ok {
		return nil, nil
	}
	copied := *c
	return &copied, nil
}

func (s *memConversations) GetByIDWithMessages(ctx context.Context, id int64) (*model.Conversation, error) {
	c, err := s.GetByID(ctx, id)
	if err != nil || c == nil {
		return c, err
	}
	c.Messages, _ = s.messages.GetByConversationID(ctx, id)
	return c, nil
}

func (s *memConversations) GetByUserID(_ context.Context, userID int64) ([]model.Conversation, error) {
	var out []model.Conversation
	for _, c := range s.items {
		if c.UserID == userID {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LastActivityAt.After(out[j].LastActivityAt) })
	return out, nil
}

func (s *memConversations) UpdateTitle(_ context.Context, id int64, title string) error {
	if c, ok := s.items[id]; ok {
		c.Title = &title
	}
	return nil
}

func (s *memConversations) TouchLastActivity(_ context.Context, id int64, at time.Time) error {
	if c, ok := s.items[id]; ok {
		c.LastActivityAt = at
	}
	return nil
}

func (s *memConversations) Delete(_ context.Context, id int64) error {
	delete(s.items, id)
	return nil
}

type memMessages struct {
	nextID int64
	items  []model.Message
}

func (s *memMessages) Create(_ context.Context, m *model.Message) error {
	s.nextID++
	m.ID = s.nextID
	s.items = append(s.items, *m)
	return nil
}

func (s *memMessages) GetByConversationID(_ context.Context, conversationID int64) ([]model.Message, error) {
	var out []model.Message
	for _, m := range s.items {
		if m.ConversationID == conversationID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (s *memMessages) GetLatestByConversationID(ctx context.Context, conversationID int64, limit int) ([]model.Message, error) {
	all, _ := s.GetByConversationID(ctx, conversationID)
	if len(all) > limit {
		all = all[len(all)-limit:]
	}
	return all, nil
}

func (s *memMessages) GetLastByConversationID(ctx context.Context, conversationID int64) (*model.Message, error) {
	all, _ := s.GetByConversationID(ctx, conversationID)
	if len(all) == 0 {
		return nil, nil
	}
	last := all[len(all)-1]
	return &last, nil
}

func (s *memMessages) GetFirstUserMessage(ctx context.Context, conversationID int64) (*model.Message, error) {
	all, _ := s.GetByConversationID(ctx, conversationID)
	for _, m := range all {
		if m.Sender == model.MessageSenderUser {
			found := m
			return &found, nil
		}
	}
	return nil, nil
}

func (s *memMessages) CountByConversationID(ctx context.Context, conversationID int64) (int64, error) {
	all, _ := s.GetByConversationID(ctx, conversationID)
	return int64(len(all)), nil
}

type memUsers struct{ users map[int64]*model.User }

func (s *memUsers) GetByID(_ context.Context, id int64) (*model.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	copied := *u
	return &copied, nil
}

type cannedGenerator struct{}

func (cannedGenerator) GenerateReply(_ context.Context, _ *model.Conversation, _ *model.User, _ []model.Message, userMessage string, _ time.Time) service.GenerationResult {
	return service.GenerationResult{Text: "Entendido.", Sentiment: service.AnalyzeSentiment(userMessage)}
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	messages := &memMessages{}
	conversations := &memConversations{items: map[int64]*model.Conversation{}, messages: messages}
	users := &memUsers{users: map[int64]*model.User{
		1: {ID: 1, Name: "María", ActivityLevel: model.ActivityLevelModerate},
	}}

	svc := service.NewConversationService(conversations, messages, users, cannedGenerator{})
	h := NewConversationHandler(svc)

	router := gin.New()
	// Stand-in for the JWT middleware: every request acts as user 1.
	asUser := func(c *gin.Context) {
		c.Set("user_id", int64(1))
		c.Next()
	}
	group := router.Group("/api/v1/conversations", asUser)
	{
		group.POST("", h.Start)
		group.GET("", h.List)
		group.GET("/:id", h.Get)
		group.DELETE("/:id", h.Delete)
		group.POST("/:id/messages", h.SendMessage)
	}
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestConversationEndpointsRoundTrip(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/v1/conversations", `{"type":"general","initial_message":"Hola"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d, body=%s", w.Code, w.Body.String())
	}

	w = doJSON(t, router, http.MethodPost, "/api/v1/conversations/1/messages", `{"content":"Hola, ¿cómo estás?"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("send: expected 201, got %d, body=%s", w.Code, w.Body.String())
	}

	var envelope struct {
		Code int `json:"code"`
		Data struct {
			UserMessage *model.Message `json:"user_message"`
			AIMessage   *model.Message `json:"ai_message"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if envelope.Code != 0 {
		t.Fatalf("business code = %d", envelope.Code)
	}
	if envelope.Data.AIMessage == nil || envelope.Data.AIMessage.Content != "Entendido." {
		t.Fatalf("unexpected AI message: %+v", envelope.Data.AIMessage)
	}

	w = doJSON(t, router, http.MethodGet, "/api/v1/conversations/1", "")
	if w.Code != http.StatusOK {
		t.Fatalf("get: expected 200, got %d", w.Code)
	}

	w = doJSON(t, router, http.MethodDelete, "/api/v1/conversations/1", "")
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete: expected 204, got %d", w.Code)
	}
}

func TestConversationEndpointErrors(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/v1/conversations", `{"type":"astrology","initial_message":"Hola"}`)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("bad type: expected 422, got %d", w.Code)
	}

	w = doJSON(t, router, http.MethodPost, "/api/v1/conversations", `{"initial_message":"Hola"}`)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("missing type: expected 422, got %d", w.Code)
	}

	w = doJSON(t, router, http.MethodPost, "/api/v1/conversations", `{"type":"general"}`)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("missing initial message: expected 422, got %d", w.Code)
	}

	w = doJSON(t, router, http.MethodGet, "/api/v1/conversations/99", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("missing conversation: expected 404, got %d", w.Code)
	}

	w = doJSON(t, router, http.MethodGet, "/api/v1/conversations/abc", "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bad id: expected 400, got %d", w.Code)
	}

	w = doJSON(t, router, http.MethodPost, "/api/v1/conversations/1/messages", `{"content":""}`)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("empty message: expected 422, got %d", w.Code)
	}
}
