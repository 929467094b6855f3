package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"aura-server/internal/middleware"
	"aura-server/internal/service"
	"aura-server/pkg/response"
)

// ConversationHandler handles the chat endpoints.
type ConversationHandler struct {
	conversationService *service.ConversationService
}

// NewConversationHandler creates a ConversationHandler.
func NewConversationHandler(conversationService *service.ConversationService) *ConversationHandler {
	return &ConversationHandler{conversationService: conversationService}
}

// StartConversationRequest is the payload for creating a conversation. Both
// the type and the first message are mandatory.
type StartConversationRequest struct {
	Type           string  `json:"type" binding:"required,oneof=general wellness emotional_support"`
	Title          *string `json:"title" binding:"omitempty,max=255"`
	InitialMessage string  `json:"initial_message" binding:"required,max=1000"`
}

// Start creates a conversation with its immediate first exchange.
// @Router /api/v1/conversations [post]
func (h *ConversationHandler) Start(c *gin.Context) {
	var req StartConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "datos de conversación inválidos: "+err.Error())
		return
	}

	conversation, err := h.conversationService.StartConversation(
		c.Request.Context(), middleware.GetUserID(c), req.Type, req.Title, req.InitialMessage)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidConversationType):
			response.ValidationError(c, "tipo de conversación inválido")
		case errors.Is(err, service.ErrEmptyMessage):
			response.ValidationError(c, "el mensaje inicial no puede estar vacío")
		case errors.Is(err, service.ErrMessageTooLong):
			response.ValidationError(c, "el mensaje inicial supera los 1000 caracteres")
		default:
			response.InternalError(c, "no se pudo crear la conversación")
		}
		return
	}

	response.Created(c, conversation)
}

// List returns the user's conversations, most recently active first.
// @Router /api/v1/conversations [get]
func (h *ConversationHandler) List(c *gin.Context) {
	summaries, err := h.conversationService.ListConversations(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		response.InternalError(c, "no se pudieron cargar las conversaciones")
		return
	}
	response.Success(c, summaries)
}

// Get returns a conversation with its full message history.
// @Router /api/v1/conversations/:id [get]
func (h *ConversationHandler) Get(c *gin.Context) {
	conversationID, ok := parseIDParam(c)
	if !ok {
		return
	}

	conversation, err := h.conversationService.GetConversation(c.Request.Context(), middleware.GetUserID(c), conversationID)
	if err != nil {
		respondConversationError(c, err, "no se pudo cargar la conversación")
		return
	}
	response.Success(c, conversation)
}

// SendMessageRequest is the payload for posting a message.
type SendMessageRequest struct {
	Content string `json:"content" binding:"required,max=1000"`
}

// SendMessage appends a user message and returns it together with the AI
// reply.
// @Router /api/v1/conversations/:id/messages [post]
func (h *ConversationHandler) SendMessage(c *gin.Context) {
	conversationID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "el mensaje es obligatorio y no puede superar los 1000 caracteres")
		return
	}

	exchange, err := h.conversationService.PostMessage(c.Request.Context(), middleware.GetUserID(c), conversationID, req.Content)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyMessage):
			response.ValidationError(c, "el mensaje no puede estar vacío")
		case errors.Is(err, service.ErrMessageTooLong):
			response.ValidationError(c, "el mensaje supera los 1000 caracteres")
		default:
			respondConversationError(c, err, "no se pudo enviar el mensaje")
		}
		return
	}

	response.Created(c, exchange)
}

// Delete removes a conversation and its messages.
// @Router /api/v1/conversations/:id [delete]
func (h *ConversationHandler) Delete(c *gin.Context) {
	conversationID, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.conversationService.DeleteConversation(c.Request.Context(), middleware.GetUserID(c), conversationID); err != nil {
		respondConversationError(c, err, "no se pudo eliminar la conversación")
		return
	}
	response.NoContent(c)
}

// respondConversationError maps the shared conversation errors to HTTP
// responses.
func respondConversationError(c *gin.Context, err error, fallbackMessage string) {
	switch {
	case errors.Is(err, service.ErrConversationNotFound):
		response.ConversationNotFound(c)
	case errors.Is(err, service.ErrNoPermission):
		response.Forbidden(c, "no tienes acceso a esta conversación")
	default:
		response.InternalError(c, fallbackMessage)
	}
}

// parseIDParam reads the :id path parameter. On failure it writes the 400
// response itself.
func parseIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(c, "identificador inválido")
		return 0, false
	}
	return id, true
}
