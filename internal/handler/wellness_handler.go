package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"aura-server/internal/middleware"
	"aura-server/internal/service"
	"aura-server/pkg/response"
)

// WellnessHandler handles the wellness routine endpoints.
type WellnessHandler struct {
	wellnessService *service.WellnessService
}

// NewWellnessHandler creates a WellnessHandler.
func NewWellnessHandler(wellnessService *service.WellnessService) *WellnessHandler {
	return &WellnessHandler{wellnessService: wellnessService}
}

// ListRoutines returns the routines visible to the user. With
// ?suitable=true, routines above the user's activity level are filtered
// out.
// @Router /api/v1/wellness/routines [get]
func (h *WellnessHandler) ListRoutines(c *gin.Context) {
	suitableOnly := c.Query("suitable") == "true"

	routines, err := h.wellnessService.ListRoutines(c.Request.Context(), middleware.GetUserID(c), suitableOnly)
	if err != nil {
		response.InternalError(c, "no se pudieron cargar las rutinas")
		return
	}
	response.Success(c, routines)
}

// GetRoutine returns one routine.
// @Router /api/v1/wellness/routines/:id [get]
func (h *WellnessHandler) GetRoutine(c *gin.Context) {
	routineID, ok := parseIDParam(c)
	if !ok {
		return
	}

	routine, err := h.wellnessService.GetRoutine(c.Request.Context(), middleware.GetUserID(c), routineID)
	if err != nil {
		respondWellnessError(c, err, "no se pudo cargar la rutina")
		return
	}
	response.Success(c, routine)
}

// RoutineRequest is the payload for creating or updating a personalized
// routine.
type RoutineRequest struct {
	Name            string   `json:"name" binding:"omitempty,max=255"`
	Description     string   `json:"description" binding:"omitempty,max=2000"`
	Category        string   `json:"category" binding:"omitempty,oneof=physical mental social spiritual"`
	Difficulty      string   `json:"difficulty" binding:"omitempty,oneof=easy moderate challenging"`
	DurationMinutes int      `json:"duration_minutes" binding:"omitempty,min=1,max=480"`
	Instructions    []string `json:"instructions"`
	Benefits        []string `json:"benefits"`
}

// CreateRoutine stores a personalized routine.
// @Router /api/v1/wellness/routines [post]
func (h *WellnessHandler) CreateRoutine(c *gin.Context) {
	var req RoutineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "datos de la rutina inválidos: "+err.Error())
		return
	}
	if req.Name == "" || req.Description == "" || req.DurationMinutes <= 0 {
		response.ValidationError(c, "nombre, descripción y duración son obligatorios")
		return
	}

	routine, err := h.wellnessService.CreateRoutine(c.Request.Context(), middleware.GetUserID(c), service.RoutineInput{
		Name:            req.Name,
		Description:     req.Description,
		Category:        req.Category,
		Difficulty:      req.Difficulty,
		DurationMinutes: req.DurationMinutes,
		Instructions:    req.Instructions,
		Benefits:        req.Benefits,
	})
	if err != nil {
		respondWellnessError(c, err, "no se pudo crear la rutina")
		return
	}
	response.Created(c, routine)
}

// UpdateRoutine applies a partial update to a personalized routine.
// @Router /api/v1/wellness/routines/:id [put]
func (h *WellnessHandler) UpdateRoutine(c *gin.Context) {
	routineID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req RoutineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "datos de la rutina inválidos: "+err.Error())
		return
	}

	routine, err := h.wellnessService.UpdateRoutine(c.Request.Context(), middleware.GetUserID(c), routineID, service.RoutineInput{
		Name:            req.Name,
		Description:     req.Description,
		Category:        req.Category,
		Difficulty:      req.Difficulty,
		DurationMinutes: req.DurationMinutes,
		Instructions:    req.Instructions,
		Benefits:        req.Benefits,
	})
	if err != nil {
		respondWellnessError(c, err, "no se pudo actualizar la rutina")
		return
	}
	response.SuccessWithMessage(c, "rutina actualizada", routine)
}

// DeleteRoutine removes a personalized routine and its completions.
// @Router /api/v1/wellness/routines/:id [delete]
func (h *WellnessHandler) DeleteRoutine(c *gin.Context) {
	routineID, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.wellnessService.DeleteRoutine(c.Request.Context(), middleware.GetUserID(c), routineID); err != nil {
		respondWellnessError(c, err, "no se pudo eliminar la rutina")
		return
	}
	response.NoContent(c)
}

// CompleteRoutineRequest carries the optional self-reported completion
// details.
type CompleteRoutineRequest struct {
	DurationMinutes  *int    `json:"duration_minutes" binding:"omitempty,min=1,max=480"`
	DifficultyRating *string `json:"difficulty_rating" binding:"omitempty,oneof=too_easy just_right too_hard"`
	Notes            *string `json:"notes" binding:"omitempty,max=2000"`
	EnjoymentRating  *int    `json:"enjoyment_rating" binding:"omitempty,min=1,max=5"`
}

// CompleteRoutine records today's completion of a routine.
// @Router /api/v1/wellness/routines/:id/complete [post]
func (h *WellnessHandler) CompleteRoutine(c *gin.Context) {
	routineID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req CompleteRoutineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "datos de la actividad inválidos: "+err.Error())
		return
	}

	completion, err := h.wellnessService.CompleteRoutine(c.Request.Context(), middleware.GetUserID(c), routineID, service.CompletionInput{
		DurationMinutes:  req.DurationMinutes,
		DifficultyRating: req.DifficultyRating,
		Notes:            req.Notes,
		EnjoymentRating:  req.EnjoymentRating,
	})
	if err != nil {
		respondWellnessError(c, err, "no se pudo registrar la actividad")
		return
	}
	response.Created(c, completion)
}

// CompletionHistory returns the user's completion history, newest first.
// @Router /api/v1/wellness/completions [get]
func (h *WellnessHandler) CompletionHistory(c *gin.Context) {
	completions, err := h.wellnessService.GetCompletionHistory(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		response.InternalError(c, "no se pudo cargar el historial")
		return
	}
	response.Success(c, completions)
}

// Recommendations returns static wellness tips, optionally filtered by
// ?category.
// @Router /api/v1/wellness/recommendations [get]
func (h *WellnessHandler) Recommendations(c *gin.Context) {
	response.Success(c, h.wellnessService.GetRecommendations(c.Query("category")))
}

// respondWellnessError maps the wellness errors to HTTP responses.
func respondWellnessError(c *gin.Context, err error, fallbackMessage string) {
	switch {
	case errors.Is(err, service.ErrRoutineNotFound):
		response.ErrorWithCode(c, 404, response.CodeRoutineNotFound, "rutina no encontrada")
	case errors.Is(err, service.ErrNoPermission):
		response.Forbidden(c, "no tienes acceso a esta rutina")
	case errors.Is(err, service.ErrRoutineNotEditable):
		response.Forbidden(c, "las rutinas generales no se pueden modificar")
	case errors.Is(err, service.ErrAlreadyCompletedToday):
		response.ErrorWithCode(c, 422, response.CodeAlreadyCompleted, "ya completaste esta rutina hoy")
	case errors.Is(err, service.ErrInvalidCategory):
		response.ValidationError(c, "categoría de rutina inválida")
	case errors.Is(err, service.ErrInvalidDifficulty):
		response.ValidationError(c, "dificultad de rutina inválida")
	default:
		response.InternalError(c, fallbackMessage)
	}
}
