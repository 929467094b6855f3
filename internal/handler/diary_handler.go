package handler

import (
	"errors"
	"io"
	"time"

	"github.com/gin-gonic/gin"

	"aura-server/internal/middleware"
	"aura-server/internal/service"
	"aura-server/pkg/response"
)

// maxAudioBytes bounds uploaded voice notes (10 MB).
const maxAudioBytes = 10 << 20

// DiaryHandler handles the personal diary endpoints.
type DiaryHandler struct {
	diaryService *service.DiaryService
}

// NewDiaryHandler creates a DiaryHandler.
func NewDiaryHandler(diaryService *service.DiaryService) *DiaryHandler {
	return &DiaryHandler{diaryService: diaryService}
}

// DiaryEntryRequest is the payload for creating or updating an entry.
type DiaryEntryRequest struct {
	Title     *string  `json:"title" binding:"omitempty,max=255"`
	Content   string   `json:"content" binding:"omitempty,max=5000"`
	Mood      *string  `json:"mood" binding:"omitempty,oneof=very_happy happy neutral sad very_sad"`
	Tags      []string `json:"tags"`
	IsPrivate *bool    `json:"is_private"`
	EntryDate *string  `json:"entry_date"`
}

func (r *DiaryEntryRequest) toInput(c *gin.Context) (service.DiaryEntryInput, bool) {
	input := service.DiaryEntryInput{
		Title:     r.Title,
		Content:   r.Content,
		Mood:      r.Mood,
		Tags:      r.Tags,
		IsPrivate: r.IsPrivate,
	}
	if r.EntryDate != nil {
		parsed, err := time.Parse(birthDateLayout, *r.EntryDate)
		if err != nil {
			response.ValidationError(c, "fecha de entrada inválida, usa el formato AAAA-MM-DD")
			return input, false
		}
		input.EntryDate = &parsed
	}
	return input, true
}

// Create stores a new diary entry.
// @Router /api/v1/diary [post]
func (h *DiaryHandler) Create(c *gin.Context) {
	var req DiaryEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "datos de la entrada inválidos: "+err.Error())
		return
	}
	input, ok := req.toInput(c)
	if !ok {
		return
	}

	entry, err := h.diaryService.CreateEntry(c.Request.Context(), middleware.GetUserID(c), input)
	if err != nil {
		respondDiaryError(c, err, "no se pudo guardar la entrada")
		return
	}
	response.Created(c, entry)
}

// List returns the user's entries, optionally bounded by ?from and ?to
// dates.
// @Router /api/v1/diary [get]
func (h *DiaryHandler) List(c *gin.Context) {
	var start, end *time.Time
	if from := c.Query("from"); from != "" {
		parsed, err := time.Parse(birthDateLayout, from)
		if err != nil {
			response.ValidationError(c, "parámetro from inválido, usa el formato AAAA-MM-DD")
			return
		}
		start = &parsed
	}
	if to := c.Query("to"); to != "" {
		parsed, err := time.Parse(birthDateLayout, to)
		if err != nil {
			response.ValidationError(c, "parámetro to inválido, usa el formato AAAA-MM-DD")
			return
		}
		end = &parsed
	}

	entries, err := h.diaryService.ListEntries(c.Request.Context(), middleware.GetUserID(c), start, end)
	if err != nil {
		response.InternalError(c, "no se pudieron cargar las entradas")
		return
	}
	response.Success(c, entries)
}

// Get returns one entry.
// @Router /api/v1/diary/:id [get]
func (h *DiaryHandler) Get(c *gin.Context) {
	entryID, ok := parseIDParam(c)
	if !ok {
		return
	}

	entry, err := h.diaryService.GetEntry(c.Request.Context(), middleware.GetUserID(c), entryID)
	if err != nil {
		respondDiaryError(c, err, "no se pudo cargar la entrada")
		return
	}
	response.Success(c, entry)
}

// Update applies a partial entry update.
// @Router /api/v1/diary/:id [put]
func (h *DiaryHandler) Update(c *gin.Context) {
	entryID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req DiaryEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "datos de la entrada inválidos: "+err.Error())
		return
	}
	input, ok := req.toInput(c)
	if !ok {
		return
	}

	entry, err := h.diaryService.UpdateEntry(c.Request.Context(), middleware.GetUserID(c), entryID, input)
	if err != nil {
		respondDiaryError(c, err, "no se pudo actualizar la entrada")
		return
	}
	response.SuccessWithMessage(c, "entrada actualizada", entry)
}

// Delete removes an entry.
// @Router /api/v1/diary/:id [delete]
func (h *DiaryHandler) Delete(c *gin.Context) {
	entryID, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.diaryService.DeleteEntry(c.Request.Context(), middleware.GetUserID(c), entryID); err != nil {
		respondDiaryError(c, err, "no se pudo eliminar la entrada")
		return
	}
	response.NoContent(c)
}

// MoodStats returns the mood distribution of the user's diary.
// @Router /api/v1/diary/stats/mood [get]
func (h *DiaryHandler) MoodStats(c *gin.Context) {
	stats, err := h.diaryService.GetMoodStats(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		response.InternalError(c, "no se pudieron calcular las estadísticas")
		return
	}
	response.Success(c, stats)
}

// Transcribe turns an uploaded voice note into entry text.
// @Router /api/v1/diary/transcribe [post]
func (h *DiaryHandler) Transcribe(c *gin.Context) {
	fileHeader, err := c.FormFile("audio")
	if err != nil {
		response.ValidationError(c, "se requiere el archivo de audio")
		return
	}
	if fileHeader.Size > maxAudioBytes {
		response.ValidationError(c, "el audio no puede superar los 10 MB")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.InternalError(c, "no se pudo leer el audio")
		return
	}
	defer file.Close()

	audio, err := io.ReadAll(file)
	if err != nil {
		response.InternalError(c, "no se pudo leer el audio")
		return
	}

	text, err := h.diaryService.TranscribeVoiceNote(c.Request.Context(), audio, fileHeader.Filename)
	if err != nil {
		if errors.Is(err, service.ErrTranscriptionUnavailable) {
			response.ErrorWithCode(c, 503, response.CodeInternalError,
				"la transcripción no está disponible, escribe tu entrada manualmente")
			return
		}
		response.InternalError(c, "no se pudo transcribir el audio")
		return
	}

	response.Success(c, gin.H{"text": text})
}

// respondDiaryError maps the diary errors to HTTP responses.
func respondDiaryError(c *gin.Context, err error, fallbackMessage string) {
	switch {
	case errors.Is(err, service.ErrDiaryEntryNotFound):
		response.ErrorWithCode(c, 404, response.CodeEntryNotFound, "entrada no encontrada")
	case errors.Is(err, service.ErrNoPermission):
		response.Forbidden(c, "no tienes acceso a esta entrada")
	case errors.Is(err, service.ErrInvalidMood):
		response.ValidationError(c, "estado de ánimo inválido")
	case errors.Is(err, service.ErrEmptyMessage):
		response.ValidationError(c, "el contenido de la entrada es obligatorio")
	case errors.Is(err, service.ErrEntryTooLong):
		response.ValidationError(c, "la entrada supera los 5000 caracteres")
	default:
		response.InternalError(c, fallbackMessage)
	}
}
