package service

import (
	"context"
	"errors"
	"time"

	"aura-server/internal/model"
	"aura-server/pkg/util"
)

var (
	ErrRoutineNotFound       = errors.New("wellness routine not found")
	ErrRoutineNotEditable    = errors.New("general routines cannot be modified")
	ErrAlreadyCompletedToday = errors.New("routine already completed today")
	ErrInvalidCategory       = errors.New("invalid routine category")
	ErrInvalidDifficulty     = errors.New("invalid routine difficulty")
)

// WellnessStore is the persistence surface for routines and completions.
// *repository.WellnessRepository implements it.
type WellnessStore interface {
	CreateRoutine(ctx context.Context, routine *model.WellnessRoutine) error
	GetRoutineByID(ctx context.Context, id int64) (*model.WellnessRoutine, error)
	GetActiveForUser(ctx context.Context, userID int64) ([]model.WellnessRoutine, error)
	UpdateRoutine(ctx context.Context, routine *model.WellnessRoutine) error
	DeleteRoutine(ctx context.Context, id int64) error
	CreateCompletion(ctx context.Context, completion *model.RoutineCompletion) error
	GetCompletion(ctx context.Context, userID, routineID int64, date time.Time) (*model.RoutineCompletion, error)
	GetCompletionsByUserID(ctx context.Context, userID int64) ([]model.RoutineCompletion, error)
	GetRecentCompletions(ctx context.Context, userID, routineID int64, limit int) ([]model.RoutineCompletion, error)
}

// WellnessService implements wellness routines: catalog, personalized
// routines, daily completions and recommendations.
type WellnessService struct {
	routines WellnessStore
	users    UserGetter

	now func() time.Time
}

// NewWellnessService creates a WellnessService.
func NewWellnessService(routines WellnessStore, users UserGetter) *WellnessService {
	return &WellnessService{
		routines: routines,
		users:    users,
		now:      time.Now,
	}
}

// ListRoutines returns the active routines visible to a user: general ones
// plus their own. When suitableOnly is set, routines whose difficulty does
// not match the user's activity level are filtered out.
func (s *WellnessService) ListRoutines(ctx context.Context, userID int64, suitableOnly bool) ([]model.WellnessRoutine, error) {
	routines, err := s.routines.GetActiveForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !suitableOnly {
		return routines, nil
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	suitable := make([]model.WellnessRoutine, 0, len(routines))
	for _, routine := range routines {
		if routine.SuitableFor(user) {
			suitable = append(suitable, routine)
		}
	}
	return suitable, nil
}

// GetRoutine returns one routine visible to the user.
func (s *WellnessService) GetRoutine(ctx context.Context, userID, routineID int64) (*model.WellnessRoutine, error) {
	routine, err := s.routines.GetRoutineByID(ctx, routineID)
	if err != nil {
		return nil, err
	}
	if routine == nil {
		return nil, ErrRoutineNotFound
	}
	if routine.UserID != nil && *routine.UserID != userID {
		return nil, ErrNoPermission
	}
	return routine, nil
}

// RoutineInput carries the writable fields of a personalized routine.
type RoutineInput struct {
	Name            string
	Description     string
	Category        string
	Difficulty      string
	DurationMinutes int
	Instructions    []string
	Benefits        []string
}

// CreateRoutine stores a personalized routine owned by the user.
func (s *WellnessService) CreateRoutine(ctx context.Context, userID int64, input RoutineInput) (*model.WellnessRoutine, error) {
	if !model.ValidRoutineCategory(input.Category) {
		return nil, ErrInvalidCategory
	}
	if !model.ValidRoutineDifficulty(input.Difficulty) {
		return nil, ErrInvalidDifficulty
	}

	routine := &model.WellnessRoutine{
		UserID:          util.Int64Ptr(userID),
		Name:            input.Name,
		Description:     input.Description,
		Category:        input.Category,
		Difficulty:      input.Difficulty,
		DurationMinutes: input.DurationMinutes,
		Instructions:    input.Instructions,
		Benefits:        input.Benefits,
		IsPersonalized:  true,
		IsActive:        true,
	}
	if err := s.routines.CreateRoutine(ctx, routine); err != nil {
		return nil, err
	}
	return routine, nil
}

// UpdateRoutine applies the writable fields to a personalized routine.
// General routines (no owner) are read-only.
func (s *WellnessService) UpdateRoutine(ctx context.Context, userID, routineID int64, input RoutineInput) (*model.WellnessRoutine, error) {
	routine, err := s.editableRoutine(ctx, userID, routineID)
	if err != nil {
		return nil, err
	}

	if input.Name != "" {
		routine.Name = input.Name
	}
	if input.Description != "" {
		routine.Description = input.Description
	}
	if input.Category != "" {
		if !model.ValidRoutineCategory(input.Category) {
			return nil, ErrInvalidCategory
		}
		routine.Category = input.Category
	}
	if input.Difficulty != "" {
		if !model.ValidRoutineDifficulty(input.Difficulty) {
			return nil, ErrInvalidDifficulty
		}
		routine.Difficulty = input.Difficulty
	}
	if input.DurationMinutes > 0 {
		routine.DurationMinutes = input.DurationMinutes
	}
	if input.Instructions != nil {
		routine.Instructions = input.Instructions
	}
	if input.Benefits != nil {
		routine.Benefits = input.Benefits
	}

	if err := s.routines.UpdateRoutine(ctx, routine); err != nil {
		return nil, err
	}
	return routine, nil
}

// DeleteRoutine removes a personalized routine and its completions.
func (s *WellnessService) DeleteRoutine(ctx context.Context, userID, routineID int64) error {
	routine, err := s.editableRoutine(ctx, userID, routineID)
	if err != nil {
		return err
	}
	return s.routines.DeleteRoutine(ctx, routine.ID)
}

func (s *WellnessService) editableRoutine(ctx context.Context, userID, routineID int64) (*model.WellnessRoutine, error) {
	routine, err := s.routines.GetRoutineByID(ctx, routineID)
	if err != nil {
		return nil, err
	}
	if routine == nil {
		return nil, ErrRoutineNotFound
	}
	if routine.UserID == nil {
		return nil, ErrRoutineNotEditable
	}
	if *routine.UserID != userID {
		return nil, ErrNoPermission
	}
	return routine, nil
}

// CompletionInput carries the optional self-reported details of a completion.
type CompletionInput struct {
	DurationMinutes  *int
	DifficultyRating *string
	Notes            *string
	EnjoymentRating  *int
}

// CompleteRoutine records that the user completed a routine today. At most
// one completion per routine and day.
func (s *WellnessService) CompleteRoutine(ctx context.Context, userID, routineID int64, input CompletionInput) (*model.RoutineCompletion, error) {
	routine, err := s.GetRoutine(ctx, userID, routineID)
	if err != nil {
		return nil, err
	}

	today := dateOnly(s.now())
	existing, err := s.routines.GetCompletion(ctx, userID, routine.ID, today)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrAlreadyCompletedToday
	}

	completion := &model.RoutineCompletion{
		UserID:            userID,
		WellnessRoutineID: routine.ID,
		CompletedDate:     today,
		DurationMinutes:   input.DurationMinutes,
		DifficultyRating:  input.DifficultyRating,
		Notes:             input.Notes,
		EnjoymentRating:   input.EnjoymentRating,
	}
	if err := s.routines.CreateCompletion(ctx, completion); err != nil {
		return nil, err
	}
	return completion, nil
}

// GetCompletionHistory returns all of a user's completions, newest day
// first, with routines preloaded.
func (s *WellnessService) GetCompletionHistory(ctx context.Context, userID int64) ([]model.RoutineCompletion, error) {
	return s.routines.GetCompletionsByUserID(ctx, userID)
}

// Recommendation is a static wellness tip shown alongside the routine
// catalog.
type Recommendation struct {
	Category string `json:"category"`
	Title    string `json:"title"`
	Text     string `json:"text"`
}

// Static recommendations by category, one set per activity level tier.
var wellnessRecommendations = []Recommendation{
	{
		Category: model.RoutineCategoryPhysical,
		Title:    "Caminata diaria",
		Text:     "Una caminata suave de 15 a 30 minutos al día ayuda a mantener la movilidad y mejora el ánimo.",
	},
	{
		Category: model.RoutineCategoryPhysical,
		Title:    "Estiramientos matutinos",
		Text:     "Dedica unos minutos cada mañana a estirar suavemente brazos, piernas y espalda antes de comenzar el día.",
	},
	{
		Category: model.RoutineCategoryMental,
		Title:    "Ejercita tu mente",
		Text:     "Los crucigramas, la lectura y los juegos de memoria mantienen la mente activa y despierta.",
	},
	{
		Category: model.RoutineCategoryMental,
		Title:    "Respiración consciente",
		Text:     "Practica respiraciones profundas y lentas durante cinco minutos para reducir la ansiedad.",
	},
	{
		Category: model.RoutineCategorySocial,
		Title:    "Mantén el contacto",
		Text:     "Llama o visita a un familiar o amigo cada día. La conexión social es tan importante como el ejercicio.",
	},
	{
		Category: model.RoutineCategorySpiritual,
		Title:    "Momento de gratitud",
		Text:     "Antes de dormir, piensa en tres cosas buenas que te hayan pasado hoy.",
	},
}

// GetRecommendations returns the static wellness tips, optionally filtered
// by category.
func (s *WellnessService) GetRecommendations(category string) []Recommendation {
	if category == "" {
		return wellnessRecommendations
	}
	filtered := make([]Recommendation, 0, len(wellnessRecommendations))
	for _, rec := range wellnessRecommendations {
		if rec.Category == category {
			filtered = append(filtered, rec)
		}
	}
	return filtered
}

// dateOnly truncates a timestamp to midnight UTC, the precision completions
// are stored at.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
