package model

import (
	"time"
)

// Wellness routine categories.
const (
	RoutineCategoryPhysical  = "physical"
	RoutineCategoryMental    = "mental"
	RoutineCategorySocial    = "social"
	RoutineCategorySpiritual = "spiritual"
)

// Routine difficulty levels.
const (
	RoutineDifficultyEasy        = "easy"
	RoutineDifficultyModerate    = "moderate"
	RoutineDifficultyChallenging = "challenging"
)

// ValidRoutineCategory reports whether c is one of the fixed categories.
func ValidRoutineCategory(c string) bool {
	switch c {
	case RoutineCategoryPhysical, RoutineCategoryMental, RoutineCategorySocial, RoutineCategorySpiritual:
		return true
	}
	return false
}

// ValidRoutineDifficulty reports whether d is one of the fixed levels.
func ValidRoutineDifficulty(d string) bool {
	switch d {
	case RoutineDifficultyEasy, RoutineDifficultyModerate, RoutineDifficultyChallenging:
		return true
	}
	return false
}

// WellnessRoutine is an activity a user can complete regularly.
// UserID is nil for general routines visible to everyone.
// Maps to the wellness_routines table.
type WellnessRoutine struct {
	ID     int64  `gorm:"primaryKey" json:"id"`
	UserID *int64 `gorm:"index" json:"user_id,omitempty"`

	Name        string `gorm:"size:255;not null" json:"name"`
	Description string `gorm:"type:text;not null" json:"description"`

	// Category is one of physical / mental / social / spiritual.
	Category string `gorm:"size:20;not null;index" json:"category"`

	// Difficulty is one of easy / moderate / challenging.
	Difficulty string `gorm:"size:20;not null" json:"difficulty"`

	DurationMinutes int `gorm:"not null" json:"duration_minutes"`

	// Instructions is an ordered list of steps.
	Instructions []string `gorm:"serializer:json" json:"instructions"`

	// Benefits is an optional list of expected benefits.
	Benefits []string `gorm:"serializer:json" json:"benefits"`

	IsPersonalized bool `gorm:"default:false" json:"is_personalized"`
	IsActive       bool `gorm:"default:true;index" json:"is_active"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	User        *User               `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Completions []RoutineCompletion `gorm:"foreignKey:WellnessRoutineID;constraint:OnDelete:CASCADE" json:"completions,omitempty"`
}

// TableName overrides GORM's default pluralization.
func (WellnessRoutine) TableName() string {
	return "wellness_routines"
}

// SuitableFor reports whether the routine's difficulty matches the user's
// activity level.
func (r *WellnessRoutine) SuitableFor(u *User) bool {
	switch u.ActivityLevel {
	case ActivityLevelLow:
		return r.Difficulty == RoutineDifficultyEasy
	case ActivityLevelModerate:
		return r.Difficulty == RoutineDifficultyEasy || r.Difficulty == RoutineDifficultyModerate
	case ActivityLevelHigh:
		return true
	}
	return true
}

// Difficulty ratings a user can report on completion.
const (
	DifficultyRatingTooEasy   = "too_easy"
	DifficultyRatingJustRight = "just_right"
	DifficultyRatingTooHard   = "too_hard"
)

// RoutineCompletion records that a user completed a routine on a given day.
// At most one completion per user, routine and day.
// Maps to the routine_completions table.
type RoutineCompletion struct {
	ID                int64 `gorm:"primaryKey" json:"id"`
	UserID            int64 `gorm:"index;not null" json:"user_id"`
	WellnessRoutineID int64 `gorm:"index;not null" json:"wellness_routine_id"`

	// CompletedDate is the day of completion (date precision).
	CompletedDate time.Time `gorm:"index;not null" json:"completed_date"`

	// Self-reported details, all optional.
	DurationMinutes  *int    `json:"duration_minutes,omitempty"`
	DifficultyRating *string `gorm:"size:20" json:"difficulty_rating,omitempty"`
	Notes            *string `gorm:"type:text" json:"notes,omitempty"`
	EnjoymentRating  *int    `json:"enjoyment_rating,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	WellnessRoutine *WellnessRoutine `gorm:"foreignKey:WellnessRoutineID" json:"wellness_routine,omitempty"`
}

// TableName overrides GORM's default pluralization.
func (RoutineCompletion) TableName() string {
	return "routine_completions"
}
