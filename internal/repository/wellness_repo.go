package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"aura-server/internal/model"
)

// WellnessRepository handles all database operations on wellness routines
// and their completions.
type WellnessRepository struct {
	db *gorm.DB
}

// NewWellnessRepository creates a WellnessRepository.
func NewWellnessRepository(db *gorm.DB) *WellnessRepository {
	return &WellnessRepository{db: db}
}

// CreateRoutine inserts a new routine.
func (r *WellnessRepository) CreateRoutine(ctx context.Context, routine *model.WellnessRoutine) error {
	return r.db.WithContext(ctx).Create(routine).Error
}

// GetRoutineByID returns the routine with the given id, or nil when not
// found.
func (r *WellnessRepository) GetRoutineByID(ctx context.Context, id int64) (*model.WellnessRoutine, error) {
	var routine model.WellnessRoutine
	err := r.db.WithContext(ctx).First(&routine, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &routine, nil
}

// GetActiveForUser returns all active routines visible to a user: their own
// plus the general ones (no owner).
func (r *WellnessRepository) GetActiveForUser(ctx context.Context, userID int64) ([]model.WellnessRoutine, error) {
	var routines []model.WellnessRoutine
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Where("user_id = ? OR user_id IS NULL", userID).
		Find(&routines).Error
	return routines, err
}

// UpdateRoutine saves all fields of a routine.
func (r *WellnessRepository) UpdateRoutine(ctx context.Context, routine *model.WellnessRoutine) error {
	return r.db.WithContext(ctx).Save(routine).Error
}

// DeleteRoutine removes a routine and its completions.
func (r *WellnessRepository) DeleteRoutine(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("wellness_routine_id = ?", id).Delete(&model.RoutineCompletion{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.WellnessRoutine{}, id).Error
	})
}

// CreateCompletion inserts a completion record.
func (r *WellnessRepository) CreateCompletion(ctx context.Context, completion *model.RoutineCompletion) error {
	return r.db.WithContext(ctx).Create(completion).Error
}

// GetCompletion returns the completion of a routine by a user on a given
// day, or nil when there is none.
func (r *WellnessRepository) GetCompletion(ctx context.Context, userID, routineID int64, date time.Time) (*model.RoutineCompletion, error) {
	var completion model.RoutineCompletion
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND wellness_routine_id = ? AND completed_date = ?", userID, routineID, date).
		First(&completion).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &completion, nil
}

// GetCompletionsByUserID returns all completions of a user with their
// routines preloaded, most recent day first.
func (r *WellnessRepository) GetCompletionsByUserID(ctx context.Context, userID int64) ([]model.RoutineCompletion, error) {
	var completions []model.RoutineCompletion
	err := r.db.WithContext(ctx).
		Preload("WellnessRoutine").
		Where("user_id = ?", userID).
		Order("completed_date DESC").
		Find(&completions).Error
	return completions, err
}

// GetRecentCompletions returns the newest limit completions of a routine by
// a user.
func (r *WellnessRepository) GetRecentCompletions(ctx context.Context, userID, routineID int64, limit int) ([]model.RoutineCompletion, error) {
	var completions []model.RoutineCompletion
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND wellness_routine_id = ?", userID, routineID).
		Order("completed_date DESC").
		Limit(limit).
		Find(&completions).Error
	return completions, err
}
