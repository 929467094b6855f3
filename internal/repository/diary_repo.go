package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"aura-server/internal/model"
)

// DiaryRepository handles all database operations on diary entries.
type DiaryRepository struct {
	db *gorm.DB
}

// NewDiaryRepository creates a DiaryRepository.
func NewDiaryRepository(db *gorm.DB) *DiaryRepository {
	return &DiaryRepository{db: db}
}

// Create inserts a new diary entry.
func (r *DiaryRepository) Create(ctx context.Context, entry *model.DiaryEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// GetByID returns the entry with the given id, or nil when not found.
func (r *DiaryRepository) GetByID(ctx context.Context, id int64) (*model.DiaryEntry, error) {
	var entry model.DiaryEntry
	err := r.db.WithContext(ctx).First(&entry, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &entry, nil
}

// GetByUserID returns all entries of a user, newest entry date first.
func (r *DiaryRepository) GetByUserID(ctx context.Context, userID int64) ([]model.DiaryEntry, error) {
	var entries []model.DiaryEntry
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("entry_date DESC").
		Find(&entries).Error
	return entries, err
}

// GetByUserIDAndDateRange returns a user's entries between two dates,
// inclusive, newest first.
func (r *DiaryRepository) GetByUserIDAndDateRange(ctx context.Context, userID int64, start, end time.Time) ([]model.DiaryEntry, error) {
	var entries []model.DiaryEntry
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND entry_date BETWEEN ? AND ?", userID, start, end).
		Order("entry_date DESC").
		Find(&entries).Error
	return entries, err
}

// Update saves all fields of an entry.
func (r *DiaryRepository) Update(ctx context.Context, entry *model.DiaryEntry) error {
	return r.db.WithContext(ctx).Save(entry).Error
}

// Delete removes an entry.
func (r *DiaryRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&model.DiaryEntry{}, id).Error
}

// MoodCount is one row of the mood distribution aggregate.
type MoodCount struct {
	Mood  string `json:"mood"`
	Count int64  `json:"count"`
}

// CountByMood returns the per-mood entry counts for a user.
func (r *DiaryRepository) CountByMood(ctx context.Context, userID int64) ([]MoodCount, error) {
	var counts []MoodCount
	err := r.db.WithContext(ctx).
		Model(&model.DiaryEntry{}).
		Select("mood, COUNT(*) as count").
		Where("user_id = ? AND mood IS NOT NULL", userID).
		Group("mood").
		Scan(&counts).Error
	return counts, err
}

// CountByUserID returns the total number of entries for a user; withMood
// restricts the count to entries carrying a mood tag.
func (r *DiaryRepository) CountByUserID(ctx context.Context, userID int64, withMood bool) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&model.DiaryEntry{}).Where("user_id = ?", userID)
	if withMood {
		query = query.Where("mood IS NOT NULL")
	}
	err := query.Count(&count).Error
	return count, err
}
