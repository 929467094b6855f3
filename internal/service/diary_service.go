package service

import (
	"context"
	"errors"
	"time"
	"unicode/utf8"

	"aura-server/internal/model"
	"aura-server/internal/repository"
)

var (
	ErrDiaryEntryNotFound = errors.New("diary entry not found")
	ErrInvalidMood        = errors.New("invalid mood value")
	ErrEntryTooLong       = errors.New("entry content exceeds the maximum length")
)

// maxEntryRunes bounds the length of a diary entry body.
const maxEntryRunes = 5000

// DiaryStore is the persistence surface for diary entries.
// *repository.DiaryRepository implements it.
type DiaryStore interface {
	Create(ctx context.Context, entry *model.DiaryEntry) error
	GetByID(ctx context.Context, id int64) (*model.DiaryEntry, error)
	GetByUserID(ctx context.Context, userID int64) ([]model.DiaryEntry, error)
	GetByUserIDAndDateRange(ctx context.Context, userID int64, start, end time.Time) ([]model.DiaryEntry, error)
	Update(ctx context.Context, entry *model.DiaryEntry) error
	Delete(ctx context.Context, id int64) error
	CountByMood(ctx context.Context, userID int64) ([]repository.MoodCount, error)
	CountByUserID(ctx context.Context, userID int64, withMood bool) (int64, error)
}

// DiaryService implements the personal diary: CRUD, mood statistics and
// voice-note transcription.
type DiaryService struct {
	entries DiaryStore
	ai      *AIService

	now func() time.Time
}

// NewDiaryService creates a DiaryService.
func NewDiaryService(entries DiaryStore, ai *AIService) *DiaryService {
	return &DiaryService{
		entries: entries,
		ai:      ai,
		now:     time.Now,
	}
}

// DiaryEntryInput carries the writable fields of an entry.
type DiaryEntryInput struct {
	Title     *string
	Content   string
	Mood      *string
	Tags      []string
	IsPrivate *bool
	EntryDate *time.Time
}

// CreateEntry stores a new diary entry. EntryDate defaults to today and
// IsPrivate to true.
func (s *DiaryService) CreateEntry(ctx context.Context, userID int64, input DiaryEntryInput) (*model.DiaryEntry, error) {
	if input.Content == "" {
		return nil, ErrEmptyMessage
	}
	if utf8.RuneCountInString(input.Content) > maxEntryRunes {
		return nil, ErrEntryTooLong
	}
	if input.Mood != nil && !model.ValidMood(*input.Mood) {
		return nil, ErrInvalidMood
	}

	entryDate := s.now()
	if input.EntryDate != nil {
		entryDate = *input.EntryDate
	}
	isPrivate := true
	if input.IsPrivate != nil {
		isPrivate = *input.IsPrivate
	}

	entry := &model.DiaryEntry{
		UserID:    userID,
		Title:     input.Title,
		Content:   input.Content,
		Mood:      input.Mood,
		Tags:      input.Tags,
		IsPrivate: isPrivate,
		EntryDate: entryDate,
	}
	if err := s.entries.Create(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// ListEntries returns a user's entries, optionally restricted to a date
// range, newest first.
func (s *DiaryService) ListEntries(ctx context.Context, userID int64, start, end *time.Time) ([]model.DiaryEntry, error) {
	if start != nil && end != nil {
		return s.entries.GetByUserIDAndDateRange(ctx, userID, *start, *end)
	}
	return s.entries.GetByUserID(ctx, userID)
}

// GetEntry returns one entry. Only the owner may read it.
func (s *DiaryService) GetEntry(ctx context.Context, userID, entryID int64) (*model.DiaryEntry, error) {
	entry, err := s.entries.GetByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, ErrDiaryEntryNotFound
	}
	if entry.UserID != userID {
		return nil, ErrNoPermission
	}
	return entry, nil
}

// UpdateEntry applies the writable fields to an existing entry.
func (s *DiaryService) UpdateEntry(ctx context.Context, userID, entryID int64, input DiaryEntryInput) (*model.DiaryEntry, error) {
	entry, err := s.GetEntry(ctx, userID, entryID)
	if err != nil {
		return nil, err
	}

	if input.Content != "" {
		if utf8.RuneCountInString(input.Content) > maxEntryRunes {
			return nil, ErrEntryTooLong
		}
		entry.Content = input.Content
	}
	if input.Mood != nil {
		if !model.ValidMood(*input.Mood) {
			return nil, ErrInvalidMood
		}
		entry.Mood = input.Mood
	}
	if input.Title != nil {
		entry.Title = input.Title
	}
	if input.Tags != nil {
		entry.Tags = input.Tags
	}
	if input.IsPrivate != nil {
		entry.IsPrivate = *input.IsPrivate
	}
	if input.EntryDate != nil {
		entry.EntryDate = *input.EntryDate
	}

	if err := s.entries.Update(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// DeleteEntry removes an entry. Only the owner may delete it.
func (s *DiaryService) DeleteEntry(ctx context.Context, userID, entryID int64) error {
	entry, err := s.GetEntry(ctx, userID, entryID)
	if err != nil {
		return err
	}
	return s.entries.Delete(ctx, entry.ID)
}

// MoodStats is the mood distribution of a user's diary.
type MoodStats struct {
	TotalEntries    int64                  `json:"total_entries"`
	EntriesWithMood int64                  `json:"entries_with_mood"`
	Distribution    []repository.MoodCount `json:"distribution"`
}

// GetMoodStats aggregates the per-mood counts of a user's entries.
func (s *DiaryService) GetMoodStats(ctx context.Context, userID int64) (*MoodStats, error) {
	total, err := s.entries.CountByUserID(ctx, userID, false)
	if err != nil {
		return nil, err
	}
	withMood, err := s.entries.CountByUserID(ctx, userID, true)
	if err != nil {
		return nil, err
	}
	distribution, err := s.entries.CountByMood(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &MoodStats{
		TotalEntries:    total,
		EntriesWithMood: withMood,
		Distribution:    distribution,
	}, nil
}

// TranscribeVoiceNote turns a recorded voice note into entry text.
func (s *DiaryService) TranscribeVoiceNote(ctx context.Context, audio []byte, filename string) (string, error) {
	return s.ai.TranscribeAudio(ctx, audio, filename)
}
