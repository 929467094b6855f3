package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"aura-server/internal/model"
	"aura-server/internal/repository"
	"aura-server/pkg/util"
)

// fakeDiaryStore implements DiaryStore in memory.
type fakeDiaryStore struct {
	nextID  int64
	entries map[int64]*model.DiaryEntry
}

func newFakeDiaryStore() *fakeDiaryStore {
	return &fakeDiaryStore{entries: map[int64]*model.DiaryEntry{}}
}

func (s *fakeDiaryStore) Create(_ context.Context, entry *model.DiaryEntry) error {
	s.nextID++
	entry.ID = s.nextID
	stored := *entry
	s.entries[entry.ID] = &stored
	return nil
}

func (s *fakeDiaryStore) GetByID(_ context.Context, id int64) (*model.DiaryEntry, error) {
	entry, ok := s.entries[id]
	if !ok {
		return nil, nil
	}
	copied := *entry
	return &copied, nil
}

func (s *fakeDiaryStore) GetByUserID(_ context.Context, userID int64) ([]model.DiaryEntry, error) {
	var out []model.DiaryEntry
	for _, e := range s.entries {
		if e.UserID == userID {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (s *fakeDiaryStore) GetByUserIDAndDateRange(_ context.Context, userID int64, start, end time.Time) ([]model.DiaryEntry, error) {
	var out []model.DiaryEntry
	for _, e := range s.entries {
		if e.UserID == userID && !e.EntryDate.Before(start) && !e.EntryDate.After(end) {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (s *fakeDiaryStore) Update(_ context.Context, entry *model.DiaryEntry) error {
	stored := *entry
	s.entries[entry.ID] = &stored
	return nil
}

func (s *fakeDiaryStore) Delete(_ context.Context, id int64) error {
	delete(s.entries, id)
	return nil
}

func (s *fakeDiaryStore) CountByMood(_ context.Context, userID int64) ([]repository.MoodCount, error) {
	counts := map[string]int64{}
	for _, e := range s.entries {
		if e.UserID == userID && e.Mood != nil {
			counts[*e.Mood]++
		}
	}
	var out []repository.MoodCount
	for mood, count := range counts {
		out = append(out, repository.MoodCount{Mood: mood, Count: count})
	}
	return out, nil
}

func (s *fakeDiaryStore) CountByUserID(_ context.Context, userID int64, withMood bool) (int64, error) {
	var count int64
	for _, e := range s.entries {
		if e.UserID == userID && (!withMood || e.Mood != nil) {
			count++
		}
	}
	return count, nil
}

func newDiaryFixture() (*DiaryService, *fakeDiaryStore) {
	store := newFakeDiaryStore()
	svc := NewDiaryService(store, nil)
	svc.now = func() time.Time {
		return time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	}
	return svc, store
}

func TestCreateEntryDefaults(t *testing.T) {
	svc, _ := newDiaryFixture()

	entry, err := svc.CreateEntry(context.Background(), 1, DiaryEntryInput{
		Content: "Hoy caminé por el parque",
	})
	if err != nil {
		t.Fatalf("CreateEntry failed: %v", err)
	}
	if !entry.IsPrivate {
		t.Fatalf("entries should default to private")
	}
	if !entry.EntryDate.Equal(time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)) {
		t.Fatalf("entry date should default to now, got %v", entry.EntryDate)
	}
}

func TestCreateEntryValidation(t *testing.T) {
	svc, _ := newDiaryFixture()
	ctx := context.Background()

	if _, err := svc.CreateEntry(ctx, 1, DiaryEntryInput{Content: ""}); err != ErrEmptyMessage {
		t.Fatalf("empty content: err = %v, want ErrEmptyMessage", err)
	}
	if _, err := svc.CreateEntry(ctx, 1, DiaryEntryInput{Content: strings.Repeat("a", 5001)}); err != ErrEntryTooLong {
		t.Fatalf("long content: err = %v, want ErrEntryTooLong", err)
	}
	bad := "eufórico"
	if _, err := svc.CreateEntry(ctx, 1, DiaryEntryInput{Content: "x", Mood: &bad}); err != ErrInvalidMood {
		t.Fatalf("bad mood: err = %v, want ErrInvalidMood", err)
	}
}

func TestEntryOwnership(t *testing.T) {
	svc, _ := newDiaryFixture()
	ctx := context.Background()

	entry, err := svc.CreateEntry(ctx, 1, DiaryEntryInput{Content: "privado"})
	if err != nil {
		t.Fatalf("CreateEntry failed: %v", err)
	}

	if _, err := svc.GetEntry(ctx, 2, entry.ID); err != ErrNoPermission {
		t.Fatalf("get by stranger: err = %v, want ErrNoPermission", err)
	}
	if err := svc.DeleteEntry(ctx, 2, entry.ID); err != ErrNoPermission {
		t.Fatalf("delete by stranger: err = %v, want ErrNoPermission", err)
	}
	if _, err := svc.GetEntry(ctx, 1, 999); err != ErrDiaryEntryNotFound {
		t.Fatalf("missing entry: err = %v, want ErrDiaryEntryNotFound", err)
	}
}

func TestUpdateEntryAppliesPartialFields(t *testing.T) {
	svc, _ := newDiaryFixture()
	ctx := context.Background()

	entry, _ := svc.CreateEntry(ctx, 1, DiaryEntryInput{Content: "original"})

	mood := model.MoodHappy
	updated, err := svc.UpdateEntry(ctx, 1, entry.ID, DiaryEntryInput{
		Mood:      &mood,
		IsPrivate: util.BoolPtr(false),
	})
	if err != nil {
		t.Fatalf("UpdateEntry failed: %v", err)
	}
	if updated.Content != "original" {
		t.Fatalf("content should be unchanged, got %q", updated.Content)
	}
	if updated.Mood == nil || *updated.Mood != model.MoodHappy {
		t.Fatalf("mood not applied")
	}
	if updated.IsPrivate {
		t.Fatalf("is_private not applied")
	}
}

func TestListEntriesDateRange(t *testing.T) {
	svc, _ := newDiaryFixture()
	ctx := context.Background()

	may := time.Date(2025, 5, 10, 0, 0, 0, 0, time.UTC)
	june := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	svc.CreateEntry(ctx, 1, DiaryEntryInput{Content: "mayo", EntryDate: &may})
	svc.CreateEntry(ctx, 1, DiaryEntryInput{Content: "junio", EntryDate: &june})

	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)
	entries, err := svc.ListEntries(ctx, 1, &start, &end)
	if err != nil {
		t.Fatalf("ListEntries failed: %v", err)
	}
	if len(entries) != 1 || entries[0].Content != "junio" {
		t.Fatalf("expected only the June entry, got %+v", entries)
	}
}

func TestMoodStats(t *testing.T) {
	svc, _ := newDiaryFixture()
	ctx := context.Background()

	happy := model.MoodHappy
	sad := model.MoodSad
	svc.CreateEntry(ctx, 1, DiaryEntryInput{Content: "a", Mood: &happy})
	svc.CreateEntry(ctx, 1, DiaryEntryInput{Content: "b", Mood: &happy})
	svc.CreateEntry(ctx, 1, DiaryEntryInput{Content: "c", Mood: &sad})
	svc.CreateEntry(ctx, 1, DiaryEntryInput{Content: "d"})

	stats, err := svc.GetMoodStats(ctx, 1)
	if err != nil {
		t.Fatalf("GetMoodStats failed: %v", err)
	}
	if stats.TotalEntries != 4 {
		t.Fatalf("total = %d, want 4", stats.TotalEntries)
	}
	if stats.EntriesWithMood != 3 {
		t.Fatalf("with mood = %d, want 3", stats.EntriesWithMood)
	}

	byMood := map[string]int64{}
	for _, mc := range stats.Distribution {
		byMood[mc.Mood] = mc.Count
	}
	if byMood[model.MoodHappy] != 2 || byMood[model.MoodSad] != 1 {
		t.Fatalf("distribution = %+v", byMood)
	}
}
