package storage

import (
	"context"
	"sync"
	"time"

	"github.com/Ananth-NQI/kilimo-smart/internal/models"
)

var _ JournalStore = (*MemoryJournal)(nil)

// MemoryJournal keeps interactions in memory. Used when no database is
// configured and in tests.
type MemoryJournal struct {
	mu      sync.RWMutex
	entries []*models.Interaction
	counter uint
	now     func() time.Time
}

func NewMemoryJournal() *MemoryJournal {
	return &MemoryJournal{now: time.Now}
}

func (j *MemoryJournal) Record(ctx context.Context, interaction *models.Interaction) error {
	if interaction == nil {
		return nil
	}
	j.mu.Lock()
	defer j.mu.Unlock()

	j.counter++
	entry := *interaction
	entry.ID = j.counter
	entry.CreatedAt = j.now()
	entry.UpdatedAt = entry.CreatedAt
	if err := entry.BeforeCreate(nil); err != nil {
		return err
	}
	j.entries = append(j.entries, &entry)
	return nil
}

func (j *MemoryJournal) Summary(ctx context.Context) (*models.JournalSummary, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	summary := &models.JournalSummary{
		Total:     int64(len(j.entries)),
		ByChannel: make(map[string]int64),
		ByOutcome: make(map[string]int64),
	}
	for _, e := range j.entries {
		summary.ByChannel[e.Channel]++
		summary.ByOutcome[e.Outcome]++
	}
	if len(j.entries) > 0 {
		since := j.entries[0].CreatedAt
		summary.Since = &since
	}
	return summary, nil
}

// Entries returns a copy of everything recorded so far.
func (j *MemoryJournal) Entries() []models.Interaction {
	j.mu.RLock()
	defer j.mu.RUnlock()

	out := make([]models.Interaction, 0, len(j.entries))
	for _, e := range j.entries {
		out = append(out, *e)
	}
	return out
}
