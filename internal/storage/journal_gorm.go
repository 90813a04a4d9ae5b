package storage

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/Ananth-NQI/kilimo-smart/internal/models"
)

var _ JournalStore = (*GormJournal)(nil)

// GormJournal persists interactions through gorm.
type GormJournal struct {
	db *gorm.DB
}

// NewGormJournal migrates the interaction table and returns the journal.
func NewGormJournal(db *gorm.DB) (*GormJournal, error) {
	if db == nil {
		return nil, fmt.Errorf("gorm journal: nil database")
	}
	if err := db.AutoMigrate(&models.Interaction{}); err != nil {
		return nil, fmt.Errorf("migrate interactions: %w", err)
	}
	return &GormJournal{db: db}, nil
}

func (j *GormJournal) Record(ctx context.Context, interaction *models.Interaction) error {
	if err := j.db.WithContext(ctx).Create(interaction).Error; err != nil {
		return fmt.Errorf("record interaction: %w", err)
	}
	return nil
}

type groupCount struct {
	Name  string
	Count int64
}

func (j *GormJournal) Summary(ctx context.Context) (*models.JournalSummary, error) {
	db := j.db.WithContext(ctx).Model(&models.Interaction{})

	summary := &models.JournalSummary{
		ByChannel: make(map[string]int64),
		ByOutcome: make(map[string]int64),
	}
	if err := db.Count(&summary.Total).Error; err != nil {
		return nil, fmt.Errorf("count interactions: %w", err)
	}

	var channels []groupCount
	if err := j.db.WithContext(ctx).Model(&models.Interaction{}).
		Select("channel AS name, COUNT(*) AS count").
		Group("channel").
		Scan(&channels).Error; err != nil {
		return nil, fmt.Errorf("count by channel: %w", err)
	}
	for _, c := range channels {
		summary.ByChannel[c.Name] = c.Count
	}

	var outcomes []groupCount
	if err := j.db.WithContext(ctx).Model(&models.Interaction{}).
		Select("outcome AS name, COUNT(*) AS count").
		Group("outcome").
		Scan(&outcomes).Error; err != nil {
		return nil, fmt.Errorf("count by outcome: %w", err)
	}
	for _, o := range outcomes {
		summary.ByOutcome[o.Name] = o.Count
	}

	if summary.Total > 0 {
		var first models.Interaction
		if err := j.db.WithContext(ctx).Order("created_at ASC").First(&first).Error; err == nil {
			summary.Since = &first.CreatedAt
		}
	}
	return summary, nil
}
