package services

import (
	"context"

	"github.com/Ananth-NQI/kilimo-smart/internal/logx"
	"github.com/Ananth-NQI/kilimo-smart/internal/models"
	"github.com/Ananth-NQI/kilimo-smart/internal/storage"
)

// record writes an interaction to the journal. Journal failures never
// reach the user.
func record(ctx context.Context, journal storage.JournalStore, interaction *models.Interaction) {
	if journal == nil || interaction == nil {
		return
	}
	if interaction.CorrelationID == "" {
		interaction.CorrelationID = logx.RequestID(ctx)
	}
	if err := journal.Record(ctx, interaction); err != nil {
		logx.FromContext(ctx).Error().Err(err).
			Str("channel", interaction.Channel).
			Str("session_key", interaction.SessionKey).
			Msg("failed to record interaction")
	}
}
