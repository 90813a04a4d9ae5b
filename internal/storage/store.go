package storage

import (
	"context"
	"errors"
	"time"

	"github.com/Ananth-NQI/kilimo-smart/internal/models"
)

var ErrSessionNotFound = errors.New("session not found")

// SessionStore defines the interface for session state of both protocols.
// Menu and dialogue sessions live in separate key spaces.
//
// Callers that read, modify and write back a record must hold the key lock
// returned by LockMenu or LockDialogue for the whole sequence.
type SessionStore interface {
	// Menu sessions
	LockMenu(sessionID string) (unlock func())
	GetOrCreateMenuSession(sessionID, phone string, now time.Time) *models.MenuSession
	GetMenuSession(sessionID string) (*models.MenuSession, bool)
	SaveMenuSession(session *models.MenuSession)
	DeleteMenuSession(sessionID string)
	SweepExpiredMenuSessions(now time.Time, timeout time.Duration) int

	// Dialogue sessions
	LockDialogue(senderID string) (unlock func())
	GetDialogueSession(senderID string) (*models.DialogueSession, bool)
	ResetDialogueSession(senderID string, now time.Time) *models.DialogueSession
	AppendTurn(senderID string, turn models.Turn, now time.Time) error
	DeleteDialogueSession(senderID string)
	SweepExpiredDialogueSessions(now time.Time, timeout time.Duration) int

	Stats() SessionStats
}

// SessionStats provides live session counts.
type SessionStats struct {
	MenuSessions     int `json:"menu_sessions"`
	DialogueSessions int `json:"dialogue_sessions"`
	DialogueTurns    int `json:"dialogue_turns"`
}

// JournalStore records completed interactions for analytics.
type JournalStore interface {
	Record(ctx context.Context, interaction *models.Interaction) error
	Summary(ctx context.Context) (*models.JournalSummary, error)
}
