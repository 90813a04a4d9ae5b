package jobs

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Ananth-NQI/kilimo-smart/internal/config"
	"github.com/Ananth-NQI/kilimo-smart/internal/storage"
)

// SessionSweeper periodically removes idle sessions.
type SessionSweeper struct {
	store           storage.SessionStore
	interval        time.Duration
	menuTimeout     time.Duration
	dialogueTimeout time.Duration
	now             func() time.Time
}

// NewSessionSweeper creates a sweeper using the configured timeouts.
func NewSessionSweeper(store storage.SessionStore, cfg config.SessionConfig) *SessionSweeper {
	interval := cfg.SweepInterval
	if interval <= 0 {
		interval = time.Minute
	}
	return &SessionSweeper{
		store:           store,
		interval:        interval,
		menuTimeout:     cfg.MenuTimeout,
		dialogueTimeout: cfg.DialogueTimeout,
		now:             time.Now,
	}
}

// Run sweeps on every tick until ctx is cancelled.
func (s *SessionSweeper) Run(ctx context.Context) error {
	log.Info().
		Dur("interval", s.interval).
		Dur("menu_timeout", s.menuTimeout).
		Dur("dialogue_timeout", s.dialogueTimeout).
		Msg("session sweeper started")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("session sweeper stopped")
			return nil
		case <-ticker.C:
			s.Sweep()
		}
	}
}

// Sweep runs one expiry pass and reports how many sessions were removed.
func (s *SessionSweeper) Sweep() (menus, dialogues int) {
	now := s.now()
	if s.menuTimeout > 0 {
		menus = s.store.SweepExpiredMenuSessions(now, s.menuTimeout)
	}
	dialogues = s.store.SweepExpiredDialogueSessions(now, s.dialogueTimeout)

	if menus > 0 || dialogues > 0 {
		log.Info().
			Int("menu_sessions", menus).
			Int("dialogue_sessions", dialogues).
			Msg("expired sessions removed")
	}
	return menus, dialogues
}
