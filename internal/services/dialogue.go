package services

import (
	"context"
	"strings"
	"time"

	"github.com/Ananth-NQI/kilimo-smart/internal/logx"
	"github.com/Ananth-NQI/kilimo-smart/internal/models"
	"github.com/Ananth-NQI/kilimo-smart/internal/storage"
)

const exitKeyword = "exit"

var greetingKeywords = map[string]bool{
	"hi":     true,
	"habari": true,
	"mambo":  true,
}

// DialogueService runs free-text conversations over SMS. Each inbound
// message produces exactly one outbound reply.
type DialogueService struct {
	store     storage.SessionStore
	advisor   Advisor
	messenger Messenger
	journal   storage.JournalStore
	now       func() time.Time
}

// NewDialogueService creates a dialogue handler. advisor may be nil.
func NewDialogueService(store storage.SessionStore, advisor Advisor, messenger Messenger, journal storage.JournalStore) *DialogueService {
	return &DialogueService{
		store:     store,
		advisor:   advisor,
		messenger: messenger,
		journal:   journal,
		now:       time.Now,
	}
}

// Handle processes one inbound message from sender, sends the reply and
// returns it.
func (d *DialogueService) Handle(ctx context.Context, sender, text string) string {
	logger := logx.FromContext(ctx)

	unlock := d.store.LockDialogue(sender)
	defer unlock()

	now := d.now()
	normalized := strings.ToLower(strings.TrimSpace(text))

	var reply, outcome string
	_, exists := d.store.GetDialogueSession(sender)
	switch {
	case !exists || greetingKeywords[normalized]:
		d.store.ResetDialogueSession(sender, now)
		reply, outcome = MsgDialogueWelcome, models.OutcomeGreeting
	case normalized == exitKeyword:
		d.store.DeleteDialogueSession(sender)
		reply, outcome = MsgDialogueFarewell, models.OutcomeExit
	default:
		reply, outcome = d.converse(ctx, sender, normalized, now)
	}

	result := d.messenger.Send(ctx, sender, reply)
	if !result.Success {
		logger.Warn().Str("sender", sender).Str("detail", result.Detail).Msg("reply not delivered")
	}

	logger.Info().Str("sender", sender).Str("outcome", outcome).Msg("dialogue turn handled")
	record(ctx, d.journal, &models.Interaction{
		Channel:    models.ChannelSMS,
		SessionKey: sender,
		Phone:      sender,
		Outcome:    outcome,
		Input:      text,
		Reply:      reply,
	})
	return reply
}

// converse appends the user turn and the model's answer. Callers hold the
// sender's dialogue lock.
func (d *DialogueService) converse(ctx context.Context, sender, text string, now time.Time) (string, string) {
	logger := logx.FromContext(ctx)

	session, ok := d.store.GetDialogueSession(sender)
	if !ok {
		session = d.store.ResetDialogueSession(sender, now)
	}
	history := session.Turns

	if err := d.store.AppendTurn(sender, models.Turn{Role: models.RoleUser, Text: text}, now); err != nil {
		logger.Error().Err(err).Str("sender", sender).Msg("failed to append user turn")
		return MsgDialogueFailed, models.OutcomeError
	}

	reply, outcome := MsgDialogueUnavailable, models.OutcomeAdvisorDown
	if d.advisor != nil {
		answer, err := d.advisor.Generate(ctx, history, text)
		if err != nil {
			logger.Error().Err(err).Str("sender", sender).Msg("error calling advisor")
			reply, outcome = MsgDialogueFailed, models.OutcomeAdvisorFail
		} else {
			reply, outcome = answer, models.OutcomeReply
		}
	}

	if err := d.store.AppendTurn(sender, models.Turn{Role: models.RoleModel, Text: reply}, d.now()); err != nil {
		logger.Error().Err(err).Str("sender", sender).Msg("failed to append model turn")
	}
	return reply, outcome
}
