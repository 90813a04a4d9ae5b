package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Channels recorded in the interaction journal.
const (
	ChannelUSSD = "ussd"
	ChannelSMS  = "sms"
)

// Outcomes recorded in the interaction journal.
const (
	OutcomePrice       = "price"
	OutcomeWeather     = "weather"
	OutcomeLogistics   = "logistics"
	OutcomeAdvice      = "advice"
	OutcomeFarewell    = "farewell"
	OutcomeError       = "error"
	OutcomeGreeting    = "greeting"
	OutcomeExit        = "exit"
	OutcomeReply       = "reply"
	OutcomeAdvisorDown = "advisor_unavailable"
	OutcomeAdvisorFail = "advisor_failed"
)

// Interaction is one completed exchange kept for analytics. It is not
// used to restore sessions.
type Interaction struct {
	gorm.Model
	CorrelationID string `json:"correlation_id" gorm:"index"`
	Channel       string `json:"channel" gorm:"index;not null"`
	SessionKey    string `json:"session_key" gorm:"index"`
	Phone         string `json:"phone"`
	Step          string `json:"step"`
	Outcome       string `json:"outcome" gorm:"index"`
	Input         string `json:"input"`
	Reply         string `json:"reply"`
}

func (i *Interaction) BeforeCreate(tx *gorm.DB) error {
	if i.CorrelationID == "" {
		i.CorrelationID = uuid.NewString()
	}
	return nil
}

// JournalSummary aggregates recorded interactions.
type JournalSummary struct {
	Total     int64            `json:"total"`
	ByChannel map[string]int64 `json:"by_channel"`
	ByOutcome map[string]int64 `json:"by_outcome"`
	Since     *time.Time       `json:"since,omitempty"`
}
