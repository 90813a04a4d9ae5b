package models

import (
	"maps"
	"slices"
	"time"
)

// MenuStep is the position of a menu (USSD) session in its flow.
type MenuStep int

const (
	StepWelcome MenuStep = iota
	StepMainMenu
	StepCropPriceChoice
	StepAiAdviceQuery
	StepLogisticsChoice
)

var menuStepNames = map[MenuStep]string{
	StepWelcome:         "welcome",
	StepMainMenu:        "main_menu",
	StepCropPriceChoice: "crop_price_choice",
	StepAiAdviceQuery:   "ai_advice_query",
	StepLogisticsChoice: "logistics_choice",
}

func (s MenuStep) String() string {
	if name, ok := menuStepNames[s]; ok {
		return name
	}
	return "unknown"
}

// Valid reports whether s is one of the declared steps.
func (s MenuStep) Valid() bool {
	_, ok := menuStepNames[s]
	return ok
}

// MenuSession holds the state of one menu interaction, keyed by the
// transport-assigned session id.
type MenuSession struct {
	SessionID    string            `json:"session_id"`
	PhoneNumber  string            `json:"phone_number"`
	CurrentStep  MenuStep          `json:"current_step"`
	Data         map[string]string `json:"data"`
	LastActiveAt time.Time         `json:"last_active_at"`
}

// NewMenuSession returns a session positioned at StepWelcome.
func NewMenuSession(sessionID, phone string, now time.Time) *MenuSession {
	return &MenuSession{
		SessionID:    sessionID,
		PhoneNumber:  phone,
		CurrentStep:  StepWelcome,
		Data:         make(map[string]string),
		LastActiveAt: now,
	}
}

// Clone returns a deep copy.
func (s *MenuSession) Clone() *MenuSession {
	if s == nil {
		return nil
	}
	c := *s
	c.Data = maps.Clone(s.Data)
	if c.Data == nil {
		c.Data = make(map[string]string)
	}
	return &c
}

// Role identifies the author of a dialogue turn.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// Turn is one message in a dialogue history.
type Turn struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// DialogueSession is the free-text conversation of a single sender.
type DialogueSession struct {
	SenderID     string    `json:"sender_id"`
	Turns        []Turn    `json:"turns"`
	LastActiveAt time.Time `json:"last_active_at"`
}

func (s *DialogueSession) Clone() *DialogueSession {
	if s == nil {
		return nil
	}
	c := *s
	c.Turns = slices.Clone(s.Turns)
	return &c
}
