package services

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/Ananth-NQI/kilimo-smart/internal/logx"
	"github.com/Ananth-NQI/kilimo-smart/internal/models"
	"github.com/Ananth-NQI/kilimo-smart/internal/storage"
)

const (
	inputSeparator = "*"
	choiceBack     = "99"

	// dataQueryOffset records how many input segments preceded the free-text
	// query, so the query can be cut out of the cumulative text.
	dataQueryOffset = "query_offset"
)

var cropChoices = map[string]string{
	"1": "Maize",
	"2": "Beans",
	"3": "Rice",
	"4": "Tomato",
}

var logisticsChoices = map[string]string{
	"1": LogisticsGrainStorage,
	"2": LogisticsTransport,
}

// MenuRequest is one inbound menu-protocol event.
type MenuRequest struct {
	SessionID   string
	ServiceCode string
	PhoneNumber string
	Text        string // cumulative input, '*'-joined
}

// MenuReply is the response to a menu event. A terminal reply ends the
// session.
type MenuReply struct {
	Terminal bool
	Message  string
}

// String renders the reply in the gateway's wire format.
func (r MenuReply) String() string {
	if r.Terminal {
		return "END " + r.Message
	}
	return "CON " + r.Message
}

func continueWith(msg string) MenuReply { return MenuReply{Message: msg} }
func endWith(msg string) MenuReply      { return MenuReply{Terminal: true, Message: msg} }

// transition is the result of applying one input to a session.
type transition struct {
	reply   MenuReply
	next    models.MenuStep
	outcome string
}

// MenuService drives menu sessions.
type MenuService struct {
	store    storage.SessionStore
	resolver *AdvisoryResolver
	advisor  Advisor
	journal  storage.JournalStore
	now      func() time.Time
}

// NewMenuService creates a menu state machine. advisor may be nil.
func NewMenuService(store storage.SessionStore, resolver *AdvisoryResolver, advisor Advisor, journal storage.JournalStore) *MenuService {
	return &MenuService{
		store:    store,
		resolver: resolver,
		advisor:  advisor,
		journal:  journal,
		now:      time.Now,
	}
}

// Handle applies req to its session and returns the reply. When the reply
// is terminal the session has already been removed from the store.
func (m *MenuService) Handle(ctx context.Context, req MenuRequest) MenuReply {
	logger := logx.FromContext(ctx)

	if strings.TrimSpace(req.SessionID) == "" {
		logger.Warn().Msg("menu request without session id")
		return endWith(MsgMenuGenericError)
	}

	unlock := m.store.LockMenu(req.SessionID)
	defer unlock()

	now := m.now()
	session := m.store.GetOrCreateMenuSession(req.SessionID, req.PhoneNumber, now)
	session.LastActiveAt = now
	if session.PhoneNumber == "" {
		session.PhoneNumber = req.PhoneNumber
	}

	text := strings.TrimSpace(req.Text)
	var segments []string
	if text != "" {
		segments = strings.Split(text, inputSeparator)
	}

	t := m.apply(ctx, session, text, segments)

	logger.Info().
		Str("session_id", session.SessionID).
		Str("step", session.CurrentStep.String()).
		Bool("terminal", t.reply.Terminal).
		Msg("menu step handled")

	if t.reply.Terminal {
		m.store.DeleteMenuSession(session.SessionID)
		record(ctx, m.journal, &models.Interaction{
			Channel:    models.ChannelUSSD,
			SessionKey: session.SessionID,
			Phone:      session.PhoneNumber,
			Step:       session.CurrentStep.String(),
			Outcome:    t.outcome,
			Input:      text,
			Reply:      t.reply.Message,
		})
		return t.reply
	}

	session.CurrentStep = t.next
	m.store.SaveMenuSession(session)
	return t.reply
}

func (m *MenuService) apply(ctx context.Context, session *models.MenuSession, text string, segments []string) transition {
	current := ""
	if len(segments) > 0 {
		current = strings.TrimSpace(segments[len(segments)-1])
	}

	switch session.CurrentStep {
	case models.StepWelcome:
		return transition{reply: continueWith(MsgMainMenu), next: models.StepMainMenu}
	case models.StepMainMenu:
		return m.mainMenu(ctx, session, current, segments)
	case models.StepCropPriceChoice:
		return m.cropChoice(session, current)
	case models.StepAiAdviceQuery:
		return m.adviceQuery(ctx, session, text, segments, current)
	case models.StepLogisticsChoice:
		return m.logisticsChoice(session, current)
	default:
		return transition{reply: endWith(MsgMenuGenericError), outcome: models.OutcomeError}
	}
}

func (m *MenuService) mainMenu(ctx context.Context, session *models.MenuSession, current string, segments []string) transition {
	switch current {
	case "1":
		return transition{reply: continueWith(MsgCropMenu), next: models.StepCropPriceChoice}
	case "2":
		session.Data[dataQueryOffset] = strconv.Itoa(len(segments))
		return transition{reply: continueWith(MsgQueryPrompt), next: models.StepAiAdviceQuery}
	case "3":
		snapshot, ok := m.resolver.ResolveWeather(ctx, "")
		if !ok {
			return transition{reply: endWith(MsgWeatherFailed), outcome: models.OutcomeWeather}
		}
		return transition{reply: endWith(formatWeather(snapshot)), outcome: models.OutcomeWeather}
	case "4":
		return transition{reply: continueWith(MsgLogisticsMenu), next: models.StepLogisticsChoice}
	case "5":
		return transition{reply: endWith(MsgMenuFarewell), outcome: models.OutcomeFarewell}
	default:
		return transition{reply: continueWith(MsgMainMenuInvalid), next: models.StepMainMenu}
	}
}

func (m *MenuService) backToMainMenu(session *models.MenuSession) transition {
	delete(session.Data, dataQueryOffset)
	return transition{reply: continueWith(MsgMainMenu), next: models.StepMainMenu}
}

func (m *MenuService) cropChoice(session *models.MenuSession, current string) transition {
	if current == choiceBack {
		return m.backToMainMenu(session)
	}
	crop, ok := cropChoices[current]
	if !ok {
		return transition{reply: continueWith(MsgCropMenuInvalid), next: models.StepCropPriceChoice}
	}

	price := m.resolver.ResolvePrice(crop, DefaultRegion)
	forecast := m.resolver.ResolveForecast(crop)
	return transition{
		reply:   endWith(withThanks(price + "\n" + forecast)),
		outcome: models.OutcomePrice,
	}
}

func (m *MenuService) adviceQuery(ctx context.Context, session *models.MenuSession, text string, segments []string, current string) transition {
	if current == choiceBack {
		return m.backToMainMenu(session)
	}

	query := extractQuery(text, segments, session.Data)
	if query == "" {
		session.Data[dataQueryOffset] = strconv.Itoa(len(segments))
		return transition{reply: continueWith(MsgQueryPromptEmpty), next: models.StepAiAdviceQuery}
	}

	advice, outcome := m.advise(ctx, query)
	return transition{reply: endWith(withThanks(advice)), outcome: outcome}
}

// extractQuery returns the free text typed after entering the query step.
// Without a recorded offset everything after the first separator is used.
func extractQuery(text string, segments []string, data map[string]string) string {
	var query string
	if raw, ok := data[dataQueryOffset]; ok {
		if offset, err := strconv.Atoi(raw); err == nil && offset >= 0 {
			if offset < len(segments) {
				query = strings.Join(segments[offset:], inputSeparator)
			}
			return strings.Trim(query, inputSeparator+" ")
		}
	}

	if _, rest, found := strings.Cut(text, inputSeparator); found {
		query = rest
	} else {
		query = text
	}
	return strings.Trim(query, inputSeparator+" ")
}

func (m *MenuService) advise(ctx context.Context, query string) (string, string) {
	if m.advisor == nil {
		return MsgAdviceUnavailable, models.OutcomeAdvisorDown
	}
	advice, err := m.advisor.Generate(ctx, nil, query)
	switch {
	case errors.Is(err, ErrEmptyAdvice):
		logx.FromContext(ctx).Warn().Msg("advisor returned empty advice")
		return MsgAdviceEmpty, models.OutcomeAdvisorFail
	case err != nil:
		logx.FromContext(ctx).Error().Err(err).Msg("error calling advisor")
		return MsgAdviceFailed, models.OutcomeAdvisorFail
	}
	return advice, models.OutcomeAdvice
}

func (m *MenuService) logisticsChoice(session *models.MenuSession, current string) transition {
	if current == choiceBack {
		return m.backToMainMenu(session)
	}
	category, ok := logisticsChoices[current]
	if !ok {
		return transition{reply: continueWith(MsgLogisticsInvalid), next: models.StepLogisticsChoice}
	}
	return transition{
		reply:   endWith(withThanks(m.resolver.ResolveLogistics(category))),
		outcome: models.OutcomeLogistics,
	}
}
