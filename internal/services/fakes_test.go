package services

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/Ananth-NQI/kilimo-smart/internal/models"
	"github.com/Ananth-NQI/kilimo-smart/internal/storage"
)

type advisorCall struct {
	history []models.Turn
	prompt  string
}

// fakeAdvisor answers every prompt with reply, or "jibu: <prompt>" when
// reply is empty.
type fakeAdvisor struct {
	mu    sync.Mutex
	calls []advisorCall
	reply string
	err   error
	delay time.Duration
}

func (f *fakeAdvisor) Generate(ctx context.Context, history []models.Turn, prompt string) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, advisorCall{history: slices.Clone(history), prompt: prompt})
	f.mu.Unlock()

	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.err != nil {
		return "", f.err
	}
	if f.reply != "" {
		return f.reply, nil
	}
	return "jibu: " + prompt, nil
}

func (f *fakeAdvisor) Calls() []advisorCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.calls)
}

type sentMessage struct {
	to   string
	body string
}

type recordingMessenger struct {
	mu   sync.Mutex
	sent []sentMessage
	fail bool
}

func (m *recordingMessenger) Send(ctx context.Context, to, body string) SendResult {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMessage{to: to, body: body})
	if m.fail {
		return SendResult{Success: false, Detail: "delivery failed"}
	}
	return SendResult{Success: true, Detail: "SM123"}
}

func (m *recordingMessenger) Sent() []sentMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.sent)
}

type failingWeather struct{}

func (failingWeather) Current(ctx context.Context, loc Location) (*models.WeatherSnapshot, error) {
	return nil, errors.New("connection refused")
}

type failingJournal struct{}

func (failingJournal) Record(ctx context.Context, interaction *models.Interaction) error {
	return errors.New("database unavailable")
}

func (failingJournal) Summary(ctx context.Context) (*models.JournalSummary, error) {
	return nil, errors.New("database unavailable")
}

var _ storage.JournalStore = failingJournal{}

var testLocation = Location{Name: DefaultRegion, Lat: -6.8235, Lon: 39.2695, HasCoords: true}

// simulatedResolver serves the embedded tables and simulated weather.
func simulatedResolver() *AdvisoryResolver {
	return NewAdvisoryResolver(NewCatalog(), &OpenWeatherClient{}, testLocation)
}
