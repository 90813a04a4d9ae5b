package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func setTwilio(t *testing.T) {
	t.Helper()
	t.Setenv("TWILIO_ACCOUNT_SID", "AC123")
	t.Setenv("TWILIO_AUTH_TOKEN", "secret")
	t.Setenv("TWILIO_SMS_FROM", "+15550001111")
}

func TestLoadDefaults(t *testing.T) {
	setTwilio(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Port != "5000" || cfg.Environment != "development" || !cfg.IsDevelopment() {
		t.Errorf("server defaults = %q/%q", cfg.Port, cfg.Environment)
	}
	if cfg.Twilio.SMSFrom != "+15550001111" || cfg.Twilio.DefaultPrefix != "+255" {
		t.Errorf("twilio = %+v", cfg.Twilio)
	}
	if cfg.Advisor.Provider != ProviderGemini || cfg.Advisor.Timeout != 30*time.Second {
		t.Errorf("advisor = %+v", cfg.Advisor)
	}
	if cfg.Sessions.MenuTimeout != 10*time.Minute || cfg.Sessions.DialogueTimeout != 24*time.Hour || cfg.Sessions.SweepInterval != time.Minute {
		t.Errorf("sessions = %+v", cfg.Sessions)
	}
	if cfg.Weather.Location != "Dar es Salaam" || cfg.Weather.Lat != -6.8235 {
		t.Errorf("weather = %+v", cfg.Weather)
	}
	if cfg.JournalBackend != JournalMemory || cfg.Database.Port != 5432 {
		t.Errorf("journal = %q, db port = %d", cfg.JournalBackend, cfg.Database.Port)
	}
	if cfg.AdvisorKey() != "" {
		t.Errorf("advisor key = %q, want empty", cfg.AdvisorKey())
	}
}

func TestLoadNestedKeysDoNotFallBack(t *testing.T) {
	setTwilio(t)
	t.Setenv("PORT", "8080")
	t.Setenv("API_KEY", "unrelated")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("port = %q", cfg.Port)
	}
	if cfg.Database.Port != 5432 {
		t.Errorf("db port = %d, picked up PORT", cfg.Database.Port)
	}
	if cfg.Weather.APIKey != "" || cfg.Gemini.APIKey != "" {
		t.Errorf("api keys picked up API_KEY: %q %q", cfg.Weather.APIKey, cfg.Gemini.APIKey)
	}
}

func TestLoadAdvisorSettings(t *testing.T) {
	setTwilio(t)
	t.Setenv("ADVISOR_PROVIDER", "openrouter")
	t.Setenv("OPENROUTER_API_KEY", " sk-or ")
	t.Setenv("GEMINI_API_KEY", "g-key")
	t.Setenv("SESSION_DIALOGUE_MAX_TURNS", "10")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := cfg.AdvisorKey(); got != "sk-or" {
		t.Errorf("advisor key = %q, want sk-or", got)
	}
	if cfg.Sessions.DialogueMaxTurns != 10 {
		t.Errorf("max turns = %d", cfg.Sessions.DialogueMaxTurns)
	}
}

func TestLoadMissingTwilio(t *testing.T) {
	t.Setenv("TWILIO_ACCOUNT_SID", "AC123")
	t.Setenv("TWILIO_AUTH_TOKEN", "")
	t.Setenv("TWILIO_SMS_FROM", "")

	_, err := Load("")
	if !errors.Is(err, ErrMissingCredentials) {
		t.Fatalf("err = %v, want ErrMissingCredentials", err)
	}
	if !strings.Contains(err.Error(), "TWILIO_AUTH_TOKEN") || !strings.Contains(err.Error(), "TWILIO_SMS_FROM") {
		t.Errorf("error does not name missing keys: %v", err)
	}
}

func TestValidateRejectsUnknownValues(t *testing.T) {
	base := Config{
		Twilio:         TwilioConfig{AccountSID: "a", AuthToken: "b", SMSFrom: "c"},
		Advisor:        AdvisorConfig{Provider: ProviderGemini},
		JournalBackend: JournalMemory,
	}
	if err := base.Validate(); err != nil {
		t.Fatalf("valid config: %v", err)
	}

	badProvider := base
	badProvider.Advisor.Provider = "claude"
	if err := badProvider.Validate(); err == nil {
		t.Error("expected error for unknown provider")
	}

	badJournal := base
	badJournal.JournalBackend = "mongo"
	if err := badJournal.Validate(); err == nil {
		t.Error("expected error for unknown journal backend")
	}
}

func TestLoadEnvFile(t *testing.T) {
	// Registered so the values exported by Load are restored afterwards.
	for _, key := range []string{"TWILIO_ACCOUNT_SID", "TWILIO_AUTH_TOKEN", "TWILIO_SMS_FROM", "JOURNAL_BACKEND"} {
		t.Setenv(key, "")
	}

	path := filepath.Join(t.TempDir(), "kilimo.env")
	content := "TWILIO_ACCOUNT_SID=ACfile\nTWILIO_AUTH_TOKEN=tok\nTWILIO_SMS_FROM=+15550002222\nJOURNAL_BACKEND=postgres\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Twilio.AccountSID != "ACfile" || cfg.JournalBackend != JournalPostgres {
		t.Errorf("cfg = %+v", cfg)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.env")); err == nil {
		t.Error("expected error for missing env file")
	}
}

func TestReadSkipsValidation(t *testing.T) {
	t.Setenv("TWILIO_ACCOUNT_SID", "")
	t.Setenv("TWILIO_AUTH_TOKEN", "")
	t.Setenv("TWILIO_SMS_FROM", "")

	cfg, err := Read("")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if err := cfg.Validate(); !errors.Is(err, ErrMissingCredentials) {
		t.Errorf("Validate() = %v, want ErrMissingCredentials", err)
	}
}
