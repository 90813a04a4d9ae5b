package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"
)

var ErrMissingCredentials = errors.New("missing credentials")

// Advisor providers.
const (
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"
)

// Journal backends.
const (
	JournalMemory   = "memory"
	JournalPostgres = "postgres"
)

type Config struct {
	Environment string `envconfig:"ENVIRONMENT" default:"development"`
	Port        string `envconfig:"PORT" default:"5000"`

	Log      LogConfig      `envconfig:"LOG"`
	Twilio   TwilioConfig   `envconfig:"TWILIO"`
	Advisor  AdvisorConfig  `envconfig:"ADVISOR"`
	Gemini   GeminiConfig   `envconfig:"GEMINI"`
	Router   RouterConfig   `envconfig:"OPENROUTER"`
	Weather  WeatherConfig  `envconfig:"OPENWEATHER"`
	Sessions SessionConfig  `envconfig:"SESSION"`
	Database DatabaseConfig `envconfig:"DB"`

	JournalBackend string `envconfig:"JOURNAL_BACKEND" default:"memory"`
	TablesFile     string `envconfig:"ADVISORY_TABLES_FILE"`
}

// Nested fields carry no envconfig tag so that envconfig never falls back
// to the unprefixed name (API_KEY, PORT, USER, ...).

type LogConfig struct {
	Debug  bool `default:"false"`
	Pretty bool `default:"false"`
}

type TwilioConfig struct {
	AccountSID    string `split_words:"true"`
	AuthToken     string `split_words:"true"`
	SMSFrom       string `split_words:"true"`
	DefaultPrefix string `split_words:"true" default:"+255"`
}

type AdvisorConfig struct {
	Provider string        `default:"gemini"`
	Timeout  time.Duration `default:"30s"`
}

type GeminiConfig struct {
	APIKey string `split_words:"true"`
	Model  string `default:"gemini-1.5-flash"`
}

type RouterConfig struct {
	BaseURL     string  `split_words:"true" default:"https://openrouter.ai/api/v1"`
	APIKey      string  `split_words:"true"`
	Model       string  `default:"google/gemini-flash-1.5"`
	Temperature float32 `default:"0.5"`
	SiteURL     string  `split_words:"true"`
	SiteName    string  `split_words:"true" default:"Kilimo Smart"`
}

type WeatherConfig struct {
	APIKey   string        `split_words:"true"`
	BaseURL  string        `split_words:"true" default:"https://api.openweathermap.org/data/2.5"`
	Timeout  time.Duration `default:"10s"`
	Location string        `default:"Dar es Salaam"`
	Lat      float64       `default:"-6.8235"`
	Lon      float64       `default:"39.2695"`
}

type SessionConfig struct {
	MenuTimeout      time.Duration `split_words:"true" default:"10m"`
	DialogueTimeout  time.Duration `split_words:"true" default:"24h"`
	DialogueMaxTurns int           `split_words:"true" default:"40"`
	SweepInterval    time.Duration `split_words:"true" default:"1m"`
}

type DatabaseConfig struct {
	Host                   string `default:"localhost"`
	Port                   int    `default:"5432"`
	User                   string `default:"postgres"`
	Pass                   string
	Name                   string `default:"kilimo"`
	SSLMode                string `split_words:"true" default:"disable"`
	InstanceConnectionName string `split_words:"true"`
}

// Load reads the environment into a validated Config.
func Load(envFile string) (*Config, error) {
	cfg, err := Read(envFile)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Read fills a Config from the environment without validating it. When
// envFile is set it is read with viper and exported; otherwise a local .env
// is loaded if present.
func Read(envFile string) (*Config, error) {
	if path := strings.TrimSpace(envFile); path != "" {
		if err := exportEnvironment(path); err != nil {
			return nil, fmt.Errorf("failed to load env file: %w", err)
		}
	} else if err := godotenv.Load(".env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load default env file: %w", err)
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env: %w", err)
	}
	return &cfg, nil
}

func exportEnvironment(path string) error {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return err
	}

	for k, val := range v.AllSettings() {
		if err := os.Setenv(strings.ToUpper(k), fmt.Sprint(val)); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks the settings the service cannot start without.
func (c *Config) Validate() error {
	var missing []string
	if strings.TrimSpace(c.Twilio.AccountSID) == "" {
		missing = append(missing, "TWILIO_ACCOUNT_SID")
	}
	if strings.TrimSpace(c.Twilio.AuthToken) == "" {
		missing = append(missing, "TWILIO_AUTH_TOKEN")
	}
	if strings.TrimSpace(c.Twilio.SMSFrom) == "" {
		missing = append(missing, "TWILIO_SMS_FROM")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingCredentials, strings.Join(missing, ", "))
	}

	switch c.Advisor.Provider {
	case ProviderGemini, ProviderOpenRouter:
	default:
		return fmt.Errorf("unknown advisor provider %q", c.Advisor.Provider)
	}
	switch c.JournalBackend {
	case JournalMemory, JournalPostgres:
	default:
		return fmt.Errorf("unknown journal backend %q", c.JournalBackend)
	}
	return nil
}

// AdvisorKey returns the API key of the selected advisor provider.
func (c *Config) AdvisorKey() string {
	if c.Advisor.Provider == ProviderOpenRouter {
		return strings.TrimSpace(c.Router.APIKey)
	}
	return strings.TrimSpace(c.Gemini.APIKey)
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}
