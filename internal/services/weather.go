package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/gofiber/fiber/v2"

	"github.com/Ananth-NQI/kilimo-smart/internal/config"
	"github.com/Ananth-NQI/kilimo-smart/internal/logx"
	"github.com/Ananth-NQI/kilimo-smart/internal/models"
)

const (
	simulatedForecast = "Sunny with chances of afternoon showers for the next 3 days."
	liveForecast      = "Detailed forecast unavailable without a separate forecast API call, but generally fair for the next few days."
)

// Location identifies where to fetch weather for. Coordinates are used
// when HasCoords is set, otherwise the name is looked up.
type Location struct {
	Name      string
	Lat       float64
	Lon       float64
	HasCoords bool
}

// WeatherProvider returns current weather for a location.
type WeatherProvider interface {
	Current(ctx context.Context, loc Location) (*models.WeatherSnapshot, error)
}

var _ WeatherProvider = (*OpenWeatherClient)(nil)

// OpenWeatherClient queries the OpenWeatherMap current-weather endpoint.
// Without an API key it serves a fixed simulated snapshot.
type OpenWeatherClient struct {
	apiKey  string
	baseURL string
	timeout time.Duration
}

func NewOpenWeatherClient(cfg config.WeatherConfig) *OpenWeatherClient {
	return &OpenWeatherClient{
		apiKey:  strings.TrimSpace(cfg.APIKey),
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		timeout: cfg.Timeout,
	}
}

// Simulated reports whether the client serves simulated data.
func (c *OpenWeatherClient) Simulated() bool {
	return c.apiKey == ""
}

type owmResponse struct {
	Name string `json:"name"`
	Main *struct {
		Temp     float64 `json:"temp"`
		Humidity float64 `json:"humidity"`
	} `json:"main"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
	Wind *struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
}

func (c *OpenWeatherClient) Current(ctx context.Context, loc Location) (*models.WeatherSnapshot, error) {
	if c.Simulated() {
		logx.FromContext(ctx).Warn().Msg("openweather api key not set, returning simulated weather")
		return &models.WeatherSnapshot{
			Temperature:     28,
			Humidity:        75,
			Description:     "Scattered clouds",
			WindSpeed:       5,
			City:            loc.Name,
			ForecastSummary: simulatedForecast,
		}, nil
	}

	query := url.Values{}
	if loc.HasCoords {
		query.Set("lat", strconv.FormatFloat(loc.Lat, 'f', -1, 64))
		query.Set("lon", strconv.FormatFloat(loc.Lon, 'f', -1, 64))
	} else {
		query.Set("q", loc.Name)
	}
	query.Set("appid", c.apiKey)
	query.Set("units", "metric")

	agent := fiber.Get(c.baseURL + "/weather?" + query.Encode())
	if err := agent.Parse(); err != nil {
		return nil, fmt.Errorf("weather request: %w", err)
	}
	if c.timeout > 0 {
		agent.Timeout(c.timeout)
	}

	var payload owmResponse
	code, body, errs := agent.Struct(&payload)
	if len(errs) > 0 {
		return nil, fmt.Errorf("weather request: %w", errors.Join(errs...))
	}
	if code != fiber.StatusOK {
		return nil, fmt.Errorf("weather http status=%d body=%s", code, string(body))
	}
	if payload.Main == nil || payload.Wind == nil || len(payload.Weather) == 0 {
		return nil, fmt.Errorf("unexpected weather data structure: %s", string(body))
	}

	return &models.WeatherSnapshot{
		Temperature:     payload.Main.Temp,
		Humidity:        payload.Main.Humidity,
		Description:     capitalize(payload.Weather[0].Description),
		WindSpeed:       payload.Wind.Speed,
		City:            payload.Name,
		ForecastSummary: liveForecast,
	}, nil
}

// capitalize upper-cases the first letter and lower-cases the rest.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}
