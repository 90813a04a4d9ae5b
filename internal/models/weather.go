package models

// WeatherSnapshot is the current weather for one location.
type WeatherSnapshot struct {
	Temperature     float64 `json:"temperature"`
	Humidity        float64 `json:"humidity"`
	Description     string  `json:"description"`
	WindSpeed       float64 `json:"wind_speed"`
	City            string  `json:"city"`
	ForecastSummary string  `json:"forecast_summary"`
}
