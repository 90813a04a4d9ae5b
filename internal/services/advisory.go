package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/Ananth-NQI/kilimo-smart/internal/logx"
	"github.com/Ananth-NQI/kilimo-smart/internal/models"
)

// DefaultRegion is used for menu price lookups.
const DefaultRegion = "Dar es Salaam"

// Logistics categories offered by the menu.
const (
	LogisticsGrainStorage = "grain storage"
	LogisticsTransport    = "transport"
)

// AdvisoryResolver answers price, forecast, logistics and weather queries.
type AdvisoryResolver struct {
	catalog         *Catalog
	weather         WeatherProvider
	defaultLocation Location
}

func NewAdvisoryResolver(catalog *Catalog, weather WeatherProvider, defaultLocation Location) *AdvisoryResolver {
	if catalog == nil {
		catalog = NewCatalog()
	}
	return &AdvisoryResolver{
		catalog:         catalog,
		weather:         weather,
		defaultLocation: defaultLocation,
	}
}

// ResolvePrice returns the price line for crop in region.
func (r *AdvisoryResolver) ResolvePrice(crop, region string) string {
	name := capitalize(strings.TrimSpace(crop))
	region = strings.TrimSpace(region)

	if byRegion, ok := r.catalog.Tables().Prices[lookupKey(crop)]; ok {
		if price, ok := byRegion[lookupKey(region)]; ok {
			return fmt.Sprintf("Bei ya sasa ya %s %s: %s.", name, region, price)
		}
	}
	return fmt.Sprintf("Bei ya %s %s haipatikani kwa sasa. Jaribu zao au eneo tofauti.", name, region)
}

// ResolveForecast returns the price outlook for crop.
func (r *AdvisoryResolver) ResolveForecast(crop string) string {
	name := capitalize(strings.TrimSpace(crop))
	if text, ok := r.catalog.Tables().Forecasts[lookupKey(crop)]; ok {
		return fmt.Sprintf("Utabiri wa %s: %s", name, text)
	}
	return fmt.Sprintf("Utabiri wa %s haupatikani.", name)
}

// ResolveLogistics returns storage or transport guidance, falling back to
// general advice for unknown categories.
func (r *AdvisoryResolver) ResolveLogistics(category string) string {
	t := r.catalog.Tables()
	if text, ok := t.Logistics[categoryKey(category)]; ok {
		return text
	}
	return t.DefaultLogistics
}

// ResolveWeather fetches current weather. Failures are logged and reported
// as ok == false. An empty location means the default location.
func (r *AdvisoryResolver) ResolveWeather(ctx context.Context, location string) (*models.WeatherSnapshot, bool) {
	if r.weather == nil {
		return nil, false
	}

	loc := r.defaultLocation
	if name := strings.TrimSpace(location); name != "" && !strings.EqualFold(name, r.defaultLocation.Name) {
		loc = Location{Name: name}
	}

	snapshot, err := r.weather.Current(ctx, loc)
	if err != nil {
		logx.FromContext(ctx).Error().Err(err).Str("location", loc.Name).Msg("error fetching weather")
		return nil, false
	}
	return snapshot, true
}
