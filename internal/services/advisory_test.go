package services

import (
	"context"
	"strings"
	"testing"

	"github.com/Ananth-NQI/kilimo-smart/internal/models"
)

func TestResolvePrice(t *testing.T) {
	r := simulatedResolver()

	tests := []struct {
		crop, region string
		want         string
	}{
		{"Maize", "Dar es Salaam", "Bei ya sasa ya Maize Dar es Salaam: 780 TZS/kg."},
		{"maize", "iringa", "Bei ya sasa ya Maize iringa: 720 TZS/kg."},
		{" BEANS ", "darEs salaam", "Bei ya sasa ya Beans darEs salaam: 1950 TZS/kg."},
		{"Cassava", "Dar es Salaam", "Bei ya Cassava Dar es Salaam haipatikani kwa sasa. Jaribu zao au eneo tofauti."},
		{"Rice", "Dodoma", "Bei ya Rice Dodoma haipatikani kwa sasa. Jaribu zao au eneo tofauti."},
	}

	for _, tt := range tests {
		if got := r.ResolvePrice(tt.crop, tt.region); got != tt.want {
			t.Errorf("ResolvePrice(%q, %q) = %q, want %q", tt.crop, tt.region, got, tt.want)
		}
	}
}

func TestResolveForecast(t *testing.T) {
	r := simulatedResolver()

	if got := r.ResolveForecast("tomato"); !strings.HasPrefix(got, "Utabiri wa Tomato: Bei zinaweza kubadilika") {
		t.Errorf("known crop forecast = %q", got)
	}
	if got := r.ResolveForecast("cassava"); got != "Utabiri wa Cassava haupatikani." {
		t.Errorf("unknown crop forecast = %q", got)
	}
}

func TestResolveLogistics(t *testing.T) {
	r := simulatedResolver()
	tables := NewCatalog().Tables()

	if got := r.ResolveLogistics(" Grain Storage"); got != tables.Logistics["grain storage"] {
		t.Errorf("grain storage = %q", got)
	}
	if got := r.ResolveLogistics("cold chain"); got != tables.DefaultLogistics {
		t.Errorf("unknown category = %q, want default", got)
	}
}

type recordingWeather struct {
	locations []Location
}

func (w *recordingWeather) Current(ctx context.Context, loc Location) (*models.WeatherSnapshot, error) {
	w.locations = append(w.locations, loc)
	return &models.WeatherSnapshot{City: loc.Name}, nil
}

func TestResolveWeatherLocation(t *testing.T) {
	weather := &recordingWeather{}
	r := NewAdvisoryResolver(NewCatalog(), weather, testLocation)
	ctx := context.Background()

	r.ResolveWeather(ctx, "")
	r.ResolveWeather(ctx, "dar es salaam")
	r.ResolveWeather(ctx, "Arusha")

	if len(weather.locations) != 3 {
		t.Fatalf("weather calls = %d, want 3", len(weather.locations))
	}
	for i := range 2 {
		if weather.locations[i] != testLocation {
			t.Errorf("call %d location = %+v, want default", i, weather.locations[i])
		}
	}
	if got := weather.locations[2]; got.Name != "Arusha" || got.HasCoords {
		t.Errorf("named location = %+v", got)
	}
}

func TestResolveWeatherFailure(t *testing.T) {
	r := NewAdvisoryResolver(NewCatalog(), failingWeather{}, testLocation)
	if snapshot, ok := r.ResolveWeather(context.Background(), ""); ok || snapshot != nil {
		t.Errorf("got %+v, %v; want nil, false", snapshot, ok)
	}

	r = NewAdvisoryResolver(NewCatalog(), nil, testLocation)
	if _, ok := r.ResolveWeather(context.Background(), ""); ok {
		t.Error("resolver without weather provider reported success")
	}
}
