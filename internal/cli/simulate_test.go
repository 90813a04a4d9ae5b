package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/Ananth-NQI/kilimo-smart/internal/services"
	"github.com/Ananth-NQI/kilimo-smart/internal/storage"
)

func TestSimulateCropPrice(t *testing.T) {
	store := storage.NewMemoryStore()
	resolver := services.NewAdvisoryResolver(services.NewCatalog(), &services.OpenWeatherClient{}, services.Location{Name: services.DefaultRegion})
	menu := services.NewMenuService(store, resolver, nil, storage.NewMemoryJournal())

	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())
	cmd.SetIn(strings.NewReader("1\n3\n"))
	cmd.SetOut(&out)

	if err := simulate(cmd, menu, false); err != nil {
		t.Fatalf("simulate: %v", err)
	}

	lines := out.String()
	if !strings.HasPrefix(lines, "CON "+services.MsgMainMenu) {
		t.Errorf("output does not start with main menu:\n%s", lines)
	}
	if !strings.Contains(lines, "END Bei ya sasa ya Rice Dar es Salaam: 1300 TZS/kg.") {
		t.Errorf("output missing rice price:\n%s", lines)
	}
	if strings.Contains(lines, "> ") {
		t.Errorf("prompt printed in non-interactive mode:\n%s", lines)
	}
	if n := store.Stats().MenuSessions; n != 0 {
		t.Errorf("menu sessions = %d after END", n)
	}
}

func TestSimulateStopsAtEOF(t *testing.T) {
	store := storage.NewMemoryStore()
	resolver := services.NewAdvisoryResolver(services.NewCatalog(), &services.OpenWeatherClient{}, services.Location{Name: services.DefaultRegion})
	menu := services.NewMenuService(store, resolver, nil, nil)

	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())
	cmd.SetIn(strings.NewReader("4\n"))
	cmd.SetOut(&bytes.Buffer{})

	if err := simulate(cmd, menu, true); err != nil {
		t.Errorf("simulate: %v", err)
	}
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	versionCmd.SetOut(&out)
	versionCmd.Run(versionCmd, nil)
	if got := out.String(); got != "kilimo-smart dev\n" {
		t.Errorf("version output = %q", got)
	}
}
