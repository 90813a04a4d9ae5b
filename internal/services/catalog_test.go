package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestParseTablesNormalizesKeys(t *testing.T) {
	doc := []byte(`
prices:
  Sweet Potato:
    Dar es Salaam: "900 TZS/kg"
forecasts:
  Sweet Potato: "Bei tulivu."
logistics:
  " Cold Room ": "Tumia vyumba vya baridi."
default_logistics: "  Ushauri wa jumla.  "
`)
	tables, err := ParseTables(doc)
	if err != nil {
		t.Fatalf("ParseTables: %v", err)
	}
	if got := tables.Prices["sweetpotato"]["daressalaam"]; got != "900 TZS/kg" {
		t.Errorf("price = %q", got)
	}
	if got := tables.Forecasts["sweetpotato"]; got != "Bei tulivu." {
		t.Errorf("forecast = %q", got)
	}
	if got := tables.Logistics["cold room"]; got != "Tumia vyumba vya baridi." {
		t.Errorf("logistics = %q", got)
	}
	if tables.DefaultLogistics != "Ushauri wa jumla." {
		t.Errorf("default logistics = %q", tables.DefaultLogistics)
	}
}

func TestParseTablesRejectsInvalid(t *testing.T) {
	for name, doc := range map[string]string{
		"malformed": "prices: [",
		"no prices": "forecasts:\n  maize: x\n",
	} {
		if _, err := ParseTables([]byte(doc)); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestEmbeddedCatalogCoversMenuCrops(t *testing.T) {
	tables := NewCatalog().Tables()
	for _, crop := range cropChoices {
		if _, ok := tables.Prices[lookupKey(crop)][lookupKey(DefaultRegion)]; !ok {
			t.Errorf("no %s price for %s", DefaultRegion, crop)
		}
		if _, ok := tables.Forecasts[lookupKey(crop)]; !ok {
			t.Errorf("no forecast for %s", crop)
		}
	}
	for _, category := range logisticsChoices {
		if _, ok := tables.Logistics[category]; !ok {
			t.Errorf("no logistics text for %s", category)
		}
	}
}

func writeTables(t *testing.T, path, price string) {
	t.Helper()
	doc := "prices:\n  maize:\n    Dar es Salaam: \"" + price + "\"\ndefault_logistics: \"x\"\n"
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestCatalogLoadFileKeepsTablesOnError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tables.yaml")
	writeTables(t, path, "999 TZS/kg")

	c := NewCatalog()
	if err := c.LoadFile(path); err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if got := c.Tables().Prices["maize"]["daressalaam"]; got != "999 TZS/kg" {
		t.Fatalf("price after load = %q", got)
	}

	if err := os.WriteFile(path, []byte("prices: ["), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := c.LoadFile(path); err == nil {
		t.Fatal("expected error for malformed file")
	}
	if got := c.Tables().Prices["maize"]["daressalaam"]; got != "999 TZS/kg" {
		t.Errorf("price after failed load = %q, want previous tables", got)
	}

	if err := c.LoadFile(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestCatalogWatchReloads(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tables.yaml")
	writeTables(t, path, "100 TZS/kg")

	c := NewCatalog()
	if err := c.LoadFile(path); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Watch(ctx, path) }()
	defer func() {
		cancel()
		<-done
	}()

	// Give the watcher time to register before writing.
	time.Sleep(100 * time.Millisecond)
	writeTables(t, path, "200 TZS/kg")

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if c.Tables().Prices["maize"]["daressalaam"] == "200 TZS/kg" {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("tables not reloaded, price = %q", c.Tables().Prices["maize"]["daressalaam"])
}
