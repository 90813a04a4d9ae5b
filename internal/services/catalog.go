package services

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

//go:embed data/catalog.yaml
var defaultCatalog []byte

const reloadDebounce = 200 * time.Millisecond

// Tables are the static advisory lookup tables.
type Tables struct {
	Prices           map[string]map[string]string `yaml:"prices"`
	Forecasts        map[string]string            `yaml:"forecasts"`
	Logistics        map[string]string            `yaml:"logistics"`
	DefaultLogistics string                       `yaml:"default_logistics"`
}

// ParseTables decodes a YAML document and normalizes its keys.
func ParseTables(data []byte) (*Tables, error) {
	var raw Tables
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode advisory tables: %w", err)
	}
	if len(raw.Prices) == 0 {
		return nil, errors.New("advisory tables: no prices defined")
	}

	t := &Tables{
		Prices:           make(map[string]map[string]string, len(raw.Prices)),
		Forecasts:        make(map[string]string, len(raw.Forecasts)),
		Logistics:        make(map[string]string, len(raw.Logistics)),
		DefaultLogistics: strings.TrimSpace(raw.DefaultLogistics),
	}
	for crop, regions := range raw.Prices {
		byRegion := make(map[string]string, len(regions))
		for region, price := range regions {
			byRegion[lookupKey(region)] = price
		}
		t.Prices[lookupKey(crop)] = byRegion
	}
	for crop, text := range raw.Forecasts {
		t.Forecasts[lookupKey(crop)] = text
	}
	for category, text := range raw.Logistics {
		t.Logistics[categoryKey(category)] = text
	}
	return t, nil
}

// lookupKey folds case and removes all spaces.
func lookupKey(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), ""))
}

func categoryKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Catalog serves the current Tables and can hot-reload them from a file.
type Catalog struct {
	tables atomic.Pointer[Tables]

	debounceMu sync.Mutex
	debounce   *time.Timer
}

// NewCatalog returns a catalog loaded with the embedded tables.
func NewCatalog() *Catalog {
	t, err := ParseTables(defaultCatalog)
	if err != nil {
		panic(fmt.Sprintf("embedded advisory tables: %v", err))
	}
	c := &Catalog{}
	c.tables.Store(t)
	return c
}

func (c *Catalog) Tables() *Tables {
	return c.tables.Load()
}

// LoadFile replaces the tables with the contents of path. On error the
// current tables stay in place.
func (c *Catalog) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read advisory tables: %w", err)
	}
	t, err := ParseTables(data)
	if err != nil {
		return err
	}
	c.tables.Store(t)
	return nil
}

// Watch reloads path whenever it changes until ctx is done.
func (c *Catalog) Watch(ctx context.Context, path string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// Watch the directory: editors often replace the file instead of
	// writing it in place.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return err
	}
	log.Info().Str("path", path).Msg("watching advisory tables")

	target := filepath.Clean(path)
	for {
		select {
		case <-ctx.Done():
			c.stopDebounce()
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			c.scheduleReload(path)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Error().Err(err).Msg("advisory tables watcher error")
		}
	}
}

func (c *Catalog) scheduleReload(path string) {
	c.debounceMu.Lock()
	defer c.debounceMu.Unlock()

	if c.debounce != nil {
		c.debounce.Stop()
	}
	c.debounce = time.AfterFunc(reloadDebounce, func() {
		if err := c.LoadFile(path); err != nil {
			log.Error().Err(err).Str("path", path).Msg("advisory tables reload failed, keeping previous tables")
			return
		}
		log.Info().Str("path", path).Msg("advisory tables reloaded")
	})
}

func (c *Catalog) stopDebounce() {
	c.debounceMu.Lock()
	defer c.debounceMu.Unlock()
	if c.debounce != nil {
		c.debounce.Stop()
	}
}
