package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rm-hull/godx"

	"github.com/rm-hull/nl-fuel-prices/internal"
	"github.com/rm-hull/nl-fuel-prices/internal/brands"
	"github.com/rm-hull/nl-fuel-prices/internal/config"
	"github.com/rm-hull/nl-fuel-prices/internal/geocoding"
	"github.com/rm-hull/nl-fuel-prices/internal/history"
	"github.com/rm-hull/nl-fuel-prices/internal/notify"
)

const STARTUP_TIMEOUT = 30 * time.Second

type services struct {
	config   *config.Config
	geocoder geocoding.Geocoder
	store    history.Store
	hub      *notify.Hub
	notifier *notify.Dispatcher
	engine   *internal.Engine
}

func (s *services) Close() {
	if err := s.store.Close(); err != nil {
		log.Printf("failed to close history store: %v", err)
	}
}

// bootstrap initialises the resources shared by the API server and search commands.
// The config file falls back to $CONFIG_FILE (which may come from .env); without
// either the defaults apply and no locations are tracked.
// Configured postcodes are geocoded before anything is scheduled.
func bootstrap(configFile string) (*services, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	godx.GitVersion()
	godx.EnvironmentVars()
	godx.UserInfo()

	if configFile == "" {
		configFile = os.Getenv("CONFIG_FILE")
	}

	cfg := config.Default()
	if configFile != "" {
		var err error
		if cfg, err = config.Load(configFile); err != nil {
			return nil, err
		}
	}

	geocoder := geocoding.NewNominatim(cfg.Geocoder)

	ctx, cancel := context.WithTimeout(context.Background(), STARTUP_TIMEOUT)
	defer cancel()
	if err := cfg.ResolveLocations(ctx, geocoder); err != nil {
		return nil, fmt.Errorf("failed to resolve locations: %w", err)
	}

	store, err := history.Open(cfg.History.Backend, cfg.History.Path, time.Now)
	if err != nil {
		return nil, fmt.Errorf("failed to open history store: %w", err)
	}

	retailers, err := brands.GetRetailersMap()
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to load retailers: %w", err)
	}

	hub := notify.NewHub()
	notifier := notify.NewDispatcher(notify.LogSink{}, hub)

	client := internal.NewTankServiceClient(cfg.ClientConfig(), internal.NewChecksumSigner())
	engine := internal.NewEngine(client, store, retailers, notifier, cfg.EngineConfig())

	log.Printf("Configured %d locations, history backend: %s", len(cfg.Locations), cfg.History.Backend)

	return &services{
		config:   cfg,
		geocoder: geocoder,
		store:    store,
		hub:      hub,
		notifier: notifier,
		engine:   engine,
	}, nil
}
