// PlanIt Discovery - Personalized Place Recommendation Service
// Copyright 2026 PlanIt Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/planit-app/discovery

// Package main is the entry point for the PlanIt discovery server.
//
// The discovery service assembles personalized place recommendations: a
// generative model proposes search categories from the user's taste
// fingerprint, a places API resolves them to concrete venues, and a scoring
// pass ranks the venues by distance and learned preference. User
// interactions flow back through an in-process event bus into the
// fingerprint store, closing the loop.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: layered loading from defaults, config file, and
//     environment variables (Koanf v2)
//  2. MongoDB: fingerprint document store
//  3. BadgerDB: per-user preference store (search radius)
//  4. Upstream clients: places search, weather, generative model
//  5. Event bus: Watermill in-process pub/sub for interaction events
//  6. Recommendation engine: cycle orchestration and result cache
//  7. HTTP server: REST API with health and metrics endpoints
//
// The long-lived components (HTTP server, interaction consumer) run under
// a suture supervisor tree so a panic or crash loop in one layer does not
// take down the other.
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest
// priority wins): environment variables with the DISCOVERY_ prefix, a
// config file (config.yaml), then built-in defaults.
//
// # Signal Handling
//
// The server handles graceful shutdown on SIGINT and SIGTERM: it stops
// accepting new connections, waits for in-flight requests to complete,
// then closes the event bus, preference store, and MongoDB connection.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/planit-app/discovery/internal/api"
	"github.com/planit-app/discovery/internal/config"
	"github.com/planit-app/discovery/internal/events"
	"github.com/planit-app/discovery/internal/fingerprint"
	"github.com/planit-app/discovery/internal/genai"
	"github.com/planit-app/discovery/internal/logging"
	"github.com/planit-app/discovery/internal/places"
	"github.com/planit-app/discovery/internal/prefs"
	"github.com/planit-app/discovery/internal/recommend"
	"github.com/planit-app/discovery/internal/supervisor"
	"github.com/planit-app/discovery/internal/weather"
)

func main() {
	// Load configuration first to get logging settings.
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if err := cfg.Validate(); err != nil {
		logging.Fatal().Err(err).Msg("Invalid configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("host", cfg.Server.Host).
		Int("port", cfg.Server.Port).
		Str("mongo_database", cfg.Mongo.Database).
		Bool("weather_enabled", cfg.Weather.Enabled).
		Msg("Configuration loaded")

	// Context for graceful shutdown, canceled on SIGINT/SIGTERM below.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// MongoDB holds the user fingerprints.
	mongoCtx, mongoCancel := context.WithTimeout(ctx, cfg.Mongo.Timeout)
	mongoClient, err := mongo.Connect(mongoCtx, options.Client().ApplyURI(cfg.Mongo.URI))
	mongoCancel()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to connect to MongoDB")
	}
	defer func() {
		disconnectCtx, disconnectCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer disconnectCancel()
		if err := mongoClient.Disconnect(disconnectCtx); err != nil {
			logging.Error().Err(err).Msg("Error disconnecting from MongoDB")
		}
	}()

	pingCtx, pingCancel := context.WithTimeout(ctx, cfg.Mongo.Timeout)
	if err := mongoClient.Ping(pingCtx, readpref.Primary()); err != nil {
		logging.Warn().Err(err).Msg("MongoDB ping failed (will retry via readiness checks)")
	} else {
		logging.Info().Msg("Connected to MongoDB successfully")
	}
	pingCancel()

	fingerprints := fingerprint.NewMongoStore(
		mongoClient.Database(cfg.Mongo.Database), cfg.Mongo.Collection)

	// BadgerDB preference store for per-user search radii.
	prefStore, err := prefs.Open(cfg.Prefs, cfg.Recommend.DefaultRadiusMiles)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open preference store")
	}
	defer func() {
		if err := prefStore.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing preference store")
		}
	}()
	logging.Info().Str("path", cfg.Prefs.Path).Msg("Preference store opened")

	// Upstream clients.
	searcher := places.NewClient(cfg.Places,
		logging.With().Str("component", "places").Logger())

	var weatherProvider recommend.WeatherProvider
	if cfg.Weather.Enabled {
		weatherProvider = weather.NewClient(cfg.Weather,
			logging.With().Str("component", "weather").Logger())
		logging.Info().Msg("Weather enrichment enabled")
	} else {
		weatherProvider = weather.Disabled{}
	}

	textGen, err := genai.NewGeminiGenerator(ctx, cfg.GenAI)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create generative model client")
	}
	generator := genai.NewAdapter(textGen, cfg.GenAI.Timeout,
		logging.With().Str("component", "genai").Logger())

	// Interaction pipeline: API publishes to the bus, the consumer applies
	// recorded interactions to the fingerprint store.
	bus := events.NewBus(logging.With().Str("component", "events").Logger())
	defer func() {
		if err := bus.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing event bus")
		}
	}()

	recorder := fingerprint.NewRecorder(fingerprints,
		logging.With().Str("component", "recorder").Logger())
	consumer := events.NewConsumer(bus, recorder)

	engine := recommend.NewEngine(cfg.Recommend, fingerprints, generator,
		searcher, weatherProvider,
		logging.With().Str("component", "engine").Logger())

	readiness := map[string]api.ReadinessCheck{
		"mongo": func(ctx context.Context) error {
			return mongoClient.Ping(ctx, readpref.Primary())
		},
		"prefs": func(ctx context.Context) error {
			_, err := prefStore.RadiusMiles(ctx, "readiness-probe")
			return err
		},
	}

	handler := api.NewHandler(engine, prefStore, bus, readiness,
		logging.With().Str("component", "api").Logger())
	router := api.NewRouter(cfg.Server, handler)
	server := api.NewServer(cfg.Server, router,
		logging.With().Str("component", "http").Logger())

	// Supervisor tree: sutureslog bridges supervision events into zerolog.
	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	tree.AddEventService(consumer)
	tree.AddAPIService(server)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	// Drain the error channel until the supervisor has fully stopped.
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("Application stopped gracefully")
}
