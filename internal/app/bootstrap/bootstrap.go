package bootstrap

import (
	"context"
	"log/slog"
	"strings"

	responseengine "crewcall/contexts/recruitment/response-engine"
	"crewcall/contexts/recruitment/response-engine/adapters/fs"
	postgresadapter "crewcall/contexts/recruitment/response-engine/adapters/postgres"
	"crewcall/internal/platform/config"
	"crewcall/internal/platform/db"
	"crewcall/internal/platform/httpserver"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server   *httpserver.Server
	postgres *db.Postgres
	logger   *slog.Logger
}

// BuildAPI wires the response engine behind the HTTP server. With a
// POSTGRES_DSN the engine runs on postgres plus filesystem attachments;
// without one it falls back to the in-memory store for local runs.
func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")

	var app APIApp
	var module responseengine.Module

	if strings.TrimSpace(cfg.PostgresDSN) != "" {
		pg, err := db.Connect(cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		attachments, err := fs.NewStore(cfg.AttachmentDir)
		if err != nil {
			_ = pg.Close()
			return nil, err
		}

		repo := postgresadapter.NewRepository(pg.DB, logger)
		module = responseengine.NewModule(responseengine.Dependencies{
			Campaigns:      repo,
			Responses:      repo,
			Attachments:    attachments,
			Idempotency:    repo,
			Clock:          postgresadapter.SystemClock{},
			IDGenerator:    postgresadapter.UUIDGenerator{},
			IdempotencyTTL: cfg.IdempotencyTTL,
			Logger:         logger,
		})
		app.postgres = pg
	} else {
		logger.Warn("no postgres dsn configured, using in-memory store",
			"event", "bootstrap_memory_fallback",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
		module = responseengine.NewInMemoryModule(nil, logger)
	}

	app.server = httpserver.New(module, logger, normalizeAddr(cfg.HTTPPort))
	app.logger = logger
	return &app, nil
}

func (a *APIApp) Run(_ context.Context) error {
	if a.logger != nil {
		a.logger.Info("api app started",
			"event", "bootstrap_api_started",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
	}
	return a.server.Start()
}

func (a *APIApp) Close() error {
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
