package main

import (
	"context"
	"log/slog"

	"product-review-backend/api"
	"product-review-backend/config"
	"product-review-backend/store"
)

func main() {
	ctx := context.Background()

	// Getting the config
	cfg, err := config.New()
	if err != nil {
		slog.Error("Config initialization failed", "error", err)
		panic(err)
	}

	// Record source initialization: Postgres when configured, the JSON
	// data directory otherwise.
	var source store.RecordSource
	if cfg.UseDatabase() {
		db, err := store.OpenDB(ctx, cfg.Dsn())
		if err != nil {
			slog.Error("Database initialization failed", "error", err)
			panic(err)
		}
		defer db.Close()
		source = db
	} else {
		source = store.NewFileSource(cfg.DataDir)
	}

	// Running the server
	api, err := api.New(store.New(source))
	if err != nil {
		slog.Error("Api initialization failed", "error", err)
		panic(err)
	}
	api.Run(cfg.ServerPort)
}
