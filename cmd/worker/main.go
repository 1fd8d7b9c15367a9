package main

import (
	"context"
	"log"
	"time"

	"scholargraph/internal/activities"
	"scholargraph/internal/config"
	"scholargraph/internal/graphstore"
	"scholargraph/internal/storage"
	"scholargraph/internal/workflows"

	"github.com/joho/godotenv"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load(".env")
	cfg := config.Load()
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	c, err := client.Dial(client.Options{HostPort: cfg.TemporalAddress})
	if err != nil {
		log.Fatal(err)
	}
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	store, err := graphstore.New(ctx, cfg, logger)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = store.Close(context.Background()) }()
	db, err := storage.NewDB(ctx, cfg.PostgresURL)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	w := worker.New(c, cfg.TemporalTaskQueue, worker.Options{})
	workflows.Register(w)
	activities.Register(w, activities.New(cfg, store, db, logger))

	log.Printf("scholargraph worker listening on %s queue=%s", cfg.TemporalAddress, cfg.TemporalTaskQueue)
	if err := w.Run(worker.InterruptCh()); err != nil {
		log.Fatal(err)
	}
}
