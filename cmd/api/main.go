package main

import (
	"log"
	"net/http"

	"scholargraph/internal/api"
	"scholargraph/internal/config"

	"github.com/joho/godotenv"
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

	h := api.NewServer(cfg, logger)
	log.Printf("scholargraph api listening on %s neo4j=%s", cfg.APIAddr, cfg.Neo4jURI)
	if err := http.ListenAndServe(cfg.APIAddr, h.Routes()); err != nil {
		log.Fatal(err)
	}
}
