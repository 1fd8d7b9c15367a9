package graphstore

import (
	"context"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	"scholargraph/internal/config"
)

// Executor is the transactional query surface the writer and the
// analytics-free callers depend on: one parameterized operation in,
// result rows out.
type Executor interface {
	Execute(ctx context.Context, query string, params map[string]any) ([]map[string]any, error)
}

// Store is the neo4j-backed Executor.
type Store struct {
	driver   neo4j.DriverWithContext
	database string
	log      *zap.Logger
}

// New connects and verifies connectivity before returning; an
// unreachable store after the bounded attempts is fatal for the run.
func New(ctx context.Context, cfg config.Config, log *zap.Logger) (*Store, error) {
	if log == nil {
		log = zap.NewNop()
	}
	driver, err := neo4j.NewDriverWithContext(cfg.Neo4jURI, neo4j.BasicAuth(cfg.Neo4jUser, cfg.Neo4jPassword, ""))
	if err != nil {
		return nil, fmt.Errorf("create neo4j driver: %w", err)
	}

	attempts := cfg.RetryAttempts
	if attempts <= 0 {
		attempts = 3
	}
	delay := time.Duration(cfg.RetryDelaySecs) * time.Second
	var verifyErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if verifyErr = driver.VerifyConnectivity(ctx); verifyErr == nil {
			log.Info("connected to graph store", zap.String("uri", cfg.Neo4jURI), zap.String("database", cfg.Neo4jDatabase))
			return &Store{driver: driver, database: cfg.Neo4jDatabase, log: log}, nil
		}
		log.Warn("graph store connection attempt failed",
			zap.Int("attempt", attempt),
			zap.Error(verifyErr))
		if attempt < attempts {
			select {
			case <-ctx.Done():
				_ = driver.Close(ctx)
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}
	}
	_ = driver.Close(ctx)
	return nil, fmt.Errorf("%w: %v", ErrUnreachable, verifyErr)
}

func (s *Store) Execute(ctx context.Context, query string, params map[string]any) ([]map[string]any, error) {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: s.database})
	defer session.Close(ctx)

	result, err := session.Run(ctx, query, params)
	if err != nil {
		return nil, err
	}
	var rows []map[string]any
	for result.Next(ctx) {
		rec := result.Record()
		row := make(map[string]any, len(rec.Keys))
		for i, key := range rec.Keys {
			row[key] = rec.Values[i]
		}
		rows = append(rows, row)
	}
	if err := result.Err(); err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *Store) Close(ctx context.Context) error {
	return s.driver.Close(ctx)
}
