package graphstore

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

const minClearBatch = 100

// Clear wipes the whole store: constraints first, then nodes (with
// incident relationships) in bounded batches. The batch shrinks when
// the server signals memory pressure and the loop stops at the first
// batch that deletes nothing. Returns the number of deleted nodes.
func Clear(ctx context.Context, exec Executor, batchSize int, log *zap.Logger) (int64, error) {
	if batchSize <= 0 {
		batchSize = 1000
	}
	if log == nil {
		log = zap.NewNop()
	}

	if rows, err := exec.Execute(ctx, "SHOW CONSTRAINTS", nil); err == nil {
		for _, row := range rows {
			name, _ := row["name"].(string)
			if name == "" {
				continue
			}
			if _, err := exec.Execute(ctx, "DROP CONSTRAINT "+name, nil); err != nil {
				log.Warn("drop constraint failed", zap.String("name", name), zap.Error(err))
			}
		}
	}

	var deleted int64
	for {
		if err := ctx.Err(); err != nil {
			return deleted, err
		}
		query := fmt.Sprintf(`MATCH (n) WITH n LIMIT %d DETACH DELETE n RETURN COUNT(n) AS deleted`, batchSize)
		rows, err := exec.Execute(ctx, query, nil)
		if err != nil {
			if strings.Contains(strings.ToLower(err.Error()), "memory") && batchSize > minClearBatch {
				batchSize = max(minClearBatch, batchSize/2)
				log.Warn("reduced clear batch size", zap.Int("batch_size", batchSize))
				continue
			}
			return deleted, fmt.Errorf("clear batch: %w", err)
		}
		n := countFromValue(rows, "deleted")
		if n == 0 {
			break
		}
		deleted += n
		log.Info("deleted nodes", zap.Int64("total", deleted))
	}
	return deleted, nil
}

func countFromValue(rows []map[string]any, key string) int64 {
	if len(rows) == 0 {
		return 0
	}
	switch v := rows[0][key].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	default:
		return 0
	}
}
