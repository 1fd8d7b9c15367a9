package graphstore

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// clearExec simulates a populated store for the destructive path.
type clearExec struct {
	remaining   int64
	constraints []string
	dropped     []string
	memFailures int
	batchSizes  []int
}

func (c *clearExec) Execute(_ context.Context, query string, _ map[string]any) ([]map[string]any, error) {
	switch {
	case query == "SHOW CONSTRAINTS":
		rows := make([]map[string]any, 0, len(c.constraints))
		for _, name := range c.constraints {
			rows = append(rows, map[string]any{"name": name})
		}
		return rows, nil
	case strings.HasPrefix(query, "DROP CONSTRAINT "):
		c.dropped = append(c.dropped, strings.TrimPrefix(query, "DROP CONSTRAINT "))
		return nil, nil
	case strings.Contains(query, "DETACH DELETE"):
		if c.memFailures > 0 {
			c.memFailures--
			return nil, errors.New("Java heap space: out of memory")
		}
		batch, err := parseLimit(query)
		if err != nil {
			return nil, err
		}
		c.batchSizes = append(c.batchSizes, int(batch))
		n := batch
		if n > c.remaining {
			n = c.remaining
		}
		c.remaining -= n
		return []map[string]any{{"deleted": n}}, nil
	default:
		return nil, errors.New("unexpected query: " + query)
	}
}

func parseLimit(query string) (int64, error) {
	idx := strings.Index(query, "LIMIT ")
	if idx < 0 {
		return 0, errors.New("no limit in query")
	}
	var v int64
	for _, r := range query[idx+len("LIMIT "):] {
		if r < '0' || r > '9' {
			break
		}
		v = v*10 + int64(r-'0')
	}
	return v, nil
}

func TestClearDropsConstraintsAndDeletesInBatches(t *testing.T) {
	exec := &clearExec{remaining: 2500, constraints: []string{"document_id", "author_id"}}
	deleted, err := Clear(context.Background(), exec, 1000, nil)
	require.NoError(t, err)
	require.Equal(t, int64(2500), deleted)
	require.Equal(t, []string{"document_id", "author_id"}, exec.dropped)
	// 1000 + 1000 + 500 + terminating zero batch.
	require.Equal(t, []int{1000, 1000, 1000, 1000}, exec.batchSizes)
}

func TestClearShrinksBatchOnMemoryPressure(t *testing.T) {
	exec := &clearExec{remaining: 600, memFailures: 2}
	deleted, err := Clear(context.Background(), exec, 1000, nil)
	require.NoError(t, err)
	require.Equal(t, int64(600), deleted)
	require.Equal(t, 250, exec.batchSizes[0], "batch should halve per memory failure")
}

func TestClearSurfacesOtherErrors(t *testing.T) {
	exec := &clearExec{remaining: 10}
	_, err := Clear(context.Background(), exec, 0, nil)
	require.NoError(t, err)

	_, err = Clear(context.Background(), &alwaysFail{}, 1000, nil)
	require.Error(t, err)
}

type alwaysFail struct{}

func (a *alwaysFail) Execute(_ context.Context, query string, _ map[string]any) ([]map[string]any, error) {
	if query == "SHOW CONSTRAINTS" {
		return nil, nil
	}
	return nil, errors.New("syntax error")
}
