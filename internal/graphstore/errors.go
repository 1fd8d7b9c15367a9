package graphstore

import (
	"errors"
	"strings"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

var (
	ErrUnreachable     = errors.New("graph store unreachable")
	ErrRetriesExceeded = errors.New("retry budget exhausted")
)

type ErrorType string

const (
	ErrorTransient ErrorType = "transient"
	ErrorFatal     ErrorType = "fatal"
)

// ClassifyError sorts store failures into retryable and fatal. The
// driver knows about most of its own retryable conditions; the string
// checks catch the same classes when they arrive wrapped or from a
// fake during tests.
func ClassifyError(err error) ErrorType {
	if err == nil {
		return ""
	}
	if neo4j.IsRetryable(err) {
		return ErrorTransient
	}
	e := strings.ToLower(err.Error())
	switch {
	case strings.Contains(e, "unavailable"),
		strings.Contains(e, "temporarily"),
		strings.Contains(e, "transient"),
		strings.Contains(e, "leader"),
		strings.Contains(e, "deadlock"),
		strings.Contains(e, "timeout"):
		return ErrorTransient
	default:
		return ErrorFatal
	}
}
