package graphstore

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestClassifyError(t *testing.T) {
	cases := map[string]ErrorType{
		"Neo.TransientError.Transaction.DeadlockDetected": ErrorTransient,
		"ServiceUnavailable: no routing servers available": ErrorTransient,
		"Neo.ClientError.Cluster.NotALeader leader switch": ErrorTransient,
		"connection timeout":                               ErrorTransient,
		"Neo.ClientError.Statement.SyntaxError":            ErrorFatal,
		"constraint validation failed":                     ErrorFatal,
	}
	for msg, want := range cases {
		if got := ClassifyError(errors.New(msg)); got != want {
			t.Fatalf("classify %q: got %s want %s", msg, got, want)
		}
	}
	if got := ClassifyError(nil); got != "" {
		t.Fatalf("nil error classified as %s", got)
	}
}

func TestRetryPolicyStopsOnFatal(t *testing.T) {
	p := RetryPolicy{MaxAttempts: 3, Delay: time.Millisecond}
	calls := 0
	err := p.Do(context.Background(), func(context.Context) error {
		calls++
		return errors.New("syntax error")
	})
	if err == nil || calls != 1 {
		t.Fatalf("fatal error should not be retried: err=%v calls=%d", err, calls)
	}
}

func TestRetryPolicyBoundedAttempts(t *testing.T) {
	p := RetryPolicy{MaxAttempts: 3, Delay: time.Millisecond}
	calls := 0
	err := p.Do(context.Background(), func(context.Context) error {
		calls++
		return errors.New("deadlock")
	})
	if !errors.Is(err, ErrRetriesExceeded) {
		t.Fatalf("expected ErrRetriesExceeded, got %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls)
	}
}

func TestRetryPolicyRecovers(t *testing.T) {
	p := RetryPolicy{MaxAttempts: 3, Delay: time.Millisecond}
	calls := 0
	err := p.Do(context.Background(), func(context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("temporarily unavailable")
		}
		return nil
	})
	if err != nil || calls != 3 {
		t.Fatalf("expected recovery on third attempt: err=%v calls=%d", err, calls)
	}
}
