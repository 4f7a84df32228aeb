package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/multierr"
)

func TestDoSucceedsAfterTransientFailures(t *testing.T) {
	calls := 0
	err := Do(context.Background(), 3, Linear(time.Millisecond), nil, func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("expected success on third attempt, got %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 calls, got %d", calls)
	}
}

func TestDoStopsAtAttemptBudget(t *testing.T) {
	calls := 0
	err := Do(context.Background(), 3, Linear(time.Millisecond), nil, func(ctx context.Context) error {
		calls++
		return errors.New("always")
	})
	if err == nil {
		t.Fatal("expected error after exhausting attempts")
	}
	if calls != 3 {
		t.Fatalf("expected exactly 3 calls, got %d", calls)
	}
	if got := multierr.Errors(err); len(got) != 3 {
		t.Fatalf("expected 3 accumulated attempt errors, got %d", len(got))
	}
}

func TestDoAbortsOnPermanentError(t *testing.T) {
	permanent := errors.New("bad credentials")
	calls := 0
	err := Do(context.Background(), 5, Linear(time.Millisecond), func(err error) bool {
		return !errors.Is(err, permanent)
	}, func(ctx context.Context) error {
		calls++
		return permanent
	})
	if err == nil {
		t.Fatal("expected permanent error to surface")
	}
	if calls != 1 {
		t.Fatalf("permanent error must not retry, got %d calls", calls)
	}
}

func TestDoSingleAttemptNeverSleeps(t *testing.T) {
	start := time.Now()
	err := Do(context.Background(), 1, Exponential(time.Hour), nil, func(ctx context.Context) error {
		return errors.New("nope")
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("single attempt should not back off, took %v", elapsed)
	}
}

func TestLinearBackoffSchedule(t *testing.T) {
	b := Linear(100 * time.Millisecond)
	for i, want := range []time.Duration{100, 200, 300} {
		got, stop := b.Next()
		if stop {
			t.Fatalf("backoff stopped at step %d", i)
		}
		if got != want*time.Millisecond {
			t.Fatalf("step %d: expected %v, got %v", i, want*time.Millisecond, got)
		}
	}
}
