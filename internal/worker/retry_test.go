package worker

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRetry_SucceedsFirstTry(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), 3, time.Millisecond, func() error {
		calls++
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

func TestRetry_RecoversAfterFailure(t *testing.T) {
	origSleep := sleepFunc
	sleepFunc = func(ctx context.Context, d time.Duration) error { return nil }
	defer func() { sleepFunc = origSleep }()

	calls := 0
	err := Retry(context.Background(), 2, 50*time.Millisecond, func() error {
		calls++
		if calls == 1 {
			return errors.New("transient")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 2 {
		t.Errorf("expected 2 calls, got %d", calls)
	}
}

func TestRetry_ExhaustsAttempts(t *testing.T) {
	origSleep := sleepFunc
	var waits []time.Duration
	sleepFunc = func(ctx context.Context, d time.Duration) error {
		waits = append(waits, d)
		return nil
	}
	defer func() { sleepFunc = origSleep }()

	boom := errors.New("boom")
	calls := 0
	err := Retry(context.Background(), 3, 50*time.Millisecond, func() error {
		calls++
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected last error, got %v", err)
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
	// Backoff doubles between attempts
	if len(waits) != 2 || waits[0] != 50*time.Millisecond || waits[1] != 100*time.Millisecond {
		t.Errorf("unexpected backoff sequence: %v", waits)
	}
}

func TestRetry_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := Retry(ctx, 3, time.Millisecond, func() error {
		calls++
		return errors.New("never returned")
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if calls != 0 {
		t.Errorf("expected no calls on cancelled context, got %d", calls)
	}
}
