package vendors

import (
	"context"
	"testing"
	"time"
)

func TestRateLimiterCancelledWait(t *testing.T) {
	limiter := NewRateLimiter(1)
	if err := limiter.Wait(context.Background()); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	if err := limiter.Wait(ctx); err == nil {
		t.Fatalf("expected cancellation error")
	}
	if time.Since(start) > 500*time.Millisecond {
		t.Fatalf("cancelled wait must not sleep out the interval")
	}
}

func TestRateLimiterPacesCalls(t *testing.T) {
	limiter := NewRateLimiter(20) // 50ms interval

	start := time.Now()
	for i := 0; i < 3; i++ {
		if err := limiter.Wait(context.Background()); err != nil {
			t.Fatal(err)
		}
	}
	if elapsed := time.Since(start); elapsed < 100*time.Millisecond {
		t.Fatalf("three calls finished in %v, expected at least two intervals", elapsed)
	}
}
