package worker

import (
	"testing"
	"time"
)

func TestExponentialBackoff_GrowsAndCaps(t *testing.T) {
	prev := time.Duration(0)

	for attempt := 0; attempt < 6; attempt++ {
		d := ExponentialBackoff(attempt)

		if d < prev {
			// jitter can wobble within a step, but a later attempt should
			// never come in below the previous base
			if prev-d > 250*time.Millisecond {
				t.Fatalf("attempt %d backoff %v shrank from %v", attempt, d, prev)
			}
		}

		prev = d
	}

	capped := ExponentialBackoff(40)
	if capped > 5*time.Minute+250*time.Millisecond {
		t.Fatalf("backoff should cap at 5 minutes, got %v", capped)
	}
}

func TestExponentialBackoff_NegativeAttempt(t *testing.T) {
	if d := ExponentialBackoff(-1); d <= 0 {
		t.Fatalf("expected positive duration, got %v", d)
	}
}
