package orderbook

import (
	"testing"
	"time"
)

func TestExpiryWheelDrainsDueEntries(t *testing.T) {
	w := newExpiryWheel()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	w.schedule("a", base.Add(time.Minute))
	w.schedule("b", base.Add(2*time.Minute))
	w.schedule("c", base.Add(3*time.Minute))

	expired := w.drainExpired(base.Add(90 * time.Second))
	if len(expired) != 1 || expired[0] != "a" {
		t.Fatalf("expected only a to have expired, got %v", expired)
	}

	expired = w.drainExpired(base.Add(3 * time.Minute))
	if len(expired) != 2 {
		t.Fatalf("expected b and c to expire, got %v", expired)
	}
}

func TestExpiryWheelCancelSuppressesTombstone(t *testing.T) {
	w := newExpiryWheel()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	w.schedule("a", base.Add(time.Minute))
	w.cancel("a")

	expired := w.drainExpired(base.Add(time.Hour))
	if len(expired) != 0 {
		t.Fatalf("cancelled entry should not be reported as expired, got %v", expired)
	}
}

func TestExpiryWheelRescheduleSupersedesEarlierEntry(t *testing.T) {
	w := newExpiryWheel()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	w.schedule("a", base.Add(time.Minute))
	w.schedule("a", base.Add(time.Hour)) // reschedule to a later deadline

	expired := w.drainExpired(base.Add(2 * time.Minute))
	if len(expired) != 0 {
		t.Fatalf("superseded earlier entry must not fire, got %v", expired)
	}

	expired = w.drainExpired(base.Add(2 * time.Hour))
	if len(expired) != 1 || expired[0] != "a" {
		t.Fatalf("expected rescheduled entry to fire once due, got %v", expired)
	}
}
