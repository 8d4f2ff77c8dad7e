package guard

import (
	"sync"
	"testing"
	"time"
)

func TestFingerprint(t *testing.T) {
	got := Fingerprint("user123", "Road Trip")
	if got != "user123-Road Trip" {
		t.Errorf("expected user123-Road Trip, got %s", got)
	}
}

func TestMemoryGuard(t *testing.T) {
	t.Run("Sequential Acquire", func(t *testing.T) {
		g := NewMemoryGuard(0)

		ok, err := g.TryAcquire("user123-Road Trip")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !ok {
			t.Error("first acquire should succeed")
		}

		ok, err = g.TryAcquire("user123-Road Trip")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if ok {
			t.Error("second acquire should fail")
		}
	})

	t.Run("Distinct Fingerprints Are Independent", func(t *testing.T) {
		g := NewMemoryGuard(0)

		if ok, _ := g.TryAcquire("user123-Road Trip"); !ok {
			t.Error("first fingerprint should acquire")
		}
		if ok, _ := g.TryAcquire("user123-Gym Mix"); !ok {
			t.Error("different playlist name should acquire")
		}
		if ok, _ := g.TryAcquire("user456-Road Trip"); !ok {
			t.Error("different user should acquire")
		}
	})

	t.Run("Concurrent Acquire Yields One Winner", func(t *testing.T) {
		g := NewMemoryGuard(0)

		const callers = 50
		var wg sync.WaitGroup
		results := make(chan bool, callers)

		for i := 0; i < callers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				ok, err := g.TryAcquire("user42-Gym Mix")
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				results <- ok
			}()
		}
		wg.Wait()
		close(results)

		wins := 0
		for ok := range results {
			if ok {
				wins++
			}
		}
		if wins != 1 {
			t.Errorf("expected exactly one winner, got %d", wins)
		}
	})

	t.Run("Claims Expire After TTL", func(t *testing.T) {
		g := NewMemoryGuard(time.Hour)
		current := time.Now()
		g.now = func() time.Time { return current }

		if ok, _ := g.TryAcquire("user42-Gym Mix"); !ok {
			t.Fatal("first acquire should succeed")
		}

		current = current.Add(30 * time.Minute)
		if ok, _ := g.TryAcquire("user42-Gym Mix"); ok {
			t.Error("acquire before TTL should fail")
		}

		current = current.Add(31 * time.Minute)
		if ok, _ := g.TryAcquire("user42-Gym Mix"); !ok {
			t.Error("acquire after TTL should succeed")
		}
	})

	t.Run("Zero TTL Never Expires", func(t *testing.T) {
		g := NewMemoryGuard(0)
		current := time.Now()
		g.now = func() time.Time { return current }

		if ok, _ := g.TryAcquire("user42-Gym Mix"); !ok {
			t.Fatal("first acquire should succeed")
		}

		current = current.Add(24 * 365 * time.Hour)
		if ok, _ := g.TryAcquire("user42-Gym Mix"); ok {
			t.Error("zero TTL claim should never be released")
		}
	})
}

func TestSessionTracker(t *testing.T) {
	t.Run("Mark Then Check", func(t *testing.T) {
		tr := NewSessionTracker()

		if tr.HasDispatched("tok_abc") {
			t.Error("fresh credential should not be dispatched")
		}

		tr.MarkDispatched("tok_abc")

		if !tr.HasDispatched("tok_abc") {
			t.Error("marked credential should report dispatched")
		}
		if tr.HasDispatched("tok_other") {
			t.Error("other credentials are unaffected")
		}
	})

	t.Run("Mark Is Idempotent", func(t *testing.T) {
		tr := NewSessionTracker()
		tr.MarkDispatched("tok_abc")
		tr.MarkDispatched("tok_abc")

		if !tr.HasDispatched("tok_abc") {
			t.Error("credential should remain dispatched")
		}
	})
}
