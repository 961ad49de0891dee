package timer

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestTimerFires(t *testing.T) {
	s := NewScheduler()
	fired := make(chan int64, 1)

	s.Start(10*time.Millisecond, 42, func(gameID int64) {
		fired <- gameID
	})

	select {
	case gameID := <-fired:
		if gameID != 42 {
			t.Errorf("Continuation received game ID %d, want 42", gameID)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Timer did not fire")
	}

	if s.Outstanding(42) {
		t.Error("Fired timer should be removed from the registry")
	}
}

func TestEndPreventsFiring(t *testing.T) {
	s := NewScheduler()
	var fireCount int32

	s.Start(100*time.Millisecond, 7, func(gameID int64) {
		atomic.AddInt32(&fireCount, 1)
	})
	s.End(7)

	// The continuation must not run after End returns.
	time.Sleep(300 * time.Millisecond)
	if n := atomic.LoadInt32(&fireCount); n != 0 {
		t.Errorf("Cancelled timer fired %d times", n)
	}
	if s.Outstanding(7) {
		t.Error("Cancelled timer should be removed from the registry")
	}
}

func TestEndIsIdempotent(t *testing.T) {
	s := NewScheduler()
	s.End(99)
	s.Start(50*time.Millisecond, 99, func(int64) {})
	s.End(99)
	s.End(99)
}

// A timer cancelled right at its expiration boundary must either report that
// it was too late to cancel, or guarantee the continuation never runs.
func TestCancelExpireRace(t *testing.T) {
	s := NewScheduler()

	for i := 0; i < 100; i++ {
		gameID := int64(i)
		var fired int32
		s.Start(time.Millisecond, gameID, func(int64) {
			atomic.AddInt32(&fired, 1)
		})
		time.Sleep(time.Millisecond)
		cancelled := s.End(gameID)

		time.Sleep(10 * time.Millisecond)
		got := atomic.LoadInt32(&fired)
		if cancelled && got != 0 {
			t.Fatalf("Continuation ran after a successful End (game %d)", gameID)
		}
		if !cancelled && got != 1 {
			t.Fatalf("End cancelled nothing but the timer never fired (game %d)", gameID)
		}
	}
}

func TestStartSupersedesPerGame(t *testing.T) {
	s := NewScheduler()
	var firstFired, secondFired int32

	s.Start(20*time.Millisecond, 5, func(int64) {
		atomic.AddInt32(&firstFired, 1)
	})
	s.End(5)
	s.Start(20*time.Millisecond, 5, func(int64) {
		atomic.AddInt32(&secondFired, 1)
	})

	time.Sleep(200 * time.Millisecond)
	if atomic.LoadInt32(&firstFired) != 0 {
		t.Error("Superseded timer fired")
	}
	if atomic.LoadInt32(&secondFired) != 1 {
		t.Error("Replacement timer did not fire")
	}
}

func TestConcurrentGamesDoNotInterfere(t *testing.T) {
	s := NewScheduler()
	const games = 50
	var wg sync.WaitGroup
	var fired int32

	for i := 0; i < games; i++ {
		wg.Add(1)
		gameID := int64(i)
		go func() {
			defer wg.Done()
			s.Start(10*time.Millisecond, gameID, func(int64) {
				atomic.AddInt32(&fired, 1)
			})
			if gameID%2 == 0 {
				s.End(gameID)
			}
		}()
	}
	wg.Wait()

	time.Sleep(200 * time.Millisecond)
	got := atomic.LoadInt32(&fired)
	if got != games/2 {
		t.Errorf("Expected %d continuations, got %d", games/2, got)
	}
}
