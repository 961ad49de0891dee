package timer

import (
	"runtime/debug"
	"strconv"
	"sync"
	"time"

	cmap "github.com/orcaman/concurrent-map"
	"github.com/rs/zerolog/log"

	"github.com/Demmenty/BlackJack-vkbot-project/util"
)

var schedulerLogger = log.With().Str("logger_name", "timer::scheduler").Logger()

// Continuation is invoked when a game timer expires without being cancelled.
type Continuation func(gameID int64)

type gameTimer struct {
	gameID int64

	mu        sync.Mutex
	fired     bool
	cancelled bool
	stop      chan struct{}
}

// Scheduler tracks at most one outstanding timer per game. Start supersedes
// the map entry for the game; End guarantees that once it cancels a timer,
// that timer's continuation will not begin.
type Scheduler struct {
	timers cmap.ConcurrentMap
}

func NewScheduler() *Scheduler {
	return &Scheduler{
		timers: cmap.New(),
	}
}

func key(gameID int64) string {
	return strconv.FormatInt(gameID, 10)
}

// Start arms a timer for the game. Any previously armed timer for the same
// game should already have been cancelled with End; the new timer replaces
// the registry entry regardless.
func (s *Scheduler) Start(d time.Duration, gameID int64, cont Continuation) {
	t := &gameTimer{
		gameID: gameID,
		stop:   make(chan struct{}),
	}
	s.timers.Set(key(gameID), t)
	util.Metrics.SetActiveTimerCount(s.timers.Count())

	go s.wait(t, d, cont)
}

func (s *Scheduler) wait(t *gameTimer, d time.Duration, cont Continuation) {
	defer func() {
		if err := recover(); err != nil {
			schedulerLogger.Error().
				Int64("game", t.gameID).
				Msgf("Timer continuation panicked: %s\nStack Trace:\n%s", err, string(debug.Stack()))
		}
	}()

	select {
	case <-t.stop:
		return
	case <-time.After(d):
	}

	t.mu.Lock()
	if t.cancelled {
		t.mu.Unlock()
		return
	}
	t.fired = true
	s.removeIfCurrent(t)
	t.mu.Unlock()

	cont(t.gameID)
}

// End cancels the outstanding timer for the game, if any, and reports
// whether a timer was actually cancelled. Idempotent. If the timer has
// already begun firing, End is a no-op; if End returns true, the timer's
// continuation is guaranteed not to run.
func (s *Scheduler) End(gameID int64) bool {
	v, ok := s.timers.Get(key(gameID))
	if !ok {
		return false
	}
	t := v.(*gameTimer)

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.fired || t.cancelled {
		return false
	}
	t.cancelled = true
	close(t.stop)
	s.removeIfCurrent(t)
	return true
}

// removeIfCurrent drops the registry entry only if it still points at t.
// A later Start for the same game replaces the entry; the superseded timer
// must not remove its replacement.
func (s *Scheduler) removeIfCurrent(t *gameTimer) {
	s.timers.RemoveCb(key(t.gameID), func(k string, v interface{}, exists bool) bool {
		return exists && v == t
	})
	util.Metrics.SetActiveTimerCount(s.timers.Count())
}

// Outstanding reports whether a timer is currently armed for the game.
func (s *Scheduler) Outstanding(gameID int64) bool {
	return s.timers.Has(key(gameID))
}

// Shutdown cancels every outstanding timer.
func (s *Scheduler) Shutdown() {
	for item := range s.timers.IterBuffered() {
		t := item.Val.(*gameTimer)
		s.End(t.gameID)
	}
}
