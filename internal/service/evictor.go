package service

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

const defaultEvictInterval = 5 * time.Minute

// SessionEvictor periodically drops idle sessions from memory. Persisted
// sessions come back on their next request.
type SessionEvictor struct {
	sessions *SessionService
	logger   *zap.Logger
	maxIdle  time.Duration

	interval time.Duration
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

func NewSessionEvictor(sessions *SessionService, maxIdle time.Duration, logger *zap.Logger) *SessionEvictor {
	return &SessionEvictor{
		sessions: sessions,
		logger:   logger,
		maxIdle:  maxIdle,
		interval: defaultEvictInterval,
		stopCh:   make(chan struct{}),
	}
}

func (e *SessionEvictor) SetInterval(d time.Duration) {
	e.interval = d
}

// Start runs the evictor on a periodic schedule in a background goroutine.
func (e *SessionEvictor) Start() {
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		ticker := time.NewTicker(e.interval)
		defer ticker.Stop()

		e.logger.Info("session evictor started",
			zap.Duration("interval", e.interval),
			zap.Duration("max_idle", e.maxIdle))

		for {
			select {
			case <-ticker.C:
				e.run()
			case <-e.stopCh:
				e.logger.Info("session evictor stopped")
				return
			}
		}
	}()
}

// Stop gracefully stops the evictor.
func (e *SessionEvictor) Stop() {
	close(e.stopCh)
	e.wg.Wait()
}

func (e *SessionEvictor) run() {
	if n := e.sessions.EvictIdle(e.maxIdle); n > 0 {
		e.logger.Info("evicted idle sessions", zap.Int("count", n))
	}
}
