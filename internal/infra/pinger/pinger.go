package pinger

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/skillcoder/kuberoute/internal/infra/shutdown"
)

// defaultPingTimeout bounds one probe of one component.
const defaultPingTimeout = 1 * time.Second

// Statistics is a point-in-time view of one pinger's probe history.
type Statistics struct {
	LastRun      time.Time     `json:"lastRun"`
	LastLatency  time.Duration `json:"lastLatency"`
	LastError    string        `json:"lastError,omitempty"`
	SuccessCount int64         `json:"successCount"`
	ErrorCount   int64         `json:"errorCount"`
	Healthy      bool          `json:"healthy"`
}

// stats is the mutable probe history behind Statistics.
type stats struct {
	mu           sync.RWMutex
	lastRun      time.Time
	lastLatency  time.Duration
	lastError    error
	successCount int64
	errorCount   int64
}

// Service probes registered components on an interval and keeps the
// results for the status endpoint.
type Service struct {
	logger     *slog.Logger
	interval   time.Duration
	mu         sync.RWMutex
	pingers    map[string]Pinger
	stats      map[string]*stats
	ready      chan struct{}
	inShutdown atomic.Bool
	doneCh     chan struct{}
	wg         sync.WaitGroup
}

// New creates a new pinger service with the specified interval
func New(logger *slog.Logger, interval time.Duration) *Service {
	return &Service{
		logger:   logger,
		interval: interval,
		pingers:  make(map[string]Pinger),
		stats:    make(map[string]*stats),
		ready:    make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

var _ shutdown.Shutdowner = (*Service)(nil)

// Name returns the name of the pinger service component
func (s *Service) Name() string {
	return "pinger-service"
}

// Register registers a pinger under its own name.
func (s *Service) Register(pinger Pinger) error {
	if pinger == nil {
		return fmt.Errorf("register pinger: pinger cannot be nil")
	}

	name := pinger.Name()

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.pingers[name]; exists {
		return fmt.Errorf("register pinger %s: %w", name, ErrPingerAlreadyRegistered)
	}

	s.pingers[name] = pinger
	s.stats[name] = &stats{}

	s.logger.Info("pinger registered", "name", name)

	return nil
}

// Start starts the pinger service in a goroutine
func (s *Service) Start(ctx context.Context) error {
	if s.inShutdown.Load() {
		s.logger.InfoContext(ctx, "pinger service is shutting down, skipping start")

		return nil
	}

	go s.run(ctx)

	return nil
}

// Ready returns a channel that is closed when the pinger service is ready
func (s *Service) Ready() <-chan struct{} {
	return s.ready
}

// Shutdown gracefully shuts down the pinger service
func (s *Service) Shutdown(ctx context.Context) error {
	if !s.inShutdown.CompareAndSwap(false, true) {
		s.logger.ErrorContext(ctx, "pinger service is already shutting down, skipping shutdown")

		return nil
	}

	defer func() {
		s.logger.InfoContext(ctx, "pinger service shut downed")
	}()

	s.logger.InfoContext(ctx, "shutting down pinger service")

	select {
	case <-ctx.Done():
		return fmt.Errorf("shutdown context done before pinger loop exited: %w", ctx.Err())
	case <-s.doneCh:
		s.logger.InfoContext(ctx, "pinger loop exited")
	}

	// Wait for any in-flight ping operations to complete
	s.wg.Wait()

	return nil
}

// GetStats returns statistics for a specific pinger
func (s *Service) GetStats(name string) (*Statistics, error) {
	s.mu.RLock()
	st, exists := s.stats[name]
	s.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("get stats: %w: %s", ErrPingerNotFound, name)
	}

	return st.snapshot(), nil
}

// GetAllStats returns a snapshot of all pinger statistics
func (s *Service) GetAllStats() map[string]*Statistics {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make(map[string]*Statistics, len(s.stats))
	for name, st := range s.stats {
		result[name] = st.snapshot()
	}

	return result
}

func (s *Service) run(ctx context.Context) {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	close(s.ready)

	for {
		select {
		case <-ctx.Done():
			s.logger.InfoContext(ctx, "terminating pinger loop")

			return
		case <-ticker.C:
		}

		s.pingAll(ctx)
	}
}

func (s *Service) pingAll(ctx context.Context) {
	s.mu.RLock()
	pingers := make(map[string]Pinger, len(s.pingers))
	for name, p := range s.pingers {
		pingers[name] = p
	}
	s.mu.RUnlock()

	for name, p := range pingers {
		s.wg.Add(1)

		go func() {
			defer s.wg.Done()

			pctx, cancel := context.WithTimeout(ctx, defaultPingTimeout)
			defer cancel()

			start := time.Now()
			err := p.Ping(pctx)
			latency := time.Since(start)

			s.mu.RLock()
			st := s.stats[name]
			s.mu.RUnlock()

			st.record(latency, err)

			if err != nil {
				s.logger.WarnContext(ctx, "ping failed",
					"name", name,
					"latency", latency,
					"reason", err,
				)
			}
		}()
	}
}

func (st *stats) record(latency time.Duration, err error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	st.lastRun = time.Now()
	st.lastLatency = latency
	st.lastError = err

	if err != nil {
		st.errorCount++
	} else {
		st.successCount++
	}
}

func (st *stats) snapshot() *Statistics {
	st.mu.RLock()
	defer st.mu.RUnlock()

	out := &Statistics{
		LastRun:      st.lastRun,
		LastLatency:  st.lastLatency,
		SuccessCount: st.successCount,
		ErrorCount:   st.errorCount,
		Healthy:      st.lastError == nil,
	}

	if st.lastError != nil {
		out.LastError = st.lastError.Error()
	}

	return out
}
