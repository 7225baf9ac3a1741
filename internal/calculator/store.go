package calculator

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"keypad-calc/internal/engine"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrStoreFull       = errors.New("session limit reached")
)

// StoreConfig bounds the session store and configures new calculators.
type StoreConfig struct {
	MaxSessions int
	TTL         time.Duration
	MaxDigits   int
	Grouping    bool
}

// session owns one calculator. Its mutex serialises keystrokes, since a
// Calculator is single-owner state.
type session struct {
	mu       sync.Mutex
	calc     *engine.Calculator
	lastUsed time.Time
}

// Store keeps calculator sessions in memory, keyed by UUID.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*session
	cfg      StoreConfig
	now      func() time.Time

	activeDesc *prometheus.Desc
}

func NewStore(cfg StoreConfig) *Store {
	return &Store{
		sessions: make(map[string]*session),
		cfg:      cfg,
		now:      time.Now,
		activeDesc: prometheus.NewDesc(
			"calculator_sessions_active",
			"Number of calculator sessions currently held in memory.",
			nil, nil,
		),
	}
}

func (s *Store) newCalculator() *engine.Calculator {
	return engine.New(
		engine.WithMaxDigits(s.cfg.MaxDigits),
		engine.WithGrouping(s.cfg.Grouping),
	)
}

// Create starts a session showing "0".
func (s *Store) Create() (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cfg.MaxSessions > 0 && len(s.sessions) >= s.cfg.MaxSessions {
		return Snapshot{}, ErrStoreFull
	}

	id := uuid.New().String()
	sess := &session{calc: s.newCalculator(), lastUsed: s.now()}
	s.sessions[id] = sess

	return snapshot(id, sess.calc), nil
}

func (s *Store) lookup(id string) (*session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// Get returns the current state of a session.
func (s *Store) Get(id string) (Snapshot, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return Snapshot{}, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.lastUsed = s.now()

	return snapshot(id, sess.calc), nil
}

// Apply presses keys in order on a session.
func (s *Store) Apply(id string, keys []engine.Key) (Snapshot, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return Snapshot{}, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	for _, k := range keys {
		sess.calc.Press(k)
	}
	sess.lastUsed = s.now()

	return snapshot(id, sess.calc), nil
}

// Delete drops a session.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(s.sessions, id)
	return nil
}

// Len reports the number of live sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Sweep removes sessions idle for longer than the TTL and returns how many
// were removed. A zero TTL keeps sessions forever.
func (s *Store) Sweep(now time.Time) int {
	if s.cfg.TTL <= 0 {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, sess := range s.sessions {
		sess.mu.Lock()
		idle := now.Sub(sess.lastUsed)
		sess.mu.Unlock()

		if idle > s.cfg.TTL {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// RunJanitor sweeps expired sessions every interval until ctx is done.
// onSweep, when set, receives the number of sessions removed by each sweep.
func (s *Store) RunJanitor(ctx context.Context, interval time.Duration, onSweep func(removed int)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			removed := s.Sweep(now)
			if onSweep != nil {
				onSweep(removed)
			}
		}
	}
}

// Describe implements prometheus.Collector.
func (s *Store) Describe(ch chan<- *prometheus.Desc) {
	ch <- s.activeDesc
}

// Collect implements prometheus.Collector.
func (s *Store) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(s.activeDesc, prometheus.GaugeValue, float64(s.Len()))
}
