package calculator

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"keypad-calc/internal/engine"
)

func mustKeys(t *testing.T, seq string) []engine.Key {
	t.Helper()
	keys, err := engine.ParseKeySequence(seq)
	if err != nil {
		t.Fatalf("parsing %q: %v", seq, err)
	}
	return keys
}

func TestStoreCreateApplyGet(t *testing.T) {
	s := NewStore(StoreConfig{})

	snap, err := s.Create()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.Display != "0" || snap.Mode != "entry" {
		t.Fatalf("expected fresh session, got %+v", snap)
	}

	snap, err = s.Apply(snap.ID, mustKeys(t, "8/0="))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.Display != engine.ErrorText || snap.ErrorKind != "division_by_zero" {
		t.Fatalf("expected division by zero error state, got %+v", snap)
	}

	got, err := s.Get(snap.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != snap {
		t.Fatalf("expected %+v, got %+v", snap, got)
	}
}

func TestStoreUnknownSession(t *testing.T) {
	s := NewStore(StoreConfig{})

	if _, err := s.Get("missing"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected %v, got %v", ErrSessionNotFound, err)
	}
	if _, err := s.Apply("missing", nil); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected %v, got %v", ErrSessionNotFound, err)
	}
	if err := s.Delete("missing"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected %v, got %v", ErrSessionNotFound, err)
	}
}

func TestStoreLimit(t *testing.T) {
	s := NewStore(StoreConfig{MaxSessions: 1})

	first, err := s.Create()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := s.Create(); !errors.Is(err, ErrStoreFull) {
		t.Fatalf("expected %v, got %v", ErrStoreFull, err)
	}

	if err := s.Delete(first.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := s.Create(); err != nil {
		t.Fatalf("expected room after delete, got %v", err)
	}
}

func TestStoreSweepEvictsIdleSessions(t *testing.T) {
	s := NewStore(StoreConfig{TTL: time.Minute})
	base := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return base }

	idle, _ := s.Create()
	busy, _ := s.Create()

	s.now = func() time.Time { return base.Add(50 * time.Second) }
	if _, err := s.Apply(busy.ID, mustKeys(t, "1")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if removed := s.Sweep(base.Add(90 * time.Second)); removed != 1 {
		t.Fatalf("expected 1 session removed, got %d", removed)
	}
	if _, err := s.Get(idle.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected idle session evicted, got %v", err)
	}
	if _, err := s.Get(busy.ID); err != nil {
		t.Fatalf("expected busy session kept, got %v", err)
	}
}

func TestStoreSweepWithoutTTLKeepsSessions(t *testing.T) {
	s := NewStore(StoreConfig{})
	s.Create()

	if removed := s.Sweep(time.Now().Add(24 * time.Hour)); removed != 0 {
		t.Fatalf("expected no sessions removed, got %d", removed)
	}
}

func TestStoreRunJanitorStopsOnCancel(t *testing.T) {
	s := NewStore(StoreConfig{TTL: time.Nanosecond})
	s.Create()

	ctx, cancel := context.WithCancel(context.Background())
	swept := make(chan int, 1)
	done := make(chan struct{})

	go func() {
		defer close(done)
		s.RunJanitor(ctx, time.Millisecond, func(removed int) {
			if removed > 0 {
				select {
				case swept <- removed:
				default:
				}
			}
		})
	}()

	select {
	case n := <-swept:
		if n != 1 {
			t.Fatalf("expected 1 session removed, got %d", n)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("janitor did not sweep")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("janitor did not stop after cancel")
	}
}

func TestStoreSerialisesKeystrokesPerSession(t *testing.T) {
	s := NewStore(StoreConfig{})
	snap, _ := s.Create()

	keys := mustKeys(t, "1+")

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Apply(snap.ID, keys)
		}()
	}
	wg.Wait()

	got, err := s.Apply(snap.ID, mustKeys(t, "0="))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Display != "50" {
		t.Fatalf("expected %q, got %q", "50", got.Display)
	}
}
