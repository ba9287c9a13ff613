package core

import (
	"errors"
	"testing"
)

func TestReleaseLatch_InitialState(t *testing.T) {
	l := NewReleaseLatch()
	if l.State() != ReleaseUnknown {
		t.Fatalf("expected Unknown, got %v", l.State())
	}
	if l.Released() {
		t.Fatal("a fresh latch must not report released")
	}
}

func TestReleaseLatch_LockThenRelease(t *testing.T) {
	l := NewReleaseLatch()
	if err := l.Lock(); err != nil {
		t.Fatalf("Lock failed: %v", err)
	}
	if l.State() != ReleaseLocked {
		t.Fatalf("expected Locked, got %v", l.State())
	}

	if err := l.Release(); err != nil {
		t.Fatalf("Release failed: %v", err)
	}
	if !l.Released() {
		t.Fatal("expected Released after Release")
	}
}

func TestReleaseLatch_ReleaseIsIdempotent(t *testing.T) {
	l := NewReleaseLatch()
	l.Lock()

	for i := 0; i < 5; i++ {
		if err := l.Release(); err != nil {
			t.Fatalf("call %d: Release must be idempotent, got %v", i, err)
		}
	}
	if !l.Released() {
		t.Fatal("expected Released after repeated Release calls")
	}
}

func TestReleaseLatch_LockAfterReleaseRejected(t *testing.T) {
	l := NewReleaseLatch()
	l.Lock()
	l.Release()

	err := l.Lock()
	if !errors.Is(err, ErrAlreadyReleased) {
		t.Fatalf("expected ErrAlreadyReleased, got %v", err)
	}
	if l.State() != ReleaseReleased {
		t.Fatalf("state must remain Released after a rejected Lock, got %v", l.State())
	}
}

func TestReleaseLatch_WiggleNeverSetsReleased(t *testing.T) {
	l := NewReleaseLatch()
	l.Lock()

	if err := l.Wiggle(); err != nil {
		t.Fatalf("Wiggle failed: %v", err)
	}
	if l.Released() {
		t.Fatal("Wiggle must never set the released latch")
	}
	if l.State() != ReleaseLocked {
		t.Fatalf("Wiggle should leave the actuator Locked, got %v", l.State())
	}
}

func TestReleaseLatch_WiggleRejectedAfterRelease(t *testing.T) {
	l := NewReleaseLatch()
	l.Lock()
	l.Release()

	err := l.Wiggle()
	if !errors.Is(err, ErrAlreadyReleased) {
		t.Fatalf("expected ErrAlreadyReleased from Wiggle after release, got %v", err)
	}
}
