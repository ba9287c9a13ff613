package core

import "testing"

func TestErrorRegistry_SetAndClear(t *testing.T) {
	r := NewErrorRegistry()
	if r.Active(SourceGPSLink) {
		t.Fatal("a fresh registry must report no active sources")
	}

	r.Set(SourceGPSLink, true, 10)
	if !r.Active(SourceGPSLink) {
		t.Fatal("expected GPS link to be active after Set(true)")
	}
	if r.FirstSeenS(SourceGPSLink) != 10 {
		t.Fatalf("expected first_seen_s=10, got %d", r.FirstSeenS(SourceGPSLink))
	}

	r.Set(SourceGPSLink, false, 20)
	if r.Active(SourceGPSLink) {
		t.Fatal("expected GPS link to clear once resolved")
	}
}

func TestErrorRegistry_FirstSeenStickyAcrossRepeatedSets(t *testing.T) {
	r := NewErrorRegistry()
	r.Set(SourceStorageIO, true, 5)
	r.Set(SourceStorageIO, true, 50)

	if r.FirstSeenS(SourceStorageIO) != 5 {
		t.Fatalf("first_seen_s must record only the first latch, got %d", r.FirstSeenS(SourceStorageIO))
	}
}

func TestErrorRegistry_AnyActiveAnyCritical(t *testing.T) {
	r := NewErrorRegistry()
	r.Set(SourceStorageMissing, true, 0) // Warn only

	if !r.AnyActive() {
		t.Fatal("expected any_active once a Warn-severity source is latched")
	}
	if r.AnyCritical() {
		t.Fatal("a Warn-only source must not report any_critical")
	}

	r.Set(SourceGPSLink, true, 0) // Critical
	if !r.AnyCritical() {
		t.Fatal("expected any_critical once a Critical source latches")
	}
}

func TestErrorRegistry_OverallSeverityDominance(t *testing.T) {
	r := NewErrorRegistry()
	if r.OverallSeverity() != SeverityNone {
		t.Fatalf("expected None, got %v", r.OverallSeverity())
	}

	r.Set(SourceStorageMissing, true, 0)
	if r.OverallSeverity() != SeverityWarn {
		t.Fatalf("expected Warn, got %v", r.OverallSeverity())
	}

	r.Set(SourceUplinkModem, true, 0)
	if r.OverallSeverity() != SeverityCritical {
		t.Fatalf("Critical must dominate Warn, got %v", r.OverallSeverity())
	}

	r.Set(SourceUplinkModem, false, 0)
	if r.OverallSeverity() != SeverityWarn {
		t.Fatalf("expected severity to fall back to Warn once Critical clears, got %v", r.OverallSeverity())
	}
}
