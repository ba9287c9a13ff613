package event

import (
	"context"
	"testing"
)

func TestNewErrorEvent_Defaults(t *testing.T) {
	evt := NewErrorEvent(WarningSeverity, CodeSensorFail, "sensor", "no fix")

	if evt.Severity != WarningSeverity {
		t.Fatalf("expected WarningSeverity, got %v", evt.Severity)
	}
	if evt.Signal != SignalNone {
		t.Fatalf("expected SignalNone by default, got %v", evt.Signal)
	}
	if !evt.Recoverable {
		t.Fatalf("expected Recoverable to default true")
	}
	if evt.Timestamp.IsZero() {
		t.Fatalf("expected Timestamp to be set")
	}
}

func TestErrorEvent_WithHelpers(t *testing.T) {
	evt := NewErrorEvent(CriticalSeverity, CodePersistenceFail, "persistence", "disk full").
		WithSignal(SignalDegraded).
		WithContext("bytes_written", 0).
		WithRecoverable(false)

	if evt.Signal != SignalDegraded {
		t.Fatalf("expected SignalDegraded, got %v", evt.Signal)
	}
	if evt.Context["bytes_written"] != 0 {
		t.Fatalf("expected context to carry bytes_written")
	}
	if evt.Recoverable {
		t.Fatalf("expected Recoverable false after WithRecoverable(false)")
	}
}

func TestErrorSeverity_String(t *testing.T) {
	cases := map[ErrorSeverity]string{
		DebugSeverity:    "DEBUG",
		InfoSeverity:     "INFO",
		WarningSeverity:  "WARNING",
		Error:            "ERROR",
		CriticalSeverity: "CRITICAL",
	}
	for sev, want := range cases {
		if got := sev.String(); got != want {
			t.Fatalf("severity %d: expected %q, got %q", sev, want, got)
		}
	}
	if got := ErrorSeverity(99).String(); got != "UNKNOWN(99)" {
		t.Fatalf("expected UNKNOWN(99), got %q", got)
	}
}

func TestControlSignal_String(t *testing.T) {
	cases := map[ControlSignal]string{
		SignalNone:       "NONE",
		SignalDegraded:   "DEGRADED",
		SignalRecovered:  "RECOVERED",
		SignalTerminated: "TERMINATED",
	}
	for sig, want := range cases {
		if got := sig.String(); got != want {
			t.Fatalf("signal %d: expected %q, got %q", sig, want, got)
		}
	}
}

func TestErrorBus_PublishDeliversToSubscribers(t *testing.T) {
	bus := NewErrorBus(4)
	sub, err := bus.Subscribe(context.Background())
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer sub.Close()

	delivered := bus.Publish(NewErrorEvent(InfoSeverity, CodeLaunchDetected, "core", "launch latch set"))
	if delivered != 1 {
		t.Fatalf("expected 1 delivery, got %d", delivered)
	}

	select {
	case evt := <-sub.Events():
		if evt.Code != CodeLaunchDetected {
			t.Fatalf("expected %s, got %s", CodeLaunchDetected, evt.Code)
		}
	default:
		t.Fatalf("expected an event to be waiting on the subscription channel")
	}
}

func TestErrorBus_PublishWithNoSubscribersIsNoOp(t *testing.T) {
	bus := NewErrorBus(4)
	if delivered := bus.Publish(NewErrorEvent(DebugSeverity, CodeUplinkFail, "uplink", "timeout")); delivered != 0 {
		t.Fatalf("expected 0 deliveries with no subscribers, got %d", delivered)
	}
}

func TestErrorBus_DropsOnFullBuffer(t *testing.T) {
	bus := NewErrorBus(1)
	sub, err := bus.Subscribe(context.Background())
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer sub.Close()

	bus.Publish(NewErrorEvent(WarningSeverity, CodeSensorFail, "sensor", "first"))
	bus.Publish(NewErrorEvent(WarningSeverity, CodeSensorFail, "sensor", "second, should drop"))

	if got := bus.DroppedCount(); got != 1 {
		t.Fatalf("expected 1 dropped event, got %d", got)
	}
}

func TestErrorBus_UnsubscribeStopsDelivery(t *testing.T) {
	bus := NewErrorBus(4)
	sub, err := bus.Subscribe(context.Background())
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	bus.Unsubscribe(sub)

	if got := bus.SubscriberCount(); got != 0 {
		t.Fatalf("expected 0 subscribers after unsubscribe, got %d", got)
	}
	if delivered := bus.Publish(NewErrorEvent(InfoSeverity, CodeFlightTerminated, "core", "done")); delivered != 0 {
		t.Fatalf("expected 0 deliveries after unsubscribe, got %d", delivered)
	}
}
