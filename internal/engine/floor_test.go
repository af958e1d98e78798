package engine

import (
	"context"
	"testing"
	"time"
)

func TestFloor_HoldsCompletion(t *testing.T) {
	var got []Event
	h := Floor(0, 50*time.Millisecond, func(ev Event) { got = append(got, ev) })

	start := time.Now()
	h(StateChanged{From: Scanned, To: Cleaning})
	h(CleanProgress{Fraction: 1})
	h(StateChanged{From: Cleaning, To: Completed})
	h(CleanCompleted{BytesFreed: 42})
	elapsed := time.Since(start)

	if elapsed < 50*time.Millisecond {
		t.Errorf("completion delivered after %v, want >= 50ms", elapsed)
	}
	if len(got) != 4 {
		t.Fatalf("delivered %d events, want 4", len(got))
	}
	if c, ok := got[3].(CleanCompleted); !ok || c.BytesFreed != 42 {
		t.Errorf("last event = %#v, want CleanCompleted{42}", got[3])
	}
}

func TestFloor_NoDelayWhenPhaseWasSlow(t *testing.T) {
	h := Floor(10*time.Millisecond, 0, func(Event) {})

	h(StateChanged{From: Idle, To: Scanning})
	time.Sleep(20 * time.Millisecond)

	start := time.Now()
	h(StateChanged{From: Scanning, To: Scanned})
	if elapsed := time.Since(start); elapsed > 5*time.Millisecond {
		t.Errorf("scan end held for %v after the floor had passed", elapsed)
	}
}

func TestFloor_WithEngine(t *testing.T) {
	e, _, _, _ := newTestEngine(t, 10, 20)
	rec := &recorder{}
	e.Subscribe(Floor(30*time.Millisecond, 0, rec.record))

	start := time.Now()
	e.StartScan(context.Background())
	e.Wait()

	if elapsed := time.Since(start); elapsed < 30*time.Millisecond {
		t.Errorf("scan finished after %v, want >= 30ms", elapsed)
	}
	if len(rec.scanCompleted()) != 1 {
		t.Error("expected one ScanCompleted through the floor")
	}
}
