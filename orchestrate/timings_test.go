package orchestrate

import (
	"errors"
	"testing"
	"time"
)

func TestTimedRecordsDurationAndPropagatesError(t *testing.T) {
	var timings Timings
	tick := time.Unix(0, 0)
	now := func() time.Time {
		t := tick
		tick = tick.Add(10 * time.Millisecond)
		return t
	}

	err := timed(&timings, PhaseSimplify, now, func() error { return nil })
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(timings) != 1 || timings[0].Phase != PhaseSimplify {
		t.Fatalf("expected one simplify timing entry, got %+v", timings)
	}
	if timings[0].Duration != 10*time.Millisecond {
		t.Errorf("Duration = %v, want 10ms", timings[0].Duration)
	}

	wantErr := errors.New("boom")
	err = timed(&timings, PhaseVerify, now, func() error { return wantErr })
	if err != wantErr {
		t.Errorf("timed() did not propagate the inner error")
	}
	if len(timings) != 2 {
		t.Fatalf("expected a timing entry even when fn fails, got %d", len(timings))
	}
}
