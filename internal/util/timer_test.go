package util

import (
	"testing"
	"time"
)

func TestTimerZeroValue(t *testing.T) {
	var timer Timer
	if timer.Elapsed() != 0 || timer.ElapsedMs() != 0 {
		t.Fatalf("expected zero timer to report 0 got %v", timer.Elapsed())
	}
}

func TestTimerElapsed(t *testing.T) {
	timer := StartTimer()
	time.Sleep(2 * time.Millisecond)
	if got := timer.Elapsed(); got < 2*time.Millisecond {
		t.Fatalf("expected at least 2ms got %v", got)
	}
	if got := timer.ElapsedMs(); got < 2 {
		t.Fatalf("expected at least 2ms got %d", got)
	}
}
