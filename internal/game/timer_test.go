package game

import (
	"testing"
	"time"
)

func TestRoundTimerFiresOnce(t *testing.T) {
	timer := NewRoundTimer(2 * time.Millisecond)
	defer timer.Stop()

	fired := make(chan uint64, 5)
	timer.Start(3, 7, func(epoch uint64) {
		fired <- epoch
	})

	select {
	case epoch := <-fired:
		if epoch != 7 {
			t.Errorf("timeout epoch = %d, want 7", epoch)
		}
	case <-time.After(time.Second):
		t.Fatal("timer never fired")
	}

	select {
	case <-fired:
		t.Fatal("timer fired more than once")
	case <-time.After(20 * time.Millisecond):
	}
}

func TestRoundTimerStopPreventsFiring(t *testing.T) {
	timer := NewRoundTimer(5 * time.Millisecond)
	fired := make(chan uint64, 1)
	timer.Start(2, 1, func(epoch uint64) {
		fired <- epoch
	})
	timer.Stop()

	select {
	case <-fired:
		t.Fatal("stopped timer fired")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestRoundTimerRestartCancelsPrevious(t *testing.T) {
	timer := NewRoundTimer(2 * time.Millisecond)
	defer timer.Stop()

	fired := make(chan uint64, 5)
	callback := func(epoch uint64) {
		fired <- epoch
	}
	timer.Start(1000, 1, callback)
	timer.Start(2, 2, callback)

	select {
	case epoch := <-fired:
		if epoch != 2 {
			t.Errorf("timeout epoch = %d, want 2", epoch)
		}
	case <-time.After(time.Second):
		t.Fatal("re-armed timer never fired")
	}
}

func TestRoundTimerStopIsIdempotent(t *testing.T) {
	timer := NewRoundTimer(time.Millisecond)
	timer.Start(10, 1, func(uint64) {})
	timer.Stop()
	timer.Stop()
}

func TestNewRoundTimerDefaultsInterval(t *testing.T) {
	timer := NewRoundTimer(0)
	if timer.interval != time.Second {
		t.Errorf("interval = %v, want %v", timer.interval, time.Second)
	}
}
