package feed

import (
	"testing"
	"time"
)

func TestAdaptiveInterval_S4Scenario(t *testing.T) {
	a := NewAdaptiveInterval(500*time.Millisecond, 5*time.Second)

	want := []time.Duration{
		500 * time.Millisecond,
		time.Second,
		2 * time.Second,
		4 * time.Second,
	}
	// Three 429s in a row: the fourth interval is the one used after the
	// third rate limit, and the next response is the success.
	for i, w := range want {
		if got := a.Current(); got != w {
			t.Errorf("cycle %d: Current() = %v, want %v", i, got, w)
		}
		if i < len(want)-1 {
			a.OnRateLimited()
		}
	}

	a.OnSuccess()
	if got, want := a.Current(), 2*time.Second; got != want {
		t.Errorf("after success: Current() = %v, want %v", got, want)
	}
}

func TestAdaptiveInterval_SaturatesAtFour(t *testing.T) {
	a := NewAdaptiveInterval(500*time.Millisecond, 5*time.Second)
	for i := 0; i < 10; i++ {
		a.OnRateLimited()
	}
	if got, want := a.Current(), 5*time.Second; got != want {
		t.Errorf("Current() after saturation = %v, want max %v", got, want)
	}
}

func TestAdaptiveInterval_OnSuccessNeverGoesNegative(t *testing.T) {
	a := NewAdaptiveInterval(500*time.Millisecond, 5*time.Second)
	a.OnSuccess()
	a.OnSuccess()
	if got, want := a.Current(), 500*time.Millisecond; got != want {
		t.Errorf("Current() = %v, want %v", got, want)
	}
}
