package heliland

import (
	"fmt"
	"math"
)

// SimTime is a count of milliseconds since mission start. The engine never
// advances time on its own; it only ever jumps to the minimum scheduled
// SimTime across all components (§5).
type SimTime int64

// Infinity means "passivated": only an external event can cause a transition.
const Infinity SimTime = math.MaxInt64

// Zero is the immediate (τ=0) time advance used by every "do this right now"
// state.
const Zero SimTime = 0

// Millis builds a SimTime from a millisecond count.
func Millis(ms int64) SimTime { return SimTime(ms) }

// Seconds builds a SimTime from a (possibly fractional) second count.
func Seconds(s float64) SimTime {
	if math.IsInf(s, 1) {
		return Infinity
	}
	return SimTime(math.Round(s * 1000))
}

// Seconds returns the time as a floating point second count.
func (t SimTime) Seconds() float64 {
	if t == Infinity {
		return math.Inf(1)
	}
	return float64(t) / 1000
}

// ClampNonNegative clamps a decrementing timer at zero, per the "all
// decrementing timers are clamped at 0" invariant (§3).
func (t SimTime) ClampNonNegative() SimTime {
	if t < 0 {
		return 0
	}
	return t
}

// Sub subtracts elapsed time e from t, clamping at zero. Infinity minus
// anything stays Infinity.
func (t SimTime) Sub(e SimTime) SimTime {
	if t == Infinity {
		return Infinity
	}
	return (t - e).ClampNonNegative()
}

// IsInfinite reports whether t is the passivation sentinel.
func (t SimTime) IsInfinite() bool { return t == Infinity }

// String formats t as HH:MM:SS:mmm, the lattice used throughout the original
// system's logs. The conversion is the corrected one from §9: the older
// source's calculate_time_from_double_seconds mis-split minutes and
// seconds; this implementation does not repeat that bug.
func (t SimTime) String() string {
	if t == Infinity {
		return "INF"
	}
	totalSeconds := float64(t) / 1000
	h := math.Floor(totalSeconds / 3600)
	m := math.Floor((totalSeconds - 3600*h) / 60)
	sec := totalSeconds - 3600*h - 60*m
	ms := (sec - math.Floor(sec)) * 1000
	return fmt.Sprintf("%02d:%02d:%02d:%03d", int64(h), int64(m), int64(sec), int64(math.Round(ms)))
}
