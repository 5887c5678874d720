package geo

import (
	"math"
	"testing"

	"github.com/gonum/floats"
)

func TestDistanceWGS84ZeroForSamePoint(t *testing.T) {
	h, v := DistanceWGS84(45.0, -75.0, 45.0, -75.0)
	if !floats.EqualWithinAbs(h, 0, 1e-6) {
		t.Fatalf("expected zero horizontal distance, got %v", h)
	}
	if !floats.EqualWithinAbs(v, 0, 1e-6) {
		t.Fatalf("expected zero vertical distance, got %v", v)
	}
}

func TestDistanceWGS84OneDegreeLatitudeIsRoughly111Km(t *testing.T) {
	h, _ := DistanceWGS84(45.0, -75.0, 46.0, -75.0)
	if h < 110000 || h > 112000 {
		t.Fatalf("expected ~111km for one degree of latitude, got %v m", h)
	}
}

func TestDistanceWGS84SymmetricWithinTolerance(t *testing.T) {
	h1, _ := DistanceWGS84(45.0, -75.0, 45.001, -75.001)
	h2, _ := DistanceWGS84(45.001, -75.001, 45.0, -75.0)
	if !floats.EqualWithinAbs(h1, h2, 1.0) {
		t.Fatalf("expected symmetric distance, got %v vs %v", h1, h2)
	}
}

func TestDistanceWithAltitudeSplitsVertical(t *testing.T) {
	h, v := DistanceWithAltitude(45.0, -75.0, 100, 45.0, -75.0, 150)
	if !floats.EqualWithinAbs(h, 0, 1e-3) {
		t.Fatalf("expected zero horizontal distance for identical lat/lon, got %v", h)
	}
	if !floats.EqualWithinAbs(math.Abs(v), 50, 0.5) {
		t.Fatalf("expected ~50m vertical separation, got %v", v)
	}
}
