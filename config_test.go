package heliland

import "testing"

func TestLoadConfigDefaultsWithoutEnv(t *testing.T) {
	t.Setenv("HELILAND_CONFIG", "")
	cfg := LoadConfig()
	want := DefaultConfig()
	if cfg.OrbitTimer != want.OrbitTimer {
		t.Fatalf("expected default orbit timer %s, got %s", want.OrbitTimer, cfg.OrbitTimer)
	}
	if cfg.MaxRepoVelKts != want.MaxRepoVelKts {
		t.Fatalf("expected default max repo velocity %v, got %v", want.MaxRepoVelKts, cfg.MaxRepoVelKts)
	}
}

func TestLandCriteriaUsesAnyHeading(t *testing.T) {
	cfg := DefaultConfig()
	lp := LandingPoint{ID: 1, Lat: 45.0, Lon: -75.0, AltMSL: 120}
	hc := cfg.LandCriteria(lp)
	if !hc.HeadingIsFree() {
		t.Fatal("expected default land criteria to accept any heading")
	}
	if hc.TargetAltMSL != lp.AltMSL {
		t.Fatalf("expected target altitude %v, got %v", lp.AltMSL, hc.TargetAltMSL)
	}
}
