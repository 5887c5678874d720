package heliland

import "testing"

func TestStabilizeConvergesAfterDwellTime(t *testing.T) {
	cfg := DefaultConfig()
	s := NewStabilize(cfg)
	s.state = StabWaitStabilize

	hc := cfg.LandCriteria(LandingPoint{Lat: 45, Lon: -75, AltMSL: 400})
	s.External(0, Inbox{CommandHover: &hc})
	if s.State() != StabRequestAircraftState {
		t.Fatalf("expected REQUEST_AIRCRAFT_STATE, got %s", s.State())
	}

	s.Internal()
	if s.State() != StabGetAircraftState {
		t.Fatalf("expected GET_AIRCRAFT_STATE, got %s", s.State())
	}

	as := AircraftState{Lat: 45, Lon: -75, AltMSL: 400}
	s.External(0, Inbox{AircraftState: Bag[AircraftState]{as}})
	if s.State() != StabInitHover {
		t.Fatalf("expected INIT_HOVER, got %s", s.State())
	}

	s.Internal()
	if s.State() != StabStabilizing {
		t.Fatalf("expected STABILIZING, got %s", s.State())
	}

	// Drive the dwell-timer loop to completion: each cycle is a poll tick
	// (Internal to CHECK_STATE) followed by an in-tolerance aircraft_state
	// (External back to STABILIZING), decrementing remainingDwell by the
	// polling rate each time.
	ticks := int(cfg.LandCriteriaTime/cfg.PollingRate) + 1
	for i := 0; i < ticks; i++ {
		if s.State() == StabHover {
			break
		}
		s.Internal()
		if s.State() != StabCheckState {
			t.Fatalf("expected CHECK_STATE mid-loop, got %s", s.State())
		}
		s.External(0, Inbox{AircraftState: Bag[AircraftState]{as}})
	}

	if s.State() != StabHover {
		t.Fatalf("expected HOVER after the dwell time elapses, got %s", s.State())
	}

	out := s.Output()
	if !out.HoverCriteriaMet {
		t.Fatalf("expected hover_criteria_met output in HOVER")
	}
}

func TestStabilizeOutOfToleranceResetsDwellTimer(t *testing.T) {
	cfg := DefaultConfig()
	s := NewStabilize(cfg)
	s.state = StabCheckState
	s.criteria = cfg.LandCriteria(LandingPoint{Lat: 45, Lon: -75, AltMSL: 400})
	s.remainingDwell = Seconds(0.5)

	farAway := AircraftState{Lat: 46, Lon: -75, AltMSL: 400}
	s.External(0, Inbox{AircraftState: Bag[AircraftState]{farAway}})

	if s.remainingDwell != s.criteria.TimeTol {
		t.Fatalf("expected the dwell timer reset to the full tolerance on an out-of-tolerance sample, got %v", s.remainingDwell)
	}
	if s.State() != StabStabilizing {
		t.Fatalf("expected STABILIZING, got %s", s.State())
	}
}

func TestStabilizeCancelHoverReturnsToWait(t *testing.T) {
	cfg := DefaultConfig()
	s := NewStabilize(cfg)
	s.state = StabStabilizing

	s.External(0, Inbox{CancelHover: true})
	if s.State() != StabWaitStabilize {
		t.Fatalf("expected WAIT_STABILIZE after cancel_hover, got %s", s.State())
	}
}
