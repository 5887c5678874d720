package heliland

import "testing"

func TestCommandRepositionComputesVelocityFromAircraftState(t *testing.T) {
	cfg := DefaultConfig()
	c := NewCommandReposition(cfg)
	c.state = CRGetState
	c.targetLP = LandingPoint{Lat: 45.01, Lon: -75.0, AltMSL: 400}

	as := AircraftState{Lat: 45.0, Lon: -75.0, AltMSL: 400}
	c.External(0, Inbox{AircraftState: Bag[AircraftState]{as}})

	if c.State() != CRCommandVel {
		t.Fatalf("expected COMMAND_VEL, got %s", c.State())
	}
	if c.computedVelKts < cfg.MinRepoVelKts || c.computedVelKts > cfg.MaxRepoVelKts {
		t.Fatalf("expected computed velocity clamped to [%v,%v], got %v", cfg.MinRepoVelKts, cfg.MaxRepoVelKts, c.computedVelKts)
	}

	out := c.Output()
	if out.FCCCommand == nil || out.FCCCommand.Command != DoChangeSpeed {
		t.Fatalf("expected a DO_CHANGE_SPEED command in COMMAND_VEL")
	}
}

func TestCommandRepositionRearmsOnNewRequestMidStabilize(t *testing.T) {
	cfg := DefaultConfig()
	c := NewCommandReposition(cfg)
	c.state = CRStabilizing
	c.targetLP = LandingPoint{ID: 1}

	newer := LandingPoint{ID: 2, Lat: 45, Lon: -75}
	c.External(0, Inbox{RequestReposition: &newer})

	if c.State() != CRCancelHover {
		t.Fatalf("expected CANCEL_HOVER, got %s", c.State())
	}
	if !c.rearmAfterCancel {
		t.Fatalf("expected rearmAfterCancel set")
	}

	c.Internal()
	if c.State() != CRRequestState {
		t.Fatalf("expected re-entry into REQUEST_STATE after the cancel completes, got %s", c.State())
	}
	if c.targetLP.ID != 2 {
		t.Fatalf("expected targetLP updated to the newer request")
	}
}

func TestCommandRepositionHoverCriteriaMetReachesLanding(t *testing.T) {
	cfg := DefaultConfig()
	c := NewCommandReposition(cfg)
	c.state = CRStabilizing
	c.targetLP = LandingPoint{ID: 5}

	c.External(0, Inbox{HoverCriteriaMet: true})
	if c.State() != CRLpCriteriaMet {
		t.Fatalf("expected LP_CRITERIA_MET, got %s", c.State())
	}

	out := c.Output()
	if out.LpCritMet == nil || out.LpCritMet.ID != 5 {
		t.Fatalf("expected an lp_crit_met output for LP 5, got %+v", out.LpCritMet)
	}

	c.Internal()
	if c.State() != CRLanding {
		t.Fatalf("expected LANDING, got %s", c.State())
	}
}

func TestCommandRepositionPilotTakeoverAlwaysWins(t *testing.T) {
	cfg := DefaultConfig()
	c := NewCommandReposition(cfg)
	c.state = CRCommandHover

	c.External(0, Inbox{PilotTakeover: true})
	if c.State() != CRPilotControl {
		t.Fatalf("expected PILOT_CONTROL, got %s", c.State())
	}
}
