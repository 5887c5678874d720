package heliland

import "testing"

// outputEvent records one producer's output as routed by a Supervisor's
// sink, for scenario tests that need to assert on something that happened
// mid-run rather than just on final component state.
type outputEvent struct {
	component string
	out       Outbox
}

// driveSupervisor builds a Supervisor wired with an auto-responding
// aircraft-state sink: any request_aircraft_state is answered at the
// engine's current time, so a scenario test can observe the full
// request-state/stabilize/land chain converge without hand-driving every
// poll. Stabilize's request is answered with a state that exactly matches
// its just-latched hover criteria (so its dwell timer actually completes);
// every other component gets a generic state near the planned LP.
func driveSupervisor(cfg Config, planned LandingPoint) (*Supervisor, *[]outputEvent) {
	events := &[]outputEvent{}
	var sup *Supervisor
	sink := func(component string, out Outbox) {
		*events = append(*events, outputEvent{component, out})
		if !out.RequestAircraftState {
			return
		}
		var as AircraftState
		if component == "Stabilize" {
			c := sup.Stabilize.criteria
			as = AircraftState{Lat: c.TargetLat, Lon: c.TargetLon, AltMSL: c.TargetAltMSL, AltAGL: c.TargetAltMSL}
		} else {
			as = AircraftState{Lat: planned.Lat, Lon: planned.Lon, AltMSL: planned.AltMSL, AltAGL: 100}
		}
		sup.Engine.InjectExternal(component, Inbox{AircraftState: Bag[AircraftState]{as}})
	}
	sup = NewSupervisor(cfg, sink)
	sup.LPManager.SetPlannedLandingPoint(planned)
	return sup, events
}

// pump steps the supervisor up to n times, stopping early on passivation. A
// generous n is a budget for a scenario to reach its next milestone, not an
// expected exact step count.
func pump(sup *Supervisor, n int) {
	for i := 0; i < n; i++ {
		if _, more := sup.Step(); !more {
			return
		}
	}
}

// settle steps the supervisor through the transitions and injected events
// due at the current instant, up to n steps, and stops before the clock
// would advance. It keeps LP_Manager inside LZE_SCAN after plp_achieved,
// whose orbit timer would otherwise expire within a pump budget.
func settle(sup *Supervisor, n int) {
	for i := 0; i < n; i++ {
		next, _ := sup.Engine.PeekNext()
		if len(sup.Engine.pending) == 0 && next > sup.Now() {
			return
		}
		sup.Step()
	}
}

// TestSupervisorNominalLandingFlow walks scenario S1 (§8): start a mission,
// reach the planned LP, accept the first candidate LP, reposition to it,
// stabilize, land, and confirm mission_complete.
func TestSupervisorNominalLandingFlow(t *testing.T) {
	cfg := DefaultConfig()
	planned := LandingPoint{Lat: 45.0, Lon: -75.0, AltMSL: 500, MissionItemNo: 1}
	sup, events := driveSupervisor(cfg, planned)

	sup.InjectStartMission(StartSupervisor{MissionNumber: 7})
	pump(sup, 10)
	sup.InjectPlpAchieved()
	settle(sup, 10)

	if sup.LPManager.State() != LPMLzeScan {
		t.Fatalf("expected LZE_SCAN after plp_achieved, got %s", sup.LPManager.State())
	}

	lp := LandingPoint{Lat: 45.001, Lon: -75.001, AltMSL: 500, MissionItemNo: 2}
	sup.InjectLpRecv(lp)
	pump(sup, 20)

	if sup.LPManager.LPCount() != 1 {
		t.Fatalf("expected one accepted LP, got %d", sup.LPManager.LPCount())
	}

	pump(sup, 50)
	if sup.CommandReposition.State() != CRStabilizing {
		t.Fatalf("expected Command_Reposition STABILIZING, got %s", sup.CommandReposition.State())
	}

	pump(sup, 300)
	if sup.CommandReposition.State() != CRLanding {
		t.Fatalf("expected Command_Reposition LANDING after hover criteria met, got %s", sup.CommandReposition.State())
	}

	pump(sup, 10)
	if sup.LandingRoutine.State() != LRLanding {
		t.Fatalf("expected Landing_Routine LANDING, got %s", sup.LandingRoutine.State())
	}

	sup.InjectLandingAchieved()
	pump(sup, 5)

	if sup.LandingRoutine.State() != LRLanded {
		t.Fatalf("expected Landing_Routine LANDED, got %s", sup.LandingRoutine.State())
	}

	var sawMissionComplete bool
	for _, e := range *events {
		if e.out.MissionComplete {
			sawMissionComplete = true
		}
	}
	if !sawMissionComplete {
		t.Fatalf("expected a mission_complete output somewhere in the run")
	}
}

// TestSupervisorRejectsLPWithinSeparation walks scenario S4 (§8): a second
// candidate LP that is too close to the already-accepted one must be
// silently ignored, leaving the LP count at one and LP_Manager still
// waiting for a qualifying candidate.
func TestSupervisorRejectsLPWithinSeparation(t *testing.T) {
	cfg := DefaultConfig()
	planned := LandingPoint{Lat: 45.0, Lon: -75.0, AltMSL: 500, MissionItemNo: 1}
	sup, _ := driveSupervisor(cfg, planned)

	sup.InjectStartMission(StartSupervisor{MissionNumber: 1})
	pump(sup, 10)
	sup.InjectPlpAchieved()
	settle(sup, 10)

	first := LandingPoint{Lat: 45.001, Lon: -75.001, AltMSL: 500, MissionItemNo: 2}
	sup.InjectLpRecv(first)
	pump(sup, 20)

	if sup.LPManager.LPCount() != 1 {
		t.Fatalf("expected the first LP to be accepted, got count %d", sup.LPManager.LPCount())
	}

	// A few meters away: within LPSeparationM, must be rejected.
	tooClose := LandingPoint{Lat: first.Lat + 0.00001, Lon: first.Lon, AltMSL: 500, MissionItemNo: 3}
	sup.InjectLpRecv(tooClose)
	pump(sup, 20)

	if sup.LPManager.LPCount() != 1 {
		t.Fatalf("expected the too-close LP to be rejected, got count %d", sup.LPManager.LPCount())
	}
}

// TestSupervisorPilotTakeoverDuringStabilize walks scenario S5 (§8): a pilot
// takeover arriving while the aircraft is stabilizing over a reposition
// target must hand control to the pilot across Command_Reposition,
// Reposition_Timer and LP_Manager alike.
func TestSupervisorPilotTakeoverDuringStabilize(t *testing.T) {
	cfg := DefaultConfig()
	planned := LandingPoint{Lat: 45.0, Lon: -75.0, AltMSL: 500, MissionItemNo: 1}
	sup, _ := driveSupervisor(cfg, planned)

	sup.InjectStartMission(StartSupervisor{MissionNumber: 2})
	pump(sup, 10)
	sup.InjectPlpAchieved()
	settle(sup, 10)

	lp := LandingPoint{Lat: 45.001, Lon: -75.001, AltMSL: 500, MissionItemNo: 2}
	sup.InjectLpRecv(lp)
	pump(sup, 20)
	pump(sup, 50)

	if sup.CommandReposition.State() != CRStabilizing {
		t.Fatalf("expected Command_Reposition STABILIZING before takeover, got %s", sup.CommandReposition.State())
	}

	sup.InjectPilotTakeover()
	pump(sup, 5)

	if sup.CommandReposition.State() != CRPilotControl {
		t.Fatalf("expected Command_Reposition PILOT_CONTROL, got %s", sup.CommandReposition.State())
	}
	if sup.LPManager.State() != LPMPilotControl {
		t.Fatalf("expected LP_Manager PILOT_CONTROL, got %s", sup.LPManager.State())
	}
	if sup.RepositionTimer.State() != RTPilotControl {
		t.Fatalf("expected Reposition_Timer PILOT_CONTROL, got %s", sup.RepositionTimer.State())
	}
}
