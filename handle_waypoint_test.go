package heliland

import "testing"

func TestHandleWaypointForwardsToFCC(t *testing.T) {
	cfg := DefaultConfig()
	h := NewHandleWaypoint(cfg)
	h.state = HWWaitForWaypoint

	wp := Waypoint{MissionItemNo: 4, Lat: 45, Lon: -75, AltMSL: 200}
	h.External(0, Inbox{Waypoint: &wp})
	if h.State() != HWUpdateFCC {
		t.Fatalf("expected UPDATE_FCC, got %s", h.State())
	}

	out := h.Output()
	if out.FCCCommand == nil {
		t.Fatalf("expected an FCC command in UPDATE_FCC")
	}
	if out.FCCCommand.SupervisorStatus&StatusMavCommand == 0 {
		t.Fatalf("expected mav-command status bit set")
	}

	h.Internal()
	if h.State() != HWWaitForWaypoint {
		t.Fatalf("expected return to WAIT_FOR_WAYPOINT, got %s", h.State())
	}
}

func TestHandleWaypointPilotTakeoverIsTerminal(t *testing.T) {
	cfg := DefaultConfig()
	h := NewHandleWaypoint(cfg)
	h.state = HWWaitForWaypoint

	h.External(0, Inbox{PilotTakeover: true})
	if h.State() != HWPilotTakeover {
		t.Fatalf("expected PILOT_TAKEOVER, got %s", h.State())
	}
}
