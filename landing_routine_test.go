package heliland

import "testing"

func TestLandingRoutineRequestLandToMissionComplete(t *testing.T) {
	cfg := DefaultConfig()
	l := NewLandingRoutine(cfg)
	l.state = LRWaitLandRequest

	lp := LandingPoint{ID: 3, Lat: 45, Lon: -75, AltMSL: 50}
	l.External(0, Inbox{LandRequest: &lp})
	if l.State() != LRRequestLand {
		t.Fatalf("expected REQUEST_LAND, got %s", l.State())
	}

	out := l.Output()
	if out.FCCCommand == nil {
		t.Fatalf("expected FCC command in REQUEST_LAND")
	}
	if out.FCCCommand.SupervisorStatus&StatusLandingRequested == 0 {
		t.Fatalf("expected landing-requested bit set")
	}
	if out.BossDisplay == nil || out.GCSMessage == nil {
		t.Fatalf("expected BOSS + GCS outputs in REQUEST_LAND")
	}
	l.Internal()
	if l.State() != LRLanding {
		t.Fatalf("expected LANDING, got %s", l.State())
	}

	l.External(0, Inbox{LandingAchieved: true})
	if l.State() != LRNotifyLanded {
		t.Fatalf("expected NOTIFY_LANDED after landing_achieved, got %s", l.State())
	}
	notifyOut := l.Output()
	if !notifyOut.MissionComplete || !notifyOut.UpdateMissionItem {
		t.Fatalf("expected mission-complete and update-mission-item outputs")
	}
	l.Internal()
	if l.State() != LRLanded {
		t.Fatalf("expected LANDED, got %s", l.State())
	}
}

func TestLandingRoutinePilotCompletesLanding(t *testing.T) {
	cfg := DefaultConfig()
	l := NewLandingRoutine(cfg)
	l.state = LRPilotControl

	l.External(0, Inbox{LandingAchieved: true})
	if l.State() != LRNotifyLanded {
		t.Fatalf("expected NOTIFY_LANDED when pilot completes landing, got %s", l.State())
	}
}

func TestLandingRoutinePilotTakeoverPreemptsWaiting(t *testing.T) {
	cfg := DefaultConfig()
	l := NewLandingRoutine(cfg)
	l.state = LRLanding

	l.External(0, Inbox{PilotTakeover: true})
	if l.State() != LRPilotControl {
		t.Fatalf("expected PILOT_CONTROL, got %s", l.State())
	}
}
