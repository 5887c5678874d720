package heliland

import "testing"

func TestRepositionTimerNotifiesOnFirstLP(t *testing.T) {
	cfg := DefaultConfig()
	r := NewRepositionTimer(cfg)
	r.resetForMission(StartSupervisor{MissionNumber: 1})

	lp := LandingPoint{ID: 1, Lat: 45, Lon: -75, AltMSL: 400}
	r.External(0, Inbox{LpNew: Bag[LandingPoint]{lp}})
	if r.State() != RTNotifyUpdate {
		t.Fatalf("expected NOTIFY_UPDATE, got %s", r.State())
	}

	out := r.Output()
	if out.BossDisplay == nil {
		t.Fatalf("expected a BOSS display update for a new LP ID")
	}
	if out.GCSMessage == nil {
		t.Fatalf("expected the first-LP GCS message")
	}

	r.Internal()
	if r.State() != RTUpdateLp {
		t.Fatalf("expected UPDATE_LP, got %s", r.State())
	}
}

func TestRepositionTimerExpiryHandsOverToPilot(t *testing.T) {
	cfg := DefaultConfig()
	r := NewRepositionTimer(cfg)
	r.state = RTLpRepo
	r.currentLP = LandingPoint{ID: 2}

	out := r.Output()
	if !out.CancelHover || out.PilotHandover == nil {
		t.Fatalf("expected LP_REPO's output to cancel the hover and hand over to the pilot")
	}

	r.Internal()
	if r.State() != RTHandoverCtrl {
		t.Fatalf("expected HANDOVER_CTRL after LP_REPO's timer expires, got %s", r.State())
	}
}

func TestRepositionTimerLpCritMetRequestsLand(t *testing.T) {
	cfg := DefaultConfig()
	r := NewRepositionTimer(cfg)
	r.state = RTLpRepo
	r.currentLP = LandingPoint{ID: 3, Lat: 45, Lon: -75, AltMSL: 400}

	lp := r.currentLP
	r.External(0, Inbox{LpCritMet: &lp})
	if r.State() != RTRequestLand {
		t.Fatalf("expected REQUEST_LAND, got %s", r.State())
	}

	out := r.Output()
	if out.Land == nil || out.Land.ID != 3 {
		t.Fatalf("expected a land request for LP 3, got %+v", out.Land)
	}
}

func TestRepositionTimerPilotTakeoverAlwaysWins(t *testing.T) {
	cfg := DefaultConfig()
	r := NewRepositionTimer(cfg)
	r.state = RTLpRepo

	r.External(0, Inbox{PilotTakeover: true})
	if r.State() != RTPilotControl {
		t.Fatalf("expected PILOT_CONTROL, got %s", r.State())
	}
}

func TestRepositionTimerNewLpDuringLpRepoRestartsRepoTimer(t *testing.T) {
	cfg := DefaultConfig()
	r := NewRepositionTimer(cfg)
	r.state = RTLpRepo
	r.currentLP = LandingPoint{ID: 4}

	newer := LandingPoint{ID: 5, Lat: 45, Lon: -75}
	r.External(0, Inbox{LpNew: Bag[LandingPoint]{newer}})
	if r.State() != RTNewLpRepo {
		t.Fatalf("expected NEW_LP_REPO on a newer LP during LP_REPO, got %s", r.State())
	}
	if r.currentLP.ID != 5 {
		t.Fatalf("expected currentLP updated to the newer LP")
	}
	if r.repoRemaining != cfg.RepoTimer {
		t.Fatalf("expected the repo timer restarted to %s, got %s", cfg.RepoTimer, r.repoRemaining)
	}
}
