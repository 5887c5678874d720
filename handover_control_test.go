package heliland

import "testing"

func TestHandoverControlSequenceToPilotControl(t *testing.T) {
	cfg := DefaultConfig()
	h := NewHandoverControl(cfg)
	h.state = HCWaitPilotHandover

	lp := LandingPoint{ID: 1, Lat: 45, Lon: -75, AltMSL: 100}
	h.External(0, Inbox{PilotHandover: &lp})
	if h.State() != HCHover {
		t.Fatalf("expected HOVER after pilot_handover, got %s", h.State())
	}

	out := h.Output()
	if out.HoverCriteria == nil {
		t.Fatalf("expected a hover-criteria output in HOVER")
	}
	if !out.HoverCriteria.HeadingIsFree() {
		t.Fatalf("expected any-heading acceptable per §4.5")
	}
	h.Internal()
	if h.State() != HCStabilizing {
		t.Fatalf("expected STABILIZING after HOVER internal transition, got %s", h.State())
	}

	h.External(0, Inbox{HoverCriteriaMet: true})
	if h.State() != HCNotifyPilot {
		t.Fatalf("expected NOTIFY_PILOT after hover_criteria_met, got %s", h.State())
	}
	notifyOut := h.Output()
	if !notifyOut.NotifyPilot {
		t.Fatalf("expected o_notify_pilot=true in NOTIFY_PILOT")
	}
	h.Internal()
	if h.State() != HCWaitForPilot {
		t.Fatalf("expected WAIT_FOR_PILOT, got %s", h.State())
	}

	h.External(0, Inbox{PilotTakeover: true})
	if h.State() != HCYieldControl {
		t.Fatalf("expected YIELD_CONTROL after pilot_takeover, got %s", h.State())
	}
	yieldOut := h.Output()
	if !yieldOut.ControlYielded {
		t.Fatalf("expected o_control_yielded=true in YIELD_CONTROL")
	}
	h.Internal()
	if h.State() != HCPilotControl {
		t.Fatalf("expected PILOT_CONTROL, got %s", h.State())
	}
}

func TestHandoverControlPilotTakeoverAlwaysWinsExceptWaitForPilot(t *testing.T) {
	cfg := DefaultConfig()

	for _, st := range []HandoverControlState{HCIdle, HCWaitPilotHandover, HCHover, HCStabilizing, HCNotifyPilot} {
		h := NewHandoverControl(cfg)
		h.state = st

		h.External(0, Inbox{PilotTakeover: true})
		if h.State() != HCPilotControl {
			t.Fatalf("expected PILOT_CONTROL on pilot_takeover from %s, got %s", st, h.State())
		}
	}
}

func TestHandoverControlConfluenceRunsExternalFirst(t *testing.T) {
	cfg := DefaultConfig()
	h := NewHandoverControl(cfg)
	h.state = HCWaitForPilot

	h.Confluent(0, Inbox{PilotTakeover: true})
	if h.State() != HCYieldControl {
		t.Fatalf("expected YIELD_CONTROL from confluence, got %s", h.State())
	}
}
