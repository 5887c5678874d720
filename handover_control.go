package heliland

import (
	"fmt"

	kitlog "github.com/go-kit/kit/log"
)

// HandoverControlState enumerates Handover_Control's finite states (§4.5).
type HandoverControlState int

const (
	HCIdle HandoverControlState = iota
	HCWaitPilotHandover
	HCHover
	HCStabilizing
	HCNotifyPilot
	HCWaitForPilot
	HCYieldControl
	HCPilotControl
)

func (s HandoverControlState) String() string {
	switch s {
	case HCIdle:
		return "IDLE"
	case HCWaitPilotHandover:
		return "WAIT_PILOT_HANDOVER"
	case HCHover:
		return "HOVER"
	case HCStabilizing:
		return "STABILIZING"
	case HCNotifyPilot:
		return "NOTIFY_PILOT"
	case HCWaitForPilot:
		return "WAIT_FOR_PILOT"
	case HCYieldControl:
		return "YIELD_CONTROL"
	case HCPilotControl:
		return "PILOT_CONTROL"
	default:
		panic(fmt.Sprintf("unreachable Handover_Control state: %d", s))
	}
}

// HandoverControl runs the pilot-handover protocol (§4.5): latch a hover
// target carried by a pilot_handover input, command and wait for hover,
// notify the pilot, wait for pilot_takeover, and acknowledge yielding
// control.
type HandoverControl struct {
	cfg    Config
	logger kitlog.Logger

	state  HandoverControlState
	target LandingPoint
}

// NewHandoverControl constructs a Handover_Control with the given
// configuration.
func NewHandoverControl(cfg Config) *HandoverControl {
	return &HandoverControl{cfg: cfg, logger: NewComponentLogger("Handover_Control"), state: HCIdle}
}

func (h *HandoverControl) Name() string { return "Handover_Control" }

// TimeAdvance implements Atomic (§4.5).
func (h *HandoverControl) TimeAdvance() SimTime {
	switch h.state {
	case HCHover, HCNotifyPilot, HCYieldControl:
		return Zero
	default:
		return Infinity
	}
}

// Output implements Atomic (§4.5 Outputs).
func (h *HandoverControl) Output() Outbox {
	switch h.state {
	case HCHover:
		hc := h.cfg.LandCriteria(h.target)
		hc.TargetHdgDeg = AnyHeading
		return Outbox{HoverCriteria: &hc}
	case HCNotifyPilot:
		return Outbox{NotifyPilot: true}
	case HCYieldControl:
		return Outbox{ControlYielded: true}
	default:
		return Outbox{}
	}
}

// Internal implements Atomic.
func (h *HandoverControl) Internal() {
	switch h.state {
	case HCHover:
		h.state = HCStabilizing
	case HCNotifyPilot:
		h.state = HCWaitForPilot
	case HCYieldControl:
		h.state = HCPilotControl
	default:
		panic(fmt.Sprintf("Handover_Control: internal transition fired in state %s with no scheduled work", h.state))
	}
}

// External implements Atomic (§4.5 semantics).
func (h *HandoverControl) External(e SimTime, in Inbox) {
	if in.StartMission != nil {
		h.state = HCWaitPilotHandover
		return
	}
	if in.PilotTakeover && h.state != HCWaitForPilot {
		h.state = HCPilotControl
		return
	}

	switch h.state {
	case HCWaitPilotHandover:
		if in.PilotHandover != nil {
			h.target = *in.PilotHandover
			h.state = HCHover
		}
	case HCStabilizing:
		if in.HoverCriteriaMet {
			h.state = HCNotifyPilot
		}
	case HCWaitForPilot:
		if in.PilotTakeover {
			h.state = HCYieldControl
		}
	}
}

// Confluent implements Atomic: runs against the pre-internal state, so a
// pilot_takeover simultaneous with a scheduled internal transition wins
// outright and that transition never fires (§4.5 confluence rule).
func (h *HandoverControl) Confluent(e SimTime, in Inbox) {
	if in.PilotTakeover && h.state == HCWaitForPilot {
		h.state = HCYieldControl
		return
	}
	h.External(e, in)
}

// State exposes the current state for tests and composition wiring.
func (h *HandoverControl) State() HandoverControlState { return h.state }
