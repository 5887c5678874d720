package heliland

import (
	"fmt"

	kitlog "github.com/go-kit/kit/log"
)

// HandleWaypointState enumerates Handle_Waypoint's finite states (§4.7).
type HandleWaypointState int

const (
	HWIdle HandleWaypointState = iota
	HWWaitForWaypoint
	HWUpdateFCC
	HWPilotTakeover
)

func (s HandleWaypointState) String() string {
	switch s {
	case HWIdle:
		return "IDLE"
	case HWWaitForWaypoint:
		return "WAIT_FOR_WAYPOINT"
	case HWUpdateFCC:
		return "UPDATE_FCC"
	case HWPilotTakeover:
		return "PILOT_TAKEOVER"
	default:
		panic(fmt.Sprintf("unreachable Handle_Waypoint state: %d", s))
	}
}

// HandleWaypoint is a trivial forwarder: latch an on-route waypoint and emit
// it to the FCC (§4.7).
type HandleWaypoint struct {
	cfg    Config
	logger kitlog.Logger

	state   HandleWaypointState
	current Waypoint
}

// NewHandleWaypoint constructs a Handle_Waypoint with the given
// configuration.
func NewHandleWaypoint(cfg Config) *HandleWaypoint {
	return &HandleWaypoint{cfg: cfg, logger: NewComponentLogger("Handle_Waypoint"), state: HWIdle}
}

func (h *HandleWaypoint) Name() string { return "Handle_Waypoint" }

// TimeAdvance implements Atomic (§4.7).
func (h *HandleWaypoint) TimeAdvance() SimTime {
	if h.state == HWUpdateFCC {
		return Zero
	}
	return Infinity
}

// Output implements Atomic (§4.7 Outputs).
func (h *HandleWaypoint) Output() Outbox {
	if h.state != HWUpdateFCC {
		return Outbox{}
	}
	return Outbox{FCCCommand: &FCCCommand{
		SupervisorStatus: StatusReady | StatusMavCommand,
		Command:          DoReposition,
		LatE7:            int32(h.current.Lat * 1e7),
		LonE7:            int32(h.current.Lon * 1e7),
		AltMSLMeters:     h.current.AltMSL * float32(FtToMeters),
	}}
}

// Internal implements Atomic.
func (h *HandleWaypoint) Internal() {
	if h.state != HWUpdateFCC {
		panic(fmt.Sprintf("Handle_Waypoint: internal transition fired in state %s with no scheduled work", h.state))
	}
	h.state = HWWaitForWaypoint
}

// External implements Atomic (§4.7 semantics).
func (h *HandleWaypoint) External(e SimTime, in Inbox) {
	if in.StartMission != nil {
		h.state = HWWaitForWaypoint
		return
	}
	if in.PilotTakeover {
		h.state = HWPilotTakeover
		return
	}
	switch h.state {
	case HWIdle:
		h.state = HWWaitForWaypoint
	case HWWaitForWaypoint:
		if in.Waypoint != nil {
			h.current = *in.Waypoint
			h.state = HWUpdateFCC
		}
	}
}

// Confluent implements Atomic: pilot_takeover always wins.
func (h *HandleWaypoint) Confluent(e SimTime, in Inbox) {
	if in.PilotTakeover {
		h.state = HWPilotTakeover
		return
	}
	h.External(e, in)
}

// State exposes the current state for tests and composition wiring.
func (h *HandleWaypoint) State() HandleWaypointState { return h.state }
