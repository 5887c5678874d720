package heliland

import (
	"fmt"
	"math"

	kitlog "github.com/go-kit/kit/log"

	"github.com/n-hartley/heliland/internal/geo"
)

// CommandRepositionState enumerates Command_Reposition's finite states
// (§4.3).
type CommandRepositionState int

const (
	CRIdle CommandRepositionState = iota
	CRWaitRequestReposition
	CRRequestState
	CRGetState
	CRCommandVel
	CRCommandHover
	CRStabilizing
	CRLpCriteriaMet
	CRLanding
	CRCancelHover
	CRTimerExpired
	CRPilotControl
)

func (s CommandRepositionState) String() string {
	switch s {
	case CRIdle:
		return "IDLE"
	case CRWaitRequestReposition:
		return "WAIT_REQUEST_REPOSITION"
	case CRRequestState:
		return "REQUEST_STATE"
	case CRGetState:
		return "GET_STATE"
	case CRCommandVel:
		return "COMMAND_VEL"
	case CRCommandHover:
		return "COMMAND_HOVER"
	case CRStabilizing:
		return "STABILIZING"
	case CRLpCriteriaMet:
		return "LP_CRITERIA_MET"
	case CRLanding:
		return "LANDING"
	case CRCancelHover:
		return "CANCEL_HOVER"
	case CRTimerExpired:
		return "TIMER_EXPIRED"
	case CRPilotControl:
		return "PILOT_CONTROL"
	default:
		panic(fmt.Sprintf("unreachable Command_Reposition state: %d", s))
	}
}

// CommandReposition converts an "LP to reposition to" into a series of
// commands: request aircraft state, compute a repositioning velocity, then
// command a hover via Stabilize (§4.3).
type CommandReposition struct {
	cfg    Config
	logger kitlog.Logger

	state CommandRepositionState

	lastAircraftState AircraftState
	targetLP          LandingPoint
	computedVelKts    float64
	missionNumber     int

	rearmAfterCancel bool // a request_reposition arrived mid-hover; re-enter REQUEST_STATE after CANCEL_HOVER
}

// NewCommandReposition constructs a Command_Reposition with the given
// configuration.
func NewCommandReposition(cfg Config) *CommandReposition {
	return &CommandReposition{cfg: cfg, logger: NewComponentLogger("Command_Reposition"), state: CRIdle}
}

func (c *CommandReposition) Name() string { return "Command_Reposition" }

// TimeAdvance implements Atomic (§4.3 τ table).
func (c *CommandReposition) TimeAdvance() SimTime {
	switch c.state {
	case CRRequestState, CRCommandVel, CRCommandHover, CRLpCriteriaMet, CRCancelHover:
		return Zero
	default:
		return Infinity
	}
}

// Output implements Atomic (§4.3 Outputs).
func (c *CommandReposition) Output() Outbox {
	switch c.state {
	case CRRequestState:
		return Outbox{RequestAircraftState: true}
	case CRCommandVel:
		return Outbox{FCCCommand: &FCCCommand{
			SupervisorGPSTime: c.lastAircraftState.GPSTime,
			SupervisorStatus:  StatusReady | StatusMavCommand,
			Command:           DoChangeSpeed,
			Param2:            float32(c.computedVelKts),
			Param4:            float32(math.NaN()),
		}}
	case CRCommandHover:
		var short [10]byte
		copy(short[:], "LP REP")
		hc := c.cfg.LandCriteria(c.targetLP)
		return Outbox{
			HoverCriteria:      &hc,
			BossDisplay:        &BossDisplay{LPID: c.targetLP.ID, MissionItemNo: c.targetLP.MissionItemNo, ShortDesc: short},
			GCSMessage:         &GCSMessage{Text: "Repositioning to LP!", Severity: MAVSeverityInfo},
			MissionMonitorStop: true,
		}
	case CRCancelHover:
		return Outbox{CancelHover: true}
	case CRLpCriteriaMet:
		return Outbox{LpCritMet: &c.targetLP}
	default:
		return Outbox{}
	}
}

// Internal implements Atomic.
func (c *CommandReposition) Internal() {
	switch c.state {
	case CRRequestState:
		c.state = CRGetState
	case CRCommandVel:
		c.state = CRCommandHover
	case CRCommandHover:
		c.state = CRStabilizing
	case CRLpCriteriaMet:
		c.state = CRLanding
	case CRCancelHover:
		if c.rearmAfterCancel {
			c.rearmAfterCancel = false
			c.state = CRRequestState
		} else {
			c.state = CRTimerExpired
		}
	default:
		panic(fmt.Sprintf("Command_Reposition: internal transition fired in state %s with no scheduled work", c.state))
	}
}

// External implements Atomic (§4.3 semantics, including the re-arming
// behavior described for a new request_reposition arriving mid-flight).
func (c *CommandReposition) External(e SimTime, in Inbox) {
	if in.PilotTakeover {
		c.state = CRPilotControl
		return
	}
	if in.StartMission != nil {
		c.missionNumber = in.StartMission.MissionNumber
		c.state = CRWaitRequestReposition
		return
	}

	if in.RequestReposition != nil {
		switch c.state {
		case CRWaitRequestReposition, CRCommandVel, CRCommandHover:
			c.targetLP = *in.RequestReposition
			c.state = CRRequestState
			return
		case CRStabilizing, CRLpCriteriaMet:
			c.targetLP = *in.RequestReposition
			c.rearmAfterCancel = true
			c.state = CRCancelHover
			return
		}
	}

	switch c.state {
	case CRGetState:
		if len(in.AircraftState) > 0 {
			as := in.AircraftState[len(in.AircraftState)-1]
			c.lastAircraftState = as
			c.computedVelKts = repositionVelocityKts(as, c.targetLP, c.cfg)
			c.state = CRCommandVel
		}
	case CRStabilizing:
		if in.HoverCriteriaMet {
			c.state = CRLpCriteriaMet
		} else if in.CancelHover {
			c.state = CRTimerExpired
		}
	case CRCommandHover, CRCommandVel, CRGetState:
		if in.CancelHover {
			c.state = CRTimerExpired
		}
	}
}

// Confluent implements Atomic: pilot_takeover always wins.
func (c *CommandReposition) Confluent(e SimTime, in Inbox) {
	if in.PilotTakeover {
		c.state = CRPilotControl
		return
	}
	c.External(e, in)
}

// repositionVelocityKts implements §4.3's velocity calculation: target
// velocity is the horizontal distance divided by REPO_TRANSIT_TIME,
// clamped to [MIN_REPO_VEL, MAX_REPO_VEL] knots.
func repositionVelocityKts(as AircraftState, lp LandingPoint, cfg Config) float64 {
	horizontalM, _ := geo.DistanceWGS84(as.Lat, as.Lon, lp.Lat, lp.Lon)
	velMps := horizontalM / cfg.RepoTransitTime.Seconds()
	velKts := velMps * MpsToKts
	if velKts < cfg.MinRepoVelKts {
		return cfg.MinRepoVelKts
	}
	if velKts > cfg.MaxRepoVelKts {
		return cfg.MaxRepoVelKts
	}
	return velKts
}

// State exposes the current state for tests and composition wiring.
func (c *CommandReposition) State() CommandRepositionState { return c.state }
