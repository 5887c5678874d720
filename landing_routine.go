package heliland

import (
	"fmt"

	kitlog "github.com/go-kit/kit/log"
)

// LandingRoutineState enumerates Landing_Routine's finite states (§4.6).
type LandingRoutineState int

const (
	LRIdle LandingRoutineState = iota
	LRWaitLandRequest
	LRRequestLand
	LRLanding
	LRNotifyLanded
	LRLanded
	LRPilotControl
)

func (s LandingRoutineState) String() string {
	switch s {
	case LRIdle:
		return "IDLE"
	case LRWaitLandRequest:
		return "WAIT_LAND_REQUEST"
	case LRRequestLand:
		return "REQUEST_LAND"
	case LRLanding:
		return "LANDING"
	case LRNotifyLanded:
		return "NOTIFY_LANDED"
	case LRLanded:
		return "LANDED"
	case LRPilotControl:
		return "PILOT_CONTROL"
	default:
		panic(fmt.Sprintf("unreachable Landing_Routine state: %d", s))
	}
}

// LandingRoutine commands the final landing and waits for confirmation that
// the aircraft is down (§4.6).
type LandingRoutine struct {
	cfg    Config
	logger kitlog.Logger

	state  LandingRoutineState
	target LandingPoint
}

// NewLandingRoutine constructs a Landing_Routine with the given
// configuration.
func NewLandingRoutine(cfg Config) *LandingRoutine {
	return &LandingRoutine{cfg: cfg, logger: NewComponentLogger("Landing_Routine"), state: LRIdle}
}

func (l *LandingRoutine) Name() string { return "Landing_Routine" }

// TimeAdvance implements Atomic (§4.6 τ table).
func (l *LandingRoutine) TimeAdvance() SimTime {
	switch l.state {
	case LRRequestLand, LRNotifyLanded:
		return Zero
	default:
		return Infinity
	}
}

// Output implements Atomic (§4.6 Outputs).
func (l *LandingRoutine) Output() Outbox {
	switch l.state {
	case LRRequestLand:
		return Outbox{
			FCCCommand: &FCCCommand{
				SupervisorGPSTime: 0,
				SupervisorStatus:  StatusReady | StatusLandingRequested,
				Command:           DoReposition,
				LatE7:             int32(l.target.Lat * 1e7),
				LonE7:             int32(l.target.Lon * 1e7),
				AltMSLMeters:      l.target.AltMSL * float32(FtToMeters),
			},
			BossDisplay: &BossDisplay{LPID: l.target.ID, MissionItemNo: l.target.MissionItemNo, ShortDesc: shortDesc("LAND")},
			GCSMessage:  &GCSMessage{Text: "Landing", Severity: MAVSeverityInfo},
		}
	case LRNotifyLanded:
		return Outbox{
			MissionComplete:   true,
			UpdateMissionItem: true,
			GCSMessage:        &GCSMessage{Text: "Just landed!", Severity: MAVSeverityInfo},
		}
	default:
		return Outbox{}
	}
}

// Internal implements Atomic.
func (l *LandingRoutine) Internal() {
	switch l.state {
	case LRRequestLand:
		l.state = LRLanding
	case LRNotifyLanded:
		l.state = LRLanded
	default:
		panic(fmt.Sprintf("Landing_Routine: internal transition fired in state %s with no scheduled work", l.state))
	}
}

// External implements Atomic (§4.6 semantics, including the pilot-completed
// landing escape from PILOT_CONTROL).
func (l *LandingRoutine) External(e SimTime, in Inbox) {
	if in.StartMission != nil {
		l.state = LRWaitLandRequest
		return
	}
	if in.PilotTakeover && l.state != LRPilotControl {
		l.state = LRPilotControl
		return
	}

	switch l.state {
	case LRWaitLandRequest:
		if in.LandRequest != nil {
			l.target = *in.LandRequest
			l.state = LRRequestLand
		}
	case LRLanding:
		if in.LandingAchieved {
			l.state = LRNotifyLanded
		}
	case LRPilotControl:
		if in.LandingAchieved {
			l.state = LRNotifyLanded
		}
	}
}

// Confluent implements Atomic: no special confluence rule beyond External's
// pilot-takeover precedence.
func (l *LandingRoutine) Confluent(e SimTime, in Inbox) {
	l.External(e, in)
}

// State exposes the current state for tests and composition wiring.
func (l *LandingRoutine) State() LandingRoutineState { return l.state }

// shortDesc pads a short textual label into the fixed-width BOSS display
// field (§6).
func shortDesc(s string) [10]byte {
	var out [10]byte
	copy(out[:], s)
	return out
}
