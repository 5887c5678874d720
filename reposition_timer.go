package heliland

import (
	"fmt"

	kitlog "github.com/go-kit/kit/log"
)

// RepositionTimerState enumerates Reposition_Timer's finite states (§4.2).
type RepositionTimerState int

const (
	RTIdle RepositionTimerState = iota
	RTWaitNewLp
	RTNotifyUpdate
	RTUpdateLp
	RTNewLpRepo
	RTLpRepo
	RTHandoverCtrl
	RTPilotControl
	RTRequestLand
	RTLandingRoutine
)

func (s RepositionTimerState) String() string {
	switch s {
	case RTIdle:
		return "IDLE"
	case RTWaitNewLp:
		return "WAIT_NEW_LP"
	case RTNotifyUpdate:
		return "NOTIFY_UPDATE"
	case RTUpdateLp:
		return "UPDATE_LP"
	case RTNewLpRepo:
		return "NEW_LP_REPO"
	case RTLpRepo:
		return "LP_REPO"
	case RTHandoverCtrl:
		return "HANDOVER_CTRL"
	case RTPilotControl:
		return "PILOT_CONTROL"
	case RTRequestLand:
		return "REQUEST_LAND"
	case RTLandingRoutine:
		return "LANDING_ROUTINE"
	default:
		panic(fmt.Sprintf("unreachable Reposition_Timer state: %d", s))
	}
}

// RepositionTimer wraps a repositioning attempt in a hard time budget and
// decides whether to land, update to a newer LP, or hand over to the pilot
// (§4.2).
type RepositionTimer struct {
	cfg    Config
	logger kitlog.Logger

	state RepositionTimerState

	currentLP      LandingPoint
	repoRemaining  SimTime
	updRemaining   SimTime
	lastEmittedID  int
	missionNumber  int
	notifiedFirstLP bool
}

// NewRepositionTimer constructs a Reposition_Timer with the given
// configuration.
func NewRepositionTimer(cfg Config) *RepositionTimer {
	return &RepositionTimer{cfg: cfg, logger: NewComponentLogger("Reposition_Timer"), state: RTIdle}
}

func (r *RepositionTimer) Name() string { return "Reposition_Timer" }

// TimeAdvance implements Atomic (§4.2 τ table).
func (r *RepositionTimer) TimeAdvance() SimTime {
	switch r.state {
	case RTNotifyUpdate, RTNewLpRepo, RTRequestLand:
		return Zero
	case RTUpdateLp:
		return r.updRemaining
	case RTLpRepo:
		return r.repoRemaining
	default:
		return Infinity
	}
}

// Output implements Atomic (§4.2 Outputs).
func (r *RepositionTimer) Output() Outbox {
	switch r.state {
	case RTNotifyUpdate:
		out := Outbox{}
		if r.currentLP.ID != r.lastEmittedID {
			var short [10]byte
			copy(short[:], "LP UPD")
			out.BossDisplay = &BossDisplay{LPID: r.currentLP.ID, MissionItemNo: r.currentLP.MissionItemNo, ShortDesc: short}
		}
		if !r.notifiedFirstLP {
			out.GCSMessage = &GCSMessage{Text: "LP found", Severity: MAVSeverityInfo}
		}
		return out
	case RTLpRepo:
		var short [10]byte
		copy(short[:], "LZ SCAN")
		return Outbox{
			CancelHover:   true,
			PilotHandover: &r.currentLP,
			BossDisplay:   &BossDisplay{LPID: r.currentLP.ID, MissionItemNo: r.currentLP.MissionItemNo, ShortDesc: short},
			GCSMessage:    &GCSMessage{Text: "Reposition timer expired, handing over to pilot", Severity: MAVSeverityAlert},
		}
	case RTNewLpRepo:
		return Outbox{RequestReposition: &r.currentLP}
	case RTRequestLand:
		return Outbox{Land: &r.currentLP}
	default:
		return Outbox{}
	}
}

// Internal implements Atomic.
func (r *RepositionTimer) Internal() {
	switch r.state {
	case RTNotifyUpdate:
		r.lastEmittedID = r.currentLP.ID
		r.notifiedFirstLP = true
		r.state = RTUpdateLp
	case RTUpdateLp:
		r.repoRemaining = r.cfg.RepoTimer
		r.state = RTNewLpRepo
	case RTNewLpRepo:
		r.state = RTLpRepo
	case RTLpRepo:
		r.state = RTHandoverCtrl
	case RTRequestLand:
		r.state = RTLandingRoutine
	default:
		panic(fmt.Sprintf("Reposition_Timer: internal transition fired in state %s with no scheduled work", r.state))
	}
}

// External implements Atomic (§4.2 semantics).
func (r *RepositionTimer) External(e SimTime, in Inbox) {
	if in.PilotTakeover {
		r.state = RTPilotControl
		return
	}
	if in.StartMission != nil {
		r.resetForMission(*in.StartMission)
		return
	}

	switch r.state {
	case RTWaitNewLp:
		if lp := latestOf(in.LpNew); lp != nil {
			r.currentLP = *lp
			r.updRemaining = r.cfg.UpdTimer
			r.state = RTNotifyUpdate
		}
	case RTUpdateLp:
		if lp := latestOf(in.LpNew); lp != nil {
			r.currentLP = *lp
			r.updRemaining = r.updRemaining.Sub(e)
			r.state = RTNotifyUpdate
		}
	case RTLpRepo:
		if lp := latestOf(in.LpNew); lp != nil {
			r.currentLP = *lp
			r.repoRemaining = r.cfg.RepoTimer
			r.state = RTNewLpRepo
			return
		}
		if in.LpCritMet != nil {
			r.state = RTRequestLand
		}
	case RTHandoverCtrl:
		if in.ControlYielded {
			r.state = RTPilotControl
		}
	}
}

// Confluent implements Atomic: pilot_takeover always wins.
func (r *RepositionTimer) Confluent(e SimTime, in Inbox) {
	if in.PilotTakeover {
		r.state = RTPilotControl
		return
	}
	r.External(e, in)
}

func (r *RepositionTimer) resetForMission(start StartSupervisor) {
	r.missionNumber = start.MissionNumber
	r.repoRemaining = r.cfg.RepoTimer
	r.updRemaining = r.cfg.UpdTimer
	r.lastEmittedID = 0
	r.notifiedFirstLP = false
	r.state = RTWaitNewLp
}

// latestOf returns the last element of a landing-point bag, or nil if
// empty; "latest" mirrors LP_Manager reading the back of a batch when no
// ordering disambiguation is otherwise specified.
func latestOf(batch Bag[LandingPoint]) *LandingPoint {
	if len(batch) == 0 {
		return nil
	}
	lp := batch[len(batch)-1]
	return &lp
}

// State exposes the current state for tests and composition wiring.
func (r *RepositionTimer) State() RepositionTimerState { return r.state }
