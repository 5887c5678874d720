package heliland

import (
	"fmt"

	kitlog "github.com/go-kit/kit/log"

	"github.com/n-hartley/heliland/internal/geo"
)

// LPManagerState enumerates LP_Manager's finite states (§4.1).
type LPManagerState int

const (
	LPMIdle LPManagerState = iota
	LPMWaitLpPlp
	LPMRequestStatePlp
	LPMGetStatePlp
	LPMStartLzeScan
	LPMLzeScan
	LPMHandoverControl
	LPMPilotControl
	LPMRequestStateLp
	LPMGetStateLp
	LPMNotifyLp
	LPMLpApproach
	LPMLpAcceptExp
)

func (s LPManagerState) String() string {
	switch s {
	case LPMIdle:
		return "IDLE"
	case LPMWaitLpPlp:
		return "WAIT_LP_PLP"
	case LPMRequestStatePlp:
		return "REQUEST_STATE_PLP"
	case LPMGetStatePlp:
		return "GET_STATE_PLP"
	case LPMStartLzeScan:
		return "START_LZE_SCAN"
	case LPMLzeScan:
		return "LZE_SCAN"
	case LPMHandoverControl:
		return "HANDOVER_CONTROL"
	case LPMPilotControl:
		return "PILOT_CONTROL"
	case LPMRequestStateLp:
		return "REQUEST_STATE_LP"
	case LPMGetStateLp:
		return "GET_STATE_LP"
	case LPMNotifyLp:
		return "NOTIFY_LP"
	case LPMLpApproach:
		return "LP_APPROACH"
	case LPMLpAcceptExp:
		return "LP_ACCEPT_EXP"
	default:
		panic(fmt.Sprintf("unreachable LP_Manager state: %d", s))
	}
}

// LPManager selects landing points and runs the orbit/accept timers
// (§4.1). Between "planned landing point achieved" and "first valid LP to
// reposition to" it commands an orbit, accepts candidate LPs, enforces the
// inter-LP separation invariant, and bounds the total accept window.
type LPManager struct {
	cfg    Config
	logger kitlog.Logger

	state LPManagerState

	orbitRemaining  SimTime
	acceptRemaining SimTime

	plannedLP LandingPoint
	currentLP *LandingPoint // previously accepted valid LP, nil before the first

	lpCount       int
	missionNumber int

	firstLPSeen         bool
	firstWaypointNumber int

	latestAircraftState AircraftState
	pendingOutput       Outbox
}

// NewLPManager constructs an LP_Manager with the given configuration.
func NewLPManager(cfg Config) *LPManager {
	return &LPManager{
		cfg:    cfg,
		logger: NewComponentLogger("LP_Manager"),
		state:  LPMIdle,
	}
}

func (m *LPManager) Name() string { return "LP_Manager" }

// TimeAdvance implements Atomic (§4.1 τ table).
func (m *LPManager) TimeAdvance() SimTime {
	switch m.state {
	case LPMStartLzeScan, LPMNotifyLp, LPMRequestStatePlp, LPMRequestStateLp:
		return Zero
	case LPMLzeScan:
		return m.orbitRemaining
	case LPMLpApproach:
		return m.acceptRemaining
	default:
		return Infinity
	}
}

// Output implements Atomic (§4.1 Outputs).
func (m *LPManager) Output() Outbox {
	switch m.state {
	case LPMStartLzeScan:
		var short [10]byte
		copy(short[:], "LZ SCAN")
		return Outbox{
			FCCCommand: &FCCCommand{
				Command:      DoOrbit,
				LatE7:        int32(m.plannedLP.Lat * 1e7),
				LonE7:        int32(m.plannedLP.Lon * 1e7),
				AltMSLMeters: m.plannedLP.AltMSL * float32(FtToMeters),
				Param1:       float32(m.cfg.OrbitRadiusM),
				Param2:       float32(m.cfg.OrbitVelocityKts),
				Param3:       float32(m.cfg.OrbitYawBehaviour),
			},
			BossDisplay: &BossDisplay{
				LPID:          m.plannedLP.ID,
				MissionItemNo: m.plannedLP.MissionItemNo,
				ShortDesc:     short,
			},
			GCSMessage:         &GCSMessage{Text: "Scanning landing zone", Severity: MAVSeverityInfo},
			MissionMonitorStop: true,
		}
	case LPMLzeScan:
		return Outbox{
			PilotHandover: &m.plannedLP,
			GCSMessage:    &GCSMessage{Text: "LZ scan failed, handing over to pilot", Severity: MAVSeverityAlert},
		}
	case LPMNotifyLp:
		out := Outbox{LpNew: m.currentLP}
		if !m.firstLPSeen {
			out.GCSMessage = &GCSMessage{Text: "LP timer started", Severity: MAVSeverityInfo}
		}
		return out
	case LPMLpApproach:
		return Outbox{LpExpired: m.currentLP}
	case LPMRequestStatePlp, LPMRequestStateLp:
		return Outbox{RequestAircraftState: true}
	default:
		return Outbox{}
	}
}

// Internal implements Atomic: fires the spontaneous transition scheduled by
// TimeAdvance.
func (m *LPManager) Internal() {
	switch m.state {
	case LPMStartLzeScan:
		m.state = LPMLzeScan
	case LPMLzeScan:
		m.state = LPMHandoverControl
	case LPMNotifyLp:
		m.firstLPSeen = true
		m.state = LPMLpApproach
	case LPMLpApproach:
		m.state = LPMLpAcceptExp
	case LPMRequestStatePlp:
		m.state = LPMGetStatePlp
	case LPMRequestStateLp:
		m.state = LPMGetStateLp
	default:
		panic(fmt.Sprintf("LP_Manager: internal transition fired in state %s with no scheduled work", m.state))
	}
}

// External implements Atomic (§4.1 external-transition semantics).
func (m *LPManager) External(e SimTime, in Inbox) {
	if in.PilotTakeover && m.state != LPMHandoverControl {
		m.state = LPMPilotControl
		return
	}
	if in.StartMission != nil {
		m.resetForMission(*in.StartMission)
		return
	}

	m.decrementAcceptTimerIfActive(e)
	if m.state == LPMLzeScan {
		m.orbitRemaining = m.orbitRemaining.Sub(e)
	}

	switch m.state {
	case LPMWaitLpPlp:
		// received_lp takes priority over received_plp_ach when both
		// arrive in the same bag: accept the LP and go straight to
		// REQUEST_STATE_LP, only falling back to REQUEST_STATE_PLP when
		// no LP was received this delivery.
		if len(in.LpRecv) > 0 {
			m.tryAcceptLP(in.LpRecv)
			return
		}
		if in.PlpAchieved {
			m.state = LPMRequestStatePlp
		}
	case LPMLzeScan, LPMLpApproach:
		m.tryAcceptLP(in.LpRecv)
		if m.state == LPMLpApproach && in.FccCommandLand {
			m.state = LPMLpAcceptExp
		}
	case LPMGetStatePlp:
		if len(in.AircraftState) > 0 {
			as := in.AircraftState[len(in.AircraftState)-1]
			m.latestAircraftState = as
			m.plannedLP.AltMSL = snappedHoverAltitude(as, m.cfg)
			m.state = LPMStartLzeScan
		}
	case LPMGetStateLp:
		if len(in.AircraftState) > 0 {
			as := in.AircraftState[len(in.AircraftState)-1]
			m.latestAircraftState = as
			if m.currentLP != nil {
				m.currentLP.AltMSL = snappedHoverAltitude(as, m.cfg)
			}
			m.state = LPMNotifyLp
		}
	case LPMHandoverControl:
		if in.ControlYielded {
			m.state = LPMPilotControl
		}
	}
}

// Confluent implements Atomic (§4.1 confluence): runs against the
// pre-internal state, so a pilot_takeover racing the scheduled internal
// transition wins outright and that transition never fires; absent a
// takeover, the internal transition runs first and External then handles
// the inputs with zero elapsed time. The engine does not call Internal
// again for a component it resolved through Confluent.
func (m *LPManager) Confluent(e SimTime, in Inbox) {
	if in.PilotTakeover && m.state != LPMHandoverControl {
		m.state = LPMPilotControl
		return
	}
	m.Internal()
	m.External(0, in)
}

func (m *LPManager) resetForMission(start StartSupervisor) {
	m.missionNumber = start.MissionNumber
	m.orbitRemaining = m.cfg.OrbitTimer
	m.acceptRemaining = m.cfg.LPAcceptTimer
	m.lpCount = 0
	m.currentLP = nil
	m.firstLPSeen = false
	m.state = LPMWaitLpPlp
}

func (m *LPManager) decrementAcceptTimerIfActive(e SimTime) {
	switch m.state {
	case LPMRequestStateLp, LPMGetStateLp, LPMNotifyLp, LPMLpApproach:
		m.acceptRemaining = m.acceptRemaining.Sub(e)
	}
}

// tryAcceptLP implements the LP validation rule from §4.1/§5: if there is
// no prior accepted LP, take the latest point in the batch; otherwise take
// the first point in the batch (insertion order) whose horizontal distance
// to the previous LP is >= LPSeparationM. If nothing qualifies, the batch
// is silently ignored (§3 invariant 2, §8 scenario S4).
func (m *LPManager) tryAcceptLP(batch Bag[LandingPoint]) {
	if len(batch) == 0 {
		return
	}
	var accepted *LandingPoint
	if m.currentLP == nil {
		last := batch[len(batch)-1]
		accepted = &last
	} else {
		for i := range batch {
			horizontal, _ := geo.DistanceWGS84(m.currentLP.Lat, m.currentLP.Lon, batch[i].Lat, batch[i].Lon)
			if horizontal >= LPSeparationM {
				cand := batch[i]
				accepted = &cand
				break
			}
		}
	}
	if accepted == nil {
		return
	}
	m.lpCount++
	accepted.ID = m.lpCount
	// First-waypoint display tag stays pinned to whichever LP first
	// notified Reposition_Timer (§9 bug-compat): once pinned, every
	// later accepted LP has its own mission_item_no overwritten with the
	// pinned value, so downstream displays always show the original
	// waypoint number.
	if !m.firstLPSeen {
		m.firstWaypointNumber = accepted.MissionItemNo
	}
	accepted.MissionItemNo = m.firstWaypointNumber
	m.currentLP = accepted
	m.state = LPMRequestStateLp
}

// snappedHoverAltitude enforces a hover-safe altitude floor (§4.1):
// max(aircraft.alt_MSL, alt_MSL - alt_AGL + DEFAULT_HOVER_ALTITUDE_AGL).
func snappedHoverAltitude(as AircraftState, cfg Config) float32 {
	floor := as.AltMSL - as.AltAGL + float32(cfg.HoverAltitudeAGLFt)
	if as.AltMSL > floor {
		return as.AltMSL
	}
	return floor
}

// SetPlannedLandingPoint records the pre-mission nominal touchdown point
// that the supervisor will orbit around while scanning (§4.1). The
// original protocol carries this as part of the mission plan, outside the
// real-time core's event stream; spec.md's StartSupervisor is a bare
// mission identifier (§3), so this is supplied separately by the
// composition wiring a mission together (see DESIGN.md).
func (m *LPManager) SetPlannedLandingPoint(lp LandingPoint) {
	m.plannedLP = lp
}

// LPCount returns the monotone landing-point counter (§3 invariant 1, §8
// invariant 1).
func (m *LPManager) LPCount() int { return m.lpCount }

// State exposes the current state for tests and composition wiring.
func (m *LPManager) State() LPManagerState { return m.state }
