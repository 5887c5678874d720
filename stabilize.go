package heliland

import (
	"fmt"
	"math"

	kitlog "github.com/go-kit/kit/log"

	"github.com/n-hartley/heliland/internal/geo"
)

// StabilizeState enumerates Stabilize's finite states (§4.4).
type StabilizeState int

const (
	StabIdle StabilizeState = iota
	StabWaitStabilize
	StabRequestAircraftState
	StabGetAircraftState
	StabInitHover
	StabStabilizing
	StabCheckState
	StabHover
)

func (s StabilizeState) String() string {
	switch s {
	case StabIdle:
		return "IDLE"
	case StabWaitStabilize:
		return "WAIT_STABILIZE"
	case StabRequestAircraftState:
		return "REQUEST_AIRCRAFT_STATE"
	case StabGetAircraftState:
		return "GET_AIRCRAFT_STATE"
	case StabInitHover:
		return "INIT_HOVER"
	case StabStabilizing:
		return "STABILIZING"
	case StabCheckState:
		return "CHECK_STATE"
	case StabHover:
		return "HOVER"
	default:
		panic(fmt.Sprintf("unreachable Stabilize state: %d", s))
	}
}

// Stabilize verifies that the aircraft holds target hover criteria for the
// required dwell duration (§4.4).
type Stabilize struct {
	cfg    Config
	logger kitlog.Logger

	state StabilizeState

	criteria      HoverCriteria
	latest        AircraftState
	remainingDwell SimTime
	pollingRate    SimTime
}

// NewStabilize constructs a Stabilize with the given configuration.
func NewStabilize(cfg Config) *Stabilize {
	return &Stabilize{
		cfg:         cfg,
		logger:      NewComponentLogger("Stabilize"),
		state:       StabIdle,
		pollingRate: cfg.PollingRate,
	}
}

func (s *Stabilize) Name() string { return "Stabilize" }

// TimeAdvance implements Atomic (§4.4 τ table).
func (s *Stabilize) TimeAdvance() SimTime {
	switch s.state {
	case StabRequestAircraftState, StabInitHover, StabHover:
		return Zero
	case StabStabilizing:
		return s.pollingRate
	default:
		return Infinity
	}
}

// Output implements Atomic (§4.4 Outputs).
func (s *Stabilize) Output() Outbox {
	switch s.state {
	case StabRequestAircraftState, StabStabilizing:
		return Outbox{RequestAircraftState: true}
	case StabInitHover:
		return Outbox{FCCCommand: &FCCCommand{
			SupervisorGPSTime: s.latest.GPSTime,
			SupervisorStatus:  StatusReady | StatusMavCommand,
			Command:           DoReposition,
			LatE7:             int32(s.criteria.TargetLat * 1e7),
			LonE7:             int32(s.criteria.TargetLon * 1e7),
			AltMSLMeters:      s.criteria.TargetAltMSL * float32(FtToMeters),
		}}
	case StabHover:
		return Outbox{
			HoverCriteriaMet: true,
			GCSMessage:       &GCSMessage{Text: "Came to hover!", Severity: MAVSeverityInfo},
		}
	default:
		return Outbox{}
	}
}

// Internal implements Atomic.
func (s *Stabilize) Internal() {
	switch s.state {
	case StabRequestAircraftState:
		s.state = StabGetAircraftState
	case StabInitHover:
		s.state = StabStabilizing
	case StabStabilizing:
		s.state = StabCheckState
	case StabHover:
		s.state = StabWaitStabilize
	default:
		panic(fmt.Sprintf("Stabilize: internal transition fired in state %s with no scheduled work", s.state))
	}
}

// External implements Atomic (§4.4 semantics).
func (s *Stabilize) External(e SimTime, in Inbox) {
	if in.CancelHover || in.StartMission != nil {
		s.remainingDwell = s.criteria.TimeTol
		s.state = StabWaitStabilize
		return
	}

	switch s.state {
	case StabWaitStabilize:
		if in.CommandHover != nil {
			s.criteria = *in.CommandHover
			s.remainingDwell = s.criteria.TimeTol
			s.state = StabRequestAircraftState
		}
	case StabGetAircraftState:
		if len(in.AircraftState) > 0 {
			s.latest = in.AircraftState[len(in.AircraftState)-1]
			s.state = StabInitHover
		}
	case StabCheckState:
		if len(in.AircraftState) > 0 {
			s.latest = in.AircraftState[len(in.AircraftState)-1]
			if withinTolerance(s.latest, s.criteria) {
				s.remainingDwell = s.remainingDwell.Sub(s.pollingRate + e)
				if s.remainingDwell == 0 {
					s.state = StabHover
					return
				}
			} else {
				s.remainingDwell = s.criteria.TimeTol
			}
			s.state = StabStabilizing
		}
	}
}

// Confluent implements Atomic. Stabilize has no explicit confluence rule
// in §4.4 beyond the shared "cancel wins" semantics External already
// applies, so Confluent simply re-uses External.
func (s *Stabilize) Confluent(e SimTime, in Inbox) {
	s.External(e, in)
}

// withinTolerance implements the tolerance predicate from §4.4. Checks run
// in the order the spec lists them; any failure short-circuits to false.
// Distance uses strict "<" per the §9 ambiguity note (preserved, not
// relaxed to "<=").
func withinTolerance(as AircraftState, hc HoverCriteria) bool {
	if math.Abs(float64(as.AltMSL-hc.TargetAltMSL)) >= hc.VertDistTolFt {
		return false
	}
	if !hc.HeadingIsFree() {
		hdg := normalizeHeading(as.HdgDeg)
		target := normalizeHeading(hc.TargetHdgDeg)
		diff := math.Abs(float64(hdg - target))
		if diff > 180 {
			diff = 360 - diff
		}
		if diff >= hc.HdgToleranceDeg {
			return false
		}
	}
	if math.Abs(float64(as.VelKts)) >= hc.VelTolKts {
		return false
	}
	horizontalM, _ := geo.DistanceWGS84(as.Lat, as.Lon, hc.TargetLat, hc.TargetLon)
	if horizontalM*MetersToFt >= hc.HorDistTolFt {
		return false
	}
	return true
}

// normalizeHeading folds a heading into [0, 360).
func normalizeHeading(hdg float32) float32 {
	h := math.Mod(float64(hdg), 360)
	if h < 0 {
		h += 360
	}
	return float32(h)
}

// State exposes the current state for tests and composition wiring.
func (s *Stabilize) State() StabilizeState { return s.state }
