package heliland

import "math"

// LandingPoint is a candidate touchdown coordinate, as produced by the
// perception system (§3).
type LandingPoint struct {
	ID            int
	Lat, Lon      float64
	AltMSL        float32 // feet MSL
	HdgDeg        float32
	MissionItemNo int
}

// AircraftState is a snapshot of the vehicle as polled from shared memory
// (§3, ~10 Hz per §6).
type AircraftState struct {
	GPSTime float64
	Lat, Lon float64
	AltAGL  float32 // feet
	AltMSL  float32 // feet
	HdgDeg  float32
	VelKts  float32
}

// HoverCriteria is the tolerance box Stabilize verifies against (§3). A NaN
// HdgDeg means "any heading is acceptable".
type HoverCriteria struct {
	TargetLat, TargetLon float64
	TargetAltMSL         float32
	TargetHdgDeg         float32 // NaN => any heading

	HorDistTolFt   float64
	VertDistTolFt  float64
	VelTolKts      float64
	HdgToleranceDeg float64

	TimeTol SimTime // dwell duration required inside the box
}

// AnyHeading is the sentinel stored in HoverCriteria.TargetHdgDeg meaning
// heading is not checked.
var AnyHeading = float32(math.NaN())

// HeadingIsFree reports whether the criteria's target heading is the
// "any heading acceptable" sentinel.
func (h HoverCriteria) HeadingIsFree() bool {
	return math.IsNaN(float64(h.TargetHdgDeg))
}

// MavCommand enumerates the FCC command codes the supervisor may issue.
// Values match the original protocol's Mav_Command_E (§4, §6).
type MavCommand uint16

const (
	DoChangeSpeed MavCommand = 178
	DoReposition  MavCommand = 192
	DoOrbit       MavCommand = 34
)

// OrbitYawBehaviour mirrors Mav_Command_Orbit_Yaw_Behaviour_E.
type OrbitYawBehaviour uint8

const (
	OrbitYawHoldFrontToCircleCenter OrbitYawBehaviour = 0
	OrbitYawHoldInitialHeading      OrbitYawBehaviour = 1
	OrbitYawUncontrolled            OrbitYawBehaviour = 2
	OrbitYawHoldFrontTangent        OrbitYawBehaviour = 3
	OrbitYawRCControlled            OrbitYawBehaviour = 4
)

// ControlMode is the supervisor-status bitfield meaning (§3).
type ControlMode uint32

const (
	StatusReady            ControlMode = 1 << 0
	StatusLandingRequested ControlMode = 1 << 1
	StatusTakeoffRequested ControlMode = 1 << 2
	StatusTrajectory       ControlMode = 1 << 3
	StatusDAA              ControlMode = 1 << 4
	StatusMavCommand       ControlMode = 1 << 5
)

// FCCCommand is the message sent to the flight-control computer (§3, §6).
type FCCCommand struct {
	SupervisorGPSTime float64
	SupervisorStatus  ControlMode
	Command           MavCommand
	Param1, Param2, Param3, Param4 float32
	LatE7, LonE7      int32
	AltMSLMeters      float32
}

// BossDisplay is the fixed-layout record consumed by the pilot display (§6).
type BossDisplay struct {
	LPID              int
	MissionItemNo     int
	AcceptanceRadiusM float64
	ShortDesc         [10]byte
	SunElevationDeg   float64 // daylight advisory, see io.DaylightAdvisory
}

// MAVSeverity is the MAVLink STATUSTEXT severity level (§6).
type MAVSeverity uint8

const (
	MAVSeverityInfo  MAVSeverity = 6
	MAVSeverityAlert MAVSeverity = 1
)

// GCSMessage is a short status-text message destined for the ground control
// station (§6).
type GCSMessage struct {
	Text     string
	Severity MAVSeverity
}

// StartSupervisor is the mission-kickoff record (§3).
type StartSupervisor struct {
	MissionNumber int
}

// Waypoint is an on-route waypoint forwarded verbatim to the FCC (§4.7).
type Waypoint struct {
	MissionItemNo int
	Lat, Lon      float64
	AltMSL        float32
}
