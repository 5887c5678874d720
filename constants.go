package heliland

import "time"

// Default timer/tolerance values, taken verbatim from the original
// implementation's Constants.hpp (see SPEC_FULL.md §4). DefaultConfig loads
// these as defaults; LoadConfig (config.go) can override the timers, hover
// tolerances and reposition velocity limits from a TOML file. The orbit
// radius/velocity/yaw, hover altitude and LP separation are not overridable.
const (
	// LPSeparationM is the minimum horizontal separation (meters) a newly
	// accepted LP must have from the previously accepted one (§3 invariant).
	LPSeparationM = 10.0

	DefaultOrbitTimer   = 120 * time.Second
	DefaultLPAcceptTimer = 120 * time.Second
	DefaultRepoTimer    = 60 * time.Second
	DefaultUpdTimer     = 20 * time.Second

	DefaultOrbitRadiusM    = 30.0
	DefaultOrbitVelocityKt = 2.0
	DefaultOrbitYawBehaviour = OrbitYawHoldFrontTangent

	DefaultHoverAltitudeAGLFt = 15.0

	LPHorAcceptToleranceDistanceM = 5.0

	DefaultLandCriteriaTime    = 3 * time.Second
	DefaultLandCriteriaHorDistFt  = 16.40
	DefaultLandCriteriaVertDistFt = 5.0
	DefaultLandCriteriaVelKts     = 3.0
	DefaultLandCriteriaHdgDeg     = 15.0

	MinRepoVelKts = 1.0
	MaxRepoVelKts = 5.0
	RepoTransitTime = 10 * time.Second

	KtsToMps = 0.514444
	MpsToKts = 1 / KtsToMps
	MetersToFt = 3.281
	FtToMeters = 0.3048

	DefaultPollingRate = 100 * time.Millisecond

	// LandingAchievedThresholdFt is the altitude-AGL below which the
	// external condition poller emits landing_achieved (§6).
	LandingAchievedThresholdFt = DefaultLandCriteriaVertDistFt
)

// Config holds every tunable timer/tolerance the supervisor uses. It is
// constructed with defaults and then optionally overridden from a TOML
// file via LoadConfig (config.go), matching the teacher's _smdconfig
// pattern in config.go.
type Config struct {
	OrbitTimer    SimTime
	LPAcceptTimer SimTime
	RepoTimer     SimTime
	UpdTimer      SimTime
	PollingRate   SimTime

	OrbitRadiusM      float64
	OrbitVelocityKts  float64
	OrbitYawBehaviour OrbitYawBehaviour

	HoverAltitudeAGLFt float64

	LandCriteriaTime       SimTime
	LandCriteriaHorDistFt  float64
	LandCriteriaVertDistFt float64
	LandCriteriaVelKts     float64
	LandCriteriaHdgDeg     float64

	MinRepoVelKts, MaxRepoVelKts float64
	RepoTransitTime              SimTime
}

// DefaultConfig returns a Config populated with the original system's
// hard-coded constants.
func DefaultConfig() Config {
	return Config{
		OrbitTimer:    Seconds(DefaultOrbitTimer.Seconds()),
		LPAcceptTimer: Seconds(DefaultLPAcceptTimer.Seconds()),
		RepoTimer:     Seconds(DefaultRepoTimer.Seconds()),
		UpdTimer:      Seconds(DefaultUpdTimer.Seconds()),
		PollingRate:   Seconds(DefaultPollingRate.Seconds()),

		OrbitRadiusM:      DefaultOrbitRadiusM,
		OrbitVelocityKts:  DefaultOrbitVelocityKt,
		OrbitYawBehaviour: DefaultOrbitYawBehaviour,

		HoverAltitudeAGLFt: DefaultHoverAltitudeAGLFt,

		LandCriteriaTime:       Seconds(DefaultLandCriteriaTime.Seconds()),
		LandCriteriaHorDistFt:  DefaultLandCriteriaHorDistFt,
		LandCriteriaVertDistFt: DefaultLandCriteriaVertDistFt,
		LandCriteriaVelKts:     DefaultLandCriteriaVelKts,
		LandCriteriaHdgDeg:     DefaultLandCriteriaHdgDeg,

		MinRepoVelKts:   MinRepoVelKts,
		MaxRepoVelKts:   MaxRepoVelKts,
		RepoTransitTime: Seconds(RepoTransitTime.Seconds()),
	}
}

// LandCriteria builds the default hover criteria for a given LP, the way
// Command_Reposition's COMMAND_HOVER output does (§4.3).
func (c Config) LandCriteria(lp LandingPoint) HoverCriteria {
	return HoverCriteria{
		TargetLat:    lp.Lat,
		TargetLon:    lp.Lon,
		TargetAltMSL: lp.AltMSL,
		TargetHdgDeg: AnyHeading,

		HorDistTolFt:    c.LandCriteriaHorDistFt,
		VertDistTolFt:   c.LandCriteriaVertDistFt,
		VelTolKts:       c.LandCriteriaVelKts,
		HdgToleranceDeg: c.LandCriteriaHdgDeg,

		TimeTol: c.LandCriteriaTime,
	}
}
