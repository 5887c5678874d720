// Package simharness is a test-only collaborator (an "input-reader driver"
// in spec.md §6's sense, not part of the core): it gives scenario tests a
// synthetic aircraft that moves in response to the FCC commands the core
// issues, instead of requiring every test to hand-author every
// aircraft_state sample.
//
// Grounded on mission.go's Propagate/Func/GetState/SetState/Stop
// ode.Integrable wiring: AircraftDynamics plays the role Mission plays
// there, except its state is a simple kinematic position/heading/velocity
// tuple rather than an orbital element set, since the core only ever reads
// lat/lon/alt/hdg/vel back out.
package simharness

import (
	"math"
	"math/rand"

	"github.com/ChristopherRabotin/ode"
	"github.com/gonum/stat/distmv"
	"github.com/gonum/matrix/mat64"
)

const earthRadiusM = 6371000.0

// Command is the kinematic target the aircraft steers toward: a commanded
// ground speed and heading, as derived from the FCC commands the core
// issues (DO_CHANGE_SPEED, DO_REPOSITION, DO_ORBIT all reduce to "go this
// way at this speed" for the purposes of a synthetic test aircraft).
type Command struct {
	TargetLat, TargetLon float64
	TargetAltMSL         float64
	SpeedMps             float64
}

// AircraftDynamics is an ode.Integrable modeling a synthetic aircraft that
// flies directly toward Command.Target at Command.SpeedMps, climbing or
// descending linearly to TargetAltMSL over the same transit.
type AircraftDynamics struct {
	Lat, Lon float64 // degrees
	AltMSL   float64 // meters
	HdgDeg   float64

	Command Command
	stopAt  float64
}

// NewAircraftDynamics constructs a synthetic aircraft at the given initial
// position.
func NewAircraftDynamics(lat, lon, altMSL float64) *AircraftDynamics {
	return &AircraftDynamics{Lat: lat, Lon: lon, AltMSL: altMSL}
}

// Advance integrates the aircraft's state forward by durationS seconds
// under the given command, using a fixed-step RK4 solve (mission.go's
// Propagate pattern).
func (d *AircraftDynamics) Advance(cmd Command, durationS float64) {
	d.Command = cmd
	d.stopAt = durationS
	ode.NewRK4(0, 0.1, d).Solve()
}

// GetState implements ode.Integrable.
func (d *AircraftDynamics) GetState() []float64 {
	return []float64{d.Lat, d.Lon, d.AltMSL, d.HdgDeg}
}

// SetState implements ode.Integrable.
func (d *AircraftDynamics) SetState(t float64, s []float64) {
	d.Lat, d.Lon, d.AltMSL, d.HdgDeg = s[0], s[1], s[2], s[3]
}

// Stop implements ode.Integrable: stop once the commanded duration elapses.
func (d *AircraftDynamics) Stop(t float64) bool {
	return t >= d.stopAt
}

// Func implements ode.Integrable: straight-line kinematic rates toward the
// commanded target.
func (d *AircraftDynamics) Func(t float64, s []float64) []float64 {
	lat, lon, alt := s[0], s[1], s[2]
	dLat := d.Command.TargetLat - lat
	dLon := d.Command.TargetLon - lon
	latRad := lat * math.Pi / 180
	northM := dLat * math.Pi / 180 * earthRadiusM
	eastM := dLon * math.Pi / 180 * earthRadiusM * math.Cos(latRad)
	rangeM := math.Hypot(northM, eastM)

	fDot := make([]float64, 4)
	if rangeM < 1e-3 {
		return fDot
	}
	hdg := math.Atan2(eastM, northM)
	speed := d.Command.SpeedMps
	fDot[0] = (speed * math.Cos(hdg)) / earthRadiusM * 180 / math.Pi
	fDot[1] = (speed * math.Sin(hdg)) / (earthRadiusM * math.Cos(latRad)) * 180 / math.Pi
	altDelta := d.Command.TargetAltMSL - alt
	climbRate := altDelta / (rangeM / math.Max(speed, 0.01))
	fDot[2] = climbRate
	fDot[3] = normalizeHeadingDelta(hdg*180/math.Pi - d.HdgDeg)
	return fDot
}

func normalizeHeadingDelta(d float64) float64 {
	for d > 180 {
		d -= 360
	}
	for d < -180 {
		d += 360
	}
	return d
}

// NoiseInjector perturbs synthetic aircraft-state samples with Gaussian
// GPS/IMU jitter, grounded on station.go's distmv.Normal station-noise
// usage.
type NoiseInjector struct {
	lat, lon, alt *distmv.Normal
}

// NewNoiseInjector builds a NoiseInjector with the given per-axis standard
// deviations (degrees for lat/lon, meters for altitude).
func NewNoiseInjector(sigmaLatDeg, sigmaLonDeg, sigmaAltM float64, seed *rand.Rand) *NoiseInjector {
	mk := func(sigma float64) *distmv.Normal {
		n, ok := distmv.NewNormal([]float64{0}, mat64.NewSymDense(1, []float64{sigma * sigma}), seed)
		if !ok {
			panic("simharness: degenerate covariance constructing noise")
		}
		return n
	}
	return &NoiseInjector{lat: mk(sigmaLatDeg), lon: mk(sigmaLonDeg), alt: mk(sigmaAltM)}
}

// Perturb returns a jittered copy of (lat, lon, altMSL).
func (n *NoiseInjector) Perturb(lat, lon, altMSL float64) (float64, float64, float64) {
	return lat + n.lat.Rand(nil)[0], lon + n.lon.Rand(nil)[0], altMSL + n.alt.Rand(nil)[0]
}
