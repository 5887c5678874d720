// Package estimator smooths a ~10 Hz shared-memory aircraft-state poll. It
// is an I/O-boundary collaborator, not part of the core decision logic.
// Neither the core nor the CLI in this repository calls it: aircraft_state
// inputs reach the core unfiltered.
//
// Grounded on estimate.go's OrbitEstimate/gokalman wiring: where the
// teacher propagates an orbit's state transition matrix and feeds range
// measurements into a gokalman filter, AircraftStateFilter treats each
// raw poll as a direct (noisy) observation of a slowly-varying state with
// an identity transition, the same simplification the teacher's own
// Vanilla-KF examples use for a short inter-measurement interval.
package estimator

import (
	"fmt"

	"github.com/ChristopherRabotin/gokalman"
	"github.com/gonum/matrix/mat64"
)

// stateDims is the filtered state: lat, lon, altAGL, altMSL, hdgDeg, velKts.
const stateDims = 6

// AircraftStateFilter is a linear Kalman filter (gokalman.Vanilla) that
// smooths successive raw aircraft-state polls.
type AircraftStateFilter struct {
	kf          *gokalman.Vanilla
	initialized bool

	identity *mat64.Dense
	noCtrl   *mat64.Dense
	htilde   mat64.Matrix
	noise    gokalman.Noise
}

// Sample is the raw, six-component aircraft-state vector the filter
// consumes and produces: [lat, lon, altAGL, altMSL, hdgDeg, velKts].
type Sample [stateDims]float64

// NewAircraftStateFilter constructs a filter with the given measurement
// noise standard deviations (one per state component, same order as
// Sample). Process noise is treated as negligible (Noiseless Q), matching
// the teacher's noiseKF pattern for a well-characterized sensor.
func NewAircraftStateFilter(measurementSigma Sample) *AircraftStateFilter {
	q := mat64.NewSymDense(stateDims, nil)
	r := mat64.NewSymDense(stateDims, nil)
	for i := 0; i < stateDims; i++ {
		r.SetSym(i, i, measurementSigma[i]*measurementSigma[i])
	}
	identity := gokalman.DenseIdentity(stateDims)
	htilde := gokalman.DenseIdentity(stateDims)
	return &AircraftStateFilter{
		identity: identity,
		noCtrl:   mat64.NewDense(stateDims, 1, nil),
		htilde:   htilde,
		noise:    gokalman.NewNoiseless(q, r),
	}
}

// Update folds one raw sample into the filter and returns the smoothed
// estimate. The first call seeds the filter with the raw sample as the
// initial state and an identity covariance, matching how the teacher's
// OD tools bootstrap a KF from the first measurement.
func (f *AircraftStateFilter) Update(raw Sample) (Sample, error) {
	x := mat64.NewVector(stateDims, raw[:])

	if !f.initialized {
		kf, _, err := gokalman.NewVanilla(x, gokalman.Identity(stateDims), f.identity, f.noCtrl, f.htilde, f.noise)
		if err != nil {
			return Sample{}, fmt.Errorf("estimator: initializing filter: %w", err)
		}
		f.kf = kf
		f.initialized = true
		return raw, nil
	}

	f.kf.SetStateTransition(f.identity)
	est, err := f.kf.Update(x, mat64.NewVector(stateDims, nil))
	if err != nil {
		return Sample{}, fmt.Errorf("estimator: update: %w", err)
	}

	var out Sample
	state := est.State()
	for i := 0; i < stateDims; i++ {
		out[i] = state.At(i, 0)
	}
	return out, nil
}
