// Package geo provides the geography primitive spec.md §3 asks for:
// distance_wgs84(a, b) -> (horizontal_m, vertical_m), "a pure library
// primitive using the WGS-84 ellipsoid". It is grounded on the teacher's
// rotation.go (R1/R2/R3/MxV33 rotation matrices) and station.go's
// RangeElAz, which project an ECEF line-of-sight vector into a local
// South-East-Zenith frame to split range into horizontal and vertical
// components for a ground station — the same decomposition a hovering
// aircraft's horizontal/vertical distance from a landing point needs.
package geo

import (
	"math"

	"github.com/gonum/matrix/mat64"
)

// WGS-84 ellipsoid parameters.
const (
	semiMajorAxisM   = 6378137.0
	flattening       = 1 / 298.257223563
	eccentricitySq   = flattening * (2 - flattening)
)

// geodeticToECEF converts latitude/longitude (degrees) and altitude
// (meters) to Earth-Centered-Earth-Fixed Cartesian coordinates, the
// standard WGS-84 conversion.
func geodeticToECEF(latDeg, lonDeg, altM float64) *mat64.Vector {
	lat := latDeg * math.Pi / 180
	lon := lonDeg * math.Pi / 180
	sinLat, cosLat := math.Sincos(lat)
	sinLon, cosLon := math.Sincos(lon)
	n := semiMajorAxisM / math.Sqrt(1-eccentricitySq*sinLat*sinLat)

	x := (n + altM) * cosLat * cosLon
	y := (n + altM) * cosLat * sinLon
	z := (n*(1-eccentricitySq) + altM) * sinLat
	return mat64.NewVector(3, []float64{x, y, z})
}

// r2 and r3 are elementary rotation matrices about the y and z axes, the
// same shape as the teacher's rotation.go R2/R3.
func r2(theta float64) *mat64.Dense {
	s, c := math.Sincos(theta)
	return mat64.NewDense(3, 3, []float64{c, 0, -s, 0, 1, 0, s, 0, c})
}

func r3(theta float64) *mat64.Dense {
	s, c := math.Sincos(theta)
	return mat64.NewDense(3, 3, []float64{c, s, 0, -s, c, 0, 0, 0, 1})
}

func mulVec33(m *mat64.Dense, v *mat64.Vector) *mat64.Vector {
	var out mat64.Vector
	out.MulVec(m, v)
	return &out
}

// DistanceWGS84 returns the horizontal and vertical separation, in meters,
// between two points given as (lat, lon) in decimal degrees, assuming both
// lie at the same altitude (the supervisor only ever compares a hover
// target against the aircraft's instantaneous position, whose altitude
// difference is handled by the caller via AltMSL directly — see
// Stabilize's tolerance predicate). DistanceWithAltitude below is the
// variant for endpoints with distinct altitudes.
func DistanceWGS84(lat1, lon1, lat2, lon2 float64) (horizontalM, verticalM float64) {
	return DistanceWithAltitude(lat1, lon1, 0, lat2, lon2, 0)
}

// DistanceWithAltitude is the full three-dimensional version of
// DistanceWGS84, splitting the separation between two geodetic points into
// a horizontal (great-circle-ish, local-tangent-plane) component and a
// vertical component, by projecting the ECEF line-of-sight vector into the
// South-East-Zenith frame centered on point 1 — the same transform
// station.go's RangeElAz applies for a ground station's line of sight to a
// spacecraft.
func DistanceWithAltitude(lat1, lon1, alt1, lat2, lon2, alt2 float64) (horizontalM, verticalM float64) {
	p1 := geodeticToECEF(lat1, lon1, alt1)
	p2 := geodeticToECEF(lat2, lon2, alt2)

	diff := mat64.NewVector(3, []float64{
		p2.At(0, 0) - p1.At(0, 0),
		p2.At(1, 0) - p1.At(1, 0),
		p2.At(2, 0) - p1.At(2, 0),
	})

	latRad := lat1 * math.Pi / 180
	lonRad := lon1 * math.Pi / 180

	sez := mulVec33(r2(math.Pi/2-latRad), mulVec33(r3(lonRad), diff))
	south, east, zenith := sez.At(0, 0), sez.At(1, 0), sez.At(2, 0)

	horizontalM = math.Hypot(south, east)
	verticalM = zenith
	return
}
