package sailship

import (
	"math"
	"time"

	"github.com/gonum/floats"
)

const (
	// SolarPressure1AU is the solar radiation pressure at one AU in N/m².
	SolarPressure1AU = 4.56e-6
	// normalε is the squared-norm threshold below which the orbit normal is
	// considered degenerate and the ecliptic normal is used instead.
	normalε = 1e-12
)

// eclipticNormal is the fallback reference for degenerate (radial or
// equatorial-degenerate) trajectories.
var eclipticNormal = []float64{0, 0, 1}

// SailState defines the geometry and attitude of a solar sail. It is owned by
// the ship entity and read only to this package.
type SailState struct {
	Area         float64 // m²
	Reflectivity float64 // 0..1
	Deployment   float64 // deployed fraction, 0..1
	Condition    float64 // degradation fraction, 0..1
	Yaw          float64 // in-plane cone angle, radians
	Pitch        float64 // out-of-plane clock angle, radians
}

// EffectiveArea returns the area actually catching photons.
func (s SailState) EffectiveArea() float64 {
	return s.Area * s.Deployment * s.Condition
}

// SolarPressure returns the radiation pressure in N/m² at a distance r (km)
// from the Sun, following the inverse square law.
func SolarPressure(r float64) float64 {
	return SolarPressure1AU * (AU / r) * (AU / r)
}

// ThrustBasis returns the radial, transverse and orbit-normal unit vectors
// for the given state. A near-degenerate orbit normal falls back to the
// ecliptic normal so the basis stays well defined.
func ThrustBasis(R, V []float64) (radial, transverse, normal []float64) {
	radial = unit(R)
	h := cross(R, V)
	if dot(h, h) < normalε {
		normal = eclipticNormal
	} else {
		normal = unit(h)
	}
	transverse = cross(normal, radial)
	return
}

// ThrustDirection returns the unit thrust direction for the given attitude
// angles: cos δ·[cos γ·radial + sin γ·transverse] + sin δ·normal.
func ThrustDirection(R, V []float64, yaw, pitch float64) []float64 {
	radial, transverse, normal := ThrustBasis(R, V)
	sinγ, cosγ := math.Sincos(yaw)
	sinδ, cosδ := math.Sincos(pitch)
	dir := make([]float64, 3)
	for j := 0; j < 3; j++ {
		dir[j] = cosδ*(cosγ*radial[j]+sinγ*transverse[j]) + sinδ*normal[j]
	}
	return dir
}

// ThrustAcceleration returns the sail acceleration vector in km/s² for a ship
// of the given mass (kg) at the given heliocentric distance (km). The force
// magnitude is 2·P(r)·A_eff·cos²γ·cos²δ·ρ along the thrust direction.
func ThrustAcceleration(sail SailState, R, V []float64, sunDist, mass float64) []float64 {
	if mass <= 0 || sunDist <= 0 {
		return []float64{0, 0, 0}
	}
	aEff := sail.EffectiveArea()
	if floats.EqualWithinAbs(aEff, 0, 1e-12) {
		return []float64{0, 0, 0}
	}
	cosγ := math.Cos(sail.Yaw)
	cosδ := math.Cos(sail.Pitch)
	force := 2 * SolarPressure(sunDist) * aEff * cosγ * cosγ * cosδ * cosδ * sail.Reflectivity
	// N/kg is m/s²; state vectors are in km.
	accel := force / mass * 1e-3
	return scale(accel, ThrustDirection(R, V, sail.Yaw, sail.Pitch))
}

// AttitudeLaw defines how the sail attitude evolves along a trajectory, in
// the manner of a thrust control law.
type AttitudeLaw interface {
	Angles(o Orbit, dt time.Time) (yaw, pitch float64)
	Reason() string
}

// FixedAttitude holds the sail at constant cone and clock angles.
type FixedAttitude struct {
	Yaw, Pitch float64
}

// Angles implements the AttitudeLaw interface.
func (l FixedAttitude) Angles(o Orbit, dt time.Time) (yaw, pitch float64) {
	return l.Yaw, l.Pitch
}

// Reason implements the AttitudeLaw interface.
func (l FixedAttitude) Reason() string {
	return "fixed attitude"
}

// AttitudeFunc adapts a plain function into an AttitudeLaw.
type AttitudeFunc struct {
	Fn  func(o Orbit, dt time.Time) (yaw, pitch float64)
	Why string
}

// Angles implements the AttitudeLaw interface.
func (l AttitudeFunc) Angles(o Orbit, dt time.Time) (yaw, pitch float64) {
	return l.Fn(o, dt)
}

// Reason implements the AttitudeLaw interface.
func (l AttitudeFunc) Reason() string {
	return l.Why
}
