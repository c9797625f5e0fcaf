package sailship

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/gonum/floats"
)

const (
	eccentricityε = 5e-5                         // 0.00005
	angleε        = (5e-3 / 360) * (2 * math.Pi) // 0.005 degrees
	distanceε     = 2e1                          // 20 km
	velocityε     = 1e-6                         // in km/s
)

// Orbit defines an orbit via its orbital elements at a reference epoch.
// The mean anomaly at epoch is the canonical anomaly: position at any time is
// a pure function of the elements and that time, so propagating twice to the
// same date yields bit identical output. Elements are only ever replaced as a
// whole, never patched field by field.
type Orbit struct {
	a, e, i, Ω, ω, M0 float64
	Epoch             time.Time
	Origin            CelestialObject // Orbit origin
}

// Class returns the conic class of this orbit.
func (o Orbit) Class() ConicClass {
	return ClassifyConic(o.e)
}

// Energyξ returns the specific mechanical energy ξ.
func (o Orbit) Energyξ() float64 {
	return -o.Origin.μ / (2 * o.a)
}

// SemiParameter returns the semi parameter, positive for both conic families.
func (o Orbit) SemiParameter() float64 {
	return o.a * (1 - o.e*o.e)
}

// Apoapsis returns the apoapsis radius, or +Inf for open orbits which have none.
func (o Orbit) Apoapsis() float64 {
	if o.e >= 1 {
		return math.Inf(1)
	}
	return o.a * (1 + o.e)
}

// Periapsis returns the periapsis radius.
func (o Orbit) Periapsis() float64 {
	return o.a * (1 - o.e)
}

// MeanMotion returns the mean motion in rad/s.
func (o Orbit) MeanMotion() float64 {
	return MeanMotion(o.a, o.Origin.μ)
}

// Period returns the period of this orbit, and whether it has one at all
// (open orbits do not).
func (o Orbit) Period() (time.Duration, bool) {
	if o.e >= 1 {
		return 0, false
	}
	seconds := 2 * math.Pi * math.Sqrt(math.Pow(o.a, 3)/o.Origin.μ)
	duration, _ := time.ParseDuration(fmt.Sprintf("%.6fs", seconds))
	return duration, true
}

// MeanAnomalyAt returns the mean anomaly at the provided date. Closed orbits
// wrap into [0, 2π); hyperbolic mean anomaly grows monotonically unbounded.
func (o Orbit) MeanAnomalyAt(dt time.Time) float64 {
	M := o.M0 + o.MeanMotion()*dt.Sub(o.Epoch).Seconds()
	if o.e < 1 {
		M = math.Mod(M, 2*math.Pi)
		if M < 0 {
			M += 2 * math.Pi
		}
	}
	return M
}

// TrueAnomalyAt returns the true anomaly at the provided date.
func (o Orbit) TrueAnomalyAt(dt time.Time) float64 {
	return Mean2True(o.MeanAnomalyAt(dt), o.e)
}

// RVAt returns the position and velocity vectors at the provided date, in the
// inertial frame of the origin body. This is the single elements-to-state path:
// thrust integration and SOI frame changes both go through it.
func (o Orbit) RVAt(dt time.Time) (R, V []float64) {
	ν := o.TrueAnomalyAt(dt)
	R, V = PerifocalRV(o.a, o.e, o.Origin.μ, ν)
	R = PQW2ECI(o.i, o.ω, o.Ω, R)
	V = PQW2ECI(o.i, o.ω, o.Ω, V)
	return
}

// RAt returns the position vector at the provided date.
func (o Orbit) RAt(dt time.Time) []float64 {
	R, _ := o.RVAt(dt)
	return R
}

// RNormAt returns the radius at the provided date without building the vector.
func (o Orbit) RNormAt(dt time.Time) float64 {
	return OrbitalRadius(o.a, o.e, o.TrueAnomalyAt(dt))
}

// VNormAt returns the speed at the provided date via the vis-viva equation.
func (o Orbit) VNormAt(dt time.Time) float64 {
	return math.Sqrt(2 * (o.Origin.μ/o.RNormAt(dt) + o.Energyξ()))
}

// HNorm returns the norm of the angular momentum. It is constant over an
// unperturbed orbit, hence no date parameter.
func (o Orbit) HNorm() float64 {
	return math.Sqrt(o.Origin.μ * o.SemiParameter())
}

// Elements returns the six orbital elements and the epoch.
func (o Orbit) Elements() (a, e, i, Ω, ω, M0 float64, epoch time.Time) {
	return o.a, o.e, o.i, o.Ω, o.ω, o.M0, o.Epoch
}

// String implements the stringer interface (hence the value receiver).
func (o Orbit) String() string {
	return fmt.Sprintf("%s a=%.1f e=%.4f i=%.3f Ω=%.3f ω=%.3f M0=%.3f @%s",
		o.Class(), o.a, o.e, Rad2deg(o.i), Rad2deg(o.Ω), Rad2deg(o.ω), o.M0, o.Epoch.Format("2006-01-02T15:04:05"))
}

// Equals returns whether two orbits are identical within the package
// tolerances, ignoring the along track position.
func (o Orbit) Equals(o1 Orbit) (bool, error) {
	if !o.Origin.Equals(o1.Origin) {
		return false, errors.New("different origin")
	}
	if !floats.EqualWithinAbs(o.a, o1.a, distanceε) {
		return false, errors.New("semi major axis invalid")
	}
	if !floats.EqualWithinAbs(o.e, o1.e, eccentricityε) {
		return false, errors.New("eccentricity invalid")
	}
	if !floats.EqualWithinAbs(o.i, o1.i, angleε) {
		return false, errors.New("inclination invalid")
	}
	if !floats.EqualWithinAbs(o.Ω, o1.Ω, angleε) {
		return false, errors.New("RAAN invalid")
	}
	if o.e > eccentricityε && !floats.EqualWithinAbs(o.ω, o1.ω, angleε) {
		return false, errors.New("argument of periapsis invalid")
	}
	return true, nil
}

// NewOrbitFromOE creates an orbit from the orbital elements at the given epoch.
// WARNING: Angles must be in degrees not radians; M0 is in radians.
func NewOrbitFromOE(a, e, i, Ω, ω, M0 float64, epoch time.Time, c CelestialObject) (*Orbit, error) {
	if c.μ <= 0 {
		return nil, errors.New("gravitational parameter must be strictly positive")
	}
	if e < 0 {
		return nil, errors.New("eccentricity cannot be negative")
	}
	if (e < 1 && a <= 0) || (e > 1 && a >= 0) {
		return nil, fmt.Errorf("inconsistent conic: a=%f with e=%f", a, e)
	}
	return &Orbit{a, e, Deg2rad(i), Deg2rad(Ω), Deg2rad(ω), M0, epoch.UTC(), c}, nil
}

// NewOrbitFromRV returns orbital elements from the R and V vectors at the
// given epoch. Adapted from Vallado's RV2COE and extended to open orbits: the
// eccentricity is deliberately never capped below 1, and the hyperbolic branch
// derives the mean anomaly through the hyperbolic anomaly.
func NewOrbitFromRV(R, V []float64, epoch time.Time, c CelestialObject) (*Orbit, error) {
	if c.μ <= 0 {
		return nil, errors.New("gravitational parameter must be strictly positive")
	}
	if !finite(R) || !finite(V) {
		return nil, errors.New("non finite state vector")
	}
	r := norm(R)
	if r <= 0 {
		return nil, errors.New("position vector cannot be nil")
	}
	v := norm(V)
	hVec := cross(R, V)
	n := cross([]float64{0, 0, 1}, hVec)
	ξ := (v*v)/2 - c.μ/r
	a := -c.μ / (2 * ξ)
	eVec := make([]float64, 3)
	for j := 0; j < 3; j++ {
		eVec[j] = ((v*v-c.μ/r)*R[j] - dot(R, V)*V[j]) / c.μ
	}
	e := norm(eVec)

	i := math.Acos(clamp(hVec[2]/norm(hVec), -1, 1))
	var Ω, ω, ν float64
	nNorm := norm(n)
	if nNorm > 1e-12 {
		Ω = math.Acos(clamp(n[0]/nNorm, -1, 1))
		if n[1] < 0 {
			Ω = 2*math.Pi - Ω
		}
	}
	if e > 1e-12 {
		if nNorm > 1e-12 {
			ω = math.Acos(clamp(dot(n, eVec)/(nNorm*e), -1, 1))
			if eVec[2] < 0 {
				ω = 2*math.Pi - ω
			}
		} else {
			// Equatorial: measure ω from the inertial x axis.
			ω = math.Atan2(eVec[1], eVec[0])
			if ω < 0 {
				ω += 2 * math.Pi
			}
		}
		// The clamp handles the edge case where cosν lands epsilon outside
		// [-1,1] and math.Acos would return NaN.
		ν = math.Acos(clamp(dot(eVec, R)/(e*r), -1, 1))
		if dot(R, V) < 0 {
			ν = 2*math.Pi - ν
		}
	} else {
		// Circular: measure the position from the node (or x axis).
		ref := n
		if nNorm <= 1e-12 {
			ref = []float64{1, 0, 0}
		}
		ν = math.Acos(clamp(dot(ref, R)/(norm(ref)*r), -1, 1))
		if R[2] < 0 {
			ν = 2*math.Pi - ν
		}
	}
	if e >= 1 && ν > math.Pi {
		// Open orbits carry a signed anomaly, not a wrapped one.
		ν -= 2 * math.Pi
	}
	M0 := True2Mean(ν, e)
	return &Orbit{a, e, math.Mod(i, 2*math.Pi), math.Mod(Ω, 2*math.Pi), math.Mod(ω, 2*math.Pi), M0, epoch.UTC(), c}, nil
}

// Radii2ae returns the semi major axis and the eccentricity from the radii.
func Radii2ae(rA, rP float64) (a, e float64) {
	if rA < rP {
		panic("periapsis cannot be greater than apoapsis")
	}
	a = (rP + rA) / 2
	e = (rA - rP) / (rA + rP)
	return
}
