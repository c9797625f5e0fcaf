package sailship

import (
	"math"
)

const (
	// keplerTolerance is the default convergence tolerance of the Kepler solvers.
	keplerTolerance = 1e-12
	// keplerMaxIter caps the Newton-Raphson iterations. Past the cap the best
	// estimate is returned: a small residual beats a hard failure mid simulation.
	keplerMaxIter = 50
	// circularε is the eccentricity below which an orbit is treated as circular.
	circularε = 1e-6
	// atanhBound keeps tanh/atanh conversions inside their domain.
	atanhBound = 0.9999
)

// ConicClass partitions orbits by eccentricity. Eccentricity is never clamped
// to force a class: an escape trajectory must stay an escape trajectory.
type ConicClass uint8

const (
	// Circular orbits have e below 1e-6.
	Circular ConicClass = iota + 1
	// Elliptic orbits have e in [1e-6, 0.999).
	Elliptic
	// Parabolic is the transition band e in [0.999, 1.001).
	Parabolic
	// Hyperbolic orbits have e of 1.001 and above.
	Hyperbolic
)

func (c ConicClass) String() string {
	switch c {
	case Circular:
		return "circular"
	case Elliptic:
		return "elliptic"
	case Parabolic:
		return "parabolic"
	case Hyperbolic:
		return "hyperbolic"
	}
	panic("cannot stringify unknown conic class")
}

// ClassifyConic returns the conic class for a given eccentricity.
func ClassifyConic(e float64) ConicClass {
	switch {
	case e < circularε:
		return Circular
	case e < 0.999:
		return Elliptic
	case e < 1.001:
		return Parabolic
	default:
		return Hyperbolic
	}
}

// MeanMotion returns the mean motion n in rad/s. Works for hyperbolic orbits
// via the absolute value of the semi major axis.
func MeanMotion(a, μ float64) float64 {
	return math.Sqrt(μ / math.Pow(math.Abs(a), 3))
}

// SolveKeplerE solves M = E - e·sin(E) for the eccentric anomaly E via
// Newton-Raphson. The near circular case short circuits to E = M.
func SolveKeplerE(M, e, tol float64) float64 {
	if e < 1e-10 {
		return M
	}
	if tol <= 0 {
		tol = keplerTolerance
	}
	E := M
	if e >= 0.8 {
		E = math.Pi
		if M < 0 {
			E = -math.Pi
		}
	}
	for iter := 0; iter < keplerMaxIter; iter++ {
		f := E - e*math.Sin(E) - M
		δ := f / (1 - e*math.Cos(E))
		E -= δ
		if math.Abs(δ) < tol {
			break
		}
	}
	return E
}

// SolveKeplerH solves M = e·sinh(H) - H for the hyperbolic anomaly H via
// Newton-Raphson. Steps are damped so that very eccentric inputs cannot make
// sinh overflow before convergence.
func SolveKeplerH(M, e, tol float64) float64 {
	if tol <= 0 {
		tol = keplerTolerance
	}
	var H float64
	if math.Abs(M) < 1 {
		H = M
	} else {
		H = sign(M) * math.Log(2*math.Abs(M)/e)
	}
	for iter := 0; iter < keplerMaxIter; iter++ {
		f := e*math.Sinh(H) - H - M
		δ := f / (e*math.Cosh(H) - 1)
		if math.Abs(δ) > 1 {
			δ = sign(δ)
		}
		H -= δ
		if math.Abs(δ) < tol {
			break
		}
	}
	return H
}

// Eccentric2True converts the eccentric anomaly to the true anomaly.
func Eccentric2True(E, e float64) float64 {
	return 2 * math.Atan2(math.Sqrt(1+e)*math.Sin(E/2), math.Sqrt(1-e)*math.Cos(E/2))
}

// True2Eccentric converts the true anomaly to the eccentric anomaly.
func True2Eccentric(ν, e float64) float64 {
	return 2 * math.Atan2(math.Sqrt(1-e)*math.Sin(ν/2), math.Sqrt(1+e)*math.Cos(ν/2))
}

// Hyperbolic2True converts the hyperbolic anomaly to the true anomaly via
// tan(ν/2) = sqrt((e+1)/(e-1))·tanh(H/2).
func Hyperbolic2True(H, e float64) float64 {
	return 2 * math.Atan(math.Sqrt((e+1)/(e-1))*math.Tanh(H/2))
}

// True2Hyperbolic converts the true anomaly to the hyperbolic anomaly. The
// atanh input is clamped at the domain boundary.
func True2Hyperbolic(ν, e float64) float64 {
	x := clamp(math.Sqrt((e-1)/(e+1))*math.Tan(ν/2), -atanhBound, atanhBound)
	return 2 * math.Atanh(x)
}

// Mean2True converts a mean anomaly to the true anomaly, branching on the
// conic family. Hyperbolic mean anomalies are not wrapped: they grow without
// bound and must stay monotonic in time.
func Mean2True(M, e float64) float64 {
	if e < 1 {
		M = math.Mod(M, 2*math.Pi)
		if M < 0 {
			M += 2 * math.Pi
		}
		return Eccentric2True(SolveKeplerE(M, e, keplerTolerance), e)
	}
	return Hyperbolic2True(SolveKeplerH(M, e, keplerTolerance), e)
}

// True2Mean converts a true anomaly to the mean anomaly, branching on the
// conic family.
func True2Mean(ν, e float64) float64 {
	if e < 1 {
		E := True2Eccentric(ν, e)
		return E - e*math.Sin(E)
	}
	H := True2Hyperbolic(ν, e)
	return e*math.Sinh(H) - H
}

// OrbitalRadius returns r = a(1-e²)/(1+e·cos ν). The semi parameter a(1-e²)
// is positive for both conic families, so this single formula serves both.
func OrbitalRadius(a, e, ν float64) float64 {
	return a * (1 - e*e) / (1 + e*math.Cos(ν))
}

// PerifocalRV returns the position and velocity in the perifocal (PQW) frame
// for a given true anomaly.
func PerifocalRV(a, e, μ, ν float64) (R, V []float64) {
	p := a * (1 - e*e)
	sinν, cosν := math.Sincos(ν)
	r := p / (1 + e*cosν)
	R = []float64{r * cosν, r * sinν, 0}
	vFact := math.Sqrt(μ / p)
	V = []float64{-vFact * sinν, vFact * (e + cosν), 0}
	return
}
