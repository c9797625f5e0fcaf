package sailship

import (
	"math"
)

/* Hyperbolic flyby geometry, used by the navigation panels to report what an
SOI passage will do to the trajectory. */

// TurningAngle returns the angle through which a hyperbolic flyby about the
// body bends the trajectory, from the periapsis radius and the hyperbolic
// excess speed: δ = 2·arcsin(1/(1 + rP·v∞²/μ)).
func TurningAngle(vInf, rP float64, body CelestialObject) float64 {
	return 2 * math.Asin(1/(1+rP*vInf*vInf/body.μ))
}

// VInfinity returns the hyperbolic excess speed of an open orbit, and whether
// the orbit is open at all.
func VInfinity(o Orbit) (float64, bool) {
	if o.e < 1 {
		return 0, false
	}
	return math.Sqrt(o.Origin.μ / math.Abs(o.a)), true
}

// FlybyFromVinf computes the flyby turn angle ψ and the required periapsis
// radius about a given body from the incoming and outgoing v-infinity
// vectors. All angles are in radians.
func FlybyFromVinf(vInfInVec, vInfOutVec []float64, body CelestialObject) (ψ, rP float64) {
	vInfIn := norm(vInfInVec)
	vInfOut := norm(vInfOutVec)
	ψ = math.Acos(clamp(dot(vInfInVec, vInfOutVec)/(vInfIn*vInfOut), -1, 1))
	rP = (body.μ / (vInfIn * vInfIn)) * (1/math.Cos((math.Pi-ψ)/2) - 1)
	return
}
