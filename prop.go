package sailship

import (
	"errors"
	"fmt"
	"time"

	kitlog "github.com/go-kit/kit/log"
)

/* Handles the per-step astrodynamical propagation of the sail craft. */

// Ship bundles the craft state owned by the propagation calls: the orbit, the
// frame bookkeeping, the sail (read only here) and the mass.
type Ship struct {
	Orbit Orbit
	SOI   SOIState
	Sail  SailState
	Mass  float64 // kg
}

// Propagator advances ship elements through time with continuous sail thrust.
// It carries no clock of its own: every call takes explicit dates, so live
// and sandbox timelines can never contaminate each other.
type Propagator struct {
	logger kitlog.Logger
}

// NewPropagator returns a propagator logging to the provided logger. A nil
// logger disables logging.
func NewPropagator(logger kitlog.Logger) *Propagator {
	if logger == nil {
		logger = kitlog.NewNopLogger()
	}
	return &Propagator{logger: kitlog.With(logger, "subsys", "prop")}
}

// Advance propagates the orbit from its epoch over dt and applies the sail
// thrust accumulated over that step via the state-vector method: coast along
// the conic, kick the velocity, rebuild the elements. Going through RV⇄COE
// instead of the Gauss variational equations sidesteps their singularities at
// e=0 and i=0, and lets plane changes fall out of the same code path as
// in-plane maneuvers.
func (p *Propagator) Advance(o Orbit, sail SailState, mass float64, dt time.Duration) (Orbit, error) {
	if mass <= 0 {
		return o, errors.New("mass must be strictly positive")
	}
	if o.Origin.μ <= 0 {
		return o, errors.New("orbit has no gravitational parameter")
	}
	if dt <= 0 {
		return o, fmt.Errorf("invalid step %s", dt)
	}
	target := o.Epoch.Add(dt)
	R, V := o.RVAt(target)
	if !finite(R) || !finite(V) {
		return o, fmt.Errorf("non finite state at %s: %s", target, o)
	}
	sunDist := p.heliocentricDistance(o, R, target)
	accel := ThrustAcceleration(sail, R, V, sunDist, mass)
	V = add(V, scale(dt.Seconds(), accel))
	newOrbit, err := NewOrbitFromRV(R, V, target, o.Origin)
	if err != nil {
		return o, err
	}
	return *newOrbit, nil
}

// AdvanceShip is Advance plus the SOI transition check, updating the ship
// record atomically. The soiMgr may be nil to skip frame management.
func (p *Propagator) AdvanceShip(ship Ship, soiMgr *SOIManager, dt time.Duration) (Ship, *CollisionEvent, error) {
	newOrbit, err := p.Advance(ship.Orbit, ship.Sail, ship.Mass, dt)
	if err != nil {
		return ship, nil, err
	}
	out := ship
	out.Orbit = newOrbit
	if soiMgr == nil {
		return out, nil, nil
	}
	orbit, soi, collision, err := soiMgr.Transition(out.Orbit, out.SOI, newOrbit.Epoch)
	if err != nil {
		return ship, nil, err
	}
	out.Orbit = orbit
	out.SOI = soi
	return out, collision, nil
}

// heliocentricDistance returns the Sun distance of the craft regardless of
// the propagation frame: the photon flux does not care which body the
// elements are referenced to.
func (p *Propagator) heliocentricDistance(o Orbit, R []float64, dt time.Time) float64 {
	if o.Origin.Name == "Sun" {
		return norm(R)
	}
	rel := o.Origin.HelioOrbit(dt)
	return norm(add(R, rel.RAt(dt)))
}
