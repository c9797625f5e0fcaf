package sailship

import (
	"fmt"
	"math"
	"time"

	kitlog "github.com/go-kit/kit/log"
)

// Frame identifies the coordinate frame the ship elements are referenced to.
type Frame uint8

const (
	// Heliocentric is the shared inertial ecliptic frame about the Sun.
	Heliocentric Frame = iota + 1
	// Planetocentric is the frame of the SOI body currently dominating.
	Planetocentric
)

func (f Frame) String() string {
	switch f {
	case Heliocentric:
		return "heliocentric"
	case Planetocentric:
		return "planetocentric"
	}
	panic("cannot stringify unknown frame")
}

// SOIState tracks which sphere of influence, if any, the ship is inside.
// Invariant: Frame == Planetocentric exactly when InSOI is true, and the
// orbit origin μ always matches Body (or the Sun when not in an SOI).
type SOIState struct {
	Body           string // empty when none
	InSOI          bool
	Frame          Frame
	EntryDT        time.Time
	EntryR         []float64
	lastTransition time.Time
}

// NewSOIState returns the spawn default: heliocentric, no SOI.
func NewSOIState() SOIState {
	return SOIState{Frame: Heliocentric}
}

// CollisionEvent signals that the periapsis inside an SOI dropped below the
// safe altitude and the orbit was coerced to a circular fail-safe.
type CollisionEvent struct {
	Body CelestialObject
	DT   time.Time
}

func (c CollisionEvent) String() string {
	return fmt.Sprintf("collision guard at %s around %s", c.DT, c.Body.Name)
}

// SOIManager detects sphere-of-influence boundary crossings and performs the
// associated frame conversions.
type SOIManager struct {
	bodies   []CelestialObject
	cooldown time.Duration
	logger   kitlog.Logger
}

// NewSOIManager returns an SOI manager watching the provided bodies. The
// transition cooldown comes from the package configuration.
func NewSOIManager(logger kitlog.Logger, bodies ...CelestialObject) *SOIManager {
	if logger == nil {
		logger = kitlog.NewNopLogger()
	}
	return &SOIManager{
		bodies:   bodies,
		cooldown: sailConfig().soiCooldown,
		logger:   kitlog.With(logger, "subsys", "soi"),
	}
}

// Bodies returns the bodies watched by the manager.
func (m *SOIManager) Bodies() []CelestialObject {
	return m.bodies
}

// Transition checks for an SOI boundary crossing at the given date and, when
// one occurred, converts the orbit into the new frame. At most one transition
// happens per call, and none within the cooldown window of the previous one:
// numerical jitter exactly at the boundary must not flip the frame back and
// forth every step.
func (m *SOIManager) Transition(o Orbit, s SOIState, dt time.Time) (Orbit, SOIState, *CollisionEvent, error) {
	if !s.lastTransition.IsZero() && dt.Sub(s.lastTransition) < m.cooldown {
		return o, s, nil, nil
	}
	if s.InSOI {
		return m.checkExit(o, s, dt)
	}
	return m.checkEntry(o, s, dt)
}

func (m *SOIManager) checkEntry(o Orbit, s SOIState, dt time.Time) (Orbit, SOIState, *CollisionEvent, error) {
	R, V := o.RVAt(dt)
	var best *CelestialObject
	var bestPull float64
	for i := range m.bodies {
		b := &m.bodies[i]
		if b.SOI <= 0 {
			continue
		}
		rel := b.HelioOrbit(dt)
		d := norm(sub(R, rel.RAt(dt)))
		if d >= b.SOI {
			continue
		}
		// Overlapping SOIs resolve to the dominant body, the one pulling
		// hardest, not simply the nearest.
		if pull := b.μ / (d * d); pull > bestPull {
			bestPull = pull
			best = b
		}
	}
	if best == nil {
		return o, s, nil, nil
	}
	rel := best.HelioOrbit(dt)
	relR, relV := rel.RVAt(dt)
	newOrbit, err := NewOrbitFromRV(sub(R, relR), sub(V, relV), dt, *best)
	if err != nil {
		return o, s, nil, fmt.Errorf("SOI entry conversion failed: %s", err)
	}
	newState := SOIState{
		Body:           best.Name,
		InSOI:          true,
		Frame:          Planetocentric,
		EntryDT:        dt,
		EntryR:         sub(R, relR),
		lastTransition: dt,
	}
	m.logger.Log("level", "info", "transition", "entry", "body", best.Name, "dt", dt)
	orbit, collision := m.collisionGuard(*newOrbit, *best, dt)
	return orbit, newState, collision, nil
}

func (m *SOIManager) checkExit(o Orbit, s SOIState, dt time.Time) (Orbit, SOIState, *CollisionEvent, error) {
	body := o.Origin
	if body.Name != s.Body {
		return o, s, nil, fmt.Errorf("SOI state names %s but elements are %s centric", s.Body, body.Name)
	}
	R, V := o.RVAt(dt)
	if norm(R) <= body.SOI {
		return o, s, nil, nil
	}
	rel := body.HelioOrbit(dt)
	relR, relV := rel.RVAt(dt)
	newOrbit, err := NewOrbitFromRV(add(R, relR), add(V, relV), dt, Sun)
	if err != nil {
		return o, s, nil, fmt.Errorf("SOI exit conversion failed: %s", err)
	}
	newState := SOIState{Frame: Heliocentric, lastTransition: dt}
	m.logger.Log("level", "info", "transition", "exit", "body", body.Name, "dt", dt)
	return *newOrbit, newState, nil, nil
}

// collisionGuard coerces the orbit to a circular one at the safe altitude
// when the periapsis falls below 1.1 body radii. A deliberate simplification
// in lieu of true collision response.
func (m *SOIManager) collisionGuard(o Orbit, body CelestialObject, dt time.Time) (Orbit, *CollisionEvent) {
	safe := body.Radius * 1.1
	// Periapsis a(1-e) is positive for both conic families.
	if o.Periapsis() >= safe {
		return o, nil
	}
	R, V := o.RVAt(dt)
	rHat := unit(R)
	_, tHat, _ := ThrustBasis(R, V)
	vCirc := math.Sqrt(body.μ / safe)
	circ, err := NewOrbitFromRV(scale(safe, rHat), scale(vCirc, tHat), dt, body)
	if err != nil {
		// The fail-safe construction is always numerically benign; keep the
		// original orbit if it somehow is not.
		m.logger.Log("level", "critical", "guard", "failed", "body", body.Name, "err", err)
		return o, &CollisionEvent{Body: body, DT: dt}
	}
	m.logger.Log("level", "critical", "collided", body.Name, "dt", dt, "periapsis", o.Periapsis(), "safe", safe)
	return *circ, &CollisionEvent{Body: body, DT: dt}
}
