package sailship

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/ChristopherRabotin/ode"
	kitlog "github.com/go-kit/kit/log"
)

const (
	// CruiseStepSize is the default step size of the cruise propagation.
	CruiseStepSize = 60 * time.Second
)

/* Long-arc Cartesian propagation of the sail craft. The per-step Propagator
is the interactive path; Cruise integrates the same dynamics with RK4 as the
validation twin and for offline trajectory generation. */

// CruiseState stores one propagated cruise sample.
type CruiseState struct {
	DT    time.Time
	Orbit Orbit
	Sail  SailState
}

// Cruise propagates a sail craft over a long arc with continuous thrust.
type Cruise struct {
	Ship                       Ship
	Attitude                   AttitudeLaw
	StartDT, StopDT, CurrentDT time.Time
	step                       time.Duration
	histChan                   chan<- CruiseState
	wg                         sync.WaitGroup
	logger                     kitlog.Logger
	done, collided             bool
}

// NewCruise returns a cruise propagation for the given ship between two
// dates. The history channel may be nil when no sampling is needed.
func NewCruise(ship Ship, attitude AttitudeLaw, start, end time.Time, conf ExportConfig, logger kitlog.Logger) *Cruise {
	if logger == nil {
		logger = kitlog.NewNopLogger()
	}
	if attitude == nil {
		attitude = FixedAttitude{Yaw: ship.Sail.Yaw, Pitch: ship.Sail.Pitch}
	}
	// All ephemeris data is in UTC.
	start = start.UTC()
	end = end.UTC()
	c := &Cruise{
		Ship:      ship,
		Attitude:  attitude,
		StartDT:   start,
		StopDT:    end,
		CurrentDT: start,
		step:      CruiseStepSize,
		logger:    kitlog.With(logger, "subsys", "cruise"),
	}
	if !conf.IsUseless() {
		histChan := make(chan CruiseState, 1000)
		c.histChan = histChan
		c.wg.Add(1)
		go func() {
			defer c.wg.Done()
			StreamCruise(conf, histChan)
		}()
		histChan <- CruiseState{start, ship.Orbit, ship.Sail}
	}
	if end.Before(start) {
		c.logger.Log("level", "warning", "message", "no end date")
	}
	return c
}

// LogStatus reports the current state of the propagation.
func (c *Cruise) LogStatus() {
	c.logger.Log("level", "info", "date", c.CurrentDT, "orbit", c.Ship.Orbit)
}

// Propagate starts the propagation. Blocking.
func (c *Cruise) Propagate() {
	c.LogStatus()
	vInit := c.Ship.Orbit.VNormAt(c.CurrentDT)
	ode.NewRK4(0, c.step.Seconds(), c).Solve() // Blocking.
	c.done = true
	vFinal := c.Ship.Orbit.VNormAt(c.CurrentDT)
	duration := c.CurrentDT.Sub(c.StartDT)
	durStr := duration.String()
	if duration.Hours() > 24 {
		durStr += fmt.Sprintf(" (~%.3fd)", duration.Hours()/24)
	}
	c.logger.Log("level", "notice", "status", "finished", "duration", durStr, "Δv(km/s)", math.Abs(vFinal-vInit))
	c.LogStatus()
	c.wg.Wait() // Don't return until the history file is fully written.
}

// Stop implements the stop call of the integrator.
func (c *Cruise) Stop(t float64) bool {
	c.CurrentDT = c.CurrentDT.Add(c.step)
	if c.CurrentDT.Sub(c.StopDT).Nanoseconds() > 0 {
		if c.histChan != nil {
			close(c.histChan)
		}
		return true
	}
	return false
}

// GetState returns the state for the integrator.
func (c *Cruise) GetState() (s []float64) {
	s = make([]float64, 6)
	R, V := c.Ship.Orbit.RVAt(c.CurrentDT)
	for i := 0; i < 3; i++ {
		s[i] = R[i]
		s[i+3] = V[i]
	}
	return
}

// SetState sets the updated state.
func (c *Cruise) SetState(t float64, s []float64) {
	if c.histChan != nil {
		c.histChan <- CruiseState{c.CurrentDT, c.Ship.Orbit, c.Ship.Sail}
	}
	R := []float64{s[0], s[1], s[2]}
	V := []float64{s[3], s[4], s[5]}
	newOrbit, err := NewOrbitFromRV(R, V, c.CurrentDT, c.Ship.Orbit.Origin)
	if err != nil {
		c.logger.Log("level", "critical", "dt", c.CurrentDT, "err", err)
		return
	}
	c.Ship.Orbit = *newOrbit

	// Orbit sanity checks and warnings.
	if !c.collided && norm(R) < c.Ship.Orbit.Origin.Radius {
		c.collided = true
		c.logger.Log("level", "critical", "collided", c.Ship.Orbit.Origin.Name, "dt", c.CurrentDT, "r", norm(R), "radius", c.Ship.Orbit.Origin.Radius)
	} else if c.collided && norm(R) > c.Ship.Orbit.Origin.Radius*1.1 {
		// Now further out than the 10% dead zone.
		c.collided = false
		c.logger.Log("level", "critical", "revived", c.Ship.Orbit.Origin.Name, "dt", c.CurrentDT)
	}
}

// Func is the integration function: two-body gravity plus sail thrust.
func (c *Cruise) Func(t float64, f []float64) (fDot []float64) {
	fDot = make([]float64, 6)
	R := []float64{f[0], f[1], f[2]}
	V := []float64{f[3], f[4], f[5]}
	rNorm := norm(R)
	bodyAcc := -c.Ship.Orbit.Origin.μ / math.Pow(rNorm, 3)

	sail := c.Ship.Sail
	sail.Yaw, sail.Pitch = c.Attitude.Angles(c.Ship.Orbit, c.CurrentDT)
	sunDist := rNorm
	if c.Ship.Orbit.Origin.Name != "Sun" {
		rel := c.Ship.Orbit.Origin.HelioOrbit(c.CurrentDT)
		sunDist = norm(add(R, rel.RAt(c.CurrentDT)))
	}
	thrust := ThrustAcceleration(sail, R, V, sunDist, c.Ship.Mass)

	// d\vec{R}/dt
	fDot[0] = f[3]
	fDot[1] = f[4]
	fDot[2] = f[5]
	// d\vec{V}/dt
	fDot[3] = bodyAcc*f[0] + thrust[0]
	fDot[4] = bodyAcc*f[1] + thrust[1]
	fDot[5] = bodyAcc*f[2] + thrust[2]
	for i := 0; i < 6; i++ {
		if math.IsNaN(fDot[i]) {
			panic(fmt.Errorf("fDot[%d]=NaN @ dt=%s\ncur:%s", i, c.CurrentDT, c.Ship.Orbit))
		}
	}
	return
}
