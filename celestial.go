package sailship

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/soniakeys/meeus/julian"
	"github.com/soniakeys/meeus/planetposition"
	"github.com/soniakeys/meeus/pluto"
)

const (
	// AU is one astronomical unit in kilometers.
	AU = 1.49597870700e8
)

// J2000 is the reference epoch of the body catalogue elements.
var J2000 = time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC)

// CelestialObject defines a celestial object.
type CelestialObject struct {
	Name   string
	Radius float64
	μ      float64
	SOI    float64 // With respect to the Sun; -1 for the Sun itself.
	// Mean heliocentric J2000 elements used for the default ephemeris path.
	a, e, incl, Ω, ω, M0 float64
	pp                   *planetposition.V87Planet
}

// GM returns μ (which is unexported because it's a lowercase letter).
func (c CelestialObject) GM() float64 {
	return c.μ
}

// String implements the Stringer interface.
func (c CelestialObject) String() string {
	return c.Name + " body"
}

// Equals returns whether the provided celestial object is the same.
func (c *CelestialObject) Equals(b CelestialObject) bool {
	return c.Name == b.Name && c.Radius == b.Radius && c.μ == b.μ && c.SOI == b.SOI
}

// HelioOrbit returns the heliocentric orbit of this body at a given time.
// By default the catalogue's mean Keplerian elements are propagated through
// the conic solver; when VSOP87 is enabled in the configuration, the Meeus
// ephemerides are used instead.
func (c *CelestialObject) HelioOrbit(dt time.Time) Orbit {
	if c.Name == "Sun" {
		return Orbit{Origin: Sun, Epoch: dt.UTC()}
	}
	if sailConfig().VSOP87 {
		if c.Name == "Pluto" {
			// Special case in Sonia Keys' Meeus.
			l, b, r := pluto.Heliocentric(julian.TimeToJD(dt))
			return *c.orbitFromLBR(l.Rad(), b.Rad(), r*AU, dt)
		}
		if c.pp == nil {
			var vsopPosition int
			switch c.Name {
			case "Mercury":
				vsopPosition = 1
			case "Venus":
				vsopPosition = 2
			case "Earth":
				vsopPosition = 3
			case "Mars":
				vsopPosition = 4
			case "Jupiter":
				vsopPosition = 5
			case "Saturn":
				vsopPosition = 6
			case "Uranus":
				vsopPosition = 7
			case "Neptune":
				vsopPosition = 8
			default:
				panic(fmt.Errorf("no VSOP87 ephemeris for %s", c.Name))
			}
			planet, err := planetposition.LoadPlanetPath(vsopPosition-1, sailConfig().VSOP87Dir)
			if err != nil {
				panic(fmt.Errorf("could not load planet number %d: %s", vsopPosition, err))
			}
			c.pp = planet
		}
		l, b, r := c.pp.Position2000(julian.TimeToJD(dt))
		return *c.orbitFromLBR(l.Rad(), b.Rad(), r*AU, dt)
	}
	o := Orbit{c.a, c.e, c.incl, c.Ω, c.ω, c.M0, J2000, Sun}
	// Rebase the epoch so downstream math never mixes reference dates.
	o.M0 = o.MeanAnomalyAt(dt)
	o.Epoch = dt.UTC()
	return o
}

// orbitFromLBR converts ecliptic L,B,R ephemeris output into an orbit record.
func (c *CelestialObject) orbitFromLBR(l, b, r float64, dt time.Time) *Orbit {
	R := make([]float64, 3)
	sB, cB := math.Sincos(b)
	sL, cL := math.Sincos(l)
	R[0] = r * cB * cL
	R[1] = r * cB * sL
	R[2] = r * sB
	// Vis-viva speed along the local orbit direction.
	v := math.Sqrt(2*Sun.μ/r - Sun.μ/c.a)
	vDir := unit(cross([]float64{0, 0, 1}, R))
	V := scale(v, vDir)
	o, err := NewOrbitFromRV(R, V, dt, Sun)
	if err != nil {
		panic(fmt.Errorf("ephemeris produced invalid state for %s: %s", c.Name, err))
	}
	return o
}

// CelestialObjectFromString returns the object from its name.
func CelestialObjectFromString(name string) (CelestialObject, error) {
	switch strings.ToLower(name) {
	case "sun":
		return Sun, nil
	case "mercury":
		return Mercury, nil
	case "venus":
		return Venus, nil
	case "earth":
		return Earth, nil
	case "mars":
		return Mars, nil
	case "jupiter":
		return Jupiter, nil
	case "saturn":
		return Saturn, nil
	case "uranus":
		return Uranus, nil
	case "neptune":
		return Neptune, nil
	default:
		return CelestialObject{}, fmt.Errorf("undefined body '%s'", name)
	}
}

// BodyState is one registry entry: a body and its heliocentric state at the
// registry's reference date.
type BodyState struct {
	Body CelestialObject
	R, V []float64
}

// BodyRegistry is the per-tick snapshot of all candidate bodies, refreshed by
// the caller before core calls. The core only ever reads it.
type BodyRegistry struct {
	DT     time.Time
	states map[string]BodyState
}

// NewBodyRegistry builds a registry snapshot for the given bodies at the
// given date.
func NewBodyRegistry(dt time.Time, bodies ...CelestialObject) BodyRegistry {
	states := make(map[string]BodyState, len(bodies))
	for _, b := range bodies {
		b := b
		if b.Name == "Sun" {
			states[b.Name] = BodyState{Body: b, R: []float64{0, 0, 0}, V: []float64{0, 0, 0}}
			continue
		}
		rel := b.HelioOrbit(dt)
		R, V := rel.RVAt(dt)
		states[b.Name] = BodyState{Body: b, R: R, V: V}
	}
	return BodyRegistry{DT: dt.UTC(), states: states}
}

// State returns the registry entry for the named body.
func (reg BodyRegistry) State(name string) (BodyState, bool) {
	s, ok := reg.states[name]
	return s, ok
}

// Each calls f for every body in the registry.
func (reg BodyRegistry) Each(f func(BodyState)) {
	for _, s := range reg.states {
		f(s)
	}
}

// Bodies returns the celestial objects held by the registry.
func (reg BodyRegistry) Bodies() []CelestialObject {
	out := make([]CelestialObject, 0, len(reg.states))
	for _, s := range reg.states {
		out = append(out, s.Body)
	}
	return out
}

/* Definitions. Mean elements are J2000 heliocentric ecliptic. */

// Sun is our closest star.
var Sun = CelestialObject{Name: "Sun", Radius: 695700, μ: 1.32712440017987e11, SOI: -1}

// Mercury is the small hot one.
var Mercury = CelestialObject{"Mercury", 2439.7, 2.2032e4, 0.112e6,
	57909050, 0.20563, Deg2rad(7.005), Deg2rad(48.331), Deg2rad(29.124), Deg2rad(174.796), nil}

// Venus is poisonous.
var Venus = CelestialObject{"Venus", 6051.8, 3.24858599e5, 0.616e6,
	108208000, 0.006772, Deg2rad(3.39458), Deg2rad(76.680), Deg2rad(54.884), Deg2rad(50.115), nil}

// Earth is home.
var Earth = CelestialObject{"Earth", 6378.1363, 3.98600433e5, 924645.0,
	149598023, 0.0167086, Deg2rad(0.00005), Deg2rad(-11.26064), Deg2rad(114.20783), Deg2rad(358.617), nil}

// Mars is the vacation place.
var Mars = CelestialObject{"Mars", 3396.19, 4.28283100e4, 576000,
	227939200, 0.0934, Deg2rad(1.850), Deg2rad(49.558), Deg2rad(286.502), Deg2rad(19.412), nil}

// Jupiter is big.
var Jupiter = CelestialObject{"Jupiter", 71492.0, 1.266865361e8, 48.2e6,
	778298361, 0.0489, Deg2rad(1.303), Deg2rad(100.464), Deg2rad(273.867), Deg2rad(20.020), nil}

// Saturn floats and that's really cool.
var Saturn = CelestialObject{"Saturn", 60268.0, 3.7931208e7, 54.5e6,
	1429394133, 0.0565, Deg2rad(2.485), Deg2rad(113.665), Deg2rad(339.392), Deg2rad(317.020), nil}

// Uranus is no joke.
var Uranus = CelestialObject{"Uranus", 25559.0, 5.7939513e6, 51.9e6,
	2875038615, 0.04717, Deg2rad(0.773), Deg2rad(74.006), Deg2rad(96.998857), Deg2rad(142.2386), nil}

// Neptune is windy.
var Neptune = CelestialObject{"Neptune", 24764.0, 6.836529e6, 86.8e6,
	4504449760, 0.008678, Deg2rad(1.767975), Deg2rad(131.784), Deg2rad(276.336), Deg2rad(256.228), nil}
