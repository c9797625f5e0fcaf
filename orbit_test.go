package sailship

import (
	"math"
	"testing"
	"time"

	"github.com/gonum/floats"
)

var testEpoch = time.Date(2017, 3, 1, 0, 0, 0, 0, time.UTC)

func TestOrbitRV2COE(t *testing.T) {
	// From Vallado's RV2COE example.
	R := []float64{6524.834, 6862.875, 6448.296}
	V := []float64{4.901327, 5.533756, -1.976341}
	o, err := NewOrbitFromRV(R, V, testEpoch, Earth)
	if err != nil {
		t.Fatal(err)
	}
	a, e, i, Ω, ω, _, _ := o.Elements()
	if !floats.EqualWithinAbs(a, 36127.343, 1e-1) {
		t.Fatalf("a=%f", a)
	}
	if !floats.EqualWithinAbs(e, 0.832853, 1e-6) {
		t.Fatalf("e=%f", e)
	}
	if ok, _ := anglesEqual(87.869126, Rad2deg(i)); !ok {
		t.Fatalf("i=%f", Rad2deg(i))
	}
	if ok, _ := anglesEqual(227.898260, Rad2deg(Ω)); !ok {
		t.Fatalf("Ω=%f", Rad2deg(Ω))
	}
	if ok, _ := anglesEqual(53.384931, Rad2deg(ω)); !ok {
		t.Fatalf("ω=%f", Rad2deg(ω))
	}
	valladoε := 1e-6
	if !floats.EqualWithinAbs(o.Energyξ(), -5.516604, valladoε) {
		t.Fatalf("incorrect energy ξ=%f", o.Energyξ())
	}
}

func TestOrbitRoundTripElliptic(t *testing.T) {
	R := []float64{6524.834, 6862.875, 6448.296}
	V := []float64{4.901327, 5.533756, -1.976341}
	o, err := NewOrbitFromRV(R, V, testEpoch, Earth)
	if err != nil {
		t.Fatal(err)
	}
	R1, V1 := o.RVAt(testEpoch)
	for j := 0; j < 3; j++ {
		if relErr := math.Abs(R1[j]-R[j]) / norm(R); relErr > 1e-8 {
			t.Fatalf("R[%d] relative error %e", j, relErr)
		}
		if relErr := math.Abs(V1[j]-V[j]) / norm(V); relErr > 1e-8 {
			t.Fatalf("V[%d] relative error %e", j, relErr)
		}
	}
}

func TestOrbitRoundTripHyperbolic(t *testing.T) {
	// Well above solar escape speed at 1 AU.
	R := []float64{AU, 0, 0}
	V := []float64{0, 50, 5}
	o, err := NewOrbitFromRV(R, V, testEpoch, Sun)
	if err != nil {
		t.Fatal(err)
	}
	if o.Class() != Hyperbolic {
		t.Fatalf("orbit classified as %s", o.Class())
	}
	if o.e < 1 || o.a > 0 {
		t.Fatalf("inconsistent hyperbolic conic a=%f e=%f", o.a, o.e)
	}
	R1, V1 := o.RVAt(testEpoch)
	for j := 0; j < 3; j++ {
		if relErr := math.Abs(R1[j]-R[j]) / norm(R); relErr > 1e-8 {
			t.Fatalf("R[%d] relative error %e", j, relErr)
		}
		if relErr := math.Abs(V1[j]-V[j]) / norm(V); relErr > 1e-8 {
			t.Fatalf("V[%d] relative error %e", j, relErr)
		}
	}
}

func TestOrbitRoundTripManyStates(t *testing.T) {
	// Sweep inclined, eccentric cases in both regimes.
	for _, vy := range []float64{25, 33, 42.2, 48, 55} {
		R := []float64{0.9 * AU, 0.1 * AU, 0.02 * AU}
		V := []float64{-3, vy, 2}
		o, err := NewOrbitFromRV(R, V, testEpoch, Sun)
		if err != nil {
			t.Fatal(err)
		}
		R1, V1 := o.RVAt(testEpoch)
		if relErr := norm(sub(R1, R)) / norm(R); relErr > 1e-8 {
			t.Fatalf("vy=%f (%s): position relative error %e", vy, o.Class(), relErr)
		}
		if relErr := norm(sub(V1, V)) / norm(V); relErr > 1e-8 {
			t.Fatalf("vy=%f (%s): velocity relative error %e", vy, o.Class(), relErr)
		}
	}
}

func TestOrbitBoundaryScenario(t *testing.T) {
	// a=1 AU, e=0.5, all angles zero, M0=0: periapsis at 0.5 AU along x with
	// zero radial velocity.
	o, err := NewOrbitFromOE(AU, 0.5, 0, 0, 0, 0, testEpoch, Sun)
	if err != nil {
		t.Fatal(err)
	}
	R, V := o.RVAt(testEpoch)
	if !floats.EqualWithinAbs(R[0], 0.5*AU, 1) || !floats.EqualWithinAbs(R[1], 0, 1e-3) || !floats.EqualWithinAbs(R[2], 0, 1e-3) {
		t.Fatalf("periapsis position %+v", R)
	}
	if radialV := dot(unit(R), V); !floats.EqualWithinAbs(radialV, 0, 1e-9) {
		t.Fatalf("radial velocity at periapsis: %f", radialV)
	}
	if !floats.EqualWithinAbs(V[1], 51.58859954, 1e-6) {
		t.Fatalf("transverse speed at periapsis: %f", V[1])
	}
}

func TestOrbitHyperbolicScenario(t *testing.T) {
	o, err := NewOrbitFromOE(-AU, 1.5, 0, 0, 0, 0, testEpoch, Sun)
	if err != nil {
		t.Fatal(err)
	}
	if !floats.EqualWithinAbs(o.Periapsis(), 0.5*AU, 1) {
		t.Fatalf("hyperbolic periapsis %f", o.Periapsis())
	}
	if !math.IsInf(o.Apoapsis(), 1) {
		t.Fatalf("hyperbolic apoapsis must be +Inf, got %f", o.Apoapsis())
	}
	if _, hasPeriod := o.Period(); hasPeriod {
		t.Fatal("open orbit cannot have a period")
	}
}

func TestOrbitHyperbolicMeanAnomalyMonotonic(t *testing.T) {
	o, err := NewOrbitFromOE(-AU, 2.0, 5, 10, 20, -2, testEpoch, Sun)
	if err != nil {
		t.Fatal(err)
	}
	prev := math.Inf(-1)
	for d := 0; d < 400; d += 5 {
		M := o.MeanAnomalyAt(testEpoch.Add(time.Duration(d) * 24 * time.Hour))
		if M <= prev {
			t.Fatalf("mean anomaly not strictly monotonic at day %d: %f <= %f", d, M, prev)
		}
		prev = M
	}
}

func TestOrbitIdempotence(t *testing.T) {
	o, err := NewOrbitFromOE(1.2*AU, 0.3, 3, 45, 90, 1.0, testEpoch, Sun)
	if err != nil {
		t.Fatal(err)
	}
	dt := testEpoch.Add(37 * 24 * time.Hour)
	R1, V1 := o.RVAt(dt)
	R2, V2 := o.RVAt(dt)
	for j := 0; j < 3; j++ {
		if R1[j] != R2[j] || V1[j] != V2[j] {
			t.Fatal("identical inputs must yield bit identical output")
		}
	}
}

func TestOrbitContractViolations(t *testing.T) {
	if _, err := NewOrbitFromOE(AU, 0.5, 0, 0, 0, 0, testEpoch, CelestialObject{Name: "noμ"}); err == nil {
		t.Fatal("zero μ must be rejected")
	}
	if _, err := NewOrbitFromOE(AU, 1.5, 0, 0, 0, 0, testEpoch, Sun); err == nil {
		t.Fatal("a>0 with e>1 must be rejected")
	}
	if _, err := NewOrbitFromOE(-AU, 0.5, 0, 0, 0, 0, testEpoch, Sun); err == nil {
		t.Fatal("a<0 with e<1 must be rejected")
	}
	if _, err := NewOrbitFromRV([]float64{0, 0, 0}, []float64{1, 1, 1}, testEpoch, Sun); err == nil {
		t.Fatal("nil position must be rejected")
	}
	if _, err := NewOrbitFromRV([]float64{AU, 0, 0}, []float64{math.NaN(), 0, 0}, testEpoch, Sun); err == nil {
		t.Fatal("non finite velocity must be rejected")
	}
}

func TestOrbitEquality(t *testing.T) {
	o1, _ := NewOrbitFromOE(226090298.679, 0.088, 26.195, 3.516, 326.494, 1.0, testEpoch, Sun)
	o2, _ := NewOrbitFromOE(226090290.608, 0.088, 26.195, 3.516, 326.494, 2.5, testEpoch, Sun)
	if ok, err := o1.Equals(*o2); !ok {
		t.Fatalf("orbits not equal: %s", err)
	}
	o2.ω += math.Pi / 6
	if ok, _ := o1.Equals(*o2); ok {
		t.Fatal("orbits of different ω are equal")
	}
	o2.ω -= math.Pi / 6 // Reset
	o2.Origin = Earth
	if ok, _ := o1.Equals(*o2); ok {
		t.Fatal("orbits of different origins are equal")
	}
}

func TestRadii2ae(t *testing.T) {
	a, e := Radii2ae(4, 2)
	if !floats.EqualWithinAbs(a, 3.0, 1e-12) {
		t.Fatalf("a=%f instead of 3.0", a)
	}
	if !floats.EqualWithinAbs(e, 1/3.0, 1e-12) {
		t.Fatalf("e=%f instead of 1/3", e)
	}
	assertPanic(t, func() {
		Radii2ae(1, 2)
	})
}
