package sailship

import (
	"math"
	"testing"

	"github.com/gonum/floats"
)

func TestRotationIdentity(t *testing.T) {
	v := []float64{1, 2, 3}
	if !vectorsEqual(Rot313Vec(0, 0, 0, v), v) {
		t.Fatal("zero rotation must be the identity")
	}
}

func TestR1R3(t *testing.T) {
	// A quarter turn about the third axis maps x onto -y (frame rotation).
	if !vectorsEqual(MxV33(R3(math.Pi/2), []float64{1, 0, 0}), []float64{0, -1, 0}) {
		t.Fatal("R3 quarter turn")
	}
	// A quarter turn about the first axis maps y onto -z.
	if !vectorsEqual(MxV33(R1(math.Pi/2), []float64{0, 1, 0}), []float64{0, 0, -1}) {
		t.Fatal("R1 quarter turn")
	}
}

func TestRotationPreservesNorm(t *testing.T) {
	v := []float64{3, -4, 12}
	for _, θ := range []float64{0.1, 1.0, 2.5} {
		r := Rot313Vec(θ, θ/2, -θ, v)
		if !floats.EqualWithinAbs(norm(r), norm(v), 1e-12) {
			t.Fatalf("rotation by %f changed the norm: %f", θ, norm(r))
		}
	}
}

func TestPQW2ECI(t *testing.T) {
	// With ω=Ω=0 and i=90°, the perifocal q axis maps onto inertial z.
	out := PQW2ECI(math.Pi/2, 0, 0, []float64{0, 1, 0})
	if !vectorsEqual(out, []float64{0, 0, 1}) {
		t.Fatalf("q axis mapped to %+v", out)
	}
	// A pure ω rotation spins the orbit within its plane.
	out = PQW2ECI(0, math.Pi/2, 0, []float64{1, 0, 0})
	if !vectorsEqual(out, []float64{0, 1, 0}) {
		t.Fatalf("p axis mapped to %+v", out)
	}
}
