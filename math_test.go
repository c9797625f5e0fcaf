package sailship

import (
	"errors"
	"math"
	"testing"

	"github.com/gonum/floats"
)

// vectorsEqual returns whether both vectors are equal within the distance tolerance.
func vectorsEqual(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !floats.EqualWithinAbs(a[i], b[i], 1e-3) {
			return false
		}
	}
	return true
}

// anglesEqual returns whether two angles in degrees are equal modulo the full circle.
func anglesEqual(a, b float64) (bool, error) {
	diff := math.Mod(math.Abs(a-b), 360)
	if diff < 5e-3 || diff > 360-5e-3 {
		return true, nil
	}
	return false, errors.New("angles differ")
}

func assertPanic(t *testing.T, f func()) {
	t.Helper()
	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected a panic")
		}
	}()
	f()
}

func TestCross(t *testing.T) {
	i := []float64{1, 0, 0}
	j := []float64{0, 1, 0}
	k := []float64{0, 0, 1}
	if !vectorsEqual(cross(i, j), k) {
		t.Fatal("i x j != k")
	}
	if !vectorsEqual(cross(j, k), i) {
		t.Fatal("j x k != i")
	}
	// From Vallado.
	if !vectorsEqual(cross([]float64{6524.834, 6862.875, 6448.296}, []float64{4.901327, 5.533756, -1.976341}), []float64{-4.924667792015100e4, 4.450050424118601e4, 0.246964476137900e4}) {
		t.Fatal("cross fail")
	}
}

func TestUnitAndNorm(t *testing.T) {
	v := []float64{3, 4, 0}
	if !floats.EqualWithinAbs(norm(v), 5, 1e-12) {
		t.Fatalf("|v|=%f", norm(v))
	}
	u := unit(v)
	if !floats.EqualWithinAbs(norm(u), 1, 1e-12) {
		t.Fatal("unit vector is not unit")
	}
	if !vectorsEqual(unit([]float64{0, 0, 0}), []float64{0, 0, 0}) {
		t.Fatal("unit of nil vector must be nil")
	}
}

func TestVectorArithmetic(t *testing.T) {
	a := []float64{1, 2, 3}
	b := []float64{4, 5, 6}
	if !vectorsEqual(add(a, b), []float64{5, 7, 9}) {
		t.Fatal("add fail")
	}
	if !vectorsEqual(sub(b, a), []float64{3, 3, 3}) {
		t.Fatal("sub fail")
	}
	if !vectorsEqual(scale(2, a), []float64{2, 4, 6}) {
		t.Fatal("scale fail")
	}
	if !floats.EqualWithinAbs(dot(a, b), 32, 1e-12) {
		t.Fatal("dot fail")
	}
}

func TestFinite(t *testing.T) {
	if !finite([]float64{1, 2, 3}) {
		t.Fatal("finite vector reported as non finite")
	}
	if finite([]float64{1, math.NaN(), 3}) {
		t.Fatal("NaN not caught")
	}
	if finite([]float64{math.Inf(1), 0, 0}) {
		t.Fatal("Inf not caught")
	}
}

func TestClamp(t *testing.T) {
	if clamp(1.5, -1, 1) != 1 || clamp(-1.5, -1, 1) != -1 || clamp(0.5, -1, 1) != 0.5 {
		t.Fatal("clamp fail")
	}
}

func TestAngles(t *testing.T) {
	for i := 0.0; i < 360; i += 0.5 {
		if ok, _ := anglesEqual(i, Rad2deg(Deg2rad(i))); !ok {
			t.Fatalf("incorrect conversion for %3.2f", i)
		}
	}
	if ok, _ := anglesEqual(1, Rad2deg(Deg2rad(-359.))); !ok {
		t.Fatal("incorrect conversion for -359")
	}
	if ok, _ := anglesEqual(180, Rad2deg(Deg2rad(-180.))); !ok {
		t.Fatal("incorrect conversion for -180")
	}
}
