/*
Copyright © 2021 the InMAP authors.
This file is part of InMAP.

InMAP is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

InMAP is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with InMAP.  If not, see <http://www.gnu.org/licenses/>.
*/

package numeric

import (
	"math"
	"testing"
)

func TestSafeDifference(t *testing.T) {
	inf := math.Inf(1)
	for _, test := range []struct{ a, b, want float64 }{
		{1, 1, 0},
		{inf, inf, 0},
		{3, 1, 2},
		{-1, 2, -3},
	} {
		got := SafeDifference(test.a, test.b)
		if got != test.want || math.Signbit(got) != math.Signbit(test.want) {
			t.Errorf("SafeDifference(%g, %g) = %g; want %g", test.a, test.b, got, test.want)
		}
	}
}

func TestSafeQuotient(t *testing.T) {
	for _, test := range []struct{ n, d, want float64 }{
		{0, 5, 0},
		{0, -5, 0},
		{7, 7, 1},
		{-7, 7, -1},
		{1, 4, 0.25},
	} {
		if got := SafeQuotient(test.n, test.d); got != test.want {
			t.Errorf("SafeQuotient(%g, %g) = %g; want %g", test.n, test.d, got, test.want)
		}
	}
	defer func() {
		if recover() == nil {
			t.Error("SafeQuotient with zero denominator should panic")
		}
	}()
	SafeQuotient(1, 0)
}

func TestWithinTolerance(t *testing.T) {
	nan := math.NaN()
	for _, test := range []struct {
		x, y, tol float64
		want      bool
	}{
		{1, 1, 0, true},
		{nan, nan, 0, true},
		{nan, 1, 0.1, false},
		{0, 1e-7, 1e-6, true},
		{0, -1e-5, 1e-6, false},
		{1e-7, 0, 1e-6, true},
		{1, 1 + 1e-7, 1e-6, true},
		{1e20, 1e20 * (1 + 1e-7), 1e-6, true},
		{1e20, 1e20 * (1 + 1e-5), 1e-6, false},
		{-1e20, -1e20 * (1 + 1e-7), 1e-6, true},
		{1e20, -1e20, 0.1, false},
		{math.MaxFloat64, math.SmallestNonzeroFloat64, 0.1, false},
		{math.Inf(1), math.MaxFloat64, 0.1, false},
	} {
		if got := WithinTolerance(test.x, test.y, test.tol); got != test.want {
			t.Errorf("WithinTolerance(%g, %g, %g) = %v; want %v", test.x, test.y, test.tol, got, test.want)
		}
	}
}

func TestWithinToleranceSymmetric(t *testing.T) {
	values := []float64{0, -0, 1e-9, -1e-7, 1e-6, 0.5, 1, 1.0000001, -1, 1e10,
		1e10 + 1, 1e300, math.Inf(1), math.Inf(-1), math.NaN(), math.SmallestNonzeroFloat64}
	for _, tol := range []float64{0, 1e-9, 1e-6, 0.01, 0.1} {
		for _, x := range values {
			for _, y := range values {
				if WithinTolerance(x, y, tol) != WithinTolerance(y, x, tol) {
					t.Errorf("WithinTolerance not symmetric for x=%g, y=%g, tol=%g", x, y, tol)
				}
			}
		}
	}
}

func TestWithinToleranceNotTransitive(t *testing.T) {
	const tol = 0.01
	x, y, z := 0.0, -tol, tol
	if !WithinTolerance(x, y, tol) || !WithinTolerance(x, z, tol) {
		t.Error("0 should be within tolerance of ±tol")
	}
	if WithinTolerance(y, z, tol) {
		t.Error("-tol and +tol should not be within tolerance of each other")
	}
}

func TestWithinToleranceBadTolerance(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("tolerance outside [0, 0.1] should panic")
		}
	}()
	WithinTolerance(1, 1, 0.5)
}

func TestAboutEqual(t *testing.T) {
	if !AboutEqual(-100, -100.0000000001) {
		t.Error("values should be about equal")
	}
	if AboutEqual(-100, -100.01) {
		t.Error("values should not be about equal")
	}
}

func TestRadiansDegrees(t *testing.T) {
	for _, d := range []float64{-180, -90, -1e-300, 0, 1e-300, 45, 90, 180, 1e300} {
		r := Radians(d)
		if math.Signbit(r) != math.Signbit(d) {
			t.Errorf("Radians(%g) changed sign", d)
		}
		if math.Abs(r) > math.Abs(d) {
			t.Errorf("Radians(%g) = %g grew in magnitude", d, r)
		}
		dd := Degrees(r)
		if math.Abs(dd) < math.Abs(r) {
			t.Errorf("Degrees(%g) = %g shrank in magnitude", r, dd)
		}
		if !AboutEqual(dd, d) {
			t.Errorf("Degrees(Radians(%g)) = %g", d, dd)
		}
	}
}
