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

// Package numeric holds the tolerant floating-point helpers used by the
// projection and regridding code.
package numeric

import (
	"fmt"
	"math"
)

// DefaultTolerance is the tolerance used by AboutEqual.
const DefaultTolerance = 1e-6

// IsNaN reports whether x is unequal to itself.
func IsNaN(x float64) bool { return x != x }

// SafeDifference returns a - b, or exactly 0 when a == b so that
// equal infinities and signed zeros do not leak into results.
func SafeDifference(a, b float64) float64 {
	if a == b {
		return 0
	}
	return a - b
}

// SafeQuotient returns n / d, returning exact results for the common
// cases n == 0 and n == ±d. It panics if d is zero.
func SafeQuotient(n, d float64) float64 {
	if d == 0 {
		panic("numeric: SafeQuotient: zero denominator")
	}
	switch {
	case n == 0:
		return 0
	case n == d:
		return 1
	case n == -d:
		return -1
	}
	return n / d
}

// WithinTolerance reports whether x and y are equal within tol, which
// must be in [0, 0.1]. Bitwise-identical values (including NaNs) are
// always equal. Values near zero are compared absolutely, as are values
// within tol of each other. Otherwise same-signed values are compared
// by the ratio of the smaller to the larger magnitude, which cannot
// overflow.
//
// The relation is symmetric but not transitive: with x = 0, y = -tol
// and z = tol, x is within tolerance of both y and z but y and z are
// not within tolerance of each other.
func WithinTolerance(x, y, tol float64) bool {
	if IsNaN(tol) || tol < 0 || tol > 0.1 {
		panic(fmt.Sprintf("numeric: WithinTolerance: tolerance %g not in [0, 0.1]", tol))
	}
	if math.Float64bits(x) == math.Float64bits(y) {
		return true
	}
	switch {
	case x == 0:
		return inRange(y, -tol, tol)
	case y == 0:
		return inRange(x, -tol, tol)
	case inRange(x, y-tol, y+tol), inRange(y, x-tol, x+tol):
		return true
	case (x > 0) != (y > 0):
		return false
	}
	ax, ay := math.Abs(x), math.Abs(y)
	if math.IsInf(ax, 0) || math.IsInf(ay, 0) {
		return false
	}
	ratio := math.Min(ax, ay) / math.Max(ax, ay)
	return 1-ratio <= tol
}

// AboutEqual is WithinTolerance with DefaultTolerance.
func AboutEqual(x, y float64) bool {
	return WithinTolerance(x, y, DefaultTolerance)
}

func inRange(x, lo, hi float64) bool { return x >= lo && x <= hi }

// Radians converts degrees to radians.
func Radians(degrees float64) float64 {
	return degrees * (math.Pi / 180)
}

// Degrees converts radians to degrees.
func Degrees(radians float64) float64 {
	return radians * (180 / math.Pi)
}
