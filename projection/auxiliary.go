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

package projection

import (
	"fmt"
	"math"
)

// maxIterations bounds the inverse latitude solvers; they return their
// latest estimate if it has not converged by then.
const (
	maxIterations = 15
	convergence   = 1e-12
)

// eccentricityEpsilon is the eccentricity below which the ellipsoid is
// treated as a sphere by the auxiliary functions.
const eccentricityEpsilon = 1e-7

func checkSine(where string, sinphi float64) {
	if math.IsNaN(sinphi) || sinphi < -1 || sinphi > 1 {
		panic(fmt.Sprintf("projection: %s: sine %g not in [-1, 1]", where, sinphi))
	}
}

func checkEccentricity(where string, e float64) {
	if math.IsNaN(e) || e < 0 || e >= 1 {
		panic(fmt.Sprintf("projection: %s: eccentricity %g not in [0, 1)", where, e))
	}
}

func checkAux(where string, v float64) float64 {
	if math.IsNaN(v) {
		panic(fmt.Sprintf("projection: %s computed NaN", where))
	}
	return v
}

// msfn returns the ratio of the parallel radius to the semi-major axis,
// m = cos φ / sqrt(1 - e² sin² φ).
func msfn(sinphi, cosphi, es float64) float64 {
	checkSine("msfn", sinphi)
	return checkAux("msfn", cosphi/math.Sqrt(1-es*sinphi*sinphi))
}

// qsfn is the authalic function q used by equal-area projections.
// On the sphere it is 2 sin φ.
func qsfn(sinphi, e, oneEs float64) float64 {
	checkSine("qsfn", sinphi)
	checkEccentricity("qsfn", e)
	if e < eccentricityEpsilon {
		return 2 * sinphi
	}
	con := e * sinphi
	return checkAux("qsfn", oneEs*(sinphi/(1-con*con)-(0.5/e)*math.Log((1-con)/(1+con))))
}

// tsfn is the conformal function t used by the Lambert and Mercator
// projections. On the sphere it is tan(π/4 - φ/2).
func tsfn(phi, sinphi, e float64) float64 {
	checkSine("tsfn", sinphi)
	checkEccentricity("tsfn", e)
	con := e * sinphi
	return checkAux("tsfn", math.Tan(0.5*(halfPi-phi))/math.Pow((1-con)/(1+con), 0.5*e))
}

// ssfn is the conformal function used by the oblique and equatorial
// stereographic projections: tan(π/4 + φ/2) scaled by the eccentricity
// term.
func ssfn(phi, sinphi, e float64) float64 {
	checkSine("ssfn", sinphi)
	checkEccentricity("ssfn", e)
	con := e * sinphi
	return checkAux("ssfn", math.Tan(0.5*(halfPi+phi))*math.Pow((1-con)/(1+con), 0.5*e))
}

// asinClamped is asin with its argument clamped to [-1, 1] to absorb
// rounding error.
func asinClamped(x float64) float64 {
	if x > 1 {
		x = 1
	} else if x < -1 {
		x = -1
	}
	return math.Asin(x)
}

// phi1Iterate solves the authalic function q for latitude, as needed by
// the inverse Albers projection on an ellipsoid.
func phi1Iterate(qs, e, oneEs float64) float64 {
	checkEccentricity("phi1Iterate", e)
	phi := asinClamped(0.5 * qs)
	if e < eccentricityEpsilon {
		return phi
	}
	for i := 0; i < maxIterations; i++ {
		sinphi, cosphi := math.Sincos(phi)
		if cosphi == 0 {
			panic("projection: phi1Iterate: cos φ == 0")
		}
		con := e * sinphi
		com := 1 - con*con
		dphi := 0.5 * com * com / cosphi *
			(qs/oneEs - sinphi/com + 0.5/e*math.Log((1-con)/(1+con)))
		phi += dphi
		if math.Abs(dphi) < convergence {
			break
		}
	}
	return checkAux("phi1Iterate", phi)
}

// phi2Iterate solves the conformal function t for latitude, as needed by
// the inverse Lambert and Mercator projections on an ellipsoid.
func phi2Iterate(ts, e float64) float64 {
	checkEccentricity("phi2Iterate", e)
	halfE := 0.5 * e
	phi := halfPi - 2*math.Atan(ts)
	for i := 0; i < maxIterations; i++ {
		con := e * math.Sin(phi)
		dphi := halfPi - 2*math.Atan(ts*math.Pow((1-con)/(1+con), halfE)) - phi
		phi += dphi
		if math.Abs(dphi) < convergence {
			break
		}
	}
	return checkAux("phi2Iterate", phi)
}
