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
	"math"

	"github.com/spatialmodel/regrid/numeric"
)

// Albers is the Albers equal-area conic projection.
type Albers struct {
	base
	params ConicParams

	n, c, rho0, dd float64
	ec             float64 // q at the pole
}

// NewAlbers returns an Albers projection with the given parameters.
func NewAlbers(p ConicParams) (*Albers, error) {
	b, err := p.validate()
	if err != nil {
		return nil, err
	}
	a := &Albers{base: b, params: p}
	a.initialize()
	return a, nil
}

func (a *Albers) initialize() {
	e := a.ellipsoid.e
	es := a.ellipsoid.es
	oneEs := 1 - es
	phi1 := numeric.Radians(a.params.LowerLatitude)
	phi2 := numeric.Radians(a.params.UpperLatitude)

	sin1, cos1 := math.Sincos(phi1)
	m1 := msfn(sin1, cos1, es)
	q1 := qsfn(sin1, e, oneEs)
	if numeric.AboutEqual(a.params.LowerLatitude, a.params.UpperLatitude) {
		a.n = sin1
	} else {
		sin2, cos2 := math.Sincos(phi2)
		m2 := msfn(sin2, cos2, es)
		q2 := qsfn(sin2, e, oneEs)
		a.n = (m1*m1 - m2*m2) / (q2 - q1)
	}
	a.c = m1*m1 + a.n*q1
	a.dd = 1 / a.n
	a.rho0 = a.rho(math.Sin(numeric.Radians(a.params.CentralLatitude)))
	if e < eccentricityEpsilon {
		a.ec = 2
	} else {
		a.ec = 1 - 0.5*oneEs*math.Log((1-e)/(1+e))/e
	}
}

// rho returns the unit-ellipsoid radius of the parallel with sine sinphi.
func (a *Albers) rho(sinphi float64) float64 {
	v := a.c - a.n*qsfn(sinphi, a.ellipsoid.e, 1-a.ellipsoid.es)
	if v < 0 && v > -1e-12 {
		v = 0
	}
	return checkAux("Albers rho", a.dd*math.Sqrt(v))
}

// Project implements Projector.
func (a *Albers) Project(lon, lat float64) (x, y float64) {
	lambda, phi := a.forwardAngles(lon, lat)
	rho := a.rho(math.Sin(phi))
	sint, cost := math.Sincos(a.n * lambda)
	return a.scale(rho*sint, a.rho0-rho*cost)
}

// Unproject implements Projector.
func (a *Albers) Unproject(x, y float64) (lon, lat float64) {
	x, y = a.unscale(x, y)
	y = a.rho0 - y
	rho := math.Hypot(x, y)
	if rho == 0 {
		return a.inverseAngles(0, math.Copysign(halfPi, a.n))
	}
	if a.n < 0 {
		rho, x, y = -rho, -x, -y
	}
	t := rho / a.dd
	q := (a.c - t*t) / a.n
	var phi float64
	switch {
	case a.ellipsoid.e < eccentricityEpsilon:
		phi = asinClamped(0.5 * q)
	case math.Abs(a.ec-math.Abs(q)) > 1e-7:
		phi = phi1Iterate(q, a.ellipsoid.e, 1-a.ellipsoid.es)
	default:
		phi = math.Copysign(halfPi, q)
	}
	return a.inverseAngles(math.Atan2(x, y)/a.n, phi)
}

// Params returns the projection parameters.
func (a *Albers) Params() ConicParams { return a.params }

// LowerLatitude returns the lower standard parallel [degrees].
func (a *Albers) LowerLatitude() float64 { return a.params.LowerLatitude }

// UpperLatitude returns the upper standard parallel [degrees].
func (a *Albers) UpperLatitude() float64 { return a.params.UpperLatitude }

// CentralLatitude returns the latitude of the projection origin [degrees].
func (a *Albers) CentralLatitude() float64 { return a.params.CentralLatitude }

// Name implements Projector.
func (a *Albers) Name() string { return "Albers" }

// Proj4 implements Projector.
func (a *Albers) Proj4() string { return a.params.proj4("aea") }

// Equal implements Projector.
func (a *Albers) Equal(p Projector) bool {
	o, ok := p.(*Albers)
	return ok && a.base.equal(&o.base) && a.params.equal(o.params)
}

// Clone implements Projector.
func (a *Albers) Clone() Projector {
	o := *a
	return &o
}

// SetEllipsoid implements Projector.
func (a *Albers) SetEllipsoid(e Ellipsoid) error {
	p := a.params
	p.Ellipsoid = e
	return a.reset(p)
}

// SetFalseEasting implements Projector.
func (a *Albers) SetFalseEasting(v float64) error {
	p := a.params
	p.FalseEasting = v
	return a.reset(p)
}

// SetFalseNorthing implements Projector.
func (a *Albers) SetFalseNorthing(v float64) error {
	p := a.params
	p.FalseNorthing = v
	return a.reset(p)
}

func (a *Albers) reset(p ConicParams) error {
	o, err := NewAlbers(p)
	if err != nil {
		return err
	}
	*a = *o
	return nil
}
