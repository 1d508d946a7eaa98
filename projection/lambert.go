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

	"github.com/spatialmodel/regrid/numeric"
)

// Lambert is the Lambert conformal conic projection.
type Lambert struct {
	base
	params ConicParams

	n, c, rho0 float64
}

// NewLambert returns a Lambert projection with the given parameters.
func NewLambert(p ConicParams) (*Lambert, error) {
	b, err := p.validate()
	if err != nil {
		return nil, err
	}
	l := &Lambert{base: b, params: p}
	if err := l.initialize(); err != nil {
		return nil, err
	}
	return l, nil
}

func (l *Lambert) initialize() error {
	e := l.ellipsoid.e
	es := l.ellipsoid.es
	phi1 := numeric.Radians(l.params.LowerLatitude)
	phi2 := numeric.Radians(l.params.UpperLatitude)
	phi0 := numeric.Radians(l.params.CentralLatitude)

	sin1, cos1 := math.Sincos(phi1)
	m1 := msfn(sin1, cos1, es)
	t1 := tsfn(phi1, sin1, e)
	if numeric.AboutEqual(l.params.LowerLatitude, l.params.UpperLatitude) {
		l.n = sin1
	} else {
		sin2, cos2 := math.Sincos(phi2)
		m2 := msfn(sin2, cos2, es)
		t2 := tsfn(phi2, sin2, e)
		l.n = math.Log(m1/m2) / math.Log(t1/t2)
	}
	l.c = m1 * math.Pow(t1, -l.n) / l.n

	if math.Abs(math.Abs(phi0)-halfPi) < 1e-10 && phi0*l.n < 0 {
		return fmt.Errorf("projection: Lambert central latitude %g is the apex of the opposite cone: %w",
			l.params.CentralLatitude, ErrInvalid)
	}
	l.rho0 = l.rho(phi0)
	return nil
}

func (l *Lambert) rho(phi float64) float64 {
	if math.Abs(math.Abs(phi)-halfPi) < 1e-10 && phi*l.n > 0 {
		return 0
	}
	return checkAux("Lambert rho", l.c*math.Pow(tsfn(phi, math.Sin(phi), l.ellipsoid.e), l.n))
}

// Project implements Projector.
func (l *Lambert) Project(lon, lat float64) (x, y float64) {
	lambda, phi := l.forwardAngles(lon, lat)
	rho := l.rho(phi)
	sint, cost := math.Sincos(l.n * lambda)
	return l.scale(rho*sint, l.rho0-rho*cost)
}

// Unproject implements Projector.
func (l *Lambert) Unproject(x, y float64) (lon, lat float64) {
	x, y = l.unscale(x, y)
	y = l.rho0 - y
	rho := math.Hypot(x, y)
	if rho == 0 {
		return l.inverseAngles(0, math.Copysign(halfPi, l.n))
	}
	if l.n < 0 {
		rho, x, y = -rho, -x, -y
	}
	var phi float64
	if l.ellipsoid.e < eccentricityEpsilon {
		phi = 2*math.Atan(math.Pow(l.c/rho, 1/l.n)) - halfPi
	} else {
		phi = phi2Iterate(math.Pow(rho/l.c, 1/l.n), l.ellipsoid.e)
	}
	return l.inverseAngles(math.Atan2(x, y)/l.n, phi)
}

// Params returns the projection parameters.
func (l *Lambert) Params() ConicParams { return l.params }

// LowerLatitude returns the lower standard parallel [degrees].
func (l *Lambert) LowerLatitude() float64 { return l.params.LowerLatitude }

// UpperLatitude returns the upper standard parallel [degrees].
func (l *Lambert) UpperLatitude() float64 { return l.params.UpperLatitude }

// CentralLatitude returns the latitude of the projection origin [degrees].
func (l *Lambert) CentralLatitude() float64 { return l.params.CentralLatitude }

// Name implements Projector.
func (l *Lambert) Name() string { return "Lambert" }

// Proj4 implements Projector.
func (l *Lambert) Proj4() string { return l.params.proj4("lcc") }

// Equal implements Projector.
func (l *Lambert) Equal(p Projector) bool {
	o, ok := p.(*Lambert)
	return ok && l.base.equal(&o.base) && l.params.equal(o.params)
}

// Clone implements Projector.
func (l *Lambert) Clone() Projector {
	o := *l
	return &o
}

// SetEllipsoid implements Projector.
func (l *Lambert) SetEllipsoid(e Ellipsoid) error {
	p := l.params
	p.Ellipsoid = e
	return l.reset(p)
}

// SetFalseEasting implements Projector.
func (l *Lambert) SetFalseEasting(v float64) error {
	p := l.params
	p.FalseEasting = v
	return l.reset(p)
}

// SetFalseNorthing implements Projector.
func (l *Lambert) SetFalseNorthing(v float64) error {
	p := l.params
	p.FalseNorthing = v
	return l.reset(p)
}

func (l *Lambert) reset(p ConicParams) error {
	o, err := NewLambert(p)
	if err != nil {
		return err
	}
	*l = *o
	return nil
}
