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

// MercatorParams holds the parameters of the Mercator projection.
type MercatorParams struct {
	Ellipsoid        Ellipsoid
	CentralLongitude float64 // degrees
	FalseEasting     float64 // meters
	FalseNorthing    float64 // meters
}

// Mercator is the normal-aspect Mercator cylindrical conformal projection,
// true to scale on the equator.
type Mercator struct {
	base
	params MercatorParams
}

// NewMercator returns a Mercator projection with the given parameters.
func NewMercator(p MercatorParams) (*Mercator, error) {
	b, err := newBase(p.Ellipsoid, p.CentralLongitude, p.FalseEasting, p.FalseNorthing)
	if err != nil {
		return nil, err
	}
	return &Mercator{base: b, params: p}, nil
}

// Project implements Projector.
func (m *Mercator) Project(lon, lat float64) (x, y float64) {
	lambda, phi := m.forwardAngles(lon, lat)
	if m.ellipsoid.e < eccentricityEpsilon {
		y = math.Log(math.Tan(quarterPi + 0.5*phi))
	} else {
		y = -math.Log(tsfn(phi, math.Sin(phi), m.ellipsoid.e))
	}
	return m.scale(lambda, y)
}

// Unproject implements Projector.
func (m *Mercator) Unproject(x, y float64) (lon, lat float64) {
	x, y = m.unscale(x, y)
	ts := math.Exp(-y)
	var phi float64
	if m.ellipsoid.e < eccentricityEpsilon {
		phi = halfPi - 2*math.Atan(ts)
	} else {
		phi = phi2Iterate(ts, m.ellipsoid.e)
	}
	return m.inverseAngles(x, phi)
}

// Params returns the projection parameters.
func (m *Mercator) Params() MercatorParams { return m.params }

// Name implements Projector.
func (m *Mercator) Name() string { return "Mercator" }

// Proj4 implements Projector.
func (m *Mercator) Proj4() string {
	return fmt.Sprintf("+proj=merc +lon_0=%s +x_0=%s +y_0=%s +a=%s +b=%s +units=m +no_defs",
		ftoa(m.params.CentralLongitude), ftoa(m.params.FalseEasting), ftoa(m.params.FalseNorthing),
		ftoa(m.ellipsoid.major), ftoa(m.ellipsoid.minor))
}

// Equal implements Projector.
func (m *Mercator) Equal(p Projector) bool {
	o, ok := p.(*Mercator)
	return ok && m.base.equal(&o.base)
}

// Clone implements Projector.
func (m *Mercator) Clone() Projector {
	o := *m
	return &o
}

// SetEllipsoid implements Projector.
func (m *Mercator) SetEllipsoid(e Ellipsoid) error {
	p := m.params
	p.Ellipsoid = e
	return m.reset(p)
}

// SetFalseEasting implements Projector.
func (m *Mercator) SetFalseEasting(v float64) error {
	p := m.params
	p.FalseEasting = v
	return m.reset(p)
}

// SetFalseNorthing implements Projector.
func (m *Mercator) SetFalseNorthing(v float64) error {
	p := m.params
	p.FalseNorthing = v
	return m.reset(p)
}

func (m *Mercator) reset(p MercatorParams) error {
	o, err := NewMercator(p)
	if err != nil {
		return err
	}
	*m = *o
	return nil
}
