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

// StereographicParams holds the parameters of the Stereographic projection.
type StereographicParams struct {
	Ellipsoid        Ellipsoid
	CentralLongitude float64 // degrees
	CentralLatitude  float64 // degrees
	// SecantLatitude is the latitude of true scale [degrees]. Its
	// magnitude is used, so 90 gives a tangent plane.
	SecantLatitude float64
	FalseEasting   float64 // meters
	FalseNorthing  float64 // meters
}

type aspect int

const (
	northPolar aspect = iota
	southPolar
	equatorial
	oblique
)

// Stereographic is the Stereographic azimuthal conformal projection in
// its polar, equatorial and oblique aspects.
type Stereographic struct {
	base
	params StereographicParams

	aspect         aspect
	akm1           float64
	sinX1, cosX1   float64 // conformal latitude of the center (ellipsoid)
	sinph0, cosph0 float64 // latitude of the center (sphere)
}

// NewStereographic returns a Stereographic projection with the given
// parameters.
func NewStereographic(p StereographicParams) (*Stereographic, error) {
	b, err := newBase(p.Ellipsoid, p.CentralLongitude, p.FalseEasting, p.FalseNorthing)
	if err != nil {
		return nil, err
	}
	if err := checkLatitude("central latitude", p.CentralLatitude); err != nil {
		return nil, err
	}
	if err := checkLatitude("secant latitude", p.SecantLatitude); err != nil {
		return nil, err
	}
	s := &Stereographic{base: b, params: p}
	s.initialize()
	return s, nil
}

func (s *Stereographic) initialize() {
	const eps = 1e-10
	e := s.ellipsoid.e
	phi0 := numeric.Radians(s.params.CentralLatitude)
	phits := math.Abs(numeric.Radians(s.params.SecantLatitude))
	// k0 is the scale at the center that makes the scale true
	// at the secant latitude in the polar aspects.
	k0 := 0.5 * (1 + math.Sin(phits))

	switch t := math.Abs(phi0); {
	case math.Abs(t-halfPi) < eps && phi0 < 0:
		s.aspect = southPolar
	case math.Abs(t-halfPi) < eps:
		s.aspect = northPolar
	case t > eps:
		s.aspect = oblique
	default:
		s.aspect = equatorial
	}

	if e < eccentricityEpsilon {
		switch s.aspect {
		case northPolar, southPolar:
			if math.Abs(phits-halfPi) >= eps {
				s.akm1 = math.Cos(phits) / math.Tan(quarterPi-0.5*phits)
			} else {
				s.akm1 = 2
			}
		default:
			s.sinph0, s.cosph0 = math.Sincos(phi0)
			s.akm1 = 2 * k0
		}
		return
	}
	switch s.aspect {
	case northPolar, southPolar:
		if math.Abs(phits-halfPi) < eps {
			s.akm1 = 2 / math.Sqrt(math.Pow(1+e, 1+e)*math.Pow(1-e, 1-e))
		} else {
			sints, costs := math.Sincos(phits)
			t := e * sints
			s.akm1 = costs / tsfn(phits, sints, e) / math.Sqrt(1-t*t)
		}
	default:
		sinph0 := math.Sin(phi0)
		x := 2*math.Atan(ssfn(phi0, sinph0, e)) - halfPi
		t := e * sinph0
		s.akm1 = 2 * k0 * math.Cos(phi0) / math.Sqrt(1-t*t)
		s.sinX1, s.cosX1 = math.Sincos(x)
	}
}

// Project implements Projector.
func (s *Stereographic) Project(lon, lat float64) (x, y float64) {
	lambda, phi := s.forwardAngles(lon, lat)
	if s.ellipsoid.e < eccentricityEpsilon {
		x, y = s.forwardSphere(lambda, phi)
	} else {
		x, y = s.forwardEllipsoid(lambda, phi)
	}
	return s.scale(x, y)
}

func (s *Stereographic) forwardSphere(lambda, phi float64) (x, y float64) {
	sinphi, cosphi := math.Sincos(phi)
	sinlam, coslam := math.Sincos(lambda)
	switch s.aspect {
	case equatorial, oblique:
		var d float64
		if s.aspect == equatorial {
			d = 1 + cosphi*coslam
		} else {
			d = 1 + s.sinph0*sinphi + s.cosph0*cosphi*coslam
		}
		if d <= 1e-10 {
			panic("projection: Stereographic: point is antipodal to the center")
		}
		a := s.akm1 / d
		x = a * cosphi * sinlam
		if s.aspect == equatorial {
			y = a * sinphi
		} else {
			y = a * (s.cosph0*sinphi - s.sinph0*cosphi*coslam)
		}
	case northPolar:
		coslam = -coslam
		phi = -phi
		fallthrough
	case southPolar:
		r := s.akm1 * math.Tan(quarterPi+0.5*phi)
		x = sinlam * r
		y = coslam * r
	}
	return x, y
}

func (s *Stereographic) forwardEllipsoid(lambda, phi float64) (x, y float64) {
	e := s.ellipsoid.e
	sinlam, coslam := math.Sincos(lambda)
	sinphi := math.Sin(phi)
	switch s.aspect {
	case equatorial, oblique:
		sinX, cosX := math.Sincos(2*math.Atan(ssfn(phi, sinphi, e)) - halfPi)
		var a float64
		if s.aspect == equatorial {
			d := 1 + cosX*coslam
			if d == 0 {
				panic("projection: Stereographic: point is antipodal to the center")
			}
			a = s.akm1 / d
			y = a * sinX
		} else {
			d := s.cosX1 * (1 + s.sinX1*sinX + s.cosX1*cosX*coslam)
			if d == 0 {
				panic("projection: Stereographic: point is antipodal to the center")
			}
			a = s.akm1 / d
			y = a * (s.cosX1*sinX - s.sinX1*cosX*coslam)
		}
		x = a * cosX
	case southPolar:
		phi, coslam, sinphi = -phi, -coslam, -sinphi
		fallthrough
	case northPolar:
		x = s.akm1 * tsfn(phi, sinphi, e)
		y = -x * coslam
	}
	return x * sinlam, y
}

// Unproject implements Projector.
func (s *Stereographic) Unproject(x, y float64) (lon, lat float64) {
	x, y = s.unscale(x, y)
	var lambda, phi float64
	if s.ellipsoid.e < eccentricityEpsilon {
		lambda, phi = s.inverseSphere(x, y)
	} else {
		lambda, phi = s.inverseEllipsoid(x, y)
	}
	return s.inverseAngles(lambda, phi)
}

func (s *Stereographic) inverseSphere(x, y float64) (lambda, phi float64) {
	const eps = 1e-10
	phi0 := numeric.Radians(s.params.CentralLatitude)
	rh := math.Hypot(x, y)
	// c is the angular distance from the center.
	sinc, cosc := math.Sincos(2 * math.Atan(rh/s.akm1))
	switch s.aspect {
	case equatorial:
		if rh > eps {
			phi = math.Asin(y * sinc / rh)
		}
		if cosc != 0 || x != 0 {
			lambda = math.Atan2(x*sinc, cosc*rh)
		}
	case oblique:
		if rh <= eps {
			phi = phi0
		} else {
			phi = asinClamped(cosc*s.sinph0 + y*sinc*s.cosph0/rh)
		}
		if d := cosc - s.sinph0*math.Sin(phi); d != 0 || x != 0 {
			lambda = math.Atan2(x*sinc*s.cosph0, d*rh)
		}
	case northPolar:
		y = -y
		fallthrough
	case southPolar:
		if rh <= eps {
			phi = phi0
		} else if s.aspect == southPolar {
			phi = asinClamped(-cosc)
		} else {
			phi = asinClamped(cosc)
		}
		if x != 0 || y != 0 {
			lambda = math.Atan2(x, y)
		}
	}
	return lambda, phi
}

func (s *Stereographic) inverseEllipsoid(x, y float64) (lambda, phi float64) {
	e := s.ellipsoid.e
	rho := math.Hypot(x, y)
	var tp, phiL, halfE, halfpi float64
	switch s.aspect {
	case equatorial, oblique:
		tp = 2 * math.Atan2(rho*s.cosX1, s.akm1)
		sinphi, cosphi := math.Sincos(tp)
		if rho == 0 {
			phiL = math.Asin(cosphi * s.sinX1)
		} else {
			phiL = asinClamped(cosphi*s.sinX1 + y*sinphi*s.cosX1/rho)
		}
		tp = math.Tan(0.5 * (halfPi + phiL))
		x *= sinphi
		y = rho*s.cosX1*cosphi - y*s.sinX1*sinphi
		halfpi = halfPi
		halfE = 0.5 * e
	case northPolar:
		y = -y
		fallthrough
	case southPolar:
		tp = -rho / s.akm1
		phiL = halfPi - 2*math.Atan(tp)
		halfpi = -halfPi
		halfE = -0.5 * e
	}
	for i := 0; i < maxIterations; i++ {
		sinphi := e * math.Sin(phiL)
		phi = 2*math.Atan(tp*math.Pow((1+sinphi)/(1-sinphi), halfE)) - halfpi
		if math.Abs(phiL-phi) < convergence {
			break
		}
		phiL = phi
	}
	if s.aspect == southPolar {
		phi = -phi
	}
	if x != 0 || y != 0 {
		lambda = math.Atan2(x, y)
	}
	return lambda, checkAux("Stereographic inverse", phi)
}

// Params returns the projection parameters.
func (s *Stereographic) Params() StereographicParams { return s.params }

// CentralLatitude returns the latitude of the projection center [degrees].
func (s *Stereographic) CentralLatitude() float64 { return s.params.CentralLatitude }

// SecantLatitude returns the latitude of true scale [degrees].
func (s *Stereographic) SecantLatitude() float64 { return s.params.SecantLatitude }

// Name implements Projector.
func (s *Stereographic) Name() string { return "Stereographic" }

// Proj4 implements Projector.
func (s *Stereographic) Proj4() string {
	return fmt.Sprintf("+proj=stere +lat_0=%s +lat_ts=%s +lon_0=%s +x_0=%s +y_0=%s +a=%s +b=%s +units=m +no_defs",
		ftoa(s.params.CentralLatitude), ftoa(s.params.SecantLatitude), ftoa(s.params.CentralLongitude),
		ftoa(s.params.FalseEasting), ftoa(s.params.FalseNorthing), ftoa(s.ellipsoid.major), ftoa(s.ellipsoid.minor))
}

// Equal implements Projector.
func (s *Stereographic) Equal(p Projector) bool {
	o, ok := p.(*Stereographic)
	return ok && s.base.equal(&o.base) &&
		numeric.AboutEqual(s.params.CentralLatitude, o.params.CentralLatitude) &&
		numeric.AboutEqual(s.params.SecantLatitude, o.params.SecantLatitude)
}

// Clone implements Projector.
func (s *Stereographic) Clone() Projector {
	o := *s
	return &o
}

// SetEllipsoid implements Projector.
func (s *Stereographic) SetEllipsoid(e Ellipsoid) error {
	p := s.params
	p.Ellipsoid = e
	return s.reset(p)
}

// SetFalseEasting implements Projector.
func (s *Stereographic) SetFalseEasting(v float64) error {
	p := s.params
	p.FalseEasting = v
	return s.reset(p)
}

// SetFalseNorthing implements Projector.
func (s *Stereographic) SetFalseNorthing(v float64) error {
	p := s.params
	p.FalseNorthing = v
	return s.reset(p)
}

func (s *Stereographic) reset(p StereographicParams) error {
	o, err := NewStereographic(p)
	if err != nil {
		return err
	}
	*s = *o
	return nil
}
