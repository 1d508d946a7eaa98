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

// An Ellipsoid approximates the shape of the planet by its equatorial
// (major) and polar (minor) semi-axes in meters. The zero value is not
// valid; use NewEllipsoid.
type Ellipsoid struct {
	major, minor float64
	e, es        float64
}

// Commonly used ellipsoids.
var (
	// Sphere is the 6370997 m sphere used by MM5, WRF and CMAQ grids.
	Sphere = mustEllipsoid(6370997, 6370997)
	// WGS84 is the World Geodetic System 1984 ellipsoid.
	WGS84 = mustEllipsoid(6378137, 6356752.314245)
	// GRS80 is the Geodetic Reference System 1980 ellipsoid.
	GRS80 = mustEllipsoid(6378137, 6356752.314140)
)

// NewEllipsoid returns an ellipsoid with the given semi-axes, which
// must be finite with major >= minor > 0.
func NewEllipsoid(majorSemiaxis, minorSemiaxis float64) (Ellipsoid, error) {
	if !isFinite(majorSemiaxis) || !isFinite(minorSemiaxis) ||
		!(minorSemiaxis > 0) || majorSemiaxis < minorSemiaxis {
		return Ellipsoid{}, fmt.Errorf("projection: ellipsoid semi-axes (%g, %g) must satisfy major >= minor > 0: %w",
			majorSemiaxis, minorSemiaxis, ErrInvalid)
	}
	r := minorSemiaxis / majorSemiaxis
	es := 1 - r*r
	return Ellipsoid{
		major: majorSemiaxis,
		minor: minorSemiaxis,
		es:    es,
		e:     math.Sqrt(es),
	}, nil
}

func mustEllipsoid(major, minor float64) Ellipsoid {
	e, err := NewEllipsoid(major, minor)
	if err != nil {
		panic(err)
	}
	return e
}

// MajorSemiaxis returns the equatorial radius [m].
func (e Ellipsoid) MajorSemiaxis() float64 { return e.major }

// MinorSemiaxis returns the polar radius [m].
func (e Ellipsoid) MinorSemiaxis() float64 { return e.minor }

// Eccentricity is in [0, 1) and is 0 for a sphere.
func (e Ellipsoid) Eccentricity() float64 { return e.e }

// EccentricitySquared returns the square of Eccentricity.
func (e Ellipsoid) EccentricitySquared() float64 { return e.es }

// IsSphere reports whether the semi-axes are equal.
func (e Ellipsoid) IsSphere() bool { return e.major == e.minor }

// Valid reports whether e was created by NewEllipsoid.
func (e Ellipsoid) Valid() bool { return e.minor > 0 && e.major >= e.minor }

// Equal reports whether both semi-axes are about equal.
func (e Ellipsoid) Equal(o Ellipsoid) bool {
	return numeric.AboutEqual(e.major, o.major) && numeric.AboutEqual(e.minor, o.minor)
}

func (e Ellipsoid) String() string {
	return fmt.Sprintf("Ellipsoid{major: %g, minor: %g}", e.major, e.minor)
}

func isFinite(x float64) bool { return !math.IsNaN(x) && !math.IsInf(x, 0) }
