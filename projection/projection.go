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

// Package projection implements the forward and inverse map projections
// used to place longitude-latitude data on model grids: Albers equal-area
// conic, Lambert conformal conic, Mercator and Stereographic, on either
// a sphere or an ellipsoid.
//
// Projectors are small values. Project, Unproject and the accessors do
// not modify the receiver and are safe for concurrent use; the setters
// recompute cached terms in place and are not.
package projection

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/spatialmodel/regrid/numeric"
)

// ErrInvalid is wrapped by the errors returned when a projector is
// constructed or modified with parameters outside their valid ranges.
var ErrInvalid = errors.New("invalid projection parameter")

// Valid coordinate ranges, in degrees.
const (
	MinLongitude = -180.0
	MaxLongitude = 180.0
	MinLatitude  = -90.0
	MaxLatitude  = 90.0

	// MinStandardParallel and MaxStandardParallel bound the magnitude
	// of conic standard parallels.
	MinStandardParallel = 1.0
	MaxStandardParallel = 89.0
)

// nudge is how far [degrees] coordinates on a pole or on the
// antimeridian are moved so that their longitude survives a round trip.
const nudge = 1e-6

const (
	halfPi    = math.Pi / 2
	quarterPi = math.Pi / 4
	twoPi     = 2 * math.Pi
)

// A Projector converts between longitude-latitude [degrees] and
// projected coordinates [meters]. The set of implementations is fixed:
// *Albers, *Lambert, *Mercator and *Stereographic.
type Projector interface {
	// Project converts a longitude-latitude point to x-y. It panics
	// if lon or lat is NaN or outside its valid range.
	Project(lon, lat float64) (x, y float64)

	// Unproject converts an x-y point to longitude-latitude.
	Unproject(x, y float64) (lon, lat float64)

	// Equal reports whether p has the same kind and about-equal
	// parameters.
	Equal(p Projector) bool

	// Clone returns an independent copy.
	Clone() Projector

	// Name returns the projection name, e.g. "Albers".
	Name() string

	// Proj4 returns the Proj4 definition of the projection.
	Proj4() string

	Ellipsoid() Ellipsoid
	CentralLongitude() float64
	FalseEasting() float64
	FalseNorthing() float64

	SetEllipsoid(Ellipsoid) error
	SetFalseEasting(float64) error
	SetFalseNorthing(float64) error

	projector()
}

// base holds the parameters shared by all projections.
type base struct {
	ellipsoid        Ellipsoid
	centralLongitude float64
	falseEasting     float64
	falseNorthing    float64
	lambda0          float64 // central longitude [radians]
}

func newBase(e Ellipsoid, centralLongitude, falseEasting, falseNorthing float64) (base, error) {
	if !e.Valid() {
		return base{}, fmt.Errorf("projection: %v: %w", e, ErrInvalid)
	}
	if err := checkLongitude("central longitude", centralLongitude); err != nil {
		return base{}, err
	}
	if !isFinite(falseEasting) || !isFinite(falseNorthing) {
		return base{}, fmt.Errorf("projection: false easting/northing (%g, %g) must be finite: %w",
			falseEasting, falseNorthing, ErrInvalid)
	}
	return base{
		ellipsoid:        e,
		centralLongitude: centralLongitude,
		falseEasting:     falseEasting,
		falseNorthing:    falseNorthing,
		lambda0:          numeric.Radians(centralLongitude),
	}, nil
}

func (b *base) projector() {}

// Ellipsoid returns the ellipsoid the projection is defined on.
func (b *base) Ellipsoid() Ellipsoid { return b.ellipsoid }

// CentralLongitude returns the longitude of the projection center [degrees].
func (b *base) CentralLongitude() float64 { return b.centralLongitude }

// FalseEasting returns the offset added to projected x values [m].
func (b *base) FalseEasting() float64 { return b.falseEasting }

// FalseNorthing returns the offset added to projected y values [m].
func (b *base) FalseNorthing() float64 { return b.falseNorthing }

func (b *base) equal(o *base) bool {
	return b.ellipsoid.Equal(o.ellipsoid) &&
		numeric.AboutEqual(b.centralLongitude, o.centralLongitude) &&
		numeric.AboutEqual(b.falseEasting, o.falseEasting) &&
		numeric.AboutEqual(b.falseNorthing, o.falseNorthing)
}

// forwardAngles validates a longitude-latitude point and returns the
// longitude offset from the central meridian, normalized to (-π, π],
// and the latitude, both in radians. Points within nudge of a pole or
// of the antimeridian are moved nudge away from it.
func (b *base) forwardAngles(lon, lat float64) (lambda, phi float64) {
	if math.IsNaN(lon) || lon < MinLongitude || lon > MaxLongitude {
		panic(fmt.Sprintf("projection: longitude %g not in [-180, 180]", lon))
	}
	if math.IsNaN(lat) || lat < MinLatitude || lat > MaxLatitude {
		panic(fmt.Sprintf("projection: latitude %g not in [-90, 90]", lat))
	}
	if MaxLatitude-math.Abs(lat) < nudge {
		lat = math.Copysign(MaxLatitude-nudge, lat)
	}
	if MaxLongitude-math.Abs(lon) < nudge {
		lon = math.Copysign(MaxLongitude-nudge, lon)
	}
	return adjustLambda(numeric.Radians(lon) - b.lambda0), numeric.Radians(lat)
}

// inverseAngles converts an inverse result back to degrees relative
// to the central meridian.
func (b *base) inverseAngles(lambda, phi float64) (lon, lat float64) {
	lon = numeric.Degrees(adjustLambda(lambda + b.lambda0))
	lat = numeric.Degrees(phi)
	lat = math.Max(MinLatitude, math.Min(MaxLatitude, lat))
	checkResult(lon, lat)
	return lon, lat
}

// unscale removes the false origin and the semi-major axis from x and y.
func (b *base) unscale(x, y float64) (float64, float64) {
	if math.IsNaN(x) || math.IsNaN(y) {
		panic("projection: Unproject of NaN coordinate")
	}
	a := b.ellipsoid.major
	return numeric.SafeDifference(x, b.falseEasting) / a,
		numeric.SafeDifference(y, b.falseNorthing) / a
}

// scale applies the semi-major axis and false origin to a unit-ellipsoid
// result.
func (b *base) scale(x, y float64) (float64, float64) {
	a := b.ellipsoid.major
	x, y = a*x+b.falseEasting, a*y+b.falseNorthing
	checkResult(x, y)
	return x, y
}

// adjustLambda wraps an angle into (-π, π].
func adjustLambda(lambda float64) float64 {
	for lambda > math.Pi {
		lambda -= twoPi
	}
	for lambda <= -math.Pi {
		lambda += twoPi
	}
	return lambda
}

func checkResult(a, b float64) {
	if math.IsNaN(a) || math.IsNaN(b) {
		panic("projection: computed NaN coordinate")
	}
}

func checkLongitude(name string, lon float64) error {
	if math.IsNaN(lon) || lon < MinLongitude || lon > MaxLongitude {
		return fmt.Errorf("projection: %s %g not in [-180, 180]: %w", name, lon, ErrInvalid)
	}
	return nil
}

func checkLatitude(name string, lat float64) error {
	if math.IsNaN(lat) || lat < MinLatitude || lat > MaxLatitude {
		return fmt.Errorf("projection: %s %g not in [-90, 90]: %w", name, lat, ErrInvalid)
	}
	return nil
}

// checkParallels validates conic standard parallels.
func checkParallels(lower, upper float64) error {
	for _, v := range []float64{lower, upper} {
		a := math.Abs(v)
		if math.IsNaN(v) || a < MinStandardParallel || a > MaxStandardParallel {
			return fmt.Errorf("projection: standard parallel %g must have magnitude in [%g, %g]: %w",
				v, MinStandardParallel, MaxStandardParallel, ErrInvalid)
		}
	}
	if math.Signbit(lower) != math.Signbit(upper) {
		return fmt.Errorf("projection: standard parallels %g and %g must have the same sign: %w",
			lower, upper, ErrInvalid)
	}
	if lower > upper {
		return fmt.Errorf("projection: lower standard parallel %g exceeds upper %g: %w",
			lower, upper, ErrInvalid)
	}
	return nil
}

// ConicParams holds the parameters of the Albers and Lambert projections.
// UpperLatitude equal to LowerLatitude gives the tangent form.
type ConicParams struct {
	Ellipsoid        Ellipsoid
	LowerLatitude    float64 // degrees
	UpperLatitude    float64 // degrees
	CentralLongitude float64 // degrees
	CentralLatitude  float64 // degrees
	FalseEasting     float64 // meters
	FalseNorthing    float64 // meters
}

func (c ConicParams) equal(o ConicParams) bool {
	return numeric.AboutEqual(c.LowerLatitude, o.LowerLatitude) &&
		numeric.AboutEqual(c.UpperLatitude, o.UpperLatitude) &&
		numeric.AboutEqual(c.CentralLatitude, o.CentralLatitude)
}

func (c ConicParams) validate() (base, error) {
	b, err := newBase(c.Ellipsoid, c.CentralLongitude, c.FalseEasting, c.FalseNorthing)
	if err != nil {
		return b, err
	}
	if err := checkParallels(c.LowerLatitude, c.UpperLatitude); err != nil {
		return b, err
	}
	return b, checkLatitude("central latitude", c.CentralLatitude)
}

func (c ConicParams) proj4(name string) string {
	return fmt.Sprintf("+proj=%s +lat_1=%s +lat_2=%s +lat_0=%s +lon_0=%s +x_0=%s +y_0=%s +a=%s +b=%s +units=m +no_defs",
		name, ftoa(c.LowerLatitude), ftoa(c.UpperLatitude), ftoa(c.CentralLatitude), ftoa(c.CentralLongitude),
		ftoa(c.FalseEasting), ftoa(c.FalseNorthing), ftoa(c.Ellipsoid.major), ftoa(c.Ellipsoid.minor))
}

// ftoa formats v without an exponent, which Proj4 parsers would split
// on its '+' sign.
func ftoa(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
