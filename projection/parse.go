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
	"strings"

	"github.com/ctessum/geom/proj"
	"github.com/spatialmodel/regrid/numeric"
)

// Parse returns the Projector described by a Proj4 or WKT definition, such
// as the GridProj strings used to describe WRF and CMAQ grids. The
// supported projections are aea, lcc, merc and stere; distances must be
// in meters and the scale factor must be 1.
func Parse(definition string) (Projector, error) {
	sr, err := proj.Parse(definition)
	if err != nil {
		return nil, fmt.Errorf("projection: parsing %q: %v", definition, err)
	}
	return FromSR(sr)
}

// FromSR converts a parsed spatial reference into a Projector.
func FromSR(sr *proj.SR) (Projector, error) {
	if !math.IsNaN(sr.ToMeter) && sr.ToMeter != 1 {
		return nil, fmt.Errorf("projection: unsupported units (to_meter=%g); only meters are supported", sr.ToMeter)
	}
	if !math.IsNaN(sr.K0) && sr.K0 != 1 {
		return nil, fmt.Errorf("projection: unsupported scale factor k_0=%g", sr.K0)
	}
	minor := sr.B
	if math.IsNaN(minor) {
		minor = sr.A
	}
	e, err := NewEllipsoid(sr.A, minor)
	if err != nil {
		return nil, err
	}
	// deg converts a parsed angle back to degrees, snapped to
	// 1/angleScale to remove the degree-radian round trip error.
	deg := func(radians, missing float64) float64 {
		if math.IsNaN(radians) {
			return missing
		}
		return snapDegrees(numeric.Degrees(radians))
	}
	orZero := func(v float64) float64 {
		if math.IsNaN(v) {
			return 0
		}
		return v
	}
	lon0 := deg(sr.Long0, 0)
	lat0 := deg(sr.Lat0, 0)
	x0, y0 := orZero(sr.X0), orZero(sr.Y0)

	switch strings.ToLower(sr.Name) {
	case "aea", "albers", "albers_conic_equal_area", "lcc", "lambert_conformal_conic",
		"lambert_conformal_conic_2sp":
		lat1 := deg(sr.Lat1, math.NaN())
		lat2 := deg(sr.Lat2, lat1)
		lower, upper := math.Min(lat1, lat2), math.Max(lat1, lat2)
		p := ConicParams{
			Ellipsoid:        e,
			LowerLatitude:    lower,
			UpperLatitude:    upper,
			CentralLongitude: lon0,
			CentralLatitude:  lat0,
			FalseEasting:     x0,
			FalseNorthing:    y0,
		}
		if strings.HasPrefix(strings.ToLower(sr.Name), "l") {
			return NewLambert(p)
		}
		return NewAlbers(p)
	case "merc", "mercator", "mercator_1sp":
		if !math.IsNaN(sr.LatTS) && sr.LatTS != 0 {
			return nil, fmt.Errorf("projection: unsupported mercator lat_ts=%g", deg(sr.LatTS, 0))
		}
		return NewMercator(MercatorParams{
			Ellipsoid:        e,
			CentralLongitude: lon0,
			FalseEasting:     x0,
			FalseNorthing:    y0,
		})
	case "stere", "sterea", "polar_stereographic", "stereographic":
		return NewStereographic(StereographicParams{
			Ellipsoid:        e,
			CentralLongitude: lon0,
			CentralLatitude:  lat0,
			SecantLatitude:   deg(sr.LatTS, 90),
			FalseEasting:     x0,
			FalseNorthing:    y0,
		})
	}
	return nil, fmt.Errorf("projection: unsupported projection %q", sr.Name)
}

// angleScale is the inverse of the precision, in degrees, of angles read
// from a Proj4 definition.
const angleScale = 1e9

// snapDegrees rounds d to the nearest 1/angleScale degree. This also
// moves values just beyond ±90 or ±180 back onto the limit.
func snapDegrees(d float64) float64 {
	if math.IsNaN(d) || math.IsInf(d, 0) {
		return d
	}
	return math.Round(d*angleScale) / angleScale
}
