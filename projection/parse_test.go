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
	"testing"

	"github.com/ctessum/geom/proj"
	"github.com/spatialmodel/regrid/numeric"
)

func TestParse(t *testing.T) {
	for _, test := range []struct {
		def  string
		want Projector
	}{
		{
			def: "+proj=lcc +lat_1=33.000000 +lat_2=45.000000 +lat_0=40.000000 +lon_0=-97.000000 +x_0=0 +y_0=0 +a=6370997.000000 +b=6370997.000000 +to_meter=1",
			want: func() Projector {
				l, err := NewLambert(ConicParams{Ellipsoid: Sphere, LowerLatitude: 33, UpperLatitude: 45,
					CentralLongitude: -97, CentralLatitude: 40})
				if err != nil {
					t.Fatal(err)
				}
				return l
			}(),
		},
		{
			def:  "+proj=aea +lat_1=45.5 +lat_2=29.5 +lat_0=23 +lon_0=-96 +a=6370997",
			want: mustAlbers(t, conus(Sphere)),
		},
		{
			def: "+proj=merc +lon_0=20 +y_0=300 +ellps=WGS84",
			want: func() Projector {
				m, err := NewMercator(MercatorParams{Ellipsoid: WGS84, CentralLongitude: 20, FalseNorthing: 300})
				if err != nil {
					t.Fatal(err)
				}
				return m
			}(),
		},
		{
			def: "+proj=stere +lat_0=-90 +lat_ts=-71 +lon_0=0 +x_0=0 +y_0=0 +datum=WGS84 +units=m +no_defs",
			want: func() Projector {
				s, err := NewStereographic(StereographicParams{Ellipsoid: WGS84, CentralLatitude: -90,
					SecantLatitude: -71})
				if err != nil {
					t.Fatal(err)
				}
				return s
			}(),
		},
	} {
		t.Run(test.def, func(t *testing.T) {
			p, err := Parse(test.def)
			if err != nil {
				t.Fatal(err)
			}
			if !p.Equal(test.want) {
				t.Errorf("got %s; want %s", p.Proj4(), test.want.Proj4())
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	for _, def := range []string{
		"",
		"+proj=utm +zone=10 +ellps=WGS84",
		"+proj=merc +lon_0=0 +a=6370997 +units=ft",
		"+proj=merc +lon_0=0 +a=6370997 +k_0=0.9996",
		"+proj=merc +lat_ts=33 +a=6370997",
		"+proj=lcc +lat_1=-33 +lat_2=45 +lat_0=40 +lon_0=-97 +a=6370997",
		"+proj=lcc +lat_0=40 +lon_0=-97 +a=6370997",
		"+proj=aea +lat_1=33 +lat_2=45 +lat_0=40 +lon_0=-97 +a=6370997 +b=6400000",
	} {
		t.Run(def, func(t *testing.T) {
			if p, err := Parse(def); err == nil {
				t.Errorf("expected error; got %s", p.Proj4())
			}
		})
	}
}

func TestProj4RoundTrip(t *testing.T) {
	for name, p := range testProjectors(t) {
		t.Run(name, func(t *testing.T) {
			p2, err := Parse(p.Proj4())
			if err != nil {
				t.Fatal(err)
			}
			if !p.Equal(p2) {
				t.Errorf("%s parsed as %s", p.Proj4(), p2.Proj4())
			}
		})
	}
}

// TestCrossCheck compares forward projections with the independent
// implementation in github.com/ctessum/geom/proj.
func TestCrossCheck(t *testing.T) {
	ps := testProjectors(t)
	for _, name := range []string{
		"albers_sphere", "albers_wgs84", "albers_south_sphere", "albers_south_wgs84",
		"lambert_sphere", "lambert_wgs84", "lambert_tangent_sphere", "lambert_tangent_wgs84",
		"mercator_sphere", "mercator_wgs84",
	} {
		p := ps[name]
		t.Run(name, func(t *testing.T) {
			sr, err := proj.Parse(p.Proj4())
			if err != nil {
				t.Fatal(err)
			}
			forward, _, err := sr.Transformers()
			if err != nil {
				t.Fatal(err)
			}
			for _, pt := range [][2]float64{{-100, 40}, {-96, 23}, {-70, 50}, {-120, 30}, {0, 10}, {25, -35}} {
				x, y := p.Project(pt[0], pt[1])
				wx, wy, err := forward(numeric.Radians(pt[0]), numeric.Radians(pt[1]))
				if err != nil {
					t.Fatal(err)
				}
				if math.Abs(x-wx) > 1e-3 || math.Abs(y-wy) > 1e-3 {
					t.Errorf("(%g, %g): got (%.4f, %.4f); want (%.4f, %.4f)", pt[0], pt[1], x, y, wx, wy)
				}
			}
		})
	}
}

func TestParseExactAngles(t *testing.T) {
	const def = "+proj=aea +lat_1=29.5 +lat_2=45.5 +lat_0=23 +lon_0=-96 +x_0=0 +y_0=0 +a=6370997 +b=6370997"
	p, err := Parse(def)
	if err != nil {
		t.Fatal(err)
	}
	a := p.(*Albers)
	if got, want := a.Params(), conus(Sphere); got != want {
		t.Errorf("params = %+v; want %+v", got, want)
	}
	if x, y := p.Project(-96, 23); x != 0 || y != 0 {
		t.Errorf("center projects to (%g, %g)", x, y)
	}
	want := "+proj=aea +lat_1=29.5 +lat_2=45.5 +lat_0=23 +lon_0=-96 +x_0=0 +y_0=0 +a=6370997 +b=6370997 +units=m +no_defs"
	if got := p.Proj4(); got != want {
		t.Errorf("Proj4() = %q; want %q", got, want)
	}
}

func TestSnapDegrees(t *testing.T) {
	for _, test := range []struct {
		in, want float64
	}{
		{-96.00000000000001, -96},
		{29.500000000000004, 29.5},
		{90.00000000000001, 90},
		{-180.00000000000003, -180},
		{12.3456789, 12.3456789},
		{0, 0},
	} {
		if got := snapDegrees(test.in); got != test.want {
			t.Errorf("snapDegrees(%v) = %v; want %v", test.in, got, test.want)
		}
	}
	if !math.IsNaN(snapDegrees(math.NaN())) {
		t.Error("NaN should stay NaN")
	}
}
