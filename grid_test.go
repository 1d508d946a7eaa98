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

package regrid

import (
	"errors"
	"math"
	"testing"

	"github.com/spatialmodel/regrid/projection"
)

func different(a, b, tolerance float64) bool {
	if 2*math.Abs(a-b)/math.Abs(a+b) > tolerance || math.IsNaN(a) || math.IsNaN(b) {
		return true
	}
	return false
}

// testGrid returns a 10 × 8 grid of 12 km cells on the CMAQ Albers
// projection, with its southwest corner near Denver.
func testGrid(t testing.TB, v Vertical) *Grid {
	p, err := projection.NewAlbers(projection.ConicParams{
		Ellipsoid:        projection.Sphere,
		LowerLatitude:    29.5,
		UpperLatitude:    45.5,
		CentralLongitude: -96,
		CentralLatitude:  23,
	})
	if err != nil {
		t.Fatal(err)
	}
	g, err := NewGrid(p, 10, 8, -840000, 1680000, 12000, 12000, v)
	if err != nil {
		t.Fatal(err)
	}
	return g
}

// pointAt returns a point at the given offsets [cell units] from the
// center of a cell of g.
func pointAt(g *Grid, column, row int, dx, dy, value float64) Point {
	x, y := g.CellCenter(column, row)
	lon, lat := g.projector.Unproject(x+dx*g.cellWidth, y+dy*g.cellHeight)
	return Point{Longitude: lon, Latitude: lat, Value: value}
}

func TestCellIndex(t *testing.T) {
	g := testGrid(t, Vertical{})
	w, s := g.WestEdge(), g.SouthEdge()
	for _, test := range []struct {
		name     string
		x, y     float64
		col, row int
		ok       bool
	}{
		{"southwest_corner", w, s, 0, 0, true},
		{"just_before_one_cell", w + 12000 - 1e-6, s, 0, 0, true},
		{"one_cell", w + 12000, s, 1, 0, true},
		{"one_row", w, s + 12000, 0, 1, true},
		{"last_cell", w + 10*12000 - 1e-6, s + 8*12000 - 1e-6, 9, 7, true},
		{"east_edge", w + 10*12000, s, 0, 0, false},
		{"north_edge", w, s + 8*12000, 0, 0, false},
		{"west", w - 1e-6, s, 0, 0, false},
		{"south", w, s - 1e-6, 0, 0, false},
		{"nan", math.NaN(), s, 0, 0, false},
		{"far", 1e300, 1e300, 0, 0, false},
	} {
		t.Run(test.name, func(t *testing.T) {
			col, row, dx, dy, ok := g.CellIndex(test.x, test.y)
			if ok != test.ok || col != test.col || row != test.row {
				t.Errorf("got (%d, %d, %v); want (%d, %d, %v)", col, row, ok, test.col, test.row, test.ok)
			}
			if ok && (dx < -0.5 || dx >= 0.5 || dy < -0.5 || dy >= 0.5) {
				t.Errorf("offsets (%g, %g) out of range", dx, dy)
			}
		})
	}
}

func TestProjectXY(t *testing.T) {
	g := testGrid(t, Vertical{})
	points := []Point{
		pointAt(g, 3, 4, 0.25, -0.25, 1),
		pointAt(g, 0, 0, 0, 0, 2),
		{Longitude: 0, Latitude: 0, Value: 3},
	}
	gp, err := g.ProjectXY(points)
	if err != nil {
		t.Fatal(err)
	}
	if !gp[0].Gridded || gp[0].Column != 3 || gp[0].Row != 4 {
		t.Errorf("point 0: %+v", gp[0])
	}
	if different(gp[0].XOffset, 0.25, 1e-6) || different(gp[0].YOffset, -0.25, 1e-6) {
		t.Errorf("point 0 offsets (%g, %g)", gp[0].XOffset, gp[0].YOffset)
	}
	if !gp[1].Gridded || gp[1].Column != 0 || gp[1].Row != 0 {
		t.Errorf("point 1: %+v", gp[1])
	}
	if gp[2].Gridded {
		t.Errorf("point 2 should not be gridded: %+v", gp[2])
	}
	if gp[0].Value != 1 || gp[2].Value != 3 {
		t.Error("point data not carried through")
	}
}

func TestProjectXYInvalid(t *testing.T) {
	g := testGrid(t, Vertical{})
	long := make([]byte, MaxPointNoteLength+1)
	for i := range long {
		long[i] = 'a'
	}
	for _, test := range []struct {
		name string
		p    Point
	}{
		{"longitude", Point{Longitude: 200}},
		{"latitude", Point{Latitude: -95}},
		{"nan", Point{Longitude: math.NaN()}},
		{"weight", Point{Weight: -1}},
		{"note", Point{Note: string(long)}},
	} {
		t.Run(test.name, func(t *testing.T) {
			_, err := g.ProjectXY([]Point{{}, test.p})
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("got %v; want ErrInvalid", err)
			}
		})
	}
}

func TestNewGridInvalid(t *testing.T) {
	p := testGrid(t, Vertical{}).Projector()
	for _, test := range []struct {
		name                string
		p                   projection.Projector
		cols, rows          int
		west, south, dx, dy float64
		v                   Vertical
	}{
		{"nil_projector", nil, 1, 1, 0, 0, 1, 1, Vertical{}},
		{"columns", p, 0, 1, 0, 0, 1, 1, Vertical{}},
		{"rows", p, 1, -1, 0, 0, 1, 1, Vertical{}},
		{"width", p, 1, 1, 0, 0, 0, 1, Vertical{}},
		{"height", p, 1, 1, 0, 0, 1, math.NaN(), Vertical{}},
		{"west", p, 1, 1, math.Inf(-1), 0, 1, 1, Vertical{}},
		{"vertical", p, 1, 1, 0, 0, 1, 1, Vertical{Type: HeightAboveSeaLevel, Levels: []float64{0}}},
	} {
		t.Run(test.name, func(t *testing.T) {
			_, err := NewGrid(test.p, test.cols, test.rows, test.west, test.south, test.dx, test.dy, test.v)
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("got %v; want ErrInvalid", err)
			}
		})
	}
}

func TestCellCenterLonLat(t *testing.T) {
	g := testGrid(t, Vertical{})
	lon, lat := g.CellCenterLonLat(4, 2)
	gp, err := g.ProjectXY([]Point{{Longitude: lon, Latitude: lat}})
	if err != nil {
		t.Fatal(err)
	}
	if gp[0].Column != 4 || gp[0].Row != 2 || math.Abs(gp[0].XOffset) > 1e-6 || math.Abs(gp[0].YOffset) > 1e-6 {
		t.Errorf("center maps back to %+v", gp[0])
	}
}

func TestExtent(t *testing.T) {
	g := testGrid(t, Vertical{})
	b := g.Extent()
	for _, c := range [][2]int{{0, 0}, {9, 7}, {5, 3}} {
		lon, lat := g.CellCenterLonLat(c[0], c[1])
		if lon < b.Min.X || lon > b.Max.X || lat < b.Min.Y || lat > b.Max.Y {
			t.Errorf("cell %v center (%g, %g) outside extent %+v", c, lon, lat, b)
		}
	}
	if b.Min.X < -180 || b.Max.X > 180 || b.Min.Y < -90 || b.Max.Y > 90 {
		t.Errorf("extent out of range: %+v", b)
	}
}

func TestGridIsolation(t *testing.T) {
	g := testGrid(t, Vertical{})
	p := g.Projector()
	if err := p.SetFalseEasting(1e5); err != nil {
		t.Fatal(err)
	}
	if g.Projector().FalseEasting() != 0 {
		t.Error("modifying the returned projector changed the grid")
	}
}
