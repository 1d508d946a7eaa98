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
	"fmt"
	"math"
	"sort"

	"github.com/ctessum/geom"
	"github.com/ctessum/sparse"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/regrid/projection"
)

// Quadrilateral is the footprint of a satellite pixel.
type Quadrilateral struct {
	// Longitudes and Latitudes hold the corners in the order southwest,
	// southeast, northwest, northeast.
	Longitudes, Latitudes [4]float64
	Value                 float64
}

// SwathCell is a populated cell of a SwathBinner.
type SwathCell struct {
	Column, Row int
	Mean        float64
	// Count is the number of footprints that overlap the cell and
	// Weight is the sum of their overlap fractions.
	Count               int
	Weight              float64
	Longitude, Latitude float64
}

// minFootprintArea is the smallest footprint area, in squared cell
// units, that is binned.
const minFootprintArea = 1e-12

// minOverlapFraction is the smallest fraction of a footprint that
// counts as overlapping a cell. Smaller overlaps are rounding slivers
// along cell edges.
const minOverlapFraction = 1e-9

// SwathBinner accumulates quadrilateral footprints onto a grid. Each
// footprint contributes to every cell it overlaps with a weight equal to
// the fraction of the footprint area inside the cell. The accumulators
// are sparse, so only cells touched by a footprint use memory.
type SwathBinner struct {
	Grid *Grid

	// Log defaults to logrus.StandardLogger().
	Log logrus.FieldLogger

	// Metrics, if not nil, is updated by Bin.
	Metrics *Metrics

	count, weight, sum, mean *sparse.SparseArray

	binned, degenerate, outside int
}

// NewSwathBinner returns an empty SwathBinner for g.
func NewSwathBinner(g *Grid) *SwathBinner {
	b := &SwathBinner{Grid: g, Log: logrus.StandardLogger()}
	b.Reset()
	return b
}

// Reset discards all accumulated footprints.
func (b *SwathBinner) Reset() {
	b.count = sparse.ZerosSparse(b.Grid.rows, b.Grid.columns)
	b.weight = sparse.ZerosSparse(b.Grid.rows, b.Grid.columns)
	b.sum = sparse.ZerosSparse(b.Grid.rows, b.Grid.columns)
	b.mean = sparse.ZerosSparse(b.Grid.rows, b.Grid.columns)
	b.binned, b.degenerate, b.outside = 0, 0, 0
}

// Stats returns the numbers of footprints binned, skipped as
// degenerate and skipped as outside the grid since the last Reset.
func (b *SwathBinner) Stats() (binned, degenerate, outside int) {
	return b.binned, b.degenerate, b.outside
}

// Bin accumulates quads and returns how many of them overlapped the
// grid. Footprints with no area or a non-finite value are skipped. An
// error wrapping ErrInvalid is returned, before anything is
// accumulated, if any corner is out of range.
func (b *SwathBinner) Bin(quads []Quadrilateral) (int, error) {
	for i, q := range quads {
		for j := 0; j < 4; j++ {
			lon, lat := q.Longitudes[j], q.Latitudes[j]
			if math.IsNaN(lon) || lon < projection.MinLongitude || lon > projection.MaxLongitude ||
				math.IsNaN(lat) || lat < projection.MinLatitude || lat > projection.MaxLatitude {
				return 0, fmt.Errorf("regrid: footprint %d corner %d (%g, %g) out of range: %w",
					i, j, lon, lat, ErrInvalid)
			}
		}
	}
	var binned, degenerate, outside int
	for i := range quads {
		switch b.bin(&quads[i]) {
		case binOK:
			binned++
		case binDegenerate:
			degenerate++
		case binOutside:
			outside++
		}
	}
	b.binned += binned
	b.degenerate += degenerate
	b.outside += outside
	b.Metrics.footprints(binned, degenerate, outside)
	b.log().WithFields(logrus.Fields{
		"footprints": len(quads),
		"binned":     binned,
		"degenerate": degenerate,
		"outside":    outside,
	}).Debug("regrid: binned swath")
	return binned, nil
}

type binResult int

const (
	binOK binResult = iota
	binDegenerate
	binOutside
)

func (b *SwathBinner) bin(q *Quadrilateral) binResult {
	if math.IsNaN(q.Value) || math.IsInf(q.Value, 0) {
		return binDegenerate
	}
	fp := b.footprint(q)
	area := math.Abs(fp.Area())
	if !(area > minFootprintArea) {
		return binDegenerate
	}
	bounds := fp.Bounds()
	c0 := math.Max(0, math.Floor(bounds.Min.X))
	c1 := math.Min(float64(b.Grid.columns-1), math.Floor(bounds.Max.X))
	r0 := math.Max(0, math.Floor(bounds.Min.Y))
	r1 := math.Min(float64(b.Grid.rows-1), math.Floor(bounds.Max.Y))
	if c0 > c1 || r0 > r1 {
		return binOutside
	}
	result := binOutside
	for r := int(r0); r <= int(r1); r++ {
		for c := int(c0); c <= int(c1); c++ {
			x, y := float64(c), float64(r)
			clipped := clipRect(fp[0], x, y, x+1, y+1)
			if len(clipped) < 4 {
				continue
			}
			w := math.Min(math.Abs(geom.Polygon{clipped}.Area())/area, 1)
			if !(w > minOverlapFraction) {
				continue
			}
			b.count.AddVal(1, r, c)
			b.weight.AddVal(w, r, c)
			b.sum.AddVal(w*q.Value, r, c)
			result = binOK
		}
	}
	return result
}

// footprint returns q in grid cell units as a closed counter-clockwise
// ring. Sorting the corners by angle around their centroid undoes any
// crossing in the corner order.
func (b *SwathBinner) footprint(q *Quadrilateral) geom.Polygon {
	g := b.Grid
	ring := make([]geom.Point, 4, 5)
	var cx, cy float64
	for i := range ring {
		x, y := g.projector.Project(q.Longitudes[i], q.Latitudes[i])
		ring[i] = geom.Point{X: (x - g.westEdge) / g.cellWidth, Y: (y - g.southEdge) / g.cellHeight}
		cx += ring[i].X / 4
		cy += ring[i].Y / 4
	}
	angle := func(p geom.Point) float64 { return math.Atan2(p.Y-cy, p.X-cx) }
	sort.SliceStable(ring, func(i, j int) bool { return angle(ring[i]) < angle(ring[j]) })
	ring = append(ring, ring[0])
	return geom.Polygon{ring}
}

// clipRect clips the closed ring to the rectangle [x0, x1]×[y0, y1]
// one edge at a time and returns the closed result, which is empty when
// the ring is outside the rectangle. Edges of the ring that lie on the
// rectangle boundary are kept.
func clipRect(ring geom.Path, x0, y0, x1, y1 float64) geom.Path {
	if len(ring) > 1 && ring[0] == ring[len(ring)-1] {
		ring = ring[:len(ring)-1]
	}
	edges := []struct {
		inside func(p geom.Point) bool
		cross  func(a, b geom.Point) geom.Point
	}{
		{func(p geom.Point) bool { return p.X >= x0 }, func(a, b geom.Point) geom.Point { return atX(a, b, x0) }},
		{func(p geom.Point) bool { return p.X <= x1 }, func(a, b geom.Point) geom.Point { return atX(a, b, x1) }},
		{func(p geom.Point) bool { return p.Y >= y0 }, func(a, b geom.Point) geom.Point { return atY(a, b, y0) }},
		{func(p geom.Point) bool { return p.Y <= y1 }, func(a, b geom.Point) geom.Point { return atY(a, b, y1) }},
	}
	out := append(geom.Path(nil), ring...)
	for _, e := range edges {
		in := out
		out = make(geom.Path, 0, len(in)+4)
		for i, cur := range in {
			prev := in[(i+len(in)-1)%len(in)]
			switch {
			case e.inside(cur):
				if !e.inside(prev) {
					out = append(out, e.cross(prev, cur))
				}
				out = append(out, cur)
			case e.inside(prev):
				out = append(out, e.cross(prev, cur))
			}
		}
		if len(out) == 0 {
			return nil
		}
	}
	return append(out, out[0])
}

// atX returns the point where segment ab crosses the vertical line at x.
func atX(a, b geom.Point, x float64) geom.Point {
	t := (x - a.X) / (b.X - a.X)
	return geom.Point{X: x, Y: a.Y + t*(b.Y-a.Y)}
}

// atY returns the point where segment ab crosses the horizontal line at y.
func atY(a, b geom.Point, y float64) geom.Point {
	t := (y - a.Y) / (b.Y - a.Y)
	return geom.Point{X: a.X + t*(b.X-a.X), Y: y}
}

// ComputeCellMeans computes the weighted mean of every cell whose
// accumulated weight is at least minimumWeight and returns the number
// of such cells. Other cells are left without a mean.
func (b *SwathBinner) ComputeCellMeans(minimumWeight float64) int {
	b.mean = sparse.ZerosSparse(b.Grid.rows, b.Grid.columns)
	for i, w := range b.weight.Elements {
		if w > 0 && w >= minimumWeight {
			b.mean.Elements[i] = b.sum.Elements[i] / w
		}
	}
	return len(b.mean.Elements)
}

// CompactCells returns the cells with a mean from the last call to
// ComputeCellMeans in row-major order, with their center longitudes and
// latitudes. The accumulators are indexed row*columns+column.
func (b *SwathBinner) CompactCells() []SwathCell {
	index := make([]int, 0, len(b.mean.Elements))
	for i := range b.mean.Elements {
		index = append(index, i)
	}
	sort.Ints(index)
	o := make([]SwathCell, len(index))
	for j, i := range index {
		c := SwathCell{
			Row:    i / b.Grid.columns,
			Column: i % b.Grid.columns,
			Mean:   b.mean.Elements[i],
			Count:  int(b.count.Get1d(i)),
			Weight: b.weight.Get1d(i),
		}
		c.Longitude, c.Latitude = b.Grid.CellCenterLonLat(c.Column, c.Row)
		o[j] = c
	}
	return o
}

func (b *SwathBinner) log() logrus.FieldLogger {
	if b.Log == nil {
		return logrus.StandardLogger()
	}
	return b.Log
}
