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

	"github.com/ctessum/geom"
	"github.com/spatialmodel/regrid/projection"
)

// ErrInvalid is wrapped by errors caused by arguments outside their
// valid ranges.
var ErrInvalid = projection.ErrInvalid

// Point is a scattered observation.
type Point struct {
	Longitude, Latitude float64 // degrees

	// Elevation and SurfaceElevation are heights [m] above mean sea
	// level. They are only used by grids with layers.
	Elevation, SurfaceElevation float64

	Value float64
	// Value2 is the second component of vector data. It is reduced with
	// the same weights as Value.
	Value2 float64

	// Weight, when positive, replaces the distance weight of the point
	// in Weighted aggregation.
	Weight float64

	// Note is an optional provenance label of at most
	// MaxPointNoteLength bytes.
	Note string
}

func (p *Point) validate(layered bool) error {
	if math.IsNaN(p.Longitude) || p.Longitude < projection.MinLongitude || p.Longitude > projection.MaxLongitude {
		return fmt.Errorf("longitude %g not in [-180, 180]: %w", p.Longitude, ErrInvalid)
	}
	if math.IsNaN(p.Latitude) || p.Latitude < projection.MinLatitude || p.Latitude > projection.MaxLatitude {
		return fmt.Errorf("latitude %g not in [-90, 90]: %w", p.Latitude, ErrInvalid)
	}
	if layered && (math.IsNaN(p.Elevation) || math.IsNaN(p.SurfaceElevation) ||
		math.IsInf(p.Elevation, 0) || math.IsInf(p.SurfaceElevation, 0)) {
		return fmt.Errorf("elevation (%g, %g) must be finite: %w", p.Elevation, p.SurfaceElevation, ErrInvalid)
	}
	if math.IsNaN(p.Weight) || math.IsInf(p.Weight, 0) || p.Weight < 0 {
		return fmt.Errorf("weight %g must be finite and non-negative: %w", p.Weight, ErrInvalid)
	}
	if len(p.Note) > MaxPointNoteLength {
		return fmt.Errorf("note of %d bytes exceeds %d: %w", len(p.Note), MaxPointNoteLength, ErrInvalid)
	}
	return nil
}

// GriddedPoint is a Point with its location in a grid.
type GriddedPoint struct {
	Point

	Column, Row, Layer int

	// XOffset, YOffset and ZOffset are the offsets of the point from the
	// center of its cell, in cell units, in [-0.5, 0.5).
	XOffset, YOffset, ZOffset float64

	// Gridded is false if the point is outside the grid.
	Gridded bool
}

// Grid is a regular grid of cells in projected coordinates, optionally
// with vertical layers. A Grid is immutable and safe for concurrent use.
type Grid struct {
	projector             projection.Projector
	columns, rows         int
	westEdge, southEdge   float64
	cellWidth, cellHeight float64
	vertical              Vertical
}

// NewGrid returns a grid of columns × rows cells of cellWidth × cellHeight
// [projected units] whose southwest corner is at (westEdge, southEdge).
// The grid keeps a copy of p.
func NewGrid(p projection.Projector, columns, rows int, westEdge, southEdge, cellWidth, cellHeight float64,
	vertical Vertical) (*Grid, error) {
	if p == nil {
		return nil, fmt.Errorf("regrid: nil projector: %w", ErrInvalid)
	}
	if columns <= 0 || rows <= 0 {
		return nil, fmt.Errorf("regrid: grid dimensions %d × %d must be positive: %w", columns, rows, ErrInvalid)
	}
	for _, v := range []float64{westEdge, southEdge, cellWidth, cellHeight} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("regrid: grid edges and cell sizes must be finite: %w", ErrInvalid)
		}
	}
	if !(cellWidth > 0) || !(cellHeight > 0) {
		return nil, fmt.Errorf("regrid: cell size %g × %g must be positive: %w", cellWidth, cellHeight, ErrInvalid)
	}
	v, err := vertical.normalize()
	if err != nil {
		return nil, err
	}
	return &Grid{
		projector:  p.Clone(),
		columns:    columns,
		rows:       rows,
		westEdge:   westEdge,
		southEdge:  southEdge,
		cellWidth:  cellWidth,
		cellHeight: cellHeight,
		vertical:   v,
	}, nil
}

// Projector returns a copy of the grid projection.
func (g *Grid) Projector() projection.Projector { return g.projector.Clone() }

// Columns returns the number of columns.
func (g *Grid) Columns() int { return g.columns }

// Rows returns the number of rows.
func (g *Grid) Rows() int { return g.rows }

// Layers returns the number of layers.
func (g *Grid) Layers() int { return g.vertical.Layers() }

// WestEdge returns the x coordinate of the west edge of the grid.
func (g *Grid) WestEdge() float64 { return g.westEdge }

// SouthEdge returns the y coordinate of the south edge of the grid.
func (g *Grid) SouthEdge() float64 { return g.southEdge }

// CellWidth returns the cell size in the x direction.
func (g *Grid) CellWidth() float64 { return g.cellWidth }

// CellHeight returns the cell size in the y direction.
func (g *Grid) CellHeight() float64 { return g.cellHeight }

// Vertical returns a copy of the vertical coordinate.
func (g *Grid) Vertical() Vertical {
	v := g.vertical
	v.Levels = append([]float64(nil), v.Levels...)
	return v
}

// CellIndex returns the column and row of the cell containing the
// projected point (x, y) and the offsets of the point from the cell
// center in cell units. ok is false if the point is outside the grid.
// Cells include their west and south edges.
func (g *Grid) CellIndex(x, y float64) (column, row int, xOffset, yOffset float64, ok bool) {
	fx := (x - g.westEdge) / g.cellWidth
	fy := (y - g.southEdge) / g.cellHeight
	if !(fx >= 0 && fx < float64(g.columns) && fy >= 0 && fy < float64(g.rows)) {
		return 0, 0, 0, 0, false
	}
	cx, cy := math.Floor(fx), math.Floor(fy)
	return int(cx), int(cy), fx - cx - 0.5, fy - cy - 0.5, true
}

// ProjectXY projects points into the grid and locates their columns and
// rows. Points outside the grid are returned with Gridded false. An
// error wrapping ErrInvalid is returned if any point has coordinates
// out of range.
func (g *Grid) ProjectXY(points []Point) ([]GriddedPoint, error) {
	layered := g.vertical.Type != VerticalNone
	o := make([]GriddedPoint, len(points))
	for i, p := range points {
		if err := p.validate(layered); err != nil {
			return nil, fmt.Errorf("regrid: point %d: %w", i, err)
		}
		gp := GriddedPoint{Point: p}
		x, y := g.projector.Project(p.Longitude, p.Latitude)
		gp.Column, gp.Row, gp.XOffset, gp.YOffset, gp.Gridded = g.CellIndex(x, y)
		o[i] = gp
	}
	return o, nil
}

// ProjectZ assigns layers to gridded points from their elevations.
// Points above the top of the grid are marked as not gridded.
func (g *Grid) ProjectZ(points []GriddedPoint) {
	for i := range points {
		p := &points[i]
		if !p.Gridded {
			continue
		}
		p.Layer, p.ZOffset, p.Gridded = g.vertical.LayerIndex(p.Elevation, p.SurfaceElevation)
	}
}

// CellCenter returns the projected coordinates of the center of a cell.
func (g *Grid) CellCenter(column, row int) (x, y float64) {
	return g.westEdge + (float64(column)+0.5)*g.cellWidth,
		g.southEdge + (float64(row)+0.5)*g.cellHeight
}

// CellCenterLonLat returns the longitude and latitude of the center of
// a cell.
func (g *Grid) CellCenterLonLat(column, row int) (lon, lat float64) {
	return g.projector.Unproject(g.CellCenter(column, row))
}

// Cell returns the boundary of a cell in projected coordinates.
func (g *Grid) Cell(column, row int) geom.Polygon {
	x0 := g.westEdge + float64(column)*g.cellWidth
	y0 := g.southEdge + float64(row)*g.cellHeight
	x1, y1 := x0+g.cellWidth, y0+g.cellHeight
	return geom.Polygon{{{X: x0, Y: y0}, {X: x1, Y: y0}, {X: x1, Y: y1}, {X: x0, Y: y1}, {X: x0, Y: y0}}}
}

// extentSamples is the number of points sampled along each grid edge
// when computing the longitude-latitude extent.
const extentSamples = 16

// Extent returns the longitude-latitude bounds of the grid. Edges are
// sampled because they are generally curved in longitude-latitude space.
func (g *Grid) Extent() *geom.Bounds {
	b := geom.NewBounds()
	w := float64(g.columns) * g.cellWidth
	h := float64(g.rows) * g.cellHeight
	for i := 0; i <= extentSamples; i++ {
		f := float64(i) / extentSamples
		for _, xy := range [][2]float64{
			{g.westEdge + f*w, g.southEdge},
			{g.westEdge + f*w, g.southEdge + h},
			{g.westEdge, g.southEdge + f*h},
			{g.westEdge + w, g.southEdge + f*h},
		} {
			lon, lat := g.projector.Unproject(xy[0], xy[1])
			b.Extend(geom.NewBoundsPoint(geom.Point{X: lon, Y: lat}))
		}
	}
	return b
}
