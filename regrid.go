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

// Package regrid maps scattered longitude-latitude(-elevation)
// observations and satellite pixel footprints onto regular projected
// grids, reducing the values that fall in each cell.
//
// A Grid pairs a projection.Projector with the geometry of its cells and
// an optional vertical coordinate. Regridder composes the per-point
// steps: ProjectXY, ProjectZ, Aggregate, provenance merging and
// cell-center unprojection. SwathBinner accumulates quadrilateral
// footprints by their overlap with each cell.
package regrid

import (
	"github.com/sirupsen/logrus"
)

// Version is the version of this module.
const Version = "1.0.0"

// Regridder regrids scattered points onto a Grid.
type Regridder struct {
	Grid *Grid

	Method Method

	// MinimumValid is the smallest value that takes part in the
	// reduction. Smaller values are counted as inputs only.
	MinimumValid float64

	// Log receives a summary of each call. It defaults to
	// logrus.StandardLogger().
	Log logrus.FieldLogger

	// Metrics, if not nil, is updated by each call.
	Metrics *Metrics
}

// NewRegridder returns a Regridder that logs to logrus.StandardLogger().
func NewRegridder(g *Grid, method Method, minimumValid float64) *Regridder {
	return &Regridder{
		Grid:         g,
		Method:       method,
		MinimumValid: minimumValid,
		Log:          logrus.StandardLogger(),
	}
}

func (r *Regridder) log() logrus.FieldLogger {
	if r.Log == nil {
		return logrus.StandardLogger()
	}
	return r.Log
}

// Regrid projects points onto the grid and reduces them into cells, as
// described by Aggregate. Each cell carries its center longitude and
// latitude. An error wrapping ErrInvalid is returned for points with
// coordinates out of range.
func (r *Regridder) Regrid(points []Point) ([]Cell, error) {
	gridded, err := r.Grid.ProjectXY(points)
	if err != nil {
		return nil, err
	}
	r.Grid.ProjectZ(gridded)
	notGridded := 0
	for i := range gridded {
		if !gridded[i].Gridded {
			notGridded++
		}
	}
	cells := Aggregate(r.Method, r.MinimumValid, gridded)
	for i := range cells {
		c := &cells[i]
		c.Longitude, c.Latitude = r.Grid.CellCenterLonLat(c.Column, c.Row)
	}
	r.Metrics.points(len(points), notGridded)
	r.Metrics.cells(cells)
	r.log().WithFields(logrus.Fields{
		"points":     len(points),
		"notGridded": notGridded,
		"cells":      len(cells),
		"method":     r.Method.String(),
	}).Debug("regrid: regridded points")
	return cells, nil
}

// Regrid regrids points onto g with method and minimumValid using a
// default Regridder.
func Regrid(g *Grid, method Method, minimumValid float64, points []Point) ([]Cell, error) {
	return NewRegridder(g, method, minimumValid).Regrid(points)
}
