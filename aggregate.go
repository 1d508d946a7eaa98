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
	"strings"

	"gonum.org/v1/gonum/floats"
)

// Method is a reduction of the points that fall in one cell.
type Method int

// The supported reduction methods.
const (
	// Mean is the arithmetic mean of the valid values.
	Mean Method = iota
	// Nearest keeps the valid value closest to the cell center.
	Nearest
	// Weighted is the mean weighted by inverse squared distance from
	// the cell center, or by the point weight when one is given.
	Weighted
)

var methodNames = [...]string{Mean: "mean", Nearest: "nearest", Weighted: "weighted"}

func (m Method) String() string {
	if m < 0 || int(m) >= len(methodNames) {
		return fmt.Sprintf("Method(%d)", int(m))
	}
	return methodNames[m]
}

// ParseMethod returns the Method with the given case-insensitive name.
func ParseMethod(name string) (Method, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for i, v := range methodNames {
		if v == n {
			return Method(i), nil
		}
	}
	return Mean, fmt.Errorf("regrid: unknown aggregation method %q: %w", name, ErrInvalid)
}

// distanceEpsilon keeps the inverse-distance weight of a point at the
// cell center finite.
const distanceEpsilon = 1e-6

// Cell is a reduced output grid cell.
type Cell struct {
	Column, Row, Layer int
	Value, Value2      float64

	// Count is the number of valid values reduced into the cell and
	// Inputs is the number of gridded points that fell in it.
	Count, Inputs int

	// Longitude and Latitude are the cell center, set by Regrid.
	Longitude, Latitude float64

	// Note is the merged provenance of the valid points.
	Note string
}

type cellKey struct{ layer, row, column int }

func (k cellKey) less(o cellKey) bool {
	if k.layer != o.layer {
		return k.layer < o.layer
	}
	if k.row != o.row {
		return k.row < o.row
	}
	return k.column < o.column
}

// contributionLess orders the points of a cell independently of their
// input order.
func contributionLess(a, b *GriddedPoint) bool {
	switch {
	case a.Value != b.Value:
		return a.Value < b.Value
	case a.Value2 != b.Value2:
		return a.Value2 < b.Value2
	case a.XOffset != b.XOffset:
		return a.XOffset < b.XOffset
	case a.YOffset != b.YOffset:
		return a.YOffset < b.YOffset
	case a.ZOffset != b.ZOffset:
		return a.ZOffset < b.ZOffset
	case a.Weight != b.Weight:
		return a.Weight < b.Weight
	}
	return a.Note < b.Note
}

func (p *GriddedPoint) distance2() float64 {
	return p.XOffset*p.XOffset + p.YOffset*p.YOffset + p.ZOffset*p.ZOffset
}

// valid reports whether p takes part in the reduction.
func (p *GriddedPoint) valid(minimumValid float64) bool {
	return !math.IsNaN(p.Value) && !math.IsNaN(p.Value2) &&
		!math.IsInf(p.Value, 0) && !math.IsInf(p.Value2, 0) &&
		p.Value >= minimumValid
}

// Aggregate reduces the gridded points into cells using method. Values
// below minimumValid (and NaN or infinite values) are excluded from the
// reduction but counted as inputs. Cells without any valid values are
// omitted. The result is sorted by layer, row and column and does not
// depend on the order of points.
func Aggregate(method Method, minimumValid float64, points []GriddedPoint) []Cell {
	if method < Mean || method > Weighted {
		panic(fmt.Sprintf("regrid: invalid aggregation method %d", int(method)))
	}
	groups := make(map[cellKey][]*GriddedPoint)
	for i := range points {
		p := &points[i]
		if !p.Gridded {
			continue
		}
		k := cellKey{layer: p.Layer, row: p.Row, column: p.Column}
		groups[k] = append(groups[k], p)
	}
	keys := make([]cellKey, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].less(keys[j]) })

	cells := make([]Cell, 0, len(keys))
	for _, k := range keys {
		group := groups[k]
		sort.Slice(group, func(i, j int) bool { return contributionLess(group[i], group[j]) })
		var valid []*GriddedPoint
		for _, p := range group {
			if p.valid(minimumValid) {
				valid = append(valid, p)
			}
		}
		if len(valid) == 0 {
			continue
		}
		c := Cell{
			Column: k.column,
			Row:    k.row,
			Layer:  k.layer,
			Count:  len(valid),
			Inputs: len(group),
		}
		c.Value, c.Value2 = reduce(method, valid)
		for _, p := range valid {
			c.Note = AppendNote(c.Note, p.Note)
		}
		cells = append(cells, c)
	}
	return cells
}

// reduce applies method to canonically ordered valid points.
func reduce(method Method, valid []*GriddedPoint) (v, v2 float64) {
	switch method {
	case Nearest:
		best := valid[0]
		for _, p := range valid[1:] {
			if p.distance2() < best.distance2() {
				best = p
			}
		}
		return best.Value, best.Value2
	case Weighted:
		w := make([]float64, len(valid))
		vs := make([]float64, len(valid))
		vs2 := make([]float64, len(valid))
		for i, p := range valid {
			if p.Weight > 0 {
				w[i] = p.Weight
			} else {
				w[i] = 1 / (p.distance2() + distanceEpsilon)
			}
			vs[i], vs2[i] = p.Value, p.Value2
		}
		sum := floats.Sum(w)
		return floats.Dot(w, vs) / sum, floats.Dot(w, vs2) / sum
	case Mean:
		vs := make([]float64, len(valid))
		vs2 := make([]float64, len(valid))
		for i, p := range valid {
			vs[i], vs2[i] = p.Value, p.Value2
		}
		n := float64(len(valid))
		return floats.Sum(vs) / n, floats.Sum(vs2) / n
	}
	panic(fmt.Sprintf("regrid: invalid aggregation method %d", int(method)))
}
