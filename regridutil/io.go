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


package regridutil

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/regrid"
	"github.com/spatialmodel/regrid/projection"
	"github.com/spf13/cast"
)

// scanLines calls f with the whitespace-separated fields of each
// non-blank line of r that does not start with '#'.
func scanLines(r io.Reader, f func(line int, fields []string) error) error {
	s := bufio.NewScanner(r)
	line := 0
	for s.Scan() {
		line++
		text := strings.TrimSpace(s.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		if err := f(line, strings.Fields(text)); err != nil {
			return fmt.Errorf("regrid: line %d: %v", line, err)
		}
	}
	return s.Err()
}

func parseFloats(fields []string) ([]float64, error) {
	o := make([]float64, len(fields))
	for i, s := range fields {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, err
		}
		o[i] = v
	}
	return o, nil
}

func formatFloat(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }

// ReadPairs reads lines of two numbers.
func ReadPairs(r io.Reader) ([][2]float64, error) {
	var o [][2]float64
	err := scanLines(r, func(_ int, fields []string) error {
		if len(fields) != 2 {
			return fmt.Errorf("want 2 fields, got %d", len(fields))
		}
		v, err := parseFloats(fields)
		if err != nil {
			return err
		}
		o = append(o, [2]float64{v[0], v[1]})
		return nil
	})
	return o, err
}

// ReadPoints reads point lines in the format
//
//	longitude latitude value [value2 [elevation [surfaceElevation [weight]]]] [note]
//
// The note starts at the first field after the value that is not a
// number and runs to the end of the line.
func ReadPoints(r io.Reader) ([]regrid.Point, error) {
	var o []regrid.Point
	err := scanLines(r, func(_ int, fields []string) error {
		if len(fields) < 3 {
			return fmt.Errorf("want at least 3 fields, got %d", len(fields))
		}
		n := 3
		for n < len(fields) && n < 7 {
			if _, err := strconv.ParseFloat(fields[n], 64); err != nil {
				break
			}
			n++
		}
		v, err := parseFloats(fields[:n])
		if err != nil {
			return err
		}
		v = append(v, make([]float64, 7-n)...)
		o = append(o, regrid.Point{
			Longitude:        v[0],
			Latitude:         v[1],
			Value:            v[2],
			Value2:           v[3],
			Elevation:        v[4],
			SurfaceElevation: v[5],
			Weight:           v[6],
			Note:             strings.Join(fields[n:], " "),
		})
		return nil
	})
	return o, err
}

// ReadQuadrilaterals reads footprint lines in the format
//
//	lonSW latSW lonSE latSE lonNW latNW lonNE latNE value
func ReadQuadrilaterals(r io.Reader) ([]regrid.Quadrilateral, error) {
	var o []regrid.Quadrilateral
	err := scanLines(r, func(_ int, fields []string) error {
		if len(fields) != 9 {
			return fmt.Errorf("want 9 fields, got %d", len(fields))
		}
		v, err := parseFloats(fields)
		if err != nil {
			return err
		}
		var q regrid.Quadrilateral
		for i := 0; i < 4; i++ {
			q.Longitudes[i], q.Latitudes[i] = v[2*i], v[2*i+1]
		}
		q.Value = v[8]
		o = append(o, q)
		return nil
	})
	return o, err
}

// WriteCells writes one line per cell.
func WriteCells(w io.Writer, cells []regrid.Cell) error {
	b := bufio.NewWriter(w)
	for _, c := range cells {
		fmt.Fprintf(b, "%d %d %d %s %s %d %d %s %s", c.Column, c.Row, c.Layer,
			formatFloat(c.Value), formatFloat(c.Value2), c.Count, c.Inputs,
			formatFloat(c.Longitude), formatFloat(c.Latitude))
		if c.Note != "" {
			fmt.Fprintf(b, " %s", c.Note)
		}
		b.WriteByte('\n')
	}
	return b.Flush()
}

// WriteSwathCells writes one line per cell.
func WriteSwathCells(w io.Writer, cells []regrid.SwathCell) error {
	b := bufio.NewWriter(w)
	for _, c := range cells {
		fmt.Fprintf(b, "%d %d %s %d %s %s %s\n", c.Column, c.Row, formatFloat(c.Mean),
			c.Count, formatFloat(c.Weight), formatFloat(c.Longitude), formatFloat(c.Latitude))
	}
	return b.Flush()
}

// Project projects 'longitude latitude' lines from r into the grid
// projection and writes 'x y' lines to w.
func Project(cfg *viper.Viper, r io.Reader, w io.Writer) error {
	p, err := projection.Parse(cfg.GetString("Grid.Proj"))
	if err != nil {
		return err
	}
	pairs, err := ReadPairs(r)
	if err != nil {
		return err
	}
	b := bufio.NewWriter(w)
	for i, ll := range pairs {
		if math.IsNaN(ll[0]) || ll[0] < projection.MinLongitude || ll[0] > projection.MaxLongitude ||
			math.IsNaN(ll[1]) || ll[1] < projection.MinLatitude || ll[1] > projection.MaxLatitude {
			return fmt.Errorf("regrid: point %d: (%g, %g) is not a valid longitude-latitude: %w",
				i, ll[0], ll[1], regrid.ErrInvalid)
		}
		x, y := p.Project(ll[0], ll[1])
		fmt.Fprintf(b, "%s %s\n", formatFloat(x), formatFloat(y))
	}
	return b.Flush()
}

// Unproject converts 'x y' lines from r in the grid projection to
// 'longitude latitude' lines written to w.
func Unproject(cfg *viper.Viper, r io.Reader, w io.Writer) error {
	p, err := projection.Parse(cfg.GetString("Grid.Proj"))
	if err != nil {
		return err
	}
	pairs, err := ReadPairs(r)
	if err != nil {
		return err
	}
	b := bufio.NewWriter(w)
	for i, xy := range pairs {
		if math.IsNaN(xy[0]) || math.IsInf(xy[0], 0) || math.IsNaN(xy[1]) || math.IsInf(xy[1], 0) {
			return fmt.Errorf("regrid: point %d: (%g, %g) must be finite: %w", i, xy[0], xy[1], regrid.ErrInvalid)
		}
		lon, lat := p.Unproject(xy[0], xy[1])
		fmt.Fprintf(b, "%s %s\n", formatFloat(lon), formatFloat(lat))
	}
	return b.Flush()
}

// Regrid reads points from r, regrids them as configured, and writes
// the cells to w.
func Regrid(cfg *viper.Viper, r io.Reader, w io.Writer) error {
	rg, err := RegridderFromConfig(cfg)
	if err != nil {
		return err
	}
	points, err := ReadPoints(r)
	if err != nil {
		return err
	}
	cells, err := rg.Regrid(points)
	if err != nil {
		return err
	}
	return WriteCells(w, cells)
}

// Swath reads footprints from r, bins them onto the configured grid,
// and writes the populated cells to w.
func Swath(cfg *viper.Viper, r io.Reader, w io.Writer) error {
	g, err := GridFromConfig(cfg)
	if err != nil {
		return err
	}
	minimumWeight, err := cast.ToFloat64E(cfg.Get("Swath.MinimumWeight"))
	if err != nil {
		return fmt.Errorf("regrid: Swath.MinimumWeight: %v", err)
	}
	quads, err := ReadQuadrilaterals(r)
	if err != nil {
		return err
	}
	b := regrid.NewSwathBinner(g)
	if _, err := b.Bin(quads); err != nil {
		return err
	}
	n := b.ComputeCellMeans(minimumWeight)
	binned, degenerate, outside := b.Stats()
	logrus.WithFields(logrus.Fields{
		"footprints": len(quads),
		"binned":     binned,
		"degenerate": degenerate,
		"outside":    outside,
		"cells":      n,
	}).Info("regrid: binned swath")
	return WriteSwathCells(w, b.CompactCells())
}

// DescribeGrid writes the grid definition to w.
func DescribeGrid(cfg *viper.Viper, w io.Writer) error {
	g, err := GridFromConfig(cfg)
	if err != nil {
		return err
	}
	b := bufio.NewWriter(w)
	p := g.Projector()
	fmt.Fprintf(b, "projection: %s\n", p.Name())
	fmt.Fprintf(b, "proj4: %s\n", p.Proj4())
	fmt.Fprintf(b, "columns: %d\nrows: %d\nlayers: %d\n", g.Columns(), g.Rows(), g.Layers())
	fmt.Fprintf(b, "west: %s\nsouth: %s\n", formatFloat(g.WestEdge()), formatFloat(g.SouthEdge()))
	fmt.Fprintf(b, "cell: %s x %s\n", formatFloat(g.CellWidth()), formatFloat(g.CellHeight()))
	v := g.Vertical()
	fmt.Fprintf(b, "vertical: %s\n", v.Type)
	e := g.Extent()
	fmt.Fprintf(b, "extent: %s %s %s %s\n", formatFloat(e.Min.X), formatFloat(e.Min.Y),
		formatFloat(e.Max.X), formatFloat(e.Max.Y))
	for _, c := range [][2]int{{0, 0}, {g.Columns() - 1, 0}, {0, g.Rows() - 1}, {g.Columns() - 1, g.Rows() - 1}} {
		lon, lat := g.CellCenterLonLat(c[0], c[1])
		fmt.Fprintf(b, "center %d %d: %s %s\n", c[0], c[1], formatFloat(lon), formatFloat(lat))
	}
	return b.Flush()
}
