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
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
)

func TestRegridder(t *testing.T) {
	g := testGrid(t, Vertical{})
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	r := NewRegridder(g, Mean, 0)
	r.Log = logger
	r.Metrics = NewMetrics(prometheus.NewRegistry())

	points := []Point{
		pointAt(g, 1, 2, 0.1, 0.1, 2),
		pointAt(g, 1, 2, -0.3, 0.2, 4),
		pointAt(g, 1, 2, 0, 0, -1),
		pointAt(g, 7, 6, 0, 0, 5),
		{Longitude: 0, Latitude: 0, Value: 1},
	}
	points[0].Note = "goes-16"
	points[1].Note = "goes-17"
	cells, err := r.Regrid(points)
	if err != nil {
		t.Fatal(err)
	}
	if len(cells) != 2 {
		t.Fatalf("got %d cells: %+v", len(cells), cells)
	}
	c := cells[0]
	if c.Column != 1 || c.Row != 2 || c.Value != 3 || c.Count != 2 || c.Inputs != 3 || c.Note != "goes-16,goes-17" {
		t.Errorf("cell 0 = %+v", c)
	}
	lon, lat := g.CellCenterLonLat(1, 2)
	if c.Longitude != lon || c.Latitude != lat {
		t.Errorf("cell 0 center (%g, %g); want (%g, %g)", c.Longitude, c.Latitude, lon, lat)
	}
	if cells[1].Column != 7 || cells[1].Row != 6 || cells[1].Value != 5 {
		t.Errorf("cell 1 = %+v", cells[1])
	}

	if v := testutil.ToFloat64(r.Metrics.PointsProjected); v != 5 {
		t.Errorf("points projected = %g", v)
	}
	if v := testutil.ToFloat64(r.Metrics.PointsNotGridded); v != 1 {
		t.Errorf("points not gridded = %g", v)
	}
	if v := testutil.ToFloat64(r.Metrics.CellsEmitted); v != 2 {
		t.Errorf("cells emitted = %g", v)
	}

	e := hook.LastEntry()
	if e == nil || e.Level != logrus.DebugLevel || e.Data["cells"] != 2 || e.Data["notGridded"] != 1 {
		t.Errorf("log entry %+v", e)
	}
}

func TestRegridInvalid(t *testing.T) {
	g := testGrid(t, Vertical{})
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	r := &Regridder{Grid: g, Method: Nearest, Log: logger}
	if _, err := r.Regrid([]Point{{Longitude: 190}}); !errors.Is(err, ErrInvalid) {
		t.Errorf("got %v; want ErrInvalid", err)
	}
	if len(hook.Entries) != 0 {
		t.Error("failed call should not log a summary")
	}
}

func TestRegridOrderIndependent(t *testing.T) {
	g := testGrid(t, Vertical{Type: HeightAboveSeaLevel, Levels: []float64{0, 1000, 3000}})
	var points []Point
	for i := 0; i < 30; i++ {
		p := pointAt(g, i%3, i%2, float64(i%5)/10-0.2, float64(i%7)/10-0.3, float64(i))
		p.Elevation = float64(i * 90)
		points = append(points, p)
	}
	for _, m := range []Method{Mean, Nearest, Weighted} {
		want, err := Regrid(g, m, 3, points)
		if err != nil {
			t.Fatal(err)
		}
		reversed := make([]Point, len(points))
		for i, p := range points {
			reversed[len(points)-1-i] = p
		}
		got, err := Regrid(g, m, 3, reversed)
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != len(want) {
			t.Fatalf("%v: %d cells; want %d", m, len(got), len(want))
		}
		for i := range got {
			if got[i] != want[i] {
				t.Errorf("%v: cell %d = %+v; want %+v", m, i, got[i], want[i])
			}
		}
	}
}

func TestRegridLogsAtDebug(t *testing.T) {
	g := testGrid(t, Vertical{})
	logger, hook := logtest.NewNullLogger()
	r := &Regridder{Grid: g, Method: Mean, Log: logger}
	if _, err := r.Regrid([]Point{pointAt(g, 0, 0, 0, 0, 1)}); err != nil {
		t.Fatal(err)
	}
	if len(hook.Entries) != 0 {
		t.Errorf("logged %d entries at info level", len(hook.Entries))
	}
}
