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

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds Prometheus counters describing regridding and swath
// binning. A nil *Metrics records nothing.
type Metrics struct {
	PointsProjected  prometheus.Counter
	PointsNotGridded prometheus.Counter
	CellsEmitted     prometheus.Counter
	CellInputs       prometheus.Histogram

	FootprintsBinned     prometheus.Counter
	FootprintsDegenerate prometheus.Counter
	FootprintsOutside    prometheus.Counter
}

// NewMetrics creates the regrid metrics and registers them with reg.
// It panics if they are already registered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		PointsProjected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "regrid",
			Name:      "points_projected_total",
			Help:      "Input points projected onto a grid.",
		}),
		PointsNotGridded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "regrid",
			Name:      "points_not_gridded_total",
			Help:      "Input points that fell outside the grid.",
		}),
		CellsEmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "regrid",
			Name:      "cells_emitted_total",
			Help:      "Output cells with at least one valid value.",
		}),
		CellInputs: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "regrid",
			Name:      "cell_inputs",
			Help:      "Number of input points per output cell.",
			Buckets:   []float64{1, 2, 5, 10, 20, 50, 100, 1000},
		}),
		FootprintsBinned: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "regrid",
			Name:      "footprints_binned_total",
			Help:      "Swath footprints accumulated into grid cells.",
		}),
		FootprintsDegenerate: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "regrid",
			Name:      "footprints_degenerate_total",
			Help:      "Swath footprints skipped because they have no area or no valid value.",
		}),
		FootprintsOutside: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "regrid",
			Name:      "footprints_outside_total",
			Help:      "Swath footprints that do not overlap the grid.",
		}),
	}
	reg.MustRegister(
		m.PointsProjected,
		m.PointsNotGridded,
		m.CellsEmitted,
		m.CellInputs,
		m.FootprintsBinned,
		m.FootprintsDegenerate,
		m.FootprintsOutside,
	)
	return m
}

func (m *Metrics) points(projected, notGridded int) {
	if m == nil {
		return
	}
	m.PointsProjected.Add(float64(projected))
	m.PointsNotGridded.Add(float64(notGridded))
}

func (m *Metrics) cells(cells []Cell) {
	if m == nil {
		return
	}
	m.CellsEmitted.Add(float64(len(cells)))
	for _, c := range cells {
		m.CellInputs.Observe(float64(c.Inputs))
	}
}

func (m *Metrics) footprints(binned, degenerate, outside int) {
	if m == nil {
		return
	}
	m.FootprintsBinned.Add(float64(binned))
	m.FootprintsDegenerate.Add(float64(degenerate))
	m.FootprintsOutside.Add(float64(outside))
}
