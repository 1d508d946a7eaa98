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

// VerticalType specifies how the layer edges of a grid are defined.
type VerticalType int

// The supported vertical coordinates.
const (
	// VerticalNone is a single layer covering the whole column.
	VerticalNone VerticalType = iota

	// HydrostaticSigmaP levels are σ = (p - top) / (ps - top), from 1 at
	// the surface decreasing to 0 at the model top pressure.
	HydrostaticSigmaP

	// NonHydrostaticSigmaP levels are defined like HydrostaticSigmaP,
	// using the reference-state surface pressure.
	NonHydrostaticSigmaP

	// SigmaZ levels are σ = (top - z) / (top - zs) fractions of the
	// distance from the model top height to the surface, from 1 at the
	// surface decreasing to 0 at the top.
	SigmaZ

	// Pressure levels are pressures [Pa], decreasing upward.
	Pressure

	// HeightAboveSeaLevel levels are heights [m] above mean sea level,
	// increasing upward.
	HeightAboveSeaLevel

	// HeightAboveTerrain levels are heights [m] above the surface,
	// increasing upward.
	HeightAboveTerrain

	// WRFSigma levels are the WRF η = (p - top) / (ps - top) levels.
	WRFSigma
)

var verticalNames = [...]string{
	VerticalNone:         "none",
	HydrostaticSigmaP:    "hydrostatic-sigma-p",
	NonHydrostaticSigmaP: "non-hydrostatic-sigma-p",
	SigmaZ:               "sigma-z",
	Pressure:             "pressure",
	HeightAboveSeaLevel:  "height-above-sea-level",
	HeightAboveTerrain:   "height-above-terrain",
	WRFSigma:             "wrf-sigma",
}

func (t VerticalType) String() string {
	if t < 0 || int(t) >= len(verticalNames) {
		return fmt.Sprintf("VerticalType(%d)", int(t))
	}
	return verticalNames[t]
}

// ParseVerticalType returns the VerticalType with the given name, e.g.
// "sigma-z" or "height_above_terrain". Matching ignores case and accepts
// underscores in place of hyphens.
func ParseVerticalType(name string) (VerticalType, error) {
	n := strings.Replace(strings.ToLower(strings.TrimSpace(name)), "_", "-", -1)
	if n == "" {
		return VerticalNone, nil
	}
	for i, v := range verticalNames {
		if v == n {
			return VerticalType(i), nil
		}
	}
	return VerticalNone, fmt.Errorf("regrid: unknown vertical coordinate type %q: %w", name, ErrInvalid)
}

func (t VerticalType) sigmaP() bool {
	return t == HydrostaticSigmaP || t == NonHydrostaticSigmaP || t == WRFSigma
}

// MaxLayers is the maximum number of grid layers.
const MaxLayers = 100

// Atmosphere holds the constants of the hypsometric relation used to
// convert between pressure and height.
type Atmosphere struct {
	Gravity              float64 // m/s²
	GasConstant          float64 // dry air, J/(kg K)
	LapseRate            float64 // K/m; 0 gives an isothermal atmosphere
	ReferenceTemperature float64 // sea level, K
	ReferencePressure    float64 // sea level, Pa
}

// StandardAtmosphere is the U.S. Standard Atmosphere troposphere.
var StandardAtmosphere = Atmosphere{
	Gravity:              9.80665,
	GasConstant:          287.05,
	LapseRate:            0.0065,
	ReferenceTemperature: 288.15,
	ReferencePressure:    101325,
}

func (a Atmosphere) validate() error {
	for _, v := range []float64{a.Gravity, a.GasConstant, a.ReferenceTemperature, a.ReferencePressure} {
		if !(v > 0) || math.IsInf(v, 0) {
			return fmt.Errorf("regrid: atmosphere constants %+v must be positive and finite: %w", a, ErrInvalid)
		}
	}
	if !(a.LapseRate >= 0) || math.IsInf(a.LapseRate, 0) {
		return fmt.Errorf("regrid: lapse rate %g must be finite and non-negative: %w", a.LapseRate, ErrInvalid)
	}
	return nil
}

// Pressure returns the pressure [Pa] at height z [m] above sea level.
func (a Atmosphere) Pressure(z float64) float64 {
	if a.LapseRate == 0 {
		return a.ReferencePressure * math.Exp(-a.Gravity*z/(a.GasConstant*a.ReferenceTemperature))
	}
	t := 1 - a.LapseRate*z/a.ReferenceTemperature
	if t <= 0 {
		return 0
	}
	return a.ReferencePressure * math.Pow(t, a.Gravity/(a.GasConstant*a.LapseRate))
}

// Height returns the height [m] above sea level of pressure p [Pa].
// p must be positive.
func (a Atmosphere) Height(p float64) float64 {
	if !(p > 0) {
		panic(fmt.Sprintf("regrid: Height of non-positive pressure %g", p))
	}
	if a.LapseRate == 0 {
		return -a.GasConstant * a.ReferenceTemperature / a.Gravity * math.Log(p/a.ReferencePressure)
	}
	return a.ReferenceTemperature / a.LapseRate *
		(1 - math.Pow(p/a.ReferencePressure, a.GasConstant*a.LapseRate/a.Gravity))
}

// Vertical describes the layers of a grid.
type Vertical struct {
	Type VerticalType

	// Levels holds the Layers()+1 layer edges, from the surface upward,
	// in the units of Type. It is ignored for VerticalNone.
	Levels []float64

	// Top is the model top: a pressure [Pa] for the sigma-P types and a
	// height [m] above sea level for SigmaZ.
	Top float64

	// Atmosphere defaults to StandardAtmosphere when zero.
	Atmosphere Atmosphere
}

// Layers returns the number of layers. A grid without a vertical
// coordinate has the single layer 0.
func (v *Vertical) Layers() int {
	if v.Type == VerticalNone {
		return 1
	}
	return len(v.Levels) - 1
}

// normalize validates v and returns a copy with defaults filled in.
func (v Vertical) normalize() (Vertical, error) {
	if v.Atmosphere == (Atmosphere{}) {
		v.Atmosphere = StandardAtmosphere
	}
	if err := v.Atmosphere.validate(); err != nil {
		return v, err
	}
	if v.Type == VerticalNone {
		v.Levels = nil
		return v, nil
	}
	if v.Type < 0 || int(v.Type) >= len(verticalNames) {
		return v, fmt.Errorf("regrid: invalid vertical coordinate type %d: %w", int(v.Type), ErrInvalid)
	}
	if n := len(v.Levels) - 1; n < 1 || n > MaxLayers {
		return v, fmt.Errorf("regrid: %d levels give %d layers; want 1 to %d: %w",
			len(v.Levels), n, MaxLayers, ErrInvalid)
	}
	if floats.HasNaN(v.Levels) || math.IsInf(floats.Max(v.Levels), 1) || math.IsInf(floats.Min(v.Levels), -1) {
		return v, fmt.Errorf("regrid: vertical levels must be finite: %w", ErrInvalid)
	}
	increasing := v.Type == HeightAboveSeaLevel || v.Type == HeightAboveTerrain
	for i := 1; i < len(v.Levels); i++ {
		if increasing && !(v.Levels[i] > v.Levels[i-1]) || !increasing && !(v.Levels[i] < v.Levels[i-1]) {
			dir := "decreasing"
			if increasing {
				dir = "increasing"
			}
			return v, fmt.Errorf("regrid: %s levels must be strictly %s: %w", v.Type, dir, ErrInvalid)
		}
	}
	switch {
	case v.Type.sigmaP(), v.Type == SigmaZ:
		if v.Levels[0] > 1 || v.Levels[len(v.Levels)-1] < 0 {
			return v, fmt.Errorf("regrid: %s levels must be within [0, 1]: %w", v.Type, ErrInvalid)
		}
		if v.Type.sigmaP() && !(v.Top > 0) || math.IsInf(v.Top, 0) || math.IsNaN(v.Top) {
			return v, fmt.Errorf("regrid: %s model top %g is not valid: %w", v.Type, v.Top, ErrInvalid)
		}
	case v.Type == Pressure:
		if !(v.Levels[len(v.Levels)-1] > 0) {
			return v, fmt.Errorf("regrid: pressure levels must be positive: %w", ErrInvalid)
		}
	}
	v.Levels = append([]float64(nil), v.Levels...)
	return v, nil
}

// LevelHeights returns the heights [m] above sea level of the layer edges
// over a surface at surfaceElevation [m]. The result is nil for
// VerticalNone.
func (v *Vertical) LevelHeights(surfaceElevation float64) []float64 {
	if v.Type == VerticalNone {
		return nil
	}
	h := make([]float64, len(v.Levels))
	switch {
	case v.Type.sigmaP():
		ps := v.Atmosphere.Pressure(surfaceElevation)
		for i, s := range v.Levels {
			p := s*(ps-v.Top) + v.Top
			if p <= 0 {
				p = math.SmallestNonzeroFloat64
			}
			h[i] = v.Atmosphere.Height(p)
		}
	case v.Type == SigmaZ:
		for i, s := range v.Levels {
			h[i] = v.Top - s*(v.Top-surfaceElevation)
		}
	case v.Type == Pressure:
		for i, p := range v.Levels {
			h[i] = v.Atmosphere.Height(p)
		}
	case v.Type == HeightAboveSeaLevel:
		copy(h, v.Levels)
	case v.Type == HeightAboveTerrain:
		floats.AddConst(surfaceElevation, floats.AddTo(h, h, v.Levels))
	}
	return h
}

// LayerIndex returns the layer containing elevation [m above sea level]
// over a surface at surfaceElevation, and the offset from the layer
// center as a fraction of the layer thickness, in [-0.5, 0.5). Elevations
// below the bottom edge are placed in layer 0; elevations at or above
// the top edge are not gridded.
func (v *Vertical) LayerIndex(elevation, surfaceElevation float64) (layer int, offset float64, ok bool) {
	if v.Type == VerticalNone {
		return 0, 0, true
	}
	h := v.LevelHeights(surfaceElevation)
	n := len(h) - 1
	switch {
	case !(h[n] > h[0]):
		// The surface is above the model top.
		return 0, 0, false
	case math.IsNaN(elevation) || elevation >= h[n]:
		return 0, 0, false
	case elevation < h[0]:
		return 0, -0.5, true
	}
	// The first edge above elevation.
	k := sort.SearchFloat64s(h, elevation)
	if k < len(h) && h[k] == elevation {
		k++
	}
	layer = k - 1
	frac := (elevation - h[layer]) / (h[layer+1] - h[layer])
	offset = frac - 0.5
	if offset >= 0.5 {
		offset = math.Nextafter(0.5, 0)
	}
	return layer, offset, true
}
