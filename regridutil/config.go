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
	"fmt"
	"os"
	"strings"

	"github.com/lnashier/viper"
	"github.com/spatialmodel/regrid"
	"github.com/spatialmodel/regrid/projection"
	"github.com/spf13/cast"
)

// GridFromConfig creates a grid from the Grid.* configuration options.
func GridFromConfig(cfg *viper.Viper) (*regrid.Grid, error) {
	p, err := projection.Parse(os.ExpandEnv(cfg.GetString("Grid.Proj")))
	if err != nil {
		return nil, err
	}
	var dims [2]int
	for i, name := range []string{"Grid.Columns", "Grid.Rows"} {
		if dims[i], err = cast.ToIntE(cfg.Get(name)); err != nil {
			return nil, fmt.Errorf("regrid: %s: %v", name, err)
		}
	}
	var edges [4]float64
	for i, name := range []string{"Grid.WestEdge", "Grid.SouthEdge", "Grid.CellWidth", "Grid.CellHeight"} {
		if edges[i], err = cast.ToFloat64E(cfg.Get(name)); err != nil {
			return nil, fmt.Errorf("regrid: %s: %v", name, err)
		}
	}
	v, err := verticalFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	return regrid.NewGrid(p, dims[0], dims[1], edges[0], edges[1], edges[2], edges[3], v)
}

func verticalFromConfig(cfg *viper.Viper) (regrid.Vertical, error) {
	var v regrid.Vertical
	var err error
	if v.Type, err = regrid.ParseVerticalType(cfg.GetString("Grid.VerticalType")); err != nil {
		return v, err
	}
	if v.Type == regrid.VerticalNone {
		return v, nil
	}
	if v.Levels, err = toFloat64Slice(cfg.Get("Grid.Levels")); err != nil {
		return v, fmt.Errorf("regrid: Grid.Levels: %v", err)
	}
	if top := cfg.Get("Grid.Top"); top != nil {
		if v.Top, err = cast.ToFloat64E(top); err != nil {
			return v, fmt.Errorf("regrid: Grid.Top: %v", err)
		}
	}
	return v, nil
}

// toFloat64Slice converts a list of numbers from a configuration file,
// a command-line flag, or an environment variable.
func toFloat64Slice(i interface{}) ([]float64, error) {
	var items []interface{}
	switch v := i.(type) {
	case nil:
		return nil, nil
	case []float64:
		return append([]float64(nil), v...), nil
	case string:
		v = strings.TrimSuffix(strings.TrimPrefix(strings.TrimSpace(v), "["), "]")
		for _, s := range strings.FieldsFunc(v, func(r rune) bool { return r == ',' || r == ' ' }) {
			items = append(items, s)
		}
	case []string:
		for _, s := range v {
			items = append(items, s)
		}
	default:
		var err error
		if items, err = cast.ToSliceE(i); err != nil {
			return nil, err
		}
	}
	o := make([]float64, len(items))
	for j, item := range items {
		f, err := cast.ToFloat64E(item)
		if err != nil {
			return nil, err
		}
		o[j] = f
	}
	return o, nil
}

// RegridderFromConfig creates a Regridder from the configuration.
func RegridderFromConfig(cfg *viper.Viper) (*regrid.Regridder, error) {
	g, err := GridFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	m, err := regrid.ParseMethod(cfg.GetString("Regrid.Method"))
	if err != nil {
		return nil, err
	}
	minimumValid, err := cast.ToFloat64E(cfg.Get("Regrid.MinimumValid"))
	if err != nil {
		return nil, fmt.Errorf("regrid: Regrid.MinimumValid: %v", err)
	}
	return regrid.NewRegridder(g, m, minimumValid), nil
}
