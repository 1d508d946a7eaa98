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
	"os"
	"path/filepath"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/regrid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const conusProj = "+proj=aea +lat_1=29.5 +lat_2=45.5 +lat_0=23 +lon_0=-96 +x_0=0 +y_0=0 +a=6370997 +b=6370997"

func testConfig() *viper.Viper {
	cfg := viper.New()
	cfg.Set("Grid.Proj", conusProj)
	cfg.Set("Grid.Columns", 10)
	cfg.Set("Grid.Rows", 8)
	cfg.Set("Grid.WestEdge", -840000.0)
	cfg.Set("Grid.SouthEdge", 1680000.0)
	cfg.Set("Grid.CellWidth", 12000.0)
	cfg.Set("Grid.CellHeight", 12000.0)
	cfg.Set("Regrid.Method", "mean")
	cfg.Set("Regrid.MinimumValid", 0.0)
	cfg.Set("Swath.MinimumWeight", 0.0)
	return cfg
}

func TestGridFromConfig(t *testing.T) {
	g, err := GridFromConfig(testConfig())
	require.NoError(t, err)

	assert.Equal(t, "Albers", g.Projector().Name())
	assert.Equal(t, 10, g.Columns())
	assert.Equal(t, 8, g.Rows())
	assert.Equal(t, 1, g.Layers())
	assert.Equal(t, -840000.0, g.WestEdge())
	assert.Equal(t, 1680000.0, g.SouthEdge())
	assert.Equal(t, 12000.0, g.CellWidth())
	assert.Equal(t, 12000.0, g.CellHeight())
}

func TestGridFromConfig_Vertical(t *testing.T) {
	for _, test := range []struct {
		name   string
		levels interface{}
	}{
		{"string", "10.5, 500.5, 2000.5"},
		{"brackets", "[10.5 500.5 2000.5]"},
		{"strings", []string{"10.5", "500.5", "2000.5"}},
		{"interfaces", []interface{}{10.5, 500.5, int64(2000)}},
		{"floats", []float64{10.5, 500.5, 2000.5}},
	} {
		t.Run(test.name, func(t *testing.T) {
			cfg := testConfig()
			cfg.Set("Grid.VerticalType", "height_above_sea_level")
			cfg.Set("Grid.Levels", test.levels)
			g, err := GridFromConfig(cfg)
			require.NoError(t, err)
			assert.Equal(t, 2, g.Layers())
			assert.Equal(t, regrid.HeightAboveSeaLevel, g.Vertical().Type)
			assert.Equal(t, 500.5, g.Vertical().Levels[1])
		})
	}
}

func TestGridFromConfig_Top(t *testing.T) {
	cfg := testConfig()
	cfg.Set("Grid.VerticalType", "hydrostatic-sigma-p")
	cfg.Set("Grid.Levels", "1, 0.5, 0")
	cfg.Set("Grid.Top", "10000")
	g, err := GridFromConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, 10000.0, g.Vertical().Top)

	cfg.Set("Grid.Top", "high")
	_, err = GridFromConfig(cfg)
	assert.Error(t, err)
}

func TestGridFromConfig_Invalid(t *testing.T) {
	for _, test := range []struct {
		name, key string
		value     interface{}
	}{
		{"projection", "Grid.Proj", "+proj=utm +zone=15"},
		{"columns", "Grid.Columns", 0},
		{"columns_type", "Grid.Columns", "many"},
		{"cell_width", "Grid.CellWidth", -1.0},
		{"vertical_type", "Grid.VerticalType", "eta"},
		{"levels", "Grid.VerticalType", "pressure"},
	} {
		t.Run(test.name, func(t *testing.T) {
			cfg := testConfig()
			cfg.Set(test.key, test.value)
			_, err := GridFromConfig(cfg)
			assert.Error(t, err)
		})
	}
}

func TestRegridderFromConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Set("Regrid.Method", "Weighted")
	cfg.Set("Regrid.MinimumValid", "2.5")
	r, err := RegridderFromConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, regrid.Weighted, r.Method)
	assert.Equal(t, 2.5, r.MinimumValid)

	cfg.Set("Regrid.Method", "median")
	_, err = RegridderFromConfig(cfg)
	assert.ErrorIs(t, err, regrid.ErrInvalid)
}

func TestSetConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "regrid.toml")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, toml.NewEncoder(f).Encode(map[string]interface{}{
		"LogLevel": "debug",
		"Grid": map[string]interface{}{
			"Proj":         conusProj,
			"Columns":      4,
			"Rows":         3,
			"WestEdge":     -24000.5,
			"SouthEdge":    1680000.5,
			"CellWidth":    36000.5,
			"CellHeight":   12000.5,
			"VerticalType": "pressure",
			"Levels":       []float64{100000.5, 85000.5, 50000.5},
		},
	}))
	require.NoError(t, f.Close())

	level := logrus.GetLevel()
	t.Cleanup(func() {
		logrus.SetLevel(level)
		Cfg.Set("config", "")
	})
	Cfg.Set("config", path)
	require.NoError(t, setConfig())
	assert.Equal(t, logrus.DebugLevel, logrus.GetLevel())

	g, err := GridFromConfig(Cfg)
	require.NoError(t, err)
	assert.Equal(t, 4, g.Columns())
	assert.Equal(t, 3, g.Rows())
	assert.Equal(t, 2, g.Layers())
	assert.Equal(t, 36000.5, g.CellWidth())
	assert.Equal(t, regrid.Pressure, g.Vertical().Type)
}

func TestSetConfig_Missing(t *testing.T) {
	t.Cleanup(func() { Cfg.Set("config", "") })
	Cfg.Set("config", filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, setConfig())
}
