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
	"io"
	"os"
	"strings"

	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/regrid"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	// Options are the configuration options available to regrid.
	options = []struct {
		name, usage, shorthand string
		defaultVal             interface{}
		flagsets               []*pflag.FlagSet
	}{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "LogLevel",
			usage: `
              LogLevel is the logging level: panic, fatal, error, warn,
              info, or debug.`,
			defaultVal: "info",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "Input",
			usage: `
              Input is the path to the input text file. If it is empty or
              "-", input is read from standard input.`,
			shorthand:  "i",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "OutputFile",
			usage: `
              OutputFile is the path to the output text file. If it is empty
              or "-", output is written to standard output.`,
			shorthand:  "o",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "Grid.Proj",
			usage: `
              Grid.Proj is the Proj4 definition of the grid projection.
              Albers (aea), Lambert conformal conic (lcc), Mercator (merc),
              and stereographic (stere) projections are supported.`,
			defaultVal: "+proj=aea +lat_1=29.5 +lat_2=45.5 +lat_0=23 +lon_0=-96 +x_0=0 +y_0=0 +a=6370997 +b=6370997",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "Grid.Columns",
			usage: `
              Grid.Columns is the number of grid columns.`,
			defaultVal: 1,
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "Grid.Rows",
			usage: `
              Grid.Rows is the number of grid rows.`,
			defaultVal: 1,
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "Grid.WestEdge",
			usage: `
              Grid.WestEdge is the projected x coordinate of the west edge
              of the grid [m].`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "Grid.SouthEdge",
			usage: `
              Grid.SouthEdge is the projected y coordinate of the south edge
              of the grid [m].`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "Grid.CellWidth",
			usage: `
              Grid.CellWidth is the grid cell length in the x direction [m].`,
			defaultVal: 1000.0,
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "Grid.CellHeight",
			usage: `
              Grid.CellHeight is the grid cell length in the y direction [m].`,
			defaultVal: 1000.0,
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "Grid.VerticalType",
			usage: `
              Grid.VerticalType is the vertical coordinate of the grid:
              none, hydrostatic-sigma-p, non-hydrostatic-sigma-p, sigma-z,
              pressure, height-above-sea-level, height-above-terrain,
              or wrf-sigma.`,
			defaultVal: "none",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "Grid.Levels",
			usage: `
              Grid.Levels are the layer boundaries, bottom first, in the
              units of Grid.VerticalType (sigma, Pa, or m).`,
			defaultVal: []string{},
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "Grid.Top",
			usage: `
              Grid.Top is the model top: pressure [Pa] for sigma-p
              coordinates or height [m] for sigma-z.`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "Regrid.Method",
			usage: `
              Regrid.Method is how the points in a cell are reduced:
              mean, nearest, or weighted.`,
			shorthand:  "m",
			defaultVal: "mean",
			flagsets:   []*pflag.FlagSet{regridCmd.Flags()},
		},
		{
			name: "Regrid.MinimumValid",
			usage: `
              Regrid.MinimumValid is the smallest point value that is
              included in a cell.`,
			defaultVal: -9.0e36,
			flagsets:   []*pflag.FlagSet{regridCmd.Flags()},
		},
		{
			name: "Swath.MinimumWeight",
			usage: `
              Swath.MinimumWeight is the smallest summed overlap weight for
              which a cell mean is computed.`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{swathCmd.Flags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("REGRID")
	Cfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	Cfg.AutomaticEnv()

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch v := option.defaultVal.(type) {
			case string:
				set.StringP(option.name, option.shorthand, v, option.usage)
			case []string:
				set.StringSliceP(option.name, option.shorthand, v, option.usage)
			case int:
				set.IntP(option.name, option.shorthand, v, option.usage)
			case float64:
				set.Float64P(option.name, option.shorthand, v, option.usage)
			default:
				panic("invalid argument type")
			}
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
}

func init() {
	// Link the commands together.
	Root.AddCommand(versionCmd)
	Root.AddCommand(projectCmd)
	Root.AddCommand(unprojectCmd)
	Root.AddCommand(regridCmd)
	Root.AddCommand(swathCmd)
	Root.AddCommand(gridCmd)
}

// setConfig finds and reads in the configuration file, if there is one,
// and sets the logging level.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(os.ExpandEnv(cfgpath))
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("regrid: problem reading configuration file: %v", err)
		}
	}
	level, err := logrus.ParseLevel(Cfg.GetString("LogLevel"))
	if err != nil {
		return fmt.Errorf("regrid: %v", err)
	}
	logrus.SetLevel(level)
	return nil
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "regrid",
	Short: "Project and regrid geospatial point data.",
	Long: `regrid maps longitude-latitude point data and satellite pixel footprints
onto a regular grid in an Albers, Lambert conformal conic, Mercator, or
stereographic projection, and reduces the values that fall in each cell.

Configuration can be changed by using a configuration file (and providing the
path to the file using the --config flag), by using command-line arguments,
or by setting environment variables in the format 'REGRID_var' where 'var' is the
name of the variable to be set, with '.' replaced by '_'.
Refer to https://github.com/spf13/viper for additional configuration information.`,
	DisableAutoGenTag: true,
	SilenceUsage:      true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig() },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of regrid.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("regrid v%s\n", regrid.Version)
	},
	DisableAutoGenTag: true,
}

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Project longitude-latitude points.",
	Long: `project reads lines of 'longitude latitude' [degrees] from Input and writes
lines of 'x y' [m] in the grid projection to OutputFile.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withIO(Cfg, func(r io.Reader, w io.Writer) error {
			return Project(Cfg, r, w)
		})
	},
	DisableAutoGenTag: true,
}

var unprojectCmd = &cobra.Command{
	Use:   "unproject",
	Short: "Unproject x-y points.",
	Long: `unproject reads lines of 'x y' [m] in the grid projection from Input and
writes lines of 'longitude latitude' [degrees] to OutputFile.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withIO(Cfg, func(r io.Reader, w io.Writer) error {
			return Unproject(Cfg, r, w)
		})
	},
	DisableAutoGenTag: true,
}

var regridCmd = &cobra.Command{
	Use:   "regrid",
	Short: "Regrid point data.",
	Long: `regrid reads point lines from Input in the format

    longitude latitude value [value2 [elevation [surfaceElevation [weight]]]] [note]

maps them onto the grid, and writes one line per populated cell to OutputFile
in the format

    column row layer value value2 count inputs longitude latitude [note]`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withIO(Cfg, func(r io.Reader, w io.Writer) error {
			return Regrid(Cfg, r, w)
		})
	},
	DisableAutoGenTag: true,
}

var swathCmd = &cobra.Command{
	Use:   "swath",
	Short: "Bin satellite pixel footprints.",
	Long: `swath reads footprint lines from Input in the format

    lonSW latSW lonSE latSE lonNW latNW lonNE latNE value

bins them onto the grid by overlap area, and writes one line per populated
cell to OutputFile in the format

    column row mean count weight longitude latitude`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withIO(Cfg, func(r io.Reader, w io.Writer) error {
			return Swath(Cfg, r, w)
		})
	},
	DisableAutoGenTag: true,
}

var gridCmd = &cobra.Command{
	Use:   "grid",
	Short: "Describe the grid.",
	Long: `grid writes the grid definition, its longitude-latitude extent, and the
centers of its corner cells to OutputFile.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withIO(Cfg, func(_ io.Reader, w io.Writer) error {
			return DescribeGrid(Cfg, w)
		})
	},
	DisableAutoGenTag: true,
}

// withIO opens the configured input and output and passes them to f.
func withIO(cfg *viper.Viper, f func(io.Reader, io.Writer) error) error {
	var r io.Reader = os.Stdin
	if in := os.ExpandEnv(cfg.GetString("Input")); in != "" && in != "-" {
		file, err := os.Open(in)
		if err != nil {
			return fmt.Errorf("regrid: opening input: %v", err)
		}
		defer file.Close()
		r = file
	}
	out := os.ExpandEnv(cfg.GetString("OutputFile"))
	if out == "" || out == "-" {
		return f(r, os.Stdout)
	}
	file, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("regrid: creating output: %v", err)
	}
	if err := f(r, file); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
