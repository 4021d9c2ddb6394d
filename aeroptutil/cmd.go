/*
Copyright © 2024 the AerOpt authors.
This file is part of AerOpt.

AerOpt is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

AerOpt is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with AerOpt.  If not, see <http://www.gnu.org/licenses/>.
*/

package aeroptutil

import (
	"fmt"
	"os"

	"github.com/lnashier/viper"
	"github.com/spatialmodel/aeropt"
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
	// Options are the configuration options available to AerOpt.
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
			name: "LogFile",
			usage: `
              LogFile is the path to a file that log records should be written
              to in addition to standard error. The file is rotated when it
              becomes large. If it is empty, records are only written to
              standard error. It can include environment variables.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "LogLevel",
			usage: `
              LogLevel is the lowest level of log record to output. Options are
              panic, fatal, error, warning, info, debug, and trace.`,
			defaultVal: "info",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "TableFile",
			usage: `
              TableFile is the path to the netCDF file holding the Chebyshev
              coefficients of the optics parameterization. It can include
              environment variables.`,
			shorthand:  "t",
			defaultVal: "${AEROPT_DATA}/optics_table.ncf",
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), tableCmd.Flags()},
		},
		{
			name: "ModeFile",
			usage: `
              ModeFile is the path to a TOML file describing the aerosol modes and
              their species. If it is empty, the four-mode configuration with
              accumulation, Aitken, coarse, and primary carbon modes is used.
              It can include environment variables.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), tableCmd.Flags()},
		},
		{
			name: "ColumnFile",
			usage: `
              ColumnFile is the path to the netCDF file holding the atmospheric
              state and aerosol mixing ratios of the column to be evaluated.
              It can include environment variables.`,
			shorthand:  "c",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "OutputFile",
			usage: `
              OutputFile is the path to the CSV file where the layer optical
              properties should be written. It can include environment variables.`,
			shorthand:  "o",
			defaultVal: "aeropt_output.csv",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "OutputBands",
			usage: `
              OutputBands specifies the shortwave bands whose optical properties
              are written to OutputFile. The default is the band containing 550 nm.`,
			defaultVal: []int{aeropt.VisibleBand},
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "PlotFile",
			usage: `
              PlotFile is the path to a PNG file where a plot of the visible-band
              extinction and absorption profiles should be written. If it is empty,
              no plot is created. It can include environment variables.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "MetricsFile",
			usage: `
              MetricsFile is the path to a file where counts of numerical events,
              such as refractive indices outside of the tabulated range, should be
              written in the Prometheus text format. If it is empty, they are not
              written. It can include environment variables.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "VolcanicForcing",
			usage: `
              VolcanicForcing specifies whether the volcanic extinction in the
              column file, if there is any, should replace the calculated
              visible-band extinction above the tropopause.`,
			defaultVal: true,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("AEROPT")

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch option.defaultVal.(type) {
			case string:
				if option.shorthand == "" {
					set.String(option.name, option.defaultVal.(string), option.usage)
				} else {
					set.StringP(option.name, option.shorthand, option.defaultVal.(string), option.usage)
				}
			case bool:
				if option.shorthand == "" {
					set.Bool(option.name, option.defaultVal.(bool), option.usage)
				} else {
					set.BoolP(option.name, option.shorthand, option.defaultVal.(bool), option.usage)
				}
			case []int:
				if option.shorthand == "" {
					set.IntSlice(option.name, option.defaultVal.([]int), option.usage)
				} else {
					set.IntSliceP(option.name, option.shorthand, option.defaultVal.([]int), option.usage)
				}
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
	Root.AddCommand(runCmd)
	Root.AddCommand(tableCmd)
}

// setConfig finds and reads in the configuration file, if there is one,
// and sets up logging.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(cfgpath)
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("aeropt: problem reading configuration file: %v", err)
		}
	}
	return setLogging(Cfg.GetString("LogLevel"), Cfg.GetString("LogFile"))
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "aeropt",
	Short: "Modal aerosol optical properties.",
	Long: `AerOpt calculates the shortwave and longwave radiative optical properties
of a modal aerosol population in an atmospheric column.
Use the subcommands specified below to access the model functionality.

Refer to the subcommand documentation for configuration options and default settings.
Configuration can be changed by using a configuration file (and providing the
path to the file using the --config flag), by using command-line arguments,
or by setting environment variables in the format 'AEROPT_var' where 'var' is the
name of the variable to be set. Many configuration variables are additionally
allowed to contain environment variables within them.
Refer to https://github.com/spf13/viper for additional configuration information.`,
	DisableAutoGenTag:  true,
	PersistentPreRunE:  func(*cobra.Command, []string) error { return setConfig() },
	PersistentPostRunE: func(*cobra.Command, []string) error { return closeLogFile() },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of AerOpt.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("AerOpt v%s\n", aeropt.Version)
	},
	DisableAutoGenTag: true,
}

// runCmd is a command that calculates the optical properties of a column.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Calculate column optical properties.",
	Long: `run calculates the shortwave and longwave optical properties of the
aerosol in the column specified by ColumnFile, using the optics table in
TableFile and the modes in ModeFile. Per-layer properties for the bands in
OutputBands are written to OutputFile, and column diagnostics are logged.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		outputFile, err := checkOutputFile(Cfg.GetString("OutputFile"))
		if err != nil {
			return err
		}
		columnFile, err := checkInputFile("ColumnFile", Cfg.GetString("ColumnFile"))
		if err != nil {
			return err
		}
		tableFile, err := checkInputFile("TableFile", Cfg.GetString("TableFile"))
		if err != nil {
			return err
		}
		bands, err := intSlice(Cfg.Get("OutputBands"))
		if err != nil {
			return fmt.Errorf("aeropt: reading 'OutputBands': %v", err)
		}
		return Run(
			tableFile,
			os.ExpandEnv(Cfg.GetString("ModeFile")),
			columnFile,
			outputFile,
			os.ExpandEnv(Cfg.GetString("PlotFile")),
			os.ExpandEnv(Cfg.GetString("MetricsFile")),
			bands,
			Cfg.GetBool("VolcanicForcing"),
		)
	},
	DisableAutoGenTag: true,
}

// tableCmd is a command that checks an optics table.
var tableCmd = &cobra.Command{
	Use:   "table",
	Short: "Check an optics table.",
	Long: `table reads the optics table in TableFile, checks that it is complete
for the modes in ModeFile, and logs its dimensions and refractive index ranges.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		tableFile, err := checkInputFile("TableFile", Cfg.GetString("TableFile"))
		if err != nil {
			return err
		}
		_, err = CheckTable(tableFile, os.ExpandEnv(Cfg.GetString("ModeFile")))
		return err
	},
	DisableAutoGenTag: true,
}
