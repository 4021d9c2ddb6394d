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

	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/aeropt"
	"gonum.org/v1/gonum/floats"
)

// Run calculates the optical properties of an atmospheric column.
//
// TableFile is the path to the netCDF optics table.
//
// ModeFile is the path to the TOML mode configuration. If it is empty,
// aeropt.DefaultModes is used.
//
// ColumnFile is the path to the netCDF file holding the column state.
//
// OutputFile is the path where per-layer optical properties for the
// shortwave bands in OutputBands should be written in CSV format.
//
// PlotFile and MetricsFile, if not empty, are the paths where the
// extinction profile plot and the numerical event counts should be written.
//
// If VolcanicForcing is false, any volcanic extinction in the column file
// is ignored.
func Run(TableFile, ModeFile, ColumnFile, OutputFile, PlotFile, MetricsFile string,
	OutputBands []int, VolcanicForcing bool) error {

	modes, err := loadModes(ModeFile)
	if err != nil {
		return err
	}
	t, err := loadTable(TableFile)
	if err != nil {
		return err
	}
	e, err := aeropt.NewEngine(modes, t)
	if err != nil {
		return err
	}
	c, err := loadColumn(ColumnFile, modes)
	if err != nil {
		return err
	}
	if !VolcanicForcing {
		c.Volcanic = nil
	}

	Log.WithFields(logrus.Fields{
		"layers": len(c.Layers),
		"modes":  len(modes),
	}).Info("calculating optical properties")
	sw, err := e.Shortwave(c)
	if err != nil {
		return err
	}
	lw, err := e.Longwave(c)
	if err != nil {
		return err
	}
	logDiagnostics(sw)

	recs, err := aeropt.LayerRecords(c, sw, lw, OutputBands)
	if err != nil {
		return err
	}
	if err := writeFile(OutputFile, func(f *os.File) error { return aeropt.WriteLayerRecords(f, recs) }); err != nil {
		return err
	}
	Log.WithField("file", OutputFile).Info("wrote layer optical properties")

	if PlotFile != "" {
		if err := writeFile(PlotFile, func(f *os.File) error { return aeropt.PlotProfile(f, c, sw) }); err != nil {
			return err
		}
		Log.WithField("file", PlotFile).Info("wrote extinction profile")
	}
	if MetricsFile != "" {
		if err := aeropt.WriteMetrics(MetricsFile); err != nil {
			return err
		}
		Log.WithField("file", MetricsFile).Info("wrote metrics")
	}
	return nil
}

// logDiagnostics logs the column diagnostics in sw.
func logDiagnostics(sw *aeropt.ShortwaveOptics) {
	d := sw.Diagnostics
	fields := make(logrus.Fields)
	for _, v := range d.Variables() {
		val, err := d.Value(v)
		if err != nil {
			panic(err) // Variables only returns valid names.
		}
		fields[v] = fmt.Sprintf("%.4g", val)
	}
	if sw.TropopauseHeight != 0 {
		fields["TropopauseHeight"] = sw.TropopauseHeight
	}
	Log.WithFields(fields).Info("column diagnostics")
}

// CheckTable reads the optics table in TableFile, checks it against the
// modes in ModeFile and logs its contents.
func CheckTable(TableFile, ModeFile string) (*aeropt.Table, error) {
	modes, err := loadModes(ModeFile)
	if err != nil {
		return nil, err
	}
	t, err := loadTable(TableFile)
	if err != nil {
		return nil, err
	}
	if err := t.Validate(len(modes)); err != nil {
		return nil, err
	}
	for _, r := range []aeropt.Regime{aeropt.Shortwave, aeropt.Longwave} {
		rt := t.Regime(r)
		for m, bands := range rt.Bands {
			var realMin, realMax, imagMin, imagMax []float64
			for _, bt := range bands {
				realMin = append(realMin, bt.RefReal[0])
				realMax = append(realMax, bt.RefReal[len(bt.RefReal)-1])
				imagMin = append(imagMin, bt.RefImag[0])
				imagMax = append(imagMax, bt.RefImag[len(bt.RefImag)-1])
			}
			Log.WithFields(logrus.Fields{
				"regime":    r,
				"mode":      modes[m].Name,
				"bands":     rt.NumBands(),
				"real_min":  floats.Min(realMin),
				"real_max":  floats.Max(realMax),
				"imag_min":  floats.Min(imagMin),
				"imag_max":  floats.Max(imagMax),
				"real_grid": len(bands[0].RefReal),
				"imag_grid": len(bands[0].RefImag),
			}).Info("optics table")
		}
	}
	return t, nil
}

func loadModes(modeFile string) ([]aeropt.Mode, error) {
	if modeFile == "" {
		return aeropt.DefaultModes(), nil
	}
	f, err := os.Open(modeFile)
	if err != nil {
		return nil, fmt.Errorf("aeropt: problem opening ModeFile: %v", err)
	}
	defer f.Close()
	return aeropt.ReadModeConfig(f)
}

func loadTable(tableFile string) (*aeropt.Table, error) {
	Log.WithField("file", tableFile).Info("reading optics table")
	f, err := os.Open(tableFile)
	if err != nil {
		return nil, fmt.Errorf("aeropt: problem opening TableFile: %v", err)
	}
	defer f.Close()
	return aeropt.ReadTable(f)
}

func loadColumn(columnFile string, modes []aeropt.Mode) (*aeropt.Column, error) {
	Log.WithField("file", columnFile).Info("reading column")
	f, err := os.Open(columnFile)
	if err != nil {
		return nil, fmt.Errorf("aeropt: problem opening ColumnFile: %v", err)
	}
	defer f.Close()
	return aeropt.ReadColumn(f, modes)
}

// writeFile creates filename and writes to it using write.
func writeFile(filename string, write func(*os.File) error) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("aeropt: creating output file: %v", err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
