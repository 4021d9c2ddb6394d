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
	"bytes"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/spatialmodel/aeropt"
)

// testInputs writes an optics table and a column with n layers to dir
// and returns their paths.
func testInputs(t *testing.T, dir string, n int, volcanic *aeropt.VolcanicForcing) (tableFile, columnFile string) {
	tableFile = filepath.Join(dir, "table.ncf")
	f, err := os.Create(tableFile)
	if err != nil {
		t.Fatal(err)
	}
	table := aeropt.NewConstantTable(4,
		[aeropt.NumCoef]float64{2 * math.Log(3000)},
		[aeropt.NumCoef]float64{600},
		[aeropt.NumCoef]float64{1.4})
	if err := table.Write(f, 4); err != nil {
		t.Fatal(err)
	}
	f.Close()

	modes := aeropt.DefaultModes()
	c := &aeropt.Column{Layers: make([]aeropt.Layer, n), Volcanic: volcanic}
	for k := range c.Layers {
		l := &c.Layers[k]
		l.PDelDry = 1000
		l.PMid = 50000 + 1000*float64(k)
		l.Temperature = 250
		l.Height = 10000 - 500*float64(k)
		l.Modes = make([]aeropt.ModeState, len(modes))
		for m, mode := range modes {
			ms := &l.Modes[m]
			ms.DgNumWet = 1.e-7 * float64(m+1)
			ms.WaterMMR = 1.e-10
			ms.MMR = make([]float64, len(mode.Species))
			for i := range ms.MMR {
				ms.MMR[i] = 1.e-10
			}
		}
	}
	columnFile = filepath.Join(dir, "column.ncf")
	f, err = os.Create(columnFile)
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Write(f); err != nil {
		t.Fatal(err)
	}
	f.Close()
	return tableFile, columnFile
}

func readRecords(t *testing.T, filename string) []*aeropt.LayerRecord {
	f, err := os.Open(filename)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	recs, err := aeropt.ReadLayerRecords(f)
	if err != nil {
		t.Fatal(err)
	}
	return recs
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	tableFile, columnFile := testInputs(t, dir, 4, nil)
	outputFile := filepath.Join(dir, "output.csv")
	plotFile := filepath.Join(dir, "profile.png")
	metricsFile := filepath.Join(dir, "metrics.prom")
	bands := []int{aeropt.VisibleBand, aeropt.UVBand, aeropt.NearIRBand}
	if err := Run(tableFile, "", columnFile, outputFile, plotFile, metricsFile, bands, true); err != nil {
		t.Fatal(err)
	}
	recs := readRecords(t, outputFile)
	if len(recs) != 4*len(bands) {
		t.Fatalf("have %d records; want %d", len(recs), 4*len(bands))
	}
	for _, r := range recs {
		if math.Abs(r.SSA-0.9) > 1.e-10 {
			t.Errorf("layer %d band %d: ssa = %g; want 0.9", r.Layer, r.Band, r.SSA)
		}
		if !(r.Tau > 0) || !(r.Extinct > 0) || !(r.TauLW > 0) {
			t.Errorf("layer %d band %d: optical properties should be > 0: %+v", r.Layer, r.Band, r)
		}
	}
	for _, f := range []string{plotFile, metricsFile} {
		if s, err := os.Stat(f); err != nil {
			t.Error(err)
		} else if s.Size() == 0 {
			t.Errorf("%s is empty", f)
		}
	}
}

func TestRunVolcanic(t *testing.T) {
	dir := t.TempDir()
	volcanic := &aeropt.VolcanicForcing{
		Extinction:      []float64{3.e-5, 2.e-5, 1.e-5, 1.e-6},
		TropopauseLayer: 2,
	}
	tableFile, columnFile := testInputs(t, dir, 4, volcanic)

	results := make(map[bool][]*aeropt.LayerRecord)
	for _, apply := range []bool{true, false} {
		outputFile := filepath.Join(dir, "output.csv")
		if err := Run(tableFile, "", columnFile, outputFile, "", "", []int{aeropt.VisibleBand}, apply); err != nil {
			t.Fatal(err)
		}
		results[apply] = readRecords(t, outputFile)
	}
	for k := 0; k < 2; k++ {
		if have := results[true][k].Extinct; have != volcanic.Extinction[k] {
			t.Errorf("layer %d: extinction = %g; want %g", k, have, volcanic.Extinction[k])
		}
	}
	want := 0.5 * (results[false][2].Extinct + volcanic.Extinction[2])
	if have := results[true][2].Extinct; math.Abs(have-want) > 1.e-15*want {
		t.Errorf("tropopause extinction = %g; want %g", have, want)
	}
	if have, want := results[true][3].Extinct, results[false][3].Extinct; have != want {
		t.Errorf("troposphere extinction = %g; want %g", have, want)
	}
	if results[true][0].Tau != results[false][0].Tau {
		t.Error("volcanic forcing should not change optical depth")
	}
}

func TestRunCommand(t *testing.T) {
	dir := t.TempDir()
	tableFile, columnFile := testInputs(t, dir, 3, nil)
	outputFile := filepath.Join(dir, "output.csv")
	logFile := filepath.Join(dir, "aeropt.log")

	Cfg.Set("config", "")
	Cfg.Set("TableFile", tableFile)
	Cfg.Set("ColumnFile", columnFile)
	Cfg.Set("OutputFile", outputFile)
	Cfg.Set("OutputBands", []int{0, aeropt.VisibleBand})
	Cfg.Set("LogFile", logFile)
	defer Cfg.Set("LogFile", "")
	Root.SetArgs([]string{"run"})
	if err := Root.Execute(); err != nil {
		t.Fatal(err)
	}
	if recs := readRecords(t, outputFile); len(recs) != 6 {
		t.Errorf("have %d records; want 6", len(recs))
	}
	b, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatal(err)
	}
	for _, s := range []string{"column diagnostics", "AODVis", "Burden_coarse"} {
		if !strings.Contains(string(b), s) {
			t.Errorf("log file does not contain %q", s)
		}
	}
}

func TestRunCommandErrors(t *testing.T) {
	dir := t.TempDir()
	tableFile, columnFile := testInputs(t, dir, 2, nil)
	type test struct {
		name, variable string
		value          interface{}
	}
	for _, test := range []test{
		{name: "missing column", variable: "ColumnFile", value: filepath.Join(dir, "xxx.ncf")},
		{name: "missing output directory", variable: "OutputFile", value: filepath.Join(dir, "xxx", "out.csv")},
		{name: "invalid band", variable: "OutputBands", value: []int{aeropt.NumShortwaveBands}},
		{name: "invalid log level", variable: "LogLevel", value: "loud"},
		{name: "column as table", variable: "TableFile", value: columnFile},
	} {
		t.Run(test.name, func(t *testing.T) {
			Cfg.Set("config", "")
			Cfg.Set("TableFile", tableFile)
			Cfg.Set("ColumnFile", columnFile)
			Cfg.Set("OutputFile", filepath.Join(dir, "output.csv"))
			Cfg.Set("OutputBands", []int{aeropt.VisibleBand})
			Cfg.Set("LogLevel", "info")
			Cfg.Set(test.variable, test.value)
			defer Cfg.Set("LogLevel", "info")
			Root.SetArgs([]string{"run"})
			if err := Root.Execute(); err == nil {
				t.Error("should be an error")
			}
		})
	}
}

func TestCheckTable(t *testing.T) {
	dir := t.TempDir()
	tableFile, _ := testInputs(t, dir, 1, nil)
	if _, err := CheckTable(tableFile, ""); err != nil {
		t.Fatal(err)
	}
	modeFile := filepath.Join(dir, "modes.toml")
	if err := os.WriteFile(modeFile, []byte(`
[[Mode]]
Name = "coarse"
Sigma = 1.8
Species = ["dst", "ncl"]
`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := CheckTable(tableFile, modeFile); err == nil {
		t.Error("mode count mismatch should be an error")
	}

	Cfg.Set("config", "")
	Cfg.Set("TableFile", tableFile)
	Cfg.Set("ModeFile", "../testdata/modes.toml")
	defer Cfg.Set("ModeFile", "")
	Root.SetArgs([]string{"table"})
	if err := Root.Execute(); err != nil {
		t.Fatal(err)
	}
}

func TestVersion(t *testing.T) {
	Cfg.Set("config", "")
	var b bytes.Buffer
	Root.SetOutput(&b)
	defer Root.SetOutput(nil)
	Root.SetArgs([]string{"version"})
	if err := Root.Execute(); err != nil {
		t.Fatal(err)
	}
	if want := "AerOpt v" + aeropt.Version + "\n"; b.String() != want {
		t.Errorf("have %q, want %q", b.String(), want)
	}
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	tableFile, columnFile := testInputs(t, dir, 2, nil)
	outputFile := filepath.Join(dir, "output.csv")
	configFile := filepath.Join(dir, "config.toml")
	config := `TableFile = "` + tableFile + `"
ColumnFile = "` + columnFile + `"
OutputFile = "` + outputFile + `"
OutputBands = [7, 9, 10]
`
	if err := os.WriteFile(configFile, []byte(config), 0644); err != nil {
		t.Fatal(err)
	}
	for _, v := range []string{"TableFile", "ColumnFile", "OutputFile", "OutputBands"} {
		Cfg.Set(v, nil)
	}
	Cfg.Set("config", configFile)
	defer Cfg.Set("config", "")
	Root.SetArgs([]string{"run"})
	if err := Root.Execute(); err != nil {
		t.Fatal(err)
	}
	if recs := readRecords(t, outputFile); len(recs) != 6 {
		t.Errorf("have %d records; want 6", len(recs))
	}
}

func TestIntSlice(t *testing.T) {
	tests := []struct {
		in   interface{}
		want []int
	}{
		{in: []int{9, 7}, want: []int{9, 7}},
		{in: "[9,7]", want: []int{9, 7}},
		{in: "[9, 7, 10]", want: []int{9, 7, 10}},
		{in: "[]", want: nil},
		{in: []interface{}{int64(1), int64(2)}, want: []int{1, 2}},
	}
	for _, test := range tests {
		have, err := intSlice(test.in)
		if err != nil {
			t.Errorf("%v: %v", test.in, err)
			continue
		}
		if !reflect.DeepEqual(have, test.want) {
			t.Errorf("%v: have %v, want %v", test.in, have, test.want)
		}
	}
	if _, err := intSlice("[a,b]"); err == nil {
		t.Error("invalid integers should be an error")
	}
}
