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

package aeropt

import (
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/kr/pretty"
	"gonum.org/v1/gonum/floats"
)

// Coefficients giving a specific extinction of 3000 m²/kg and a specific
// absorption of 300 m²/kg of water, so the single-scatter albedo is 0.9.
var (
	testExt  = [NumCoef]float64{2 * math.Log(3000)}
	testAbs  = [NumCoef]float64{600}
	testAsym = [NumCoef]float64{1.4}
)

func testEngine(t *testing.T, modes []Mode, table *Table) *Engine {
	e, err := NewEngine(modes, table)
	if err != nil {
		t.Fatal(err)
	}
	return e
}

// testColumn returns a column with n layers of the default modes.
func testColumn(n int) *Column {
	modes := DefaultModes()
	c := &Column{Layers: make([]Layer, n)}
	for k := range c.Layers {
		l := &c.Layers[k]
		l.PDelDry = 1000 + 10*float64(k)
		l.PMid = 20000 + 80000*float64(k)/float64(n)
		l.Temperature = 220 + 70*float64(k)/float64(n)
		l.Height = 15000 * float64(n-k) / float64(n)
		l.Modes = make([]ModeState, len(modes))
		for m, mode := range modes {
			ms := &l.Modes[m]
			ms.DgNumWet = 5.e-8 * float64(m+1) * (1 + 0.1*float64(k))
			ms.WaterMMR = 1.e-10 * float64(k)
			ms.MMR = make([]float64, len(mode.Species))
			for i := range ms.MMR {
				ms.MMR[i] = 1.e-10 * float64(i+1) * float64(m+1)
			}
		}
	}
	return c
}

// TestConstantTable checks that with a table whose only nonzero
// coefficient is the first, the parameterized extinction does not
// depend on particle size.
func TestConstantTable(t *testing.T) {
	const c0 = 12.
	table := NewConstantTable(1, [NumCoef]float64{c0}, [NumCoef]float64{}, [NumCoef]float64{})
	for b := 0; b < NumShortwaveBands; b++ {
		table.Shortwave.Species[Sulfate][b] = complex(1.5, 0)
	}
	modes := []Mode{{Name: "test", Sigma: 2.0, Species: []Species{DefaultSpecies[Sulfate]}}}
	e := testEngine(t, modes, table)

	const mmr = 1.e-9
	for _, d := range []float64{0.2e-6, 0.05e-6, 1.e-6} {
		p := SizeParameters(2.0, d, LogRadiusDirect)
		bt := table.Shortwave.Bands[0][VisibleBand]
		f := NewInterpFactors(bt, complex(1.5, 0))
		if v := Chebyshev(f.Interpolate(bt.Ext), p.Basis); v != 0.5*c0 {
			t.Errorf("d=%g: extinction parameter %g; want %g", d, v, 0.5*c0)
		}

		c := &Column{Layers: []Layer{{
			PDelDry: 1000, PMid: 80000, Temperature: 280,
			Modes: []ModeState{{DgNumWet: d, MMR: []float64{mmr}}},
		}}}
		o, err := e.Shortwave(c)
		if err != nil {
			t.Fatal(err)
		}
		mass := 1000 / Gravity
		wetVol := mmr / DefaultSpecies[Sulfate].Density
		want := math.Exp(0.5*c0) * wetVol * RhoWater * mass
		for b := 0; b < NumShortwaveBands; b++ {
			if different(o.Tau[1][b], want, 1.e-12) {
				t.Errorf("d=%g band %d: tau = %g; want %g", d, b, o.Tau[1][b], want)
			}
			// No absorption.
			if different(o.Wa[1][b], want, 1.e-12) {
				t.Errorf("d=%g band %d: wa = %g; want %g", d, b, o.Wa[1][b], want)
			}
		}
	}
}

func TestSentinelRow(t *testing.T) {
	e := testEngine(t, DefaultModes(), NewConstantTable(4, testExt, testAbs, testAsym))
	o, err := e.Shortwave(testColumn(5))
	if err != nil {
		t.Fatal(err)
	}
	for b := 0; b < NumShortwaveBands; b++ {
		if o.Tau[0][b] != 0 || o.Wa[0][b] != 0.925 || o.Ga[0][b] != 0.85 || o.Fa[0][b] != 0.7225 {
			t.Errorf("band %d: top row is %g, %g, %g, %g", b, o.Tau[0][b], o.Wa[0][b], o.Ga[0][b], o.Fa[0][b])
		}
	}
	if len(o.Tau) != 6 || len(o.Extinct) != 5 {
		t.Errorf("wrong output size: %d rows and %d layers", len(o.Tau), len(o.Extinct))
	}
}

func TestShortwaveSums(t *testing.T) {
	e := testEngine(t, DefaultModes(), NewConstantTable(4, testExt, testAbs, testAsym))
	o, err := e.Shortwave(testColumn(3))
	if err != nil {
		t.Fatal(err)
	}
	// The constant table has the same albedo and asymmetry everywhere.
	const palb, pasm = 0.9, 0.7
	for k := 1; k < len(o.Tau); k++ {
		for b := 0; b < NumShortwaveBands; b++ {
			tau := o.Tau[k][b]
			if !(tau > 0) {
				t.Fatalf("layer %d band %d: tau = %g", k-1, b, tau)
			}
			if different(o.Wa[k][b], tau*palb, 1.e-10) {
				t.Errorf("layer %d band %d: wa = %g; want %g", k-1, b, o.Wa[k][b], tau*palb)
			}
			if different(o.Ga[k][b], tau*palb*pasm, 1.e-10) {
				t.Errorf("layer %d band %d: ga = %g; want %g", k-1, b, o.Ga[k][b], tau*palb*pasm)
			}
			if different(o.Fa[k][b], tau*palb*pasm*pasm, 1.e-10) {
				t.Errorf("layer %d band %d: fa = %g; want %g", k-1, b, o.Fa[k][b], tau*palb*pasm*pasm)
			}
		}
	}
	d := o.Diagnostics
	if different(d.SSAVis, palb, 1.e-10) {
		t.Errorf("SSAVis = %g; want %g", d.SSAVis, palb)
	}
	var aodVis, aodUV, aodNIR float64
	for k := 1; k < len(o.Tau); k++ {
		aodVis += o.Tau[k][VisibleBand]
		aodUV += o.Tau[k][UVBand]
		aodNIR += o.Tau[k][NearIRBand]
	}
	for _, v := range []struct {
		name      string
		got, want float64
	}{
		{"AODVis", d.AODVis, aodVis},
		{"AODAll", d.AODAll, aodVis},
		{"AODUV", d.AODUV, aodUV},
		{"AODNIR", d.AODNIR, aodNIR},
		{"AODAbs", d.AODAbs, aodVis * (1 - palb)},
		{"ModeAOD", floats.Sum(d.ModeAOD), aodVis},
	} {
		if different(v.got, v.want, 1.e-10) {
			t.Errorf("%s = %g; want %g", v.name, v.got, v.want)
		}
	}
}

// TestSpeciesAODConservation checks that the species optical depths,
// including the water assigned to them, add up to the mode optical depth.
func TestSpeciesAODConservation(t *testing.T) {
	modes := []Mode{{
		Name:  "mixed",
		Sigma: 1.8,
		Species: []Species{
			DefaultSpecies[Sulfate], DefaultSpecies[BlackCarbon],
			DefaultSpecies[Dust], DefaultSpecies[SeaSalt],
		},
	}}
	e := testEngine(t, modes, NewConstantTable(1, testExt, testAbs, testAsym))
	c := &Column{Layers: []Layer{{
		PDelDry: 2000, PMid: 90000, Temperature: 290,
		Modes: []ModeState{{
			DgNumWet: 3.e-7,
			WaterMMR: 4.e-9,
			MMR:      []float64{2.e-9, 1.e-10, 5.e-10, 1.e-9},
		}},
	}}}
	o, err := e.Shortwave(c)
	if err != nil {
		t.Fatal(err)
	}
	d := o.Diagnostics
	if different(floats.Sum(d.SpeciesAOD), d.ModeAOD[0], 1.e-10) {
		t.Errorf("sum of species AOD %g != mode AOD %g (%v)", floats.Sum(d.SpeciesAOD), d.ModeAOD[0], d.SpeciesAOD)
	}
	if d.ModeAOD[0] != d.AODVis {
		t.Errorf("mode AOD %g != AODVis %g", d.ModeAOD[0], d.AODVis)
	}
	for _, k := range []SpeciesKind{PrimaryOrganic, SecondaryOrganic, MarineOrganic} {
		if d.SpeciesAOD[k] != 0 || d.SpeciesBurden[k] != 0 {
			t.Errorf("%v is not in the mode but has AOD %g and burden %g", k, d.SpeciesAOD[k], d.SpeciesBurden[k])
		}
	}
	mass := 2000 / Gravity
	if different(d.SpeciesBurden[Sulfate], 2.e-9*mass, 1.e-12) {
		t.Errorf("sulfate burden %g; want %g", d.SpeciesBurden[Sulfate], 2.e-9*mass)
	}
	if different(d.ModeBurden[0], 3.6e-9*mass, 1.e-12) {
		t.Errorf("mode burden %g; want %g", d.ModeBurden[0], 3.6e-9*mass)
	}
	if !(d.AODAbsBC > 0) || !(d.ModeDustAOD[0] > 0) {
		t.Errorf("AODAbsBC = %g, dust AOD = %g", d.AODAbsBC, d.ModeDustAOD[0])
	}
	wetVol := 2.e-9/1770 + 1.e-10/1700 + 5.e-10/2600 + 1.e-9/1900 + 4.e-9/RhoWater
	wantDust := d.ModeAOD[0] * (5.e-10 / 2600) / wetVol
	if different(d.ModeDustAOD[0], wantDust, 1.e-10) {
		t.Errorf("dust AOD %g; want %g", d.ModeDustAOD[0], wantDust)
	}
}

// TestSpeciesAODConservationNonHygroscopic checks that the water in a mode
// whose species take up no water is still assigned to the species.
func TestSpeciesAODConservationNonHygroscopic(t *testing.T) {
	bc, pom := DefaultSpecies[BlackCarbon], DefaultSpecies[PrimaryOrganic]
	bc.Hygroscopicity, pom.Hygroscopicity = 0, 0
	modes := []Mode{{Name: "carbon", Sigma: 1.6, Species: []Species{bc, pom}}}
	e := testEngine(t, modes, NewConstantTable(1, testExt, testAbs, testAsym))
	c := &Column{Layers: []Layer{{
		PDelDry: 2000, PMid: 90000, Temperature: 290,
		Modes: []ModeState{{
			DgNumWet: 1.e-7,
			WaterMMR: 4.e-9,
			MMR:      []float64{1.e-9, 2.e-9},
		}},
	}}}
	o, err := e.Shortwave(c)
	if err != nil {
		t.Fatal(err)
	}
	d := o.Diagnostics
	if !(d.ModeAOD[0] > 0) {
		t.Fatalf("mode AOD = %g", d.ModeAOD[0])
	}
	if different(floats.Sum(d.SpeciesAOD), d.ModeAOD[0], 1.e-10) {
		t.Errorf("sum of species AOD %g != mode AOD %g (%v)", floats.Sum(d.SpeciesAOD), d.ModeAOD[0], d.SpeciesAOD)
	}
	if !(d.SpeciesAOD[BlackCarbon] > 0) || !(d.SpeciesAOD[PrimaryOrganic] > 0) {
		t.Errorf("species AOD: %v", d.SpeciesAOD)
	}
}

func TestGeometricOpticsColumn(t *testing.T) {
	modes := []Mode{{Name: "giant", Sigma: 1.8, Species: []Species{DefaultSpecies[SeaSalt]}}}
	e := testEngine(t, modes, NewConstantTable(1, testExt, testAbs, testAsym))
	const mmr = 1.e-8
	c := &Column{Layers: []Layer{{
		PDelDry: 1000, PMid: 90000, Temperature: 290,
		Modes: []ModeState{{DgNumWet: 2.e-4, MMR: []float64{mmr}}},
	}}}
	o, err := e.Shortwave(c)
	if err != nil {
		t.Fatal(err)
	}
	p := SizeParameters(1.8, 2.e-4, LogRadiusDirect)
	want := 1.5 / (p.Radius * RhoWater) * mmr / DefaultSpecies[SeaSalt].Density * RhoWater * 1000 / Gravity
	if different(o.Tau[1][VisibleBand], want, 1.e-12) {
		t.Errorf("tau = %g; want %g", o.Tau[1][VisibleBand], want)
	}
}

func TestLongwave(t *testing.T) {
	const abs0 = 40.
	modes := []Mode{{Name: "test", Sigma: 1.6, Species: []Species{DefaultSpecies[Sulfate]}}}
	e := testEngine(t, modes, NewConstantTable(1, testExt, [NumCoef]float64{abs0}, testAsym))
	c := &Column{Layers: []Layer{
		{PDelDry: 1000, PMid: 50000, Temperature: 250,
			Modes: []ModeState{{DgNumWet: 1.e-7, WaterMMR: 1.e-9, MMR: []float64{1.e-9}}}},
		{PDelDry: 1000, PMid: 90000, Temperature: 290,
			Modes: []ModeState{{DgNumWet: 1.e-7, WaterMMR: -1.e-9, MMR: []float64{1.e-9}}}},
	}}
	o, err := e.Longwave(c)
	if err != nil {
		t.Fatal(err)
	}
	if len(o.Tau) != 2 || len(o.Tau[0]) != NumLongwaveBands {
		t.Fatalf("wrong output size %d×%d", len(o.Tau), len(o.Tau[0]))
	}
	mass := 1000 / Gravity
	dry := 1.e-9 / DefaultSpecies[Sulfate].Density
	want := []float64{
		0.5 * abs0 * (dry + 1.e-12) * RhoWater * mass,
		0.5 * abs0 * dry * RhoWater * mass, // negative water is ignored
	}
	for k := range want {
		for b := 0; b < NumLongwaveBands; b++ {
			if different(o.Tau[k][b], want[k], 1.e-12) {
				t.Errorf("layer %d band %d: tau = %g; want %g", k, b, o.Tau[k][b], want[k])
			}
		}
	}

	// Negative absorption is set to zero.
	e = testEngine(t, modes, NewConstantTable(1, testExt, [NumCoef]float64{-abs0}, testAsym))
	o, err = e.Longwave(c)
	if err != nil {
		t.Fatal(err)
	}
	for k := range o.Tau {
		for b, v := range o.Tau[k] {
			if v != 0 {
				t.Errorf("layer %d band %d: tau = %g; want 0", k, b, v)
			}
		}
	}
}

// TestLayerIndependence checks that each layer is calculated the same
// way whether or not it is part of a larger column.
func TestLayerIndependence(t *testing.T) {
	e := testEngine(t, DefaultModes(), NewConstantTable(4, testExt, testAbs, testAsym))
	c := testColumn(37)
	all, err := e.Shortwave(c)
	if err != nil {
		t.Fatal(err)
	}
	allLW, err := e.Longwave(c)
	if err != nil {
		t.Fatal(err)
	}
	for k := range c.Layers {
		one := &Column{Layers: c.Layers[k : k+1]}
		o, err := e.Shortwave(one)
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(o.Tau[1], all.Tau[k+1]) || !reflect.DeepEqual(o.Fa[1], all.Fa[k+1]) {
			t.Errorf("layer %d: %v", k, pretty.Diff(o.Tau[1], all.Tau[k+1]))
		}
		if o.Extinct[0] != all.Extinct[k] {
			t.Errorf("layer %d: extinction %g != %g", k, o.Extinct[0], all.Extinct[k])
		}
		lw, err := e.Longwave(one)
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(lw.Tau[0], allLW.Tau[k]) {
			t.Errorf("layer %d longwave: %v", k, pretty.Diff(lw.Tau[0], allLW.Tau[k]))
		}
	}
}

func TestVolcanicForcing(t *testing.T) {
	v := &VolcanicForcing{
		Extinction:      []float64{10, 20, 30, 40, 50},
		TropopauseLayer: 2,
	}
	ext := []float64{1, 2, 3, 4, 5}
	h := v.Apply(ext, []float64{5000, 4000, 3000, 2000, 1000})
	if want := []float64{10, 20, 16.5, 4, 5}; !reflect.DeepEqual(ext, want) {
		t.Errorf("%v", pretty.Diff(ext, want))
	}
	if h != 3000 {
		t.Errorf("tropopause height %g; want 3000", h)
	}

	e := testEngine(t, DefaultModes(), NewConstantTable(4, testExt, testAbs, testAsym))
	c := testColumn(5)
	base, err := e.Shortwave(c)
	if err != nil {
		t.Fatal(err)
	}
	c.Volcanic = &VolcanicForcing{Extinction: []float64{1, 2, 3, 4, 5}, TropopauseLayer: 1}
	o, err := e.Shortwave(c)
	if err != nil {
		t.Fatal(err)
	}
	if o.Extinct[0] != 1 || o.Extinct[1] != 0.5*(base.Extinct[1]+2) {
		t.Errorf("extinction above the tropopause not replaced: %v", o.Extinct)
	}
	if !reflect.DeepEqual(o.Extinct[2:], base.Extinct[2:]) {
		t.Errorf("extinction below the tropopause changed: %v", pretty.Diff(o.Extinct[2:], base.Extinct[2:]))
	}
	if o.TropopauseHeight != c.Layers[1].Height {
		t.Errorf("tropopause height %g; want %g", o.TropopauseHeight, c.Layers[1].Height)
	}
	if !reflect.DeepEqual(o.Tau, base.Tau) {
		t.Error("volcanic forcing should not change band optical depths")
	}
}

func TestEngineErrors(t *testing.T) {
	table := NewConstantTable(4, testExt, testAbs, testAsym)
	if _, err := NewEngine(DefaultModes()[:3], table); err == nil {
		t.Error("mode count mismatch should be an error")
	}
	badModes := DefaultModes()
	badModes[1].Sigma = 0
	if _, err := NewEngine(badModes, table); err == nil {
		t.Error("zero sigma should be an error")
	}
	badTable := NewConstantTable(4, testExt, testAbs, testAsym)
	badTable.Shortwave.Bands[2][3].RefReal = []float64{1.3, 1.2, 1.5, 1.6, 1.7, 1.8, 1.9}
	if _, err := NewEngine(DefaultModes(), badTable); err == nil {
		t.Error("non-ascending grid should be an error")
	}

	e := testEngine(t, DefaultModes(), table)
	for name, c := range map[string]*Column{
		"no layers": {},
		"modes": func() *Column {
			c := testColumn(2)
			c.Layers[1].Modes = c.Layers[1].Modes[:2]
			return c
		}(),
		"species": func() *Column {
			c := testColumn(2)
			c.Layers[0].Modes[3].MMR = c.Layers[0].Modes[3].MMR[:1]
			return c
		}(),
		"diameter": func() *Column {
			c := testColumn(2)
			c.Layers[0].Modes[0].DgNumWet = 0
			return c
		}(),
		"tropopause": func() *Column {
			c := testColumn(2)
			c.Volcanic = &VolcanicForcing{Extinction: []float64{0, 0}, TropopauseLayer: 2}
			return c
		}(),
	} {
		if _, err := e.Shortwave(c); err == nil {
			t.Errorf("%s: shortwave should return an error", name)
		}
		if _, err := e.Longwave(c); err == nil {
			t.Errorf("%s: longwave should return an error", name)
		}
	}
}

func TestEngineModeCopy(t *testing.T) {
	modes := DefaultModes()
	e := testEngine(t, modes, NewConstantTable(4, testExt, testAbs, testAsym))
	c := testColumn(3)
	want, err := e.Shortwave(c)
	if err != nil {
		t.Fatal(err)
	}
	modes[0].Sigma = 0
	modes[1].Species[0].Density = 1
	got := e.Modes()
	if !reflect.DeepEqual(got, DefaultModes()) {
		t.Errorf("modes changed: %v", pretty.Diff(got, DefaultModes()))
	}
	got[2].Sigma = 0
	got[3].Species[0].Density = 1
	o, err := e.Shortwave(c)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(o.Tau, want.Tau) {
		t.Error("changing the modes after creating the engine changed its results")
	}
}

func TestModeNamedAfterSpecies(t *testing.T) {
	modes := DefaultModes()
	modes[1].Name = "so4"
	_, err := NewEngine(modes, NewConstantTable(4, testExt, testAbs, testAsym))
	if err == nil {
		t.Fatal("mode named after a species should be an error")
	}
	if !strings.Contains(err.Error(), "species name") {
		t.Errorf("error %q does not say the name is a species name", err)
	}
	modes[1].Name = modes[0].Name
	_, err = NewEngine(modes, NewConstantTable(4, testExt, testAbs, testAsym))
	if err == nil || !strings.Contains(err.Error(), "not unique") {
		t.Errorf("duplicate mode name: error %v", err)
	}
}
