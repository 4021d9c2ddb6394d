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
	"fmt"
	"strings"

	"github.com/ctessum/unit"
	"gonum.org/v1/gonum/floats"
)

// Diagnostics holds column-integrated visible-band aerosol diagnostics.
// UV and NIR optical depths are for the UVBand and NearIRBand.
type Diagnostics struct {
	AODVis   float64 // visible-band optical depth
	AODAll   float64 // visible-band optical depth of all modes
	AODAbs   float64 // visible-band absorption optical depth
	AODUV    float64 // UV-band optical depth
	AODNIR   float64 // near-IR-band optical depth
	AODAbsBC float64 // absorption optical depth of black carbon

	// SSAVis is the visible-band single-scatter albedo of the column.
	SSAVis float64

	// SpeciesAOD and SpeciesBurden [kg/m²] are indexed by SpeciesKind.
	SpeciesAOD    []float64
	SpeciesBurden []float64

	// ModeAOD, ModeBurden [kg/m²] and ModeDustAOD are indexed by mode.
	ModeAOD, ModeBurden, ModeDustAOD []float64

	// ModeNames holds the names of the modes.
	ModeNames []string
}

func newDiagnostics(modes []Mode) *Diagnostics {
	d := &Diagnostics{
		SpeciesAOD:    make([]float64, NumSpeciesKinds),
		SpeciesBurden: make([]float64, NumSpeciesKinds),
		ModeAOD:       make([]float64, len(modes)),
		ModeBurden:    make([]float64, len(modes)),
		ModeDustAOD:   make([]float64, len(modes)),
		ModeNames:     make([]string, len(modes)),
	}
	for i, m := range modes {
		d.ModeNames[i] = m.Name
	}
	return d
}

// add adds the values in o to d. SSAVis is added as the
// albedo-weighted optical depth.
func (d *Diagnostics) add(o *Diagnostics) {
	d.AODVis += o.AODVis
	d.AODAll += o.AODAll
	d.AODAbs += o.AODAbs
	d.AODUV += o.AODUV
	d.AODNIR += o.AODNIR
	d.AODAbsBC += o.AODAbsBC
	d.SSAVis += o.SSAVis
	floats.Add(d.SpeciesAOD, o.SpeciesAOD)
	floats.Add(d.SpeciesBurden, o.SpeciesBurden)
	floats.Add(d.ModeAOD, o.ModeAOD)
	floats.Add(d.ModeBurden, o.ModeBurden)
	floats.Add(d.ModeDustAOD, o.ModeDustAOD)
}

// finish converts the albedo-weighted optical depth in SSAVis to
// single-scatter albedo.
func (d *Diagnostics) finish() {
	if d.AODVis > 0 {
		d.SSAVis /= d.AODVis
	} else {
		d.SSAVis = 0
	}
}

var kgPerM2 = unit.Dimensions{unit.MassDim: 1, unit.LengthDim: -2}

type diagnosticVar struct {
	v *float64
	d unit.Dimensions
}

func (d *Diagnostics) vars() map[string]diagnosticVar {
	o := map[string]diagnosticVar{
		"AODVis":   {&d.AODVis, unit.Dimless},
		"AODAll":   {&d.AODAll, unit.Dimless},
		"AODAbs":   {&d.AODAbs, unit.Dimless},
		"AODUV":    {&d.AODUV, unit.Dimless},
		"AODNIR":   {&d.AODNIR, unit.Dimless},
		"AODAbsBC": {&d.AODAbsBC, unit.Dimless},
		"SSAVis":   {&d.SSAVis, unit.Dimless},
	}
	for k := 0; k < NumSpeciesKinds; k++ {
		name := SpeciesKind(k).String()
		o["AOD_"+name] = diagnosticVar{&d.SpeciesAOD[k], unit.Dimless}
		o["Burden_"+name] = diagnosticVar{&d.SpeciesBurden[k], kgPerM2}
	}
	for m, name := range d.ModeNames {
		o["AOD_"+name] = diagnosticVar{&d.ModeAOD[m], unit.Dimless}
		o["Burden_"+name] = diagnosticVar{&d.ModeBurden[m], kgPerM2}
		o["DustAOD_"+name] = diagnosticVar{&d.ModeDustAOD[m], unit.Dimless}
	}
	return o
}

// Variables returns the names of the diagnostic variables: the column
// scalars, AOD_ and Burden_ followed by a species or mode name, and
// DustAOD_ followed by a mode name.
func (d *Diagnostics) Variables() []string {
	names := []string{"AODVis", "AODAll", "AODAbs", "AODUV", "AODNIR", "AODAbsBC", "SSAVis"}
	for k := 0; k < NumSpeciesKinds; k++ {
		names = append(names, "AOD_"+SpeciesKind(k).String(), "Burden_"+SpeciesKind(k).String())
	}
	for _, name := range d.ModeNames {
		names = append(names, "AOD_"+name, "Burden_"+name, "DustAOD_"+name)
	}
	return names
}

// Value returns the value of the given diagnostic variable. It returns an
// error if given an invalid variable name.
func (d *Diagnostics) Value(variable string) (*unit.Unit, error) {
	v, ok := d.vars()[variable]
	if !ok {
		return nil, fmt.Errorf("aeropt: invalid diagnostic variable name %s; valid names are %s",
			variable, strings.Join(d.Variables(), ", "))
	}
	return unit.New(*v.v, v.d), nil
}

// Units returns the units of the given diagnostic variable, or an
// error if the variable name is invalid.
func (d *Diagnostics) Units(variable string) (string, error) {
	v, ok := d.vars()[variable]
	if !ok {
		return "", fmt.Errorf("aeropt: invalid diagnostic variable name %s; valid names are %s",
			variable, strings.Join(d.Variables(), ", "))
	}
	if len(v.d) == 0 {
		return "1", nil
	}
	return v.d.String(), nil
}
