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
	"os"

	"github.com/ctessum/cdf"
	"github.com/ctessum/sparse"
)

// ReadColumn reads the state of an atmospheric column from a netCDF
// file. The mixing ratios in the file are in the species order of modes.
// The volcanic forcing is read if the file contains it.
func ReadColumn(rw cdf.ReaderWriterAt, modes []Mode) (*Column, error) {
	f, err := cdf.Open(rw)
	if err != nil {
		return nil, fmt.Errorf("aeropt: reading column: %v", err)
	}
	lengths := f.Header.Lengths("mmr")
	if len(lengths) != 3 {
		return nil, fmt.Errorf("aeropt: reading column: variable mmr is missing or does not have 3 dimensions")
	}
	nl, nm, ns := lengths[0], lengths[1], lengths[2]
	if nm != len(modes) {
		return nil, fmt.Errorf("aeropt: reading column: file has %d modes but %d are configured", nm, len(modes))
	}
	for _, m := range modes {
		if len(m.Species) > ns {
			return nil, fmt.Errorf("aeropt: reading column: mode %s has %d species but the file has room for %d",
				m.Name, len(m.Species), ns)
		}
	}

	vars := make(map[string]*sparse.DenseArray)
	for _, v := range []struct {
		name string
		dims []int
	}{
		{"pdeldry", []int{nl}},
		{"pmid", []int{nl}},
		{"temperature", []int{nl}},
		{"cldn", []int{nl}},
		{"zm", []int{nl}},
		{"dgnumwet", []int{nl, nm}},
		{"qaerwat", []int{nl, nm}},
		{"mmr", []int{nl, nm, ns}},
	} {
		d, err := readNCF(f, v.name, v.dims...)
		if err != nil {
			return nil, fmt.Errorf("aeropt: reading column: %v", err)
		}
		vars[v.name] = d
	}

	c := &Column{Layers: make([]Layer, nl)}
	for k := range c.Layers {
		l := &c.Layers[k]
		l.PDelDry = vars["pdeldry"].Get(k)
		l.PMid = vars["pmid"].Get(k)
		l.Temperature = vars["temperature"].Get(k)
		l.CloudFraction = vars["cldn"].Get(k)
		l.Height = vars["zm"].Get(k)
		l.Modes = make([]ModeState, nm)
		for m, mode := range modes {
			ms := &l.Modes[m]
			ms.DgNumWet = vars["dgnumwet"].Get(k, m)
			ms.WaterMMR = vars["qaerwat"].Get(k, m)
			ms.MMR = make([]float64, len(mode.Species))
			for i := range ms.MMR {
				ms.MMR[i] = vars["mmr"].Get(k, m, i)
			}
		}
	}

	if f.Header.Lengths("ext_cmip6_sw") != nil {
		ext, err := readNCF(f, "ext_cmip6_sw", nl)
		if err != nil {
			return nil, fmt.Errorf("aeropt: reading column: %v", err)
		}
		trop, ok := f.Header.GetAttribute("", "trop_level").([]int32)
		if !ok || len(trop) != 1 {
			return nil, fmt.Errorf("aeropt: reading column: volcanic extinction is present but attribute trop_level is missing")
		}
		c.Volcanic = &VolcanicForcing{
			Extinction:      ext.Elements,
			TropopauseLayer: int(trop[0]),
		}
	}
	return c, nil
}

// Write writes c to a netCDF file.
func (c *Column) Write(w *os.File) error {
	nl := len(c.Layers)
	if nl == 0 {
		return fmt.Errorf("aeropt: writing column: column has no layers")
	}
	nm := len(c.Layers[0].Modes)
	ns := 1
	for _, l := range c.Layers {
		if len(l.Modes) != nm {
			return fmt.Errorf("aeropt: writing column: layers have different numbers of modes")
		}
		for _, ms := range l.Modes {
			if len(ms.MMR) > ns {
				ns = len(ms.MMR)
			}
		}
	}
	h := cdf.NewHeader([]string{"layer", "mode", "spec"}, []int{nl, nm, ns})
	h.AddAttribute("", "comment", "AerOpt atmospheric column")

	type ncfVar struct {
		name, units string
		dims        []string
		data        *sparse.DenseArray
	}
	layer := func(name, units string, val func(l *Layer) float64) ncfVar {
		d := sparse.ZerosDense(nl)
		for k := range c.Layers {
			d.Elements[k] = val(&c.Layers[k])
		}
		return ncfVar{name: name, units: units, dims: []string{"layer"}, data: d}
	}
	mode := func(name, units string, val func(ms *ModeState) float64) ncfVar {
		d := sparse.ZerosDense(nl, nm)
		for k, l := range c.Layers {
			for m := range l.Modes {
				d.Set(val(&l.Modes[m]), k, m)
			}
		}
		return ncfVar{name: name, units: units, dims: []string{"layer", "mode"}, data: d}
	}
	mmr := sparse.ZerosDense(nl, nm, ns)
	for k, l := range c.Layers {
		for m, ms := range l.Modes {
			for i, v := range ms.MMR {
				mmr.Set(v, k, m, i)
			}
		}
	}
	vars := []ncfVar{
		layer("pdeldry", "Pa", func(l *Layer) float64 { return l.PDelDry }),
		layer("pmid", "Pa", func(l *Layer) float64 { return l.PMid }),
		layer("temperature", "K", func(l *Layer) float64 { return l.Temperature }),
		layer("cldn", "1", func(l *Layer) float64 { return l.CloudFraction }),
		layer("zm", "m", func(l *Layer) float64 { return l.Height }),
		mode("dgnumwet", "m", func(ms *ModeState) float64 { return ms.DgNumWet }),
		mode("qaerwat", "kg/kg", func(ms *ModeState) float64 { return ms.WaterMMR }),
		{name: "mmr", units: "kg/kg", dims: []string{"layer", "mode", "spec"}, data: mmr},
	}
	if c.Volcanic != nil {
		if err := c.Volcanic.check(nl); err != nil {
			return fmt.Errorf("aeropt: writing column: %v", err)
		}
		ext := sparse.ZerosDense(nl)
		copy(ext.Elements, c.Volcanic.Extinction)
		vars = append(vars, ncfVar{name: "ext_cmip6_sw", units: "1/m", dims: []string{"layer"}, data: ext})
		h.AddAttribute("", "trop_level", []int32{int32(c.Volcanic.TropopauseLayer)})
	}
	for _, v := range vars {
		h.AddVariable(v.name, v.dims, []float64{0})
		h.AddAttribute(v.name, "units", v.units)
	}
	h.Define()

	f, err := cdf.Create(w, h)
	if err != nil {
		return fmt.Errorf("aeropt: writing column: %v", err)
	}
	for _, v := range vars {
		if err := writeNCF(f, v.name, v.data); err != nil {
			return fmt.Errorf("aeropt: writing column: %v", err)
		}
	}
	return cdf.UpdateNumRecs(w)
}
