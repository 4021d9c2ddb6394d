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
	"strings"

	"github.com/ctessum/cdf"
	"github.com/ctessum/sparse"
)

// TableDataVersion is the version of the optics table file format
// that this version of the software is compatible with.
const TableDataVersion = "1.0.0"

// regimeVars holds the netCDF names used for the variables of one regime.
type regimeVars struct {
	band                     string // band dimension
	ext, abs, asym           string
	refReal, refImag         string
	waterReal, waterImag     string
	speciesReal, speciesImag string
}

var tableVars = map[Regime]regimeVars{
	Shortwave: {
		band:        "swband",
		ext:         "extpsw",
		abs:         "abspsw",
		asym:        "asmpsw",
		refReal:     "refrtabsw",
		refImag:     "refitabsw",
		waterReal:   "crefwsw_real",
		waterImag:   "crefwsw_imag",
		speciesReal: "specrefsw_real",
		speciesImag: "specrefsw_imag",
	},
	Longwave: {
		band:        "lwband",
		abs:         "absplw",
		refReal:     "refrtablw",
		refImag:     "refitablw",
		waterReal:   "crefwlw_real",
		waterImag:   "crefwlw_imag",
		speciesReal: "specreflw_real",
		speciesImag: "specreflw_imag",
	},
}

// ReadTable reads an optics table from a netCDF file.
func ReadTable(rw cdf.ReaderWriterAt) (*Table, error) {
	f, err := cdf.Open(rw)
	if err != nil {
		return nil, fmt.Errorf("aeropt: reading optics table: %v", err)
	}
	dataVersion, err := stringAttribute(f.Header, "data_version")
	if err != nil {
		return nil, fmt.Errorf("aeropt: reading optics table: %v", err)
	}
	if dataVersion != TableDataVersion {
		return nil, fmt.Errorf("aeropt: optics table data version %s is incompatible "+
			"with the required version %s", dataVersion, TableDataVersion)
	}
	t := new(Table)
	for _, bs := range []BandSet{Shortwave.Bands(), Longwave.Bands()} {
		rt, err := readRegimeTable(f, bs)
		if err != nil {
			return nil, fmt.Errorf("aeropt: reading %v optics table: %v", bs.Regime, err)
		}
		*t.Regime(bs.Regime) = *rt
	}
	return t, nil
}

func readRegimeTable(f *cdf.File, bs BandSet) (*RegimeTable, error) {
	names := tableVars[bs.Regime]
	lengths := f.Header.Lengths(names.abs)
	if len(lengths) != 5 {
		return nil, fmt.Errorf("variable %s is missing or does not have 5 dimensions", names.abs)
	}
	nm, nb, nr, ni := lengths[0], lengths[1], lengths[3], lengths[4]
	if nb != bs.NumBands || lengths[2] != NumCoef {
		return nil, fmt.Errorf("variable %s has shape %v; it should have %d bands and %d coefficients",
			names.abs, lengths, bs.NumBands, NumCoef)
	}
	coefVars := []string{names.abs}
	if bs.Scattering {
		coefVars = append(coefVars, names.ext, names.asym)
	}
	coefs := make(map[string]*sparse.DenseArray)
	for _, v := range coefVars {
		d, err := readNCF(f, v, nm, nb, NumCoef, nr, ni)
		if err != nil {
			return nil, err
		}
		coefs[v] = d
	}
	refReal, err := readNCF(f, names.refReal, nm, nb, nr)
	if err != nil {
		return nil, err
	}
	refImag, err := readNCF(f, names.refImag, nm, nb, ni)
	if err != nil {
		return nil, err
	}

	rt := &RegimeTable{Regime: bs.Regime, Bands: make([][]*BandTable, nm)}
	for m := 0; m < nm; m++ {
		rt.Bands[m] = make([]*BandTable, nb)
		for b := 0; b < nb; b++ {
			bt := NewBandTable(
				append([]float64{}, refReal.Elements[refReal.Index1d(m, b, 0):][:nr]...),
				append([]float64{}, refImag.Elements[refImag.Index1d(m, b, 0):][:ni]...),
				bs.Scattering)
			copyCoef(bt.Abs, coefs[names.abs], m, b)
			if bs.Scattering {
				copyCoef(bt.Ext, coefs[names.ext], m, b)
				copyCoef(bt.Asym, coefs[names.asym], m, b)
			}
			rt.Bands[m][b] = bt
		}
	}

	if rt.Water, err = readComplex(f, names.waterReal, names.waterImag, nb); err != nil {
		return nil, err
	}
	rt.Species = make([][]complex128, NumSpeciesKinds)
	sr, err := readNCF(f, names.speciesReal, NumSpeciesKinds, nb)
	if err != nil {
		return nil, err
	}
	si, err := readNCF(f, names.speciesImag, NumSpeciesKinds, nb)
	if err != nil {
		return nil, err
	}
	for k := range rt.Species {
		rt.Species[k] = make([]complex128, nb)
		for b := range rt.Species[k] {
			rt.Species[k][b] = complex(sr.Get(k, b), si.Get(k, b))
		}
	}
	return rt, nil
}

func readComplex(f *cdf.File, re, im string, n int) ([]complex128, error) {
	r, err := readNCF(f, re, n)
	if err != nil {
		return nil, err
	}
	i, err := readNCF(f, im, n)
	if err != nil {
		return nil, err
	}
	o := make([]complex128, n)
	for j := range o {
		o[j] = complex(r.Elements[j], i.Elements[j])
	}
	return o, nil
}

// gridSize returns the lengths of the refractive index grids of rt,
// which must be the same in every band.
func (rt *RegimeTable) gridSize() (nr, ni int, err error) {
	if len(rt.Bands) == 0 || len(rt.Bands[0]) == 0 {
		return 0, 0, fmt.Errorf("aeropt: %v table is empty", rt.Regime)
	}
	nr, ni = len(rt.Bands[0][0].RefReal), len(rt.Bands[0][0].RefImag)
	for m, bands := range rt.Bands {
		for b, bt := range bands {
			if len(bt.RefReal) != nr || len(bt.RefImag) != ni {
				return 0, 0, fmt.Errorf("aeropt: %v table mode %d band %d grid size differs from "+
					"the first band; all bands must have the same size to be written to a file",
					rt.Regime, m, b)
			}
		}
	}
	return nr, ni, nil
}

// Write writes t to a netCDF file. t must be valid for nModes modes.
func (t *Table) Write(w *os.File, nModes int) error {
	if err := t.Validate(nModes); err != nil {
		return err
	}
	swr, swi, err := t.Shortwave.gridSize()
	if err != nil {
		return err
	}
	lwr, lwi, err := t.Longwave.gridSize()
	if err != nil {
		return err
	}
	if swr != lwr || swi != lwi {
		return fmt.Errorf("aeropt: shortwave and longwave refractive index grid sizes differ")
	}
	h := cdf.NewHeader(
		[]string{"mode", "swband", "lwband", "coef", "refr", "refi", "spec"},
		[]int{nModes, NumShortwaveBands, NumLongwaveBands, NumCoef, swr, swi, NumSpeciesKinds})
	h.AddAttribute("", "comment", "AerOpt modal aerosol optics table")
	h.AddAttribute("", "data_version", TableDataVersion)
	h.AddAttribute("", "species", strings.Join(speciesNames[:], ","))

	data := make(map[string]*sparse.DenseArray)
	var names []string
	add := func(name string, dims []string, lengths []int) *sparse.DenseArray {
		h.AddVariable(name, dims, []float64{0})
		d := sparse.ZerosDense(lengths...)
		data[name] = d
		names = append(names, name)
		return d
	}
	for _, bs := range []BandSet{Shortwave.Bands(), Longwave.Bands()} {
		rt := t.Regime(bs.Regime)
		vn := tableVars[bs.Regime]
		nb := bs.NumBands
		coefDims := []string{"mode", vn.band, "coef", "refr", "refi"}
		coefLengths := []int{nModes, nb, NumCoef, swr, swi}
		abs := add(vn.abs, coefDims, coefLengths)
		var ext, asym *sparse.DenseArray
		if bs.Scattering {
			ext = add(vn.ext, coefDims, coefLengths)
			asym = add(vn.asym, coefDims, coefLengths)
		}
		refReal := add(vn.refReal, []string{"mode", vn.band, "refr"}, []int{nModes, nb, swr})
		refImag := add(vn.refImag, []string{"mode", vn.band, "refi"}, []int{nModes, nb, swi})
		for m, bands := range rt.Bands {
			for b, bt := range bands {
				writeCoef(abs, bt.Abs, m, b)
				if bs.Scattering {
					writeCoef(ext, bt.Ext, m, b)
					writeCoef(asym, bt.Asym, m, b)
				}
				copy(refReal.Elements[refReal.Index1d(m, b, 0):], bt.RefReal)
				copy(refImag.Elements[refImag.Index1d(m, b, 0):], bt.RefImag)
			}
		}
		wr := add(vn.waterReal, []string{vn.band}, []int{nb})
		wi := add(vn.waterImag, []string{vn.band}, []int{nb})
		for b, c := range rt.Water {
			wr.Elements[b], wi.Elements[b] = real(c), imag(c)
		}
		sr := add(vn.speciesReal, []string{"spec", vn.band}, []int{NumSpeciesKinds, nb})
		si := add(vn.speciesImag, []string{"spec", vn.band}, []int{NumSpeciesKinds, nb})
		for k, refs := range rt.Species {
			for b, c := range refs {
				sr.Set(real(c), k, b)
				si.Set(imag(c), k, b)
			}
		}
	}
	h.Define()

	f, err := cdf.Create(w, h)
	if err != nil {
		return fmt.Errorf("aeropt: writing optics table: %v", err)
	}
	for _, name := range names {
		if err := writeNCF(f, name, data[name]); err != nil {
			return fmt.Errorf("aeropt: writing optics table: %v", err)
		}
	}
	return cdf.UpdateNumRecs(w)
}

// copyCoef copies the coefficients of mode m and band b in all, which
// is indexed [mode, band, coef, real, imag], into one.
func copyCoef(one, all *sparse.DenseArray, m, b int) {
	copy(one.Elements, all.Elements[all.Index1d(m, b, 0, 0, 0):])
}

// writeCoef copies the coefficients one of mode m and band b into all.
func writeCoef(all, one *sparse.DenseArray, m, b int) {
	copy(all.Elements[all.Index1d(m, b, 0, 0, 0):], one.Elements)
}
