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

	"github.com/ctessum/sparse"
)

// BandTable holds the Chebyshev coefficients of one mode in one band,
// tabulated against the real and imaginary parts of the refractive index.
type BandTable struct {
	// RefReal and RefImag are the tabulated real and imaginary refractive
	// indices. Both must be strictly ascending.
	RefReal, RefImag []float64

	// Ext, Abs and Asym are the coefficients for specific extinction,
	// specific absorption and asymmetry factor, with shape
	// [NumCoef, len(RefReal), len(RefImag)]. Ext and Asym are only present
	// in shortwave tables.
	Ext, Abs, Asym *sparse.DenseArray
}

// NewBandTable returns a band table with the given refractive index grids
// and zero coefficients. Extinction and asymmetry coefficients are only
// allocated if scattering is true.
func NewBandTable(refReal, refImag []float64, scattering bool) *BandTable {
	t := &BandTable{
		RefReal: refReal,
		RefImag: refImag,
		Abs:     sparse.ZerosDense(NumCoef, len(refReal), len(refImag)),
	}
	if scattering {
		t.Ext = sparse.ZerosDense(NumCoef, len(refReal), len(refImag))
		t.Asym = sparse.ZerosDense(NumCoef, len(refReal), len(refImag))
	}
	return t
}

// RegimeTable holds the optics data for all modes and bands of one
// spectral regime.
type RegimeTable struct {
	Regime Regime

	// Bands holds the coefficient tables, indexed [mode][band].
	Bands [][]*BandTable

	// Water is the complex refractive index of water in each band.
	Water []complex128

	// Species is the complex refractive index of each species kind,
	// indexed [SpeciesKind][band].
	Species [][]complex128
}

// NumBands returns the number of bands in r.
func (r *RegimeTable) NumBands() int { return len(r.Water) }

// Table holds the shortwave and longwave optics data. A Table is built
// once, checked with Validate, and must not be modified afterwards; it is
// safe for concurrent use by any number of evaluations.
type Table struct {
	Shortwave, Longwave RegimeTable
}

// Regime returns the table for the given regime. It panics if r
// is not a valid regime.
func (t *Table) Regime(r Regime) *RegimeTable {
	mustRegime(r)
	if r == Shortwave {
		return &t.Shortwave
	}
	return &t.Longwave
}

// Validate checks that t is complete and internally consistent for
// nModes aerosol modes.
func (t *Table) Validate(nModes int) error {
	for _, bs := range []BandSet{Shortwave.Bands(), Longwave.Bands()} {
		if err := t.Regime(bs.Regime).validate(bs, nModes); err != nil {
			return err
		}
	}
	return nil
}

func (r *RegimeTable) validate(bs BandSet, nModes int) error {
	if r.Regime != bs.Regime {
		return fmt.Errorf("aeropt: %v table is labeled as %v", bs.Regime, r.Regime)
	}
	if len(r.Water) != bs.NumBands {
		return fmt.Errorf("aeropt: %v table has %d water refractive indices; it should have %d",
			bs.Regime, len(r.Water), bs.NumBands)
	}
	if len(r.Species) != NumSpeciesKinds {
		return fmt.Errorf("aeropt: %v table has refractive indices for %d species; it should have %d",
			bs.Regime, len(r.Species), NumSpeciesKinds)
	}
	for k, s := range r.Species {
		if len(s) != bs.NumBands {
			return fmt.Errorf("aeropt: %v table has %d refractive indices for species %v; it should have %d",
				bs.Regime, len(s), SpeciesKind(k), bs.NumBands)
		}
	}
	if len(r.Bands) != nModes {
		return fmt.Errorf("aeropt: %v table has %d modes; it should have %d", bs.Regime, len(r.Bands), nModes)
	}
	for m, bands := range r.Bands {
		if len(bands) != bs.NumBands {
			return fmt.Errorf("aeropt: %v table mode %d has %d bands; it should have %d",
				bs.Regime, m, len(bands), bs.NumBands)
		}
		for b, bt := range bands {
			if bt == nil {
				return fmt.Errorf("aeropt: %v table mode %d band %d is missing", bs.Regime, m, b)
			}
			if err := bt.validate(bs.Scattering); err != nil {
				return fmt.Errorf("aeropt: %v table mode %d band %d: %v", bs.Regime, m, b, err)
			}
		}
	}
	return nil
}

func (bt *BandTable) validate(scattering bool) error {
	for _, g := range []struct {
		name string
		grid []float64
	}{{"real", bt.RefReal}, {"imaginary", bt.RefImag}} {
		if len(g.grid) == 0 {
			return fmt.Errorf("empty %s refractive index grid", g.name)
		}
		for i := 1; i < len(g.grid); i++ {
			if !(g.grid[i] > g.grid[i-1]) {
				return fmt.Errorf("%s refractive index grid is not strictly ascending at index %d (%g, %g)",
					g.name, i, g.grid[i-1], g.grid[i])
			}
		}
	}
	want := []int{NumCoef, len(bt.RefReal), len(bt.RefImag)}
	arrays := []struct {
		name     string
		a        *sparse.DenseArray
		required bool
	}{
		{"extinction", bt.Ext, scattering},
		{"absorption", bt.Abs, true},
		{"asymmetry", bt.Asym, scattering},
	}
	for _, a := range arrays {
		if a.a == nil {
			if a.required {
				return fmt.Errorf("missing %s coefficients", a.name)
			}
			continue
		}
		if !sameShape(a.a.Shape, want) {
			return fmt.Errorf("%s coefficients have shape %v; they should have shape %v", a.name, a.a.Shape, want)
		}
	}
	return nil
}

func sameShape(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Refractive index grids used by NewConstantTable.
var (
	constantRefReal = []float64{1.3, 1.4, 1.5, 1.6, 1.7, 1.8, 1.9}
	constantRefImag = []float64{0, 0.001, 0.003, 0.01, 0.03, 0.1, 0.3, 0.6, 1.0, 1.5}
)

// Approximate refractive indices used by NewConstantTable, indexed by
// SpeciesKind. They do not vary by band.
var (
	constantShortwaveRef = [NumSpeciesKinds]complex128{
		complex(1.53, 0.0055), complex(1.43, 1.e-8), complex(1.85, 0.71), complex(1.53, 0.006),
		complex(1.53, 0.006), complex(1.49, 1.e-6), complex(1.45, 0.001),
	}
	constantLongwaveRef = [NumSpeciesKinds]complex128{
		complex(1.6, 0.3), complex(1.5, 0.2), complex(1.9, 0.6), complex(1.5, 0.1),
		complex(1.5, 0.1), complex(1.5, 0.05), complex(1.5, 0.1),
	}
	constantShortwaveWater = complex(1.33, 1.e-8)
	constantLongwaveWater  = complex(1.4, 0.3)
)

// NewConstantTable returns a table for nModes modes whose coefficients
// are the same in every band and at every refractive index. Its
// refractive indices are rough visible and thermal-infrared values. It is
// intended for testing and idealized calculations.
func NewConstantTable(nModes int, ext, abs, asym [NumCoef]float64) *Table {
	t := new(Table)
	for _, bs := range []BandSet{Shortwave.Bands(), Longwave.Bands()} {
		rt := t.Regime(bs.Regime)
		rt.Regime = bs.Regime
		speciesRef, waterRef := constantShortwaveRef, constantShortwaveWater
		if bs.Regime == Longwave {
			speciesRef, waterRef = constantLongwaveRef, constantLongwaveWater
		}
		rt.Water = make([]complex128, bs.NumBands)
		rt.Species = make([][]complex128, NumSpeciesKinds)
		for k := range rt.Species {
			rt.Species[k] = make([]complex128, bs.NumBands)
		}
		for b := 0; b < bs.NumBands; b++ {
			rt.Water[b] = waterRef
			for k := range rt.Species {
				rt.Species[k][b] = speciesRef[k]
			}
		}
		rt.Bands = make([][]*BandTable, nModes)
		for m := range rt.Bands {
			rt.Bands[m] = make([]*BandTable, bs.NumBands)
			for b := range rt.Bands[m] {
				bt := NewBandTable(constantRefReal, constantRefImag, bs.Scattering)
				fillCoef(bt.Abs, abs)
				if bs.Scattering {
					fillCoef(bt.Ext, ext)
					fillCoef(bt.Asym, asym)
				}
				rt.Bands[m][b] = bt
			}
		}
	}
	return t
}

// fillCoef sets every refractive index in a to coef.
func fillCoef(a *sparse.DenseArray, coef [NumCoef]float64) {
	for c := 0; c < a.Shape[0]; c++ {
		for i := 0; i < a.Shape[1]; i++ {
			for j := 0; j < a.Shape[2]; j++ {
				a.Set(coef[c], c, i, j)
			}
		}
	}
}
