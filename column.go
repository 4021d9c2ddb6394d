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

	"github.com/sirupsen/logrus"
)

// ModeState holds the state of one aerosol mode in one layer.
type ModeState struct {
	// DgNumWet is the wet number-mode diameter [m].
	DgNumWet float64

	// WaterMMR is the aerosol water mass mixing ratio [kg/kg].
	WaterMMR float64

	// MMR holds the mass mixing ratio [kg/kg] of each species in the
	// mode, in the order of Mode.Species.
	MMR []float64
}

// Layer holds the state of one model layer.
type Layer struct {
	PDelDry       float64 // dry-air pressure thickness [Pa]
	PMid          float64 // mid-point pressure [Pa]
	Temperature   float64 // [K]
	CloudFraction float64 // [1]
	Height        float64 // mid-point height [m]

	// Modes holds the aerosol state of each mode.
	Modes []ModeState
}

// Column is a vertical column of model layers. Layer 0 is at the model top.
type Column struct {
	Layers []Layer

	// Volcanic, if not nil, is the climatological volcanic extinction
	// applied above the tropopause.
	Volcanic *VolcanicForcing
}

// ShortwaveOptics holds the shortwave optical properties of a column.
type ShortwaveOptics struct {
	// Tau, Wa, Ga and Fa hold the optical depth and its single-scatter
	// albedo, asymmetry and forward-scattering weighted sums, indexed
	// [layer+1][band]. Row 0 is above the model top.
	Tau, Wa, Ga, Fa [][]float64

	// Extinct and Absorb are the visible-band extinction and absorption
	// in each layer [1/m].
	Extinct, Absorb []float64

	Diagnostics *Diagnostics

	// TropopauseHeight is the height of the tropopause layer [m]. It is
	// zero if no volcanic forcing was applied.
	TropopauseHeight float64
}

// LongwaveOptics holds the longwave optical properties of a column.
type LongwaveOptics struct {
	// Tau is the absorption optical depth, indexed [layer][band].
	Tau [][]float64
}

// Engine calculates aerosol optical properties. It is safe for
// concurrent use.
type Engine struct {
	modes  []Mode
	table  *Table
	sw, lw BandSet
}

// NewEngine returns an engine for the given modes using the optics in t.
// The modes are copied. t must not be modified afterwards.
func NewEngine(modes []Mode, t *Table) (*Engine, error) {
	if err := checkModes(modes); err != nil {
		return nil, err
	}
	if t == nil {
		return nil, fmt.Errorf("aeropt: optics table is nil")
	}
	if err := t.Validate(len(modes)); err != nil {
		return nil, err
	}
	return &Engine{
		modes: copyModes(modes),
		table: t,
		sw:    Shortwave.Bands(),
		lw:    Longwave.Bands(),
	}, nil
}

// Modes returns a copy of the aerosol modes of e.
func (e *Engine) Modes() []Mode { return copyModes(e.modes) }

func copyModes(modes []Mode) []Mode {
	o := make([]Mode, len(modes))
	for i, m := range modes {
		o[i] = m
		o[i].Species = append([]Species(nil), m.Species...)
	}
	return o
}

// checkColumn makes sure c matches the mode configuration of e.
func (e *Engine) checkColumn(c *Column) error {
	if len(c.Layers) == 0 {
		return fmt.Errorf("aeropt: column has no layers")
	}
	for k, l := range c.Layers {
		if len(l.Modes) != len(e.modes) {
			return fmt.Errorf("aeropt: layer %d has %d modes; it should have %d", k, len(l.Modes), len(e.modes))
		}
		for m, ms := range l.Modes {
			mode := e.modes[m]
			if len(ms.MMR) != len(mode.Species) {
				return fmt.Errorf("aeropt: layer %d mode %s has %d species mixing ratios; it should have %d",
					k, mode.Name, len(ms.MMR), len(mode.Species))
			}
			if !(ms.DgNumWet > 0) {
				return fmt.Errorf("aeropt: layer %d mode %s: wet diameter must be > 0 but is %g",
					k, mode.Name, ms.DgNumWet)
			}
		}
		if !(l.Temperature > 0) {
			return fmt.Errorf("aeropt: layer %d: temperature must be > 0 but is %g", k, l.Temperature)
		}
	}
	if c.Volcanic != nil {
		if err := c.Volcanic.check(len(c.Layers)); err != nil {
			return err
		}
	}
	return nil
}

func newRows(n, m int) [][]float64 {
	o := make([][]float64, n)
	for i := range o {
		o[i] = make([]float64, m)
	}
	return o
}

// Shortwave calculates the shortwave optical properties of c and, if
// c.Volcanic is set, applies the volcanic extinction override to the
// visible-band extinction.
func (e *Engine) Shortwave(c *Column) (*ShortwaveOptics, error) {
	if err := e.checkColumn(c); err != nil {
		return nil, err
	}
	n, nb := len(c.Layers), e.sw.NumBands
	o := &ShortwaveOptics{
		Tau:     newRows(n+1, nb),
		Wa:      newRows(n+1, nb),
		Ga:      newRows(n+1, nb),
		Fa:      newRows(n+1, nb),
		Extinct: make([]float64, n),
		Absorb:  make([]float64, n),
	}
	for b := 0; b < nb; b++ {
		o.Tau[0][b] = topTau
		o.Wa[0][b] = topWa
		o.Ga[0][b] = topGa
		o.Fa[0][b] = topFa
	}

	layers := make([]layerOptics, n)
	for k := range layers {
		layers[k] = layerOptics{
			tau:  o.Tau[k+1],
			wa:   o.Wa[k+1],
			ga:   o.Ga[k+1],
			fa:   o.Fa[k+1],
			diag: newDiagnostics(e.modes),
		}
	}
	e.evaluate(e.sw, c, layers)

	o.Diagnostics = newDiagnostics(e.modes)
	for k, l := range layers {
		o.Extinct[k] = l.extinct
		o.Absorb[k] = l.absorb
		o.Diagnostics.add(l.diag)
	}
	o.Diagnostics.finish()

	if c.Volcanic != nil {
		heights := make([]float64, n)
		for k, l := range c.Layers {
			heights[k] = l.Height
		}
		o.TropopauseHeight = c.Volcanic.Apply(o.Extinct, heights)
	}
	log.WithFields(logrus.Fields{
		"layers": n,
		"aodvis": o.Diagnostics.AODVis,
		"ssavis": o.Diagnostics.SSAVis,
	}).Debug("aeropt: calculated shortwave optics")
	return o, nil
}

// Longwave calculates the longwave absorption optical depth of c.
func (e *Engine) Longwave(c *Column) (*LongwaveOptics, error) {
	if err := e.checkColumn(c); err != nil {
		return nil, err
	}
	n := len(c.Layers)
	o := &LongwaveOptics{Tau: newRows(n, e.lw.NumBands)}
	layers := make([]layerOptics, n)
	for k := range layers {
		layers[k].tau = o.Tau[k]
	}
	e.evaluate(e.lw, c, layers)
	log.WithField("layers", n).Debug("aeropt: calculated longwave optics")
	return o, nil
}
