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
	"runtime"
	"sync"
)

// layerOptics holds the optical properties of one layer while they
// are being calculated. The band slices are rows of the output arrays.
type layerOptics struct {
	tau, wa, ga, fa []float64

	extinct, absorb float64 // visible band [1/m]
	diag            *Diagnostics

	mass       float64 // dry air mass [kg/m²]
	airDensity float64 // dry air density [kg/m³]
}

// evaluateLayer adds the optical properties of all modes in layer l to o
// for the bands in bs. When bs does not include scattering, only o.tau
// is used.
func (e *Engine) evaluateLayer(bs BandSet, l *Layer, o *layerOptics) {
	rt := e.table.Regime(bs.Regime)
	o.mass = l.PDelDry / Gravity
	o.airDensity = l.PMid / (RAir * l.Temperature)

	for m := range e.modes {
		mode := &e.modes[m]
		ms := &l.Modes[m]
		sp := SizeParameters(mode.Sigma, ms.DgNumWet, bs.LogRadius)

		specVol := make([]float64, len(mode.Species))
		specRef := make([]complex128, len(mode.Species))
		for i, s := range mode.Species {
			specVol[i] = ms.MMR[i] / s.Density
		}

		for b := 0; b < bs.NumBands; b++ {
			for i, s := range mode.Species {
				specRef[i] = rt.Species[s.Kind][b]
			}
			var bo bandOptics
			bo.mix = MixRefractiveIndex(bs.Regime, specVol, specRef, ms.WaterMMR, rt.Water[b])
			bt := rt.Bands[m][b]
			f := NewInterpFactors(bt, bo.mix.RefIndex)
			wetMass := bo.mix.WetVolume * RhoWater

			if !bs.Scattering {
				bo.pabs = Chebyshev(f.Interpolate(bt.Abs), sp.Basis) * wetMass
				o.tau[b] += math.Max(0, bo.pabs) * o.mass
				continue
			}

			// Convert from per unit mass of water to per unit mass of aerosol.
			bo.pext = ShortwaveExtinction(f.Interpolate(bt.Ext), sp) * wetMass
			bo.pabs = Chebyshev(f.Interpolate(bt.Abs), sp.Basis) * wetMass
			bo.pabs = math.Max(0, math.Min(bo.pabs, bo.pext))
			bo.pasm = Chebyshev(f.Interpolate(bt.Asym), sp.Basis)
			bo.palb = 1 - bo.pabs/math.Max(bo.pext, ExtinctionFloor)
			bo.dopaer = bo.pext * o.mass

			switch b {
			case UVBand:
				o.diag.AODUV += bo.dopaer
			case NearIRBand:
				o.diag.AODNIR += bo.dopaer
			case VisibleBand:
				o.accumulateVisible(m, mode, ms, specVol, specRef, rt.Water[b], &bo)
			}

			o.tau[b] += bo.dopaer
			o.wa[b] += bo.dopaer * bo.palb
			o.ga[b] += bo.dopaer * bo.palb * bo.pasm
			o.fa[b] += bo.dopaer * bo.palb * bo.pasm * bo.pasm
		}
	}
}

// evaluate concurrently calculates the optical properties of all
// layers in c. layers[k] receives the properties of c.Layers[k].
func (e *Engine) evaluate(bs BandSet, c *Column, layers []layerOptics) {
	nprocs := runtime.GOMAXPROCS(0)
	var wg sync.WaitGroup
	wg.Add(nprocs)
	for pp := 0; pp < nprocs; pp++ {
		go func(pp int) {
			for k := pp; k < len(c.Layers); k += nprocs {
				e.evaluateLayer(bs, &c.Layers[k], &layers[k])
			}
			wg.Done()
		}(pp)
	}
	wg.Wait()
	layersEvaluated.WithLabelValues(bs.Regime.String()).Add(float64(len(c.Layers)))
}
