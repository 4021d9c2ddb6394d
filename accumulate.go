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

	"gonum.org/v1/gonum/floats"
)

// visibleSums holds the terms used to partition the visible-band optical
// depth of one mode among its species. They are indexed by SpeciesKind.
type visibleSums struct {
	scat, abs, hygro, vol [NumSpeciesKinds]float64

	// dustVol is the volume concentration of dust in the mode [m³/kg].
	dustVol float64
}

// speciesDiagnostic records the scattering, absorption and hygroscopic
// volume of species s, which has volume concentration vol [m³/kg] and
// refractive index ref in the visible band.
type speciesDiagnostic func(v *visibleSums, s Species, vol float64, ref complex128)

func calcDiagSpec(v *visibleSums, s Species, vol float64, ref complex128) {
	v.scat[s.Kind] = vol * real(ref)
	v.abs[s.Kind] = -vol * imag(ref)
	v.hygro[s.Kind] = vol * s.Hygroscopicity
	v.vol[s.Kind] = vol
}

// speciesDiagnostics holds the diagnostic function for each species kind.
var speciesDiagnostics = [NumSpeciesKinds]speciesDiagnostic{
	Dust: func(v *visibleSums, s Species, vol float64, ref complex128) {
		calcDiagSpec(v, s, vol, ref)
		v.dustVol = vol
	},
	Sulfate:          calcDiagSpec,
	BlackCarbon:      calcDiagSpec,
	PrimaryOrganic:   calcDiagSpec,
	SecondaryOrganic: calcDiagSpec,
	SeaSalt:          calcDiagSpec,
	MarineOrganic:    calcDiagSpec,
}

// share returns num/den, or zero if den is too small to divide by.
func share(num, den float64) float64 {
	if math.Abs(den) <= ExtinctionFloor {
		return 0
	}
	return num / den
}

// bandOptics holds the optical properties of one mode in one band
// of one layer.
type bandOptics struct {
	mix Mixture

	pext float64 // specific extinction [m²/kg]
	pabs float64 // specific absorption [m²/kg]
	palb float64 // single-scatter albedo
	pasm float64 // asymmetry factor

	dopaer float64 // optical depth
}

// accumulateVisible adds the visible-band diagnostics of mode m to o.
// specVol and specRef are the volume concentrations and visible-band
// refractive indices of the species in the mode.
func (o *layerOptics) accumulateVisible(m int, mode *Mode, ms *ModeState, specVol []float64,
	specRef []complex128, waterRef complex128, bo *bandOptics) {

	d := o.diag
	var v visibleSums
	for i, s := range mode.Species {
		burden := ms.MMR[i] * o.mass
		d.SpeciesBurden[s.Kind] += burden
		d.ModeBurden[m] += burden
		speciesDiagnostics[s.Kind](&v, s, specVol[i], specRef[i])
	}

	o.extinct += bo.pext * o.airDensity
	o.absorb += bo.pabs * o.airDensity
	d.AODVis += bo.dopaer
	d.AODAll += bo.dopaer
	d.AODAbs += bo.pabs * o.mass
	d.ModeAOD[m] += bo.dopaer
	d.SSAVis += bo.dopaer * bo.palb

	if bo.mix.WetVolume <= ExtinctionFloor {
		return
	}
	d.ModeDustAOD[m] += bo.dopaer * v.dustVol / bo.mix.WetVolume

	// Species are assigned optical depth in proportion to their
	// volume-weighted refractive index. Water is assigned to species in
	// proportion to their hygroscopic volume, or to their volume if
	// none of them is hygroscopic.
	scath2o := bo.mix.WaterVolume * real(waterRef)
	absh2o := -bo.mix.WaterVolume * imag(waterRef)
	sumscat := floats.Sum(v.scat[:]) + scath2o
	sumabs := floats.Sum(v.abs[:]) + absh2o
	waterWeight := v.hygro[:]
	sumWeight := floats.Sum(waterWeight)
	if sumWeight <= ExtinctionFloor {
		waterWeight = v.vol[:]
		sumWeight = floats.Sum(waterWeight)
	}
	for k := range v.scat {
		water := share(waterWeight[k], sumWeight)
		v.scat[k] = share(v.scat[k]+scath2o*water, sumscat)
		v.abs[k] = share(v.abs[k]+absh2o*water, sumabs)
		d.SpeciesAOD[k] += (v.abs[k]*(1-bo.palb) + bo.palb*v.scat[k]) * bo.dopaer
	}
	d.AODAbsBC += v.abs[BlackCarbon] * bo.dopaer * (1 - bo.palb)
}
