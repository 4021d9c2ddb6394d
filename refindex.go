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

import "github.com/sirupsen/logrus"

// Mixture is the volume mixture of the species of one mode and their
// water in one band.
type Mixture struct {
	// RefIndex is the volume-weighted complex refractive index of the
	// wet aerosol.
	RefIndex complex128

	// DryVolume, WetVolume and WaterVolume are volume concentrations
	// of the dry species, the species plus water, and water [m³/kg].
	DryVolume, WetVolume, WaterVolume float64
}

// MixRefractiveIndex calculates the refractive index of a wet internal
// mixture. specVol holds the volume concentration [m³/kg] of each dry
// species and specRef their refractive indices in the band of interest.
// waterMMR is the aerosol water mass mixing ratio [kg/kg] and waterRef
// the refractive index of water in the band.
//
// In the longwave, a negative water volume is treated as zero. It panics
// if regime is not valid.
func MixRefractiveIndex(regime Regime, specVol []float64, specRef []complex128,
	waterMMR float64, waterRef complex128) Mixture {

	mustRegime(regime)
	if len(specVol) != len(specRef) {
		panic("aeropt: species volume and refractive index lengths differ")
	}
	var m Mixture
	for i, v := range specVol {
		m.DryVolume += v
		m.RefIndex += complex(v, 0) * specRef[i]
	}
	m.WaterVolume = waterMMR / RhoWater
	m.WetVolume = m.WaterVolume + m.DryVolume

	if regime == Longwave {
		if m.WaterVolume < 0 {
			negativeWaterClamps.WithLabelValues(regime.String()).Inc()
			log.WithFields(logrus.Fields{
				"regime":      regime,
				"waterVolume": m.WaterVolume,
			}).Debug("aeropt: negative aerosol water volume set to zero")
			m.WaterVolume = 0
			m.WetVolume = m.DryVolume
		}
		m.RefIndex += complex(m.WaterVolume, 0) * waterRef
		if m.WetVolume > LongwaveVolumeFloor {
			m.RefIndex /= complex(m.WetVolume, 0)
		}
		return m
	}
	m.RefIndex += complex(m.WaterVolume, 0) * waterRef
	m.RefIndex /= complex(max(m.WetVolume, ShortwaveVolumeFloor), 0)
	return m
}
