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

import "fmt"

// VolcanicForcing is a climatological stratospheric volcanic aerosol
// extinction profile.
type VolcanicForcing struct {
	// Extinction is the visible-band extinction in each layer [1/m].
	Extinction []float64

	// TropopauseLayer is the index of the layer containing the tropopause.
	TropopauseLayer int
}

func (v *VolcanicForcing) check(nLayers int) error {
	if len(v.Extinction) != nLayers {
		return fmt.Errorf("aeropt: volcanic extinction has %d layers; it should have %d",
			len(v.Extinction), nLayers)
	}
	if v.TropopauseLayer < 0 || v.TropopauseLayer >= nLayers {
		return fmt.Errorf("aeropt: tropopause layer %d is outside of the column [0, %d)",
			v.TropopauseLayer, nLayers)
	}
	return nil
}

// Apply replaces the extinction above the tropopause with the volcanic
// extinction and averages the two in the tropopause layer. Layers below
// the tropopause are not changed. heights are the layer mid-point
// heights [m]; the height of the tropopause layer is returned.
func (v *VolcanicForcing) Apply(extinct, heights []float64) float64 {
	if err := v.check(len(extinct)); err != nil {
		panic(err)
	}
	trop := v.TropopauseLayer
	extinct[trop] = 0.5 * (extinct[trop] + v.Extinction[trop])
	copy(extinct[:trop], v.Extinction[:trop])
	return heights[trop]
}
