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
	"io"
	"strings"

	"github.com/BurntSushi/toml"
)

// ModeConfig is the TOML representation of an aerosol mode configuration.
//
//	[Species.dst]
//	Density = 2600.0
//	Hygroscopicity = 0.068
//
//	[[Mode]]
//	Name = "coarse"
//	Sigma = 1.8
//	Species = ["dst", "ncl", "so4"]
//
// Species that are not listed in the Species table take their
// properties from DefaultSpecies.
type ModeConfig struct {
	Species map[string]SpeciesConfig
	Mode    []struct {
		Name    string
		Sigma   float64
		Species []string
	}
}

// SpeciesConfig holds the bulk properties of a species.
type SpeciesConfig struct {
	Density        float64 // [kg/m³]
	Hygroscopicity float64 // [1]
}

// ReadModeConfig reads a mode configuration in TOML format from r.
func ReadModeConfig(r io.Reader) ([]Mode, error) {
	var c ModeConfig
	md, err := toml.NewDecoder(r).Decode(&c)
	if err != nil {
		return nil, fmt.Errorf("aeropt: reading mode configuration: %v", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("aeropt: reading mode configuration: unknown keys %s", strings.Join(keys, ", "))
	}
	return c.Modes()
}

// Modes converts c into a list of modes.
func (c *ModeConfig) Modes() ([]Mode, error) {
	species := DefaultSpecies
	for name, sc := range c.Species {
		k, err := ParseSpeciesKind(name)
		if err != nil {
			return nil, err
		}
		species[k] = Species{Kind: k, Density: sc.Density, Hygroscopicity: sc.Hygroscopicity}
	}
	modes := make([]Mode, len(c.Mode))
	for i, mc := range c.Mode {
		m := Mode{Name: mc.Name, Sigma: mc.Sigma, Species: make([]Species, len(mc.Species))}
		for j, name := range mc.Species {
			k, err := ParseSpeciesKind(name)
			if err != nil {
				return nil, fmt.Errorf("aeropt: mode %s: %v", mc.Name, err)
			}
			m.Species[j] = species[k]
		}
		modes[i] = m
	}
	if err := checkModes(modes); err != nil {
		return nil, err
	}
	return modes, nil
}
