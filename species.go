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

// SpeciesKind identifies a chemical aerosol constituent.
type SpeciesKind int

// The aerosol constituents tracked by the optics diagnostics.
const (
	Dust SpeciesKind = iota
	Sulfate
	BlackCarbon
	PrimaryOrganic
	SecondaryOrganic
	SeaSalt
	MarineOrganic
)

// NumSpeciesKinds is the number of species kinds.
const NumSpeciesKinds = 7

var speciesNames = [NumSpeciesKinds]string{"dst", "so4", "bc", "pom", "soa", "ncl", "mom"}

func (k SpeciesKind) String() string {
	if k < 0 || int(k) >= NumSpeciesKinds {
		return fmt.Sprintf("SpeciesKind(%d)", int(k))
	}
	return speciesNames[k]
}

// ParseSpeciesKind returns the species kind with the given short name
// (dst, so4, bc, pom, soa, ncl, or mom).
func ParseSpeciesKind(name string) (SpeciesKind, error) {
	for i, n := range speciesNames {
		if n == name {
			return SpeciesKind(i), nil
		}
	}
	return -1, fmt.Errorf("aeropt: invalid species '%s'; valid options are %v", name, speciesNames)
}

// Species holds the bulk properties of an aerosol constituent.
// Refractive indices are stored with the optics table.
type Species struct {
	Kind           SpeciesKind
	Density        float64 // [kg/m³]
	Hygroscopicity float64 // [1]
}

// DefaultSpecies holds the E3SM properties of each species kind.
var DefaultSpecies = [NumSpeciesKinds]Species{
	{Kind: Dust, Density: 2600, Hygroscopicity: 0.068},
	{Kind: Sulfate, Density: 1770, Hygroscopicity: 0.507},
	{Kind: BlackCarbon, Density: 1700, Hygroscopicity: 1.e-10},
	{Kind: PrimaryOrganic, Density: 1000, Hygroscopicity: 1.e-10},
	{Kind: SecondaryOrganic, Density: 1000, Hygroscopicity: 0.14},
	{Kind: SeaSalt, Density: 1900, Hygroscopicity: 1.16},
	{Kind: MarineOrganic, Density: 1601, Hygroscopicity: 0.1},
}

// Mode is a lognormal aerosol size class.
type Mode struct {
	Name string

	// Sigma is the geometric standard deviation of the number
	// distribution.
	Sigma float64

	// Species are the members of the mode, in the order their
	// mass mixing ratios are stored in ModeState.MMR.
	Species []Species
}

// DefaultModes returns the four-mode configuration: accumulation,
// Aitken, coarse, and primary carbon.
func DefaultModes() []Mode {
	s := func(kinds ...SpeciesKind) []Species {
		o := make([]Species, len(kinds))
		for i, k := range kinds {
			o[i] = DefaultSpecies[k]
		}
		return o
	}
	return []Mode{
		{
			Name:  "accumulation",
			Sigma: 1.8,
			Species: s(Sulfate, PrimaryOrganic, SecondaryOrganic, BlackCarbon,
				Dust, SeaSalt, MarineOrganic),
		},
		{
			Name:    "aitken",
			Sigma:   1.6,
			Species: s(Sulfate, SecondaryOrganic, SeaSalt, MarineOrganic),
		},
		{
			Name:  "coarse",
			Sigma: 1.8,
			Species: s(Dust, SeaSalt, Sulfate, BlackCarbon, PrimaryOrganic,
				SecondaryOrganic, MarineOrganic),
		},
		{
			Name:    "primary_carbon",
			Sigma:   1.6,
			Species: s(PrimaryOrganic, BlackCarbon, MarineOrganic),
		},
	}
}

// checkModes makes sure the modes can be evaluated.
func checkModes(modes []Mode) error {
	if len(modes) == 0 {
		return fmt.Errorf("aeropt: no aerosol modes specified")
	}
	names := make(map[string]bool)
	for _, m := range modes {
		if m.Name == "" {
			return fmt.Errorf("aeropt: mode has no name")
		}
		if _, err := ParseSpeciesKind(m.Name); err == nil {
			return fmt.Errorf("aeropt: mode name %s is also a species name; "+
				"the diagnostics AOD_%s and Burden_%s would be ambiguous", m.Name, m.Name, m.Name)
		}
		if names[m.Name] {
			return fmt.Errorf("aeropt: mode name %s is not unique", m.Name)
		}
		names[m.Name] = true
		if !(m.Sigma > 0) {
			return fmt.Errorf("aeropt: mode %s: geometric standard deviation must be > 0 but is %g", m.Name, m.Sigma)
		}
		if len(m.Species) == 0 {
			return fmt.Errorf("aeropt: mode %s has no species", m.Name)
		}
		seen := make(map[SpeciesKind]bool)
		for _, s := range m.Species {
			if s.Kind < 0 || int(s.Kind) >= NumSpeciesKinds {
				return fmt.Errorf("aeropt: mode %s: invalid species kind %d", m.Name, int(s.Kind))
			}
			if seen[s.Kind] {
				return fmt.Errorf("aeropt: mode %s: species %s is listed more than once", m.Name, s.Kind)
			}
			seen[s.Kind] = true
			if !(s.Density > 0) {
				return fmt.Errorf("aeropt: mode %s: species %s density must be > 0 but is %g", m.Name, s.Kind, s.Density)
			}
			if !(s.Hygroscopicity >= 0) {
				return fmt.Errorf("aeropt: mode %s: species %s hygroscopicity must be >= 0 but is %g",
					m.Name, s.Kind, s.Hygroscopicity)
			}
		}
	}
	return nil
}
