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

// Package aeropt calculates the radiative optical properties of a modal
// aerosol population: layer extinction, single-scatter albedo, asymmetry
// factor and forward-scattered fraction in the shortwave bands, and
// absorption optical depth in the longwave bands. Optical properties are
// parameterized as Chebyshev polynomials in the normalized wet surface-mode
// radius whose coefficients are tabulated on a grid of complex refractive
// indices, as described in:
//
// Ghan, S. J., and Zaveri, R. A. (2007), Parameterization of optical
// properties for hydrated internally mixed aerosol, J. Geophys. Res., 112,
// D10201, doi:10.1029/2006JD007927.
package aeropt

import (
	"math"

	"github.com/sirupsen/logrus"
)

// Version gives the version number.
const Version = "0.3.0"

// Table dimensions.
const (
	// NumCoef is the number of Chebyshev coefficients.
	NumCoef = 5
	// NumRefReal is the number of tabulated real refractive indices.
	NumRefReal = 7
	// NumRefImag is the number of tabulated imaginary refractive indices.
	NumRefImag = 10

	// NumShortwaveBands is the number of shortwave bands.
	NumShortwaveBands = 14
	// NumLongwaveBands is the number of longwave bands.
	NumLongwaveBands = 16
)

// Indices of the shortwave bands used for diagnostic output.
const (
	// VisibleBand is the band containing 550 nm.
	VisibleBand = 9
	// NearIRBand is the 778-1240 nm band.
	NearIRBand = 7
	// UVBand is the 345-441 nm band.
	UVBand = 10
)

// Bounds of the surface-mode radius treated by the parameterization [m].
const (
	RadiusMin = 0.01e-6
	RadiusMax = 25.e-6
)

// Numerical floors for guarded divisions.
const (
	// LongwaveVolumeFloor is the wet volume [m³/kg] below which the
	// longwave refractive index is not normalized.
	LongwaveVolumeFloor = 1.e-40
	// ShortwaveVolumeFloor is the smallest wet volume [m³/kg] the shortwave
	// refractive index is normalized by.
	ShortwaveVolumeFloor = 1.e-60
	// IntervalFloor is the smallest refractive-index grid interval that
	// is interpolated across.
	IntervalFloor = 1.e-20
	// ExtinctionFloor is the smallest specific extinction [m²/kg] used to
	// calculate single-scatter albedo, and the smallest wet volume for
	// which species optical depths are partitioned.
	ExtinctionFloor = 1.e-40
)

// Physical constants.
const (
	// RhoWater is the density of liquid water [kg/m³].
	RhoWater = 1000.0
	// Gravity is the acceleration due to gravity [m/s²].
	Gravity = 9.80616
	// RAir is the gas constant of dry air [J/kg/K].
	RAir = 287.042
)

// Values of the sentinel row above the model top, which contains no
// aerosol.
const (
	topTau = 0.
	topWa  = 0.925
	topGa  = 0.85
	topFa  = 0.7225
)

var (
	logRadiusMin = math.Log(RadiusMin)
	logRadiusMax = math.Log(RadiusMax)
)

var log logrus.FieldLogger = logrus.StandardLogger()

// SetLogger sets the logger used by this package.
func SetLogger(l logrus.FieldLogger) { log = l }
