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
	"math"

	"github.com/ctessum/sparse"
)

// SizeParams holds the size-dependent inputs of the Chebyshev
// parameterization for one mode in one layer.
type SizeParams struct {
	// Radius is the wet surface-mode radius [m].
	Radius float64

	// LogRadius is the natural log of Radius before it is clamped
	// to the tabulated size range.
	LogRadius float64

	// X is the normalized size coordinate, in [-1, 1].
	X float64

	// Basis holds the Chebyshev polynomials T0 through T4 evaluated at X.
	Basis [NumCoef]float64
}

// SizeParameters calculates the size parameters of a lognormal mode
// with geometric standard deviation sigma and wet number-mode
// diameter dgnumwet [m].
func SizeParameters(sigma, dgnumwet float64, method LogRadiusMethod) SizeParams {
	alnsg := math.Log(sigma)
	var p SizeParams
	p.Radius = 0.5 * dgnumwet * math.Exp(2*alnsg*alnsg)
	switch method {
	case LogRadiusDirect:
		p.LogRadius = math.Log(p.Radius)
	case LogRadiusSplit:
		p.LogRadius = math.Log(0.5*dgnumwet) + 2*alnsg*alnsg
	default:
		panic(fmt.Errorf("aeropt: invalid log-radius method %d", int(method)))
	}
	x := math.Max(math.Min(p.LogRadius, logRadiusMax), logRadiusMin)
	p.X = (2*x - logRadiusMax - logRadiusMin) / (logRadiusMax - logRadiusMin)
	p.X = math.Max(-1, math.Min(1, p.X)) // round-off
	p.Basis = chebyshevBasis(p.X)
	return p
}

// chebyshevBasis returns the Chebyshev polynomials of the first kind
// evaluated at x.
func chebyshevBasis(x float64) [NumCoef]float64 {
	var t [NumCoef]float64
	t[0] = 1
	t[1] = x
	for n := 2; n < NumCoef; n++ {
		t[n] = 2*x*t[n-1] - t[n-2]
	}
	return t
}

// Chebyshev evaluates the Chebyshev series with the given coefficients.
func Chebyshev(coef, basis [NumCoef]float64) float64 {
	v := 0.5 * coef[0]
	for n := 1; n < NumCoef; n++ {
		v += basis[n] * coef[n]
	}
	return v
}

// ShortwaveExtinction calculates the specific extinction per unit wet
// volume from interpolated extinction coefficients. The tabulated
// parameterization is in terms of the log of extinction; beyond the
// largest tabulated radius the geometric-optics limit is used instead.
func ShortwaveExtinction(coef [NumCoef]float64, p SizeParams) float64 {
	if p.LogRadius <= logRadiusMax {
		return math.Exp(Chebyshev(coef, p.Basis))
	}
	geometricOptics.Inc()
	return 1.5 / (p.Radius * RhoWater)
}

// Bracket locates a value on a tabulated grid.
type Bracket struct {
	// Lo and Hi are the indices of the grid points on either side
	// of the value.
	Lo, Hi int

	// Frac is the fractional distance of the value from Lo toward Hi.
	// It is outside of [0, 1] when the value is below the grid.
	Frac float64
}

// FindBracket finds the grid interval containing q. Values above the grid
// are assigned to its last point; values below it are extrapolated from
// its first interval.
func FindBracket(grid []float64, q float64) Bracket {
	n := len(grid)
	i := 0
	for ; i < n; i++ {
		if q < grid[i] {
			break
		}
	}
	var b Bracket
	if i > 0 {
		b.Lo = i - 1
	}
	b.Hi = b.Lo + 1
	if b.Hi > n-1 {
		b.Hi = n - 1
	}
	if dx := grid[b.Hi] - grid[b.Lo]; math.Abs(dx) > IntervalFloor {
		b.Frac = (q - grid[b.Lo]) / dx
	}
	return b
}

// InterpFactors holds the bilinear interpolation brackets for one
// refractive index. They are calculated once per mode and band and
// shared by all coefficient sets of that band.
type InterpFactors struct {
	Real, Imag Bracket
}

// NewInterpFactors locates the refractive index ref on the grids of t.
func NewInterpFactors(t *BandTable, ref complex128) InterpFactors {
	r, i := real(ref), imag(ref)
	if r < t.RefReal[0] || r > t.RefReal[len(t.RefReal)-1] ||
		i < t.RefImag[0] || i > t.RefImag[len(t.RefImag)-1] {
		tableExtrapolations.Inc()
	}
	return InterpFactors{
		Real: FindBracket(t.RefReal, r),
		Imag: FindBracket(t.RefImag, i),
	}
}

// Interpolate returns the Chebyshev coefficients in table, which has the
// shape [NumCoef, len(RefReal), len(RefImag)], interpolated to the
// refractive index f was calculated for.
func (f InterpFactors) Interpolate(table *sparse.DenseArray) [NumCoef]float64 {
	t, u := f.Real.Frac, f.Imag.Frac
	tu := t * u
	tuc := t - tu
	tcuc := 1 - tuc - u
	tcu := u - tu
	i, ip1 := f.Real.Lo, f.Real.Hi
	j, jp1 := f.Imag.Lo, f.Imag.Hi
	var coef [NumCoef]float64
	for c := 0; c < NumCoef; c++ {
		coef[c] = tcuc*table.Get(c, i, j) + tuc*table.Get(c, ip1, j) +
			tu*table.Get(c, ip1, jp1) + tcu*table.Get(c, i, jp1)
	}
	return coef
}
