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

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// PlotProfile writes a PNG image of the visible-band extinction and
// absorption profiles of c to w.
func PlotProfile(w io.Writer, c *Column, sw *ShortwaveOptics) error {
	if len(sw.Extinct) != len(c.Layers) {
		return fmt.Errorf("aeropt: plotting profile: optical properties do not match the %d layers in the column",
			len(c.Layers))
	}
	ext := make(plotter.XYs, len(c.Layers))
	abs := make(plotter.XYs, len(c.Layers))
	for k, l := range c.Layers {
		// Convert to 1/km and km.
		ext[k].X, ext[k].Y = sw.Extinct[k]*1000, l.Height/1000
		abs[k].X, abs[k].Y = sw.Absorb[k]*1000, l.Height/1000
	}

	p := plot.New()
	p.Title.Text = "Aerosol optics at 550 nm"
	p.X.Label.Text = "Coefficient (1/km)"
	p.Y.Label.Text = "Height (km)"
	if err := plotutil.AddLinePoints(p, "Extinction", ext, "Absorption", abs); err != nil {
		return fmt.Errorf("aeropt: plotting profile: %v", err)
	}
	wt, err := p.WriterTo(4*vg.Inch, 6*vg.Inch, "png")
	if err != nil {
		return fmt.Errorf("aeropt: plotting profile: %v", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("aeropt: plotting profile: %v", err)
	}
	return nil
}
