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

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/floats"
)

// LayerRecord holds the optical properties of one layer in one
// shortwave band.
type LayerRecord struct {
	Layer  int     `csv:"layer"`
	Height float64 `csv:"height"` // [m]
	Band   int     `csv:"sw_band"`

	Tau  float64 `csv:"tau"`       // optical depth
	SSA  float64 `csv:"ssa"`       // single-scatter albedo
	Asym float64 `csv:"asymmetry"` // asymmetry factor

	// Extinct and Absorb are the visible-band extinction
	// and absorption [1/m].
	Extinct float64 `csv:"extinct_vis"`
	Absorb  float64 `csv:"absorb_vis"`

	// TauLW is the absorption optical depth summed over
	// the longwave bands.
	TauLW float64 `csv:"tau_lw"`
}

// LayerRecords returns a record for each layer of c and each of the
// given shortwave bands.
func LayerRecords(c *Column, sw *ShortwaveOptics, lw *LongwaveOptics, bands []int) ([]*LayerRecord, error) {
	for _, b := range bands {
		if b < 0 || b >= NumShortwaveBands {
			return nil, fmt.Errorf("aeropt: invalid shortwave band %d; valid bands are 0 to %d", b, NumShortwaveBands-1)
		}
	}
	if len(sw.Tau) != len(c.Layers)+1 || len(lw.Tau) != len(c.Layers) {
		return nil, fmt.Errorf("aeropt: optical properties do not match the %d layers in the column", len(c.Layers))
	}
	var o []*LayerRecord
	for k, l := range c.Layers {
		tauLW := floats.Sum(lw.Tau[k])
		for _, b := range bands {
			r := &LayerRecord{
				Layer:   k,
				Height:  l.Height,
				Band:    b,
				Tau:     sw.Tau[k+1][b],
				SSA:     share(sw.Wa[k+1][b], sw.Tau[k+1][b]),
				Asym:    share(sw.Ga[k+1][b], sw.Wa[k+1][b]),
				Extinct: sw.Extinct[k],
				Absorb:  sw.Absorb[k],
				TauLW:   tauLW,
			}
			o = append(o, r)
		}
	}
	return o, nil
}

// WriteLayerRecords writes records to w in CSV format.
func WriteLayerRecords(w io.Writer, records []*LayerRecord) error {
	if err := gocsv.Marshal(records, w); err != nil {
		return fmt.Errorf("aeropt: writing layer records: %v", err)
	}
	return nil
}

// ReadLayerRecords reads CSV records written by WriteLayerRecords.
func ReadLayerRecords(r io.Reader) ([]*LayerRecord, error) {
	var o []*LayerRecord
	if err := gocsv.Unmarshal(r, &o); err != nil {
		return nil, fmt.Errorf("aeropt: reading layer records: %v", err)
	}
	return o, nil
}
