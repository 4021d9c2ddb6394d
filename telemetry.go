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

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds the counters of numerical events that indicate
// questionable input data. They do not affect results.
var Registry = prometheus.NewRegistry()

var (
	negativeWaterClamps = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "aeropt_negative_water_clamps_total",
			Help: "Negative aerosol water volumes that were set to zero",
		},
		[]string{"regime"},
	)

	geometricOptics = promauto.With(Registry).NewCounter(
		prometheus.CounterOpts{
			Name: "aeropt_geometric_optics_total",
			Help: "Shortwave extinctions calculated in the geometric optics limit",
		},
	)

	tableExtrapolations = promauto.With(Registry).NewCounter(
		prometheus.CounterOpts{
			Name: "aeropt_table_extrapolations_total",
			Help: "Refractive indices outside of the tabulated range",
		},
	)

	layersEvaluated = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "aeropt_layers_evaluated_total",
			Help: "Model layers for which optical properties were calculated",
		},
		[]string{"regime"},
	)
)

// WriteMetrics writes the current counter values to filename in the
// Prometheus text format.
func WriteMetrics(filename string) error {
	if err := prometheus.WriteToTextfile(filename, Registry); err != nil {
		return fmt.Errorf("aeropt: writing metrics: %v", err)
	}
	return nil
}
