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

	"github.com/ctessum/cdf"
	"github.com/ctessum/sparse"
)

// readNCF reads variable v from f, checking that its shape is dims.
// A nil dims accepts any shape.
func readNCF(f *cdf.File, v string, dims ...int) (*sparse.DenseArray, error) {
	lengths := f.Header.Lengths(v)
	if lengths == nil {
		return nil, fmt.Errorf("variable %s is missing", v)
	}
	if dims != nil && !sameShape(lengths, dims) {
		return nil, fmt.Errorf("variable %s has shape %v; it should have shape %v", v, lengths, dims)
	}
	data := sparse.ZerosDense(lengths...)
	r := f.Reader(v, nil, nil)
	if _, err := r.Read(data.Elements); err != nil {
		return nil, fmt.Errorf("reading variable %s: %v", v, err)
	}
	return data, nil
}

// writeNCF writes data to variable v in f.
func writeNCF(f *cdf.File, v string, data *sparse.DenseArray) error {
	n := 1
	for _, l := range data.Shape {
		n *= l
	}
	if len(data.Elements) != n {
		return fmt.Errorf("variable %s: dims are %d but array length is %d", v, n, len(data.Elements))
	}
	end := f.Header.Lengths(v)
	start := make([]int, len(end))
	w := f.Writer(v, start, end)
	if _, err := w.Write(data.Elements); err != nil {
		return fmt.Errorf("writing variable %s: %v", v, err)
	}
	return nil
}

// stringAttribute returns global attribute a of h, or an error
// if it is missing or not a string.
func stringAttribute(h *cdf.Header, a string) (string, error) {
	s, ok := h.GetAttribute("", a).(string)
	if !ok {
		return "", fmt.Errorf("missing or invalid attribute %s", a)
	}
	return s, nil
}
