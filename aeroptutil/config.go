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

package aeroptutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cast"
)

// checkOutputFile makes sure that the output file is specified and its
// directory exists, and expands any environment variables.
func checkOutputFile(f string) (string, error) {
	if f == "" {
		return "", fmt.Errorf(`you need to specify an output file configuration variable (for example: OutputFile="output.csv")`)
	}
	f = os.ExpandEnv(f)
	outdir := filepath.Dir(f)
	if _, err := os.Stat(outdir); err != nil {
		return f, fmt.Errorf("aeropt: the OutputFile directory doesn't exist: %v", err)
	}
	return f, nil
}

// checkInputFile makes sure that the input file specified by the
// given configuration variable is set and exists, and expands any
// environment variables.
func checkInputFile(variable, f string) (string, error) {
	if f == "" {
		return "", fmt.Errorf("you need to specify the %s configuration variable", variable)
	}
	f = os.ExpandEnv(f)
	if _, err := os.Stat(f); err != nil {
		return f, fmt.Errorf("aeropt: problem with %s: %v", variable, err)
	}
	return f, nil
}

// intSlice converts a configuration value to a slice of integers.
// Values set on the command line are strings of the form "[9,10]".
func intSlice(v interface{}) ([]int, error) {
	if s, ok := v.(string); ok {
		s = strings.Trim(strings.TrimSpace(s), "[]")
		if s == "" {
			return nil, nil
		}
		parts := strings.Split(s, ",")
		for i, p := range parts {
			parts[i] = strings.TrimSpace(p)
		}
		v = parts
	}
	return cast.ToIntSliceE(v)
}
