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
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/aeropt"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Log is the logger used by the commands and by package aeropt.
var Log = logrus.New()

var logFile *lumberjack.Logger

// setLogging sets up Log to write records at or above the given level to
// standard error and, if filename is not empty, to a rotating log file.
func setLogging(level, filename string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("aeropt: invalid LogLevel: %v", err)
	}
	if err := closeLogFile(); err != nil {
		return err
	}
	Log.SetLevel(lvl)
	Log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
		DisableSorting:  true,
	})
	var w io.Writer = os.Stderr
	if filename != "" {
		logFile = &lumberjack.Logger{
			Filename:   os.ExpandEnv(filename),
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
		}
		w = io.MultiWriter(os.Stderr, logFile)
	}
	Log.SetOutput(w)
	aeropt.SetLogger(Log)
	return nil
}

// closeLogFile closes the log file, if there is one.
func closeLogFile() error {
	if logFile == nil {
		return nil
	}
	err := logFile.Close()
	logFile = nil
	Log.SetOutput(os.Stderr)
	return err
}
