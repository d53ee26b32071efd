/*
Copyright © 2024 the piamInterfaces authors.
This file is part of piamInterfaces.

piamInterfaces is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

piamInterfaces is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with piamInterfaces.  If not, see <http://www.gnu.org/licenses/>.
*/

package piamutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lnashier/viper"
	"github.com/spf13/cast"

	piam "github.com/pweigmann/piamInterfaces"
)

// CheckConfig holds the validated configuration of one check invocation.
type CheckConfig struct {
	Input          string
	Reference      string
	StartYear      int
	MappingFile    string
	SummationsFile string
	OutputDir      string
	DumpFile       string
	LogFile        string
	PlotPrefix     string
	LogAppend      bool
	Plots          bool

	Options piam.CheckOptions
}

// ParseCheckConfig unmarshals and validates a viper configuration for the
// check command, expanding environment variables in paths. All
// configuration problems are reported, not just the first one.
func ParseCheckConfig(cfg *viper.Viper) (*CheckConfig, error) {
	c := &CheckConfig{
		Input:          os.ExpandEnv(cfg.GetString("Input")),
		Reference:      os.ExpandEnv(cfg.GetString("Reference")),
		StartYear:      cfg.GetInt("StartYear"),
		MappingFile:    os.ExpandEnv(cfg.GetString("MappingFile")),
		SummationsFile: os.ExpandEnv(cfg.GetString("SummationsFile")),
		OutputDir:      os.ExpandEnv(cfg.GetString("OutputDir")),
		DumpFile:       os.ExpandEnv(cfg.GetString("DumpFile")),
		LogFile:        os.ExpandEnv(cfg.GetString("LogFile")),
		PlotPrefix:     cfg.GetString("PlotPrefix"),
		LogAppend:      cfg.GetBool("LogAppend"),
		Plots:          cfg.GetBool("Plots"),
		Options: piam.CheckOptions{
			RelTol:    cfg.GetFloat64("Summation.RelTol"),
			AbsTol:    cfg.GetFloat64("Summation.AbsTol"),
			Strict:    cfg.GetBool("Summation.Strict"),
			ReportAll: cfg.GetBool("Summation.ReportAll"),
		},
	}

	var problems []string
	if c.Input == "" {
		problems = append(problems, "you need to specify the scenario data to check in the Input configuration variable")
	}
	if c.SummationsFile == "" {
		problems = append(problems, "you need to specify the summation-group template in the SummationsFile configuration variable")
	}
	if !(c.Options.RelTol > 0) {
		problems = append(problems, fmt.Sprintf("Summation.RelTol=%g but must be > 0; there is no default tolerance", c.Options.RelTol))
	}
	if c.Options.AbsTol < 0 {
		problems = append(problems, fmt.Sprintf("Summation.AbsTol=%g but must be >= 0", c.Options.AbsTol))
	}
	if c.DumpFile == "" {
		problems = append(problems, "DumpFile must not be empty")
	}
	if _, err := os.Stat(c.OutputDir); err != nil {
		problems = append(problems, fmt.Sprintf("the OutputDir directory doesn't exist: %v", err))
	}
	if len(problems) > 0 {
		return nil, &piam.ConfigurationError{Problems: problems}
	}

	c.LogFile = checkLogFile(c.LogFile, filepath.Join(c.OutputDir, c.DumpFile))
	return c, nil
}

// checkLogFile fills in a default value for the log file path if one isn't
// specified.
func checkLogFile(logFile, dumpFile string) string {
	if logFile == "" {
		logFile = strings.TrimSuffix(dumpFile, filepath.Ext(dumpFile)) + ".log"
	}
	return logFile
}

// GetStringMapString returns a map[string]string from a viper configuration,
// accounting for the fact that it might be a json object if it was set
// from a command line argument.
func GetStringMapString(varName string, cfg *viper.Viper) map[string]string {
	i := cfg.Get(varName)
	switch i.(type) {
	case nil:
		return nil
	case map[string]string:
		return i.(map[string]string)
	case map[string]interface{}:
		return cast.ToStringMapString(i)
	case string:
		s := i.(string)
		if s == "" {
			return nil
		}
		d := json.NewDecoder(bytes.NewBufferString(s))
		o := make(map[string]string)
		if err := d.Decode(&o); err != nil {
			panic(fmt.Errorf("piamutil: invalid value for %s: %v", varName, err))
		}
		return o
	default:
		panic(fmt.Errorf("piamutil: invalid type for %s: %#v", varName, i))
	}
}
