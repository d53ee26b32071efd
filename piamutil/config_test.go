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
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/lnashier/viper"

	piam "github.com/pweigmann/piamInterfaces"
)

func testViper(dir string) *viper.Viper {
	cfg := viper.New()
	cfg.Set("Input", filepath.Join(dir, "data.mif"))
	cfg.Set("SummationsFile", filepath.Join(dir, "summations.csv"))
	cfg.Set("Summation.RelTol", 0.01)
	cfg.Set("OutputDir", dir)
	cfg.Set("DumpFile", "summation_mismatches.csv")
	cfg.Set("StartYear", 2020)
	return cfg
}

func TestParseCheckConfig(t *testing.T) {
	dir := t.TempDir()
	c, err := ParseCheckConfig(testViper(dir))
	if err != nil {
		t.Fatal(err)
	}
	if c.Options.RelTol != 0.01 {
		t.Errorf("RelTol: want 0.01 but have %g", c.Options.RelTol)
	}
	// The log file defaults to the dump path with a .log extension.
	want := filepath.Join(dir, "summation_mismatches.log")
	if c.LogFile != want {
		t.Errorf("LogFile: want %s but have %s", want, c.LogFile)
	}
}

func TestParseCheckConfigReportsAllProblems(t *testing.T) {
	cfg := viper.New()
	cfg.Set("Summation.AbsTol", -1.0)
	cfg.Set("OutputDir", filepath.Join(os.TempDir(), "piamutil-no-such-dir"))
	cfg.Set("DumpFile", "")
	_, err := ParseCheckConfig(cfg)
	var confErr *piam.ConfigurationError
	if !errors.As(err, &confErr) {
		t.Fatalf("error: want ConfigurationError but have %v", err)
	}
	want := []string{"Input", "SummationsFile", "RelTol", "AbsTol", "DumpFile", "OutputDir"}
	for _, w := range want {
		found := false
		for _, p := range confErr.Problems {
			if strings.Contains(p, w) {
				found = true
			}
		}
		if !found {
			t.Errorf("problems: want one about %s but have %v", w, confErr.Problems)
		}
	}
	if len(confErr.Problems) != len(want) {
		t.Errorf("problems: want %d but have %d: %v", len(want), len(confErr.Problems), confErr.Problems)
	}
}

func TestParseCheckConfigExpandsEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("PIAM_TEST_DIR", dir)
	cfg := testViper(dir)
	cfg.Set("Input", "${PIAM_TEST_DIR}/data.mif")
	c, err := ParseCheckConfig(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if want := dir + "/data.mif"; c.Input != want {
		t.Errorf("Input: want %s but have %s", want, c.Input)
	}
}

func TestCheckLogFile(t *testing.T) {
	cases := []struct {
		logFile, dumpFile, want string
	}{
		{"", "out/mismatches.csv", "out/mismatches.log"},
		{"", "mismatches.csv", "mismatches.log"},
		{"my.log", "out/mismatches.csv", "my.log"},
	}
	for _, c := range cases {
		if have := checkLogFile(c.logFile, c.dumpFile); have != c.want {
			t.Errorf("checkLogFile(%q, %q): want %q but have %q", c.logFile, c.dumpFile, c.want, have)
		}
	}
}

func TestGetStringMapString(t *testing.T) {
	cfg := viper.New()

	cfg.Set("renames", map[string]string{"a": "b"})
	if want, have := map[string]string{"a": "b"}, GetStringMapString("renames", cfg); !reflect.DeepEqual(want, have) {
		t.Errorf("map value: want %v but have %v", want, have)
	}

	// A JSON object, as set from a command-line flag.
	cfg.Set("renames", `{"old": "new"}`)
	if want, have := map[string]string{"old": "new"}, GetStringMapString("renames", cfg); !reflect.DeepEqual(want, have) {
		t.Errorf("json value: want %v but have %v", want, have)
	}

	cfg.Set("renames", "")
	if have := GetStringMapString("renames", cfg); have != nil {
		t.Errorf("empty value: want nil but have %v", have)
	}

	if have := GetStringMapString("unset", cfg); have != nil {
		t.Errorf("unset value: want nil but have %v", have)
	}
}
