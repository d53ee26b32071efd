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

// Package piamutil wires the piam checks into a command-line submission
// workflow: configuration handling, file loading, and report emission.
package piamutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/lnashier/viper"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	piam "github.com/pweigmann/piamInterfaces"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	// Options are the configuration options available to the submission
	// checks.
	options = []struct {
		name, usage, shorthand string
		defaultVal             interface{}
		flagsets               []*pflag.FlagSet
	}{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "Input",
			usage: `
              Input is the path to the scenario data to be checked, in mif
              format.`,
			shorthand:  "i",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{checkCmd.Flags()},
		},
		{
			name: "Reference",
			usage: `
              Reference is the path to the reference scenario, in mif format.
              If it is set, every value before StartYear is additionally
              compared against the reference scenario. If it is empty the
              reference comparison is skipped.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{checkCmd.Flags()},
		},
		{
			name: "StartYear",
			usage: `
              StartYear is the first period of the scenario that is allowed
              to deviate from the reference scenario. Periods before it must
              match the reference within Summation.RelTol.`,
			defaultVal: 2020,
			flagsets:   []*pflag.FlagSet{checkCmd.Flags()},
		},
		{
			name: "MappingFile",
			usage: `
              MappingFile is the path to a variable mapping template (.csv or
              .xlsx) remapping model-native variable and unit names to the
              submission naming scheme. If it is empty the data is checked
              under its native names.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{checkCmd.Flags()},
		},
		{
			name: "SummationsFile",
			usage: `
              SummationsFile is the path to the summation-group template
              (.csv or .xlsx) declaring which child regions are expected to
              sum to which parent regions for which variables.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{checkCmd.Flags()},
		},
		{
			name: "Summation.RelTol",
			usage: `
              Summation.RelTol is the maximum acceptable relative difference
              between a parent-region value and the sum of its child regions.
              It has no default and must be set explicitly.`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{checkCmd.Flags()},
		},
		{
			name: "Summation.AbsTol",
			usage: `
              Summation.AbsTol is the absolute difference below which a
              comparison passes regardless of relative difference, guarding
              comparisons against zero parent values. The default accepts
              only exact matches through this criterion.`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{checkCmd.Flags()},
		},
		{
			name: "Summation.Strict",
			usage: `
              Summation.Strict causes comparisons with missing child regions
              to fail the overall check even when the incomplete sum matches
              the parent value.`,
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{checkCmd.Flags()},
		},
		{
			name: "Summation.ReportAll",
			usage: `
              Summation.ReportAll includes passing comparisons in the
              mismatch dump instead of only the problematic ones.`,
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{checkCmd.Flags()},
		},
		{
			name: "RenameScenarios",
			usage: `
              RenameScenarios maps model-native scenario names (as keys) to
              the scenario names required by the submission (as values).
              Scenarios without an entry keep their names.`,
			defaultVal: map[string]string{},
			flagsets:   []*pflag.FlagSet{checkCmd.Flags()},
		},
		{
			name: "OutputDir",
			usage: `
              OutputDir is the directory the mismatch dump and plots are
              written to. It must already exist.`,
			defaultVal: ".",
			flagsets:   []*pflag.FlagSet{checkCmd.Flags()},
		},
		{
			name: "DumpFile",
			usage: `
              DumpFile is the name of the mismatch dump file within
              OutputDir.`,
			defaultVal: "summation_mismatches.csv",
			flagsets:   []*pflag.FlagSet{checkCmd.Flags()},
		},
		{
			name: "LogFile",
			usage: `
              LogFile is the path of the log file check summaries are
              appended to. If it is empty a path is derived from DumpFile.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{checkCmd.Flags()},
		},
		{
			name: "LogAppend",
			usage: `
              LogAppend appends to an existing mismatch dump file instead of
              overwriting it.`,
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{checkCmd.Flags()},
		},
		{
			name: "Plots",
			usage: `
              Plots renders one parent-versus-child-sum comparison plot per
              mismatching variable into OutputDir.`,
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{checkCmd.Flags()},
		},
		{
			name: "PlotPrefix",
			usage: `
              PlotPrefix is the file-name prefix of the comparison plots.`,
			defaultVal: "summation",
			flagsets:   []*pflag.FlagSet{checkCmd.Flags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("PIAM")

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch option.defaultVal.(type) {
			case string:
				if option.shorthand == "" {
					set.String(option.name, option.defaultVal.(string), option.usage)
				} else {
					set.StringP(option.name, option.shorthand, option.defaultVal.(string), option.usage)
				}
			case bool:
				if option.shorthand == "" {
					set.Bool(option.name, option.defaultVal.(bool), option.usage)
				} else {
					set.BoolP(option.name, option.shorthand, option.defaultVal.(bool), option.usage)
				}
			case int:
				if option.shorthand == "" {
					set.Int(option.name, option.defaultVal.(int), option.usage)
				} else {
					set.IntP(option.name, option.shorthand, option.defaultVal.(int), option.usage)
				}
			case float64:
				if option.shorthand == "" {
					set.Float64(option.name, option.defaultVal.(float64), option.usage)
				} else {
					set.Float64P(option.name, option.shorthand, option.defaultVal.(float64), option.usage)
				}
			case map[string]string:
				b := bytes.NewBuffer(nil)
				e := json.NewEncoder(b)
				e.Encode(option.defaultVal)
				s := strings.TrimSpace(b.String())
				if option.shorthand == "" {
					set.String(option.name, s, option.usage)
				} else {
					set.StringP(option.name, option.shorthand, s, option.usage)
				}
			default:
				panic("invalid argument type")
			}
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
}

func init() {
	// Link the commands together.
	Root.AddCommand(versionCmd)
	Root.AddCommand(checkCmd)
}

// setConfig finds and reads in the configuration file, if there is one.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(cfgpath)
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("piamutil: problem reading configuration file: %v", err)
		}
	}
	return nil
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "piamsubmit",
	Short: "Validate scenario data for submission.",
	Long: `piamsubmit validates climate and energy model scenario output before
submission to a standardized data repository: it remaps model-native variable
names to the submission naming scheme, verifies that child regions sum to
their parent regions, and verifies that the pre-start-year trajectory matches
a reference scenario.

Configuration can be changed by using a configuration file (and providing the
path to the file using the --config flag), by using command-line arguments,
or by setting environment variables in the format 'PIAM_var' where 'var' is
the name of the variable to be set.`,
	DisableAutoGenTag: true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig() },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of piamInterfaces.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("piamInterfaces v%s\n", piam.Version)
	},
	DisableAutoGenTag: true,
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check scenario data against summation and reference constraints.",
	Long: `check remaps the input data through the mapping template (if one is
given), verifies the summation groups declared in the summations template,
optionally verifies the pre-start-year trajectory against a reference
scenario, and writes the mismatch dump, plots and log summary. It exits
non-zero if any check fails.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := ParseCheckConfig(Cfg)
		if err != nil {
			return err
		}
		return Check(cmd, c)
	},
	DisableAutoGenTag: true,
}
