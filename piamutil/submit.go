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
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	piam "github.com/pweigmann/piamInterfaces"
	"github.com/pweigmann/piamInterfaces/mapping"
	"github.com/pweigmann/piamInterfaces/mif"
	"github.com/pweigmann/piamInterfaces/report"
)

// Templates caches the summation-group templates loaded during this run, so
// checking several scenarios against the same template reads it only once.
var Templates = piam.NewTemplateCache(LoadRulesFile)

// Mappings caches the variable mapping templates loaded during this run.
var Mappings = mapping.NewCache()

// Check runs the configured submission checks: it loads the scenario data,
// remaps it through the mapping template if one is configured, verifies the
// summation groups per model, optionally verifies the pre-start-year
// trajectory against the reference scenario, and writes the mismatch dump,
// plots and log summary. It returns an error if any check fails or cannot
// be run.
//
// Concurrent invocations writing to the same destination files are not
// supported; callers must serialize them.
func Check(cmd *cobra.Command, c *CheckConfig) error {
	startTime := time.Now()
	ctx := context.Background()

	// Send log messages to the log file as well as standard output.
	logfile, err := os.OpenFile(c.LogFile, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		// The log is diagnostic, not authoritative.
		log.Printf("piamutil: warning: cannot open log file: %v", err)
	} else {
		defer logfile.Close()
		log.SetOutput(io.MultiWriter(cmd.OutOrStdout(), logfile))
		defer log.SetOutput(os.Stderr)
	}

	log.Printf("Reading scenario data from %s...", c.Input)
	table, err := mif.ReadFile(c.Input)
	if err != nil {
		return err
	}

	if c.MappingFile != "" {
		log.Printf("Remapping variables using %s...", c.MappingFile)
		m, err := Mappings.Mapping(ctx, c.MappingFile)
		if err != nil {
			return err
		}
		table = m.Apply(table)
	}

	if renames := GetStringMapString("RenameScenarios", Cfg); len(renames) > 0 {
		table = renameScenarios(table, renames)
	}

	rs, err := Templates.RuleSet(ctx, c.SummationsFile)
	if err != nil {
		return err
	}
	rs = rs.FilterVariables(table.Variables())
	if len(rs.Rules) == 0 {
		return &piam.ConfigurationError{Problems: []string{fmt.Sprintf(
			"none of the rules in %s apply to the variables in %s", c.SummationsFile, c.Input)}}
	}

	// The checker joins parent and child rows without regard to the model
	// column, so run it once per model.
	pass := true
	var mismatches []piam.Mismatch
	for _, model := range table.Models() {
		log.Printf("Checking summation groups for model %s...", model)
		modelPass, ms, err := piam.CheckSummations(table.FilterModel(model), rs, c.Options)
		if err != nil {
			return err
		}
		pass = pass && modelPass
		mismatches = append(mismatches, ms...)
	}

	dumpPath := filepath.Join(c.OutputDir, c.DumpFile)
	if err := report.WriteDump(dumpPath, mismatches, c.LogAppend); err != nil {
		return err
	}
	log.Printf("Wrote %d mismatch records to %s", len(mismatches), dumpPath)
	if c.Plots {
		files, err := report.Plot(c.OutputDir, c.PlotPrefix, mismatches)
		if err != nil {
			return err
		}
		log.Printf("Wrote %d comparison plots to %s", len(files), c.OutputDir)
	}
	report.AppendSummary(c.LogFile, "summation check of "+c.Input, mismatches)

	refPass := true
	if c.Reference != "" {
		log.Printf("Comparing periods before %d against reference %s...", c.StartYear, c.Reference)
		ref, err := mif.ReadFile(c.Reference)
		if err != nil {
			return err
		}
		var refMismatches []piam.Mismatch
		refPass, refMismatches, err = piam.CheckFixOnRef(table, ref, c.StartYear, c.Options)
		if err != nil {
			return err
		}
		refDump := filepath.Join(c.OutputDir, "fixOnRef_"+c.DumpFile)
		if err := report.WriteDump(refDump, refMismatches, c.LogAppend); err != nil {
			return err
		}
		log.Printf("Wrote %d reference mismatch records to %s", len(refMismatches), refDump)
		report.AppendSummary(c.LogFile, "reference check of "+c.Input, refMismatches)
	}

	log.Printf("Elapsed time: %v", time.Since(startTime).Round(time.Millisecond))
	switch {
	case !pass && !refPass:
		return fmt.Errorf("piamutil: summation and reference checks failed; see %s", dumpPath)
	case !pass:
		return fmt.Errorf("piamutil: summation check failed; see %s", dumpPath)
	case !refPass:
		return fmt.Errorf("piamutil: reference check failed; see %s", filepath.Join(c.OutputDir, "fixOnRef_"+c.DumpFile))
	}
	log.Println("All checks passed.")
	return nil
}

// renameScenarios replaces scenario names according to the given mapping,
// for repositories that require submission scenario names to differ from the
// model-native run names. Names without an entry are kept.
func renameScenarios(t piam.Table, renames map[string]string) piam.Table {
	o := make(piam.Table, len(t))
	for i, p := range t {
		if newName, ok := renames[p.Scenario]; ok {
			p.Scenario = newName
		}
		o[i] = p
	}
	return o
}
