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

// Package report serializes summation-check results. The mismatch dump file
// is the authoritative deliverable and I/O errors writing it (or the
// comparison plots) are fatal; the log file is diagnostic only and errors
// writing it are downgraded to a warning.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/GaryBoone/GoStats/stats"

	piam "github.com/pweigmann/piamInterfaces"
)

// header is the fixed column order of the mismatch dump.
var header = []string{"scenario", "period", "variable", "unit",
	"parentValue", "childSum", "absDiff", "relDiff", "status"}

// formatValue renders a float for the dump, using NA for absent quantities.
func formatValue(v float64) string {
	if math.IsNaN(v) {
		return "NA"
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// Write writes the mismatch records as CSV to w: one header row followed by
// one row per record in the order given.
func Write(w io.Writer, mismatches []piam.Mismatch) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("report: writing dump header: %v", err)
	}
	for _, m := range mismatches {
		row := []string{
			m.Scenario,
			strconv.Itoa(m.Period),
			m.Variable,
			m.Unit,
			formatValue(m.ParentValue),
			formatValue(m.ChildSum),
			formatValue(m.AbsDiff),
			formatValue(m.RelDiff),
			string(m.Status),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("report: writing dump row: %v", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("report: writing dump: %v", err)
	}
	return nil
}

// WriteDump writes the mismatch records to the file at path. If appendFile
// is set and the file already has contents, the records are appended without
// repeating the header row; otherwise the file is created or overwritten.
func WriteDump(path string, mismatches []piam.Mismatch, appendFile bool) error {
	flags := os.O_WRONLY | os.O_CREATE
	writeHeader := true
	if appendFile {
		flags |= os.O_APPEND
		if fi, err := os.Stat(path); err == nil && fi.Size() > 0 {
			writeHeader = false
		}
	} else {
		flags |= os.O_TRUNC
	}
	f, err := os.OpenFile(path, flags, 0644)
	if err != nil {
		return fmt.Errorf("report: opening dump file: %v", err)
	}
	defer f.Close()

	if !writeHeader {
		if err := writeRows(f, mismatches); err != nil {
			return err
		}
	} else if err := Write(f, mismatches); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("report: closing dump file: %v", err)
	}
	return nil
}

// writeRows writes records without a header, for appending to an existing
// dump.
func writeRows(w io.Writer, mismatches []piam.Mismatch) error {
	cw := csv.NewWriter(w)
	for _, m := range mismatches {
		row := []string{
			m.Scenario,
			strconv.Itoa(m.Period),
			m.Variable,
			m.Unit,
			formatValue(m.ParentValue),
			formatValue(m.ChildSum),
			formatValue(m.AbsDiff),
			formatValue(m.RelDiff),
			string(m.Status),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("report: writing dump row: %v", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("report: writing dump: %v", err)
	}
	return nil
}

// Summary formats a human-readable block describing the mismatch records:
// counts per status for each parent region, and summary statistics of the
// relative differences of the failing comparisons.
func Summary(heading string, mismatches []piam.Mismatch) string {
	b := new(strings.Builder)
	fmt.Fprintf(b, "==== %s (%s) ====\n", heading, time.Now().Format(time.RFC3339))
	if len(mismatches) == 0 {
		b.WriteString("all summation checks passed\n")
		return b.String()
	}

	type regionStatus struct {
		region string
		status piam.Status
	}
	counts := make(map[regionStatus]int)
	regionSet := make(map[string]bool)
	for _, m := range mismatches {
		counts[regionStatus{m.Region, m.Status}]++
		regionSet[m.Region] = true
	}
	regions := make([]string, 0, len(regionSet))
	for r := range regionSet {
		regions = append(regions, r)
	}
	sort.Strings(regions)

	tw := tabwriter.NewWriter(b, 0, 2, 1, ' ', 0)
	fmt.Fprint(tw, "region\tstatus\tcount\n")
	for _, r := range regions {
		for _, s := range piam.Statuses(mismatches) {
			if n := counts[regionStatus{r, s}]; n > 0 {
				fmt.Fprintf(tw, "%s\t%s\t%d\n", r, s, n)
			}
		}
	}
	tw.Flush()

	var relDiffs []float64
	for _, m := range mismatches {
		if m.Status == piam.StatusFail && !math.IsNaN(m.RelDiff) {
			relDiffs = append(relDiffs, m.RelDiff)
		}
	}
	if len(relDiffs) > 0 {
		fmt.Fprintf(b, "relative differences of %d failing comparisons: mean %.3g, max %.3g",
			len(relDiffs), stats.StatsMean(relDiffs), stats.StatsMax(relDiffs))
		if len(relDiffs) > 1 {
			fmt.Fprintf(b, ", stdev %.3g", stats.StatsSampleStandardDeviation(relDiffs))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// AppendSummary appends the summary block for the mismatch records to the
// log file at path. The log is diagnostic rather than authoritative, so
// failures to write it are reported as a warning and never returned.
func AppendSummary(path, heading string, mismatches []piam.Mismatch) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		log.Printf("report: warning: cannot open log file: %v", err)
		return
	}
	defer f.Close()
	if _, err := io.WriteString(f, Summary(heading, mismatches)); err != nil {
		log.Printf("report: warning: cannot write log file: %v", err)
	}
}
