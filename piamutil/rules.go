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
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/tealeg/xlsx"

	piam "github.com/pweigmann/piamInterfaces"
)

// Summation-group templates list one rule per row with the columns parent,
// children and variables; children and variables are comma-separated lists.
// IAMC variable names contain '|', so the pipe cannot serve as the list
// separator.

// summationColumns is the expected header of a summation-group template.
var summationColumns = []string{"parent", "children", "variables"}

// LoadRulesFile reads a summation-group template from a .csv or .xlsx file
// and validates it. For xlsx files the template is expected on a sheet named
// "summations". The file name becomes the rule-set name.
func LoadRulesFile(name string) (*piam.RuleSet, error) {
	switch ext := strings.ToLower(filepath.Ext(name)); ext {
	case ".csv":
		f, err := os.Open(name)
		if err != nil {
			return nil, fmt.Errorf("piamutil: opening summations template: %v", err)
		}
		defer f.Close()
		return ReadRulesCSV(name, f)
	case ".xlsx":
		return loadRulesXLSX(name, "summations")
	default:
		return nil, fmt.Errorf("piamutil: unsupported summations template file type %q", ext)
	}
}

// ReadRulesCSV reads a summation-group template in CSV format (';'
// separated, one header row) and validates it.
func ReadRulesCSV(name string, r io.Reader) (*piam.RuleSet, error) {
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.Comment = '#'
	cr.FieldsPerRecord = -1
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("piamutil: reading summations template: %v", err)
	}
	return rulesFromRows(name, rows)
}

func loadRulesXLSX(name, sheet string) (*piam.RuleSet, error) {
	f, err := xlsx.OpenFile(name)
	if err != nil {
		return nil, fmt.Errorf("piamutil: opening xlsx summations template: %v", err)
	}
	s, ok := f.Sheet[sheet]
	if !ok {
		return nil, fmt.Errorf("piamutil: xlsx summations template has no sheet %q", sheet)
	}
	var rows [][]string
	for _, r := range s.Rows {
		row := make([]string, len(r.Cells))
		for i, c := range r.Cells {
			row[i] = strings.TrimSpace(c.Value)
		}
		rows = append(rows, row)
	}
	return rulesFromRows(name, rows)
}

func rulesFromRows(name string, rows [][]string) (*piam.RuleSet, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("piamutil: summations template %s is empty", name)
	}
	header := rows[0]
	if len(header) < len(summationColumns) {
		return nil, fmt.Errorf("piamutil: summations template header has %d columns; expected %v", len(header), summationColumns)
	}
	for i, want := range summationColumns {
		if !strings.EqualFold(strings.TrimSpace(header[i]), want) {
			return nil, fmt.Errorf("piamutil: summations template column %d is %q; expected %q", i, header[i], want)
		}
	}

	var rules []piam.SummationRule
	for i, row := range rows[1:] {
		if len(row) == 0 || (len(row) == 1 && strings.TrimSpace(row[0]) == "") {
			continue
		}
		if len(row) < len(summationColumns) {
			return nil, fmt.Errorf("piamutil: summations template row %d has %d columns; expected %d", i+2, len(row), len(summationColumns))
		}
		rules = append(rules, piam.SummationRule{
			Parent:    strings.TrimSpace(row[0]),
			Children:  splitList(row[1]),
			Variables: splitList(row[2]),
		})
	}
	return piam.NewRuleSet(name, rules)
}

// splitList splits a comma-separated template cell into its entries, dropping
// empty ones.
func splitList(cell string) []string {
	var o []string
	for _, s := range strings.Split(cell, ",") {
		if s = strings.TrimSpace(s); s != "" {
			o = append(o, s)
		}
	}
	return o
}
