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

// Package mif reads and writes the model intercomparison file format: a
// semicolon-separated table with the columns Model, Scenario, Region,
// Variable and Unit followed by one column per reporting period, and
// (conventionally) a trailing separator at the end of each line. Cells that
// are empty or contain N/A denote values that were not reported; they map to
// the absence of a point in the table.
package mif

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	piam "github.com/pweigmann/piamInterfaces"
)

// idColumns are the identifying columns preceding the period columns.
var idColumns = []string{"Model", "Scenario", "Region", "Variable", "Unit"}

// Read parses mif data into a table.
func Read(r io.Reader) (piam.Table, error) {
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("mif: reading: %v", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("mif: input is empty")
	}

	header := trimTrailing(rows[0])
	if len(header) < len(idColumns)+1 {
		return nil, fmt.Errorf("mif: header has %d columns; expected at least %d", len(header), len(idColumns)+1)
	}
	for i, want := range idColumns {
		if !strings.EqualFold(strings.TrimSpace(header[i]), want) {
			return nil, fmt.Errorf("mif: header column %d is %q; expected %q", i, header[i], want)
		}
	}
	periods := make([]int, len(header)-len(idColumns))
	for i, h := range header[len(idColumns):] {
		periods[i], err = strconv.Atoi(strings.TrimSpace(h))
		if err != nil {
			return nil, fmt.Errorf("mif: header column %q is not a period: %v", h, err)
		}
	}

	var t piam.Table
	for iRow, row := range rows[1:] {
		row = trimTrailing(row)
		if len(row) == 0 {
			continue
		}
		if len(row) < len(idColumns) {
			return nil, fmt.Errorf("mif: row %d has %d columns; expected at least %d", iRow+2, len(row), len(idColumns))
		}
		for i, cell := range row[len(idColumns):] {
			if i >= len(periods) {
				return nil, fmt.Errorf("mif: row %d has more value columns than the header has periods", iRow+2)
			}
			cell = strings.TrimSpace(cell)
			if cell == "" || strings.EqualFold(cell, "N/A") || strings.EqualFold(cell, "NA") {
				continue
			}
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, fmt.Errorf("mif: row %d, period %d: parsing value: %v", iRow+2, periods[i], err)
			}
			t = append(t, piam.Point{
				Model:    strings.TrimSpace(row[0]),
				Scenario: strings.TrimSpace(row[1]),
				Region:   strings.TrimSpace(row[2]),
				Variable: strings.TrimSpace(row[3]),
				Unit:     strings.TrimSpace(row[4]),
				Period:   periods[i],
				Value:    v,
			})
		}
	}
	return t, nil
}

// ReadFile parses the mif file with the given name.
func ReadFile(name string) (piam.Table, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("mif: opening %s: %v", name, err)
	}
	defer f.Close()
	return Read(f)
}

// trimTrailing drops empty trailing fields caused by the conventional
// trailing separator.
func trimTrailing(row []string) []string {
	for len(row) > 0 && strings.TrimSpace(row[len(row)-1]) == "" {
		row = row[:len(row)-1]
	}
	return row
}

// rowKey identifies one output row of Write.
type rowKey struct {
	Model    string
	Scenario string
	Region   string
	Variable string
	Unit     string
}

// Write serializes the table as mif. The period columns are the sorted union
// of the periods in the table; rows are ordered by model, scenario, region,
// variable and unit, so identical tables serialize identically. Points that
// are absent from the table are written as empty cells.
func Write(w io.Writer, t piam.Table) error {
	periodSet := make(map[int]bool)
	rows := make(map[rowKey]map[int]float64)
	for _, p := range t {
		periodSet[p.Period] = true
		k := rowKey{p.Model, p.Scenario, p.Region, p.Variable, p.Unit}
		if rows[k] == nil {
			rows[k] = make(map[int]float64)
		}
		rows[k][p.Period] = p.Value
	}
	periods := make([]int, 0, len(periodSet))
	for p := range periodSet {
		periods = append(periods, p)
	}
	sort.Ints(periods)

	keys := make([]rowKey, 0, len(rows))
	for k := range rows {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.Model != b.Model {
			return a.Model < b.Model
		}
		if a.Scenario != b.Scenario {
			return a.Scenario < b.Scenario
		}
		if a.Region != b.Region {
			return a.Region < b.Region
		}
		if a.Variable != b.Variable {
			return a.Variable < b.Variable
		}
		return a.Unit < b.Unit
	})

	cw := csv.NewWriter(w)
	cw.Comma = ';'
	header := append([]string{}, idColumns...)
	for _, p := range periods {
		header = append(header, strconv.Itoa(p))
	}
	header = append(header, "") // trailing separator
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("mif: writing header: %v", err)
	}
	for _, k := range keys {
		row := []string{k.Model, k.Scenario, k.Region, k.Variable, k.Unit}
		for _, p := range periods {
			if v, ok := rows[k][p]; ok {
				row = append(row, strconv.FormatFloat(v, 'g', -1, 64))
			} else {
				row = append(row, "")
			}
		}
		row = append(row, "")
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("mif: writing row: %v", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("mif: writing: %v", err)
	}
	return nil
}

// WriteFile serializes the table to the mif file with the given name,
// overwriting it if it exists.
func WriteFile(name string, t piam.Table) error {
	f, err := os.Create(name)
	if err != nil {
		return fmt.Errorf("mif: creating %s: %v", name, err)
	}
	defer f.Close()
	if err := Write(f, t); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("mif: closing %s: %v", name, err)
	}
	return nil
}
