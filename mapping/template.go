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

package mapping

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ctessum/requestcache"
	"github.com/tealeg/xlsx"
)

// Template files list one source-to-target contribution per row with the
// columns source, sourceUnit, target, targetUnit, factor, weight. The weight
// column may be left empty for a weight of 1.

// templateColumns is the expected header of a mapping template.
var templateColumns = []string{"source", "sourceUnit", "target", "targetUnit", "factor", "weight"}

// ReadCSV reads a mapping template in CSV format (';' separated, one header
// row).
func ReadCSV(r io.Reader) (Mapping, error) {
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.Comment = '#'
	cr.FieldsPerRecord = -1
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("mapping: reading template: %v", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("mapping: template is empty")
	}
	if err := checkHeader(rows[0]); err != nil {
		return nil, err
	}
	return fromRows(rows[1:])
}

// LoadXLSX reads a mapping template from the named sheet of a Microsoft
// Excel file. The sheet layout matches the CSV format: one header row
// followed by one contribution per row.
func LoadXLSX(file, sheet string) (Mapping, error) {
	f, err := xlsx.OpenFile(file)
	if err != nil {
		return nil, fmt.Errorf("mapping: opening xlsx template: %v", err)
	}
	s, ok := f.Sheet[sheet]
	if !ok {
		return nil, fmt.Errorf("mapping: xlsx template has no sheet %q", sheet)
	}
	var rows [][]string
	for _, r := range s.Rows {
		row := make([]string, len(r.Cells))
		for i, c := range r.Cells {
			row[i] = strings.TrimSpace(c.Value)
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("mapping: xlsx template sheet %q is empty", sheet)
	}
	if err := checkHeader(rows[0]); err != nil {
		return nil, err
	}
	return fromRows(rows[1:])
}

// LoadFile reads a mapping template from a .csv or .xlsx file. For xlsx
// files the template is expected on a sheet named "mapping".
func LoadFile(name string) (Mapping, error) {
	switch ext := strings.ToLower(filepath.Ext(name)); ext {
	case ".csv":
		f, err := os.Open(name)
		if err != nil {
			return nil, fmt.Errorf("mapping: opening template: %v", err)
		}
		defer f.Close()
		return ReadCSV(f)
	case ".xlsx":
		return LoadXLSX(name, "mapping")
	default:
		return nil, fmt.Errorf("mapping: unsupported template file type %q", ext)
	}
}

func checkHeader(row []string) error {
	if len(row) < len(templateColumns)-1 { // weight column is optional
		return fmt.Errorf("mapping: template header has %d columns; expected %v", len(row), templateColumns)
	}
	for i, want := range templateColumns[:len(row)] {
		if !strings.EqualFold(strings.TrimSpace(row[i]), want) {
			return fmt.Errorf("mapping: template column %d is %q; expected %q", i, row[i], want)
		}
	}
	return nil
}

func fromRows(rows [][]string) (Mapping, error) {
	m := make(Mapping)
	for i, row := range rows {
		if len(row) == 0 || (len(row) == 1 && strings.TrimSpace(row[0]) == "") {
			continue
		}
		if len(row) < 5 {
			return nil, fmt.Errorf("mapping: template row %d has %d columns; expected at least 5", i+2, len(row))
		}
		factor, err := strconv.ParseFloat(strings.TrimSpace(row[4]), 64)
		if err != nil {
			return nil, fmt.Errorf("mapping: template row %d: parsing factor: %v", i+2, err)
		}
		weight := 1.0
		if len(row) > 5 && strings.TrimSpace(row[5]) != "" {
			weight, err = strconv.ParseFloat(strings.TrimSpace(row[5]), 64)
			if err != nil {
				return nil, fmt.Errorf("mapping: template row %d: parsing weight: %v", i+2, err)
			}
		}
		s := Source{Variable: strings.TrimSpace(row[0]), Unit: strings.TrimSpace(row[1])}
		m[s] = append(m[s], Target{
			Variable: strings.TrimSpace(row[2]),
			Unit:     strings.TrimSpace(row[3]),
			Factor:   factor,
			Weight:   weight,
		})
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// Cache memoizes mapping templates by file name so that a template shared
// by several checks in one run is read and parsed only once.
type Cache struct {
	cache *requestcache.Cache
}

// NewCache creates a template cache backed by LoadFile.
func NewCache() *Cache {
	c := requestcache.NewCache(func(ctx context.Context, req interface{}) (interface{}, error) {
		return LoadFile(req.(string))
	}, 1, requestcache.Deduplicate(), requestcache.Memory(100))
	return &Cache{cache: c}
}

// Mapping returns the mapping loaded from the named template file,
// memoized across calls.
func (c *Cache) Mapping(ctx context.Context, name string) (Mapping, error) {
	r := c.cache.NewRequest(ctx, name, name)
	result, err := r.Result()
	if err != nil {
		return nil, err
	}
	return result.(Mapping), nil
}
