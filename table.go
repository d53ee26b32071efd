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

package piam

import "sort"

// Point is one observation in a scenario table: the value of one variable
// for one model, scenario, region, unit and period. A quantity that was not
// reported is represented by the absence of its Point from the table, not by
// a sentinel value.
type Point struct {
	Model    string
	Scenario string
	Region   string
	Variable string
	Unit     string
	Period   int
	Value    float64
}

// Table is a long-format collection of scenario data points. Tables are
// treated as read-only inputs for the duration of a check; all methods
// return new tables or derived values and never modify the receiver.
type Table []Point

// Key identifies one cell of a summation comparison: the join key between a
// parent-region row and the aggregated values of its child regions.
type Key struct {
	Scenario string
	Period   int
	Variable string
	Unit     string
}

// Filter returns the points for which keep returns true.
func (t Table) Filter(keep func(Point) bool) Table {
	var o Table
	for _, p := range t {
		if keep(p) {
			o = append(o, p)
		}
	}
	return o
}

// Models returns the sorted set of model names in the table.
func (t Table) Models() []string {
	set := make(map[string]bool)
	for _, p := range t {
		set[p.Model] = true
	}
	o := make([]string, 0, len(set))
	for m := range set {
		o = append(o, m)
	}
	sort.Strings(o)
	return o
}

// Scenarios returns the sorted set of scenario names in the table.
func (t Table) Scenarios() []string {
	set := make(map[string]bool)
	for _, p := range t {
		set[p.Scenario] = true
	}
	o := make([]string, 0, len(set))
	for s := range set {
		o = append(o, s)
	}
	sort.Strings(o)
	return o
}

// Variables returns the set of variable names in the table.
func (t Table) Variables() map[string]bool {
	set := make(map[string]bool)
	for _, p := range t {
		set[p.Variable] = true
	}
	return set
}

// FilterModel returns the subset of the table belonging to the given model.
func (t Table) FilterModel(model string) Table {
	return t.Filter(func(p Point) bool { return p.Model == model })
}

// parentValues collects the values reported for region in the given
// variables, keyed by scenario, period, variable and unit. If more than one
// row matches a single key the table is ambiguous and an AmbiguousRowError
// is returned.
func (t Table) parentValues(region string, variables map[string]bool) (map[Key]float64, error) {
	o := make(map[Key]float64)
	seen := make(map[Key]int)
	for _, p := range t {
		if p.Region != region || !variables[p.Variable] {
			continue
		}
		k := Key{Scenario: p.Scenario, Period: p.Period, Variable: p.Variable, Unit: p.Unit}
		seen[k]++
		if seen[k] > 1 {
			return nil, &AmbiguousRowError{
				Region:   region,
				Variable: p.Variable,
				Scenario: p.Scenario,
				Period:   p.Period,
				Count:    seen[k],
			}
		}
		o[k] = p.Value
	}
	return o, nil
}

// sortedKeys returns the keys of the given maps, deduplicated and ordered by
// scenario, period, variable and unit, so that repeated checks over the same
// input visit cells in the same order.
func sortedKeys(maps ...map[Key]bool) []Key {
	set := make(map[Key]bool)
	for _, m := range maps {
		for k := range m {
			set[k] = true
		}
	}
	keys := make([]Key, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.Scenario != b.Scenario {
			return a.Scenario < b.Scenario
		}
		if a.Period != b.Period {
			return a.Period < b.Period
		}
		if a.Variable != b.Variable {
			return a.Variable < b.Variable
		}
		return a.Unit < b.Unit
	})
	return keys
}
