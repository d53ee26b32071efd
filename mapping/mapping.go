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

// Package mapping remaps model-native variable and unit names to the naming
// scheme of a submission target. A mapping is many-to-many: one source
// variable may contribute to several target variables and one target
// variable may collect contributions from several sources, each scaled by a
// conversion factor and a weight.
package mapping

import (
	"fmt"
	"sort"

	piam "github.com/pweigmann/piamInterfaces"
)

// Source identifies a model-native variable and unit.
type Source struct {
	Variable string
	Unit     string
}

// Target is one contribution of a source to a target variable. The value of
// a source point is multiplied by Factor (unit conversion) and Weight
// (allocation share) before being added to the target.
type Target struct {
	Variable string
	Unit     string
	Factor   float64
	Weight   float64
}

// A Mapping holds the contributions of each source variable to the target
// naming scheme.
type Mapping map[Source][]Target

// Validate returns an error describing every malformed entry in the
// mapping: empty names, or factors and weights that are not finite and
// positive.
func (m Mapping) Validate() error {
	var problems []string
	for s, targets := range m {
		if s.Variable == "" {
			problems = append(problems, "mapping contains a source with an empty variable name")
		}
		if len(targets) == 0 {
			problems = append(problems, fmt.Sprintf("source %q (%s) maps to no targets", s.Variable, s.Unit))
		}
		for _, t := range targets {
			if t.Variable == "" {
				problems = append(problems, fmt.Sprintf("source %q (%s) maps to a target with an empty variable name", s.Variable, s.Unit))
			}
			if !(t.Factor > 0) {
				problems = append(problems, fmt.Sprintf("source %q target %q: factor must be > 0 but is %g", s.Variable, t.Variable, t.Factor))
			}
			if !(t.Weight > 0) {
				problems = append(problems, fmt.Sprintf("source %q target %q: weight must be > 0 but is %g", s.Variable, t.Variable, t.Weight))
			}
		}
	}
	if len(problems) > 0 {
		sort.Strings(problems)
		return &piam.ConfigurationError{Problems: problems}
	}
	return nil
}

// targetKey identifies one output point of Apply.
type targetKey struct {
	Model    string
	Scenario string
	Region   string
	Variable string
	Unit     string
	Period   int
}

// Apply remaps the table to the target naming scheme. Contributions of
// several sources that land on the same target point are summed. Points
// whose variable and unit have no entry in the mapping are dropped; a
// submission contains only the variables the target scheme asks for.
// The returned table is ordered by model, scenario, region, variable, unit
// and period. The input table is not modified.
func (m Mapping) Apply(t piam.Table) piam.Table {
	sums := make(map[targetKey]float64)
	for _, p := range t {
		targets, ok := m[Source{Variable: p.Variable, Unit: p.Unit}]
		if !ok {
			continue
		}
		for _, tg := range targets {
			k := targetKey{
				Model:    p.Model,
				Scenario: p.Scenario,
				Region:   p.Region,
				Variable: tg.Variable,
				Unit:     tg.Unit,
				Period:   p.Period,
			}
			sums[k] += p.Value * tg.Factor * tg.Weight
		}
	}

	o := make(piam.Table, 0, len(sums))
	for k, v := range sums {
		o = append(o, piam.Point{
			Model:    k.Model,
			Scenario: k.Scenario,
			Region:   k.Region,
			Variable: k.Variable,
			Unit:     k.Unit,
			Period:   k.Period,
			Value:    v,
		})
	}
	sort.Slice(o, func(i, j int) bool {
		a, b := o[i], o[j]
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
		if a.Unit != b.Unit {
			return a.Unit < b.Unit
		}
		return a.Period < b.Period
	})
	return o
}

// Targets returns the sorted set of target variable names the mapping can
// produce.
func (m Mapping) Targets() []string {
	set := make(map[string]bool)
	for _, targets := range m {
		for _, t := range targets {
			set[t.Variable] = true
		}
	}
	o := make([]string, 0, len(set))
	for v := range set {
		o = append(o, v)
	}
	sort.Strings(o)
	return o
}
