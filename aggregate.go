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

import "gonum.org/v1/gonum/floats"

// childSum is the aggregated value of a rule's child regions for one
// comparison key. Present counts the distinct child regions that actually
// reported a value for the key, so that a sum built from an incomplete set
// of children can be told apart from a complete one even when the numbers
// coincide.
type childSum struct {
	Sum     float64
	Present int
}

// aggregateChildren filters the table to the rows belonging to the rule's
// child regions and variables and sums the values within each (scenario,
// period, variable, unit) group. A child region that reported no value for a
// group contributes nothing to the sum, but its absence is visible through
// the Present count of the group. The input table is not modified.
func aggregateChildren(t Table, rule SummationRule) (map[Key]childSum, error) {
	if len(rule.Children) == 0 {
		return nil, &ConfigurationError{Problems: []string{
			"rule for parent region " + rule.Parent + " has no child regions",
		}}
	}
	children := make(map[string]bool, len(rule.Children))
	for _, c := range rule.Children {
		children[c] = true
	}
	variables := rule.variableSet()

	values := make(map[Key][]float64)
	regions := make(map[Key]map[string]bool)
	for _, p := range t {
		if !children[p.Region] || !variables[p.Variable] {
			continue
		}
		k := Key{Scenario: p.Scenario, Period: p.Period, Variable: p.Variable, Unit: p.Unit}
		values[k] = append(values[k], p.Value)
		if regions[k] == nil {
			regions[k] = make(map[string]bool)
		}
		regions[k][p.Region] = true
	}

	o := make(map[Key]childSum, len(values))
	for k, vals := range values {
		o[k] = childSum{
			Sum:     floats.Sum(vals),
			Present: len(regions[k]),
		}
	}
	return o, nil
}
