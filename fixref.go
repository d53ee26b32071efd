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

import "math"

// refKey identifies one point of a reference-trajectory comparison. The
// scenario name is deliberately not part of the key: the point of the check
// is to match a scenario against a differently-named reference scenario.
type refKey struct {
	Model    string
	Region   string
	Variable string
	Unit     string
	Period   int
}

// CheckFixOnRef verifies that every point of the table before startYear
// matches the corresponding point of the reference table within tolerance.
// A scenario is expected to share its pre-start-year trajectory with the
// reference scenario it branched from; deviations usually mean the run was
// not actually fixed on its reference.
//
// The comparison matches points on model, region, variable, unit and period
// and ignores scenario names. Reference points reported more than once for
// the same key make the reference ambiguous and abort the check. A point
// with no counterpart in the reference is reported as MISSING_PARENT (the
// reference takes the parent role in the records; the scenario value is
// recorded as the child sum).
//
// Records are ordered by scenario, period, variable and unit. pass is false
// if any point is out of tolerance or has no reference counterpart.
func CheckFixOnRef(t, ref Table, startYear int, opts CheckOptions) (pass bool, mismatches []Mismatch, err error) {
	if err := opts.validate(); err != nil {
		return false, nil, err
	}

	refValues := make(map[refKey]float64, len(ref))
	refSeen := make(map[refKey]int, len(ref))
	for _, p := range ref {
		if p.Period >= startYear {
			continue
		}
		k := refKey{Model: p.Model, Region: p.Region, Variable: p.Variable, Unit: p.Unit, Period: p.Period}
		refSeen[k]++
		if refSeen[k] > 1 {
			return false, nil, &AmbiguousRowError{
				Region:   p.Region,
				Variable: p.Variable,
				Scenario: p.Scenario,
				Period:   p.Period,
				Count:    refSeen[k],
			}
		}
		refValues[k] = p.Value
	}

	pass = true
	for _, p := range t {
		if p.Period >= startYear {
			continue
		}
		k := refKey{Model: p.Model, Region: p.Region, Variable: p.Variable, Unit: p.Unit, Period: p.Period}
		m := Mismatch{
			Scenario: p.Scenario,
			Period:   p.Period,
			Variable: p.Variable,
			Unit:     p.Unit,
			Region:   p.Region,
			ChildSum: p.Value,
		}
		refVal, ok := refValues[k]
		if !ok {
			m.ParentValue = math.NaN()
			m.AbsDiff = math.NaN()
			m.RelDiff = math.NaN()
			m.Status = StatusMissingParent
			pass = false
			mismatches = append(mismatches, m)
			continue
		}
		m.ParentValue = refVal
		var within bool
		m.AbsDiff, m.RelDiff, within = withinTolerance(refVal, p.Value, opts)
		if within {
			m.Status = StatusOK
		} else {
			m.Status = StatusFail
			pass = false
		}
		if m.Status != StatusOK || opts.ReportAll {
			mismatches = append(mismatches, m)
		}
	}
	sortMismatches(mismatches)
	return pass, mismatches, nil
}
