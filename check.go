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

import (
	"fmt"
	"math"
	"sort"
)

// Status classifies the comparison of a parent-region value against the sum
// of its child-region values for one key.
type Status string

// The possible comparison outcomes.
const (
	// StatusOK means all expected children were present and the sum
	// matched the parent value within tolerance.
	StatusOK Status = "OK"

	// StatusFail means the sum did not match the parent value within
	// tolerance.
	StatusFail Status = "FAIL"

	// StatusMissingParent means child regions reported values but the
	// parent region did not.
	StatusMissingParent Status = "MISSING_PARENT"

	// StatusMissingChild means the parent and some children reported
	// values, but at least one expected child did not. The comparison is
	// still performed; this status means it passed despite the missing
	// children, possibly by coincidence.
	StatusMissingChild Status = "MISSING_CHILD"

	// StatusAllChildrenMissing means the parent region reported a value
	// but none of the expected children did.
	StatusAllChildrenMissing Status = "ALL_CHILDREN_MISSING"
)

// epsParent guards the relative-difference denominator against a parent
// value of exactly zero.
const epsParent = 1e-10

// Mismatch records the comparison of one (scenario, period, variable, unit)
// cell. Mismatches are never mutated after creation, only filtered and
// serialized. Absent quantities are represented as NaN.
type Mismatch struct {
	Scenario string
	Period   int
	Variable string
	Unit     string

	// Region is the parent region the comparison belongs to (or, for
	// reference-trajectory checks, the region of the compared point). It
	// is carried for log summaries and is not part of the dump columns.
	Region string

	ParentValue float64
	ChildSum    float64
	AbsDiff     float64
	RelDiff     float64
	Status      Status
}

// CheckOptions configures a summation check.
type CheckOptions struct {
	// RelTol is the maximum acceptable relative difference between a
	// parent value and its child sum, relative to the magnitude of the
	// parent value. It must be set by the caller; there is no built-in
	// default.
	RelTol float64

	// AbsTol is the maximum absolute difference that is accepted
	// regardless of relative difference. It keeps comparisons against a
	// zero or near-zero parent value from failing on rounding noise. The
	// zero value accepts only exact matches through this criterion.
	AbsTol float64

	// Strict causes MISSING_CHILD results to fail the overall check.
	// MISSING_PARENT and ALL_CHILDREN_MISSING fail it in either mode.
	Strict bool

	// ReportAll includes passing (OK) comparisons in the returned
	// mismatch records instead of only the problematic ones.
	ReportAll bool
}

func (o CheckOptions) validate() error {
	var problems []string
	if !(o.RelTol > 0) {
		problems = append(problems, fmt.Sprintf("RelTol must be > 0 but is %g; there is no default tolerance", o.RelTol))
	}
	if o.AbsTol < 0 {
		problems = append(problems, fmt.Sprintf("AbsTol must be >= 0 but is %g", o.AbsTol))
	}
	if len(problems) > 0 {
		return &ConfigurationError{Problems: problems}
	}
	return nil
}

// withinTolerance reports whether parent and sum agree. Agreement requires
// passing either the relative or the absolute criterion: the absolute
// criterion keeps 0 ≈ 0 from being flagged even though the relative error is
// undefined there, while a large child sum against a zero parent fails both.
func withinTolerance(parent, sum float64, opts CheckOptions) (absDiff, relDiff float64, ok bool) {
	absDiff = math.Abs(parent - sum)
	relDiff = absDiff / math.Max(math.Abs(parent), epsParent)
	ok = relDiff <= opts.RelTol || absDiff <= opts.AbsTol
	return absDiff, relDiff, ok
}

// CheckSummations compares, for every rule in the rule set and every
// (scenario, period, variable, unit) cell in scope, the parent-region value
// against the sum of the child-region values.
//
// The returned records are ordered by rule index and then by scenario,
// period, variable and unit, so repeated runs over identical input produce
// identical reports. Unless opts.ReportAll is set, only non-OK comparisons
// are returned.
//
// pass is false if any comparison failed at failure level: FAIL,
// MISSING_PARENT and ALL_CHILDREN_MISSING always fail the check, and
// MISSING_CHILD fails it when opts.Strict is set.
//
// Configuration problems and ambiguous parent rows abort the check with no
// partial results, since they mean the check itself cannot be trusted.
// Missing data never aborts; it accumulates into the records.
func CheckSummations(t Table, rs *RuleSet, opts CheckOptions) (pass bool, mismatches []Mismatch, err error) {
	if err := opts.validate(); err != nil {
		return false, nil, err
	}
	if rs == nil || len(rs.Rules) == 0 {
		return false, nil, &ConfigurationError{Problems: []string{"no summation rules to check"}}
	}

	pass = true
	for _, rule := range rs.Rules {
		sums, err := aggregateChildren(t, rule)
		if err != nil {
			return false, nil, err
		}
		parents, err := t.parentValues(rule.Parent, rule.variableSet())
		if err != nil {
			return false, nil, err
		}

		inScope := make(map[Key]bool, len(parents)+len(sums))
		for k := range parents {
			inScope[k] = true
		}
		for k := range sums {
			inScope[k] = true
		}

		for _, k := range sortedKeys(inScope) {
			parent, hasParent := parents[k]
			cs, hasChildren := sums[k]

			m := Mismatch{
				Scenario:    k.Scenario,
				Period:      k.Period,
				Variable:    k.Variable,
				Unit:        k.Unit,
				Region:      rule.Parent,
				ParentValue: math.NaN(),
				ChildSum:    math.NaN(),
				AbsDiff:     math.NaN(),
				RelDiff:     math.NaN(),
			}

			switch {
			case !hasParent:
				m.ChildSum = cs.Sum
				m.Status = StatusMissingParent
			case !hasChildren:
				m.ParentValue = parent
				m.Status = StatusAllChildrenMissing
			default:
				m.ParentValue = parent
				m.ChildSum = cs.Sum
				var ok bool
				m.AbsDiff, m.RelDiff, ok = withinTolerance(parent, cs.Sum, opts)
				switch {
				case !ok:
					m.Status = StatusFail
				case cs.Present < len(rule.Children):
					// A match built from an incomplete set of children may
					// be coincidental, so it is still reported.
					m.Status = StatusMissingChild
				default:
					m.Status = StatusOK
				}
			}

			switch m.Status {
			case StatusFail, StatusMissingParent, StatusAllChildrenMissing:
				pass = false
			case StatusMissingChild:
				if opts.Strict {
					pass = false
				}
			}
			if m.Status != StatusOK || opts.ReportAll {
				mismatches = append(mismatches, m)
			}
		}
	}
	return pass, mismatches, nil
}

// CountByStatus returns the number of mismatch records per status.
func CountByStatus(mismatches []Mismatch) map[Status]int {
	o := make(map[Status]int)
	for _, m := range mismatches {
		o[m.Status]++
	}
	return o
}

// Statuses returns the statuses present in the given records, in a fixed
// severity order.
func Statuses(mismatches []Mismatch) []Status {
	order := []Status{StatusFail, StatusMissingParent, StatusAllChildrenMissing, StatusMissingChild, StatusOK}
	present := CountByStatus(mismatches)
	var o []Status
	for _, s := range order {
		if present[s] > 0 {
			o = append(o, s)
		}
	}
	return o
}

// sortMismatches orders records by scenario, period, variable and unit.
// CheckSummations emits records already ordered; this is for callers that
// merge records from several checks.
func sortMismatches(ms []Mismatch) {
	sort.SliceStable(ms, func(i, j int) bool {
		a, b := ms[i], ms[j]
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
}
