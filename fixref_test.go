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
	"errors"
	"testing"
)

func refPoint(scenario string, period int, value float64) Point {
	return Point{
		Model:    "testmodel",
		Scenario: scenario,
		Region:   "World",
		Variable: "X",
		Unit:     "U",
		Period:   period,
		Value:    value,
	}
}

func TestCheckFixOnRef(t *testing.T) {
	table := Table{
		refPoint("policy", 2005, 1),
		refPoint("policy", 2010, 2),
		refPoint("policy", 2030, 99), // after the start year, free to deviate
	}
	ref := Table{
		refPoint("base", 2005, 1),
		refPoint("base", 2010, 2),
		refPoint("base", 2030, 3),
	}
	pass, ms, err := CheckFixOnRef(table, ref, 2020, CheckOptions{RelTol: 1e-6})
	if err != nil {
		t.Fatal(err)
	}
	if !pass {
		t.Error("pass: want true but have false")
	}
	if len(ms) != 0 {
		t.Errorf("mismatches: want none but have %v", ms)
	}
}

func TestCheckFixOnRefDeviation(t *testing.T) {
	table := Table{refPoint("policy", 2010, 2.1)}
	ref := Table{refPoint("base", 2010, 2)}
	pass, ms, err := CheckFixOnRef(table, ref, 2020, CheckOptions{RelTol: 0.01})
	if err != nil {
		t.Fatal(err)
	}
	if pass {
		t.Error("pass: want false but have true")
	}
	if len(ms) != 1 || ms[0].Status != StatusFail {
		t.Fatalf("want one FAIL record but have %v", ms)
	}
	if ms[0].ParentValue != 2 || ms[0].ChildSum != 2.1 {
		t.Errorf("values: want reference 2 and scenario 2.1 but have %g and %g",
			ms[0].ParentValue, ms[0].ChildSum)
	}
}

func TestCheckFixOnRefMissingReference(t *testing.T) {
	table := Table{refPoint("policy", 2010, 2)}
	pass, ms, err := CheckFixOnRef(table, Table{}, 2020, CheckOptions{RelTol: 0.01})
	if err != nil {
		t.Fatal(err)
	}
	if pass {
		t.Error("pass: want false but have true")
	}
	if len(ms) != 1 || ms[0].Status != StatusMissingParent {
		t.Fatalf("want one MISSING_PARENT record but have %v", ms)
	}
}

func TestCheckFixOnRefAmbiguousReference(t *testing.T) {
	table := Table{refPoint("policy", 2010, 2)}
	ref := Table{
		refPoint("base", 2010, 2),
		refPoint("base", 2010, 3),
	}
	_, _, err := CheckFixOnRef(table, ref, 2020, CheckOptions{RelTol: 0.01})
	var ambiguous *AmbiguousRowError
	if !errors.As(err, &ambiguous) {
		t.Fatalf("error: want AmbiguousRowError but have %v", err)
	}
}
