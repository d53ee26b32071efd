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
	"reflect"
	"testing"
)

func TestAggregateChildren(t *testing.T) {
	table := Table{
		point("R1", "X", 2020, 1),
		point("R2", "X", 2020, 2),
		point("R1", "X", 2030, 4),
		point("R1", "Y", 2020, 8),      // variable out of scope
		point("World", "X", 2020, 16),  // parent region, not a child
		point("Other", "X", 2020, 32),  // region out of scope
	}
	rule := SummationRule{
		Parent:    "World",
		Children:  []string{"R1", "R2"},
		Variables: []string{"X"},
	}
	sums, err := aggregateChildren(table, rule)
	if err != nil {
		t.Fatal(err)
	}
	want := map[Key]childSum{
		{Scenario: "S", Period: 2020, Variable: "X", Unit: "U"}: {Sum: 3, Present: 2},
		{Scenario: "S", Period: 2030, Variable: "X", Unit: "U"}: {Sum: 4, Present: 1},
	}
	if !reflect.DeepEqual(want, sums) {
		t.Errorf("sums: want %v but have %v", want, sums)
	}
}

func TestAggregateChildrenEmptyRule(t *testing.T) {
	_, err := aggregateChildren(Table{point("R1", "X", 2020, 1)}, SummationRule{Parent: "World"})
	var confErr *ConfigurationError
	if !errors.As(err, &confErr) {
		t.Fatalf("error: want ConfigurationError but have %v", err)
	}
}

func TestAggregateChildrenPureInput(t *testing.T) {
	table := Table{
		point("R1", "X", 2020, 1),
		point("R2", "X", 2020, 2),
	}
	orig := make(Table, len(table))
	copy(orig, table)
	rule := SummationRule{Parent: "World", Children: []string{"R1", "R2"}, Variables: []string{"X"}}
	if _, err := aggregateChildren(table, rule); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(orig, table) {
		t.Error("input table was modified")
	}
}
