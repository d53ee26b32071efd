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
	"reflect"
	"testing"
)

func TestTableSets(t *testing.T) {
	table := Table{
		{Model: "m2", Scenario: "s1", Variable: "X"},
		{Model: "m1", Scenario: "s2", Variable: "Y"},
		{Model: "m1", Scenario: "s1", Variable: "X"},
	}
	if want, have := []string{"m1", "m2"}, table.Models(); !reflect.DeepEqual(want, have) {
		t.Errorf("models: want %v but have %v", want, have)
	}
	if want, have := []string{"s1", "s2"}, table.Scenarios(); !reflect.DeepEqual(want, have) {
		t.Errorf("scenarios: want %v but have %v", want, have)
	}
	wantVars := map[string]bool{"X": true, "Y": true}
	if have := table.Variables(); !reflect.DeepEqual(wantVars, have) {
		t.Errorf("variables: want %v but have %v", wantVars, have)
	}
	if have := table.FilterModel("m1"); len(have) != 2 {
		t.Errorf("filter model: want 2 points but have %d", len(have))
	}
}

func TestParentValuesDuplicateKeyAmbiguous(t *testing.T) {
	// The same quantity reported twice must not be silently merged.
	table := Table{
		point("World", "X", 2020, 100),
		{Model: "testmodel", Scenario: "S", Region: "World", Variable: "X",
			Unit: "U", Period: 2020, Value: 0.1},
	}
	_, err := table.parentValues("World", map[string]bool{"X": true})
	if err == nil {
		t.Fatal("error: want AmbiguousRowError but have nil")
	}
}
