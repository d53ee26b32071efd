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
	"strings"
)

// ConfigurationError reports malformed summation rules or invalid check
// options. It lists every problem that was found, not just the first one,
// so a configuration can be fixed in a single pass.
type ConfigurationError struct {
	Problems []string
}

func (e *ConfigurationError) Error() string {
	return "piam: invalid configuration: " + strings.Join(e.Problems, "; ")
}

// AmbiguousRowError reports that more than one table row matched a single
// parent-region key. It indicates a data-quality defect in the input table,
// such as the same quantity reported twice with conflicting values.
type AmbiguousRowError struct {
	Region   string
	Variable string
	Scenario string
	Period   int
	Count    int
}

func (e *AmbiguousRowError) Error() string {
	return fmt.Sprintf("piam: %d rows match region %q, variable %q, scenario %q, period %d; expected at most one",
		e.Count, e.Region, e.Variable, e.Scenario, e.Period)
}
