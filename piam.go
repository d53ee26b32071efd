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

// Package piam validates climate and energy model scenario output before
// submission to a standardized data repository. It checks that values
// reported for child regions sum to the values reported for their parent
// regions within a caller-supplied tolerance, and that a scenario's
// trajectory before its start year matches a reference scenario.
//
// The package operates on long-format tables of scenario data points keyed
// by model, scenario, region, variable, unit and period. Reading and writing
// of source file formats is handled by the mif subpackage, renaming of
// model-native variables by the mapping subpackage, and report artifacts
// (mismatch dumps, comparison plots, log summaries) by the report
// subpackage.
package piam

// Version gives the version number of this package.
const Version = "0.3.0"
