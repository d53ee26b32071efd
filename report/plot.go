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

package report

import (
	"fmt"
	"image/color"
	"math"
	"path/filepath"
	"sort"
	"strings"

	"github.com/GaryBoone/GoStats/stats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	piam "github.com/pweigmann/piamInterfaces"
)

var (
	plotWidth  = 5 * vg.Inch
	plotHeight = 5 * vg.Inch
)

// sanitizeFilename replaces characters that are unsafe in file names. IAMC
// variable names routinely contain '|' and '/' separators.
func sanitizeFilename(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', '|', ':', '*', '?', '"', '<', '>', ' ':
			return '_'
		}
		return r
	}, s)
}

// Plot renders one parent-versus-child-sum comparison plot per distinct
// variable in the mismatch records. Each plot shows the mismatching
// (scenario, period) cells as points against a 1:1 line; a point on the line
// sums correctly. Files are written to dir as PNG images named
// prefix_<variable>.png with path-unsafe characters in the variable name
// replaced, and the written file names are returned in variable order.
// Records with a missing parent value or child sum carry no position and are
// skipped.
func Plot(dir, prefix string, mismatches []piam.Mismatch) ([]string, error) {
	byVariable := make(map[string]plotter.XYs)
	for _, m := range mismatches {
		if math.IsNaN(m.ParentValue) || math.IsNaN(m.ChildSum) {
			continue
		}
		byVariable[m.Variable] = append(byVariable[m.Variable],
			plotter.XY{X: m.ParentValue, Y: m.ChildSum})
	}
	variables := make([]string, 0, len(byVariable))
	for v := range byVariable {
		variables = append(variables, v)
	}
	sort.Strings(variables)

	var files []string
	for _, v := range variables {
		fname := filepath.Join(dir, prefix+"_"+sanitizeFilename(v)+".png")
		if err := plotVariable(v, byVariable[v], fname); err != nil {
			return files, err
		}
		files = append(files, fname)
	}
	return files, nil
}

func plotVariable(variable string, xys plotter.XYs, fname string) error {
	all := make([]float64, 0, 2*len(xys))
	for _, xy := range xys {
		all = append(all, xy.X, xy.Y)
	}
	min := stats.StatsMin(all)
	max := stats.StatsMax(all)
	if min == max { // Give a degenerate range some width.
		min--
		max++
	}

	p, err := plot.New()
	if err != nil {
		return fmt.Errorf("report: creating plot for %s: %v", variable, err)
	}
	p.Title.Text = variable
	p.X.Label.Text = "Parent region value"
	p.Y.Label.Text = "Sum of child regions"

	s, err := plotter.NewScatter(xys)
	if err != nil {
		return fmt.Errorf("report: plotting %s: %v", variable, err)
	}
	s.Color = color.NRGBA{0, 0, 0, 255}
	s.Radius = 1.5
	s.Shape = draw.CircleGlyph{}

	l, err := plotter.NewLine(plotter.XYs{{X: min, Y: min}, {X: max, Y: max}})
	if err != nil {
		return fmt.Errorf("report: plotting %s: %v", variable, err)
	}
	l.Color = color.NRGBA{255, 0, 0, 255}

	p.Add(s, l)
	p.Legend.Add("mismatches", s)
	p.Legend.Add("1:1", l)
	p.Legend.Top = true
	p.Legend.Left = true

	if err := p.Save(plotWidth, plotHeight, fname); err != nil {
		return fmt.Errorf("report: saving plot for %s: %v", variable, err)
	}
	return nil
}
