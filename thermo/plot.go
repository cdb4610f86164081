/*
 * plot.go, part of matkit.
 *
 * Copyright 2024 The matkit developers.
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package thermo

import (
	"fmt"
	"image/color"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// PlotHull draws the diagram as formation energy against composition: every
// entry as a point, the hull as a line through the stable ones. The file is
// saved as PNG; a missing extension is appended. Needs a two-element closed
// system, a one-element "diagram" has nothing to draw.
func PlotHull(pd *GrandPotential, title, filename string) error {
	if len(pd.elems) < 2 {
		return fmt.Errorf("thermo: hull plot needs 2 closed elements, have %v", pd.elems)
	}
	if !strings.HasSuffix(filename, ".png") {
		filename = filename + ".png"
	}
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = fmt.Sprintf("x(%s)  in  %s(1-x)%s(x)", pd.elems[1], pd.elems[0], pd.elems[1])
	p.Y.Label.Text = "Formation energy (eV/atom)"

	all := make(plotter.XYs, len(pd.entries))
	for i, ge := range pd.entries {
		all[i].X = ge.x
		all[i].Y = ge.eform
	}
	scatter, err := plotter.NewScatter(all)
	if err != nil {
		return err
	}
	scatter.GlyphStyle.Color = color.RGBA{R: 196, A: 255}
	scatter.GlyphStyle.Radius = vg.Points(2.5)

	hullPts := make(plotter.XYs, len(pd.hull))
	for i, ge := range pd.hull {
		hullPts[i].X = ge.x
		hullPts[i].Y = ge.eform
	}
	line, err := plotter.NewLine(hullPts)
	if err != nil {
		return err
	}
	line.LineStyle.Width = vg.Points(1)
	line.LineStyle.Color = color.RGBA{B: 196, A: 255}

	p.Add(scatter, line)
	p.Legend.Add("entries", scatter)
	p.Legend.Add("hull", line)
	return p.Save(15*vg.Centimeter, 10*vg.Centimeter, filename)
}
