/*
 * structure.go, part of matkit.
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

package matkit

import "fmt"

// Site is one atom of a periodic structure: an element symbol plus a
// cartesian position. Sites carry no identity beyond their index in the
// structure.
type Site struct {
	Symbol string
	Pos    Vec
}

// Structure is a periodic atomic arrangement: a lattice plus an ordered list
// of sites. Boundary conditions are periodic in all three directions. Site
// indices are stable: nothing in this package removes or reorders sites,
// new ones are only appended.
type Structure struct {
	lat   *Lattice
	sites []Site
}

// NewStructure makes a Structure from a lattice and a site list. It returns
// an error if either is nil. It does not check that positions lie inside the
// cell; they don't have to.
func NewStructure(lat *Lattice, sites []Site) (*Structure, error) {
	if lat == nil {
		return nil, CError{"supplied a nil Lattice", []string{"NewStructure"}}
	}
	if sites == nil {
		return nil, CError{"supplied a nil site list", []string{"NewStructure"}}
	}
	return &Structure{lat: lat, sites: sites}, nil
}

// Lattice returns the lattice of the structure.
func (S *Structure) Lattice() *Lattice {
	return S.lat
}

// Len returns the number of sites.
func (S *Structure) Len() int {
	return len(S.sites)
}

// Site returns the site with index i. Panics if out of range.
func (S *Structure) Site(i int) Site {
	if i < 0 || i >= len(S.sites) {
		panic(fmt.Sprintf("Structure: requested site %d out of bounds (%d)", i, len(S.sites)))
	}
	return S.sites[i]
}

// AppendSite appends a site at the end of the structure.
func (S *Structure) AppendSite(s Site) {
	S.sites = append(S.sites, s)
}

// Copy returns a deep copy of the structure.
func (S *Structure) Copy() *Structure {
	if S == nil {
		panic("attempted to copy a nil Structure")
	}
	sites := make([]Site, len(S.sites))
	copy(sites, S.sites)
	return &Structure{lat: S.lat.Copy(), sites: sites}
}

// Indices returns the indices of all sites with the given element symbol, in
// index order.
func (S *Structure) Indices(symbol string) []int {
	var ret []int
	for i, s := range S.sites {
		if s.Symbol == symbol {
			ret = append(ret, i)
		}
	}
	return ret
}

// Composition returns a map from element symbol to the number of sites of
// that element.
func (S *Structure) Composition() map[string]int {
	comp := make(map[string]int)
	for _, s := range S.sites {
		comp[s.Symbol]++
	}
	return comp
}

// ReducedFormula returns the reduced chemical formula of the structure, e.g.
// BaZrO3 for a Ba8Zr8O24 cell.
func (S *Structure) ReducedFormula() string {
	return ReducedFormula(S.Composition())
}

// Distance returns the minimum-image distance between sites i and j. Panics
// if either index is out of range.
func (S *Structure) Distance(i, j int) float64 {
	return S.lat.MinImageDistance(S.Site(i).Pos, S.Site(j).Pos)
}

// Displacement returns the minimum-image displacement vector from site i to
// site j. Panics if either index is out of range.
func (S *Structure) Displacement(i, j int) Vec {
	return S.lat.MinImage(S.Site(j).Pos.Sub(S.Site(i).Pos))
}

// PlainDistance returns the distance between sites i and j ignoring
// periodicity. Panics if either index is out of range.
func (S *Structure) PlainDistance(i, j int) float64 {
	return S.Site(j).Pos.Sub(S.Site(i).Pos).Norm()
}

// Supercell returns a new structure expanded nx x ny x nz times. Sites are
// replicated image-by-image per original site, so sites of one element stay
// contiguous if they were contiguous in the input. The multipliers must be
// positive.
func (S *Structure) Supercell(nx, ny, nz int) (*Structure, error) {
	if nx < 1 || ny < 1 || nz < 1 {
		return nil, CError{fmt.Sprintf("non-positive supercell multipliers %d %d %d", nx, ny, nz), []string{"Supercell"}}
	}
	a := S.lat.Vector(0)
	b := S.lat.Vector(1)
	c := S.lat.Vector(2)
	lat, err := NewLattice(a.Scale(float64(nx)), b.Scale(float64(ny)), c.Scale(float64(nz)))
	if err != nil {
		return nil, errDecorate(err, "Supercell")
	}
	sites := make([]Site, 0, len(S.sites)*nx*ny*nz)
	for _, s := range S.sites {
		for ia := 0; ia < nx; ia++ {
			for ib := 0; ib < ny; ib++ {
				for ic := 0; ic < nz; ic++ {
					shift := a.Scale(float64(ia)).Add(b.Scale(float64(ib))).Add(c.Scale(float64(ic)))
					sites = append(sites, Site{Symbol: s.Symbol, Pos: s.Pos.Add(shift)})
				}
			}
		}
	}
	return &Structure{lat: lat, sites: sites}, nil
}
