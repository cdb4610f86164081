/*
 * proton.go, part of matkit.
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

import (
	"math"
	"sort"
)

//Defaults for proton insertion. Distances are in the length unit of the
//structure, angstroms in practice.
const (
	//OHBondLength is the target O-H distance for an inserted proton.
	OHBondLength = 0.98
	//NeighborCutoff is the default cutoff for the neighbor search around the
	//host oxygen.
	NeighborCutoff = 3.0
	//ProtonatedCutoff marks an oxygen as already protonated: any hydrogen
	//closer than this (minimum image) makes the oxygen unavailable. This is
	//an exclusion test, not the placement target.
	ProtonatedCutoff = 1.2
	//BondLengthTol is the allowed deviation of the realized O-H distance
	//from the target before a placement is flagged.
	BondLengthTol = 0.1
	//maxDirNeighbors caps how many closest neighbors contribute to the
	//placement direction.
	maxDirNeighbors = 3
	//below this accumulated norm the neighbor shell is considered symmetric
	//and the fallback direction is used.
	dirZero = 1e-6
)

// Neighbor is one neighbor of a reference site: its minimum-image distance
// and the unit vector pointing from the reference site toward the neighbor.
type Neighbor struct {
	Dist float64
	Dir  Vec
}

// FindNeighbors returns every site of s other than index whose minimum-image
// distance to site index is strictly less than maxDist. The returned
// collection is in site-index order. It is a pure function of its inputs;
// the empty result is legitimate and callers must handle it (see
// PlacementDirection). Panics if index is out of range.
func FindNeighbors(s *Structure, index int, maxDist float64) []Neighbor {
	ref := s.Site(index) //panics on a bad index, as it should
	var neighbors []Neighbor
	for i := 0; i < s.Len(); i++ {
		if i == index {
			continue
		}
		d := s.Lattice().MinImage(s.Site(i).Pos.Sub(ref.Pos))
		dist := d.Norm()
		if dist < maxDist {
			neighbors = append(neighbors, Neighbor{Dist: dist, Dir: d.Scale(1 / dist)})
		}
	}
	return neighbors
}

// PlacementDirection computes a unit vector pointing away from the crowd of
// the closest maxNeighbors neighbors, weighting each by the inverse of its
// distance. This is a cheap stand-in for a real electrostatic or steric
// optimum; it only needs to produce a chemically reasonable starting
// geometry for a later relaxation. If the neighbors cancel out (or there are
// none) the fallback direction (0,0,1) is returned. Ties in distance keep
// the original enumeration order.
func PlacementDirection(neighbors []Neighbor, maxNeighbors int) Vec {
	sorted := make([]Neighbor, len(neighbors))
	copy(sorted, neighbors)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Dist < sorted[j].Dist })
	if maxNeighbors < len(sorted) {
		sorted = sorted[:maxNeighbors]
	}
	var dir Vec
	for _, n := range sorted {
		dir = dir.Sub(n.Dir.Scale(1 / n.Dist))
	}
	norm := dir.Norm()
	if norm <= dirZero {
		return Vec{0, 0, 1}
	}
	return dir.Scale(1 / norm)
}

// Placement is the outcome of one proton-insertion attempt.
type Placement struct {
	Proton     int     //1-based number of the attempt
	Placed     bool    //false when no available oxygen was left
	Oxygen     int     //index of the host oxygen, -1 when not placed
	Pos        Vec     //cartesian position of the inserted hydrogen
	BondLength float64 //realized minimum-image O-H distance
	WithinTol  bool    //whether BondLength is within BondLengthTol of the target
}

// AddProtons inserts nProtons hydrogen atoms into a copy of s, one per
// iteration, each bonded to an oxygen that does not already carry a
// hydrogen. The input structure is never modified; the returned structure
// has the successfully placed hydrogens appended after the original sites.
//
// Each iteration takes the first available oxygen in index order (no
// randomization and no distance-based choice; changing this policy would
// silently change which structures the run produces). The hydrogen goes at
// the oxygen position plus the PlacementDirection of its neighborhood scaled
// by bondLength. Because every insertion appends to the working copy, the
// hydrogen placed at iteration i is seen by the availability test and the
// neighbor search of iteration i+1; the loop is inherently sequential.
//
// Running out of available oxygens is not an error: the iteration is
// recorded as a skipped Placement and the remaining iterations still run.
// A realized bond length off the target by more than BondLengthTol is
// recorded on the outcome but the insertion is kept. One Placement is
// returned per attempted insertion, in order.
func AddProtons(s *Structure, nProtons int, bondLength, neighborCutoff float64) (*Structure, []Placement, error) {
	if s == nil {
		return nil, nil, CError{"supplied a nil Structure", []string{"AddProtons"}}
	}
	if bondLength <= 0 || neighborCutoff <= 0 {
		return nil, nil, CError{"bond length and neighbor cutoff must be positive", []string{"AddProtons"}}
	}
	w := s.Copy()
	outcomes := make([]Placement, 0, nProtons)
	for i := 1; i <= nProtons; i++ {
		avail := availableOxygens(w)
		if len(avail) == 0 {
			outcomes = append(outcomes, Placement{Proton: i, Placed: false, Oxygen: -1})
			continue
		}
		o := avail[0]
		neighbors := FindNeighbors(w, o, neighborCutoff)
		dir := PlacementDirection(neighbors, maxDirNeighbors)
		hpos := w.Site(o).Pos.Add(dir.Scale(bondLength))
		w.AppendSite(Site{Symbol: "H", Pos: hpos})
		//recompute under minimum image: for a host oxygen near the cell
		//boundary the realized distance can differ from bondLength.
		realized := w.Distance(w.Len()-1, o)
		outcomes = append(outcomes, Placement{
			Proton:     i,
			Placed:     true,
			Oxygen:     o,
			Pos:        hpos,
			BondLength: realized,
			WithinTol:  math.Abs(realized-bondLength) <= BondLengthTol,
		})
	}
	return w, outcomes, nil
}

//availableOxygens returns, in index order, the oxygens with no hydrogen
//within ProtonatedCutoff (minimum image).
func availableOxygens(s *Structure) []int {
	hydrogens := s.Indices("H")
	var avail []int
	for _, o := range s.Indices("O") {
		free := true
		for _, h := range hydrogens {
			if s.Distance(o, h) < ProtonatedCutoff {
				free = false
				break
			}
		}
		if free {
			avail = append(avail, o)
		}
	}
	return avail
}

// OHBond is a bonded oxygen-hydrogen pair and its minimum-image distance.
type OHBond struct {
	Oxygen   int
	Hydrogen int
	Dist     float64
}

// OHBonds returns every O-H pair of s with a minimum-image distance of at
// most tol, in (oxygen, hydrogen) index order. Used to verify protonated
// structures after relaxation.
func OHBonds(s *Structure, tol float64) []OHBond {
	var bonds []OHBond
	hydrogens := s.Indices("H")
	for _, o := range s.Indices("O") {
		for _, h := range hydrogens {
			if d := s.Distance(o, h); d <= tol {
				bonds = append(bonds, OHBond{Oxygen: o, Hydrogen: h, Dist: d})
			}
		}
	}
	return bonds
}

// OxygenContact pairs a hydrogen with its closest oxygen by plain cartesian
// distance.
type OxygenContact struct {
	Hydrogen int
	Oxygen   int
	Dist     float64
}

// ClosestOxygens reports, for every hydrogen of s, the closest oxygen and
// its distance. Note that unlike OHBonds and the placement loop this scan
// deliberately ignores periodicity, so for atoms near the cell boundary the
// reported pair can differ from the minimum-image one. It is a human
// verification aid, not an input to any placement decision. Returns nil if
// the structure has no oxygen.
func ClosestOxygens(s *Structure) []OxygenContact {
	oxygens := s.Indices("O")
	if len(oxygens) == 0 {
		return nil
	}
	var contacts []OxygenContact
	for _, h := range s.Indices("H") {
		best := oxygens[0]
		bestd := s.PlainDistance(h, oxygens[0])
		for _, o := range oxygens[1:] {
			if d := s.PlainDistance(h, o); d < bestd {
				best = o
				bestd = d
			}
		}
		contacts = append(contacts, OxygenContact{Hydrogen: h, Oxygen: best, Dist: bestd})
	}
	return contacts
}
