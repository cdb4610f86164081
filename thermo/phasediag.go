/*
 * phasediag.go, part of matkit.
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
	"sort"

	"github.com/CodersheepY/matkit"
)

// Entry is one phase competing in a diagram: a formula and its total
// energy in eV (not per atom).
type Entry struct {
	Formula string
	Energy  float64
}

// EnergyPerAtom is the total energy divided by the full atom count of the
// formula, open elements included.
func (e Entry) EnergyPerAtom() (float64, error) {
	comp, err := matkit.ParseFormula(e.Formula)
	if err != nil {
		return 0, err
	}
	n := matkit.NumAtoms(comp)
	if n == 0 {
		return 0, fmt.Errorf("thermo: empty formula %q", e.Formula)
	}
	return e.Energy / float64(n), nil
}

// Condition is a gas atmosphere the stability analysis is run under: the
// chemical potentials of the open (gas-reservoir) elements, the molecular
// entries pinned to those potentials, and the gas species to strip from any
// externally fetched entry set before they shadow the pinned ones.
type Condition struct {
	Name        string
	Description string
	ChemPots    map[string]float64
	GasEntries  []Entry
	Eliminate   []string
}

// ConditionA is a hydrogen-rich (reducing, humid) atmosphere.
func ConditionA() Condition {
	return gasCondition("A", "hydrogen-rich", -4.024, -8.006)
}

// ConditionC is an oxygen-rich (oxidizing) atmosphere.
func ConditionC() Condition {
	return gasCondition("C", "oxygen-rich", -4.997, -6.166)
}

// ConditionX is a CO2-rich atmosphere, the relevant one for carbonate
// degradation of Ba-containing electrolytes.
func ConditionX() Condition {
	eO, eC := -6.166, -20.232
	return Condition{
		Name:        "X",
		Description: "CO2-rich",
		ChemPots:    map[string]float64{"O": eO, "C": eC},
		GasEntries: []Entry{
			{Formula: "O2", Energy: 2 * eO},
			{Formula: "CO", Energy: eC},
			{Formula: "CO2", Energy: -25.556},
		},
		Eliminate: []string{"CO", "CO2", "O2"},
	}
}

// Conditions returns the three standard atmospheres in their usual order.
func Conditions() []Condition {
	return []Condition{ConditionA(), ConditionC(), ConditionX()}
}

func gasCondition(name, desc string, eH, eO float64) Condition {
	return Condition{
		Name:        name,
		Description: desc,
		ChemPots:    map[string]float64{"H": eH, "O": eO},
		GasEntries: []Entry{
			{Formula: "H2", Energy: 2 * eH},
			{Formula: "O2", Energy: 2 * eO},
			{Formula: "H2O", Energy: 2*eH + eO},
		},
		Eliminate: []string{"H2", "O2", "H2O"},
	}
}

// FilterEliminated drops entries whose reduced formula is on the condition's
// eliminate list. Fetched databases carry their own gas phases; those must
// not compete with the entries pinned to the atmosphere.
func (c Condition) FilterEliminated(entries []Entry) []Entry {
	banned := make(map[string]bool, len(c.Eliminate))
	for _, f := range c.Eliminate {
		banned[f] = true
	}
	var out []Entry
	for _, e := range entries {
		comp, err := matkit.ParseFormula(e.Formula)
		if err != nil || !banned[matkit.ReducedFormula(comp)] {
			out = append(out, e)
		}
	}
	return out
}

//gpEntry is an entry after the grand-potential transformation: open
//elements removed from the composition, their chemical-potential cost
//removed from the energy.
type gpEntry struct {
	entry  Entry
	comp   map[string]int
	natoms int
	energy float64 //grand potential, eV
	x      float64 //fraction of the second closed element
	eform  float64 //formation energy per closed atom
	stable bool
}

// GrandPotential is a phase diagram at fixed chemical potentials of the
// open elements. The remaining closed system may have one or two elements;
// richer systems need a higher-dimensional hull and are rejected.
type GrandPotential struct {
	open    map[string]float64
	elems   []string //closed elements, sorted
	entries []gpEntry
	refs    map[string]float64 //elemental reference energy per atom
	hull    []gpEntry          //lower hull, by increasing x
}

// NewGrandPotential builds the diagram from competing entries and the open
// chemical potentials. Entries made of open elements only drop out (they are
// pure reservoir). Every closed element must have an elemental entry to
// serve as the formation-energy reference.
func NewGrandPotential(entries []Entry, chempots map[string]float64) (*GrandPotential, error) {
	pd := &GrandPotential{open: chempots, refs: make(map[string]float64)}
	elemSet := make(map[string]bool)
	for _, e := range entries {
		ge, err := pd.transform(e)
		if err != nil {
			return nil, err
		}
		if ge == nil { //all-open entry
			continue
		}
		for el := range ge.comp {
			elemSet[el] = true
		}
		pd.entries = append(pd.entries, *ge)
	}
	if len(elemSet) == 0 {
		return nil, fmt.Errorf("thermo: no closed elements left after opening %v", keys(chempots))
	}
	if len(elemSet) > 2 {
		return nil, fmt.Errorf("thermo: %d closed elements %v; at most 2 supported", len(elemSet), keys(elemSet))
	}
	for el := range elemSet {
		pd.elems = append(pd.elems, el)
	}
	sort.Strings(pd.elems)
	if err := pd.findReferences(); err != nil {
		return nil, err
	}
	for i := range pd.entries {
		ge := &pd.entries[i]
		ge.x = pd.fraction(ge.comp, ge.natoms)
		ge.eform = pd.formation(ge)
	}
	pd.buildHull()
	return pd, nil
}

//transform applies the grand-potential transformation. A nil result with no
//error means the entry contained open elements only.
func (pd *GrandPotential) transform(e Entry) (*gpEntry, error) {
	comp, err := matkit.ParseFormula(e.Formula)
	if err != nil {
		return nil, fmt.Errorf("thermo: %w", err)
	}
	ge := &gpEntry{entry: e, comp: make(map[string]int), energy: e.Energy}
	for el, n := range comp {
		if mu, ok := pd.open[el]; ok {
			ge.energy -= mu * float64(n)
			continue
		}
		ge.comp[el] = n
		ge.natoms += n
	}
	if ge.natoms == 0 {
		return nil, nil
	}
	return ge, nil
}

func (pd *GrandPotential) findReferences() error {
	for _, ge := range pd.entries {
		if len(ge.comp) != 1 {
			continue
		}
		for el := range ge.comp {
			epa := ge.energy / float64(ge.natoms)
			if cur, ok := pd.refs[el]; !ok || epa < cur {
				pd.refs[el] = epa
			}
		}
	}
	for _, el := range pd.elems {
		if _, ok := pd.refs[el]; !ok {
			return fmt.Errorf("thermo: no elemental reference entry for %s", el)
		}
	}
	return nil
}

//fraction maps a composition to its hull coordinate: the atomic fraction of
//the second closed element (always 0 in a one-element system).
func (pd *GrandPotential) fraction(comp map[string]int, natoms int) float64 {
	if len(pd.elems) < 2 {
		return 0
	}
	return float64(comp[pd.elems[1]]) / float64(natoms)
}

func (pd *GrandPotential) formation(ge *gpEntry) float64 {
	e := ge.energy
	for el, n := range ge.comp {
		e -= pd.refs[el] * float64(n)
	}
	return e / float64(ge.natoms)
}

//buildHull computes the lower convex hull of the (x, eform) points by
//monotone chain. With one closed element the hull is the single lowest
//point. Only the lowest point at each x participates.
func (pd *GrandPotential) buildHull() {
	lowest := make(map[float64]int)
	for i, ge := range pd.entries {
		if j, ok := lowest[ge.x]; !ok || ge.eform < pd.entries[j].eform {
			lowest[ge.x] = i
		}
	}
	pts := make([]int, 0, len(lowest))
	for _, i := range lowest {
		pts = append(pts, i)
	}
	sort.Slice(pts, func(a, b int) bool { return pd.entries[pts[a]].x < pd.entries[pts[b]].x })
	var hull []int
	for _, i := range pts {
		for len(hull) >= 2 {
			a, b := pd.entries[hull[len(hull)-2]], pd.entries[hull[len(hull)-1]]
			c := pd.entries[i]
			//drop b when it lies on or above the a-c segment
			if (b.x-a.x)*(c.eform-a.eform)-(c.x-a.x)*(b.eform-a.eform) <= 0 {
				hull = hull[:len(hull)-1]
				continue
			}
			break
		}
		hull = append(hull, i)
	}
	for _, i := range hull {
		pd.entries[i].stable = true
		pd.hull = append(pd.hull, pd.entries[i])
	}
}

//hullEnergy interpolates the hull at coordinate x.
func (pd *GrandPotential) hullEnergy(x float64) float64 {
	h := pd.hull
	if len(h) == 1 || x <= h[0].x {
		return h[0].eform
	}
	for i := 1; i < len(h); i++ {
		if x <= h[i].x {
			t := (x - h[i-1].x) / (h[i].x - h[i-1].x)
			return h[i-1].eform + t*(h[i].eform-h[i-1].eform)
		}
	}
	return h[len(h)-1].eform
}

// Elements returns the closed elements of the diagram.
func (pd *GrandPotential) Elements() []string {
	out := make([]string, len(pd.elems))
	copy(out, pd.elems)
	return out
}

// Stable returns the entries on the hull, by increasing composition
// coordinate.
func (pd *GrandPotential) Stable() []Entry {
	out := make([]Entry, len(pd.hull))
	for i, ge := range pd.hull {
		out[i] = ge.entry
	}
	return out
}

// FormationEnergyPerAtom returns the grand-potential formation energy of e
// per closed atom, relative to the stable elemental references.
func (pd *GrandPotential) FormationEnergyPerAtom(e Entry) (float64, error) {
	ge, err := pd.transform(e)
	if err != nil {
		return 0, err
	}
	if ge == nil {
		return 0, fmt.Errorf("thermo: %s consists of open elements only", e.Formula)
	}
	for el := range ge.comp {
		if _, ok := pd.refs[el]; !ok {
			return 0, fmt.Errorf("thermo: element %s not in this diagram", el)
		}
	}
	return pd.formation(ge), nil
}

// EAboveHull returns the energy of e above the convex hull, per closed
// atom. Zero means e is stable under this atmosphere.
func (pd *GrandPotential) EAboveHull(e Entry) (float64, error) {
	ge, err := pd.transform(e)
	if err != nil {
		return 0, err
	}
	if ge == nil {
		return 0, fmt.Errorf("thermo: %s consists of open elements only", e.Formula)
	}
	for el := range ge.comp {
		if _, ok := pd.refs[el]; !ok {
			return 0, fmt.Errorf("thermo: element %s not in this diagram", el)
		}
	}
	eform := pd.formation(ge)
	return eform - pd.hullEnergy(pd.fraction(ge.comp, ge.natoms)), nil
}

func keys[M ~map[string]V, V any](m M) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
