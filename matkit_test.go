/*
 * matkit_test.go, part of matkit.
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
	"testing"
)

func cubicLattice(Te *testing.T, a float64) *Lattice {
	lat, err := NewLattice(Vec{a, 0, 0}, Vec{0, a, 0}, Vec{0, 0, a})
	if err != nil {
		Te.Fatal(err)
	}
	return lat
}

func TestMinImage(Te *testing.T) {
	lat := cubicLattice(Te, 4.0)
	d := lat.MinImageDistance(Vec{0.5, 0, 0}, Vec{3.9, 0, 0})
	if math.Abs(d-0.6) > 1e-10 {
		Te.Errorf("minimum-image distance across the boundary: got %v, want 0.6", d)
	}
	//inside the cell the image correction must do nothing
	d = lat.MinImageDistance(Vec{1, 1, 1}, Vec{2, 1, 1})
	if math.Abs(d-1.0) > 1e-10 {
		Te.Errorf("got %v, want 1.0", d)
	}
}

func TestLatticeParamsRoundTrip(Te *testing.T) {
	lat, err := NewLatticeFromParams(4.2, 4.2, 4.2, 90, 90, 90)
	if err != nil {
		Te.Fatal(err)
	}
	a, b, c, al, be, ga := lat.Params()
	for _, pair := range [][2]float64{{a, 4.2}, {b, 4.2}, {c, 4.2}, {al, 90}, {be, 90}, {ga, 90}} {
		if math.Abs(pair[0]-pair[1]) > 1e-9 {
			Te.Errorf("cell parameter: got %v, want %v", pair[0], pair[1])
		}
	}
	if math.Abs(lat.Volume()-4.2*4.2*4.2) > 1e-9 {
		Te.Errorf("wrong volume %v", lat.Volume())
	}
}

func TestFracCart(Te *testing.T) {
	lat, err := NewLatticeFromParams(5, 6, 7, 80, 95, 100)
	if err != nil {
		Te.Fatal(err)
	}
	p := Vec{1.3, -0.2, 2.9}
	q := lat.Cart(lat.Frac(p))
	if q.Sub(p).Norm() > 1e-9 {
		Te.Errorf("frac/cart round trip moved %v to %v", p, q)
	}
}

func TestSupercell(Te *testing.T) {
	lat := cubicLattice(Te, 4.0)
	s, err := NewStructure(lat, []Site{
		{"Ba", Vec{0, 0, 0}},
		{"Zr", Vec{2, 2, 2}},
		{"O", Vec{2, 2, 0}},
		{"O", Vec{2, 0, 2}},
		{"O", Vec{0, 2, 2}},
	})
	if err != nil {
		Te.Fatal(err)
	}
	big, err := s.Supercell(2, 2, 2)
	if err != nil {
		Te.Fatal(err)
	}
	if big.Len() != 40 {
		Te.Errorf("2x2x2 supercell of 5 sites has %d sites", big.Len())
	}
	if f := big.ReducedFormula(); f != "BaZrO3" {
		Te.Errorf("supercell formula %s, want BaZrO3", f)
	}
	if v := big.Lattice().Volume(); math.Abs(v-8*64.0) > 1e-9 {
		Te.Errorf("supercell volume %v", v)
	}
	if _, err := s.Supercell(0, 1, 1); err == nil {
		Te.Error("expected an error for a zero multiplier")
	}
}

func TestReducedFormula(Te *testing.T) {
	comp, err := ParseFormula("Ba8Zr8O24")
	if err != nil {
		Te.Fatal(err)
	}
	if f := ReducedFormula(comp); f != "BaZrO3" {
		Te.Errorf("got %s, want BaZrO3", f)
	}
	comp, err = ParseFormula("O1H2") //electronegativity must win over input order
	if err != nil {
		Te.Fatal(err)
	}
	if f := ReducedFormula(comp); f != "H2O" {
		Te.Errorf("got %s, want H2O", f)
	}
	//molecular gases keep their conventional formula
	if f := ReducedFormula(map[string]int{"O": 2}); f != "O2" {
		Te.Errorf("got %s, want O2", f)
	}
	if f := ReducedFormula(map[string]int{"H": 4, "O": 4}); f != "H2O2" {
		Te.Errorf("got %s, want H2O2", f)
	}
	if _, err := ParseFormula("ba8"); err == nil {
		Te.Error("expected an error for a lowercase start")
	}
	if _, err := ParseFormula(""); err == nil {
		Te.Error("expected an error for an empty formula")
	}
	if n := NumAtoms(map[string]int{"Ba": 8, "Zr": 8, "O": 24}); n != 40 {
		Te.Errorf("NumAtoms got %d", n)
	}
}
