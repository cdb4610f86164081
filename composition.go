/*
 * composition.go, part of matkit.
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
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ParseFormula parses a plain chemical formula such as "Ba8Zr8O24" or "H2O"
// into a map from element symbol to count. Parentheses and fractional
// amounts are not supported.
func ParseFormula(formula string) (map[string]int, error) {
	comp := make(map[string]int)
	i := 0
	for i < len(formula) {
		c := formula[i]
		if c < 'A' || c > 'Z' {
			return nil, CError{fmt.Sprintf("malformed formula %q at position %d", formula, i), []string{"ParseFormula"}}
		}
		j := i + 1
		for j < len(formula) && formula[j] >= 'a' && formula[j] <= 'z' {
			j++
		}
		symbol := formula[i:j]
		k := j
		for k < len(formula) && formula[k] >= '0' && formula[k] <= '9' {
			k++
		}
		n := 1
		if k > j {
			var err error
			n, err = strconv.Atoi(formula[j:k])
			if err != nil || n <= 0 {
				return nil, CError{fmt.Sprintf("malformed count in formula %q", formula), []string{"ParseFormula"}}
			}
		}
		comp[symbol] += n
		i = k
	}
	if len(comp) == 0 {
		return nil, CError{"empty formula", []string{"ParseFormula"}}
	}
	return comp, nil
}

//molecular species whose conventional formula is not the fully reduced
//one: O2 stays O2, hydrogen peroxide stays H2O2.
var specialFormulas = map[string]string{
	"H":  "H2",
	"N":  "N2",
	"O":  "O2",
	"F":  "F2",
	"Cl": "Cl2",
	"HO": "H2O2",
	"CN": "C2N2",
}

// ReducedFormula returns the reduced formula for a composition: counts are
// divided by their greatest common divisor and elements are ordered by
// increasing electronegativity (electropositive species first), with ties
// and unknown elements broken alphabetically. A count of 1 is omitted.
// Diatomic gases and peroxides keep their conventional molecular formula.
func ReducedFormula(comp map[string]int) string {
	if len(comp) == 0 {
		return ""
	}
	div := 0
	for _, n := range comp {
		div = gcd(div, n)
	}
	symbols := make([]string, 0, len(comp))
	for s := range comp {
		symbols = append(symbols, s)
	}
	sort.Slice(symbols, func(i, j int) bool {
		ei, oki := symbolElectroneg[symbols[i]]
		ej, okj := symbolElectroneg[symbols[j]]
		if oki && okj && ei != ej {
			return ei < ej
		}
		if oki != okj { //known elements before unknown ones
			return oki
		}
		return symbols[i] < symbols[j]
	})
	var b strings.Builder
	for _, s := range symbols {
		b.WriteString(s)
		if n := comp[s] / div; n > 1 {
			b.WriteString(strconv.Itoa(n))
		}
	}
	if conv, ok := specialFormulas[b.String()]; ok {
		return conv
	}
	return b.String()
}

// NumAtoms returns the total number of atoms in a composition.
func NumAtoms(comp map[string]int) int {
	tot := 0
	for _, n := range comp {
		tot += n
	}
	return tot
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	if a < 0 {
		return -a
	}
	return a
}
