/*
 * atomicdata.go, part of matkit.
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

//A map for assigning mass (in Daltons) to elements. Only the elements that
//show up in the oxide/perovskite systems this module targets are present,
//plus the usual light elements.
var symbolMass = map[string]float64{
	"H":  1.008,
	"C":  12.011,
	"N":  14.007,
	"O":  15.999,
	"F":  18.998,
	"Na": 22.990,
	"Mg": 24.305,
	"Al": 26.982,
	"Si": 28.085,
	"P":  30.974,
	"S":  32.06,
	"Cl": 35.45,
	"K":  39.098,
	"Ca": 40.078,
	"Sc": 44.956,
	"Ti": 47.867,
	"V":  50.942,
	"Cr": 51.996,
	"Mn": 54.938,
	"Fe": 55.845,
	"Co": 58.933,
	"Ni": 58.693,
	"Cu": 63.546,
	"Zn": 65.38,
	"Ga": 69.723,
	"Ge": 72.630,
	"Sr": 87.62,
	"Y":  88.906,
	"Zr": 91.224,
	"Nb": 92.906,
	"Mo": 95.95,
	"In": 114.82,
	"Sn": 118.71,
	"Ba": 137.33,
	"La": 138.91,
	"Ce": 140.12,
	"Gd": 157.25,
	"Yb": 173.05,
	"Hf": 178.49,
	"Ta": 180.95,
	"W":  183.84,
	"Pb": 207.2,
	"Bi": 208.98,
}

//Pauling electronegativities, used to order elements in reduced formulas
//(electropositive first, so e.g. BaZrO3, not O3ZrBa).
var symbolElectroneg = map[string]float64{
	"H":  2.20,
	"C":  2.55,
	"N":  3.04,
	"O":  3.44,
	"F":  3.98,
	"Na": 0.93,
	"Mg": 1.31,
	"Al": 1.61,
	"Si": 1.90,
	"P":  2.19,
	"S":  2.58,
	"Cl": 3.16,
	"K":  0.82,
	"Ca": 1.00,
	"Sc": 1.36,
	"Ti": 1.54,
	"V":  1.63,
	"Cr": 1.66,
	"Mn": 1.55,
	"Fe": 1.83,
	"Co": 1.88,
	"Ni": 1.91,
	"Cu": 1.90,
	"Zn": 1.65,
	"Ga": 1.81,
	"Ge": 2.01,
	"Sr": 0.95,
	"Y":  1.22,
	"Zr": 1.33,
	"Nb": 1.60,
	"Mo": 2.16,
	"In": 1.78,
	"Sn": 1.96,
	"Ba": 0.89,
	"La": 1.10,
	"Ce": 1.12,
	"Gd": 1.20,
	"Yb": 1.10,
	"Hf": 1.30,
	"Ta": 1.50,
	"W":  2.36,
	"Pb": 2.33,
	"Bi": 2.02,
}

// SymbolMass returns the atomic mass for the element symbol, or 0 if the
// element is not in the internal table.
func SymbolMass(symbol string) float64 {
	return symbolMass[symbol]
}
