/*
 * doc.go, part of matkit.
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

/*
Package matkit provides periodic crystal structures and the geometric
operations needed to prepare them for electronic-structure calculations:
cartesian/fractional conversion under a 3x3 lattice, minimum-image distances,
supercell expansion, composition handling, and a proton-insertion heuristic
for oxide proton conductors.

The structure model is deliberately small. A Structure is a Lattice plus an
ordered list of (symbol, cartesian position) sites; everything else in this
module (file formats, VASP parsing, thermodynamics, the Materials Project
client) consumes or produces Structures.

Subdirectories:

	cif       CIF reading and writing
	poscar    VASP POSCAR/CONTCAR reading and writing
	vasp      OUTCAR and vasprun.xml parsing, band gaps
	thermo    defect/hydration energetics and grand-potential phase diagrams
	mprest    Materials Project REST client
	vaspstore MongoDB persistence of parsed VASP results

As in other fundamental code of this kind, functions here panic on programming
errors (nil receivers, out-of-range indices) and return errors for everything
a caller can reasonably get wrong at run time.
*/
package matkit
