/*
 * cif_test.go, part of matkit.
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

package cif

import (
	"bytes"
	"strings"
	"testing"

	"github.com/CodersheepY/matkit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const bazro3P1 = `# BaZrO3 cubic perovskite
data_BaZrO3
_symmetry_space_group_name_H-M   'P 1'
_cell_length_a   4.19678000
_cell_length_b   4.19678000
_cell_length_c   4.19678000
_cell_angle_alpha   90.00000000
_cell_angle_beta   90.00000000
_cell_angle_gamma   90.00000000
_chemical_formula_structural   BaZrO3
_chemical_formula_sum   'Ba1 O3 Zr1'
loop_
 _symmetry_equiv_pos_site_id
 _symmetry_equiv_pos_as_xyz
  1  'x, y, z'
loop_
 _atom_site_type_symbol
 _atom_site_label
 _atom_site_fract_x
 _atom_site_fract_y
 _atom_site_fract_z
 _atom_site_occupancy
  Ba  Ba1  0.00000000  0.00000000  0.00000000  1
  Zr  Zr1  0.50000000  0.50000000  0.50000000  1
  O  O1  0.50000000  0.50000000  0.00000000  1
  O  O2  0.50000000  0.00000000  0.50000000  1
  O  O3  0.00000000  0.50000000  0.50000000  1
`

func TestReadP1(t *testing.T) {
	s, err := Read(strings.NewReader(bazro3P1))
	require.NoError(t, err)
	require.Equal(t, 5, s.Len())
	assert.Equal(t, "BaZrO3", s.ReducedFormula())
	assert.Equal(t, "Ba", s.Site(0).Symbol)
	//Zr sits at the cell center
	zr := s.Site(1).Pos
	assert.InDelta(t, 4.19678/2, zr[0], 1e-8)
	assert.InDelta(t, 4.19678/2, zr[1], 1e-8)
	assert.InDelta(t, 4.19678/2, zr[2], 1e-8)
	//Zr-O distance is a/2
	assert.InDelta(t, 4.19678/2, s.Distance(1, 2), 1e-8)
}

func TestReadSymmetryExpansion(t *testing.T) {
	//a body-centered cell given as one site plus a centering operation
	const bcc = `data_Fe
_cell_length_a 2.86
_cell_length_b 2.86
_cell_length_c 2.86
_cell_angle_alpha 90
_cell_angle_beta 90
_cell_angle_gamma 90
loop_
_symmetry_equiv_pos_as_xyz
'x, y, z'
'x+1/2, y+1/2, z+1/2'
loop_
_atom_site_label
_atom_site_fract_x
_atom_site_fract_y
_atom_site_fract_z
Fe1 0.0 0.0 0.0
`
	s, err := Read(strings.NewReader(bcc))
	require.NoError(t, err)
	require.Equal(t, 2, s.Len())
	f := s.Lattice().Frac(s.Site(1).Pos)
	assert.InDelta(t, 0.5, f[0], 1e-8)
	assert.InDelta(t, 0.5, f[1], 1e-8)
	assert.InDelta(t, 0.5, f[2], 1e-8)
}

func TestReadDeduplicatesEquivalentPositions(t *testing.T) {
	//an op that maps the origin onto itself must not duplicate the site
	const dup = `data_x
_cell_length_a 4
_cell_length_b 4
_cell_length_c 4
_cell_angle_alpha 90
_cell_angle_beta 90
_cell_angle_gamma 90
loop_
_symmetry_equiv_pos_as_xyz
'x, y, z'
'-x, -y, -z'
loop_
_atom_site_label
_atom_site_fract_x
_atom_site_fract_y
_atom_site_fract_z
Mg1 0.0 0.0 0.0
O1 0.25 0.25 0.25
`
	s, err := Read(strings.NewReader(dup))
	require.NoError(t, err)
	//Mg is invariant under inversion, O is not
	assert.Equal(t, 1, len(s.Indices("Mg")))
	assert.Equal(t, 2, len(s.Indices("O")))
}

func TestRoundTrip(t *testing.T) {
	s, err := Read(strings.NewReader(bazro3P1))
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, s))
	s2, err := Read(&buf)
	require.NoError(t, err)
	require.Equal(t, s.Len(), s2.Len())
	for i := 0; i < s.Len(); i++ {
		assert.Equal(t, s.Site(i).Symbol, s2.Site(i).Symbol, "site %d", i)
		assert.InDelta(t, 0, s.Site(i).Pos.Sub(s2.Site(i).Pos).Norm(), 1e-6, "site %d", i)
	}
}

func TestReadErrors(t *testing.T) {
	_, err := Read(strings.NewReader("data_x\n_cell_length_a 4\n"))
	assert.Error(t, err, "missing cell parameters")
	const nosites = `data_x
_cell_length_a 4
_cell_length_b 4
_cell_length_c 4
_cell_angle_alpha 90
_cell_angle_beta 90
_cell_angle_gamma 90
`
	_, err = Read(strings.NewReader(nosites))
	assert.Error(t, err, "no atom sites")
}

func TestParseSymOp(t *testing.T) {
	op, err := parseSymOp("-y, x-y, z+1/2")
	require.NoError(t, err)
	got := op.apply(matkit.Vec{0.1, 0.2, 0.3})
	assert.InDelta(t, -0.2, got[0], 1e-12)
	assert.InDelta(t, -0.1, got[1], 1e-12)
	assert.InDelta(t, 0.8, got[2], 1e-12)

	op, err = parseSymOp("1/2+x, 0.5-z, y")
	require.NoError(t, err)
	got = op.apply(matkit.Vec{0.1, 0.2, 0.3})
	assert.InDelta(t, 0.6, got[0], 1e-12)
	assert.InDelta(t, 0.2, got[1], 1e-12)
	assert.InDelta(t, 0.2, got[2], 1e-12)

	_, err = parseSymOp("x, y")
	assert.Error(t, err)
	_, err = parseSymOp("x, y, q")
	assert.Error(t, err)
}

func TestNumericWithUncertainty(t *testing.T) {
	v, err := parseNumeric("4.1967(24)")
	require.NoError(t, err)
	assert.InDelta(t, 4.1967, v, 1e-12)
}
