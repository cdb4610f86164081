/*
 * thermo_test.go, part of matkit.
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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defectFixture() *DefectInputs {
	return &DefectInputs{
		EPristine:   -333.79931146,
		EVacancy:    -323.80019188,
		EProtonated: -336.11878880,
		EH2O:        -14.891,
		EH2:         -6.715,
		EO2:         -9.896,
		ZPEH2O:      0.0242,
		ZPEH2:       0.0117,
		ZPEO2:       0.0043,
	}
}

func TestDefectEnergies(t *testing.T) {
	out := defectFixture().Energies()
	assert.InDelta(t, -6.431, out.EO2Corr, 1e-9)
	assert.InDelta(t, 6.78361958, out.VacancyFormation, 1e-8)
	assert.InDelta(t, 3.43809766, out.OHFormation, 1e-8)
	assert.InDelta(t, 0.22872574, out.Hydration, 1e-8)
}

func TestLoadDefectInputs(t *testing.T) {
	const doc = `e_pristine: -333.79931146
e_vacancy: -323.80019188
e_oh: -336.11878880
e_h2o: -14.891
e_h2: -6.715
e_o2: -9.896
zpe_h2o: 0.0242
zpe_h2: 0.0117
zpe_o2: 0.0043
`
	path := filepath.Join(t.TempDir(), "defect.yaml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
	in, err := LoadDefectInputs(path)
	require.NoError(t, err)
	assert.Equal(t, defectFixture(), in)
}

func TestLoadDefectInputsMissingKey(t *testing.T) {
	const doc = `e_pristine: -333.8
e_vacancy: -323.8
e_h2o: -14.891
e_h2: -6.715
e_o2: -9.896
`
	path := filepath.Join(t.TempDir(), "defect.yaml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
	_, err := LoadDefectInputs(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "e_oh")
}

func TestGasConditions(t *testing.T) {
	a := ConditionA()
	require.Len(t, a.GasEntries, 3)
	assert.InDelta(t, -8.048, a.GasEntries[0].Energy, 1e-12)  //H2
	assert.InDelta(t, -16.012, a.GasEntries[1].Energy, 1e-12) //O2
	assert.InDelta(t, -16.054, a.GasEntries[2].Energy, 1e-12) //H2O
	assert.Equal(t, []string{"H2", "O2", "H2O"}, a.Eliminate)

	c := ConditionC()
	assert.InDelta(t, -4.997, c.ChemPots["H"], 1e-12)
	assert.InDelta(t, -6.166, c.ChemPots["O"], 1e-12)

	x := ConditionX()
	assert.InDelta(t, -20.232, x.ChemPots["C"], 1e-12)
	assert.InDelta(t, -25.556, x.GasEntries[2].Energy, 1e-12) //CO2
	assert.Equal(t, []string{"CO", "CO2", "O2"}, x.Eliminate)
}

func TestFilterEliminated(t *testing.T) {
	entries := []Entry{
		{Formula: "BaZrO3", Energy: -40},
		{Formula: "H4O2", Energy: -30}, //reduces to H2O
		{Formula: "O2", Energy: -16},
		{Formula: "BaO", Energy: -12},
	}
	out := ConditionA().FilterEliminated(entries)
	require.Len(t, out, 2)
	assert.Equal(t, "BaZrO3", out[0].Formula)
	assert.Equal(t, "BaO", out[1].Formula)
}

//a synthetic Ba-Zr diagram with oxygen open at -8 eV: Ba and Zr sit at the
//hull ends, BaZrO4 is stable in the middle, BaZrO3 floats above the hull.
func testDiagram(t *testing.T) *GrandPotential {
	t.Helper()
	entries := []Entry{
		{Formula: "O2", Energy: -16.0}, //pure reservoir, drops out
		{Formula: "Ba", Energy: -2.0},
		{Formula: "Zr", Energy: -8.0},
		{Formula: "BaZrO4", Energy: -45.0},
		{Formula: "BaZrO3", Energy: -30.0},
	}
	pd, err := NewGrandPotential(entries, map[string]float64{"O": -8.0})
	require.NoError(t, err)
	return pd
}

func TestGrandPotentialHull(t *testing.T) {
	pd := testDiagram(t)
	assert.Equal(t, []string{"Ba", "Zr"}, pd.Elements())
	stable := pd.Stable()
	require.Len(t, stable, 3)
	assert.Equal(t, "Ba", stable[0].Formula)
	assert.Equal(t, "BaZrO4", stable[1].Formula)
	assert.Equal(t, "Zr", stable[2].Formula)
}

func TestGrandPotentialEnergies(t *testing.T) {
	pd := testDiagram(t)

	//BaZrO4: grand energy -45 + 4*8 = -13 over 2 closed atoms,
	//references Ba -2 and Zr -8
	ef, err := pd.FormationEnergyPerAtom(Entry{Formula: "BaZrO4", Energy: -45.0})
	require.NoError(t, err)
	assert.InDelta(t, -1.5, ef, 1e-12)

	ef, err = pd.FormationEnergyPerAtom(Entry{Formula: "BaZrO3", Energy: -30.0})
	require.NoError(t, err)
	assert.InDelta(t, 2.0, ef, 1e-12)

	hull, err := pd.EAboveHull(Entry{Formula: "BaZrO3", Energy: -30.0})
	require.NoError(t, err)
	assert.InDelta(t, 3.5, hull, 1e-12)

	hull, err = pd.EAboveHull(Entry{Formula: "BaZrO4", Energy: -45.0})
	require.NoError(t, err)
	assert.InDelta(t, 0.0, hull, 1e-12)

	epa, err := Entry{Formula: "BaZrO3", Energy: -30.0}.EnergyPerAtom()
	require.NoError(t, err)
	assert.InDelta(t, -6.0, epa, 1e-12)
}

func TestGrandPotentialErrors(t *testing.T) {
	//an all-open query has no place on the diagram
	pd := testDiagram(t)
	_, err := pd.FormationEnergyPerAtom(Entry{Formula: "O2", Energy: -16.0})
	assert.Error(t, err)

	//three closed elements need a hull we don't build
	_, err = NewGrandPotential([]Entry{
		{Formula: "Ba", Energy: -2},
		{Formula: "Zr", Energy: -8},
		{Formula: "Ti", Energy: -7},
	}, map[string]float64{"O": -8.0})
	assert.Error(t, err)

	//no elemental reference for Zr
	_, err = NewGrandPotential([]Entry{
		{Formula: "Ba", Energy: -2},
		{Formula: "BaZrO3", Energy: -30},
	}, map[string]float64{"O": -8.0})
	assert.Error(t, err)
}

func TestPlotHull(t *testing.T) {
	pd := testDiagram(t)
	path := filepath.Join(t.TempDir(), "hull") //extension gets appended
	require.NoError(t, PlotHull(pd, "Ba-Zr, open O", path))
	_, err := os.Stat(path + ".png")
	assert.NoError(t, err)
}

func TestWriteDefectReport(t *testing.T) {
	in := defectFixture()
	path := filepath.Join(t.TempDir(), "defect.xlsx")
	require.NoError(t, WriteDefectReport(path, in, in.Energies()))
	_, err := os.Stat(path)
	assert.NoError(t, err)
}
