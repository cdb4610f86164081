/*
 * vasp_test.go, part of matkit.
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

package vasp

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const outcarFixture = ` vasp.6.3.0
   VRHFIN =Ba: 5s5p6s
   VRHFIN =Zr: 4s4p5s4d
   VRHFIN =O: s, p
   ions per type =               1   1   3
 some unrelated line
  FREE ENERGIE OF THE ION-ELECTRON SYSTEM (eV)
  free  energy   TOTEN  =      -100.00000000 eV

 POSITION                                       TOTAL-FORCE (eV/Angst)
 -----------------------------------------------------------------------------------
      0.00000      0.00000      0.00000         0.001000     -0.002000      0.003000
      2.09839      2.09839      2.09839        -0.001000      0.002000     -0.003000
      2.09839      2.09839      0.00000         0.000000      0.000000      0.000000
      2.09839      0.00000      2.09839         0.000000      0.000000      0.000000
      0.00000      2.09839      2.09839         0.000000      0.000000      0.000000
 -----------------------------------------------------------------------------------

  FORCE on cell =-STRESS in cart. coord.  units (eV):
  in kB      -12.30    -12.30    -12.30      0.40      0.00      0.00

  FREE ENERGIE OF THE ION-ELECTRON SYSTEM (eV)
  free  energy   TOTEN  =      -333.79931146 eV
`

func TestParseOutcar(t *testing.T) {
	o, err := ParseOutcar(strings.NewReader(outcarFixture))
	require.NoError(t, err)
	assert.Equal(t, []string{"Ba", "Zr", "O"}, o.Symbols)
	assert.Equal(t, []int{1, 1, 3}, o.IonsPerType)
	assert.Equal(t, 5, o.NIons())
	//the last TOTEN wins
	assert.InDelta(t, -333.79931146, o.Energy, 1e-10)
	require.Len(t, o.Forces, 5)
	assert.InDelta(t, -0.002, o.Forces[0][1], 1e-12)
	require.Len(t, o.StressKB, 6)
	assert.InDelta(t, -12.30, o.StressKB[0], 1e-12)
	assert.InDelta(t, -1.23, o.StressGPa()[0], 1e-12)
	assert.Equal(t, "BaZrO3", o.ReducedFormula())
}

func TestOutcarRecord(t *testing.T) {
	o, err := ParseOutcar(strings.NewReader(outcarFixture))
	require.NoError(t, err)
	rec := o.Record("runs/BaZrO3/OUTCAR")
	assert.Equal(t, "BaZrO3", rec.Material)
	assert.InDelta(t, -333.79931146, rec.EnergyEV, 1e-10)
	assert.Equal(t, "runs/BaZrO3/OUTCAR", rec.SourcePath)
	require.Len(t, rec.Forces, 5)
}

func TestParseOutcarErrors(t *testing.T) {
	//no species info at all
	_, err := ParseOutcar(strings.NewReader("free  energy   TOTEN  = -1.0 eV\n"))
	assert.Error(t, err)
	//species but no converged energy
	const noEnergy = `   VRHFIN =Fe: d7 s1
   ions per type =   2
`
	_, err = ParseOutcar(strings.NewReader(noEnergy))
	assert.Error(t, err)
}

func TestReadOutcarGzip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "OUTCAR.gz")
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := gzip.NewWriter(f)
	_, err = zw.Write([]byte(outcarFixture))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	o, err := ReadOutcar(path)
	require.NoError(t, err)
	assert.InDelta(t, -333.79931146, o.Energy, 1e-10)
}

const vasprunFixture = `<?xml version="1.0" encoding="ISO-8859-1"?>
<modeling>
 <kpoints>
  <varray name="kpointlist">
   <v>       0.00000000       0.00000000       0.00000000 </v>
   <v>       0.50000000       0.00000000       0.00000000 </v>
  </varray>
 </kpoints>
 <parameters>
  <separator name="electronic">
   <i type="float" name="NELECT">      8.00000000</i>
  </separator>
 </parameters>
 <calculation>
  <dos>
   <i name="efermi">      2.75000000 </i>
  </dos>
  <eigenvalues>
   <array>
    <set>
     <set comment="spin 1">
      <set comment="kpoint 1">
       <r>    1.0000    1.0000 </r>
       <r>    2.0000    1.0000 </r>
       <r>    3.0000    0.0000 </r>
      </set>
      <set comment="kpoint 2">
       <r>    0.5000    1.0000 </r>
       <r>    2.5000    1.0000 </r>
       <r>    3.8000    0.0000 </r>
      </set>
     </set>
    </set>
   </array>
  </eigenvalues>
  <projected>
   <eigenvalues>
    <array>
     <set>
      <set comment="spin 1">
       <set comment="kpoint 1">
        <r>   99.0000    0.0000 </r>
       </set>
      </set>
     </set>
    </array>
   </eigenvalues>
  </projected>
 </calculation>
</modeling>
`

func TestParseVasprun(t *testing.T) {
	v, err := ParseVasprun(strings.NewReader(vasprunFixture))
	require.NoError(t, err)
	assert.InDelta(t, 2.75, v.EFermi, 1e-12)
	assert.InDelta(t, 8.0, v.NElect, 1e-12)
	require.Len(t, v.Kpoints, 2)
	assert.InDelta(t, 0.5, v.Kpoints[1][0], 1e-12)
	require.Len(t, v.Eigenvalues, 1)
	require.Len(t, v.Eigenvalues[0], 2)
	require.Len(t, v.Eigenvalues[0][0], 3)
	//the projected block repeats the spectrum and must be ignored
	assert.InDelta(t, 1.0, v.Eigenvalues[0][0][0].Energy, 1e-12)
}

func TestBandGapIndirect(t *testing.T) {
	v, err := ParseVasprun(strings.NewReader(vasprunFixture))
	require.NoError(t, err)
	g, err := v.BandGap(false)
	require.NoError(t, err)
	assert.False(t, g.Metallic)
	//VBM 2.5 at the second k-point, CBM 3.0 at the first
	assert.InDelta(t, 0.5, g.Gap, 1e-12)
	assert.Equal(t, 1, g.VBM.Kpoint)
	assert.Equal(t, 0, g.CBM.Kpoint)
	assert.InDelta(t, 2.5, g.VBM.Energy, 1e-12)
	assert.InDelta(t, 3.0, g.CBM.Energy, 1e-12)
}

func TestBandGapDirect(t *testing.T) {
	v, err := ParseVasprun(strings.NewReader(vasprunFixture))
	require.NoError(t, err)
	g, err := v.BandGap(true)
	require.NoError(t, err)
	assert.True(t, g.Direct)
	//per k-point gaps are 1.0 and 1.3; the smallest wins
	assert.InDelta(t, 1.0, g.Gap, 1e-12)
	assert.Equal(t, 0, g.VBM.Kpoint)
	assert.Equal(t, g.VBM.Kpoint, g.CBM.Kpoint)
}

func TestBandGapMetallic(t *testing.T) {
	const metal = `<modeling>
 <calculation>
  <eigenvalues>
   <array>
    <set>
     <set comment="spin 1">
      <set comment="kpoint 1">
       <r>    1.0000    1.0000 </r>
       <r>    2.0000    1.0000 </r>
      </set>
      <set comment="kpoint 2">
       <r>    1.5000    0.0000 </r>
       <r>    2.5000    0.0000 </r>
      </set>
     </set>
    </set>
   </array>
  </eigenvalues>
 </calculation>
</modeling>
`
	v, err := ParseVasprun(strings.NewReader(metal))
	require.NoError(t, err)
	g, err := v.BandGap(false)
	require.NoError(t, err)
	assert.True(t, g.Metallic)
	assert.Equal(t, 0.0, g.Gap)
}

func TestBandGapNoEmptyStates(t *testing.T) {
	const full = `<modeling>
 <calculation>
  <eigenvalues>
   <array>
    <set>
     <set comment="spin 1">
      <set comment="kpoint 1">
       <r>    1.0000    1.0000 </r>
      </set>
     </set>
    </set>
   </array>
  </eigenvalues>
 </calculation>
</modeling>
`
	v, err := ParseVasprun(strings.NewReader(full))
	require.NoError(t, err)
	_, err = v.BandGap(false)
	assert.Error(t, err)
}
