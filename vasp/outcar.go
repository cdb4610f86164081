/*
 * outcar.go, part of matkit.
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
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/CodersheepY/matkit"
)

// Outcar holds the results extracted from one OUTCAR file. For quantities
// that VASP prints once per ionic step (energy, forces, stress) the values
// of the last step are kept.
type Outcar struct {
	Symbols     []string     //one element symbol per species, POTCAR order
	IonsPerType []int        //ion counts, same order as Symbols
	Energy      float64      //final TOTEN in eV
	Forces      [][3]float64 //last TOTAL-FORCE block, eV/angstrom per ion
	StressKB    []float64    //last stress line, kBar (XX YY ZZ XY YZ ZX)
	hasEnergy   bool
}

// ReadOutcar reads and parses an OUTCAR or OUTCAR.gz file.
func ReadOutcar(path string) (*Outcar, error) {
	r, err := openMaybeGzip(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	o, err := ParseOutcar(r)
	if err != nil {
		return nil, fmt.Errorf("vasp: %s: %w", path, err)
	}
	return o, nil
}

// ParseOutcar parses OUTCAR text from r.
func ParseOutcar(r io.Reader) (*Outcar, error) {
	o := new(Outcar)
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for sc.Scan() {
		line := sc.Text()
		switch {
		case strings.Contains(line, "VRHFIN ="):
			sym := parseVrhfin(line)
			if sym != "" {
				o.Symbols = append(o.Symbols, sym)
			}
		case strings.Contains(line, "ions per type"):
			if err := o.parseIonsPerType(line); err != nil {
				return nil, err
			}
		case strings.Contains(line, "free  energy   TOTEN"):
			if err := o.parseEnergy(line); err != nil {
				return nil, err
			}
		case strings.Contains(line, "TOTAL-FORCE"):
			if err := o.parseForces(sc); err != nil {
				return nil, err
			}
		case strings.Contains(line, "in kB"):
			if err := o.parseStress(line); err != nil {
				return nil, err
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(o.Symbols) == 0 || len(o.IonsPerType) == 0 {
		return nil, fmt.Errorf("no species information found (VRHFIN/ions per type)")
	}
	if len(o.Symbols) != len(o.IonsPerType) {
		return nil, fmt.Errorf("%d species but %d ion counts", len(o.Symbols), len(o.IonsPerType))
	}
	if !o.hasEnergy {
		return nil, fmt.Errorf("no TOTEN found; the run may not have finished")
	}
	return o, nil
}

//a VRHFIN line looks like "   VRHFIN =Ba: 5s5p6s".
func parseVrhfin(line string) string {
	i := strings.Index(line, "=")
	if i < 0 {
		return ""
	}
	rest := strings.TrimSpace(line[i+1:])
	if j := strings.IndexAny(rest, ": "); j >= 0 {
		rest = rest[:j]
	}
	return rest
}

func (o *Outcar) parseIonsPerType(line string) error {
	i := strings.Index(line, "=")
	if i < 0 {
		return fmt.Errorf("bad ions-per-type line %q", line)
	}
	o.IonsPerType = o.IonsPerType[:0]
	for _, f := range strings.Fields(line[i+1:]) {
		n, err := strconv.Atoi(f)
		if err != nil {
			return fmt.Errorf("bad ions-per-type line %q: %w", line, err)
		}
		o.IonsPerType = append(o.IonsPerType, n)
	}
	return nil
}

//the energy line looks like
//"  free  energy   TOTEN  =      -333.79931146 eV".
func (o *Outcar) parseEnergy(line string) error {
	i := strings.Index(line, "=")
	if i < 0 {
		return fmt.Errorf("bad TOTEN line %q", line)
	}
	fields := strings.Fields(line[i+1:])
	if len(fields) == 0 {
		return fmt.Errorf("bad TOTEN line %q", line)
	}
	v, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return fmt.Errorf("bad TOTEN line %q: %w", line, err)
	}
	o.Energy = v
	o.hasEnergy = true
	return nil
}

//parseForces consumes a POSITION/TOTAL-FORCE block: a dashed line, one row
//of 6 floats per ion, a dashed line.
func (o *Outcar) parseForces(sc *bufio.Scanner) error {
	if !sc.Scan() { //dashed separator
		return fmt.Errorf("truncated TOTAL-FORCE block")
	}
	var forces [][3]float64
	for sc.Scan() {
		line := sc.Text()
		if strings.HasPrefix(strings.TrimSpace(line), "---") {
			o.Forces = forces
			return nil
		}
		fields := strings.Fields(line)
		if len(fields) < 6 {
			return fmt.Errorf("bad force row %q", line)
		}
		var f [3]float64
		for j := 0; j < 3; j++ {
			v, err := strconv.ParseFloat(fields[3+j], 64)
			if err != nil {
				return fmt.Errorf("bad force row %q: %w", line, err)
			}
			f[j] = v
		}
		forces = append(forces, f)
	}
	return fmt.Errorf("truncated TOTAL-FORCE block")
}

//the stress line looks like
//"  in kB      -12.34    -12.34    -12.34      0.00      0.00      0.00".
func (o *Outcar) parseStress(line string) error {
	fields := strings.Fields(line)
	if len(fields) < 8 {
		return fmt.Errorf("bad stress line %q", line)
	}
	stress := make([]float64, 6)
	for j := 0; j < 6; j++ {
		v, err := strconv.ParseFloat(fields[2+j], 64)
		if err != nil {
			return fmt.Errorf("bad stress line %q: %w", line, err)
		}
		stress[j] = v
	}
	o.StressKB = stress
	return nil
}

// NIons returns the total number of ions.
func (o *Outcar) NIons() int {
	tot := 0
	for _, n := range o.IonsPerType {
		tot += n
	}
	return tot
}

// Composition returns the element counts of the calculation.
func (o *Outcar) Composition() map[string]int {
	comp := make(map[string]int)
	for i, sym := range o.Symbols {
		comp[sym] += o.IonsPerType[i]
	}
	return comp
}

// ReducedFormula returns the standardized reduced formula of the
// calculation, e.g. BaZrO3 for a Ba8Zr8O24 cell.
func (o *Outcar) ReducedFormula() string {
	return matkit.ReducedFormula(o.Composition())
}

// StressGPa returns the stress tensor converted from kBar to GPa. Nil if no
// stress was printed (e.g. a forces-only run).
func (o *Outcar) StressGPa() []float64 {
	if o.StressKB == nil {
		return nil
	}
	out := make([]float64, len(o.StressKB))
	for i, s := range o.StressKB {
		out[i] = s / 10
	}
	return out
}

// Record builds the persistable record for this calculation, stamped with
// the path it was read from.
func (o *Outcar) Record(sourcePath string) *Record {
	return &Record{
		Material:   o.ReducedFormula(),
		EnergyEV:   o.Energy,
		Forces:     o.Forces,
		StressGPa:  o.StressGPa(),
		SourcePath: sourcePath,
	}
}
