/*
 * poscar.go, part of matkit.
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

//Package poscar reads and writes VASP POSCAR/CONTCAR files (VASP 5 format,
//i.e. with the element-symbol line).
package poscar

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/CodersheepY/matkit"
)

// ReadFile reads a POSCAR/CONTCAR file.
func ReadFile(path string) (*matkit.Structure, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	s, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("poscar: %s: %w", path, err)
	}
	return s, nil
}

// Read parses POSCAR data from r.
func Read(r io.Reader) (*matkit.Structure, error) {
	sc := bufio.NewScanner(r)
	next := func() (string, error) {
		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return "", err
			}
			return "", io.ErrUnexpectedEOF
		}
		return sc.Text(), nil
	}
	if _, err := next(); err != nil { //comment line
		return nil, err
	}
	line, err := next()
	if err != nil {
		return nil, err
	}
	scale, err := strconv.ParseFloat(strings.TrimSpace(line), 64)
	if err != nil {
		return nil, fmt.Errorf("bad scale line %q: %w", line, err)
	}
	var rows [3]matkit.Vec
	for i := 0; i < 3; i++ {
		line, err = next()
		if err != nil {
			return nil, err
		}
		fields := strings.Fields(line)
		if len(fields) < 3 {
			return nil, fmt.Errorf("bad lattice line %q", line)
		}
		for j := 0; j < 3; j++ {
			rows[i][j], err = strconv.ParseFloat(fields[j], 64)
			if err != nil {
				return nil, fmt.Errorf("bad lattice line %q: %w", line, err)
			}
		}
	}
	//a negative "scale" is the desired cell volume
	if scale < 0 {
		vol := math.Abs(tripleProduct(rows[0], rows[1], rows[2]))
		scale = math.Cbrt(-scale / vol)
	}
	for i := range rows {
		rows[i] = rows[i].Scale(scale)
	}
	lat, err := matkit.NewLattice(rows[0], rows[1], rows[2])
	if err != nil {
		return nil, err
	}
	line, err = next()
	if err != nil {
		return nil, err
	}
	symbols := strings.Fields(line)
	if len(symbols) == 0 {
		return nil, fmt.Errorf("empty symbol line")
	}
	if _, err := strconv.Atoi(symbols[0]); err == nil {
		return nil, fmt.Errorf("POSCAR without an element-symbol line (VASP 4 format) is not supported")
	}
	line, err = next()
	if err != nil {
		return nil, err
	}
	countFields := strings.Fields(line)
	if len(countFields) != len(symbols) {
		return nil, fmt.Errorf("%d element symbols but %d counts", len(symbols), len(countFields))
	}
	counts := make([]int, len(countFields))
	total := 0
	for i, f := range countFields {
		counts[i], err = strconv.Atoi(f)
		if err != nil || counts[i] <= 0 {
			return nil, fmt.Errorf("bad ion count %q", f)
		}
		total += counts[i]
	}
	line, err = next()
	if err != nil {
		return nil, err
	}
	if mode := strings.ToLower(strings.TrimSpace(line)); strings.HasPrefix(mode, "s") {
		//selective dynamics: the flags are ignored, the mode line follows
		line, err = next()
		if err != nil {
			return nil, err
		}
	}
	mode := strings.ToLower(strings.TrimSpace(line))
	var cartesian bool
	switch {
	case strings.HasPrefix(mode, "d"):
		cartesian = false
	case strings.HasPrefix(mode, "c"), strings.HasPrefix(mode, "k"):
		cartesian = true
	default:
		return nil, fmt.Errorf("unknown coordinate mode %q", line)
	}
	sites := make([]matkit.Site, 0, total)
	for i, sym := range symbols {
		for k := 0; k < counts[i]; k++ {
			line, err = next()
			if err != nil {
				return nil, err
			}
			fields := strings.Fields(line)
			if len(fields) < 3 {
				return nil, fmt.Errorf("bad coordinate line %q", line)
			}
			var v matkit.Vec
			for j := 0; j < 3; j++ {
				v[j], err = strconv.ParseFloat(fields[j], 64)
				if err != nil {
					return nil, fmt.Errorf("bad coordinate line %q: %w", line, err)
				}
			}
			if cartesian {
				v = v.Scale(scale)
			} else {
				v = lat.Cart(v)
			}
			sites = append(sites, matkit.Site{Symbol: sym, Pos: v})
		}
	}
	return matkit.NewStructure(lat, sites)
}

// WriteFile writes s to path in POSCAR format.
func WriteFile(path string, s *matkit.Structure) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return Write(f, s)
}

// Write serializes s as a VASP 5 POSCAR with direct coordinates. Sites are
// grouped by element in order of first appearance; within one element the
// original order is kept.
func Write(w io.Writer, s *matkit.Structure) error {
	if s == nil {
		return fmt.Errorf("poscar: nil structure")
	}
	bw := bufio.NewWriter(w)
	var order []string
	groups := make(map[string][]int)
	for i := 0; i < s.Len(); i++ {
		sym := s.Site(i).Symbol
		if _, ok := groups[sym]; !ok {
			order = append(order, sym)
		}
		groups[sym] = append(groups[sym], i)
	}
	fmt.Fprintf(bw, "%s\n", s.ReducedFormula())
	fmt.Fprintf(bw, "1.0\n")
	for i := 0; i < 3; i++ {
		v := s.Lattice().Vector(i)
		fmt.Fprintf(bw, "  %20.14f %20.14f %20.14f\n", v[0], v[1], v[2])
	}
	fmt.Fprintf(bw, "  %s\n", strings.Join(order, "  "))
	countStrs := make([]string, len(order))
	for i, sym := range order {
		countStrs[i] = strconv.Itoa(len(groups[sym]))
	}
	fmt.Fprintf(bw, "  %s\n", strings.Join(countStrs, "  "))
	fmt.Fprintf(bw, "Direct\n")
	for _, sym := range order {
		for _, i := range groups[sym] {
			f := s.Lattice().Frac(s.Site(i).Pos)
			fmt.Fprintf(bw, "  %18.14f %18.14f %18.14f\n", f[0], f[1], f[2])
		}
	}
	return bw.Flush()
}

func tripleProduct(a, b, c matkit.Vec) float64 {
	cx := matkit.Vec{
		b[1]*c[2] - b[2]*c[1],
		b[2]*c[0] - b[0]*c[2],
		b[0]*c[1] - b[1]*c[0],
	}
	return a.Dot(cx)
}
