/*
 * cif.go, part of matkit.
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

//Package cif reads and writes crystal structures in CIF format. The reader
//handles the subset of CIF that structure databases actually emit for
//inorganic crystals: one data block, cell parameters, a symmetry-operation
//loop and a fractional atom_site loop. The writer always emits P1.
package cif

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/CodersheepY/matkit"
)

//fractional coordinates closer than this (after wrapping) are the same site
//when expanding symmetry operations.
const dedupTol = 1e-3

// ReadFile reads a CIF file and returns the structure of its first data
// block.
func ReadFile(path string) (*matkit.Structure, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	s, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("cif: %s: %w", path, err)
	}
	return s, nil
}

// Read parses CIF data from r and returns the structure of its first data
// block.
func Read(r io.Reader) (*matkit.Structure, error) {
	p := &parser{scanner: bufio.NewScanner(r)}
	return p.parse()
}

type siteRow struct {
	symbol string
	frac   matkit.Vec
}

type parser struct {
	scanner *bufio.Scanner
	pending string //a line read ahead while consuming a loop
	cell    map[string]float64
	ops     []symOp
	rows    []siteRow
}

func (p *parser) next() (string, bool) {
	if p.pending != "" {
		l := p.pending
		p.pending = ""
		return l, true
	}
	for p.scanner.Scan() {
		line := strings.TrimSpace(p.scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		return line, true
	}
	return "", false
}

func (p *parser) parse() (*matkit.Structure, error) {
	p.cell = make(map[string]float64)
	seenData := false
	for {
		line, ok := p.next()
		if !ok {
			break
		}
		switch {
		case strings.HasPrefix(line, "data_"):
			if seenData && (len(p.rows) > 0 || len(p.cell) == 6) {
				//a second data block; we only read the first complete one
				p.pending = ""
				goto done
			}
			seenData = true
		case line == "loop_":
			if err := p.parseLoop(); err != nil {
				return nil, err
			}
		case strings.HasPrefix(line, "_"):
			p.parseTag(line)
		}
	}
done:
	return p.build()
}

//parseTag handles a single "_tag value" line. Only the cell parameters are
//of interest; everything else is ignored.
func (p *parser) parseTag(line string) {
	fields := splitFields(line)
	if len(fields) < 2 {
		return
	}
	tag := strings.ToLower(fields[0])
	for _, name := range []string{
		"_cell_length_a", "_cell_length_b", "_cell_length_c",
		"_cell_angle_alpha", "_cell_angle_beta", "_cell_angle_gamma",
	} {
		if tag == name {
			if v, err := parseNumeric(fields[1]); err == nil {
				p.cell[name] = v
			}
		}
	}
}

func (p *parser) parseLoop() error {
	var headers []string
	var body []string
	inHeader := true
	for {
		line, ok := p.next()
		if !ok {
			break
		}
		if strings.HasPrefix(line, "_") && inHeader {
			headers = append(headers, strings.ToLower(splitFields(line)[0]))
			continue
		}
		inHeader = false
		if line == "loop_" || strings.HasPrefix(line, "_") || strings.HasPrefix(line, "data_") {
			p.pending = line
			break
		}
		body = append(body, line)
	}
	if isSymmetryLoop(headers) {
		return p.parseSymmetryRows(headers, body)
	}
	if isAtomSiteLoop(headers) {
		return p.parseAtomRows(headers, body)
	}
	return nil
}

func isSymmetryLoop(headers []string) bool {
	for _, h := range headers {
		if h == "_symmetry_equiv_pos_as_xyz" || h == "_space_group_symop_operation_xyz" {
			return true
		}
	}
	return false
}

func isAtomSiteLoop(headers []string) bool {
	for _, h := range headers {
		if h == "_atom_site_fract_x" {
			return true
		}
	}
	return false
}

func (p *parser) parseSymmetryRows(headers, body []string) error {
	col := -1
	for i, h := range headers {
		if h == "_symmetry_equiv_pos_as_xyz" || h == "_space_group_symop_operation_xyz" {
			col = i
		}
	}
	for _, line := range body {
		fields := splitFields(line)
		if col >= len(fields) {
			return fmt.Errorf("short symmetry row %q", line)
		}
		op, err := parseSymOp(fields[col])
		if err != nil {
			return err
		}
		p.ops = append(p.ops, op)
	}
	return nil
}

func (p *parser) parseAtomRows(headers, body []string) error {
	idx := make(map[string]int)
	for i, h := range headers {
		idx[h] = i
	}
	xcol, ok := idx["_atom_site_fract_x"]
	ycol, oky := idx["_atom_site_fract_y"]
	zcol, okz := idx["_atom_site_fract_z"]
	if !ok || !oky || !okz {
		return fmt.Errorf("atom_site loop without fractional coordinates")
	}
	symcol, hasSym := idx["_atom_site_type_symbol"]
	labcol, hasLab := idx["_atom_site_label"]
	if !hasSym && !hasLab {
		return fmt.Errorf("atom_site loop without element symbols or labels")
	}
	for _, line := range body {
		fields := splitFields(line)
		if len(fields) < len(headers) {
			return fmt.Errorf("short atom_site row %q", line)
		}
		var symbol string
		if hasSym {
			symbol = cleanSymbol(fields[symcol])
		} else {
			symbol = cleanSymbol(fields[labcol])
		}
		if symbol == "" {
			return fmt.Errorf("could not get an element symbol from row %q", line)
		}
		var frac matkit.Vec
		for k, col := range []int{xcol, ycol, zcol} {
			v, err := parseNumeric(fields[col])
			if err != nil {
				return fmt.Errorf("bad coordinate in row %q: %w", line, err)
			}
			frac[k] = v
		}
		p.rows = append(p.rows, siteRow{symbol: symbol, frac: frac})
	}
	return nil
}

func (p *parser) build() (*matkit.Structure, error) {
	for _, name := range []string{
		"_cell_length_a", "_cell_length_b", "_cell_length_c",
		"_cell_angle_alpha", "_cell_angle_beta", "_cell_angle_gamma",
	} {
		if _, ok := p.cell[name]; !ok {
			return nil, fmt.Errorf("missing cell parameter %s", name)
		}
	}
	if len(p.rows) == 0 {
		return nil, fmt.Errorf("no atom sites found")
	}
	lat, err := matkit.NewLatticeFromParams(
		p.cell["_cell_length_a"], p.cell["_cell_length_b"], p.cell["_cell_length_c"],
		p.cell["_cell_angle_alpha"], p.cell["_cell_angle_beta"], p.cell["_cell_angle_gamma"])
	if err != nil {
		return nil, err
	}
	ops := p.ops
	if len(ops) == 0 {
		ops = []symOp{identityOp()}
	}
	var sites []matkit.Site
	for _, row := range p.rows {
		var placed []matkit.Vec
		for _, op := range ops {
			f := wrapFrac(op.apply(row.frac))
			dup := false
			for _, q := range placed {
				if fracClose(f, q) {
					dup = true
					break
				}
			}
			if dup {
				continue
			}
			placed = append(placed, f)
			sites = append(sites, matkit.Site{Symbol: row.symbol, Pos: lat.Cart(f)})
		}
	}
	return matkit.NewStructure(lat, sites)
}

// WriteFile writes s to path in CIF format.
func WriteFile(path string, s *matkit.Structure) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return Write(f, s)
}

// Write serializes s as a P1 CIF data block. Site order and positions are
// preserved exactly, so a written file reads back to the same structure.
func Write(w io.Writer, s *matkit.Structure) error {
	if s == nil {
		return fmt.Errorf("cif: nil structure")
	}
	bw := bufio.NewWriter(w)
	formula := s.ReducedFormula()
	a, b, c, alpha, beta, gamma := s.Lattice().Params()
	fmt.Fprintf(bw, "# generated by matkit\n")
	fmt.Fprintf(bw, "data_%s\n", formula)
	fmt.Fprintf(bw, "_symmetry_space_group_name_H-M   'P 1'\n")
	fmt.Fprintf(bw, "_cell_length_a   %.8f\n", a)
	fmt.Fprintf(bw, "_cell_length_b   %.8f\n", b)
	fmt.Fprintf(bw, "_cell_length_c   %.8f\n", c)
	fmt.Fprintf(bw, "_cell_angle_alpha   %.8f\n", alpha)
	fmt.Fprintf(bw, "_cell_angle_beta   %.8f\n", beta)
	fmt.Fprintf(bw, "_cell_angle_gamma   %.8f\n", gamma)
	fmt.Fprintf(bw, "_symmetry_Int_Tables_number   1\n")
	fmt.Fprintf(bw, "_chemical_formula_structural   %s\n", formula)
	fmt.Fprintf(bw, "_chemical_formula_sum   '%s'\n", formulaSum(s))
	fmt.Fprintf(bw, "_cell_volume   %.8f\n", s.Lattice().Volume())
	fmt.Fprintf(bw, "loop_\n _symmetry_equiv_pos_site_id\n _symmetry_equiv_pos_as_xyz\n  1  'x, y, z'\n")
	fmt.Fprintf(bw, "loop_\n _atom_site_type_symbol\n _atom_site_label\n _atom_site_fract_x\n _atom_site_fract_y\n _atom_site_fract_z\n _atom_site_occupancy\n")
	counters := make(map[string]int)
	for i := 0; i < s.Len(); i++ {
		site := s.Site(i)
		counters[site.Symbol]++
		f := s.Lattice().Frac(site.Pos)
		fmt.Fprintf(bw, "  %s  %s%d  %.8f  %.8f  %.8f  1\n",
			site.Symbol, site.Symbol, counters[site.Symbol], f[0], f[1], f[2])
	}
	return bw.Flush()
}

//formulaSum builds the "_chemical_formula_sum" field, e.g. "Ba1 Zr1 O3",
//with elements sorted alphabetically the way most CIF emitters do.
func formulaSum(s *matkit.Structure) string {
	comp := s.Composition()
	symbols := make([]string, 0, len(comp))
	for sym := range comp {
		symbols = append(symbols, sym)
	}
	sort.Strings(symbols)
	parts := make([]string, 0, len(symbols))
	for _, sym := range symbols {
		parts = append(parts, fmt.Sprintf("%s%d", sym, comp[sym]))
	}
	return strings.Join(parts, " ")
}

//splitFields splits a CIF line into fields, honoring single and double
//quotes ('P 1' is one field).
func splitFields(line string) []string {
	var fields []string
	var cur strings.Builder
	var quote byte
	flush := func() {
		if cur.Len() > 0 {
			fields = append(fields, cur.String())
			cur.Reset()
		}
	}
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
				fields = append(fields, cur.String()) //may be empty, keep it
				cur.Reset()
			} else {
				cur.WriteByte(c)
			}
		case c == '\'' || c == '"':
			flush()
			quote = c
		case c == ' ' || c == '\t':
			flush()
		default:
			cur.WriteByte(c)
		}
	}
	flush()
	return fields
}

//parseNumeric parses a CIF numeric value, stripping a trailing
//uncertainty such as in "4.1967(3)".
func parseNumeric(s string) (float64, error) {
	if i := strings.IndexByte(s, '('); i >= 0 {
		s = s[:i]
	}
	return strconv.ParseFloat(s, 64)
}

//cleanSymbol derives an element symbol from a type_symbol or label value:
//"O2-" -> "O", "Ba1" -> "Ba".
func cleanSymbol(s string) string {
	end := 0
	for end < len(s) {
		c := s[end]
		if (c >= 'A' && c <= 'Z' && end == 0) || (c >= 'a' && c <= 'z' && end > 0) {
			end++
			continue
		}
		break
	}
	return s[:end]
}

func wrapFrac(f matkit.Vec) matkit.Vec {
	for i := 0; i < 3; i++ {
		f[i] -= math.Floor(f[i])
		if f[i] >= 1 { //guard against -1e-17 style wrap results
			f[i] -= 1
		}
	}
	return f
}

func fracClose(a, b matkit.Vec) bool {
	for i := 0; i < 3; i++ {
		d := math.Abs(a[i] - b[i])
		if d > 0.5 {
			d = 1 - d
		}
		if d > dedupTol {
			return false
		}
	}
	return true
}
