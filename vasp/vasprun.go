/*
 * vasprun.go, part of matkit.
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
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"
)

//a band is occupied when its occupation exceeds this.
const occTol = 1e-3

// EigState is one band at one k-point: its energy (eV) and occupation.
type EigState struct {
	Energy    float64
	Occupancy float64
}

// Vasprun holds the part of a vasprun.xml file needed for electronic
// analysis: the eigenvalue spectrum, the Fermi energy, the electron count
// and the k-point list.
type Vasprun struct {
	EFermi      float64
	NElect      float64
	Kpoints     [][3]float64
	Eigenvalues [][][]EigState //[spin][kpoint][band]
}

// ReadVasprun reads and parses a vasprun.xml or vasprun.xml.gz file.
func ReadVasprun(path string) (*Vasprun, error) {
	r, err := openMaybeGzip(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	v, err := ParseVasprun(r)
	if err != nil {
		return nil, fmt.Errorf("vasp: %s: %w", path, err)
	}
	return v, nil
}

// ParseVasprun parses vasprun XML from r. Only the first eigenvalue block
// is read (the projected eigenvalues repeat it).
func ParseVasprun(r io.Reader) (*Vasprun, error) {
	v := new(Vasprun)
	dec := xml.NewDecoder(r)
	inEigen := false
	eigenDone := false
	inKlist := false
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "eigenvalues":
				if !eigenDone {
					inEigen = true
				}
			case "varray":
				if attrValue(t, "name") == "kpointlist" {
					inKlist = true
				}
			case "v":
				if inKlist {
					var text string
					if err := dec.DecodeElement(&text, &t); err != nil {
						return nil, err
					}
					fields := strings.Fields(text)
					if len(fields) < 3 {
						return nil, fmt.Errorf("bad k-point %q", text)
					}
					var k [3]float64
					for j := 0; j < 3; j++ {
						k[j], err = strconv.ParseFloat(fields[j], 64)
						if err != nil {
							return nil, err
						}
					}
					v.Kpoints = append(v.Kpoints, k)
				}
			case "set":
				if !inEigen {
					continue
				}
				comment := attrValue(t, "comment")
				switch {
				case strings.HasPrefix(comment, "spin"):
					v.Eigenvalues = append(v.Eigenvalues, nil)
				case strings.HasPrefix(comment, "kpoint"):
					if len(v.Eigenvalues) == 0 {
						return nil, fmt.Errorf("kpoint set outside a spin set")
					}
					last := len(v.Eigenvalues) - 1
					v.Eigenvalues[last] = append(v.Eigenvalues[last], nil)
				}
			case "r":
				if !inEigen || len(v.Eigenvalues) == 0 {
					continue
				}
				var text string
				if err := dec.DecodeElement(&text, &t); err != nil {
					return nil, err
				}
				fields := strings.Fields(text)
				if len(fields) < 2 {
					return nil, fmt.Errorf("bad eigenvalue row %q", text)
				}
				e, err := strconv.ParseFloat(fields[0], 64)
				if err != nil {
					return nil, err
				}
				occ, err := strconv.ParseFloat(fields[1], 64)
				if err != nil {
					return nil, err
				}
				spin := len(v.Eigenvalues) - 1
				if len(v.Eigenvalues[spin]) == 0 {
					return nil, fmt.Errorf("eigenvalue row outside a kpoint set")
				}
				kpt := len(v.Eigenvalues[spin]) - 1
				v.Eigenvalues[spin][kpt] = append(v.Eigenvalues[spin][kpt], EigState{Energy: e, Occupancy: occ})
			case "i":
				switch attrValue(t, "name") {
				case "efermi":
					var text string
					if err := dec.DecodeElement(&text, &t); err != nil {
						return nil, err
					}
					v.EFermi, err = strconv.ParseFloat(strings.TrimSpace(text), 64)
					if err != nil {
						return nil, err
					}
				case "NELECT":
					var text string
					if err := dec.DecodeElement(&text, &t); err != nil {
						return nil, err
					}
					v.NElect, err = strconv.ParseFloat(strings.TrimSpace(text), 64)
					if err != nil {
						return nil, err
					}
				}
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "eigenvalues":
				if inEigen {
					inEigen = false
					eigenDone = true
				}
			case "varray":
				inKlist = false
			}
		}
	}
	if len(v.Eigenvalues) == 0 {
		return nil, fmt.Errorf("no eigenvalues found")
	}
	return v, nil
}

func attrValue(se xml.StartElement, name string) string {
	for _, a := range se.Attr {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

// BandEdge locates one band edge in the spectrum.
type BandEdge struct {
	Spin   int
	Kpoint int
	Band   int
	Energy float64
}

// Gap is the result of a band-gap analysis. For metals Gap is 0 and the
// edges are meaningless.
type Gap struct {
	Gap      float64
	Direct   bool //whether a direct (same k-point) gap was requested
	Metallic bool
	VBM      BandEdge
	CBM      BandEdge
}

// BandGap computes the band gap from the occupations: the valence band
// maximum is the highest state with occupation above a small threshold, the
// conduction band minimum the lowest state below it. With direct true only
// gaps at a single k-point are considered and the smallest one is returned.
// A spectrum where the edges overlap (VBM above CBM) is metallic.
func (v *Vasprun) BandGap(direct bool) (*Gap, error) {
	if direct {
		return v.directGap()
	}
	vbm := BandEdge{Energy: 0}
	cbm := BandEdge{Energy: 0}
	haveV, haveC := false, false
	for s, spin := range v.Eigenvalues {
		for k, kpt := range spin {
			for b, st := range kpt {
				if st.Occupancy > occTol {
					if !haveV || st.Energy > vbm.Energy {
						vbm = BandEdge{Spin: s, Kpoint: k, Band: b, Energy: st.Energy}
						haveV = true
					}
				} else {
					if !haveC || st.Energy < cbm.Energy {
						cbm = BandEdge{Spin: s, Kpoint: k, Band: b, Energy: st.Energy}
						haveC = true
					}
				}
			}
		}
	}
	if !haveV {
		return nil, fmt.Errorf("no occupied states in the spectrum")
	}
	if !haveC {
		return nil, fmt.Errorf("no empty states in the spectrum; increase NBANDS")
	}
	g := &Gap{Gap: cbm.Energy - vbm.Energy, VBM: vbm, CBM: cbm}
	if g.Gap <= 0 {
		g.Gap = 0
		g.Metallic = true
	}
	return g, nil
}

func (v *Vasprun) directGap() (*Gap, error) {
	best := &Gap{Direct: true}
	found := false
	for s, spin := range v.Eigenvalues {
		for k, kpt := range spin {
			vbm := BandEdge{}
			cbm := BandEdge{}
			haveV, haveC := false, false
			for b, st := range kpt {
				if st.Occupancy > occTol {
					if !haveV || st.Energy > vbm.Energy {
						vbm = BandEdge{Spin: s, Kpoint: k, Band: b, Energy: st.Energy}
						haveV = true
					}
				} else {
					if !haveC || st.Energy < cbm.Energy {
						cbm = BandEdge{Spin: s, Kpoint: k, Band: b, Energy: st.Energy}
						haveC = true
					}
				}
			}
			if !haveV || !haveC {
				continue
			}
			if gap := cbm.Energy - vbm.Energy; !found || gap < best.Gap {
				best.Gap = gap
				best.VBM = vbm
				best.CBM = cbm
				found = true
			}
		}
	}
	if !found {
		return nil, fmt.Errorf("no k-point with both occupied and empty states")
	}
	if best.Gap <= 0 {
		best.Gap = 0
		best.Metallic = true
	}
	return best, nil
}
