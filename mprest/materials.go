/*
 * materials.go, part of matkit.
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

package mprest

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat/combin"

	"github.com/CodersheepY/matkit"
	"github.com/CodersheepY/matkit/thermo"
)

//jsonStructure mirrors the pymatgen Structure JSON the API serves.
type jsonStructure struct {
	Lattice struct {
		Matrix [3][3]float64 `json:"matrix"`
	} `json:"lattice"`
	Sites []struct {
		Species []struct {
			Element string  `json:"element"`
			Occu    float64 `json:"occu"`
		} `json:"species"`
		XYZ []float64 `json:"xyz"`
	} `json:"sites"`
}

type summaryResponse struct {
	Data []struct {
		MaterialID string         `json:"material_id"`
		Structure  *jsonStructure `json:"structure"`
	} `json:"data"`
}

// Structure fetches the computed structure of one material by its id
// (e.g. "mp-1192651").
func (c *Client) Structure(ctx context.Context, id string) (*matkit.Structure, error) {
	query := url.Values{
		"material_ids": {id},
		"_fields":      {"material_id,structure"},
	}
	var resp summaryResponse
	if err := c.get(ctx, "/materials/summary/", query, &resp); err != nil {
		return nil, err
	}
	if len(resp.Data) == 0 || resp.Data[0].Structure == nil {
		return nil, fmt.Errorf("mprest: no structure for %s", id)
	}
	return resp.Data[0].Structure.toStructure()
}

// Structures fetches several materials concurrently, keyed by id. The first
// failure cancels the remaining fetches.
func (c *Client) Structures(ctx context.Context, ids []string) (map[string]*matkit.Structure, error) {
	out := make(map[string]*matkit.Structure, len(ids))
	var mu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for _, id := range ids {
		id := id
		g.Go(func() error {
			s, err := c.Structure(ctx, id)
			if err != nil {
				return err
			}
			mu.Lock()
			out[id] = s
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (js *jsonStructure) toStructure() (*matkit.Structure, error) {
	m := js.Lattice.Matrix
	lat, err := matkit.NewLattice(
		matkit.Vec(m[0]), matkit.Vec(m[1]), matkit.Vec(m[2]))
	if err != nil {
		return nil, fmt.Errorf("mprest: %w", err)
	}
	s, err := matkit.NewStructure(lat, []matkit.Site{})
	if err != nil {
		return nil, fmt.Errorf("mprest: %w", err)
	}
	for i, site := range js.Sites {
		if len(site.Species) == 0 || len(site.XYZ) != 3 {
			return nil, fmt.Errorf("mprest: malformed site %d", i)
		}
		//disordered sites keep their dominant species
		best := site.Species[0]
		for _, sp := range site.Species[1:] {
			if sp.Occu > best.Occu {
				best = sp
			}
		}
		s.AppendSite(matkit.Site{
			Symbol: best.Element,
			Pos:    matkit.Vec{site.XYZ[0], site.XYZ[1], site.XYZ[2]},
		})
	}
	return s, nil
}

type thermoResponse struct {
	Data []struct {
		FormulaPretty string  `json:"formula_pretty"`
		EnergyPerAtom float64 `json:"energy_per_atom"`
	} `json:"data"`
}

// EntriesInChemsys fetches the thermo entries of every chemical subsystem
// of the given elements, the input a grand-potential diagram competes a
// material against. Duplicate formulas are kept; the hull sorts them out.
func (c *Client) EntriesInChemsys(ctx context.Context, elements []string) ([]thermo.Entry, error) {
	if len(elements) == 0 {
		return nil, fmt.Errorf("mprest: no elements given")
	}
	sorted := append([]string(nil), elements...)
	sort.Strings(sorted)
	var systems []string
	for k := 1; k <= len(sorted); k++ {
		for _, idx := range combin.Combinations(len(sorted), k) {
			parts := make([]string, len(idx))
			for i, j := range idx {
				parts[i] = sorted[j]
			}
			systems = append(systems, strings.Join(parts, "-"))
		}
	}
	var entries []thermo.Entry
	for skip := 0; ; skip += c.pageLimit {
		query := url.Values{
			"chemsys": {strings.Join(systems, ",")},
			"_fields": {"formula_pretty,energy_per_atom"},
			"_limit":  {strconv.Itoa(c.pageLimit)},
			"_skip":   {strconv.Itoa(skip)},
		}
		var resp thermoResponse
		if err := c.get(ctx, "/materials/thermo/", query, &resp); err != nil {
			return nil, err
		}
		for _, d := range resp.Data {
			comp, err := matkit.ParseFormula(d.FormulaPretty)
			if err != nil {
				return nil, fmt.Errorf("mprest: entry %q: %w", d.FormulaPretty, err)
			}
			entries = append(entries, thermo.Entry{
				Formula: d.FormulaPretty,
				Energy:  d.EnergyPerAtom * float64(matkit.NumAtoms(comp)),
			})
		}
		if len(resp.Data) < c.pageLimit {
			return entries, nil
		}
	}
}
