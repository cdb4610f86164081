/*
 * record.go, part of matkit.
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
	"encoding/json"
	"io"
	"os"
)

// Record is the extracted result of one VASP calculation, in the shape it
// is exported to JSON and stored in MongoDB. Field names keep their units
// explicit so downstream consumers don't have to guess.
type Record struct {
	Material   string       `json:"material" bson:"material"`
	EnergyEV   float64      `json:"energy_eV" bson:"energy_eV"`
	Forces     [][3]float64 `json:"forces_eV_per_A" bson:"forces_eV_per_A"`
	StressGPa  []float64    `json:"stress_GPa" bson:"stress_GPa"`
	SourcePath string       `json:"source_path,omitempty" bson:"source_path,omitempty"`
}

// WriteJSON writes the record to w as indented JSON.
func (r *Record) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	return enc.Encode(r)
}

// WriteJSONFile writes the record to path as indented JSON.
func (r *Record) WriteJSONFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return r.WriteJSON(f)
}
