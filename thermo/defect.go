/*
 * defect.go, part of matkit.
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

//Package thermo computes defect and hydration energetics of proton-conducting
//oxides and grand-potential phase stability under fixed gas atmospheres. All
//energies are in eV.
package thermo

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefectInputs are the DFT total energies and zero-point corrections that a
// vacancy/hydration analysis needs: the pristine supercell, the same cell
// with one oxygen vacancy, the same cell with one protonic defect (OH on an
// oxygen site), and the three reference molecules.
type DefectInputs struct {
	EPristine   float64 `yaml:"e_pristine"`
	EVacancy    float64 `yaml:"e_vacancy"`
	EProtonated float64 `yaml:"e_oh"`
	EH2O        float64 `yaml:"e_h2o"`
	EH2         float64 `yaml:"e_h2"`
	EO2         float64 `yaml:"e_o2"`
	ZPEH2O      float64 `yaml:"zpe_h2o"`
	ZPEH2       float64 `yaml:"zpe_h2"`
	ZPEO2       float64 `yaml:"zpe_o2"`
}

var requiredDefectKeys = []string{
	"e_pristine", "e_vacancy", "e_oh", "e_h2o", "e_h2", "e_o2",
}

// LoadDefectInputs reads a YAML file of defect-analysis inputs. The cell and
// molecule energies are mandatory, the ZPE corrections default to zero.
func LoadDefectInputs(path string) (*DefectInputs, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("thermo: %s: %w", path, err)
	}
	for _, k := range requiredDefectKeys {
		if _, ok := raw[k]; !ok {
			return nil, fmt.Errorf("thermo: %s: missing required key %q", path, k)
		}
	}
	in := new(DefectInputs)
	if err := yaml.Unmarshal(data, in); err != nil {
		return nil, fmt.Errorf("thermo: %s: %w", path, err)
	}
	return in, nil
}

// DefectEnergies are the derived defect energetics.
type DefectEnergies struct {
	EO2Corr          float64 //corrected O2 reference from the water-splitting cycle
	VacancyFormation float64 //oxygen vacancy formation energy
	OHFormation      float64 //protonic defect formation energy
	Hydration        float64 //hydration enthalpy of the vacancy
}

// Energies derives the defect energetics from the inputs. The O2 reference
// is not taken from the (poorly described by GGA) O2 molecule directly but
// reconstructed from the water-splitting reaction 2H2O -> 2H2 + O2, with
// zero-point corrections on the molecules.
func (in *DefectInputs) Energies() *DefectEnergies {
	eH2O := in.EH2O + in.ZPEH2O
	eH2 := in.EH2 + in.ZPEH2
	eO2Corr := 2*(eH2O-eH2) - in.EO2
	return &DefectEnergies{
		EO2Corr:          eO2Corr,
		VacancyFormation: in.EVacancy - in.EPristine + eO2Corr/2,
		OHFormation:      in.EProtonated - in.EPristine - (eH2O-eH2/2)/2,
		Hydration:        2*in.EProtonated - in.EPristine - in.EVacancy - eH2O,
	}
}
