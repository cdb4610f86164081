/*
 * report.go, part of matkit.
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
	"fmt"

	"github.com/xuri/excelize/v2"
)

//rows of the report sheet, in print order.
type reportRow struct {
	label string
	value float64
	unit  string
}

// WriteDefectReport writes the inputs and the derived defect energetics as
// a one-sheet xlsx workbook, the format the results circulate in.
func WriteDefectReport(path string, in *DefectInputs, out *DefectEnergies) error {
	rows := []reportRow{
		{"E(pristine supercell)", in.EPristine, "eV"},
		{"E(oxygen vacancy cell)", in.EVacancy, "eV"},
		{"E(protonic defect cell)", in.EProtonated, "eV"},
		{"E(H2O)", in.EH2O, "eV"},
		{"E(H2)", in.EH2, "eV"},
		{"E(O2)", in.EO2, "eV"},
		{"ZPE(H2O)", in.ZPEH2O, "eV"},
		{"ZPE(H2)", in.ZPEH2, "eV"},
		{"ZPE(O2)", in.ZPEO2, "eV"},
		{"E(O2) corrected", out.EO2Corr, "eV"},
		{"Vacancy formation energy", out.VacancyFormation, "eV"},
		{"OH formation energy", out.OHFormation, "eV"},
		{"Hydration energy", out.Hydration, "eV"},
	}
	f := excelize.NewFile()
	defer f.Close()
	const sheet = "Defect energetics"
	idx, err := f.NewSheet(sheet)
	if err != nil {
		return err
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return err
	}
	f.SetCellValue(sheet, "A1", "Quantity")
	f.SetCellValue(sheet, "B1", "Value")
	f.SetCellValue(sheet, "C1", "Unit")
	for i, r := range rows {
		n := i + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", n), r.label)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", n), r.value)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", n), r.unit)
	}
	if err := f.SetColWidth(sheet, "A", "A", 28); err != nil {
		return err
	}
	return f.SaveAs(path)
}
