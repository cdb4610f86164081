/*
 * thermo.go, part of matkit.
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

package main

import (
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/CodersheepY/matkit"
	"github.com/CodersheepY/matkit/mprest"
	"github.com/CodersheepY/matkit/thermo"
)

var energiesReport string

var energiesCmd = &cobra.Command{
	Use:   "energies [inputs.yaml]",
	Short: "Compute oxygen-vacancy and hydration energetics",
	Long: `Derives the oxygen vacancy formation energy, the protonic defect
formation energy and the hydration energy from a YAML file of DFT total
energies and molecular zero-point corrections. The O2 reference is
reconstructed from the water-splitting cycle.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := thermo.LoadDefectInputs(args[0])
		if err != nil {
			return err
		}
		out := in.Energies()
		fmt.Printf("corrected E(O2):          %10.4f eV\n", out.EO2Corr)
		fmt.Printf("vacancy formation energy: %10.4f eV\n", out.VacancyFormation)
		fmt.Printf("OH formation energy:      %10.4f eV\n", out.OHFormation)
		fmt.Printf("hydration energy:         %10.4f eV\n", out.Hydration)
		if energiesReport != "" {
			if err := thermo.WriteDefectReport(energiesReport, in, out); err != nil {
				return err
			}
			logger.Info("wrote report", zap.String("file", energiesReport))
		}
		return nil
	},
}

var (
	phasediagCondition string
	phasediagPlot      string
)

var phasediagCmd = &cobra.Command{
	Use:   "phasediag [formula] [energy-eV]",
	Short: "Phase stability under fixed gas atmospheres",
	Long: `Builds grand-potential phase diagrams for a material against the
Materials Project entries of its chemical system, under the standard gas
atmospheres: A (hydrogen-rich), C (oxygen-rich) and X (CO2-rich). Reports
the material's energy per atom, formation energy and energy above the hull
for each. Needs MP_API_KEY.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		formula := args[0]
		energy, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("bad energy %q: %w", args[1], err)
		}
		comp, err := matkit.ParseFormula(formula)
		if err != nil {
			return err
		}
		client, err := mprest.New(os.Getenv("MP_API_KEY"))
		if err != nil {
			return err
		}
		material := thermo.Entry{Formula: formula, Energy: energy}
		for _, cond := range thermo.Conditions() {
			if phasediagCondition != "all" && phasediagCondition != cond.Name {
				continue
			}
			elements := chemsysElements(comp, cond.ChemPots)
			entries, err := client.EntriesInChemsys(cmd.Context(), elements)
			if err != nil {
				return err
			}
			logger.Debug("fetched entries",
				zap.String("condition", cond.Name),
				zap.Strings("elements", elements),
				zap.Int("count", len(entries)))
			all := cond.FilterEliminated(entries)
			all = append(all, cond.GasEntries...)
			all = append(all, material)

			fmt.Printf("\nCondition %s (%s):\n", cond.Name, cond.Description)
			epa, err := material.EnergyPerAtom()
			if err != nil {
				return err
			}
			fmt.Printf("Energy per atom: %.6f eV\n", epa)
			pd, err := thermo.NewGrandPotential(all, cond.ChemPots)
			if err != nil {
				logger.Warn("no phase diagram", zap.String("condition", cond.Name), zap.Error(err))
				fmt.Println("Formation energy: N/A")
				fmt.Println("Energy above hull: N/A")
				continue
			}
			ef, err := pd.FormationEnergyPerAtom(material)
			if err != nil {
				return err
			}
			hull, err := pd.EAboveHull(material)
			if err != nil {
				return err
			}
			fmt.Printf("Formation energy: %.6f eV\n", ef)
			fmt.Printf("Energy above hull: %.6f eV\n", hull)
			if phasediagPlot != "" {
				file := fmt.Sprintf("%s-%s", phasediagPlot, cond.Name)
				title := fmt.Sprintf("%s, condition %s (%s)", formula, cond.Name, cond.Description)
				if err := thermo.PlotHull(pd, title, file); err != nil {
					return err
				}
				logger.Info("wrote hull plot", zap.String("file", file+".png"))
			}
		}
		return nil
	},
}

//chemsysElements is the union of the material's elements and the open ones
//of the atmosphere, sorted.
func chemsysElements(comp map[string]int, chempots map[string]float64) []string {
	set := make(map[string]bool)
	for el := range comp {
		set[el] = true
	}
	for el := range chempots {
		set[el] = true
	}
	out := make([]string, 0, len(set))
	for el := range set {
		out = append(out, el)
	}
	sort.Strings(out)
	return out
}

func init() {
	energiesCmd.Flags().StringVar(&energiesReport, "report", "", "also write an xlsx report to this file")
	phasediagCmd.Flags().StringVar(&phasediagCondition, "condition", "all", "atmosphere to evaluate: A, C, X or all")
	phasediagCmd.Flags().StringVar(&phasediagPlot, "plot", "", "write hull plots with this file prefix")
	rootCmd.AddCommand(energiesCmd, phasediagCmd)
}
