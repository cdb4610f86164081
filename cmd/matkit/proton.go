/*
 * proton.go, part of matkit.
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

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/CodersheepY/matkit"
)

var (
	protonN      int
	protonBond   float64
	protonCutoff float64
)

var protonateCmd = &cobra.Command{
	Use:   "protonate [in] [out]",
	Short: "Insert protons next to oxygen sites",
	Long: `Places the requested number of protons into the structure, each
bonded to the first oxygen (in site order) that has no hydrogen within 1.2 A
yet. The proton goes along the direction away from the oxygen's nearest
neighbors. One line per requested proton reports where it went, or that no
oxygen was left for it.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := readStructure(args[0])
		if err != nil {
			return err
		}
		out, placements, err := matkit.AddProtons(s, protonN, protonBond, protonCutoff)
		if err != nil {
			return err
		}
		for _, p := range placements {
			if !p.Placed {
				fmt.Printf("proton %d: no available oxygen left\n", p.Proton)
				continue
			}
			fmt.Printf("proton %d: O site %d, position (%.5f %.5f %.5f), O-H %.4f A",
				p.Proton, p.Oxygen, p.Pos[0], p.Pos[1], p.Pos[2], p.BondLength)
			if !p.WithinTol {
				fmt.Printf("  (off target bond length)")
			}
			fmt.Println()
		}
		if err := writeStructure(args[1], out); err != nil {
			return err
		}
		logger.Info("protonated structure",
			zap.Int("requested", protonN),
			zap.Int("sites", out.Len()),
			zap.String("file", args[1]))
		return nil
	},
}

var (
	ohTol       float64
	ohPlainScan bool
)

var ohbondsCmd = &cobra.Command{
	Use:   "ohbonds [in]",
	Short: "List O-H bonds in a structure",
	Long: `Scans a (typically protonated) structure for O-H bonds. The default scan
uses minimum-image distances; --plain instead reports, for each hydrogen, the
closest oxygen by direct cartesian distance, ignoring periodicity.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := readStructure(args[0])
		if err != nil {
			return err
		}
		if ohPlainScan {
			for _, c := range matkit.ClosestOxygens(s) {
				fmt.Printf("H %d: closest O %d at %.4f A\n", c.Hydrogen, c.Oxygen, c.Dist)
			}
			return nil
		}
		bonds := matkit.OHBonds(s, ohTol)
		for _, b := range bonds {
			fmt.Printf("O %d - H %d: %.4f A\n", b.Oxygen, b.Hydrogen, b.Dist)
		}
		logger.Debug("scanned bonds", zap.Int("found", len(bonds)))
		return nil
	},
}

func init() {
	protonateCmd.Flags().IntVarP(&protonN, "protons", "n", 1, "number of protons to insert")
	protonateCmd.Flags().Float64Var(&protonBond, "bond-length", matkit.OHBondLength, "target O-H bond length in angstrom")
	protonateCmd.Flags().Float64Var(&protonCutoff, "cutoff", matkit.NeighborCutoff, "neighbor search cutoff in angstrom")
	ohbondsCmd.Flags().Float64Var(&ohTol, "tol", matkit.ProtonatedCutoff, "maximum O-H distance in angstrom")
	ohbondsCmd.Flags().BoolVar(&ohPlainScan, "plain", false, "non-periodic closest-oxygen scan")
	rootCmd.AddCommand(protonateCmd, ohbondsCmd)
}
