/*
 * vasp.go, part of matkit.
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

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/CodersheepY/matkit/vasp"
	"github.com/CodersheepY/matkit/vaspstore"
)

var (
	outcarJSON       string
	outcarMongo      bool
	outcarDB         string
	outcarCollection string
)

var outcarCmd = &cobra.Command{
	Use:   "outcar [OUTCAR]",
	Short: "Extract energy, forces and stress from an OUTCAR",
	Long: `Parses an OUTCAR (plain or gzipped) and emits the final energy, forces
and stress as a JSON record. With --mongo the record is also inserted into
MongoDB (MONGODB_URI).`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		o, err := vasp.ReadOutcar(args[0])
		if err != nil {
			return err
		}
		rec := o.Record(args[0])
		if outcarJSON != "" {
			if err := rec.WriteJSONFile(outcarJSON); err != nil {
				return err
			}
			logger.Info("wrote record", zap.String("file", outcarJSON))
		} else {
			if err := rec.WriteJSON(os.Stdout); err != nil {
				return err
			}
		}
		if outcarMongo {
			uri := os.Getenv("MONGODB_URI")
			if uri == "" {
				return fmt.Errorf("--mongo needs MONGODB_URI")
			}
			st, err := vaspstore.Open(cmd.Context(), uri, outcarDB, outcarCollection)
			if err != nil {
				return err
			}
			defer st.Close(cmd.Context())
			id, err := st.Save(cmd.Context(), rec)
			if err != nil {
				return err
			}
			logger.Info("saved to MongoDB",
				zap.String("material", rec.Material),
				zap.String("id", id))
		}
		return nil
	},
}

var bandgapDirect bool

var bandgapCmd = &cobra.Command{
	Use:   "bandgap [vasprun.xml]",
	Short: "Compute the band gap from a vasprun.xml",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := vasp.ReadVasprun(args[0])
		if err != nil {
			return err
		}
		g, err := v.BandGap(bandgapDirect)
		if err != nil {
			return err
		}
		if g.Metallic {
			fmt.Println("metallic: no band gap")
			return nil
		}
		kind := "indirect"
		if bandgapDirect {
			kind = "direct"
		} else if g.VBM.Kpoint == g.CBM.Kpoint {
			kind = "direct"
		}
		fmt.Printf("band gap: %.4f eV (%s)\n", g.Gap, kind)
		fmt.Printf("VBM: %.4f eV at k-point %d, band %d, spin %d\n",
			g.VBM.Energy, g.VBM.Kpoint, g.VBM.Band, g.VBM.Spin)
		fmt.Printf("CBM: %.4f eV at k-point %d, band %d, spin %d\n",
			g.CBM.Energy, g.CBM.Kpoint, g.CBM.Band, g.CBM.Spin)
		return nil
	},
}

var dbpingCmd = &cobra.Command{
	Use:   "dbping",
	Short: "Check the MongoDB connection",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		uri := os.Getenv("MONGODB_URI")
		if uri == "" {
			uri = "mongodb://localhost:27017"
		}
		if err := vaspstore.PingURI(cmd.Context(), uri); err != nil {
			return err
		}
		fmt.Println("connection successful")
		return nil
	},
}

func init() {
	outcarCmd.Flags().StringVar(&outcarJSON, "json", "", "write the record to this file instead of stdout")
	outcarCmd.Flags().BoolVar(&outcarMongo, "mongo", false, "also insert the record into MongoDB")
	outcarCmd.Flags().StringVar(&outcarDB, "db", vaspstore.DefaultDatabase, "MongoDB database")
	outcarCmd.Flags().StringVar(&outcarCollection, "collection", vaspstore.DefaultCollection, "MongoDB collection")
	bandgapCmd.Flags().BoolVar(&bandgapDirect, "direct", false, "smallest same-k-point gap instead of the fundamental gap")
	rootCmd.AddCommand(outcarCmd, bandgapCmd, dbpingCmd)
}
