/*
 * vaspstore_test.go, part of matkit.
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

package vaspstore

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CodersheepY/matkit/vasp"
)

//the round-trip tests need a live server; set MONGODB_TEST_URI to run them.
func testStore(t *testing.T) (*Store, context.Context) {
	t.Helper()
	uri := os.Getenv("MONGODB_TEST_URI")
	if uri == "" {
		t.Skip("MONGODB_TEST_URI not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)
	st, err := Open(ctx, uri, "matkit_test", "outcar_results")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close(context.Background()) })
	return st, ctx
}

func TestSaveAndFind(t *testing.T) {
	st, ctx := testStore(t)
	rec := &vasp.Record{
		Material: "BaZrO3",
		EnergyEV: -333.79931146,
		Forces:   [][3]float64{{0.001, -0.002, 0.003}},
		StressGPa: []float64{
			-1.23, -1.23, -1.23, 0.04, 0, 0,
		},
		SourcePath: "testdata/OUTCAR",
	}
	id, err := st.Save(ctx, rec)
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	found, err := st.FindByMaterial(ctx, "BaZrO3")
	require.NoError(t, err)
	require.NotEmpty(t, found)
	assert.InDelta(t, rec.EnergyEV, found[len(found)-1].EnergyEV, 1e-10)
}

func TestPingURIUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	err := PingURI(ctx, "mongodb://127.0.0.1:1")
	assert.Error(t, err)
}
