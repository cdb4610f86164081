/*
 * vaspstore.go, part of matkit.
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

//Package vaspstore persists extracted VASP results in MongoDB, one document
//per calculation.
package vaspstore

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/CodersheepY/matkit/vasp"
)

// Defaults used when no database or collection name is configured.
const (
	DefaultDatabase   = "vasp_data"
	DefaultCollection = "outcar_results"
)

// Store is a handle on one MongoDB collection of calculation records.
type Store struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// Open connects to MongoDB at uri and pings the primary before returning.
// Empty db or coll fall back to the defaults.
func Open(ctx context.Context, uri, db, coll string) (*Store, error) {
	if db == "" {
		db = DefaultDatabase
	}
	if coll == "" {
		coll = DefaultCollection
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("vaspstore: connect %s: %w", uri, err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		client.Disconnect(ctx)
		return nil, fmt.Errorf("vaspstore: ping %s: %w", uri, err)
	}
	return &Store{client: client, coll: client.Database(db).Collection(coll)}, nil
}

// Save inserts one record and returns the hex id of the new document.
func (st *Store) Save(ctx context.Context, rec *vasp.Record) (string, error) {
	res, err := st.coll.InsertOne(ctx, rec)
	if err != nil {
		return "", fmt.Errorf("vaspstore: insert %s: %w", rec.Material, err)
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		return id.Hex(), nil
	}
	return fmt.Sprintf("%v", res.InsertedID), nil
}

// FindByMaterial returns all stored records for a reduced formula.
func (st *Store) FindByMaterial(ctx context.Context, material string) ([]vasp.Record, error) {
	cur, err := st.coll.Find(ctx, bson.M{"material": material})
	if err != nil {
		return nil, fmt.Errorf("vaspstore: find %s: %w", material, err)
	}
	var out []vasp.Record
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("vaspstore: find %s: %w", material, err)
	}
	return out, nil
}

// Ping re-checks the connection.
func (st *Store) Ping(ctx context.Context) error {
	return st.client.Ping(ctx, readpref.Primary())
}

// Close disconnects from the server.
func (st *Store) Close(ctx context.Context) error {
	return st.client.Disconnect(ctx)
}

// PingURI connects, pings and disconnects, reporting whether a server is
// reachable at uri.
func PingURI(ctx context.Context, uri string) error {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return fmt.Errorf("vaspstore: connect %s: %w", uri, err)
	}
	defer client.Disconnect(ctx)
	return client.Ping(ctx, readpref.Primary())
}
