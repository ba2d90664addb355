package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/grovekit/grove/attribute"
	"github.com/grovekit/grove/dataset"
	"github.com/grovekit/grove/dataset/csv"
	"github.com/grovekit/grove/dataset/dbdataset"
	"github.com/grovekit/grove/dataset/dbdataset/pgadapter"
	"github.com/grovekit/grove/dataset/dbdataset/sqlite3adapter"
	"github.com/grovekit/grove/dataset/mongodataset"
	mgo "gopkg.in/mgo.v2"
)

// openDataset resolves the input flag shared by the grow and test
// commands into a dataset. An empty input reads CSV from STDIN, a
// postgresql:// URL opens a PostgreSQL-backed dataset, a mongodb://
// URL a MongoDB-backed one, a path ending in .db an SQLite3-backed
// one and any other path is read as a CSV file.
func openDataset(ctx context.Context, input string, attributes []attribute.Attribute, maxDBConns int, dg csv.DatasetGenerator, log *rootCmdConfig) (dataset.Dataset, error) {
	if input == "" {
		log.Logf("Reading dataset from STDIN...")
		ds, err := csv.ReadDataset(os.Stdin, attributes, dg)
		if err != nil {
			return nil, fmt.Errorf("reading dataset: %v", err)
		}
		return ds, nil
	}
	if strings.HasPrefix(input, "postgresql://") {
		log.Logf("Creating PostgreSQL adapter for url %s...", input)
		adapter, err := pgadapter.New(input)
		if err != nil {
			return nil, err
		}
		log.Logf("Opening dataset over PostgreSQL adapter for url %s...", input)
		ds, err := dbdataset.Open(ctx, adapter, attributes)
		if err != nil {
			return nil, err
		}
		return ds, nil
	}
	if strings.HasPrefix(input, "mongodb://") {
		log.Logf("Dialing MongoDB at %s...", input)
		session, err := mgo.Dial(input)
		if err != nil {
			return nil, fmt.Errorf("connecting to MongoDB at %s: %v", input, err)
		}
		log.Logf("Opening dataset over MongoDB session for url %s...", input)
		ds, err := mongodataset.Open(ctx, session, attributes)
		if err != nil {
			return nil, err
		}
		return ds, nil
	}
	if strings.HasSuffix(input, ".db") {
		log.Logf("Creating SQLite3 adapter for file %s...", input)
		adapter, err := sqlite3adapter.New(input, maxDBConns)
		if err != nil {
			return nil, err
		}
		log.Logf("Opening dataset over SQLite3 adapter for file %s...", input)
		ds, err := dbdataset.Open(ctx, adapter, attributes)
		if err != nil {
			return nil, err
		}
		return ds, nil
	}
	log.Logf("Opening %s to read dataset...", input)
	ds, err := csv.ReadDatasetFromFilePath(input, attributes, dg)
	if err != nil {
		return nil, fmt.Errorf("reading dataset at %s: %v", input, err)
	}
	return ds, nil
}

// labelAttribute extracts the attribute with the given name from the
// slice and returns it along with the remaining attributes.
func labelAttribute(attributes []attribute.Attribute, name string) (attribute.Attribute, []attribute.Attribute) {
	var label attribute.Attribute
	others := make([]attribute.Attribute, 0, len(attributes)-1)
	for _, at := range attributes {
		if at.Name() == name {
			label = at
			continue
		}
		others = append(others, at)
	}
	return label, others
}
