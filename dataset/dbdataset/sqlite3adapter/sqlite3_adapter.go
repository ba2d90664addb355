/*
Package sqlite3adapter provides a dbdataset.Adapter backed by an SQLite3
database file.
*/
package sqlite3adapter

import (
	"database/sql"

	// Import of sqlite3 driver
	_ "github.com/mattn/go-sqlite3"

	"github.com/grovekit/grove/attribute"
	"github.com/grovekit/grove/dataset/dbdataset"
)

/*
New takes a path to an SQLite3 database file and a limit for concurrently
open connections (0 for no limit) and returns a dbdataset.Adapter that
works on the file's database, or an error if it cannot be opened as an
SQLite3 database.
*/
func New(path string, maxConns int) (dbdataset.Adapter, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if maxConns > 0 {
		db.SetMaxOpenConns(maxConns)
	}
	return dbdataset.NewSQLAdapter(db, dbdataset.Dialect{
		Placeholder: func(int) string { return "?" },
		ColumnType: func(a attribute.Attribute) string {
			if _, ok := a.(*attribute.Numeric); ok {
				return "REAL"
			}
			return "TEXT"
		},
	}), nil
}
