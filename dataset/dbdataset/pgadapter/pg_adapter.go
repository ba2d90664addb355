/*
Package pgadapter provides a dbdataset.Adapter backed by a PostgreSQL
database.
*/
package pgadapter

import (
	"database/sql"
	"fmt"

	// Import of pq driver
	_ "github.com/lib/pq"

	"github.com/grovekit/grove/attribute"
	"github.com/grovekit/grove/dataset/dbdataset"
)

/*
New takes a PostgreSQL connection URL and returns a dbdataset.Adapter
that works on that database, or an error if the connection cannot be
opened.
*/
func New(url string) (dbdataset.Adapter, error) {
	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, err
	}
	return dbdataset.NewSQLAdapter(db, dbdataset.Dialect{
		Placeholder: func(n int) string { return fmt.Sprintf("$%d", n) },
		ColumnType: func(a attribute.Attribute) string {
			if _, ok := a.(*attribute.Numeric); ok {
				return "DOUBLE PRECISION"
			}
			return "TEXT"
		},
	}), nil
}
