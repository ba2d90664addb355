package dbdataset

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/grovekit/grove/attribute"
)

/*
Dialect holds what differs between SQL backends: how bind parameters are
written and how attribute columns are typed.
*/
type Dialect struct {
	// Placeholder returns the bind-parameter marker for the nth
	// parameter of a statement, 1-based: "?" for SQLite3, "$1",
	// "$2"... for PostgreSQL.
	Placeholder func(n int) string
	// ColumnType returns the SQL column type used to store values
	// of the given attribute.
	ColumnType func(attribute.Attribute) string
}

type sqlAdapter struct {
	db      *sql.DB
	dialect Dialect
}

/*
NewSQLAdapter takes an *sql.DB and a Dialect and returns an Adapter
implementing the dbdataset queries over it with the dialect's
placeholders and column types.
*/
func NewSQLAdapter(db *sql.DB, dialect Dialect) Adapter {
	return &sqlAdapter{db, dialect}
}

func (a *sqlAdapter) ColumnName(attributeName string) (string, error) {
	if attributeName == "id" {
		return "", fmt.Errorf("%q is reserved and cannot be used as attribute name", attributeName)
	}
	if strings.ContainsAny(attributeName, `"`) {
		return "", fmt.Errorf(`attribute name %q contains invalid character '"'`, attributeName)
	}
	return attributeName, nil
}

func (a *sqlAdapter) CreateSampleTable(ctx context.Context, attributes []attribute.Attribute) error {
	var stmt strings.Builder
	stmt.WriteString("CREATE TABLE IF NOT EXISTS samples (")
	for i, attr := range attributes {
		column, err := a.ColumnName(attr.Name())
		if err != nil {
			return err
		}
		if i > 0 {
			stmt.WriteString(", ")
		}
		fmt.Fprintf(&stmt, `"%s" %s NULL`, column, a.dialect.ColumnType(attr))
	}
	stmt.WriteString(")")
	_, err := a.db.ExecContext(ctx, stmt.String())
	if err != nil {
		return fmt.Errorf("creating samples table: %v", err)
	}
	return nil
}

func (a *sqlAdapter) AddSamples(ctx context.Context, rawSamples []map[string]interface{}, columns []string) (int, error) {
	var stmt strings.Builder
	stmt.WriteString(`INSERT INTO samples ("`)
	stmt.WriteString(strings.Join(columns, `", "`))
	stmt.WriteString(`") VALUES (`)
	for i := range columns {
		if i > 0 {
			stmt.WriteString(", ")
		}
		stmt.WriteString(a.dialect.Placeholder(i + 1))
	}
	stmt.WriteString(")")
	prepared, err := a.db.PrepareContext(ctx, stmt.String())
	if err != nil {
		return 0, fmt.Errorf("preparing sample insertion: %v", err)
	}
	defer prepared.Close()
	for n, raw := range rawSamples {
		values := make([]interface{}, len(columns))
		for i, column := range columns {
			values[i] = raw[column]
		}
		_, err = prepared.ExecContext(ctx, values...)
		if err != nil {
			return n, fmt.Errorf("inserting sample %d: %v", n, err)
		}
	}
	return len(rawSamples), nil
}

func (a *sqlAdapter) IterateOnSamples(ctx context.Context, criteria []*SampleCriterion, columns []string, lambda func(int, map[string]interface{}) (bool, error)) error {
	var query strings.Builder
	query.WriteString(`SELECT "`)
	query.WriteString(strings.Join(columns, `", "`))
	query.WriteString(`" FROM samples`)
	values := a.writeWhereClause(&query, criteria)
	rows, err := a.db.QueryContext(ctx, query.String(), values...)
	if err != nil {
		return fmt.Errorf("querying samples: %v", err)
	}
	defer rows.Close()
	for i := 0; rows.Next(); i++ {
		scanned := make([]interface{}, len(columns))
		for j := range scanned {
			scanned[j] = new(interface{})
		}
		err = rows.Scan(scanned...)
		if err != nil {
			return fmt.Errorf("scanning sample %d: %v", i, err)
		}
		raw := make(map[string]interface{}, len(columns))
		for j, column := range columns {
			v := *(scanned[j].(*interface{}))
			if bs, ok := v.([]byte); ok {
				v = string(bs)
			}
			if v != nil {
				raw[column] = v
			}
		}
		ok, err := lambda(i, raw)
		if err != nil {
			return err
		}
		if !ok {
			break
		}
	}
	return rows.Err()
}

func (a *sqlAdapter) CountSamples(ctx context.Context, criteria []*SampleCriterion) (int, error) {
	var query strings.Builder
	query.WriteString("SELECT COUNT(*) FROM samples")
	values := a.writeWhereClause(&query, criteria)
	var count int
	err := a.db.QueryRowContext(ctx, query.String(), values...).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting samples: %v", err)
	}
	return count, nil
}

func (a *sqlAdapter) ListSampleValues(ctx context.Context, criteria []*SampleCriterion, column string) ([]interface{}, error) {
	var query strings.Builder
	fmt.Fprintf(&query, `SELECT DISTINCT "%s" FROM samples`, column)
	values := a.writeWhereClause(&query, criteria)
	rows, err := a.db.QueryContext(ctx, query.String(), values...)
	if err != nil {
		return nil, fmt.Errorf("listing values of column %q: %v", column, err)
	}
	defer rows.Close()
	var result []interface{}
	for rows.Next() {
		var v interface{}
		err = rows.Scan(&v)
		if err != nil {
			return nil, fmt.Errorf("scanning value of column %q: %v", column, err)
		}
		if bs, ok := v.([]byte); ok {
			v = string(bs)
		}
		if v != nil {
			result = append(result, v)
		}
	}
	return result, rows.Err()
}

func (a *sqlAdapter) CountSampleValues(ctx context.Context, criteria []*SampleCriterion, column string) (map[string]int, error) {
	var query strings.Builder
	fmt.Fprintf(&query, `SELECT "%s", COUNT("%s") FROM samples`, column, column)
	values := a.writeWhereClause(&query, criteria)
	fmt.Fprintf(&query, ` GROUP BY "%s"`, column)
	rows, err := a.db.QueryContext(ctx, query.String(), values...)
	if err != nil {
		return nil, fmt.Errorf("counting values of column %q: %v", column, err)
	}
	defer rows.Close()
	result := make(map[string]int)
	for rows.Next() {
		var v interface{}
		var count int
		err = rows.Scan(&v, &count)
		if err != nil {
			return nil, fmt.Errorf("scanning value count of column %q: %v", column, err)
		}
		if bs, ok := v.([]byte); ok {
			v = string(bs)
		}
		if v != nil {
			result[fmt.Sprintf("%v", v)] = count
		}
	}
	return result, rows.Err()
}

func (a *sqlAdapter) writeWhereClause(query *strings.Builder, criteria []*SampleCriterion) []interface{} {
	if len(criteria) == 0 {
		return nil
	}
	values := make([]interface{}, 0, len(criteria))
	query.WriteString(" WHERE ")
	for i, sc := range criteria {
		if i > 0 {
			query.WriteString(" AND ")
		}
		fmt.Fprintf(query, `"%s" %s %s`, sc.Column, sc.Operator, a.dialect.Placeholder(i+1))
		values = append(values, sc.Value)
	}
	return values
}
