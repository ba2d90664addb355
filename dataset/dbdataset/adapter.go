package dbdataset

import (
	"context"

	"github.com/grovekit/grove/attribute"
)

/*
Adapter is an interface providing the methods a dbdataset Set needs from
an SQL database backend. Implementations encapsulate the dialect of a
specific database: its placeholders, its column types and its driver.
*/
type Adapter interface {
	// ColumnName takes the name of an attribute and returns the
	// samples-table column for it, or an error if the name cannot
	// be used on the backend.
	ColumnName(attributeName string) (string, error)
	// CreateSampleTable ensures the samples table exists with a
	// column per given attribute.
	CreateSampleTable(ctx context.Context, attributes []attribute.Attribute) error
	// AddSamples inserts the given raw samples, maps of column
	// names to values, and returns how many were inserted.
	AddSamples(ctx context.Context, rawSamples []map[string]interface{}, columns []string) (int, error)
	// IterateOnSamples selects the samples satisfying the given
	// criteria and calls the lambda with each of them and its
	// index until it returns false or the samples are exhausted.
	IterateOnSamples(ctx context.Context, criteria []*SampleCriterion, columns []string, lambda func(int, map[string]interface{}) (bool, error)) error
	// CountSamples returns the number of samples satisfying the
	// given criteria.
	CountSamples(ctx context.Context, criteria []*SampleCriterion) (int, error)
	// ListSampleValues returns the distinct non-null values the
	// given column takes on samples satisfying the given criteria.
	ListSampleValues(ctx context.Context, criteria []*SampleCriterion, column string) ([]interface{}, error)
	// CountSampleValues returns the number of samples satisfying
	// the given criteria per distinct non-null value of the given
	// column.
	CountSampleValues(ctx context.Context, criteria []*SampleCriterion, column string) (map[string]int, error)
}
