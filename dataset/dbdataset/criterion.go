package dbdataset

import (
	"fmt"
	"math"

	"github.com/grovekit/grove/attribute"
)

/*
SampleCriterion represents an attribute.Criterion translated to a
condition on the WHERE clause of a SELECT statement over a samples table.
*/
type SampleCriterion struct {
	// Column is the samples-table column for the attribute the
	// criterion constrains.
	Column string
	// Operator is the comparison applied to samples, one of
	// "=", "<", ">", "<=" or ">=", read as Column Operator Value.
	Operator string
	// Value is the value the comparison is applied against: a
	// string for categorical attributes or a float64 for numeric
	// ones.
	Value interface{}
}

/*
NewSampleCriteria takes an attribute.Criterion and a ColumnNameFunc and
returns the slice of SampleCriterion equivalent to it, or an error if the
ColumnNameFunc cannot provide a column for the criterion's attribute.

An attribute.AbsentCriterion imposes no conditions on samples and
translates to an empty slice.
*/
func NewSampleCriteria(c attribute.Criterion, cnf ColumnNameFunc) ([]*SampleCriterion, error) {
	column, err := cnf(c.Attribute().Name())
	if err != nil {
		return nil, fmt.Errorf("cannot obtain column name for attribute %q: %v", c.Attribute().Name(), err)
	}
	result := []*SampleCriterion{}
	switch c := c.(type) {
	case attribute.IntervalCriterion:
		a, b := c.Interval()
		if !math.IsInf(a, 0) {
			result = append(result, &SampleCriterion{column, ">=", a})
		}
		if !math.IsInf(b, 0) {
			result = append(result, &SampleCriterion{column, "<", b})
		}
	case attribute.EqualsCriterion:
		result = append(result, &SampleCriterion{column, "=", c.Value()})
	}
	return result, nil
}

/*
ColumnNameFunc is a function that takes the name of an attribute and
returns the samples-table column name for it, or an error if the name
cannot be transformed.
*/
type ColumnNameFunc func(string) (string, error)
