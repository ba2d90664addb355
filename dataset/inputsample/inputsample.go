/*
Package inputsample provides an implementation of dataset.Sample whose
attribute values are read from an io.Reader as they are first needed,
typically to predict interactively on a sample described by a user.
*/
package inputsample

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/grovekit/grove/attribute"
	"github.com/grovekit/grove/dataset"
)

/*
ValueRequester represents a way to ask for attribute values and to reject
values that are not admissible for the attribute.
*/
type ValueRequester interface {
	RequestValueFor(attribute.Attribute) error
	RejectValueFor(attribute.Attribute, interface{}) error
}

type readSample struct {
	obtainedValues map[string]interface{}
	absentValue    string
	scanner        *bufio.Scanner
	valueRequester ValueRequester
	attributes     []attribute.Attribute
}

/*
New takes an io.Reader, a slice of attributes, a ValueRequester and an
absentValue coding string and returns a Sample whose ValueFor method
resolves attribute values by first requesting them through the given
ValueRequester and then parsing them from the reader.

Each value is expected on its own line. A line equal to the absentValue
string is interpreted as an absent value. For a numeric attribute, lines
are read until one holds a valid float64; for a categorical attribute,
until one holds one of its admissible values. Non-admissible lines are
rejected through the ValueRequester's RejectValueFor method.

Requesting a value for an attribute not in the given slice returns an
error: without its declaration there is no way to parse the value.
*/
func New(r io.Reader, attributes []attribute.Attribute, valueRequester ValueRequester, absentValue string) dataset.Sample {
	scanner := bufio.NewScanner(r)
	return &readSample{make(map[string]interface{}), absentValue, scanner, valueRequester, attributes}
}

func (rs *readSample) ValueFor(_ context.Context, a attribute.Attribute) (interface{}, error) {
	value, ok := rs.obtainedValues[a.Name()]
	if ok {
		return value, nil
	}
	var declared attribute.Attribute
	for _, da := range rs.attributes {
		if a.Name() == da.Name() {
			declared = da
		}
	}
	if declared == nil {
		return nil, fmt.Errorf("have no information about attribute %s, do not know how to read its value", a.Name())
	}
	err := rs.valueRequester.RequestValueFor(declared)
	if err != nil {
		return nil, err
	}
	switch declared := declared.(type) {
	case *attribute.Numeric:
		return rs.readNumeric(declared)
	case *attribute.Categorical:
		return rs.readCategorical(declared)
	}
	return nil, fmt.Errorf("do not know how to read a value for attributes of type %T", declared)
}

func (rs *readSample) readNumeric(a *attribute.Numeric) (interface{}, error) {
	var err error
	for rs.scanner.Scan() {
		line := rs.scanner.Text()
		if line == rs.absentValue {
			rs.obtainedValues[a.Name()] = nil
			return nil, nil
		}
		value, parseErr := strconv.ParseFloat(line, 64)
		if parseErr == nil {
			rs.obtainedValues[a.Name()] = value
			return value, nil
		}
		err = rs.valueRequester.RejectValueFor(a, line)
		if err != nil {
			break
		}
	}
	if err != nil {
		return nil, err
	}
	err = rs.scanner.Err()
	if err != nil {
		return nil, err
	}
	return nil, fmt.Errorf("EOF when requesting value")
}

func (rs *readSample) readCategorical(a *attribute.Categorical) (interface{}, error) {
	var err error
	for rs.scanner.Scan() {
		line := rs.scanner.Text()
		if line == rs.absentValue {
			rs.obtainedValues[a.Name()] = nil
			return nil, nil
		}
		for _, v := range a.Values() {
			if v == line {
				rs.obtainedValues[a.Name()] = v
				return v, nil
			}
		}
		err = rs.valueRequester.RejectValueFor(a, line)
		if err != nil {
			break
		}
	}
	if err != nil {
		return nil, err
	}
	err = rs.scanner.Err()
	if err != nil {
		return nil, err
	}
	return nil, fmt.Errorf("EOF when requesting value")
}
