/*
Package json encodes attribute criteria as JSON for tree and task
serialization.
*/
package json

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/grovekit/grove/attribute"
)

/*
CriteriaEncodeDecoder is an interface for objects that allow encoding
criteria into slices of bytes and decoding them back to criteria.
*/
type CriteriaEncodeDecoder interface {

	// Encode receives an attribute.Criterion and returns a slice
	// of bytes with the criterion encoded, or an error if the
	// encoding could not be performed for some reason.
	Encode(attribute.Criterion) ([]byte, error)

	// Decode receives a slice of bytes and returns an
	// attribute.Criterion decoded from it, or an error if the
	// decoding could not be performed for some reason.
	Decode([]byte) (attribute.Criterion, error)
}

type jsonCriteriaEncodeDecoder []attribute.Attribute

type jsonCriterion struct {
	Type      string `json:"t"`
	Attribute string `json:"at"`
	Value     string `json:"v,omitempty"`
	A         string `json:"a,omitempty"`
	B         string `json:"b,omitempty"`
}

// NewCriteriaEncodeDecoder takes a slice of attribute.Attribute and
// returns a CriteriaEncodeDecoder that marshals and unmarshals criteria
// as JSON objects with an "at" property naming the attribute and a "t"
// property that can be one of "equals", "interval" or "absent":
//   - equals criteria carry a "v" property with the categorical value
//   - interval criteria carry "a" and "b" properties with the interval ends
//   - absent criteria carry no additional properties
func NewCriteriaEncodeDecoder(attributes []attribute.Attribute) CriteriaEncodeDecoder {
	return jsonCriteriaEncodeDecoder(attributes)
}

func (jced jsonCriteriaEncodeDecoder) Encode(c attribute.Criterion) ([]byte, error) {
	switch c := c.(type) {
	case attribute.IntervalCriterion:
		a, b := c.Interval()
		return json.Marshal(&jsonCriterion{
			Type:      "interval",
			Attribute: c.Attribute().Name(),
			A:         strconv.FormatFloat(a, 'f', -1, 64),
			B:         strconv.FormatFloat(b, 'f', -1, 64),
		})
	case attribute.EqualsCriterion:
		return json.Marshal(&jsonCriterion{
			Type:      "equals",
			Attribute: c.Attribute().Name(),
			Value:     c.Value(),
		})
	case attribute.AbsentCriterion:
		return json.Marshal(&jsonCriterion{
			Type:      "absent",
			Attribute: c.Attribute().Name(),
		})
	default:
		return nil, fmt.Errorf("unknown type of attribute.Criterion %T", c)
	}
}

func (jced jsonCriteriaEncodeDecoder) Decode(data []byte) (attribute.Criterion, error) {
	jc := &jsonCriterion{}
	err := json.Unmarshal(data, jc)
	if err != nil {
		return nil, err
	}
	a := jced.attributeNamed(jc.Attribute)
	if a == nil {
		return nil, fmt.Errorf("decoding criterion: unknown attribute %q", jc.Attribute)
	}
	switch jc.Type {
	case "equals":
		ca, ok := a.(*attribute.Categorical)
		if !ok {
			return nil, fmt.Errorf("decoding criterion: attribute %q is not categorical", jc.Attribute)
		}
		return attribute.NewEqualsCriterion(ca, jc.Value), nil
	case "interval":
		na, ok := a.(*attribute.Numeric)
		if !ok {
			return nil, fmt.Errorf("decoding criterion: attribute %q is not numeric", jc.Attribute)
		}
		start, err := strconv.ParseFloat(jc.A, 64)
		if err != nil {
			return nil, fmt.Errorf("decoding criterion: parsing interval start %q: %v", jc.A, err)
		}
		end, err := strconv.ParseFloat(jc.B, 64)
		if err != nil {
			return nil, fmt.Errorf("decoding criterion: parsing interval end %q: %v", jc.B, err)
		}
		return attribute.NewIntervalCriterion(na, start, end), nil
	case "absent":
		return attribute.NewAbsentCriterion(a), nil
	}
	return nil, fmt.Errorf("decoding criterion: unknown criterion type %q", jc.Type)
}

func (jced jsonCriteriaEncodeDecoder) attributeNamed(name string) attribute.Attribute {
	for _, a := range jced {
		if a.Name() == name {
			return a
		}
	}
	return nil
}
