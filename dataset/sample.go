package dataset

import (
	"context"
	"fmt"

	"github.com/grovekit/grove/attribute"
)

/*
Sample represents a labeled example: an immutable mapping from attributes
to observed values, one of which is the label to learn to predict.

Its ValueFor method returns the value the sample takes for the attribute
passed as parameter, or nil when the sample does not define one.
*/
type Sample interface {
	ValueFor(context.Context, attribute.Attribute) (interface{}, error)
}

type sample struct {
	attributeValues map[string]interface{}
}

/*
NewSample takes a map of attribute names to values and returns a Sample
backed by it.
*/
func NewSample(attributeValues map[string]interface{}) Sample {
	return &sample{attributeValues}
}

func (s *sample) ValueFor(_ context.Context, a attribute.Attribute) (interface{}, error) {
	return s.attributeValues[a.Name()], nil
}

func (s *sample) String() string {
	return fmt.Sprintf("[%v]", s.attributeValues)
}
