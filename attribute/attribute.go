/*
Package attribute defines the attributes samples can take values for and
the criteria decision-tree nodes impose on them.

An attribute is either categorical, with a finite set of string values, or
numeric, with float64 values.
*/
package attribute

import "fmt"

/*
Attribute represents a named property a sample can be observed to have.

Its Validate method reports whether a value is admissible for the
attribute; a nil value is always admissible and represents an absent
observation.
*/
type Attribute interface {
	Name() string
	Validate(interface{}) (bool, error)
}

/*
Categorical is an attribute whose values are strings out of a finite set.
*/
type Categorical struct {
	name   string
	values []string
}

/*
Numeric is an attribute whose values are float64 numbers.
*/
type Numeric struct {
	name string
}

/*
NewCategorical takes a name and the slice of admissible string values and
returns a categorical attribute with them.
*/
func NewCategorical(name string, values []string) *Categorical {
	return &Categorical{name, values}
}

/*
NewNumeric takes a name and returns a numeric attribute with it.
*/
func NewNumeric(name string) *Numeric {
	return &Numeric{name}
}

/*
Name returns the name of the attribute.
*/
func (c *Categorical) Name() string {
	return c.name
}

/*
Validate returns true when the given value is nil or one of the
attribute's admissible string values, and false with a describing error
otherwise.
*/
func (c *Categorical) Validate(value interface{}) (bool, error) {
	if value == nil {
		return true, nil
	}
	vs, ok := value.(string)
	if !ok {
		return false, fmt.Errorf("categorical attribute %s expects string value, got %T value", c.name, value)
	}
	for _, av := range c.values {
		if av == vs {
			return true, nil
		}
	}
	return false, fmt.Errorf("categorical attribute %s got unknown value %s", c.name, vs)
}

/*
Values returns the slice of admissible string values for the attribute.
*/
func (c *Categorical) Values() []string {
	return c.values
}

func (c *Categorical) String() string {
	return c.name
}

/*
Name returns the name of the attribute.
*/
func (n *Numeric) Name() string {
	return n.name
}

/*
Validate returns true when the given value is nil or a float64, and false
with a describing error otherwise.
*/
func (n *Numeric) Validate(value interface{}) (bool, error) {
	if value == nil {
		return true, nil
	}
	if _, ok := value.(float64); !ok {
		return false, fmt.Errorf("numeric attribute %s expects float64 value, got %T value", n.name, value)
	}
	return true, nil
}

func (n *Numeric) String() string {
	return n.name
}
