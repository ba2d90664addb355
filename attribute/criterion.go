package attribute

import (
	"context"
	"fmt"
	"math"
)

/*
Criterion represents a constraint on an attribute.

Its SatisfiedBy method takes a sample and returns a boolean indicating
whether the sample's value for the attribute satisfies the constraint.

Its Attribute method returns the attribute the constraint applies to.
*/
type Criterion interface {
	Attribute() Attribute
	SatisfiedBy(ctx context.Context, sample Sample) (bool, error)
}

/*
Sample is an interface for something that can satisfy a Criterion.

Its ValueFor method returns the value the sample takes for the given
attribute, or nil when the sample does not define one.
*/
type Sample interface {
	ValueFor(context.Context, Attribute) (interface{}, error)
}

/*
EqualsCriterion constrains a categorical attribute to one specific value.

Its Value method returns that value.
*/
type EqualsCriterion interface {
	Criterion
	Value() string
}

/*
IntervalCriterion constrains a numeric attribute to a half-open interval.
Either end may be infinite.

Its Interval method returns the start and end of the interval.
*/
type IntervalCriterion interface {
	Criterion
	Interval() (float64, float64)
}

/*
AbsentCriterion is the lack of constraint on an attribute. It is satisfied
by every sample and routes those whose value for the attribute is missing,
or was never seen while growing the tree.
*/
type AbsentCriterion interface {
	Criterion
	IsAbsentCriterion() bool
}

type equalsCriterion struct {
	attribute *Categorical
	value     string
}

type intervalCriterion struct {
	attribute *Numeric
	a, b      float64
}

type absentCriterion struct {
	attribute Attribute
}

/*
NewEqualsCriterion takes a categorical attribute and a value and returns an
EqualsCriterion satisfied exactly by samples taking that value for the
attribute.
*/
func NewEqualsCriterion(attribute *Categorical, value string) EqualsCriterion {
	return &equalsCriterion{attribute, value}
}

/*
NewIntervalCriterion takes a numeric attribute and a pair of float64 values
indicating the start and end of a half-open interval [a, b) and returns an
IntervalCriterion with them. The interval can be open on either end by
providing -Inf and/or +Inf.
*/
func NewIntervalCriterion(attribute *Numeric, a, b float64) IntervalCriterion {
	return &intervalCriterion{attribute, a, b}
}

/*
NewAbsentCriterion takes an attribute and returns a Criterion on it that
every sample satisfies.
*/
func NewAbsentCriterion(attribute Attribute) AbsentCriterion {
	return &absentCriterion{attribute}
}

/*
Attribute returns the attribute the constraint applies to.
*/
func (ec *equalsCriterion) Attribute() Attribute {
	return ec.attribute
}

/*
SatisfiedBy takes a sample and returns true when the sample's value for
the attribute is the string the criterion holds, false when the value is
absent, not a string or a different string.
*/
func (ec *equalsCriterion) SatisfiedBy(ctx context.Context, sample Sample) (bool, error) {
	val, err := sample.ValueFor(ctx, ec.attribute)
	if err != nil {
		return false, err
	}
	if val == nil {
		return false, nil
	}
	stringVal, ok := val.(string)
	if !ok {
		return false, nil
	}
	return ec.value == stringVal, nil
}

func (ec *equalsCriterion) Value() string {
	return ec.value
}

func (ec *equalsCriterion) String() string {
	return fmt.Sprintf("%s is %s", ec.attribute.Name(), ec.value)
}

/*
Attribute returns the attribute the constraint applies to.
*/
func (ic *intervalCriterion) Attribute() Attribute {
	return ic.attribute
}

/*
SatisfiedBy takes a sample and returns true when the sample's value for
the attribute is a float64 inside the criterion's interval, false when the
value is absent, not a float64 or outside it.
*/
func (ic *intervalCriterion) SatisfiedBy(ctx context.Context, sample Sample) (bool, error) {
	val, err := sample.ValueFor(ctx, ic.attribute)
	if err != nil {
		return false, err
	}
	if val == nil {
		return false, nil
	}
	floatVal, ok := val.(float64)
	if !ok {
		return false, nil
	}
	return (math.IsInf(ic.a, 0) || ic.a <= floatVal) && (math.IsInf(ic.b, 0) || floatVal < ic.b), nil
}

func (ic *intervalCriterion) Interval() (float64, float64) {
	return ic.a, ic.b
}

func (ic *intervalCriterion) String() string {
	if math.IsInf(ic.a, 0) {
		return fmt.Sprintf("%s < %f", ic.attribute.Name(), ic.b)
	}
	if math.IsInf(ic.b, 0) {
		return fmt.Sprintf("%f <= %s", ic.a, ic.attribute.Name())
	}
	return fmt.Sprintf("%f <= %s < %f", ic.a, ic.attribute.Name(), ic.b)
}

func (ac *absentCriterion) Attribute() Attribute {
	return ac.attribute
}

func (ac *absentCriterion) SatisfiedBy(context.Context, Sample) (bool, error) {
	return true, nil
}

func (ac *absentCriterion) IsAbsentCriterion() bool {
	return true
}

func (ac *absentCriterion) String() string {
	return fmt.Sprintf("%s not defined", ac.attribute.Name())
}
