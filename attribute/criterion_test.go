package attribute

import (
	"context"
	"math"
	"testing"
)

type mapSample map[string]interface{}

func (ms mapSample) ValueFor(_ context.Context, a Attribute) (interface{}, error) {
	return ms[a.Name()], nil
}

func TestEqualsCriterionSatisfiedBy(t *testing.T) {
	level := NewCategorical("level", []string{"Senior", "Mid", "Junior"})
	c := NewEqualsCriterion(level, "Senior")
	ctx := context.Background()

	tests := []struct {
		name     string
		sample   mapSample
		expected bool
	}{
		{"matching value", mapSample{"level": "Senior"}, true},
		{"different value", mapSample{"level": "Junior"}, false},
		{"absent value", mapSample{}, false},
		{"non-string value", mapSample{"level": 3.0}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := c.SatisfiedBy(ctx, tt.sample)
			if err != nil {
				t.Fatalf("SatisfiedBy returned error: %v", err)
			}
			if ok != tt.expected {
				t.Errorf("SatisfiedBy(%v) = %v, expected %v", tt.sample, ok, tt.expected)
			}
		})
	}
}

func TestIntervalCriterionSatisfiedBy(t *testing.T) {
	commits := NewNumeric("commits")
	ctx := context.Background()

	tests := []struct {
		name     string
		a, b     float64
		sample   mapSample
		expected bool
	}{
		{"inside interval", 1.0, 5.0, mapSample{"commits": 3.0}, true},
		{"at interval start", 1.0, 5.0, mapSample{"commits": 1.0}, true},
		{"at interval end", 1.0, 5.0, mapSample{"commits": 5.0}, false},
		{"open lower end", math.Inf(-1), 5.0, mapSample{"commits": -100.0}, true},
		{"open upper end", 1.0, math.Inf(1), mapSample{"commits": 100.0}, true},
		{"absent value", 1.0, 5.0, mapSample{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewIntervalCriterion(commits, tt.a, tt.b)
			ok, err := c.SatisfiedBy(ctx, tt.sample)
			if err != nil {
				t.Fatalf("SatisfiedBy returned error: %v", err)
			}
			if ok != tt.expected {
				t.Errorf("SatisfiedBy(%v) = %v, expected %v", tt.sample, ok, tt.expected)
			}
		})
	}
}

func TestAbsentCriterionSatisfiedByAnySample(t *testing.T) {
	phd := NewCategorical("phd", []string{"yes", "no"})
	c := NewAbsentCriterion(phd)
	ctx := context.Background()
	for _, s := range []mapSample{{"phd": "yes"}, {"phd": "maybe"}, {}} {
		ok, err := c.SatisfiedBy(ctx, s)
		if err != nil {
			t.Fatalf("SatisfiedBy returned error: %v", err)
		}
		if !ok {
			t.Errorf("absent criterion not satisfied by %v", s)
		}
	}
}

func TestCategoricalValidate(t *testing.T) {
	lang := NewCategorical("lang", []string{"Java", "Python", "R"})
	if ok, err := lang.Validate("Python"); !ok || err != nil {
		t.Errorf("Validate(Python) = %v, %v; expected true, nil", ok, err)
	}
	if ok, err := lang.Validate(nil); !ok || err != nil {
		t.Errorf("Validate(nil) = %v, %v; expected true, nil", ok, err)
	}
	if ok, err := lang.Validate("Perl"); ok || err == nil {
		t.Errorf("Validate(Perl) = %v, %v; expected false with error", ok, err)
	}
	if ok, err := lang.Validate(1.0); ok || err == nil {
		t.Errorf("Validate(1.0) = %v, %v; expected false with error", ok, err)
	}
}

func TestNumericValidate(t *testing.T) {
	commits := NewNumeric("commits")
	if ok, err := commits.Validate(12.0); !ok || err != nil {
		t.Errorf("Validate(12.0) = %v, %v; expected true, nil", ok, err)
	}
	if ok, err := commits.Validate("12"); ok || err == nil {
		t.Errorf("Validate(\"12\") = %v, %v; expected false with error", ok, err)
	}
}
