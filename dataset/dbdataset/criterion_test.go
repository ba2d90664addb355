package dbdataset

import (
	"math"
	"testing"

	"github.com/grovekit/grove/attribute"
)

func identityColumns(name string) (string, error) {
	return name, nil
}

func TestNewSampleCriteriaForEqualsCriterion(t *testing.T) {
	level := attribute.NewCategorical("level", []string{"Senior", "Mid", "Junior"})
	scs, err := NewSampleCriteria(attribute.NewEqualsCriterion(level, "Mid"), identityColumns)
	if err != nil {
		t.Fatalf("NewSampleCriteria returned error: %v", err)
	}
	if len(scs) != 1 {
		t.Fatalf("expected 1 condition, got %d", len(scs))
	}
	if scs[0].Column != "level" || scs[0].Operator != "=" || scs[0].Value != "Mid" {
		t.Errorf("expected level = Mid, got %s %s %v", scs[0].Column, scs[0].Operator, scs[0].Value)
	}
}

func TestNewSampleCriteriaForIntervalCriterion(t *testing.T) {
	commits := attribute.NewNumeric("commits")
	tests := []struct {
		name      string
		a, b      float64
		operators []string
	}{
		{"bounded interval", 10.0, 100.0, []string{">=", "<"}},
		{"open lower end", math.Inf(-1), 100.0, []string{"<"}},
		{"open upper end", 10.0, math.Inf(1), []string{">="}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scs, err := NewSampleCriteria(attribute.NewIntervalCriterion(commits, tt.a, tt.b), identityColumns)
			if err != nil {
				t.Fatalf("NewSampleCriteria returned error: %v", err)
			}
			if len(scs) != len(tt.operators) {
				t.Fatalf("expected %d conditions, got %d", len(tt.operators), len(scs))
			}
			for i, op := range tt.operators {
				if scs[i].Operator != op {
					t.Errorf("expected operator %s at position %d, got %s", op, i, scs[i].Operator)
				}
				if scs[i].Column != "commits" {
					t.Errorf("expected column commits, got %s", scs[i].Column)
				}
			}
		})
	}
}

func TestNewSampleCriteriaForAbsentCriterion(t *testing.T) {
	phd := attribute.NewCategorical("phd", []string{"yes", "no"})
	scs, err := NewSampleCriteria(attribute.NewAbsentCriterion(phd), identityColumns)
	if err != nil {
		t.Fatalf("NewSampleCriteria returned error: %v", err)
	}
	if len(scs) != 0 {
		t.Errorf("expected no conditions for absent criterion, got %v", scs)
	}
}
