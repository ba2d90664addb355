package dataset

import (
	"context"
	"math"
	"testing"

	"github.com/grovekit/grove/attribute"
	"github.com/grovekit/grove/entropy"
)

const tolerance = 1e-9

var (
	levelAttr = attribute.NewCategorical("level", []string{"Senior", "Mid", "Junior"})
	langAttr  = attribute.NewCategorical("lang", []string{"Java", "Python", "R"})
	hireAttr  = attribute.NewCategorical("hire", []string{"true", "false"})
)

// hiringSamples is the four-candidate dataset: two hires, two rejections.
func hiringSamples() []Sample {
	return []Sample{
		NewSample(map[string]interface{}{"level": "Senior", "lang": "Java", "tweets": "no", "phd": "no", "hire": "false"}),
		NewSample(map[string]interface{}{"level": "Senior", "lang": "R", "tweets": "yes", "phd": "no", "hire": "false"}),
		NewSample(map[string]interface{}{"level": "Mid", "lang": "Python", "tweets": "no", "phd": "no", "hire": "true"}),
		NewSample(map[string]interface{}{"level": "Junior", "lang": "Python", "tweets": "no", "phd": "yes", "hire": "true"}),
	}
}

func datasets() map[string]Dataset {
	return map[string]Dataset{
		"memory-intensive": NewMemoryIntensive(hiringSamples()),
		"cpu-intensive":    NewCPUIntensive(hiringSamples()),
	}
}

func TestEntropyOfEvenlyLabeledDataset(t *testing.T) {
	ctx := context.Background()
	for name, ds := range datasets() {
		t.Run(name, func(t *testing.T) {
			e, err := ds.Entropy(ctx, hireAttr)
			if err != nil {
				t.Fatalf("Entropy returned error: %v", err)
			}
			if math.Abs(e-1.0) > tolerance {
				t.Errorf("entropy of 2-2 labeled dataset = %v, expected 1.0", e)
			}
		})
	}
}

func TestClassProbabilities(t *testing.T) {
	ctx := context.Background()
	for name, ds := range datasets() {
		t.Run(name, func(t *testing.T) {
			probs, err := ds.ClassProbabilities(ctx, hireAttr)
			if err != nil {
				t.Fatalf("ClassProbabilities returned error: %v", err)
			}
			if len(probs) != 2 {
				t.Fatalf("expected 2 proportions, got %v", probs)
			}
			for _, p := range probs {
				if math.Abs(p-0.5) > tolerance {
					t.Errorf("expected proportions 0.5 and 0.5, got %v", probs)
				}
			}
		})
	}
}

func TestClassProbabilitiesOfEmptySubset(t *testing.T) {
	ctx := context.Background()
	for name, ds := range datasets() {
		t.Run(name, func(t *testing.T) {
			subset, err := ds.SubsetWith(ctx, attribute.NewEqualsCriterion(langAttr, "Java"))
			if err != nil {
				t.Fatalf("SubsetWith returned error: %v", err)
			}
			subset, err = subset.SubsetWith(ctx, attribute.NewEqualsCriterion(levelAttr, "Junior"))
			if err != nil {
				t.Fatalf("SubsetWith returned error: %v", err)
			}
			count, err := subset.Count(ctx)
			if err != nil {
				t.Fatalf("Count returned error: %v", err)
			}
			if count != 0 {
				t.Fatalf("expected empty subset, got %d samples", count)
			}
			if _, err = subset.ClassProbabilities(ctx, hireAttr); err != entropy.ErrNoLabels {
				t.Errorf("expected ErrNoLabels for empty subset, got %v", err)
			}
		})
	}
}

func TestSubsetWithSeparatesLabels(t *testing.T) {
	ctx := context.Background()
	for name, ds := range datasets() {
		t.Run(name, func(t *testing.T) {
			seniors, err := ds.SubsetWith(ctx, attribute.NewEqualsCriterion(levelAttr, "Senior"))
			if err != nil {
				t.Fatalf("SubsetWith returned error: %v", err)
			}
			count, err := seniors.Count(ctx)
			if err != nil {
				t.Fatalf("Count returned error: %v", err)
			}
			if count != 2 {
				t.Errorf("expected 2 senior candidates, got %d", count)
			}
			e, err := seniors.Entropy(ctx, hireAttr)
			if err != nil {
				t.Fatalf("Entropy returned error: %v", err)
			}
			if e != 0.0 {
				t.Errorf("entropy of unanimous subset = %v, expected 0.0", e)
			}
			criteria, err := seniors.Criteria(ctx)
			if err != nil {
				t.Fatalf("Criteria returned error: %v", err)
			}
			if len(criteria) != 1 {
				t.Errorf("expected 1 criterion on subset, got %d", len(criteria))
			}
		})
	}
}

func TestCountAttributeValues(t *testing.T) {
	ctx := context.Background()
	for name, ds := range datasets() {
		t.Run(name, func(t *testing.T) {
			counts, err := ds.CountAttributeValues(ctx, levelAttr)
			if err != nil {
				t.Fatalf("CountAttributeValues returned error: %v", err)
			}
			expected := map[string]int{"Senior": 2, "Mid": 1, "Junior": 1}
			for v, c := range expected {
				if counts[v] != c {
					t.Errorf("expected %d samples with level %s, got %d", c, v, counts[v])
				}
			}
		})
	}
}

func TestNewPicksImplementationBySampleCount(t *testing.T) {
	small := New(hiringSamples())
	if _, ok := small.(*memoryIntensiveSubsettingDataset); !ok {
		t.Errorf("expected memory-intensive dataset for small sample count, got %T", small)
	}
	samples := make([]Sample, 0, sampleCountThresholdForDatasetImplementation+1)
	for i := 0; i <= sampleCountThresholdForDatasetImplementation; i++ {
		samples = append(samples, NewSample(map[string]interface{}{"hire": "true"}))
	}
	large := New(samples)
	if _, ok := large.(*cpuIntensiveSubsettingDataset); !ok {
		t.Errorf("expected cpu-intensive dataset for large sample count, got %T", large)
	}
}
