package dataset

import (
	"context"
	"fmt"

	"github.com/grovekit/grove/attribute"
	"github.com/grovekit/grove/entropy"
)

const (
	sampleCountThresholdForDatasetImplementation = 1000
)

/*
Dataset represents a collection of labeled samples.

Its Entropy method returns the entropy in bits of the dataset for a given
label attribute: a measure of the uncertainty about the label of samples
belonging to it.

Its ClassProbabilities method returns the proportions of the distinct
label values among its samples.

Its SubsetWith method takes an attribute.Criterion and returns a subset
that only contains samples satisfying it.

Its Samples method returns the samples it contains.
*/
type Dataset interface {
	Entropy(context.Context, attribute.Attribute) (float64, error)
	ClassProbabilities(context.Context, attribute.Attribute) ([]float64, error)
	SubsetWith(context.Context, attribute.Criterion) (Dataset, error)
	AttributeValues(context.Context, attribute.Attribute) ([]interface{}, error)
	CountAttributeValues(context.Context, attribute.Attribute) (map[string]int, error)
	Samples(context.Context) ([]Sample, error)
	Count(context.Context) (int, error)
	Criteria(context.Context) ([]attribute.Criterion, error)
}

type memoryIntensiveSubsettingDataset struct {
	entropy  *float64
	samples  []Sample
	criteria []attribute.Criterion
}

type cpuIntensiveSubsettingDataset struct {
	entropy  *float64
	count    *int
	samples  []Sample
	criteria []attribute.Criterion
}

/*
New takes a slice of samples and returns a dataset built with them.
The dataset will be a CPU intensive one when the number of samples is
over sampleCountThresholdForDatasetImplementation.
*/
func New(samples []Sample) Dataset {
	if len(samples) > sampleCountThresholdForDatasetImplementation {
		return &cpuIntensiveSubsettingDataset{nil, nil, samples, []attribute.Criterion{}}
	}
	return &memoryIntensiveSubsettingDataset{nil, samples, nil}
}

/*
NewMemoryIntensive takes a slice of samples and returns a Dataset built
with them. A memory-intensive dataset replicates the slice of samples when
subsetting to reduce calculations at the cost of increased memory.
*/
func NewMemoryIntensive(samples []Sample) Dataset {
	return &memoryIntensiveSubsettingDataset{nil, samples, nil}
}

/*
NewCPUIntensive takes a slice of samples and returns a Dataset built with
them. A cpu-intensive dataset stores the applying attribute criteria
instead of replicating the samples when subsetting, keeping the original
sample slice. This can achieve a drastic reduction in memory use at the
cost of CPU time: every calculation that goes over the samples of the
dataset will apply its criteria on all original samples.
*/
func NewCPUIntensive(samples []Sample) Dataset {
	return &cpuIntensiveSubsettingDataset{nil, nil, samples, []attribute.Criterion{}}
}

func (ds *memoryIntensiveSubsettingDataset) Count(ctx context.Context) (int, error) {
	return len(ds.samples), nil
}

func (ds *cpuIntensiveSubsettingDataset) Count(ctx context.Context) (int, error) {
	if ds.count != nil {
		return *ds.count, nil
	}
	var length int
	err := ds.iterateOnDataset(ctx, func(_ Sample) (bool, error) {
		length++
		return true, nil
	})
	if err != nil {
		return 0, err
	}
	ds.count = &length
	return length, nil
}

func (ds *memoryIntensiveSubsettingDataset) Entropy(ctx context.Context, label attribute.Attribute) (float64, error) {
	if ds.entropy != nil {
		return *ds.entropy, nil
	}
	counts, err := ds.CountAttributeValues(ctx, label)
	if err != nil {
		return 0.0, err
	}
	result := entropy.OfCounts(counts)
	ds.entropy = &result
	return result, nil
}

func (ds *cpuIntensiveSubsettingDataset) Entropy(ctx context.Context, label attribute.Attribute) (float64, error) {
	if ds.entropy != nil {
		return *ds.entropy, nil
	}
	counts, err := ds.CountAttributeValues(ctx, label)
	if err != nil {
		return 0.0, err
	}
	result := entropy.OfCounts(counts)
	ds.entropy = &result
	return result, nil
}

func (ds *memoryIntensiveSubsettingDataset) ClassProbabilities(ctx context.Context, label attribute.Attribute) ([]float64, error) {
	return classProbabilities(ctx, ds, label)
}

func (ds *cpuIntensiveSubsettingDataset) ClassProbabilities(ctx context.Context, label attribute.Attribute) ([]float64, error) {
	return classProbabilities(ctx, ds, label)
}

func (ds *memoryIntensiveSubsettingDataset) AttributeValues(ctx context.Context, a attribute.Attribute) ([]interface{}, error) {
	result := []interface{}{}
	encountered := make(map[string]bool)
	for _, sample := range ds.samples {
		v, err := sample.ValueFor(ctx, a)
		if err != nil {
			return nil, err
		}
		vString := fmt.Sprintf("%v", v)
		if !encountered[vString] {
			encountered[vString] = true
			result = append(result, v)
		}
	}
	return result, nil
}

func (ds *cpuIntensiveSubsettingDataset) AttributeValues(ctx context.Context, a attribute.Attribute) ([]interface{}, error) {
	result := []interface{}{}
	encountered := make(map[string]bool)
	err := ds.iterateOnDataset(ctx, func(sample Sample) (bool, error) {
		v, err := sample.ValueFor(ctx, a)
		if err != nil {
			return false, err
		}
		vString := fmt.Sprintf("%v", v)
		if !encountered[vString] {
			encountered[vString] = true
			result = append(result, v)
		}
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (ds *memoryIntensiveSubsettingDataset) SubsetWith(ctx context.Context, c attribute.Criterion) (Dataset, error) {
	var samples []Sample
	for _, sample := range ds.samples {
		ok, err := c.SatisfiedBy(ctx, sample)
		if err != nil {
			return nil, err
		}
		if ok {
			samples = append(samples, sample)
		}
	}
	return &memoryIntensiveSubsettingDataset{nil, samples, append([]attribute.Criterion{c}, ds.criteria...)}, nil
}

func (ds *cpuIntensiveSubsettingDataset) SubsetWith(ctx context.Context, c attribute.Criterion) (Dataset, error) {
	criteria := append([]attribute.Criterion{c}, ds.criteria...)
	return &cpuIntensiveSubsettingDataset{nil, nil, ds.samples, criteria}, nil
}

func (ds *memoryIntensiveSubsettingDataset) Samples(ctx context.Context) ([]Sample, error) {
	return ds.samples, nil
}

func (ds *cpuIntensiveSubsettingDataset) Samples(ctx context.Context) ([]Sample, error) {
	var samples []Sample
	err := ds.iterateOnDataset(ctx, func(sample Sample) (bool, error) {
		samples = append(samples, sample)
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return samples, nil
}

func (ds *memoryIntensiveSubsettingDataset) CountAttributeValues(ctx context.Context, a attribute.Attribute) (map[string]int, error) {
	result := make(map[string]int)
	for _, sample := range ds.samples {
		v, err := sample.ValueFor(ctx, a)
		if err != nil {
			return nil, err
		}
		if v == nil {
			continue
		}
		result[fmt.Sprintf("%v", v)]++
	}
	return result, nil
}

func (ds *cpuIntensiveSubsettingDataset) CountAttributeValues(ctx context.Context, a attribute.Attribute) (map[string]int, error) {
	result := make(map[string]int)
	err := ds.iterateOnDataset(ctx, func(sample Sample) (bool, error) {
		v, err := sample.ValueFor(ctx, a)
		if err != nil {
			return false, err
		}
		if v != nil {
			result[fmt.Sprintf("%v", v)]++
		}
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (ds *memoryIntensiveSubsettingDataset) Criteria(ctx context.Context) ([]attribute.Criterion, error) {
	return ds.criteria, nil
}

func (ds *cpuIntensiveSubsettingDataset) Criteria(ctx context.Context) ([]attribute.Criterion, error) {
	return ds.criteria, nil
}

func (ds *cpuIntensiveSubsettingDataset) iterateOnDataset(ctx context.Context, lambda func(Sample) (bool, error)) error {
	for _, sample := range ds.samples {
		skip := false
		for _, criterion := range ds.criteria {
			ok, err := criterion.SatisfiedBy(ctx, sample)
			if err != nil {
				return err
			}
			if !ok {
				skip = true
				break
			}
		}
		if !skip {
			ok, err := lambda(sample)
			if err != nil {
				return err
			}
			if !ok {
				break
			}
		}
	}
	return nil
}

func classProbabilities(ctx context.Context, ds Dataset, label attribute.Attribute) ([]float64, error) {
	counts, err := ds.CountAttributeValues(ctx, label)
	if err != nil {
		return nil, err
	}
	var total float64
	for _, c := range counts {
		total += float64(c)
	}
	if total == 0 {
		return nil, entropy.ErrNoLabels
	}
	probs := make([]float64, 0, len(counts))
	for _, c := range counts {
		probs = append(probs, float64(c)/total)
	}
	return probs, nil
}
