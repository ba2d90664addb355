package grove

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/grovekit/grove/attribute"
	"github.com/grovekit/grove/dataset"
	"github.com/grovekit/grove/queue"
	"github.com/grovekit/grove/tree"
)

/*
Partition represents a partition of a dataset according to an attribute
into subtrees with an information gain to predict the label attribute.

The information gain is the entropy of the dataset minus the weighted
average of the entropies of the subsets, each weighted by the fraction
of samples it holds. Maximizing the information gain is the same as
minimizing the weighted entropy of the partition.
*/
type Partition struct {
	Attribute       attribute.Attribute
	Tasks           []*queue.Task
	informationGain float64
}

/*
NewCategoricalPartition takes a context.Context, a dataset, a categorical
attribute, a label attribute and a pruner and returns a partition of the
dataset with a subset per attribute value. The result may be nil if the
obtained information gain is considered insufficient.

The returned partition includes a task for samples without a value for
the attribute, whose dataset is the whole given dataset: the subtree
grown from it answers for samples the other criteria cannot route.
*/
func NewCategoricalPartition(ctx context.Context, ds dataset.Dataset, at *attribute.Categorical, label attribute.Attribute, p Pruner) (*Partition, error) {
	values := at.Values()
	tasks := make([]*queue.Task, 0, len(values)+1)
	informationGain, err := ds.Entropy(ctx, label)
	if err != nil {
		return nil, err
	}
	count, err := ds.Count(ctx)
	if err != nil {
		return nil, err
	}
	totalCount := float64(count)
	for _, value := range values {
		n := &tree.Node{Criterion: attribute.NewEqualsCriterion(at, value)}
		nds, err := ds.SubsetWith(ctx, n.Criterion)
		if err != nil {
			return nil, err
		}
		task := &queue.Task{
			Node:    n,
			Dataset: nds,
		}
		tasks = append(tasks, task)
		nEntropy, err := nds.Entropy(ctx, label)
		if err != nil {
			return nil, err
		}
		subtreeCount, err := nds.Count(ctx)
		if err != nil {
			return nil, err
		}
		informationGain -= nEntropy * float64(subtreeCount) / totalCount
	}
	result := &Partition{at, tasks, informationGain}
	ok, err := p.Prune(ctx, ds, result, label)
	if err != nil {
		return nil, err
	}
	if ok {
		return nil, nil
	}
	task := &queue.Task{
		Node:    &tree.Node{Criterion: attribute.NewAbsentCriterion(at)},
		Dataset: ds,
	}
	result.Tasks = append(result.Tasks, task)
	return result, nil
}

/*
NewNumericPartition takes a context.Context, a dataset, a numeric
attribute, a label attribute and a pruner and returns a partition of the
dataset into intervals of the attribute's values. The result may be nil
if the obtained information gain is considered insufficient.
*/
func NewNumericPartition(ctx context.Context, ds dataset.Dataset, at *attribute.Numeric, label attribute.Attribute, p Pruner) (*Partition, error) {
	dsEntropy, err := ds.Entropy(ctx, label)
	if err != nil {
		return nil, err
	}
	result, err := newNumericPartition(ctx, ds, at, label, dsEntropy, math.Inf(-1), math.Inf(1), p)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, nil
	}
	ok, err := p.Prune(ctx, ds, result, label)
	if err != nil {
		return nil, err
	}
	if ok {
		return nil, nil
	}
	task := &queue.Task{
		Node:    &tree.Node{Criterion: attribute.NewAbsentCriterion(at)},
		Dataset: ds,
	}
	result.Tasks = append(result.Tasks, task)
	return result, nil
}

func partition(ctx context.Context, ds dataset.Dataset, at attribute.Attribute, label attribute.Attribute, p Pruner) (*Partition, error) {
	switch at := at.(type) {
	default:
		return nil, fmt.Errorf("unknown attribute type %T for attribute %v", at, at.Name())
	case *attribute.Categorical:
		return NewCategoricalPartition(ctx, ds, at, label, p)
	case *attribute.Numeric:
		return NewNumericPartition(ctx, ds, at, label, p)
	}
}

/*
newIntervalPartition returns the partition of the given interval in 2
parts that generates the most information gain. Candidate thresholds are
the midpoints between consecutive distinct values of the attribute on
the dataset.
*/
func newIntervalPartition(ctx context.Context, ds dataset.Dataset, at *attribute.Numeric, label attribute.Attribute, dsEntropy, a, b float64) (*Partition, error) {
	var floatValues []float64
	avs, err := ds.AttributeValues(ctx, at)
	if err != nil {
		return nil, err
	}
	for _, v := range avs {
		vf, ok := v.(float64)
		if !ok {
			continue
		}
		floatValues = append(floatValues, vf)
	}
	if len(floatValues) < 2 {
		return nil, nil
	}
	sort.Float64s(floatValues)
	count, err := ds.Count(ctx)
	if err != nil {
		return nil, err
	}
	totalCount := float64(count)
	var result *Partition
	for i, vf := range floatValues[1:] {
		threshold := (floatValues[i] + vf) / 2.0

		n := &tree.Node{Criterion: attribute.NewIntervalCriterion(at, a, threshold)}
		nds, err := ds.SubsetWith(ctx, n.Criterion)
		if err != nil {
			return nil, err
		}
		t1 := &queue.Task{
			Node:    n,
			Dataset: nds,
		}

		n = &tree.Node{Criterion: attribute.NewIntervalCriterion(at, threshold, b)}
		nds, err = ds.SubsetWith(ctx, n.Criterion)
		if err != nil {
			return nil, err
		}
		t2 := &queue.Task{
			Node:    n,
			Dataset: nds,
		}
		tasks := []*queue.Task{t1, t2}
		informationGain := dsEntropy
		for _, task := range tasks {
			taskEntropy, err := task.Dataset.Entropy(ctx, label)
			if err != nil {
				return nil, err
			}
			taskCount, err := task.Dataset.Count(ctx)
			if err != nil {
				return nil, err
			}
			informationGain -= taskEntropy * float64(taskCount) / totalCount
		}
		if result == nil || result.informationGain < informationGain {
			result = &Partition{at, tasks, informationGain}
		}
	}
	return result, nil
}

/*
newNumericPartition takes a context.Context, a dataset, a numeric
attribute, a label attribute, the entropy of the given dataset, an
interval of float64 numbers a-b and a pruner and returns a partition of
the dataset for the given interval or an error.
The partition is built using newIntervalPartition to split the interval
into 2 intervals and then recursively calling itself until the interval
can no longer be split or the pruner prunes the obtained partition.
*/
func newNumericPartition(ctx context.Context, ds dataset.Dataset, at *attribute.Numeric, label attribute.Attribute, dsEntropy, a, b float64, p Pruner) (*Partition, error) {
	initialPartition, err := newIntervalPartition(ctx, ds, at, label, dsEntropy, a, b)
	if err != nil {
		return nil, err
	}
	if initialPartition == nil {
		return nil, nil
	}
	ok, err := p.Prune(ctx, ds, initialPartition, label)
	if err != nil {
		return nil, err
	}
	if ok {
		return nil, nil
	}
	var resultTasks []*queue.Task
	informationGain := dsEntropy
	count, err := ds.Count(ctx)
	if err != nil {
		return nil, err
	}
	totalCount := float64(count)
	for _, task := range initialPartition.Tasks {
		ic, _ := task.Node.Criterion.(attribute.IntervalCriterion)
		a, b := ic.Interval()
		subsetEntropy, err := task.Dataset.Entropy(ctx, label)
		if err != nil {
			return nil, err
		}
		subpartition, err := newNumericPartition(ctx, task.Dataset, at, label, subsetEntropy, a, b, p)
		if err != nil {
			return nil, err
		}
		if subpartition == nil {
			taskCount, err := task.Dataset.Count(ctx)
			if err != nil {
				return nil, err
			}
			resultTasks = append(resultTasks, task)
			informationGain -= subsetEntropy * float64(taskCount) / totalCount
		} else {
			for _, st := range subpartition.Tasks {
				stEntropy, err := st.Dataset.Entropy(ctx, label)
				if err != nil {
					return nil, err
				}
				stCount, err := st.Dataset.Count(ctx)
				if err != nil {
					return nil, err
				}
				informationGain -= stEntropy * float64(stCount) / totalCount
				resultTasks = append(resultTasks, st)
			}
		}
	}
	return &Partition{at, resultTasks, informationGain}, nil
}
