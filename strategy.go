package grove

import (
	"context"
	"math"

	"github.com/grovekit/grove/attribute"
	"github.com/grovekit/grove/dataset"
)

// GrowStrategy holds the configuration for when a node
// should not be partitioned further or at all.
type GrowStrategy struct {
	// Pruner is applied during the partition
	// of a node's dataset with an attribute to determine
	// if the result is worth incorporating
	// into the tree.
	Pruner
	// MinimumEntropy is the maximum value of
	// entropy for a node that prevents it from
	// being developed at all. In other words,
	// nodes whose training dataset has an
	// entropy equal or below this will not be
	// developed.
	MinimumEntropy float64
}

/*
Pruner is an interface wrapping the Prune method, that can be used
to decide whether a partition is good enough to become part of a tree
or if it must be pruned instead.

The Prune method takes a context, a dataset, a partition and a label
attribute and returns a boolean: true to indicate the partition must be
pruned, false to allow its adding to the tree and further development.
*/
type Pruner interface {
	Prune(ctx context.Context, ds dataset.Dataset, p *Partition, label attribute.Attribute) (bool, error)
}

/*
PrunerFunc wraps a function with the Prune method signature to implement
the Pruner interface
*/
type PrunerFunc func(ctx context.Context, ds dataset.Dataset, p *Partition, label attribute.Attribute) (bool, error)

/*
Prune takes a context.Context, a dataset, a partition and a label
attribute and invokes the PrunerFunc with those parameters to return its
boolean result.
*/
func (pf PrunerFunc) Prune(ctx context.Context, ds dataset.Dataset, p *Partition, label attribute.Attribute) (bool, error) {
	return pf(ctx, ds, p, label)
}

/*
DefaultPruner returns a Pruner whose Prune method evaluates a minimum
information gain for the partition and returns true if the partition
information gain is below this minimum and false otherwise.
This minimum is calculated as
(1/N) x [ log2(N-1) + log2(3^k-2) - k x Entropy(S) + k1 x Entropy(S1) + k2 x Entropy(S2) ... + ki x Entropy(Si) ]
with
  - N being the number of samples in the dataset
  - k being the number of different values for the label attribute on the dataset
  - k1, k2, ... ki being the number of different values for the label attribute on the subset for the partition subtree 1, 2, ... i
  - S1, S2, ... Si being the subdataset for the partition subtree 1, 2, ... i
*/
func DefaultPruner() Pruner {
	return PrunerFunc(func(ctx context.Context, ds dataset.Dataset, p *Partition, label attribute.Attribute) (bool, error) {
		count, err := ds.Count(ctx)
		if err != nil {
			return false, err
		}
		n := float64(count)
		avs, err := ds.AttributeValues(ctx, label)
		if err != nil {
			return false, err
		}
		k := float64(len(avs))
		dsEntropy, err := ds.Entropy(ctx, label)
		if err != nil {
			return false, err
		}
		minimum := math.Log2(n-1.0) + math.Log2(math.Pow(3.0, k)-2) - k*dsEntropy
		for _, st := range p.Tasks {
			stEntropy, err := st.Dataset.Entropy(ctx, label)
			if err != nil {
				return false, err
			}
			stavs, err := st.Dataset.AttributeValues(ctx, label)
			if err != nil {
				return false, err
			}
			minimum += float64(len(stavs)) * stEntropy
		}
		minimum = minimum / n
		return minimum > p.informationGain, nil
	})
}

/*
FixedInformationGainPruner takes an informationGainThreshold float64
value and returns a Pruner whose Prune method returns whether the
informationGainThreshold is greater or equal to the received partition's
information gain
*/
func FixedInformationGainPruner(informationGainThreshold float64) Pruner {
	return PrunerFunc(func(ctx context.Context, ds dataset.Dataset, p *Partition, label attribute.Attribute) (bool, error) {
		return informationGainThreshold >= p.informationGain, nil
	})
}

/*
NoPruner returns a Pruner whose Prune method always returns false, that
is, never prunes.
*/
func NoPruner() Pruner {
	return PrunerFunc(func(ctx context.Context, ds dataset.Dataset, p *Partition, label attribute.Attribute) (bool, error) {
		return false, nil
	})
}
