package tree

import (
	"context"
	"fmt"
	"strings"

	"github.com/grovekit/grove/attribute"
	"github.com/grovekit/grove/dataset"
)

// Tree represents a decision tree. It is composed of a NodeStore where
// all its nodes are kept, the id for the root node of the tree and the
// label attribute it predicts.
type Tree struct {
	NodeStore
	RootID string
	Label  attribute.Attribute
}

// New takes the ID for the root Node, a NodeStore and a label attribute
// and returns a tree composed of the nodes in the NodeStore connected to
// the node with the given root ID that predicts the given label.
func New(rootID string, nodeStore NodeStore, label attribute.Attribute) *Tree {
	return &Tree{nodeStore, rootID, label}
}

// Predict takes a sample and returns a prediction according to the tree
// and an error if the prediction could not be made.
//
// At each decision node the sample selects the child whose criterion it
// satisfies. A sample whose value for the split attribute is missing, or
// was never seen while growing the tree, satisfies no equals or interval
// criterion and falls through to the absent-attribute child, whose
// subtree was grown on the whole parent dataset.
func (t *Tree) Predict(ctx context.Context, s attribute.Sample) (*Prediction, error) {
	if t == nil {
		return nil, fmt.Errorf("nil tree cannot predict samples")
	}
	n, err := t.Get(ctx, t.RootID)
	if err != nil {
		return nil, fmt.Errorf("predicting sample: retrieving node %v: %v", t.RootID, err)
	}
	if n == nil {
		return nil, fmt.Errorf("predicting sample: root node %v not found", t.RootID)
	}
	for {
		if n.SplitAttribute == nil {
			break
		}
		var selectedNode *Node
		for _, nID := range n.SubtreeIDs {
			subnode, err := t.Get(ctx, nID)
			if err != nil {
				return nil, fmt.Errorf("predicting sample: retrieving node %v: %v", nID, err)
			}
			if subnode == nil {
				return nil, fmt.Errorf("predicting sample: node %v not found", nID)
			}
			if subnode.Criterion != nil {
				ok, err := subnode.Criterion.SatisfiedBy(ctx, s)
				if err != nil {
					return nil, err
				}
				if ok {
					selectedNode = subnode
					if _, ok = subnode.Criterion.(attribute.AbsentCriterion); !ok {
						break
					}
				}
			}
		}
		if selectedNode == nil {
			return nil, fmt.Errorf("sample does not satisfy any subtree criteria on attribute %s", n.SplitAttribute.Name())
		}
		n = selectedNode
	}
	if n.Prediction != nil {
		return n.Prediction, nil
	}
	return nil, ErrCannotPredictFromSample
}

/*
Test takes a context.Context and a dataset and returns three values:
  - the prediction success rate of the tree for its label over the
    samples of the given dataset
  - the number of samples the tree could not predict because of
    ErrCannotPredictFromSample errors
  - an error if a prediction failed for reasons other than the tree not
    being able to make it. If this is not nil, the other values will be
    0.0 and 0 respectively.
*/
func (t *Tree) Test(ctx context.Context, ds dataset.Dataset) (float64, int, error) {
	if t == nil {
		return 0.0, 0, nil
	}
	var result float64
	var errCount int
	samples, err := ds.Samples(ctx)
	if err != nil {
		return 0.0, 0, err
	}
	count, err := ds.Count(ctx)
	if err != nil {
		return 0.0, 0, err
	}
	if count == 0 {
		return 0.0, 0, nil
	}
	for _, sample := range samples {
		p, err := t.Predict(ctx, sample)
		if err != nil {
			if err != ErrCannotPredictFromSample {
				return 0.0, 0, err
			}
			errCount++
		} else {
			pV, _ := p.PredictedValue()
			v, err := sample.ValueFor(ctx, t.Label)
			if err != nil {
				return 0.0, 0, err
			}
			if pV == v {
				result += 1.0
			}
		}
	}
	result = result / float64(count)
	return result, errCount, nil
}

// Traverse takes a context, a bottomup boolean and an error-returning
// function on a context and a node, and goes through the tree running
// the function with every traversed node. Traverse calls the function
// with a parent node before its children when bottomup is false, and
// after them when bottomup is true.
// If the given context times out or is cancelled, the context error is
// returned. If a node cannot be retrieved from the tree's node store,
// the obtained error is returned. If a call to the function returns an
// error, the traversing is aborted and the error returned. Otherwise
// nil is returned when the traversing is over.
func (t *Tree) Traverse(ctx context.Context, bottomup bool, f func(context.Context, *Node) error) error {
	n, err := t.NodeStore.Get(ctx, t.RootID)
	if err != nil {
		return err
	}
	return t.traverse(ctx, n, bottomup, f)
}

func (t *Tree) traverse(ctx context.Context, n *Node, bottomup bool, f func(context.Context, *Node) error) error {
	err := ctx.Err()
	if err != nil {
		return err
	}
	if !bottomup {
		err = f(ctx, n)
		if err != nil {
			return err
		}
	}
	for _, snID := range n.SubtreeIDs {
		sn, err := t.NodeStore.Get(ctx, snID)
		if err != nil {
			return err
		}
		err = t.traverse(ctx, sn, bottomup, f)
		if err != nil {
			return err
		}
	}
	if bottomup {
		err = f(ctx, n)
	}
	return err
}

func (t *Tree) String() string {
	return t.subtreeString(t.RootID)
}

func (t *Tree) subtreeString(nodeID string) string {
	n, err := t.NodeStore.Get(context.TODO(), nodeID)
	if err != nil {
		return fmt.Sprintf("ERROR: %s\n", err.Error())
	}
	result := fmt.Sprintf("[%s]\n", nodeID)
	if n.Criterion != nil {
		result = fmt.Sprintf("%s{ %v }\n", result, n.Criterion)
	}
	if n.Prediction != nil {
		result = fmt.Sprintf("%s{ %v }\n", result, n.Prediction)
	}
	if len(n.SubtreeIDs) > 0 {
		result = fmt.Sprintf("%s|\n", result)
	} else {
		result = fmt.Sprintf("%s \n", result)
	}
	for i, subtreeID := range n.SubtreeIDs {
		for j, line := range strings.Split(t.subtreeString(subtreeID), "\n") {
			if len(line) > 0 {
				if j == 0 {
					result = fmt.Sprintf("%s|__%s\n", result, line)
				} else {
					if i == len(n.SubtreeIDs)-1 {
						result = fmt.Sprintf("%s   %s\n", result, line)
					} else {
						result = fmt.Sprintf("%s|  %s\n", result, line)
					}
				}
			}
		}
	}
	return result
}
