package tree

import (
	"github.com/grovekit/grove/attribute"
)

/*
Node is a node of a decision tree. A node with no SplitAttribute is a
leaf: its Prediction is the tree's answer for samples that reach it. A
node with a SplitAttribute is a decision node routing samples to the
child whose criterion they satisfy.
*/
type Node struct {
	// An ID to identify the node
	ID string
	// The ID for the parent of the node in the tree
	ParentID string
	// A slice with the IDs of the nodes directly under this node
	SubtreeIDs []string
	// The prediction for samples that satisfied node criteria from
	// the root of the tree up to this node. Decision nodes keep
	// their majority prediction too: it is the fallback answer
	// when a sample cannot be routed further down.
	Prediction *Prediction
	// The criterion this node imposes on samples.
	// While growing it is the criterion that applied to the parent
	// node's dataset produces this node's dataset.
	// On grown trees it is the criterion that, when satisfied by
	// the sample being predicted, selects this node to continue
	// (unless it is an absent-attribute criterion, which is the
	// last one to test against).
	Criterion attribute.Criterion
	// The attribute on which nodes directly under this node impose
	// criteria: the attribute whose partition of this node's
	// dataset minimized the weighted entropy while growing, and
	// the attribute to ask about next when predicting.
	SplitAttribute attribute.Attribute
}
