package queue

import (
	"fmt"

	"github.com/grovekit/grove/attribute"
	"github.com/grovekit/grove/dataset"
	"github.com/grovekit/grove/tree"
)

// Task represents a tree.Node to be developed
// on a tree.Tree.
type Task struct {
	// The node to be developed
	Node *tree.Node
	// The dataset of training data with samples
	// satisfying the criteria on the node
	// and its ancestors.
	Dataset dataset.Dataset
	// The list of attributes that can be used
	// to split the node into branches.
	// It should exclude the attributes used in
	// ancestor nodes.
	AvailableAttributes []attribute.Attribute
}

// ID returns a string that identifies the
// task, the ID of its Node.
func (t *Task) ID() string {
	return t.Node.ID
}

func (t *Task) String() string {
	return fmt.Sprintf("{Task %s}", t.Node.ID)
}
