/*
Package grove provides a task-based implementation of the ID3 algorithm
to grow decision trees from training datasets.

Growing a tree starts with Sow, which creates the root node and pushes
the task to develop it on a queue. Workers then call Work to consume
tasks from the queue: each task develops a node by selecting the
attribute whose partition of the node's dataset yields the highest
information gain, and pushes tasks for the resulting children.
With the in-memory queue and node store a single process grows the
whole tree; with the redis-backed ones the growth can be distributed
over multiple processes.
*/
package grove

import (
	"context"
	"time"

	"github.com/grovekit/grove/attribute"
	"github.com/grovekit/grove/dataset"
	"github.com/grovekit/grove/queue"
	"github.com/grovekit/grove/tree"
)

// Sow takes a context, a label attribute, a slice of attributes,
// a dataset, a queue and a node store and sets everything
// up so that workers that consume from the queue afterwards
// grow a tree that predicts the given label attribute using
// the attributes in the given slice and according to the training
// data on the given dataset.
// Specifically it will create the root node of the tree on the
// node store and push a task to develop it on the queue.
// The function returns the tree that can be grown or an error
// if the node cannot be created on the store, or the task pushed
// to the queue (in the amount of time allowed by the given
// context).
func Sow(ctx context.Context, label attribute.Attribute, attributes []attribute.Attribute, ds dataset.Dataset, q queue.Queue, ns tree.NodeStore) (*tree.Tree, error) {
	n := &tree.Node{}
	err := ns.Create(ctx, n)
	if err != nil {
		return nil, err
	}
	task := &queue.Task{Node: n, Dataset: ds, AvailableAttributes: attributes}
	t := tree.New(n.ID, ns, label)
	err = q.Push(ctx, task)
	if err != nil {
		ns.Delete(ctx, n)
		return nil, err
	}
	return t, nil
}

// Develop takes a context, a task, a tree and a grow strategy,
// develops the node in the task using the task's dataset and available
// attributes to predict the tree's label attribute and returns a set of
// tasks to develop the resulting children nodes or an error.
//
// The node becomes a leaf when its dataset entropy is not above the
// strategy's minimum, when no attributes remain to split on, or when
// every candidate partition is pruned. Otherwise the node is split
// on the attribute whose partition yields the highest information
// gain, ties resolving to the attribute listed first.
func Develop(ctx context.Context, task *queue.Task, t *tree.Tree, gs *GrowStrategy) (tasks []*queue.Task, e error) {
	prediction, err := tree.NewPredictionFromDataset(ctx, task.Dataset, t.Label)
	if err != nil {
		if err != tree.ErrCannotPredictFromEmptyDataset {
			return nil, err
		}
		// A declared categorical value can have no training samples.
		// Its node inherits the parent prediction so samples routed
		// here resolve to the parent distribution.
		if task.Node.ParentID != "" {
			parent, perr := t.NodeStore.Get(ctx, task.Node.ParentID)
			if perr != nil {
				return nil, perr
			}
			if parent != nil {
				prediction = parent.Prediction
			}
		}
	}
	defer func() {
		err = t.NodeStore.Store(ctx, task.Node)
		if e == nil {
			e = err
		}
	}()
	task.Node.Prediction = prediction
	dsEntropy, err := task.Dataset.Entropy(ctx, t.Label)
	if err != nil {
		return nil, err
	}
	if len(task.AvailableAttributes) == 0 || dsEntropy <= gs.MinimumEntropy {
		return nil, nil
	}
	var selectedPartition *Partition
	var attributeIndex int
	for i, at := range task.AvailableAttributes {
		part, err := partition(ctx, task.Dataset, at, t.Label, gs)
		if err != nil {
			return nil, err
		}
		if part == nil {
			continue
		}
		if selectedPartition == nil || part.informationGain > selectedPartition.informationGain {
			selectedPartition = part
			attributeIndex = i
		}
	}
	if selectedPartition == nil {
		return nil, nil
	}
	task.Node.SplitAttribute = selectedPartition.Attribute
	stAvailableAttributes := make([]attribute.Attribute, 0, len(task.AvailableAttributes)-1)
	for ai, sa := range task.AvailableAttributes {
		if ai != attributeIndex {
			stAvailableAttributes = append(stAvailableAttributes, sa)
		}
	}
	stNodeIDs := make([]string, 0, len(selectedPartition.Tasks))
	for _, st := range selectedPartition.Tasks {
		st.Node.ParentID = task.Node.ID
		err = t.NodeStore.Create(ctx, st.Node)
		if err != nil {
			return nil, err
		}
		stNodeIDs = append(stNodeIDs, st.Node.ID)
		st.AvailableAttributes = stAvailableAttributes
	}
	task.Node.SubtreeIDs = stNodeIDs
	return selectedPartition.Tasks, nil
}

// Work takes a context, a tree, a queue, a grow strategy
// and an emptyQueueSleep duration and enters a loop in which
// it:
//   - pulls a task from the queue,
//   - develops its node into new subnodes using Develop
//   - pushes the tasks for the new subnodes into the queue
//   - marks the task as completed on the queue
//
// If at some point no task can be pulled from the queue and
// the sum of tasks running and pending on the queue is 0, the
// worker ends returning nil. If no task can be pulled but the
// sum is not 0, then the worker will sleep for the given
// emptyQueueSleep duration and then retry.
//
// Work will return a non-nil error if the given context
// times out or is cancelled, if Develop returns a non-nil
// error or if an operation with the given queue returns a
// non-nil error.
func Work(ctx context.Context, t *tree.Tree, q queue.Queue, gs *GrowStrategy, emptyQueueSleep time.Duration) error {
	for {
		task, tctx, tcf, err := q.Pull(ctx)
		if err != nil {
			return err
		}
		if task == nil {
			pending, running, err := q.Count(ctx)
			if err != nil {
				return err
			}
			if pending+running == 0 {
				break
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(emptyQueueSleep):
			}
			continue
		}
		mctx, cancel := mergeCtxCancel(tctx, ctx)
		err = workTask(mctx, task, t, q, gs)
		cancel()
		tcf()
		if err != nil {
			return err
		}
		err = ctx.Err()
		if err != nil {
			return err
		}
	}
	return nil
}

func workTask(ctx context.Context, task *queue.Task, t *tree.Tree, q queue.Queue, gs *GrowStrategy) error {
	defer func() {
		q.Drop(ctx, task.ID())
	}()
	tasks, err := Develop(ctx, task, t, gs)
	if err != nil {
		return err
	}
	for _, st := range tasks {
		err = q.Push(ctx, st)
		if err != nil {
			return err
		}
	}
	return q.Complete(ctx, task.ID())
}

func mergeCtxCancel(ctx1, ctx2 context.Context) (context.Context, context.CancelFunc) {
	mctx, cancel := context.WithCancel(ctx1)
	go func() {
		select {
		case <-mctx.Done():
		case <-ctx2.Done():
			cancel()
		}
	}()
	return mctx, cancel
}
