package json_test

import (
	"context"
	"testing"

	"github.com/grovekit/grove/attribute"
	attributejson "github.com/grovekit/grove/attribute/json"
	"github.com/grovekit/grove/dataset"
	datasetjson "github.com/grovekit/grove/dataset/json"
	"github.com/grovekit/grove/queue"
	queuejson "github.com/grovekit/grove/queue/json"
	"github.com/grovekit/grove/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	levelAttr  = attribute.NewCategorical("level", []string{"Senior", "Mid", "Junior"})
	tweetsAttr = attribute.NewCategorical("tweets", []string{"yes", "no"})
	hiredAttr  = attribute.NewCategorical("hired", []string{"true", "false"})
)

func taskAttributes() []attribute.Attribute {
	return []attribute.Attribute{levelAttr, tweetsAttr, hiredAttr}
}

func rootDataset() dataset.Dataset {
	return dataset.New([]dataset.Sample{
		dataset.NewSample(map[string]interface{}{"level": "Senior", "tweets": "no", "hired": "false"}),
		dataset.NewSample(map[string]interface{}{"level": "Senior", "tweets": "yes", "hired": "true"}),
		dataset.NewSample(map[string]interface{}{"level": "Mid", "tweets": "no", "hired": "true"}),
	})
}

func taskEncodeDecoder(root dataset.Dataset, ns tree.NodeStore) queuejson.TaskEncodeDecoder {
	ded := datasetjson.New(root, "file:///data/hiring.csv", attributejson.NewCriteriaEncodeDecoder(taskAttributes()))
	return queuejson.New(taskAttributes(), ded, ns)
}

func TestTaskRoundTrip(t *testing.T) {
	ctx := context.Background()
	root := rootDataset()
	ns := tree.NewMemoryNodeStore()
	ted := taskEncodeDecoder(root, ns)

	n := &tree.Node{Criterion: attribute.NewEqualsCriterion(levelAttr, "Senior")}
	require.NoError(t, ns.Create(ctx, n))
	subset, err := root.SubsetWith(ctx, n.Criterion)
	require.NoError(t, err)
	task := &queue.Task{
		Node:                n,
		Dataset:             subset,
		AvailableAttributes: []attribute.Attribute{tweetsAttr},
	}

	data, err := ted.Encode(ctx, task)
	require.NoError(t, err)
	decoded, err := ted.Decode(ctx, data)
	require.NoError(t, err)

	assert.Equal(t, task.ID(), decoded.ID())
	assert.Equal(t, n.ID, decoded.Node.ID)
	require.Len(t, decoded.AvailableAttributes, 1)
	assert.Equal(t, "tweets", decoded.AvailableAttributes[0].Name())
	count, err := decoded.Dataset.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestTaskDecodeFailsForUnknownNode(t *testing.T) {
	ctx := context.Background()
	root := rootDataset()
	ns := tree.NewMemoryNodeStore()
	ted := taskEncodeDecoder(root, ns)

	// the node is never created on the store the decoder resolves against
	task := &queue.Task{
		Node:                &tree.Node{ID: "unknown"},
		Dataset:             root,
		AvailableAttributes: []attribute.Attribute{levelAttr},
	}
	data, err := ted.Encode(ctx, task)
	require.NoError(t, err)
	_, err = ted.Decode(ctx, data)
	assert.Error(t, err)
}

func TestTaskDecodeFailsForUnknownAttribute(t *testing.T) {
	ctx := context.Background()
	root := rootDataset()
	ns := tree.NewMemoryNodeStore()
	ted := taskEncodeDecoder(root, ns)

	n := &tree.Node{}
	require.NoError(t, ns.Create(ctx, n))
	task := &queue.Task{
		Node:                n,
		Dataset:             root,
		AvailableAttributes: []attribute.Attribute{attribute.NewCategorical("cats", []string{"yes"})},
	}
	data, err := ted.Encode(ctx, task)
	require.NoError(t, err)
	_, err = ted.Decode(ctx, data)
	assert.Error(t, err)
}
