package tree_test

import (
	"context"
	"testing"

	"github.com/grovekit/grove/attribute"
	"github.com/grovekit/grove/dataset"
	"github.com/grovekit/grove/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	levelAttr = attribute.NewCategorical("level", []string{"Senior", "Mid"})
	hiredAttr = attribute.NewCategorical("hired", []string{"true", "false"})
)

type mapSample map[string]interface{}

func (ms mapSample) ValueFor(_ context.Context, a attribute.Attribute) (interface{}, error) {
	return ms[a.Name()], nil
}

// levelTree builds a one-split tree on a memory node store: Senior
// samples predict false, Mid samples true, and samples with an absent
// or unknown level fall to a majority-true node.
func levelTree(t *testing.T) *tree.Tree {
	t.Helper()
	ctx := context.Background()
	ns := tree.NewMemoryNodeStore()

	root := &tree.Node{SplitAttribute: levelAttr}
	require.NoError(t, ns.Create(ctx, root))

	children := []*tree.Node{
		{
			ParentID:   root.ID,
			Criterion:  attribute.NewEqualsCriterion(levelAttr, "Senior"),
			Prediction: tree.NewPrediction(map[string]float64{"false": 1.0}, 3),
		},
		{
			ParentID:   root.ID,
			Criterion:  attribute.NewEqualsCriterion(levelAttr, "Mid"),
			Prediction: tree.NewPrediction(map[string]float64{"true": 1.0}, 4),
		},
		{
			ParentID:   root.ID,
			Criterion:  attribute.NewAbsentCriterion(levelAttr),
			Prediction: tree.NewPrediction(map[string]float64{"true": 4.0 / 7.0, "false": 3.0 / 7.0}, 7),
		},
	}
	for _, c := range children {
		require.NoError(t, ns.Create(ctx, c))
		root.SubtreeIDs = append(root.SubtreeIDs, c.ID)
	}
	require.NoError(t, ns.Store(ctx, root))
	return tree.New(root.ID, ns, hiredAttr)
}

func TestPredictRoutesSampleByCriteria(t *testing.T) {
	ctx := context.Background()
	tr := levelTree(t)

	p, err := tr.Predict(ctx, mapSample{"level": "Senior"})
	require.NoError(t, err)
	value, prob := p.PredictedValue()
	assert.Equal(t, "false", value)
	assert.Equal(t, 1.0, prob)

	p, err = tr.Predict(ctx, mapSample{"level": "Mid"})
	require.NoError(t, err)
	value, _ = p.PredictedValue()
	assert.Equal(t, "true", value)
}

func TestPredictFallsBackOnAbsentCriterion(t *testing.T) {
	ctx := context.Background()
	tr := levelTree(t)

	for _, sample := range []mapSample{
		{"level": nil},
		{"level": "Junior"},
	} {
		p, err := tr.Predict(ctx, sample)
		require.NoError(t, err)
		value, prob := p.PredictedValue()
		assert.Equal(t, "true", value)
		assert.InDelta(t, 4.0/7.0, prob, 1e-9)
		assert.Equal(t, 7, p.Weight())
	}
}

func TestTestReportsSuccessRate(t *testing.T) {
	ctx := context.Background()
	tr := levelTree(t)

	ds := dataset.New([]dataset.Sample{
		dataset.NewSample(map[string]interface{}{"level": "Senior", "hired": "false"}),
		dataset.NewSample(map[string]interface{}{"level": "Senior", "hired": "true"}),
		dataset.NewSample(map[string]interface{}{"level": "Mid", "hired": "true"}),
		dataset.NewSample(map[string]interface{}{"level": "Mid", "hired": "true"}),
	})
	successRate, errCount, err := tr.Test(ctx, ds)
	require.NoError(t, err)
	assert.Equal(t, 0, errCount)
	assert.InDelta(t, 0.75, successRate, 1e-9)
}

func TestTestWithEmptyDataset(t *testing.T) {
	ctx := context.Background()
	tr := levelTree(t)

	successRate, errCount, err := tr.Test(ctx, dataset.New(nil))
	require.NoError(t, err)
	assert.Equal(t, 0, errCount)
	assert.Equal(t, 0.0, successRate)
}

func TestTraverseVisitsParentAndChildren(t *testing.T) {
	ctx := context.Background()
	tr := levelTree(t)

	var topdown []string
	err := tr.Traverse(ctx, false, func(_ context.Context, n *tree.Node) error {
		topdown = append(topdown, n.ID)
		return nil
	})
	require.NoError(t, err)
	require.Len(t, topdown, 4)
	assert.Equal(t, tr.RootID, topdown[0])

	var bottomup []string
	err = tr.Traverse(ctx, true, func(_ context.Context, n *tree.Node) error {
		bottomup = append(bottomup, n.ID)
		return nil
	})
	require.NoError(t, err)
	require.Len(t, bottomup, 4)
	assert.Equal(t, tr.RootID, bottomup[len(bottomup)-1])
}

func TestMemoryNodeStore(t *testing.T) {
	ctx := context.Background()
	ns := tree.NewMemoryNodeStore()

	n1 := &tree.Node{}
	n2 := &tree.Node{}
	require.NoError(t, ns.Create(ctx, n1))
	require.NoError(t, ns.Create(ctx, n2))
	assert.NotEmpty(t, n1.ID)
	assert.NotEqual(t, n1.ID, n2.ID)

	got, err := ns.Get(ctx, n1.ID)
	require.NoError(t, err)
	assert.Equal(t, n1, got)

	got, err = ns.Get(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, got)

	n1.ParentID = n2.ID
	require.NoError(t, ns.Store(ctx, n1))
	got, err = ns.Get(ctx, n1.ID)
	require.NoError(t, err)
	assert.Equal(t, n2.ID, got.ParentID)

	require.NoError(t, ns.Delete(ctx, n1))
	got, err = ns.Get(ctx, n1.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, ns.Close(ctx))
}
