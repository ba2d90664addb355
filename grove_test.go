package grove_test

import (
	"context"
	"testing"
	"time"

	grove "github.com/grovekit/grove"
	"github.com/grovekit/grove/attribute"
	"github.com/grovekit/grove/dataset"
	"github.com/grovekit/grove/queue"
	"github.com/grovekit/grove/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	levelAttr  = attribute.NewCategorical("level", []string{"Senior", "Mid", "Junior"})
	langAttr   = attribute.NewCategorical("lang", []string{"Java", "Python", "R"})
	tweetsAttr = attribute.NewCategorical("tweets", []string{"yes", "no"})
	phdAttr    = attribute.NewCategorical("phd", []string{"yes", "no"})
	hiredAttr  = attribute.NewCategorical("hired", []string{"true", "false"})
)

func hiringAttributes() []attribute.Attribute {
	return []attribute.Attribute{levelAttr, langAttr, tweetsAttr, phdAttr}
}

func hiringDataset() dataset.Dataset {
	rows := [][5]string{
		{"Senior", "Java", "no", "no", "false"},
		{"Senior", "Java", "no", "yes", "false"},
		{"Mid", "Python", "no", "no", "true"},
		{"Junior", "Python", "no", "no", "true"},
		{"Junior", "R", "yes", "no", "true"},
		{"Junior", "R", "yes", "yes", "false"},
		{"Mid", "R", "yes", "yes", "true"},
		{"Senior", "Python", "no", "no", "false"},
		{"Senior", "R", "yes", "no", "true"},
		{"Junior", "Python", "yes", "no", "true"},
		{"Senior", "Python", "yes", "yes", "true"},
		{"Mid", "Python", "no", "yes", "true"},
		{"Mid", "Java", "yes", "no", "true"},
		{"Junior", "Python", "no", "yes", "false"},
	}
	samples := make([]dataset.Sample, 0, len(rows))
	for _, r := range rows {
		samples = append(samples, dataset.NewSample(map[string]interface{}{
			"level":  r[0],
			"lang":   r[1],
			"tweets": r[2],
			"phd":    r[3],
			"hired":  r[4],
		}))
	}
	return dataset.New(samples)
}

func growHiringTree(t *testing.T) *tree.Tree {
	t.Helper()
	ctx := context.Background()
	q := queue.New()
	defer q.Stop(ctx)
	ns := tree.NewMemoryNodeStore()
	gs := &grove.GrowStrategy{Pruner: grove.NoPruner(), MinimumEntropy: 0.0}

	tr, err := grove.Sow(ctx, hiredAttr, hiringAttributes(), hiringDataset(), q, ns)
	require.NoError(t, err)
	require.NoError(t, grove.Work(ctx, tr, q, gs, time.Millisecond))
	return tr
}

func TestGrownTreeSplitsOnMostInformativeAttribute(t *testing.T) {
	ctx := context.Background()
	tr := growHiringTree(t)

	root, err := tr.Get(ctx, tr.RootID)
	require.NoError(t, err)
	require.NotNil(t, root)
	require.NotNil(t, root.SplitAttribute)
	assert.Equal(t, "level", root.SplitAttribute.Name())
	// one child per level value plus the absent-value fallback
	assert.Len(t, root.SubtreeIDs, 4)
}

func TestGrownTreePredictions(t *testing.T) {
	ctx := context.Background()
	tr := growHiringTree(t)

	testCases := []struct {
		name     string
		sample   map[string]interface{}
		expected string
	}{
		{
			"senior who does not tweet",
			map[string]interface{}{"level": "Senior", "lang": "Java", "tweets": "no", "phd": "no"},
			"false",
		},
		{
			"senior who tweets",
			map[string]interface{}{"level": "Senior", "lang": "Java", "tweets": "yes", "phd": "no"},
			"true",
		},
		{
			"mid level is always hired",
			map[string]interface{}{"level": "Mid", "lang": "Java", "tweets": "no", "phd": "yes"},
			"true",
		},
		{
			"junior without phd",
			map[string]interface{}{"level": "Junior", "lang": "Java", "tweets": "no", "phd": "no"},
			"true",
		},
		{
			"junior with phd",
			map[string]interface{}{"level": "Junior", "lang": "Java", "tweets": "no", "phd": "yes"},
			"false",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := tr.Predict(ctx, dataset.NewSample(tc.sample))
			require.NoError(t, err)
			value, prob := p.PredictedValue()
			assert.Equal(t, tc.expected, value)
			assert.Equal(t, 1.0, prob)
		})
	}
}

func TestGrownTreePredictsSampleWithUnseenValue(t *testing.T) {
	ctx := context.Background()
	tr := growHiringTree(t)

	// an unseen level satisfies no equals criterion and falls
	// through to the subtree grown on the whole dataset
	p, err := tr.Predict(ctx, dataset.NewSample(map[string]interface{}{
		"level": "Intern", "lang": "Java", "tweets": "no", "phd": "no",
	}))
	require.NoError(t, err)
	require.NotNil(t, p)
	total := 0.0
	for _, prob := range p.Probabilities() {
		total += prob
	}
	assert.InDelta(t, 1.0, total, 1e-9)
}

func TestGrownTreePredictsDeclaredValueWithoutTrainingSamples(t *testing.T) {
	ctx := context.Background()
	q := queue.New()
	defer q.Stop(ctx)
	ns := tree.NewMemoryNodeStore()
	gs := &grove.GrowStrategy{Pruner: grove.NoPruner(), MinimumEntropy: 0.0}

	// Intern is declared for level but no training sample carries it
	level := attribute.NewCategorical("level", []string{"Senior", "Mid", "Junior", "Intern"})
	attrs := []attribute.Attribute{level, langAttr, tweetsAttr, phdAttr}
	tr, err := grove.Sow(ctx, hiredAttr, attrs, hiringDataset(), q, ns)
	require.NoError(t, err)
	require.NoError(t, grove.Work(ctx, tr, q, gs, time.Millisecond))

	// the Intern leaf was grown from an empty subset and answers
	// with the distribution of its parent
	p, err := tr.Predict(ctx, dataset.NewSample(map[string]interface{}{
		"level": "Intern", "lang": "Java", "tweets": "no", "phd": "no",
	}))
	require.NoError(t, err)
	require.NotNil(t, p)
	value, prob := p.PredictedValue()
	assert.Equal(t, "true", value)
	assert.InDelta(t, 9.0/14.0, prob, 1e-9)
}

func TestGrownTreeAccuracyOnTrainingData(t *testing.T) {
	ctx := context.Background()
	tr := growHiringTree(t)

	success, errCount, err := tr.Test(ctx, hiringDataset())
	require.NoError(t, err)
	assert.Equal(t, 0, errCount)
	assert.Equal(t, 1.0, success)
}

func TestDevelopLeavesUnanimousNodeUndeveloped(t *testing.T) {
	ctx := context.Background()
	q := queue.New()
	defer q.Stop(ctx)
	ns := tree.NewMemoryNodeStore()
	gs := &grove.GrowStrategy{Pruner: grove.NoPruner(), MinimumEntropy: 0.0}

	samples := []dataset.Sample{
		dataset.NewSample(map[string]interface{}{"level": "Mid", "hired": "true"}),
		dataset.NewSample(map[string]interface{}{"level": "Junior", "hired": "true"}),
	}
	tr, err := grove.Sow(ctx, hiredAttr, []attribute.Attribute{levelAttr}, dataset.New(samples), q, ns)
	require.NoError(t, err)

	task, _, tcf, err := q.Pull(ctx)
	require.NoError(t, err)
	require.NotNil(t, task)
	defer tcf()

	children, err := grove.Develop(ctx, task, tr, gs)
	require.NoError(t, err)
	assert.Empty(t, children)

	root, err := tr.Get(ctx, tr.RootID)
	require.NoError(t, err)
	require.NotNil(t, root.Prediction)
	value, prob := root.Prediction.PredictedValue()
	assert.Equal(t, "true", value)
	assert.Equal(t, 1.0, prob)
}

func TestDevelopWithoutAvailableAttributesYieldsMajorityLeaf(t *testing.T) {
	ctx := context.Background()
	q := queue.New()
	defer q.Stop(ctx)
	ns := tree.NewMemoryNodeStore()
	gs := &grove.GrowStrategy{Pruner: grove.NoPruner(), MinimumEntropy: 0.0}

	samples := []dataset.Sample{
		dataset.NewSample(map[string]interface{}{"hired": "true"}),
		dataset.NewSample(map[string]interface{}{"hired": "true"}),
		dataset.NewSample(map[string]interface{}{"hired": "false"}),
	}
	tr, err := grove.Sow(ctx, hiredAttr, nil, dataset.New(samples), q, ns)
	require.NoError(t, err)

	task, _, tcf, err := q.Pull(ctx)
	require.NoError(t, err)
	require.NotNil(t, task)
	defer tcf()

	children, err := grove.Develop(ctx, task, tr, gs)
	require.NoError(t, err)
	assert.Empty(t, children)

	root, err := tr.Get(ctx, tr.RootID)
	require.NoError(t, err)
	require.NotNil(t, root.Prediction)
	value, prob := root.Prediction.PredictedValue()
	assert.Equal(t, "true", value)
	assert.InDelta(t, 2.0/3.0, prob, 1e-9)
}
