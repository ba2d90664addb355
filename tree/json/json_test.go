package json_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/grovekit/grove/attribute"
	attributejson "github.com/grovekit/grove/attribute/json"
	"github.com/grovekit/grove/tree"
	treejson "github.com/grovekit/grove/tree/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapSample map[string]interface{}

func (ms mapSample) ValueFor(_ context.Context, a attribute.Attribute) (interface{}, error) {
	return ms[a.Name()], nil
}

func TestJSONTreeRoundTrip(t *testing.T) {
	ctx := context.Background()
	levelAttr := attribute.NewCategorical("level", []string{"Senior", "Mid"})
	commitsAttr := attribute.NewNumeric("commits")
	hiredAttr := attribute.NewCategorical("hired", []string{"true", "false"})
	attributes := []attribute.Attribute{levelAttr, commitsAttr, hiredAttr}

	ns := tree.NewMemoryNodeStore()
	root := &tree.Node{SplitAttribute: commitsAttr}
	require.NoError(t, ns.Create(ctx, root))
	children := []*tree.Node{
		{
			ParentID:   root.ID,
			Criterion:  attribute.NewIntervalCriterion(commitsAttr, -1, 100),
			Prediction: tree.NewPrediction(map[string]float64{"false": 1.0}, 2),
		},
		{
			ParentID:   root.ID,
			Criterion:  attribute.NewIntervalCriterion(commitsAttr, 100, 10000),
			Prediction: tree.NewPrediction(map[string]float64{"true": 1.0}, 5),
		},
		{
			ParentID:   root.ID,
			Criterion:  attribute.NewAbsentCriterion(commitsAttr),
			Prediction: tree.NewPrediction(map[string]float64{"true": 5.0 / 7.0, "false": 2.0 / 7.0}, 7),
		},
	}
	for _, c := range children {
		require.NoError(t, ns.Create(ctx, c))
		root.SubtreeIDs = append(root.SubtreeIDs, c.ID)
	}
	require.NoError(t, ns.Store(ctx, root))
	original := tree.New(root.ID, ns, hiredAttr)

	ned := treejson.NewNodeEncodeDecoder(attributejson.NewCriteriaEncodeDecoder(attributes), attributes)
	var buf bytes.Buffer
	require.NoError(t, treejson.WriteJSONTree(ctx, original, ned, &buf))

	decoded := &tree.Tree{NodeStore: tree.NewMemoryNodeStore()}
	require.NoError(t, treejson.ReadJSONTree(ctx, decoded, ned, attributes, &buf))

	assert.Equal(t, original.RootID, decoded.RootID)
	require.NotNil(t, decoded.Label)
	assert.Equal(t, "hired", decoded.Label.Name())

	for _, tc := range []struct {
		sample   mapSample
		expected string
	}{
		{mapSample{"commits": 12.0}, "false"},
		{mapSample{"commits": 350.0}, "true"},
		{mapSample{"commits": nil}, "true"},
	} {
		p, err := decoded.Predict(ctx, tc.sample)
		require.NoError(t, err)
		value, _ := p.PredictedValue()
		assert.Equal(t, tc.expected, value)
	}
}

func TestReadJSONTreeFailures(t *testing.T) {
	ctx := context.Background()
	levelAttr := attribute.NewCategorical("level", []string{"Senior", "Mid"})
	attributes := []attribute.Attribute{levelAttr}
	ned := treejson.NewNodeEncodeDecoder(attributejson.NewCriteriaEncodeDecoder(attributes), attributes)

	testCases := []struct {
		name string
		data string
	}{
		{"not json", "this is not json"},
		{"unknown label", `{"rootID":"1","label":"hired","nodes":[]}`},
		{"missing root id", `{"label":"level","nodes":[]}`},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			decoded := &tree.Tree{NodeStore: tree.NewMemoryNodeStore()}
			err := treejson.ReadJSONTree(ctx, decoded, ned, attributes, bytes.NewBufferString(tc.data))
			assert.Error(t, err)
		})
	}
}
