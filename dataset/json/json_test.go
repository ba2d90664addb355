package json_test

import (
	"context"
	"testing"

	"github.com/grovekit/grove/attribute"
	attributejson "github.com/grovekit/grove/attribute/json"
	"github.com/grovekit/grove/dataset"
	datasetjson "github.com/grovekit/grove/dataset/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rootURI = "file:///data/hiring.csv"

var (
	levelAttr   = attribute.NewCategorical("level", []string{"Senior", "Mid", "Junior"})
	commitsAttr = attribute.NewNumeric("commits")
	hiredAttr   = attribute.NewCategorical("hired", []string{"true", "false"})
)

func hiringDataset() dataset.Dataset {
	return dataset.New([]dataset.Sample{
		dataset.NewSample(map[string]interface{}{"level": "Senior", "commits": 120.0, "hired": "false"}),
		dataset.NewSample(map[string]interface{}{"level": "Senior", "commits": 250.0, "hired": "true"}),
		dataset.NewSample(map[string]interface{}{"level": "Mid", "commits": 80.0, "hired": "true"}),
		dataset.NewSample(map[string]interface{}{"level": "Junior", "commits": 15.0, "hired": "true"}),
	})
}

func encodeDecoder(root dataset.Dataset) datasetjson.DatasetEncodeDecoder {
	attributes := []attribute.Attribute{levelAttr, commitsAttr, hiredAttr}
	return datasetjson.New(root, rootURI, attributejson.NewCriteriaEncodeDecoder(attributes))
}

func TestDatasetRoundTripKeepsCriteria(t *testing.T) {
	ctx := context.Background()
	root := hiringDataset()
	ded := encodeDecoder(root)

	subset, err := root.SubsetWith(ctx, attribute.NewEqualsCriterion(levelAttr, "Senior"))
	require.NoError(t, err)
	subset, err = subset.SubsetWith(ctx, attribute.NewIntervalCriterion(commitsAttr, 100.0, 1000.0))
	require.NoError(t, err)

	data, err := ded.Encode(ctx, subset)
	require.NoError(t, err)
	decoded, err := ded.Decode(ctx, data)
	require.NoError(t, err)

	count, err := decoded.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	criteria, err := decoded.Criteria(ctx)
	require.NoError(t, err)
	assert.Len(t, criteria, 2)
}

func TestDatasetRoundTripOfRootDataset(t *testing.T) {
	ctx := context.Background()
	root := hiringDataset()
	ded := encodeDecoder(root)

	data, err := ded.Encode(ctx, root)
	require.NoError(t, err)
	decoded, err := ded.Decode(ctx, data)
	require.NoError(t, err)

	count, err := decoded.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, count)
}

func TestDatasetDecodeRejectsUnknownRootURI(t *testing.T) {
	ctx := context.Background()
	root := hiringDataset()

	data, err := encodeDecoder(root).Encode(ctx, root)
	require.NoError(t, err)

	attributes := []attribute.Attribute{levelAttr, commitsAttr, hiredAttr}
	other := datasetjson.New(root, "file:///data/other.csv", attributejson.NewCriteriaEncodeDecoder(attributes))
	_, err = other.Decode(ctx, data)
	assert.Error(t, err)
}
