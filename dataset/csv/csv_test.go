package csv

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/grovekit/grove/attribute"
	"github.com/grovekit/grove/dataset"
)

func candidateAttributes() []attribute.Attribute {
	return []attribute.Attribute{
		attribute.NewCategorical("level", []string{"Senior", "Mid", "Junior"}),
		attribute.NewCategorical("lang", []string{"Java", "Python", "R"}),
		attribute.NewCategorical("tweets", []string{"yes", "no"}),
		attribute.NewCategorical("phd", []string{"yes", "no"}),
		attribute.NewNumeric("commits"),
		attribute.NewCategorical("hire", []string{"true", "false"}),
	}
}

const candidateCSV = `level,lang,tweets,phd,commits,hire
Senior,Java,no,no,120,false
Senior,R,yes,no,88,false
Mid,Python,no,no,?,true
Junior,Python,no,yes,15,true
`

func TestReadDataset(t *testing.T) {
	ctx := context.Background()
	attributes := candidateAttributes()
	ds, err := ReadDataset(strings.NewReader(candidateCSV), attributes, dataset.New)
	if err != nil {
		t.Fatalf("ReadDataset returned error: %v", err)
	}
	count, err := ds.Count(ctx)
	if err != nil {
		t.Fatalf("Count returned error: %v", err)
	}
	if count != 4 {
		t.Fatalf("expected 4 samples, got %d", count)
	}
	samples, err := ds.Samples(ctx)
	if err != nil {
		t.Fatalf("Samples returned error: %v", err)
	}
	commits := attributes[4]
	v, err := samples[0].ValueFor(ctx, commits)
	if err != nil {
		t.Fatalf("ValueFor returned error: %v", err)
	}
	if v != 120.0 {
		t.Errorf("expected commits 120.0 for first sample, got %v", v)
	}
	v, err = samples[2].ValueFor(ctx, commits)
	if err != nil {
		t.Fatalf("ValueFor returned error: %v", err)
	}
	if v != nil {
		t.Errorf("expected absent commits for third sample, got %v", v)
	}
}

func TestReadDatasetBySampleStopsWhenAsked(t *testing.T) {
	var seen int
	err := ReadDatasetBySample(strings.NewReader(candidateCSV), candidateAttributes(), func(i int, _ dataset.Sample) (bool, error) {
		seen++
		return i < 1, nil
	})
	if err != nil {
		t.Fatalf("ReadDatasetBySample returned error: %v", err)
	}
	if seen != 2 {
		t.Errorf("expected to process 2 samples before stopping, got %d", seen)
	}
}

func TestReadDatasetFailures(t *testing.T) {
	tests := []struct {
		name string
		csv  string
	}{
		{"unknown attribute in header", "level,height\nSenior,12\n"},
		{"invalid categorical value", "level,lang,tweets,phd,commits,hire\nIntern,Java,no,no,1,false\n"},
		{"invalid numeric value", "level,lang,tweets,phd,commits,hire\nSenior,Java,no,no,twelve,false\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ReadDataset(strings.NewReader(tt.csv), candidateAttributes(), dataset.New); err == nil {
				t.Errorf("expected error parsing %q", tt.csv)
			}
		})
	}
}

func TestWriteDatasetRoundTrip(t *testing.T) {
	ctx := context.Background()
	attributes := candidateAttributes()
	ds, err := ReadDataset(strings.NewReader(candidateCSV), attributes, dataset.New)
	if err != nil {
		t.Fatalf("ReadDataset returned error: %v", err)
	}
	var buf bytes.Buffer
	if err = WriteDataset(ctx, &buf, ds, attributes); err != nil {
		t.Fatalf("WriteDataset returned error: %v", err)
	}
	if buf.String() != candidateCSV {
		t.Errorf("round-tripped CSV differs:\ngot:\n%s\nexpected:\n%s", buf.String(), candidateCSV)
	}
}
