package tree

import (
	"context"
	"fmt"
	"strings"

	"github.com/grovekit/grove/attribute"
	"github.com/grovekit/grove/dataset"
)

/*
Prediction represents a prediction made by a decision Tree: the class
probability distribution of the label attribute over the training
samples that reached a node.
*/
type Prediction struct {
	probabilities map[string]float64
	weight        int
}

// PredictionError represents an error related with predictions
type PredictionError string

/*
ErrCannotPredictFromSample is the error returned by the Predict method of
a tree when the prediction cannot be made because the tree itself cannot
make a prediction for that kind of sample, as opposed to cases where
values for an attribute cannot be obtained for example.
*/
const ErrCannotPredictFromSample = PredictionError("no prediction available for this kind of sample")

/*
ErrCannotPredictFromEmptyDataset is the error returned when trying to
build a prediction based on a dataset with no samples.
*/
const ErrCannotPredictFromEmptyDataset = PredictionError("cannot make prediction for empty dataset")

func (pe PredictionError) Error() string {
	return string(pe)
}

/*
NewPrediction takes a map of label values to their probabilities and an
integer with the number of samples in the dataset from which those
probabilities were computed and returns a prediction with them.
*/
func NewPrediction(probs map[string]float64, weight int) *Prediction {
	return &Prediction{probabilities: probs, weight: weight}
}

/*
NewPredictionFromDataset takes a context, a dataset and a label attribute
and returns a prediction for the label based on the training data in the
dataset, or an error if the dataset has no samples or cannot be queried.
*/
func NewPredictionFromDataset(ctx context.Context, ds dataset.Dataset, label attribute.Attribute) (*Prediction, error) {
	weight, err := ds.Count(ctx)
	if err != nil {
		return nil, err
	}
	if weight == 0 {
		return nil, ErrCannotPredictFromEmptyDataset
	}
	counts, err := ds.CountAttributeValues(ctx, label)
	if err != nil {
		return nil, err
	}
	probs := make(map[string]float64)
	for v, c := range counts {
		probs[v] = float64(c) / float64(weight)
	}
	return &Prediction{probs, weight}, nil
}

/*
ProbabilityOf takes a label value and returns its float64 probability
according to the prediction.
*/
func (p *Prediction) ProbabilityOf(value string) float64 {
	return p.probabilities[value]
}

/*
Probabilities returns a map of label values to their float64
probabilities according to the prediction.
*/
func (p *Prediction) Probabilities() map[string]float64 {
	return p.probabilities
}

/*
Weight returns the weight of the prediction: the number of samples in the
dataset from which it was made.
*/
func (p *Prediction) Weight() int {
	return p.weight
}

/*
PredictedValue returns the most probable label value and its prevalence.
*/
func (p *Prediction) PredictedValue() (value string, prob float64) {
	for k, v := range p.probabilities {
		if v > prob {
			value = k
			prob = v
		}
	}
	return
}

func (p *Prediction) String() string {
	return strings.Replace(fmt.Sprintf("%v", p.probabilities), "map", "", 1)
}
