/*
Package entropy implements Shannon entropy calculations over class label
distributions, the numeric core used to evaluate dataset partitions when
growing decision trees.

All entropies are measured in bits (base-2 logarithm): 0 when every sample
shares one label, 1 for an even two-class split.
*/
package entropy

import "math"

// EntropyError represents an error computing an entropy-related value.
type EntropyError string

func (ee EntropyError) Error() string {
	return string(ee)
}

/*
ErrNoLabels is the error returned when a class probability distribution or
an entropy value is requested for zero labels: with a total count of 0 the
class proportions are undefined.
*/
const ErrNoLabels = EntropyError("cannot compute class probabilities without labels")

/*
Of takes a slice of float64 class proportions and returns their entropy in
bits: the sum over the proportions p of -p*log2(p).

Proportions equal to 0 contribute 0 to the result and are skipped without
being passed to the logarithm, following the limit of p*log2(p) as p
approaches 0. The proportions are expected to add up to 1.0, but this is
not enforced.
*/
func Of(probs []float64) float64 {
	var result float64
	for _, p := range probs {
		if p == 0 {
			continue
		}
		result -= p * math.Log2(p)
	}
	return result
}

/*
ClassProbabilities takes a slice of label strings and returns the
proportion of occurrences of each distinct label, in no particular order,
or ErrNoLabels if the slice is empty.
*/
func ClassProbabilities(labels []string) ([]float64, error) {
	if len(labels) == 0 {
		return nil, ErrNoLabels
	}
	counts := make(map[string]int)
	for _, l := range labels {
		counts[l]++
	}
	total := float64(len(labels))
	probs := make([]float64, 0, len(counts))
	for _, c := range counts {
		probs = append(probs, float64(c)/total)
	}
	return probs, nil
}

/*
OfLabels takes a slice of label strings and returns the entropy of their
empirical class distribution, or ErrNoLabels if the slice is empty.
*/
func OfLabels(labels []string) (float64, error) {
	probs, err := ClassProbabilities(labels)
	if err != nil {
		return 0.0, err
	}
	return Of(probs), nil
}

/*
OfCounts takes a map of label values to occurrence counts and returns the
entropy of the distribution they describe. A nil or empty map, or one whose
counts add up to 0, has entropy 0: there is nothing to be uncertain about.
Dataset backends that count label values without materializing label slices
use this instead of OfLabels.
*/
func OfCounts(counts map[string]int) float64 {
	var total float64
	for _, c := range counts {
		total += float64(c)
	}
	if total == 0 {
		return 0.0
	}
	var result float64
	for _, c := range counts {
		if c == 0 {
			continue
		}
		p := float64(c) / total
		result -= p * math.Log2(p)
	}
	return result
}

/*
OfPartition takes a slice of label subsets covering a dataset and returns
the weighted average of the subsets' entropies, each weighted by the
proportion of samples it holds.

Empty subsets have weight 0 and are skipped rather than having their
(undefined) entropy computed. If the subsets hold no samples at all,
ErrNoLabels is returned.
*/
func OfPartition(subsets [][]string) (float64, error) {
	var total int
	for _, subset := range subsets {
		total += len(subset)
	}
	if total == 0 {
		return 0.0, ErrNoLabels
	}
	var result float64
	for _, subset := range subsets {
		if len(subset) == 0 {
			continue
		}
		e, err := OfLabels(subset)
		if err != nil {
			return 0.0, err
		}
		result += e * float64(len(subset)) / float64(total)
	}
	return result, nil
}
