/*
Package dbdataset provides an implementation of dataset.Dataset backed by
an SQL database through an Adapter. Subsetting pushes attribute criteria
down as WHERE-clause conditions, so counts and entropy calculations run
as aggregate queries on the database.
*/
package dbdataset

import (
	"context"
	"fmt"

	"github.com/grovekit/grove/attribute"
	"github.com/grovekit/grove/dataset"
	"github.com/grovekit/grove/entropy"
)

/*
Set is a dataset.Dataset to which samples can be added and from which
samples can be sequentially read.
*/
type Set interface {
	dataset.Dataset
	Write(context.Context, []dataset.Sample) (int, error)
	Read(context.Context) (<-chan dataset.Sample, <-chan error)
}

type dbSet struct {
	db            Adapter
	attributes    []attribute.Attribute
	criteria      []attribute.Criterion
	colsByName    map[string]string
	attrsByColumn map[string]attribute.Attribute
	columns       []string
	count         *int
	entropy       *float64
}

/*
Open takes an Adapter to a database backend and a slice of attributes and
returns a Set backed by the adapter, after ensuring the samples table
exists, or an error.
*/
func Open(ctx context.Context, db Adapter, attributes []attribute.Attribute) (Set, error) {
	s := &dbSet{db: db, attributes: attributes}
	err := s.initColumns()
	if err != nil {
		return nil, err
	}
	err = db.CreateSampleTable(ctx, attributes)
	if err != nil {
		return nil, fmt.Errorf("creating samples table: %v", err)
	}
	return s, nil
}

func (s *dbSet) Entropy(ctx context.Context, label attribute.Attribute) (float64, error) {
	if s.entropy != nil {
		return *s.entropy, nil
	}
	counts, err := s.CountAttributeValues(ctx, label)
	if err != nil {
		return 0.0, err
	}
	result := entropy.OfCounts(counts)
	s.entropy = &result
	return result, nil
}

func (s *dbSet) ClassProbabilities(ctx context.Context, label attribute.Attribute) ([]float64, error) {
	counts, err := s.CountAttributeValues(ctx, label)
	if err != nil {
		return nil, err
	}
	var total float64
	for _, c := range counts {
		total += float64(c)
	}
	if total == 0 {
		return nil, entropy.ErrNoLabels
	}
	probs := make([]float64, 0, len(counts))
	for _, c := range counts {
		probs = append(probs, float64(c)/total)
	}
	return probs, nil
}

func (s *dbSet) SubsetWith(ctx context.Context, c attribute.Criterion) (dataset.Dataset, error) {
	return &dbSet{
		db:            s.db,
		attributes:    s.attributes,
		criteria:      append([]attribute.Criterion{c}, s.criteria...),
		colsByName:    s.colsByName,
		attrsByColumn: s.attrsByColumn,
		columns:       s.columns,
	}, nil
}

func (s *dbSet) AttributeValues(ctx context.Context, a attribute.Attribute) ([]interface{}, error) {
	column, ok := s.colsByName[a.Name()]
	if !ok {
		return nil, fmt.Errorf("unknown attribute %q", a.Name())
	}
	criteria, err := s.sampleCriteria()
	if err != nil {
		return nil, err
	}
	return s.db.ListSampleValues(ctx, criteria, column)
}

func (s *dbSet) CountAttributeValues(ctx context.Context, a attribute.Attribute) (map[string]int, error) {
	column, ok := s.colsByName[a.Name()]
	if !ok {
		return nil, fmt.Errorf("unknown attribute %q", a.Name())
	}
	criteria, err := s.sampleCriteria()
	if err != nil {
		return nil, err
	}
	return s.db.CountSampleValues(ctx, criteria, column)
}

func (s *dbSet) Samples(ctx context.Context) ([]dataset.Sample, error) {
	var samples []dataset.Sample
	count, err := s.Count(ctx)
	if err == nil {
		samples = make([]dataset.Sample, 0, count)
	}
	sampleChan, errs := s.Read(ctx)
	for sample := range sampleChan {
		samples = append(samples, sample)
	}
	err = <-errs
	return samples, err
}

func (s *dbSet) Count(ctx context.Context) (int, error) {
	if s.count != nil {
		return *s.count, nil
	}
	criteria, err := s.sampleCriteria()
	if err != nil {
		return 0, err
	}
	count, err := s.db.CountSamples(ctx, criteria)
	if err != nil {
		return 0, err
	}
	s.count = &count
	return count, nil
}

func (s *dbSet) Criteria(ctx context.Context) ([]attribute.Criterion, error) {
	return s.criteria, nil
}

func (s *dbSet) Write(ctx context.Context, samples []dataset.Sample) (int, error) {
	rawSamples := make([]map[string]interface{}, 0, len(samples))
	for _, sample := range samples {
		raw := make(map[string]interface{})
		for _, a := range s.attributes {
			value, err := sample.ValueFor(ctx, a)
			if err != nil {
				return 0, err
			}
			if value != nil {
				raw[s.colsByName[a.Name()]] = value
			}
		}
		rawSamples = append(rawSamples, raw)
	}
	return s.db.AddSamples(ctx, rawSamples, s.columns)
}

func (s *dbSet) Read(ctx context.Context) (<-chan dataset.Sample, <-chan error) {
	samples := make(chan dataset.Sample)
	errs := make(chan error, 1)
	go func() {
		criteria, err := s.sampleCriteria()
		if err == nil {
			err = s.db.IterateOnSamples(ctx, criteria, s.columns, func(_ int, raw map[string]interface{}) (bool, error) {
				values := make(map[string]interface{}, len(raw))
				for column, v := range raw {
					values[s.attrsByColumn[column].Name()] = v
				}
				select {
				case <-ctx.Done():
					return false, ctx.Err()
				case samples <- dataset.NewSample(values):
				}
				return true, nil
			})
		}
		if err != nil {
			errs <- err
		}
		close(errs)
		close(samples)
	}()
	return samples, errs
}

func (s *dbSet) sampleCriteria() ([]*SampleCriterion, error) {
	var result []*SampleCriterion
	for _, c := range s.criteria {
		scs, err := NewSampleCriteria(c, s.db.ColumnName)
		if err != nil {
			return nil, err
		}
		result = append(result, scs...)
	}
	return result, nil
}

func (s *dbSet) initColumns() error {
	s.colsByName = make(map[string]string)
	s.attrsByColumn = make(map[string]attribute.Attribute)
	for _, a := range s.attributes {
		column, err := s.db.ColumnName(a.Name())
		if err != nil {
			return err
		}
		s.colsByName[a.Name()] = column
		s.attrsByColumn[column] = a
		s.columns = append(s.columns, column)
	}
	return nil
}
