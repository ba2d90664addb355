/*
Package mongodataset provides an implementation of dataset.Dataset that
uses a MongoDB database as backend. Subsetting pushes attribute criteria
down as Mongo queries, so entropy and count calculations run as
aggregations on the database instead of over in-memory samples.
*/
package mongodataset

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/grovekit/grove/attribute"
	"github.com/grovekit/grove/dataset"
	"github.com/grovekit/grove/entropy"
	mgo "gopkg.in/mgo.v2"
	"gopkg.in/mgo.v2/bson"
)

/*
Dataset is a dataset.Dataset to which samples can be added and from which
samples can be sequentially read.
*/
type Dataset interface {
	dataset.Dataset
	Write(context.Context, []dataset.Sample) (int, error)
	Read(context.Context) (<-chan dataset.Sample, <-chan error)
}

type mongodataset struct {
	session    *mgo.Session
	attributes []attribute.Attribute
	criteria   []attribute.Criterion
	mongoQuery bson.M
	entropy    *float64
}

const (
	samplesCollectionName = "samples"
)

/*
Open takes a MongoDB database session and a slice of attributes and
returns a Dataset working on the default database for that session, or an
error if its indexes cannot be ensured.
*/
func Open(ctx context.Context, session *mgo.Session, attributes []attribute.Attribute) (Dataset, error) {
	mds := &mongodataset{session, attributes, nil, nil, nil}
	err := mds.ensureIndexes()
	if err != nil {
		return nil, err
	}
	return mds, nil
}

func (mds *mongodataset) Entropy(ctx context.Context, label attribute.Attribute) (float64, error) {
	if mds.entropy != nil {
		return *mds.entropy, nil
	}
	counts, err := mds.CountAttributeValues(ctx, label)
	if err != nil {
		return 0.0, err
	}
	result := entropy.OfCounts(counts)
	mds.entropy = &result
	return result, nil
}

func (mds *mongodataset) ClassProbabilities(ctx context.Context, label attribute.Attribute) ([]float64, error) {
	counts, err := mds.CountAttributeValues(ctx, label)
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

func (mds *mongodataset) SubsetWith(ctx context.Context, c attribute.Criterion) (dataset.Dataset, error) {
	return &mongodataset{mds.session, mds.attributes, append([]attribute.Criterion{c}, mds.criteria...), nil, nil}, nil
}

func (mds *mongodataset) AttributeValues(ctx context.Context, a attribute.Attribute) ([]interface{}, error) {
	if mds.mongoQuery == nil {
		mds.query()
	}
	iter := mds.samplesCollection().Pipe([]bson.M{{"$match": mds.mongoQuery}, {"$group": bson.M{"_id": fmt.Sprintf("$%s", a.Name())}}}).Iter()
	defer iter.Close()
	var doc bson.M
	var result []interface{}
	for iter.Next(&doc) {
		result = append(result, doc["_id"])
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (mds *mongodataset) CountAttributeValues(ctx context.Context, a attribute.Attribute) (map[string]int, error) {
	if mds.mongoQuery == nil {
		mds.query()
	}
	iter := mds.samplesCollection().Pipe([]bson.M{{"$match": mds.mongoQuery}, {"$group": bson.M{"_id": fmt.Sprintf("$%s", a.Name()), "count": bson.M{"$sum": 1}}}}).Iter()
	defer iter.Close()
	var doc bson.M
	result := make(map[string]int)
	for iter.Next(&doc) {
		if doc["_id"] == nil {
			continue
		}
		count, ok := doc["count"].(int)
		if !ok {
			return nil, fmt.Errorf("counting attribute values: mongo aggregation query returned a %T instead of an int as count", doc["count"])
		}
		result[fmt.Sprintf("%v", doc["_id"])] = count
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (mds *mongodataset) Samples(ctx context.Context) ([]dataset.Sample, error) {
	var samples []dataset.Sample
	count, err := mds.Count(ctx)
	if err == nil {
		samples = make([]dataset.Sample, 0, count)
	}
	sampleChan, errs := mds.Read(ctx)
	for sample := range sampleChan {
		samples = append(samples, sample)
	}
	err = <-errs
	return samples, err
}

func (mds *mongodataset) Count(context.Context) (int, error) {
	return mds.query().Count()
}

func (mds *mongodataset) Criteria(context.Context) ([]attribute.Criterion, error) {
	return mds.criteria, nil
}

func (mds *mongodataset) Write(ctx context.Context, samples []dataset.Sample) (int, error) {
	docs := make([]interface{}, 0, len(samples))
	for _, s := range samples {
		doc := make(bson.M)
		for _, a := range mds.attributes {
			value, err := s.ValueFor(ctx, a)
			if err != nil {
				return 0, err
			}
			if value != nil {
				doc[a.Name()] = value
			}
		}
		docs = append(docs, doc)
	}
	err := mds.samplesCollection().Insert(docs...)
	if err != nil {
		return 0, err
	}
	return len(samples), nil
}

func (mds *mongodataset) Read(ctx context.Context) (<-chan dataset.Sample, <-chan error) {
	samples := make(chan dataset.Sample)
	errs := make(chan error, 1)
	go func() {
		var doc bson.M
		var err error
		iter := mds.query().Iter()
		defer iter.Close()
		for iter.Next(&doc) {
			values := make(map[string]interface{}, len(doc))
			for k, v := range doc {
				values[k] = v
			}
			s := dataset.NewSample(values)
			select {
			case <-ctx.Done():
				err = ctx.Err()
			case samples <- s:
			}
			if err != nil {
				break
			}
		}
		if err == nil {
			err = iter.Err()
		}
		if err != nil {
			errs <- err
		}
		close(errs)
		close(samples)
	}()
	return samples, errs
}

func (mds *mongodataset) ensureIndexes() error {
	for _, a := range mds.attributes {
		aName := a.Name()
		if aName == "_id" {
			return fmt.Errorf("invalid attribute name %q: reserved collection field", "_id")
		}
		if strings.ContainsAny(aName, ".$") {
			return fmt.Errorf("invalid attribute name %q: contains reserved characters %q or %q", aName, ".", "$")
		}
		index := mgo.Index{
			Key:        []string{aName},
			Background: true,
			Sparse:     true,
		}
		err := mds.samplesCollection().EnsureIndex(index)
		if err != nil {
			return err
		}
	}
	return nil
}

func (mds *mongodataset) samplesCollection() *mgo.Collection {
	return mds.session.DB("").C(samplesCollectionName)
}

func (mds *mongodataset) query() *mgo.Query {
	if mds.mongoQuery == nil {
		mds.mongoQuery = make(bson.M)
		for _, c := range mds.criteria {
			aName := c.Attribute().Name()
			switch qc := c.(type) {
			case attribute.EqualsCriterion:
				mds.mongoQuery[aName] = qc.Value()
			case attribute.IntervalCriterion:
				a, b := qc.Interval()
				var rangeValue bson.M
				if v, ok := mds.mongoQuery[aName]; ok && v != nil {
					rangeValue = v.(bson.M)
				}
				if rangeValue == nil {
					rangeValue = make(bson.M)
				}
				if !math.IsInf(a, 0) {
					v, ok := rangeValue["$gte"].(float64)
					if !ok || v < a {
						rangeValue["$gte"] = a
					}
				}
				if !math.IsInf(b, 0) {
					v, ok := rangeValue["$lt"].(float64)
					if !ok || v > b {
						rangeValue["$lt"] = b
					}
				}
				mds.mongoQuery[aName] = rangeValue
			}
		}
	}
	return mds.samplesCollection().Find(mds.mongoQuery)
}
