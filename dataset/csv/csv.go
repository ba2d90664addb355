/*
Package csv reads and writes datasets of labeled samples as CSV streams.

The header or first row of a CSV stream names the attributes of the
samples; the remaining rows hold their values, with the '?' string marking
an absent value.
*/
package csv

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/grovekit/grove/attribute"
	"github.com/grovekit/grove/dataset"
)

/*
Writer is an interface for a destination samples can be written to.
*/
type Writer interface {
	// Write attempts to write the given samples and returns the
	// number actually written and an error if not all of them
	// could be.
	Write(context.Context, []dataset.Sample) (int, error)
	// WriteSample writes a single sample.
	WriteSample(context.Context, dataset.Sample) error
	// Count returns the total number of samples written so far.
	Count() int
	// Flush ensures any pending write operations finish before
	// returning. It returns an error if that cannot be ensured.
	Flush() error
}

/*
DatasetGenerator is a function that takes a slice of samples and builds a
dataset with them.
*/
type DatasetGenerator func([]dataset.Sample) dataset.Dataset

type csvWriter struct {
	count      int
	attributes []attribute.Attribute
	w          *csv.Writer
}

/*
ReadDataset takes an io.Reader for a CSV stream, a slice of attributes and
a DatasetGenerator and returns a dataset built with the generator and the
samples parsed from the reader, or an error.
*/
func ReadDataset(reader io.Reader, attributes []attribute.Attribute, dg DatasetGenerator) (dataset.Dataset, error) {
	samples := []dataset.Sample{}
	err := ReadDatasetBySample(reader, attributes, func(_ int, s dataset.Sample) (bool, error) {
		samples = append(samples, s)
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return dg(samples), nil
}

/*
ReadDatasetBySample takes an io.Reader for a CSV stream, a slice of
attributes and a lambda function on an integer and a dataset.Sample that
returns a boolean value. It parses the samples from the reader and calls
the lambda with each sample and its index. If the lambda returns true
the next sample is processed, otherwise parsing stops. An error is
returned if the stream cannot be read or a sample cannot be parsed.
*/
func ReadDatasetBySample(reader io.Reader, attributes []attribute.Attribute, lambda func(int, dataset.Sample) (bool, error)) error {
	attributesByName := attributeSliceToMap(attributes)
	r := csv.NewReader(reader)
	header, err := r.Read()
	if err != nil {
		return fmt.Errorf("reading header: %v", err)
	}
	attributeOrder, err := parseAttributesFromCSVHeader(header, attributesByName)
	if err != nil {
		return err
	}
	for l := 2; ; l++ {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("reading body: %v", err)
		}
		sample, err := parseSampleFromCSVRow(row, attributeOrder)
		if err != nil {
			return fmt.Errorf("parsing line %d: %v", l, err)
		}
		ok, err := lambda(l-2, sample)
		if err != nil {
			return err
		}
		if !ok {
			break
		}
	}
	return nil
}

/*
ReadDatasetFromFilePath takes a filepath string, a slice of attributes and
a DatasetGenerator, opens the file the filepath points to (os.Stdin when
the filepath is "") and uses ReadDataset to parse a dataset from it.
*/
func ReadDatasetFromFilePath(filepath string, attributes []attribute.Attribute, dg DatasetGenerator) (dataset.Dataset, error) {
	var f *os.File
	var err error
	if filepath == "" {
		f = os.Stdin
	} else {
		f, err = os.Open(filepath)
		if err != nil {
			return nil, fmt.Errorf("reading dataset: %v", err)
		}
	}
	defer f.Close()
	ds, err := ReadDataset(f, attributes, dg)
	if err != nil {
		err = fmt.Errorf("parsing CSV file %s: %v", filepath, err)
	}
	return ds, err
}

/*
ReadDatasetBySampleFromFilePath takes a filepath string, a slice of
attributes and a lambda function, opens the file the filepath points to
(os.Stdin when the filepath is "") and uses ReadDatasetBySample to process
its samples with the lambda.
*/
func ReadDatasetBySampleFromFilePath(filepath string, attributes []attribute.Attribute, lambda func(int, dataset.Sample) (bool, error)) error {
	var f *os.File
	var err error
	if filepath == "" {
		f = os.Stdin
	} else {
		f, err = os.Open(filepath)
		if err != nil {
			return fmt.Errorf("reading dataset: %v", err)
		}
	}
	defer f.Close()
	return ReadDatasetBySample(f, attributes, lambda)
}

/*
NewWriter takes an io.Writer and a slice of attributes and returns a
Writer that writes samples on the io.Writer as CSV rows, after writing
the attribute names as the header row.
*/
func NewWriter(writer io.Writer, attributes []attribute.Attribute) (Writer, error) {
	w := csv.NewWriter(writer)
	record := make([]string, len(attributes))
	for i, a := range attributes {
		record[i] = a.Name()
	}
	err := w.Write(record)
	if err != nil {
		return nil, fmt.Errorf("writing CSV header: %v", err)
	}
	return &csvWriter{attributes: attributes, w: w}, nil
}

/*
WriteDataset takes a context, an io.Writer, a dataset and a slice of
attributes and dumps the dataset to the writer in CSV format, specifying
only the given attributes for the samples. It returns an error if
something went wrong writing or codifying the samples.
*/
func WriteDataset(ctx context.Context, writer io.Writer, ds dataset.Dataset, attributes []attribute.Attribute) error {
	cw, err := NewWriter(writer, attributes)
	if err != nil {
		return err
	}
	samples, err := ds.Samples(ctx)
	if err != nil {
		return err
	}
	_, err = cw.Write(ctx, samples)
	if err != nil {
		return err
	}
	return cw.Flush()
}

func (cw *csvWriter) Count() int {
	return cw.count
}

func (cw *csvWriter) Write(ctx context.Context, samples []dataset.Sample) (int, error) {
	for n := 0; n < len(samples); n++ {
		err := cw.WriteSample(ctx, samples[n])
		if err != nil {
			return n, err
		}
	}
	return len(samples), nil
}

func (cw *csvWriter) WriteSample(ctx context.Context, sample dataset.Sample) error {
	record := make([]string, len(cw.attributes))
	for j, a := range cw.attributes {
		v, err := sample.ValueFor(ctx, a)
		if err != nil {
			return err
		}
		if v == nil {
			record[j] = "?"
		} else {
			record[j] = fmt.Sprintf("%v", v)
		}
	}
	err := cw.w.Write(record)
	if err != nil {
		return fmt.Errorf("writing CSV row for sample %d: %v", cw.count+1, err)
	}
	cw.count++
	return nil
}

func (cw *csvWriter) Flush() error {
	cw.w.Flush()
	return cw.w.Error()
}

func parseAttributesFromCSVHeader(header []string, attributes map[string]attribute.Attribute) ([]attribute.Attribute, error) {
	attributeOrder := []attribute.Attribute{}
	for _, name := range header {
		a, ok := attributes[name]
		if !ok {
			return nil, fmt.Errorf("parsing header: reference to unknown attribute %s", name)
		}
		attributeOrder = append(attributeOrder, a)
	}
	return attributeOrder, nil
}

func parseSampleFromCSVRow(row []string, attributeOrder []attribute.Attribute) (dataset.Sample, error) {
	attributeValues := make(map[string]interface{})
	for i, a := range attributeOrder {
		v := row[i]
		var value interface{}
		if v != "?" {
			if _, ok := a.(*attribute.Numeric); ok {
				parsed, err := strconv.ParseFloat(v, 64)
				if err != nil {
					return nil, fmt.Errorf("converting %s to float64: %v", v, err)
				}
				value = parsed
			} else {
				value = v
			}
		}
		if ok, err := a.Validate(value); !ok {
			return nil, fmt.Errorf("invalid value %v of type %T for attribute %s: %v", value, value, a.Name(), err)
		}
		attributeValues[a.Name()] = value
	}
	return dataset.NewSample(attributeValues), nil
}

func attributeSliceToMap(attributes []attribute.Attribute) map[string]attribute.Attribute {
	result := make(map[string]attribute.Attribute)
	for _, a := range attributes {
		result[a.Name()] = a
	}
	return result
}
