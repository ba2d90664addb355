/*
Package json provides a task serialization format based on JSON, so
that tasks can be stored on queue backends that hold raw bytes.
*/
package json

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/grovekit/grove/attribute"
	"github.com/grovekit/grove/dataset"
	"github.com/grovekit/grove/queue"
	"github.com/grovekit/grove/tree"
)

/*
TaskEncodeDecoder is an interface for objects
that allow encoding tasks as slices of bytes and decoding
them back to tasks. It is used to serialize tasks into a
representation to store on a queue backend.
*/
type TaskEncodeDecoder interface {

	// Encode receives a *queue.Task
	// and returns a slice of bytes with the task encoded or an
	// error if the encoding could not be performed for
	// some reason.
	Encode(context.Context, *queue.Task) ([]byte, error)

	// Decode receives a slice of bytes
	// and returns a *queue.Task decoded from the slice of bytes
	// or an error if the decoding could not be performed
	// for some reason.
	Decode(context.Context, []byte) (*queue.Task, error)
}

/*
DatasetEncodeDecoder is an interface for objects
that allow encoding datasets into slices of
bytes and decoding them back to datasets.
*/
type DatasetEncodeDecoder interface {

	// Encode receives a dataset.Dataset
	// and returns a slice of bytes with the dataset
	// encoded or an error if the encoding could not
	// be performed for some reason.
	Encode(context.Context, dataset.Dataset) ([]byte, error)

	// Decode receives a slice of bytes
	// and returns a dataset.Dataset decoded from the
	// slice of bytes or an error if the decoding
	// could not be performed for some reason.
	Decode(context.Context, []byte) (dataset.Dataset, error)
}

type jsonEncodeDecoder struct {
	attributes []attribute.Attribute
	ded        DatasetEncodeDecoder
	ns         tree.NodeStore
}

type jsonTask struct {
	NodeID                  string          `json:"id"`
	AvailableAttributeNames []string        `json:"ats"`
	Dataset                 json.RawMessage `json:"ds"`
}

/*
New returns a TaskEncodeDecoder that serializes tasks as JSON
documents. Nodes are not embedded in the document but referenced
by ID and resolved against the given tree.NodeStore on decoding,
datasets are serialized with the given DatasetEncodeDecoder and
attributes are referenced by name and resolved against the given
list.
*/
func New(attributes []attribute.Attribute, ded DatasetEncodeDecoder, ns tree.NodeStore) TaskEncodeDecoder {
	return &jsonEncodeDecoder{attributes, ded, ns}
}

func (jed *jsonEncodeDecoder) Encode(ctx context.Context, t *queue.Task) ([]byte, error) {
	jt := &jsonTask{NodeID: t.ID()}
	for _, at := range t.AvailableAttributes {
		jt.AvailableAttributeNames = append(jt.AvailableAttributeNames, at.Name())
	}
	denc, err := jed.ded.Encode(ctx, t.Dataset)
	if err != nil {
		return nil, fmt.Errorf("encoding task as json: %v", err)
	}
	jt.Dataset = denc
	return json.Marshal(jt)
}

func (jed *jsonEncodeDecoder) Decode(ctx context.Context, data []byte) (*queue.Task, error) {
	jt := &jsonTask{}
	err := json.Unmarshal(data, jt)
	if err != nil {
		return nil, fmt.Errorf("decoding task from json: %v", err)
	}
	t := &queue.Task{}
	t.Node, err = jed.ns.Get(ctx, jt.NodeID)
	if err != nil {
		return nil, fmt.Errorf("decoding json task: getting task node: %v", err)
	}
	if t.Node == nil {
		return nil, fmt.Errorf("decoding json task: could not get node %q from node store", jt.NodeID)
	}
	for _, aan := range jt.AvailableAttributeNames {
		var aa attribute.Attribute
		for _, at := range jed.attributes {
			if at.Name() == aan {
				aa = at
				break
			}
		}
		if aa == nil {
			return nil, fmt.Errorf("decoding json task: unknown attribute %q", aan)
		}
		t.AvailableAttributes = append(t.AvailableAttributes, aa)
	}
	t.Dataset, err = jed.ded.Decode(ctx, jt.Dataset)
	if err != nil {
		return nil, fmt.Errorf("decoding json task: decoding task dataset: %v", err)
	}
	return t, nil
}
