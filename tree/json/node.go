package json

import (
	"encoding/json"
	"fmt"

	"github.com/grovekit/grove/attribute"
	"github.com/grovekit/grove/tree"
)

/*
NodeEncodeDecoder is an interface for objects that allow encoding nodes
into slices of bytes and decoding them back to nodes.
*/
type NodeEncodeDecoder interface {

	// Encode receives a *tree.Node and returns a slice of bytes
	// with the node encoded, or an error if the encoding could
	// not be performed for some reason.
	Encode(*tree.Node) ([]byte, error)

	// Decode receives a slice of bytes and returns a *tree.Node
	// decoded from it, or an error if the decoding could not be
	// performed for some reason.
	Decode([]byte) (*tree.Node, error)
}

/*
CriteriaEncodeDecoder is an interface for objects that allow encoding
criteria into slices of bytes and decoding them back to criteria.
*/
type CriteriaEncodeDecoder interface {
	Encode(attribute.Criterion) ([]byte, error)
	Decode([]byte) (attribute.Criterion, error)
}

type nodeEncodeDecoder struct {
	CriteriaEncodeDecoder
	attributes []attribute.Attribute
}

type node struct {
	ID             string           `json:"id"`
	ParentID       string           `json:"pId,omitempty"`
	SubtreeIDs     []string         `json:"stIds,omitempty"`
	Criterion      *json.RawMessage `json:"c,omitempty"`
	SplitAttribute string           `json:"at,omitempty"`
	Prediction     *json.RawMessage `json:"pred,omitempty"`
}

type jsonPrediction struct {
	Probabilities map[string]float64 `json:"probs,omitempty"`
	Weight        int                `json:"w,omitempty"`
}

/*
NewNodeEncodeDecoder returns a NodeEncodeDecoder that uses the given
CriteriaEncodeDecoder to encode/decode the nodes' criteria and the given
attributes to resolve split attribute names.
*/
func NewNodeEncodeDecoder(ced CriteriaEncodeDecoder, attributes []attribute.Attribute) NodeEncodeDecoder {
	return &nodeEncodeDecoder{ced, attributes}
}

func (ned *nodeEncodeDecoder) Encode(n *tree.Node) ([]byte, error) {
	jn := &node{
		ID:       n.ID,
		ParentID: n.ParentID,
	}
	if len(n.SubtreeIDs) > 0 {
		jn.SubtreeIDs = n.SubtreeIDs
	}
	if n.Criterion != nil {
		c, err := ned.CriteriaEncodeDecoder.Encode(n.Criterion)
		if err != nil {
			return nil, err
		}
		rc := json.RawMessage(c)
		jn.Criterion = &rc
	}
	if n.Prediction != nil {
		p, err := json.Marshal(&jsonPrediction{Probabilities: n.Prediction.Probabilities(), Weight: n.Prediction.Weight()})
		if err != nil {
			return nil, err
		}
		rp := json.RawMessage(p)
		jn.Prediction = &rp
	}
	if n.SplitAttribute != nil {
		jn.SplitAttribute = n.SplitAttribute.Name()
	}
	return json.Marshal(jn)
}

func (ned *nodeEncodeDecoder) Decode(data []byte) (*tree.Node, error) {
	jn := &node{}
	err := json.Unmarshal(data, jn)
	if err != nil {
		return nil, err
	}
	n := &tree.Node{}
	if jn.Criterion != nil {
		n.Criterion, err = ned.CriteriaEncodeDecoder.Decode(*jn.Criterion)
		if err != nil {
			return nil, err
		}
	}
	if jn.Prediction != nil {
		n.Prediction, err = UnmarshalJSONPrediction(*jn.Prediction)
		if err != nil {
			return nil, err
		}
	}
	n.ID = jn.ID
	n.ParentID = jn.ParentID
	if len(jn.SubtreeIDs) > 0 {
		n.SubtreeIDs = jn.SubtreeIDs
	}
	if jn.SplitAttribute != "" {
		var sa attribute.Attribute
		for _, a := range ned.attributes {
			if a.Name() == jn.SplitAttribute {
				sa = a
				break
			}
		}
		if sa == nil {
			return nil, fmt.Errorf("unmarshalling node %v: unknown attribute %v", n.ID, jn.SplitAttribute)
		}
		n.SplitAttribute = sa
	}
	return n, nil
}

/*
UnmarshalJSONPrediction takes a slice of bytes and returns a pointer to a
new tree.Prediction with the data from the slice unmarshalled into it or
an error. The slice of bytes is expected to contain a JSON object with
the following fields:
  - "probs": a JSON object mapping label values to their float64
    probabilities
  - "w": an integer with the number of samples in the dataset from which
    the prediction was made.
*/
func UnmarshalJSONPrediction(b []byte) (*tree.Prediction, error) {
	jp := &jsonPrediction{}
	err := json.Unmarshal(b, jp)
	if err != nil {
		return nil, err
	}
	return tree.NewPrediction(jp.Probabilities, jp.Weight), nil
}
