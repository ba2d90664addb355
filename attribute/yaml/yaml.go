/*
Package yaml parses attribute.Attribute declarations, also known as
metadata, from YAML documents.
*/
package yaml

import (
	"fmt"
	"io/ioutil"

	"github.com/grovekit/grove/attribute"
	yaml "gopkg.in/yaml.v2"
)

/*
ReadAttributes takes a slice of bytes with attribute declarations in YAML
and returns a slice of attributes parsed from it or an error.
The YAML is expected to be an object with an attributes property whose
value is an object with a property per attribute: either the string
'numeric' for numeric attributes or a list of admissible values for
categorical ones.
*/
func ReadAttributes(md []byte) ([]attribute.Attribute, error) {
	metadata := struct {
		Attributes map[string]interface{}
	}{}
	err := yaml.Unmarshal(md, &metadata)
	if err != nil {
		return nil, fmt.Errorf("parsing yml attributes: %v", err)
	}
	if metadata.Attributes == nil {
		return nil, fmt.Errorf("metadata file has no attribute information")
	}
	attributes := []attribute.Attribute{}
	for name, vs := range metadata.Attributes {
		switch values := vs.(type) {
		case string:
			if values != "numeric" {
				return nil, fmt.Errorf("invalid declaration %q for attribute %s", values, name)
			}
			attributes = append(attributes, attribute.NewNumeric(name))
		case []interface{}:
			stringVs := []string{}
			for _, v := range values {
				stringVs = append(stringVs, fmt.Sprintf("%v", v))
			}
			attributes = append(attributes, attribute.NewCategorical(name, stringVs))
		case []string:
			attributes = append(attributes, attribute.NewCategorical(name, values))
		default:
			return nil, fmt.Errorf("invalid attribute declaration of type %T", vs)
		}
	}
	return attributes, nil
}

/*
ReadAttributesFromFile takes a filepath string, reads its contents and uses
ReadAttributes to parse them into a slice of attributes or an error. An
error is also returned if the file cannot be opened for reading.
*/
func ReadAttributesFromFile(filepath string) ([]attribute.Attribute, error) {
	md, err := ioutil.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("reading attributes yml file %s: %v", filepath, err)
	}
	attributes, err := ReadAttributes(md)
	if err != nil {
		err = fmt.Errorf("parsing attributes yml file %s: %v", filepath, err)
	}
	return attributes, err
}
