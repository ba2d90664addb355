package main

import (
	"context"
	"fmt"
	"os"

	"github.com/grovekit/grove/attribute"
	"github.com/grovekit/grove/attribute/yaml"
	"github.com/grovekit/grove/dataset/inputsample"
	"github.com/spf13/cobra"
)

type predictCmdConfig struct {
	*rootCmdConfig
	treeInput     string
	metadataInput string
	absentValue   string
}

type stdoutValueRequester string

func predictCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &predictCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Predict a label for a sample answering questions",
		Long:  `Use a grown tree to predict the label attribute value for a sample answering a reduced set of questions about its attributes`,
		Run: func(cmd *cobra.Command, args []string) {
			err := config.Validate()
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			ctx := context.Background()
			attributes, err := yaml.ReadAttributesFromFile(config.metadataInput)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(2)
			}
			t, err := loadTree(ctx, config.treeInput, attributes)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(3)
			}
			sample := inputsample.New(os.Stdin, attributes, stdoutValueRequester(config.absentValue), config.absentValue)
			prediction, err := t.Predict(ctx, sample)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(4)
			}
			fmt.Printf("Predicted values along their probabilities are %v\n", prediction)
		},
	}
	cmd.PersistentFlags().StringVarP(&(config.metadataInput), "metadata", "m", "", "path to a YML file with metadata describing the different attributes of the samples (required)")
	cmd.PersistentFlags().StringVarP(&(config.treeInput), "tree", "t", "", "path to a file from which the tree will be read and parsed as JSON (required)")
	cmd.PersistentFlags().StringVarP(&(config.absentValue), "absent-value", "u", "?", "value to input to declare a sample's value for an attribute as absent")
	return cmd
}

func (pcc *predictCmdConfig) Validate() error {
	if pcc.metadataInput == "" {
		return fmt.Errorf("required metadata flag was not set")
	}
	if pcc.treeInput == "" {
		return fmt.Errorf("required tree flag was not set")
	}
	return nil
}

func (svr stdoutValueRequester) RequestValueFor(a attribute.Attribute) error {
	switch a := a.(type) {
	case *attribute.Categorical:
		fmt.Printf("Please provide the sample's %s:\n(valid values are %v or %s if absent)\n", a.Name(), a.Values(), string(svr))
	case *attribute.Numeric:
		fmt.Printf("Please provide the sample's %s:\n(valid values are real numbers or %s if absent)\n", a.Name(), string(svr))
	default:
		return fmt.Errorf("unknown attribute type %T", a)
	}
	return nil
}

func (svr stdoutValueRequester) RejectValueFor(a attribute.Attribute, value interface{}) error {
	switch a := a.(type) {
	case *attribute.Categorical:
		fmt.Printf("%v is not a valid value for the sample's %s. Please provide one of %v or %s if absent.\n", value, a.Name(), a.Values(), string(svr))
	case *attribute.Numeric:
		fmt.Printf("%v is not a valid value for the sample's %s. Please provide a real number or %s if absent.\n", value, a.Name(), string(svr))
	default:
		return fmt.Errorf("unknown attribute type %T", a)
	}
	return nil
}
