package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/grovekit/grove/attribute/yaml"
	"github.com/grovekit/grove/dataset"
	"github.com/grovekit/grove/dataset/csv"
	"github.com/spf13/cobra"
)

type splitCmdConfig struct {
	*rootCmdConfig
	dataInput        string
	metadataInput    string
	dataOutput       string
	splitOutput      string
	splitProbability int
}

func splitCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &splitCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "split",
		Short: "Split a dataset into two datasets",
		Long:  `Split a dataset into an output dataset and a split dataset, assigning samples randomly. Use it to set apart testing data before growing a tree.`,
		Run: func(cmd *cobra.Command, args []string) {
			err := config.Validate()
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			ctx := context.Background()
			config.Logf("Reading attributes from metadata at %s...", config.metadataInput)
			attributes, err := yaml.ReadAttributesFromFile(config.metadataInput)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(2)
			}
			config.Logf("Attributes from metadata read")

			var outputFile *os.File
			if config.dataOutput != "" {
				config.Logf("Creating %s to dump output dataset...", config.dataOutput)
				outputFile, err = os.Create(config.dataOutput)
				if err != nil {
					fmt.Fprintln(os.Stderr, err)
					os.Exit(3)
				}
				defer outputFile.Close()
			} else {
				config.Logf("Using STDOUT to dump output dataset...")
				outputFile = os.Stdout
			}
			config.Logf("Preparing to write output dataset...")
			output, err := csv.NewWriter(outputFile, attributes)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(4)
			}

			config.Logf("Creating %s to dump split dataset...", config.splitOutput)
			splitOutputFile, err := os.Create(config.splitOutput)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(5)
			}
			defer splitOutputFile.Close()
			config.Logf("Preparing to write split dataset...")
			splitOutput, err := csv.NewWriter(splitOutputFile, attributes)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(6)
			}

			randomizer := rand.New(rand.NewSource(time.Now().UnixNano()))
			splitter := func(i int, s dataset.Sample) (bool, error) {
				var err error
				if (100 * randomizer.Float32()) > float32(config.splitProbability) {
					err = output.WriteSample(ctx, s)
				} else {
					err = splitOutput.WriteSample(ctx, s)
				}
				if err != nil {
					return false, err
				}
				return true, nil
			}

			if config.dataInput == "" {
				config.Logf("Reading input dataset from STDIN and splitting it into output and split datasets...")
				err = csv.ReadDatasetBySample(os.Stdin, attributes, splitter)
			} else {
				config.Logf("Splitting input dataset at %s into output and split datasets...", config.dataInput)
				err = csv.ReadDatasetBySampleFromFilePath(config.dataInput, attributes, splitter)
			}
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(7)
			}
			config.Logf("Flushing output dataset...")
			err = output.Flush()
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(8)
			}
			config.Logf("Flushing split dataset...")
			err = splitOutput.Flush()
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(9)
			}
			config.Logf("Done")
			config.Logf("Input dataset with %d samples was split into datasets with %d and %d samples", output.Count()+splitOutput.Count(), output.Count(), splitOutput.Count())
		},
	}
	cmd.PersistentFlags().StringVarP(&(config.dataInput), "input", "i", "", "path to an input CSV file with the dataset to split (defaults to STDIN)")
	cmd.PersistentFlags().StringVarP(&(config.metadataInput), "metadata", "m", "", "path to a YML file with metadata describing the different attributes available on the input (required)")
	cmd.PersistentFlags().StringVarP(&(config.dataOutput), "output", "o", "", "path to a file to dump the output dataset (defaults to STDOUT)")
	cmd.PersistentFlags().IntVarP(&(config.splitProbability), "split-probability", "p", 20, "probability as percent integer that a sample of the dataset will be assigned to the split dataset")
	cmd.PersistentFlags().StringVarP(&(config.splitOutput), "split-output", "s", "", "path to a file to dump the split dataset (required)")
	return cmd
}

func (scc *splitCmdConfig) Validate() error {
	if scc.metadataInput == "" {
		return fmt.Errorf("required metadata flag was not set")
	}
	if scc.splitOutput == "" {
		return fmt.Errorf("required split-output flag was not set")
	}
	if scc.splitProbability <= 0 || scc.splitProbability > 100 {
		return fmt.Errorf("split-probability flag was set to an invalid value: it must be set to an integer between 1 and 100")
	}
	return nil
}
