package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	grove "github.com/grovekit/grove"
	"github.com/grovekit/grove/attribute"
	attributejson "github.com/grovekit/grove/attribute/json"
	"github.com/grovekit/grove/attribute/yaml"
	"github.com/grovekit/grove/dataset"
	"github.com/grovekit/grove/dataset/csv"
	datasetjson "github.com/grovekit/grove/dataset/json"
	"github.com/grovekit/grove/queue"
	queuejson "github.com/grovekit/grove/queue/json"
	"github.com/grovekit/grove/queue/redisq"
	"github.com/grovekit/grove/tree"
	treejson "github.com/grovekit/grove/tree/json"
	"github.com/grovekit/grove/tree/redisstore"
	"github.com/spf13/cobra"
	redis "gopkg.in/redis.v5"
)

const emptyQueueSleep = 100 * time.Millisecond

const (
	redisTaskMaxRun = 10 * time.Minute
	redisLockTTL    = 10 * time.Second
)

type growCmdConfig struct {
	*rootCmdConfig
	dataInput              string
	metadataInput          string
	output                 string
	label                  string
	pruneStrategy          string
	cpuIntensiveDataset    bool
	memoryIntensiveDataset bool
	maxDBConns             int
	workers                int
	redisAddr              string
	redisPrefix            string
}

func growCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &growCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "grow",
		Short: "Grow a tree from a dataset",
		Long:  `Grow a decision tree from a dataset of training samples to predict a certain attribute.`,
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
			label, available := labelAttribute(attributes, config.label)
			if label == nil {
				fmt.Fprintf(os.Stderr, "label attribute '%s' is not defined\n", config.label)
				os.Exit(3)
			}
			trainingDataset, err := openDataset(ctx, config.dataInput, attributes, config.maxDBConns, config.datasetGenerator(), config.rootCmdConfig)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(4)
			}
			pruner, err := pruningStrategy(config.pruneStrategy)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(5)
			}
			count, err := trainingDataset.Count(ctx)
			if err != nil {
				fmt.Fprintf(os.Stderr, "counting training samples: %v\n", err)
				os.Exit(6)
			}
			config.Logf("Growing tree from a dataset with %d samples and %d attributes to predict %s ...", count, len(available), label.Name())
			t, err := config.grow(ctx, label, available, attributes, trainingDataset, pruner)
			if err != nil {
				fmt.Fprintf(os.Stderr, "growing the tree: %v\n", err)
				os.Exit(7)
			}
			config.Logf("Done")
			config.Logf("%v", t)
			err = outputTree(ctx, config.output, t, attributes)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(8)
			}
		},
	}
	cmd.PersistentFlags().StringVarP(&(config.dataInput), "input", "i", "", "path to an input CSV (.csv) or SQLite3 (.db) file, or a PostgreSQL or MongoDB connection URL with data to use to grow the tree (defaults to STDIN, interpreted as CSV)")
	cmd.PersistentFlags().StringVarP(&(config.metadataInput), "metadata", "m", "", "path to a YML file with metadata describing the different attributes available on the input (required)")
	cmd.PersistentFlags().StringVarP(&(config.output), "output", "o", "", "path to a file to which the generated tree will be written in JSON format (defaults to STDOUT)")
	cmd.PersistentFlags().StringVarP(&(config.label), "label", "l", "", "name of the attribute the generated tree should predict (required)")
	cmd.PersistentFlags().StringVarP(&(config.pruneStrategy), "prune", "p", "default", "pruning strategy to apply, the following are valid: default, minimum-information-gain:[VALUE], none")
	cmd.PersistentFlags().BoolVar(&(config.memoryIntensiveDataset), "memory-intensive", false, "force the use of memory-intensive subsetting to decrease time at the cost of increasing memory use")
	cmd.PersistentFlags().BoolVar(&(config.cpuIntensiveDataset), "cpu-intensive", false, "force the use of cpu-intensive subsetting to decrease memory use at the cost of increasing time")
	cmd.PersistentFlags().IntVar(&(config.maxDBConns), "max-db-conns", 0, "limit to DB connections opened at a time (defaults to 0: no limit)")
	cmd.PersistentFlags().IntVarP(&(config.workers), "workers", "w", 1, "number of concurrent workers developing tree nodes")
	cmd.PersistentFlags().StringVar(&(config.redisAddr), "redis", "", "host:port of a redis server to keep the task queue and node store, so several grove processes can grow the tree together (defaults to growing in-process)")
	cmd.PersistentFlags().StringVar(&(config.redisPrefix), "redis-prefix", "grove", "prefix for the redis keys holding the queue and node data")
	return cmd
}

func (gcc *growCmdConfig) Validate() error {
	if gcc.metadataInput == "" {
		return fmt.Errorf("required metadata flag was not set")
	}
	if gcc.label == "" {
		return fmt.Errorf("required label flag was not set")
	}
	if gcc.cpuIntensiveDataset && gcc.memoryIntensiveDataset {
		return fmt.Errorf("cannot set both memory-intensive and cpu-intensive flags at the same time")
	}
	if gcc.workers < 1 {
		return fmt.Errorf("workers flag must be set to a positive integer")
	}
	return nil
}

func (gcc *growCmdConfig) datasetGenerator() csv.DatasetGenerator {
	if gcc.memoryIntensiveDataset {
		return csv.DatasetGenerator(dataset.NewMemoryIntensive)
	}
	if gcc.cpuIntensiveDataset {
		return csv.DatasetGenerator(dataset.NewCPUIntensive)
	}
	return csv.DatasetGenerator(dataset.New)
}

func (gcc *growCmdConfig) grow(ctx context.Context, label attribute.Attribute, available, attributes []attribute.Attribute, ds dataset.Dataset, pruner grove.Pruner) (*tree.Tree, error) {
	q, ns := gcc.growBackends(ds, attributes)
	defer q.Stop(ctx)
	gs := &grove.GrowStrategy{Pruner: pruner, MinimumEntropy: 0}
	t, err := grove.Sow(ctx, label, available, ds, q, ns)
	if err != nil {
		return nil, err
	}
	errs := make(chan error, gcc.workers)
	for i := 0; i < gcc.workers; i++ {
		go func() {
			errs <- grove.Work(ctx, t, q, gs, emptyQueueSleep)
		}()
	}
	for i := 0; i < gcc.workers; i++ {
		if werr := <-errs; werr != nil && err == nil {
			err = werr
		}
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// growBackends returns the queue and node store backing the growth:
// in-memory ones by default, redis-backed ones when the redis flag is
// set, with tasks shipped as JSON documents referencing nodes by ID
// and datasets as the input URI plus subsetting criteria.
func (gcc *growCmdConfig) growBackends(ds dataset.Dataset, attributes []attribute.Attribute) (queue.Queue, tree.NodeStore) {
	if gcc.redisAddr == "" {
		return queue.New(), tree.NewMemoryNodeStore()
	}
	rc := redis.NewClient(&redis.Options{Addr: gcc.redisAddr})
	ced := attributejson.NewCriteriaEncodeDecoder(attributes)
	ns := redisstore.New(rc, fmt.Sprintf("%s:nodes", gcc.redisPrefix), treejson.NewNodeEncodeDecoder(ced, attributes))
	ded := datasetjson.New(ds, gcc.dataInput, ced)
	q := redisq.New(gcc.redisPrefix, rc, redisTaskMaxRun, redisLockTTL, queuejson.New(attributes, ded, ns))
	return q, ns
}

func outputTree(ctx context.Context, outputPath string, t *tree.Tree, attributes []attribute.Attribute) error {
	var f *os.File
	var err error
	if outputPath == "" {
		f = os.Stdout
	} else {
		f, err = os.Create(outputPath)
		if err != nil {
			return err
		}
	}
	defer f.Close()
	ned := treejson.NewNodeEncodeDecoder(attributejson.NewCriteriaEncodeDecoder(attributes), attributes)
	return treejson.WriteJSONTree(ctx, t, ned, f)
}

func pruningStrategy(ps string) (grove.Pruner, error) {
	parsedPS := strings.Split(ps, ":")
	ps = parsedPS[0]
	psParams := parsedPS[1:]
	switch ps {
	case "default":
		return grove.DefaultPruner(), nil
	case "none":
		return grove.NoPruner(), nil
	case "minimum-information-gain":
		if len(psParams) == 0 {
			return nil, fmt.Errorf("minimum-information-gain pruning strategy requires a value parameter")
		}
		minimum, err := strconv.ParseFloat(psParams[0], 64)
		if err != nil {
			return nil, fmt.Errorf("parsing minimum-information-gain parameter: %v", err)
		}
		return grove.FixedInformationGainPruner(minimum), nil
	}
	return nil, fmt.Errorf("unknown pruning strategy %s", ps)
}
