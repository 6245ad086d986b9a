package main

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/gocoreset/coreset"
	"github.com/gocoreset/coreset/dataset"
	"github.com/gocoreset/coreset/export"
	"github.com/gocoreset/coreset/rng"
)

// usageError marks malformed invocations so main can exit with a distinct
// code from run failures.
type usageError struct {
	msg string
}

func (e *usageError) Error() string { return e.msg }

type runFlags struct {
	compression string
	workers     int
	s3Bucket    string
	s3Prefix    string
	verbose     bool
}

func NewRootCmd(version string) *cobra.Command {
	flags := &runFlags{}

	rootCmd := &cobra.Command{
		Use:     "coreset <algorithm> <dataset> <data_path> <k> <m> <seed> <output_dir>",
		Short:   "Build a weighted coreset for k-means clustering",
		Long: `Builds a small weighted subset of a large point set that approximates
the k-means clustering cost of the full set.

Arguments:
  algorithm    uniform-sampling | sensitivity-sampling | group-sampling
  dataset      census | covertype | tower | csv
  data_path    file path to the dataset
  k            number of desired centers
  m            target coreset size
  seed         random seed
  output_dir   directory for results.txt.gz and done.out`,
		Version: version,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 7 {
				return &usageError{msg: fmt.Sprintf("expected 7 arguments, got %d", len(args))}
			}
			return nil
		},
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), args, flags)
		},
	}

	rootCmd.Flags().StringVar(&flags.compression, "compression", "gzip", "Result compression (gzip|lz4|none)")
	rootCmd.Flags().IntVar(&flags.workers, "workers", 1, "Worker count for the k-means assignment step")
	rootCmd.Flags().StringVar(&flags.s3Bucket, "s3-bucket", "", "Publish results to this S3 bucket instead of the local output dir")
	rootCmd.Flags().StringVar(&flags.s3Prefix, "s3-prefix", "", "Key prefix for S3 results")
	rootCmd.Flags().BoolVar(&flags.verbose, "verbose", false, "Enable debug logging")

	return rootCmd
}

func run(ctx context.Context, args []string, flags *runFlags) error {
	if ctx == nil {
		ctx = context.Background()
	}

	algorithmName, datasetName, dataPath := args[0], args[1], args[2]
	outputDir := args[6]

	k, err := parsePositiveInt("k", args[3])
	if err != nil {
		return err
	}
	m, err := parsePositiveInt("m", args[4])
	if err != nil {
		return err
	}
	seed, err := strconv.ParseInt(args[5], 10, 64)
	if err != nil {
		return &usageError{msg: fmt.Sprintf("seed: %q is not an integer", args[5])}
	}

	level := slog.LevelInfo
	if flags.verbose {
		level = slog.LevelDebug
	}
	logger := coreset.NewTextLogger(level).WithSeed(seed)

	kind, err := coreset.ParseKind(algorithmName)
	if err != nil {
		return err
	}

	parser, err := dataset.ForName(datasetName)
	if err != nil {
		return err
	}

	compression, err := export.ParseCompression(flags.compression)
	if err != nil {
		return &usageError{msg: err.Error()}
	}

	logger.Info("starting run",
		"algorithm", kind.String(), "dataset", datasetName, "data_path", dataPath,
		"k", k, "m", m, "output_dir", outputDir)

	parseStart := time.Now()
	points, err := parser.Parse(dataPath)
	if err != nil {
		return fmt.Errorf("parse dataset: %w", err)
	}
	n, d := points.Dims()
	logger.Info("dataset parsed", "rows", n, "columns", d, "elapsed", time.Since(parseStart))

	r := rng.New(seed)

	algo, err := coreset.NewAlgorithm(kind, coreset.Params{K: k, TargetSize: m}, r,
		coreset.WithLogger(logger.WithAlgorithm(kind)),
		coreset.WithNumWorkers(flags.workers),
	)
	if err != nil {
		return err
	}

	runStart := time.Now()
	cs, err := algo.Run(points)
	if err != nil {
		return fmt.Errorf("run %s: %w", kind, err)
	}
	logger.Info("coreset computed",
		"entries", cs.Len(), "total_weight", cs.TotalWeight(), "elapsed", time.Since(runStart))

	sink, err := newSink(ctx, outputDir, flags)
	if err != nil {
		return err
	}

	exporter := export.NewExporter(sink, func(o *export.Options) {
		o.Compression = compression
		o.Logger = logger.Logger
	})

	if err := exporter.Export(ctx, cs, points); err != nil {
		return fmt.Errorf("export results: %w", err)
	}

	logger.Info("run complete", "output_dir", outputDir)
	return nil
}

func newSink(ctx context.Context, outputDir string, flags *runFlags) (export.Sink, error) {
	if flags.s3Bucket != "" {
		return export.NewS3SinkFromDefaultConfig(ctx, flags.s3Bucket, flags.s3Prefix)
	}
	return export.NewLocalSink(outputDir)
}

func parsePositiveInt(name, value string) (int, error) {
	v, err := strconv.Atoi(value)
	if err != nil || v <= 0 {
		return 0, &usageError{msg: fmt.Sprintf("%s: %q is not a positive integer", name, value)}
	}
	return v, nil
}
