package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/symptomd/internal/classifier/forest"
	"github.com/kailas-cloud/symptomd/internal/config"
	logpkg "github.com/kailas-cloud/symptomd/internal/logger"
	"github.com/kailas-cloud/symptomd/internal/training"
	"github.com/kailas-cloud/symptomd/internal/version"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "symptomd-train",
		Short:        "Generate training data and fit symptomd classifier artifacts",
		Version:      version.String(),
		SilenceUsage: true,
	}
	root.PersistentFlags().String("log-level", "", "Log level override (debug, info, warn, error)")
	root.AddCommand(generateCmd())
	root.AddCommand(fitCmd())
	root.AddCommand(runCmd())
	return root
}

func generateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write a synthetic labeled dataset as CSV",
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := newLogger(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			samples, _ := cmd.Flags().GetInt("samples")
			seed, _ := cmd.Flags().GetInt64("seed")
			out, _ := cmd.Flags().GetString("out")

			ds, err := generate(samples, seed)
			if err != nil {
				return err
			}
			if err := training.SaveCSV(out, ds); err != nil {
				return fmt.Errorf("save dataset: %w", err)
			}
			logger.Info("Dataset written",
				zap.String("path", out),
				zap.Int("samples", ds.Len()),
				zap.Any("counts", ds.Counts()),
			)
			return nil
		},
	}
	cmd.Flags().Int("samples", training.DefaultSamples, "Number of samples to draw")
	cmd.Flags().Int64("seed", 42, "Random seed")
	cmd.Flags().String("out", "data/training.csv", "Output CSV path")
	return cmd
}

func fitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fit",
		Short: "Fit a model artifact from a CSV dataset",
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := newLogger(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			data, _ := cmd.Flags().GetString("data")
			out, _ := cmd.Flags().GetString("out")

			ds, err := training.LoadCSV(data, symptomVocabulary())
			if err != nil {
				return fmt.Errorf("load dataset: %w", err)
			}
			_, err = training.FitAndSave(cmd.Context(), ds, forestConfig(cmd), out, logger)
			return err //nolint:wrapcheck // already wrapped by training
		},
	}
	cmd.Flags().String("data", "data/training.csv", "Input CSV path")
	cmd.Flags().String("out", "model/model.json", "Output artifact path")
	addForestFlags(cmd)
	return cmd
}

func runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Generate a dataset and fit an artifact in one step",
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := newLogger(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			samples, _ := cmd.Flags().GetInt("samples")
			out, _ := cmd.Flags().GetString("out")
			cfg := forestConfig(cmd)

			ds, err := generate(samples, cfg.Seed)
			if err != nil {
				return err
			}
			_, err = training.FitAndSave(cmd.Context(), ds, cfg, out, logger)
			return err //nolint:wrapcheck // already wrapped by training
		},
	}
	cmd.Flags().Int("samples", training.DefaultSamples, "Number of samples to draw")
	cmd.Flags().String("out", "model/model.json", "Output artifact path")
	addForestFlags(cmd)
	return cmd
}

func addForestFlags(cmd *cobra.Command) {
	def := forest.DefaultConfig()
	cmd.Flags().Int("trees", def.Trees, "Number of trees")
	cmd.Flags().Int("max-depth", def.MaxDepth, "Maximum tree depth (0 = unlimited)")
	cmd.Flags().Int("min-samples-leaf", def.MinSamplesLeaf, "Minimum samples per leaf")
	cmd.Flags().Int("max-features", def.MaxFeatures, "Candidate features per split (0 = all, -1 = sqrt)")
	cmd.Flags().Int64("seed", def.Seed, "Random seed")
	cmd.Flags().Int("workers", 0, "Parallel tree builders (0 = GOMAXPROCS)")
}

func forestConfig(cmd *cobra.Command) forest.Config {
	cfg := forest.DefaultConfig()
	cfg.Trees, _ = cmd.Flags().GetInt("trees")
	cfg.MaxDepth, _ = cmd.Flags().GetInt("max-depth")
	cfg.MinSamplesLeaf, _ = cmd.Flags().GetInt("min-samples-leaf")
	cfg.MaxFeatures, _ = cmd.Flags().GetInt("max-features")
	cfg.Seed, _ = cmd.Flags().GetInt64("seed")
	cfg.Workers, _ = cmd.Flags().GetInt("workers")
	return cfg
}

func newLogger(cmd *cobra.Command) (*zap.Logger, error) {
	level, _ := cmd.Flags().GetString("log-level")
	logger, err := logpkg.NewLogger(config.GetEnv(), level)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	return logger, nil
}
