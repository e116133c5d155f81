package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/sharanyaa23/DocSense/internal/config"
	"github.com/sharanyaa23/DocSense/internal/documents"
	"github.com/sharanyaa23/DocSense/internal/inference"
	"github.com/sharanyaa23/DocSense/internal/loaders"
	"github.com/sharanyaa23/DocSense/internal/tasks"
	"github.com/sharanyaa23/DocSense/internal/workflow"
)

var verbose bool

// Execute builds the command tree and runs it.
func Execute() error {
	root := &cobra.Command{
		Use:           "docsense",
		Short:         "Validated document task runner",
		Long:          "Run summarization, extraction, classification, conversion, and comparison tasks against local documents with deterministic output validation.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log workflow progress to stderr")

	root.AddCommand(
		newSummarizeCmd(),
		newExtractCmd(),
		newClassifyCmd(),
		newConvertCmd(),
		newCompareCmd(),
		newVersionCmd(),
	)

	return root.Execute()
}

func buildRuntime() (*workflow.Runtime, error) {
	godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("config load: %w", err)
	}

	level := slog.LevelWarn
	if verbose {
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	provider, err := inference.New(&cfg.Provider, logger)
	if err != nil {
		return nil, fmt.Errorf("provider init: %w", err)
	}

	return &workflow.Runtime{
		Provider: provider,
		Tasks:    tasks.NewRegistry(cfg.Alignment.SimilarityThreshold),
		Engine:   cfg.Engine,
		Chunker:  cfg.Chunker,
		Logger:   logger,
	}, nil
}

func loadDocument(path string) (*documents.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	return loaders.Load(filepath.Base(path), data)
}

// runTask loads documents, executes the workflow, and prints the result as
// indented JSON on stdout. An exhausted validation budget prints the attempt
// history before returning the error.
func runTask(cmd *cobra.Command, kind tasks.Kind, req *tasks.Request) error {
	rt, err := buildRuntime()
	if err != nil {
		return err
	}

	result, err := workflow.Execute(context.Background(), rt, kind, req)
	if err != nil {
		var exhausted *workflow.ExhaustedError
		if errors.As(err, &exhausted) {
			printJSON(cmd, map[string]any{
				"error":    exhausted.Error(),
				"attempts": exhausted.Attempts,
			})
		}
		return err
	}

	printJSON(cmd, result)
	return nil
}

func printJSON(cmd *cobra.Command, v any) {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	enc.Encode(v)
}
