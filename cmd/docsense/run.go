package main

import (
	"github.com/spf13/cobra"

	"github.com/sharanyaa23/DocSense/internal/tasks"
)

var (
	extractTypes   []string
	classifyLabels []string
	requiredFields []string
)

func newSummarizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summarize <file>",
		Short: "Summarize a document",
		Long:  "Produce a validated summary covering every detected document section.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := loadDocument(args[0])
			if err != nil {
				return err
			}
			return runTask(cmd, tasks.KindSummarize, &tasks.Request{Document: doc})
		},
	}
}

func newExtractCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract <file>",
		Short: "Extract structured data from a document",
		Long: `Extract typed values from a document, rejecting any value that does not
appear verbatim in the source text.

Examples:
  docsense extract contract.pdf
  docsense extract --type=emails,dates invoice.docx`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := loadDocument(args[0])
			if err != nil {
				return err
			}
			return runTask(cmd, tasks.KindExtract, &tasks.Request{
				Document: doc,
				Options:  tasks.Options{ExtractTypes: extractTypes},
			})
		},
	}

	cmd.Flags().StringSliceVar(&extractTypes, "type", nil, "Extraction types (comma-separated); defaults to all")

	return cmd
}

func newClassifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classify <file>",
		Short: "Classify a document",
		Long: `Assign one label from a closed set with a calibrated confidence level.

Examples:
  docsense classify resume.pdf
  docsense classify --labels=memo,policy,other notes.txt`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := loadDocument(args[0])
			if err != nil {
				return err
			}
			return runTask(cmd, tasks.KindClassify, &tasks.Request{
				Document: doc,
				Options:  tasks.Options{Labels: classifyLabels},
			})
		},
	}

	cmd.Flags().StringSliceVar(&classifyLabels, "labels", nil, "Label set (comma-separated); defaults to the built-in categories")

	return cmd
}

func newConvertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert <file>",
		Short: "Convert a document to structured JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := loadDocument(args[0])
			if err != nil {
				return err
			}
			return runTask(cmd, tasks.KindConvertJSON, &tasks.Request{
				Document: doc,
				Options:  tasks.Options{RequiredFields: requiredFields},
			})
		},
	}

	cmd.Flags().StringSliceVar(&requiredFields, "fields", nil, "Fields the JSON output must populate; defaults to main_content")

	return cmd
}

func newCompareCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "compare <file> <file2>",
		Short: "Compare two document versions",
		Long:  "Align two documents and describe every addition, deletion, and modification between them.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := loadDocument(args[0])
			if err != nil {
				return err
			}
			secondary, err := loadDocument(args[1])
			if err != nil {
				return err
			}
			return runTask(cmd, tasks.KindCompare, &tasks.Request{
				Document:  doc,
				Secondary: secondary,
			})
		},
	}
}
