package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"copystudio-api/internal/application/adapter"
	"copystudio-api/internal/application/catalog"
	"copystudio-api/internal/application/quality"
	"copystudio-api/internal/application/suggest"
	"copystudio-api/internal/application/textdiff"
	"copystudio-api/internal/domain/entity"
)

type rootOptions struct {
	catalogPath string
	pretty      bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "studioctl",
		Short:         "Offline tools for copy templates, quality scores and diffs",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.catalogPath, "catalog", "", "template catalog YAML (defaults to the built-in catalog)")
	root.PersistentFlags().BoolVar(&opts.pretty, "pretty", false, "indent JSON output")

	root.AddCommand(
		newSuggestCmd(opts),
		newScoreCmd(opts),
		newDiffCmd(opts),
		newAdaptCmd(opts),
	)
	return root
}

func newSuggestCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "suggest [request text]",
		Short: "Rank templates for a free-text request (reads stdin when no argument is given)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := argOrStdin(cmd, args)
			if err != nil {
				return err
			}
			tpls, err := loadTemplates(cmd.Context(), opts.catalogPath)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), suggest.Suggest(text, tpls), opts.pretty)
		},
	}
}

func newScoreCmd(opts *rootOptions) *cobra.Command {
	var baselineFile string
	cmd := &cobra.Command{
		Use:   "score [file]",
		Short: "Heuristic quality score of a text file (stdin when omitted)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := fileOrStdin(cmd, args)
			if err != nil {
				return err
			}
			current := quality.Score(text)
			if baselineFile == "" {
				return writeJSON(cmd.OutOrStdout(), current, opts.pretty)
			}

			raw, err := os.ReadFile(baselineFile)
			if err != nil {
				return err
			}
			baseline := quality.Score(string(raw))
			return writeJSON(cmd.OutOrStdout(), struct {
				Baseline   entity.QualityScore     `json:"baseline"`
				Current    entity.QualityScore     `json:"current"`
				Comparison quality.ScoreComparison `json:"comparison"`
			}{baseline, current, quality.CompareScores(baseline, current)}, opts.pretty)
		},
	}
	cmd.Flags().StringVar(&baselineFile, "baseline", "", "compare against the score of this file")
	return cmd
}

func newDiffCmd(opts *rootOptions) *cobra.Command {
	var statsOnly bool
	cmd := &cobra.Command{
		Use:   "diff <baseline-file> <current-file>",
		Short: "Line diff between two text files",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			baseline, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			current, err := os.ReadFile(args[1])
			if err != nil {
				return err
			}
			lines := textdiff.Lines(string(baseline), string(current))
			stats := textdiff.Summarize(lines)
			if statsOnly {
				return writeJSON(cmd.OutOrStdout(), stats, opts.pretty)
			}
			if opts.pretty {
				return writeUnified(cmd.OutOrStdout(), lines)
			}
			return writeJSON(cmd.OutOrStdout(), struct {
				Lines []entity.DiffLine  `json:"lines"`
				Stats textdiff.DiffStats `json:"stats"`
			}{lines, stats}, false)
		},
	}
	cmd.Flags().BoolVar(&statsOnly, "stats", false, "print only added/removed/unchanged counts")
	return cmd
}

func newAdaptCmd(opts *rootOptions) *cobra.Command {
	kinds := make([]string, 0, len(adapter.Kinds()))
	for _, k := range adapter.Kinds() {
		kinds = append(kinds, string(k))
	}
	return &cobra.Command{
		Use:       "adapt <" + strings.Join(kinds, "|") + "> [file]",
		Short:     "Normalize a raw backend list response (stdin when no file is given)",
		Args:      cobra.RangeArgs(1, 2),
		ValidArgs: kinds,
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := fileOrStdin(cmd, args[1:])
			if err != nil {
				return err
			}
			records, err := adapter.Map(adapter.Kind(args[0]), []byte(raw))
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), records, opts.pretty)
		},
	}
}

func loadTemplates(ctx context.Context, path string) ([]entity.Template, error) {
	if path == "" {
		return catalog.Builtin(), nil
	}
	c, err := catalog.Load(ctx, catalog.FileSource{Path: path})
	if err != nil {
		return nil, err
	}
	return c.Templates(), nil
}

func argOrStdin(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	raw, err := io.ReadAll(cmd.InOrStdin())
	return string(raw), err
}

func fileOrStdin(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 && args[0] != "-" {
		raw, err := os.ReadFile(args[0])
		return string(raw), err
	}
	raw, err := io.ReadAll(cmd.InOrStdin())
	return string(raw), err
}

func writeJSON(w io.Writer, v any, pretty bool) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}

// writeUnified 以 +/-/空格 前缀逐行输出
func writeUnified(w io.Writer, lines []entity.DiffLine) error {
	for _, l := range lines {
		prefix := " "
		switch l.Type {
		case entity.DiffLineAdded:
			prefix = "+"
		case entity.DiffLineRemoved:
			prefix = "-"
		}
		if _, err := fmt.Fprintln(w, prefix+l.Text); err != nil {
			return err
		}
	}
	return nil
}
