package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/spf13/cobra"

	"github.com/zjrosen/diagrammer/internal/configstore"
	"github.com/zjrosen/diagrammer/internal/editor"
	"github.com/zjrosen/diagrammer/internal/ui/styles"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect the merged UI configuration",
}

var configDumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Print the UI configuration after every fragment and plugin merged",
	Long: `Print the UI configuration the editor builds its menus, toolbar, toolbox
and popup from, after the built-in fragment, the configured fragments and the
enabled plugins have been merged. The output is itself a valid fragment.

Example:
  diagrammer config dump > ui.yaml`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		merged, err := mergedUI(cmd.Context())
		if err != nil {
			return err
		}
		out, err := configstore.Marshal(merged)
		if err != nil {
			return fmt.Errorf("encoding configuration: %w", err)
		}
		_, err = cmd.OutOrStdout().Write(out)
		return err
	},
}

var configDiffCmd = &cobra.Command{
	Use:   "diff",
	Short: "Show what fragments and plugins changed in the built-in UI",
	Long: `Compare the built-in UI fragment with the merged configuration and print
a line diff: "+" lines were added by a fragment or plugin, "-" lines were
dropped (merging only adds, so these point at reordered entries).`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		core, err := editor.CoreFragment()
		if err != nil {
			return err
		}
		merged, err := mergedUI(cmd.Context())
		if err != nil {
			return err
		}
		before, err := configstore.Marshal(core)
		if err != nil {
			return fmt.Errorf("encoding built-in configuration: %w", err)
		}
		after, err := configstore.Marshal(merged)
		if err != nil {
			return fmt.Errorf("encoding configuration: %w", err)
		}
		return writeLineDiff(cmd.OutOrStdout(), string(before), string(after))
	},
}

func init() {
	configCmd.AddCommand(configDumpCmd, configDiffCmd)
	rootCmd.AddCommand(configCmd)
}

// mergedUI starts a throwaway session and returns its UI document. No
// properties are read or written.
func mergedUI(ctx context.Context) (*configstore.Node, error) {
	if cfgErr != nil {
		return nil, cfgErr
	}
	if ctx == nil {
		ctx = context.Background()
	}
	ed, err := startEditor(ctx, editor.Options{})
	if err != nil {
		return nil, err
	}
	return ed.Store().Document(editor.UIDocument), nil
}

var (
	diffAdd = lipgloss.NewStyle().Foreground(styles.StatusSuccessColor)
	diffDel = lipgloss.NewStyle().Foreground(styles.StatusErrorColor)
)

// writeLineDiff prints a unified-style line diff of a and b without hunks.
func writeLineDiff(w io.Writer, a, b string) error {
	dmp := diffmatchpatch.New()
	ca, cb, lines := dmp.DiffLinesToChars(a, b)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(ca, cb, false), lines)

	changed := false
	var out strings.Builder
	for _, d := range diffs {
		prefix, style := "  ", lipgloss.NewStyle()
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			prefix, style, changed = "+ ", diffAdd, true
		case diffmatchpatch.DiffDelete:
			prefix, style, changed = "- ", diffDel, true
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			out.WriteString(style.Render(prefix + strings.TrimSuffix(line, "\n")))
			out.WriteByte('\n')
		}
	}
	if !changed {
		_, err := io.WriteString(w, "No fragment or plugin changes the built-in UI.\n")
		return err
	}
	_, err := io.WriteString(w, out.String())
	return err
}
