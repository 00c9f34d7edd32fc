package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/strrl/mdwriter/internal/markdown"
)

// NewInspectCommand creates the inspect command
func NewInspectCommand() *cobra.Command {
	var outline bool

	cmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "Show the parsed structure of a Markdown file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd, args[0], outline)
		},
	}

	cmd.Flags().BoolVar(&outline, "outline", false, "Only list the headings")
	return cmd
}

func runInspect(cmd *cobra.Command, path string, outline bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	doc := markdown.NewParser().Parse(string(data))
	out := cmd.OutOrStdout()

	if !outline {
		return markdown.Dump(out, doc)
	}

	headings := markdown.Outline(doc)
	if len(headings) == 0 {
		fmt.Fprintln(out, "No headings found")
		return nil
	}
	for _, h := range headings {
		fmt.Fprintf(out, "%s%s (#%s)\n", strings.Repeat("  ", h.Level-1), h.Text, h.ID)
	}
	return nil
}
