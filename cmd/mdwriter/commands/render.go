package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/strrl/mdwriter/internal/document"
	"github.com/strrl/mdwriter/internal/markdown"
)

// NewRenderCommand creates the render command
func NewRenderCommand(opts *globalOptions) *cobra.Command {
	var width int

	cmd := &cobra.Command{
		Use:   "render <file>",
		Short: "Print the preview of a Markdown file without the TUI",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, opts, args[0], width)
		},
	}

	cmd.Flags().IntVarP(&width, "width", "w", 0, "Wrap width (default $MDWRITER_PREVIEW_WIDTH or 80)")
	return cmd
}

func runRender(cmd *cobra.Command, opts *globalOptions, path string, width int) error {
	e, err := loadEnv(cmd, opts, false)
	if err != nil {
		return err
	}
	defer e.Close()

	if width <= 0 {
		width = e.cfg.PreviewWidth
	}

	parser := markdown.NewParser()
	renderer := markdown.NewRenderer()
	var rendered string

	session := document.New(path, document.Options{
		NewEditor: func() document.Editor {
			return document.NewTextBuffer(parser.ParseAny)
		},
		NewPreview: func() document.Preview {
			return document.PreviewFunc(func(v any) {
				if doc, ok := v.(*markdown.Document); ok {
					rendered = renderer.Render(doc, width)
				}
			})
		},
		Reporter: document.ReporterFunc(func(title, message string) {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", title, message)
		}),
		Logger: e.log,
	})
	defer session.Close()

	session.Activate()
	if err := session.LoadErr(); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), rendered)
	return nil
}
