package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/strrl/mdwriter/internal/tui"
	"go.uber.org/zap"
)

// NewRootCommand creates the root command
func NewRootCommand() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "mdwriter [file...]",
		Short: "Write Markdown with a live preview",
		Long: `mdwriter is a terminal Markdown editor with a live preview.
Every file opens in its own tab. A tab reads its file the first time it is shown.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEditor(cmd, opts, args)
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&opts.noRecent, "no-recent", false, "Do not record opened documents")
	rootCmd.AddCommand(NewRenderCommand(opts))
	rootCmd.AddCommand(NewInspectCommand())
	rootCmd.AddCommand(NewRecentCommand(opts))

	return rootCmd
}

// Execute runs the root command
func Execute() {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runEditor(cmd *cobra.Command, opts *globalOptions, args []string) error {
	e, err := loadEnv(cmd, opts, true)
	if err != nil {
		return err
	}
	defer e.Close()

	e.log.Info("starting editor", zap.Strings("paths", args))

	if err := tui.Run(tui.Options{
		Paths:  args,
		Recent: e.recent,
		Logger: e.log,
	}); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
