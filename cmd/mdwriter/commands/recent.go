package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/strrl/mdwriter/internal/recent"
)

// NewRecentCommand creates the recent command
func NewRecentCommand(opts *globalOptions) *cobra.Command {
	var (
		limit    int
		forget   string
		clearAll bool
	)

	cmd := &cobra.Command{
		Use:   "recent",
		Short: "List recently opened documents",
		Long: `List the documents recently opened or saved in the editor.
With --forget the given path is removed from the list, with --clear the whole list is.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRecent(cmd, opts, limit, forget, clearAll)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum number of documents (default $MDWRITER_RECENT_LIMIT or 20)")
	cmd.Flags().StringVar(&forget, "forget", "", "Remove a path from the list")
	cmd.Flags().BoolVar(&clearAll, "clear", false, "Remove every entry")
	return cmd
}

func runRecent(cmd *cobra.Command, opts *globalOptions, limit int, forget string, clearAll bool) error {
	e, err := loadEnv(cmd, opts, false)
	if err != nil {
		return err
	}
	defer e.Close()

	store, err := openRecent(e)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	switch {
	case clearAll:
		if err := store.Clear(ctx); err != nil {
			return err
		}
		fmt.Fprintln(out, "Recent documents cleared")
		return nil

	case forget != "":
		removed, err := store.Forget(ctx, forget)
		if err != nil {
			return err
		}
		if !removed {
			fmt.Fprintf(out, "'%s' is not in the recent documents\n", forget)
			return nil
		}
		fmt.Fprintf(out, "Forgot '%s'\n", forget)
		return nil
	}

	if limit <= 0 {
		limit = e.cfg.RecentLimit
	}
	docs, err := store.List(ctx, limit)
	if err != nil {
		return fmt.Errorf("failed to fetch recent documents: %w", err)
	}

	if len(docs) == 0 {
		fmt.Fprintln(out, "No recent documents")
		return nil
	}

	fmt.Fprintln(out, "Recent documents:")
	fmt.Fprintln(out, "=================")
	for i, doc := range docs {
		fmt.Fprintf(out, "%d. %s\n", i+1, doc.Name)
		fmt.Fprintf(out, "   Path: %s\n", doc.Path)
		fmt.Fprintf(out, "   Last %s: %s (%d times)\n", doc.LastAction, doc.LastOpened.Format("2006-01-02 15:04"), doc.OpenCount)
	}
	return nil
}

func openRecent(e *env) (*recent.Store, error) {
	store, err := recent.Open(e.cfg.RecentDBPath())
	if err != nil {
		return nil, fmt.Errorf("failed to open recent documents: %w", err)
	}
	return store, nil
}
