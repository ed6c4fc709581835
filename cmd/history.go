// -- cmd/history.go --
package cmd

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/xkilldash9x/softphys/internal/observability"
	"github.com/xkilldash9x/softphys/internal/reporting"
	"github.com/xkilldash9x/softphys/internal/store"
)

func newHistoryCmd() *cobra.Command {
	var db string
	var format string

	cmd := &cobra.Command{
		Use:   "history SESSION_ID",
		Short: "Prints the frames a simulation session stored in PostgreSQL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := configFromContext(cmd.Context())
			if err != nil {
				return err
			}
			if db == "" {
				db = cfg.Database().URL
			}
			if db == "" {
				return errors.New("no database configured; pass --db or set database.url")
			}

			ctx := cmd.Context()
			pool, err := pgxpool.New(ctx, db)
			if err != nil {
				return fmt.Errorf("connecting to database: %w", err)
			}
			defer pool.Close()

			st, err := store.New(ctx, pool, observability.GetLogger())
			if err != nil {
				return err
			}
			frames, err := st.Frames(ctx, args[0])
			if err != nil {
				return err
			}
			if len(frames) == 0 {
				return fmt.Errorf("session %s has no stored frames", args[0])
			}

			if format != "" {
				rep, err := reporting.NewWriter(format, reporting.NopCloser(cmd.OutOrStdout()))
				if err != nil {
					return err
				}
				for _, f := range frames {
					if err := rep.Write(f); err != nil {
						rep.Close()
						return err
					}
				}
				return rep.Close()
			}
			first, last := frames[0], frames[len(frames)-1]
			fmt.Fprintf(cmd.OutOrStdout(), "session\t%s (frames %d to %d)\n", args[0], first.Frame, last.Frame)
			return printSummary(cmd.OutOrStdout(), last, 0)
		},
	}
	cmd.Flags().StringVar(&db, "db", "", "PostgreSQL URL (overrides database.url)")
	cmd.Flags().StringVar(&format, "format", "", "print every stored frame as jsonl or csv instead of a summary")
	return cmd
}
