package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"convertflow/internal/adapters/repository/postgres"
	"convertflow/internal/config"

	"github.com/spf13/cobra"
)

func newHistoryCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded conversions, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			dbCfg, err := config.LoadDatabase()
			if err != nil {
				return fmt.Errorf("load database config: %w", err)
			}
			db, err := postgres.Open(ctx, *dbCfg)
			if err != nil {
				return err
			}
			defer db.Close()

			records, err := postgres.NewSqlHistoryRepository(db).ListRecent(ctx, limit)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "FINISHED\tFILE\tFORMAT\tSTATUS\tRESULT")
			for _, r := range records {
				result := r.DownloadURL
				if result == "" {
					result = r.OutputKey
				}
				if r.ErrorMessage != "" {
					result = r.ErrorMessage
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					r.FinishedAt.Local().Format(time.DateTime), r.FileName, r.TargetFormat, r.Status, result)
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Number of conversions to list")
	return cmd
}
