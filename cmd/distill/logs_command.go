package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"distill/internal/logging"
	"distill/internal/logs"
)

func newLogsCommand(ctx *commandContext) *cobra.Command {
	var lines int
	var follow bool
	var runID string
	var level string

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show the distill log",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			filter := logs.Filter{RunID: runID}
			if level != "" {
				parsed, ok := logs.ParseLevel(level)
				if !ok {
					return fmt.Errorf("unknown level %q (expected debug, info, warn or error)", level)
				}
				filter.MinLevel = parsed
			}

			path := filepath.Join(cfg.Paths.LogDir, logging.LogFileName)
			out := cmd.OutOrStdout()
			tail, offset, err := logs.Last(path, lines, filter)
			if err != nil {
				return err
			}
			for _, line := range tail {
				fmt.Fprintln(out, line)
			}
			if !follow {
				return nil
			}
			return logs.Follow(cmd.Context(), path, offset, filter, func(line string) {
				fmt.Fprintln(out, line)
			})
		},
	}
	cmd.Flags().IntVarP(&lines, "lines", "n", 50, "Number of trailing lines to show (0 for all)")
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Keep printing new lines until interrupted")
	cmd.Flags().StringVar(&runID, "run", "", "Only lines for this run id (prefix match)")
	cmd.Flags().StringVar(&level, "level", "", "Minimum level: debug, info, warn or error")
	return cmd
}
