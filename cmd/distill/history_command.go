package main

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"distill/internal/history"
	"distill/internal/transcribe"
)

type historyJSON struct {
	ID            string     `json:"id"`
	InputPath     string     `json:"input_path"`
	OutputMode    string     `json:"output_mode"`
	OutputBase    string     `json:"output_base,omitempty"`
	Language      string     `json:"language,omitempty"`
	SourceLocator string     `json:"source_locator,omitempty"`
	JobID         string     `json:"job_id,omitempty"`
	JobOutcome    string     `json:"job_outcome,omitempty"`
	Delivery      string     `json:"delivery,omitempty"`
	Status        string     `json:"status"`
	ErrorMessage  string     `json:"error_message,omitempty"`
	StartedAt     time.Time  `json:"started_at"`
	FinishedAt    *time.Time `json:"finished_at,omitempty"`
}

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := history.Open(cfg)
			if err != nil {
				return fmt.Errorf("open history: %w", err)
			}
			defer store.Close()

			records, err := store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if asJSON {
				out := make([]historyJSON, 0, len(records))
				for _, rec := range records {
					out = append(out, toHistoryJSON(rec))
				}
				return writeJSON(cmd, out)
			}
			if len(records) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded yet")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderHistory(records))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to list (0 for all)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func toHistoryJSON(rec history.Record) historyJSON {
	return historyJSON{
		ID:            rec.ID,
		InputPath:     rec.InputPath,
		OutputMode:    rec.OutputMode,
		OutputBase:    rec.OutputBase,
		Language:      rec.Language,
		SourceLocator: rec.SourceLocator,
		JobID:         rec.JobID,
		JobOutcome:    rec.JobOutcome,
		Delivery:      rec.Delivery,
		Status:        string(rec.Status),
		ErrorMessage:  rec.ErrorMessage,
		StartedAt:     rec.StartedAt,
		FinishedAt:    rec.FinishedAt,
	}
}

func renderHistory(records []history.Record) string {
	headers := []string{"Started", "Input", "Mode", "Status", "Duration", "Delivery", "Run"}
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		duration := "-"
		if d := rec.Duration(); d > 0 {
			duration = d.Round(time.Second).String()
		}
		status := string(rec.Status)
		if rec.JobOutcome != "" && rec.JobOutcome != string(transcribe.OutcomeTranscribed) {
			status += " (" + rec.JobOutcome + ")"
		}
		delivery := rec.Delivery
		if delivery == "" {
			delivery = "-"
		}
		rows = append(rows, []string{
			rec.StartedAt.Local().Format("2006-01-02 15:04"),
			filepath.Base(rec.InputPath),
			rec.OutputMode,
			status,
			duration,
			delivery,
			shortID(rec.ID),
		})
	}
	return renderTable(headers, rows, []columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignLeft, alignLeft})
}

func shortID(id string) string {
	if i := strings.IndexByte(id, '-'); i > 0 {
		return id[:i]
	}
	return id
}
