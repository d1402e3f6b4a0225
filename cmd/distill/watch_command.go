package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"distill/internal/config"
	"distill/internal/logging"
	"distill/internal/pipeline"
	"distill/internal/progress"
	"distill/internal/services/awstranscribe"
	"distill/internal/textutil"
	"distill/internal/watch"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	var outputType string
	var targets string
	var title string
	var outputDir string
	var settleSeconds int
	var saveTranscript bool

	cmd := &cobra.Command{
		Use:   "watch <dir>",
		Short: "Summarize audio files dropped into a folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			mode, err := pipeline.ParseOutputMode(outputType)
			if err != nil {
				return err
			}
			dir, err := config.ExpandPath(args[0])
			if err != nil {
				return err
			}
			if strings.TrimSpace(outputDir) == "" {
				outputDir = dir
			}
			if outputDir, err = config.ExpandPath(outputDir); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			// Watch mode never prompts: there is nobody to answer between files.
			prompt := newPrompter(cmd)
			opts := pipeline.Options{Mode: mode, Language: cfg.Transcribe.LanguageCode, DeleteSource: true, SaveTranscript: saveTranscript}
			if pipeline.UsesSlack(mode) {
				if opts.Slack, err = resolvePlan(prompt, false, "Slack", cfg.Slack.WebhookEndpoint, cfg.Slack.Webhooks, targets); err != nil {
					return err
				}
			}
			if pipeline.UsesTeams(mode) {
				if opts.Teams, err = resolvePlan(prompt, false, "Teams", cfg.Teams.WebhookEndpoint, cfg.Teams.Webhooks, targets); err != nil {
					return err
				}
				opts.TeamsTitle, _ = resolveTitle(prompt, false, title, cfg.Teams.CardTitle)
			}

			tracker := progress.NewTracker(progress.NewCoordinator(), progress.NewIndicator(out))
			rt, err := buildRuntime(cmd.Context(), ctx, cfg, tracker, nil)
			if err != nil {
				return err
			}
			defer rt.Close()

			logger := ctx.logger()
			w, err := watch.New(watch.Options{
				Dir:    dir,
				Settle: time.Duration(settleSeconds) * time.Second,
				Accept: func(path string) bool { return awstranscribe.SupportedExtension(filepath.Ext(path)) },
				Logger: logger,
			}, func(runCtx context.Context, path string) error {
				fileOpts := opts
				fileOpts.InputPath = path
				fileOpts.OutputBase = filepath.Join(outputDir, textutil.FileStem(path)+"_summary")
				fmt.Fprintf(out, "Processing file: %s\n", path)
				_, err := rt.orchestrator.Run(runCtx, fileOpts)
				if err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", filepath.Base(path), err)
				}
				return err
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Watching %s for audio files (Ctrl-C to stop)\n", dir)
			logger.Info("watch mode started", logging.String("mode", mode.Name()), logging.String("output_dir", outputDir))
			return w.Run(cmd.Context())
		},
	}
	cmd.Flags().StringVarP(&outputType, "output-type", "o", "text", "Output: "+strings.Join(pipeline.ModeNames(), ", "))
	cmd.Flags().StringVar(&targets, "targets", "", "Webhooks to notify, by number or name (e.g. 1,3 or all)")
	cmd.Flags().StringVar(&title, "title", "", "Teams card title")
	cmd.Flags().StringVar(&outputDir, "output-dir", "", "Directory for summary files (defaults to the watched folder)")
	cmd.Flags().IntVar(&settleSeconds, "settle", 5, "Seconds a file must be idle before it is processed")
	cmd.Flags().BoolVarP(&saveTranscript, "save-transcript", "t", false, "Save the full transcript next to each summary")
	return cmd
}
