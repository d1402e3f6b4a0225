package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"distill/internal/config"
	"distill/internal/language"
	"distill/internal/pipeline"
	"distill/internal/progress"
	"distill/internal/services"
)

type runFlags struct {
	input          string
	outputType     string
	summaryName    string
	languageCode   string
	deleteSource   string
	saveTranscript bool
	targets        string
	title          string
}

func registerRunFlags(cmd *cobra.Command, f *runFlags) {
	flags := cmd.Flags()
	flags.StringVarP(&f.input, "input-audio-file", "i", "", "Audio file to summarize")
	flags.StringVarP(&f.outputType, "output-type", "o", "terminal", "Output: "+strings.Join(pipeline.ModeNames(), ", "))
	flags.StringVarP(&f.summaryName, "summary-file-name", "s", "summarized_output", "Base name for output files")
	flags.StringVarP(&f.languageCode, "language-code", "l", "", "Transcription language, e.g. en-US (defaults to transcribe.language_code)")
	flags.StringVarP(&f.deleteSource, "delete-s3-object", "d", "Y", "Delete the uploaded S3 object afterwards (Y/N)")
	flags.BoolVarP(&f.saveTranscript, "save-transcript", "t", false, "Save the full transcript to a .trans file")
	flags.StringVar(&f.targets, "targets", "", "Webhooks to notify, by number or name (e.g. 1,3 or all)")
	flags.StringVar(&f.title, "title", "", "Teams card title")
}

func newRunCommand(ctx *commandContext) *cobra.Command {
	var flags runFlags
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Transcribe and summarize an audio file",
		Example: "  distill run -i meeting.m4a\n" +
			"  distill run -i meeting.m4a -o teams --targets all --title \"Weekly sync\"",
		RunE: func(cmd *cobra.Command, args []string) error {
			return executeRun(cmd, ctx, &flags)
		},
	}
	registerRunFlags(cmd, &flags)
	_ = cmd.MarkFlagRequired("input-audio-file")
	return cmd
}

func executeRun(cmd *cobra.Command, ctx *commandContext, flags *runFlags) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	mode, err := pipeline.ParseOutputMode(flags.outputType)
	if err != nil {
		return services.Wrap(services.ErrValidation, "options", "output-type", "", err)
	}
	deleteSource, err := parseYesNo(flags.deleteSource)
	if err != nil {
		return services.Wrap(services.ErrValidation, "options", "delete-s3-object", "", err)
	}
	inputPath, err := config.ExpandPath(strings.TrimSpace(flags.input))
	if err != nil {
		return services.Wrap(services.ErrValidation, "options", "input", "", err)
	}
	lang := strings.TrimSpace(flags.languageCode)
	if lang == "" {
		lang = cfg.Transcribe.LanguageCode
	}

	out := cmd.OutOrStdout()
	prompt := newPrompter(cmd)
	interactive := ctx.isInteractive(cmd)

	opts := pipeline.Options{
		InputPath:      inputPath,
		Mode:           mode,
		OutputBase:     flags.summaryName,
		Language:       lang,
		DeleteSource:   deleteSource,
		SaveTranscript: flags.saveTranscript,
	}
	if pipeline.UsesSlack(mode) {
		opts.Slack, err = resolvePlan(prompt, interactive, "Slack", cfg.Slack.WebhookEndpoint, cfg.Slack.Webhooks, flags.targets)
		if err != nil {
			return services.Wrap(services.ErrValidation, "options", "targets", "", err)
		}
	}
	if pipeline.UsesTeams(mode) {
		opts.Teams, err = resolvePlan(prompt, interactive, "Teams", cfg.Teams.WebhookEndpoint, cfg.Teams.Webhooks, flags.targets)
		if err != nil {
			return services.Wrap(services.ErrValidation, "options", "targets", "", err)
		}
		opts.TeamsTitle, err = resolveTitle(prompt, interactive, flags.title, cfg.Teams.CardTitle)
		if err != nil {
			return err
		}
	}

	fmt.Fprintln(out, "Welcome to Distill CLI")
	fmt.Fprintf(out, "Processing file: %s\n", inputPath)
	fmt.Fprintf(out, "Output type: %s\n", mode.Name())
	fmt.Fprintf(out, "Language: %s\n", language.DisplayName(lang))
	fmt.Fprintf(out, "Using model: %s (%s)\n", cfg.Model.ModelID, cfg.Model.Provider)

	var choose bucketChooser
	if interactive {
		choose = prompt.chooseBucket
	}
	tracker := progress.NewTracker(progress.NewCoordinator(), progress.NewIndicator(out))
	rt, err := buildRuntime(cmd.Context(), ctx, cfg, tracker, choose)
	if err != nil {
		return err
	}
	defer rt.Close()
	fmt.Fprintf(out, "S3 bucket: %s (%s)\n", rt.store.Bucket(), rt.store.Region())

	report, err := rt.orchestrator.Run(cmd.Context(), opts)
	if err != nil {
		// Cleanup only runs once a summary exists.
		cleaned := opts.DeleteSource && report.Summary != "" && report.CleanupErr == nil
		if report.SourceLocator != "" && !cleaned {
			fmt.Fprintf(cmd.ErrOrStderr(), "Uploaded audio remains at %s\n", report.SourceLocator)
		}
		return err
	}
	return nil
}
