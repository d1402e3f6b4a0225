package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"distill/internal/config"
	"distill/internal/notifications"
	"distill/internal/progress"
)

const testNotifyMessage = "This is a test notification from Distill. If you can read this, the webhook is configured correctly."

func newTestNotifyCommand(ctx *commandContext) *cobra.Command {
	var service string
	var targets string

	cmd := &cobra.Command{
		Use:   "test-notify",
		Short: "Send a test notification to Slack or Teams",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			tracker := progress.NewTracker(progress.NewCoordinator(), progress.NewIndicator(out))
			slack, teams := newDispatchers(cfg, tracker, ctx.logger())
			prompt := newPrompter(cmd)
			interactive := ctx.isInteractive(cmd)

			var agg notifications.Aggregate
			switch strings.ToLower(strings.TrimSpace(service)) {
			case "slack":
				plan, err := resolvePlan(prompt, interactive, "Slack", cfg.Slack.WebhookEndpoint, cfg.Slack.Webhooks, targets)
				if err != nil {
					return err
				}
				agg = slack.Dispatch(cmd.Context(), plan, testNotifyMessage)
			case "teams":
				plan, err := resolvePlan(prompt, interactive, "Teams", cfg.Teams.WebhookEndpoint, cfg.Teams.Webhooks, targets)
				if err != nil {
					return err
				}
				agg = teams.Dispatch(cmd.Context(), plan, testNotifyMessage,
					notifications.WithTitle(testCardTitle(cfg)))
			default:
				return fmt.Errorf("unknown service %q (expected slack or teams)", service)
			}
			fmt.Fprintf(out, "Result: %s\n", agg)
			for _, d := range agg.Deliveries {
				if !d.OK() {
					fmt.Fprintf(out, "  %s: %v\n", d.Target.Name, d.Err)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&service, "service", "slack", "Service to test: slack or teams")
	cmd.Flags().StringVar(&targets, "targets", "", "Webhooks to notify, by number or name (e.g. 1,3 or all)")
	return cmd
}

func testCardTitle(cfg *config.Config) string {
	return fmt.Sprintf("%s (test %s)", cfg.Teams.CardTitle, time.Now().Format("15:04"))
}
