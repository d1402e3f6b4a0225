package main

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"distill/internal/config"
	"distill/internal/preflight"
	"distill/internal/services/llm"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify credentials, bucket, summarizer and webhooks",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			env := preflight.Env{LLMHealth: openRouterHealth(cfg)}
			if awsCfg, err := ctx.awsConfig(cmd.Context(), cfg.AWS.Region); err == nil {
				env.Credentials = awsCfg.Credentials
				env.Buckets = s3.NewFromConfig(awsCfg)
			}

			results := preflight.RunAll(cmd.Context(), cfg, env)
			out := cmd.OutOrStdout()
			pass := color.New(color.FgGreen).SprintFunc()
			fail := color.New(color.FgRed).SprintFunc()
			for _, r := range results {
				mark := pass("ok  ")
				if !r.Passed {
					mark = fail("FAIL")
				}
				fmt.Fprintf(out, "%s %-22s %s\n", mark, r.Name, r.Detail)
			}
			if n := preflight.Failed(results); n > 0 {
				return fmt.Errorf("%d of %d checks failed", n, len(results))
			}
			return nil
		},
	}
}

func openRouterHealth(cfg *config.Config) func(context.Context) error {
	if cfg.Model.Provider != config.ProviderOpenRouter {
		return nil
	}
	llmCfg := cfg.GetLLM()
	client := llm.NewClient(llm.Config{
		APIKey:  llmCfg.APIKey,
		BaseURL: llmCfg.BaseURL,
		Model:   llmCfg.Model,
		Referer: llmCfg.Referer,
		Title:   llmCfg.Title,
	}, llm.WithRetryMaxAttempts(1))
	return client.HealthCheck
}
