package main

import (
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/spf13/cobra"

	"distill/internal/services/s3store"
)

func newBucketsCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "buckets",
		Short: "List S3 buckets and their regions",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			awsCfg, err := ctx.awsConfig(cmd.Context(), cfg.AWS.Region)
			if err != nil {
				return err
			}
			api := s3.NewFromConfig(awsCfg)
			names, err := s3store.ListBuckets(cmd.Context(), api)
			if err != nil {
				return err
			}

			type bucketRow struct {
				Name       string `json:"name"`
				Region     string `json:"region"`
				Configured bool   `json:"configured"`
			}
			rows := make([]bucketRow, 0, len(names))
			for _, name := range names {
				region, err := s3store.BucketRegion(cmd.Context(), api, name)
				if err != nil {
					region = "unknown"
				}
				rows = append(rows, bucketRow{Name: name, Region: region, Configured: name == cfg.AWS.S3BucketName})
			}
			if asJSON {
				return writeJSON(cmd, rows)
			}
			out := cmd.OutOrStdout()
			if len(rows) == 0 {
				fmt.Fprintf(out, "No S3 buckets found (client region %s)\n", awsRegionOrDefault(awsCfg))
				return nil
			}
			table := make([][]string, 0, len(rows))
			for _, row := range rows {
				marker := ""
				if row.Configured {
					marker = "*"
				}
				table = append(table, []string{marker, row.Name, row.Region})
			}
			fmt.Fprintln(out, renderTable([]string{"", "Bucket", "Region"}, table, nil))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}
