package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/oshima-research/edinet-cli/internal/merge"
)

var mergeOutput string

var mergeCmd = &cobra.Command{
	Use:   "merge <day-file>...",
	Short: "Merge per-day output files into one dataset",
	Long:  "Combines day files in the given order into a single record set, keeping the most recent record per securities code. Pass files in ascending date order.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		records, err := merge.MergeFiles(args)
		if err != nil {
			return err
		}
		if err := merge.WriteRecords(mergeOutput, records); err != nil {
			return err
		}
		zap.L().Info("merged day files",
			zap.Int("files", len(args)),
			zap.Int("companies", len(records)),
			zap.String("output", mergeOutput),
		)
		return nil
	},
}

func init() {
	mergeCmd.Flags().StringVarP(&mergeOutput, "output", "o", "merged.json", "merged output path")
	rootCmd.AddCommand(mergeCmd)
}
