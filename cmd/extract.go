package main

import (
	"encoding/json"
	"os"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/oshima-research/edinet-cli/internal/edinet"
	"github.com/oshima-research/edinet-cli/internal/pipeline"
	"github.com/oshima-research/edinet-cli/internal/resolve"
)

var (
	extractDocID     string
	extractSecCode   string
	extractFiler     string
	extractPeriodEnd string
)

var extractCmd = &cobra.Command{
	Use:   "extract <archive.zip>",
	Short: "Extract metrics from a local filing archive",
	Long:  "Resolves the metrics of one downloaded EDINET archive and prints the company record as JSON. Useful for inspecting a single filing without touching the API or the store.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		archive, err := os.ReadFile(args[0])
		if err != nil {
			return eris.Wrapf(err, "read archive %s", args[0])
		}
		instance, _, err := edinet.FindMainInstance(archive)
		if err != nil {
			return err
		}

		resolver, err := initResolver()
		if err != nil {
			return err
		}

		p := pipeline.New(nil, resolver, 1)
		rec, err := p.ExtractRecord(instance, edinet.Document{
			DocID:     extractDocID,
			SecCode:   extractSecCode,
			FilerName: extractFiler,
			PeriodEnd: extractPeriodEnd,
		}, time.Now().UTC().Format("2006-01-02"))
		if err != nil {
			return err
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return eris.Wrap(enc.Encode(rec), "encode record")
	},
}

// initResolver builds the metric resolver from the configured spec table, or
// the built-in table when none is configured.
func initResolver() (*resolve.Resolver, error) {
	if cfg.Extract.SpecTablePath == "" {
		return resolve.NewResolver(nil), nil
	}
	table, err := resolve.LoadSpecTable(cfg.Extract.SpecTablePath)
	if err != nil {
		return nil, err
	}
	return resolve.NewResolver(table), nil
}

func init() {
	extractCmd.Flags().StringVar(&extractDocID, "doc-id", "", "document id for the output record")
	extractCmd.Flags().StringVar(&extractSecCode, "sec-code", "", "securities code for the output record")
	extractCmd.Flags().StringVar(&extractFiler, "filer", "", "filer name for the output record")
	extractCmd.Flags().StringVar(&extractPeriodEnd, "period-end", "", "fiscal period end (YYYY-MM-DD)")
	rootCmd.AddCommand(extractCmd)
}
