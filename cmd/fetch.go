package main

import (
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/oshima-research/edinet-cli/internal/edinet"
	"github.com/oshima-research/edinet-cli/internal/merge"
	"github.com/oshima-research/edinet-cli/internal/pipeline"
	"github.com/oshima-research/edinet-cli/internal/store"
)

var (
	fetchOutputDir string
	fetchNoStore   bool
)

var fetchCmd = &cobra.Command{
	Use:   "fetch <date>",
	Short: "Fetch annual reports filed on a date and extract their metrics",
	Long:  "Lists the annual securities reports filed on the given date (YYYY-MM-DD), downloads each XBRL archive, resolves the metrics and writes a per-day JSON file. Records are also upserted into the store unless --no-store is set.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		date := args[0]
		if _, err := time.Parse("2006-01-02", date); err != nil {
			return eris.Wrapf(err, "invalid date %q", date)
		}

		resolver, err := initResolver()
		if err != nil {
			return err
		}

		client := edinet.NewClient(edinet.ClientOptions{
			BaseURL:         cfg.EDINET.BaseURL,
			SubscriptionKey: cfg.EDINET.SubscriptionKey,
			UserAgent:       cfg.EDINET.UserAgent,
			Timeout:         time.Duration(cfg.EDINET.TimeoutSecs) * time.Second,
			MaxRetries:      cfg.EDINET.MaxRetries,
			RequestsPerSec:  cfg.EDINET.RequestsPerSec,
		})

		started := time.Now().UTC()
		p := pipeline.New(client, resolver, cfg.Extract.Concurrency)
		records, total, err := p.ProcessDate(ctx, date)
		if err != nil {
			return err
		}
		zap.L().Info("extraction complete",
			zap.String("date", date),
			zap.Int("documents", total),
			zap.Int("extracted", len(records)),
		)

		outputDir := fetchOutputDir
		if outputDir == "" {
			outputDir = cfg.Output.Dir
		}
		if err := os.MkdirAll(outputDir, 0o755); err != nil {
			return eris.Wrapf(err, "create output dir %s", outputDir)
		}
		outPath := filepath.Join(outputDir, date+".json")
		if err := merge.WriteRecords(outPath, records); err != nil {
			return err
		}
		zap.L().Info("wrote day file", zap.String("path", outPath))

		if fetchNoStore {
			return nil
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		if err := st.Migrate(ctx); err != nil {
			return err
		}
		saved, err := st.SaveRecords(ctx, records)
		if err != nil {
			return err
		}
		if err := st.RecordRun(ctx, store.FetchRun{
			ID:         uuid.New().String(),
			Date:       date,
			Documents:  total,
			Extracted:  len(records),
			StartedAt:  started,
			FinishedAt: time.Now().UTC(),
		}); err != nil {
			return err
		}
		zap.L().Info("saved records", zap.Int("count", saved))

		return nil
	},
}

func init() {
	fetchCmd.Flags().StringVar(&fetchOutputDir, "output-dir", "", "day file output directory (default from config)")
	fetchCmd.Flags().BoolVar(&fetchNoStore, "no-store", false, "skip the store, only write the day file")
	rootCmd.AddCommand(fetchCmd)
}
