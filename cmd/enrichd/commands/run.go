package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"agora-backend/lib/configutil"
	configsqlite "agora-backend/lib/configutil/sqlite"
	"agora-backend/lib/extract"
	"agora-backend/lib/scrape"
	"agora-backend/lib/scrape/pagecache"
	"agora-backend/lib/telemetry"
	"agora-backend/lib/textcomplete"
	"agora-backend/lib/util/serviceutil"
	"agora-backend/services/enrichment"
	"agora-backend/services/enrichment/db"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	_ "modernc.org/sqlite"
)

type Config struct {
	Database configsqlite.Struct `json:"database"`
	CacheDir string              `json:"cache_dir"`
	// overrides the builtin desktop user agent
	UserAgent           string `json:"user_agent"`
	FetchTimeoutSeconds int    `json:"fetch_timeout_seconds"`
	// optional, enables the time extraction fallback
	Completion textcomplete.Config `json:"completion"`
}

var (
	runField           *string
	runLimit           *int
	runDryRun          *bool
	runForce           *bool
	runDelay           *time.Duration
	runCheckpointEvery *int
	runResume          *bool
)

func init() {
	runField = runCmd.Flags().String("field", "", "The field to enrich: time, price or description.")
	runLimit = runCmd.Flags().Int("limit", 0, "Max items to process, 0 means no limit.")
	runDryRun = runCmd.Flags().Bool("dry-run", false, "Extract but do not write anything.")
	runForce = runCmd.Flags().Bool("force", false, "Re-enrich items that already carry a value.")
	runDelay = runCmd.Flags().Duration("delay", time.Second, "Minimum delay between physical fetches.")
	runCheckpointEvery = runCmd.Flags().Int("checkpoint-every", 50, "Checkpoint cadence in items.")
	runResume = runCmd.Flags().Bool("resume", false, "Resume from the last checkpoint.")
	runCmd.MarkFlagRequired("field")
	rootCmd.AddCommand(runCmd)
}

func parseField(s string) (extract.FieldKind, error) {
	switch s {
	case "time":
		return extract.KindTime, nil
	case "price":
		return extract.KindPrice, nil
	case "description":
		return extract.KindDescription, nil
	}
	return 0, fmt.Errorf("unknown field %q, expected time, price or description", s)
}

var runCmd = &cobra.Command{
	Use:   "run --field <time|price|description>",
	Short: "Runs one enrichment batch over upcoming events.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		kind, err := parseField(*runField)
		if err != nil {
			serviceutil.Fatal("invalid --field", err)
		}
		cfg, err := configutil.ReadConfig[Config]("config.json5")
		if err != nil {
			serviceutil.Fatal("failed to read config", err)
		}

		tel, err := telemetry.SetupFromEnv(ctx, "enrichd")
		if err == nil {
			defer tel.Shutdown(context.Background())
		}
		telemetry.InstrumentPerfStats(ctx)

		database, err := cfg.Database.OpenDB(db.Schema)
		if err != nil {
			serviceutil.Fatal("failed to open db", err)
		}
		defer database.Close()
		if err := enrichment.Migrate(ctx, database); err != nil {
			serviceutil.Fatal("failed to migrate db", err)
		}

		var cache *pagecache.Cache
		if cfg.CacheDir != "" {
			cache, err = pagecache.Open(pagecache.Options{Dir: cfg.CacheDir})
			if err != nil {
				serviceutil.Fatal("failed to open page cache", err)
			}
			defer cache.Close()
		}

		sessions := scrape.NewSessionManager(scrape.SessionOptions{
			UserAgent: cfg.UserAgent,
			Timeout:   time.Duration(cfg.FetchTimeoutSeconds) * time.Second,
		})
		var completer textcomplete.Client
		if cfg.Completion.Endpoint != "" {
			completer = textcomplete.NewHTTPClient(cfg.Completion)
		}

		service := enrichment.NewService(enrichment.ServiceOptions{
			Database:        database,
			Fetcher:         scrape.NewFetcher(sessions, scrape.FetcherOptions{}),
			Limiter:         scrape.NewLimiter(*runDelay, nil),
			Cache:           cache,
			Completer:       completer,
			CheckpointEvery: *runCheckpointEvery,
		})

		slog.Info("enriching", "field", kind.String(), "limit", *runLimit)
		t1 := time.Now()
		summary, err := service.Run(ctx, enrichment.RunOptions{
			Kind:   kind,
			Limit:  *runLimit,
			DryRun: *runDryRun,
			Force:  *runForce,
			Resume: *runResume,
		})
		if err != nil && summary.Processed == 0 {
			serviceutil.Fatal("enrichment run failed", err)
		}
		slog.Info("enrichment time", "seconds", time.Since(t1).Seconds())

		printSummary(summary)
	},
}

func printSummary(summary enrichment.Summary) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Processed", "Found", "Not found", "Failed"})
	t.AppendRow(table.Row{
		summary.Processed,
		summary.Found,
		summary.NotFound,
		len(summary.Failed),
	})
	t.SetStyle(table.StyleRounded)
	t.Render()

	for _, id := range summary.Failed {
		slog.Warn("failed item", "id", id)
	}
}
