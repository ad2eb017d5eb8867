package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v2"

	"jobsink/internal/config"
	"jobsink/internal/database"
	"jobsink/internal/export"
	"jobsink/internal/logging"
	"jobsink/internal/model"
	"jobsink/internal/pipeline"
	"jobsink/internal/repository"
	"jobsink/internal/repository/mongodb"
	"jobsink/internal/repository/postgres"
	"jobsink/internal/service"
	"jobsink/internal/source"
	"jobsink/internal/storage"
)

// jobPipeline is what the ingest command needs from an opened pipeline.
type jobPipeline interface {
	Ingest(ctx context.Context, job *model.Job) (service.Outcome, error)
	Close(ctx context.Context) error
}

var (
	openPipeline = func(ctx context.Context, cfg *config.AppConfig, logger *slog.Logger) (jobPipeline, error) {
		return pipeline.Open(ctx, cfg, pipeline.WithLogger(logger))
	}
	loadTable  = loadFromStore
	newStorage = storage.NewMinIO
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "jobctl",
		Usage: "Feed job files through the ingestion pipeline and export the stores",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
				EnvVars: []string{"LOG_LEVEL"},
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "ingest",
				Usage:     "Ingest every job of the given feed files, one at a time",
				ArgsUsage: "FILE...",
				Action:    ingestCommand,
			},
			{
				Name:   "export",
				Usage:  "Dump the relational table or the document collection to CSV",
				Action: exportCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "from",
						Usage:    "Store to export (postgres, mongo)",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "out",
						Aliases: []string{"o"},
						Usage:   "Output CSV path (defaults to <from>_export.csv)",
					},
					&cli.StringFlag{
						Name:  "collection",
						Usage: "Document collection to export (defaults to MONGO_COLLECTION)",
					},
					&cli.BoolFlag{
						Name:  "upload",
						Usage: "Upload the CSV to the MinIO bucket and print a download link",
					},
					&cli.DurationFlag{
						Name:  "link-expiry",
						Usage: "Lifetime of the download link printed after --upload",
						Value: export.DefaultLinkExpiry,
					},
				},
			},
		},
	}
}

func setupLogger(c *cli.Context) error {
	level := logging.ParseLevel(c.String("log-level"))
	slog.SetDefault(logging.New(os.Stderr, config.Load().Location(), level))
	return nil
}

func ingestCommand(c *cli.Context) error {
	files := c.Args().Slice()
	if len(files) == 0 {
		return fmt.Errorf("at least one feed file is required")
	}

	// Decode every file before opening connections so a bad file costs nothing.
	var entries []source.Entry
	for _, f := range files {
		batch, err := source.ReadFile(f)
		if err != nil {
			return err
		}
		entries = append(entries, batch...)
	}

	ctx := c.Context
	p, err := openPipeline(ctx, config.Load(), slog.Default())
	if err != nil {
		return fmt.Errorf("open pipeline: %w", err)
	}
	defer func() {
		if err := p.Close(context.Background()); err != nil {
			slog.Error("pipeline close failed", "event", "pipeline_close_failed", "error", err.Error())
		}
	}()

	counts := map[service.Outcome]int{}
	for _, e := range entries {
		if e.Err != nil {
			slog.Error("job not decoded", "event", "job_decode_failed", "req_id", e.Job.ReqID, "error", e.Err.Error())
			counts[service.OutcomeFailed]++
			continue
		}
		outcome, err := p.Ingest(ctx, e.Job)
		if err != nil {
			slog.Error("job not ingested", "event", "job_not_ingested", "req_id", e.Job.ReqID, "error", err.Error())
		}
		counts[outcome]++
	}

	fmt.Fprintf(c.App.Writer, "jobs=%d stored=%d partial=%d skipped=%d failed=%d\n",
		len(entries),
		counts[service.OutcomeStored],
		counts[service.OutcomePartial],
		counts[service.OutcomeSkipped],
		counts[service.OutcomeFailed],
	)
	return nil
}

func exportCommand(c *cli.Context) error {
	src, err := export.ParseSource(c.String("from"))
	if err != nil {
		return err
	}
	out := c.String("out")
	if out == "" {
		out = string(src) + "_export.csv"
	}

	cfg := config.Load()
	if name := c.String("collection"); name != "" {
		cfg.Mongo.Collection = name
	}

	ctx := c.Context
	table, err := loadTable(ctx, cfg, src)
	if errors.Is(err, export.ErrNoData) {
		fmt.Fprintf(c.App.Writer, "No data found in %s.\n", src)
		return nil
	}
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, table); err != nil {
		return fmt.Errorf("render csv: %w", err)
	}
	if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}
	fmt.Fprintf(c.App.Writer, "Data successfully written to %s (%d rows)\n", out, len(table.Rows))

	if !c.Bool("upload") {
		return nil
	}
	st, err := newStorage(ctx, cfg.MinIO)
	if err != nil {
		return fmt.Errorf("object storage: %w", err)
	}
	key := fmt.Sprintf("exports/%s/%s", time.Now().UTC().Format("20060102T150405Z"), filepath.Base(out))
	link, err := export.Publish(ctx, st, key, buf.Bytes(), c.Duration("link-expiry"))
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "Uploaded to %s\n%s\n", key, link)
	return nil
}

// loadFromStore connects only the store being exported and releases it before returning.
func loadFromStore(ctx context.Context, cfg *config.AppConfig, src export.Source) (*repository.Table, error) {
	switch src {
	case export.SourcePostgres:
		db, err := database.NewPostgres(ctx, cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		defer db.Close()
		return export.FromPostgres(ctx, postgres.NewJobPostgres(db))
	case export.SourceMongo:
		client, err := database.NewMongo(ctx, cfg.Mongo)
		if err != nil {
			return nil, fmt.Errorf("connect mongo: %w", err)
		}
		defer client.Disconnect(context.Background())
		return export.FromMongo(ctx, mongodb.NewJobMongo(client.Database(cfg.Mongo.Name)), cfg.Mongo.Collection)
	default:
		return nil, fmt.Errorf("unknown export source %q", src)
	}
}
