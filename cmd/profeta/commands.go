package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/urfave/cli/v2"

	"github.com/Adriano-luizello/Profeta-sub001/internal/config"
	"github.com/Adriano-luizello/Profeta-sub001/internal/csvadapter"
	"github.com/Adriano-luizello/Profeta-sub001/internal/domain"
	"github.com/Adriano-luizello/Profeta-sub001/internal/drive"
	"github.com/Adriano-luizello/Profeta-sub001/internal/pipeline"
	"github.com/Adriano-luizello/Profeta-sub001/internal/recommendation"
	"github.com/Adriano-luizello/Profeta-sub001/internal/repository/memory"
	"github.com/Adriano-luizello/Profeta-sub001/internal/repository/postgres"
	"github.com/Adriano-luizello/Profeta-sub001/internal/service"
	"github.com/Adriano-luizello/Profeta-sub001/internal/storage"
	"github.com/Adriano-luizello/Profeta-sub001/internal/supplychain"
)

func runDetect(c *cli.Context) error {
	path := c.Args().First()
	if path == "" {
		return cli.Exit("FILE is required", 2)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	svc := service.NewUploadService(memory.NewStore(), nil, nil, service.DefaultUploadOptions(), nil)
	result, err := svc.Detect(filepath.Base(path), data)
	if err != nil {
		return err
	}

	return writeJSON(c.App.Writer, result)
}

func runUnpivot(c *cli.Context) error {
	path := c.Args().First()
	if path == "" {
		return cli.Exit("FILE is required", 2)
	}

	sheet, err := csvadapter.ReadFile(path)
	if err != nil {
		return err
	}

	format := csvadapter.Detect(sheet.Headers, sheet.Sample(5))
	if format.Type != csvadapter.FormatWide {
		return cli.Exit(fmt.Sprintf("%s is not a monthly sheet (detected %s)", path, format.Type), 1)
	}

	cfg := csvadapter.UnpivotConfig{
		ProductColumn:   c.String("product-column"),
		DateColumns:     format.DateColumns,
		ValueType:       csvadapter.ValueType(c.String("value-type")),
		PreserveColumns: c.StringSlice("preserve"),
	}
	if cfg.ProductColumn == "" {
		cfg.ProductColumn = format.ProductColumn
	}
	if len(cfg.PreserveColumns) == 0 {
		cfg.PreserveColumns = csvadapter.PreserveColumns(sheet.Headers)
	}

	result, err := csvadapter.Unpivot(sheet.Rows, cfg)
	if err != nil {
		return err
	}

	return writeJSON(c.App.Writer, result)
}

func runRecommend(c *cli.Context) error {
	var r io.Reader = os.Stdin
	if path := c.Args().First(); path != "" && path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	}

	var inputs []recommendation.Input
	if err := json.NewDecoder(r).Decode(&inputs); err != nil {
		return fmt.Errorf("failed to decode inputs: %w", err)
	}

	p := supplychain.Params{
		LeadTimeDays:          c.Int("lead-time-days"),
		MOQ:                   c.Int("moq"),
		SafetyStockMultiplier: c.Float64("safety-stock-multiplier"),
		StockoutWarningDays:   c.Int("stockout-warning-days"),
	}.WithDefaults()

	return writeJSON(c.App.Writer, recommendation.Generate(inputs, p))
}

func pipelineConfig(c *cli.Context, organizationID string) pipeline.Config {
	cfg := pipeline.DefaultConfig(organizationID)
	cfg.WorkerCount = c.Int("workers")
	cfg.DecimalSeparator = c.String("decimal-separator")
	cfg.DateFormat = csvadapter.DateFormat(c.String("date-format"))
	cfg.ValueType = csvadapter.ValueType(c.String("value-type"))
	return cfg
}

type analysisReport struct {
	AnalysisID      string                                   `json:"analysis_id"`
	FileName        string                                   `json:"file_name"`
	Summary         *domain.SupplyChainSummary               `json:"summary"`
	Metrics         []supplychain.Metrics                    `json:"metrics"`
	Recommendations []recommendation.GeneratedRecommendation `json:"recommendations"`
}

func runAnalyze(c *cli.Context) error {
	if c.NArg() == 0 {
		return cli.Exit("at least one FILE or DIR is required", 2)
	}

	now := time.Now
	if asOf := c.String("as-of"); asOf != "" {
		t, err := time.Parse("2006-01-02", asOf)
		if err != nil {
			return cli.Exit(fmt.Sprintf("invalid --as-of: %v", err), 2)
		}
		now = func() time.Time { return t }
	}

	jobs, err := pipeline.LocalJobs(c.Args().Slice())
	if err != nil {
		return err
	}

	store := memory.NewStore()
	uploads := service.NewUploadService(store, nil, nil, service.DefaultUploadOptions(), now)
	results, err := pipeline.NewRunner(uploads, pipelineConfig(c, c.String("org"))).Run(c.Context, jobs)
	if err != nil {
		return err
	}

	supplyChain := service.NewSupplyChainService(store, nil, supplychain.DefaultParams(), 0, now)
	reports := make([]analysisReport, 0, len(results))
	for _, r := range results {
		if r.Status != pipeline.FileStatusCompleted {
			continue
		}

		id := r.Result.AnalysisID
		report := analysisReport{AnalysisID: id, FileName: r.Name}
		if report.Metrics, err = supplyChain.Metrics(c.Context, id); err != nil {
			return err
		}
		if report.Summary, err = supplyChain.Summary(c.Context, id); err != nil {
			return err
		}
		if report.Recommendations, err = supplyChain.Recommendations(c.Context, id); err != nil {
			return err
		}
		reports = append(reports, report)
	}

	return writeJSON(c.App.Writer, map[string]any{
		"summary":  pipeline.Summarize(results),
		"files":    results,
		"analyses": reports,
	})
}

func runImport(c *cli.Context) error {
	db, err := dbFrom(c)
	if err != nil {
		return err
	}
	store := postgres.NewStore(postgres.Wrap(sqlx.NewDb(db, "pgx")))

	var jobs []pipeline.Job
	if c.NArg() > 0 {
		local, err := pipeline.LocalJobs(c.Args().Slice())
		if err != nil {
			return err
		}
		jobs = append(jobs, local...)
	}

	cfg := config.Load()
	if prefix := c.String("bucket-prefix"); prefix != "" {
		bucket, err := storage.NewMinioClient(cfg.Storage)
		if err != nil {
			return err
		}
		remote, err := pipeline.BucketJobs(c.Context, bucket, prefix, os.TempDir())
		if err != nil {
			return err
		}
		jobs = append(jobs, remote...)
	}

	if folderID := c.String("drive-folder-id"); folderID != "" {
		credentials, err := drive.Credentials(cfg.Drive)
		if err != nil {
			return err
		}
		driveService, err := drive.NewService(c.Context, credentials)
		if err != nil {
			return err
		}
		remote, err := drive.Jobs(c.Context, driveService, folderID)
		if err != nil {
			return err
		}
		jobs = append(jobs, remote...)
	}

	if len(jobs) == 0 {
		return cli.Exit("nothing to import: pass files, --bucket-prefix or --drive-folder-id", 2)
	}

	uploads := service.NewUploadService(store, nil, nil, service.UploadOptionsFromConfig(cfg.App, cfg.Storage.Prefix), time.Now)
	results, err := pipeline.NewRunner(uploads, pipelineConfig(c, c.String("org"))).Run(c.Context, jobs)
	if err != nil {
		return err
	}

	summary := pipeline.Summarize(results)
	if err := writeJSON(c.App.Writer, map[string]any{"summary": summary, "files": results}); err != nil {
		return err
	}
	if summary.Failed > 0 {
		return cli.Exit(fmt.Sprintf("%d of %d files failed", summary.Failed, summary.Files), 1)
	}
	return nil
}
