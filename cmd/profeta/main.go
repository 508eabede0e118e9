package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/Adriano-luizello/Profeta-sub001/pkg/logger"
)

type dbKey struct{}

func newDBURLFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "db-url",
		Usage:    "Database connection string",
		Required: true,
		EnvVars:  []string{"DATABASE_URL"},
	}
}

func newOrgFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "org",
		Usage:    "Organization id the files belong to",
		Required: true,
		EnvVars:  []string{"PROFETA_ORGANIZATION_ID"},
	}
}

func importFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "decimal-separator", Usage: "Decimal separator of numeric cells", Value: ","},
		&cli.StringFlag{Name: "date-format", Usage: "auto, DD/MM/YYYY, YYYY-MM-DD or MM/DD/YYYY", Value: "auto"},
		&cli.StringFlag{Name: "value-type", Usage: "What the cells of a monthly sheet measure: quantity or revenue", Value: "quantity"},
		&cli.IntFlag{Name: "workers", Usage: "Files imported concurrently", Value: 4, EnvVars: []string{"PIPELINE_WORKERS"}},
	}
}

func initDB(c *cli.Context) error {
	db, err := sql.Open("pgx", c.String("db-url"))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.PingContext(c.Context); err != nil {
		db.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	c.Context = context.WithValue(c.Context, dbKey{}, db)
	return nil
}

func closeDB(c *cli.Context) error {
	if db, ok := c.Context.Value(dbKey{}).(*sql.DB); ok && db != nil {
		return db.Close()
	}
	return nil
}

func dbFrom(c *cli.Context) (*sql.DB, error) {
	db, ok := c.Context.Value(dbKey{}).(*sql.DB)
	if !ok || db == nil {
		return nil, fmt.Errorf("database is not initialized")
	}
	return db, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func main() {
	_ = godotenv.Load()

	if err := newApp().Run(os.Args); err != nil {
		logger.Log.Fatal().Err(err).Msg("profeta failed")
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "profeta",
		Usage: "Inspect sales sheets and compute restock recommendations",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "log-level", Value: "warn", EnvVars: []string{"LOG_LEVEL"}},
		},
		Before: func(c *cli.Context) error {
			logger.SetLevel(c.String("log-level"))
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:      "detect",
				Usage:     "Detect the layout of a sheet and suggest a column mapping",
				ArgsUsage: "FILE",
				Action:    runDetect,
			},
			{
				Name:      "unpivot",
				Usage:     "Expand a monthly (wide) sheet into one row per product and month",
				ArgsUsage: "FILE",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "product-column", Usage: "Defaults to the detected product column"},
					&cli.StringFlag{Name: "value-type", Value: "quantity"},
					&cli.StringSliceFlag{Name: "preserve", Usage: "Columns copied onto every output row; defaults to the detected ones"},
				},
				Action: runUnpivot,
			},
			{
				Name:      "recommend",
				Usage:     "Generate recommendations from a JSON array of demand inputs",
				ArgsUsage: "[FILE]",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "lead-time-days", Value: 30},
					&cli.IntFlag{Name: "moq", Value: 100},
					&cli.Float64Flag{Name: "safety-stock-multiplier", Value: 1.5},
					&cli.IntFlag{Name: "stockout-warning-days", Value: 14},
				},
				Action: runRecommend,
			},
			{
				Name:      "analyze",
				Usage:     "Import files into an in-memory store and print the supply-chain view",
				ArgsUsage: "FILE|DIR...",
				Flags: append(importFlags(),
					&cli.StringFlag{Name: "org", Value: "local"},
					&cli.StringFlag{Name: "as-of", Usage: "Date the stockout dates are anchored on (YYYY-MM-DD), defaults to today"},
				),
				Action: runAnalyze,
			},
			{
				Name:  "import",
				Usage: "Import files from disk, a bucket or a Drive folder into the database",
				Flags: append(importFlags(),
					newDBURLFlag(),
					newOrgFlag(),
					&cli.StringFlag{Name: "bucket-prefix", Usage: "Import every sheet under this object storage prefix"},
					&cli.StringFlag{Name: "drive-folder-id", Usage: "Import every sheet of this Google Drive folder"},
				),
				ArgsUsage: "[FILE|DIR...]",
				Before:    initDB,
				After:     closeDB,
				Action:    runImport,
			},
		},
	}
}
