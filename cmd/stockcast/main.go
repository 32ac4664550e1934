package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/andresuchdata/stockcast/internal/config"
	"github.com/andresuchdata/stockcast/pkg/logger"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/urfave/cli/v2"
)

type contextKey string

const dbKey contextKey = "db"

func newDBURLFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "db-url",
		Usage:    "Database connection string",
		Required: true,
		EnvVars:  []string{"DATABASE_URL"},
	}
}

func newTenantFlags() []cli.Flag {
	return []cli.Flag{
		newDBURLFlag(),
		&cli.StringFlag{
			Name:     "tenant",
			Usage:    "Tenant that owns the shop",
			Required: true,
			EnvVars:  []string{"STOCKCAST_TENANT"},
		},
		&cli.Int64Flag{
			Name:     "shop",
			Usage:    "Shop id",
			Required: true,
		},
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

	c.Context = context.WithValue(c.Context, dbKey, sqlx.NewDb(db, "pgx"))
	return nil
}

func closeDB(c *cli.Context) error {
	if db, ok := c.Context.Value(dbKey).(*sqlx.DB); ok && db != nil {
		return db.Close()
	}
	return nil
}

func dbFrom(c *cli.Context) (*sqlx.DB, error) {
	db, ok := c.Context.Value(dbKey).(*sqlx.DB)
	if !ok || db == nil {
		return nil, fmt.Errorf("database is not initialized")
	}
	return db, nil
}

func main() {
	cfg := config.Load()
	logger.Setup(cfg.Log.Level, cfg.Log.Format)

	app := &cli.App{
		Name:  "stockcast",
		Usage: "Demand forecasting and inventory recommendations",
		Commands: []*cli.Command{
			{
				Name:  "evaluate",
				Usage: "Evaluate a sales history file offline and print the result as JSON",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "file",
						Aliases:  []string{"f"},
						Usage:    "History file (.csv or .xlsx)",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "stock",
						Usage: "Current stock on hand",
					},
					&cli.Float64Flag{
						Name:  "price",
						Usage: "Unit price",
					},
					&cli.Float64Flag{
						Name:  "discount",
						Usage: "Also run a what-if with this discount percent",
						Value: -1,
					},
					&cli.IntFlag{
						Name:  "whatif-stock",
						Usage: "Stock level for the what-if, defaults to --stock",
						Value: -1,
					},
				},
				Action: runEvaluate,
			},
			{
				Name:  "generate",
				Usage: "Generate and persist forecasts for one product or a whole shop",
				Flags: append(newTenantFlags(),
					&cli.Int64Flag{
						Name:  "product",
						Usage: "Product id, omit to generate every product of the shop",
					},
				),
				Before: initDB,
				After:  closeDB,
				Action: runGenerate,
			},
			{
				Name:  "seed",
				Usage: "Import sales history for a product from a CSV or XLSX file",
				Flags: append(newTenantFlags(),
					&cli.Int64Flag{
						Name:     "product",
						Usage:    "Product id",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "file",
						Aliases:  []string{"f"},
						Usage:    "History file (.csv or .xlsx)",
						Required: true,
					},
				),
				Before: initDB,
				After:  closeDB,
				Action: runSeed,
			},
			{
				Name:  "reports",
				Usage: "List exported forecast reports",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "prefix",
						Usage: "Object key prefix",
						Value: "forecasts/",
					},
					&cli.Int64Flag{
						Name:  "shop",
						Usage: "Limit to a shop (requires --product)",
					},
					&cli.Int64Flag{
						Name:  "product",
						Usage: "Limit to a product",
					},
				},
				Action: runReports,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Log.Fatal().Err(err).Msg("stockcast failed")
	}
}
