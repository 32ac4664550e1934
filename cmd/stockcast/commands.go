package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/andresuchdata/stockcast/internal/cache"
	"github.com/andresuchdata/stockcast/internal/config"
	"github.com/andresuchdata/stockcast/internal/engine"
	"github.com/andresuchdata/stockcast/internal/forecast"
	"github.com/andresuchdata/stockcast/internal/history"
	"github.com/andresuchdata/stockcast/internal/inventory"
	"github.com/andresuchdata/stockcast/internal/repository/postgres"
	"github.com/andresuchdata/stockcast/internal/service"
	"github.com/andresuchdata/stockcast/internal/storage"
	"github.com/andresuchdata/stockcast/pkg/logger"
	"github.com/urfave/cli/v2"
)

type evaluateOutput struct {
	*engine.Evaluation
	WhatIf *inventory.WhatIfResult `json:"what_if,omitempty"`
}

func runEvaluate(c *cli.Context) error {
	records, err := history.LoadFile(c.String("file"))
	if err != nil {
		return err
	}

	points := make([]forecast.SalesDataPoint, len(records))
	for i, rec := range records {
		points[i] = rec.DataPoint()
	}

	eng := engine.New(config.Load().Forecast.Params(), nil)
	stock := c.Int("stock")
	price := c.Float64("price")

	eval, err := eng.Evaluate(points, stock, price)
	if err != nil {
		return err
	}

	out := evaluateOutput{Evaluation: eval}
	if discount := c.Float64("discount"); discount >= 0 {
		whatIfStock := c.Int("whatif-stock")
		if whatIfStock < 0 {
			whatIfStock = stock
		}
		res, err := eng.WhatIf(eval.Recommendation, whatIfStock, discount, price)
		if err != nil {
			return err
		}
		out.WhatIf = &res
	}

	return printJSON(out)
}

func runGenerate(c *cli.Context) error {
	svc, err := newForecastService(c)
	if err != nil {
		return err
	}

	tenant, shopID := c.String("tenant"), c.Int64("shop")
	if productID := c.Int64("product"); productID > 0 {
		pf, err := svc.Generate(c.Context, tenant, shopID, productID)
		if err != nil {
			return err
		}
		return printJSON(pf)
	}

	result, err := svc.GenerateShop(c.Context, tenant, shopID, nil)
	if err != nil {
		return err
	}
	return printJSON(result)
}

func runSeed(c *cli.Context) error {
	records, err := history.LoadFile(c.String("file"))
	if err != nil {
		return err
	}

	svc, err := newForecastService(c)
	if err != nil {
		return err
	}

	written, err := svc.ImportSales(c.Context, c.String("tenant"), c.Int64("shop"), c.Int64("product"), records)
	if err != nil {
		return err
	}

	logger.Log.Info().
		Int64("shop_id", c.Int64("shop")).
		Int64("product_id", c.Int64("product")).
		Int("rows", written).
		Msg("sales history imported")
	return nil
}

func runReports(c *cli.Context) error {
	store, err := storage.New(config.Load().Storage)
	if err != nil {
		return err
	}

	prefix := c.String("prefix")
	if c.Int64("shop") > 0 && c.Int64("product") > 0 {
		prefix = storage.ReportPrefix(c.Int64("shop"), c.Int64("product"))
	}

	objects, err := store.ListObjects(c.Context, prefix)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "KEY\tSIZE\tMODIFIED")
	for _, obj := range objects {
		fmt.Fprintf(w, "%s\t%d\t%s\n", obj.Key, obj.Size, obj.LastModified.Format("2006-01-02 15:04:05"))
	}
	return w.Flush()
}

func newForecastService(c *cli.Context) (*service.ForecastService, error) {
	sqlxDB, err := dbFrom(c)
	if err != nil {
		return nil, err
	}
	db := postgres.Wrap(sqlxDB)
	cfg := config.Load()

	evaluationCache, err := cache.NewEvaluationCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Redis unavailable, evaluation cache disabled")
		evaluationCache = cache.NewNoopEvaluationCache()
	}

	reports, err := storage.New(cfg.Storage)
	if err != nil {
		return nil, err
	}

	return service.NewForecastService(
		postgres.NewProductRepository(db),
		postgres.NewSalesRepository(db),
		postgres.NewForecastRepository(db),
		evaluationCache,
		reports,
		engine.New(cfg.Forecast.Params(), nil),
		service.Options{
			HistoryDays:   cfg.Forecast.HistoryDays,
			BatchWorkers:  cfg.Forecast.BatchWorkers,
			ExportReports: cfg.Storage.Enabled,
		},
	), nil
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
