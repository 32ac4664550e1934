package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/andresuchdata/stockcast/internal/cache"
	"github.com/andresuchdata/stockcast/internal/domain"
	"github.com/andresuchdata/stockcast/internal/engine"
	"github.com/andresuchdata/stockcast/internal/forecast"
	"github.com/andresuchdata/stockcast/internal/inventory"
	"github.com/andresuchdata/stockcast/internal/repository"
	"github.com/andresuchdata/stockcast/internal/storage"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const defaultBatchWorkers = 4

// Options tunes how ForecastService loads history and runs batches.
type Options struct {
	HistoryDays   int // 0 loads the full history
	BatchWorkers  int
	ExportReports bool
	Now           func() time.Time
}

// WhatIfRequest describes a hypothetical stock level and discount.
// A zero UnitPrice falls back to the product's price.
type WhatIfRequest struct {
	Stock           int     `json:"stock"`
	DiscountPercent float64 `json:"discount_percent"`
	UnitPrice       float64 `json:"unit_price"`
}

type ForecastService struct {
	products  repository.ProductRepository
	sales     repository.SalesRepository
	forecasts repository.ForecastRepository
	cache     cache.EvaluationCache
	reports   storage.ObjectStorage
	engine    *engine.Engine
	opts      Options
}

func NewForecastService(
	products repository.ProductRepository,
	sales repository.SalesRepository,
	forecasts repository.ForecastRepository,
	cacheImpl cache.EvaluationCache,
	reports storage.ObjectStorage,
	eng *engine.Engine,
	opts Options,
) *ForecastService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopEvaluationCache()
	}
	if reports == nil {
		reports = storage.NewNoopStorage()
		opts.ExportReports = false
	}
	if opts.BatchWorkers <= 0 {
		opts.BatchWorkers = defaultBatchWorkers
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &ForecastService{
		products:  products,
		sales:     sales,
		forecasts: forecasts,
		cache:     cacheImpl,
		reports:   reports,
		engine:    eng,
		opts:      opts,
	}
}

// Evaluate fits the models for one product and returns the full evaluation
// without persisting it.
func (s *ForecastService) Evaluate(ctx context.Context, tenantID string, shopID, productID int64) (*domain.ProductForecast, error) {
	product, err := s.products.GetProduct(ctx, tenantID, shopID, productID)
	if err != nil {
		return nil, err
	}

	pf, err := s.evaluateProduct(ctx, tenantID, product)
	if err != nil {
		return nil, err
	}

	s.cacheEvaluation(ctx, pf)
	return pf, nil
}

// Generate evaluates a product and stores exactly one forecast record for it.
func (s *ForecastService) Generate(ctx context.Context, tenantID string, shopID, productID int64) (*domain.ProductForecast, error) {
	product, err := s.products.GetProduct(ctx, tenantID, shopID, productID)
	if err != nil {
		return nil, err
	}
	return s.generateProduct(ctx, tenantID, product)
}

// GenerateShop runs Generate for the given products of a shop, or every product
// when productIDs is empty. Products without enough history are skipped.
func (s *ForecastService) GenerateShop(ctx context.Context, tenantID string, shopID int64, productIDs []int64) (*domain.BatchResult, error) {
	products, err := s.products.ListProducts(ctx, tenantID, shopID, productIDs)
	if err != nil {
		return nil, err
	}

	if err := s.cache.InvalidateShop(ctx, shopID); err != nil {
		log.Warn().Err(err).Int64("shop_id", shopID).Msg("forecast: cache invalidate shop failed")
	}

	result := &domain.BatchResult{
		ShopID: shopID,
		Items:  make([]domain.BatchItem, len(products)),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.BatchWorkers)

	for i := range products {
		product := &products[i]
		g.Go(func() error {
			item := domain.BatchItem{ProductID: product.ID}

			pf, err := s.generateProduct(gctx, tenantID, product)
			switch {
			case errors.Is(err, forecast.ErrInsufficientHistory):
				item.Status = domain.BatchSkipped
				item.Error = err.Error()
			case err != nil:
				item.Status = domain.BatchFailed
				item.Error = err.Error()
				log.Error().Err(err).
					Int64("shop_id", shopID).
					Int64("product_id", product.ID).
					Msg("forecast: batch generate failed")
			default:
				item.Status = domain.BatchGenerated
				item.RiskLevel = string(pf.Evaluation.Recommendation.RiskLevel)
				item.Confidence = pf.Evaluation.Forecast.Confidence
			}

			result.Items[i] = item
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result.Tally()
	log.Info().
		Int64("shop_id", shopID).
		Int("generated", result.Generated).
		Int("skipped", result.Skipped).
		Int("failed", result.Failed).
		Msg("forecast: batch complete")

	return result, nil
}

// WhatIf re-evaluates the latest recommendation for a product under a
// hypothetical stock level and discount. Nothing is persisted.
func (s *ForecastService) WhatIf(ctx context.Context, tenantID string, shopID, productID int64, req WhatIfRequest) (*inventory.WhatIfResult, error) {
	// GetProduct authorizes the shop before the cache is consulted
	product, err := s.products.GetProduct(ctx, tenantID, shopID, productID)
	if err != nil {
		return nil, err
	}

	pf, ok, err := s.cache.Get(ctx, shopID, productID)
	if err != nil {
		log.Warn().Err(err).Int64("product_id", productID).Msg("forecast: cache get failed")
	}
	if !ok || pf == nil || pf.Evaluation == nil {
		pf, err = s.evaluateProduct(ctx, tenantID, product)
		if err != nil {
			return nil, err
		}
		s.cacheEvaluation(ctx, pf)
	}

	price := req.UnitPrice
	if price <= 0 {
		price = product.UnitPrice
	}

	result, err := s.engine.WhatIf(pf.Evaluation.Recommendation, req.Stock, req.DiscountPercent, price)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *ForecastService) ListForecasts(ctx context.Context, tenantID string, shopID, productID int64, limit int) ([]domain.ForecastRecord, error) {
	records, err := s.forecasts.ListForecasts(ctx, tenantID, shopID, productID, limit)
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = make([]domain.ForecastRecord, 0)
	}
	return records, nil
}

// ImportSales upserts sales history and drops the cached evaluation, which no
// longer reflects the stored history.
func (s *ForecastService) ImportSales(ctx context.Context, tenantID string, shopID, productID int64, records []domain.SalesRecord) (int, error) {
	written, err := s.sales.UpsertSales(ctx, tenantID, shopID, productID, records)
	if err != nil {
		return 0, err
	}

	if err := s.cache.Invalidate(ctx, shopID, productID); err != nil {
		log.Warn().Err(err).Int64("product_id", productID).Msg("forecast: cache invalidate failed")
	}
	return written, nil
}

func (s *ForecastService) evaluateProduct(ctx context.Context, tenantID string, product *domain.Product) (*domain.ProductForecast, error) {
	now := s.opts.Now()

	var since time.Time
	if s.opts.HistoryDays > 0 {
		since = now.AddDate(0, 0, -s.opts.HistoryDays)
	}

	records, err := s.sales.GetSalesHistory(ctx, tenantID, product.ShopID, product.ID, since)
	if err != nil {
		return nil, err
	}

	history := make([]forecast.SalesDataPoint, len(records))
	for i, rec := range records {
		history[i] = rec.DataPoint()
	}

	eval, err := s.engine.Evaluate(history, product.CurrentStock, product.UnitPrice)
	if err != nil {
		return nil, fmt.Errorf("product %d: %w", product.ID, err)
	}

	return &domain.ProductForecast{
		Product:     *product,
		HistoryDays: len(history),
		GeneratedAt: now,
		Evaluation:  eval,
	}, nil
}

func (s *ForecastService) generateProduct(ctx context.Context, tenantID string, product *domain.Product) (*domain.ProductForecast, error) {
	pf, err := s.evaluateProduct(ctx, tenantID, product)
	if err != nil {
		return nil, err
	}

	record := domain.NewForecastRecord(product, pf.Evaluation)
	if err := s.forecasts.SaveForecast(ctx, tenantID, record); err != nil {
		return nil, fmt.Errorf("save forecast for product %d: %w", product.ID, err)
	}
	pf.Record = record

	if s.opts.ExportReports {
		if key, err := s.exportReport(ctx, pf); err != nil {
			log.Warn().Err(err).Int64("product_id", product.ID).Msg("forecast: report export failed")
		} else {
			pf.ReportKey = key
		}
	}

	s.cacheEvaluation(ctx, pf)

	log.Debug().
		Int64("shop_id", product.ShopID).
		Int64("product_id", product.ID).
		Str("model", string(pf.Evaluation.Forecast.Model)).
		Float64("confidence", pf.Evaluation.Forecast.Confidence).
		Int("recommended_stock", record.RecommendedStock).
		Msg("forecast: generated")

	return pf, nil
}

func (s *ForecastService) exportReport(ctx context.Context, pf *domain.ProductForecast) (string, error) {
	payload, err := json.Marshal(pf)
	if err != nil {
		return "", fmt.Errorf("encode report: %w", err)
	}

	key := storage.ReportKey(pf.Product.ShopID, pf.Product.ID, pf.GeneratedAt)
	if err := s.reports.UploadObject(ctx, key, payload); err != nil {
		return "", err
	}
	return key, nil
}

func (s *ForecastService) cacheEvaluation(ctx context.Context, pf *domain.ProductForecast) {
	if err := s.cache.Set(ctx, pf); err != nil {
		log.Warn().Err(err).Int64("product_id", pf.Product.ID).Msg("forecast: cache set failed")
	}
}
