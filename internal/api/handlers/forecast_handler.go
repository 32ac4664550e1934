package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/andresuchdata/stockcast/internal/api/middleware"
	"github.com/andresuchdata/stockcast/internal/domain"
	"github.com/andresuchdata/stockcast/internal/forecast"
	"github.com/andresuchdata/stockcast/internal/inventory"
	"github.com/andresuchdata/stockcast/internal/repository"
	"github.com/andresuchdata/stockcast/internal/service"
	"github.com/gin-gonic/gin"
)

// ForecastService is the subset of service.ForecastService the handler calls
type ForecastService interface {
	Evaluate(ctx context.Context, tenantID string, shopID, productID int64) (*domain.ProductForecast, error)
	Generate(ctx context.Context, tenantID string, shopID, productID int64) (*domain.ProductForecast, error)
	GenerateShop(ctx context.Context, tenantID string, shopID int64, productIDs []int64) (*domain.BatchResult, error)
	WhatIf(ctx context.Context, tenantID string, shopID, productID int64, req service.WhatIfRequest) (*inventory.WhatIfResult, error)
	ListForecasts(ctx context.Context, tenantID string, shopID, productID int64, limit int) ([]domain.ForecastRecord, error)
}

type ForecastHandler struct {
	service ForecastService
}

func NewForecastHandler(service ForecastService) *ForecastHandler {
	return &ForecastHandler{service: service}
}

type batchRequest struct {
	ProductIDs []int64 `json:"product_ids"`
}

func (h *ForecastHandler) GetForecast(c *gin.Context) {
	shopID, productID, ok := parseIDs(c)
	if !ok {
		return
	}

	result, err := h.service.Evaluate(c.Request.Context(), middleware.TenantID(c), shopID, productID)
	if err != nil {
		respondError(c, "failed to evaluate forecast", err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *ForecastHandler) GenerateForecast(c *gin.Context) {
	shopID, productID, ok := parseIDs(c)
	if !ok {
		return
	}

	result, err := h.service.Generate(c.Request.Context(), middleware.TenantID(c), shopID, productID)
	if err != nil {
		respondError(c, "failed to generate forecast", err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

func (h *ForecastHandler) GenerateShopForecasts(c *gin.Context) {
	shopID, ok := parseID(c, "shop")
	if !ok {
		return
	}

	var req batchRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
			return
		}
	}

	result, err := h.service.GenerateShop(c.Request.Context(), middleware.TenantID(c), shopID, req.ProductIDs)
	if err != nil {
		respondError(c, "failed to generate shop forecasts", err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *ForecastHandler) WhatIf(c *gin.Context) {
	shopID, productID, ok := parseIDs(c)
	if !ok {
		return
	}

	var req service.WhatIfRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	result, err := h.service.WhatIf(c.Request.Context(), middleware.TenantID(c), shopID, productID, req)
	if err != nil {
		respondError(c, "failed to run what-if", err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *ForecastHandler) ListForecasts(c *gin.Context) {
	shopID, productID, ok := parseIDs(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "30"))
	if limit <= 0 {
		limit = 30
	}

	records, err := h.service.ListForecasts(c.Request.Context(), middleware.TenantID(c), shopID, productID, limit)
	if err != nil {
		respondError(c, "failed to fetch forecasts", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"forecasts": records})
}

func parseIDs(c *gin.Context) (int64, int64, bool) {
	shopID, ok := parseID(c, "shop")
	if !ok {
		return 0, 0, false
	}
	productID, ok := parseID(c, "product")
	if !ok {
		return 0, 0, false
	}
	return shopID, productID, true
}

func parseID(c *gin.Context, param string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(param), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + param + " id"})
		return 0, false
	}
	return id, true
}

func respondError(c *gin.Context, message string, err error) {
	c.JSON(statusFor(err), gin.H{"error": message, "details": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, repository.ErrShopAccessDenied):
		return http.StatusForbidden
	case errors.Is(err, forecast.ErrInsufficientHistory):
		return http.StatusUnprocessableEntity
	case errors.Is(err, inventory.ErrInvalidDiscount), errors.Is(err, inventory.ErrNegativeStock):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
