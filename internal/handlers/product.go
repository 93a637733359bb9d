package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/kamberss/camrent/internal/models"
	"github.com/kamberss/camrent/internal/mykafka"
	"github.com/kamberss/camrent/internal/service/search"
)

type ProductHandler struct {
	DB       *gorm.DB
	Producer *mykafka.Producer
	ES       *elasticsearch.Client
	Index    string
}

type productRequest struct {
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	Image       string  `json:"image"`
	Specs       string  `json:"specs"`
	Description string  `json:"description"`
	Stock       uint    `json:"stock"`
}

// GetProducts returns the whole catalog grouped by category key, the shape
// the storefront renders section by section.
func (h *ProductHandler) GetProducts(c echo.Context) error {
	var items []models.Product
	if err := h.DB.Order("id ASC").Find(&items).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	grouped := make(map[string][]models.Product)
	for _, p := range items {
		grouped[p.Category] = append(grouped[p.Category], p)
	}

	return c.JSON(http.StatusOK, grouped)
}

func (h *ProductHandler) GetProduct(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var product models.Product
	if err := h.DB.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "product not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) CreateProduct(c echo.Context) error {
	var req productRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Name == "" || req.Category == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name and category are required")
	}
	if req.Price < 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "price must be non-negative")
	}

	prod := models.Product{
		Name:        req.Name,
		Category:    req.Category,
		Price:       req.Price,
		Image:       req.Image,
		Specs:       req.Specs,
		Description: req.Description,
		Stock:       req.Stock,
	}

	if err := h.DB.Create(&prod).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.index(c, prod)
	h.publish(c, map[string]any{
		"type":      "product_created",
		"productID": prod.ID,
		"name":      prod.Name,
	})

	return c.JSON(http.StatusCreated, prod)
}

func (h *ProductHandler) PatchProduct(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var req struct {
		Name        *string  `json:"name"`
		Category    *string  `json:"category"`
		Price       *float64 `json:"price"`
		Image       *string  `json:"image"`
		Specs       *string  `json:"specs"`
		Description *string  `json:"description"`
		Stock       *uint    `json:"stock"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Price != nil && *req.Price < 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "price must be non-negative")
	}

	var prod models.Product
	if err := h.DB.First(&prod, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "product not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	// absent fields keep their stored values
	if req.Name != nil {
		prod.Name = *req.Name
	}
	if req.Category != nil {
		prod.Category = *req.Category
	}
	if req.Price != nil {
		prod.Price = *req.Price
	}
	if req.Image != nil {
		prod.Image = *req.Image
	}
	if req.Specs != nil {
		prod.Specs = *req.Specs
	}
	if req.Description != nil {
		prod.Description = *req.Description
	}
	if req.Stock != nil {
		prod.Stock = *req.Stock
	}

	if err := h.DB.Save(&prod).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.index(c, prod)
	h.publish(c, map[string]any{
		"type":      "product_updated",
		"productID": prod.ID,
		"name":      prod.Name,
	})

	return c.JSON(http.StatusOK, prod)
}

// UpdateStock changes only the stock count, the admin inline edit on the
// product table.
func (h *ProductHandler) UpdateStock(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var req struct {
		Stock *uint `json:"stock"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Stock == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "stock is required")
	}

	var prod models.Product
	if err := h.DB.First(&prod, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "product not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	prod.Stock = *req.Stock
	if err := h.DB.Save(&prod).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.publish(c, map[string]any{
		"type":      "product_stock_updated",
		"productID": prod.ID,
		"stock":     prod.Stock,
	})

	return c.JSON(http.StatusOK, prod)
}

func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	if err := h.DB.Delete(&models.Product{}, id).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if h.ES != nil {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
		defer cancel()
		if err := search.DeleteProduct(ctx, h.ES, h.Index, uint(id)); err != nil {
			c.Logger().Errorf("ES delete error: %v", err)
		}
	}
	h.publish(c, map[string]any{
		"type":      "product_deleted",
		"productID": id,
	})

	return c.NoContent(http.StatusNoContent)
}

func (h *ProductHandler) index(c echo.Context, prod models.Product) {
	if h.ES == nil {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := search.IndexProduct(ctx, h.ES, h.Index, prod); err != nil {
		c.Logger().Errorf("ES index error: %v", err)
	}
}

func (h *ProductHandler) publish(c echo.Context, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "product_events", fmt.Sprint(event["productID"]), event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}
