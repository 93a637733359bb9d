package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/kamberss/camrent/internal/models"
	"github.com/kamberss/camrent/internal/mykafka"
	"github.com/kamberss/camrent/internal/rental"
)

type RentalHandler struct {
	DB       *gorm.DB
	Producer *mykafka.Producer
}

type rentalRequest struct {
	Name      string            `json:"name"`
	Email     string            `json:"email"`
	Phone     string            `json:"phone"`
	StartDate string            `json:"start_date"`
	EndDate   string            `json:"end_date"`
	Items     []rental.LineItem `json:"items"`
}

// CreateRental turns a submitted cart plus customer form into a rental
// order. An empty cart is rejected before anything touches the database.
func (h *RentalHandler) CreateRental(c echo.Context) error {
	var req rentalRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if len(req.Items) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "cart is empty")
	}
	if req.Name == "" || req.Email == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name and email are required")
	}

	cart := rental.Cart(req.Items)
	days := rental.DurationDays(req.StartDate, req.EndDate)
	total := cart.Total(days)

	var order models.Rental
	txErr := h.DB.Transaction(func(tx *gorm.DB) error {
		order = models.Rental{
			Name:       req.Name,
			Email:      req.Email,
			Phone:      req.Phone,
			StartDate:  req.StartDate,
			EndDate:    req.EndDate,
			TotalPrice: total,
			Status:     models.StatusAwaiting,
			CreatedAt:  time.Now().Unix(),
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		for _, it := range cart {
			item := models.RentalItem{
				RentalID:  order.ID,
				ProductID: it.ProductID,
				Category:  it.Category,
				Price:     it.Price,
			}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
			order.Items = append(order.Items, item)
		}
		return nil
	})
	if txErr != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, txErr.Error())
	}

	h.publish(c, map[string]any{
		"type":     "rental_created",
		"rentalID": order.ID,
		"email":    order.Email,
		"total":    order.TotalPrice,
		"days":     days,
	})

	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"rental":  order,
	})
}

func (h *RentalHandler) ListRentals(c echo.Context) error {
	q := h.DB.Preload("Items").Order("id ASC")
	if status := c.QueryParam("status"); status != "" {
		q = q.Where("status = ?", status)
	}

	var rentals []models.Rental
	if err := q.Find(&rentals).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, rentals)
}

func (h *RentalHandler) GetRental(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var order models.Rental
	if err := h.DB.Preload("Items").First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "rental not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, order)
}

// UpdateStatus moves a rental to any status in the lifecycle enum. The
// admin dashboard exposes this as a free-form select.
func (h *RentalHandler) UpdateStatus(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if !models.ValidStatus(req.Status) {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid status: "+req.Status)
	}

	var order models.Rental
	if err := h.DB.First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "rental not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	order.Status = req.Status
	if err := h.DB.Save(&order).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.publish(c, map[string]any{
		"type":     "rental_status_updated",
		"rentalID": order.ID,
		"status":   order.Status,
	})

	return c.JSON(http.StatusOK, order)
}

// ProcessReturn marks an approved rental's equipment as physically
// returned, stamping the return date and optional notes.
func (h *RentalHandler) ProcessReturn(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var req struct {
		Notes string `json:"notes"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var order models.Rental
	if err := h.DB.First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "rental not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if order.Status != models.StatusApproved {
		return echo.NewHTTPError(http.StatusBadRequest, "rental is not approved")
	}

	now := time.Now()
	order.Status = models.StatusReturned
	order.ReturnDate = &now
	order.ReturnNotes = req.Notes
	if err := h.DB.Save(&order).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.publish(c, map[string]any{
		"type":     "rental_returned",
		"rentalID": order.ID,
		"notes":    order.ReturnNotes,
	})

	return c.JSON(http.StatusOK, order)
}

func (h *RentalHandler) publish(c echo.Context, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "rental_events", fmt.Sprint(event["rentalID"]), event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}
