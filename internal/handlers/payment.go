package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/kamberss/camrent/internal/models"
	"github.com/kamberss/camrent/internal/mykafka"
)

type PaymentHandler struct {
	DB          *gorm.DB
	Producer    *mykafka.Producer
	RedirectURL string
}

// CreateTransaction opens a payment session for a rental. The returned
// token is what the storefront hands to the payment popup widget. A rental
// with a still-pending transaction gets the same session back instead of a
// new one.
func (h *PaymentHandler) CreateTransaction(c echo.Context) error {
	var req struct {
		RentalID uint `json:"rental_id"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.RentalID == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "rental_id is required")
	}

	var order models.Rental
	if err := h.DB.First(&order, req.RentalID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "rental not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	var existing models.PaymentTransaction
	err := h.DB.Where("rental_id = ? AND status = ?", order.ID, models.StatusPending).
		First(&existing).Error
	if err == nil {
		return c.JSON(http.StatusOK, h.transactionResponse(existing))
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	txn := models.PaymentTransaction{
		RentalID:    order.ID,
		OrderRef:    fmt.Sprintf("RENTAL-%d-%d", order.ID, time.Now().Unix()),
		GrossAmount: order.TotalPrice,
		Token:       uuid.NewString(),
		Status:      models.StatusPending,
		CreatedAt:   time.Now().Unix(),
	}
	if err := h.DB.Create(&txn).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.publish(c, map[string]any{
		"type":         "payment_transaction_created",
		"rentalID":     order.ID,
		"orderRef":     txn.OrderRef,
		"gross_amount": txn.GrossAmount,
	})

	return c.JSON(http.StatusCreated, h.transactionResponse(txn))
}

func (h *PaymentHandler) transactionResponse(txn models.PaymentTransaction) echo.Map {
	return echo.Map{
		"token":        txn.Token,
		"order_ref":    txn.OrderRef,
		"gross_amount": txn.GrossAmount,
		"redirect_url": fmt.Sprintf("%s/%s", h.RedirectURL, txn.Token),
	}
}

func (h *PaymentHandler) publish(c echo.Context, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "rental_events", fmt.Sprint(event["rentalID"]), event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}
