package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"storefront/internal/model"
	"storefront/internal/service"
)

// PaymentHandler handles payment endpoints including the gateway webhook.
type PaymentHandler struct {
	paymentService service.PaymentService
}

// NewPaymentHandler creates a new payment handler.
func NewPaymentHandler(paymentService service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// CreatePaymentRequest represents a payment creation request.
type CreatePaymentRequest struct {
	OrderID       uuid.UUID       `json:"order_id" validate:"required"`
	Method        string          `json:"method" validate:"required,max=250"`
	Amount        decimal.Decimal `json:"amount"`
	TransactionID string          `json:"transaction_id" validate:"omitempty,max=100"`
	ReceiptURL    string          `json:"receipt_url" validate:"omitempty,url"`
}

// UpdatePaymentRequest represents a partial payment update.
type UpdatePaymentRequest struct {
	Status     *string `json:"status,omitempty" validate:"omitempty,oneof=pending completed cancelled"`
	Method     *string `json:"method,omitempty"`
	ReceiptURL *string `json:"receipt_url,omitempty" validate:"omitempty,url"`
}

// ListPayments godoc
// @Summary List payments (admin)
// @Tags payments
// @Produce json
// @Param include_deleted query bool false "Include soft-deleted payments"
// @Success 200 {array} model.Payment
// @Security BearerAuth
// @Router /payments [get]
func (h *PaymentHandler) ListPayments(c echo.Context) error {
	payments, err := h.paymentService.ListPayments(c.Request().Context(), includeDeleted(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, payments)
}

// GetPayment godoc
// @Summary Get a payment by id
// @Tags payments
// @Produce json
// @Param id path string true "Payment ID"
// @Success 200 {object} model.Payment
// @Failure 404 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /payments/{id} [get]
func (h *PaymentHandler) GetPayment(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	payment, err := h.paymentService.GetPayment(c.Request().Context(), id, false)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, payment)
}

// CreatePayment godoc
// @Summary Record a payment for an order
// @Tags payments
// @Accept json
// @Produce json
// @Param request body CreatePaymentRequest true "Payment payload"
// @Success 201 {object} model.Payment
// @Failure 409 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /payments [post]
func (h *PaymentHandler) CreatePayment(c echo.Context) error {
	var req CreatePaymentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	payment, err := h.paymentService.CreatePayment(c.Request().Context(), service.CreatePaymentInput{
		OrderID:       req.OrderID,
		Method:        req.Method,
		Amount:        req.Amount,
		TransactionID: req.TransactionID,
		ReceiptURL:    req.ReceiptURL,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, payment)
}

// UpdatePayment godoc
// @Summary Update a payment (admin)
// @Tags payments
// @Accept json
// @Produce json
// @Param id path string true "Payment ID"
// @Param request body UpdatePaymentRequest true "Fields to update"
// @Success 200 {object} model.Payment
// @Security BearerAuth
// @Router /payments/{id} [put]
func (h *PaymentHandler) UpdatePayment(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req UpdatePaymentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	input := service.UpdatePaymentInput{
		Method:     req.Method,
		ReceiptURL: req.ReceiptURL,
	}
	if req.Status != nil {
		status := model.PaymentStatus(*req.Status)
		input.Status = &status
	}

	payment, err := h.paymentService.UpdatePayment(c.Request().Context(), id, input)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, payment)
}

// Webhook godoc
// @Summary Gateway webhook reporting a payment status
// @Tags payments
// @Produce json
// @Param transaction_id query string true "Gateway transaction ID"
// @Param status query string true "Reported status"
// @Success 200 {object} model.Payment
// @Failure 404 {object} errors.ErrorResponse
// @Router /payments/webhook [get]
func (h *PaymentHandler) Webhook(c echo.Context) error {
	transactionID := c.QueryParam("transaction_id")
	if transactionID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing transaction_id")
	}
	status := model.PaymentStatus(c.QueryParam("status"))

	payment, err := h.paymentService.HandleWebhook(c.Request().Context(), transactionID, status)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, payment)
}

// GetPaymentByOrder godoc
// @Summary Get the payment of an order
// @Tags payments
// @Produce json
// @Param orderId path string true "Order ID"
// @Success 200 {object} model.Payment
// @Failure 404 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /payments/orders/{orderId} [get]
func (h *PaymentHandler) GetPaymentByOrder(c echo.Context) error {
	orderID, err := pathID(c, "orderId")
	if err != nil {
		return err
	}
	payment, err := h.paymentService.GetPaymentByOrder(c.Request().Context(), orderID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, payment)
}
