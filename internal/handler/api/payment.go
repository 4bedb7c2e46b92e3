package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	reqdto "boxcric-api/internal/handler/dto/request"
	"boxcric-api/internal/handler/middleware"
	"boxcric-api/internal/infra/gateway/cashfree"
	"boxcric-api/internal/pkg/clock"
	"boxcric-api/internal/pkg/config"
	"boxcric-api/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	paymentCommands commands.PaymentCommands
	cashfreeCfg     config.CashfreeConfig
	clock           clock.Clock
}

func NewPaymentHandler(paymentCommands commands.PaymentCommands, cashfreeCfg config.CashfreeConfig, clock clock.Clock) *PaymentHandler {
	return &PaymentHandler{
		paymentCommands: paymentCommands,
		cashfreeCfg:     cashfreeCfg,
		clock:           clock,
	}
}

// @Summary Create payment order
// @Description Open a gateway order for a pending booking
// @Tags payments
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body reqdto.CreateOrderRequest true "Order request"
// @Success 200 {object} commands.CreateOrderResult
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 502 {object} map[string]string
// @Router /payments/orders [post]
func (h *PaymentHandler) CreateOrder(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req reqdto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	result, err := h.paymentCommands.CreateOrder(c.Request.Context(), req, userID)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrBookingNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
		case errors.Is(err, commands.ErrNotOwner):
			c.JSON(http.StatusForbidden, gin.H{"error": "This booking belongs to another user"})
		case errors.Is(err, commands.ErrPaymentSettled):
			c.JSON(http.StatusConflict, gin.H{"error": "Payment for this booking is already settled"})
		case errors.Is(err, commands.ErrAmountTooSmall):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Booking amount is below the gateway minimum"})
		case errors.Is(err, commands.ErrGatewayFailure):
			c.JSON(http.StatusBadGateway, gin.H{"error": "Payment gateway is unavailable"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}
	c.JSON(http.StatusOK, result)
}

// @Summary Verify payment
// @Description Ask the gateway for the order status and reconcile the booking
// @Tags payments
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body reqdto.VerifyPaymentRequest true "Verify request"
// @Success 200 {object} commands.VerifyResult
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 502 {object} map[string]string
// @Router /payments/verify [post]
func (h *PaymentHandler) Verify(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req reqdto.VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	result, err := h.paymentCommands.VerifyPayment(c.Request.Context(), req, userID)
	if err != nil {
		h.writePaymentError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// @Summary Record payment failure
// @Description Client-reported payment failure, cancels the booking
// @Tags payments
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body reqdto.PaymentFailureRequest true "Failure report"
// @Success 200 {object} commands.VerifyResult
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /payments/failure [post]
func (h *PaymentHandler) RecordFailure(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req reqdto.PaymentFailureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	result, err := h.paymentCommands.RecordFailure(c.Request.Context(), req, userID)
	if err != nil {
		h.writePaymentError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type webhookPayload struct {
	Type string `json:"type"`
	Data struct {
		Order struct {
			OrderID     string `json:"order_id"`
			OrderStatus string `json:"order_status"`
		} `json:"order"`
		Payment struct {
			CfPaymentID   json.Number `json:"cf_payment_id"`
			PaymentStatus string      `json:"payment_status"`
		} `json:"payment"`
	} `json:"data"`
}

// @Summary Payment webhook
// @Description Gateway-initiated reconciliation callback
// @Tags payments
// @Accept json
// @Success 200 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /payments/webhook [post]
func (h *PaymentHandler) Webhook(c *gin.Context) {
	rawBody, err := io.ReadAll(io.LimitReader(c.Request.Body, 1<<20))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unreadable body"})
		return
	}

	signature := c.GetHeader("x-webhook-signature")
	timestamp := c.GetHeader("x-webhook-timestamp")
	if err := cashfree.VerifyWebhookSignature(
		h.cashfreeCfg.WebhookSecret, timestamp, rawBody, signature, h.clock.Now(),
	); err != nil {
		slog.Warn("webhook signature rejected", "error", err.Error())
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid signature"})
		return
	}

	var payload webhookPayload
	if err := json.Unmarshal(rawBody, &payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
		return
	}

	status := payload.Data.Order.OrderStatus
	if status == "" {
		status = mapPaymentStatus(payload.Data.Payment.PaymentStatus)
	}

	err = h.paymentCommands.ReconcileWebhook(
		c.Request.Context(),
		payload.Data.Order.OrderID,
		status,
		payload.Data.Payment.CfPaymentID.String(),
		rawBody,
	)
	if err != nil {
		// Settled bookings and unrecognized statuses are acknowledged so
		// the gateway stops retrying; real failures get a retry.
		switch {
		case errors.Is(err, commands.ErrOrderNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "No booking found for this order"})
		case errors.Is(err, commands.ErrStateConflict),
			errors.Is(err, commands.ErrUnknownGwStatus):
			slog.Warn("webhook event ignored",
				"order_id", payload.Data.Order.OrderID,
				"status", status,
				"error", err.Error(),
			)
			c.JSON(http.StatusOK, gin.H{"status": "ignored"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *PaymentHandler) writePaymentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, commands.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "No booking found for this order"})
	case errors.Is(err, commands.ErrNotOwner):
		c.JSON(http.StatusForbidden, gin.H{"error": "This booking belongs to another user"})
	case errors.Is(err, commands.ErrStateConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "Booking state does not allow this operation"})
	case errors.Is(err, commands.ErrGatewayFailure):
		c.JSON(http.StatusBadGateway, gin.H{"error": "Payment gateway is unavailable"})
	case errors.Is(err, commands.ErrUnknownGwStatus):
		c.JSON(http.StatusBadGateway, gin.H{"error": "Unexpected response from payment gateway"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// Cashfree payment-level statuses for older webhook payloads that do
// not carry the order status.
func mapPaymentStatus(paymentStatus string) string {
	switch paymentStatus {
	case "SUCCESS":
		return commands.GatewayStatusPaid
	case "FAILED":
		return commands.GatewayStatusFailed
	case "USER_DROPPED", "CANCELLED", "EXPIRED":
		return commands.GatewayStatusExpired
	default:
		return paymentStatus
	}
}
