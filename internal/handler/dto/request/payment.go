package request

import "github.com/google/uuid"

type CreateOrderRequest struct {
	BookingID uuid.UUID `json:"booking_id" binding:"required"`
}

type VerifyPaymentRequest struct {
	OrderID string `json:"order_id" binding:"required"`
}

type PaymentFailureRequest struct {
	OrderID string `json:"order_id" binding:"required"`
	Reason  string `json:"reason"`
}
