package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"boxcric-api/internal/domain/booking"
	reqdto "boxcric-api/internal/handler/dto/request"
	"boxcric-api/internal/infra"
	"boxcric-api/internal/infra/db"
	"boxcric-api/internal/pkg/clock"
	"boxcric-api/internal/pkg/config"
	"boxcric-api/internal/pkg/errs"
	"boxcric-api/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Cashfree refuses orders below one rupee.
const minOrderAmountPaise = 100

var (
	ErrAmountTooSmall  = errs.New("order amount below gateway minimum")
	ErrGatewayFailure  = errs.New("payment gateway request failed")
	ErrOrderNotFound   = errs.New("no booking for this order")
	ErrPaymentSettled  = errs.New("payment already settled")
	ErrUnknownGwStatus = errs.New("unrecognized gateway order status")
)

type CreateOrderResult struct {
	OrderID          string `json:"order_id"`
	PaymentSessionID string `json:"payment_session_id"`
	Amount           int64  `json:"amount"`
	Currency         string `json:"currency"`
}

type VerifyResult struct {
	// Status is "completed", "failed" or "pending" from the caller's
	// point of view, not the raw gateway status.
	Status  string               `json:"status"`
	Booking *queries.BookingView `json:"booking"`
}

type PaymentCommands interface {
	CreateOrder(ctx context.Context, req reqdto.CreateOrderRequest, userID uuid.UUID) (*CreateOrderResult, error)
	// VerifyPayment asks the gateway for the order's current state and
	// reconciles the booking to it.
	VerifyPayment(ctx context.Context, req reqdto.VerifyPaymentRequest, userID uuid.UUID) (*VerifyResult, error)
	// RecordFailure lets the client report a payment it saw fail without
	// waiting for the gateway to expire the order.
	RecordFailure(ctx context.Context, req reqdto.PaymentFailureRequest, userID uuid.UUID) (*VerifyResult, error)
	// ReconcileWebhook applies a gateway webhook event. It is the same
	// transition authority as VerifyPayment so the two paths can never
	// disagree on the outcome. rawEvent is stored with the booking when
	// the event settles it.
	ReconcileWebhook(ctx context.Context, orderID, gatewayStatus, transactionID string, rawEvent []byte) error
}

type CustomerDirectory interface {
	FindByID(ctx context.Context, id uuid.UUID) (*queries.AuthorizedUserView, error)
}

type paymentCommandsImpl struct {
	bookingRepo      BookingRepository
	notificationRepo NotificationRepository
	bookingQueries   queries.BookingQueries
	customers        CustomerDirectory
	gateway          PaymentGateway
	db               db.Pool
	clock            clock.Clock
	serverCfg        config.ServerConfig
}

func NewPaymentCommands(
	bookingRepo BookingRepository,
	notificationRepo NotificationRepository,
	bookingQueries queries.BookingQueries,
	customers CustomerDirectory,
	gateway PaymentGateway,
	db db.Pool,
	clock clock.Clock,
	serverCfg config.ServerConfig,
) PaymentCommands {
	return &paymentCommandsImpl{
		bookingRepo:      bookingRepo,
		notificationRepo: notificationRepo,
		bookingQueries:   bookingQueries,
		customers:        customers,
		gateway:          gateway,
		db:               db,
		clock:            clock,
		serverCfg:        serverCfg,
	}
}

func (p *paymentCommandsImpl) CreateOrder(ctx context.Context, req reqdto.CreateOrderRequest, userID uuid.UUID) (*CreateOrderResult, error) {
	entity, err := p.loadBooking(ctx, req.BookingID)
	if err != nil {
		return nil, err
	}
	if !entity.IsOwnedBy(userID) {
		return nil, ErrNotOwner
	}
	if entity.Status() != booking.StatusPending || entity.Payment().Status != booking.PaymentPending {
		return nil, ErrPaymentSettled
	}
	if entity.Amount() < minOrderAmountPaise {
		return nil, ErrAmountTooSmall
	}

	customer, err := p.customers.FindByID(ctx, userID)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	orderID := booking.NewOrderID(entity.ID().String(), p.clock.Now())
	order, err := p.gateway.CreateOrder(ctx, CreateOrderParams{
		OrderID:       orderID,
		Amount:        entity.Amount(),
		Currency:      "INR",
		CustomerID:    customer.ID.String(),
		CustomerName:  customer.Name,
		CustomerEmail: customer.Email,
		CustomerPhone: customer.Phone,
		ReturnURL:     fmt.Sprintf("%s/payment/result?order_id={order_id}", p.serverCfg.BaseURL),
		NotifyURL:     fmt.Sprintf("%s/api/payments/webhook", p.serverCfg.BaseURL),
	})
	if err != nil {
		return nil, errs.Mark(err, ErrGatewayFailure)
	}

	expected := entity.Status()
	if err := entity.AttachOrder(order.OrderID, order.PaymentSessionID); err != nil {
		return nil, errs.Mark(err, ErrStateConflict)
	}
	if _, err := p.bookingRepo.Update(ctx, p.db, entity, expected); err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	return &CreateOrderResult{
		OrderID:          order.OrderID,
		PaymentSessionID: order.PaymentSessionID,
		Amount:           entity.Amount(),
		Currency:         "INR",
	}, nil
}

func (p *paymentCommandsImpl) VerifyPayment(ctx context.Context, req reqdto.VerifyPaymentRequest, userID uuid.UUID) (*VerifyResult, error) {
	entity, err := p.loadBookingByOrder(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}
	if !entity.IsOwnedBy(userID) {
		return nil, ErrNotOwner
	}

	order, err := p.gateway.GetOrder(ctx, req.OrderID)
	if err != nil {
		return nil, errs.Mark(err, ErrGatewayFailure)
	}

	status, err := p.applyGatewayStatus(ctx, entity, order.Status, order.TransactionID, order.Raw)
	if err != nil {
		return nil, err
	}

	view, err := p.bookingQueries.GetByIDSystem(ctx, entity.ID())
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return &VerifyResult{Status: status, Booking: view}, nil
}

func (p *paymentCommandsImpl) RecordFailure(ctx context.Context, req reqdto.PaymentFailureRequest, userID uuid.UUID) (*VerifyResult, error) {
	entity, err := p.loadBookingByOrder(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}
	if !entity.IsOwnedBy(userID) {
		return nil, ErrNotOwner
	}

	reason := req.Reason
	if reason == "" {
		reason = booking.CancelReasonPaymentFailed
	}

	expected := entity.Status()
	if err := entity.FailPayment(reason, booking.ActorUser, p.clock.Now()); err != nil {
		return nil, errs.Mark(err, ErrStateConflict)
	}
	if entity.Status() != expected {
		if err := p.persist(ctx, entity, expected); err != nil {
			return nil, err
		}
	}

	view, err := p.bookingQueries.GetByIDSystem(ctx, entity.ID())
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return &VerifyResult{Status: "failed", Booking: view}, nil
}

func (p *paymentCommandsImpl) ReconcileWebhook(ctx context.Context, orderID, gatewayStatus, transactionID string, rawEvent []byte) error {
	entity, err := p.loadBookingByOrder(ctx, orderID)
	if err != nil {
		return err
	}
	_, err = p.applyGatewayStatus(ctx, entity, gatewayStatus, transactionID, rawEvent)
	return err
}

// applyGatewayStatus is the single place a gateway-reported order status
// becomes a booking transition. ACTIVE means the customer has not paid
// yet, which is not an error, just nothing to do.
func (p *paymentCommandsImpl) applyGatewayStatus(ctx context.Context, entity *booking.Booking, gatewayStatus, transactionID string, raw []byte) (string, error) {
	now := p.clock.Now()
	expected := entity.Status()

	var (
		result        string
		transitionErr error
		topic         string
	)
	switch gatewayStatus {
	case GatewayStatusActive:
		return "pending", nil
	case GatewayStatusPaid:
		result = "completed"
		topic = "booking_confirmed"
		transitionErr = entity.Confirm(transactionID, booking.ActorSystem, now)
	case GatewayStatusExpired:
		result = "failed"
		topic = "booking_cancelled"
		transitionErr = entity.FailPayment(booking.CancelReasonPaymentExpired, booking.ActorSystem, now)
	case GatewayStatusFailed:
		result = "failed"
		topic = "booking_cancelled"
		transitionErr = entity.FailPayment(booking.CancelReasonPaymentFailed, booking.ActorSystem, now)
	default:
		return "", errs.Mark(errs.New("gateway status "+gatewayStatus), ErrUnknownGwStatus)
	}
	if transitionErr != nil {
		return "", errs.Mark(transitionErr, ErrStateConflict)
	}

	// No status change means this event was already applied; replaying
	// it must not rewrite the settled record.
	if entity.Status() == expected {
		return result, nil
	}

	entity.RecordGatewayResponse(raw)

	if err := p.persistWithEvent(ctx, entity, expected, topic); err != nil {
		return "", err
	}
	return result, nil
}

func (p *paymentCommandsImpl) persist(ctx context.Context, entity *booking.Booking, expected booking.Status) error {
	updated, err := p.bookingRepo.Update(ctx, p.db, entity, expected)
	if err != nil {
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if updated {
		return nil
	}
	current, err := p.bookingRepo.FindByID(ctx, entity.ID())
	if err != nil {
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if current.Status() == entity.Status() {
		return nil
	}
	return ErrStateConflict
}

func (p *paymentCommandsImpl) persistWithEvent(ctx context.Context, entity *booking.Booking, expected booking.Status, topic string) error {
	tx, err := p.db.Begin(ctx)
	if err != nil {
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
	defer func() {
		if rollbackErr := tx.Rollback(ctx); rollbackErr != nil && !errors.Is(rollbackErr, pgx.ErrTxClosed) {
			slog.Warn("failed to rollback transaction", "error", rollbackErr)
		}
	}()

	updated, err := p.bookingRepo.Update(ctx, tx, entity, expected)
	if err != nil {
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if !updated {
		current, readErr := p.bookingRepo.FindByID(ctx, entity.ID())
		if readErr != nil {
			return errs.Mark(readErr, ErrDatabaseOperationFailed)
		}
		if current.Status() == entity.Status() {
			return nil
		}
		return ErrStateConflict
	}

	payload, err := marshalBookingEvent(entity.ID(), topic)
	if err != nil {
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if err := p.notificationRepo.CreateJob(ctx, tx, "email", topic, payload, p.clock.Now()); err != nil {
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}

	if err := tx.Commit(ctx); err != nil {
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return nil
}

func (p *paymentCommandsImpl) loadBooking(ctx context.Context, bookingID uuid.UUID) (*booking.Booking, error) {
	entity, err := p.bookingRepo.FindByID(ctx, bookingID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return entity, nil
}

func (p *paymentCommandsImpl) loadBookingByOrder(ctx context.Context, orderID string) (*booking.Booking, error) {
	entity, err := p.bookingRepo.FindByOrderID(ctx, orderID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return entity, nil
}
