//go:build unit

package commands

import (
	"context"
	"strings"
	"testing"
	"time"

	"boxcric-api/internal/domain/booking"
	reqdto "boxcric-api/internal/handler/dto/request"
	"boxcric-api/internal/pkg/clock"
	"boxcric-api/internal/pkg/config"
	"boxcric-api/internal/pkg/errs"
	"boxcric-api/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func paymentTestNow() time.Time {
	return time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)
}

func pendingBooking(userID uuid.UUID, orderID string, amount int64) *booking.Booking {
	now := paymentTestNow()
	payment := booking.Payment{Status: booking.PaymentPending}
	if orderID != "" {
		payment.OrderID = orderID
		payment.SessionID = "session_" + orderID
	}
	return booking.Reconstruct(booking.ReconstructParams{
		ID:          uuid.New(),
		Code:        booking.NewBookingCode(now),
		UserID:      userID,
		GroundID:    uuid.New(),
		BookedOn:    now.AddDate(0, 0, 2),
		TimeSlot:    "06:00-07:00",
		Duration:    1,
		PlayerCount: 10,
		Amount:      amount,
		Status:      booking.StatusPending,
		Payment:     payment,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
}

func confirmedBooking(userID uuid.UUID, orderID string) *booking.Booking {
	b := pendingBooking(userID, orderID, 120000)
	if err := b.Confirm("cf_original", booking.ActorSystem, paymentTestNow()); err != nil {
		panic(err)
	}
	return b
}

type paymentEnv struct {
	repo *fakeBookingRepo
	jobs *fakeNotificationRepo
	gw   *fakeGateway
	pool *fakePool
	clk  *clock.MockClock
	cmd  *paymentCommandsImpl
}

func newPaymentEnv(userID uuid.UUID, entities ...*booking.Booking) *paymentEnv {
	repo := newFakeBookingRepo(entities...)
	jobs := &fakeNotificationRepo{}
	gw := &fakeGateway{}
	pool := &fakePool{}
	clk := clock.NewMockClock(paymentTestNow())
	cmd := &paymentCommandsImpl{
		bookingRepo:      repo,
		notificationRepo: jobs,
		bookingQueries:   &fakeBookingQueries{repo: repo},
		customers: &fakeCustomers{view: &queries.AuthorizedUserView{
			ID:    userID,
			Name:  "Asha Patel",
			Email: "asha@example.com",
			Phone: "+919876543210",
		}},
		gateway:   gw,
		db:        pool,
		clock:     clk,
		serverCfg: config.ServerConfig{Port: "3001", BaseURL: "http://localhost:3001"},
	}
	return &paymentEnv{repo: repo, jobs: jobs, gw: gw, pool: pool, clk: clk, cmd: cmd}
}

func TestPaymentCommands_CreateOrder(t *testing.T) {
	t.Parallel()

	t.Run("opens a gateway order and attaches it to the booking", func(t *testing.T) {
		userID := uuid.New()
		b := pendingBooking(userID, "", 120000)
		env := newPaymentEnv(userID, b)
		env.gw.createResp = &GatewayOrder{OrderID: "order_remote", PaymentSessionID: "session_abc", Status: GatewayStatusActive}

		res, err := env.cmd.CreateOrder(context.Background(), reqdto.CreateOrderRequest{BookingID: b.ID()}, userID)

		require.NoError(t, err)
		assert.Equal(t, "order_remote", res.OrderID)
		assert.Equal(t, "session_abc", res.PaymentSessionID)
		assert.Equal(t, int64(120000), res.Amount)
		assert.Equal(t, "INR", res.Currency)

		sent := env.gw.lastCreate
		assert.True(t, strings.HasPrefix(sent.OrderID, "order_"+b.ID().String()+"_"))
		assert.Equal(t, int64(120000), sent.Amount)
		assert.Equal(t, "asha@example.com", sent.CustomerEmail)
		assert.Equal(t, "http://localhost:3001/payment/result?order_id={order_id}", sent.ReturnURL)
		assert.Equal(t, "http://localhost:3001/api/payments/webhook", sent.NotifyURL)

		stored, err := env.repo.FindByID(context.Background(), b.ID())
		require.NoError(t, err)
		assert.Equal(t, "order_remote", stored.Payment().OrderID)
		assert.Equal(t, "session_abc", stored.Payment().SessionID)
		assert.Equal(t, booking.StatusPending, stored.Status())
	})

	t.Run("rejects another user's booking", func(t *testing.T) {
		userID := uuid.New()
		b := pendingBooking(userID, "", 120000)
		env := newPaymentEnv(userID, b)

		_, err := env.cmd.CreateOrder(context.Background(), reqdto.CreateOrderRequest{BookingID: b.ID()}, uuid.New())
		assert.ErrorIs(t, err, ErrNotOwner)
		assert.Zero(t, env.gw.lastCreate)
	})

	t.Run("rejects a booking whose payment is settled", func(t *testing.T) {
		userID := uuid.New()
		b := confirmedBooking(userID, "ord_settled")
		env := newPaymentEnv(userID, b)

		_, err := env.cmd.CreateOrder(context.Background(), reqdto.CreateOrderRequest{BookingID: b.ID()}, userID)
		assert.ErrorIs(t, err, ErrPaymentSettled)
	})

	t.Run("rejects amounts below the gateway minimum", func(t *testing.T) {
		userID := uuid.New()
		b := pendingBooking(userID, "", 50)
		env := newPaymentEnv(userID, b)

		_, err := env.cmd.CreateOrder(context.Background(), reqdto.CreateOrderRequest{BookingID: b.ID()}, userID)
		assert.ErrorIs(t, err, ErrAmountTooSmall)
	})

	t.Run("marks gateway failures", func(t *testing.T) {
		userID := uuid.New()
		b := pendingBooking(userID, "", 120000)
		env := newPaymentEnv(userID, b)
		env.gw.createErr = errs.New("connection refused")

		_, err := env.cmd.CreateOrder(context.Background(), reqdto.CreateOrderRequest{BookingID: b.ID()}, userID)
		assert.ErrorIs(t, err, ErrGatewayFailure)
	})

	t.Run("unknown booking", func(t *testing.T) {
		userID := uuid.New()
		env := newPaymentEnv(userID)

		_, err := env.cmd.CreateOrder(context.Background(), reqdto.CreateOrderRequest{BookingID: uuid.New()}, userID)
		assert.ErrorIs(t, err, ErrBookingNotFound)
	})
}

func TestPaymentCommands_VerifyPayment(t *testing.T) {
	t.Parallel()

	t.Run("PAID confirms the booking and queues a notification", func(t *testing.T) {
		userID := uuid.New()
		b := pendingBooking(userID, "ord1", 120000)
		env := newPaymentEnv(userID, b)
		env.gw.getResp = &GatewayOrder{OrderID: "ord1", Status: GatewayStatusPaid, TransactionID: "cf_123", Raw: []byte(`{"order_status":"PAID"}`)}

		res, err := env.cmd.VerifyPayment(context.Background(), reqdto.VerifyPaymentRequest{OrderID: "ord1"}, userID)

		require.NoError(t, err)
		assert.Equal(t, "completed", res.Status)
		assert.Equal(t, booking.StatusConfirmed.String(), res.Booking.Status)
		require.NotNil(t, res.Booking.Confirmation)
		assert.NotEmpty(t, res.Booking.Confirmation.Code)

		stored, err := env.repo.FindByID(context.Background(), b.ID())
		require.NoError(t, err)
		assert.Equal(t, booking.StatusConfirmed, stored.Status())
		assert.Equal(t, booking.PaymentCompleted, stored.Payment().Status)
		assert.Equal(t, "cf_123", stored.Payment().TransactionID)
		require.NotNil(t, stored.Confirmation())
		assert.Equal(t, booking.ActorSystem, stored.Confirmation().By)
		assert.JSONEq(t, `{"order_status":"PAID"}`, string(stored.GatewaySnapshot()))

		require.Len(t, env.jobs.jobs, 1)
		assert.Equal(t, "booking_confirmed", env.jobs.jobs[0].topic)
		require.NotNil(t, env.pool.lastTx)
		assert.True(t, env.pool.lastTx.committed)
	})

	t.Run("replayed PAID is a no-op", func(t *testing.T) {
		userID := uuid.New()
		b := confirmedBooking(userID, "ord1")
		env := newPaymentEnv(userID, b)
		env.gw.getResp = &GatewayOrder{OrderID: "ord1", Status: GatewayStatusPaid, TransactionID: "cf_123", Raw: []byte(`{"replay":true}`)}

		res, err := env.cmd.VerifyPayment(context.Background(), reqdto.VerifyPaymentRequest{OrderID: "ord1"}, userID)

		require.NoError(t, err)
		assert.Equal(t, "completed", res.Status)
		assert.Equal(t, 0, env.repo.updateCalls)
		assert.Empty(t, env.jobs.jobs)

		// The original confirmation survives the replay, and the replayed
		// payload never overwrites the settling snapshot.
		stored, err := env.repo.FindByID(context.Background(), b.ID())
		require.NoError(t, err)
		assert.Equal(t, "cf_original", stored.Payment().TransactionID)
		assert.Empty(t, stored.GatewaySnapshot())
	})

	t.Run("ACTIVE leaves the booking pending", func(t *testing.T) {
		userID := uuid.New()
		b := pendingBooking(userID, "ord1", 120000)
		env := newPaymentEnv(userID, b)
		env.gw.getResp = &GatewayOrder{OrderID: "ord1", Status: GatewayStatusActive}

		res, err := env.cmd.VerifyPayment(context.Background(), reqdto.VerifyPaymentRequest{OrderID: "ord1"}, userID)

		require.NoError(t, err)
		assert.Equal(t, "pending", res.Status)
		assert.Equal(t, 0, env.repo.updateCalls)

		stored, err := env.repo.FindByID(context.Background(), b.ID())
		require.NoError(t, err)
		assert.Equal(t, booking.StatusPending, stored.Status())
	})

	t.Run("EXPIRED cancels the booking", func(t *testing.T) {
		userID := uuid.New()
		b := pendingBooking(userID, "ord1", 120000)
		env := newPaymentEnv(userID, b)
		env.gw.getResp = &GatewayOrder{OrderID: "ord1", Status: GatewayStatusExpired}

		res, err := env.cmd.VerifyPayment(context.Background(), reqdto.VerifyPaymentRequest{OrderID: "ord1"}, userID)

		require.NoError(t, err)
		assert.Equal(t, "failed", res.Status)

		stored, err := env.repo.FindByID(context.Background(), b.ID())
		require.NoError(t, err)
		assert.Equal(t, booking.StatusCancelled, stored.Status())
		assert.Equal(t, booking.PaymentFailed, stored.Payment().Status)
		require.NotNil(t, stored.Cancellation())
		assert.Equal(t, booking.CancelReasonPaymentExpired, stored.Cancellation().Reason)
		assert.Equal(t, booking.ActorSystem, stored.Cancellation().By)

		require.Len(t, env.jobs.jobs, 1)
		assert.Equal(t, "booking_cancelled", env.jobs.jobs[0].topic)
	})

	t.Run("EXPIRED on a confirmed booking is a conflict", func(t *testing.T) {
		userID := uuid.New()
		b := confirmedBooking(userID, "ord1")
		env := newPaymentEnv(userID, b)
		env.gw.getResp = &GatewayOrder{OrderID: "ord1", Status: GatewayStatusExpired}

		_, err := env.cmd.VerifyPayment(context.Background(), reqdto.VerifyPaymentRequest{OrderID: "ord1"}, userID)
		assert.ErrorIs(t, err, ErrStateConflict)
	})

	t.Run("unrecognized gateway status", func(t *testing.T) {
		userID := uuid.New()
		b := pendingBooking(userID, "ord1", 120000)
		env := newPaymentEnv(userID, b)
		env.gw.getResp = &GatewayOrder{OrderID: "ord1", Status: "TERMINATED"}

		_, err := env.cmd.VerifyPayment(context.Background(), reqdto.VerifyPaymentRequest{OrderID: "ord1"}, userID)
		assert.ErrorIs(t, err, ErrUnknownGwStatus)
	})

	t.Run("rejects another user's order", func(t *testing.T) {
		userID := uuid.New()
		b := pendingBooking(userID, "ord1", 120000)
		env := newPaymentEnv(userID, b)

		_, err := env.cmd.VerifyPayment(context.Background(), reqdto.VerifyPaymentRequest{OrderID: "ord1"}, uuid.New())
		assert.ErrorIs(t, err, ErrNotOwner)
	})

	t.Run("unknown order", func(t *testing.T) {
		userID := uuid.New()
		env := newPaymentEnv(userID)

		_, err := env.cmd.VerifyPayment(context.Background(), reqdto.VerifyPaymentRequest{OrderID: "nope"}, userID)
		assert.ErrorIs(t, err, ErrOrderNotFound)
	})
}

func TestPaymentCommands_RecordFailure(t *testing.T) {
	t.Parallel()

	t.Run("cancels with the default reason", func(t *testing.T) {
		userID := uuid.New()
		b := pendingBooking(userID, "ord1", 120000)
		env := newPaymentEnv(userID, b)

		res, err := env.cmd.RecordFailure(context.Background(), reqdto.PaymentFailureRequest{OrderID: "ord1"}, userID)

		require.NoError(t, err)
		assert.Equal(t, "failed", res.Status)

		stored, err := env.repo.FindByID(context.Background(), b.ID())
		require.NoError(t, err)
		assert.Equal(t, booking.StatusCancelled, stored.Status())
		require.NotNil(t, stored.Cancellation())
		assert.Equal(t, booking.CancelReasonPaymentFailed, stored.Cancellation().Reason)
		assert.Equal(t, booking.ActorUser, stored.Cancellation().By)
	})

	t.Run("keeps the reported reason", func(t *testing.T) {
		userID := uuid.New()
		b := pendingBooking(userID, "ord1", 120000)
		env := newPaymentEnv(userID, b)

		_, err := env.cmd.RecordFailure(context.Background(), reqdto.PaymentFailureRequest{OrderID: "ord1", Reason: "card declined"}, userID)

		require.NoError(t, err)
		stored, err := env.repo.FindByID(context.Background(), b.ID())
		require.NoError(t, err)
		assert.Equal(t, "card declined", stored.Payment().FailureReason)
	})

	t.Run("repeated report does not rewrite the cancellation", func(t *testing.T) {
		userID := uuid.New()
		b := pendingBooking(userID, "ord1", 120000)
		require.NoError(t, b.FailPayment("card declined", booking.ActorUser, paymentTestNow()))
		env := newPaymentEnv(userID, b)

		res, err := env.cmd.RecordFailure(context.Background(), reqdto.PaymentFailureRequest{OrderID: "ord1"}, userID)

		require.NoError(t, err)
		assert.Equal(t, "failed", res.Status)
		assert.Equal(t, 0, env.repo.updateCalls)
	})

	t.Run("confirmed booking cannot be failed", func(t *testing.T) {
		userID := uuid.New()
		b := confirmedBooking(userID, "ord1")
		env := newPaymentEnv(userID, b)

		_, err := env.cmd.RecordFailure(context.Background(), reqdto.PaymentFailureRequest{OrderID: "ord1"}, userID)
		assert.ErrorIs(t, err, ErrStateConflict)
	})
}

func TestPaymentCommands_ReconcileWebhook(t *testing.T) {
	t.Parallel()

	t.Run("applies the gateway status", func(t *testing.T) {
		userID := uuid.New()
		b := pendingBooking(userID, "ord1", 120000)
		env := newPaymentEnv(userID, b)

		event := []byte(`{"data":{"order":{"order_id":"ord1","order_status":"PAID"}}}`)
		err := env.cmd.ReconcileWebhook(context.Background(), "ord1", GatewayStatusPaid, "cf_777", event)

		require.NoError(t, err)
		stored, err := env.repo.FindByID(context.Background(), b.ID())
		require.NoError(t, err)
		assert.Equal(t, booking.StatusConfirmed, stored.Status())
		assert.Equal(t, "cf_777", stored.Payment().TransactionID)
		require.NotNil(t, stored.Confirmation())
		assert.Equal(t, booking.ActorSystem, stored.Confirmation().By)
		assert.Equal(t, event, stored.GatewaySnapshot())
	})

	t.Run("unknown order", func(t *testing.T) {
		env := newPaymentEnv(uuid.New())

		err := env.cmd.ReconcileWebhook(context.Background(), "nope", GatewayStatusPaid, "cf_777", nil)
		assert.ErrorIs(t, err, ErrOrderNotFound)
	})
}

// A missed update guard means a concurrent writer transitioned the row
// first. If it landed on the same status the work is already done.
func TestPaymentCommands_GuardMiss(t *testing.T) {
	t.Parallel()

	guardMiss := false

	t.Run("concurrent writer reached the same status", func(t *testing.T) {
		userID := uuid.New()
		stored := confirmedBooking(userID, "ord1")
		env := newPaymentEnv(userID, stored)
		env.repo.forceGuard = &guardMiss

		mine := cloneBooking(stored)
		err := env.cmd.persist(context.Background(), mine, booking.StatusPending)
		assert.NoError(t, err)
	})

	t.Run("concurrent writer disagrees", func(t *testing.T) {
		userID := uuid.New()
		stored := pendingBooking(userID, "ord1", 120000)
		mine := cloneBooking(stored)
		require.NoError(t, stored.FailPayment(booking.CancelReasonPaymentFailed, booking.ActorSystem, paymentTestNow()))
		env := newPaymentEnv(userID, stored)
		env.repo.forceGuard = &guardMiss

		require.NoError(t, mine.Confirm("cf_123", booking.ActorSystem, paymentTestNow()))
		err := env.cmd.persist(context.Background(), mine, booking.StatusPending)
		assert.ErrorIs(t, err, ErrStateConflict)
	})

	t.Run("transactional path rolls back and skips the notification", func(t *testing.T) {
		userID := uuid.New()
		stored := confirmedBooking(userID, "ord1")
		env := newPaymentEnv(userID, stored)
		env.repo.forceGuard = &guardMiss

		mine := cloneBooking(stored)
		err := env.cmd.persistWithEvent(context.Background(), mine, booking.StatusPending, "booking_confirmed")

		assert.NoError(t, err)
		assert.Empty(t, env.jobs.jobs)
		require.NotNil(t, env.pool.lastTx)
		assert.True(t, env.pool.lastTx.rolledBack)
	})
}
