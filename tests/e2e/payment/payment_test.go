//go:build e2e

package payment_test

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"testing"
	"time"

	"boxcric-api/internal/domain/user"
	reqdto "boxcric-api/internal/handler/dto/request"
	resdto "boxcric-api/internal/handler/dto/response"
	"boxcric-api/internal/usecase/queries"
	"boxcric-api/tests/common/dbtest"
	"boxcric-api/tests/common/httptest"
	"boxcric-api/tests/e2e"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

const (
	bookingsURL = "/api/bookings"
	webhookURL  = "/api/payments/webhook"
	loginURL    = "/api/auth/login"
)

type paymentSuite struct {
	e2e.SharedSuite
	groundID uuid.UUID
}

func TestPaymentSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(paymentSuite))
}

func (s *paymentSuite) SetupSubTest() {
	s.SharedSuite.SetupSubTest()

	ownerID := dbtest.CreateTestUser(s.T(), s.DB, "owner@example.com", string(user.RoleGroundOwner))
	locationID := dbtest.CreateTestLocation(s.T(), s.DB, "Mumbai", "Maharashtra")
	s.groundID = dbtest.CreateTestGround(s.T(), s.DB, ownerID, locationID, "Marine Drive Turf", 150000)
}

func (s *paymentSuite) loginAs(email string) string {
	dbtest.CreateTestUser(s.T(), s.DB, email, string(user.RoleUser))

	rec := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, loginURL,
		reqdto.LoginRequest{Email: email, Password: dbtest.TestUserPassword}, "")

	var authResp resdto.AuthResponse
	httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &authResp)
	return authResp.AccessToken
}

// pendingBookingWithOrder books a slot through the API and attaches a
// payment order id directly, standing in for the gateway round trip.
func (s *paymentSuite) pendingBookingWithOrder(token, orderID string) uuid.UUID {
	request := reqdto.CreateBookingRequest{
		GroundID:    s.groundID,
		BookedOn:    "2030-06-01",
		TimeSlot:    "18:00-19:00",
		PlayerCount: 10,
	}
	rec := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, bookingsURL, request, token)

	var view queries.BookingView
	httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &view)

	_, err := s.DB.Exec(context.Background(),
		"UPDATE bookings SET payment_order_id = $1, payment_session_id = 'sess_e2e' WHERE id = $2",
		orderID, view.ID)
	s.Require().NoError(err)

	return view.ID
}

func (s *paymentSuite) webhookBody(orderID, orderStatus, paymentStatus string) []byte {
	payload := map[string]any{
		"type": "PAYMENT_SUCCESS_WEBHOOK",
		"data": map[string]any{
			"order": map[string]any{
				"order_id":     orderID,
				"order_status": orderStatus,
			},
			"payment": map[string]any{
				"cf_payment_id":  json.Number("112233"),
				"payment_status": paymentStatus,
			},
		},
	}
	body, err := json.Marshal(payload)
	s.Require().NoError(err)
	return body
}

func (s *paymentSuite) signedHeaders(body []byte) map[string]string {
	timestamp := strconv.FormatInt(time.Now().Unix(), 10)

	mac := hmac.New(sha256.New, []byte(s.Config.Cashfree.WebhookSecret))
	mac.Write([]byte(timestamp))
	mac.Write(body)

	return map[string]string{
		"x-webhook-signature": base64.StdEncoding.EncodeToString(mac.Sum(nil)),
		"x-webhook-timestamp": timestamp,
	}
}

func (s *paymentSuite) postWebhook(body []byte) map[string]string {
	rec := httptest.PerformRawRequest(s.T(), s.Router, http.MethodPost, webhookURL, body, s.signedHeaders(body))
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

	var response map[string]string
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &response))
	return response
}

func (s *paymentSuite) fetchBooking(token string, id uuid.UUID) queries.BookingView {
	rec := httptest.PerformRequest(s.T(), s.Router, http.MethodGet,
		fmt.Sprintf("%s/%s", bookingsURL, id), nil, token)

	var view queries.BookingView
	httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &view)
	return view
}

func (s *paymentSuite) TestWebhookReconciliation() {
	s.Run("a PAID webhook confirms the booking", func() {
		token := s.loginAs("player@example.com")
		bookingID := s.pendingBookingWithOrder(token, "ord_e2e_paid")

		response := s.postWebhook(s.webhookBody("ord_e2e_paid", "PAID", "SUCCESS"))
		s.Equal("ok", response["status"])

		view := s.fetchBooking(token, bookingID)
		s.Equal("confirmed", view.Status)
		s.Equal("completed", view.Payment.Status)
		s.Require().NotNil(view.Confirmation)
		s.NotEmpty(view.Confirmation.Code)
		s.Equal("system", view.Confirmation.ConfirmedBy)

		// The settling event is kept verbatim for audit.
		var snapshot []byte
		s.Require().NoError(s.DB.QueryRow(context.Background(),
			"SELECT gateway_snapshot FROM bookings WHERE id = $1", bookingID).Scan(&snapshot))
		s.JSONEq(string(s.webhookBody("ord_e2e_paid", "PAID", "SUCCESS")), string(snapshot))
	})

	s.Run("replaying the same webhook changes nothing", func() {
		token := s.loginAs("player@example.com")
		bookingID := s.pendingBookingWithOrder(token, "ord_e2e_replay")
		body := s.webhookBody("ord_e2e_replay", "PAID", "SUCCESS")

		s.postWebhook(body)
		first := s.fetchBooking(token, bookingID)
		s.Require().NotNil(first.Confirmation)

		response := s.postWebhook(body)
		s.Equal("ok", response["status"])

		second := s.fetchBooking(token, bookingID)
		s.Equal(first.Confirmation.Code, second.Confirmation.Code)
		s.Equal("confirmed", second.Status)
	})

	s.Run("an EXPIRED webhook cancels the pending booking", func() {
		token := s.loginAs("player@example.com")
		bookingID := s.pendingBookingWithOrder(token, "ord_e2e_expired")

		response := s.postWebhook(s.webhookBody("ord_e2e_expired", "EXPIRED", ""))
		s.Equal("ok", response["status"])

		view := s.fetchBooking(token, bookingID)
		s.Equal("cancelled", view.Status)
		s.Require().NotNil(view.Cancellation)
	})

	s.Run("an unknown order is reported back as missing", func() {
		body := s.webhookBody("ord_never_created", "PAID", "SUCCESS")
		rec := httptest.PerformRawRequest(s.T(), s.Router, http.MethodPost, webhookURL, body, s.signedHeaders(body))
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "No booking found")
	})

	s.Run("a forged signature is rejected", func() {
		token := s.loginAs("player@example.com")
		bookingID := s.pendingBookingWithOrder(token, "ord_e2e_forged")
		body := s.webhookBody("ord_e2e_forged", "PAID", "SUCCESS")

		headers := s.signedHeaders(body)
		headers["x-webhook-signature"] = "Zm9yZ2VkLXNpZ25hdHVyZQ=="
		rec := httptest.PerformRawRequest(s.T(), s.Router, http.MethodPost, webhookURL, body, headers)
		s.Equal(http.StatusUnauthorized, rec.Code)

		view := s.fetchBooking(token, bookingID)
		s.Equal("pending", view.Status)
	})
}
