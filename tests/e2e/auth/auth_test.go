//go:build e2e

package auth_test

import (
	"context"
	"net/http"
	"testing"

	"boxcric-api/internal/domain/user"
	reqdto "boxcric-api/internal/handler/dto/request"
	resdto "boxcric-api/internal/handler/dto/response"
	"boxcric-api/internal/usecase/queries"
	"boxcric-api/tests/common/dbtest"
	"boxcric-api/tests/common/httptest"
	"boxcric-api/tests/e2e"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	registerURL = "/api/auth/register"
	verifyURL   = "/api/auth/verify-registration"
	loginURL    = "/api/auth/login"
	meURL       = "/api/auth/me"
)

type authSuite struct {
	e2e.SharedSuite
}

func TestAuthSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(authSuite))
}

// latestOTP fetches the newest unused registration code straight from the
// database, standing in for the email the user would normally receive.
func (s *authSuite) latestOTP(email string) string {
	var code string
	err := s.DB.QueryRow(context.Background(),
		"SELECT code FROM otps WHERE email = $1 AND purpose = 'registration' AND used = FALSE ORDER BY created_at DESC LIMIT 1",
		email).Scan(&code)
	require.NoError(s.T(), err)
	return code
}

func (s *authSuite) register(email string) resdto.RegisterResponse {
	reqBody := reqdto.RegisterRequest{
		Name:     "Asha Patel",
		Email:    email,
		Phone:    "+919876543210",
		Password: "secret123",
	}
	rec := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, registerURL, reqBody, "")

	var response resdto.RegisterResponse
	httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
	return response
}

func (s *authSuite) TestRegistrationFlow() {
	s.Run("full flow: register, verify, login, me", func() {
		email := "asha@example.com"
		registered := s.register(email)
		s.NotEmpty(registered.TempToken)
		s.Equal(email, registered.Email)

		// No account exists until the code is verified
		var count int
		err := s.DB.QueryRow(context.Background(), "SELECT count(*) FROM users WHERE email = $1", email).Scan(&count)
		s.Require().NoError(err)
		s.Equal(0, count)

		code := s.latestOTP(email)
		verifyBody := reqdto.VerifyRegistrationRequest{TempToken: registered.TempToken, OTP: code}
		rec := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, verifyURL, verifyBody, "")

		var authResp resdto.AuthResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &authResp)
		s.NotEmpty(authResp.AccessToken)
		s.Equal(email, authResp.User.Email)
		s.Equal(string(user.RoleUser), authResp.User.Role)

		loginBody := reqdto.LoginRequest{Email: email, Password: "secret123"}
		rec = httptest.PerformRequest(s.T(), s.Router, http.MethodPost, loginURL, loginBody, "")

		var loginResp resdto.AuthResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &loginResp)
		s.NotEmpty(loginResp.AccessToken)

		rec = httptest.PerformRequest(s.T(), s.Router, http.MethodGet, meURL, nil, loginResp.AccessToken)

		var me queries.AuthorizedUserView
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &me)
		s.Equal(email, me.Email)
	})

	s.Run("wrong code is rejected and the right one still works", func() {
		email := "vikram@example.com"
		registered := s.register(email)
		code := s.latestOTP(email)

		wrong := "000000"
		if wrong == code {
			wrong = "000001"
		}
		rec := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, verifyURL,
			reqdto.VerifyRegistrationRequest{TempToken: registered.TempToken, OTP: wrong}, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "verification code")

		rec = httptest.PerformRequest(s.T(), s.Router, http.MethodPost, verifyURL,
			reqdto.VerifyRegistrationRequest{TempToken: registered.TempToken, OTP: code}, "")

		var authResp resdto.AuthResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &authResp)
		s.NotEmpty(authResp.AccessToken)
	})

	s.Run("used code cannot be replayed", func() {
		email := "replay@example.com"
		registered := s.register(email)
		code := s.latestOTP(email)

		rec := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, verifyURL,
			reqdto.VerifyRegistrationRequest{TempToken: registered.TempToken, OTP: code}, "")
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, nil)

		rec = httptest.PerformRequest(s.T(), s.Router, http.MethodPost, verifyURL,
			reqdto.VerifyRegistrationRequest{TempToken: registered.TempToken, OTP: code}, "")
		s.Require().NotEqual(http.StatusCreated, rec.Code)
	})

	s.Run("registering an existing email is rejected", func() {
		email := "taken@example.com"
		dbtest.CreateTestUser(s.T(), s.DB, email, string(user.RoleUser))

		reqBody := reqdto.RegisterRequest{
			Name:     "Someone Else",
			Email:    email,
			Phone:    "+919876500000",
			Password: "secret123",
		}
		rec := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, registerURL, reqBody, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "already exists")
	})

	s.Run("registering an existing phone is rejected", func() {
		dbtest.CreateTestUser(s.T(), s.DB, "original@example.com", string(user.RoleUser))

		var phone string
		err := s.DB.QueryRow(context.Background(),
			"SELECT phone FROM users WHERE email = $1", "original@example.com").Scan(&phone)
		s.Require().NoError(err)

		reqBody := reqdto.RegisterRequest{
			Name:     "Someone Else",
			Email:    "fresh@example.com",
			Phone:    phone,
			Password: "secret123",
		}
		rec := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, registerURL, reqBody, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "already exists")
	})
}

func (s *authSuite) TestLogin() {
	s.Run("valid credentials", func() {
		email := "login@example.com"
		dbtest.CreateTestUser(s.T(), s.DB, email, string(user.RoleUser))

		rec := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, loginURL,
			reqdto.LoginRequest{Email: email, Password: dbtest.TestUserPassword}, "")

		var authResp resdto.AuthResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &authResp)
		s.NotEmpty(authResp.AccessToken)
	})

	s.Run("wrong password", func() {
		email := "login@example.com"
		dbtest.CreateTestUser(s.T(), s.DB, email, string(user.RoleUser))

		rec := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, loginURL,
			reqdto.LoginRequest{Email: email, Password: "wrong-password"}, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Invalid email or password")
	})

	s.Run("unknown user", func() {
		rec := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, loginURL,
			reqdto.LoginRequest{Email: "ghost@example.com", Password: dbtest.TestUserPassword}, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Invalid email or password")
	})

	s.Run("me requires a token", func() {
		rec := httptest.PerformRequest(s.T(), s.Router, http.MethodGet, meURL, nil, "")
		s.Equal(http.StatusUnauthorized, rec.Code)
	})
}

func (s *authSuite) TestHealth() {
	s.Run("reports the database reachable", func() {
		rec := httptest.PerformRequest(s.T(), s.Router, http.MethodGet, "/health", nil, "")

		var response map[string]string
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal("ok", response["status"])
		s.Equal("up", response["database"])
	})
}
