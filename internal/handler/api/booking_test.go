//go:build unit

package api_test

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"boxcric-api/internal/domain/user"
	"boxcric-api/internal/handler/api"
	reqdto "boxcric-api/internal/handler/dto/request"
	"boxcric-api/internal/usecase/commands"
	"boxcric-api/internal/usecase/queries"
	"boxcric-api/tests/common/httptest"
	"boxcric-api/tests/common/testutil"
	commandsmock "boxcric-api/tests/mock/commands"
	queriesmock "boxcric-api/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type BookingHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockBookingCommands
	mockQueries  *queriesmock.MockBookingQueries
	handler      *api.BookingHandler
	userID       uuid.UUID
	groundID     uuid.UUID
}

func (s *BookingHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockBookingCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockBookingQueries(s.mockCtrl)
	s.handler = api.NewBookingHandler(s.mockCommands, s.mockQueries)
	s.userID = uuid.New()
	s.groundID = uuid.New()

	// Mock middleware behavior: a bearer token authenticates as s.userID
	authed := func(h gin.HandlerFunc) gin.HandlerFunc {
		return func(c *gin.Context) {
			if c.GetHeader("Authorization") != "" {
				c.Set("user_id", s.userID)
				c.Set("user_role", user.RoleUser)
			}
			h(c)
		}
	}

	s.router.POST("/bookings", authed(s.handler.Create))
	s.router.GET("/bookings", authed(s.handler.List))
	s.router.GET("/bookings/:id", authed(s.handler.Get))
	s.router.POST("/bookings/:id/cancel", authed(s.handler.Cancel))
}

func (s *BookingHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestBookingHandlerSuite(t *testing.T) {
	suite.Run(t, new(BookingHandlerTestSuite))
}

func (s *BookingHandlerTestSuite) validCreateRequest() reqdto.CreateBookingRequest {
	return reqdto.CreateBookingRequest{
		GroundID:    s.groundID,
		BookedOn:    "2025-06-01",
		TimeSlot:    "18:00-19:00",
		PlayerCount: 10,
	}
}

func (s *BookingHandlerTestSuite) bookingView(id uuid.UUID, status string) *queries.BookingView {
	return &queries.BookingView{
		ID:         id,
		Code:       "BCK-TEST01",
		UserID:     s.userID,
		GroundID:   s.groundID,
		GroundName: "Marine Drive Turf",
		BookedOn:   time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		TimeSlot:   "18:00-19:00",
		Amount:     150000,
		Status:     status,
	}
}

func (s *BookingHandlerTestSuite) TestCreate() {
	url := "/bookings"
	reqBody := s.validCreateRequest()

	s.Run("success: returns 201 with the pending booking", func() {
		view := s.bookingView(uuid.New(), "pending")
		s.mockCommands.EXPECT().CreateBooking(gomock.Any(), reqBody, s.userID).
			Return(view, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")

		var response queries.BookingView
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &response)
		s.Equal(view.Code, response.Code)
		s.Equal("pending", response.Status)
	})

	s.Run("error: 401 without authentication", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "not authenticated")
	})

	s.Run("error: 400 on malformed body", func() {
		testCases := []struct {
			name   string
			mutate func(m map[string]any)
		}{
			{name: "missing ground", mutate: testutil.Field("ground_id", nil)},
			{name: "missing date", mutate: testutil.Field("booked_on", nil)},
			{name: "missing slot", mutate: testutil.Field("time_slot", nil)},
		}
		for _, tc := range testCases {
			s.Run(tc.name, func() {
				requestMap := testutil.DtoMap(s.T(), reqBody, tc.mutate)
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, requestMap, "bearer-token")
				httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "")
			})
		}
	})

	s.Run("error: maps usecase errors to proper statuses", func() {
		testCases := []struct {
			name           string
			commandsError  error
			expectedStatus int
			expectedMsg    string
		}{
			{
				name:           "unknown ground",
				commandsError:  commands.ErrGroundNotFound,
				expectedStatus: http.StatusNotFound,
				expectedMsg:    "Ground not found",
			},
			{
				name:           "deactivated ground",
				commandsError:  commands.ErrGroundInactive,
				expectedStatus: http.StatusBadRequest,
				expectedMsg:    "not accepting bookings",
			},
			{
				name:           "slot the ground does not offer",
				commandsError:  commands.ErrInvalidSlot,
				expectedStatus: http.StatusBadRequest,
				expectedMsg:    "time slot",
			},
			{
				name:           "slot already held",
				commandsError:  commands.ErrSlotTaken,
				expectedStatus: http.StatusConflict,
				expectedMsg:    "already booked",
			},
			{
				name:           "rejected booking data",
				commandsError:  commands.ErrDomainValidation,
				expectedStatus: http.StatusBadRequest,
				expectedMsg:    "Invalid booking data",
			},
			{
				name:           "internal server error",
				commandsError:  errors.New("database error"),
				expectedStatus: http.StatusInternalServerError,
				expectedMsg:    "Internal server error",
			},
		}
		for _, tc := range testCases {
			s.Run(tc.name, func() {
				s.mockCommands.EXPECT().CreateBooking(gomock.Any(), reqBody, s.userID).
					Return(nil, tc.commandsError).Times(1)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")
				httptest.AssertErrorResponse(s.T(), rec, tc.expectedStatus, tc.expectedMsg)
			})
		}
	})
}

func (s *BookingHandlerTestSuite) TestList() {
	url := "/bookings"

	s.Run("success: returns the caller's bookings", func() {
		items := []*queries.BookingListItem{
			{ID: uuid.New(), Code: "BCK-AAA111", GroundName: "Marine Drive Turf", TimeSlot: "18:00-19:00", Amount: 150000},
		}
		s.mockQueries.EXPECT().ListByUser(gomock.Any(), s.userID, 50, 0).
			Return(items, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")

		var response struct {
			Bookings []*queries.BookingListItem `json:"bookings"`
		}
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Len(response.Bookings, 1)
		s.Equal("BCK-AAA111", response.Bookings[0].Code)
	})

	s.Run("error: 401 without authentication", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "not authenticated")
	})
}

func (s *BookingHandlerTestSuite) TestGet() {
	bookingID := uuid.New()
	url := "/bookings/" + bookingID.String()

	s.Run("success: returns the booking", func() {
		view := s.bookingView(bookingID, "confirmed")
		s.mockQueries.EXPECT().GetByID(gomock.Any(), s.userID, false, bookingID).
			Return(view, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")

		var response queries.BookingView
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal(bookingID, response.ID)
		s.Equal("confirmed", response.Status)
	})

	s.Run("error: 400 on malformed id", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/bookings/not-a-uuid", nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid booking ID")
	})

	s.Run("error: 403 for someone else's booking", func() {
		s.mockQueries.EXPECT().GetByID(gomock.Any(), s.userID, false, bookingID).
			Return(nil, queries.ErrBookingAccessDenied).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusForbidden, "another user")
	})

	s.Run("error: 404 when missing", func() {
		s.mockQueries.EXPECT().GetByID(gomock.Any(), s.userID, false, bookingID).
			Return(nil, errors.New("no rows")).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Booking not found")
	})
}

func (s *BookingHandlerTestSuite) TestCancel() {
	bookingID := uuid.New()
	url := "/bookings/" + bookingID.String() + "/cancel"

	s.Run("success: returns the cancelled booking", func() {
		view := s.bookingView(bookingID, "cancelled")
		s.mockCommands.EXPECT().CancelBooking(gomock.Any(), bookingID, s.userID).
			Return(view, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "bearer-token")

		var response queries.BookingView
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal("cancelled", response.Status)
	})

	s.Run("error: maps usecase errors to proper statuses", func() {
		testCases := []struct {
			name           string
			commandsError  error
			expectedStatus int
			expectedMsg    string
		}{
			{
				name:           "unknown booking",
				commandsError:  commands.ErrBookingNotFound,
				expectedStatus: http.StatusNotFound,
				expectedMsg:    "Booking not found",
			},
			{
				name:           "someone else's booking",
				commandsError:  commands.ErrNotOwner,
				expectedStatus: http.StatusForbidden,
				expectedMsg:    "another user",
			},
			{
				name:           "already cancelled",
				commandsError:  commands.ErrAlreadyCancelled,
				expectedStatus: http.StatusConflict,
				expectedMsg:    "already cancelled",
			},
			{
				name:           "completed booking",
				commandsError:  commands.ErrStateConflict,
				expectedStatus: http.StatusConflict,
				expectedMsg:    "current state",
			},
			{
				name:           "internal server error",
				commandsError:  errors.New("database error"),
				expectedStatus: http.StatusInternalServerError,
				expectedMsg:    "Internal server error",
			},
		}
		for _, tc := range testCases {
			s.Run(tc.name, func() {
				s.mockCommands.EXPECT().CancelBooking(gomock.Any(), bookingID, s.userID).
					Return(nil, tc.commandsError).Times(1)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "bearer-token")
				httptest.AssertErrorResponse(s.T(), rec, tc.expectedStatus, tc.expectedMsg)
			})
		}
	})
}
