package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"boxcric-api/internal/domain/user"
	"boxcric-api/internal/handler/api"
	"boxcric-api/internal/handler/middleware"
	"boxcric-api/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

func NewRouter(
	engine *gin.Engine,
	cfg config.Config,
	pool *pgxpool.Pool,
	authHandler *api.AuthHandler,
	groundHandler *api.GroundHandler,
	bookingHandler *api.BookingHandler,
	paymentHandler *api.PaymentHandler,
	locationHandler *api.LocationHandler,
	adminHandler *api.AdminHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	setupMiddleware(engine, cfg)
	setupRoutes(engine, pool, authHandler, groundHandler, bookingHandler, paymentHandler, locationHandler, adminHandler, authMiddleware)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.LoggingMiddleware(nil, cfg.Log))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(
	engine *gin.Engine,
	pool *pgxpool.Pool,
	authHandler *api.AuthHandler,
	groundHandler *api.GroundHandler,
	bookingHandler *api.BookingHandler,
	paymentHandler *api.PaymentHandler,
	locationHandler *api.LocationHandler,
	adminHandler *api.AdminHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	engine.GET("/health", healthCheck(pool))

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	apiGroup := engine.Group("/api")
	{
		auth := apiGroup.Group("/auth")
		{
			addRoutes(auth, []route{
				{Method: http.MethodPost, Path: "/register", Handler: authHandler.Register},
				{Method: http.MethodPost, Path: "/verify-registration", Handler: authHandler.VerifyRegistration},
				{Method: http.MethodPost, Path: "/login", Handler: authHandler.Login},
			})

			authRequired := auth.Group("")
			authRequired.Use(authMiddleware.RequireAuth())
			addRoutes(authRequired, []route{
				{Method: http.MethodGet, Path: "/me", Handler: authHandler.Me},
			})
		}

		addRoutes(apiGroup, []route{
			{Method: http.MethodGet, Path: "/locations", Handler: locationHandler.List},
		})

		grounds := apiGroup.Group("/grounds")
		{
			addRoutes(grounds, []route{
				{Method: http.MethodGet, Path: "", Handler: groundHandler.List},
				{Method: http.MethodGet, Path: "/:id", Handler: groundHandler.Get},
				{Method: http.MethodGet, Path: "/:id/availability", Handler: groundHandler.Availability},
			})

			// Any authenticated user can list their own grounds or create
			// one; ownership checks on updates live in the usecase.
			owners := grounds.Group("")
			owners.Use(authMiddleware.RequireAuth())
			addRoutes(owners, []route{
				{Method: http.MethodPost, Path: "", Handler: groundHandler.Create},
				{Method: http.MethodGet, Path: "/mine", Handler: groundHandler.ListMine},
				{Method: http.MethodPut, Path: "/:id", Handler: groundHandler.Update},
				{Method: http.MethodDelete, Path: "/:id", Handler: groundHandler.Deactivate},
			})
		}

		bookings := apiGroup.Group("/bookings")
		bookings.Use(authMiddleware.RequireAuth())
		{
			addRoutes(bookings, []route{
				{Method: http.MethodPost, Path: "", Handler: bookingHandler.Create},
				{Method: http.MethodGet, Path: "", Handler: bookingHandler.List},
				{Method: http.MethodGet, Path: "/:id", Handler: bookingHandler.Get},
				{Method: http.MethodPost, Path: "/:id/cancel", Handler: bookingHandler.Cancel},
			})
		}

		payments := apiGroup.Group("/payments")
		{
			// Webhook authenticates by signature, not by user token
			addRoutes(payments, []route{
				{Method: http.MethodPost, Path: "/webhook", Handler: paymentHandler.Webhook},
			})

			paymentsAuth := payments.Group("")
			paymentsAuth.Use(authMiddleware.RequireAuth())
			addRoutes(paymentsAuth, []route{
				{Method: http.MethodPost, Path: "/orders", Handler: paymentHandler.CreateOrder},
				{Method: http.MethodPost, Path: "/verify", Handler: paymentHandler.Verify},
				{Method: http.MethodPost, Path: "/failure", Handler: paymentHandler.RecordFailure},
			})
		}

		admin := apiGroup.Group("/admin")
		admin.Use(authMiddleware.RequireAuth(), authMiddleware.RequireRoleAtLeast(user.RoleAdmin))
		{
			addRoutes(admin, []route{
				{Method: http.MethodGet, Path: "/bookings", Handler: adminHandler.ListBookings},
				{Method: http.MethodPatch, Path: "/bookings/:id/status", Handler: adminHandler.OverrideBookingStatus},
			})
		}
	}
}

// @Summary Health check
// @Description Check if the service and its database are healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /health [get]
func healthCheck(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := pool.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "degraded",
				"database": "down",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "ok",
			"database": "up",
		})
	}
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
