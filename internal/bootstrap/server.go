package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/dkurenkov/eventease/api"
	"github.com/dkurenkov/eventease/config"
	"github.com/dkurenkov/eventease/internal/clock"
	"github.com/dkurenkov/eventease/internal/relay"
	"github.com/dkurenkov/eventease/internal/repository"
	"github.com/dkurenkov/eventease/internal/service/auth"
	"github.com/dkurenkov/eventease/internal/service/booking"
	"github.com/dkurenkov/eventease/internal/service/events"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Services bundles everything the HTTP surface needs.
type Services struct {
	Auth     auth.AuthUseCase
	Events   events.EventUseCase
	Bookings booking.BookingUseCase
	Users    repository.UserRepository
	Hub      *relay.Hub
	Clock    clock.Clock
}

// Run serves the API and blocks until the context is canceled or the server
// fails.
func Run(ctx context.Context, cfg *config.Config, svcs Services) error {
	srv := &http.Server{
		Addr:              cfg.HTTP.Address,
		Handler:           NewRouter(cfg, svcs),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}

// NewRouter assembles the gin engine with middleware and all route groups.
func NewRouter(cfg *config.Config, svcs Services) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	if len(cfg.HTTP.AllowedOrigins) > 0 {
		corsCfg := cors.DefaultConfig()
		corsCfg.AllowOrigins = cfg.HTTP.AllowedOrigins
		corsCfg.AllowCredentials = true
		corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
		router.Use(cors.New(corsCfg))
	}

	authHandler := api.NewAuthHandler(svcs.Auth)
	eventHandler := api.NewEventHandler(svcs.Events, svcs.Hub, svcs.Clock)
	bookingHandler := api.NewBookingHandler(svcs.Bookings, svcs.Clock)
	adminHandler := api.NewAdminHandler(svcs.Events, svcs.Clock)

	requireAuth := api.RequireAuth(svcs.Auth, svcs.Users)

	root := router.Group("/api")

	root.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK", "message": "EventEase API is running"})
	})

	authHandler.Register(root.Group("/auth"))
	eventHandler.Register(root.Group("/events"))
	eventHandler.RegisterStream(root)

	bookings := root.Group("/bookings")
	bookings.Use(requireAuth)
	bookingHandler.Register(bookings)

	admin := root.Group("/admin")
	admin.Use(requireAuth, api.RequireAdmin())
	adminHandler.Register(admin)

	return router
}
