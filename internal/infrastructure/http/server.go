package http

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	handlers "github.com/wekeepgrowing/payments-gateway/internal/adapter/handler/http"
	"github.com/wekeepgrowing/payments-gateway/internal/config"
	"github.com/wekeepgrowing/payments-gateway/internal/middleware/auth"
	"github.com/wekeepgrowing/payments-gateway/internal/usecase"
	"github.com/wekeepgrowing/payments-gateway/pkg/logger"
)

type Server struct {
	config  *config.Config
	logger  *zap.Logger
	echo    *echo.Echo
	gateway usecase.PaymentsGateway
}

func NewServer(cfg *config.Config, log *zap.Logger, gateway usecase.PaymentsGateway) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handlers.NewRequestValidator()

	logger.WithEchoLogger(e, log)
	e.Use(middleware.Recover())
	e.Use(logger.NewEchoRequestLogger(log))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete},
	}))

	s := &Server{
		config:  cfg,
		logger:  log,
		echo:    e,
		gateway: gateway,
	}
	s.setupRoutes()
	return s
}

// Handler exposes the router for in-process use.
func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) Start() error {
	addr := s.config.Server.HTTP.Address()
	s.logger.Info("Starting HTTP server", zap.String("address", addr))

	if err := s.echo.Start(addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) setupRoutes() {
	s.echo.GET("/health", func(c echo.Context) error {
		status := "healthy"
		if len(s.config.Stripe.MissingKeys()) > 0 {
			status = "degraded"
		}
		return c.JSON(http.StatusOK, map[string]string{
			"status":  status,
			"service": s.config.Service.Name,
		})
	})

	admin := auth.JWTMiddleware(auth.JWTConfig{
		Secret:       s.config.JWT.Secret,
		Logger:       s.logger,
		RequiredRole: s.config.JWT.AdminRole,
	})
	handlers.RegisterRoutes(s.echo, s.gateway, admin, s.logger)
}
