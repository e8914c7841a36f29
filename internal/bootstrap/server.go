package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Domenick1991/flightwizard/api"
	"github.com/Domenick1991/flightwizard/config"
	"github.com/Domenick1991/flightwizard/internal/repository"
	"github.com/Domenick1991/flightwizard/internal/service/flights"
	"github.com/Domenick1991/flightwizard/internal/service/session"
	"github.com/gin-gonic/gin"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Run starts the HTTP server and blocks until the context is canceled or the
// server fails.
func Run(ctx context.Context, cfg *config.Config, flightSvc flights.FlightUseCase, sessionSvc session.SessionUseCase, records repository.RecordRepository) error {
	router := newRouter(cfg, flightSvc, sessionSvc, records)

	srv := &http.Server{
		Addr:    cfg.HTTP.Address,
		Handler: router,
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

func newRouter(cfg *config.Config, flightSvc flights.FlightUseCase, sessionSvc session.SessionUseCase, records repository.RecordRepository) *gin.Engine {
	router := gin.Default()

	api.NewFlightHandler(flightSvc).Register(router.Group("/flights"))
	api.NewSessionHandler(sessionSvc).Register(router.Group("/sessions"))
	api.NewBookingHandler(records).Register(router.Group("/bookings"))

	if cfg.HTTP.SwaggerDir != "" {
		router.StaticFS("/swagger", http.Dir(cfg.HTTP.SwaggerDir))
		router.GET("/docs/*any", gin.WrapH(httpSwagger.Handler(
			httpSwagger.URL("/swagger/wizard.swagger.json"),
		)))
	}

	return router
}
