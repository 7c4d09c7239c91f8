package api

import (
	_ "bojrates/docs"
	"bojrates/internal/rate/handler"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swagger "github.com/swaggo/http-swagger"
)

func NewRouter(rateHandler *handler.Handler) *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(middleware.Heartbeat("/healthz"))

	// Swagger UI
	router.Get("/swagger/*", swagger.WrapHandler)

	// Prometheus scrape endpoint
	router.Handle("/metrics", promhttp.Handler())

	router.Post("/api/v1/rates/loads", rateHandler.LoadRates)
	router.Get("/api/v1/rates/supported-currencies", rateHandler.GetSupportedCodes)
	router.Get("/api/v1/rates/{source:[A-Za-z]{3}}/{target:[A-Za-z]{3}}", rateHandler.GetRate)
	router.Post("/api/v1/conversions", rateHandler.Convert)
	return router
}
