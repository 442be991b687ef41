package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/remitip/rates-service/internal/delivery/http/handlers"
)

type Config struct {
	RatesHandler     *handlers.RatesHandler
	AnalyticsHandler *handlers.AnalyticsHandler
}

func NewRouter(cfg *Config) *gin.Engine {
	router := gin.Default()

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api/v1")
	registerRateRoutes(api, cfg.RatesHandler)
	registerAnalyticsRoutes(api, cfg.AnalyticsHandler)

	return router
}

func registerRateRoutes(router *gin.RouterGroup, ratesHandler *handlers.RatesHandler) {
	rates := router.Group("/exchange-rates")
	{
		rates.GET("/compare", ratesHandler.Compare)
		rates.GET("/platforms", ratesHandler.Platforms)
		rates.GET("/health", ratesHandler.Health)
	}
}

func registerAnalyticsRoutes(router *gin.RouterGroup, analyticsHandler *handlers.AnalyticsHandler) {
	analytics := router.Group("/analytics")
	{
		analytics.GET("/platforms", analyticsHandler.Platforms)
		analytics.GET("/corridors", analyticsHandler.Corridors)
		analytics.GET("/trends", analyticsHandler.Trends)
		analytics.GET("/daily-summary", analyticsHandler.DailySummary)
		analytics.POST("/jobs/:jobType", analyticsHandler.TriggerJob)
	}
}
