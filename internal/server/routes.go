package server

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) registerRoutes() {
	// Observability endpoints (not rate limited)
	s.echo.GET("/health/live", s.handleLiveness)
	s.echo.GET("/health/ready", s.handleReadiness)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	s.echo.GET("/version", s.handleVersion)

	// Analysis API
	api := s.echo.Group("/api", s.rateLimitMiddleware)
	api.GET("/status", s.handleStatus)
	api.POST("/analyze/sentiment", s.handleAnalyzeSentiment)
	api.POST("/analyze/sentiment/batch", s.handleAnalyzeSentimentBatch)
	api.POST("/analyze/crisis", s.handleAnalyzeCrisis)
	api.POST("/analyze/crisis/batch", s.handleAnalyzeCrisisBatch)
	api.POST("/analyze/mention", s.handleAnalyzeMention)
	api.POST("/analyze/brand-health", s.handleBrandHealth)
	api.GET("/brands/:brand/crisis-summary", s.handleBrandCrisisSummary)
}
