package ui

import (
	"context"
	"net/http"

	domain "gotitanic/domain/analysis"
	"gotitanic/domain/core"
	"gotitanic/domain/passenger"
	"gotitanic/internal"
	"gotitanic/internal/analysis"
	"gotitanic/internal/metrics"
	"gotitanic/ports"
	"gotitanic/ui/middleware"

	"github.com/gin-gonic/gin"
)

// AnalysisAPI is the part of the analysis service the HTTP API serves
type AnalysisAPI interface {
	Snapshot(ctx context.Context) (*domain.Snapshot, error)
	Select(ctx context.Context, sel domain.Selector) (any, error)
	GetSnapshot(ctx context.Context, id core.ID) (*domain.Snapshot, error)
	History(ctx context.Context, limit int) ([]ports.SnapshotSummary, error)
	Passengers(ctx context.Context) ([]passenger.Passenger, error)
	EstimateOutcomeRatio(ctx context.Context, filter domain.Filter) (domain.OutcomeRatio, error)
	Distribution(ctx context.Context, attr analysis.Attribute, filter domain.Filter, binning *domain.Binning) (domain.Distribution, error)
	Rebuild(ctx context.Context) (*domain.Snapshot, error)
}

// Server represents the public read API
type Server struct {
	router  *gin.Engine
	service AnalysisAPI
	metrics *metrics.Metrics
	logger  *internal.Logger
}

// NewServer creates the API server; m may be nil
func NewServer(service AnalysisAPI, m *metrics.Metrics, ginMode string) *Server {
	if ginMode != "" {
		gin.SetMode(ginMode)
	}
	s := &Server{
		router:  gin.New(),
		service: service,
		metrics: m,
		logger:  internal.DefaultLogger.WithComponent("http"),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// Handler returns the router as an http.Handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// HTTPServer wraps the router in a server listening on addr
func (s *Server) HTTPServer(addr string) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: readHeaderTimeout,
	}
}

// setupMiddleware configures Gin middleware
func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(middleware.RequestLogger(s.logger))
	if s.metrics != nil {
		s.router.Use(middleware.RequestMetrics(s.metrics))
	}
	s.router.Use(middleware.ErrorHandler())
}

// setupRoutes configures the API routes
func (s *Server) setupRoutes() {
	passengers := s.router.Group("/passengers")

	passengers.GET("", middleware.AuthorizeQueryParams(), s.handlePassengers)
	passengers.GET("/survival", middleware.AuthorizeQueryParams(filterParams...), s.handleSurvival)
	passengers.GET("/distribution", middleware.AuthorizeQueryParams(distributionParams...), s.handleDistribution)

	stats := passengers.Group("/stats")
	stats.GET("", middleware.AuthorizeQueryParams("selector"), s.handleStats)
	stats.GET("/history", middleware.AuthorizeQueryParams("limit"), s.handleHistory)
	stats.GET("/snapshots/:id", middleware.AuthorizeQueryParams(), s.handleSnapshotByID)
	stats.GET("/report", middleware.AuthorizeQueryParams("format"), s.handleReport)
	stats.POST("/rebuild", middleware.AuthorizeQueryParams(), s.handleRebuild)

	s.router.NoRoute(func(c *gin.Context) {
		_ = c.Error(core.NewNotFoundError("route", c.Request.URL.Path))
	})
}
