// Package server exposes the analysis pipeline as a JSON HTTP API.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ppiankov/legalese/internal/model"
	"github.com/ppiankov/legalese/internal/pipeline"
	"github.com/ppiankov/legalese/internal/source"
)

const shutdownTimeout = 10 * time.Second

// AnalyzeRequest is the body accepted by the analysis endpoints
type AnalyzeRequest struct {
	Text string `json:"text"`
	Name string `json:"name,omitempty"`
}

// SimplifyResponse is returned by /api/v1/simplify
type SimplifyResponse struct {
	Simplified string `json:"simplified"`
}

// ErrorResponse is returned for every failed request
type ErrorResponse struct {
	Error string `json:"error"`
}

// Server serves the HTTP API
type Server struct {
	pipeline *pipeline.Pipeline
	engine   *gin.Engine
	metrics  *Metrics
	logger   *zap.Logger
	config   model.ServerConfig
}

// New creates a server for the pipeline
func New(p *pipeline.Pipeline, cfg model.ServerConfig, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		pipeline: p,
		engine:   gin.New(),
		metrics:  NewMetrics(),
		logger:   logger,
		config:   cfg,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.engine.Use(gin.Recovery(), s.observe())

	s.engine.GET("/healthz", s.handleHealth)
	s.engine.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	api := s.engine.Group("/api/v1", s.limitBody())
	api.POST("/analyze", s.handleAnalyze)
	api.POST("/simplify", s.handleSimplify)
	api.POST("/risk", s.handleRisk)
}

// Handler returns the HTTP handler
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.config.Addr,
		Handler:      s.engine,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", zap.String("addr", s.config.Addr), zap.String("mode", string(s.pipeline.Mode())))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// observe logs each request and records its metrics
func (s *Server) observe() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		elapsed := time.Since(start)

		s.metrics.requests.WithLabelValues(route, c.Request.Method, strconv.Itoa(status)).Inc()
		s.metrics.duration.WithLabelValues(route).Observe(elapsed.Seconds())

		s.logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", status),
			zap.Duration("elapsed", elapsed),
			zap.String("client", c.ClientIP()))
	}
}

func (s *Server) limitBody() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.config.MaxBodyBytes > 0 {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.config.MaxBodyBytes)
		}
		c.Next()
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"mode":     s.pipeline.Mode(),
		"provider": s.pipeline.ProviderName(),
	})
}

func (s *Server) handleAnalyze(c *gin.Context) {
	req, ok := s.bind(c)
	if !ok {
		return
	}

	name := req.Name
	if name == "" {
		name = "request"
	}

	report, err := s.pipeline.Process(c.Request.Context(), source.NewTextDocument(name, req.Text))
	if err != nil {
		if pipeline.IsInvalidInput(err) {
			s.fail(c, http.StatusBadRequest, err)
			return
		}
		s.logger.Error("analysis failed", zap.Error(err))
		s.fail(c, http.StatusBadGateway, err)
		return
	}

	s.metrics.mode.WithLabelValues(string(report.Mode), report.Provider).Inc()
	s.metrics.risk.WithLabelValues(string(report.Risk.Level)).Inc()
	c.JSON(http.StatusOK, report)
}

func (s *Server) handleSimplify(c *gin.Context) {
	result, ok := s.analyze(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, SimplifyResponse{Simplified: result.SimplifiedText})
}

func (s *Server) handleRisk(c *gin.Context) {
	result, ok := s.analyze(c)
	if !ok {
		return
	}
	s.metrics.risk.WithLabelValues(string(result.Risk.Level)).Inc()
	c.JSON(http.StatusOK, result.Risk)
}

// analyze runs the local rule-based analysis for the request body
func (s *Server) analyze(c *gin.Context) (*model.AnalysisResult, bool) {
	req, ok := s.bind(c)
	if !ok {
		return nil, false
	}

	result, err := pipeline.Analyze(req.Text)
	if err != nil {
		s.fail(c, http.StatusBadRequest, err)
		return nil, false
	}
	return result, true
}

func (s *Server) bind(c *gin.Context) (*AnalyzeRequest, bool) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.fail(c, http.StatusRequestEntityTooLarge, fmt.Errorf("request body exceeds %d bytes", tooLarge.Limit))
			return nil, false
		}
		s.fail(c, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return nil, false
	}
	return &req, true
}

func (s *Server) fail(c *gin.Context, status int, err error) {
	c.AbortWithStatusJSON(status, ErrorResponse{Error: err.Error()})
}
