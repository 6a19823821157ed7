package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"StockAdvisor/internal/cache"
	"StockAdvisor/internal/model"
	"StockAdvisor/internal/pipeline"
)

// Analyzer runs the analysis pipeline for one ticker.
type Analyzer interface {
	Analyze(ctx context.Context, ticker string) (*model.AnalysisResult, error)
}

// Server exposes the analysis pipeline over HTTP.
type Server struct {
	Analyzer Analyzer
	Cache    *cache.Cache
	engine   *gin.Engine
}

type analyzeRequest struct {
	Ticker string `json:"ticker" form:"ticker"`
}

// New builds a Server and its routes. gatherer backs GET /metrics.
func New(an Analyzer, c *cache.Cache, gatherer prometheus.Gatherer) *Server {
	s := &Server{
		Analyzer: an,
		Cache:    c,
		engine:   gin.New(),
	}
	s.engine.Use(gin.Logger(), gin.Recovery())

	api := s.engine.Group("/api")
	api.GET("/health", s.getHealth)
	api.GET("/history", s.getHistory)
	api.DELETE("/history", s.clearHistory)
	api.POST("/analyze", s.postAnalyze)

	s.engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	return s
}

// Handler returns the underlying http.Handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("[INFO] HTTP server listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen %s: %w", addr, err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Println("[INFO] HTTP server stopped")
	return nil
}

func (s *Server) getHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) getHistory(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"history": s.history(c.Request.Context())})
}

func (s *Server) clearHistory(c *gin.Context) {
	if err := s.Cache.ClearHistory(c.Request.Context()); err != nil {
		log.Printf("[ERROR] clear history: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not clear history."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": []string{}})
}

func (s *Server) postAnalyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please enter a valid ticker."})
		return
	}
	ticker := pipeline.NormalizeTicker(req.Ticker)
	if ticker == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please enter a valid ticker."})
		return
	}

	ctx := c.Request.Context()
	res, err := s.Analyzer.Analyze(ctx, ticker)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":   fmt.Sprintf("Error analyzing %s: %v", ticker, err),
			"history": s.history(ctx),
		})
		return
	}
	if err := s.Cache.StoreTicker(ctx, ticker); err != nil {
		log.Printf("[ERROR] store history %s: %v", ticker, err)
	}
	c.JSON(http.StatusOK, gin.H{"result": res, "history": s.history(ctx)})
}

func (s *Server) history(ctx context.Context) []string {
	h := s.Cache.GetHistory(ctx)
	if h == nil {
		h = []string{}
	}
	return h
}
