// Package server exposes the dashboard pipeline over HTTP: a health probe,
// the CSV/XLSX download and the filtered view model.
//
// The dataset is loaded once and shared read-only by every handler.
package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/umkm-jabar/umkmdash-cli/internal/aggregate"
	"github.com/umkm-jabar/umkmdash-cli/internal/dataset"
	"github.com/umkm-jabar/umkmdash-cli/internal/export"
	"github.com/umkm-jabar/umkmdash-cli/internal/insight"
)

// DefaultShutdownTimeout bounds graceful shutdown in Run.
const DefaultShutdownTimeout = 10 * time.Second

// Server serves one loaded dataset.
type Server struct {
	doc    dataset.Document
	opts   insight.Options
	log    *zap.Logger
	engine *gin.Engine

	ShutdownTimeout time.Duration
}

// New builds the router. A nil logger discards request logs.
func New(doc dataset.Document, opts insight.Options, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{doc: doc, opts: opts, log: log, ShutdownTimeout: DefaultShutdownTimeout}

	r := gin.New()
	r.Use(requestID(), accessLog(log), gin.Recovery())

	api := r.Group("/api")
	api.GET("/health", s.handleHealth)
	api.GET("/meta", s.handleMeta)
	api.GET("/download", s.handleDownload)
	api.GET("/summary", s.handleSummary)

	s.engine = r
	return s
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler { return s.engine }

// Run listens on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", zap.String("addr", addr), zap.Int("rows", len(s.doc.Data)))
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

	s.log.Info("shutting down", zap.Duration("timeout", s.ShutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// NewLogger returns a production zap logger, at debug level when debug is set.
func NewLogger(debug bool) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	if debug {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	log, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return log, nil
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleMeta(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"meta": s.doc.Meta, "summary": s.doc.Summary})
}

func (s *Server) handleDownload(c *gin.Context) {
	typ := export.ParseType(c.Query("type"))
	format, err := export.ParseFormat(c.Query("format"))
	if err != nil {
		badRequest(c, err)
		return
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, export.Build(typ, s.doc.Data), format); err != nil {
		s.log.Error("export failed", zap.String("type", string(typ)), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed"})
		return
	}

	name := export.FileName(typ, format)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, format.ContentType(), buf.Bytes())
}

func (s *Server) handleSummary(c *gin.Context) {
	year, err := intQuery(c, "tahun")
	if err != nil {
		badRequest(c, err)
		return
	}
	top, err := intQuery(c, "top")
	if err != nil {
		badRequest(c, err)
		return
	}

	opts := s.opts
	if top > 0 {
		opts.TopN = top
	}
	f := aggregate.Filter{
		Year:     year,
		District: c.Query("kabKota"),
		Sector:   dataset.Sector(c.Query("sektor")),
	}
	c.JSON(http.StatusOK, insight.Build(s.doc.Data, s.doc.Meta, f, opts))
}

// intQuery parses an optional integer query parameter; absent means 0.
func intQuery(c *gin.Context, name string) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%s must be a non-negative integer (got %q)", name, raw)
	}
	return n, nil
}

func badRequest(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}
