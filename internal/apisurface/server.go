// Package apisurface is the narrow HTTP surface the core crawl pipeline
// sits behind: submit a job, check liveness, and scrape metrics. No
// authentication; job progress streaming lives outside the core.
package apisurface

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/northfield/contactcrawl/internal/domain"
	"github.com/northfield/contactcrawl/internal/obslog"
)

// JobSubmitter enqueues a new enrichment job and returns its ID.
type JobSubmitter interface {
	Submit(ctx context.Context, sites []domain.SiteInput, cfg domain.CrawlConfig) (uuid.UUID, error)
}

// Config controls the HTTP surface.
type Config struct {
	Addr  string
	Debug bool
}

// SetDefaults fills zero-valued fields.
func (c *Config) SetDefaults() {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
}

// Server is the minimal gin-based HTTP surface in front of the job
// submitter and the Prometheus registry.
type Server struct {
	router *gin.Engine
	server *http.Server
	log    obslog.Logger
}

// New builds a Server wired to submitter.
func New(cfg Config, submitter JobSubmitter, log obslog.Logger) *Server {
	cfg.SetDefaults()
	if log == nil {
		log = obslog.NewNop()
	}

	if cfg.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(log))

	router.GET("/healthz", handleHealthz)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.POST("/jobs", handleSubmitJob(submitter))

	return &Server{
		router: router,
		server: &http.Server{
			Addr:              cfg.Addr,
			Handler:           router,
			ReadHeaderTimeout: 5 * time.Second,
		},
		log: log,
	}
}

// Start runs the server, blocking until it errors or is shut down.
func (s *Server) Start() error {
	s.log.Info("starting api surface", obslog.String("addr", s.server.Addr))
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("api surface: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func requestLogger(log obslog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("request handled",
			obslog.String("method", c.Request.Method),
			obslog.String("path", c.Request.URL.Path),
			obslog.Int("status", c.Writer.Status()),
			obslog.Any("duration_ms", time.Since(start).Milliseconds()),
		)
	}
}

func handleHealthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type submitJobRequest struct {
	Sites  []domain.SiteInput `json:"sites"`
	Config domain.CrawlConfig `json:"config"`
}

func handleSubmitJob(submitter JobSubmitter) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req submitJobRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if err := req.Config.Validate(); err != nil {
			// Clamped, not rejected; the validation error is informational.
			c.Header("X-Config-Warning", err.Error())
		}

		jobID, err := submitter.Submit(c.Request.Context(), req.Sites, req.Config)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusAccepted, gin.H{"jobId": jobID})
	}
}
