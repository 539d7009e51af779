// Package introspect is a read-only HTTP status surface over the
// system_logs directory: queue depths and recent exceptions, for an
// operator dashboard. Disabled by default. Grounded on the teacher's
// internal/interfaces/http/server.go (gin engine construction, Recovery +
// logging middleware, graceful Start/Stop), trimmed from a CRUD API over a
// database to three read-only routes over text logs.
package introspect

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/crestline-ap/invoice-exceptions/internal/domain"
	"github.com/crestline-ap/invoice-exceptions/internal/record"
)

var queueOrder = []domain.Queue{
	domain.QueueDuplicateInvoices,
	domain.QueueMissingData,
	domain.QueueLowConfidence,
	domain.QueuePriceDiscrepancies,
	domain.QueueSupplierMismatch,
	domain.QueueBillingDiscrepancies,
	domain.QueueDateDiscrepancies,
	domain.QueueHighValueApproval,
}

// Config controls whether the server runs at all, and where.
type Config struct {
	Enabled      bool
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DefaultConfig matches the teacher's default bind address and timeouts.
var DefaultConfig = Config{
	Enabled:      false,
	Host:         "0.0.0.0",
	Port:         8090,
	ReadTimeout:  30 * time.Second,
	WriteTimeout: 30 * time.Second,
}

// Server is the read-only introspection HTTP server.
type Server struct {
	cfg           Config
	systemLogsDir string
	router        *gin.Engine
	httpServer    *http.Server
	log           *zap.Logger
}

// NewServer builds a Server rooted at systemLogsDir. Callers should check
// cfg.Enabled before calling Start; NewServer itself always succeeds so
// wiring code doesn't need to branch.
func NewServer(cfg Config, systemLogsDir string, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	s := &Server{cfg: cfg, systemLogsDir: systemLogsDir, router: router, log: log}
	s.router.Use(gin.Recovery())
	s.router.Use(s.loggingMiddleware())
	s.setupRoutes()
	return s
}

func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		c.Next()
		s.log.Info("introspect request",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)
	s.router.GET("/queues", s.handleQueues)
	s.router.GET("/exceptions/:queue", s.handleExceptions)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type queueDepth struct {
	Queue string `json:"queue"`
	Depth int    `json:"depth"`
}

func (s *Server) handleQueues(c *gin.Context) {
	depths := make([]queueDepth, 0, len(queueOrder))
	for _, q := range queueOrder {
		depths = append(depths, queueDepth{Queue: string(q), Depth: s.countExceptions(q)})
	}
	c.JSON(http.StatusOK, gin.H{"queues": depths})
}

func (s *Server) handleExceptions(c *gin.Context) {
	queue := domain.Queue(c.Param("queue"))
	limit := 20
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}

	records, err := s.readExceptions(queue)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("queue %q has no log", queue)})
		return
	}
	if len(records) > limit {
		records = records[len(records)-limit:]
	}
	c.JSON(http.StatusOK, gin.H{"queue": queue, "exceptions": records})
}

func (s *Server) queuePath(queue domain.Queue) string {
	return filepath.Join(s.systemLogsDir, fmt.Sprintf("queue_%s.log", queue))
}

func (s *Server) countExceptions(queue domain.Queue) int {
	raw, err := os.ReadFile(s.queuePath(queue))
	if err != nil {
		return 0
	}
	return strings.Count(string(raw), "=== EXCEPTION_START ===")
}

func (s *Server) readExceptions(queue domain.Queue) ([]domain.ExceptionRecord, error) {
	raw, err := os.ReadFile(s.queuePath(queue))
	if err != nil {
		return nil, err
	}

	var records []domain.ExceptionRecord
	for _, block := range record.SplitExceptionBlocks(string(raw)) {
		rec, err := record.ParseException(block)
		if err != nil {
			continue
		}
		records = append(records, rec)
	}
	sort.SliceStable(records, func(i, j int) bool { return records[i].Timestamp.Before(records[j].Timestamp) })
	return records, nil
}

// Start runs the server until ctx is cancelled, then gracefully shuts down.
// A no-op if cfg.Enabled is false.
func (s *Server) Start(ctx context.Context) error {
	if !s.cfg.Enabled {
		return nil
	}

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	s.log.Info("starting introspection server", zap.String("address", addr))

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		return s.Stop()
	case err := <-errCh:
		return err
	}
}

// Stop gracefully shuts the server down, if it was started.
func (s *Server) Stop() error {
	if s.httpServer == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}

// Router exposes the underlying gin engine, for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}
