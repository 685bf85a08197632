package server

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/joeblew999/plat-fonts/internal/backing"
	"github.com/joeblew999/plat-fonts/internal/config"
	"github.com/joeblew999/plat-fonts/internal/errorx"
	"github.com/joeblew999/plat-fonts/internal/handler"
	"github.com/joeblew999/plat-fonts/internal/model"
	"github.com/joeblew999/plat-fonts/internal/session"
	"github.com/joeblew999/plat-fonts/internal/svc"
	"github.com/joeblew999/plat-fonts/internal/ui"
	"github.com/joeblew999/plat-fonts/pkg/catalog"
	"github.com/joeblew999/plat-fonts/pkg/db"
	"github.com/joeblew999/plat-fonts/pkg/delivery"
	"github.com/joeblew999/plat-fonts/pkg/font"
	"github.com/joeblew999/plat-fonts/pkg/queue"
	"github.com/joeblew999/plat-fonts/pkg/syncbridge"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/core/mr"
	"github.com/zeromicro/go-zero/core/proc"
	"github.com/zeromicro/go-zero/core/prometheus"
	"github.com/zeromicro/go-zero/core/service"
	"github.com/zeromicro/go-zero/mcp"
	"github.com/zeromicro/go-zero/rest"
)

// Server wraps the MCP server and the font catalog services.
type Server struct {
	config config.Config
	group  *service.ServiceGroup
}

// New creates a new server instance.
func New(c config.Config) (*Server, error) {
	// Register global error handler for proper HTTP status codes
	errorx.RegisterErrorHandler()

	// Enable go-zero prometheus metrics (required for metric.CounterVec/HistogramVec/GaugeVec to record)
	prometheus.Enable()

	mcpServer := mcp.NewMcpServer(c.McpConf)

	// Database opening and the theme.json check are independent
	var database *db.DB
	err := mr.Finish(
		func() error {
			var e error
			database, e = db.Open(c.Database.Path)
			return e
		},
		func() error {
			checkSeed(c.Theme.JSONPath)
			return nil
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize: %w", err)
	}

	// go-zero sqlx.SqlConn for circuit breaking + tracing
	conn := database.SqlConn()

	store, err := backing.New(model.NewThemeFontsModel(conn), c.Theme.JSONPath, parseDuration(c.Theme.NonceTTL, backing.DefaultNonceTTL))
	if err != nil {
		database.Close()
		return nil, err
	}

	sink := delivery.Sink(store.Sink())
	if c.Sync.Endpoint != "" {
		sink = delivery.NewHTTPSink(c.Sync.Endpoint, parseDuration(c.Sync.Timeout, 10*time.Second))
	}

	var (
		submissions *queue.Queue
		submitter   syncbridge.Submitter
		engine      *delivery.Engine
	)
	switch c.Sync.Mode {
	case config.SyncQueue:
		submissions, err = queue.NewQueue(database.DB, conn, c.Sync.Queue)
		if err != nil {
			database.Close()
			return nil, fmt.Errorf("failed to create submission queue: %w", err)
		}
		submitter = queue.NewSubmitter(submissions, c.Theme.Name)
		engine = delivery.NewEngine(submissions, sink, delivery.Config{
			MaxRetries:   c.Delivery.MaxRetries,
			RetryBackoff: parseDuration(c.Delivery.RetryBackoff, 30*time.Second),
			MaxBackoff:   parseDuration(c.Delivery.MaxBackoff, 30*time.Minute),
			RateLimit:    c.Delivery.RateLimit,
			Lease:        2 * parseDuration(c.Sync.Timeout, 10*time.Second),
		})
		logx.Infof("Catalog submissions queued on %q", submissions.Name())
	default:
		submitter = delivery.NewDirectSubmitter(sink, c.Theme.Name)
	}

	sessions, err := session.NewManager(c.Theme.Name, store, submitter, font.NewThemeAssets(c.Theme.BaseURL), c.Sessions.Capacity)
	if err != nil {
		database.Close()
		return nil, err
	}

	RegisterMCPTools(mcpServer, sessions, submissions)

	// Create UI rest server (Datastar web UI) with CORS
	uiServer, err := rest.NewServer(c.UI.RestConf, rest.WithCors("*"))
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to create UI server: %w", err)
	}

	uiHandlers := ui.NewHandlers(sessions, submissions)
	uiServer.AddRoutes(uiHandlers.Routes())
	uiServer.AddRoutes(uiHandlers.SSERoutes(), rest.WithSSE())

	// Create API rest server (goctl-generated JSON REST API) with CORS
	apiServer, err := rest.NewServer(c.API.RestConf, rest.WithCors("*"))
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to create API server: %w", err)
	}

	apiCtx := svc.NewServiceContext(c, store, sessions, submissions)
	handler.RegisterHandlers(apiServer, apiCtx)

	apiServer.AddRoute(rest.Route{
		Method:  http.MethodGet,
		Path:    "/metrics",
		Handler: promhttp.Handler().ServeHTTP,
	})

	proc.AddShutdownListener(func() {
		logx.Info("Closing database")
		database.Close()
	})
	if submissions != nil && submissions.Events != nil {
		proc.AddShutdownListener(func() {
			logx.Info("Flushing submission events")
			submissions.Events.Flush()
		})
	}

	// Stopped in reverse order
	group := service.NewServiceGroup()
	if engine != nil {
		group.Add(newDeliveryService(engine, c.Delivery.Workers))
	}
	group.Add(uiServer)
	group.Add(apiServer)
	group.Add(mcpServer)

	logx.Infow("plat-fonts server configured",
		logx.Field("mcp", fmt.Sprintf("http://%s:%d/sse", c.Host, c.Port)),
		logx.Field("ui", fmt.Sprintf("http://%s:%d", c.UI.Host, c.UI.Port)),
		logx.Field("api", fmt.Sprintf("http://%s:%d/api/v1", c.API.Host, c.API.Port)),
		logx.Field("theme", c.Theme.Name),
		logx.Field("sync", c.Sync.Mode),
		logx.Field("database", c.Database.Path),
	)
	logx.Infof("To add to Claude: claude mcp add plat-fonts -- npx -y mcp-remote http://localhost:%d/sse", c.Port)

	return &Server{config: c, group: group}, nil
}

// Start starts all services. Blocks until shutdown signal.
func (s *Server) Start() {
	s.group.Start()
}

// Stop stops all services.
func (s *Server) Stop() {
	s.group.Stop()
}

// checkSeed reports whether the theme.json seed can be ingested. A bad seed
// is not fatal; themes with a stored catalog do not need it.
func checkSeed(path string) {
	doc, err := os.ReadFile(path)
	if err != nil {
		logx.Infow("No theme.json seed", logx.Field("path", path), logx.Field("reason", err.Error()))
		return
	}
	c, err := catalog.ParseThemeJSON(doc)
	if err != nil {
		logx.Errorw("theme.json seed cannot be ingested", logx.Field("path", path), logx.Field("error", err.Error()))
		return
	}
	logx.Infow("theme.json seed loaded", logx.Field("path", path), logx.Field("families", len(c)))
}

func parseDuration(v string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
