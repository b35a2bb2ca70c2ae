package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/louisbranch/murmur/internal/platform/metrics"
	"github.com/louisbranch/murmur/internal/platform/timeouts"
	"github.com/louisbranch/murmur/internal/services/social/account"
	"github.com/louisbranch/murmur/internal/services/social/graph"
	"github.com/louisbranch/murmur/internal/services/social/posts"
	"github.com/louisbranch/murmur/internal/services/web/platform/httpx"
	"github.com/louisbranch/murmur/internal/services/web/platform/observability"
	"github.com/louisbranch/murmur/internal/services/web/routepath"
	webstatic "github.com/louisbranch/murmur/internal/services/web/static"
)

// Config defines startup inputs for the web service.
type Config struct {
	HTTPAddr     string
	Accounts     *account.Service
	Graph        *graph.Service
	Posts        *posts.Service
	Metrics      *metrics.Metrics
	Logger       logrus.FieldLogger
	PostsPerPage int
}

// Server hosts the web HTTP surface and lifecycle.
type Server struct {
	httpAddr   string
	httpServer *http.Server
	logger     logrus.FieldLogger
}

type handler struct {
	accounts     *account.Service
	graph        *graph.Service
	posts        *posts.Service
	metrics      *metrics.Metrics
	logger       logrus.FieldLogger
	postsPerPage int
}

// NewHandler builds the root handler with every route and middleware.
func NewHandler(cfg Config) (http.Handler, error) {
	if cfg.Accounts == nil {
		return nil, errors.New("account service is required")
	}
	if cfg.Graph == nil {
		return nil, errors.New("graph service is required")
	}
	if cfg.Posts == nil {
		return nil, errors.New("post service is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	h := &handler{
		accounts:     cfg.Accounts,
		graph:        cfg.Graph,
		posts:        cfg.Posts,
		metrics:      cfg.Metrics,
		logger:       logger,
		postsPerPage: cfg.PostsPerPage,
	}

	mux := http.NewServeMux()
	h.registerRoutes(mux)
	mux.Handle(routepath.StaticPrefix, observability.Route(routepath.StaticPrefix,
		http.StripPrefix(routepath.StaticPrefix, http.FileServer(http.FS(webstatic.FS)))))
	mux.Handle("GET "+routepath.Health, observability.Route(routepath.Health, http.HandlerFunc(h.handleHealth)))
	if cfg.Metrics != nil {
		mux.Handle("GET "+routepath.Metrics, observability.Route(routepath.Metrics, cfg.Metrics.Handler()))
	}

	root := httpx.Chain(mux,
		httpx.RecoverPanic(logger),
		httpx.RequestID(),
		observability.RequestLogger(logger, cfg.Metrics),
		h.withLanguage(),
		h.withViewer(),
		h.requireSameOrigin(),
	)
	return otelhttp.NewHandler(root, "murmur.web"), nil
}

// NewServer validates config and constructs a web server.
func NewServer(_ context.Context, cfg Config) (*Server, error) {
	httpAddr := strings.TrimSpace(cfg.HTTPAddr)
	if httpAddr == "" {
		return nil, errors.New("http address is required")
	}
	handler, err := NewHandler(cfg)
	if err != nil {
		return nil, fmt.Errorf("compose web handler: %w", err)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Server{
		httpAddr: httpAddr,
		logger:   logger,
		httpServer: &http.Server{
			Addr:              httpAddr,
			Handler:           handler,
			ReadHeaderTimeout: timeouts.ReadHeader,
		},
	}, nil
}

// ListenAndServe serves HTTP traffic until context cancellation or server stop.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s == nil {
		return errors.New("web server is nil")
	}
	if ctx == nil {
		return errors.New("context is required")
	}

	serveErr := make(chan error, 1)
	go func() {
		s.logger.WithField("addr", s.httpAddr).Info("web server listening")
		serveErr <- s.httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		err := s.httpServer.Shutdown(shutdownCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("shutdown web http server: %w", err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve web http: %w", err)
	}
}

// Close closes open server resources.
func (s *Server) Close() {
	if s == nil || s.httpServer == nil {
		return
	}
	_ = s.httpServer.Close()
}

func (h *handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	_ = httpx.WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
