// Package murmur parses murmur command flags and launches the web app.
package murmur

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	entrypoint "github.com/louisbranch/murmur/internal/platform/cmd"
	"github.com/louisbranch/murmur/internal/platform/config"
	"github.com/louisbranch/murmur/internal/platform/logging"
	"github.com/louisbranch/murmur/internal/platform/metrics"
	"github.com/louisbranch/murmur/internal/platform/pagination"
	"github.com/louisbranch/murmur/internal/services/social/account"
	"github.com/louisbranch/murmur/internal/services/social/graph"
	"github.com/louisbranch/murmur/internal/services/social/langdetect"
	"github.com/louisbranch/murmur/internal/services/social/mail"
	"github.com/louisbranch/murmur/internal/services/social/posts"
	"github.com/louisbranch/murmur/internal/services/social/storage"
	redisstore "github.com/louisbranch/murmur/internal/services/social/storage/redis"
	"github.com/louisbranch/murmur/internal/services/social/storage/sqlite"
	"github.com/louisbranch/murmur/internal/services/web"
)

// maxPostsPerPage caps the page size accepted from configuration.
const maxPostsPerPage = 100

// Config holds murmur command configuration.
type Config struct {
	HTTPAddr      string        `env:"MURMUR_HTTP_ADDR" envDefault:"localhost:8080"`
	DBPath        string        `env:"MURMUR_DB_PATH" envDefault:"data/murmur.db"`
	PostsPerPage  int           `env:"MURMUR_POSTS_PER_PAGE" envDefault:"25"`
	SecretKey     string        `env:"MURMUR_SECRET_KEY"`
	BaseURL       string        `env:"MURMUR_BASE_URL" envDefault:"http://localhost:8080"`
	SessionTTL    time.Duration `env:"MURMUR_SESSION_TTL" envDefault:"720h"`
	RememberTTL   time.Duration `env:"MURMUR_REMEMBER_TTL" envDefault:"8760h"`
	ResetTokenTTL time.Duration `env:"MURMUR_RESET_TOKEN_TTL" envDefault:"10m"`
	RedisAddr     string        `env:"MURMUR_REDIS_ADDR"`
	MailSender    string        `env:"MURMUR_MAIL_SENDER" envDefault:"no-reply@murmur.local"`
	LogLevel      string        `env:"MURMUR_LOG_LEVEL" envDefault:"info"`
	LogFormat     string        `env:"MURMUR_LOG_FORMAT" envDefault:"json"`
}

// ParseConfig loads an optional .env file, then environment and flags into
// Config. Flags left unset keep the environment value.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	if err := config.LoadDotEnv(); err != nil {
		return Config{}, err
	}
	var cfg Config
	fs.StringVar(&cfg.HTTPAddr, "http-addr", "", "HTTP listen address (env MURMUR_HTTP_ADDR)")
	fs.StringVar(&cfg.DBPath, "db-path", "", "SQLite database path (env MURMUR_DB_PATH)")
	fs.StringVar(&cfg.RedisAddr, "redis-addr", "", "Redis address for session storage (env MURMUR_REDIS_ADDR)")
	if err := entrypoint.ParseConfigFromArgs(&cfg, fs, args); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks settings that have no usable default.
func (c Config) Validate() error {
	if strings.TrimSpace(c.SecretKey) == "" {
		return errors.New("MURMUR_SECRET_KEY is required")
	}
	if strings.TrimSpace(c.HTTPAddr) == "" {
		return errors.New("http address is required")
	}
	if strings.TrimSpace(c.DBPath) == "" {
		return errors.New("database path is required")
	}
	if c.PostsPerPage <= 0 || c.PostsPerPage > maxPostsPerPage {
		return fmt.Errorf("posts per page must be between 1 and %d", maxPostsPerPage)
	}
	return nil
}

// Run starts the murmur web app.
func Run(ctx context.Context, cfg Config) error {
	logger, err := logging.New(logging.Options{
		Service: entrypoint.ServiceMurmur,
		Level:   cfg.LogLevel,
		Format:  logging.Format(cfg.LogFormat),
	})
	if err != nil {
		return err
	}
	return entrypoint.RunWithTelemetryAndOptions(ctx, entrypoint.ServiceMurmur, entrypoint.RunOptions{Logger: logger}, func(ctx context.Context) error {
		server, closeDeps, err := build(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer closeDeps()
		defer server.Close()

		if err := server.ListenAndServe(ctx); err != nil {
			return fmt.Errorf("serve murmur: %w", err)
		}
		return nil
	})
}

// build opens storage and composes the services behind the web server. The
// returned func releases storage handles.
func build(ctx context.Context, cfg Config, logger logrus.FieldLogger) (*web.Server, func(), error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("create data dir: %w", err)
		}
	}
	store, err := sqlite.Open(ctx, cfg.DBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}
	closers := []func() error{store.Close}
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](); err != nil {
				logger.WithError(err).Warn("close storage")
			}
		}
	}

	var sessions storage.SessionStore = store
	if addr := strings.TrimSpace(cfg.RedisAddr); addr != "" {
		redisSessions, err := redisstore.Dial(ctx, addr)
		if err != nil {
			closeAll()
			return nil, nil, fmt.Errorf("open session store: %w", err)
		}
		closers = append(closers, redisSessions.Close)
		sessions = redisSessions
		logger.WithField("addr", addr).Info("sessions stored in redis")
	}

	m := metrics.New()
	if err := m.RegisterDB(store.DB(), "murmur"); err != nil {
		closeAll()
		return nil, nil, fmt.Errorf("register db metrics: %w", err)
	}

	accounts, err := account.NewService(store, sessions, mail.LogSender{Logger: logger, From: cfg.MailSender}, account.Config{
		SecretKey:     []byte(cfg.SecretKey),
		SessionTTL:    cfg.SessionTTL,
		RememberTTL:   cfg.RememberTTL,
		ResetTokenTTL: cfg.ResetTokenTTL,
		BaseURL:       cfg.BaseURL,
	})
	if err != nil {
		closeAll()
		return nil, nil, fmt.Errorf("init accounts: %w", err)
	}
	pageSize := pagination.PageSizeConfig{Default: cfg.PostsPerPage, Max: maxPostsPerPage}
	server, err := web.NewServer(ctx, web.Config{
		HTTPAddr:     cfg.HTTPAddr,
		Accounts:     accounts,
		Graph:        graph.NewService(store).WithPageSize(pageSize),
		Posts:        posts.NewService(store, langdetect.Whatlang{}).WithPageSize(pageSize),
		Metrics:      m,
		Logger:       logger,
		PostsPerPage: cfg.PostsPerPage,
	})
	if err != nil {
		closeAll()
		return nil, nil, fmt.Errorf("init web server: %w", err)
	}
	return server, closeAll, nil
}
