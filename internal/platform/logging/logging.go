// Package logging builds the process logger.
package logging

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/louisbranch/murmur/internal/platform/requestctx"
	"github.com/sirupsen/logrus"
)

// Format selects the log line encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// Options configures New.
type Options struct {
	Service string
	Level   string
	Format  Format
	Output  io.Writer
}

// New returns a logrus logger configured from opts. Unknown levels are an error.
func New(opts Options) (*logrus.Logger, error) {
	logger := logrus.New()

	output := opts.Output
	if output == nil {
		output = os.Stdout
	}
	logger.SetOutput(output)

	level := strings.TrimSpace(opts.Level)
	if level == "" {
		level = "info"
	}
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}
	logger.SetLevel(parsed)

	switch Format(strings.ToLower(strings.TrimSpace(string(opts.Format)))) {
	case "", FormatJSON:
		logger.SetFormatter(&logrus.JSONFormatter{
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime:  "timestamp",
				logrus.FieldKeyLevel: "level",
				logrus.FieldKeyMsg:   "message",
			},
		})
	case FormatText:
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		return nil, fmt.Errorf("unsupported log format %q", opts.Format)
	}

	if service := strings.TrimSpace(opts.Service); service != "" {
		logger.AddHook(serviceHook{service: service})
	}
	return logger, nil
}

// FromContext decorates logger with the request and user ids carried by ctx.
func FromContext(ctx context.Context, logger logrus.FieldLogger) *logrus.Entry {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	fields := logrus.Fields{}
	if requestID := requestctx.RequestIDFromContext(ctx); requestID != "" {
		fields["request_id"] = requestID
	}
	if userID := requestctx.UserIDFromContext(ctx); userID != "" {
		fields["user_id"] = userID
	}
	return logger.WithFields(fields)
}

type serviceHook struct {
	service string
}

func (serviceHook) Levels() []logrus.Level { return logrus.AllLevels }

func (h serviceHook) Fire(entry *logrus.Entry) error {
	if _, ok := entry.Data["service"]; !ok {
		entry.Data["service"] = h.service
	}
	return nil
}
