// Package main starts the murmur web app.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	murmurcmd "github.com/louisbranch/murmur/internal/cmd/murmur"
	"github.com/louisbranch/murmur/internal/platform/config"
)

func main() {
	cfg, err := murmurcmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("parse config: %v", err)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := murmurcmd.Run(ctx, cfg); err != nil {
		logrus.WithError(err).Fatal("failed to serve")
	}
}
