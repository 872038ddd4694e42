package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/noah-isme/sma-portal/internal/fallback"
	"github.com/noah-isme/sma-portal/internal/gateway"
	"github.com/noah-isme/sma-portal/internal/portal"
	"github.com/noah-isme/sma-portal/internal/session"
	"github.com/noah-isme/sma-portal/pkg/config"
	"github.com/noah-isme/sma-portal/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.NewCLI(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	client, err := gateway.New(cfg.Gateway.BaseURL, cfg.Gateway.Timeout, gateway.WithLogger(logr))
	if err != nil {
		logr.Fatal("invalid gateway configuration", zap.Error(err))
	}

	validate := validator.New()
	sess := session.New(client, validate, logr)
	client.SetTokenSource(sess)

	opts := portal.Options{
		Session:   sess,
		Gateway:   client,
		Fallback:  fallback.For,
		Validate:  validate,
		Logger:    logr,
		In:        os.Stdin,
		Out:       os.Stdout,
		ExportDir: cfg.Portal.ExportDir,
	}
	if fd := int(os.Stdin.Fd()); term.IsTerminal(fd) {
		opts.ReadPassword = func() ([]byte, error) { return term.ReadPassword(fd) }
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := portal.New(opts).Run(ctx); err != nil && ctx.Err() == nil {
		logr.Fatal("portal stopped", zap.Error(err))
	}
}
