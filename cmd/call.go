package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/jmehdipour/matcha-call/internal/config"
	"github.com/jmehdipour/matcha-call/internal/logger"
	"github.com/jmehdipour/matcha-call/internal/metrics"
	"github.com/jmehdipour/matcha-call/internal/trigger"
	"github.com/jmehdipour/matcha-call/internal/twilio"
	"github.com/jmehdipour/matcha-call/internal/util"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

func runCall(ctx context.Context, envFile string, stdout io.Writer) error {
	// 1) config (.env merged into the environment first)
	cfg, err := config.Load(envFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := logger.Init(cfg.Log.Level); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logger.Log.Sync() }()

	log := logger.Log.With(zap.String("run_id", util.NewRunID()))

	reg := prometheus.NewRegistry()
	metrics.MustRegister(reg)

	// 2) client + trigger
	client := twilio.NewClient(twilio.Options{
		BaseURL:    cfg.Twilio.BaseURL,
		AccountSID: cfg.Twilio.AccountSID,
		AuthToken:  cfg.Twilio.AuthToken,
		Timeout:    cfg.Twilio.Timeout,
	})

	_, callErr := trigger.New(client, cfg.Twilio, stdout, log).Run(ctx)
	if callErr != nil {
		log.Error("call failed", zap.Error(callErr))
	}

	// 3) metrics push is best effort and never changes the exit code
	if cfg.Metrics.PushgatewayURL != "" {
		if err := metrics.Push(ctx, cfg.Metrics.PushgatewayURL, cfg.Metrics.Job, reg); err != nil {
			log.Warn("metrics push failed", zap.Error(err))
		}
	}

	return callErr
}
