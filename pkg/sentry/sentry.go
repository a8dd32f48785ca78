// Package sentry wraps sentry-go so callers don't need to check whether reporting is enabled.
package sentry

import (
	"time"

	"github.com/getsentry/sentry-go"
	"go.uber.org/zap"

	"github.com/d60-Lab/chirp/config"
	"github.com/d60-Lab/chirp/pkg/logger"
)

// Service is a no-op when no DSN is configured.
type Service struct {
	initialized bool
}

// New initializes the global sentry client from cfg.
func New(cfg config.SentryConfig) *Service {
	if cfg.DSN == "" {
		logger.Info("sentry dsn not set, error reporting disabled")
		return &Service{}
	}

	env := cfg.Environment
	if env == "" {
		env = "development"
	}
	err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.DSN,
		Environment:      env,
		TracesSampleRate: 1.0,
		EnableTracing:    true,
	})
	if err != nil {
		logger.Warn("sentry initialization failed", zap.Error(err))
		return &Service{}
	}

	logger.Info("sentry initialized", zap.String("environment", env))
	return &Service{initialized: true}
}

func (s *Service) Enabled() bool { return s != nil && s.initialized }

func (s *Service) CaptureException(err error) {
	if !s.Enabled() {
		return
	}
	sentry.CaptureException(err)
}

func (s *Service) CaptureMessage(message string) {
	if !s.Enabled() {
		return
	}
	sentry.CaptureMessage(message)
}

// WithScope runs fn on a fresh scope.
func (s *Service) WithScope(fn func(scope *sentry.Scope)) {
	if !s.Enabled() {
		return
	}
	sentry.WithScope(fn)
}

// RecoverPanic reports a recovered panic value.
func (s *Service) RecoverPanic(v any) {
	if !s.Enabled() {
		return
	}
	sentry.CurrentHub().Recover(v)
	sentry.Flush(2 * time.Second)
}

func (s *Service) Flush(timeout time.Duration) bool {
	if !s.Enabled() {
		return true
	}
	return sentry.Flush(timeout)
}

func (s *Service) Close() { s.Flush(2 * time.Second) }
