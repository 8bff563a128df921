package providers

import (
	"go.uber.org/zap"

	"github.com/km-arc/go-dependence/framework/config"
	"github.com/km-arc/go-dependence/framework/container"
	"github.com/km-arc/go-dependence/framework/logging"
)

// ── ConfigServiceProvider ─────────────────────────────────────────────────────

// ConfigServiceProvider loads the application configuration from .env files
// and the environment. Config is filled in by Register.
type ConfigServiceProvider struct {
	container.BaseProvider
	EnvFiles []string

	Config *config.Config
}

func (p *ConfigServiceProvider) Register(_ *container.Container) error {
	if p.Config == nil {
		p.Config = config.Load(p.EnvFiles...)
	}
	return nil
}

// ── LoggingServiceProvider ────────────────────────────────────────────────────

// LoggingServiceProvider builds the application logger and hands it to the
// container, so every registry created afterwards logs through it. Dispatch
// tracing follows DEPENDENCE_TRACE.
//
// Must be registered after ConfigServiceProvider.
type LoggingServiceProvider struct {
	container.BaseProvider
	Config *ConfigServiceProvider

	Logger *zap.Logger
}

func (p *LoggingServiceProvider) Register(app *container.Container) error {
	cfg := p.Config.Config
	if p.Logger == nil {
		l, err := logging.New(cfg)
		if err != nil {
			return err
		}
		p.Logger = l
	}
	app.SetLogger(p.Logger)
	app.SetTrace(cfg.Dependence.Trace)
	return nil
}

func (p *LoggingServiceProvider) Boot(app *container.Container) error {
	p.Logger.Debug("dependency registries ready", zap.Strings("keys", app.Keys()))
	return nil
}
