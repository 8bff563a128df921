package app

import (
	"go.uber.org/zap"

	"github.com/km-arc/go-dependence/framework/config"
	"github.com/km-arc/go-dependence/framework/container"
	"github.com/km-arc/go-dependence/framework/providers"
)

// Application is the top-level application container.
// It embeds the dependency Container and ProviderRegistry so user code can
// call container.For(app.Container) and app.Register() directly.
type Application struct {
	*container.Container
	Providers *container.ProviderRegistry

	config  *providers.ConfigServiceProvider
	logging *providers.LoggingServiceProvider
}

// New creates the application and registers the framework providers.
func New(envFiles ...string) (*Application, error) {
	c := container.New()
	registry := container.NewProviderRegistry(c)

	app := &Application{
		Container: c,
		Providers: registry,
		config:    &providers.ConfigServiceProvider{EnvFiles: envFiles},
	}
	app.logging = &providers.LoggingServiceProvider{Config: app.config}

	if err := registry.Register(app.config); err != nil {
		return nil, err
	}
	if err := registry.Register(app.logging); err != nil {
		return nil, err
	}
	return app, nil
}

// Register adds a ServiceProvider to the application.
func (a *Application) Register(provider container.ServiceProvider) error {
	return a.Providers.Register(provider)
}

// Boot runs the Boot() phase on all providers.
func (a *Application) Boot() error {
	return a.Providers.Boot()
}

// Config returns the loaded configuration.
func (a *Application) Config() *config.Config { return a.config.Config }

// Logger returns the application logger.
func (a *Application) Logger() *zap.Logger { return a.logging.Logger }

// Shutdown flushes the logger.
func (a *Application) Shutdown() {
	_ = a.Logger().Sync()
}

// Environment returns APP_ENV value.
func (a *Application) Environment() string { return a.Config().App.Env }
func (a *Application) IsLocal() bool       { return a.Environment() == "local" }
func (a *Application) IsProduction() bool  { return a.Environment() == "production" }
func (a *Application) IsTesting() bool     { return a.Environment() == "testing" }
func (a *Application) IsDebug() bool       { return a.Config().App.Debug }
