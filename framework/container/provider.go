package container

import (
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"
)

// ── ServiceProvider interface ─────────────────────────────────────────────────

// ServiceProvider groups the dependency declarations of one or more owning
// types.
//
//	type BillingProvider struct{ container.BaseProvider }
//
//	func (p *BillingProvider) Register(app *container.Container) error {
//	    return container.When[*Billing](app).Needs("Charge").GiveSelf()
//	}
type ServiceProvider interface {
	// Register declares dependencies into the container.
	Register(app *Container) error

	// Boot is called after all eager providers are registered.
	Boot(app *Container) error

	// Provides returns the type keys this provider declares for. Only
	// consulted for deferred providers.
	Provides() []string

	// IsDeferred returns true if Register should wait until one of the
	// Provides() keys is first requested from the container.
	IsDeferred() bool
}

// ── BaseProvider ──────────────────────────────────────────────────────────────

// BaseProvider is an embeddable struct with no-op Boot, Provides and
// IsDeferred.
type BaseProvider struct{}

func (p *BaseProvider) Boot(_ *Container) error { return nil }
func (p *BaseProvider) Provides() []string      { return nil }
func (p *BaseProvider) IsDeferred() bool        { return false }

// ── ProviderRegistry ──────────────────────────────────────────────────────────

// ProviderRegistry registers and boots ServiceProviders, loading deferred
// ones on demand.
type ProviderRegistry struct {
	mu         sync.Mutex
	app        *Container
	eager      []ServiceProvider
	deferred   map[string]ServiceProvider // type key → provider
	registered map[ServiceProvider]bool
	booted     bool
}

// NewProviderRegistry creates a registry bound to app.
func NewProviderRegistry(app *Container) *ProviderRegistry {
	r := &ProviderRegistry{
		app:        app,
		deferred:   make(map[string]ServiceProvider),
		registered: make(map[ServiceProvider]bool),
	}
	app.whenMissing(r.loadDeferred)
	return r
}

// Register adds a provider. Eager providers declare immediately (and boot
// immediately if the registry already booted); deferred ones wait.
func (r *ProviderRegistry) Register(provider ServiceProvider) error {
	r.mu.Lock()
	if r.registered[provider] {
		r.mu.Unlock()
		return nil
	}
	r.registered[provider] = true

	if provider.IsDeferred() {
		for _, key := range provider.Provides() {
			r.deferred[key] = provider
		}
		r.mu.Unlock()
		return nil
	}
	r.eager = append(r.eager, provider)
	booted := r.booted
	r.mu.Unlock()

	if err := provider.Register(r.app); err != nil {
		return fmt.Errorf("register %T: %w", provider, err)
	}
	if booted {
		if err := provider.Boot(r.app); err != nil {
			return fmt.Errorf("boot %T: %w", provider, err)
		}
	}
	return nil
}

// loadDeferred registers (and boots, when due) the deferred provider for key.
func (r *ProviderRegistry) loadDeferred(key string) {
	r.mu.Lock()
	provider, ok := r.deferred[key]
	if !ok {
		r.mu.Unlock()
		return
	}
	for k, p := range r.deferred {
		if p == provider {
			delete(r.deferred, k)
		}
	}
	booted := r.booted
	r.mu.Unlock()

	logger := r.app.Logger()
	if err := provider.Register(r.app); err != nil {
		logger.Error("deferred provider failed to register",
			zap.String("key", key),
			zap.String("provider", fmt.Sprintf("%T", provider)),
			zap.Error(err))
		return
	}
	if booted {
		if err := provider.Boot(r.app); err != nil {
			logger.Error("deferred provider failed to boot",
				zap.String("key", key),
				zap.String("provider", fmt.Sprintf("%T", provider)),
				zap.Error(err))
		}
	}
}

// Boot calls Boot() on all eager providers, stopping at the first error.
func (r *ProviderRegistry) Boot() error {
	r.mu.Lock()
	if r.booted {
		r.mu.Unlock()
		return nil
	}
	r.booted = true
	eager := append([]ServiceProvider(nil), r.eager...)
	r.mu.Unlock()

	for _, provider := range eager {
		if err := provider.Boot(r.app); err != nil {
			return fmt.Errorf("boot %T: %w", provider, err)
		}
	}
	return nil
}

// Booted returns true if Boot() has been called.
func (r *ProviderRegistry) Booted() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.booted
}

// Providers returns all registered eager providers.
func (r *ProviderRegistry) Providers() []ServiceProvider {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]ServiceProvider(nil), r.eager...)
}

// Pending returns the keys of deferred providers not loaded yet, sorted.
func (r *ProviderRegistry) Pending() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.deferred))
	for k := range r.deferred {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
