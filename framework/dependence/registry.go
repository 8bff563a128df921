package dependence

import (
	"go/token"
	"reflect"
	"sort"
	"sync"

	"go.uber.org/zap"
)

// Spec is one declared dependency and its current provider.
type Spec struct {
	Name     string
	Provider Provider
}

// ── Registry ──────────────────────────────────────────────────────────────────

// Registry holds the dependencies declared for the owning type T. One
// registry is shared by every instance of T.
//
// Declarations are expected to happen while T is being set up; after that
// the registry is safe for any number of concurrent Invoke calls, and Set
// may swap a provider at any time.
type Registry[T any] struct {
	mu sync.RWMutex

	owner reflect.Type

	// name → current provider
	providers map[string]Provider

	// name → method of T shadowed by the declaration
	originals map[string]reflect.Method

	logger *zap.Logger
	trace  bool
}

// Option configures a Registry.
type Option func(*options)

type options struct {
	logger *zap.Logger
	trace  bool
}

// WithLogger sets the logger used for declarations, swaps and failures.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithTrace logs every dispatch at debug level.
func WithTrace(on bool) Option {
	return func(o *options) { o.trace = on }
}

// New creates an empty registry for T.
//
//	var billingDeps = dependence.New[*Billing]()
func New[T any](opts ...Option) *Registry[T] {
	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}

	owner := reflect.TypeFor[T]()
	return &Registry[T]{
		owner:     owner,
		providers: make(map[string]Provider),
		originals: make(map[string]reflect.Method),
		logger:    o.logger.With(zap.Stringer("owner", owner)),
		trace:     o.trace,
	}
}

// ── Declaration ───────────────────────────────────────────────────────────────

// DeclareOption supplies the provider for a declaration.
type DeclareOption func(*declaration)

type declaration struct {
	as    any
	build func() any
}

// As declares an explicit provider value. It is classified once, here.
func As(provider any) DeclareOption {
	return func(d *declaration) { d.as = provider }
}

// Build declares a builder; the dependency is served by whatever it returns.
func Build(build func() any) DeclareOption {
	return func(d *declaration) { d.build = build }
}

// Declare registers the dependency name for T. Either As or Build must be
// given; As wins when both are. Declaring a name again replaces its provider
// but keeps the original captured by the first declaration.
func (r *Registry[T]) Declare(name string, opts ...DeclareOption) error {
	if !token.IsIdentifier(name) || !token.IsExported(name) {
		return &DeclarationError{Name: name, Err: ErrInvalidName}
	}

	var d declaration
	for _, opt := range opts {
		opt(&d)
	}

	var p Provider
	switch {
	case d.as != nil:
		p = Classify(name, d.as)
	case d.build != nil:
		p = Factory(d.build)
	default:
		return &DeclarationError{Name: name, Err: ErrMissingProvider}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, declared := r.providers[name]; !declared {
		r.capture(name)
	}
	r.providers[name] = p

	r.logger.Debug("dependency declared",
		zap.String("dependency", name),
		zap.Stringer("strategy", p.Strategy()))
	return nil
}

// MustDeclare is like Declare but panics on error.
func (r *Registry[T]) MustDeclare(name string, opts ...DeclareOption) {
	if err := r.Declare(name, opts...); err != nil {
		panic(err)
	}
}

// capture stores T's own method called name, if any (must hold mu.Lock).
func (r *Registry[T]) capture(name string) {
	if r.owner.Kind() == reflect.Interface {
		return
	}
	if _, ok := r.originals[name]; ok {
		return
	}
	m, ok := r.owner.MethodByName(name)
	if !ok {
		return
	}
	r.originals[name] = m
	r.logger.Debug("original captured", zap.String("dependency", name))
}

// ── Current providers ─────────────────────────────────────────────────────────

// Set swaps the provider of an already declared dependency. Calls issued
// after Set returns see the new provider.
//
//	billingDeps.Set("Charge", fakeGateway)
func (r *Registry[T]) Set(name string, provider any) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.providers[name]; !ok {
		return &ResolutionError{Name: name, Err: ErrNotDeclared}
	}
	p := Classify(name, provider)
	r.providers[name] = p

	r.logger.Debug("provider swapped",
		zap.String("dependency", name),
		zap.Stringer("strategy", p.Strategy()))
	return nil
}

// Lookup returns the current provider for name.
func (r *Registry[T]) Lookup(name string) (Provider, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.providers[name]
	return p, ok
}

// Declared reports whether name has been declared.
func (r *Registry[T]) Declared(name string) bool {
	_, ok := r.Lookup(name)
	return ok
}

// Original returns the method captured for name when it was first declared.
func (r *Registry[T]) Original(name string) (reflect.Method, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.originals[name]
	return m, ok
}

// Names returns the declared dependency names, sorted.
func (r *Registry[T]) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.providers))
	for name := range r.providers {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Specs returns a snapshot of every declaration, sorted by name.
func (r *Registry[T]) Specs() []Spec {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Spec, 0, len(r.providers))
	for name, p := range r.providers {
		out = append(out, Spec{Name: name, Provider: p})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Owner returns the reflected owning type.
func (r *Registry[T]) Owner() reflect.Type { return r.owner }

// Len returns the number of declared dependencies.
func (r *Registry[T]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.providers)
}
