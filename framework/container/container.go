package container

import (
	"fmt"
	"reflect"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/km-arc/go-dependence/framework/dependence"
)

// ── Table ─────────────────────────────────────────────────────────────────────

// Table is the type-erased view of a *dependence.Registry[T] the container
// stores.
type Table interface {
	Owner() reflect.Type
	Names() []string
	Specs() []dependence.Spec
	Declared(name string) bool
	Lookup(name string) (dependence.Provider, bool)
	Set(name string, provider any) error
}

// ReboundFunc is called after a provider was swapped through the container.
type ReboundFunc func(name string, provider dependence.Provider)

// ── Container ─────────────────────────────────────────────────────────────────

// Container keeps the dependency registries of every owning type in the
// application, keyed by type key.
//
// It supports:
//   - For / Register / Table (get or create a type's registry)
//   - Swap (replace a provider for test-time substitution)
//   - Alias
//   - Rebinding callbacks (fired after Swap)
//   - AfterCreating callbacks (fired when For creates a registry)
//   - Deferred service providers (see ProviderRegistry)
type Container struct {
	mu sync.RWMutex

	// key → registry
	tables map[string]Table

	// alias → key (canonical key)
	aliases map[string]string

	// key → rebound callbacks
	reboundCallbacks map[string][]ReboundFunc

	afterCreating []func(key string, table Table)

	// consulted when a key has no table yet
	missing []func(key string)

	logger *zap.Logger
	trace  bool
}

// Option configures a Container.
type Option func(*Container)

// WithLogger sets the logger handed to every registry created by For.
func WithLogger(l *zap.Logger) Option {
	return func(c *Container) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithTrace turns on dispatch tracing for registries created by For.
func WithTrace(on bool) Option {
	return func(c *Container) { c.trace = on }
}

// New creates an empty container.
func New(opts ...Option) *Container {
	c := &Container{
		tables:           make(map[string]Table),
		aliases:          make(map[string]string),
		reboundCallbacks: make(map[string][]ReboundFunc),
		logger:           zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetLogger replaces the logger used for registries created from now on.
func (c *Container) SetLogger(l *zap.Logger) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if l != nil {
		c.logger = l
	}
}

// SetTrace toggles dispatch tracing for registries created from now on.
func (c *Container) SetTrace(on bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.trace = on
}

// Logger returns the container's logger.
func (c *Container) Logger() *zap.Logger {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.logger
}

// ── Registration ──────────────────────────────────────────────────────────────

// For returns the registry for T, creating it on first use. Deferred service
// providers that provide T's key are loaded before a new registry is made.
//
// T and *T map to the same key, so only one of them may own a registry in a
// container. Asking for the other panics.
//
//	var deps = container.For[*Billing](app)
//	deps.MustDeclare("Charge", dependence.As(dependence.Instance))
func For[T any](c *Container) *dependence.Registry[T] {
	key := typeKey(reflect.TypeFor[T]())

	if t, ok := c.Table(key); ok {
		return mustRegistry[T](key, t)
	}

	c.mu.Lock()
	if t, ok := c.tables[c.canonical(key)]; ok {
		c.mu.Unlock()
		return mustRegistry[T](key, t)
	}
	reg := dependence.New[T](
		dependence.WithLogger(c.logger),
		dependence.WithTrace(c.trace),
	)
	c.tables[c.canonical(key)] = reg
	cbs := c.afterCreating
	c.mu.Unlock()

	for _, cb := range cbs {
		cb(key, reg)
	}
	return reg
}

func mustRegistry[T any](key string, t Table) *dependence.Registry[T] {
	reg, ok := t.(*dependence.Registry[T])
	if !ok {
		panic(fmt.Sprintf("container: For[%s]: [%s] holds a registry for %s", reflect.TypeFor[T](), key, t.Owner()))
	}
	return reg
}

// Register stores a registry under key, replacing whatever was there.
//
//	c.Register(container.TypeKey((*Billing)(nil)), billingDeps)
func (c *Container) Register(key string, table Table) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tables[c.canonical(key)] = table
}

// Alias registers an alternative name for a key.
func (c *Container) Alias(key, alias string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if key == alias {
		panic(fmt.Sprintf("container: [%s] is aliased to itself", key))
	}
	c.aliases[alias] = c.canonical(key)
}

// ── Lookup ────────────────────────────────────────────────────────────────────

// Table returns the registry stored under key (or an alias of it).
func (c *Container) Table(key string) (Table, bool) {
	if t, ok := c.table(key); ok {
		return t, true
	}

	c.mu.RLock()
	hooks := c.missing
	canonical := c.canonical(key)
	c.mu.RUnlock()

	for _, hook := range hooks {
		hook(canonical)
	}
	return c.table(key)
}

func (c *Container) table(key string) (Table, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.tables[c.canonical(key)]
	return t, ok
}

// Bound returns true if a registry is stored under key.
func (c *Container) Bound(key string) bool {
	_, ok := c.table(key)
	return ok
}

// Keys returns every registered key, sorted.
func (c *Container) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, 0, len(c.tables))
	for k := range c.tables {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// ── Substitution ──────────────────────────────────────────────────────────────

// Swap replaces the provider of a declared dependency on the registry stored
// under key and fires the key's rebound callbacks.
//
//	c.Swap(container.TypeKey((*Billing)(nil)), "Charge", fakeGateway)
func (c *Container) Swap(key, name string, provider any) error {
	t, ok := c.Table(key)
	if !ok {
		return fmt.Errorf("container: no registry for [%s]", key)
	}
	if err := t.Set(name, provider); err != nil {
		return err
	}

	p, _ := t.Lookup(name)
	c.fireRebound(key, name, p)
	return nil
}

// ── Removal ───────────────────────────────────────────────────────────────────

// Forget removes the registry stored under key.
func (c *Container) Forget(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.tables, c.canonical(key))
}

// Flush resets the entire container. Callbacks and missing-key hooks stay.
func (c *Container) Flush() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tables = make(map[string]Table)
	c.aliases = make(map[string]string)
}

// canonical resolves an alias to its canonical key.
func (c *Container) canonical(key string) string {
	if target, ok := c.aliases[key]; ok {
		return target
	}
	return key
}

// ── Callbacks ─────────────────────────────────────────────────────────────────

// Rebinding registers a callback fired whenever Swap replaces a provider on
// the registry under key.
func (c *Container) Rebinding(key string, cb ReboundFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	canonical := c.canonical(key)
	c.reboundCallbacks[canonical] = append(c.reboundCallbacks[canonical], cb)
}

// AfterCreating registers a callback fired after For creates a registry.
func (c *Container) AfterCreating(cb func(key string, table Table)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.afterCreating = append(c.afterCreating, cb)
}

// whenMissing registers a hook consulted when a key has no registry.
func (c *Container) whenMissing(hook func(key string)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.missing = append(c.missing, hook)
}

func (c *Container) fireRebound(key, name string, p dependence.Provider) {
	c.mu.RLock()
	cbs := c.reboundCallbacks[c.canonical(key)]
	logger := c.logger
	c.mu.RUnlock()

	logger.Debug("provider rebound",
		zap.String("key", key),
		zap.String("dependency", name),
		zap.Stringer("strategy", p.Strategy()))
	for _, cb := range cbs {
		cb(name, p)
	}
}

// ── Reflect helpers ───────────────────────────────────────────────────────────

// TypeKey returns the package-qualified type name of v, the key For uses for
// v's type. Pass a typed nil pointer for interfaces.
//
//	key := container.TypeKey((*Billing)(nil))  // "example.com/shop.Billing"
func TypeKey(v any) string {
	return typeKey(reflect.TypeOf(v))
}

func typeKey(t reflect.Type) string {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Name() == "" {
		return t.String()
	}
	return t.PkgPath() + "." + t.Name()
}
