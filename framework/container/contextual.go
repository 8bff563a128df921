package container

import (
	"github.com/km-arc/go-dependence/framework/dependence"
)

// ContextualBuilder implements the fluent declaration API.
//
//	container.When[*Billing](c).Needs("Charge").GiveSelf()
//	container.When[*Scheduler](c).Needs("Now").Give(func() any { return SystemClock{} })
type ContextualBuilder[T any] struct {
	reg   *dependence.Registry[T]
	needs string
}

// When starts a declaration chain for T's registry.
func When[T any](c *Container) *ContextualBuilder[T] {
	return &ContextualBuilder[T]{reg: For[T](c)}
}

// Needs names the dependency being declared.
func (b *ContextualBuilder[T]) Needs(name string) *ContextualBuilder[T] {
	b.needs = name
	return b
}

// Give declares the dependency with a builder; calls go to what it returns.
func (b *ContextualBuilder[T]) Give(build func() any) error {
	return b.reg.Declare(b.needs, dependence.Build(build))
}

// GiveValue declares the dependency with an explicit provider value.
func (b *ContextualBuilder[T]) GiveValue(provider any) error {
	return b.reg.Declare(b.needs, dependence.As(provider))
}

// GiveSelf declares the dependency as a self-delegate.
func (b *ContextualBuilder[T]) GiveSelf() error {
	return b.reg.Declare(b.needs, dependence.As(dependence.Instance))
}
