package dependence

import (
	"fmt"
	"reflect"
)

var errorType = reflect.TypeFor[error]()

// Sentinel is the type of Instance.
type Sentinel string

// Instance declares a self-delegate dependency: calls are routed to the
// owning type's own method of the same name.
//
//	reg.Declare("Charge", dependence.As(dependence.Instance))
const Instance Sentinel = "instance"

// ── Provider variants ─────────────────────────────────────────────────────────

// Provider is the registered value behind a dependency. It is one of
// FactoryProvider, ResponderProvider, SelfProvider or UnresolvableProvider.
type Provider interface {
	Strategy() Strategy
	sealed()
}

// FactoryProvider builds the object that actually performs the operation.
type FactoryProvider struct {
	Build func() (any, error)
}

// ResponderProvider exposes the operation itself.
type ResponderProvider struct {
	Target any
}

// SelfProvider routes to the instance's own implementation.
type SelfProvider struct{}

// UnresolvableProvider wraps a value that none of the other variants accept.
type UnresolvableProvider struct {
	Value any
}

func (FactoryProvider) Strategy() Strategy      { return StrategyFactory }
func (ResponderProvider) Strategy() Strategy    { return StrategyResponder }
func (SelfProvider) Strategy() Strategy         { return StrategySelf }
func (UnresolvableProvider) Strategy() Strategy { return StrategyUnresolvable }

func (FactoryProvider) sealed()      {}
func (ResponderProvider) sealed()    {}
func (SelfProvider) sealed()         {}
func (UnresolvableProvider) sealed() {}

// Factory wraps a builder that cannot fail.
func Factory(build func() any) FactoryProvider {
	return FactoryProvider{Build: func() (any, error) { return build(), nil }}
}

// Responder wraps an object that implements the dependency directly.
func Responder(target any) ResponderProvider {
	return ResponderProvider{Target: target}
}

// Self returns the self-delegate provider.
func Self() SelfProvider { return SelfProvider{} }

// ── Classifier ────────────────────────────────────────────────────────────────

// Classify turns a raw provider value into a Provider. Checks run in order and
// the first match wins:
//
//  1. a func with no parameters returning T or (T, error) is a factory, even
//     when it also has a method called name
//  2. a value with a method called name is a responder
//  3. Instance is the self-delegate sentinel
//  4. anything else is unresolvable
//
// Values that already are a Provider are returned unchanged.
func Classify(name string, value any) Provider {
	if p, ok := value.(Provider); ok {
		return p
	}
	if value == nil {
		return UnresolvableProvider{}
	}

	v := reflect.ValueOf(value)
	if build, ok := factoryOf(v); ok {
		return FactoryProvider{Build: build}
	}
	if v.MethodByName(name).IsValid() {
		return ResponderProvider{Target: value}
	}
	if s, ok := value.(Sentinel); ok && s == Instance {
		return SelfProvider{}
	}
	return UnresolvableProvider{Value: value}
}

// factoryOf adapts a zero-argument func to a builder.
func factoryOf(v reflect.Value) (func() (any, error), bool) {
	t := v.Type()
	if t.Kind() != reflect.Func || v.IsNil() || t.NumIn() != 0 || t.IsVariadic() {
		return nil, false
	}
	switch t.NumOut() {
	case 1:
	case 2:
		if t.Out(1) != errorType {
			return nil, false
		}
	default:
		return nil, false
	}

	return func() (any, error) {
		out := v.Call(nil)
		if len(out) == 2 && !out[1].IsNil() {
			return nil, out[1].Interface().(error)
		}
		return out[0].Interface(), nil
	}, true
}

// Describe renders the shape of a provider for diagnostics.
func Describe(p Provider) string {
	switch p := p.(type) {
	case FactoryProvider:
		return "factory"
	case ResponderProvider:
		return fmt.Sprintf("responder %T", p.Target)
	case SelfProvider:
		return "self-delegate"
	case UnresolvableProvider:
		if p.Value == nil {
			return "nil"
		}
		return fmt.Sprintf("%T", p.Value)
	default:
		return fmt.Sprintf("%T", p)
	}
}
