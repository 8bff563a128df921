package dependence

import (
	"fmt"
	"reflect"

	"go.uber.org/zap"
)

// ── Entry points ──────────────────────────────────────────────────────────────

// Invoker routes named dependency calls for one instance.
type Invoker interface {
	Invoke(name string, args ...any) (any, error)
}

type bound[T any] struct {
	reg      *Registry[T]
	instance T
}

func (b bound[T]) Invoke(name string, args ...any) (any, error) {
	return b.reg.Invoke(b.instance, name, args...)
}

// Bind returns an Invoker that dispatches on behalf of instance. Owning types
// usually keep one in a field and route their dependency calls through it:
//
//	func NewBilling() *Billing {
//	    b := &Billing{}
//	    b.deps = billingDeps.Bind(b)
//	    return b
//	}
func (r *Registry[T]) Bind(instance T) Invoker {
	return bound[T]{reg: r, instance: instance}
}

// Invoke calls the dependency name on behalf of instance with args.
//
// The current provider decides where the call goes: a factory is built and
// its product receives the call, a responder receives it directly and a
// self-delegate sends it to instance's own method. Errors returned by the
// target itself are passed through untouched.
func (r *Registry[T]) Invoke(instance T, name string, args ...any) (any, error) {
	p, ok := r.Lookup(name)
	if !ok {
		return nil, r.fail(&ResolutionError{Name: name, Err: ErrNotDeclared})
	}

	if r.trace {
		r.logger.Debug("dispatch",
			zap.String("dependency", name),
			zap.Stringer("strategy", p.Strategy()),
			zap.Int("args", len(args)))
	}

	switch p := p.(type) {
	case FactoryProvider:
		if p.Build == nil {
			return nil, r.fail(&ResolutionError{Name: name, Shape: Describe(p), Err: ErrIncompatibleProvider})
		}
		target, err := p.Build()
		if err != nil {
			return nil, r.fail(&ResolutionError{Name: name, Shape: Describe(p), Err: err})
		}
		if target == nil {
			return nil, r.fail(&ResolutionError{Name: name, Shape: Describe(p), Err: ErrNilTarget})
		}
		return r.send(name, reflect.ValueOf(target), args)

	case ResponderProvider:
		if p.Target == nil {
			return nil, r.fail(&ResolutionError{Name: name, Shape: "nil", Err: ErrIncompatibleProvider})
		}
		return r.send(name, reflect.ValueOf(p.Target), args)

	case SelfProvider:
		return r.self(instance, name, args)

	default:
		return nil, r.fail(&ResolutionError{Name: name, Shape: Describe(p), Err: ErrIncompatibleProvider})
	}
}

// Call invokes a dependency and asserts its single result to R.
//
//	msg, err := dependence.Call[string](billingDeps, b, "Charge", 10)
func Call[R, T any](reg *Registry[T], instance T, name string, args ...any) (R, error) {
	var zero R
	out, err := reg.Invoke(instance, name, args...)
	if out == nil {
		return zero, err
	}
	v, ok := out.(R)
	if !ok {
		if err != nil {
			return zero, err
		}
		return zero, &InvocationTypeError{
			Name:  name,
			Index: ResultIndex,
			Want:  reflect.TypeFor[R](),
			Got:   reflect.TypeOf(out),
		}
	}
	return v, err
}

// ── Paths ─────────────────────────────────────────────────────────────────────

// send calls target's method called name.
func (r *Registry[T]) send(name string, target reflect.Value, args []any) (any, error) {
	if isNil(target) {
		return nil, r.fail(&ResolutionError{Name: name, Shape: target.Type().String(), Err: ErrNilTarget})
	}
	m := target.MethodByName(name)
	if !m.IsValid() {
		return nil, r.fail(&ResolutionError{Name: name, Shape: target.Type().String(), Err: ErrNoMethod})
	}
	return call(name, m, nil, args)
}

// self prefers the captured original and falls back to whatever method the
// instance currently has under name.
func (r *Registry[T]) self(instance T, name string, args []any) (any, error) {
	v := reflect.ValueOf(instance)
	if !v.IsValid() || isNil(v) {
		return nil, r.fail(&ResolutionError{Name: name, Shape: "self-delegate", Err: ErrNilTarget})
	}
	if m, ok := r.Original(name); ok {
		return call(name, m.Func, []reflect.Value{v}, args)
	}
	return r.send(name, v, args)
}

func (r *Registry[T]) fail(err *ResolutionError) error {
	r.logger.Warn("dependence resolution failed",
		zap.String("dependency", err.Name),
		zap.String("shape", err.Shape),
		zap.Error(err.Err))
	return err
}

// ── Reflection helpers ────────────────────────────────────────────────────────

// isNil reports a nil pointer or interface. Methods reached through one
// dereference their receiver.
func isNil(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface:
		return v.IsNil()
	}
	return false
}

// call checks args against fn's signature and calls it. leading values (a
// receiver, for method expressions) are passed before args and are not
// counted as arguments.
func call(name string, fn reflect.Value, leading []reflect.Value, args []any) (any, error) {
	t := fn.Type()
	offset := len(leading)
	params := t.NumIn() - offset

	if t.IsVariadic() {
		if len(args) < params-1 {
			return nil, &InvocationArityError{
				Name:  name,
				Given: len(args),
				Err:   fmt.Errorf("%s wants at least %d arguments", t, params-1),
			}
		}
	} else if len(args) != params {
		return nil, &InvocationArityError{
			Name:  name,
			Given: len(args),
			Err:   fmt.Errorf("%s wants %d arguments", t, params),
		}
	}

	in := make([]reflect.Value, 0, offset+len(args))
	in = append(in, leading...)
	for i, a := range args {
		want := paramType(t, offset+i)
		v, ok := argValue(a, want)
		if !ok {
			return nil, &InvocationTypeError{Name: name, Index: i, Want: want, Got: reflect.TypeOf(a)}
		}
		in = append(in, v)
	}

	return results(fn.Call(in))
}

func paramType(t reflect.Type, i int) reflect.Type {
	if last := t.NumIn() - 1; t.IsVariadic() && i >= last {
		return t.In(last).Elem()
	}
	return t.In(i)
}

func argValue(a any, want reflect.Type) (reflect.Value, bool) {
	if a == nil {
		switch want.Kind() {
		case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Pointer, reflect.Slice:
			return reflect.Zero(want), true
		default:
			return reflect.Value{}, false
		}
	}
	v := reflect.ValueOf(a)
	if !v.Type().AssignableTo(want) {
		return reflect.Value{}, false
	}
	return v, true
}

// results flattens a call's return values. A trailing error is split off;
// a single remaining value is returned as is, several as []any.
func results(out []reflect.Value) (any, error) {
	var err error
	if n := len(out); n > 0 && out[n-1].Type() == errorType {
		if !out[n-1].IsNil() {
			err = out[n-1].Interface().(error)
		}
		out = out[:n-1]
	}

	switch len(out) {
	case 0:
		return nil, err
	case 1:
		return out[0].Interface(), err
	}
	values := make([]any, len(out))
	for i, v := range out {
		values[i] = v.Interface()
	}
	return values, err
}
