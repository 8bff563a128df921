// Package dependence routes named method calls to providers chosen at call
// time.
//
// # Overview
//
// A type declares the operations it depends on by name. Each declaration has
// a provider, and every call goes through one entry point that looks the
// provider up, works out how to reach the real implementation and calls it.
// Swapping the provider (in a test, say) changes where the next call goes
// without touching the type.
//
// # Providers
//
//	// Factory: a zero-argument func returning the object that does the work
//	clockDeps.Declare("Now", dependence.As(func() Clock { return SystemClock{} }))
//
//	// Builder block, same thing without the type ceremony
//	clockDeps.Declare("Now", dependence.Build(func() any { return SystemClock{} }))
//
//	// Responder: an object that has the method itself
//	shopDeps.Declare("BuyStocks", dependence.As(broker))
//
//	// Self-delegate: the owning type's own method of the same name
//	billingDeps.Declare("Charge", dependence.As(dependence.Instance))
//
// Raw values are classified once, when they are declared or set, in this
// order: zero-argument func, value with a method of that name, Instance.
// Anything else is kept as an unresolvable provider and fails on every call.
//
// # Calling
//
//	out, err := billingDeps.Invoke(b, "Charge", 10)      // any
//	msg, err := dependence.Call[string](billingDeps, b, "Charge", 10)
//
//	deps := billingDeps.Bind(b)
//	out, err = deps.Invoke("Charge", 10)
//
// A self-delegate reaches T's own method, captured when the name was first
// declared. A wrapper method that itself calls Invoke with the same name
// would call back into itself, so keep such wrappers under another name.
//
// # Swapping
//
//	billingDeps.Set("Charge", fakeGateway)
//
// # Errors
//
// Declare fails with *DeclarationError. Invoke fails with *ResolutionError
// when the provider cannot be routed, *InvocationArityError when the target
// is called with the wrong number of arguments and *InvocationTypeError when
// an argument has the wrong type. Errors returned by the target are passed
// through as they are.
package dependence
