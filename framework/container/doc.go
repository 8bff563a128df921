// Package container keeps the dependency registries of an application in one
// place and groups their declarations into service providers.
//
// # Overview
//
// Each owning type gets one *dependence.Registry, created on first use by For
// and keyed by the type's package-qualified name. The container hands every
// registry it creates the application logger, so declarations, swaps and
// resolution failures all end up in the same log.
//
// # Registries
//
//	deps := container.For[*Billing](c)
//	deps.MustDeclare("Charge", dependence.As(dependence.Instance))
//
//	// Same thing, fluent
//	container.When[*Billing](c).Needs("Charge").GiveSelf()
//	container.When[*Scheduler](c).Needs("Now").Give(func() any { return SystemClock{} })
//	container.When[*Shop](c).Needs("BuyStocks").GiveValue(broker)
//
// # Substitution
//
// Tests swap providers by key without knowing the owning registry's type:
//
//	key := container.TypeKey((*Billing)(nil))
//	c.Rebinding(key, func(name string, p dependence.Provider) { ... })
//	c.Swap(key, "Charge", fakeGateway)
//
// # Service Providers
//
//	type BillingProvider struct{ container.BaseProvider }
//
//	func (p *BillingProvider) Register(app *container.Container) error {
//	    return container.When[*Billing](app).Needs("Charge").GiveSelf()
//	}
//
//	registry := container.NewProviderRegistry(c)
//	registry.Register(&BillingProvider{})
//	registry.Boot()
//
// # Deferred Providers
//
//	type ReportsProvider struct{ container.BaseProvider }
//
//	func (p *ReportsProvider) IsDeferred() bool   { return true }
//	func (p *ReportsProvider) Provides() []string { return []string{container.TypeKey((*Reports)(nil))} }
//
// A deferred provider registers the first time one of its keys is requested
// through For, When, Table or Swap.
package container
