package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/km-arc/go-dependence/framework/app"
	"github.com/km-arc/go-dependence/framework/container"
	"github.com/km-arc/go-dependence/framework/dependence"
)

// ── Domain ────────────────────────────────────────────────────────────────────

// ImportantClock is the dangerous global the scheduler should not call directly.
type ImportantClock struct{}

func (ImportantClock) Now() time.Time { return time.Now() }

// Scheduler asks for the time through its Now dependency.
type Scheduler struct {
	deps dependence.Invoker
}

func NewScheduler(c *container.Container) *Scheduler {
	s := &Scheduler{}
	s.deps = container.For[*Scheduler](c).Bind(s)
	return s
}

func (s *Scheduler) Now() (time.Time, error) {
	out, err := s.deps.Invoke("Now")
	if err != nil {
		return time.Time{}, err
	}
	return out.(time.Time), nil
}

// Billing charges through its own Charge unless a gateway is swapped in.
type Billing struct{}

func (b *Billing) Charge(amount int) string { return fmt.Sprintf("charged %d", amount) }

// Broker buys stocks.
type Broker struct{}

func (Broker) BuyStocks(sym string, price float64) string {
	return fmt.Sprintf("buying %s at price %.2f", sym, price)
}

// ── Providers ─────────────────────────────────────────────────────────────────

type DomainServiceProvider struct{ container.BaseProvider }

func (p *DomainServiceProvider) Register(c *container.Container) error {
	if err := container.When[*Scheduler](c).Needs("Now").GiveValue(func() ImportantClock { return ImportantClock{} }); err != nil {
		return err
	}
	if err := container.When[*Billing](c).Needs("Charge").GiveSelf(); err != nil {
		return err
	}
	return container.When[*Billing](c).Needs("BuyStocks").GiveValue(Broker{})
}

// ── Main ──────────────────────────────────────────────────────────────────────

func main() {
	application, err := app.New() // loads .env automatically
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer application.Shutdown()

	if err := application.Register(&DomainServiceProvider{}); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := application.Boot(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := run(application.Logger(), application.Container); err != nil {
		application.Logger().Error("demo", zap.Error(err))
	}
}

// run walks through each dispatch path and logs what came back.
func run(log *zap.Logger, c *container.Container) error {
	// Factory
	now, err := NewScheduler(c).Now()
	log.Info("factory", zap.Time("now", now), zap.Error(err))

	// Self-delegate
	billing := container.For[*Billing](c)
	charged, err := dependence.Call[string](billing, &Billing{}, "Charge", 10)
	log.Info("self-delegate", zap.String("result", charged), zap.Error(err))

	// Responder, called with too few arguments
	_, err = billing.Invoke(&Billing{}, "BuyStocks", "ACME")
	var arityErr *dependence.InvocationArityError
	log.Info("responder arity", zap.Bool("arity", errors.As(err, &arityErr)), zap.Error(err))

	// Unresolvable after a swap
	if err := c.Swap(container.TypeKey((*Billing)(nil)), "Charge", struct{}{}); err != nil {
		return fmt.Errorf("swap Charge: %w", err)
	}
	_, err = billing.Invoke(&Billing{}, "Charge", 10)
	log.Info("unresolvable", zap.Bool("incompatible", errors.Is(err, dependence.ErrIncompatibleProvider)))
	return nil
}
