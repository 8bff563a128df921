package dependence_test

import (
	"errors"
	"fmt"
	"time"
)

// ── stub owners and providers ─────────────────────────────────────────────────

type clock interface {
	Now() time.Time
}

type fixedClock struct{ at time.Time }

func (c fixedClock) Now() time.Time { return c.at }

// scheduler depends on a clock but has no Now of its own.
type scheduler struct{}

// billing has its own Charge, which a self-delegate declaration must reach.
type billing struct {
	charged []int
}

func (b *billing) Charge(amount int) string {
	b.charged = append(b.charged, amount)
	return fmt.Sprintf("charged %d", amount)
}

// Refund exists so billing can be used as a responder for another owner.
func (b *billing) Refund(amount int) (string, error) {
	if amount <= 0 {
		return "", errNothingToRefund
	}
	return fmt.Sprintf("refunded %d", amount), nil
}

var errNothingToRefund = errors.New("nothing to refund")

type broker struct{}

func (broker) BuyStocks(sym string, price float64) string {
	return fmt.Sprintf("buying %s at price %.2f", sym, price)
}

type lazyBroker struct{}

func (lazyBroker) BuyStocks(sym string) string {
	return "buying undeterminate amounts of shares of " + sym
}

// wallet is reached through an interface-typed owner, so nothing is captured.
type wallet struct{}

func (wallet) Pay(to string) string { return "paid " + to }

type adder struct{}

func (adder) Sum(nums ...int) int {
	total := 0
	for _, n := range nums {
		total += n
	}
	return total
}

func (adder) Split(n int) (int, int) { return n / 2, n - n/2 }

func (adder) Reset() {}

func (adder) Describe(p *time.Location) string {
	if p == nil {
		return "no location"
	}
	return p.String()
}

// clockFunc is callable and also has Now; it must classify as a factory.
type clockFunc func() clock

func (f clockFunc) Now() time.Time { panic("responder path taken") }

type kernel struct{}

func (kernel) Rest() string { panic("should not be called") }
