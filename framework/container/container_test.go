package container_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/km-arc/go-dependence/framework/container"
	"github.com/km-arc/go-dependence/framework/dependence"
)

// ── stub owners ───────────────────────────────────────────────────────────────

type billing struct{}

func (*billing) Charge(amount int) string { return fmt.Sprintf("charged %d", amount) }

type gateway struct{}

func (gateway) Charge(amount int) string { return fmt.Sprintf("gateway charged %d", amount) }

type scheduler struct{}

type reports struct{}

func (reports) Generate() string { return "report" }

var billingKey = container.TypeKey((*billing)(nil))

// ── For ───────────────────────────────────────────────────────────────────────

func TestFor_CreatesOnce(t *testing.T) {
	c := container.New()

	first := container.For[*billing](c)
	second := container.For[*billing](c)

	assert.Same(t, first, second)
	assert.Equal(t, []string{billingKey}, c.Keys())
	assert.True(t, c.Bound(billingKey))
}

func TestFor_TypeKey(t *testing.T) {
	assert.Equal(t, "github.com/km-arc/go-dependence/framework/container_test.billing", billingKey)
	assert.Equal(t, billingKey, container.TypeKey(billing{}))
}

func TestFor_PointerAndValueShareKey(t *testing.T) {
	c := container.New()
	container.For[*billing](c)

	assert.PanicsWithValue(t,
		"container: For[container_test.billing]: ["+billingKey+"] holds a registry for *container_test.billing",
		func() { container.For[billing](c) })
}

func TestFor_PassesLoggerToRegistries(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	c := container.New(container.WithLogger(zap.New(core)), container.WithTrace(true))

	deps := container.For[*billing](c)
	deps.MustDeclare("Charge", dependence.As(dependence.Instance))
	_, err := deps.Invoke(&billing{}, "Charge", 1)
	require.NoError(t, err)

	assert.Equal(t, 1, logs.FilterMessage("dependency declared").Len())
	assert.Equal(t, 1, logs.FilterMessage("dispatch").Len())
}

func TestFor_AfterCreating(t *testing.T) {
	c := container.New()
	var created []string
	c.AfterCreating(func(key string, table container.Table) {
		created = append(created, key)
		assert.Empty(t, table.Names())
	})

	container.For[*billing](c)
	container.For[*billing](c)
	container.For[*scheduler](c)

	assert.Equal(t, []string{billingKey, container.TypeKey((*scheduler)(nil))}, created)
}

// ── Register / Alias ──────────────────────────────────────────────────────────

func TestRegister_ExistingRegistry(t *testing.T) {
	c := container.New()
	deps := dependence.New[*billing]()
	deps.MustDeclare("Charge", dependence.As(dependence.Instance))

	c.Register(billingKey, deps)

	assert.Same(t, deps, container.For[*billing](c))
	table, ok := c.Table(billingKey)
	require.True(t, ok)
	assert.Equal(t, []string{"Charge"}, table.Names())
}

func TestAlias(t *testing.T) {
	c := container.New()
	deps := container.For[*billing](c)
	c.Alias(billingKey, "billing")

	table, ok := c.Table("billing")
	require.True(t, ok)
	assert.Same(t, deps, table)
}

func TestAlias_SelfPanics(t *testing.T) {
	c := container.New()
	assert.Panics(t, func() { c.Alias("billing", "billing") })
}

// ── Swap ──────────────────────────────────────────────────────────────────────

func TestSwap_ChangesDispatchAndFiresRebound(t *testing.T) {
	c := container.New()
	deps := container.For[*billing](c)
	deps.MustDeclare("Charge", dependence.As(dependence.Instance))

	var rebound []dependence.Strategy
	c.Rebinding(billingKey, func(name string, p dependence.Provider) {
		assert.Equal(t, "Charge", name)
		rebound = append(rebound, p.Strategy())
	})

	require.NoError(t, c.Swap(billingKey, "Charge", gateway{}))

	got, err := dependence.Call[string](deps, &billing{}, "Charge", 7)
	require.NoError(t, err)
	assert.Equal(t, "gateway charged 7", got)
	assert.Equal(t, []dependence.Strategy{dependence.StrategyResponder}, rebound)
}

func TestSwap_ThroughAlias(t *testing.T) {
	c := container.New()
	container.For[*billing](c).MustDeclare("Charge", dependence.As(dependence.Instance))
	c.Alias(billingKey, "billing")

	fired := 0
	c.Rebinding("billing", func(string, dependence.Provider) { fired++ })

	require.NoError(t, c.Swap(billingKey, "Charge", gateway{}))
	assert.Equal(t, 1, fired)
}

func TestSwap_Errors(t *testing.T) {
	c := container.New()
	container.For[*billing](c)

	fired := false
	c.Rebinding(billingKey, func(string, dependence.Provider) { fired = true })

	err := c.Swap("unknown", "Charge", gateway{})
	assert.Error(t, err)

	err = c.Swap(billingKey, "Charge", gateway{})
	assert.True(t, errors.Is(err, dependence.ErrNotDeclared))
	assert.False(t, fired)
}

// ── Forget / Flush ────────────────────────────────────────────────────────────

func TestForget(t *testing.T) {
	c := container.New()
	container.For[*billing](c)

	c.Forget(billingKey)

	assert.False(t, c.Bound(billingKey))
	assert.Empty(t, c.Keys())
}

func TestFlush(t *testing.T) {
	c := container.New()
	container.For[*billing](c)
	container.For[*scheduler](c)
	c.Alias(billingKey, "billing")

	c.Flush()

	assert.Empty(t, c.Keys())
	_, ok := c.Table("billing")
	assert.False(t, ok)
}

// ── When ──────────────────────────────────────────────────────────────────────

func TestWhen_GiveSelf(t *testing.T) {
	c := container.New()
	require.NoError(t, container.When[*billing](c).Needs("Charge").GiveSelf())

	got, err := dependence.Call[string](container.For[*billing](c), &billing{}, "Charge", 10)
	require.NoError(t, err)
	assert.Equal(t, "charged 10", got)
}

func TestWhen_Give(t *testing.T) {
	c := container.New()
	require.NoError(t, container.When[*scheduler](c).Needs("Generate").Give(func() any { return reports{} }))

	p, ok := container.For[*scheduler](c).Lookup("Generate")
	require.True(t, ok)
	assert.Equal(t, dependence.StrategyFactory, p.Strategy())

	got, err := container.For[*scheduler](c).Invoke(&scheduler{}, "Generate")
	require.NoError(t, err)
	assert.Equal(t, "report", got)
}

func TestWhen_GiveValue(t *testing.T) {
	c := container.New()
	require.NoError(t, container.When[*billing](c).Needs("Charge").GiveValue(gateway{}))

	p, _ := container.For[*billing](c).Lookup("Charge")
	assert.Equal(t, dependence.StrategyResponder, p.Strategy())
}

func TestWhen_MissingProvider(t *testing.T) {
	c := container.New()
	err := container.When[*billing](c).Needs("Charge").GiveValue(nil)

	var declErr *dependence.DeclarationError
	require.ErrorAs(t, err, &declErr)
	assert.ErrorIs(t, err, dependence.ErrMissingProvider)
}
