package dependence_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/go-dependence/framework/dependence"
)

// ── Classify ──────────────────────────────────────────────────────────────────

func TestClassify_Strategies(t *testing.T) {
	tests := []struct {
		name     string
		dep      string
		value    any
		strategy dependence.Strategy
	}{
		{"zero-arg func", "Now", func() clock { return fixedClock{} }, dependence.StrategyFactory},
		{"zero-arg func with error", "Now", func() (clock, error) { return fixedClock{}, nil }, dependence.StrategyFactory},
		{"func with params", "Now", func(int) clock { return fixedClock{} }, dependence.StrategyUnresolvable},
		{"func without results", "Now", func() {}, dependence.StrategyUnresolvable},
		{"func with non-error second result", "Now", func() (clock, int) { return nil, 0 }, dependence.StrategyUnresolvable},
		{"variadic func", "Now", func(...int) clock { return nil }, dependence.StrategyUnresolvable},
		{"responder", "Now", fixedClock{}, dependence.StrategyResponder},
		{"pointer responder", "Charge", &billing{}, dependence.StrategyResponder},
		{"value lacking the method", "Fetch", struct{}{}, dependence.StrategyUnresolvable},
		{"sentinel", "Charge", dependence.Instance, dependence.StrategySelf},
		{"other sentinel value", "Charge", dependence.Sentinel("other"), dependence.StrategyUnresolvable},
		{"string", "Charge", "instance", dependence.StrategyUnresolvable},
		{"nil", "Charge", nil, dependence.StrategyUnresolvable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := dependence.Classify(tt.dep, tt.value)
			assert.Equal(t, tt.strategy, got.Strategy())
		})
	}
}

func TestClassify_FactoryBeforeResponder(t *testing.T) {
	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	f := clockFunc(func() clock { return fixedClock{at: at} })

	p := dependence.Classify("Now", f)

	require.Equal(t, dependence.StrategyFactory, p.Strategy())
	target, err := p.(dependence.FactoryProvider).Build()
	require.NoError(t, err)
	assert.Equal(t, at, target.(clock).Now())
}

func TestClassify_ExplicitProviderKept(t *testing.T) {
	explicit := dependence.Responder(kernel{})
	assert.Equal(t, explicit, dependence.Classify("Anything", explicit))
	assert.Equal(t, dependence.SelfProvider{}, dependence.Classify("Anything", dependence.Self()))
}

func TestClassify_IsPure(t *testing.T) {
	value := struct{}{}
	first := dependence.Classify("Fetch", value)
	second := dependence.Classify("Fetch", value)
	assert.Equal(t, first, second)
}

func TestClassify_FactoryBuildPropagatesError(t *testing.T) {
	boom := errors.New("boom")
	p := dependence.Classify("Now", func() (clock, error) { return nil, boom })

	_, err := p.(dependence.FactoryProvider).Build()
	assert.ErrorIs(t, err, boom)
}

// ── Describe ──────────────────────────────────────────────────────────────────

func TestDescribe(t *testing.T) {
	assert.Equal(t, "factory", dependence.Describe(dependence.Factory(func() any { return nil })))
	assert.Equal(t, "responder dependence_test.broker", dependence.Describe(dependence.Responder(broker{})))
	assert.Equal(t, "self-delegate", dependence.Describe(dependence.Self()))
	assert.Equal(t, "struct {}", dependence.Describe(dependence.UnresolvableProvider{Value: struct{}{}}))
	assert.Equal(t, "nil", dependence.Describe(dependence.UnresolvableProvider{}))
}

// ── Strategy ──────────────────────────────────────────────────────────────────

func TestStrategy_String(t *testing.T) {
	assert.Equal(t, "Factory", dependence.StrategyFactory.String())
	assert.Equal(t, "Responder", dependence.StrategyResponder.String())
	assert.Equal(t, "Self", dependence.StrategySelf.String())
	assert.Equal(t, "Unresolvable", dependence.StrategyUnresolvable.String())
	assert.Equal(t, "Strategy(0)", dependence.Strategy(0).String())
	assert.Equal(t, 5, dependence.StrategyTotal)
}

func TestStrategy_Resolvable(t *testing.T) {
	assert.True(t, dependence.StrategyFactory.Resolvable())
	assert.True(t, dependence.StrategyResponder.Resolvable())
	assert.True(t, dependence.StrategySelf.Resolvable())
	assert.False(t, dependence.StrategyUnresolvable.Resolvable())
	assert.False(t, dependence.Strategy(0).Resolvable())
}
