package dependence

//go:generate go tool stringer -type=Strategy -trimprefix=Strategy -output=strategy_string.go

// Strategy names the dispatch path a provider is routed through.
type Strategy int

const (
	_ Strategy = iota // zero value is not a valid strategy

	StrategyFactory
	StrategyResponder
	StrategySelf
	StrategyUnresolvable

	// StrategyTotal is the number of strategies defined, including the zero value.
	StrategyTotal = int(iota)
)

// Resolvable reports whether the strategy leads to a callable target.
func (s Strategy) Resolvable() bool {
	switch s {
	case StrategyFactory, StrategyResponder, StrategySelf:
		return true
	default:
		return false
	}
}
