// Package payment defines the single internal shape every provider adapter
// translates its responses into before they reach settlement.
package payment

type State string

const (
	StateSettled State = "SETTLED"
	StatePending State = "PENDING"
	StateFailed  State = "FAILED"
)

// Outcome is a provider-neutral payment result.
type Outcome struct {
	State       State
	ProviderRef string
}

func (o Outcome) Settled() bool {
	return o.State == StateSettled
}
