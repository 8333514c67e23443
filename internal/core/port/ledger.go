package port

import (
	"net/http"

	"github.com/niklabh/quadratic-funding-registry/internal/core/domain"
)

// BalanceLedger is the currency collaborator. The registry only places
// and lifts holds; it never reads or writes raw balances.
type BalanceLedger interface {
	// Hold reserves amount of the account's free balance. It fails (for
	// example with domain.ErrInsufficientBalance) when the free balance
	// cannot cover the amount.
	Hold(account domain.AccountID, amount domain.Amount) error

	// Release lifts a previously placed hold. Best effort: implementations
	// may clamp at the currently held amount.
	Release(account domain.AccountID, amount domain.Amount)
}

// Clock supplies the current moment. Moments are business data compared
// against campaign start and end, not execution deadlines.
type Clock interface {
	Now() domain.Moment
}

// EventSink receives events after an operation commits.
type EventSink interface {
	Emit(e domain.Event)
}

// Authorizer resolves the origin of an inbound HTTP request. The real
// dispatch/authorization mechanism belongs to the host runtime; adapters
// implementing this port stand in for it at the service edge.
type Authorizer interface {
	Resolve(r *http.Request) (domain.Origin, error)
}
