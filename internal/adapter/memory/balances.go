package memory

import (
	"sync"

	"github.com/niklabh/quadratic-funding-registry/internal/core/domain"
)

type balance struct {
	free domain.Amount
	held domain.Amount
}

// BalanceLedger is an in-process hold/release ledger implementing the
// balance port. It tracks a free and a held column per account; holds
// move funds between the two without transferring ownership.
type BalanceLedger struct {
	mu       sync.Mutex
	accounts map[domain.AccountID]balance
}

// NewBalanceLedger returns an empty ledger.
func NewBalanceLedger() *BalanceLedger {
	return &BalanceLedger{accounts: make(map[domain.AccountID]balance)}
}

// Deposit credits the account's free balance. Used to fund accounts at
// genesis or in tests.
func (l *BalanceLedger) Deposit(account domain.AccountID, amount domain.Amount) {
	l.mu.Lock()
	defer l.mu.Unlock()
	b := l.accounts[account]
	b.free = domain.SaturatingAdd(b.free, amount)
	l.accounts[account] = b
}

// Hold reserves amount of the account's free balance.
func (l *BalanceLedger) Hold(account domain.AccountID, amount domain.Amount) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	b := l.accounts[account]
	if b.free < amount {
		return domain.ErrInsufficientBalance
	}
	b.free -= amount
	b.held = domain.SaturatingAdd(b.held, amount)
	l.accounts[account] = b
	return nil
}

// Release lifts a hold, clamping at the currently held amount.
func (l *BalanceLedger) Release(account domain.AccountID, amount domain.Amount) {
	l.mu.Lock()
	defer l.mu.Unlock()
	b := l.accounts[account]
	if amount > b.held {
		amount = b.held
	}
	b.held -= amount
	b.free = domain.SaturatingAdd(b.free, amount)
	l.accounts[account] = b
}

// Free returns the account's free balance.
func (l *BalanceLedger) Free(account domain.AccountID) domain.Amount {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.accounts[account].free
}

// Held returns the account's held balance.
func (l *BalanceLedger) Held(account domain.AccountID) domain.Amount {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.accounts[account].held
}
