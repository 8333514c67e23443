package port

import (
	"context"

	"github.com/niklabh/quadratic-funding-registry/internal/core/domain"
)

// StateView is read-only access to the registry state within a
// transaction or snapshot.
type StateView interface {
	// Campaign loads a campaign record. found is false when no record
	// exists for the id.
	Campaign(id domain.CampaignID) (c domain.Campaign, found bool, err error)

	// Contribution returns the cumulative amount the account has put into
	// the campaign; zero when no record exists.
	Contribution(id domain.CampaignID, account domain.AccountID) (domain.Amount, error)

	// ActiveSet returns the ordered identifiers of campaigns currently in
	// the active status. The order is stable across calls and replicas.
	ActiveSet() ([]domain.CampaignID, error)
}

// StateTx extends StateView with mutations. All mutations performed
// through one StateTx either commit together or are discarded together.
type StateTx interface {
	StateView

	// AllocateCampaignID returns the next identifier and advances the
	// allocator. Identifiers are never reused.
	AllocateCampaignID() (domain.CampaignID, error)

	// PutCampaign stores or replaces a campaign record.
	PutCampaign(c domain.Campaign) error

	// PutActiveSet replaces the active-set sequence.
	PutActiveSet(ids []domain.CampaignID) error

	// AddContribution increments the (campaign, account) entry by amount,
	// saturating at the maximum representable value.
	AddContribution(id domain.CampaignID, account domain.AccountID, amount domain.Amount) error

	// TakeContribution returns the (campaign, account) entry and resets it
	// to zero in the same step.
	TakeContribution(id domain.CampaignID, account domain.AccountID) (domain.Amount, error)
}

// Store is the persistence port for the registry state. Implementations
// must give all-or-nothing semantics for Update: if fn returns an error,
// no mutation becomes visible.
type Store interface {
	View(ctx context.Context, fn func(StateView) error) error
	Update(ctx context.Context, fn func(StateTx) error) error
	Close() error
}
