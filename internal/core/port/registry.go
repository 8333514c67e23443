package port

import (
	"context"

	"github.com/niklabh/quadratic-funding-registry/internal/core/domain"
)

// Registry is the funding-registry use case: campaign lifecycle,
// contribution accounting, time-driven finalization and refunds.
//
// Operations are applied one at a time in the order the host delivers
// them; every operation either fully commits or leaves the state
// untouched.
type Registry interface {
	// CreateCampaign stores a new campaign, placing the creation deposit
	// hold on the origin's account. The initial status is derived from the
	// current moment.
	CreateCampaign(ctx context.Context, origin domain.Origin, meta domain.Metadata, start, end domain.Moment, softCap, hardCap domain.Amount) (domain.CampaignID, error)

	// UpdateMetadata replaces the metadata of an upcoming campaign owned
	// by the origin.
	UpdateMetadata(ctx context.Context, origin domain.Origin, id domain.CampaignID, meta domain.Metadata) error

	// SetCaps replaces both funding caps of an upcoming campaign owned by
	// the origin.
	SetCaps(ctx context.Context, origin domain.Origin, id domain.CampaignID, softCap, hardCap domain.Amount) error

	// CancelCampaign moves an upcoming or active campaign to cancelled and
	// releases the owner's creation deposit. Allowed for the owner or the
	// administrative origin.
	CancelCampaign(ctx context.Context, origin domain.Origin, id domain.CampaignID) error

	// Contribute escrows amount from the origin into an active campaign.
	Contribute(ctx context.Context, origin domain.Origin, id domain.CampaignID, amount domain.Amount) error

	// ClaimRefund returns the origin's full contribution from a failed or
	// cancelled campaign. Exactly once per contributor per campaign.
	ClaimRefund(ctx context.Context, origin domain.Origin, id domain.CampaignID) (domain.Amount, error)

	// FinalizeDue runs one finalization sweep over the active set at the
	// current moment and reports how many campaigns it finalized.
	FinalizeDue(ctx context.Context) (int, error)

	// Campaign fetches a campaign by id.
	Campaign(ctx context.Context, id domain.CampaignID) (domain.Campaign, error)

	// Contribution fetches the cumulative contribution of account into the
	// campaign; zero when none was made.
	Contribution(ctx context.Context, id domain.CampaignID, account domain.AccountID) (domain.Amount, error)
}
