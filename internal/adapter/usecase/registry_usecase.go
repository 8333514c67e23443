package usecase

import (
	"context"
	"log/slog"

	"github.com/niklabh/quadratic-funding-registry/internal/core/domain"
	"github.com/niklabh/quadratic-funding-registry/internal/core/port"
)

// Limits are the fixed parameters of the registry: the creation deposit,
// the active-set ceiling and the metadata length bounds.
type Limits struct {
	// MinimumDeposit is held from the creator of every campaign.
	MinimumDeposit domain.Amount
	// MaxActive bounds the number of concurrently active campaigns. The
	// bound keeps the per-tick sweep cost predictable.
	MaxActive int
	// MaxNameLen, MaxDescLen and MaxLinkLen bound the metadata fields.
	MaxNameLen int
	MaxDescLen int
	MaxLinkLen int
}

// Registry implements port.Registry. It validates every operation against
// the stored state, applies all its effects inside one store transaction
// and emits events only after the transaction commits. A rejected
// operation leaves the store untouched.
type Registry struct {
	store  port.Store
	ledger port.BalanceLedger
	clock  port.Clock
	events port.EventSink
	limits Limits
	logger *slog.Logger
}

// NewRegistry creates the registry engine with its collaborators. A nil
// logger falls back to slog.Default.
func NewRegistry(store port.Store, ledger port.BalanceLedger, clock port.Clock, events port.EventSink, limits Limits, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		store:  store,
		ledger: ledger,
		clock:  clock,
		events: events,
		limits: limits,
		logger: logger,
	}
}

func (r *Registry) emit(events []domain.Event) {
	for _, e := range events {
		r.events.Emit(e)
	}
}

func (r *Registry) checkMetadata(meta domain.Metadata) error {
	if len(meta.Name) > r.limits.MaxNameLen ||
		len(meta.Description) > r.limits.MaxDescLen ||
		len(meta.Link) > r.limits.MaxLinkLen {
		return domain.ErrMetadataInvalid
	}
	return nil
}

// CreateCampaign validates the time range and caps, derives the initial
// status from the current moment, holds the creation deposit and stores
// the record under a freshly allocated identifier. A campaign that is
// active on arrival also enters the bounded active set; when the set is
// full the whole operation rolls back, deposit included.
func (r *Registry) CreateCampaign(ctx context.Context, origin domain.Origin, meta domain.Metadata, start, end domain.Moment, softCap, hardCap domain.Amount) (domain.CampaignID, error) {
	if origin.Account == "" {
		return 0, domain.ErrBadOrigin
	}
	if err := r.checkMetadata(meta); err != nil {
		return 0, err
	}
	if start >= end {
		return 0, domain.ErrInvalidTimeRange
	}
	if !domain.ValidCaps(softCap, hardCap) {
		return 0, domain.ErrCapsInvalid
	}

	now := r.clock.Now()
	status, ok := domain.StatusAt(now, start, end)
	if !ok {
		// Cannot create a campaign that already ended.
		return 0, domain.ErrInvalidTimeRange
	}

	var (
		id     domain.CampaignID
		staged []domain.Event
		held   bool
	)
	err := r.store.Update(ctx, func(tx port.StateTx) error {
		var active []domain.CampaignID
		if status == domain.StatusActive {
			var err error
			if active, err = tx.ActiveSet(); err != nil {
				return err
			}
			if len(active) >= r.limits.MaxActive {
				return domain.ErrTooManyActiveCampaigns
			}
		}

		if err := r.ledger.Hold(origin.Account, r.limits.MinimumDeposit); err != nil {
			return err
		}
		held = true

		var err error
		if id, err = tx.AllocateCampaignID(); err != nil {
			return err
		}
		c := domain.Campaign{
			ID:       id,
			Owner:    origin.Account,
			Metadata: meta,
			Start:    start,
			End:      end,
			SoftCap:  softCap,
			HardCap:  hardCap,
			Matched:  0,
			Status:   status,
		}
		if err = tx.PutCampaign(c); err != nil {
			return err
		}
		if status == domain.StatusActive {
			if err = tx.PutActiveSet(append(active, id)); err != nil {
				return err
			}
		}

		staged = append(staged, domain.CampaignCreated{CampaignID: id, Owner: origin.Account})
		return nil
	})
	if err != nil {
		// The hold lives outside the transaction: any failure after it was
		// placed, including a failed commit, must give it back.
		if held {
			r.ledger.Release(origin.Account, r.limits.MinimumDeposit)
		}
		return 0, err
	}
	r.emit(staged)
	return id, nil
}

// UpdateMetadata replaces the metadata wholesale. Only the owner may
// update, and only while the campaign has not started.
func (r *Registry) UpdateMetadata(ctx context.Context, origin domain.Origin, id domain.CampaignID, meta domain.Metadata) error {
	if origin.Account == "" {
		return domain.ErrBadOrigin
	}
	if err := r.checkMetadata(meta); err != nil {
		return err
	}

	var staged []domain.Event
	err := r.store.Update(ctx, func(tx port.StateTx) error {
		c, found, err := tx.Campaign(id)
		if err != nil {
			return err
		}
		if !found {
			return domain.ErrCampaignNotFound
		}
		if c.Owner != origin.Account {
			return domain.ErrNotOwner
		}
		if c.Status != domain.StatusUpcoming {
			return domain.ErrNotActive
		}

		c.Metadata = meta
		if err = tx.PutCampaign(c); err != nil {
			return err
		}
		staged = append(staged, domain.MetadataUpdated{CampaignID: id})
		return nil
	})
	if err != nil {
		return err
	}
	r.emit(staged)
	return nil
}

// SetCaps replaces both funding caps wholesale, with the same validation
// as creation and the same owner/status preconditions as UpdateMetadata.
func (r *Registry) SetCaps(ctx context.Context, origin domain.Origin, id domain.CampaignID, softCap, hardCap domain.Amount) error {
	if origin.Account == "" {
		return domain.ErrBadOrigin
	}
	if !domain.ValidCaps(softCap, hardCap) {
		return domain.ErrCapsInvalid
	}

	var staged []domain.Event
	err := r.store.Update(ctx, func(tx port.StateTx) error {
		c, found, err := tx.Campaign(id)
		if err != nil {
			return err
		}
		if !found {
			return domain.ErrCampaignNotFound
		}
		if c.Owner != origin.Account {
			return domain.ErrNotOwner
		}
		if c.Status != domain.StatusUpcoming {
			return domain.ErrNotActive
		}

		c.SoftCap = softCap
		c.HardCap = hardCap
		if err = tx.PutCampaign(c); err != nil {
			return err
		}
		staged = append(staged, domain.CapsUpdated{CampaignID: id, SoftCap: softCap, HardCap: hardCap})
		return nil
	})
	if err != nil {
		return err
	}
	r.emit(staged)
	return nil
}

// CancelCampaign moves an upcoming or active campaign to cancelled. The
// owner or the administrative origin may cancel. An active campaign
// leaves the active set immediately, judged by its status before the
// overwrite. The owner's creation deposit is released.
func (r *Registry) CancelCampaign(ctx context.Context, origin domain.Origin, id domain.CampaignID) error {
	var (
		staged []domain.Event
		owner  domain.AccountID
	)
	err := r.store.Update(ctx, func(tx port.StateTx) error {
		c, found, err := tx.Campaign(id)
		if err != nil {
			return err
		}
		if !found {
			return domain.ErrCampaignNotFound
		}
		if !origin.CanManage(c.Owner) {
			return domain.ErrNotOwner
		}
		if c.Status.Terminal() {
			return domain.ErrAlreadyFinalized
		}

		wasActive := c.Status == domain.StatusActive
		c.Status = domain.StatusCancelled
		if err = tx.PutCampaign(c); err != nil {
			return err
		}
		if wasActive {
			active, err := tx.ActiveSet()
			if err != nil {
				return err
			}
			kept := active[:0:0]
			for _, aid := range active {
				if aid != id {
					kept = append(kept, aid)
				}
			}
			if err = tx.PutActiveSet(kept); err != nil {
				return err
			}
		}

		owner = c.Owner
		staged = append(staged, domain.CampaignCancelled{CampaignID: id})
		return nil
	})
	if err != nil {
		return err
	}
	// Deposit release and events happen only once the cancellation is
	// durable.
	r.ledger.Release(owner, r.limits.MinimumDeposit)
	r.emit(staged)
	return nil
}

// Contribute escrows amount from the origin into an active campaign. The
// hold, the ledger entry and the matched total move as one unit: a failed
// hold leaves the store untouched, and a storage failure after the hold
// gives the hold back.
func (r *Registry) Contribute(ctx context.Context, origin domain.Origin, id domain.CampaignID, amount domain.Amount) error {
	if origin.Account == "" {
		return domain.ErrBadOrigin
	}

	var (
		staged []domain.Event
		held   bool
	)
	err := r.store.Update(ctx, func(tx port.StateTx) error {
		c, found, err := tx.Campaign(id)
		if err != nil {
			return err
		}
		if !found {
			return domain.ErrCampaignNotFound
		}
		if c.Status != domain.StatusActive {
			return domain.ErrNotActive
		}

		newTotal := domain.SaturatingAdd(c.Matched, amount)
		if newTotal > c.HardCap {
			return domain.ErrHardCapExceeded
		}

		if err = r.ledger.Hold(origin.Account, amount); err != nil {
			return err
		}
		held = true

		if err = tx.AddContribution(id, origin.Account, amount); err != nil {
			return err
		}
		c.Matched = newTotal
		if err = tx.PutCampaign(c); err != nil {
			return err
		}

		staged = append(staged, domain.ContributionMade{CampaignID: id, Who: origin.Account, Amount: amount})
		return nil
	})
	if err != nil {
		if held {
			r.ledger.Release(origin.Account, amount)
		}
		return err
	}
	r.emit(staged)
	return nil
}

// ClaimRefund pays back the origin's full contribution from a failed or
// cancelled campaign. The ledger entry is read and zeroed in one step, so
// a second claim finds nothing and fails.
func (r *Registry) ClaimRefund(ctx context.Context, origin domain.Origin, id domain.CampaignID) (domain.Amount, error) {
	if origin.Account == "" {
		return 0, domain.ErrBadOrigin
	}

	var (
		staged []domain.Event
		amount domain.Amount
	)
	err := r.store.Update(ctx, func(tx port.StateTx) error {
		c, found, err := tx.Campaign(id)
		if err != nil {
			return err
		}
		if !found {
			return domain.ErrCampaignNotFound
		}
		if !c.Status.Refundable() {
			return domain.ErrNotRefundable
		}

		if amount, err = tx.TakeContribution(id, origin.Account); err != nil {
			return err
		}
		if amount == 0 {
			return domain.ErrNoContributionFound
		}

		staged = append(staged, domain.RefundClaimed{CampaignID: id, Who: origin.Account, Amount: amount})
		return nil
	})
	if err != nil {
		return 0, err
	}
	r.ledger.Release(origin.Account, amount)
	r.emit(staged)
	return amount, nil
}

// FinalizeDue walks a snapshot of the active set once and finalizes every
// campaign whose end moment has passed: success when matched reached the
// soft cap, failed otherwise. The rebuilt set is written back only when
// it changed. A missing record is skipped and retried on the next tick.
func (r *Registry) FinalizeDue(ctx context.Context) (int, error) {
	now := r.clock.Now()

	var (
		staged    []domain.Event
		finalized int
	)
	err := r.store.Update(ctx, func(tx port.StateTx) error {
		staged = staged[:0]
		finalized = 0

		active, err := tx.ActiveSet()
		if err != nil {
			return err
		}

		updated := make([]domain.CampaignID, 0, len(active))
		changed := false
		for _, id := range active {
			c, found, err := tx.Campaign(id)
			if err != nil {
				return err
			}
			if !found {
				r.logger.Warn("active set references missing campaign", slog.Uint64("campaign_id", uint64(id)))
				updated = append(updated, id)
				continue
			}
			if c.Status != domain.StatusActive || now < c.End {
				updated = append(updated, id)
				continue
			}

			if c.Matched >= c.SoftCap {
				c.Status = domain.StatusSuccess
			} else {
				c.Status = domain.StatusFailed
			}
			if err = tx.PutCampaign(c); err != nil {
				return err
			}
			staged = append(staged, domain.CampaignFinalized{CampaignID: id, Status: c.Status})
			changed = true
			finalized++
		}

		if changed {
			return tx.PutActiveSet(updated)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	r.emit(staged)
	return finalized, nil
}

// Campaign fetches one campaign record.
func (r *Registry) Campaign(ctx context.Context, id domain.CampaignID) (domain.Campaign, error) {
	var c domain.Campaign
	err := r.store.View(ctx, func(v port.StateView) error {
		var found bool
		var err error
		if c, found, err = v.Campaign(id); err != nil {
			return err
		}
		if !found {
			return domain.ErrCampaignNotFound
		}
		return nil
	})
	return c, err
}

// Contribution fetches the cumulative contribution of account into the
// campaign.
func (r *Registry) Contribution(ctx context.Context, id domain.CampaignID, account domain.AccountID) (domain.Amount, error) {
	var amount domain.Amount
	err := r.store.View(ctx, func(v port.StateView) error {
		var err error
		amount, err = v.Contribution(id, account)
		return err
	})
	return amount, err
}
