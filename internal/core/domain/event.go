package domain

// EventKind names a registry event.
type EventKind string

const (
	EventCampaignCreated   EventKind = "campaign_created"
	EventMetadataUpdated   EventKind = "metadata_updated"
	EventCapsUpdated       EventKind = "caps_updated"
	EventCampaignCancelled EventKind = "campaign_cancelled"
	EventContributionMade  EventKind = "contribution_made"
	EventCampaignFinalized EventKind = "campaign_finalized"
	EventRefundClaimed     EventKind = "refund_claimed"
)

// Event is a state-change notification appended by the engine after an
// operation commits. Observers outside the core consume them.
type Event interface {
	Kind() EventKind
}

// CampaignCreated is emitted when a campaign record is stored.
type CampaignCreated struct {
	CampaignID CampaignID `json:"campaign_id"`
	Owner      AccountID  `json:"owner"`
}

func (CampaignCreated) Kind() EventKind { return EventCampaignCreated }

// MetadataUpdated is emitted when a campaign's metadata is replaced.
type MetadataUpdated struct {
	CampaignID CampaignID `json:"campaign_id"`
}

func (MetadataUpdated) Kind() EventKind { return EventMetadataUpdated }

// CapsUpdated is emitted when a campaign's funding caps are replaced.
type CapsUpdated struct {
	CampaignID CampaignID `json:"campaign_id"`
	SoftCap    Amount     `json:"soft_cap"`
	HardCap    Amount     `json:"hard_cap"`
}

func (CapsUpdated) Kind() EventKind { return EventCapsUpdated }

// CampaignCancelled is emitted when a campaign is cancelled.
type CampaignCancelled struct {
	CampaignID CampaignID `json:"campaign_id"`
}

func (CampaignCancelled) Kind() EventKind { return EventCampaignCancelled }

// ContributionMade is emitted when a contribution is accepted.
type ContributionMade struct {
	CampaignID CampaignID `json:"campaign_id"`
	Who        AccountID  `json:"who"`
	Amount     Amount     `json:"amount"`
}

func (ContributionMade) Kind() EventKind { return EventContributionMade }

// CampaignFinalized is emitted by the sweep when a campaign ends.
type CampaignFinalized struct {
	CampaignID CampaignID `json:"campaign_id"`
	Status     Status     `json:"status"`
}

func (CampaignFinalized) Kind() EventKind { return EventCampaignFinalized }

// RefundClaimed is emitted when a contributor reclaims held funds.
type RefundClaimed struct {
	CampaignID CampaignID `json:"campaign_id"`
	Who        AccountID  `json:"who"`
	Amount     Amount     `json:"amount"`
}

func (RefundClaimed) Kind() EventKind { return EventRefundClaimed }
