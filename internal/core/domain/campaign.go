package domain

// CampaignID uniquely identifies a campaign. Identifiers are allocated
// from a monotonically increasing counter and are never reused.
type CampaignID uint32

// AccountID identifies an account on the surrounding balance ledger. The
// engine treats it as an opaque key.
type AccountID string

// Status is the lifecycle state of a campaign.
type Status string

const (
	// StatusUpcoming means the campaign was created before its start moment
	// and is not yet accepting contributions.
	StatusUpcoming Status = "upcoming"
	// StatusActive means the campaign is accepting contributions.
	StatusActive Status = "active"
	// StatusSuccess means the campaign ended with matched >= soft cap.
	StatusSuccess Status = "success"
	// StatusFailed means the campaign ended with matched < soft cap.
	StatusFailed Status = "failed"
	// StatusCancelled means the campaign was cancelled by its owner or an
	// administrative origin before ending.
	StatusCancelled Status = "cancelled"
)

// Terminal reports whether no further transition may leave the status.
func (s Status) Terminal() bool {
	switch s {
	case StatusSuccess, StatusFailed, StatusCancelled:
		return true
	default:
		return false
	}
}

// Refundable reports whether contributors may claim their funds back.
func (s Status) Refundable() bool {
	return s == StatusFailed || s == StatusCancelled
}

// Metadata is the descriptive part of a campaign. It is opaque to the
// engine beyond the configured length bounds.
type Metadata struct {
	Name        string
	Description string
	Link        string // optional, empty when absent
}

// Campaign is one funding initiative. Amounts are integer currency units.
type Campaign struct {
	ID       CampaignID
	Owner    AccountID
	Metadata Metadata
	Start    Moment
	End      Moment
	SoftCap  Amount
	HardCap  Amount
	Matched  Amount
	Status   Status
}

// StatusAt computes the initial status of a campaign created at now.
// A campaign whose end already passed cannot be created; ok is false then.
func StatusAt(now, start, end Moment) (Status, bool) {
	switch {
	case now < start:
		return StatusUpcoming, true
	case now <= end:
		return StatusActive, true
	default:
		return "", false
	}
}

// ValidCaps reports whether the pair satisfies the cap invariant:
// both non-zero and soft <= hard.
func ValidCaps(soft, hard Amount) bool {
	return soft != 0 && hard != 0 && soft <= hard
}
