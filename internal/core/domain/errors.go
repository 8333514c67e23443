package domain

import "errors"

var (
	// ErrCampaignNotFound means no campaign exists for the given id.
	ErrCampaignNotFound = errors.New("campaign not found")
	// ErrNotOwner means the caller is neither the campaign owner nor an
	// administrative origin.
	ErrNotOwner = errors.New("not the campaign owner")
	// ErrInvalidTimeRange means start >= end, or the campaign would be
	// created after its own end.
	ErrInvalidTimeRange = errors.New("invalid time range")
	// ErrCapsInvalid means a cap is zero or soft cap exceeds hard cap.
	ErrCapsInvalid = errors.New("invalid cap values")
	// ErrNotActive means the operation requires a different status than the
	// campaign currently has.
	ErrNotActive = errors.New("campaign is not in the required status")
	// ErrHardCapExceeded means the contribution would push matched past the
	// hard cap.
	ErrHardCapExceeded = errors.New("hard cap would be exceeded")
	// ErrAlreadyFinalized means the campaign is in a terminal status.
	ErrAlreadyFinalized = errors.New("campaign already finalized")
	// ErrNoContributionFound means the caller has nothing left to refund.
	ErrNoContributionFound = errors.New("no contribution found")
	// ErrTooManyActiveCampaigns means the bounded active set is full.
	ErrTooManyActiveCampaigns = errors.New("too many active campaigns")
	// ErrNotRefundable means the campaign has not failed or been cancelled.
	ErrNotRefundable = errors.New("campaign is not refundable")
	// ErrMetadataInvalid means a metadata field exceeds its length bound.
	ErrMetadataInvalid = errors.New("metadata exceeds length bounds")
	// ErrInsufficientBalance is surfaced by the balance ledger when a hold
	// cannot be covered by the account's free balance.
	ErrInsufficientBalance = errors.New("insufficient free balance")
	// ErrBadOrigin means the operation requires a signed account origin.
	ErrBadOrigin = errors.New("operation requires a signed origin")
)
