package domain

import "math"

// Amount is a quantity of currency in integer units (e.g. cents).
type Amount uint64

// Moment is a point on the registry's time axis. Moments are totally
// ordered; the engine never interprets them beyond comparison with a
// campaign's start and end.
type Moment uint64

// MaxAmount is the largest representable amount. Saturating arithmetic
// clamps here instead of wrapping.
const MaxAmount = Amount(math.MaxUint64)

// SaturatingAdd returns a+b, clamped at MaxAmount on overflow.
func SaturatingAdd(a, b Amount) Amount {
	if sum := a + b; sum >= a {
		return sum
	}
	return MaxAmount
}

// NextCampaignID returns the identifier following id, clamped at the
// largest representable identifier rather than wrapping to zero.
func NextCampaignID(id CampaignID) CampaignID {
	if id == CampaignID(math.MaxUint32) {
		return id
	}
	return id + 1
}
