package clock

import (
	"time"

	"github.com/niklabh/quadratic-funding-registry/internal/core/domain"
)

// System is the production moment source: unix seconds. Campaign start
// and end moments stored by this deployment share the same axis.
type System struct{}

// Now returns the current unix time as a moment.
func (System) Now() domain.Moment {
	return domain.Moment(time.Now().Unix())
}
