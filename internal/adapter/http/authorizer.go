package httpadapter

import (
	"errors"
	"net/http"
	"strings"

	"github.com/niklabh/quadratic-funding-registry/internal/core/domain"
)

// HeaderAuthorizer resolves the request origin from headers: X-Account
// carries a signed account id, X-Root set to "true" yields the
// administrative origin. It stands in for the host runtime's real
// dispatch/authorization at the service edge.
type HeaderAuthorizer struct{}

// ErrNoIdentity is returned when neither header identifies a caller.
var ErrNoIdentity = errors.New("no caller identity in request")

// Resolve implements the authorizer port.
func (HeaderAuthorizer) Resolve(r *http.Request) (domain.Origin, error) {
	if strings.EqualFold(r.Header.Get("X-Root"), "true") {
		return domain.RootOrigin(), nil
	}
	if account := strings.TrimSpace(r.Header.Get("X-Account")); account != "" {
		return domain.Signed(domain.AccountID(account)), nil
	}
	return domain.Origin{}, ErrNoIdentity
}
