package domain

// Origin identifies who submitted an operation: either a signed account
// or an elevated administrative identity. The registry never inspects
// how the host resolved it.
type Origin struct {
	Account AccountID
	Root    bool
}

// Signed returns an origin for a regular account.
func Signed(account AccountID) Origin {
	return Origin{Account: account}
}

// RootOrigin returns the elevated administrative origin.
func RootOrigin() Origin {
	return Origin{Root: true}
}

// CanManage reports whether the origin may manage a campaign owned by
// owner: the owner itself or the administrative origin.
func (o Origin) CanManage(owner AccountID) bool {
	return o.Root || o.Account == owner
}
