package memory

import (
	"context"
	"sync"

	"github.com/niklabh/quadratic-funding-registry/internal/core/domain"
	"github.com/niklabh/quadratic-funding-registry/internal/core/port"
)

type contribKey struct {
	campaign domain.CampaignID
	account  domain.AccountID
}

type state struct {
	nextID        domain.CampaignID
	campaigns     map[domain.CampaignID]domain.Campaign
	contributions map[contribKey]domain.Amount
	active        []domain.CampaignID
}

func newState() state {
	return state{
		campaigns:     make(map[domain.CampaignID]domain.Campaign),
		contributions: make(map[contribKey]domain.Amount),
	}
}

func (s state) clone() state {
	out := state{
		nextID:        s.nextID,
		campaigns:     make(map[domain.CampaignID]domain.Campaign, len(s.campaigns)),
		contributions: make(map[contribKey]domain.Amount, len(s.contributions)),
		active:        append([]domain.CampaignID(nil), s.active...),
	}
	for id, c := range s.campaigns {
		out.campaigns[id] = c
	}
	for k, v := range s.contributions {
		out.contributions[k] = v
	}
	return out
}

// Store is an in-memory implementation of the registry store. Update runs
// the transaction function against a staged copy of the state and swaps
// it in only when the function succeeds, so a failed operation leaves no
// trace. The active set keeps its insertion order, giving the same
// deterministic snapshot a persistent backend would.
type Store struct {
	mu    sync.Mutex
	state state
}

// NewStore returns an empty store with the identifier allocator at zero.
func NewStore() *Store {
	return &Store{state: newState()}
}

// View runs fn against the current state through a value that carries no
// mutators, so the state cannot be changed even by asserting to a wider
// interface.
func (s *Store) View(ctx context.Context, fn func(port.StateView) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(&stateView{st: &s.state})
}

// Update runs fn against a staged copy and commits it on success.
func (s *Store) Update(ctx context.Context, fn func(port.StateTx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	working := s.state.clone()
	if err := fn(&stateTx{stateView{st: &working}}); err != nil {
		return err
	}
	s.state = working
	return nil
}

// Close is a no-op for the in-memory store.
func (s *Store) Close() error { return nil }

type stateView struct {
	st *state
}

func (v *stateView) Campaign(id domain.CampaignID) (domain.Campaign, bool, error) {
	c, ok := v.st.campaigns[id]
	return c, ok, nil
}

func (v *stateView) Contribution(id domain.CampaignID, account domain.AccountID) (domain.Amount, error) {
	return v.st.contributions[contribKey{campaign: id, account: account}], nil
}

func (v *stateView) ActiveSet() ([]domain.CampaignID, error) {
	return append([]domain.CampaignID(nil), v.st.active...), nil
}

type stateTx struct {
	stateView
}

func (t *stateTx) AllocateCampaignID() (domain.CampaignID, error) {
	id := t.st.nextID
	t.st.nextID = domain.NextCampaignID(id)
	return id, nil
}

func (t *stateTx) PutCampaign(c domain.Campaign) error {
	t.st.campaigns[c.ID] = c
	return nil
}

func (t *stateTx) PutActiveSet(ids []domain.CampaignID) error {
	t.st.active = append([]domain.CampaignID(nil), ids...)
	return nil
}

func (t *stateTx) AddContribution(id domain.CampaignID, account domain.AccountID, amount domain.Amount) error {
	k := contribKey{campaign: id, account: account}
	t.st.contributions[k] = domain.SaturatingAdd(t.st.contributions[k], amount)
	return nil
}

func (t *stateTx) TakeContribution(id domain.CampaignID, account domain.AccountID) (domain.Amount, error) {
	k := contribKey{campaign: id, account: account}
	amount := t.st.contributions[k]
	delete(t.st.contributions, k)
	return amount, nil
}
