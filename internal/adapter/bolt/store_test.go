package bolt

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/niklabh/quadratic-funding-registry/internal/core/domain"
	"github.com/niklabh/quadratic-funding-registry/internal/core/port"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "registry.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestOpenRequiresPath(t *testing.T) {
	_, err := Open("  ")
	assert.Error(t, err)
}

func TestCampaignRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	want := domain.Campaign{
		ID:    4,
		Owner: "alice",
		Metadata: domain.Metadata{
			Name:        "art",
			Description: "an art campaign",
			Link:        "https://example.org",
		},
		Start:   200,
		End:     300,
		SoftCap: 500,
		HardCap: 1000,
		Matched: 250,
		Status:  domain.StatusActive,
	}
	err := s.Update(ctx, func(tx port.StateTx) error {
		return tx.PutCampaign(want)
	})
	require.NoError(t, err)

	err = s.View(ctx, func(v port.StateView) error {
		got, found, err := v.Campaign(4)
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, want, got)

		_, found, err = v.Campaign(5)
		require.NoError(t, err)
		assert.False(t, found)
		return nil
	})
	require.NoError(t, err)
}

func TestUpdateRollsBack(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	boom := errors.New("boom")
	err := s.Update(ctx, func(tx port.StateTx) error {
		if _, err := tx.AllocateCampaignID(); err != nil {
			return err
		}
		if err := tx.PutCampaign(domain.Campaign{ID: 0, Owner: "alice", Status: domain.StatusUpcoming}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	err = s.Update(ctx, func(tx port.StateTx) error {
		_, found, err := tx.Campaign(0)
		require.NoError(t, err)
		assert.False(t, found)

		id, err := tx.AllocateCampaignID()
		require.NoError(t, err)
		assert.Equal(t, domain.CampaignID(0), id)
		return nil
	})
	require.NoError(t, err)
}

func TestAllocatorPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.db")
	ctx := context.Background()

	s, err := Open(path)
	require.NoError(t, err)
	err = s.Update(ctx, func(tx port.StateTx) error {
		for i := 0; i < 3; i++ {
			if _, err := tx.AllocateCampaignID(); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	// Reopening continues where the allocator left off.
	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()
	err = s.Update(ctx, func(tx port.StateTx) error {
		id, err := tx.AllocateCampaignID()
		require.NoError(t, err)
		assert.Equal(t, domain.CampaignID(3), id)
		return nil
	})
	require.NoError(t, err)
}

func TestContributionsAndActiveSet(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	err := s.Update(ctx, func(tx port.StateTx) error {
		require.NoError(t, tx.AddContribution(1, "bob", 100))
		require.NoError(t, tx.AddContribution(1, "bob", 50))
		require.NoError(t, tx.PutActiveSet([]domain.CampaignID{2, 1}))
		return nil
	})
	require.NoError(t, err)

	err = s.Update(ctx, func(tx port.StateTx) error {
		amount, err := tx.Contribution(1, "bob")
		require.NoError(t, err)
		assert.Equal(t, domain.Amount(150), amount)

		taken, err := tx.TakeContribution(1, "bob")
		require.NoError(t, err)
		assert.Equal(t, domain.Amount(150), taken)

		amount, err = tx.Contribution(1, "bob")
		require.NoError(t, err)
		assert.Zero(t, amount)

		active, err := tx.ActiveSet()
		require.NoError(t, err)
		assert.Equal(t, []domain.CampaignID{2, 1}, active, "active set preserves its stored order")
		return nil
	})
	require.NoError(t, err)
}

func TestEmptyStoreReads(t *testing.T) {
	s := openTestStore(t)

	err := s.View(context.Background(), func(v port.StateView) error {
		active, err := v.ActiveSet()
		require.NoError(t, err)
		assert.Empty(t, active)

		amount, err := v.Contribution(9, "nobody")
		require.NoError(t, err)
		assert.Zero(t, amount)
		return nil
	})
	require.NoError(t, err)
}
