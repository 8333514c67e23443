package events

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/niklabh/quadratic-funding-registry/internal/core/domain"
)

func TestJournalAppendsInOrder(t *testing.T) {
	j, err := OpenJournal(filepath.Join(t.TempDir(), "events.db"), nil)
	require.NoError(t, err)
	defer j.Close()

	j.Emit(domain.CampaignCreated{CampaignID: 1, Owner: "alice"})
	j.Emit(domain.ContributionMade{CampaignID: 1, Who: "bob", Amount: 200})
	j.Emit(domain.CampaignFinalized{CampaignID: 1, Status: domain.StatusSuccess})

	kinds, payloads, err := j.Tail(0, 10)
	require.NoError(t, err)
	require.Equal(t, []domain.EventKind{
		domain.EventCampaignCreated,
		domain.EventContributionMade,
		domain.EventCampaignFinalized,
	}, kinds)

	var made domain.ContributionMade
	require.NoError(t, json.Unmarshal(payloads[1], &made))
	assert.Equal(t, domain.Amount(200), made.Amount)
}

func TestJournalTailAfter(t *testing.T) {
	j, err := OpenJournal(filepath.Join(t.TempDir(), "events.db"), nil)
	require.NoError(t, err)
	defer j.Close()

	for i := uint32(0); i < 5; i++ {
		j.Emit(domain.CampaignCreated{CampaignID: domain.CampaignID(i), Owner: "alice"})
	}

	kinds, _, err := j.Tail(3, 10)
	require.NoError(t, err)
	assert.Len(t, kinds, 2, "tail resumes after the given sequence number")

	kinds, _, err = j.Tail(0, 2)
	require.NoError(t, err)
	assert.Len(t, kinds, 2, "tail honours the limit")
}
