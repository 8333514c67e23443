package bolt

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"go.etcd.io/bbolt"

	"github.com/niklabh/quadratic-funding-registry/internal/core/domain"
	"github.com/niklabh/quadratic-funding-registry/internal/core/port"
)

const (
	campaignBucket     = "campaigns"
	contributionBucket = "contributions"
	metaBucket         = "meta"

	nextIDKey    = "next_campaign_id"
	activeSetKey = "active_set"
)

// Store is a BoltDB-backed registry store. Campaign keys are big-endian
// identifiers and contribution keys are the identifier followed by the
// account, so bucket iteration order is deterministic across replicas.
// Bolt transactions give the all-or-nothing Update semantics natively.
type Store struct {
	db *bbolt.DB
}

// Open opens (or creates) the store at path.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	db, err := bbolt.Open(filepath.Clean(path), 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open storage db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range []string{campaignBucket, contributionBucket, metaBucket} {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return fmt.Errorf("create bucket %s: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// View runs fn in a read-only bolt transaction.
func (s *Store) View(ctx context.Context, fn func(port.StateView) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.View(func(tx *bbolt.Tx) error {
		return fn(&stateTx{tx: tx})
	})
}

// Update runs fn in a writable bolt transaction; returning an error
// rolls every mutation back.
func (s *Store) Update(ctx context.Context, fn func(port.StateTx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		return fn(&stateTx{tx: tx})
	})
}

type stateTx struct {
	tx *bbolt.Tx
}

func campaignKey(id domain.CampaignID) []byte {
	key := make([]byte, 4)
	binary.BigEndian.PutUint32(key, uint32(id))
	return key
}

func contributionKey(id domain.CampaignID, account domain.AccountID) []byte {
	return append(campaignKey(id), []byte(account)...)
}

func (t *stateTx) Campaign(id domain.CampaignID) (domain.Campaign, bool, error) {
	raw := t.tx.Bucket([]byte(campaignBucket)).Get(campaignKey(id))
	if raw == nil {
		return domain.Campaign{}, false, nil
	}
	var c domain.Campaign
	if err := json.Unmarshal(raw, &c); err != nil {
		return domain.Campaign{}, false, fmt.Errorf("decode campaign %d: %w", id, err)
	}
	return c, true, nil
}

func (t *stateTx) Contribution(id domain.CampaignID, account domain.AccountID) (domain.Amount, error) {
	raw := t.tx.Bucket([]byte(contributionBucket)).Get(contributionKey(id, account))
	if raw == nil {
		return 0, nil
	}
	if len(raw) != 8 {
		return 0, fmt.Errorf("corrupt contribution entry for campaign %d", id)
	}
	return domain.Amount(binary.BigEndian.Uint64(raw)), nil
}

func (t *stateTx) ActiveSet() ([]domain.CampaignID, error) {
	raw := t.tx.Bucket([]byte(metaBucket)).Get([]byte(activeSetKey))
	if raw == nil {
		return nil, nil
	}
	var ids []domain.CampaignID
	if err := json.Unmarshal(raw, &ids); err != nil {
		return nil, fmt.Errorf("decode active set: %w", err)
	}
	return ids, nil
}

func (t *stateTx) AllocateCampaignID() (domain.CampaignID, error) {
	meta := t.tx.Bucket([]byte(metaBucket))
	var id domain.CampaignID
	if raw := meta.Get([]byte(nextIDKey)); raw != nil {
		if len(raw) != 4 {
			return 0, fmt.Errorf("corrupt campaign id allocator")
		}
		id = domain.CampaignID(binary.BigEndian.Uint32(raw))
	}
	if err := meta.Put([]byte(nextIDKey), campaignKey(domain.NextCampaignID(id))); err != nil {
		return 0, err
	}
	return id, nil
}

func (t *stateTx) PutCampaign(c domain.Campaign) error {
	payload, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode campaign %d: %w", c.ID, err)
	}
	return t.tx.Bucket([]byte(campaignBucket)).Put(campaignKey(c.ID), payload)
}

func (t *stateTx) PutActiveSet(ids []domain.CampaignID) error {
	if ids == nil {
		ids = []domain.CampaignID{}
	}
	payload, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("encode active set: %w", err)
	}
	return t.tx.Bucket([]byte(metaBucket)).Put([]byte(activeSetKey), payload)
}

func (t *stateTx) AddContribution(id domain.CampaignID, account domain.AccountID, amount domain.Amount) error {
	current, err := t.Contribution(id, account)
	if err != nil {
		return err
	}
	value := make([]byte, 8)
	binary.BigEndian.PutUint64(value, uint64(domain.SaturatingAdd(current, amount)))
	return t.tx.Bucket([]byte(contributionBucket)).Put(contributionKey(id, account), value)
}

func (t *stateTx) TakeContribution(id domain.CampaignID, account domain.AccountID) (domain.Amount, error) {
	current, err := t.Contribution(id, account)
	if err != nil {
		return 0, err
	}
	if err := t.tx.Bucket([]byte(contributionBucket)).Delete(contributionKey(id, account)); err != nil {
		return 0, err
	}
	return current, nil
}
