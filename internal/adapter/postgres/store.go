package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/niklabh/quadratic-funding-registry/internal/core/domain"
	"github.com/niklabh/quadratic-funding-registry/internal/core/port"
)

// Store implements the registry store on PostgreSQL using pgx. Every
// engine operation maps to one SQL transaction, so a rejected operation
// rolls back without a trace. The active set is kept as a jsonb array in
// the single-row registry_meta table to preserve its order.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore returns a store backed by the given pool. The schema is owned
// by the embedded migrations.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Close releases the underlying pool.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

// View runs fn in a read-only transaction.
func (s *Store) View(ctx context.Context, fn func(port.StateView) error) error {
	return s.run(ctx, pgx.TxOptions{AccessMode: pgx.ReadOnly}, func(t *stateTx) error {
		return fn(t)
	})
}

// Update runs fn in a serializable transaction and commits on success.
func (s *Store) Update(ctx context.Context, fn func(port.StateTx) error) error {
	return s.run(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable}, func(t *stateTx) error {
		return fn(t)
	})
}

func (s *Store) run(ctx context.Context, opts pgx.TxOptions, fn func(*stateTx) error) error {
	tx, err := s.pool.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err = fn(&stateTx{ctx: ctx, tx: tx}); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}

type stateTx struct {
	ctx context.Context
	tx  pgx.Tx
}

func (t *stateTx) Campaign(id domain.CampaignID) (domain.Campaign, bool, error) {
	const query = `
        SELECT id, owner, name, description, link,
               start_at, end_at, soft_cap, hard_cap, matched, status
        FROM campaigns
        WHERE id = $1`

	var (
		c                                    domain.Campaign
		cid, startAt, endAt                  int64
		softCap, hardCap, matched            int64
		owner, name, description, link, stat string
	)
	err := t.tx.QueryRow(t.ctx, query, int64(id)).Scan(
		&cid, &owner, &name, &description, &link,
		&startAt, &endAt, &softCap, &hardCap, &matched, &stat,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Campaign{}, false, nil
	}
	if err != nil {
		return domain.Campaign{}, false, err
	}

	c = domain.Campaign{
		ID:    domain.CampaignID(cid),
		Owner: domain.AccountID(owner),
		Metadata: domain.Metadata{
			Name:        name,
			Description: description,
			Link:        link,
		},
		Start:   domain.Moment(startAt),
		End:     domain.Moment(endAt),
		SoftCap: domain.Amount(softCap),
		HardCap: domain.Amount(hardCap),
		Matched: domain.Amount(matched),
		Status:  domain.Status(stat),
	}
	return c, true, nil
}

func (t *stateTx) Contribution(id domain.CampaignID, account domain.AccountID) (domain.Amount, error) {
	const query = `SELECT amount FROM contributions WHERE campaign_id = $1 AND account = $2`

	var amount int64
	err := t.tx.QueryRow(t.ctx, query, int64(id), string(account)).Scan(&amount)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return domain.Amount(amount), nil
}

func (t *stateTx) ActiveSet() ([]domain.CampaignID, error) {
	const query = `SELECT active_set FROM registry_meta WHERE id = 1`

	var raw []byte
	if err := t.tx.QueryRow(t.ctx, query).Scan(&raw); err != nil {
		return nil, err
	}
	var ids []domain.CampaignID
	if err := json.Unmarshal(raw, &ids); err != nil {
		return nil, fmt.Errorf("decode active set: %w", err)
	}
	return ids, nil
}

func (t *stateTx) AllocateCampaignID() (domain.CampaignID, error) {
	var next int64
	if err := t.tx.QueryRow(t.ctx, `SELECT next_campaign_id FROM registry_meta WHERE id = 1 FOR UPDATE`).Scan(&next); err != nil {
		return 0, err
	}
	id := domain.CampaignID(next)
	if _, err := t.tx.Exec(t.ctx, `UPDATE registry_meta SET next_campaign_id = $1 WHERE id = 1`, int64(domain.NextCampaignID(id))); err != nil {
		return 0, err
	}
	return id, nil
}

func (t *stateTx) PutCampaign(c domain.Campaign) error {
	const query = `
        INSERT INTO campaigns (id, owner, name, description, link,
                               start_at, end_at, soft_cap, hard_cap, matched, status)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
        ON CONFLICT (id) DO UPDATE SET
            owner = EXCLUDED.owner,
            name = EXCLUDED.name,
            description = EXCLUDED.description,
            link = EXCLUDED.link,
            start_at = EXCLUDED.start_at,
            end_at = EXCLUDED.end_at,
            soft_cap = EXCLUDED.soft_cap,
            hard_cap = EXCLUDED.hard_cap,
            matched = EXCLUDED.matched,
            status = EXCLUDED.status`

	_, err := t.tx.Exec(t.ctx, query,
		int64(c.ID), string(c.Owner),
		c.Metadata.Name, c.Metadata.Description, c.Metadata.Link,
		int64(c.Start), int64(c.End),
		int64(c.SoftCap), int64(c.HardCap), int64(c.Matched),
		string(c.Status),
	)
	return err
}

func (t *stateTx) PutActiveSet(ids []domain.CampaignID) error {
	if ids == nil {
		ids = []domain.CampaignID{}
	}
	raw, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("encode active set: %w", err)
	}
	_, err = t.tx.Exec(t.ctx, `UPDATE registry_meta SET active_set = $1 WHERE id = 1`, raw)
	return err
}

func (t *stateTx) AddContribution(id domain.CampaignID, account domain.AccountID, amount domain.Amount) error {
	current, err := t.Contribution(id, account)
	if err != nil {
		return err
	}
	const query = `
        INSERT INTO contributions (campaign_id, account, amount)
        VALUES ($1, $2, $3)
        ON CONFLICT (campaign_id, account) DO UPDATE SET amount = EXCLUDED.amount`

	_, err = t.tx.Exec(t.ctx, query, int64(id), string(account), int64(domain.SaturatingAdd(current, amount)))
	return err
}

func (t *stateTx) TakeContribution(id domain.CampaignID, account domain.AccountID) (domain.Amount, error) {
	const query = `DELETE FROM contributions WHERE campaign_id = $1 AND account = $2 RETURNING amount`

	var amount int64
	err := t.tx.QueryRow(t.ctx, query, int64(id), string(account)).Scan(&amount)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return domain.Amount(amount), nil
}
