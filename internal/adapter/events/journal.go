package events

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.etcd.io/bbolt"

	"github.com/niklabh/quadratic-funding-registry/internal/core/domain"
)

const journalBucket = "events"

// entry is the stored form of one journaled event.
type entry struct {
	ID      string           `json:"id"`
	Seq     uint64           `json:"seq"`
	Kind    domain.EventKind `json:"kind"`
	Payload json.RawMessage  `json:"payload"`
}

// Journal appends every emitted event to an append-only bolt bucket for
// external observers to tail. Entries are keyed by a big-endian sequence
// number and carry a uuid for cross-system correlation.
//
// Journal writes are outside the engine's state transaction; a write
// failure is logged and does not fail the operation that emitted the
// event.
type Journal struct {
	db     *bbolt.DB
	logger *slog.Logger
}

// OpenJournal opens (or creates) the journal at path.
func OpenJournal(path string, logger *slog.Logger) (*Journal, error) {
	if logger == nil {
		logger = slog.Default()
	}
	db, err := bbolt.Open(filepath.Clean(path), 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open event journal: %w", err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(journalBucket))
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Journal{db: db, logger: logger}, nil
}

// Close closes the underlying database.
func (j *Journal) Close() error {
	return j.db.Close()
}

// Emit appends the event.
func (j *Journal) Emit(e domain.Event) {
	payload, err := json.Marshal(e)
	if err != nil {
		j.logger.Error("encode event", slog.Any("error", err))
		return
	}
	err = j.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(journalBucket))
		seq, err := bucket.NextSequence()
		if err != nil {
			return err
		}
		raw, err := json.Marshal(entry{
			ID:      uuid.NewString(),
			Seq:     seq,
			Kind:    e.Kind(),
			Payload: payload,
		})
		if err != nil {
			return err
		}
		key := make([]byte, 8)
		binary.BigEndian.PutUint64(key, seq)
		return bucket.Put(key, raw)
	})
	if err != nil {
		j.logger.Error("append event", slog.Any("error", err))
	}
}

// Tail returns up to limit journal entries starting after the given
// sequence number, in append order.
func (j *Journal) Tail(after uint64, limit int) ([]domain.EventKind, []json.RawMessage, error) {
	var kinds []domain.EventKind
	var payloads []json.RawMessage
	err := j.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket([]byte(journalBucket)).Cursor()
		start := make([]byte, 8)
		binary.BigEndian.PutUint64(start, after+1)
		for k, v := c.Seek(start); k != nil && len(kinds) < limit; k, v = c.Next() {
			var en entry
			if err := json.Unmarshal(v, &en); err != nil {
				return fmt.Errorf("decode journal entry: %w", err)
			}
			kinds = append(kinds, en.Kind)
			payloads = append(payloads, en.Payload)
		}
		return nil
	})
	return kinds, payloads, err
}
