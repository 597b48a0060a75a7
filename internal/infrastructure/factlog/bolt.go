package factlog

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/edulingo/backend/domain"
	"github.com/edulingo/backend/repository"
)

var (
	factsBucket       = []byte("facts")
	checkpointsBucket = []byte("checkpoints")
)

// Store is the durable fact log on BoltDB. Facts live in one bucket keyed by
// their 8-byte big-endian ordinal; the bucket sequence is the ordinal
// counter, so assignment and insertion commit in a single Bolt transaction.
// A second bucket holds per-consumer checkpoints.
type Store struct {
	db *bolt.DB
}

// Open initializes the BoltDB file and ensures both buckets exist.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}

	if err := db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(factsBucket); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists(checkpointsBucket)
		return err
	}); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func (s *Store) Append(ctx context.Context, fact *domain.Fact) (uint64, error) {
	if s == nil || s.db == nil {
		return 0, bolt.ErrDatabaseNotOpen
	}
	if fact == nil {
		return 0, domain.ErrInvalidPayload
	}

	var ordinal uint64
	err := s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(factsBucket)
		seq, err := bucket.NextSequence()
		if err != nil {
			return err
		}
		fact.Ordinal = seq
		payload, err := json.Marshal(fact)
		if err != nil {
			return err
		}
		if err := bucket.Put(ordinalKey(seq), payload); err != nil {
			return err
		}
		ordinal = seq
		return nil
	})
	if err != nil {
		return 0, err
	}
	return ordinal, nil
}

func (s *Store) ReadFrom(ctx context.Context, from uint64, limit int) ([]domain.Fact, error) {
	if s == nil || s.db == nil {
		return nil, bolt.ErrDatabaseNotOpen
	}
	if from == 0 {
		from = 1
	}

	var facts []domain.Fact
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(factsBucket).Cursor()
		for k, v := c.Seek(ordinalKey(from)); k != nil; k, v = c.Next() {
			if limit > 0 && len(facts) >= limit {
				break
			}
			var fact domain.Fact
			if err := json.Unmarshal(v, &fact); err != nil {
				return err
			}
			facts = append(facts, fact)
		}
		return nil
	})
	return facts, err
}

func (s *Store) LastOrdinal(ctx context.Context) (uint64, error) {
	if s == nil || s.db == nil {
		return 0, bolt.ErrDatabaseNotOpen
	}
	var last uint64
	err := s.db.View(func(tx *bolt.Tx) error {
		last = tx.Bucket(factsBucket).Sequence()
		return nil
	})
	return last, err
}

func (s *Store) SaveCheckpoint(ctx context.Context, consumer string, ordinal uint64) error {
	if s == nil || s.db == nil {
		return bolt.ErrDatabaseNotOpen
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(checkpointsBucket).Put([]byte(consumer), ordinalKey(ordinal))
	})
}

func (s *Store) LoadCheckpoint(ctx context.Context, consumer string) (uint64, error) {
	if s == nil || s.db == nil {
		return 0, bolt.ErrDatabaseNotOpen
	}
	var ordinal uint64
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(checkpointsBucket).Get([]byte(consumer))
		if len(v) == 8 {
			ordinal = binary.BigEndian.Uint64(v)
		}
		return nil
	})
	return ordinal, err
}

// Size returns the number of stored facts, for monitoring.
func (s *Store) Size() (int, error) {
	if s == nil || s.db == nil {
		return 0, bolt.ErrDatabaseNotOpen
	}
	var count int
	err := s.db.View(func(tx *bolt.Tx) error {
		count = tx.Bucket(factsBucket).Stats().KeyN
		return nil
	})
	return count, err
}

// Stats exposes Bolt statistics for monitoring endpoints.
func (s *Store) Stats() bolt.Stats {
	if s == nil || s.db == nil {
		return bolt.Stats{}
	}
	return s.db.Stats()
}

// Close closes the Bolt database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func ordinalKey(ordinal uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, ordinal)
	return key
}

var (
	_ repository.FactLog         = (*Store)(nil)
	_ repository.CheckpointStore = (*Store)(nil)
)
