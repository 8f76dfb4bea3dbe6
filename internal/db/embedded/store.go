package embedded

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/dgraph-io/badger/v3"

	"github.com/vetdao/governance-locks/internal/db"
	"github.com/vetdao/governance-locks/internal/db/model"
)

const (
	lockPrefix      = "lock/"
	exitQueuePrefix = "exit_queue/"
	statsKey        = "stats/" + model.OverallStatsID
)

// Store keeps the same documents as the mongo database in a local badger
// directory. It is meant for single node deployments and tests.
type Store struct {
	bdb *badger.DB
}

var _ db.DbInterface = (*Store)(nil)

func Open(path string) (*Store, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil) // disable spam log
	bdb, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger at %s: %w", path, err)
	}
	return &Store{bdb: bdb}, nil
}

func (s *Store) Ping(context.Context) error {
	if s.bdb.IsClosed() {
		return errors.New("badger store is closed")
	}
	return nil
}

func (s *Store) Close(context.Context) error {
	return s.bdb.Close()
}

// ids are zero padded so lexicographic key order equals numeric order
func lockKey(id uint64) []byte {
	return fmt.Appendf(nil, "%s%020d", lockPrefix, id)
}

func exitQueueKey(id uint64) []byte {
	return fmt.Appendf(nil, "%s%020d", exitQueuePrefix, id)
}

func (s *Store) SaveLock(_ context.Context, doc *model.LockDocument) error {
	return s.put(lockKey(doc.ID), doc)
}

func (s *Store) GetLock(_ context.Context, id uint64) (*model.LockDocument, error) {
	var doc model.LockDocument
	err := s.get(lockKey(id), &doc)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, &db.NotFoundError{
			Key:     fmt.Sprint(id),
			Message: "lock not found",
		}
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (s *Store) FindAllLocks(_ context.Context) ([]model.LockDocument, error) {
	var locks []model.LockDocument
	err := s.scan([]byte(lockPrefix), func(value []byte) (bool, error) {
		var doc model.LockDocument
		if err := json.Unmarshal(value, &doc); err != nil {
			return false, err
		}
		locks = append(locks, doc)
		return true, nil
	})
	return locks, err
}

func (s *Store) SaveExitQueueEntry(_ context.Context, doc *model.ExitQueueDocument) error {
	key := exitQueueKey(doc.LockID)
	value, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	return s.bdb.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(key)
		if err == nil {
			return &db.DuplicateKeyError{
				Key:     fmt.Sprint(doc.LockID),
				Message: "exit queue entry already exists",
			}
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		return txn.Set(key, value)
	})
}

func (s *Store) DeleteExitQueueEntry(_ context.Context, lockID uint64) error {
	key := exitQueueKey(lockID)
	return s.bdb.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(key); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return &db.NotFoundError{
					Key:     fmt.Sprint(lockID),
					Message: "exit queue entry not found",
				}
			}
			return err
		}
		return txn.Delete(key)
	})
}

func (s *Store) FindAllExitQueueEntries(_ context.Context) ([]model.ExitQueueDocument, error) {
	entries, err := s.exitQueueEntries(func(model.ExitQueueDocument) bool { return true })
	if err != nil {
		return nil, err
	}
	sortEntries(entries)
	return entries, nil
}

func (s *Store) FindClaimableExits(_ context.Context, now int64, limit uint64) ([]model.ExitQueueDocument, error) {
	entries, err := s.exitQueueEntries(func(doc model.ExitQueueDocument) bool {
		return !doc.Announced && doc.ScheduledExitAt <= now
	})
	if err != nil {
		return nil, err
	}

	sortEntries(entries)
	if limit > 0 && uint64(len(entries)) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

func (s *Store) MarkExitAnnounced(_ context.Context, lockID uint64) error {
	key := exitQueueKey(lockID)
	return s.bdb.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return &db.NotFoundError{
					Key:     fmt.Sprint(lockID),
					Message: "exit queue entry not found",
				}
			}
			return err
		}

		var doc model.ExitQueueDocument
		if err := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &doc)
		}); err != nil {
			return err
		}

		doc.Announced = true
		value, err := json.Marshal(doc)
		if err != nil {
			return err
		}
		return txn.Set(key, value)
	})
}

func (s *Store) UpsertOverallStats(_ context.Context, stats *model.OverallStatsDocument) error {
	stats.ID = model.OverallStatsID
	return s.put([]byte(statsKey), stats)
}

func (s *Store) GetOverallStats(_ context.Context) (*model.OverallStatsDocument, error) {
	var stats model.OverallStatsDocument
	err := s.get([]byte(statsKey), &stats)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, &db.NotFoundError{
			Key:     model.OverallStatsID,
			Message: "overall stats not found",
		}
	}
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

func (s *Store) put(key []byte, v any) error {
	value, err := json.Marshal(v)
	if err != nil {
		return err
	}

	return s.bdb.Update(func(txn *badger.Txn) error {
		return txn.Set(key, value)
	})
}

func (s *Store) get(key []byte, v any) error {
	return s.bdb.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, v)
		})
	})
}

// scan calls f with every value under prefix in key order until f returns false
func (s *Store) scan(prefix []byte, f func(value []byte) (bool, error)) error {
	return s.bdb.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			value, err := it.Item().ValueCopy(nil)
			if err != nil {
				return err
			}
			more, err := f(value)
			if err != nil {
				return err
			}
			if !more {
				return nil
			}
		}
		return nil
	})
}

func (s *Store) exitQueueEntries(keep func(model.ExitQueueDocument) bool) ([]model.ExitQueueDocument, error) {
	var entries []model.ExitQueueDocument
	err := s.scan([]byte(exitQueuePrefix), func(value []byte) (bool, error) {
		var doc model.ExitQueueDocument
		if err := json.Unmarshal(value, &doc); err != nil {
			return false, err
		}
		if keep(doc) {
			entries = append(entries, doc)
		}
		return true, nil
	})
	return entries, err
}

func sortEntries(entries []model.ExitQueueDocument) {
	slices.SortFunc(entries, func(a, b model.ExitQueueDocument) int {
		if c := cmp.Compare(a.ScheduledExitAt, b.ScheduledExitAt); c != 0 {
			return c
		}
		return cmp.Compare(a.LockID, b.LockID)
	})
}
