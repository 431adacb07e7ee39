package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger"
)

// badgerKeyPrefix keeps pokeapi responses apart from anything else stored in the same db.
const badgerKeyPrefix = "papi/"

// BadgerCache is the persistent layer. Entries carry the ttl so badger expires them itself.
type BadgerCache struct {
	db  *badger.DB
	TTL time.Duration
}

func NewBadgerCache(db *badger.DB, ttl time.Duration) BadgerCache {
	return BadgerCache{db: db, TTL: ttl}
}

func badgerKey(endpoint string) []byte {
	return []byte(badgerKeyPrefix + endpoint)
}

func (c *BadgerCache) Set(endpoint string, value any) error {
	slog.Debug("writing to badger cache", slog.String("endpoint", endpoint), slog.Duration("ttl", c.TTL))
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encoding %q for badger: %w", endpoint, err)
	}
	return c.db.Update(func(txn *badger.Txn) error {
		return txn.SetEntry(badger.NewEntry(badgerKey(endpoint), payload).WithTTL(c.TTL))
	})
}

// Get decodes straight out of badger's value buffer, which is only valid inside the transaction.
// Entries that no longer decode into value are deleted and reported as a miss.
func (c *BadgerCache) Get(endpoint string, value any) (bool, error) {
	var decodeErr error
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(badgerKey(endpoint))
		if err != nil {
			return err
		}
		return item.Value(func(payload []byte) error {
			decodeErr = json.Unmarshal(payload, value)
			return nil
		})
	})
	switch {
	case errors.Is(err, badger.ErrKeyNotFound):
		slog.Debug("not found in badger cache", slog.String("endpoint", endpoint))
		return false, nil
	case err != nil:
		return false, fmt.Errorf("reading %q from badger: %w", endpoint, err)
	case decodeErr != nil:
		slog.Warn("dropping undecodable badger entry", slog.String("endpoint", endpoint), slog.Any("error", decodeErr))
		if err := c.db.Update(func(txn *badger.Txn) error {
			return txn.Delete(badgerKey(endpoint))
		}); err != nil {
			return false, fmt.Errorf("deleting %q from badger: %w", endpoint, err)
		}
		return false, nil
	}
	slog.Debug("found in badger cache", slog.String("endpoint", endpoint))
	return true, nil
}

// RunGC runs badger's value log gc every interval until ctx is done.
func RunGC(ctx context.Context, db *badger.DB, interval time.Duration) {
	go func() {
		for {
			select {
			case <-time.After(interval):
				err := db.RunValueLogGC(0.5)
				if err != nil {
					if !errors.Is(err, badger.ErrNoRewrite) {
						slog.Error("running the badger db gc", slog.Any("error", err))
					}
				}
			case <-ctx.Done():
				slog.Debug("badger gc loop shut down")
				return
			}
		}
	}()
}
