// Edufeed - Video Engagement Tracking and Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/edufeed

// Package history keeps each user's bounded viewing-history log in BadgerDB.
//
// A user's log is one JSON value under "history:<userID>", newest entry
// first, trimmed to the configured maximum on every append. Appends run in
// a Badger transaction and retry when a concurrent append to the same user
// wins the commit.
package history

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/edufeed/internal/config"
	"github.com/tomtom215/edufeed/internal/logging"
	"github.com/tomtom215/edufeed/internal/models"
)

const (
	keyPrefix = "history:"

	// DefaultMaxEntries is the per-user cap when none is configured.
	DefaultMaxEntries = 200

	maxAppendRetries = 5
)

// Store is the BadgerDB-backed viewing-history log.
type Store struct {
	db         *badger.DB
	maxEntries int
}

// Open opens (or creates) the history store described by cfg.
func Open(cfg *config.HistoryConfig) (*Store, error) {
	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Path, 0o750); err != nil {
			return nil, fmt.Errorf("create history directory %s: %w", cfg.Path, err)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts.Logger = newBadgerLogger()

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open BadgerDB: %w", err)
	}

	maxEntries := cfg.MaxEntries
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}

	logging.Info().
		Str("path", cfg.Path).
		Bool("in_memory", cfg.InMemory).
		Int("max_entries", maxEntries).
		Msg("History store opened")

	return &Store{db: db, maxEntries: maxEntries}, nil
}

func userKey(userID string) []byte {
	return []byte(keyPrefix + userID)
}

// Append puts entry at the head of the user's log and drops anything
// beyond the cap.
func (s *Store) Append(ctx context.Context, userID string, entry models.HistoryEntry) error {
	if userID == "" {
		return fmt.Errorf("history append: empty user id: %w", models.ErrValidation)
	}
	if entry.WatchedAt.IsZero() {
		entry.WatchedAt = time.Now().UTC()
	}

	var err error
	for attempt := 0; attempt < maxAppendRetries; attempt++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		err = s.db.Update(func(txn *badger.Txn) error {
			entries, err := readEntries(txn, userID)
			if err != nil {
				return err
			}

			entries = append([]models.HistoryEntry{entry}, entries...)
			if len(entries) > s.maxEntries {
				entries = entries[:s.maxEntries]
			}

			data, err := json.Marshal(entries)
			if err != nil {
				return fmt.Errorf("marshal history: %w", err)
			}
			return txn.Set(userKey(userID), data)
		})
		if !errors.Is(err, badger.ErrConflict) {
			break
		}
	}
	if err != nil {
		return fmt.Errorf("append history for %s: %w", userID, err)
	}
	return nil
}

// Recent returns up to limit entries, newest first. A non-positive limit
// returns the whole log.
func (s *Store) Recent(ctx context.Context, userID string, limit int) ([]models.HistoryEntry, error) {
	var entries []models.HistoryEntry
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		entries, err = readEntries(txn, userID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("read history for %s: %w", userID, err)
	}
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// Ping reports whether the store is usable.
func (s *Store) Ping(ctx context.Context) error {
	if s.db.IsClosed() {
		return errors.New("history store is closed")
	}
	return nil
}

// RunGC reclaims value-log space. It is a no-op for in-memory stores and
// when nothing was rewritten.
func (s *Store) RunGC(discardRatio float64) error {
	if s.db.Opts().InMemory {
		return nil
	}
	err := s.db.RunValueLogGC(discardRatio)
	if err != nil && !errors.Is(err, badger.ErrNoRewrite) {
		return fmt.Errorf("history value log GC: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func readEntries(txn *badger.Txn, userID string) ([]models.HistoryEntry, error) {
	item, err := txn.Get(userKey(userID))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get history: %w", err)
	}

	var entries []models.HistoryEntry
	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, &entries)
	})
	if err != nil {
		return nil, fmt.Errorf("unmarshal history: %w", err)
	}
	return entries, nil
}
