// Edufeed - Video Engagement Tracking and Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/edufeed

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tomtom215/edufeed/internal/models"
)

// GetUser returns the profile slice of a user with interests sorted.
func (db *DB) GetUser(ctx context.Context, userID string) (*models.User, error) {
	var u models.User
	err := db.conn.QueryRowContext(ctx,
		`SELECT id, username, created_at FROM users WHERE id = ?`, userID,
	).Scan(&u.ID, &u.Username, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %s: %w", userID, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	interests, err := queryAndScan(ctx, db.conn,
		`SELECT interest FROM user_interests WHERE user_id = ? ORDER BY interest`,
		[]interface{}{userID},
		func(rows *sql.Rows) (string, error) {
			var s string
			err := rows.Scan(&s)
			return s, err
		})
	if err != nil {
		return nil, fmt.Errorf("failed to get user interests: %w", err)
	}
	u.Interests = interests
	return &u, nil
}

// UserExists reports whether a user is known.
func (db *DB) UserExists(ctx context.Context, userID string) (bool, error) {
	var n int
	if err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE id = ?`, userID).Scan(&n); err != nil {
		return false, fmt.Errorf("failed to check user: %w", err)
	}
	return n > 0, nil
}

// UpsertUser inserts a user or replaces its username and interests.
func (db *DB) UpsertUser(ctx context.Context, u *models.User) error {
	createdAt := u.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO users (id, username, created_at) VALUES (?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET username = EXCLUDED.username`,
		u.ID, u.Username, createdAt.UTC()); err != nil {
		rollbackQuietly(tx)
		return fmt.Errorf("failed to upsert user %s: %w", u.ID, err)
	}

	interests := make([]string, 0, len(u.Interests))
	seen := make(map[string]struct{}, len(u.Interests))
	for _, interest := range u.Interests {
		interest = strings.ToLower(strings.TrimSpace(interest))
		if interest == "" {
			continue
		}
		if _, dup := seen[interest]; dup {
			continue
		}
		seen[interest] = struct{}{}
		interests = append(interests, interest)
	}

	// Only stale interests are deleted; DuckDB rejects re-inserting a key
	// deleted earlier in the same transaction.
	qb := newQueryBuilder(`DELETE FROM user_interests WHERE user_id = ?`, u.ID).
		addNotInFilter("interest", interests)
	query, args := qb.build("")
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		rollbackQuietly(tx)
		return fmt.Errorf("failed to reset interests for %s: %w", u.ID, err)
	}

	for _, interest := range interests {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO user_interests (user_id, interest) VALUES (?, ?) ON CONFLICT DO NOTHING`,
			u.ID, interest); err != nil {
			rollbackQuietly(tx)
			return fmt.Errorf("failed to add interest %q for %s: %w", interest, u.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit user: %w", err)
	}
	return nil
}
