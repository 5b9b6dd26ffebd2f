// Edufeed - Video Engagement Tracking and Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/edufeed

package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// queryBuilder assembles a filtered SELECT. The base query must already
// contain a WHERE clause; filters are appended with AND.
type queryBuilder struct {
	baseQuery string
	args      []interface{}
	filters   []string
}

// newQueryBuilder creates a new query builder with a base query.
func newQueryBuilder(baseQuery string, args ...interface{}) *queryBuilder {
	qb := &queryBuilder{
		baseQuery: baseQuery,
		args:      make([]interface{}, 0, 8),
		filters:   make([]string, 0, 4),
	}
	qb.args = append(qb.args, args...)
	return qb
}

// placeholders returns "?,?,..." for n values.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

// addInFilter restricts column to values. No-op when values is empty.
func (qb *queryBuilder) addInFilter(column string, values []string) *queryBuilder {
	if len(values) == 0 {
		return qb
	}
	qb.filters = append(qb.filters, fmt.Sprintf("%s IN (%s)", column, placeholders(len(values))))
	for _, v := range values {
		qb.args = append(qb.args, v)
	}
	return qb
}

// addNotInFilter drops rows whose column is in values. No-op when values is empty.
func (qb *queryBuilder) addNotInFilter(column string, values []string) *queryBuilder {
	if len(values) == 0 {
		return qb
	}
	qb.filters = append(qb.filters, fmt.Sprintf("%s NOT IN (%s)", column, placeholders(len(values))))
	for _, v := range values {
		qb.args = append(qb.args, v)
	}
	return qb
}

// addFilter adds a custom filter condition
func (qb *queryBuilder) addFilter(condition string, args ...interface{}) *queryBuilder {
	qb.filters = append(qb.filters, condition)
	qb.args = append(qb.args, args...)
	return qb
}

// addLimit binds the LIMIT argument; the suffix passed to build supplies "LIMIT ?".
func (qb *queryBuilder) addLimit(limit int) *queryBuilder {
	qb.args = append(qb.args, limit)
	return qb
}

// build constructs the final query and returns it with args
func (qb *queryBuilder) build(suffix string) (string, []interface{}) {
	query := qb.baseQuery
	if len(qb.filters) > 0 {
		query += " AND " + strings.Join(qb.filters, " AND ")
	}
	if suffix != "" {
		query += " " + suffix
	}
	return query, qb.args
}

// scanFunc is a function that scans a single row into a result type
type scanFunc[T any] func(*sql.Rows) (T, error)

// queryAndScan executes a query and scans all rows using the provided scan function
func queryAndScan[T any](ctx context.Context, db *sql.DB, query string, args []interface{}, scan scanFunc[T]) ([]T, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := make([]T, 0)
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return results, nil
}
