// ABOUTME: Date-range filtered pagination shared by food, glucose and medication queries
// ABOUTME: One predicate builder feeds both the page query and the total count

package store

import (
	"context"
	"fmt"
)

const (
	DefaultPageSize     = 20
	DefaultHistoryLimit = 50
)

// PagedResult is one page of T plus the total number of matching rows
// across all pages.
type PagedResult[T any] struct {
	Items    []T   `json:"items"`
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
}

// RangeQuery selects a user's records with StartDate <= created_at < EndDate.
// Page is 1-based.
type RangeQuery struct {
	UserID    string
	StartDate string
	EndDate   string
	Page      int
	PageSize  int
}

// Offset returns the number of rows skipped before this page.
func (q RangeQuery) Offset() int {
	return (q.Page - 1) * q.PageSize
}

// normalize raises Page to 1 and applies defaultSize when PageSize is unset.
// A positive PageSize is used as given so every page starts at
// (Page-1)*PageSize.
func (q RangeQuery) normalize(defaultSize int) RangeQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize <= 0 {
		q.PageSize = defaultSize
	}
	return q
}

// predicate returns the WHERE clause and its arguments. Both the page query
// and the count query are built from this.
func (q RangeQuery) predicate() (string, []any) {
	return "user_id = ? AND created_at >= ? AND created_at < ?",
		[]any{q.UserID, q.StartDate, q.EndDate}
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// listRange runs the count and page queries for table inside one read
// transaction so the total and the page see the same snapshot.
func listRange[T any](ctx context.Context, s *SQLiteStore, op, table, columns string, q RangeQuery, scan func(rowScanner) (T, error)) (*PagedResult[T], error) {
	q = q.normalize(s.pageSize)
	where, args := q.predicate()

	result := &PagedResult[T]{
		Items:    []T{},
		Page:     q.Page,
		PageSize: q.PageSize,
	}

	err := s.withTx(ctx, func(ctx context.Context, tx dbtx) error {
		countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s`, table, where)
		if err := tx.QueryRowContext(ctx, countQuery, args...).Scan(&result.Total); err != nil {
			return fmt.Errorf("counting rows: %w", err)
		}

		pageQuery := fmt.Sprintf(`
			SELECT %s
			FROM %s
			WHERE %s
			ORDER BY created_at DESC
			LIMIT ? OFFSET ?
		`, columns, table, where)
		pageArgs := append(append([]any{}, args...), q.PageSize, q.Offset())

		rows, err := tx.QueryContext(ctx, pageQuery, pageArgs...)
		if err != nil {
			return fmt.Errorf("querying page: %w", err)
		}
		defer func() { _ = rows.Close() }()

		for rows.Next() {
			item, err := scan(rows)
			if err != nil {
				return err
			}
			result.Items = append(result.Items, item)
		}
		if err := rows.Err(); err != nil {
			return fmt.Errorf("iterating rows: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, classify(op, err)
	}

	s.logger.Debug("listed records",
		"table", table,
		"user_id", q.UserID,
		"page", q.Page,
		"page_size", q.PageSize,
		"returned", len(result.Items),
		"total", result.Total,
	)
	return result, nil
}
