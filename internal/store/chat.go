// ABOUTME: Chat message log: append and most-recent-first history
// ABOUTME: Messages are never updated; they go away only with their user

package store

import (
	"context"
	"fmt"
)

const chatColumns = `id, user_id, created_at, role, content, model`

func scanChatMessage(row rowScanner) (ChatMessage, error) {
	var m ChatMessage
	err := row.Scan(&m.ID, &m.UserID, &m.CreatedAt, &m.Role, &m.Content, &m.Model)
	return m, err
}

// CreateChatMessage appends a message and echoes it back.
func (s *SQLiteStore) CreateChatMessage(ctx context.Context, m *ChatMessage) (*ChatMessage, error) {
	const op = "create chat message"
	if err := Validate(op, m); err != nil {
		return nil, err
	}

	query := `
		INSERT INTO ChatMessages (` + chatColumns + `)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err := s.exec(ctx, op, query, m.ID, m.UserID, m.CreatedAt, m.Role, m.Content, m.Model)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("created chat message", "id", m.ID, "user_id", m.UserID, "role", m.Role)
	return m, nil
}

// GetChatHistory returns the newest limit messages for a user, newest first.
// A limit of zero or less means unspecified and uses the configured default
// (DefaultHistoryLimit unless set by WithPaging), so 0 does not return an
// empty list.
func (s *SQLiteStore) GetChatHistory(ctx context.Context, userID string, limit int) ([]ChatMessage, error) {
	const op = "get chat history"

	if limit <= 0 {
		limit = s.historySize
	}

	db, err := s.handle(op)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT ` + chatColumns + `
		FROM ChatMessages
		WHERE user_id = ?
		ORDER BY created_at DESC
		LIMIT ?
	`
	rows, err := db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, classify(op, err)
	}
	defer func() { _ = rows.Close() }()

	messages := []ChatMessage{}
	for rows.Next() {
		m, err := scanChatMessage(rows)
		if err != nil {
			return nil, classify(op, fmt.Errorf("scanning message: %w", err))
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(op, fmt.Errorf("iterating messages: %w", err))
	}

	s.logger.Debug("fetched chat history", "user_id", userID, "limit", limit, "returned", len(messages))
	return messages, nil
}
