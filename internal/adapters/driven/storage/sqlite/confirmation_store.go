package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/custodia-labs/prdstore/internal/core/domain"
	"github.com/custodia-labs/prdstore/internal/core/ports/driven"
)

// Verify interface compliance.
var _ driven.ConfirmationStore = (*confirmationStore)(nil)

// confirmationStore implements driven.ConfirmationStore using SQLite.
type confirmationStore struct {
	store *Store
}

const confirmationColumns = `token, tool, fingerprint, target, preview, consequence,
	state, created_at, decided_at, decided_by, result, error`

// Create inserts a new record.
func (s *confirmationStore) Create(ctx context.Context, c *domain.Confirmation) error {
	res, err := s.store.db.ExecContext(ctx, `
		INSERT INTO confirmations (`+confirmationColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(token) DO NOTHING
	`,
		c.Token, c.Tool, c.Fingerprint, c.Target, c.Preview, c.Consequence,
		string(c.State), formatTime(c.CreatedAt), nullTime(c.DecidedAt), c.DecidedBy,
		nullResult(c.Result), c.Error,
	)
	if err != nil {
		return fmt.Errorf("create confirmation: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("create confirmation: %w", err)
	}
	if n == 0 {
		return domain.ErrAlreadyExists
	}
	return nil
}

// Get returns the record for token.
func (s *confirmationStore) Get(ctx context.Context, token string) (*domain.Confirmation, error) {
	row := s.store.db.QueryRowContext(ctx,
		`SELECT `+confirmationColumns+` FROM confirmations WHERE token = ?`, token)
	c, err := scanConfirmation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrConfirmationNotFound
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// CompareAndSwap replaces the record if its stored state is still from.
// The state check and the write are one UPDATE statement.
func (s *confirmationStore) CompareAndSwap(
	ctx context.Context, from domain.ConfirmationState, next *domain.Confirmation,
) (bool, error) {
	res, err := s.store.db.ExecContext(ctx, `
		UPDATE confirmations SET
			tool = ?, fingerprint = ?, target = ?, preview = ?, consequence = ?,
			state = ?, decided_at = ?, decided_by = ?, result = ?, error = ?
		WHERE token = ? AND state = ?
	`,
		next.Tool, next.Fingerprint, next.Target, next.Preview, next.Consequence,
		string(next.State), nullTime(next.DecidedAt), next.DecidedBy, nullResult(next.Result), next.Error,
		next.Token, string(from),
	)
	if err != nil {
		return false, fmt.Errorf("update confirmation: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update confirmation: %w", err)
	}
	if n == 1 {
		return true, nil
	}

	// Distinguish a lost race from an unknown token.
	if _, err := s.Get(ctx, next.Token); err != nil {
		return false, err
	}
	return false, nil
}

// ListPending returns pending and approved records, oldest first.
func (s *confirmationStore) ListPending(ctx context.Context) ([]domain.Confirmation, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT `+confirmationColumns+` FROM confirmations
		WHERE state IN (?, ?)
		ORDER BY created_at, token
	`, string(domain.ConfirmationPending), string(domain.ConfirmationApproved))
	if err != nil {
		return nil, fmt.Errorf("list confirmations: %w", err)
	}
	defer rows.Close()

	var out []domain.Confirmation
	for rows.Next() {
		c, err := scanConfirmation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list confirmations: %w", err)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanConfirmation(row scanner) (*domain.Confirmation, error) {
	var (
		c         domain.Confirmation
		state     string
		createdAt string
		decidedAt sql.NullString
		result    sql.NullString
	)
	err := row.Scan(
		&c.Token, &c.Tool, &c.Fingerprint, &c.Target, &c.Preview, &c.Consequence,
		&state, &createdAt, &decidedAt, &c.DecidedBy, &result, &c.Error,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan confirmation: %w", err)
	}

	c.State = domain.ConfirmationState(state)
	if c.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if decidedAt.Valid {
		t, err := parseTime(decidedAt.String)
		if err != nil {
			return nil, fmt.Errorf("parse decided_at: %w", err)
		}
		c.DecidedAt = &t
	}
	if result.Valid && strings.TrimSpace(result.String) != "" {
		c.Result = []byte(result.String)
	}
	return &c, nil
}

func nullResult(raw []byte) sql.NullString {
	if len(raw) == 0 {
		return sql.NullString{}
	}
	return sql.NullString{String: string(raw), Valid: true}
}
