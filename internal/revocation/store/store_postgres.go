package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"credvault/internal/revocation/models"
	id "credvault/pkg/domain"
	"credvault/pkg/platform/sentinel"
)

// PostgresStore persists revocation records in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
	tx *sql.Tx
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// NewPostgresTx binds the store to an open transaction.
func NewPostgresTx(tx *sql.Tx) *PostgresStore {
	return &PostgresStore{tx: tx}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *PostgresStore) execer() dbExecutor {
	if s.tx != nil {
		return s.tx
	}
	return s.db
}

const revocationColumns = `credential_id, rev_reg_id, rev_reg_def_id, cred_rev_id, issuer_did, holder_did, reason, revoked_at, is_active`

func (s *PostgresStore) Create(ctx context.Context, rec *models.Record) error {
	if rec == nil {
		return fmt.Errorf("revocation record is required")
	}
	query := `
		INSERT INTO revocations (` + revocationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (credential_id) DO NOTHING
		RETURNING credential_id
	`
	var stored string
	err := s.execer().QueryRowContext(ctx, query,
		rec.CredentialID.String(),
		rec.RevRegID,
		rec.RevRegDefID,
		rec.CredRevID,
		rec.IssuerDID.String(),
		rec.HolderDID.String(),
		rec.Reason,
		rec.RevokedAt,
		rec.Active,
	).Scan(&stored)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return sentinel.ErrAlreadyExists
		}
		return fmt.Errorf("create revocation: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByCredential(ctx context.Context, credentialID id.CredentialID) (*models.Record, error) {
	query := `SELECT ` + revocationColumns + ` FROM revocations WHERE credential_id = $1`
	rec, err := scanRevocation(s.execer().QueryRowContext(ctx, query, credentialID.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find revocation: %w", err)
	}
	return rec, nil
}

func (s *PostgresStore) ListByHolder(ctx context.Context, holder id.DID) ([]*models.Record, error) {
	query := `SELECT ` + revocationColumns + ` FROM revocations WHERE holder_did = $1 ORDER BY revoked_at DESC, credential_id`
	rows, err := s.execer().QueryContext(ctx, query, holder.String())
	if err != nil {
		return nil, fmt.Errorf("list revocations: %w", err)
	}
	defer rows.Close()

	var out []*models.Record
	for rows.Next() {
		rec, err := scanRevocation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan revocation: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate revocations: %w", err)
	}
	return out, nil
}

type revocationRow interface {
	Scan(dest ...any) error
}

func scanRevocation(row revocationRow) (*models.Record, error) {
	var rec models.Record
	var credentialID, issuer, holder string
	if err := row.Scan(
		&credentialID,
		&rec.RevRegID,
		&rec.RevRegDefID,
		&rec.CredRevID,
		&issuer,
		&holder,
		&rec.Reason,
		&rec.RevokedAt,
		&rec.Active,
	); err != nil {
		return nil, err
	}
	rec.CredentialID = id.CredentialID(credentialID)
	rec.IssuerDID = id.DID(issuer)
	rec.HolderDID = id.DID(holder)
	return &rec, nil
}
