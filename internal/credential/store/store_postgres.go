package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"credvault/internal/credential/models"
	id "credvault/pkg/domain"
	"credvault/pkg/platform/sentinel"
)

// PostgresStore persists credentials in PostgreSQL.
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

const credentialColumns = `id, schema_id, cred_def_id, issuer_did, holder_did, credential_type, attributes, status,
	storage_hash, anchor_hash, anchor_tx_id, requested_at, issued_at, revoked_at, revocation_reason,
	staged_issued_at, staged_signature, staged_storage_hash`

func (s *PostgresStore) Create(ctx context.Context, c *models.Credential) error {
	if c == nil {
		return fmt.Errorf("credential is required")
	}
	attrs, err := json.Marshal(c.Attributes)
	if err != nil {
		return fmt.Errorf("marshal attributes: %w", err)
	}
	query := `
		INSERT INTO credentials (` + credentialColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		ON CONFLICT (id) DO NOTHING
		RETURNING id
	`
	var stored string
	err = s.execer().QueryRowContext(ctx, query,
		c.ID.String(),
		c.SchemaID,
		c.CredDefID,
		c.IssuerDID.String(),
		c.HolderDID.String(),
		c.Type,
		attrs,
		string(c.Status),
		nullString(c.StorageHash),
		nullString(c.AnchorHash),
		nullString(c.AnchorTxID),
		c.RequestedAt,
		c.IssuedAt,
		c.RevokedAt,
		nullReason(c),
		stagedIssuedAt(c),
		nullString(stagedField(c, func(st *models.StagedIssuance) string { return st.Signature })),
		nullString(stagedField(c, func(st *models.StagedIssuance) string { return st.StorageHash })),
	).Scan(&stored)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return sentinel.ErrAlreadyExists
		}
		return fmt.Errorf("create credential: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, credentialID id.CredentialID) (*models.Credential, error) {
	query := `SELECT ` + credentialColumns + ` FROM credentials WHERE id = $1`
	c, err := scanCredential(s.execer().QueryRowContext(ctx, query, credentialID.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find credential: %w", err)
	}
	return c, nil
}

func (s *PostgresStore) ListByHolder(ctx context.Context, holder id.DID, filter Filter) ([]*models.Credential, error) {
	return s.list(ctx, "holder_did", holder, filter)
}

func (s *PostgresStore) ListByIssuer(ctx context.Context, issuer id.DID, filter Filter) ([]*models.Credential, error) {
	return s.list(ctx, "issuer_did", issuer, filter)
}

// list queries by a fixed owner column; column is never caller-supplied.
func (s *PostgresStore) list(ctx context.Context, column string, did id.DID, filter Filter) ([]*models.Credential, error) {
	query := `SELECT ` + credentialColumns + ` FROM credentials
		WHERE ` + column + ` = $1 AND ($2 = '' OR status = $2)
		ORDER BY requested_at DESC, id`
	rows, err := s.execer().QueryContext(ctx, query, did.String(), string(filter.Status))
	if err != nil {
		return nil, fmt.Errorf("list credentials: %w", err)
	}
	defer rows.Close()

	var out []*models.Credential
	for rows.Next() {
		c, err := scanCredential(rows)
		if err != nil {
			return nil, fmt.Errorf("scan credential: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate credentials: %w", err)
	}
	return out, nil
}

// Transition is a compare-and-swap on status. When no row is updated the
// credential is re-read to tell a missing id apart from a lost race.
func (s *PostgresStore) Transition(ctx context.Context, credentialID id.CredentialID, t models.Transition) (*models.Credential, error) {
	var query string
	var args []any
	switch {
	case t.Issuance != nil:
		query = `
			UPDATE credentials
			SET status = $3, storage_hash = $4, anchor_hash = $5, anchor_tx_id = $6, issued_at = $7,
				staged_issued_at = NULL, staged_signature = NULL, staged_storage_hash = NULL
			WHERE id = $1 AND status = $2
			RETURNING ` + credentialColumns
		args = []any{credentialID.String(), string(t.From), string(t.To),
			t.Issuance.StorageHash, t.Issuance.AnchorHash, t.Issuance.AnchorTxID, t.Issuance.IssuedAt}
	case t.Revocation != nil:
		query = `
			UPDATE credentials
			SET status = $3, revoked_at = $4, revocation_reason = $5
			WHERE id = $1 AND status = $2
			RETURNING ` + credentialColumns
		args = []any{credentialID.String(), string(t.From), string(t.To),
			t.Revocation.RevokedAt, t.Revocation.Reason}
	default:
		return nil, fmt.Errorf("transition %s -> %s carries no fields", t.From, t.To)
	}

	c, err := scanCredential(s.execer().QueryRowContext(ctx, query, args...))
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("transition credential: %w", err)
	}
	if _, findErr := s.FindByID(ctx, credentialID); findErr != nil {
		return nil, findErr
	}
	return nil, sentinel.ErrInvalidState
}

// Stage records the staged issuance of a pending credential.
func (s *PostgresStore) Stage(ctx context.Context, credentialID id.CredentialID, staged models.StagedIssuance) (*models.Credential, error) {
	query := `
		UPDATE credentials
		SET staged_issued_at = $3, staged_signature = $4, staged_storage_hash = $5
		WHERE id = $1 AND status = $2
		RETURNING ` + credentialColumns
	c, err := scanCredential(s.execer().QueryRowContext(ctx, query,
		credentialID.String(), string(models.StatusPending),
		staged.IssuedAt, staged.Signature, staged.StorageHash,
	))
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("stage issuance: %w", err)
	}
	if _, findErr := s.FindByID(ctx, credentialID); findErr != nil {
		return nil, findErr
	}
	return nil, sentinel.ErrInvalidState
}

type credentialRow interface {
	Scan(dest ...any) error
}

func scanCredential(row credentialRow) (*models.Credential, error) {
	var c models.Credential
	var credentialID, issuer, holder, status string
	var attrs []byte
	var storageHash, anchorHash, anchorTxID, reason sql.NullString
	var issuedAt, revokedAt, stagedAt sql.NullTime
	var stagedSignature, stagedStorageHash sql.NullString
	if err := row.Scan(
		&credentialID,
		&c.SchemaID,
		&c.CredDefID,
		&issuer,
		&holder,
		&c.Type,
		&attrs,
		&status,
		&storageHash,
		&anchorHash,
		&anchorTxID,
		&c.RequestedAt,
		&issuedAt,
		&revokedAt,
		&reason,
		&stagedAt,
		&stagedSignature,
		&stagedStorageHash,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(attrs, &c.Attributes); err != nil {
		return nil, fmt.Errorf("unmarshal attributes: %w", err)
	}
	c.ID = id.CredentialID(credentialID)
	c.IssuerDID = id.DID(issuer)
	c.HolderDID = id.DID(holder)
	c.Status = models.Status(status)
	c.StorageHash = storageHash.String
	c.AnchorHash = anchorHash.String
	c.AnchorTxID = anchorTxID.String
	c.RevocationReason = reason.String
	if issuedAt.Valid {
		t := issuedAt.Time
		c.IssuedAt = &t
	}
	if revokedAt.Valid {
		t := revokedAt.Time
		c.RevokedAt = &t
	}
	if stagedAt.Valid {
		c.Staged = &models.StagedIssuance{
			IssuedAt:    stagedAt.Time.UTC(),
			Signature:   stagedSignature.String,
			StorageHash: stagedStorageHash.String,
		}
	}
	return &c, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullReason(c *models.Credential) sql.NullString {
	return sql.NullString{String: c.RevocationReason, Valid: c.Status == models.StatusRevoked}
}

func stagedIssuedAt(c *models.Credential) sql.NullTime {
	if c.Staged == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: c.Staged.IssuedAt, Valid: true}
}

func stagedField(c *models.Credential, field func(*models.StagedIssuance) string) string {
	if c.Staged == nil {
		return ""
	}
	return field(c.Staged)
}
