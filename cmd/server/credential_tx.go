package main

import (
	"context"
	"database/sql"
	"time"

	"credvault/internal/credential/service"
	credstore "credvault/internal/credential/store"
	revstore "credvault/internal/revocation/store"
	dErrors "credvault/pkg/domain-errors"
)

const defaultCredentialTxTimeout = 5 * time.Second

// credentialPostgresTx runs the revocation record insert and the credential
// status change in one database transaction.
type credentialPostgresTx struct {
	db      *sql.DB
	timeout time.Duration
}

func newCredentialPostgresTx(db *sql.DB) *credentialPostgresTx {
	return &credentialPostgresTx{db: db, timeout: defaultCredentialTxTimeout}
}

func (t *credentialPostgresTx) RunInTx(ctx context.Context, fn func(ctx context.Context, stores service.Stores) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to begin transaction")
	}
	defer func() {
		_ = tx.Rollback() //nolint:errcheck // rollback after commit is a no-op
	}()

	if err := fn(ctx, service.Stores{
		Credentials: credstore.NewPostgresTx(tx),
		Revocations: revstore.NewPostgresTx(tx),
	}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to commit transaction")
	}
	return nil
}
