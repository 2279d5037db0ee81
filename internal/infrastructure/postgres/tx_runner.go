package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/talent-api/internal/application/deletion"
	"github.com/jhoicas/talent-api/internal/application/requests"
	"github.com/jhoicas/talent-api/internal/domain/repository"
)

var (
	_ deletion.TxRunner = (*TxRunner)(nil)
	_ requests.TxRunner = (*TxRunner)(nil)
)

// TxRunner runs callbacks inside a PostgreSQL transaction.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner builds the runner over the pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunCascade gives fn a cascade store bound to one transaction. Nothing is
// visible to other sessions until fn returns nil and the commit succeeds.
func (r *TxRunner) RunCascade(ctx context.Context, fn func(store repository.CascadeStore) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(NewCascadeStore(tx))
	})
}

// RunRequests gives fn the request workflow repositories on one transaction.
// Request rows read by GetByID are locked until commit.
func (r *TxRunner) RunRequests(ctx context.Context, fn func(repos requests.TxRepos) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(requests.TxRepos{
			Users:        NewUserRepository(tx),
			Applications: &EmployerApplicationRepo{q: tx, lock: true},
			Creations:    &UserCreationRequestRepo{q: tx, lock: true},
			Deletions:    &EmployeeDeletionRequestRepo{q: tx, lock: true},
			Credentials:  NewCredentialRepository(tx),
		})
	})
}

func (r *TxRunner) run(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
