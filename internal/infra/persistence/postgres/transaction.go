package postgres

import (
	"context"
	"fmt"
	"time"

	"horizons/config"
	"horizons/internal/domain/repository"

	"gorm.io/gorm"
)

// gormTransactionManager implements the domain's TransactionManager interface using GORM.
type gormTransactionManager struct {
	db      *gorm.DB
	timeout time.Duration
}

// gormRepositoryFactory implements the domain's RepositoryFactory interface.
// It holds a specific GORM transaction object and uses it to create
// repository instances that are bound to that single transaction.
type gormRepositoryFactory struct {
	tx      *gorm.DB // In GORM, a transaction object is also a *gorm.DB
	timeout time.Duration
}

// AccountRepo returns an account repository bound to the transaction.
func (f *gormRepositoryFactory) AccountRepo() repository.AccountRepository {
	return newAccountRepository(f.tx, f.timeout)
}

// NewTransactionManager is the constructor for gormTransactionManager.
// This function will be used as an Fx provider.
func NewTransactionManager(db *gorm.DB, cfg *config.Config) repository.TransactionManager {
	return &gormTransactionManager{db: db, timeout: queryTimeout(cfg)}
}

// Execute runs the given function within a single database transaction.
// With read replicas configured, a transaction always runs on the primary.
// The whole transaction is bounded by the store query timeout.
func (tm *gormTransactionManager) Execute(ctx context.Context, fn func(repoFactory repository.RepositoryFactory) error) error {
	txCtx, cancel := context.WithTimeout(ctx, tm.timeout)
	defer cancel()

	tx := tm.db.WithContext(txCtx).Begin()
	if tx.Error != nil {
		return translateStoreError(tx.Error, "failed to begin transaction")
	}

	// Roll back and re-panic so Fx or the HTTP recover middleware can handle it.
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	factory := &gormRepositoryFactory{tx: tx, timeout: tm.timeout}

	if err := fn(factory); err != nil {
		if rbErr := tx.Rollback().Error; rbErr != nil {
			// Return the original, more meaningful business error.
			return fmt.Errorf("transaction rollback failed: %v (original error: %w)", rbErr, err)
		}

		return err
	}

	if err := tx.Commit().Error; err != nil {
		return translateStoreError(err, "failed to commit transaction")
	}

	return nil
}
