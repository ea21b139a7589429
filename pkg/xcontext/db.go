package xcontext

import (
	"context"
	"sync"

	"gorm.io/gorm"
)

type dbTransaction struct {
	tx *gorm.DB

	mutex sync.Mutex
	done  bool
}

func WithDB(ctx context.Context, db *gorm.DB) context.Context {
	return context.WithValue(ctx, dbKey{}, db)
}

// DB returns the running transaction of ctx if there is one, otherwise the
// database set by WithDB.
func DB(ctx context.Context) *gorm.DB {
	if t, ok := ctx.Value(dbTransactionKey{}).(*dbTransaction); ok {
		t.mutex.Lock()
		done := t.done
		t.mutex.Unlock()

		if !done {
			return t.tx
		}
	}

	db, ok := ctx.Value(dbKey{}).(*gorm.DB)
	if !ok {
		panic("xcontext: no database in context")
	}

	return db.WithContext(ctx)
}

// WithDBTransaction begins a transaction. Every repository call made with the
// returned context joins it until WithCommitDBTransaction or
// WithRollbackDBTransaction is called.
func WithDBTransaction(ctx context.Context) context.Context {
	tx := DB(ctx).Begin()
	return context.WithValue(ctx, dbTransactionKey{}, &dbTransaction{tx: tx})
}

func WithCommitDBTransaction(ctx context.Context) error {
	t, ok := ctx.Value(dbTransactionKey{}).(*dbTransaction)
	if !ok {
		return nil
	}

	t.mutex.Lock()
	defer t.mutex.Unlock()
	if t.done {
		return nil
	}

	t.done = true
	return t.tx.Commit().Error
}

// WithRollbackDBTransaction rolls back the transaction of ctx. It is a no-op
// after a commit, so it is safe to defer right after WithDBTransaction.
func WithRollbackDBTransaction(ctx context.Context) {
	t, ok := ctx.Value(dbTransactionKey{}).(*dbTransaction)
	if !ok {
		return
	}

	t.mutex.Lock()
	defer t.mutex.Unlock()
	if t.done {
		return
	}

	t.done = true
	t.tx.Rollback()
}
