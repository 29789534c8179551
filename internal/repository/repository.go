package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/sysu-ecnc-dev/attendance-portal/backend/internal/config"
	"github.com/sysu-ecnc-dev/attendance-portal/backend/internal/scheduling"
)

// querier 同时被 *sql.DB 与 *sql.Tx 满足，
// 让同一份查询代码既能走连接池也能在事务内执行。
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Repository struct {
	cfg    *config.Config
	dbpool *sql.DB
	db     querier
}

func NewRepository(cfg *config.Config, dbpool *sql.DB) *Repository {
	return &Repository{
		cfg:    cfg,
		dbpool: dbpool,
		db:     dbpool,
	}
}

// WithEmployeeLock 在单个事务内执行 fn，并先获取以员工编号哈希为键的事务级咨询锁。
// 注意不能用 SELECT ... FOR UPDATE 替代：当该员工还没有任何班次行时，
// 空结果集上的行锁拦不住两个并发插入。
func (r *Repository) WithEmployeeLock(ctx context.Context, employeeID string, fn func(store scheduling.Store) error) error {
	txCtx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(txCtx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(txCtx, `SELECT pg_advisory_xact_lock(hashtext($1))`, employeeID); err != nil {
		return err
	}

	txRepo := &Repository{cfg: r.cfg, dbpool: r.dbpool, db: tx}
	if err := fn(txRepo); err != nil {
		return err
	}

	return tx.Commit()
}
