package dbmetrics

import (
	"context"
	"database/sql"
	"strings"
	"time"
)

// QueryObserver получает длительность и результат каждого запроса
type QueryObserver interface {
	ObserveQuery(operation string, duration time.Duration, err error)
}

// PoolStatsObserver получает состояние connection pool
type PoolStatsObserver interface {
	SetPoolStats(open, inUse, idle int, waitCount int64)
}

// DB обёртка над *sql.DB, снимающая метрики с запросов
type DB struct {
	db       *sql.DB
	observer QueryObserver
}

// Wrap оборачивает соединение. observer может быть nil.
func Wrap(db *sql.DB, observer QueryObserver) *DB {
	return &DB{db: db, observer: observer}
}

func (d *DB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	start := time.Now()
	res, err := d.db.ExecContext(ctx, query, args...)
	observe(d.observer, query, start, err)
	return res, err
}

func (d *DB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	start := time.Now()
	rows, err := d.db.QueryContext(ctx, query, args...)
	observe(d.observer, query, start, err)
	return rows, err
}

func (d *DB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	start := time.Now()
	row := d.db.QueryRowContext(ctx, query, args...)
	observe(d.observer, query, start, rowErr(row))
	return row
}

// BeginTx начинает транзакцию, запросы которой тоже попадают в метрики
func (d *DB) BeginTx(ctx context.Context, opts *sql.TxOptions) (TxExecutor, error) {
	tx, err := d.db.BeginTx(ctx, opts)
	if err != nil {
		return nil, err
	}
	return &Tx{tx: tx, observer: d.observer}, nil
}

// CollectPoolStats раз в interval публикует статистику pool, пока не закрыт stopCh
func (d *DB) CollectPoolStats(observer PoolStatsObserver, interval time.Duration, stopCh <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s := d.db.Stats()
			observer.SetPoolStats(s.OpenConnections, s.InUse, s.Idle, s.WaitCount)
		case <-stopCh:
			return
		}
	}
}

// Tx транзакция с метриками
type Tx struct {
	tx       *sql.Tx
	observer QueryObserver
}

func (t *Tx) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	start := time.Now()
	res, err := t.tx.ExecContext(ctx, query, args...)
	observe(t.observer, query, start, err)
	return res, err
}

func (t *Tx) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	start := time.Now()
	rows, err := t.tx.QueryContext(ctx, query, args...)
	observe(t.observer, query, start, err)
	return rows, err
}

func (t *Tx) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	start := time.Now()
	row := t.tx.QueryRowContext(ctx, query, args...)
	observe(t.observer, query, start, rowErr(row))
	return row
}

func (t *Tx) Commit() error   { return t.tx.Commit() }
func (t *Tx) Rollback() error { return t.tx.Rollback() }

func observe(observer QueryObserver, query string, start time.Time, err error) {
	if observer == nil {
		return
	}
	if err == sql.ErrNoRows {
		err = nil
	}
	observer.ObserveQuery(Operation(query), time.Since(start), err)
}

func rowErr(row *sql.Row) error {
	if row == nil {
		return nil
	}
	return row.Err()
}

// Operation возвращает первое ключевое слово запроса в нижнем регистре (select, insert, ...)
func Operation(query string) string {
	fields := strings.Fields(query)
	if len(fields) == 0 {
		return "unknown"
	}
	return strings.ToLower(fields[0])
}
