package repo

import "context"

// Queryer runs raw SQL statements over a connection or an ongoing
// transaction. Repository packages prefer their framework-level
// query builders; this interface serves schema initialization and
// tests which need to execute literal SQL.
type Queryer interface {
	Exec(ctx context.Context, sql string, args ...any) (count int64, err error)
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
}

type Rows interface {
	Close()
	Err() error
	Next() bool
	Scan(dest ...any) error
	Values() ([]any, error)
}
