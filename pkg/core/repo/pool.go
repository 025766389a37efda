package repo

import "context"

// ConnHandler is invoked with an acquired database connection which
// is released again when the handler returns.
type ConnHandler func(context.Context, Conn) error

type Pool interface {
	Conn(ctx context.Context, handler ConnHandler) error
	Close() error
}
