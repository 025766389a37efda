package repo

import "context"

// TxHandler is invoked with a began transaction. Returning an error
// (or panicking) rolls the transaction back, otherwise it commits.
type TxHandler func(context.Context, Tx) error

type Conn interface {
	Queryer
	Tx(ctx context.Context, handler TxHandler) error
	IsConn()
}
