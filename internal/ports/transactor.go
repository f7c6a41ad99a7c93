package ports

import (
	"context"
	"github.com/jmoiron/sqlx"
)

// Transactor : opens one atomic unit against the relational store.
// rollback after a successful commit is a no-op, so callers always defer it.
type Transactor interface {
	BeginTX(ctx context.Context) (exec sqlx.ExtContext, rollback func() error, commit func() error, err error)
	Conn() sqlx.ExtContext
}
