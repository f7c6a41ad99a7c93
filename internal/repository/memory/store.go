// Package memory is an in-process substitute for the postgres repositories.
//
// A transaction holds the store lock for its whole lifetime and rolls back
// by restoring a snapshot taken at BeginTX, so every transaction is serializable.
// Calls made with Conn() take the lock per call. A goroutine holding a
// transaction must pass that transaction's exec, never Conn(), or it deadlocks.
package memory

import (
	"cloud-drive/internal/model"
	"context"
	"database/sql"
	"errors"
	"github.com/jmoiron/sqlx"
	"sync"
	"time"
)

var (
	errNoSQL      = errors.New("memory store does not execute SQL")
	errForeignKey = errors.New("memory store: foreign key violation")
	errDuplicate  = errors.New("memory store: duplicate key")
)

type pendingDeletion struct {
	enqueuedAt time.Time
	attempts   int
}

type state struct {
	nodes     map[string]model.Node
	versions  map[string][]model.Version
	quotas    map[string]model.Quota
	shares    map[string]model.ShareLink
	deletions map[string]pendingDeletion
}

func newState() *state {
	return &state{
		nodes:     map[string]model.Node{},
		versions:  map[string][]model.Version{},
		quotas:    map[string]model.Quota{},
		shares:    map[string]model.ShareLink{},
		deletions: map[string]pendingDeletion{},
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.nodes {
		v.Tags = append([]string(nil), v.Tags...)
		c.nodes[k] = v
	}
	for k, v := range s.versions {
		c.versions[k] = append([]model.Version(nil), v...)
	}
	for k, v := range s.quotas {
		c.quotas[k] = v
	}
	for k, v := range s.shares {
		c.shares[k] = v
	}
	for k, v := range s.deletions {
		c.deletions[k] = v
	}
	return c
}

type Store struct {
	mu   sync.Mutex
	data *state
	conn *execHandle
	now  func() time.Time
}

func NewStore() *Store {
	return &Store{
		data: newState(),
		conn: &execHandle{},
		now:  time.Now,
	}
}

// execHandle : the sqlx.ExtContext handed to repositories; it only identifies a transaction
type execHandle struct {
	store  *Store
	active bool
}

func (s *Store) BeginTX(ctx context.Context) (sqlx.ExtContext, func() error, func() error, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, nil, err
	}
	s.mu.Lock()

	snapshot := s.data.clone()
	tx := &execHandle{store: s, active: true}

	rollback := func() error {
		if !tx.active {
			return nil
		}
		tx.active = false
		s.data = snapshot
		s.mu.Unlock()
		return nil
	}
	commit := func() error {
		if !tx.active {
			return sql.ErrTxDone
		}
		tx.active = false
		s.mu.Unlock()
		return nil
	}
	return tx, rollback, commit, nil
}

func (s *Store) Conn() sqlx.ExtContext {
	return s.conn
}

// run : executes fn against live data, inside the caller's transaction when exec is one
func (s *Store) run(exec sqlx.ExtContext, fn func(d *state) error) error {
	if tx, ok := exec.(*execHandle); ok && tx.active && tx.store == s {
		return fn(s.data)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.data)
}

func (h *execHandle) DriverName() string { return "memory" }

func (h *execHandle) Rebind(query string) string { return query }

func (h *execHandle) BindNamed(query string, arg interface{}) (string, []interface{}, error) {
	return "", nil, errNoSQL
}

func (h *execHandle) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return nil, errNoSQL
}

func (h *execHandle) QueryxContext(ctx context.Context, query string, args ...interface{}) (*sqlx.Rows, error) {
	return nil, errNoSQL
}

func (h *execHandle) QueryRowxContext(ctx context.Context, query string, args ...interface{}) *sqlx.Row {
	return nil
}

func (h *execHandle) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return nil, errNoSQL
}
