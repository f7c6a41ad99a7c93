package repository

import (
	"cloud-drive/config"
	"cloud-drive/internal/logging"
	"cloud-drive/internal/model"
	"context"
	"database/sql"
	"errors"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

const uniqueViolation = "23505"

// TxManager : postgres implementation of ports.Transactor
type TxManager struct {
	*config.Database
}

func NewTxManager(database *config.Database) *TxManager {
	return &TxManager{database}
}

func (m *TxManager) BeginTX(ctx context.Context) (sqlx.ExtContext, func() error, func() error, error) {
	tx, err := m.DB.BeginTxx(ctx, nil)
	if err != nil {
		return nil, nil, nil, err
	}

	rollback := func() error {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			return err
		}
		return nil
	}
	return tx, rollback, tx.Commit, nil
}

func (m *TxManager) Conn() sqlx.ExtContext {
	return m.DB
}

// translateError : maps driver conditions onto the error taxonomy
func translateError(err error, notFound error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return notFound
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		logging.Debug("[Repo] unique violation", zap.String("constraint", pqErr.Constraint))
		return model.ErrNameConflict
	}
	return err
}

func expectAffected(result sql.Result, notFound error) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return notFound
	}
	return nil
}
