// Package txmanager менеджер транзакций поверх обёртки dbmetrics.
// Транзакция пробрасывается в репозитории через context (dbmetrics.WithTx).
package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/colivehq/CLH-AvailabilityService/pkg/dbmetrics"
)

// pqSerializationFailure код SQLSTATE ошибки сериализации PostgreSQL
const pqSerializationFailure = "40001"

var (
	// ErrBeginTx возвращается при ошибке начала транзакции
	ErrBeginTx = errors.New("txmanager: failed to begin transaction")

	// ErrCommitTx возвращается при ошибке фиксации транзакции
	ErrCommitTx = errors.New("txmanager: failed to commit transaction")

	// ErrSerializationFailure возвращается, когда сериализуемая транзакция
	// проиграла гонку конкурентной транзакции. Вызывающий код может повторить попытку.
	ErrSerializationFailure = errors.New("txmanager: serialization failure, transaction lost a concurrent race")
)

// TxBeginner интерфейс для начала транзакций.
// Поддерживает *dbmetrics.DB.
type TxBeginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (dbmetrics.TxExecutor, error)
}

// TransactionManager менеджер транзакций
type TransactionManager struct {
	db TxBeginner
}

// NewTransactionManager создает менеджер транзакций
func NewTransactionManager(db TxBeginner) *TransactionManager {
	return &TransactionManager{db: db}
}

// Do выполняет fn в транзакции с уровнем изоляции по умолчанию
func (m *TransactionManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, &sql.TxOptions{}, fn)
}

// DoSerializable выполняет fn в сериализуемой транзакции.
// При проигрыше гонки возвращает ErrSerializationFailure.
func (m *TransactionManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable}, fn)
}

// DoReadOnly выполняет fn в read-only транзакции
func (m *TransactionManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, &sql.TxOptions{ReadOnly: true}, fn)
}

func (m *TransactionManager) run(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context) error) error {
	tx, err := m.db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBeginTx, err)
	}

	if err := fn(dbmetrics.WithTx(ctx, tx)); err != nil {
		_ = tx.Rollback()
		return WrapSerializationError(err)
	}

	if err := tx.Commit(); err != nil {
		_ = tx.Rollback()
		if IsSerializationError(err) {
			return fmt.Errorf("%w: %v", ErrSerializationFailure, err)
		}
		return fmt.Errorf("%w: %v", ErrCommitTx, err)
	}

	return nil
}

// IsSerializationError проверяет, что ошибка вызвана сбоем сериализации PostgreSQL
func IsSerializationError(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == pqSerializationFailure
	}
	return false
}

// WrapSerializationError заменяет низкоуровневую ошибку сериализации
// на ErrSerializationFailure, сохраняя остальные ошибки как есть
func WrapSerializationError(err error) error {
	if IsSerializationError(err) {
		return fmt.Errorf("%w: %v", ErrSerializationFailure, err)
	}
	return err
}
