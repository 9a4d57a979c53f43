package feed

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/colivehq/CLH-AvailabilityService/internal/domain"
	"github.com/colivehq/CLH-AvailabilityService/pkg/dbmetrics"
	"github.com/colivehq/CLH-AvailabilityService/pkg/psqlbuilder"
)

const feedColumns = "id, apartment_id, remote_url, state, last_synced_at, last_error, created_at, updated_at"

// Repository репозиторий фидов синхронизации внешних календарей
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория фидов
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает фид по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.SyncFeed, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(feedColumns).
		From("sync_feeds").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	f, err := r.scanFeed(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrFeedNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan feed: %v", ErrScanRow, err)
	}

	return f, nil
}

// ListByApartment получает все фиды апартамента
func (r *Repository) ListByApartment(ctx context.Context, apartmentID int64) ([]*domain.SyncFeed, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(feedColumns).
		From("sync_feeds").
		Where(squirrel.Eq{"apartment_id": apartmentID}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByApartment - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByApartment - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	feeds := make([]*domain.SyncFeed, 0)
	for rows.Next() {
		f, err := r.scanFeed(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListByApartment - scan row: %v", ErrScanRow, err)
		}
		feeds = append(feeds, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByApartment - rows error: %v", ErrScanRow, err)
	}

	return feeds, nil
}

// SetSyncing переводит фид в состояние syncing
func (r *Repository) SetSyncing(ctx context.Context, id int64) error {
	return r.updateState(ctx, id, psqlbuilder.Update("sync_feeds").
		Set("state", domain.FeedSyncing).
		Set("updated_at", squirrel.Expr("NOW()")))
}

// MarkSynced фиксирует успешную синхронизацию: состояние idle,
// отметка времени, ошибка сброшена
func (r *Repository) MarkSynced(ctx context.Context, id int64) error {
	return r.updateState(ctx, id, psqlbuilder.Update("sync_feeds").
		Set("state", domain.FeedIdle).
		Set("last_synced_at", squirrel.Expr("NOW()")).
		Set("last_error", nil).
		Set("updated_at", squirrel.Expr("NOW()")))
}

// MarkFailed фиксирует неудачную синхронизацию с текстом ошибки
func (r *Repository) MarkFailed(ctx context.Context, id int64, reason string) error {
	return r.updateState(ctx, id, psqlbuilder.Update("sync_feeds").
		Set("state", domain.FeedFailed).
		Set("last_error", reason).
		Set("updated_at", squirrel.Expr("NOW()")))
}

func (r *Repository) updateState(ctx context.Context, id int64, builder squirrel.UpdateBuilder) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := builder.Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("%w: updateState - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: updateState - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: updateState - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrFeedNotFound
	}

	return nil
}

// rowScanner общий интерфейс *sql.Row и *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *Repository) scanFeed(row rowScanner) (*domain.SyncFeed, error) {
	var f domain.SyncFeed
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&f.ID,
		&f.ApartmentID,
		&f.RemoteURL,
		&f.State,
		&f.LastSyncedAt,
		&f.LastError,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	f.CreatedAt = createdAt.Time
	f.UpdatedAt = updatedAt.Time

	return &f, nil
}
