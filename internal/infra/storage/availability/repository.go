package availability

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/colivehq/CLH-AvailabilityService/internal/domain"
	"github.com/colivehq/CLH-AvailabilityService/pkg/dbmetrics"
	"github.com/colivehq/CLH-AvailabilityService/pkg/psqlbuilder"
)

const recordColumns = "id, apartment_id, day, status, source, feed_id, reference, note, created_at, updated_at"

// Repository репозиторий леджера доступности.
// Таблица availability_records хранит по одной строке на (apartment_id, day);
// отсутствие строки означает, что день свободен.
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория леджера
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// SetRange записывает статус для каждого дня полуинтервала [rng.From, rng.To).
// Upsert: последний писатель по каждому дню побеждает.
//
// Диапазонные мутации на один апартамент должны выполняться атомарно -
// вызывающий код оборачивает SetRange в сериализуемую транзакцию через
// TransactionManager, репозиторий подхватывает её из context.
func (r *Repository) SetRange(
	ctx context.Context,
	apartmentID int64,
	rng domain.DateRange,
	status domain.DayStatus,
	source domain.RecordSource,
	feedID *int64,
	reference *string,
	note *string,
) error {
	if !rng.IsValid() {
		return fmt.Errorf("%w: SetRange - [%s, %s)", ErrInvalidRange, rng.From, rng.To)
	}
	if !domain.IsValidDayStatus(status) {
		return fmt.Errorf("%w: SetRange - %q", ErrInvalidStatus, status)
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	insertBuilder := psqlbuilder.Insert("availability_records").
		Columns("apartment_id", "day", "status", "source", "feed_id", "reference", "note")

	for _, day := range rng.Days() {
		insertBuilder = insertBuilder.Values(apartmentID, day, status, source, feedID, reference, note)
	}

	query, args, err := insertBuilder.
		Suffix(`ON CONFLICT (apartment_id, day) DO UPDATE SET
			status = EXCLUDED.status,
			source = EXCLUDED.source,
			feed_id = EXCLUDED.feed_id,
			reference = EXCLUDED.reference,
			note = EXCLUDED.note,
			updated_at = NOW()`).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: SetRange - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: SetRange - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// ClearRange удаляет записи полуинтервала, возвращая дни к статусу "available"
func (r *Repository) ClearRange(ctx context.Context, apartmentID int64, rng domain.DateRange) error {
	if !rng.IsValid() {
		return fmt.Errorf("%w: ClearRange - [%s, %s)", ErrInvalidRange, rng.From, rng.To)
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("availability_records").
		Where(squirrel.Eq{"apartment_id": apartmentID}).
		Where(squirrel.GtOrEq{"day": rng.From}).
		Where(squirrel.Lt{"day": rng.To}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: ClearRange - build delete query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: ClearRange - execute delete: %v", ErrExecQuery, err)
	}

	return nil
}

// ClearRangeBySource удаляет записи полуинтервала, принадлежащие указанному
// источнику (и фиду, если передан). Используется синхронизацией, чтобы не
// трогать ручные блокировки и записи бронирований.
func (r *Repository) ClearRangeBySource(
	ctx context.Context,
	apartmentID int64,
	rng domain.DateRange,
	source domain.RecordSource,
	feedID *int64,
) error {
	if !rng.IsValid() {
		return fmt.Errorf("%w: ClearRangeBySource - [%s, %s)", ErrInvalidRange, rng.From, rng.To)
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	deleteBuilder := psqlbuilder.Delete("availability_records").
		Where(squirrel.Eq{"apartment_id": apartmentID}).
		Where(squirrel.GtOrEq{"day": rng.From}).
		Where(squirrel.Lt{"day": rng.To}).
		Where(squirrel.Eq{"source": source})

	if feedID != nil {
		deleteBuilder = deleteBuilder.Where(squirrel.Eq{"feed_id": *feedID})
	}

	query, args, err := deleteBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: ClearRangeBySource - build delete query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: ClearRangeBySource - execute delete: %v", ErrExecQuery, err)
	}

	return nil
}

// GetRange получает записи леджера полуинтервала, упорядоченные по дате.
// Внутри транзакции добавляет FOR UPDATE, чтобы повторная проверка
// доступности перед подтверждением бронирования блокировала конкурентов.
func (r *Repository) GetRange(ctx context.Context, apartmentID int64, rng domain.DateRange) ([]*domain.AvailabilityRecord, error) {
	if !rng.IsValid() {
		return nil, fmt.Errorf("%w: GetRange - [%s, %s)", ErrInvalidRange, rng.From, rng.To)
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(recordColumns).
		From("availability_records").
		Where(squirrel.Eq{"apartment_id": apartmentID}).
		Where(squirrel.GtOrEq{"day": rng.From}).
		Where(squirrel.Lt{"day": rng.To}).
		OrderBy("day ASC")

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetRange - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetRange - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanRecords(rows)
}

// CountUnavailable подсчитывает количество дней полуинтервала со статусом,
// отличным от "available". Ноль означает полную доступность интервала.
func (r *Repository) CountUnavailable(ctx context.Context, apartmentID int64, rng domain.DateRange) (int, error) {
	if !rng.IsValid() {
		return 0, fmt.Errorf("%w: CountUnavailable - [%s, %s)", ErrInvalidRange, rng.From, rng.To)
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From("availability_records").
		Where(squirrel.Eq{"apartment_id": apartmentID}).
		Where(squirrel.GtOrEq{"day": rng.From}).
		Where(squirrel.Lt{"day": rng.To}).
		Where(squirrel.NotEq{"status": domain.DayAvailable}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: CountUnavailable - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountUnavailable - scan count: %v", ErrScanRow, err)
	}

	return count, nil
}

// GetBySource получает все записи апартамента, созданные указанным источником.
// Для source=sync дополнительно фильтрует по feed_id - так синхронизация видит
// только события, которые создала она сама.
func (r *Repository) GetBySource(
	ctx context.Context,
	apartmentID int64,
	source domain.RecordSource,
	feedID *int64,
) ([]*domain.AvailabilityRecord, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(recordColumns).
		From("availability_records").
		Where(squirrel.Eq{"apartment_id": apartmentID}).
		Where(squirrel.Eq{"source": source}).
		OrderBy("day ASC")

	if feedID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"feed_id": *feedID})
	}

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetBySource - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetBySource - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanRecords(rows)
}

// scanRecords сканирует результаты запроса в слайс записей леджера
func (r *Repository) scanRecords(rows *sql.Rows) ([]*domain.AvailabilityRecord, error) {
	records := make([]*domain.AvailabilityRecord, 0)

	for rows.Next() {
		var record domain.AvailabilityRecord
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&record.ID,
			&record.ApartmentID,
			&record.Day,
			&record.Status,
			&record.Source,
			&record.FeedID,
			&record.Reference,
			&record.Note,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: scanRecords - scan row: %v", ErrScanRow, err)
		}

		record.CreatedAt = createdAt.Time
		record.UpdatedAt = updatedAt.Time

		records = append(records, &record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanRecords - rows error: %v", ErrScanRow, err)
	}

	return records, nil
}
