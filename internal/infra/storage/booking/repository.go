package booking

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/colivehq/CLH-AvailabilityService/internal/domain"
	"github.com/colivehq/CLH-AvailabilityService/pkg/dbmetrics"
	"github.com/colivehq/CLH-AvailabilityService/pkg/psqlbuilder"
)

// Repository репозиторий бронирований и их сегментов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет бронирование вместе с сегментами.
// Запись по датам в леджер - ответственность вызывающего usecase; он оборачивает
// Create и SetRange в одну сериализуемую транзакцию, чтобы бронирование и
// занятые даты появлялись атомарно.
func (r *Repository) Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error) {
	if len(b.Segments) == 0 {
		return nil, fmt.Errorf("%w: Create", ErrNoSegments)
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns("guest_id", "status", "is_split_stay", "notes").
		Values(b.GuestID, b.Status, b.IsSplitStay, b.Notes).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&b.ID, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	b.CreatedAt = createdAt.Time
	b.UpdatedAt = updatedAt.Time

	// Сегменты вставляются одним запросом, порядок сохраняется
	segmentsBuilder := psqlbuilder.Insert("booking_segments").
		Columns("booking_id", "apartment_id", "check_in", "check_out", "price")

	for _, s := range b.Segments {
		segmentsBuilder = segmentsBuilder.Values(b.ID, s.ApartmentID, s.CheckIn, s.CheckOut, s.Price)
	}

	query, args, err = segmentsBuilder.Suffix("RETURNING id").ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build segments insert: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute segments insert: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	i := 0
	for rows.Next() {
		if i >= len(b.Segments) {
			break
		}
		if err := rows.Scan(&b.Segments[i].ID); err != nil {
			return nil, fmt.Errorf("%w: Create - scan segment id: %v", ErrScanRow, err)
		}
		b.Segments[i].BookingID = b.ID
		i++
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: Create - segments rows error: %v", ErrScanRow, err)
	}

	return b, nil
}

// GetByID получает бронирование с сегментами по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id", "guest_id", "status", "is_split_stay", "notes",
		"cancellation_reason", "cancelled_at", "created_at", "updated_at",
	).
		From("bookings").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var b domain.Booking
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&b.ID,
		&b.GuestID,
		&b.Status,
		&b.IsSplitStay,
		&b.Notes,
		&b.CancellationReason,
		&b.CancelledAt,
		&createdAt,
		&updatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %v", ErrScanRow, err)
	}

	b.CreatedAt = createdAt.Time
	b.UpdatedAt = updatedAt.Time

	segments, err := r.getSegments(ctx, executor, []int64{b.ID})
	if err != nil {
		return nil, err
	}
	b.Segments = segments[b.ID]

	return &b, nil
}

// GetByGuestID получает список бронирований гостя, новые сначала.
// Опционально фильтрует по статусу.
func (r *Repository) GetByGuestID(ctx context.Context, guestID int64, status *domain.BookingStatus) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(
		"id", "guest_id", "status", "is_split_stay", "notes",
		"cancellation_reason", "cancelled_at", "created_at", "updated_at",
	).
		From("bookings").
		Where(squirrel.Eq{"guest_id": guestID}).
		OrderBy("created_at DESC")

	// Фильтрация по статусу, если указан
	if status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *status})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByGuestID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByGuestID - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	bookings := make([]*domain.Booking, 0)
	ids := make([]int64, 0)

	for rows.Next() {
		var b domain.Booking
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&b.ID,
			&b.GuestID,
			&b.Status,
			&b.IsSplitStay,
			&b.Notes,
			&b.CancellationReason,
			&b.CancelledAt,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: GetByGuestID - scan row: %v", ErrScanRow, err)
		}

		b.CreatedAt = createdAt.Time
		b.UpdatedAt = updatedAt.Time

		bookings = append(bookings, &b)
		ids = append(ids, b.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetByGuestID - rows error: %v", ErrScanRow, err)
	}

	if len(ids) == 0 {
		return bookings, nil
	}

	segments, err := r.getSegments(ctx, executor, ids)
	if err != nil {
		return nil, err
	}
	for _, b := range bookings {
		b.Segments = segments[b.ID]
	}

	return bookings, nil
}

// UpdateStatus обновляет статус бронирования
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

// Cancel отменяет бронирование с указанием причины
func (r *Repository) Cancel(ctx context.Context, id int64, reason string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", domain.StatusCancelled).
		Set("cancellation_reason", reason).
		Set("cancelled_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Cancel - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Cancel - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

// getSegments получает сегменты для набора бронирований, сгруппированные по booking_id
func (r *Repository) getSegments(ctx context.Context, executor DBExecutor, bookingIDs []int64) (map[int64][]*domain.BookingSegment, error) {
	query, args, err := psqlbuilder.Select(
		"id", "booking_id", "apartment_id", "check_in", "check_out", "price",
	).
		From("booking_segments").
		Where(squirrel.Eq{"booking_id": bookingIDs}).
		OrderBy("booking_id ASC, check_in ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: getSegments - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: getSegments - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	segments := make(map[int64][]*domain.BookingSegment)
	for rows.Next() {
		var s domain.BookingSegment
		err := rows.Scan(&s.ID, &s.BookingID, &s.ApartmentID, &s.CheckIn, &s.CheckOut, &s.Price)
		if err != nil {
			return nil, fmt.Errorf("%w: getSegments - scan row: %v", ErrScanRow, err)
		}
		segments[s.BookingID] = append(segments[s.BookingID], &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: getSegments - rows error: %v", ErrScanRow, err)
	}

	return segments, nil
}
