package create_booking

import (
	"fmt"
	"time"

	"github.com/colivehq/CLH-AvailabilityService/internal/domain"
	"github.com/colivehq/CLH-AvailabilityService/pkg/types"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request, now time.Time) error {
	if req.GuestID <= 0 {
		return fmt.Errorf("%w: guestID must be positive", ErrInvalidInput)
	}

	if len(req.Segments) == 0 {
		return fmt.Errorf("%w: at least one segment is required", ErrInvalidInput)
	}

	if len(req.Segments) > domain.MaxSplitSegmentsCap {
		return fmt.Errorf("%w: at most %d segments allowed", ErrTooManySegments, domain.MaxSplitSegmentsCap)
	}

	if req.Notes != nil && len(*req.Notes) > domain.MaxNoteLength {
		return fmt.Errorf("%w: notes are too long", ErrInvalidInput)
	}

	for i, seg := range req.Segments {
		if seg.ApartmentID <= 0 {
			return fmt.Errorf("%w: segment %d - apartmentID must be positive", ErrInvalidInput, i)
		}
		rng := domain.DateRange{From: seg.CheckIn, To: seg.CheckOut}
		if !rng.IsValid() {
			return fmt.Errorf("%w: segment %d - [%s, %s)", ErrInvalidRange, i, seg.CheckIn, seg.CheckOut)
		}
	}

	// Дата заезда не может быть в прошлом
	today := types.DateOf(now.UTC())
	if req.Segments[0].CheckIn.Before(today) {
		return fmt.Errorf("%w: check-in %s", ErrDateInPast, req.Segments[0].CheckIn)
	}

	return validateSegmentChain(req.Segments)
}

// validateSegmentChain проверяет стыковку сегментов split-stay:
// без зазоров и пересечений (выезд предыдущего равен заезду следующего),
// соседние сегменты в разных апартаментах, апартамент не переиспользуется
// даже в несоседних сегментах
func validateSegmentChain(segments []SegmentRequest) error {
	seen := make(map[int64]struct{}, len(segments))
	seen[segments[0].ApartmentID] = struct{}{}

	for i := 1; i < len(segments); i++ {
		prev, cur := segments[i-1], segments[i]

		if !prev.CheckOut.Equal(cur.CheckIn) {
			return fmt.Errorf("%w: segment %d starts at %s, previous ends at %s",
				ErrSegmentsNotContiguous, i, cur.CheckIn, prev.CheckOut)
		}

		if _, ok := seen[cur.ApartmentID]; ok {
			return fmt.Errorf("%w: apartment %d", ErrApartmentReused, cur.ApartmentID)
		}
		seen[cur.ApartmentID] = struct{}{}
	}

	return nil
}

// allDaysAvailable проверяет, что ни одна запись леджера в выборке
// не занимает дни сегмента
func allDaysAvailable(records []*domain.AvailabilityRecord) bool {
	for _, rec := range records {
		if !rec.IsAvailable() {
			return false
		}
	}
	return true
}
