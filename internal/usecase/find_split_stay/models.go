package find_split_stay

import (
	"github.com/colivehq/CLH-AvailabilityService/internal/domain"
	"github.com/colivehq/CLH-AvailabilityService/pkg/types"
)

// Request модель запроса на поиск вариантов split-stay
type Request struct {
	CheckIn     types.Date // Дата заезда
	CheckOut    types.Date // Дата выезда (эксклюзивна)
	MaxSegments int        // Максимум сегментов-переездов (>= 2)
}

// Response модель ответа с ранжированными вариантами размещения.
// Пустой список - не ошибка: интервал покрыть нечем.
type Response struct {
	CheckIn  types.Date
	CheckOut types.Date
	Options  []*domain.SplitStayOption
}
