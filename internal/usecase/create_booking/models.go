package create_booking

import (
	"time"

	"github.com/colivehq/CLH-AvailabilityService/pkg/types"
)

// SegmentRequest один сегмент запрашиваемого бронирования
type SegmentRequest struct {
	ApartmentID int64      // ID апартамента
	CheckIn     types.Date // Дата заезда
	CheckOut    types.Date // Дата выезда (эксклюзивна)
}

// Request модель запроса на создание бронирования.
// Один сегмент - обычное бронирование, несколько - split-stay.
type Request struct {
	GuestID  int64            // ID гостя
	Segments []SegmentRequest // Сегменты, упорядоченные по дате заезда
	Notes    *string          // Дополнительные заметки (опционально)
}

// SegmentResponse сегмент созданного бронирования
type SegmentResponse struct {
	ApartmentID int64      // ID апартамента
	CheckIn     types.Date // Дата заезда
	CheckOut    types.Date // Дата выезда
	Nights      int        // Количество ночей
	Price       float64    // Стоимость сегмента
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID          int64             // ID созданного бронирования
	GuestID     int64             // ID гостя
	Status      string            // Статус бронирования
	IsSplitStay bool              // Признак split-stay
	Segments    []SegmentResponse // Сегменты
	TotalPrice  float64           // Суммарная стоимость
	Notes       *string           // Заметки

	CreatedAt time.Time // Время создания
	UpdatedAt time.Time // Время обновления
}
