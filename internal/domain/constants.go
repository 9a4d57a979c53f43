package domain

// Default configuration values
const (
	DefaultHorizonMonths = 18 // горизонт поиска доступности
	DefaultMaxSegments   = 3  // максимум сегментов split-stay по умолчанию
	DefaultMaxOptions    = 10 // максимум вариантов в выдаче аллокатора
)

// Business validation constants
const (
	MinSplitSegments            = 2
	MaxSplitSegmentsCap         = 5 // жёсткий потолок переездов в одном бронировании
	MaxNoteLength               = 500
	MaxCancellationReasonLength = 500

	// NextAvailableDate сканирует леджер окнами фиксированного размера,
	// чтобы не читать всю таблицу разом
	ScanWindowDays = 31
)

// Time format constants
const (
	DateFormat = "2006-01-02" // YYYY-MM-DD
)
