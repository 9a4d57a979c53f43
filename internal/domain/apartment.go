package domain

// OperationalStatus операционный статус апартамента.
// Это флаг каталога (выведен ли апартамент из оборота), он не зависит
// от календарной доступности по датам.
type OperationalStatus string

const (
	ApartmentAvailable   OperationalStatus = "available"
	ApartmentOccupied    OperationalStatus = "occupied"
	ApartmentMaintenance OperationalStatus = "maintenance"
)

// Apartment апартамент из каталога. Read-only для этого сервиса.
type Apartment struct {
	ID          int64
	Title       string
	NightlyRate float64
	MonthlyRate float64
	Capacity    int
	Status      OperationalStatus
	SortOrder   int // приоритет в выдаче, используется как tie-break аллокатора
}

// IsBookable возвращает true, если апартамент участвует в бронировании
func (a *Apartment) IsBookable() bool {
	return a.Status == ApartmentAvailable
}
