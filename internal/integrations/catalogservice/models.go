package catalogservice

import "github.com/colivehq/CLH-AvailabilityService/internal/domain"

// Apartment модель апартамента в ответе каталога
type Apartment struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	NightlyRate float64 `json:"nightlyRate"`
	MonthlyRate float64 `json:"monthlyRate"`
	Capacity    int     `json:"capacity"`
	Status      string  `json:"status"`
	SortOrder   int     `json:"sortOrder"`
}

// apartmentListResponse ответ каталога со списком апартаментов
type apartmentListResponse struct {
	Apartments []Apartment `json:"apartments"`
}

// ToDomain конвертирует модель каталога в domain модель
func (a *Apartment) ToDomain() *domain.Apartment {
	return &domain.Apartment{
		ID:          a.ID,
		Title:       a.Title,
		NightlyRate: a.NightlyRate,
		MonthlyRate: a.MonthlyRate,
		Capacity:    a.Capacity,
		Status:      domain.OperationalStatus(a.Status),
		SortOrder:   a.SortOrder,
	}
}
