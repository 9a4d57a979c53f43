package find_split_stay

import (
	findSplitStay "github.com/colivehq/CLH-AvailabilityService/internal/usecase/find_split_stay"
	"github.com/colivehq/CLH-AvailabilityService/pkg/types"
)

// SearchRequest HTTP request model
type SearchRequest struct {
	CheckIn     string `json:"checkIn"`  // "2026-01-01"
	CheckOut    string `json:"checkOut"` // дата выезда, эксклюзивна
	MaxSegments int    `json:"maxSegments,omitempty"`
}

// OptionSegmentResponse сегмент варианта размещения
type OptionSegmentResponse struct {
	ApartmentID    int64   `json:"apartmentId"`
	ApartmentTitle string  `json:"apartmentTitle"`
	CheckIn        string  `json:"checkIn"`
	CheckOut       string  `json:"checkOut"`
	Price          float64 `json:"price"`
}

// OptionResponse вариант размещения с переездами
type OptionResponse struct {
	Segments   []OptionSegmentResponse `json:"segments"`
	TotalPrice float64                 `json:"totalPrice"`
}

// SearchResponse HTTP response model.
// Пустой options - интервал покрыть нечем.
type SearchResponse struct {
	CheckIn  string           `json:"checkIn"`
	CheckOut string           `json:"checkOut"`
	Options  []OptionResponse `json:"options"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *SearchRequest) ToUseCaseRequest() (*findSplitStay.Request, error) {
	checkIn, err := types.ParseDate(r.CheckIn)
	if err != nil {
		return nil, err
	}
	checkOut, err := types.ParseDate(r.CheckOut)
	if err != nil {
		return nil, err
	}

	return &findSplitStay.Request{
		CheckIn:     checkIn,
		CheckOut:    checkOut,
		MaxSegments: r.MaxSegments,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *findSplitStay.Response) *SearchResponse {
	options := make([]OptionResponse, 0, len(resp.Options))
	for _, opt := range resp.Options {
		segments := make([]OptionSegmentResponse, 0, len(opt.Segments))
		for _, seg := range opt.Segments {
			segments = append(segments, OptionSegmentResponse{
				ApartmentID:    seg.ApartmentID,
				ApartmentTitle: seg.ApartmentTitle,
				CheckIn:        seg.CheckIn.String(),
				CheckOut:       seg.CheckOut.String(),
				Price:          seg.Price,
			})
		}
		options = append(options, OptionResponse{
			Segments:   segments,
			TotalPrice: opt.TotalPrice,
		})
	}

	return &SearchResponse{
		CheckIn:  resp.CheckIn.String(),
		CheckOut: resp.CheckOut.String(),
		Options:  options,
	}
}
