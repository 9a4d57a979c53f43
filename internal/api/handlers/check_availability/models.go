package check_availability

// AvailabilityResponse HTTP response model
type AvailabilityResponse struct {
	ApartmentID int64  `json:"apartmentId"`
	From        string `json:"from"`
	To          string `json:"to"` // дата выезда, эксклюзивна
	Available   bool   `json:"available"`
}
