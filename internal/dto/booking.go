package dto

// CreateReservationRequest places a reservation at one of the three levels.
// TargetID names the bedroom or bed and stays empty for apartment level.
type CreateReservationRequest struct {
	ApartmentID string `json:"apartment_id" binding:"required"`
	Level       string `json:"level" binding:"required,oneof=apartment bedroom bed"`
	TargetID    string `json:"target_id"`
}

// CreatePaymentRequest opens a mocked payment intent for a pending
// reservation.
type CreatePaymentRequest struct {
	ReservationID string  `json:"reservation_id" binding:"required"`
	AmountUSD     float64 `json:"amount_usd" binding:"required,gt=0"`
	CardNumber    string  `json:"card_number" binding:"required,min=12,max=19"`
}
