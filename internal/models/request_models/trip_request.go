package request_models

type CreateTripRequest struct {
	UserID  string `json:"user_id" binding:"required,uuid"`
	Request string `json:"request" binding:"required"`
}
