package request_models

type ModifyTripRequest struct {
	Request string `json:"request" binding:"required"`
}
