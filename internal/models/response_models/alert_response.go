package response_models

import "encoding/json"

type AlertResponse struct {
	ID        string          `json:"id"`
	TripID    string          `json:"trip_id"`
	AlertType string          `json:"alert_type"`
	Message   string          `json:"message"`
	Details   json.RawMessage `json:"details,omitempty"`
	IsRead    bool            `json:"is_read"`
	CreatedAt int64           `json:"created_at"`
}
