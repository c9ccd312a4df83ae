package response_models

import "encoding/json"

type TripResponse struct {
	ID         string          `json:"id"`
	Status     string          `json:"status"`
	RawRequest string          `json:"raw_request"`
	ParsedSpec json.RawMessage `json:"parsed_spec,omitempty"`
	CreatedAt  int64           `json:"created_at"`
}
