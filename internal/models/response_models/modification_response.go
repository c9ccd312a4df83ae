package response_models

// ModificationResult is the outcome of a free-text modification request.
// Domain failures (no booking, invalid duration, unsupported live change)
// come back as Success=false with a human-readable Message; they are not
// errors.
type ModificationResult struct {
	Success          bool        `json:"success"`
	ModificationType string      `json:"modification_type"`
	Message          string      `json:"message"`
	UpdatedDetails   interface{} `json:"updated_details"`
}
