package services

import (
	"context"

	"wayfarer/internal/models/db_models"
)

// TripParserInterface turns a plain-English trip request into a TripSpec.
//
// Two implementations exist: an OpenAI-backed parser and a rule-based parser.
// Which one runs is decided once at startup from configuration; there is no
// runtime fallback from one to the other.
type TripParserInterface interface {
	Parse(ctx context.Context, rawRequest string) (*db_models.TripSpec, error)
}
