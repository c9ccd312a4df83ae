package parser_fx

import (
	"log"
	"os"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/fx"

	"wayfarer/internal/services"
)

var Module = fx.Provide(provideTripParser)

// The LLM parser is primary; without an API key the rule-based parser keeps
// the pipeline usable in local development.
func provideTripParser() services.TripParserInterface {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		log.Println("OPENAI_API_KEY not set, using rule-based trip parser")
		return services.NewRuleBasedTripParser()
	}

	client := openai.NewClient(apiKey)
	return services.NewLLMTripParser(client, os.Getenv("OPENAI_MODEL"))
}
