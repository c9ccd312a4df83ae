package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"wayfarer/internal/models/db_models"
	"wayfarer/pkg/utils"
)

const parsePromptTemplate = `You are a travel booking assistant. Parse the user's trip request into a JSON object.

Extract these fields:
- origin: IATA airport code (3 letters, e.g. "JFK"). Infer from city names. null if not mentioned.
- destination: IATA airport code (3 letters). Required.
- destination_city: full city name, e.g. "Tokyo"
- depart_date: ISO date YYYY-MM-DD. If only a month is given, use the first Friday of that month in the next 12 months from today.
- return_date: ISO date YYYY-MM-DD. Calculate from depart_date + duration if given. null for one-way.
- budget_total: integer USD. null if not specified.
- num_travelers: integer. Default 1.
- cabin_class: "ECONOMY", "PREMIUM_ECONOMY", "BUSINESS", or "FIRST". Default "ECONOMY".
- hotel_area: preferred neighborhood or area for the hotel, or null.
- notes: any other constraints as a short string, or null.

Today is %s. Return ONLY the raw JSON object, no markdown fences, no explanation.

User request: %s`

const llmParseTimeout = 15 * time.Second

var (
	leadingFenceRe  = regexp.MustCompile("^```(?:json)?\\s*")
	trailingFenceRe = regexp.MustCompile("\\s*```$")
)

// NewLLMTripParser builds the primary parser. It is wired in only when an
// API key is configured; otherwise the rule-based parser serves requests.
func NewLLMTripParser(client *openai.Client, model string) TripParserInterface {
	if model == "" {
		model = openai.GPT4oMini
	}
	return &llmTripParser{client: client, model: model, now: time.Now}
}

type llmTripParser struct {
	client *openai.Client
	model  string
	now    func() time.Time
}

func (p *llmTripParser) Parse(ctx context.Context, rawRequest string) (*db_models.TripSpec, error) {
	ctx, cancel := context.WithTimeout(ctx, llmParseTimeout)
	defer cancel()

	prompt := fmt.Sprintf(parsePromptTemplate, p.now().Format("2006-01-02"), rawRequest)

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     p.model,
		MaxTokens: 512,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		log.Printf("llm parse request failed: %v", err)
		return nil, utils.ErrParse
	}
	if len(resp.Choices) == 0 {
		return nil, utils.ErrParse
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	text = leadingFenceRe.ReplaceAllString(text, "")
	text = trailingFenceRe.ReplaceAllString(text, "")

	var spec db_models.TripSpec
	if err := json.Unmarshal([]byte(text), &spec); err != nil {
		log.Printf("llm parse returned invalid JSON: %v", err)
		return nil, utils.ErrParse
	}
	if spec.NumTravelers == 0 {
		spec.NumTravelers = 1
	}
	if spec.CabinClass == "" {
		spec.CabinClass = db_models.CabinEconomy
	}
	return &spec, nil
}
