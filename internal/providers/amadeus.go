package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"wayfarer/internal/cache"
	"wayfarer/internal/ratelimit"
)

const (
	amadeusTestBaseURL       = "https://test.api.amadeus.com"
	amadeusProductionBaseURL = "https://api.amadeus.com"

	tokenTimeout  = 10 * time.Second
	searchTimeout = 15 * time.Second

	endpointToken    = "token"
	endpointSchedule = "schedule"
	endpointOffers   = "offers"
)

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

type scheduleResponse struct {
	Data []scheduledFlight `json:"data"`
}

type scheduledFlight struct {
	FlightPoints []flightPoint `json:"flightPoints"`
}

type flightPoint struct {
	IataCode  string      `json:"iataCode"`
	Departure *pointTimes `json:"departure,omitempty"`
	Arrival   *pointTimes `json:"arrival,omitempty"`
}

type pointTimes struct {
	Timings []timing `json:"timings"`
}

type timing struct {
	Qualifier string `json:"qualifier"`
	Value     string `json:"value"`
}

type offersResponse struct {
	Data []flightOffer `json:"data"`
}

type flightOffer struct {
	ID    string     `json:"id"`
	Price offerPrice `json:"price"`
}

type offerPrice struct {
	Currency   string `json:"currency"`
	GrandTotal string `json:"grandTotal"`
}

type AmadeusConfig struct {
	ClientID     string
	ClientSecret string
	Env          string

	// BaseURL overrides the env-derived endpoint. Used by tests.
	BaseURL string
}

func (c AmadeusConfig) baseURL() string {
	if c.BaseURL != "" {
		return c.BaseURL
	}
	if c.Env == "production" {
		return amadeusProductionBaseURL
	}
	return amadeusTestBaseURL
}

// AmadeusClient wraps the two Amadeus endpoints the monitor needs: the flight
// schedule lookup and the flight offers search. Tokens come from the
// client-credentials grant and are reused until shortly before expiry.
type AmadeusClient struct {
	cfg        AmadeusConfig
	httpClient *http.Client
	limiter    *ratelimit.EndpointLimiter
	offerCache cache.OfferCache

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

func NewAmadeusClient(cfg AmadeusConfig, limiter *ratelimit.EndpointLimiter, offerCache cache.OfferCache) *AmadeusClient {
	return &AmadeusClient{
		cfg:        cfg,
		httpClient: &http.Client{},
		limiter:    limiter,
		offerCache: offerCache,
	}
}

func (a *AmadeusClient) token(ctx context.Context) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.accessToken != "" && time.Now().Before(a.tokenExpiry) {
		return a.accessToken, nil
	}

	if err := a.limiter.Wait(ctx, endpointToken); err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, tokenTimeout)
	defer cancel()

	form := url.Values{
		"grant_type":    {"client_credentials"},
		"client_id":     {a.cfg.ClientID},
		"client_secret": {a.cfg.ClientSecret},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		a.cfg.baseURL()+"/v1/security/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("amadeus token request returned %d: %s", resp.StatusCode, body)
	}

	var tok tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return "", err
	}
	if tok.AccessToken == "" {
		return "", fmt.Errorf("amadeus token response missing access_token")
	}

	a.accessToken = tok.AccessToken
	a.tokenExpiry = time.Now().Add(time.Duration(tok.ExpiresIn-60) * time.Second)
	return a.accessToken, nil
}

// DepartureTiming returns the currently scheduled departure time for a flight,
// or "" when the schedule API has no data for it.
func (a *AmadeusClient) DepartureTiming(ctx context.Context, carrier, flightNumber, departDate string) (string, error) {
	token, err := a.token(ctx)
	if err != nil {
		return "", err
	}

	if err := a.limiter.Wait(ctx, endpointSchedule); err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, searchTimeout)
	defer cancel()

	params := url.Values{
		"carrierCode":            {carrier},
		"flightNumber":           {strings.TrimPrefix(flightNumber, carrier)},
		"scheduledDepartureDate": {departDate},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		a.cfg.baseURL()+"/v2/schedule/flights?"+params.Encode(), nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", nil
	}

	var sched scheduleResponse
	if err := json.NewDecoder(resp.Body).Decode(&sched); err != nil {
		return "", err
	}
	if len(sched.Data) == 0 {
		return "", nil
	}

	for _, point := range sched.Data[0].FlightPoints {
		if point.Departure == nil || len(point.Departure.Timings) == 0 {
			continue
		}
		return point.Departure.Timings[0].Value, nil
	}
	return "", nil
}

// CheapestOffer re-searches a route and returns the lowest grand total on
// offer. The boolean is false when no offers came back.
func (a *AmadeusClient) CheapestOffer(ctx context.Context, origin, destination, departDate string) (float64, bool, error) {
	query := cache.OfferQuery{Origin: origin, Destination: destination, DepartDate: departDate}
	if prices, ok := a.offerCache.Get(ctx, query); ok {
		return minPrice(prices)
	}

	token, err := a.token(ctx)
	if err != nil {
		return 0, false, err
	}

	if err := a.limiter.Wait(ctx, endpointOffers); err != nil {
		return 0, false, err
	}

	ctx, cancel := context.WithTimeout(ctx, searchTimeout)
	defer cancel()

	params := url.Values{
		"originLocationCode":      {origin},
		"destinationLocationCode": {destination},
		"departureDate":           {departDate},
		"adults":                  {"1"},
		"max":                     {"5"},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		a.cfg.baseURL()+"/v2/shopping/flight-offers?"+params.Encode(), nil)
	if err != nil {
		return 0, false, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return 0, false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, false, nil
	}

	var offers offersResponse
	if err := json.NewDecoder(resp.Body).Decode(&offers); err != nil {
		return 0, false, err
	}

	var prices []float64
	for _, offer := range offers.Data {
		v, err := strconv.ParseFloat(offer.Price.GrandTotal, 64)
		if err != nil {
			continue
		}
		prices = append(prices, v)
	}
	if len(prices) > 0 {
		// Best effort; a cache write failure never blocks monitoring.
		_ = a.offerCache.Set(ctx, query, prices)
	}
	return minPrice(prices)
}

func minPrice(prices []float64) (float64, bool, error) {
	if len(prices) == 0 {
		return 0, false, nil
	}
	min := prices[0]
	for _, p := range prices[1:] {
		if p < min {
			min = p
		}
	}
	return min, true, nil
}
