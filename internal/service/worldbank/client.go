package worldbank

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"HealthPulse/internal/domain/models"
	drepo "HealthPulse/internal/domain/repository"
	"HealthPulse/internal/service/ratelimit"
	xhttp "HealthPulse/pkg/http"
)

const limiterKey = "worldbank"

// Client implements an IndicatorSource backed by the World Bank open data
// API. Responses come as a two-element array: [metadata, records].
type Client struct {
	http             *xhttp.Client
	baseURL          string
	countriesPerPage int
	seriesPerPage    int

	limiter  *ratelimit.Limiter
	capacity float64
	refill   float64
}

// Option configures Client.
type Option func(*Client)

// New creates a new World Bank indicator source.
func New(baseURL string, timeout time.Duration, opts ...Option) drepo.IndicatorSource {
	c := &Client{
		http:             xhttp.NewClient(xhttp.WithTimeout(timeout)),
		baseURL:          baseURL,
		countriesPerPage: 400,
		seriesPerPage:    80,
		limiter:          ratelimit.New(),
		capacity:         10,
		refill:           5,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithPageSizes sets the fixed page sizes for country and series requests.
func WithPageSizes(countries, series int) Option {
	return func(c *Client) {
		if countries > 0 {
			c.countriesPerPage = countries
		}
		if series > 0 {
			c.seriesPerPage = series
		}
	}
}

// WithRateLimit sets the outbound token bucket parameters.
func WithRateLimit(burst, perSec float64) Option {
	return func(c *Client) {
		if burst > 0 {
			c.capacity = burst
		}
		if perSec > 0 {
			c.refill = perSec
		}
	}
}

type countryRecord struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type seriesRecord struct {
	Date  string   `json:"date"`
	Value *float64 `json:"value"`
}

// Countries returns the selectable country list.
func (c *Client) Countries(ctx context.Context) ([]models.Country, error) {
	if err := c.limiter.Wait(ctx, limiterKey, c.capacity, c.refill); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrCountryList, err)
	}

	var records []countryRecord
	if err := c.fetchEnvelope(ctx, c.baseURL+"/country", c.countriesPerPage, &records); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrCountryList, err)
	}

	countries := make([]models.Country, 0, len(records))
	for _, r := range records {
		if r.ID == "" || r.Name == "" {
			continue
		}
		countries = append(countries, models.Country{Code: r.ID, Name: r.Name})
	}
	return countries, nil
}

// FetchSeries requests one indicator's time series for one country. Null
// values are dropped; the result is strictly ascending by year with no
// duplicates. A single failed attempt propagates immediately.
func (c *Client) FetchSeries(ctx context.Context, countryCode, indicatorID string) (models.Series, error) {
	if err := c.limiter.Wait(ctx, limiterKey, c.capacity, c.refill); err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/country/%s/indicator/%s", c.baseURL, countryCode, indicatorID)
	var records []seriesRecord
	if err := c.fetchEnvelope(ctx, url, c.seriesPerPage, &records); err != nil {
		return nil, err
	}

	return normalize(records), nil
}

// fetchEnvelope gets a [metadata, records] payload and decodes the records
// element into dest.
func (c *Client) fetchEnvelope(ctx context.Context, url string, perPage int, dest interface{}) error {
	var envelope []json.RawMessage
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		URL: url,
		QueryParams: map[string][]string{
			"format":   {"json"},
			"per_page": {strconv.Itoa(perPage)},
		},
	}, &envelope)
	if err != nil {
		var statusErr *xhttp.StatusError
		if errors.As(err, &statusErr) {
			return &models.RequestFailure{Status: statusErr.Status}
		}
		return &models.ParseFailure{Err: err}
	}

	if len(envelope) < 2 {
		return &models.ParseFailure{Err: fmt.Errorf("expected [metadata, records], got %d elements", len(envelope))}
	}
	if err := json.Unmarshal(envelope[1], dest); err != nil {
		return &models.ParseFailure{Err: err}
	}
	return nil
}

func normalize(records []seriesRecord) models.Series {
	// Keyed by year; for duplicate years the later record wins.
	byYear := make(map[int]float64, len(records))
	for _, r := range records {
		if r.Value == nil {
			continue
		}
		year, err := strconv.Atoi(r.Date)
		if err != nil {
			continue
		}
		byYear[year] = *r.Value
	}

	series := make(models.Series, 0, len(byYear))
	for year, value := range byYear {
		series = append(series, models.Observation{Year: year, Value: value})
	}
	sort.Slice(series, func(i, j int) bool { return series[i].Year < series[j].Year })
	return series
}
