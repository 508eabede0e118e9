package forecast

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	defaultBaseURL = "http://localhost:8000"
	// Prophet + XGBoost over many products can take several minutes
	defaultTimeout = 10 * time.Minute
	healthTimeout  = 5 * time.Second
)

// ErrTimeout is returned when the forecaster does not answer within the client timeout
var ErrTimeout = errors.New("forecast is taking longer than expected; with many products it can take up to 10 minutes")

// Forecaster is the forecasting collaborator as seen by the services
type Forecaster interface {
	Health(ctx context.Context) bool
	Generate(ctx context.Context, req Request) (*Response, error)
	Get(ctx context.Context, analysisID string) (*Response, error)
}

// Client talks to the forecasting service over HTTP
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

var _ Forecaster = (*Client)(nil)

// Health reports whether the service answers {"status":"ok"}
func (c *Client) Health(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return false
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Warn().Err(err).Msg("forecast: health check failed")
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return false
	}

	return body.Status == "ok"
}

// Generate asks the service to forecast an analysis. Missing horizons default
// to 30, 60 and 90 days.
func (c *Client) Generate(ctx context.Context, r Request) (*Response, error) {
	if len(r.ForecastDays) == 0 {
		r.ForecastDays = DefaultHorizons
	}

	payload, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("encode forecast request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/forecast", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	log.Info().Str("analysis_id", r.AnalysisID).Ints("horizons", r.ForecastDays).Msg("forecast: requesting")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(ctx, err) {
			return nil, ErrTimeout
		}
		return nil, fmt.Errorf("forecast request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errorFromResponse(resp)
	}

	var out Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		if isTimeout(ctx, err) {
			return nil, ErrTimeout
		}
		return nil, fmt.Errorf("decode forecast response: %w", err)
	}

	log.Info().Str("analysis_id", r.AnalysisID).Int("products", len(out.ProductForecasts)).Msg("forecast: received")

	return &out, nil
}

// Get fetches a stored forecast. It returns nil, nil when the service has none.
func (c *Client) Get(ctx context.Context, analysisID string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/forecast/"+analysisID, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("forecast fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errorFromResponse(resp)
	}

	var out Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode forecast response: %w", err)
	}

	return &out, nil
}

func errorFromResponse(resp *http.Response) error {
	var body struct {
		Detail string `json:"detail"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Detail != "" {
		return fmt.Errorf("forecast service: %s", body.Detail)
	}
	return fmt.Errorf("forecast service: HTTP %d", resp.StatusCode)
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return true
	}
	var netErr interface{ Timeout() bool }
	return errors.As(err, &netErr) && netErr.Timeout()
}
