package auction

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	api "github.com/mcdev12/auction/go/internal/auction"
	"github.com/mcdev12/auction/go/internal/models"
)

// RESTClient talks to the plain JSON routes, for servers or proxies without Connect
type RESTClient struct {
	baseURL string
	client  *http.Client
	headers map[string]string
}

// APIError is a non-2xx REST response
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API returned status code: %d, %s: %s", e.StatusCode, e.Code, e.Message)
}

func NewRESTClient(baseURL string) *RESTClient {
	return &RESTClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		headers: make(map[string]string),
	}
}

func (c *RESTClient) SetHeader(key, value string) {
	c.headers[key] = value
}

func (c *RESTClient) SetTimeout(timeout time.Duration) {
	c.client.Timeout = timeout
}

func (c *RESTClient) makeRequest(ctx context.Context, method, endpoint string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	for key, value := range c.headers {
		req.Header.Set(key, value)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr api.ErrorResponse
		if json.Unmarshal(responseBody, &apiErr) != nil {
			apiErr.Error = string(responseBody)
		}
		return &APIError{StatusCode: resp.StatusCode, Code: apiErr.Code, Message: apiErr.Error}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(responseBody, out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w, raw response: %s", err, string(responseBody))
	}
	return nil
}

func (c *RESTClient) Budgets(ctx context.Context) (models.Budgets, error) {
	var budgets models.Budgets
	if err := c.makeRequest(ctx, http.MethodGet, "/budgets/", nil, &budgets); err != nil {
		return nil, err
	}
	return budgets, nil
}

func (c *RESTClient) StartBidding(ctx context.Context, player string) (string, error) {
	var resp api.MessageResponse
	endpoint := "/start_bidding/?" + url.Values{"player_name": {player}}.Encode()
	if err := c.makeRequest(ctx, http.MethodPost, endpoint, nil, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

func (c *RESTClient) PlaceBid(ctx context.Context, team string, amount int64) (string, error) {
	var resp api.MessageResponse
	endpoint := "/place_bid/?" + url.Values{"team": {team}, "amount": {strconv.FormatInt(amount, 10)}}.Encode()
	if err := c.makeRequest(ctx, http.MethodPost, endpoint, nil, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

func (c *RESTClient) EndBidding(ctx context.Context) (api.Settlement, error) {
	var settlement api.Settlement
	if err := c.makeRequest(ctx, http.MethodPost, "/end_bidding/", nil, &settlement); err != nil {
		return api.Settlement{}, err
	}
	return settlement, nil
}

// Info returns the server's connection and relay statistics
func (c *RESTClient) Info(ctx context.Context) (map[string]any, error) {
	var info map[string]any
	if err := c.makeRequest(ctx, http.MethodGet, "/info", nil, &info); err != nil {
		return nil, err
	}
	return info, nil
}
