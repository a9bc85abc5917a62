// Package client fetches predictions from the HTTP API
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/aflpredictions/predictions-api/internal/models"
)

const (
	teamPredictionsPath   = "/api/getTeamPredictions"
	playerPredictionsPath = "/api/getPlayerPredictions"
)

// APIError is a non-2xx response from the API
type APIError struct {
	Status  int
	Message string
	Details string
}

func (e *APIError) Error() string {
	if e.Details == "" {
		return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api error %d: %s (%s)", e.Status, e.Message, e.Details)
}

type Client struct {
	baseURL string
	timeout time.Duration
	http    *fasthttp.Client
}

// New returns a client for the API at baseURL. timeout applies when the
// request context has no deadline of its own.
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		http: &fasthttp.Client{
			MaxConnsPerHost:     16,
			ReadTimeout:         timeout,
			WriteTimeout:        timeout,
			MaxIdleConnDuration: time.Minute,
		},
	}
}

func (c *Client) TeamPredictions(ctx context.Context, q models.TeamPredictionsQuery) ([]models.MatchPrediction, error) {
	return doRequest[models.MatchPrediction](ctx, c, teamPredictionsPath, map[string]string{
		"round": q.Round,
		"year":  q.Year,
	})
}

func (c *Client) PlayerPredictions(ctx context.Context, q models.PlayerPredictionsQuery) ([]models.PlayerPrediction, error) {
	return doRequest[models.PlayerPrediction](ctx, c, playerPredictionsPath, map[string]string{
		"matchId": q.MatchID,
	})
}

// doRequest GETs path and decodes a JSON array of T. Any other body shape is an error.
func doRequest[T any](ctx context.Context, c *Client, path string, params map[string]string) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.baseURL + path)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")
	args := req.URI().QueryArgs()
	for k, v := range params {
		if v != "" {
			args.Add(k, v)
		}
	}

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(c.timeout)
	}
	if err := c.http.DoDeadline(req, resp, deadline); err != nil {
		return nil, fmt.Errorf("request %s: %w", path, err)
	}

	status := resp.StatusCode()
	body := resp.Body()
	if status < 200 || status > 299 {
		return nil, newAPIError(status, body)
	}

	var out []T
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", path, err)
	}
	if out == nil {
		// a literal null body
		out = []T{}
	}
	return out, nil
}

func newAPIError(status int, body []byte) *APIError {
	var payload models.ErrorResponse
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
		return &APIError{Status: status, Message: payload.Error, Details: payload.Details}
	}
	details := strings.TrimSpace(string(body))
	if len(details) > 200 {
		details = details[:200]
	}
	return &APIError{Status: status, Message: fasthttp.StatusMessage(status), Details: details}
}
