package cfbd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/fortuna/services/cfb-analytics-service/internal/logging"
	"github.com/fortuna/services/cfb-analytics-service/internal/retry"
	"github.com/fortuna/services/cfb-analytics-service/pkg/models"
	"github.com/sirupsen/logrus"
)

// ErrNotFound is returned when the API has no document for the game
var ErrNotFound = errors.New("game not found")

// Options configures the client
type Options struct {
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	MaxRetries int
	RetryDelay time.Duration
}

// Client handles college football data API requests
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	userAgent  string
	retry      *retry.RetryPolicy
	logger     *logrus.Entry
}

// New creates a new API client
func New(opts Options, logger *logrus.Entry) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return &Client{
		baseURL: opts.BaseURL,
		apiKey:  opts.APIKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		userAgent: "FortunaCFBAnalytics/1.0",
		retry:     retry.NewRetryPolicy(opts.MaxRetries, opts.RetryDelay),
		logger:    logging.OrDiscard(logger),
	}
}

// FetchBoxScore fetches the advanced box score
func (c *Client) FetchBoxScore(ctx context.Context, gameID string) (*models.BoxScore, error) {
	var box models.BoxScore
	if err := c.get(ctx, "/game/box/advanced", url.Values{"id": {gameID}}, &box); err != nil {
		return nil, fmt.Errorf("fetching box score %s: %w", gameID, err)
	}
	return &box, nil
}

// FetchPlayByPlay fetches the play list. The proxy answers with either a bare
// array or a {"plays": [...]} object.
func (c *Client) FetchPlayByPlay(ctx context.Context, gameID string) (*models.PlayByPlay, error) {
	var raw json.RawMessage
	if err := c.get(ctx, "/plays", url.Values{"gameId": {gameID}}, &raw); err != nil {
		return nil, fmt.Errorf("fetching plays %s: %w", gameID, err)
	}

	pbp := &models.PlayByPlay{GameID: models.FlexString(gameID)}
	if isArray(raw) {
		if err := json.Unmarshal(raw, &pbp.Plays); err != nil {
			return nil, fmt.Errorf("decoding plays %s: %w", gameID, err)
		}
		return pbp, nil
	}

	if err := json.Unmarshal(raw, pbp); err != nil {
		return nil, fmt.Errorf("decoding plays %s: %w", gameID, err)
	}
	if pbp.GameID == "" {
		pbp.GameID = models.FlexString(gameID)
	}
	return pbp, nil
}

// FetchScoreboard fetches quarter line scores
func (c *Client) FetchScoreboard(ctx context.Context, gameID string) (*models.Scoreboard, error) {
	var raw json.RawMessage
	if err := c.get(ctx, "/scoreboard", url.Values{"gameId": {gameID}}, &raw); err != nil {
		return nil, fmt.Errorf("fetching scoreboard %s: %w", gameID, err)
	}

	var board models.Scoreboard
	if err := decodeFirst(raw, &board); err != nil {
		return nil, fmt.Errorf("decoding scoreboard %s: %w", gameID, err)
	}
	return &board, nil
}

// FetchGameInfo fetches the game header from the games endpoint
func (c *Client) FetchGameInfo(ctx context.Context, gameID string) (*models.GameInfo, error) {
	var raw json.RawMessage
	if err := c.get(ctx, "/games", url.Values{"id": {gameID}}, &raw); err != nil {
		return nil, fmt.Errorf("fetching game %s: %w", gameID, err)
	}

	var info models.GameInfo
	if err := decodeFirst(raw, &info); err != nil {
		return nil, fmt.Errorf("decoding game %s: %w", gameID, err)
	}
	if info.ID == "" {
		info.ID = models.FlexString(gameID)
	}
	return &info, nil
}

// get performs a GET with retries. Transport errors and 5xx responses are retried;
// other statuses fail immediately.
func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	attempt := 0
	return c.retry.Execute(ctx, func(ctx context.Context) error {
		attempt++
		err := c.fetch(ctx, endpoint, out)
		if err != nil && !errors.Is(err, retry.ErrPermanent) {
			c.logger.WithFields(logrus.Fields{
				"url":     endpoint,
				"attempt": attempt,
				"error":   err,
			}).Warn("provider request failed")
		}
		return err
	})
}

// fetch makes an HTTP GET request and decodes the JSON body into out
func (c *Client) fetch(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return retry.Permanent(fmt.Errorf("creating request: %w", err))
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("making request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return retry.Permanent(ErrNotFound)
	case resp.StatusCode >= http.StatusInternalServerError:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("API error: status=%d, body=%s", resp.StatusCode, string(body))
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return retry.Permanent(fmt.Errorf("API error: status=%d, body=%s", resp.StatusCode, string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return retry.Permanent(fmt.Errorf("decoding response: %w", err))
	}
	return nil
}

func isArray(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '['
}

// decodeFirst decodes an object, or the first element of an array of objects.
// An empty array is ErrNotFound.
func decodeFirst(raw json.RawMessage, out any) error {
	if !isArray(raw) {
		return json.Unmarshal(raw, out)
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return err
	}
	if len(items) == 0 {
		return ErrNotFound
	}
	return json.Unmarshal(items[0], out)
}
