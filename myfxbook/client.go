package myfxbook

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"

	"github.com/rustyeddy/tradehub/performance"
)

const (
	// DefaultBaseURL is the public myfxbook JSON API.
	DefaultBaseURL = "https://www.myfxbook.com/api"

	// DefaultTimeout bounds a single API call.
	DefaultTimeout = 30 * time.Second

	// dayLayout is the start/end format for get-data-daily.
	dayLayout = "2006-01-02"
)

// ErrNoSession is returned when a call is made without a session token.
var ErrNoSession = errors.New("no active session found")

// ErrAccountNotFound is returned when the session cannot see the account.
var ErrAccountNotFound = errors.New("not found")

// APIError is an error reported inside a successful HTTP response.
type APIError struct {
	Endpoint string
	Message  string
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "request failed"
	}
	return fmt.Sprintf("myfxbook %s: %s", e.Endpoint, msg)
}

// Options configures a Client. Zero values pick the defaults.
type Options struct {
	BaseURL  string
	Timeout  time.Duration
	Location *time.Location // broker time zone for trade timestamps
	Logger   zerolog.Logger
}

// Client talks to the myfxbook API. The session token is passed to every
// call; the client keeps no session state.
type Client struct {
	baseURL    string
	httpClient *http.Client
	loc        *time.Location
	log        zerolog.Logger
}

// NewClient creates a new myfxbook API client
func NewClient(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	return &Client{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: opts.Timeout,
		},
		loc: opts.Location,
		log: opts.Logger.With().Str("component", "myfxbook").Logger(),
	}
}

// Account is one entry of get-my-accounts.
type Account struct {
	ID             int64   `json:"id"`
	Name           string  `json:"name"`
	Description    string  `json:"description"`
	AccountID      int64   `json:"accountId"`
	Gain           float64 `json:"gain"`
	AbsGain        float64 `json:"absGain"`
	Daily          float64 `json:"daily"`
	Monthly        float64 `json:"monthly"`
	Deposits       float64 `json:"deposits"`
	Withdrawals    float64 `json:"withdrawals"`
	Interest       float64 `json:"interest"`
	Profit         float64 `json:"profit"`
	Balance        float64 `json:"balance"`
	Drawdown       float64 `json:"drawdown"`
	Equity         float64 `json:"equity"`
	EquityPercent  float64 `json:"equityPercent"`
	Demo           bool    `json:"demo"`
	Currency       string  `json:"currency"`
	LastUpdateDate string  `json:"lastUpdateDate"`
}

type accountsResponse struct {
	Accounts []Account `json:"accounts"`
}

type openTradesResponse struct {
	OpenTrades []performance.RawOpenPosition `json:"openTrades"`
}

type historyResponse struct {
	History []performance.RawClosedTrade `json:"history"`
}

type dataDailyResponse struct {
	DataDaily [][]performance.RawDailySnapshot `json:"dataDaily"`
}

// Accounts lists the accounts visible to the session.
func (c *Client) Accounts(ctx context.Context, session string) ([]Account, error) {
	var resp accountsResponse
	if err := c.get(ctx, "get-my-accounts.json", session, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Accounts, nil
}

// OpenTrades fetches the raw open positions of an account.
func (c *Client) OpenTrades(ctx context.Context, session, accountID string) ([]performance.RawOpenPosition, error) {
	if accountID == "" {
		return nil, fmt.Errorf("account id is required")
	}
	var resp openTradesResponse
	params := url.Values{"id": {accountID}}
	if err := c.get(ctx, "get-open-trades.json", session, params, &resp); err != nil {
		return nil, err
	}
	return resp.OpenTrades, nil
}

// History fetches the raw closed-trade history of an account.
func (c *Client) History(ctx context.Context, session, accountID string) ([]performance.RawClosedTrade, error) {
	if accountID == "" {
		return nil, fmt.Errorf("account id is required")
	}
	var resp historyResponse
	params := url.Values{"id": {accountID}}
	if err := c.get(ctx, "get-history.json", session, params, &resp); err != nil {
		return nil, err
	}
	return resp.History, nil
}

// DataDaily fetches daily snapshots between start and end, flattened in
// upstream order. Dates are left unparsed for the normalizer.
func (c *Client) DataDaily(ctx context.Context, session, accountID string, start, end time.Time) ([]performance.RawDailySnapshot, error) {
	if accountID == "" {
		return nil, fmt.Errorf("account id is required")
	}
	if end.Before(start) {
		return nil, fmt.Errorf("end %s before start %s", end.Format(dayLayout), start.Format(dayLayout))
	}
	var resp dataDailyResponse
	params := url.Values{
		"id":    {accountID},
		"start": {start.Format(dayLayout)},
		"end":   {end.Format(dayLayout)},
	}
	if err := c.get(ctx, "get-data-daily.json", session, params, &resp); err != nil {
		return nil, err
	}
	return performance.FlattenDaily(resp.DataDaily), nil
}

func (c *Client) get(ctx context.Context, endpoint, session string, params url.Values, out any) error {
	if session == "" {
		return ErrNoSession
	}
	if params == nil {
		params = url.Values{}
	}
	params.Set("session", session)

	apiURL := fmt.Sprintf("%s/%s?%s", c.baseURL, endpoint, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	c.log.Debug().
		Str("endpoint", endpoint).
		Int("status", resp.StatusCode).
		Int("bytes", len(body)).
		Dur("duration", time.Since(start)).
		Msg("myfxbook request")

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))
	}
	if !gjson.ValidBytes(body) {
		return fmt.Errorf("decode %s: invalid JSON", endpoint)
	}

	envelope := gjson.GetManyBytes(body, "error", "message")
	if envelope[0].Bool() {
		return &APIError{Endpoint: strings.TrimSuffix(endpoint, ".json"), Message: envelope[1].String()}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s: %w", endpoint, err)
	}
	return nil
}
