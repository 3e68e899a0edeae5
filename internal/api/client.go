// Package api is a typed client for the hunter REST API.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"hunter-tracker/internal/domain"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/valyala/fasthttp"
)

type Hunter struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"display_name"`
	Email       *string   `json:"email"`
	Rank        string    `json:"rank"`
	Level       int       `json:"level"`
	Exp         int       `json:"exp"`
	TotalExp    int       `json:"total_exp"`
	Energy      int       `json:"energy"`
	Title       *string   `json:"title"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Quest struct {
	ID          string         `json:"id"`
	HunterID    string         `json:"hunter_id"`
	Title       string         `json:"title"`
	Description *string        `json:"description"`
	Type        string         `json:"type"`
	ExpReward   int            `json:"exp_reward"`
	StatReward  map[string]int `json:"stat_reward"`
	Status      string         `json:"status"`
	DueDate     *time.Time     `json:"due_date"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

type NewQuest struct {
	HunterID    string         `json:"hunter_id"`
	Title       string         `json:"title"`
	Description *string        `json:"description,omitempty"`
	Type        string         `json:"type,omitempty"`
	ExpReward   *int           `json:"exp_reward,omitempty"`
	StatReward  map[string]int `json:"stat_reward,omitempty"`
	DueDate     *time.Time     `json:"due_date,omitempty"`
}

type LogEntry struct {
	ID        string    `json:"id"`
	HunterID  string    `json:"hunter_id"`
	Message   string    `json:"message"`
	Level     string    `json:"level"`
	CreatedAt time.Time `json:"created_at"`
}

// Claim is the claim response. Progression fields are nil when the quest had
// already been claimed.
type Claim struct {
	Status    string `json:"status"`
	Level     int    `json:"level"`
	Rank      string `json:"rank"`
	Exp       *int   `json:"exp"`
	TotalExp  *int   `json:"total_exp"`
	LeveledUp *bool  `json:"leveled_up"`
}

func (c Claim) Awarded() bool { return c.Exp != nil }

type Diagnostics struct {
	Backend          string   `json:"backend"`
	Database         string   `json:"database"`
	DatabaseURL      string   `json:"database_url"`
	DatabaseName     string   `json:"database_name"`
	Driver           string   `json:"driver"`
	ConnectionStatus string   `json:"connection_status"`
	Collections      []string `json:"collections"`
}

// Error is a non-2xx reply. It unwraps to domain.ErrNotFound or
// domain.ErrInvalid for 404 and 400.
type Error struct {
	StatusCode int
	Detail     string
}

func (e *Error) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("API error: %d", e.StatusCode)
	}
	return fmt.Sprintf("API error: %d: %s", e.StatusCode, e.Detail)
}

func (e *Error) Unwrap() error {
	switch e.StatusCode {
	case fasthttp.StatusNotFound:
		return domain.ErrNotFound
	case fasthttp.StatusBadRequest:
		return domain.ErrInvalid
	}
	return nil
}

type Client struct {
	baseURL string
	client  *fasthttp.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &fasthttp.Client{
			MaxConnsPerHost:     100,
			ReadTimeout:         10 * time.Second,
			WriteTimeout:        10 * time.Second,
			MaxIdleConnDuration: 1 * time.Minute,
		},
	}
}

func (c *Client) CreateHunter(ctx context.Context, displayName string, email *string) (*Hunter, error) {
	body := map[string]any{"display_name": displayName}
	if email != nil {
		body["email"] = *email
	}
	return doRequest[Hunter](ctx, c, fasthttp.MethodPost, "/api/hunter", body)
}

func (c *Client) GetHunter(ctx context.Context, id string) (*Hunter, error) {
	return doRequest[Hunter](ctx, c, fasthttp.MethodGet, "/api/hunter/"+url.PathEscape(id), nil)
}

// GetStats returns the flat stats object; counters are the numeric fields.
func (c *Client) GetStats(ctx context.Context, hunterID string) (map[string]int, error) {
	raw, err := doRequest[map[string]any](ctx, c, fasthttp.MethodGet, "/api/stats?hunter_id="+url.QueryEscape(hunterID), nil)
	if err != nil {
		return nil, err
	}
	counters := make(map[string]int)
	for k, v := range *raw {
		if n, ok := v.(float64); ok {
			counters[k] = int(n)
		}
	}
	return counters, nil
}

func (c *Client) CreateQuest(ctx context.Context, quest NewQuest) (*Quest, error) {
	return doRequest[Quest](ctx, c, fasthttp.MethodPost, "/api/quests", quest)
}

func (c *Client) ListQuests(ctx context.Context, hunterID, questType string) ([]Quest, error) {
	q := url.Values{"hunter_id": {hunterID}}
	if questType != "" {
		q.Set("type", questType)
	}
	quests, err := doRequest[[]Quest](ctx, c, fasthttp.MethodGet, "/api/quests?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	return *quests, nil
}

func (c *Client) StartQuest(ctx context.Context, id string) (string, error) {
	return c.transition(ctx, id, "start")
}

func (c *Client) CompleteQuest(ctx context.Context, id string) (string, error) {
	return c.transition(ctx, id, "complete")
}

func (c *Client) transition(ctx context.Context, id, action string) (string, error) {
	resp, err := doRequest[struct {
		Status string `json:"status"`
	}](ctx, c, fasthttp.MethodPost, fmt.Sprintf("/api/quests/%s/%s", url.PathEscape(id), action), nil)
	if err != nil {
		return "", err
	}
	return resp.Status, nil
}

func (c *Client) ClaimQuest(ctx context.Context, id string) (*Claim, error) {
	return doRequest[Claim](ctx, c, fasthttp.MethodPost, fmt.Sprintf("/api/quests/%s/claim", url.PathEscape(id)), nil)
}

func (c *Client) Logs(ctx context.Context, hunterID string, limit int) ([]LogEntry, error) {
	q := url.Values{"hunter_id": {hunterID}}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	logs, err := doRequest[[]LogEntry](ctx, c, fasthttp.MethodGet, "/api/logs?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	return *logs, nil
}

func (c *Client) SeedDailies(ctx context.Context, hunterID string) ([]Quest, error) {
	quests, err := doRequest[[]Quest](ctx, c, fasthttp.MethodPost, "/api/seed/dailies?hunter_id="+url.QueryEscape(hunterID), nil)
	if err != nil {
		return nil, err
	}
	return *quests, nil
}

func (c *Client) Diagnostics(ctx context.Context) (*Diagnostics, error) {
	return doRequest[Diagnostics](ctx, c, fasthttp.MethodGet, "/test", nil)
}

func doRequest[T any](ctx context.Context, client *Client, method, path string, body any) (*T, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(client.baseURL + path)
	req.Header.SetMethod(method)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		req.Header.SetContentType("application/json")
		req.SetBody(payload)
	}

	deadline, ok := ctx.Deadline()
	if ok {
		if err := client.client.DoDeadline(req, resp, deadline); err != nil {
			return nil, err
		}
	} else {
		if err := client.client.Do(req, resp); err != nil {
			return nil, err
		}
	}

	if resp.StatusCode() != fasthttp.StatusOK {
		apiErr := &Error{StatusCode: resp.StatusCode()}
		var detail struct {
			Detail string `json:"detail"`
		}
		if err := json.Unmarshal(resp.Body(), &detail); err == nil {
			apiErr.Detail = detail.Detail
		}
		return nil, apiErr
	}

	var result T
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &result, nil
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.StatusCode == fasthttp.StatusNotFound
}
