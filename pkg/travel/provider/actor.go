package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"trip-assistant-be/internal/pkg/logger"
	"trip-assistant-be/pkg/travel"
)

const (
	DefaultActorBaseURL      = "https://api.apify.com"
	DefaultActorPollInterval = 5 * time.Second
	actorDatasetLimit        = 10
)

// Actor run states
const (
	RunSucceeded = "SUCCEEDED"
	RunFailed    = "FAILED"
	RunAborted   = "ABORTED"
	RunTimedOut  = "TIMED-OUT"
)

var errNoItems = errors.New("actor dataset is empty")

// ActorClient runs asynchronous scraping jobs: submit, poll until a terminal
// state, then fetch the result dataset.
type ActorClient struct {
	BaseURL      string
	Token        string
	PollInterval time.Duration
	HTTP         *http.Client
	logger       logger.ILogger
}

func NewActorClient(baseURL, token string, log logger.ILogger) *ActorClient {
	if baseURL == "" {
		baseURL = DefaultActorBaseURL
	}
	return &ActorClient{
		BaseURL:      strings.TrimRight(baseURL, "/"),
		Token:        token,
		PollInterval: DefaultActorPollInterval,
		HTTP:         &http.Client{Timeout: 30 * time.Second},
		logger:       log,
	}
}

type actorRun struct {
	ID               string `json:"id"`
	Status           string `json:"status"`
	DefaultDatasetID string `json:"defaultDatasetId"`
	StatusMessage    string `json:"statusMessage"`
}

type actorRunEnvelope struct {
	Data actorRun `json:"data"`
}

// Run submits input to actor and waits at most budget for the dataset. The
// returned error wraps travel.ErrTimeout or travel.ErrProvider; an empty
// dataset yields errNoItems.
func (c *ActorClient) Run(ctx context.Context, actor string, input any, budget time.Duration) ([]json.RawMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, budget)
	defer cancel()

	var env actorRunEnvelope
	endpoint := fmt.Sprintf("%s/v2/acts/%s/runs", c.BaseURL, url.PathEscape(strings.ReplaceAll(actor, "/", "~")))
	if err := c.do(ctx, http.MethodPost, endpoint, input, &env); err != nil {
		return nil, c.classify(ctx, fmt.Errorf("start actor %s: %w", actor, err))
	}
	run := env.Data
	c.logger.Debug("ACTOR", "Actor run started", map[string]interface{}{"actor": actor, "run_id": run.ID})

	ticker := time.NewTicker(c.PollInterval)
	defer ticker.Stop()

	for !isTerminal(run.Status) {
		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil, fmt.Errorf("actor %s run %s: %w: %w", actor, run.ID, travel.ErrProvider, ctx.Err())
			}
			return nil, fmt.Errorf("actor %s run %s still %s after %s: %w", actor, run.ID, run.Status, budget, travel.ErrTimeout)
		case <-ticker.C:
		}

		env = actorRunEnvelope{}
		if err := c.do(ctx, http.MethodGet, fmt.Sprintf("%s/v2/actor-runs/%s", c.BaseURL, url.PathEscape(run.ID)), nil, &env); err != nil {
			return nil, c.classify(ctx, fmt.Errorf("poll actor run %s: %w", run.ID, err))
		}
		run = env.Data
	}

	if run.Status != RunSucceeded {
		reason := run.Status
		if run.StatusMessage != "" {
			reason += ": " + run.StatusMessage
		}
		if run.Status == RunTimedOut {
			return nil, fmt.Errorf("actor %s run %s %s: %w", actor, run.ID, reason, travel.ErrTimeout)
		}
		return nil, fmt.Errorf("actor %s run %s %s: %w", actor, run.ID, reason, travel.ErrProvider)
	}

	var items []json.RawMessage
	itemsURL := fmt.Sprintf("%s/v2/datasets/%s/items?limit=%d", c.BaseURL, url.PathEscape(run.DefaultDatasetID), actorDatasetLimit)
	if err := c.do(ctx, http.MethodGet, itemsURL, nil, &items); err != nil {
		return nil, c.classify(ctx, fmt.Errorf("fetch dataset %s: %w", run.DefaultDatasetID, err))
	}
	if len(items) == 0 {
		return nil, errNoItems
	}
	return items, nil
}

func isTerminal(status string) bool {
	switch status {
	case RunSucceeded, RunFailed, RunAborted, RunTimedOut:
		return true
	}
	return false
}

// classify marks err as a timeout once the run budget is spent
func (c *ActorClient) classify(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return fmt.Errorf("%v: %w", err, travel.ErrTimeout)
	}
	return fmt.Errorf("%w: %w", travel.ErrProvider, err)
}

func (c *ActorClient) do(ctx context.Context, method, endpoint string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.Token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("status %d: %s", resp.StatusCode, truncate(string(raw), 200))
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
