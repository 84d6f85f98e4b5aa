// AngelaMos | 2026
// push.go

package device

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/mentorcamp/backend/internal/config"
	"github.com/mentorcamp/backend/internal/core"
)

// expoBatchSize is the most messages the push API accepts per request.
const expoBatchSize = 100

// TokenSource resolves and prunes push targets. *Service satisfies it.
type TokenSource interface {
	TokensFor(ctx context.Context, userIDs []string) ([]string, error)
	Prune(ctx context.Context, pushTokens []string) (int64, error)
}

type expoMessage struct {
	To    string            `json:"to"`
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Data  map[string]string `json:"data,omitempty"`
	Sound string            `json:"sound,omitempty"`
}

type expoTicket struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Details struct {
		Error string `json:"error"`
	} `json:"details"`
}

type expoResponse struct {
	Data []expoTicket `json:"data"`
}

// Notifier delivers push notifications through the Expo push API. Every
// failure is logged and counted, never returned.
type Notifier struct {
	tokens TokenSource
	cfg    config.PushConfig
	client *http.Client
}

func NewNotifier(tokens TokenSource, cfg config.PushConfig) *Notifier {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Notifier{
		tokens: tokens,
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
	}
}

func (n *Notifier) Notify(
	ctx context.Context,
	userIDs []string,
	title, body string,
	data map[string]string,
) {
	if !n.cfg.Enabled || len(userIDs) == 0 {
		return
	}

	tokens, err := n.tokens.TokensFor(ctx, userIDs)
	if err != nil {
		n.fail(ctx, "resolve push tokens failed", err)
		return
	}

	var stale []string
	for start := 0; start < len(tokens); start += expoBatchSize {
		batch := tokens[start:min(start+expoBatchSize, len(tokens))]

		messages := make([]expoMessage, len(batch))
		for i, token := range batch {
			messages[i] = expoMessage{To: token, Title: title, Body: body, Data: data, Sound: "default"}
		}

		tickets, err := n.send(ctx, messages)
		if err != nil {
			n.fail(ctx, "push send failed", err, "batch_size", len(batch))
			continue
		}

		for i, ticket := range tickets {
			if ticket.Status == "ok" || i >= len(batch) {
				continue
			}
			if ticket.Details.Error == "DeviceNotRegistered" {
				stale = append(stale, batch[i])
				continue
			}
			n.fail(ctx, "push ticket rejected", fmt.Errorf("%s: %w", ticket.Message, core.ErrExternalFailed),
				"reason", ticket.Details.Error,
			)
		}
	}

	if len(stale) > 0 {
		removed, err := n.tokens.Prune(ctx, stale)
		if err != nil {
			slog.WarnContext(ctx, "prune push tokens failed", "error", err)
			return
		}
		slog.InfoContext(ctx, "pruned unregistered push tokens", "count", removed)
	}
}

func (n *Notifier) send(ctx context.Context, messages []expoMessage) ([]expoTicket, error) {
	payload, err := json.Marshal(messages)
	if err != nil {
		return nil, fmt.Errorf("encode push: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.cfg.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build push request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if n.cfg.AccessToken != "" {
		req.Header.Set("Authorization", "Bearer "+n.cfg.AccessToken)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("post push: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("push endpoint returned %s: %w", resp.Status, core.ErrExternalFailed)
	}

	var body expoResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode push response: %w", err)
	}
	return body.Data, nil
}

func (n *Notifier) fail(ctx context.Context, msg string, err error, attrs ...any) {
	core.PushFailuresTotal.Inc()
	slog.WarnContext(ctx, msg, append([]any{"error", err}, attrs...)...)
}
