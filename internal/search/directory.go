// AngelaMos | 2026
// directory.go

package search

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/meilisearch/meilisearch-go"

	"github.com/mentorcamp/backend/internal/config"
	"github.com/mentorcamp/backend/internal/core"
)

const primaryKey = "id"

// UserDocument is one entry of the user directory index.
type UserDocument struct {
	ID     string   `json:"id"`
	Email  string   `json:"email"`
	Name   string   `json:"name"`
	Roles  []string `json:"roles"`
	Active bool     `json:"active"`
}

// Directory keeps the user index in step with the identity store.
type Directory interface {
	IndexUser(ctx context.Context, doc UserDocument) error
	RemoveUser(ctx context.Context, id string) error
	SearchUsers(ctx context.Context, query string, limit int) ([]UserDocument, error)
}

// New returns a Meilisearch directory, or a no-op one when no host is
// configured.
func New(cfg config.MeilisearchConfig) Directory {
	if cfg.Host == "" {
		return Nop{}
	}

	client := meilisearch.New(cfg.Host, meilisearch.WithAPIKey(cfg.MasterKey))
	return NewMeiliDirectory(client, cfg.Index)
}

type MeiliDirectory struct {
	client meilisearch.ServiceManager
	index  string
}

func NewMeiliDirectory(client meilisearch.ServiceManager, index string) *MeiliDirectory {
	return &MeiliDirectory{client: client, index: index}
}

// Setup declares the filterable attributes. Failures are logged; search
// still works without filters.
func (d *MeiliDirectory) Setup(ctx context.Context) {
	filterable := []any{"roles", "active"}
	if _, err := d.client.Index(d.index).UpdateFilterableAttributes(&filterable); err != nil {
		slog.WarnContext(ctx, "meilisearch filterable attributes",
			"index", d.index,
			"error", err,
		)
	}
}

func (d *MeiliDirectory) Ping(ctx context.Context) error {
	if _, err := d.client.HealthWithContext(ctx); err != nil {
		return fmt.Errorf("meilisearch health: %w", wrapExternal(err))
	}
	return nil
}

func (d *MeiliDirectory) IndexUser(ctx context.Context, doc UserDocument) error {
	pk := primaryKey
	if _, err := d.client.Index(d.index).AddDocuments([]UserDocument{doc}, &pk); err != nil {
		return fmt.Errorf("index user %s: %w", doc.ID, wrapExternal(err))
	}
	return nil
}

func (d *MeiliDirectory) RemoveUser(ctx context.Context, id string) error {
	if _, err := d.client.Index(d.index).DeleteDocument(id); err != nil {
		return fmt.Errorf("remove user %s: %w", id, wrapExternal(err))
	}
	return nil
}

func (d *MeiliDirectory) SearchUsers(
	ctx context.Context,
	query string,
	limit int,
) ([]UserDocument, error) {
	raw, err := d.client.Index(d.index).SearchRaw(query, &meilisearch.SearchRequest{
		Limit: int64(limit),
	})
	if err != nil {
		return nil, fmt.Errorf("search users: %w", wrapExternal(err))
	}

	var result struct {
		Hits []UserDocument `json:"hits"`
	}
	if raw != nil {
		if err := json.Unmarshal(*raw, &result); err != nil {
			return nil, fmt.Errorf("decode search hits: %w", err)
		}
	}

	return result.Hits, nil
}

func wrapExternal(err error) error {
	return fmt.Errorf("%w: %w", core.ErrExternalFailed, err)
}

// Nop discards writes and finds nothing.
type Nop struct{}

func (Nop) IndexUser(context.Context, UserDocument) error { return nil }

func (Nop) RemoveUser(context.Context, string) error { return nil }

func (Nop) SearchUsers(context.Context, string, int) ([]UserDocument, error) {
	return []UserDocument{}, nil
}
