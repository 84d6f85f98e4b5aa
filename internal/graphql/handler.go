// AngelaMos | 2026
// handler.go

package graphql

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	gql "github.com/graphql-go/graphql"
	"go.opentelemetry.io/otel/attribute"

	"github.com/mentorcamp/backend/internal/core"
)

const maxRequestBytes = 1 << 20

type request struct {
	Query         string         `json:"query"`
	OperationName string         `json:"operationName"`
	Variables     map[string]any `json:"variables"`
}

type Handler struct {
	schema gql.Schema
}

func NewHandler(schema gql.Schema) *Handler {
	return &Handler{schema: schema}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/graphql", h.ServeHTTP)
}

// ServeHTTP executes one operation. GraphQL errors come back with status
// 200 in the standard {data, errors} body.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req request
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes)).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}
	if req.Query == "" {
		core.BadRequest(w, "query is required")
		return
	}

	ctx, span := core.StartSpan(r.Context(), "graphql.execute",
		attribute.String("graphql.operation.name", req.OperationName),
	)
	defer span.End()

	result := gql.Do(gql.Params{
		Schema:         h.schema,
		RequestString:  req.Query,
		VariableValues: req.Variables,
		OperationName:  req.OperationName,
		Context:        ctx,
	})
	if result.HasErrors() {
		span.SetAttributes(attribute.Int("graphql.errors", len(result.Errors)))
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	//nolint:errcheck // best-effort response
	_ = json.NewEncoder(w).Encode(result)
}
