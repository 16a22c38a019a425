// Package assistant is the invocation-style entry point that accepts a query
// for the API-key-gated assistant endpoint and acknowledges it.
package assistant

import (
	"context"
	"encoding/json"
	"log"
	"strings"
)

// DefaultQuery is used when an event carries no query.
const DefaultQuery = "default query"

type Event struct {
	Query string `json:"query,omitempty"`
}

type Response struct {
	StatusCode int    `json:"statusCode"`
	Body       string `json:"body"`
}

type successBody struct {
	Data string `json:"data"`
}

type Handler struct {
	APIKey string
	Logger *log.Logger
}

// Handle resolves the query and returns the canned success payload.
func (h *Handler) Handle(ctx context.Context, ev Event) (Response, error) {
	query := ev.Query
	if query == "" {
		query = DefaultQuery
	}
	h.logf("assistant: query=%q api_key=%s", query, MaskKey(h.APIKey))

	body, err := json.Marshal(successBody{Data: "success"})
	if err != nil {
		return Response{}, err
	}
	return Response{StatusCode: 200, Body: string(body)}, nil
}

func (h *Handler) logf(format string, args ...any) {
	if h.Logger != nil {
		h.Logger.Printf(format, args...)
		return
	}
	log.Printf(format, args...)
}

// MaskKey hides all but the last four characters of a credential.
func MaskKey(key string) string {
	key = strings.TrimSpace(key)
	switch {
	case key == "":
		return "<unset>"
	case len(key) <= 4:
		return "****"
	default:
		return "****" + key[len(key)-4:]
	}
}
