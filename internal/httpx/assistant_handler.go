package httpx

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ariefcatur/ringsize-hub/internal/assistant"
)

// AssistantHandler exposes the invocation stub over HTTP.
type AssistantHandler struct {
	Handler *assistant.Handler
}

func (h *AssistantHandler) Register(r *chi.Mux) {
	r.Post("/invoke", h.invoke)
}

func (h *AssistantHandler) invoke(w http.ResponseWriter, r *http.Request) {
	var ev assistant.Event
	if err := json.NewDecoder(io.LimitReader(r.Body, 64<<10)).Decode(&ev); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	resp, err := h.Handler.Handle(r.Context(), ev)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.StatusCode)
	_, _ = io.WriteString(w, resp.Body)
}
