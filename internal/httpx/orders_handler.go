package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/ariefcatur/ringsize-hub/internal/orders"
)

type OrderStore interface {
	GetOrder(ctx context.Context, orderID string) (*orders.OrderInformation, error)
}

// OrderCache is satisfied by *redisx.OrderCache.
type OrderCache interface {
	Get(ctx context.Context, orderID string) ([]byte, bool, error)
	Set(ctx context.Context, orderID string, body []byte) error
}

// OrdersHandler is the order service API the front-end looks orders up from.
type OrdersHandler struct {
	Repo     OrderStore
	Cache    OrderCache // optional
	validate *validator.Validate
}

type lookupQuery struct {
	OrderID string `validate:"required,max=128,printascii"`
}

func NewOrdersHandler(repo OrderStore, cache OrderCache) *OrdersHandler {
	return &OrdersHandler{Repo: repo, Cache: cache, validate: validator.New()}
}

func (h *OrdersHandler) Register(r *chi.Mux) {
	r.Get("/order", h.getOrder)
}

func (h *OrdersHandler) getOrder(w http.ResponseWriter, r *http.Request) {
	q := lookupQuery{OrderID: strings.TrimSpace(r.URL.Query().Get("orderId"))}
	if err := h.validate.Struct(q); err != nil {
		writeError(w, http.StatusBadRequest, "invalid orderId")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	// 1) cache
	if h.Cache != nil {
		if b, ok, err := h.Cache.Get(ctx, q.OrderID); err == nil && ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write(b)
			return
		} else if err != nil {
			log.Printf("orders: cache get %q: %v", q.OrderID, err)
		}
	}

	// 2) database
	o, err := h.Repo.GetOrder(ctx, q.OrderID)
	if errors.Is(err, orders.ErrNotFound) {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	if err != nil {
		log.Printf("orders: get %q: %v", q.OrderID, err)
		writeError(w, http.StatusInternalServerError, "lookup failed")
		return
	}

	b, err := json.Marshal(o)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "encode failed")
		return
	}
	if h.Cache != nil {
		if err := h.Cache.Set(ctx, q.OrderID, b); err != nil {
			log.Printf("orders: cache set %q: %v", q.OrderID, err)
		}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}
