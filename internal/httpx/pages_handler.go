package httpx

import (
	"context"
	"log"
	"net/http"
	"strings"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"

	"github.com/ariefcatur/ringsize-hub/internal/orders"
	"github.com/ariefcatur/ringsize-hub/internal/web"
)

// OrderLoader returns the order for id, or nil when there is nothing to show.
type OrderLoader interface {
	Load(ctx context.Context, orderID string) *orders.OrderInformation
}

// PagesHandler serves the HTML front-end.
type PagesHandler struct {
	Orders OrderLoader
}

func (h *PagesHandler) Register(r *chi.Mux) {
	r.Get("/", h.home)
	r.Get("/orders", h.ordersPage)
	r.Get("/dashboard", h.static("Dashboard"))
	r.Get("/about", h.static("About"))
}

// home shows the order when orderId resolves and the lookup form otherwise.
func (h *PagesHandler) home(w http.ResponseWriter, r *http.Request) {
	// Whitespace-only ids count as missing; no lookup is made for them.
	orderID := strings.TrimSpace(r.URL.Query().Get("orderId"))
	if orderID == "" {
		h.render(w, r, web.LookUp(""))
		return
	}

	o := h.Orders.Load(r.Context(), orderID)
	if o == nil {
		h.render(w, r, web.LookUp(orderID))
		return
	}
	h.render(w, r, web.OrderDetails(o))
}

func (h *PagesHandler) ordersPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, web.LookUp(""))
}

func (h *PagesHandler) static(title string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.render(w, r, web.Heading(title))
	}
}

func (h *PagesHandler) render(w http.ResponseWriter, r *http.Request, body templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if err := web.Layout(r.URL.Path).Render(templ.WithChildren(r.Context(), body), w); err != nil {
		log.Printf("web: render %s: %v", r.URL.Path, err)
	}
}
