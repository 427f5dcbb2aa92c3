package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
)

// ListProducts handles GET /api/products.
func (h *Handlers) ListProducts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	items, err := h.products.GetAllProducts(ctx)
	if err != nil {
		h.writeServiceError(ctx, w, err)
		return
	}
	h.writeData(ctx, w, items)
}

// GetProduct handles GET /api/products/{slug}.
func (h *Handlers) GetProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	product, err := h.products.GetProductBySlug(ctx, mux.Vars(r)["slug"])
	if err != nil {
		h.writeServiceError(ctx, w, err)
		return
	}
	h.writeData(ctx, w, product)
}

// GetProductView handles GET /api/products/{slug}/view. Query parameters named
// after variant groups select options, e.g. ?color=black&storage=256.
func (h *Handlers) GetProductView(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	view, err := h.products.GetProductView(ctx, mux.Vars(r)["slug"], r.URL.Query())
	if err != nil {
		h.writeServiceError(ctx, w, err)
		return
	}
	h.writeData(ctx, w, view)
}
