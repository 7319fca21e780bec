package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/jx"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/apidoor-catalog/internal/domain/product"
)

// Handler serves the catalog API from a product repository.
type Handler struct {
	products product.Repository
}

// NewHandler constructs a Handler reading from products.
func NewHandler(products product.Repository) *Handler {
	return &Handler{products: products}
}

// Register mounts the API routes on r.
func (h *Handler) Register(r chi.Router) {
	r.Get("/products", h.ListProducts)
}

// ListProducts writes every stored product as {"products":[...]}.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.List(r.Context())
	if err != nil {
		zctx.From(r.Context()).Error("List products failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to list products")
		return
	}
	writeJSON(w, http.StatusOK, product.ProductList{Products: products})
}

// encoder is implemented by values that write themselves as JSON.
type encoder interface {
	Encode(e *jx.Encoder)
}

func writeJSON(w http.ResponseWriter, status int, v encoder) {
	e := jx.GetEncoder()
	defer jx.PutEncoder(e)
	v.Encode(e)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Status is already sent; a failed write means the client went away.
	_, _ = w.Write(e.Bytes())
}

type errorResponse struct {
	Code    int
	Message string
}

func (r errorResponse) Encode(e *jx.Encoder) {
	e.ObjStart()
	e.FieldStart("code")
	e.Int(r.Code)
	e.FieldStart("message")
	e.Str(r.Message)
	e.ObjEnd()
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Code: status, Message: message})
}
