package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"storefront-be/internal/product"

	"github.com/go-chi/chi/v5"
)

type ProductHandler struct {
	products product.Service
}

func NewProductHandler(products product.Service) *ProductHandler {
	return &ProductHandler{products: products}
}

func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.FindAll(r.Context())
	if err != nil {
		respondInternal(w, r, "Failed to fetch products", err)
		return
	}
	respondData(w, http.StatusOK, toProductResponses(products))
}

func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid id parameter")
		return
	}

	p, err := h.products.FindByID(r.Context(), id)
	if err != nil {
		respondInternal(w, r, "Failed to fetch product", err)
		return
	}
	if p == nil {
		respondError(w, http.StatusNotFound, "Product not found")
		return
	}

	respondData(w, http.StatusOK, toProductResponse(p))
}

func (h *ProductHandler) ListByCategory(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")
	if category == "" {
		respondError(w, http.StatusBadRequest, "Missing required parameter: category")
		return
	}

	products, err := h.products.FindByCategory(r.Context(), category)
	if err != nil {
		respondInternal(w, r, "Failed to fetch products", err)
		return
	}

	respondData(w, http.StatusOK, toProductResponses(products))
}

func (h *ProductHandler) ListPopular(w http.ResponseWriter, r *http.Request) {
	popular, err := h.products.FindTopPopular(r.Context())
	if err != nil {
		respondInternal(w, r, "Failed to fetch popular products", err)
		return
	}

	out := make([]PopularProductResponse, len(popular))
	for i, p := range popular {
		out[i] = PopularProductResponse{
			ProductResponse: toProductResponse(&p.Product),
			TotalOrders:     p.TotalOrders,
		}
	}

	respondData(w, http.StatusOK, out)
}

type createProductRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       *float64 `json:"price"`
	Stock       *int     `json:"stock"`
	Category    string   `json:"category"`
}

func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Name == "" || req.Description == "" || req.Price == nil || req.Stock == nil || req.Category == "" {
		respondError(w, http.StatusBadRequest,
			"Missing required fields: name, description, price, stock, category")
		return
	}

	p, err := h.products.Create(r.Context(), req.Name, req.Description, *req.Price, *req.Stock, req.Category)
	if err != nil {
		if errors.Is(err, product.ErrMissingField) ||
			errors.Is(err, product.ErrNegativePrice) ||
			errors.Is(err, product.ErrNegativeStock) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		respondInternal(w, r, "Failed to create product", err)
		return
	}

	respondData(w, http.StatusCreated, toProductResponse(p))
}
