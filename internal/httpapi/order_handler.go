package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"storefront-be/internal/middleware"
	"storefront-be/internal/order"

	"github.com/go-chi/chi/v5"
)

type OrderHandler struct {
	orders order.Service
}

func NewOrderHandler(orders order.Service) *OrderHandler {
	return &OrderHandler{orders: orders}
}

type placeOrderItem struct {
	ProductID uint `json:"productId"`
	Quantity  int  `json:"quantity"`
}

type placeOrderRequest struct {
	Items             []placeOrderItem `json:"items"`
	CustomerFirstName string           `json:"customerFirstName"`
	CustomerLastName  string           `json:"customerLastName"`
	CustomerEmail     string           `json:"customerEmail"`
	CustomerAddress   string           `json:"customerAddress"`
	PaymentMethod     string           `json:"paymentMethod"`
}

func (h *OrderHandler) Place(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "missing identity")
		return
	}

	var req placeOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	items := make([]order.CartItem, len(req.Items))
	for i, it := range req.Items {
		items[i] = order.CartItem{ProductID: it.ProductID, Quantity: it.Quantity}
	}

	detail, err := h.orders.PlaceOrder(r.Context(), userID, items, order.Customer{
		FirstName: req.CustomerFirstName,
		LastName:  req.CustomerLastName,
		Email:     req.CustomerEmail,
		Address:   req.CustomerAddress,
	}, req.PaymentMethod)
	if err != nil {
		switch {
		case errors.Is(err, order.ErrEmptyCart), errors.Is(err, order.ErrMissingCustomer):
			respondError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, order.ErrProductNotFound):
			respondError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, order.ErrInsufficientStock):
			respondError(w, http.StatusConflict, err.Error())
		default:
			respondInternal(w, r, "Failed to create order", err)
		}
		return
	}

	respondData(w, http.StatusCreated, toOrderResponse(detail))
}

func (h *OrderHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "missing identity")
		return
	}

	details, err := h.orders.FindByUserID(r.Context(), userID)
	if err != nil {
		respondInternal(w, r, "Failed to fetch orders", err)
		return
	}

	respondData(w, http.StatusOK, toOrderResponses(details))
}

func (h *OrderHandler) ListCompleted(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "missing identity")
		return
	}

	details, err := h.orders.FindCompletedByUserID(r.Context(), userID)
	if err != nil {
		respondInternal(w, r, "Failed to fetch completed orders", err)
		return
	}

	respondData(w, http.StatusOK, toOrderResponses(details))
}

func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid order id")
		return
	}

	detail, err := h.orders.FindByID(r.Context(), id)
	if err != nil {
		respondInternal(w, r, "Failed to fetch order", err)
		return
	}
	if detail == nil {
		respondError(w, http.StatusNotFound, "Order not found")
		return
	}

	respondData(w, http.StatusOK, toOrderResponse(detail))
}
