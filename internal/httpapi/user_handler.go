package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"storefront-be/internal/auth"
	"storefront-be/internal/user"

	"github.com/go-chi/chi/v5"
)

type UserHandler struct {
	users  user.Service
	tokens auth.TokenManager
}

func NewUserHandler(users user.Service, tokens auth.TokenManager) *UserHandler {
	return &UserHandler{users: users, tokens: tokens}
}

type registerRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.FirstName == "" || req.LastName == "" || req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest,
			"Missing required fields: firstName, lastName, email, password")
		return
	}

	u, err := h.users.Register(r.Context(), req.FirstName, req.LastName, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, user.ErrEmailExists) {
			respondError(w, http.StatusConflict, "Email already registered")
			return
		}
		respondInternal(w, r, "Failed to register user", err)
		return
	}

	token, err := h.tokens.Issue(u.ID, u.Email)
	if err != nil {
		respondInternal(w, r, "Failed to register user", err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"data":    toUserResponse(u),
		"token":   token,
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "Missing required fields: email, password")
		return
	}

	u, err := h.users.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		respondInternal(w, r, "Failed to login user", err)
		return
	}
	if u == nil {
		// Same response for unknown email and wrong password.
		respondError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	token, err := h.tokens.Issue(u.ID, u.Email)
	if err != nil {
		respondInternal(w, r, "Failed to login user", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    toUserResponse(u),
		"token":   token,
	})
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.FindAll(r.Context())
	if err != nil {
		respondInternal(w, r, "Failed to fetch users", err)
		return
	}

	out := make([]UserResponse, len(users))
	for i := range users {
		out[i] = toUserResponse(&users[i])
	}

	respondData(w, http.StatusOK, out)
}

func (h *UserHandler) GetWithPurchases(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid user id")
		return
	}

	result, err := h.users.FindWithRecentPurchases(r.Context(), id)
	if err != nil {
		respondInternal(w, r, "Failed to fetch user", err)
		return
	}
	if result == nil {
		respondError(w, http.StatusNotFound, "User not found")
		return
	}

	purchases := make([]PurchaseResponse, len(result.Purchases))
	for i, p := range result.Purchases {
		purchases[i] = PurchaseResponse{
			ID:                p.ID,
			Status:            p.Status,
			CustomerFirstName: p.CustomerFirstName,
			CustomerLastName:  p.CustomerLastName,
			TotalAmount:       p.TotalAmount,
			CreatedAt:         p.CreatedAt,
			Products:          p.Products,
		}
	}

	respondData(w, http.StatusOK, map[string]any{
		"user":      toUserResponse(&result.User),
		"purchases": purchases,
	})
}

func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	return uint(id), err
}
