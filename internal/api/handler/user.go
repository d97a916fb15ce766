package handler

import (
	"net/http"
	"strconv"

	"github.com/Profanor/bullafric-fintech-api/internal/api/problem"
	"github.com/Profanor/bullafric-fintech-api/internal/service"
)

type UserHandler struct {
	users        *service.UserService
	transactions *service.TransactionService
}

func NewUserHandler(users *service.UserService, transactions *service.TransactionService) *UserHandler {
	return &UserHandler{users: users, transactions: transactions}
}

// Profile returns the authenticated user's record and wallet summary.
func (h *UserHandler) Profile(w http.ResponseWriter, r *http.Request) {
	actor, ok := requestActor(r)
	if !ok {
		problem.Write(w, r, http.StatusUnauthorized, problem.Type("auth/invalid-token-claims"), http.StatusText(http.StatusUnauthorized), "Invalid token claims")
		return
	}

	profile, err := h.users.GetProfile(r.Context(), actor)
	if err != nil {
		RespondError(w, r, err)
		return
	}
	RespondJSON(w, http.StatusOK, profile)
}

// Transactions lists the user's ledger entries, newest first.
func (h *UserHandler) Transactions(w http.ResponseWriter, r *http.Request) {
	actor, ok := requestActor(r)
	if !ok {
		problem.Write(w, r, http.StatusUnauthorized, problem.Type("auth/invalid-token-claims"), http.StatusText(http.StatusUnauthorized), "Invalid token claims")
		return
	}

	page := queryInt(r, "page", 1)
	pageSize := queryInt(r, "page_size", 20)
	if pageSize > 100 {
		pageSize = 100
	}

	entries, err := h.transactions.ListForUser(r.Context(), actor, page, pageSize)
	if err != nil {
		RespondError(w, r, err)
		return
	}
	RespondJSON(w, http.StatusOK, map[string]interface{}{
		"page":         page,
		"page_size":    pageSize,
		"transactions": entries,
	})
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return fallback
	}
	return v
}
