package handler

import (
	"net/http"

	"github.com/Profanor/bullafric-fintech-api/internal/api/problem"
	"github.com/Profanor/bullafric-fintech-api/internal/service"
	"github.com/google/uuid"
)

type WalletHandler struct {
	wallets *service.WalletService
}

func NewWalletHandler(wallets *service.WalletService) *WalletHandler {
	return &WalletHandler{wallets: wallets}
}

type amountRequest struct {
	Amount int64 `json:"amount"`
}

type transferRequest struct {
	ToUserID string `json:"to_user_id"`
	Amount   int64  `json:"amount"`
}

// Balance returns the authenticated user's wallet state.
func (h *WalletHandler) Balance(w http.ResponseWriter, r *http.Request) {
	actor, ok := requestActor(r)
	if !ok {
		problem.Write(w, r, http.StatusUnauthorized, problem.Type("auth/invalid-token-claims"), http.StatusText(http.StatusUnauthorized), "Invalid token claims")
		return
	}

	result, err := h.wallets.GetBalance(r.Context(), actor)
	if err != nil {
		RespondError(w, r, err)
		return
	}
	RespondJSON(w, http.StatusOK, result)
}

// Fund credits the authenticated user's wallet.
func (h *WalletHandler) Fund(w http.ResponseWriter, r *http.Request) {
	actor, ok := requestActor(r)
	if !ok {
		problem.Write(w, r, http.StatusUnauthorized, problem.Type("auth/invalid-token-claims"), http.StatusText(http.StatusUnauthorized), "Invalid token claims")
		return
	}

	var req amountRequest
	if err := decodeJSON(r, &req); err != nil {
		problem.Write(w, r, http.StatusBadRequest, problem.Type("invalid-request-body"), "Invalid Request Body", err.Error())
		return
	}

	result, err := h.wallets.Fund(r.Context(), actor, req.Amount)
	if err != nil {
		RespondError(w, r, err)
		return
	}
	RespondJSON(w, http.StatusOK, result)
}

// Withdraw debits the authenticated user's wallet.
func (h *WalletHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	actor, ok := requestActor(r)
	if !ok {
		problem.Write(w, r, http.StatusUnauthorized, problem.Type("auth/invalid-token-claims"), http.StatusText(http.StatusUnauthorized), "Invalid token claims")
		return
	}

	var req amountRequest
	if err := decodeJSON(r, &req); err != nil {
		problem.Write(w, r, http.StatusBadRequest, problem.Type("invalid-request-body"), "Invalid Request Body", err.Error())
		return
	}

	result, err := h.wallets.Withdraw(r.Context(), actor, req.Amount)
	if err != nil {
		RespondError(w, r, err)
		return
	}
	RespondJSON(w, http.StatusOK, result)
}

// Transfer moves funds from the authenticated user to another user.
func (h *WalletHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	actor, ok := requestActor(r)
	if !ok {
		problem.Write(w, r, http.StatusUnauthorized, problem.Type("auth/invalid-token-claims"), http.StatusText(http.StatusUnauthorized), "Invalid token claims")
		return
	}

	var req transferRequest
	if err := decodeJSON(r, &req); err != nil {
		problem.Write(w, r, http.StatusBadRequest, problem.Type("invalid-request-body"), "Invalid Request Body", err.Error())
		return
	}
	toID, err := uuid.Parse(req.ToUserID)
	if err != nil {
		problem.Write(w, r, http.StatusBadRequest, problem.Type("invalid-request-body"), "Invalid Request Body", "to_user_id must be a valid UUID")
		return
	}

	result, err := h.wallets.Transfer(r.Context(), actor, toID, req.Amount)
	if err != nil {
		RespondError(w, r, err)
		return
	}
	RespondJSON(w, http.StatusOK, result)
}
