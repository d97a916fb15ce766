package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Profanor/bullafric-fintech-api/internal/api/middleware"
	"github.com/Profanor/bullafric-fintech-api/internal/api/problem"
	"github.com/Profanor/bullafric-fintech-api/internal/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RespondJSON writes a JSON response with the given status code.
func RespondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

// RespondError maps domain errors onto RFC 7807 problem responses.
func RespondError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, models.ErrInvalidAmount):
		problem.Write(w, r, http.StatusBadRequest, problem.Type("wallet/invalid-amount"), "Invalid Amount", err.Error())
	case errors.Is(err, models.ErrSelfTransfer):
		problem.Write(w, r, http.StatusBadRequest, problem.Type("wallet/self-transfer"), "Self Transfer", err.Error())
	case errors.Is(err, models.ErrInsufficientFunds):
		problem.Write(w, r, http.StatusBadRequest, problem.Type("wallet/insufficient-funds"), "Insufficient Funds", err.Error())
	case errors.Is(err, models.ErrWalletNotFound):
		problem.Write(w, r, http.StatusNotFound, problem.Type("wallet/not-found"), "Wallet Not Found", err.Error())
	case errors.Is(err, models.ErrRecipientNotFound):
		problem.Write(w, r, http.StatusNotFound, problem.Type("wallet/recipient-not-found"), "Recipient Not Found", err.Error())
	case errors.Is(err, models.ErrUserNotFound):
		problem.Write(w, r, http.StatusNotFound, problem.Type("user/not-found"), "User Not Found", err.Error())
	case errors.Is(err, models.ErrUserExists):
		problem.Write(w, r, http.StatusConflict, problem.Type("user/already-exists"), "User Already Exists", err.Error())
	case errors.Is(err, models.ErrInvalidCredentials):
		problem.Write(w, r, http.StatusUnauthorized, problem.Type("auth/invalid-credentials"), "Invalid Credentials", err.Error())
	default:
		zap.L().Error("unhandled service error",
			zap.Error(err),
			zap.String("path", r.URL.Path),
			zap.String("trace_id", middleware.TraceIDFromContext(r.Context())),
		)
		problem.Write(w, r, http.StatusInternalServerError, problem.Type("internal-server-error"), http.StatusText(http.StatusInternalServerError), "unexpected server error")
	}
}

// requestActor resolves the authenticated user id from the request context.
func requestActor(r *http.Request) (uuid.UUID, bool) {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
