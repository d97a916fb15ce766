package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"net/http"

	"github.com/Profanor/bullafric-fintech-api/internal/api/problem"
	"github.com/Profanor/bullafric-fintech-api/internal/idempotency"
	"github.com/Profanor/bullafric-fintech-api/internal/observability"
	"go.uber.org/zap"
)

const idempotencyHeader = "Idempotency-Key"

// IdempotencyMiddleware replays stored responses for repeated mutation requests.
// Requests without an Idempotency-Key header pass through untouched.
func IdempotencyMiddleware(store *idempotency.Store, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get(idempotencyHeader)
			if key == "" || store == nil {
				next.ServeHTTP(w, r)
				return
			}

			body, err := io.ReadAll(r.Body)
			if err != nil {
				problem.Write(w, r, http.StatusBadRequest, problem.Type("invalid-request-body"), http.StatusText(http.StatusBadRequest), "unable to read request body")
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))
			requestHash := hashRequest(r.Method, r.URL.Path, UserIDFromContext(r.Context()), body)

			rec, err := store.Lookup(r.Context(), key, requestHash)
			switch {
			case err == nil:
				replayRecord(w, rec)
				return
			case errors.Is(err, idempotency.ErrHashMismatch):
				observability.IncrementIdempotencyEvent("mismatch")
				problem.Write(w, r, http.StatusUnprocessableEntity, problem.Type("idempotency-key-reused"), http.StatusText(http.StatusUnprocessableEntity), "Idempotency-Key was already used with a different request")
				return
			case errors.Is(err, idempotency.ErrInProgress):
				waitAndReplay(w, r, store, key, requestHash)
				return
			case errors.Is(err, idempotency.ErrNotFound):
				// First sighting of the key; fall through to reserve.
			default:
				logger.Warn("idempotency lookup failed, continuing without replay protection",
					zap.String("key", key), zap.Error(err))
				next.ServeHTTP(w, r)
				return
			}

			reserved, err := store.Reserve(r.Context(), key, requestHash, r.Method, r.URL.Path)
			if err != nil {
				logger.Warn("idempotency reserve failed, continuing without replay protection",
					zap.String("key", key), zap.Error(err))
				next.ServeHTTP(w, r)
				return
			}
			if !reserved {
				waitAndReplay(w, r, store, key, requestHash)
				return
			}

			br := &bodyRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(br, r)

			contentType := br.Header().Get("Content-Type")
			if _, err := store.Finalize(r.Context(), key, requestHash, br.status, br.buf.Bytes(), contentType); err != nil {
				logger.Warn("idempotency finalize failed", zap.String("key", key), zap.Error(err))
				return
			}
			observability.IncrementIdempotencyEvent("stored")
		})
	}
}

func waitAndReplay(w http.ResponseWriter, r *http.Request, store *idempotency.Store, key, requestHash string) {
	rec, err := store.WaitForCompletion(r.Context(), key, requestHash)
	if err != nil {
		if errors.Is(err, idempotency.ErrHashMismatch) {
			observability.IncrementIdempotencyEvent("mismatch")
			problem.Write(w, r, http.StatusUnprocessableEntity, problem.Type("idempotency-key-reused"), http.StatusText(http.StatusUnprocessableEntity), "Idempotency-Key was already used with a different request")
			return
		}
		problem.Write(w, r, http.StatusConflict, problem.Type("idempotency-in-progress"), http.StatusText(http.StatusConflict), "a request with this Idempotency-Key is still in progress")
		return
	}
	replayRecord(w, rec)
}

func replayRecord(w http.ResponseWriter, rec *idempotency.Record) {
	observability.IncrementIdempotencyEvent("replayed")
	contentType := rec.ContentType
	if contentType == "" {
		contentType = "application/json"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Idempotency-Replayed", "true")
	w.WriteHeader(rec.Status)
	_, _ = w.Write(rec.Body)
}

func hashRequest(method, path, userID string, body []byte) string {
	h := sha256.New()
	h.Write([]byte(method))
	h.Write([]byte{0})
	h.Write([]byte(path))
	h.Write([]byte{0})
	h.Write([]byte(userID))
	h.Write([]byte{0})
	h.Write(body)
	return hex.EncodeToString(h.Sum(nil))
}

type bodyRecorder struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
}

func (br *bodyRecorder) WriteHeader(code int) {
	br.status = code
	br.ResponseWriter.WriteHeader(code)
}

func (br *bodyRecorder) Write(b []byte) (int, error) {
	br.buf.Write(b)
	return br.ResponseWriter.Write(b)
}
