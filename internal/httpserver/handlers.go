package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
)

// handleSync runs one reconciliation pass synchronously and answers with
// its confirmation text. Overlapping triggers are allowed; the snapshot
// cache is the only shared state and takes the last write.
func (s *Server) handleSync(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := s.logger.With("traceID", middleware.GetReqID(ctx))

	confirmation, err := s.trigger.ReconcileCommand(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "reconciliation trigger failed", "reason", err)
		http.Error(w, err.Error(), http.StatusBadGateway)

		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)

	if _, err := w.Write([]byte(confirmation + "\n")); err != nil {
		logger.ErrorContext(ctx, "failed to write sync response", "error", err)
	}
}
