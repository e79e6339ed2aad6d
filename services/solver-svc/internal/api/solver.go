package api

import (
	"net/http"

	apiv1 "minflow/pkg/api/v1"
	"minflow/pkg/apperror"
	"minflow/pkg/logger"
)

// Solve — POST /v1/solve
func (h *Handler) Solve(w http.ResponseWriter, r *http.Request) {
	var req apiv1.SolveRequest
	if err := decodeJSON(r, &req); err != nil {
		apperror.WriteHTTP(w, err)
		return
	}

	resp, err := h.service.Solve(r.Context(), &req)
	if err != nil {
		if apperror.Code(err) == apperror.CodeInternal {
			logger.Log.Error("Solve failed", "error", err)
		}
		apperror.WriteHTTP(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// Validate — POST /v1/graphs/validate
func (h *Handler) Validate(w http.ResponseWriter, r *http.Request) {
	var req apiv1.ValidateRequest
	if err := decodeJSON(r, &req); err != nil {
		apperror.WriteHTTP(w, err)
		return
	}

	writeJSON(w, http.StatusOK, h.service.Validate(r.Context(), &req))
}

// Algorithms — GET /v1/algorithms
func (h *Handler) Algorithms(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.Algorithms(r.Context()))
}
