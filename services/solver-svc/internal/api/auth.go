package api

import (
	"net/http"

	apiv1 "minflow/pkg/api/v1"
	"minflow/pkg/apperror"
)

// Token — POST /v1/auth/token: обмен учётных данных на пару JWT
func (h *Handler) Token(w http.ResponseWriter, r *http.Request) {
	var req apiv1.TokenRequest
	if err := decodeJSON(r, &req); err != nil {
		apperror.WriteHTTP(w, err)
		return
	}

	resp, err := h.service.Token(r.Context(), &req)
	if err != nil {
		apperror.WriteHTTP(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
