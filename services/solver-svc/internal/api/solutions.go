package api

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"minflow/pkg/apperror"
	"minflow/pkg/logger"
	"minflow/services/solver-svc/internal/report"
	"minflow/services/solver-svc/internal/repository"
)

// GetSolution — GET /v1/solutions/{id}
func (h *Handler) GetSolution(w http.ResponseWriter, r *http.Request) {
	sol, err := h.service.GetSolution(r.Context(), r.PathValue("id"))
	if err != nil {
		apperror.WriteHTTP(w, err)
		return
	}

	writeJSON(w, http.StatusOK, sol)
}

// ListSolutions — GET /v1/solutions
func (h *Handler) ListSolutions(w http.ResponseWriter, r *http.Request) {
	opts, err := parseListOptions(r.URL.Query())
	if err != nil {
		apperror.WriteHTTP(w, err)
		return
	}

	resp, err := h.service.ListSolutions(r.Context(), opts)
	if err != nil {
		logger.Log.Error("ListSolutions failed", "error", err)
		apperror.WriteHTTP(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// DeleteSolution — DELETE /v1/solutions/{id}
func (h *Handler) DeleteSolution(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteSolution(r.Context(), r.PathValue("id")); err != nil {
		apperror.WriteHTTP(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Report — GET /v1/solutions/{id}/report?format=pdf|xlsx|json|csv
func (h *Handler) Report(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	format, err := report.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		apperror.WriteHTTP(w, apperror.Wrap(err, apperror.CodeInvalidArgument, err.Error()).WithField("format"))
		return
	}

	content, err := h.service.Report(r.Context(), id, format)
	if err != nil {
		if apperror.Code(err) == apperror.CodeInternal {
			logger.Log.Error("Report generation failed", "error", err, "solution_id", id, "format", format)
		}
		apperror.WriteHTTP(w, err)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", "solution-"+id+"."+format.Extension()))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(content); err != nil {
		logger.Log.Error("Failed to write report", "error", err)
	}
}

// Statistics — GET /v1/statistics
func (h *Handler) Statistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Statistics(r.Context())
	if err != nil {
		logger.Log.Error("Statistics failed", "error", err)
		apperror.WriteHTTP(w, err)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

// parseListOptions разбирает пагинацию, сортировку и фильтры списка.
// Неизвестные параметры игнорируются, нечисловые значения — ошибка.
func parseListOptions(query url.Values) (*repository.ListOptions, error) {
	opts := &repository.ListOptions{}

	var err error
	if opts.Limit, err = parseIntParam(query, "limit"); err != nil {
		return nil, err
	}
	if opts.Offset, err = parseIntParam(query, "offset"); err != nil {
		return nil, err
	}

	if raw := query.Get("sort"); raw != "" {
		sort, err := repository.ParseSortOrder(raw)
		if err != nil {
			return nil, apperror.Wrap(err, apperror.CodeInvalidArgument, err.Error()).WithField("sort")
		}
		opts.Sort = sort
	}

	filter := &repository.ListFilter{
		Algorithm: query.Get("algorithm"),
		Tags:      query["tag"],
		CreatedBy: query.Get("created_by"),
		GraphHash: query.Get("graph_hash"),
	}

	if filter.MinFlow, err = parseInt64Param(query, "min_flow"); err != nil {
		return nil, err
	}
	if filter.MaxFlow, err = parseInt64Param(query, "max_flow"); err != nil {
		return nil, err
	}
	if filter.StartTime, err = parseTimeParam(query, "since"); err != nil {
		return nil, err
	}
	if filter.EndTime, err = parseTimeParam(query, "until"); err != nil {
		return nil, err
	}

	opts.Filter = filter
	return opts, nil
}

func parseIntParam(query url.Values, name string) (int, error) {
	raw := query.Get(name)
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperror.Newf(apperror.CodeInvalidArgument, "%s must be an integer, got %q", name, raw).WithField(name)
	}
	return value, nil
}

func parseInt64Param(query url.Values, name string) (*int64, error) {
	raw := query.Get(name)
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, apperror.Newf(apperror.CodeInvalidArgument, "%s must be an integer, got %q", name, raw).WithField(name)
	}
	return &value, nil
}

func parseTimeParam(query url.Values, name string) (*time.Time, error) {
	raw := query.Get(name)
	if raw == "" {
		return nil, nil
	}
	value, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, apperror.Newf(apperror.CodeInvalidArgument, "%s must be an RFC3339 timestamp, got %q", name, raw).WithField(name)
	}
	return &value, nil
}
