package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apiv1 "minflow/pkg/api/v1"
	"minflow/pkg/apperror"
	"minflow/pkg/config"
	"minflow/pkg/logger"
	"minflow/services/solver-svc/internal/repository"
	"minflow/services/solver-svc/internal/service"
)

func TestMain(m *testing.M) {
	logger.Init("error")
	os.Exit(m.Run())
}

func newMemRepo() *repository.MemorySolutionRepository {
	return repository.NewMemorySolutionRepository()
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Name: "solver-test", Version: "test"},
		Solver: config.SolverConfig{
			DefaultAlgorithm: "cycle_canceling",
			Timeout:          5 * time.Second,
		},
		Report: config.ReportConfig{
			MaxEdgesInTable: 25,
			CompanyName:     "minflow",
			PDF: config.PDFConfig{
				PageSize:    "A4",
				Orientation: "portrait",
			},
		},
	}
}

// newTestMux собирает маршруты поверх сервиса без базы и кэша
func newTestMux(repo repository.Repository) *http.ServeMux {
	cfg := testConfig()
	svc := service.NewSolverService(cfg, repo, nil, nil)
	return NewHandler(svc, cfg).Routes()
}

// diamondBody — сеть из двух путей 0→3: max flow 2, min cost 6
func diamondBody(t *testing.T) *bytes.Reader {
	t.Helper()

	req := apiv1.SolveRequest{
		Graph: apiv1.Graph{
			NumNodes: 4,
			Edges: []apiv1.Edge{
				{Source: 0, Sink: 1, Capacity: 2, Cost: 1},
				{Source: 0, Sink: 2, Capacity: 1, Cost: 2},
				{Source: 1, Sink: 3, Capacity: 1, Cost: 2},
				{Source: 2, Sink: 3, Capacity: 2, Cost: 1},
			},
		},
	}
	data, err := json.Marshal(&req)
	require.NoError(t, err)
	return bytes.NewReader(data)
}

func doRequest(mux *http.ServeMux, method, target string, body *bytes.Reader) *httptest.ResponseRecorder {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, body)
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func decodeAppError(t *testing.T, rec *httptest.ResponseRecorder) *apperror.AppError {
	t.Helper()

	var envelope apperror.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Error)
	return envelope.Error
}

func TestSolve(t *testing.T) {
	mux := newTestMux(nil)

	rec := doRequest(mux, http.MethodPost, "/v1/solve", diamondBody(t))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp apiv1.SolveResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(2), resp.MaxFlow)
	assert.Equal(t, int64(6), resp.MinCost)
	assert.Equal(t, "cycle_canceling", resp.Algorithm)
	assert.False(t, resp.Cached)
	assert.Len(t, resp.FlowEdges, 4)
}

func TestSolve_MalformedBody(t *testing.T) {
	mux := newTestMux(nil)

	rec := doRequest(mux, http.MethodPost, "/v1/solve", bytes.NewReader([]byte("{not json")))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, apperror.CodeInvalidArgument, decodeAppError(t, rec).Code)
}

func TestSolve_EmptyBody(t *testing.T) {
	mux := newTestMux(nil)

	rec := doRequest(mux, http.MethodPost, "/v1/solve", bytes.NewReader(nil))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeAppError(t, rec).Message, "empty")
}

func TestSolve_UnknownAlgorithm(t *testing.T) {
	mux := newTestMux(nil)

	body := []byte(`{"graph":{"num_nodes":2,"edges":[{"source":0,"sink":1,"capacity":1,"cost":1}]},"algorithm":"simplex"}`)
	rec := doRequest(mux, http.MethodPost, "/v1/solve", bytes.NewReader(body))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "algorithm", decodeAppError(t, rec).Field)
}

func TestValidate(t *testing.T) {
	mux := newTestMux(nil)

	body := []byte(`{"graph":{"num_nodes":3,"edges":[
		{"source":0,"sink":1,"capacity":5,"cost":1},
		{"source":1,"sink":2,"capacity":0,"cost":-2}
	]}}`)
	rec := doRequest(mux, http.MethodPost, "/v1/graphs/validate", bytes.NewReader(body))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp apiv1.ValidateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Valid)

	codes := make([]string, 0, len(resp.Issues))
	for _, issue := range resp.Issues {
		codes = append(codes, issue.Code)
	}
	assert.Contains(t, codes, "ZERO_CAPACITY")
	assert.Contains(t, codes, "NEGATIVE_COST")
}

func TestValidate_InvalidGraph(t *testing.T) {
	mux := newTestMux(nil)

	body := []byte(`{"graph":{"num_nodes":2,"edges":[{"source":0,"sink":5,"capacity":1,"cost":0}]}}`)
	rec := doRequest(mux, http.MethodPost, "/v1/graphs/validate", bytes.NewReader(body))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp apiv1.ValidateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Valid)
}

func TestAlgorithms(t *testing.T) {
	mux := newTestMux(nil)

	rec := doRequest(mux, http.MethodGet, "/v1/algorithms", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp apiv1.AlgorithmsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "cycle_canceling", resp.Default)
	assert.Len(t, resp.Algorithms, 2)
}

func TestGetSolution_StorageUnavailable(t *testing.T) {
	mux := newTestMux(nil)

	rec := doRequest(mux, http.MethodGet, "/v1/solutions/"+uuid.NewString(), nil)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, apperror.CodeUnavailable, decodeAppError(t, rec).Code)
}

func TestToken_AuthDisabled(t *testing.T) {
	mux := newTestMux(nil)

	body := []byte(`{"username":"admin","password":"secret"}`)
	rec := doRequest(mux, http.MethodPost, "/v1/auth/token", bytes.NewReader(body))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, apperror.CodeFailedPrecondition, decodeAppError(t, rec).Code)
}

func TestHealthz(t *testing.T) {
	mux := newTestMux(nil)

	rec := doRequest(mux, http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp apiv1.HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "test", resp.Version)
}

func TestReadyz_NoDependencies(t *testing.T) {
	mux := newTestMux(nil)

	rec := doRequest(mux, http.MethodGet, "/readyz", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp apiv1.ReadyResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestMethodNotAllowed(t *testing.T) {
	mux := newTestMux(nil)

	rec := doRequest(mux, http.MethodGet, "/v1/solve", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestUnknownRoute(t *testing.T) {
	mux := newTestMux(nil)

	rec := doRequest(mux, http.MethodGet, "/v1/does-not-exist", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSolve_PersistsWhenRepoConfigured(t *testing.T) {
	repo := newMemRepo()
	mux := newTestMux(repo)

	rec := doRequest(mux, http.MethodPost, "/v1/solve", diamondBody(t))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp apiv1.SolveResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.SolutionID)

	get := doRequest(mux, http.MethodGet, "/v1/solutions/"+resp.SolutionID, nil)
	require.Equal(t, http.StatusOK, get.Code)

	var sol apiv1.Solution
	require.NoError(t, json.Unmarshal(get.Body.Bytes(), &sol))
	assert.Equal(t, resp.SolutionID, sol.ID)
	assert.Equal(t, int64(2), sol.MaxFlow)
	require.NotNil(t, sol.Graph)
	assert.Equal(t, 4, sol.Graph.NumNodes)
}

func TestRoutePatternPrecedence(t *testing.T) {
	// /v1/solutions/{id}/report не должен перехватываться /v1/solutions/{id}
	repo := newMemRepo()
	mux := newTestMux(repo)

	rec := doRequest(mux, http.MethodPost, "/v1/solve", diamondBody(t))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp apiv1.SolveResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	rep := doRequest(mux, http.MethodGet, "/v1/solutions/"+resp.SolutionID+"/report?format=json", nil)
	require.Equal(t, http.StatusOK, rep.Code)
	assert.Equal(t, "application/json", rep.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rep.Header().Get("Content-Disposition"), "attachment"))
}
