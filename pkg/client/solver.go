// pkg/client/solver.go
package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	apiv1 "minflow/pkg/api/v1"
)

// Solve решает задачу потока
func (c *Client) Solve(ctx context.Context, req *apiv1.SolveRequest) (*apiv1.SolveResponse, error) {
	if req == nil {
		return nil, fmt.Errorf("client: solve request is nil")
	}
	var resp apiv1.SolveResponse
	if err := c.do(ctx, "POST", "/v1/solve", nil, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ValidateGraph проверяет структуру сети без решения
func (c *Client) ValidateGraph(ctx context.Context, graph apiv1.Graph) (*apiv1.ValidateResponse, error) {
	var resp apiv1.ValidateResponse
	req := apiv1.ValidateRequest{Graph: graph}
	if err := c.do(ctx, "POST", "/v1/graphs/validate", nil, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetSolution возвращает сохранённое решение
func (c *Client) GetSolution(ctx context.Context, id string) (*apiv1.Solution, error) {
	var resp apiv1.Solution
	if err := c.do(ctx, "GET", "/v1/solutions/"+url.PathEscape(id), nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListOptions фильтры листинга решений
type ListOptions struct {
	Limit     int
	Offset    int
	Algorithm string
	Tag       string
}

// ListSolutions возвращает страницу сохранённых решений
func (c *Client) ListSolutions(ctx context.Context, opts *ListOptions) (*apiv1.ListSolutionsResponse, error) {
	query := url.Values{}
	if opts != nil {
		if opts.Limit > 0 {
			query.Set("limit", strconv.Itoa(opts.Limit))
		}
		if opts.Offset > 0 {
			query.Set("offset", strconv.Itoa(opts.Offset))
		}
		if opts.Algorithm != "" {
			query.Set("algorithm", opts.Algorithm)
		}
		if opts.Tag != "" {
			query.Set("tag", opts.Tag)
		}
	}

	var resp apiv1.ListSolutionsResponse
	if err := c.do(ctx, "GET", "/v1/solutions", query, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DeleteSolution удаляет сохранённое решение
func (c *Client) DeleteSolution(ctx context.Context, id string) error {
	return c.do(ctx, "DELETE", "/v1/solutions/"+url.PathEscape(id), nil, nil, nil)
}

// GetReport скачивает отчёт по решению. Возвращает содержимое и
// Content-Type; format: pdf, xlsx, json, csv.
func (c *Client) GetReport(ctx context.Context, id, format string) ([]byte, string, error) {
	query := url.Values{}
	if format != "" {
		query.Set("format", format)
	}
	return c.doRaw(ctx, "GET", "/v1/solutions/"+url.PathEscape(id)+"/report", query, nil)
}

// GetStatistics возвращает агрегаты по сохранённым решениям
func (c *Client) GetStatistics(ctx context.Context) (*apiv1.StatisticsResponse, error) {
	var resp apiv1.StatisticsResponse
	if err := c.do(ctx, "GET", "/v1/statistics", nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetAlgorithms возвращает реестр алгоритмов
func (c *Client) GetAlgorithms(ctx context.Context) (*apiv1.AlgorithmsResponse, error) {
	var resp apiv1.AlgorithmsResponse
	if err := c.do(ctx, "GET", "/v1/algorithms", nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Token обменивает учётные данные на JWT и запоминает access token
// для последующих запросов
func (c *Client) Token(ctx context.Context, username, password string) (*apiv1.TokenResponse, error) {
	req := apiv1.TokenRequest{Username: username, Password: password}
	var resp apiv1.TokenResponse
	if err := c.do(ctx, "POST", "/v1/auth/token", nil, req, &resp); err != nil {
		return nil, err
	}
	c.SetToken(resp.AccessToken)
	return &resp, nil
}

// Health проверяет живость сервиса
func (c *Client) Health(ctx context.Context) (*apiv1.HealthResponse, error) {
	var resp apiv1.HealthResponse
	if err := c.do(ctx, "GET", "/healthz", nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
