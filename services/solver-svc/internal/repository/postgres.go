package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/lib/pq"

	"minflow/pkg/database"
	"minflow/pkg/telemetry"
)

// PostgresSolutionRepository реализация хранилища на PostgreSQL
type PostgresSolutionRepository struct {
	db database.DB
}

// NewPostgresSolutionRepository создаёт новый репозиторий
func NewPostgresSolutionRepository(db database.DB) *PostgresSolutionRepository {
	return &PostgresSolutionRepository{db: db}
}

func (r *PostgresSolutionRepository) Create(ctx context.Context, solution *Solution) error {
	ctx, span := telemetry.StartSpan(ctx, "PostgresSolutionRepository.Create")
	defer span.End()

	query := `
		INSERT INTO solutions (
			name, algorithm, graph_hash, node_count, edge_count,
			max_flow, min_cost, iterations, cycles_canceled, duration_ms,
			graph, flow_edges, tags, created_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query,
		solution.Name,
		solution.Algorithm,
		solution.GraphHash,
		solution.NodeCount,
		solution.EdgeCount,
		solution.MaxFlow,
		solution.MinCost,
		solution.Iterations,
		solution.CyclesCanceled,
		solution.DurationMs,
		solution.Graph,
		solution.FlowEdges,
		solution.Tags,
		solution.CreatedBy,
	).Scan(&solution.ID, &solution.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create solution: %w", err)
	}

	return nil
}

func (r *PostgresSolutionRepository) GetByID(ctx context.Context, id string) (*Solution, error) {
	ctx, span := telemetry.StartSpan(ctx, "PostgresSolutionRepository.GetByID")
	defer span.End()

	solutionID, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrInvalidID
	}

	query := `
		SELECT
			id, name, algorithm, graph_hash, node_count, edge_count,
			max_flow, min_cost, iterations, cycles_canceled, duration_ms,
			graph, flow_edges, tags, created_by, created_at
		FROM solutions
		WHERE id = $1
	`

	solution := &Solution{}
	var tags pgtype.Array[string]

	err = r.db.QueryRow(ctx, query, solutionID).Scan(
		&solution.ID,
		&solution.Name,
		&solution.Algorithm,
		&solution.GraphHash,
		&solution.NodeCount,
		&solution.EdgeCount,
		&solution.MaxFlow,
		&solution.MinCost,
		&solution.Iterations,
		&solution.CyclesCanceled,
		&solution.DurationMs,
		&solution.Graph,
		&solution.FlowEdges,
		&tags,
		&solution.CreatedBy,
		&solution.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSolutionNotFound
		}
		return nil, fmt.Errorf("failed to get solution: %w", err)
	}

	solution.Tags = tags.Elements

	return solution, nil
}

func (r *PostgresSolutionRepository) Delete(ctx context.Context, id string) error {
	ctx, span := telemetry.StartSpan(ctx, "PostgresSolutionRepository.Delete")
	defer span.End()

	solutionID, err := uuid.Parse(id)
	if err != nil {
		return ErrInvalidID
	}

	query := `DELETE FROM solutions WHERE id = $1`

	result, err := r.db.Exec(ctx, query, solutionID)
	if err != nil {
		return fmt.Errorf("failed to delete solution: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrSolutionNotFound
	}

	return nil
}

func (r *PostgresSolutionRepository) List(ctx context.Context, opts *ListOptions) ([]*SolutionSummary, int64, error) {
	ctx, span := telemetry.StartSpan(ctx, "PostgresSolutionRepository.List")
	defer span.End()

	if opts == nil {
		opts = &ListOptions{Limit: 20, Offset: 0, Sort: SortByCreatedDesc}
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}
	if opts.Offset < 0 {
		opts.Offset = 0
	}

	where, args := r.buildWhereClause(opts.Filter)

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM solutions WHERE %s`, where)
	var total int64
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count solutions: %w", err)
	}

	orderBy := r.buildOrderBy(opts.Sort)

	selectQuery := fmt.Sprintf(`
		SELECT
			id, name, algorithm, graph_hash, node_count, edge_count,
			max_flow, min_cost, iterations, cycles_canceled, duration_ms,
			tags, created_by, created_at
		FROM solutions
		WHERE %s
		ORDER BY %s
		LIMIT $%d OFFSET $%d
	`, where, orderBy, len(args)+1, len(args)+2)

	args = append(args, opts.Limit, opts.Offset)

	rows, err := r.db.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list solutions: %w", err)
	}
	defer rows.Close()

	var results []*SolutionSummary
	for rows.Next() {
		summary := &SolutionSummary{}
		var tags pgtype.Array[string]

		err := rows.Scan(
			&summary.ID,
			&summary.Name,
			&summary.Algorithm,
			&summary.GraphHash,
			&summary.NodeCount,
			&summary.EdgeCount,
			&summary.MaxFlow,
			&summary.MinCost,
			&summary.Iterations,
			&summary.CyclesCanceled,
			&summary.DurationMs,
			&tags,
			&summary.CreatedBy,
			&summary.CreatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan solution: %w", err)
		}

		summary.Tags = tags.Elements
		results = append(results, summary)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("rows iteration error: %w", err)
	}

	return results, total, nil
}

func (r *PostgresSolutionRepository) buildWhereClause(filter *ListFilter) (string, []any) {
	conditions := []string{"1=1"}
	var args []any
	argNum := 1

	if filter != nil {
		if filter.Algorithm != "" {
			conditions = append(conditions, fmt.Sprintf("algorithm = $%d", argNum))
			args = append(args, filter.Algorithm)
			argNum++
		}

		if len(filter.Tags) > 0 {
			conditions = append(conditions, fmt.Sprintf("tags && $%d", argNum))
			args = append(args, pq.Array(filter.Tags))
			argNum++
		}

		if filter.CreatedBy != "" {
			conditions = append(conditions, fmt.Sprintf("created_by = $%d", argNum))
			args = append(args, filter.CreatedBy)
			argNum++
		}

		if filter.GraphHash != "" {
			conditions = append(conditions, fmt.Sprintf("graph_hash = $%d", argNum))
			args = append(args, filter.GraphHash)
			argNum++
		}

		if filter.MinFlow != nil {
			conditions = append(conditions, fmt.Sprintf("max_flow >= $%d", argNum))
			args = append(args, *filter.MinFlow)
			argNum++
		}

		if filter.MaxFlow != nil {
			conditions = append(conditions, fmt.Sprintf("max_flow <= $%d", argNum))
			args = append(args, *filter.MaxFlow)
			argNum++
		}

		if filter.StartTime != nil {
			conditions = append(conditions, fmt.Sprintf("created_at >= $%d", argNum))
			args = append(args, *filter.StartTime)
			argNum++
		}

		if filter.EndTime != nil {
			conditions = append(conditions, fmt.Sprintf("created_at <= $%d", argNum))
			args = append(args, *filter.EndTime)
		}
	}

	return strings.Join(conditions, " AND "), args
}

func (r *PostgresSolutionRepository) buildOrderBy(sort SortOrder) string {
	switch sort {
	case SortByCreatedAsc:
		return "created_at ASC"
	case SortByMaxFlowDesc:
		return "max_flow DESC"
	case SortByMinCostAsc:
		return "min_cost ASC"
	case SortByDurationDesc:
		return "duration_ms DESC"
	default:
		return "created_at DESC"
	}
}

func (r *PostgresSolutionRepository) Statistics(ctx context.Context) (*Statistics, error) {
	ctx, span := telemetry.StartSpan(ctx, "PostgresSolutionRepository.Statistics")
	defer span.End()

	stats := &Statistics{
		ByAlgorithm: make(map[string]int64),
	}

	query := `
		SELECT
			COUNT(*),
			COALESCE(AVG(duration_ms), 0),
			COALESCE(AVG(max_flow), 0),
			COALESCE(AVG(min_cost), 0),
			COALESCE(MAX(node_count), 0),
			MAX(created_at)
		FROM solutions
	`

	var lastSolvedAt *time.Time
	err := r.db.QueryRow(ctx, query).Scan(
		&stats.TotalSolutions,
		&stats.AvgDurationMs,
		&stats.AvgMaxFlow,
		&stats.AvgMinCost,
		&stats.LargestGraphNodes,
		&lastSolvedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get statistics: %w", err)
	}
	stats.LastSolvedAt = lastSolvedAt

	algoQuery := `
		SELECT algorithm, COUNT(*)
		FROM solutions
		GROUP BY algorithm
	`

	rows, err := r.db.Query(ctx, algoQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to get algorithm statistics: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var algorithm string
		var count int64
		if err := rows.Scan(&algorithm, &count); err != nil {
			return nil, fmt.Errorf("failed to scan algorithm statistics: %w", err)
		}
		stats.ByAlgorithm[algorithm] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return stats, nil
}

func (r *PostgresSolutionRepository) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}
