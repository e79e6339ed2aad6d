package repository

import (
	"context"
	"errors"
)

// Ошибки
var (
	ErrSolutionNotFound = errors.New("solution not found")
	ErrInvalidID        = errors.New("invalid solution id")
)

// Repository интерфейс хранилища решений
type Repository interface {
	// Create сохраняет решение и заполняет ID и CreatedAt
	Create(ctx context.Context, solution *Solution) error

	// GetByID возвращает решение по ID вместе с графом и потоком
	GetByID(ctx context.Context, id string) (*Solution, error)

	// List возвращает страницу решений и общее количество
	List(ctx context.Context, opts *ListOptions) ([]*SolutionSummary, int64, error)

	// Delete удаляет решение
	Delete(ctx context.Context, id string) error

	// Statistics возвращает агрегаты по всем решениям
	Statistics(ctx context.Context) (*Statistics, error)

	// Ping проверяет соединение с хранилищем
	Ping(ctx context.Context) error
}
