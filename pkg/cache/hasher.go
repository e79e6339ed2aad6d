package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"

	"minflow/pkg/domain"
)

// GraphHash вычисляет хеш графа для использования как ключ кэша
func GraphHash(graph *domain.Graph) string {
	if graph == nil {
		return ""
	}

	data := graphToCanonical(graph)
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:16])
}

// graphToCanonical создаёт детерминированное представление графа
func graphToCanonical(graph *domain.Graph) []byte {
	// Сортируем рёбра
	edges := graph.Edges()
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].Source != edges[j].Source {
			return edges[i].Source < edges[j].Source
		}
		return edges[i].Sink < edges[j].Sink
	})

	// Строим каноническую строку
	var result []byte

	// Число узлов определяет source и sink
	result = append(result, []byte(fmt.Sprintf("n:%d;", graph.NumNodes()))...)

	// Рёбра
	for _, e := range edges {
		result = append(result, []byte(fmt.Sprintf("e:%d:%d:%d:%d;",
			e.Source, e.Sink, e.Capacity, e.Cost))...)
	}

	return result
}

// BuildSolveKey строит ключ кэша для результата решения
func BuildSolveKey(graphHash, algorithm string) string {
	return fmt.Sprintf("solve:%s:%s", algorithm, graphHash)
}

// BuildSolveKeyWithOptions строит ключ с учётом опций
func BuildSolveKeyWithOptions(graphHash, algorithm, optionsHash string) string {
	if optionsHash == "" {
		return BuildSolveKey(graphHash, algorithm)
	}
	return fmt.Sprintf("solve:%s:%s:%s", algorithm, graphHash, optionsHash)
}

// QuickHash быстрый хеш для произвольных данных
func QuickHash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// ShortHash короткий хеш (16 символов)
func ShortHash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:8])
}
