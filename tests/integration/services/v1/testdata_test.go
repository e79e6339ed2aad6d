package v1_test

import (
	apiv1 "minflow/pkg/api/v1"
)

// diamondGraph — две дизъюнктные цепочки 0→3: max flow 2, min cost 6
func diamondGraph() apiv1.Graph {
	return apiv1.Graph{
		NumNodes: 4,
		Edges: []apiv1.Edge{
			{Source: 0, Sink: 1, Capacity: 2, Cost: 1},
			{Source: 0, Sink: 2, Capacity: 1, Cost: 2},
			{Source: 1, Sink: 3, Capacity: 1, Cost: 2},
			{Source: 2, Sink: 3, Capacity: 2, Cost: 1},
		},
	}
}

// supplyGraph — сеть из четырёх узлов, где каждый путь 0→3 стоит 4:
// max flow 20, min cost 80 при любом разбиении потока
func supplyGraph() apiv1.Graph {
	return apiv1.Graph{
		NumNodes: 4,
		Edges: []apiv1.Edge{
			{Source: 0, Sink: 1, Capacity: 10, Cost: 1},
			{Source: 0, Sink: 2, Capacity: 10, Cost: 2},
			{Source: 1, Sink: 2, Capacity: 5, Cost: 1},
			{Source: 1, Sink: 3, Capacity: 10, Cost: 3},
			{Source: 2, Sink: 3, Capacity: 10, Cost: 2},
		},
	}
}

// layeredGraph — цепочка с перескоками через узел, как генерирует
// scripts/gengraph; max flow 15 для n >= 3
func layeredGraph(nodeCount int) apiv1.Graph {
	edges := make([]apiv1.Edge, 0, 2*nodeCount)
	for i := 0; i < nodeCount-1; i++ {
		edges = append(edges, apiv1.Edge{Source: i, Sink: i + 1, Capacity: 10, Cost: 1})
		if i+2 < nodeCount {
			edges = append(edges, apiv1.Edge{Source: i, Sink: i + 2, Capacity: 5, Cost: 2})
		}
	}
	return apiv1.Graph{NumNodes: nodeCount, Edges: edges}
}

// invalidGraph — ребро ссылается на несуществующий узел
func invalidGraph() apiv1.Graph {
	return apiv1.Graph{
		NumNodes: 2,
		Edges: []apiv1.Edge{
			{Source: 0, Sink: 99, Capacity: 10, Cost: 1},
		},
	}
}

// warningGraph — корректная сеть с нулевой пропускной способностью и
// отрицательной стоимостью
func warningGraph() apiv1.Graph {
	return apiv1.Graph{
		NumNodes: 3,
		Edges: []apiv1.Edge{
			{Source: 0, Sink: 1, Capacity: 0, Cost: 1},
			{Source: 0, Sink: 2, Capacity: 5, Cost: -2},
			{Source: 1, Sink: 2, Capacity: 5, Cost: 1},
		},
	}
}

// disconnectedGraph — сток недостижим из истока
func disconnectedGraph() apiv1.Graph {
	return apiv1.Graph{
		NumNodes: 4,
		Edges: []apiv1.Edge{
			{Source: 0, Sink: 1, Capacity: 10, Cost: 1},
			{Source: 2, Sink: 3, Capacity: 10, Cost: 1},
		},
	}
}
