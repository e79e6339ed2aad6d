// Command gengraph generates random flow networks in the loader JSON
// format for benchmarks and load testing.
//
// Node 0 is always the source and node n-1 the sink; every node stays
// reachable from the source, so the generated network admits a positive
// maximum flow.
//
// Usage:
//
//	gengraph -nodes 50 -edges 200 -o network.json
//	gengraph -nodes 1000 -edges 5000 -max-capacity 100 -max-cost 20 -seed 42
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"

	"minflow/pkg/domain"
)

func main() {
	nodes := flag.Int("nodes", 10, "Number of nodes (min 2)")
	edges := flag.Int("edges", 20, "Target number of edges")
	maxCapacity := flag.Int64("max-capacity", 100, "Maximum edge capacity")
	maxCost := flag.Int64("max-cost", 50, "Maximum edge cost")
	seed := flag.Int64("seed", 0, "Random seed (0 uses a random one)")
	output := flag.String("o", "", "Output file (default: stdout)")
	flag.Parse()

	if err := run(*nodes, *edges, *maxCapacity, *maxCost, *seed, *output); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}
}

func run(nodes, edges int, maxCapacity, maxCost, seed int64, output string) error {
	if nodes < 2 {
		return fmt.Errorf("need at least 2 nodes, got %d", nodes)
	}
	if maxCapacity < 1 {
		return fmt.Errorf("max-capacity must be positive, got %d", maxCapacity)
	}

	var rng *rand.Rand
	if seed != 0 {
		rng = rand.New(rand.NewSource(seed))
	} else {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}

	g, err := generate(rng, nodes, edges, maxCapacity, maxCost)
	if err != nil {
		return err
	}

	data, err := domain.Marshal(g)
	if err != nil {
		return err
	}

	if output == "" {
		fmt.Println(string(data))
		return nil
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("cannot write %s: %w", output, err)
	}
	return nil
}

// generate строит DAG: каждый узел i получает ребро из случайного узла
// с меньшим номером, что гарантирует достижимость 0 → n-1; остаток
// добивается случайными рёбрами вперёд.
func generate(rng *rand.Rand, nodes, edges int, maxCapacity, maxCost int64) (*domain.Graph, error) {
	g := domain.NewGraph(nodes)

	for sink := 1; sink < nodes; sink++ {
		source := rng.Intn(sink)
		if err := g.AddEdge(source, sink, 1+rng.Int63n(maxCapacity), randCost(rng, maxCost)); err != nil {
			return nil, err
		}
	}

	// Дубликаты отклоняет AddEdge, поэтому пробуем с запасом попыток
	attempts := 0
	for g.EdgeCount() < edges && attempts < edges*20 {
		attempts++

		source := rng.Intn(nodes - 1)
		sink := source + 1 + rng.Intn(nodes-source-1)
		if g.HasEdge(source, sink) {
			continue
		}
		if err := g.AddEdge(source, sink, 1+rng.Int63n(maxCapacity), randCost(rng, maxCost)); err != nil {
			return nil, err
		}
	}

	return g, nil
}

func randCost(rng *rand.Rand, maxCost int64) int64 {
	if maxCost < 1 {
		return 0
	}
	return rng.Int63n(maxCost + 1)
}
