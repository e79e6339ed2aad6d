// Command minflow solves a minimum-cost maximum-flow problem from the
// command line.
//
// The network is read from a JSON file in the loader format
// (Num_nodes + Edges); the result is printed as a table of flow-carrying
// edges and can optionally be written back as a solution JSON file.
//
// Usage:
//
//	minflow -file network.json
//	minflow -file network.json -algorithm edmonds-karp -source 0 -sink 7
//	minflow -file network.json -output solution.json -quiet
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"runtime"
	"time"

	"minflow/pkg/algorithms"
	"minflow/pkg/domain"
)

// ANSI Colors
var (
	CYAN   = "\033[0;36m"
	GREEN  = "\033[0;32m"
	YELLOW = "\033[1;33m"
	BOLD   = "\033[1m"
	NC     = "\033[0m"
)

func init() {
	if runtime.GOOS == "windows" {
		if os.Getenv("WT_SESSION") == "" && os.Getenv("TERM_PROGRAM") != "vscode" {
			CYAN, GREEN, YELLOW, BOLD, NC = "", "", "", "", ""
		}
	}
}

func main() {
	file := flag.String("file", "", "Network JSON file (required)")
	algorithm := flag.String("algorithm", "cycle-canceling", "Algorithm: cycle-canceling or edmonds-karp")
	source := flag.Int("source", -1, "Source node override (edmonds-karp only, default 0)")
	sink := flag.Int("sink", -1, "Sink node override (edmonds-karp only, default n-1)")
	maxIterations := flag.Int("max-iterations", 0, "Iteration cap (0 for unlimited)")
	timeout := flag.Duration("timeout", 30*time.Second, "Solver timeout")
	output := flag.String("output", "", "Write the optimal flow as JSON to this file")
	quiet := flag.Bool("quiet", false, "Print only max flow and min cost")
	flag.Parse()

	if err := run(*file, *algorithm, *source, *sink, *maxIterations, *timeout, *output, *quiet); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}
}

func run(file, algorithm string, source, sink, maxIterations int, timeout time.Duration, output string, quiet bool) error {
	if file == "" {
		return fmt.Errorf("-file is required")
	}

	alg, err := parseAlgorithm(algorithm)
	if err != nil {
		return err
	}

	g, err := domain.LoadFile(file)
	if err != nil {
		return err
	}

	options := algorithms.DefaultSolverOptions().
		WithTimeout(timeout).
		WithMaxIterations(maxIterations).
		WithSource(source).
		WithSink(sink)

	result, err := algorithms.Solve(context.Background(), g, alg, options)
	if err != nil {
		return err
	}

	printResult(result, quiet)

	if output != "" {
		data, err := domain.Marshal(result.Flow)
		if err != nil {
			return err
		}
		if err := os.WriteFile(output, data, 0o644); err != nil {
			return fmt.Errorf("cannot write %s: %w", output, err)
		}
		if !quiet {
			fmt.Printf("\nSolution written to %s%s%s\n", CYAN, output, NC)
		}
	}

	return nil
}

// parseAlgorithm принимает имена флагов через дефис и внутренние имена
// через подчёркивание
func parseAlgorithm(name string) (algorithms.Algorithm, error) {
	switch name {
	case "cycle-canceling", "cycle_canceling", "":
		return algorithms.AlgorithmCycleCanceling, nil
	case "edmonds-karp", "edmonds_karp":
		return algorithms.AlgorithmEdmondsKarp, nil
	default:
		return "", fmt.Errorf("unknown algorithm %q (want cycle-canceling or edmonds-karp)", name)
	}
}

func printResult(result *algorithms.SolverResult, quiet bool) {
	if quiet {
		fmt.Printf("max_flow=%d min_cost=%d\n", result.MaxFlow, result.TotalCost)
		return
	}

	fmt.Printf("%sAlgorithm:%s      %s\n", BOLD, NC, result.Algorithm)
	fmt.Printf("%sMax flow:%s       %s%d%s\n", BOLD, NC, GREEN, result.MaxFlow, NC)
	fmt.Printf("%sMin cost:%s       %s%d%s\n", BOLD, NC, GREEN, result.TotalCost, NC)
	fmt.Printf("%sIterations:%s     %d\n", BOLD, NC, result.Iterations)
	if result.CyclesCanceled > 0 {
		fmt.Printf("%sCycles:%s         %d\n", BOLD, NC, result.CyclesCanceled)
	}
	fmt.Printf("%sDuration:%s       %s\n", BOLD, NC, result.Duration)

	fmt.Printf("\n%sOptimal flow:%s\n", BOLD, NC)
	for _, e := range result.Flow.Edges() {
		// В графе потока Capacity ребра хранит назначенный поток
		fmt.Printf("  %s%d -> %d%s  flow=%d cost=%d\n", YELLOW, e.Source, e.Sink, NC, e.Capacity, e.Cost)
	}
}
