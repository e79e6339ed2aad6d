// Package domain provides the integer flow-network model shared by the
// minflow solvers, the service layer, and the CLI.
package domain

import (
	"fmt"
	"strings"
)

// =============================================================================
// Edge
// =============================================================================

// Edge is a directed edge of a flow network.
//
// Capacities and costs are integers. A zero capacity is legal but such
// edges never survive residual-graph construction: in residual graphs
// the absence of an edge is what encodes zero residual capacity.
// Negative costs are legal too; reverse residual edges depend on them.
type Edge struct {
	Source   int
	Sink     int
	Capacity int64
	Cost     int64
}

// String returns the edge in "source -> sink (capacity, cost)" form.
func (e Edge) String() string {
	return fmt.Sprintf("%d -> %d (capacity=%d, cost=%d)", e.Source, e.Sink, e.Capacity, e.Cost)
}

// =============================================================================
// Graph
// =============================================================================

// Graph is a directed graph with contiguous integer node ids and
// adjacency lists kept in insertion order.
//
// # Node ids
//
// Nodes are the integers 0..NumNodes()-1. AddEdge may grow the graph by
// at most one node per endpoint: an endpoint equal to the current node
// count allocates the next id, anything beyond that is rejected. Gaps
// in the id space are therefore impossible.
//
// # Determinism
//
// Adjacency lists preserve insertion order and RemoveEdge preserves the
// order of the survivors. Algorithms iterate nodes in id order and
// edges in adjacency order, so a given input graph always produces the
// same traversal, the same augmenting paths, and the same residual
// graph.
//
// # Residual graphs
//
// A residual graph is an ordinary Graph whose node range may extend
// past StartingNumNodes(): ids at or beyond it are artificial nodes
// created by anti-parallel edge splitting (see BuildResidualGraph).
// ArtificialEdge maps such a node back to the original edge it stands
// in for.
//
// # Thread safety
//
// Graph is not safe for concurrent mutation. Solvers clone the graph
// per run; see algorithms.SolverPool for the concurrent batch path.
type Graph struct {
	adjacency     [][]Edge
	startingNodes int
	artificial    map[int]Edge
}

// NewGraph creates a graph with numNodes isolated nodes.
// StartingNumNodes is fixed to numNodes for the lifetime of the graph.
func NewGraph(numNodes int) *Graph {
	if numNodes < 0 {
		numNodes = 0
	}
	return &Graph{
		adjacency:     make([][]Edge, numNodes),
		startingNodes: numNodes,
		artificial:    make(map[int]Edge),
	}
}

// NumNodes returns the current node count, including artificial nodes.
func (g *Graph) NumNodes() int {
	return len(g.adjacency)
}

// StartingNumNodes returns the node count the graph was created with.
// Nodes at or beyond this id are artificial.
func (g *Graph) StartingNumNodes() int {
	return g.startingNodes
}

// EdgeCount returns the total number of edges.
func (g *Graph) EdgeCount() int {
	count := 0
	for _, adj := range g.adjacency {
		count += len(adj)
	}
	return count
}

// =============================================================================
// Mutation
// =============================================================================

// AddEdge inserts the edge source -> sink.
//
// Endpoints are validated sequentially: source may equal the current
// node count, allocating the next node; sink is then checked against
// the possibly grown count and may allocate one more. Rejected with
// ErrInvalidMutation: negative endpoints, endpoints past the growth
// rule, duplicate edges, negative capacity. The graph is unchanged on
// error.
func (g *Graph) AddEdge(source, sink int, capacity, cost int64) error {
	if source < 0 || sink < 0 {
		return fmt.Errorf("%w: nodes must be non-negative, got %d -> %d", ErrInvalidMutation, source, sink)
	}

	n := len(g.adjacency)
	if source > n {
		return fmt.Errorf("%w: node %d is beyond the next free id %d", ErrInvalidMutation, source, n)
	}
	grown := n
	if source == n {
		grown++
	}
	if sink > grown {
		return fmt.Errorf("%w: node %d is beyond the next free id %d", ErrInvalidMutation, sink, grown)
	}

	if source < n && sink < n && g.HasEdge(source, sink) {
		return fmt.Errorf("%w: edge %d -> %d already exists", ErrInvalidMutation, source, sink)
	}

	if capacity < 0 {
		return fmt.Errorf("%w: capacity must be non-negative, got %d", ErrInvalidMutation, capacity)
	}

	// All checks passed, allocation is safe now.
	for len(g.adjacency) <= source || len(g.adjacency) <= sink {
		g.adjacency = append(g.adjacency, nil)
	}
	g.adjacency[source] = append(g.adjacency[source], Edge{
		Source:   source,
		Sink:     sink,
		Capacity: capacity,
		Cost:     cost,
	})
	return nil
}

// RemoveEdge deletes the edge source -> sink, preserving the order of
// the remaining adjacency entries.
func (g *Graph) RemoveEdge(source, sink int) error {
	if err := g.checkNode(source); err != nil {
		return err
	}
	if err := g.checkNode(sink); err != nil {
		return err
	}
	for i, e := range g.adjacency[source] {
		if e.Sink == sink {
			g.adjacency[source] = append(g.adjacency[source][:i], g.adjacency[source][i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: no edge from %d to %d", ErrMissingEdge, source, sink)
}

// SetEdgeCapacity replaces the capacity of an existing edge.
// Negative capacities are rejected with ErrInvalidMutation.
func (g *Graph) SetEdgeCapacity(source, sink int, capacity int64) error {
	if err := g.checkNode(source); err != nil {
		return err
	}
	if err := g.checkNode(sink); err != nil {
		return err
	}
	if capacity < 0 {
		return fmt.Errorf("%w: capacity must be non-negative, got %d", ErrInvalidMutation, capacity)
	}
	for i := range g.adjacency[source] {
		if g.adjacency[source][i].Sink == sink {
			g.adjacency[source][i].Capacity = capacity
			return nil
		}
	}
	return fmt.Errorf("%w: no edge from %d to %d", ErrMissingEdge, source, sink)
}

// SetEdgeCost replaces the cost of an existing edge.
// Any cost is legal, including negative ones.
func (g *Graph) SetEdgeCost(source, sink int, cost int64) error {
	if err := g.checkNode(source); err != nil {
		return err
	}
	if err := g.checkNode(sink); err != nil {
		return err
	}
	for i := range g.adjacency[source] {
		if g.adjacency[source][i].Sink == sink {
			g.adjacency[source][i].Cost = cost
			return nil
		}
	}
	return fmt.Errorf("%w: no edge from %d to %d", ErrMissingEdge, source, sink)
}

func (g *Graph) checkNode(node int) error {
	if node < 0 || node >= len(g.adjacency) {
		return fmt.Errorf("%w: no node %d", ErrMissingEdge, node)
	}
	return nil
}

// =============================================================================
// Lookup
// =============================================================================

// GetEdge returns a copy of the edge source -> sink.
func (g *Graph) GetEdge(source, sink int) (Edge, error) {
	if err := g.checkNode(source); err != nil {
		return Edge{}, err
	}
	if err := g.checkNode(sink); err != nil {
		return Edge{}, err
	}
	for _, e := range g.adjacency[source] {
		if e.Sink == sink {
			return e, nil
		}
	}
	return Edge{}, fmt.Errorf("%w: no edge from %d to %d", ErrMissingEdge, source, sink)
}

// HasEdge reports whether the edge source -> sink exists.
// Out-of-range endpoints simply report false.
func (g *Graph) HasEdge(source, sink int) bool {
	if source < 0 || source >= len(g.adjacency) {
		return false
	}
	for _, e := range g.adjacency[source] {
		if e.Sink == sink {
			return true
		}
	}
	return false
}

// Adjacency returns the outgoing edges of a node in insertion order.
//
// The returned slice is the graph's internal storage. Callers must
// treat it as read-only; it is invalidated by any mutation of the node.
// An out-of-range node yields nil.
func (g *Graph) Adjacency(node int) []Edge {
	if node < 0 || node >= len(g.adjacency) {
		return nil
	}
	return g.adjacency[node]
}

// Edges returns a copy of every edge in node-id-then-adjacency order.
func (g *Graph) Edges() []Edge {
	edges := make([]Edge, 0, g.EdgeCount())
	for _, adj := range g.adjacency {
		edges = append(edges, adj...)
	}
	return edges
}

// ArtificialEdge maps an artificial node id to the original edge whose
// anti-parallel split created it. The second result is false for real
// nodes and unknown ids.
func (g *Graph) ArtificialEdge(node int) (Edge, bool) {
	e, ok := g.artificial[node]
	return e, ok
}

// =============================================================================
// Comparison and copying
// =============================================================================

// Equal reports whether both graphs have the same node count and
// exactly the same edge set with matching capacities and costs.
// Adjacency order does not participate in the comparison.
func (g *Graph) Equal(other *Graph) bool {
	if other == nil {
		return false
	}
	if len(g.adjacency) != len(other.adjacency) {
		return false
	}
	return g.containsAllEdgesOf(other) && other.containsAllEdgesOf(g)
}

func (g *Graph) containsAllEdgesOf(other *Graph) bool {
	for _, adj := range other.adjacency {
		for _, e := range adj {
			mine, err := g.GetEdge(e.Source, e.Sink)
			if err != nil || mine.Capacity != e.Capacity || mine.Cost != e.Cost {
				return false
			}
		}
	}
	return true
}

// Clone returns a deep copy, including the artificial-node map and the
// starting node count.
func (g *Graph) Clone() *Graph {
	clone := &Graph{
		adjacency:     make([][]Edge, len(g.adjacency)),
		startingNodes: g.startingNodes,
		artificial:    make(map[int]Edge, len(g.artificial)),
	}
	for i, adj := range g.adjacency {
		if len(adj) == 0 {
			continue
		}
		clone.adjacency[i] = make([]Edge, len(adj))
		copy(clone.adjacency[i], adj)
	}
	for k, v := range g.artificial {
		clone.artificial[k] = v
	}
	return clone
}

// String renders the graph as an edge dump, one edge per line.
func (g *Graph) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "graph(%d nodes, %d edges)\n", g.NumNodes(), g.EdgeCount())
	for _, adj := range g.adjacency {
		for _, e := range adj {
			b.WriteString("  ")
			b.WriteString(e.String())
			b.WriteByte('\n')
		}
	}
	return b.String()
}
