package domain

// BFSResult holds the outcome of a breadth-first search.
type BFSResult struct {
	// Found reports whether the sink was reached from the source.
	Found bool

	// Parent maps each visited node to its predecessor on the search
	// tree; unvisited nodes and the source hold ParentSentinel.
	// Feed it to RetrievePath(parent, sink) to obtain the path.
	Parent []int
}

// BFS runs a breadth-first search from source and stops the moment it
// reaches sink.
//
// Neighbors are scanned in adjacency order, so on a given graph the
// search always discovers the same shortest path. The parent pointer of
// a node is written before the sink check, which lets the search return
// immediately on discovery with a complete parent chain.
//
// Residual graphs never hold zero-capacity edges, so every adjacency
// entry is traversable by construction.
func BFS(g *Graph, source, sink int) *BFSResult {
	n := g.NumNodes()

	parent := make([]int, n)
	for i := range parent {
		parent[i] = ParentSentinel
	}

	if source < 0 || source >= n || sink < 0 || sink >= n {
		return &BFSResult{Found: false, Parent: parent}
	}

	visited := AcquireBoolSlice(n)
	defer ReleaseBoolSlice(visited)
	queue := AcquireIntSlice(0)
	defer ReleaseIntSlice(queue)

	visited[source] = true
	queue = append(queue, source)

	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]

		for _, e := range g.Adjacency(u) {
			v := e.Sink
			if visited[v] {
				continue
			}
			parent[v] = u
			if v == sink {
				return &BFSResult{Found: true, Parent: parent}
			}
			visited[v] = true
			queue = append(queue, v)
		}
	}

	return &BFSResult{Found: false, Parent: parent}
}
