package domain

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// =====================================================
// JSON-формат сети
// =====================================================
//
// {
//   "Num_nodes": 4,
//   "Edges": [
//     {"Source": 0, "Sink": 1, "Capacity": 2, "Cost": 1},
//     ...
//   ]
// }
//
// Nodes are numbered 0..Num_nodes-1 consecutively; AddEdge rejects
// anything else.

// edgeDocument одно ребро в JSON-документе
type edgeDocument struct {
	Source   int   `json:"Source"`
	Sink     int   `json:"Sink"`
	Capacity int64 `json:"Capacity"`
	Cost     int64 `json:"Cost"`
}

// graphDocument формат файла сети
type graphDocument struct {
	NumNodes int            `json:"Num_nodes"`
	Edges    []edgeDocument `json:"Edges"`
}

// LoadFile reads a network from a JSON file.
//
// The file must exist, carry a .json extension and decode as a
// graphDocument. Decode and edge errors are wrapped with the file name
// so batch loaders can tell inputs apart.
func LoadFile(path string) (*Graph, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("file %s not found", path)
	}
	if filepath.Ext(path) != ".json" {
		return nil, fmt.Errorf("file extension is not .json")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("file %s not found", path)
	}

	g, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("file %s is not a valid JSON file: %w", path, err)
	}
	return g, nil
}

// Parse decodes a network from graphDocument bytes.
func Parse(data []byte) (*Graph, error) {
	var doc graphDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.NumNodes < 0 {
		return nil, fmt.Errorf("Num_nodes is negative: %d", doc.NumNodes)
	}

	g := NewGraph(doc.NumNodes)
	for _, e := range doc.Edges {
		if err := g.AddEdge(e.Source, e.Sink, e.Capacity, e.Cost); err != nil {
			return nil, fmt.Errorf("edge %d->%d: %w", e.Source, e.Sink, err)
		}
	}
	return g, nil
}

// Marshal encodes a network back into the graphDocument format.
//
// Edges come out in id-then-adjacency order, so marshaling is
// deterministic and Parse(Marshal(g)) reproduces g.
func Marshal(g *Graph) ([]byte, error) {
	doc := graphDocument{
		NumNodes: g.NumNodes(),
		Edges:    make([]edgeDocument, 0, g.EdgeCount()),
	}
	for _, e := range g.Edges() {
		doc.Edges = append(doc.Edges, edgeDocument{
			Source:   e.Source,
			Sink:     e.Sink,
			Capacity: e.Capacity,
			Cost:     e.Cost,
		})
	}
	return json.MarshalIndent(doc, "", "  ")
}
