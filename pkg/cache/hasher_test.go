package cache

import (
	"testing"

	"minflow/pkg/domain"
)

func buildGraph(t *testing.T, numNodes int, edges [][4]int64) *domain.Graph {
	t.Helper()
	g := domain.NewGraph(numNodes)
	for _, e := range edges {
		if err := g.AddEdge(int(e[0]), int(e[1]), e[2], e[3]); err != nil {
			t.Fatalf("AddEdge(%v): %v", e, err)
		}
	}
	return g
}

func TestGraphHash(t *testing.T) {
	t.Run("nil graph", func(t *testing.T) {
		hash := GraphHash(nil)
		if hash != "" {
			t.Errorf("GraphHash(nil) = %v, want empty string", hash)
		}
	})

	t.Run("same graph produces same hash", func(t *testing.T) {
		g := buildGraph(t, 4, [][4]int64{
			{0, 1, 10, 1},
			{1, 3, 5, 2},
		})

		hash1 := GraphHash(g)
		hash2 := GraphHash(g)

		if hash1 != hash2 {
			t.Errorf("same graph should produce same hash: %v != %v", hash1, hash2)
		}
	})

	t.Run("different graphs produce different hashes", func(t *testing.T) {
		g1 := buildGraph(t, 2, [][4]int64{{0, 1, 10, 0}})
		g2 := buildGraph(t, 2, [][4]int64{{0, 1, 20, 0}}) // different capacity

		hash1 := GraphHash(g1)
		hash2 := GraphHash(g2)

		if hash1 == hash2 {
			t.Error("different graphs should produce different hashes")
		}
	})

	t.Run("edge insertion order does not affect hash", func(t *testing.T) {
		g1 := buildGraph(t, 3, [][4]int64{
			{0, 1, 10, 1},
			{1, 2, 5, 2},
		})
		g2 := buildGraph(t, 3, [][4]int64{
			{1, 2, 5, 2},
			{0, 1, 10, 1}, // different order
		})

		hash1 := GraphHash(g1)
		hash2 := GraphHash(g2)

		if hash1 != hash2 {
			t.Error("edge insertion order should not affect hash")
		}
	})

	t.Run("node count affects hash", func(t *testing.T) {
		g1 := buildGraph(t, 2, [][4]int64{{0, 1, 10, 0}})
		g2 := buildGraph(t, 3, [][4]int64{{0, 1, 10, 0}}) // extra isolated node

		if GraphHash(g1) == GraphHash(g2) {
			t.Error("graphs with different node counts should produce different hashes")
		}
	})
}

func TestBuildSolveKey(t *testing.T) {
	key := BuildSolveKey("abc123", "cycle_canceling")
	expected := "solve:cycle_canceling:abc123"
	if key != expected {
		t.Errorf("BuildSolveKey() = %v, want %v", key, expected)
	}
}

func TestBuildSolveKeyWithOptions(t *testing.T) {
	tests := []struct {
		name        string
		graphHash   string
		algorithm   string
		optionsHash string
		expected    string
	}{
		{
			name:        "without options",
			graphHash:   "abc123",
			algorithm:   "edmonds_karp",
			optionsHash: "",
			expected:    "solve:edmonds_karp:abc123",
		},
		{
			name:        "with options",
			graphHash:   "abc123",
			algorithm:   "edmonds_karp",
			optionsHash: "opt456",
			expected:    "solve:edmonds_karp:abc123:opt456",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := BuildSolveKeyWithOptions(tt.graphHash, tt.algorithm, tt.optionsHash)
			if key != tt.expected {
				t.Errorf("BuildSolveKeyWithOptions() = %v, want %v", key, tt.expected)
			}
		})
	}
}

func TestQuickHash(t *testing.T) {
	data := []byte("test data")
	hash := QuickHash(data)

	if len(hash) != 64 { // SHA256 hex = 64 chars
		t.Errorf("QuickHash length = %d, want 64", len(hash))
	}

	// Same data should produce same hash
	hash2 := QuickHash(data)
	if hash != hash2 {
		t.Error("same data should produce same hash")
	}
}

func TestShortHash(t *testing.T) {
	data := []byte("test data")
	hash := ShortHash(data)

	if len(hash) != 16 {
		t.Errorf("ShortHash length = %d, want 16", len(hash))
	}
}
