package field

import (
	"errors"
	"fmt"
	"slices"

	"github.com/matzehuels/geodome/pkg/geom"
)

var (
	// ErrEmptyGraph is returned by [New] when no nodes are given.
	ErrEmptyGraph = errors.New("graph has no nodes")

	// ErrNodeIDMismatch is returned when a node's ID differs from its index.
	ErrNodeIDMismatch = errors.New("node ID does not match its index")

	// ErrUnknownNeighbor is returned when a neighbor id is out of range.
	ErrUnknownNeighbor = errors.New("unknown neighbor")

	// ErrSelfLoop is returned when a node lists itself as a neighbor.
	ErrSelfLoop = errors.New("node is its own neighbor")

	// ErrDuplicateNeighbor is returned when a neighbor appears twice.
	ErrDuplicateNeighbor = errors.New("duplicate neighbor")

	// ErrAsymmetric is returned when A lists B as a neighbor but B does not
	// list A.
	ErrAsymmetric = errors.New("adjacency is not symmetric")

	// ErrDisconnected is returned when some node cannot be reached from node 0.
	ErrDisconnected = errors.New("graph is not connected")
)

// Node is one field of the subdivided sphere.
type Node struct {
	ID        int         // Index in the graph
	Neighbors []int       // Adjacent node ids, circular and counter-clockwise
	Position  geom.LatLon // Angular position of the field center
}

// Degree returns the number of neighbors.
func (n Node) Degree() int { return len(n.Neighbors) }

// Graph is an immutable field graph. It is safe for concurrent use.
//
// The zero value is an empty graph; use [New] to build a validated one.
type Graph struct {
	nodes []Node
}

// New copies nodes into a new graph and validates it.
func New(nodes []Node) (*Graph, error) {
	g := &Graph{nodes: make([]Node, len(nodes))}
	for i, n := range nodes {
		n.Neighbors = slices.Clone(n.Neighbors)
		g.nodes[i] = n
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// MustNew is like [New] but panics on error. Intended for fixtures.
func MustNew(nodes []Node) *Graph {
	g, err := New(nodes)
	if err != nil {
		panic(err)
	}
	return g
}

// Len returns the number of nodes.
func (g *Graph) Len() int { return len(g.nodes) }

// Node returns the node with the given id. It panics if id is out of range.
func (g *Graph) Node(id int) Node { return g.nodes[id] }

// Neighbors returns the neighbor ids of node id. The slice must not be
// modified.
func (g *Graph) Neighbors(id int) []int { return g.nodes[id].Neighbors }

// Nodes returns all nodes in id order. The slice must not be modified.
func (g *Graph) Nodes() []Node { return g.nodes }

// Validate checks the structural invariants described in the package
// documentation. The first violation found is returned.
func (g *Graph) Validate() error {
	if len(g.nodes) == 0 {
		return ErrEmptyGraph
	}
	n := len(g.nodes)
	for i, node := range g.nodes {
		if node.ID != i {
			return fmt.Errorf("%w: node at index %d has id %d", ErrNodeIDMismatch, i, node.ID)
		}
		seen := make(map[int]bool, len(node.Neighbors))
		for _, nb := range node.Neighbors {
			switch {
			case nb < 0 || nb >= n:
				return fmt.Errorf("%w: node %d lists %d", ErrUnknownNeighbor, i, nb)
			case nb == i:
				return fmt.Errorf("%w: node %d", ErrSelfLoop, i)
			case seen[nb]:
				return fmt.Errorf("%w: node %d lists %d twice", ErrDuplicateNeighbor, i, nb)
			}
			seen[nb] = true
		}
	}
	for i, node := range g.nodes {
		for _, nb := range node.Neighbors {
			if !slices.Contains(g.nodes[nb].Neighbors, i) {
				return fmt.Errorf("%w: %d lists %d but not the reverse", ErrAsymmetric, i, nb)
			}
		}
	}
	if reached := g.reachable(0); reached != n {
		return fmt.Errorf("%w: %d of %d nodes reachable from node 0", ErrDisconnected, reached, n)
	}
	return nil
}

func (g *Graph) reachable(from int) int {
	visited := make([]bool, len(g.nodes))
	visited[from] = true
	queue := []int{from}
	count := 1
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, nb := range g.nodes[id].Neighbors {
			if !visited[nb] {
				visited[nb] = true
				count++
				queue = append(queue, nb)
			}
		}
	}
	return count
}

// IsGeodesic reports whether the graph has the degree profile of a geodesic
// subdivision: exactly 12 nodes of degree 5 and all others of degree 6.
func (g *Graph) IsGeodesic() bool {
	pentagons := 0
	for _, n := range g.nodes {
		switch n.Degree() {
		case 5:
			pentagons++
		case 6:
		default:
			return false
		}
	}
	return pentagons == 12
}

// Edges returns every undirected edge once, as (low, high) id pairs in
// ascending order.
func (g *Graph) Edges() [][2]int {
	var edges [][2]int
	for i, n := range g.nodes {
		for _, nb := range n.Neighbors {
			if i < nb {
				edges = append(edges, [2]int{i, nb})
			}
		}
	}
	slices.SortFunc(edges, func(a, b [2]int) int {
		if a[0] != b[0] {
			return a[0] - b[0]
		}
		return a[1] - b[1]
	})
	return edges
}
