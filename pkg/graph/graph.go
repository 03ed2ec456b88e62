package graph

import (
	"errors"
	"slices"

	"github.com/matzehuels/mountviz/pkg/diskusage"
)

var (
	// ErrInvalidNodeID is returned by [Graph.AddNode] when the node ID is empty.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrKindConflict is returned by [Graph.AddNode] when a node with the
	// same ID already exists with a different kind.
	ErrKindConflict = errors.New("node exists with a different kind")

	// ErrUnknownServer is returned by [Graph.AddEdge] when the server node
	// does not exist or is not a server.
	ErrUnknownServer = errors.New("unknown server node")

	// ErrUnknownMount is returned by [Graph.AddEdge] when the mount node
	// does not exist or is not a mount directory.
	ErrUnknownMount = errors.New("unknown mount node")
)

// Metadata stores arbitrary key-value pairs attached to nodes.
type Metadata map[string]any

// Kind distinguishes hosts from mount directories.
type Kind string

const (
	KindServer Kind = "server"
	KindMount  Kind = "mount"
)

// Category is the rendering class of a node.
type Category string

const (
	CategoryMount       Category = "mount"
	CategoryFileServer  Category = "file-server"
	CategoryComputeNode Category = "compute-node"
)

// Node is a vertex of the topology graph.
type Node struct {
	ID   string
	Kind Kind

	// Compute marks hosts listed by the cluster scheduler.
	Compute bool
	// Partitions lists the scheduler partitions a compute node belongs to.
	Partitions []string
	// Servers lists, for mount nodes, the servers backing the directory in
	// the order they were first seen.
	Servers []string
	// Usage is the disk usage of a mount directory, if probed.
	Usage *diskusage.Usage

	Meta Metadata
}

// Edge joins a server to a mount directory.
type Edge struct {
	Server string
	Mount  string
}

// Graph is an undirected server/mount graph.
//
// The zero value is not usable - use New.
type Graph struct {
	nodes map[string]*Node
	order []string
	edges []Edge
	seen  map[Edge]bool
	adj   map[string][]string
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		nodes: make(map[string]*Node),
		seen:  make(map[Edge]bool),
		adj:   make(map[string][]string),
	}
}

// AddNode inserts n or merges it into the existing node with the same ID
// and returns the stored node.
//
// Merging ORs the Compute flag, appends unseen partitions and servers, and
// copies metadata keys. Usage is replaced when n carries one.
func (g *Graph) AddNode(n Node) (*Node, error) {
	if n.ID == "" {
		return nil, ErrInvalidNodeID
	}

	existing, ok := g.nodes[n.ID]
	if !ok {
		if n.Meta == nil {
			n.Meta = Metadata{}
		}
		node := &n
		node.Partitions = slices.Clone(n.Partitions)
		node.Servers = slices.Clone(n.Servers)
		g.nodes[n.ID] = node
		g.order = append(g.order, n.ID)
		return node, nil
	}

	if existing.Kind != n.Kind {
		return nil, ErrKindConflict
	}
	existing.Compute = existing.Compute || n.Compute
	existing.Partitions = appendUnique(existing.Partitions, n.Partitions...)
	existing.Servers = appendUnique(existing.Servers, n.Servers...)
	if n.Usage != nil {
		existing.Usage = n.Usage
	}
	for k, v := range n.Meta {
		existing.Meta[k] = v
	}
	return existing, nil
}

// AddEdge connects server to mount. Both nodes must exist with the right
// kinds. Adding an existing edge again is a no-op.
func (g *Graph) AddEdge(server, mount string) error {
	if n, ok := g.nodes[server]; !ok || n.Kind != KindServer {
		return ErrUnknownServer
	}
	m, ok := g.nodes[mount]
	if !ok || m.Kind != KindMount {
		return ErrUnknownMount
	}

	e := Edge{Server: server, Mount: mount}
	if g.seen[e] {
		return nil
	}
	g.seen[e] = true
	g.edges = append(g.edges, e)
	g.adj[server] = append(g.adj[server], mount)
	g.adj[mount] = append(g.adj[mount], server)
	m.Servers = appendUnique(m.Servers, server)
	return nil
}

// Node returns the node with the given ID.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Nodes returns all nodes in insertion order.
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, len(g.order))
	for i, id := range g.order {
		out[i] = g.nodes[id]
	}
	return out
}

// NodesOfCategory returns the nodes of category c in insertion order.
func (g *Graph) NodesOfCategory(c Category) []*Node {
	var out []*Node
	for _, id := range g.order {
		if g.Category(id) == c {
			out = append(out, g.nodes[id])
		}
	}
	return out
}

// Edges returns all edges in insertion order.
func (g *Graph) Edges() []Edge { return slices.Clone(g.edges) }

// Neighbors returns the IDs adjacent to id.
func (g *Graph) Neighbors(id string) []string { return slices.Clone(g.adj[id]) }

// Degree returns the number of edges incident to id.
func (g *Graph) Degree(id string) int { return len(g.adj[id]) }

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Category classifies the node for rendering. Servers that serve at least
// one mount are file servers even when the scheduler also lists them.
// Unknown IDs return the empty category.
func (g *Graph) Category(id string) Category {
	n, ok := g.nodes[id]
	if !ok {
		return ""
	}
	switch {
	case n.Kind == KindMount:
		return CategoryMount
	case g.Degree(id) > 0 || !n.Compute:
		return CategoryFileServer
	default:
		return CategoryComputeNode
	}
}

func appendUnique(dst []string, vals ...string) []string {
	for _, v := range vals {
		if v != "" && !slices.Contains(dst, v) {
			dst = append(dst, v)
		}
	}
	return dst
}
