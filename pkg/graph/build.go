package graph

import (
	"github.com/matzehuels/mountviz/pkg/automount"
	"github.com/matzehuels/mountviz/pkg/cluster"
	"github.com/matzehuels/mountviz/pkg/diskusage"
)

// FromMounts builds a graph with one node per distinct server and mount
// directory and one edge per distinct (server, mount directory) pair.
// Entries without a server (local devices such as ":/dev/cdrom") add an
// isolated mount node. Use [Graph.AddMounts] to learn which entries were
// dropped.
func FromMounts(entries []automount.MountEntry) *Graph {
	g := New()
	g.AddMounts(entries)
	return g
}

// AddMounts adds the mount directories and servers of entries to g. A mount
// directory whose name is already a server, or a server whose name is
// already a mount directory, cannot be added; its ID is returned once in
// skipped and the entry's edge is dropped.
func (g *Graph) AddMounts(entries []automount.MountEntry) (skipped []string) {
	reported := map[string]bool{}
	skip := func(id string) {
		if !reported[id] {
			reported[id] = true
			skipped = append(skipped, id)
		}
	}

	for _, e := range entries {
		if _, err := g.AddNode(Node{ID: e.MountDir, Kind: KindMount}); err != nil {
			skip(e.MountDir)
			continue
		}
		if e.Server == "" {
			continue
		}
		if _, err := g.AddNode(Node{ID: e.Server, Kind: KindServer}); err != nil {
			skip(e.Server)
			continue
		}
		if err := g.AddEdge(e.Server, e.MountDir); err != nil {
			skip(e.Server)
		}
	}
	return skipped
}

// AddComputeNodes merges scheduler nodes into g as compute servers. A host
// that is already a file server keeps its edges and gains the compute flag
// and partitions. Hosts whose name collides with a mount directory are
// returned as skipped.
func (g *Graph) AddComputeNodes(nodes []cluster.Node) (skipped []string) {
	for _, cn := range nodes {
		n := Node{ID: cn.Name, Kind: KindServer, Compute: true}
		if cn.Partition != "" {
			n.Partitions = []string{cn.Partition}
		}
		if _, err := g.AddNode(n); err != nil {
			skipped = append(skipped, cn.Name)
		}
	}
	return skipped
}

// SetUsage attaches disk usage to the mount node dir. It reports whether
// the mount node exists.
func (g *Graph) SetUsage(dir string, u diskusage.Usage) bool {
	n, ok := g.nodes[dir]
	if !ok || n.Kind != KindMount {
		return false
	}
	n.Usage = &u
	return true
}

// MountDirs returns the IDs of all mount nodes in insertion order.
func (g *Graph) MountDirs() []string {
	var out []string
	for _, id := range g.order {
		if g.nodes[id].Kind == KindMount {
			out = append(out, id)
		}
	}
	return out
}
