package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/mountviz/pkg/diskusage"
	"github.com/matzehuels/mountviz/pkg/graph"
)

type document struct {
	Nodes []node `json:"nodes"`
	Edges []edge `json:"edges"`
}

type node struct {
	ID         string           `json:"id"`
	Kind       graph.Kind       `json:"kind"`
	Compute    bool             `json:"compute,omitempty"`
	Partitions []string         `json:"partitions,omitempty"`
	Servers    []string         `json:"servers,omitempty"`
	Usage      *diskusage.Usage `json:"usage,omitempty"`
	Meta       graph.Metadata   `json:"meta,omitempty"`
}

type edge struct {
	Server string `json:"server"`
	Mount  string `json:"mount"`
}

// WriteJSON encodes g as indented JSON and writes it to w.
// This format can be re-imported with [ReadJSON].
func WriteJSON(g *graph.Graph, w io.Writer) error {
	out := document{
		Nodes: make([]node, 0, g.NodeCount()),
		Edges: make([]edge, 0, g.EdgeCount()),
	}

	for _, n := range g.Nodes() {
		out.Nodes = append(out.Nodes, node{
			ID:         n.ID,
			Kind:       n.Kind,
			Compute:    n.Compute,
			Partitions: n.Partitions,
			Servers:    n.Servers,
			Usage:      n.Usage,
			Meta:       n.Meta,
		})
	}
	for _, e := range g.Edges() {
		out.Edges = append(out.Edges, edge{Server: e.Server, Mount: e.Mount})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes g to a JSON file at path.
func ExportJSON(g *graph.Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(g, f)
}
