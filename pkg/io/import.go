package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/mountviz/pkg/errors"
	"github.com/matzehuels/mountviz/pkg/graph"
)

// ReadJSON decodes a JSON graph from r.
//
// ReadJSON returns an error if the JSON is malformed, a node has an empty
// ID or unknown kind, two nodes share an ID with different kinds, or an
// edge references a missing node. Errors name the offending node or edge.
// ReadJSON does not close r.
func ReadJSON(r io.Reader) (*graph.Graph, error) {
	var data document
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode graph")
	}

	g := graph.New()
	for _, n := range data.Nodes {
		if n.Kind != graph.KindServer && n.Kind != graph.KindMount {
			return nil, errors.New(errors.ErrCodeInvalidInput, "node %s: unknown kind %q", n.ID, n.Kind)
		}
		if _, err := g.AddNode(graph.Node{
			ID:         n.ID,
			Kind:       n.Kind,
			Compute:    n.Compute,
			Partitions: n.Partitions,
			Servers:    n.Servers,
			Usage:      n.Usage,
			Meta:       n.Meta,
		}); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "node %s", n.ID)
		}
	}
	for _, e := range data.Edges {
		if err := g.AddEdge(e.Server, e.Mount); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "edge %s--%s", e.Server, e.Mount)
		}
	}

	return g, nil
}

// ImportJSON reads a JSON file at path and returns the decoded graph.
func ImportJSON(path string) (*graph.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}
