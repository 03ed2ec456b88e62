package nodelink

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/matzehuels/mountviz/pkg/graph"
)

// Options configures DOT generation.
type Options struct {
	// Legend adds a legend cluster naming the node categories.
	Legend bool
	// Spring is the ideal edge length factor passed as the K graph
	// attribute of the force-directed engines. Zero uses DefaultSpring.
	Spring float64
}

// DefaultSpring is the default K attribute.
const DefaultSpring = 0.99

// style is the visual encoding of one node category.
type style struct {
	fill     string
	fontsize int
	width    float64
	legend   string
}

var styles = map[graph.Category]style{
	graph.CategoryMount:       {fill: "#1f77b4", fontsize: 10, width: 1.0, legend: "Mount Directory"},
	graph.CategoryComputeNode: {fill: "#2ca02c", fontsize: 18, width: 1.4, legend: "Compute Node (exclusively)"},
	graph.CategoryFileServer:  {fill: "#d62728", fontsize: 18, width: 1.4, legend: "File Server"},
}

// legendOrder fixes the order of legend entries.
var legendOrder = []graph.Category{graph.CategoryMount, graph.CategoryComputeNode, graph.CategoryFileServer}

// ToDOT converts g to an undirected Graphviz DOT graph.
// Nodes are emitted in graph insertion order so output is deterministic.
func ToDOT(g *graph.Graph, opts Options) string {
	spring := opts.Spring
	if spring == 0 {
		spring = DefaultSpring
	}

	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	fmt.Fprintf(&buf, "  K=%.2f;\n", spring)
	buf.WriteString("  overlap=false;\n")
	buf.WriteString("  outputorder=edgesfirst;\n")
	buf.WriteString("  bgcolor=\"white\";\n")
	buf.WriteString("  node [shape=circle, style=filled, penwidth=0, fontname=\"Helvetica\", fontcolor=whitesmoke];\n")
	buf.WriteString("  edge [color=grey];\n")
	buf.WriteString("\n")

	for _, n := range g.Nodes() {
		st := styles[g.Category(n.ID)]
		fmt.Fprintf(&buf, "  %q [label=%q, fillcolor=%q, fontsize=%d, width=%.1f];\n",
			n.ID, fmtLabel(n), st.fill, st.fontsize, st.width)
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		fmt.Fprintf(&buf, "  %q -- %q;\n", e.Server, e.Mount)
	}

	if opts.Legend {
		buf.WriteString("\n")
		writeLegend(&buf)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func writeLegend(buf *bytes.Buffer) {
	buf.WriteString("  subgraph cluster_legend {\n")
	buf.WriteString("    label=\"Legend\";\n")
	buf.WriteString("    fontname=\"Helvetica\";\n")
	buf.WriteString("    color=grey;\n")
	for _, c := range legendOrder {
		st := styles[c]
		fmt.Fprintf(buf, "    %q [label=%q, shape=box, fillcolor=%q, fontsize=12];\n",
			legendID(c), st.legend, st.fill)
	}
	buf.WriteString("  }\n")
}

func legendID(c graph.Category) string { return "__legend_" + string(c) }

// fmtLabel returns the node label. Mount labels carry the backing servers
// and disk usage below the directory.
func fmtLabel(n *graph.Node) string {
	if n.Kind != graph.KindMount {
		return n.ID
	}

	lines := append([]string{n.ID}, n.Servers...)
	if u := n.Usage; u != nil {
		lines = append(lines, fmt.Sprintf("%d%% of %s", u.Capacity, humanize.IBytes(u.Size)))
	}
	return strings.Join(lines, "\n")
}
