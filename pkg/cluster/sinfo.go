package cluster

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/matzehuels/mountviz/pkg/errors"
	"github.com/matzehuels/mountviz/pkg/nodelist"
)

// Column names with special meaning in the node listing.
const (
	ColNodeList  = "NODELIST"
	ColNodeCount = "NODES"
	ColPartition = "PARTITION"
)

// noNodes is printed in the node list column of an empty partition.
const noNodes = "n/a"

// DefaultCommand lists partitions and their nodes.
const DefaultCommand = "sinfo"

// Node is one compute host from the node listing.
type Node struct {
	Name      string `json:"name"`
	Partition string `json:"partition,omitempty"`
	// Default is set when the scheduler marks the partition as default
	// (a trailing '*' in sinfo output).
	Default bool `json:"default,omitempty"`
	// Fields holds every other column of the source row, keyed by the
	// upper-cased header name.
	Fields map[string]string `json:"fields,omitempty"`
}

// Collect runs command through r and parses its output with [Parse].
func Collect(ctx context.Context, r Runner, command string) ([]Node, error) {
	out, err := r.Run(ctx, command)
	if err != nil {
		return nil, err
	}
	return Parse(bytes.NewReader(out))
}

// Parse reads whitespace-separated tabular output whose first non-blank
// line is a header. Each row's NODELIST column is expanded into one [Node]
// per host; the NODELIST and NODES columns are dropped from Fields and all
// other columns are kept.
//
// Output without a NODELIST column, rows whose field count differs from
// the header and malformed node lists return an error.
func Parse(r io.Reader) ([]Node, error) {
	scanner := bufio.NewScanner(r)

	var header []string
	var nodes []Node
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		if header == nil {
			header = make([]string, len(fields))
			for i, f := range fields {
				header[i] = strings.ToUpper(f)
			}
			if !slices.Contains(header, ColNodeList) {
				return nil, errors.New(errors.ErrCodeInvalidClusterOutput, "header has no %s column: %q", ColNodeList, scanner.Text())
			}
			continue
		}

		if len(fields) != len(header) {
			return nil, errors.New(errors.ErrCodeInvalidClusterOutput,
				"line %d: %d fields, header has %d", lineNo, len(fields), len(header))
		}

		rowNodes, err := expandRow(header, fields)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		nodes = append(nodes, rowNodes...)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read node listing: %w", err)
	}
	return nodes, nil
}

func expandRow(header, fields []string) ([]Node, error) {
	base := make(map[string]string, len(header))
	var list, count string
	for i, col := range header {
		switch col {
		case ColNodeList:
			list = fields[i]
		case ColNodeCount:
			count = fields[i]
		default:
			base[col] = fields[i]
		}
	}
	// Partitions without nodes print "n/a" with a count of 0.
	if list == noNodes || count == "0" {
		return nil, nil
	}

	hosts, err := nodelist.Expand(list)
	if err != nil {
		return nil, err
	}

	partition, isDefault := strings.CutSuffix(base[ColPartition], "*")
	if _, ok := base[ColPartition]; ok {
		base[ColPartition] = partition
	}

	nodes := make([]Node, 0, len(hosts))
	for _, h := range hosts {
		nodes = append(nodes, Node{
			Name:      h,
			Partition: partition,
			Default:   isDefault,
			Fields:    maps.Clone(base),
		})
	}
	return nodes, nil
}
