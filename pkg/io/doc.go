// Package io provides JSON import and export for topology graphs.
//
// # Overview
//
// Exported graphs let an operator capture the topology on a cluster login
// node and render it elsewhere, or feed it to other tools. The format
// round-trips: [ReadJSON] of [WriteJSON] output rebuilds an equal graph.
//
// # JSON Format
//
//	{
//	  "nodes": [
//	    {"id": "/home", "kind": "mount", "servers": ["nfs01"]},
//	    {"id": "nfs01", "kind": "server"},
//	    {"id": "deep1", "kind": "server", "compute": true, "partitions": ["batch"]}
//	  ],
//	  "edges": [
//	    {"server": "nfs01", "mount": "/home"}
//	  ]
//	}
//
// # Node Fields
//
//   - id: required, unique
//   - kind: "server" or "mount" (required)
//   - compute, partitions: scheduler data for hosts
//   - servers: servers backing a mount, in first-seen order
//   - usage: disk usage of a mount directory
//   - meta: arbitrary key-value pairs
//
// Edges must reference existing nodes of the right kind.
package io
