// Package graph models the mount topology of a cluster as an undirected
// graph of file servers, mount directories and compute nodes.
//
// # Overview
//
// A [Graph] holds two kinds of nodes: [KindServer] for hosts (file servers
// and compute nodes) and [KindMount] for local mount directories. Edges
// always join a server to a mount directory it serves.
//
// Build a graph from a parsed automount table with [FromMounts], then
// optionally merge compute nodes and disk usage:
//
//	g := graph.FromMounts(entries)
//	g.AddComputeNodes(nodes)
//	g.SetUsage("/home", usage)
//
// Every mount directory and every server appears exactly once no matter
// how many entries reference it; repeated (server, mount) pairs collapse
// into one edge.
//
// # Categories
//
// Renderers colour nodes by [Graph.Category]:
//
//   - [CategoryMount]: a mount directory
//   - [CategoryFileServer]: a server with at least one mount, even if it is
//     also a compute node
//   - [CategoryComputeNode]: a compute node that serves no mount
//
// # Concurrency
//
// Graph instances are not safe for concurrent use.
package graph
