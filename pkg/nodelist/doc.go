// Package nodelist expands compact hostname range notation.
//
// Cluster schedulers print groups of hosts in a compressed form such as
// "node[1-3,5]". [Expand] turns that notation into the explicit host list:
//
//	hosts, err := nodelist.Expand("node[1-3,5]")
//	// hosts = [node1 node2 node3 node5]
//
// # Grammar
//
// A node list is a comma-separated sequence of host groups. Commas inside
// brackets belong to the range, commas outside separate groups:
//
//	gpu[1-2],login      -> gpu1 gpu2 login
//
// A group is a prefix, an optional bracketed range list and a suffix, which
// may itself contain another bracketed range:
//
//	rack[1-2]n[1-2]     -> rack1n1 rack1n2 rack2n1 rack2n2
//
// Each range item is either a single integer or an inclusive "first-last"
// pair. Numbers are printed without zero padding, so "n[01-02]" yields
// "n1" and "n2".
//
// Groups without brackets are returned unchanged. This covers plain
// hostnames ("login"), hostnames with a numeric suffix ("node7") and bare
// numbers ("5").
package nodelist
