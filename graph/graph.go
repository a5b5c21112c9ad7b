package graph

import "crates-graph/registry"

// Node.Edges is nil on leaf nodes. Build always sets it on the root, so a root
// without dependencies renders "edges":[].
type Node struct {
	Name    string  `json:"name"`
	Version string  `json:"version"`
	Edges   *[]Edge `json:"edges,omitempty"`
}

type Edge struct {
	Relationship string `json:"relationship"`
	Node         Node   `json:"node"`
}

type QueryResult struct {
	Data []Node `json:"data,omitempty"`
}

// Build returns the root node for name@version with one edge per declared
// dependency, in upstream order. Edge versions are the literal requirement
// strings; nothing is resolved or expanded further.
func Build(name, version string, deps []registry.Dependency) Node {
	edges := make([]Edge, 0, len(deps))
	for _, dep := range deps {
		edges = append(edges, Edge{
			Relationship: dep.Kind,
			Node: Node{
				Name:    dep.CrateID,
				Version: dep.Req,
			},
		})
	}

	return Node{
		Name:    name,
		Version: version,
		Edges:   &edges,
	}
}
