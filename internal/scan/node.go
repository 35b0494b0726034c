package scan

// RepositoryNode describes one discovered filesystem location.
//
// The root node carries the search path as given; every other node carries a
// path relative to its immediate parent node. Empty remote mappings and child
// sequences are omitted from serialized representations.
type RepositoryNode struct {
	Path     string            `json:"path" yaml:"path"`
	Remotes  map[string]string `json:"remotes,omitempty" yaml:"remotes,omitempty"`
	Children []RepositoryNode  `json:"children,omitempty" yaml:"children,omitempty"`
}

// HasRemotes reports whether the node declares at least one remote.
func (node RepositoryNode) HasRemotes() bool {
	return len(node.Remotes) > 0
}

// HasChildren reports whether the node has at least one child node.
func (node RepositoryNode) HasChildren() bool {
	return len(node.Children) > 0
}
