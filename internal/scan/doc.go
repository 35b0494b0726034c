// Package scan builds the repository tree for a search root.
//
// TreeBuilder walks a directory hierarchy, probes each directory for remote
// declarations through a RemoteExtractor, and assembles RepositoryNode values
// while pruning directories that contain no repository at any depth.
package scan
