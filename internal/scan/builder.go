package scan

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/temirov/reposcan/internal/gitconfig"
)

const (
	directoryReadErrorTemplateConstant  = "failed to read directory %s: %w"
	pathRelativizeErrorTemplateConstant = "failed to relativize %s against %s: %w"
)

// RemoteExtractor probes a directory for repository remote declarations.
type RemoteExtractor interface {
	TryExtractRemotes(directoryPath string) (map[string]string, bool, error)
}

// TreeBuilder assembles RepositoryNode trees from the filesystem.
type TreeBuilder struct {
	remoteExtractor RemoteExtractor
}

// NewTreeBuilder constructs a TreeBuilder using the provided extractor, or the
// default git configuration extractor when none is supplied.
func NewTreeBuilder(remoteExtractor RemoteExtractor) *TreeBuilder {
	if remoteExtractor == nil {
		remoteExtractor = gitconfig.NewExtractor()
	}
	return &TreeBuilder{remoteExtractor: remoteExtractor}
}

// BuildTree produces the repository tree rooted at rootDirectory.
//
// In recursive mode the entire hierarchy is searched and subtrees without any
// repository beneath them are discarded. Otherwise only direct subdirectories
// are probed, each becoming a leaf child when it carries a configuration file.
// The root node is always returned, even when nothing was found beneath it.
func (builder *TreeBuilder) BuildTree(rootDirectory string, recursive bool) (RepositoryNode, error) {
	currentNode := RepositoryNode{Path: rootDirectory}

	remotes, configurationFound, extractionError := builder.remoteExtractor.TryExtractRemotes(rootDirectory)
	if extractionError != nil {
		return RepositoryNode{}, extractionError
	}
	if configurationFound {
		currentNode.Remotes = remotes
	}

	directoryEntries, readError := os.ReadDir(rootDirectory)
	if readError != nil {
		return RepositoryNode{}, fmt.Errorf(directoryReadErrorTemplateConstant, rootDirectory, readError)
	}

	for _, directoryEntry := range directoryEntries {
		if !directoryEntry.IsDir() {
			continue
		}

		subdirectoryPath := filepath.Join(rootDirectory, directoryEntry.Name())

		if recursive {
			childNode, childError := builder.BuildTree(subdirectoryPath, true)
			if childError != nil {
				return RepositoryNode{}, childError
			}
			if !childNode.HasRemotes() && !childNode.HasChildren() {
				continue
			}

			relativePath, relativizeError := relativizePath(rootDirectory, subdirectoryPath)
			if relativizeError != nil {
				return RepositoryNode{}, relativizeError
			}

			childNode.Path = relativePath
			currentNode.Children = append(currentNode.Children, childNode)
			continue
		}

		childRemotes, childConfigurationFound, childExtractionError := builder.remoteExtractor.TryExtractRemotes(subdirectoryPath)
		if childExtractionError != nil {
			return RepositoryNode{}, childExtractionError
		}
		if !childConfigurationFound {
			continue
		}

		relativePath, relativizeError := relativizePath(rootDirectory, subdirectoryPath)
		if relativizeError != nil {
			return RepositoryNode{}, relativizeError
		}

		currentNode.Children = append(currentNode.Children, RepositoryNode{
			Path:    relativePath,
			Remotes: childRemotes,
		})
	}

	return currentNode, nil
}

func relativizePath(parentDirectory string, childDirectory string) (string, error) {
	relativePath, relativizeError := filepath.Rel(parentDirectory, childDirectory)
	if relativizeError != nil {
		return "", fmt.Errorf(pathRelativizeErrorTemplateConstant, childDirectory, parentDirectory, relativizeError)
	}
	return relativePath, nil
}
