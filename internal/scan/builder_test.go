package scan_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/reposcan/internal/scan"
)

const (
	gitMetadataDirectoryName     = ".git"
	configurationFileName        = "config"
	directoryPermissions         = 0o755
	configurationFilePermissions = 0o644
	originRemoteName             = "origin"
	rootRepositoryRemoteURL      = "https://github.com/user/repo.git"
	nestedRepositoryRemoteURL    = "https://github.com/user/subrepo.git"
	repositoryDirectoryName      = "subdir"
	intermediateDirectoryName    = "intermediate"
	emptyDirectoryName           = "empty_dir"
)

func writeRemoteConfiguration(testInstance *testing.T, repositoryDirectory string, remoteURL string) {
	testInstance.Helper()

	gitDirectoryPath := filepath.Join(repositoryDirectory, gitMetadataDirectoryName)
	require.NoError(testInstance, os.MkdirAll(gitDirectoryPath, directoryPermissions))

	configurationContent := "[remote \"" + originRemoteName + "\"]\n    url = " + remoteURL + "\n"
	configurationPath := filepath.Join(gitDirectoryPath, configurationFileName)
	require.NoError(testInstance, os.WriteFile(configurationPath, []byte(configurationContent), configurationFilePermissions))
}

func TestBuildTreeRecursiveAttachesNestedRepositories(testInstance *testing.T) {
	rootDirectory := testInstance.TempDir()
	writeRemoteConfiguration(testInstance, rootDirectory, rootRepositoryRemoteURL)

	nestedRepositoryDirectory := filepath.Join(rootDirectory, repositoryDirectoryName)
	require.NoError(testInstance, os.MkdirAll(nestedRepositoryDirectory, directoryPermissions))
	writeRemoteConfiguration(testInstance, nestedRepositoryDirectory, nestedRepositoryRemoteURL)

	treeBuilder := scan.NewTreeBuilder(nil)
	repositoryTree, buildError := treeBuilder.BuildTree(rootDirectory, true)
	require.NoError(testInstance, buildError)

	require.Equal(testInstance, rootDirectory, repositoryTree.Path)
	require.Equal(testInstance, map[string]string{originRemoteName: rootRepositoryRemoteURL}, repositoryTree.Remotes)
	require.Len(testInstance, repositoryTree.Children, 1)

	nestedNode := repositoryTree.Children[0]
	require.Equal(testInstance, repositoryDirectoryName, nestedNode.Path)
	require.Equal(testInstance, map[string]string{originRemoteName: nestedRepositoryRemoteURL}, nestedNode.Remotes)
	require.Empty(testInstance, nestedNode.Children)
}

func TestBuildTreeRecursiveKeepsIntermediateDirectoriesWithRepositories(testInstance *testing.T) {
	rootDirectory := testInstance.TempDir()

	deepRepositoryDirectory := filepath.Join(rootDirectory, intermediateDirectoryName, repositoryDirectoryName)
	require.NoError(testInstance, os.MkdirAll(deepRepositoryDirectory, directoryPermissions))
	writeRemoteConfiguration(testInstance, deepRepositoryDirectory, nestedRepositoryRemoteURL)

	treeBuilder := scan.NewTreeBuilder(nil)
	repositoryTree, buildError := treeBuilder.BuildTree(rootDirectory, true)
	require.NoError(testInstance, buildError)

	require.Empty(testInstance, repositoryTree.Remotes)
	require.Len(testInstance, repositoryTree.Children, 1)

	intermediateNode := repositoryTree.Children[0]
	require.Equal(testInstance, intermediateDirectoryName, intermediateNode.Path)
	require.False(testInstance, intermediateNode.HasRemotes())
	require.Len(testInstance, intermediateNode.Children, 1)

	deepNode := intermediateNode.Children[0]
	require.Equal(testInstance, repositoryDirectoryName, deepNode.Path)
	require.Equal(testInstance, map[string]string{originRemoteName: nestedRepositoryRemoteURL}, deepNode.Remotes)
}

func TestBuildTreeRecursivePrunesDirectoriesWithoutRepositories(testInstance *testing.T) {
	rootDirectory := testInstance.TempDir()

	deepEmptyDirectory := filepath.Join(rootDirectory, emptyDirectoryName, intermediateDirectoryName, repositoryDirectoryName)
	require.NoError(testInstance, os.MkdirAll(deepEmptyDirectory, directoryPermissions))

	treeBuilder := scan.NewTreeBuilder(nil)
	repositoryTree, buildError := treeBuilder.BuildTree(rootDirectory, true)
	require.NoError(testInstance, buildError)

	require.Equal(testInstance, rootDirectory, repositoryTree.Path)
	require.False(testInstance, repositoryTree.HasRemotes())
	require.False(testInstance, repositoryTree.HasChildren())
}

func TestBuildTreeNonRecursiveInspectsOnlyDirectChildren(testInstance *testing.T) {
	rootDirectory := testInstance.TempDir()

	directChildDirectory := filepath.Join(rootDirectory, repositoryDirectoryName)
	require.NoError(testInstance, os.MkdirAll(directChildDirectory, directoryPermissions))
	writeRemoteConfiguration(testInstance, directChildDirectory, rootRepositoryRemoteURL)

	grandchildRepositoryDirectory := filepath.Join(rootDirectory, intermediateDirectoryName, repositoryDirectoryName)
	require.NoError(testInstance, os.MkdirAll(grandchildRepositoryDirectory, directoryPermissions))
	writeRemoteConfiguration(testInstance, grandchildRepositoryDirectory, nestedRepositoryRemoteURL)

	treeBuilder := scan.NewTreeBuilder(nil)
	repositoryTree, buildError := treeBuilder.BuildTree(rootDirectory, false)
	require.NoError(testInstance, buildError)

	require.Len(testInstance, repositoryTree.Children, 1)
	require.Equal(testInstance, repositoryDirectoryName, repositoryTree.Children[0].Path)
	require.Equal(testInstance, map[string]string{originRemoteName: rootRepositoryRemoteURL}, repositoryTree.Children[0].Remotes)
}

func TestBuildTreeNonRecursiveAttachesRepositoriesWithoutRemotes(testInstance *testing.T) {
	rootDirectory := testInstance.TempDir()

	directChildDirectory := filepath.Join(rootDirectory, repositoryDirectoryName)
	gitDirectoryPath := filepath.Join(directChildDirectory, gitMetadataDirectoryName)
	require.NoError(testInstance, os.MkdirAll(gitDirectoryPath, directoryPermissions))
	require.NoError(testInstance, os.WriteFile(filepath.Join(gitDirectoryPath, configurationFileName), nil, configurationFilePermissions))

	treeBuilder := scan.NewTreeBuilder(nil)
	repositoryTree, buildError := treeBuilder.BuildTree(rootDirectory, false)
	require.NoError(testInstance, buildError)

	require.Len(testInstance, repositoryTree.Children, 1)
	require.Equal(testInstance, repositoryDirectoryName, repositoryTree.Children[0].Path)
	require.Empty(testInstance, repositoryTree.Children[0].Remotes)
}

type failingRemoteExtractor struct {
	extractionError error
}

func (extractor failingRemoteExtractor) TryExtractRemotes(string) (map[string]string, bool, error) {
	return nil, false, extractor.extractionError
}

func TestBuildTreePropagatesExtractionFailures(testInstance *testing.T) {
	rootDirectory := testInstance.TempDir()
	expectedError := errors.New("configuration unreadable")

	treeBuilder := scan.NewTreeBuilder(failingRemoteExtractor{extractionError: expectedError})
	_, buildError := treeBuilder.BuildTree(rootDirectory, true)

	require.ErrorIs(testInstance, buildError, expectedError)
}

func TestBuildTreeFailsOnMissingRootDirectory(testInstance *testing.T) {
	missingDirectory := filepath.Join(testInstance.TempDir(), "missing")

	treeBuilder := scan.NewTreeBuilder(nil)
	_, buildError := treeBuilder.BuildTree(missingDirectory, true)

	require.Error(testInstance, buildError)
	require.Contains(testInstance, buildError.Error(), missingDirectory)
}
