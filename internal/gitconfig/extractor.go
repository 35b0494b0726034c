package gitconfig

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const (
	gitMetadataDirectoryNameConstant = ".git"
	configurationFileNameConstant    = "config"
	remoteSectionPrefixConstant      = "[remote "
	remoteSectionSuffixConstant      = "]"
	remoteURLLinePrefixConstant      = "url = "
	quoteCharacterConstant           = "\""
	configOpenErrorTemplateConstant  = "failed to open git config %s: %w"
	configStatErrorTemplateConstant  = "failed to inspect git config %s: %w"
	configReadErrorTemplateConstant  = "failed to read git config %s: %w"
	remotesScanErrorTemplateConstant = "failed to scan git config lines: %w"
)

// remoteParserState tracks which remote section, if any, the parser is inside.
type remoteParserState struct {
	active     bool
	remoteName string
}

// Extractor probes directories for Git configuration files and decodes their
// remote declarations.
type Extractor struct{}

// NewExtractor constructs an Extractor backed by the operating system filesystem.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// TryExtractRemotes reads the remotes declared in <directory>/.git/config.
//
// The second return value reports whether a configuration file exists: a
// directory without one is not a repository, which is distinct from a
// repository whose configuration declares no remotes (an empty, non-nil
// mapping). Errors are returned only for configuration files that exist but
// cannot be read.
func (extractor *Extractor) TryExtractRemotes(directoryPath string) (map[string]string, bool, error) {
	configurationPath := filepath.Join(directoryPath, gitMetadataDirectoryNameConstant, configurationFileNameConstant)

	fileInformation, statError := os.Stat(configurationPath)
	if statError != nil {
		if errors.Is(statError, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf(configStatErrorTemplateConstant, configurationPath, statError)
	}
	if fileInformation.IsDir() {
		return nil, false, nil
	}

	configurationFile, openError := os.Open(configurationPath)
	if openError != nil {
		return nil, false, fmt.Errorf(configOpenErrorTemplateConstant, configurationPath, openError)
	}
	defer configurationFile.Close()

	remotes, parseError := ParseRemotes(configurationFile)
	if parseError != nil {
		return nil, false, fmt.Errorf(configReadErrorTemplateConstant, configurationPath, parseError)
	}

	return remotes, true, nil
}

// ParseRemotes decodes remote name to URL assignments from git-config text.
//
// The parser keeps a single piece of state, the currently active remote
// section. A url assignment outside any remote section is ignored, and later
// assignments for the same remote name overwrite earlier ones.
func ParseRemotes(reader io.Reader) (map[string]string, error) {
	remotes := map[string]string{}
	parserState := remoteParserState{}

	lineScanner := bufio.NewScanner(reader)
	for lineScanner.Scan() {
		trimmedLine := strings.TrimSpace(lineScanner.Text())

		if strings.HasPrefix(trimmedLine, remoteSectionPrefixConstant) && strings.HasSuffix(trimmedLine, remoteSectionSuffixConstant) {
			sectionName := trimmedLine[len(remoteSectionPrefixConstant) : len(trimmedLine)-len(remoteSectionSuffixConstant)]
			parserState = remoteParserState{
				active:     true,
				remoteName: strings.ReplaceAll(sectionName, quoteCharacterConstant, ""),
			}
			continue
		}

		if remoteURL, isURLLine := strings.CutPrefix(trimmedLine, remoteURLLinePrefixConstant); isURLLine {
			if parserState.active {
				remotes[parserState.remoteName] = remoteURL
			}
		}
	}

	if scanError := lineScanner.Err(); scanError != nil {
		return nil, fmt.Errorf(remotesScanErrorTemplateConstant, scanError)
	}

	return remotes, nil
}
