package render

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/temirov/reposcan/internal/scan"
)

const (
	plainFormatNameConstant             = "plain"
	yamlFormatNameConstant              = "yaml"
	jsonFormatNameConstant              = "json"
	indentUnitConstant                  = "  "
	jsonIndentPrefixConstant            = ""
	plainPathLineTemplateConstant       = "%spath: %s\n"
	plainRemotesHeaderTemplateConstant  = "%sremotes:\n"
	plainRemoteEntryTemplateConstant    = "%s  %s: %s\n"
	plainChildrenHeaderTemplateConstant = "%schildren:\n"
	unsupportedFormatTemplateConstant   = "unsupported output format: %s"
	yamlSerializationTemplateConstant   = "failed to serialize tree as yaml: %w"
	jsonSerializationTemplateConstant   = "failed to serialize tree as json: %w"
	serializedOutputTemplateConstant    = "%s\n"
)

// Format enumerates supported output serializations.
type Format string

// Supported output formats.
const (
	FormatPlain Format = Format(plainFormatNameConstant)
	FormatYAML  Format = Format(yamlFormatNameConstant)
	FormatJSON  Format = Format(jsonFormatNameConstant)
)

// FormatNames returns the recognized format identifiers in presentation order.
func FormatNames() []string {
	return []string{plainFormatNameConstant, yamlFormatNameConstant, jsonFormatNameConstant}
}

// ParseFormat resolves a textual format identifier case-insensitively.
func ParseFormat(formatValue string) (Format, error) {
	normalizedValue := strings.ToLower(strings.TrimSpace(formatValue))
	switch normalizedValue {
	case plainFormatNameConstant:
		return FormatPlain, nil
	case yamlFormatNameConstant:
		return FormatYAML, nil
	case jsonFormatNameConstant:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf(unsupportedFormatTemplateConstant, formatValue)
	}
}

// Render serializes the repository tree to the writer in the requested format.
func Render(writer io.Writer, repositoryTree scan.RepositoryNode, format Format) error {
	switch format {
	case FormatPlain:
		return renderPlain(writer, repositoryTree, 0)
	case FormatYAML:
		return renderYAML(writer, repositoryTree)
	case FormatJSON:
		return renderJSON(writer, repositoryTree)
	default:
		return fmt.Errorf(unsupportedFormatTemplateConstant, string(format))
	}
}

func renderPlain(writer io.Writer, node scan.RepositoryNode, indentLevel int) error {
	indent := strings.Repeat(indentUnitConstant, indentLevel)

	if _, writeError := fmt.Fprintf(writer, plainPathLineTemplateConstant, indent, node.Path); writeError != nil {
		return writeError
	}

	if node.HasRemotes() {
		remotesIndent := strings.Repeat(indentUnitConstant, indentLevel+1)
		if _, writeError := fmt.Fprintf(writer, plainRemotesHeaderTemplateConstant, remotesIndent); writeError != nil {
			return writeError
		}
		for _, remoteName := range sortedRemoteNames(node.Remotes) {
			if _, writeError := fmt.Fprintf(writer, plainRemoteEntryTemplateConstant, remotesIndent, remoteName, node.Remotes[remoteName]); writeError != nil {
				return writeError
			}
		}
	}

	if node.HasChildren() {
		if _, writeError := fmt.Fprintf(writer, plainChildrenHeaderTemplateConstant, indent); writeError != nil {
			return writeError
		}
		for _, childNode := range node.Children {
			if renderError := renderPlain(writer, childNode, indentLevel+1); renderError != nil {
				return renderError
			}
		}
	}

	return nil
}

func renderYAML(writer io.Writer, repositoryTree scan.RepositoryNode) error {
	serializedTree, serializationError := yaml.Marshal(repositoryTree)
	if serializationError != nil {
		return fmt.Errorf(yamlSerializationTemplateConstant, serializationError)
	}

	_, writeError := writer.Write(serializedTree)
	return writeError
}

func renderJSON(writer io.Writer, repositoryTree scan.RepositoryNode) error {
	serializedTree, serializationError := json.MarshalIndent(repositoryTree, jsonIndentPrefixConstant, indentUnitConstant)
	if serializationError != nil {
		return fmt.Errorf(jsonSerializationTemplateConstant, serializationError)
	}

	_, writeError := fmt.Fprintf(writer, serializedOutputTemplateConstant, serializedTree)
	return writeError
}

func sortedRemoteNames(remotes map[string]string) []string {
	remoteNames := make([]string, 0, len(remotes))
	for remoteName := range remotes {
		remoteNames = append(remoteNames, remoteName)
	}
	sort.Strings(remoteNames)
	return remoteNames
}
