// Package gitconfig reads remote declarations from on-disk Git configuration
// files.
//
// It exposes Extractor for probing a directory's .git/config and ParseRemotes
// for decoding remote sections from any reader. Only [remote "<name>"] section
// headers and url assignments are interpreted; the rest of the git-config
// syntax is ignored.
package gitconfig
