// Package render serializes repository trees for console consumption.
//
// It supports a human-readable indented plain format alongside YAML and JSON
// structural serializations of scan.RepositoryNode.
package render
