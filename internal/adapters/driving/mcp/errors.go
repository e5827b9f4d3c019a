// Package mcp provides an MCP (Model Context Protocol) server adapter for
// pokedex. It lets AI assistants look creatures up through the same
// request cache the TUI and CLI use.
package mcp

import "errors"

// ErrMissingLookupService is returned when the lookup service is not provided.
var ErrMissingLookupService = errors.New("mcp: lookup service is required")
