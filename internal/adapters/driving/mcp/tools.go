package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/pokedex/internal/core/ports/driving"
	"github.com/custodia-labs/pokedex/internal/core/services"
)

// LookupInput is the input schema for the lookup_pokemon tool.
type LookupInput struct {
	Name string `json:"name" jsonschema:"the Pokémon name to look up, case-insensitive"`
}

// LookupOutput is the output schema for the lookup_pokemon tool.
type LookupOutput struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	SpriteURL string `json:"sprite_url"`
	Cached    bool   `json:"cached"`
}

// InvalidateInput is the input schema for the invalidate_pokemon tool.
type InvalidateInput struct {
	Name string `json:"name" jsonschema:"the Pokémon name whose cached result should be dropped"`
}

// InvalidateOutput is the output schema for the invalidate_pokemon tool.
type InvalidateOutput struct {
	Invalidated string `json:"invalidated"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "lookup_pokemon",
		Description: "Look up a Pokémon by name and return its id, name and sprite URL",
	}, s.handleLookup)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "invalidate_pokemon",
		Description: "Drop the cached result for a Pokémon so the next lookup refetches it",
	}, s.handleInvalidate)
}

// handleLookup handles the lookup_pokemon tool invocation.
func (s *Server) handleLookup(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input LookupInput,
) (*mcp.CallToolResult, LookupOutput, error) {
	res, err := s.ports.Lookup.Lookup(ctx, input.Name)
	if err != nil {
		return nil, LookupOutput{}, fmt.Errorf("%s: %w", services.FailureReason(err), err)
	}
	return nil, toOutput(res), nil
}

// handleInvalidate handles the invalidate_pokemon tool invocation.
func (s *Server) handleInvalidate(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input InvalidateInput,
) (*mcp.CallToolResult, InvalidateOutput, error) {
	if err := s.ports.Lookup.Invalidate(ctx, input.Name); err != nil {
		return nil, InvalidateOutput{}, fmt.Errorf("invalidating %q: %w", input.Name, err)
	}
	return nil, InvalidateOutput{Invalidated: input.Name}, nil
}

func toOutput(res driving.LookupResult) LookupOutput {
	return LookupOutput{
		ID:        res.Pokemon.ID,
		Name:      res.Pokemon.Name,
		SpriteURL: res.Pokemon.SpriteURL(),
		Cached:    res.Cached,
	}
}
