package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/pokedex/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for pokedex resources.
	uriScheme = "pokedex://"

	statsURI    = uriScheme + "cache/stats"
	settingsURI = uriScheme + "settings"
	pokemonURI  = uriScheme + "pokemon/"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         statsURI,
		Name:        "cache-stats",
		Description: "Request cache counters: entries, hits, misses, loads and shared loads",
		MIMEType:    "application/json",
	}, s.handleStatsResource)

	s.server.AddResource(&mcp.Resource{
		URI:         settingsURI,
		Name:        "settings",
		Description: "Effective configuration values",
		MIMEType:    "application/json",
	}, s.handleSettingsResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: pokemonURI + "{name}",
		Name:        "pokemon",
		Description: "A Pokémon resolved by name",
		MIMEType:    "application/json",
	}, s.handlePokemonResource)
}

// handleStatsResource returns the request cache counters.
func (s *Server) handleStatsResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	return jsonResult(req.Params.URI, s.ports.Lookup.Stats())
}

// handleSettingsResource returns every setting key with its effective value.
func (s *Server) handleSettingsResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Settings == nil {
		return jsonResult(req.Params.URI, map[string]string{})
	}

	values := make(map[string]string, len(s.ports.Settings.Keys()))
	for _, key := range s.ports.Settings.Keys() {
		v, err := s.ports.Settings.Value(key)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", key, err)
		}
		values[key] = v
	}
	return jsonResult(req.Params.URI, values)
}

// handlePokemonResource resolves pokedex://pokemon/{name}.
func (s *Server) handlePokemonResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	name := extractName(req.Params.URI)
	if name == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	res, err := s.ports.Lookup.Lookup(ctx, name)
	if errors.Is(err, domain.ErrPokemonNotFound) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, fmt.Errorf("looking up %q: %w", name, err)
	}
	return jsonResult(req.Params.URI, toOutput(res))
}

func jsonResult(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling %s: %w", uri, err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractName extracts the name from a URI like pokedex://pokemon/{name}.
func extractName(uri string) string {
	if !strings.HasPrefix(uri, pokemonURI) {
		return ""
	}
	name := strings.TrimPrefix(uri, pokemonURI)
	if strings.Contains(name, "/") {
		return ""
	}
	return name
}
