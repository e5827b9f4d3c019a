package pokeapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/custodia-labs/pokedex/internal/core/domain"
	"github.com/custodia-labs/pokedex/internal/core/ports/driven"
	"github.com/custodia-labs/pokedex/internal/logger"
)

// Ensure Client implements the interface.
var _ driven.PokemonFetcher = (*Client)(nil)

// Default configuration values.
const (
	DefaultURL       = domain.DefaultAPIURL
	DefaultTimeout   = 15 * time.Second
	DefaultUserAgent = "pokedex-cli"
)

const (
	maxResponseBytes = 1 << 20
	maxSpriteBytes   = 4 << 20
	maxErrorSnippet  = 200
)

// Config holds configuration for the PokeAPI client.
type Config struct {
	// URL is the GraphQL endpoint (default: the public beta endpoint).
	URL string

	// Timeout is the per-request timeout (default: 15s).
	Timeout time.Duration

	// RateLimit configures the client-side token bucket.
	RateLimit RateLimitConfig

	// UserAgent is sent with every request.
	UserAgent string

	// HTTPClient overrides the HTTP client. Timeout is ignored when set.
	HTTPClient *http.Client
}

// Client queries the PokeAPI GraphQL endpoint.
type Client struct {
	http      *http.Client
	url       string
	userAgent string
	limiter   *RateLimiter
}

// NewClient creates a new PokeAPI client.
func NewClient(cfg Config) *Client {
	if cfg.URL == "" {
		cfg.URL = DefaultURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	return &Client{
		http:      httpClient,
		url:       cfg.URL,
		userAgent: cfg.UserAgent,
		limiter:   NewRateLimiter(cfg.RateLimit),
	}
}

// URL returns the endpoint this client talks to.
func (c *Client) URL() string {
	return c.url
}

// Limiter returns the client's rate limiter.
func (c *Client) Limiter() *RateLimiter {
	return c.limiter
}

// Fetch looks up a creature by exact name after trimming and lowercasing it.
func (c *Client) Fetch(ctx context.Context, name string) (domain.Pokemon, error) {
	name = domain.NormaliseTerm(name)
	if name == "" {
		return domain.Pokemon{}, fmt.Errorf("empty term: %w", domain.ErrInvalidInput)
	}

	var resp pokemonResponse
	err := c.post(ctx, graphQLRequest{
		Query:     pokemonByNameQuery,
		Variables: map[string]any{"nomeVariavel": name},
	}, &resp)
	if err != nil {
		return domain.Pokemon{}, err
	}

	if len(resp.Errors) > 0 {
		return domain.Pokemon{}, fmt.Errorf("%w: %s", domain.ErrMalformedResponse, joinMessages(resp.Errors))
	}
	if resp.Data == nil || len(resp.Data.Pokemon) == 0 {
		c.log().Debug().Str("name", name).Msg("no match")
		return domain.Pokemon{}, domain.ErrPokemonNotFound
	}

	p, err := toPokemon(resp.Data.Pokemon[0])
	if err != nil {
		return domain.Pokemon{}, fmt.Errorf("%w: %w", domain.ErrMalformedResponse, err)
	}
	c.log().Debug().Str("name", name).Int("id", p.ID).Msg("fetched")
	return p, nil
}

// FetchSprite downloads the image behind a sprite URL.
func (c *Client) FetchSprite(ctx context.Context, url string) ([]byte, error) {
	if url == "" {
		return nil, fmt.Errorf("sprite url: %w", domain.ErrInvalidInput)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: sprite status %d", domain.ErrTransport, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxSpriteBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read sprite: %w", domain.ErrTransport, err)
	}
	return data, nil
}

// Ping checks the endpoint answers GraphQL.
func (c *Client) Ping(ctx context.Context) error {
	var resp pingResponse
	if err := c.post(ctx, graphQLRequest{Query: pingQuery}, &resp); err != nil {
		return err
	}
	if len(resp.Errors) > 0 {
		return fmt.Errorf("%w: %s", domain.ErrMalformedResponse, joinMessages(resp.Errors))
	}
	if resp.Data == nil {
		return fmt.Errorf("%w: empty data", domain.ErrMalformedResponse)
	}
	return nil
}

// post sends a GraphQL request and decodes the JSON response into out.
func (c *Client) post(ctx context.Context, body graphQLRequest, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(jsonBody))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("%w: %w", domain.ErrTransport, err)
	}
	defer resp.Body.Close()

	c.log().Debug().
		Str("request_id", requestID).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("graphql response")

	if resp.StatusCode == http.StatusTooManyRequests {
		retryAfter := parseRetryAfter(resp.Header.Get("Retry-After"), time.Now())
		c.limiter.RecordRateLimitError(retryAfter)
		return fmt.Errorf("%w: %w: status %d", domain.ErrTransport, domain.ErrRateLimited, resp.StatusCode)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorSnippet))
		return fmt.Errorf("%w: status %d: %s", domain.ErrTransport, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(out); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: truncated body", domain.ErrMalformedResponse)
		}
		return fmt.Errorf("%w: %w", domain.ErrMalformedResponse, err)
	}
	return nil
}

func (c *Client) log() *zerolog.Logger {
	l := logger.Component("pokeapi")
	return &l
}

func joinMessages(errs []graphQLError) string {
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		msgs = append(msgs, e.Message)
	}
	return strings.Join(msgs, "; ")
}
