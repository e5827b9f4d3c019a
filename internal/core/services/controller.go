package services

import (
	"context"
	"errors"
	"sync"

	"github.com/custodia-labs/pokedex/internal/core/domain"
	"github.com/custodia-labs/pokedex/internal/core/ports/driving"
	"github.com/custodia-labs/pokedex/internal/logger"
)

// Request is a lookup the caller must run with Execute.
type Request struct {
	Term       string
	Generation uint64
}

// Outcome is the result of executing a Request.
type Outcome struct {
	Request
	Pokemon domain.Pokemon
	Cached  bool
	Err     error
}

// Controller owns the committed search term and its retrieval state.
//
// Committing a term bumps a generation counter. Outcomes carrying an older
// generation are discarded by Apply, so a slow response for a previous
// term can never overwrite the state of the current one. Execute blocks
// and is meant to run off the UI goroutine.
type Controller struct {
	lookup driving.LookupService

	mu         sync.Mutex
	term       string
	generation uint64
	state      domain.RetrievalState
}

// NewController creates a controller in the Idle state.
func NewController(lookup driving.LookupService) *Controller {
	return &Controller{
		lookup: lookup,
		state:  domain.Idle(),
	}
}

// Term returns the committed, normalised search term.
func (c *Controller) Term() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.term
}

// State returns the current retrieval state.
func (c *Controller) State() domain.RetrievalState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Generation returns the number of commits so far.
func (c *Controller) Generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generation
}

// OnCommit replaces the committed term.
//
// Blank input is ignored and leaves everything unchanged. A term with a
// fresh cached result moves straight to Succeeded and needs no request.
// Otherwise the state becomes Pending and the returned Request must be
// executed.
func (c *Controller) OnCommit(term string) (Request, bool) {
	key := domain.NormaliseTerm(term)
	if key == "" {
		return Request{}, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.generation++
	c.term = key

	if p, ok := c.lookup.Cached(key); ok {
		logger.Debug("Commit %q: fresh cache hit", key)
		c.state = domain.Succeeded(key, p)
		return Request{}, false
	}

	logger.Debug("Commit %q: generation %d", key, c.generation)
	c.state = domain.Pending(key)
	return Request{Term: key, Generation: c.generation}, true
}

// Refresh invalidates the committed term and commits it again.
func (c *Controller) Refresh(ctx context.Context) (Request, bool) {
	term := c.Term()
	if term == "" {
		return Request{}, false
	}
	if err := c.lookup.Invalidate(ctx, term); err != nil {
		logger.Warn("Invalidate %q: %v", term, err)
	}
	return c.OnCommit(term)
}

// Execute runs the lookup for req. It does not touch controller state.
func (c *Controller) Execute(ctx context.Context, req Request) Outcome {
	res, err := c.lookup.Lookup(ctx, req.Term)
	return Outcome{
		Request: req,
		Pokemon: res.Pokemon,
		Cached:  res.Cached,
		Err:     err,
	}
}

// Apply records an outcome. It returns false, leaving the state alone,
// when the outcome belongs to a superseded commit.
func (c *Controller) Apply(o Outcome) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if o.Generation != c.generation || o.Term != c.term {
		logger.Debug("Discarding outcome for %q (generation %d, current %d)", o.Term, o.Generation, c.generation)
		return false
	}

	if o.Err != nil {
		c.state = domain.Failed(o.Term, FailureReason(o.Err))
		return true
	}
	c.state = domain.Succeeded(o.Term, o.Pokemon)
	return true
}

// FailureReason turns a lookup error into the message shown to the user.
func FailureReason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, domain.ErrPokemonNotFound):
		return domain.NotFoundMessage
	case errors.Is(err, domain.ErrRateLimited):
		return "Too many requests, try again in a moment."
	case errors.Is(err, context.DeadlineExceeded):
		return "Request timed out."
	default:
		return err.Error()
	}
}
