// Package search owns the lifecycle of the current movie search: one
// logical search is live at a time, newer searches supersede older ones,
// and results from superseded work are discarded rather than published.
package search

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/posterwall/posterwall/internal/query"
	"github.com/posterwall/posterwall/internal/resolver"
)

// User-facing messages. Raw provider errors are logged, never shown.
const (
	apiKeyInvalidMessage = "TMDB API Key 配置无效，请检查设置。"
	searchFailedMessage  = "TMDB 搜索失败，请稍后重试。"
)

// validationTimeout bounds the credential probe, which runs detached from
// any single search's context.
const validationTimeout = 10 * time.Second

// Resolver resolves title segments into enriched movies.
type Resolver interface {
	ResolveAll(ctx context.Context, segments []string) ([]resolver.EnrichedMovie, error)
}

// Validator probes the provider credential.
type Validator interface {
	Validate(ctx context.Context) error
}

// Broadcaster pushes state snapshots to connected clients.
type Broadcaster interface {
	Broadcast(msgType string, payload interface{}) error
}

// Snapshot is the observable state exposed to the presentation layer.
type Snapshot struct {
	Movies      []resolver.EnrichedMovie `json:"movies"`
	IsLoading   bool                     `json:"isLoading"`
	Error       string                   `json:"error,omitempty"`
	APIKeyValid *bool                    `json:"apiKeyValid"`
	HasSearched bool                     `json:"hasSearched"`
}

// Controller manages the single live search session. All mutable session
// state lives behind one mutex; correctness under supersession rests on
// comparing each completion's captured request id against the current one,
// so late completions of older searches are dropped silently.
type Controller struct {
	resolver    Resolver
	validator   Validator
	broadcaster Broadcaster
	logger      zerolog.Logger

	// validation collapses concurrent credential probes into one in-flight
	// call; only a successful outcome is cached.
	validation singleflight.Group

	// pubMu serializes broadcasts. It is acquired while mu is still held,
	// so snapshots reach the hub in the order their transitions were
	// applied, without holding the state lock across the broadcast.
	pubMu sync.Mutex

	mu          sync.Mutex
	requestID   uint64
	cancel      context.CancelFunc
	apiKeyValid *bool
	movies      []resolver.EnrichedMovie
	errMessage  string
	isLoading   bool
	hasSearched bool
}

// NewController creates a new search controller.
func NewController(res Resolver, validator Validator, logger zerolog.Logger) *Controller {
	return &Controller{
		resolver:  res,
		validator: validator,
		logger:    logger.With().Str("component", "search").Logger(),
		movies:    []resolver.EnrichedMovie{},
	}
}

// SetBroadcaster sets the broadcaster for state push. Optional.
func (c *Controller) SetBroadcaster(b Broadcaster) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.broadcaster = b
}

// Search starts a new search for the given raw input and returns
// immediately. Any in-flight search is superseded: its context is
// cancelled and its eventual completion is discarded. An empty input
// behaves like Reset.
func (c *Controller) Search(raw string) {
	input := strings.TrimSpace(raw)
	if input == "" {
		c.Reset()
		return
	}

	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.requestID++
	id := c.requestID
	c.hasSearched = true
	c.isLoading = true
	c.errMessage = ""
	c.publishAndUnlock()

	go c.run(ctx, id, input)
}

// Reset aborts any in-flight search and returns the controller to idle.
// The id bump guarantees a late completion of the aborted search can never
// repopulate the cleared state.
func (c *Controller) Reset() {
	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.requestID++
	c.movies = []resolver.EnrichedMovie{}
	c.errMessage = ""
	c.isLoading = false
	c.hasSearched = false
	c.publishAndUnlock()
}

// State returns a copy of the current observable state.
func (c *Controller) State() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// ValidateKey probes the provider credential, caching a successful
// outcome for the process lifetime. Only success short-circuits future
// probes, so a corrected configuration is picked up by the next attempt.
func (c *Controller) ValidateKey(ctx context.Context) bool {
	c.mu.Lock()
	if c.apiKeyValid != nil && *c.apiKeyValid {
		c.mu.Unlock()
		return true
	}
	c.mu.Unlock()

	_, err, _ := c.validation.Do("validate", func() (interface{}, error) {
		// The flight is shared by every search that joins it, so the probe
		// runs detached from any single search's context. Cancelling a
		// superseded search must not fail the probe its successor is
		// waiting on.
		probeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), validationTimeout)
		defer cancel()
		return nil, c.validator.Validate(probeCtx)
	})

	valid := err == nil
	c.mu.Lock()
	c.apiKeyValid = &valid
	c.mu.Unlock()

	if err != nil {
		c.logger.Error().Err(err).Msg("API key validation failed")
	}
	return valid
}

// run executes one search attempt under its captured request id.
func (c *Controller) run(ctx context.Context, id uint64, input string) {
	if !c.ValidateKey(ctx) {
		if ctx.Err() != nil {
			// Superseded mid-validation; the newer search owns the state.
			return
		}
		c.settleFailure(id, apiKeyInvalidMessage)
		return
	}

	segments := query.SplitTitles(input)
	movies, err := c.resolver.ResolveAll(ctx, segments)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		c.logger.Error().Err(err).Str("input", input).Msg("Search failed")
		c.settleFailure(id, searchFailedMessage)
		return
	}

	c.settleSuccess(id, movies)
}

// settleSuccess publishes resolved movies, unless the search was
// superseded while in flight.
func (c *Controller) settleSuccess(id uint64, movies []resolver.EnrichedMovie) {
	c.mu.Lock()
	if id != c.requestID {
		c.mu.Unlock()
		c.logger.Debug().Uint64("requestId", id).Msg("Discarding stale search result")
		return
	}
	if movies == nil {
		movies = []resolver.EnrichedMovie{}
	}
	c.movies = movies
	c.errMessage = ""
	c.isLoading = false
	c.publishAndUnlock()
}

// settleFailure publishes a user-facing failure message, unless the
// search was superseded while in flight.
func (c *Controller) settleFailure(id uint64, message string) {
	c.mu.Lock()
	if id != c.requestID {
		c.mu.Unlock()
		return
	}
	c.movies = []resolver.EnrichedMovie{}
	c.errMessage = message
	c.isLoading = false
	c.publishAndUnlock()
}

// snapshotLocked builds a Snapshot copy. Caller holds c.mu.
func (c *Controller) snapshotLocked() Snapshot {
	movies := make([]resolver.EnrichedMovie, len(c.movies))
	copy(movies, c.movies)
	return Snapshot{
		Movies:      movies,
		IsLoading:   c.isLoading,
		Error:       c.errMessage,
		APIKeyValid: c.apiKeyValid,
		HasSearched: c.hasSearched,
	}
}

// publishAndUnlock broadcasts the current state and releases c.mu. Taking
// pubMu before releasing c.mu pins the broadcast order to the transition
// order, so websocket clients never see an older transition's snapshot
// delivered after a newer one.
func (c *Controller) publishAndUnlock() {
	snap := c.snapshotLocked()
	b := c.broadcaster
	c.pubMu.Lock()
	c.mu.Unlock()
	defer c.pubMu.Unlock()

	if b == nil {
		return
	}
	if err := b.Broadcast("search:state", snap); err != nil {
		c.logger.Warn().Err(err).Msg("Failed to broadcast search state")
	}
}
