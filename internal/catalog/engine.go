package catalog

import (
	"context"
	"errors"
	"sync"

	"github.com/existflow/unicompass/internal/api"
	"github.com/existflow/unicompass/internal/logger"
	"github.com/existflow/unicompass/internal/model"
)

// State is the query engine's lifecycle state.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateLoadingMore
	StateLoaded
	StateFailed
)

// String returns the string representation of the state
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateLoadingMore:
		return "loading-more"
	case StateLoaded:
		return "loaded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Engine owns the result cursor of one catalog query session: the items
// accumulated so far, the continuation token, and the server-reported
// total. Any change to the query text or filter set invalidates the cursor
// and restarts pagination from page one.
type Engine struct {
	client   *api.Client
	pageSize int

	mu         sync.Mutex
	state      State
	items      []model.University
	nextPage   string
	total      int
	failure    string
	query      string
	filters    FilterSet
	generation uint64
	inFlight   bool
}

// NewEngine creates a query engine over the API client.
func NewEngine(client *api.Client, pageSize int) *Engine {
	return &Engine{client: client, pageSize: pageSize}
}

// RunQuery replaces the cursor with page one of a fresh query. A response
// belonging to a superseded query is discarded: each request is tagged with
// the generation current at issue time, and only the latest generation may
// write state.
func (e *Engine) RunQuery(ctx context.Context, query string, filters FilterSet) error {
	e.mu.Lock()
	e.generation++
	gen := e.generation
	e.state = StateLoading
	e.inFlight = true
	e.query = query
	e.filters = filters
	params := filters.params(query, "", e.pageSize)
	e.mu.Unlock()

	page, err := e.client.ListUniversities(ctx, params)

	e.mu.Lock()
	defer e.mu.Unlock()
	if gen != e.generation {
		logger.Debug("Discarding stale query response", logger.F("generation", gen))
		return nil
	}
	e.inFlight = false

	if err != nil {
		return e.failLocked(err)
	}

	e.items = page.Results
	e.nextPage = page.Next
	e.total = page.Count
	e.failure = ""
	e.state = StateLoaded
	return nil
}

// LoadMore fetches the next page and appends it to the cursor. It is a
// hard no-op when no continuation is held or a load is already in flight,
// so rapid repeated calls issue exactly one request. Appended pages are not
// deduplicated against earlier ones.
func (e *Engine) LoadMore(ctx context.Context) (bool, error) {
	e.mu.Lock()
	if e.inFlight || e.state != StateLoaded || e.nextPage == "" {
		e.mu.Unlock()
		return false, nil
	}
	e.inFlight = true
	e.state = StateLoadingMore
	gen := e.generation
	params := e.filters.params(e.query, e.nextPage, e.pageSize)
	e.mu.Unlock()

	page, err := e.client.ListUniversities(ctx, params)

	e.mu.Lock()
	defer e.mu.Unlock()
	if gen != e.generation {
		logger.Debug("Discarding stale page response", logger.F("generation", gen))
		return false, nil
	}
	e.inFlight = false

	if err != nil {
		return false, e.failLocked(err)
	}

	e.items = append(e.items, page.Results...)
	e.nextPage = page.Next
	if page.Count > 0 {
		e.total = page.Count
	}
	e.state = StateLoaded
	return true, nil
}

// failLocked records a failure. A 401 has already torn the session down in
// the api layer; the engine just resets so the UI can route to login. Any
// other failure clears the results and holds the description: the error
// view replaces the list, it does not overlay it.
func (e *Engine) failLocked(err error) error {
	e.items = nil
	e.nextPage = ""
	e.total = 0
	if errors.Is(err, api.ErrUnauthorized) {
		e.state = StateIdle
		e.failure = ""
		return err
	}
	e.state = StateFailed
	e.failure = err.Error()
	return err
}

// CanLoadMore reports whether the "load more" affordance should be shown:
// there must be a continuation, more matches than items held, and no load
// in progress.
func (e *Engine) CanLoadMore() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state == StateLoaded && !e.inFlight && e.nextPage != "" && len(e.items) < e.total
}

// State returns the engine state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Items returns the accumulated results of the current query session.
func (e *Engine) Items() []model.University {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.items
}

// Total returns the server-reported count of matches for the current query.
func (e *Engine) Total() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.total
}

// Failure returns the failure description when the engine is in StateFailed.
func (e *Engine) Failure() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.failure
}

// Filters returns the applied filter set.
func (e *Engine) Filters() FilterSet {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.filters
}

// Query returns the applied query text.
func (e *Engine) Query() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.query
}

// FetchAll retrieves the entire catalog by following pagination to the
// end. Used by the client-side filtering mode.
func FetchAll(ctx context.Context, client *api.Client) ([]model.University, error) {
	var all []model.University
	params := api.ListParams{}
	for {
		page, err := client.ListUniversities(ctx, params)
		if err != nil {
			return nil, err
		}
		all = append(all, page.Results...)
		if page.Next == "" {
			return all, nil
		}
		params.Page = page.Next
	}
}
