// Package session holds the client-side state of one gallery browsing
// session and keeps it synchronized against the gallery API: paginated
// loading with idempotent merges, optimistic likes with rollback, and
// per-action request de-duplication.
package session

import (
	"context"
	"log"
	"sync"

	"github.com/AmlrSF/portfolio-client/internal/gallery/client"
	"github.com/AmlrSF/portfolio-client/internal/gallery/domain"
)

// FilterAll selects every category.
const FilterAll = "all"

// API is the endpoint surface the controller drives. *client.Client
// satisfies it.
type API interface {
	ListProjects(ctx context.Context, q client.ListQuery) (*client.ListResult, error)
	RecordView(ctx context.Context, id string) (int64, error)
	SetLike(ctx context.Context, id string, liked bool) (int64, error)
}

// LoadState is the listing state machine.
type LoadState int

const (
	StateIdle LoadState = iota
	StateLoadingFirst
	StateLoadingMore
	StateLoaded
	StateEmpty
)

func (s LoadState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoadingFirst:
		return "loading-first-page"
	case StateLoadingMore:
		return "loading-more"
	case StateLoaded:
		return "loaded"
	case StateEmpty:
		return "empty"
	}
	return "unknown"
}

type reqKind int

const (
	reqList reqKind = iota
	reqView
	reqLike
)

// requestKey identifies one logical in-flight action. Structured fields
// instead of formatted strings, so a page number can never collide with
// an identifier.
type requestKey struct {
	kind   reqKind
	id     string
	page   int
	filter string
}

// Controller owns the in-memory gallery state for a single browsing
// session. Methods are safe for concurrent use; the mutex is released
// around every network call, so a like and a load-more may interleave
// freely (they touch disjoint state).
type Controller struct {
	api      API
	pageSize int

	mu       sync.Mutex
	state    LoadState
	filter   string
	page     int // last successfully applied page, 0 before the first load
	pages    int // total page count reported by the last response
	projects []domain.Project
	seen     map[string]struct{}
	liked    map[string]struct{}
	pending  map[requestKey]struct{}
}

func NewController(api API, pageSize int) *Controller {
	if pageSize < 1 {
		pageSize = 12
	}
	return &Controller{
		api:      api,
		pageSize: pageSize,
		state:    StateIdle,
		filter:   FilterAll,
		seen:     make(map[string]struct{}),
		liked:    make(map[string]struct{}),
		pending:  make(map[requestKey]struct{}),
	}
}

// SetFilter switches the active category, clears the loaded projects,
// resets the pagination cursor and loads the first page of the new
// filter. Liked-set membership survives filter changes.
func (c *Controller) SetFilter(ctx context.Context, filter string) error {
	if filter == "" {
		filter = FilterAll
	}

	c.mu.Lock()
	c.filter = filter
	c.projects = nil
	c.seen = make(map[string]struct{})
	c.page = 0
	c.pages = 0
	c.state = StateIdle
	c.mu.Unlock()

	return c.fetchPage(ctx, 1)
}

// LoadFirstPage loads page 1 of the active filter (initial mount).
func (c *Controller) LoadFirstPage(ctx context.Context) error {
	return c.fetchPage(ctx, 1)
}

// LoadMore loads the next page if one exists. A no-op when the last
// page is already loaded or the same page is already in flight.
func (c *Controller) LoadMore(ctx context.Context) error {
	c.mu.Lock()
	if c.page == 0 || c.page >= c.pages {
		c.mu.Unlock()
		return nil
	}
	next := c.page + 1
	c.mu.Unlock()

	return c.fetchPage(ctx, next)
}

func (c *Controller) fetchPage(ctx context.Context, page int) error {
	c.mu.Lock()
	filter := c.filter
	key := requestKey{kind: reqList, page: page, filter: filter}
	if _, inflight := c.pending[key]; inflight {
		c.mu.Unlock()
		return nil
	}
	c.pending[key] = struct{}{}
	prev := c.state
	if page == 1 {
		c.state = StateLoadingFirst
	} else {
		c.state = StateLoadingMore
	}
	c.mu.Unlock()

	category := filter
	if category == FilterAll {
		category = ""
	}
	res, err := c.api.ListProjects(ctx, client.ListQuery{
		Status:   string(domain.StatusPublished),
		Category: category,
		Page:     page,
		Limit:    c.pageSize,
	})

	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.pending, key)

	if err != nil {
		// No state mutation beyond clearing the in-flight marker; the
		// caller retries via user action.
		c.state = prev
		return err
	}

	// A filter change superseded this request while it was in flight;
	// its page belongs to the old filter and must not leak in.
	if c.filter != filter {
		return nil
	}

	if page == 1 {
		// Replace outright, guards against residue from a previous filter.
		c.projects = res.Projects
		c.seen = make(map[string]struct{}, len(res.Projects))
		for _, p := range res.Projects {
			c.seen[p.ID] = struct{}{}
		}
	} else {
		for _, p := range res.Projects {
			if _, dup := c.seen[p.ID]; dup {
				continue
			}
			c.seen[p.ID] = struct{}{}
			c.projects = append(c.projects, p)
		}
	}

	c.page = page
	c.pages = res.Pagination.Pages

	if len(c.projects) == 0 {
		c.state = StateEmpty
	} else {
		c.state = StateLoaded
	}
	return nil
}

// ToggleLike flips the liked state of a project optimistically, then
// confirms it against the server. On success only the numeric counter
// is reconciled from the response; on failure the membership rolls back
// to its pre-action value. Returns the liked state as the UI should now
// show it.
func (c *Controller) ToggleLike(ctx context.Context, id string) (bool, error) {
	c.mu.Lock()
	key := requestKey{kind: reqLike, id: id}
	if _, inflight := c.pending[key]; inflight {
		_, liked := c.liked[id]
		c.mu.Unlock()
		return liked, nil
	}

	_, wasLiked := c.liked[id]
	intended := !wasLiked
	if intended {
		c.liked[id] = struct{}{}
	} else {
		delete(c.liked, id)
	}
	c.pending[key] = struct{}{}
	c.mu.Unlock()

	likes, err := c.api.SetLike(ctx, id, intended)

	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.pending, key)

	if err != nil {
		if wasLiked {
			c.liked[id] = struct{}{}
		} else {
			delete(c.liked, id)
		}
		return wasLiked, err
	}

	if i, ok := c.indexOf(id); ok {
		c.projects[i].Likes = likes
	}
	return intended, nil
}

// RecordView fires the view increment for a project the session just
// opened. Duplicate submissions for the same project are suppressed
// while one is in flight. The local counter is advanced only on success
// and only if it still holds the value captured at dispatch time.
// Failures are logged and swallowed; the detail view never depends on
// this call.
func (c *Controller) RecordView(ctx context.Context, id string) {
	c.mu.Lock()
	key := requestKey{kind: reqView, id: id}
	if _, inflight := c.pending[key]; inflight {
		c.mu.Unlock()
		return
	}
	c.pending[key] = struct{}{}
	var captured int64 = -1
	if i, ok := c.indexOf(id); ok {
		captured = c.projects[i].Views
	}
	c.mu.Unlock()

	views, err := c.api.RecordView(ctx, id)

	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.pending, key)

	if err != nil {
		log.Printf("record view %s: %v", id, err)
		return
	}

	if i, ok := c.indexOf(id); ok && c.projects[i].Views == captured {
		c.projects[i].Views = views
	}
}

// Projects returns a copy of the loaded sequence.
func (c *Controller) Projects() []domain.Project {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.Project, len(c.projects))
	copy(out, c.projects)
	return out
}

// ProjectTags returns the project's tags normalized for display.
func (c *Controller) ProjectTags(id string, max int) []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i, ok := c.indexOf(id); ok {
		return domain.NormalizeTags(c.projects[i].Tags, max)
	}
	return nil
}

func (c *Controller) State() LoadState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) ActiveFilter() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filter
}

// HasMore reports whether pages beyond the last loaded one exist.
func (c *Controller) HasMore() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.page > 0 && c.page < c.pages
}

func (c *Controller) IsLiked(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.liked[id]
	return ok
}

// PendingCount reports how many requests are currently in flight.
func (c *Controller) PendingCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

// indexOf is called with c.mu held.
func (c *Controller) indexOf(id string) (int, bool) {
	for i := range c.projects {
		if c.projects[i].ID == id {
			return i, true
		}
	}
	return 0, false
}
