package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AmlrSF/portfolio-client/internal/gallery/client"
	"github.com/AmlrSF/portfolio-client/internal/gallery/domain"
)

type fakeAPI struct {
	listFn func(ctx context.Context, q client.ListQuery) (*client.ListResult, error)
	viewFn func(ctx context.Context, id string) (int64, error)
	likeFn func(ctx context.Context, id string, liked bool) (int64, error)
}

func (f *fakeAPI) ListProjects(ctx context.Context, q client.ListQuery) (*client.ListResult, error) {
	return f.listFn(ctx, q)
}

func (f *fakeAPI) RecordView(ctx context.Context, id string) (int64, error) {
	return f.viewFn(ctx, id)
}

func (f *fakeAPI) SetLike(ctx context.Context, id string, liked bool) (int64, error) {
	return f.likeFn(ctx, id, liked)
}

func proj(id string, views, likes int64) domain.Project {
	return domain.Project{ID: id, Title: "t-" + id, Views: views, Likes: likes}
}

func page(pages int, projects ...domain.Project) *client.ListResult {
	return &client.ListResult{
		Projects:   projects,
		Pagination: client.Pagination{Pages: pages},
	}
}

func TestLoadFirstPage_PopulatesState(t *testing.T) {
	api := &fakeAPI{
		listFn: func(_ context.Context, q client.ListQuery) (*client.ListResult, error) {
			assert.Equal(t, 1, q.Page)
			assert.Equal(t, "published", q.Status)
			return page(3, proj("a", 0, 0), proj("b", 0, 0)), nil
		},
	}
	c := NewController(api, 12)

	require.NoError(t, c.LoadFirstPage(context.Background()))

	assert.Equal(t, StateLoaded, c.State())
	assert.Len(t, c.Projects(), 2)
	assert.True(t, c.HasMore())
	assert.Zero(t, c.PendingCount())
}

func TestLoadFirstPage_EmptyGoesToEmptyState(t *testing.T) {
	api := &fakeAPI{
		listFn: func(_ context.Context, _ client.ListQuery) (*client.ListResult, error) {
			return page(0), nil
		},
	}
	c := NewController(api, 12)

	require.NoError(t, c.LoadFirstPage(context.Background()))

	assert.Equal(t, StateEmpty, c.State())
	assert.Empty(t, c.Projects())
	assert.False(t, c.HasMore())
}

func TestLoadMore_MergesWithoutDuplicates(t *testing.T) {
	api := &fakeAPI{
		listFn: func(_ context.Context, q client.ListQuery) (*client.ListResult, error) {
			if q.Page == 1 {
				return page(2, proj("a", 0, 0), proj("b", 0, 0)), nil
			}
			// page 2 re-delivers "b"
			return page(2, proj("b", 0, 0), proj("c", 0, 0)), nil
		},
	}
	c := NewController(api, 2)
	ctx := context.Background()

	require.NoError(t, c.LoadFirstPage(ctx))
	require.NoError(t, c.LoadMore(ctx))

	var ids []string
	for _, p := range c.Projects() {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []string{"a", "b", "c"}, ids)
	assert.False(t, c.HasMore())
	assert.Equal(t, StateLoaded, c.State())
}

func TestLoadMore_NoopAtLastPage(t *testing.T) {
	var calls int32
	api := &fakeAPI{
		listFn: func(_ context.Context, _ client.ListQuery) (*client.ListResult, error) {
			atomic.AddInt32(&calls, 1)
			return page(1, proj("a", 0, 0)), nil
		},
	}
	c := NewController(api, 12)
	ctx := context.Background()

	require.NoError(t, c.LoadFirstPage(ctx))
	require.NoError(t, c.LoadMore(ctx))

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestLoadMore_DuplicateTriggersMakeOneCall(t *testing.T) {
	var pageTwoCalls int32
	started := make(chan struct{})
	release := make(chan struct{})

	api := &fakeAPI{
		listFn: func(_ context.Context, q client.ListQuery) (*client.ListResult, error) {
			if q.Page == 1 {
				return page(2, proj("a", 0, 0)), nil
			}
			atomic.AddInt32(&pageTwoCalls, 1)
			close(started)
			<-release
			return page(2, proj("b", 0, 0)), nil
		},
	}
	c := NewController(api, 1)
	ctx := context.Background()
	require.NoError(t, c.LoadFirstPage(ctx))

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		assert.NoError(t, c.LoadMore(ctx))
	}()

	<-started
	// second trigger while the first is still in flight
	require.NoError(t, c.LoadMore(ctx))
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&pageTwoCalls))
	assert.Len(t, c.Projects(), 2)
	assert.Zero(t, c.PendingCount())
}

func TestLoadFirstPage_FailureLeavesStateUntouched(t *testing.T) {
	api := &fakeAPI{
		listFn: func(_ context.Context, _ client.ListQuery) (*client.ListResult, error) {
			return nil, errors.New("boom")
		},
	}
	c := NewController(api, 12)

	err := c.LoadFirstPage(context.Background())

	require.Error(t, err)
	assert.Equal(t, StateIdle, c.State())
	assert.Empty(t, c.Projects())
	assert.Zero(t, c.PendingCount())
}

func TestSetFilter_ResetsLoadedProjects(t *testing.T) {
	api := &fakeAPI{
		listFn: func(_ context.Context, q client.ListQuery) (*client.ListResult, error) {
			switch q.Category {
			case "branding":
				return page(1, proj("brand-1", 0, 0)), nil
			case "":
				return page(1, proj("brand-1", 0, 0), proj("poster-1", 0, 0)), nil
			default:
				return page(0), nil
			}
		},
	}
	c := NewController(api, 12)
	ctx := context.Background()

	require.NoError(t, c.SetFilter(ctx, "branding"))
	assert.Len(t, c.Projects(), 1)

	require.NoError(t, c.SetFilter(ctx, FilterAll))
	assert.Len(t, c.Projects(), 2)

	require.NoError(t, c.SetFilter(ctx, "branding"))
	projects := c.Projects()
	require.Len(t, projects, 1)
	assert.Equal(t, "brand-1", projects[0].ID)
	assert.Equal(t, "branding", c.ActiveFilter())
}

func TestSetFilter_StaleResponseIsDiscarded(t *testing.T) {
	posterStarted := make(chan struct{})
	posterRelease := make(chan struct{})

	api := &fakeAPI{
		listFn: func(_ context.Context, q client.ListQuery) (*client.ListResult, error) {
			if q.Category == "poster" {
				close(posterStarted)
				<-posterRelease
				return page(1, proj("poster-1", 0, 0)), nil
			}
			return page(1, proj("brand-1", 0, 0)), nil
		},
	}
	c := NewController(api, 12)
	ctx := context.Background()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		assert.NoError(t, c.SetFilter(ctx, "poster"))
	}()

	<-posterStarted
	require.NoError(t, c.SetFilter(ctx, "branding"))

	close(posterRelease)
	wg.Wait()

	projects := c.Projects()
	require.Len(t, projects, 1)
	assert.Equal(t, "brand-1", projects[0].ID)
	assert.Equal(t, "branding", c.ActiveFilter())
	assert.Zero(t, c.PendingCount())
}

func TestToggleLike_OptimisticCommitAndReconcile(t *testing.T) {
	api := &fakeAPI{
		listFn: func(_ context.Context, _ client.ListQuery) (*client.ListResult, error) {
			return page(1, proj("a", 0, 4)), nil
		},
		likeFn: func(_ context.Context, id string, liked bool) (int64, error) {
			assert.True(t, liked)
			return 5, nil
		},
	}
	c := NewController(api, 12)
	ctx := context.Background()
	require.NoError(t, c.LoadFirstPage(ctx))

	liked, err := c.ToggleLike(ctx, "a")

	require.NoError(t, err)
	assert.True(t, liked)
	assert.True(t, c.IsLiked("a"))
	assert.Equal(t, int64(5), c.Projects()[0].Likes)
}

func TestToggleLike_RollbackOnFailure(t *testing.T) {
	fail := false
	api := &fakeAPI{
		listFn: func(_ context.Context, _ client.ListQuery) (*client.ListResult, error) {
			return page(1, proj("a", 0, 4)), nil
		},
		likeFn: func(_ context.Context, _ string, _ bool) (int64, error) {
			if fail {
				return 0, errors.New("network down")
			}
			return 5, nil
		},
	}
	c := NewController(api, 12)
	ctx := context.Background()
	require.NoError(t, c.LoadFirstPage(ctx))

	// from unliked: failed like rolls back to unliked
	fail = true
	liked, err := c.ToggleLike(ctx, "a")
	require.Error(t, err)
	assert.False(t, liked)
	assert.False(t, c.IsLiked("a"))
	// counter untouched, it was never optimistically changed
	assert.Equal(t, int64(4), c.Projects()[0].Likes)

	// from liked: failed unlike rolls back to liked
	fail = false
	_, err = c.ToggleLike(ctx, "a")
	require.NoError(t, err)
	require.True(t, c.IsLiked("a"))

	fail = true
	liked, err = c.ToggleLike(ctx, "a")
	require.Error(t, err)
	assert.True(t, liked)
	assert.True(t, c.IsLiked("a"))
}

func TestToggleLike_DuplicateSuppressedWhileInFlight(t *testing.T) {
	var calls int32
	started := make(chan struct{})
	release := make(chan struct{})

	api := &fakeAPI{
		listFn: func(_ context.Context, _ client.ListQuery) (*client.ListResult, error) {
			return page(1, proj("a", 0, 0)), nil
		},
		likeFn: func(_ context.Context, _ string, _ bool) (int64, error) {
			atomic.AddInt32(&calls, 1)
			close(started)
			<-release
			return 1, nil
		},
	}
	c := NewController(api, 12)
	ctx := context.Background()
	require.NoError(t, c.LoadFirstPage(ctx))

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := c.ToggleLike(ctx, "a")
		assert.NoError(t, err)
	}()

	<-started
	liked, err := c.ToggleLike(ctx, "a")
	require.NoError(t, err)
	assert.True(t, liked, "duplicate toggle reports the optimistic state")

	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.Zero(t, c.PendingCount())
}

func TestRecordView_BumpsCounterOnSuccess(t *testing.T) {
	api := &fakeAPI{
		listFn: func(_ context.Context, _ client.ListQuery) (*client.ListResult, error) {
			return page(1, proj("a", 10, 0)), nil
		},
		viewFn: func(_ context.Context, id string) (int64, error) {
			return 11, nil
		},
	}
	c := NewController(api, 12)
	ctx := context.Background()
	require.NoError(t, c.LoadFirstPage(ctx))

	c.RecordView(ctx, "a")

	assert.Equal(t, int64(11), c.Projects()[0].Views)
	assert.Zero(t, c.PendingCount())
}

func TestRecordView_StaleGuardSkipsBump(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})

	listCalls := int32(0)
	api := &fakeAPI{
		listFn: func(_ context.Context, _ client.ListQuery) (*client.ListResult, error) {
			if atomic.AddInt32(&listCalls, 1) == 1 {
				return page(1, proj("a", 10, 0)), nil
			}
			// a refresh observed a newer server-side count
			return page(1, proj("a", 100, 0)), nil
		},
		viewFn: func(_ context.Context, _ string) (int64, error) {
			close(started)
			<-release
			return 11, nil
		},
	}
	c := NewController(api, 12)
	ctx := context.Background()
	require.NoError(t, c.LoadFirstPage(ctx))

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		c.RecordView(ctx, "a")
	}()

	<-started
	// local state advances while the increment is in flight
	require.NoError(t, c.LoadFirstPage(ctx))
	require.Equal(t, int64(100), c.Projects()[0].Views)

	close(release)
	wg.Wait()

	// captured value (10) no longer matches, the stale bump is dropped
	assert.Equal(t, int64(100), c.Projects()[0].Views)
}

func TestRecordView_FailureIsSwallowed(t *testing.T) {
	api := &fakeAPI{
		listFn: func(_ context.Context, _ client.ListQuery) (*client.ListResult, error) {
			return page(1, proj("a", 10, 0)), nil
		},
		viewFn: func(_ context.Context, _ string) (int64, error) {
			return 0, errors.New("timeout")
		},
	}
	c := NewController(api, 12)
	ctx := context.Background()
	require.NoError(t, c.LoadFirstPage(ctx))

	c.RecordView(ctx, "a")

	assert.Equal(t, int64(10), c.Projects()[0].Views)
	assert.Zero(t, c.PendingCount())
}

func TestProjectTags_NormalizedForDisplay(t *testing.T) {
	p := proj("a", 0, 0)
	p.Tags = []string{"#logo#print", "logo", " web "}
	api := &fakeAPI{
		listFn: func(_ context.Context, _ client.ListQuery) (*client.ListResult, error) {
			return page(1, p), nil
		},
	}
	c := NewController(api, 12)
	require.NoError(t, c.LoadFirstPage(context.Background()))

	assert.Equal(t, []string{"logo", "print", "web"}, c.ProjectTags("a", 8))
	assert.Nil(t, c.ProjectTags("missing", 8))
}

func TestConcatenatedPagesHaveNoDuplicates(t *testing.T) {
	// Ten projects, page size 3: pages overlap at the boundaries to
	// simulate re-delivery; the merged sequence must stay duplicate-free.
	all := make([]domain.Project, 10)
	for i := range all {
		all[i] = proj(fmt.Sprintf("p%02d", i), 0, 0)
	}
	api := &fakeAPI{
		listFn: func(_ context.Context, q client.ListQuery) (*client.ListResult, error) {
			start := (q.Page - 1) * 3
			if start > 0 {
				start-- // overlap with previous page
			}
			end := (q.Page-1)*3 + 3
			if end > len(all) {
				end = len(all)
			}
			return page(4, all[start:end]...), nil
		},
	}
	c := NewController(api, 3)
	ctx := context.Background()

	require.NoError(t, c.LoadFirstPage(ctx))
	for c.HasMore() {
		require.NoError(t, c.LoadMore(ctx))
	}

	got := c.Projects()
	seen := make(map[string]bool)
	for _, p := range got {
		assert.False(t, seen[p.ID], "duplicate id %s", p.ID)
		seen[p.ID] = true
	}
	assert.Len(t, got, 10)
}
