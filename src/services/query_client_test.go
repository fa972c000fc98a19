package services

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lockroom/lockdash/src/models"
)

func staffPage(names ...string) *models.Page[models.Staff] {
	page := &models.Page[models.Staff]{Page: 1, PageSize: 3, Total: len(names), TotalPages: 1}
	for i, n := range names {
		page.Data = append(page.Data, models.Staff{ID: int64(i + 1), Name: n})
	}
	return page
}

// failingStore is a PageStore whose every operation fails
type failingStore struct{}

var errStoreDown = errors.New("store down")

func (failingStore) Get(context.Context, string) ([]byte, bool, error) { return nil, false, errStoreDown }
func (failingStore) Set(context.Context, string, []byte) error         { return errStoreDown }
func (failingStore) Generation(context.Context, models.Entity) (int64, error) {
	return 0, errStoreDown
}
func (failingStore) Bump(context.Context, models.Entity) (int64, error) { return 0, errStoreDown }

func TestQueryKey(t *testing.T) {
	key := QueryKey{Entity: models.EntityKeys, Page: 2, PageSize: 3, Name: "master"}

	assert.Equal(t, "keys|2|3|master", key.String())
	assert.Equal(t, models.FilterParams{Page: 2, PageSize: 3, Name: "master"}, key.Params())
}

func TestFetchState(t *testing.T) {
	loading := Loading[models.Staff]()
	assert.True(t, loading.IsLoading())
	assert.Equal(t, 0, loading.TotalPages())
	assert.Equal(t, "loading", loading.Status.String())

	failed := Failed[models.Staff](errors.New("boom"))
	assert.True(t, failed.IsError())
	assert.Equal(t, "boom", failed.Reason())

	ready := Ready(&models.Page[models.Staff]{TotalPages: 4})
	assert.True(t, ready.IsReady())
	assert.Equal(t, 4, ready.TotalPages())
	assert.Equal(t, "", ready.Reason())
}

func TestFetch_CachesUntilInvalidated(t *testing.T) {
	qc := NewQueryClient(NewMemoryPageStore(16, time.Minute))
	key := QueryKey{Entity: models.EntityStaffs, Page: 1, PageSize: 3}
	ctx := context.Background()

	var calls int32
	load := func(ctx context.Context, params models.FilterParams) (*models.Page[models.Staff], error) {
		atomic.AddInt32(&calls, 1)
		return staffPage("Ann"), nil
	}

	first := Fetch[models.Staff](ctx, qc, key, load)
	second := Fetch[models.Staff](ctx, qc, key, load)

	require.True(t, first.IsReady())
	require.True(t, second.IsReady())
	assert.Equal(t, "Ann", second.Page.Data[0].Name)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	require.NoError(t, qc.Invalidate(ctx, models.EntityStaffs))
	Fetch[models.Staff](ctx, qc, key, load)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestFetch_InvalidateIsPerEntity(t *testing.T) {
	qc := NewQueryClient(NewMemoryPageStore(16, time.Minute))
	ctx := context.Background()
	key := QueryKey{Entity: models.EntityStaffs, Page: 1, PageSize: 3}

	var calls int32
	load := func(ctx context.Context, params models.FilterParams) (*models.Page[models.Staff], error) {
		atomic.AddInt32(&calls, 1)
		return staffPage("Ann"), nil
	}

	Fetch[models.Staff](ctx, qc, key, load)
	require.NoError(t, qc.Invalidate(ctx, models.EntityKeys))
	Fetch[models.Staff](ctx, qc, key, load)

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestFetch_DistinctKeysFetchSeparately(t *testing.T) {
	qc := NewQueryClient(NewMemoryPageStore(16, time.Minute))
	ctx := context.Background()

	var seen []models.FilterParams
	load := func(ctx context.Context, params models.FilterParams) (*models.Page[models.Staff], error) {
		seen = append(seen, params)
		return staffPage(), nil
	}

	Fetch[models.Staff](ctx, qc, QueryKey{Entity: models.EntityStaffs, Page: 1, PageSize: 3}, load)
	Fetch[models.Staff](ctx, qc, QueryKey{Entity: models.EntityStaffs, Page: 2, PageSize: 3}, load)
	Fetch[models.Staff](ctx, qc, QueryKey{Entity: models.EntityStaffs, Page: 1, PageSize: 3, Name: "a"}, load)

	assert.Len(t, seen, 3)
}

func TestFetch_DeduplicatesConcurrentLoads(t *testing.T) {
	qc := NewQueryClient(NewMemoryPageStore(16, time.Minute))
	key := QueryKey{Entity: models.EntityKeys, Page: 1, PageSize: 3}

	var calls int32
	release := make(chan struct{})
	load := func(ctx context.Context, params models.FilterParams) (*models.Page[models.Staff], error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return staffPage("Ann"), nil
	}

	const callers = 5
	var wg sync.WaitGroup
	results := make([]FetchState[models.Staff], callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = Fetch[models.Staff](context.Background(), qc, key, load)
		}(i)
	}

	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	for _, r := range results {
		assert.True(t, r.IsReady())
	}
}

func TestFetch_ErrorsAreNotCached(t *testing.T) {
	qc := NewQueryClient(NewMemoryPageStore(16, time.Minute))
	key := QueryKey{Entity: models.EntityKeys, Page: 1, PageSize: 3}
	ctx := context.Background()

	fail := true
	load := func(ctx context.Context, params models.FilterParams) (*models.Page[models.Staff], error) {
		if fail {
			return nil, &TransportError{Op: "GET", URL: "/keys", Err: errors.New("connection refused")}
		}
		return staffPage("Ann"), nil
	}

	state := Fetch[models.Staff](ctx, qc, key, load)
	require.True(t, state.IsError())
	assert.ErrorIs(t, state.Err, ErrTransport)
	assert.Contains(t, state.Reason(), "connection refused")

	fail = false
	assert.True(t, Fetch[models.Staff](ctx, qc, key, load).IsReady())
}

func TestFetch_StoreFailureDegradesToLoad(t *testing.T) {
	qc := NewQueryClient(failingStore{})
	key := QueryKey{Entity: models.EntityKeys, Page: 1, PageSize: 3}

	var calls int32
	load := func(ctx context.Context, params models.FilterParams) (*models.Page[models.Staff], error) {
		atomic.AddInt32(&calls, 1)
		return staffPage("Ann"), nil
	}

	assert.True(t, Fetch[models.Staff](context.Background(), qc, key, load).IsReady())
	assert.True(t, Fetch[models.Staff](context.Background(), qc, key, load).IsReady())
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))

	assert.ErrorIs(t, qc.Invalidate(context.Background(), models.EntityKeys), errStoreDown)
}

func TestFetch_CancelledCallerDoesNotFailSharedLoad(t *testing.T) {
	qc := NewQueryClient(NewMemoryPageStore(16, time.Minute))
	key := QueryKey{Entity: models.EntityStaffs, Page: 1, PageSize: 3}

	started := make(chan struct{})
	release := make(chan struct{})
	var calls int32
	load := func(ctx context.Context, params models.FilterParams) (*models.Page[models.Staff], error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			close(started)
		}
		<-release
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return staffPage("Ann"), nil
	}

	first, cancelFirst := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	var firstState, secondState FetchState[models.Staff]

	wg.Add(1)
	go func() {
		defer wg.Done()
		firstState = Fetch[models.Staff](first, qc, key, load)
	}()
	<-started

	wg.Add(1)
	go func() {
		defer wg.Done()
		secondState = Fetch[models.Staff](context.Background(), qc, key, load)
	}()

	time.Sleep(50 * time.Millisecond)
	cancelFirst()
	close(release)
	wg.Wait()

	require.True(t, secondState.IsReady(), "second caller got %s: %s", secondState.Status, secondState.Reason())
	assert.Equal(t, "Ann", secondState.Page.Data[0].Name)
	assert.True(t, firstState.IsReady())
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestRefresh_BypassesCachedPage(t *testing.T) {
	qc := NewQueryClient(NewMemoryPageStore(16, time.Minute))
	key := QueryKey{Entity: models.EntityStaffs, Page: 1, PageSize: 3}
	ctx := context.Background()

	name := "Ann"
	load := func(ctx context.Context, params models.FilterParams) (*models.Page[models.Staff], error) {
		return staffPage(name), nil
	}

	require.Equal(t, "Ann", Fetch[models.Staff](ctx, qc, key, load).Page.Data[0].Name)

	// changed outside this process
	name = "Bob"
	assert.Equal(t, "Ann", Fetch[models.Staff](ctx, qc, key, load).Page.Data[0].Name, "pager reads stay cached")

	refreshed := Refresh[models.Staff](ctx, qc, key, load)
	require.True(t, refreshed.IsReady())
	assert.Equal(t, "Bob", refreshed.Page.Data[0].Name)

	assert.Equal(t, "Bob", Fetch[models.Staff](ctx, qc, key, load).Page.Data[0].Name, "refresh re-caches the page")
}
