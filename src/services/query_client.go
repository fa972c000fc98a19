package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/lockroom/lockdash/src/models"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

// QueryKey identifies one cached list page
type QueryKey struct {
	Entity   models.Entity
	Page     int
	PageSize int
	Name     string
}

// String renders the key as "entity|page|pageSize|name"
func (k QueryKey) String() string {
	return fmt.Sprintf("%s|%d|%d|%s", k.Entity, k.Page, k.PageSize, k.Name)
}

// Params converts the key into list request parameters
func (k QueryKey) Params() models.FilterParams {
	return models.FilterParams{Page: k.Page, PageSize: k.PageSize, Name: k.Name}
}

// FetchStatus tags the state of a list fetch
type FetchStatus int

const (
	// FetchLoading means no result is available yet
	FetchLoading FetchStatus = iota
	// FetchFailed means the fetch failed
	FetchFailed
	// FetchReady means a page was loaded
	FetchReady
)

func (s FetchStatus) String() string {
	switch s {
	case FetchFailed:
		return "error"
	case FetchReady:
		return "ready"
	default:
		return "loading"
	}
}

// FetchState is the tagged result of a list fetch: loading, error(reason)
// or ready(page).
type FetchState[T any] struct {
	Status FetchStatus
	Page   *models.Page[T]
	Err    error
}

// Loading returns the state of a fetch that has not completed
func Loading[T any]() FetchState[T] {
	return FetchState[T]{Status: FetchLoading}
}

// Failed returns the state of a failed fetch
func Failed[T any](err error) FetchState[T] {
	return FetchState[T]{Status: FetchFailed, Err: err}
}

// Ready returns the state of a completed fetch
func Ready[T any](page *models.Page[T]) FetchState[T] {
	return FetchState[T]{Status: FetchReady, Page: page}
}

func (s FetchState[T]) IsLoading() bool { return s.Status == FetchLoading }
func (s FetchState[T]) IsError() bool   { return s.Status == FetchFailed }
func (s FetchState[T]) IsReady() bool   { return s.Status == FetchReady }

// Reason returns the failure text of an error state
func (s FetchState[T]) Reason() string {
	if s.Err == nil {
		return ""
	}
	return s.Err.Error()
}

// TotalPages returns the page count reported by the backend, 0 until ready
func (s FetchState[T]) TotalPages() int {
	if !s.IsReady() || s.Page == nil {
		return 0
	}
	return s.Page.TotalPages
}

// Loader fetches one page from the backend
type Loader[T any] func(ctx context.Context, params models.FilterParams) (*models.Page[T], error)

// QueryClient caches list pages per (entity, page, pageSize, filter) and
// de-duplicates identical in-flight fetches.
type QueryClient struct {
	store PageStore
	group singleflight.Group
}

// NewQueryClient creates a query client on top of store
func NewQueryClient(store PageStore) *QueryClient {
	return &QueryClient{store: store}
}

// Invalidate marks every cached page of entity as stale
func (qc *QueryClient) Invalidate(ctx context.Context, entity models.Entity) error {
	gen, err := qc.store.Bump(ctx, entity)
	if err != nil {
		log.Warn().Err(err).Str("entity", entity.String()).Msg("failed to invalidate cached pages")
		return fmt.Errorf("failed to invalidate %s: %w", entity, err)
	}
	log.Debug().Str("entity", entity.String()).Int64("generation", gen).Msg("cached pages invalidated")
	return nil
}

// Fetch returns the page for key, from cache when the cached copy belongs to
// the current generation of the entity, from load otherwise. Cache failures
// degrade to a direct load.
func Fetch[T any](ctx context.Context, qc *QueryClient, key QueryKey, load Loader[T]) FetchState[T] {
	return fetch(ctx, qc, key, load, false)
}

// Refresh loads the page for key from the backend regardless of the cache
// and stores the result for later Fetch calls. Full page loads use it so
// changes made outside this process show up on reload.
func Refresh[T any](ctx context.Context, qc *QueryClient, key QueryKey, load Loader[T]) FetchState[T] {
	return fetch(ctx, qc, key, load, true)
}

func fetch[T any](ctx context.Context, qc *QueryClient, key QueryKey, load Loader[T], refresh bool) FetchState[T] {
	gen, err := qc.store.Generation(ctx, key.Entity)
	cacheable := err == nil
	if err != nil {
		log.Warn().Err(err).Str("entity", key.Entity.String()).Msg("page cache unavailable")
	}
	cacheKey := fmt.Sprintf("%s@%d", key, gen)

	if cacheable && !refresh {
		if data, ok, err := qc.store.Get(ctx, cacheKey); err != nil {
			log.Warn().Err(err).Str("key", cacheKey).Msg("page cache read failed")
		} else if ok {
			var page models.Page[T]
			if err := json.Unmarshal(data, &page); err == nil {
				return Ready(&page)
			}
		}
	}

	// The load is shared by every caller waiting on cacheKey, so it must not
	// be cancelled along with whichever request happened to start it.
	shared := context.WithoutCancel(ctx)

	result, err, _ := qc.group.Do(cacheKey, func() (interface{}, error) {
		page, err := load(shared, key.Params())
		if err != nil {
			return nil, err
		}
		if cacheable {
			if data, err := json.Marshal(page); err == nil {
				if err := qc.store.Set(shared, cacheKey, data); err != nil {
					log.Warn().Err(err).Str("key", cacheKey).Msg("page cache write failed")
				}
			}
		}
		return page, nil
	})
	if err != nil {
		return Failed[T](err)
	}

	page, ok := result.(*models.Page[T])
	if !ok || page == nil {
		return Failed[T](fmt.Errorf("%w: empty page", ErrDecode))
	}
	return Ready(page)
}
