package mock

import (
	"context"
	"sync"

	"github.com/lockroom/lockdash/src/models"
	"github.com/lockroom/lockdash/src/repositories"
)

// UpdateCall records the arguments of one Update invocation
type UpdateCall[I any] struct {
	ID    int64
	Input I
}

// Resource is a mock implementation of repositories.Resource
type Resource[T any, I any] struct {
	// Function stubs that can be overridden in tests
	ListFunc   func(ctx context.Context, params models.FilterParams) (*models.Page[T], error)
	GetFunc    func(ctx context.Context, id int64) (*T, error)
	CreateFunc func(ctx context.Context, input I) (*T, error)
	UpdateFunc func(ctx context.Context, id int64, input I) (*T, error)
	DeleteFunc func(ctx context.Context, id int64) error

	// Call tracking
	mu    sync.Mutex
	Calls map[string][]interface{}
}

// NewResource creates a new mock resource
func NewResource[T any, I any]() *Resource[T, I] {
	return &Resource[T, I]{
		Calls: make(map[string][]interface{}),
	}
}

func (m *Resource[T, I]) track(name string, arg interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls[name] = append(m.Calls[name], arg)
}

// CallCount returns how many times the named method was invoked
func (m *Resource[T, I]) CallCount(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls[name])
}

// LastCall returns the argument of the most recent call to the named method
func (m *Resource[T, I]) LastCall(name string) interface{} {
	m.mu.Lock()
	defer m.mu.Unlock()
	calls := m.Calls[name]
	if len(calls) == 0 {
		return nil
	}
	return calls[len(calls)-1]
}

func (m *Resource[T, I]) List(ctx context.Context, params models.FilterParams) (*models.Page[T], error) {
	m.track("List", params)
	if m.ListFunc != nil {
		return m.ListFunc(ctx, params)
	}
	return &models.Page[T]{Data: []T{}, Page: params.Page, PageSize: params.PageSize}, nil
}

func (m *Resource[T, I]) Get(ctx context.Context, id int64) (*T, error) {
	m.track("Get", id)
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	return nil, nil
}

func (m *Resource[T, I]) Create(ctx context.Context, input I) (*T, error) {
	m.track("Create", input)
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, input)
	}
	return nil, nil
}

func (m *Resource[T, I]) Update(ctx context.Context, id int64, input I) (*T, error) {
	m.track("Update", UpdateCall[I]{ID: id, Input: input})
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, input)
	}
	return nil, nil
}

func (m *Resource[T, I]) Delete(ctx context.Context, id int64) error {
	m.track("Delete", id)
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

// Ensure Resource implements the interface
var _ repositories.KeyRepository = (*Resource[models.Key, models.KeyInput])(nil)
