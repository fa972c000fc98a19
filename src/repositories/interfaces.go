package repositories

import (
	"context"

	"github.com/lockroom/lockdash/src/models"
)

// Resource defines the data access contract for one record collection.
// T is the record type and I the payload accepted by Create and Update.
type Resource[T any, I any] interface {
	// Listing
	List(ctx context.Context, params models.FilterParams) (*models.Page[T], error)

	// Single record
	Get(ctx context.Context, id int64) (*T, error)

	// Mutations
	Create(ctx context.Context, input I) (*T, error)
	Update(ctx context.Context, id int64, input I) (*T, error)
	Delete(ctx context.Context, id int64) error
}

// KeyRepository is the data access contract for keys
type KeyRepository = Resource[models.Key, models.KeyInput]

// KeyCopyRepository is the data access contract for key copies
type KeyCopyRepository = Resource[models.KeyCopy, models.KeyCopyInput]

// StaffRepository is the data access contract for staff members
type StaffRepository = Resource[models.Staff, models.StaffInput]
