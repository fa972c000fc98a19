package services

import (
	"context"
	"net/http"
	"time"

	"github.com/lockroom/lockdash/src/models"
)

// InventoryClient bundles the three REST collections of the lock inventory
// backend behind one base URL and one HTTP client.
type InventoryClient struct {
	Keys      *ResourceClient[models.Key, models.KeyInput]
	KeyCopies *ResourceClient[models.KeyCopy, models.KeyCopyInput]
	Staffs    *ResourceClient[models.Staff, models.StaffInput]
	baseURL   string
}

// NewInventoryClient creates a client for the backend at baseURL. A zero
// timeout leaves requests unbounded, matching the default HTTP client.
func NewInventoryClient(baseURL string, timeout time.Duration) *InventoryClient {
	httpClient := &http.Client{
		Timeout: timeout,
	}
	return &InventoryClient{
		Keys:      NewResourceClient[models.Key, models.KeyInput](baseURL, models.EntityKeys, httpClient),
		KeyCopies: NewResourceClient[models.KeyCopy, models.KeyCopyInput](baseURL, models.EntityKeyCopies, httpClient),
		Staffs:    NewResourceClient[models.Staff, models.StaffInput](baseURL, models.EntityStaffs, httpClient),
		baseURL:   baseURL,
	}
}

// BaseURL returns the backend base URL
func (ic *InventoryClient) BaseURL() string {
	return ic.baseURL
}

// Ping checks that the backend answers a minimal list request
func (ic *InventoryClient) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := ic.Keys.List(ctx, models.FilterParams{Page: 1, PageSize: 1})
	return err
}
