package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/lockroom/lockdash/src/models"
	"github.com/lockroom/lockdash/src/repositories"
)

// ResourceClient is a generic CRUD client for one REST collection of the
// inventory backend. T is the record type, I the create/update payload.
type ResourceClient[T any, I any] struct {
	entity     models.Entity
	baseURL    string
	httpClient *http.Client
}

// NewResourceClient creates a client for the collection named by entity
func NewResourceClient[T any, I any](baseURL string, entity models.Entity, httpClient *http.Client) *ResourceClient[T, I] {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &ResourceClient[T, I]{
		entity:     entity,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// Entity returns the collection this client talks to
func (rc *ResourceClient[T, I]) Entity() models.Entity {
	return rc.entity
}

// List fetches one page of records (GET /{collection}?page&pageSize&name)
func (rc *ResourceClient[T, I]) List(ctx context.Context, params models.FilterParams) (*models.Page[T], error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(params.Page))
	query.Set("pageSize", strconv.Itoa(params.PageSize))
	if params.Name != "" {
		query.Set("name", params.Name)
	}

	body, err := rc.do(ctx, http.MethodGet, rc.collectionURL()+"?"+query.Encode(), nil)
	if err != nil {
		return nil, err
	}

	var page models.Page[T]
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, fmt.Errorf("%w: decode %s page: %v", ErrDecode, rc.entity, err)
	}
	if page.Data == nil {
		page.Data = []T{}
	}
	return &page, nil
}

// Get fetches a single record (GET /{collection}/{id})
func (rc *ResourceClient[T, I]) Get(ctx context.Context, id int64) (*T, error) {
	body, err := rc.do(ctx, http.MethodGet, rc.recordURL(id), nil)
	if err != nil {
		return nil, err
	}

	var record T
	if err := json.Unmarshal(body, &record); err != nil {
		return nil, fmt.Errorf("%w: decode %s %d: %v", ErrDecode, rc.entity, id, err)
	}
	return &record, nil
}

// Create posts a new record (POST /{collection}). The returned record is nil
// when the backend acknowledges without echoing the record.
func (rc *ResourceClient[T, I]) Create(ctx context.Context, input I) (*T, error) {
	body, err := rc.do(ctx, http.MethodPost, rc.collectionURL(), input)
	if err != nil {
		return nil, err
	}
	return decodeRecord[T](body)
}

// Update replaces the editable fields of a record (PUT /{collection}/{id})
func (rc *ResourceClient[T, I]) Update(ctx context.Context, id int64, input I) (*T, error) {
	body, err := rc.do(ctx, http.MethodPut, rc.recordURL(id), input)
	if err != nil {
		return nil, err
	}
	return decodeRecord[T](body)
}

// Delete removes a record (DELETE /{collection}/{id})
func (rc *ResourceClient[T, I]) Delete(ctx context.Context, id int64) error {
	_, err := rc.do(ctx, http.MethodDelete, rc.recordURL(id), nil)
	return err
}

func (rc *ResourceClient[T, I]) collectionURL() string {
	return rc.baseURL + "/" + rc.entity.String()
}

func (rc *ResourceClient[T, I]) recordURL(id int64) string {
	return rc.collectionURL() + "/" + strconv.FormatInt(id, 10)
}

// do performs one request and returns the response body of a 2xx answer
func (rc *ResourceClient[T, I]) do(ctx context.Context, method, target string, payload any) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal %s request: %w", rc.entity, err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s request: %w", rc.entity, err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := rc.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Op: method, URL: target, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Op: method, URL: target, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{
			Op:         method,
			URL:        target,
			StatusCode: resp.StatusCode,
			Body:       string(respBody),
		}
	}

	return respBody, nil
}

// decodeRecord decodes a mutation response. Acknowledgements that are not a
// JSON object (empty body, a bare message string) yield a nil record.
func decodeRecord[T any](body []byte) (*T, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, nil
	}

	var record T
	if err := json.Unmarshal(trimmed, &record); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return &record, nil
}

var _ repositories.KeyRepository = (*ResourceClient[models.Key, models.KeyInput])(nil)
