package storage

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/aroha-health/docpipe/internal/domain"
)

const objectPath = "/storage/v1/object/{bucket}/{path}"

// SupabaseConfig configures the Supabase storage client.
type SupabaseConfig struct {
	BaseURL string
	APIKey  string
	Bucket  string
	Timeout time.Duration
}

// SupabaseStore is an ObjectStore backed by the Supabase storage HTTP API.
type SupabaseStore struct {
	client *resty.Client
	bucket string
}

// NewSupabaseStore creates a storage client for the configured bucket.
func NewSupabaseStore(cfg SupabaseConfig) *SupabaseStore {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Authorization", "Bearer "+cfg.APIKey).
		SetHeader("apikey", cfg.APIKey).
		SetRetryCount(3).
		SetRetryWaitTime(100 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second)

	client.AddRetryCondition(retryCondition)

	return &SupabaseStore{client: client, bucket: cfg.Bucket}
}

// retryCondition retries network errors and transient server-side failures.
func retryCondition(r *resty.Response, err error) bool {
	if err != nil {
		return true
	}
	if r == nil {
		return false
	}
	code := r.StatusCode()
	return code >= 500 || code == http.StatusTooManyRequests
}

func (s *SupabaseStore) Put(ctx context.Context, path string, content []byte, contentType string) error {
	resp, err := s.client.R().
		SetContext(ctx).
		SetPathParam("bucket", s.bucket).
		SetRawPathParam("path", path).
		SetHeader("Content-Type", contentType).
		SetHeader("x-upsert", "true").
		SetBody(content).
		Post(objectPath)
	if err != nil {
		return fmt.Errorf("%w: upload %s: %v", domain.ErrStorage, path, err)
	}
	if resp.IsError() {
		return fmt.Errorf("%w: upload %s: status %d", domain.ErrStorage, path, resp.StatusCode())
	}
	return nil
}

func (s *SupabaseStore) Get(ctx context.Context, path string) ([]byte, error) {
	resp, err := s.client.R().
		SetContext(ctx).
		SetPathParam("bucket", s.bucket).
		SetRawPathParam("path", path).
		Get(objectPath)
	if err != nil {
		return nil, fmt.Errorf("%w: download %s: %v", domain.ErrStorage, path, err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return nil, fmt.Errorf("%w: object %s", domain.ErrNotFound, path)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: download %s: status %d", domain.ErrStorage, path, resp.StatusCode())
	}
	return resp.Body(), nil
}

func (s *SupabaseStore) Delete(ctx context.Context, path string) error {
	resp, err := s.client.R().
		SetContext(ctx).
		SetPathParam("bucket", s.bucket).
		SetRawPathParam("path", path).
		Delete(objectPath)
	if err != nil {
		return fmt.Errorf("%w: delete %s: %v", domain.ErrStorage, path, err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return nil
	}
	if resp.IsError() {
		return fmt.Errorf("%w: delete %s: status %d", domain.ErrStorage, path, resp.StatusCode())
	}
	return nil
}
