package marine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/signalsfoundry/drift-simulator/internal/logging"
)

// ObjectStore persists serialized datasets beyond process lifetime. It is
// the second cache tier; implementations must be safe for concurrent use.
type ObjectStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, data []byte) error
}

// DatasetKey builds the cache key for a product subset. Bounds are rounded
// to two decimals and times truncated to the hour so that nearby requests
// share cache entries.
func DatasetKey(product string, bounds Bounds, start, end time.Time) string {
	return fmt.Sprintf("%s_%.2f_%.2f_%.2f_%.2f_%s_%s.json",
		product,
		bounds.MinLat, bounds.MaxLat, bounds.MinLon, bounds.MaxLon,
		start.UTC().Format("2006010215"), end.UTC().Format("2006010215"))
}

type cacheEntry struct {
	dataset   *Dataset
	expiresAt time.Time
}

// DatasetCache is a two-tier dataset cache: an in-memory TTL map backed by
// an optional object store. Memory hits are free; store hits repopulate the
// memory tier.
type DatasetCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	ttl     time.Duration
	store   ObjectStore
	log     logging.Logger
}

// NewDatasetCache creates a cache with the given TTL. store may be nil, in
// which case only the memory tier is used.
func NewDatasetCache(ttl time.Duration, store ObjectStore, log logging.Logger) *DatasetCache {
	if log == nil {
		log = logging.Noop()
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &DatasetCache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		store:   store,
		log:     log,
	}
}

// Get returns the cached dataset for key, consulting the memory tier first
// and the object store second.
func (c *DatasetCache) Get(ctx context.Context, key string) (*Dataset, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if ok && time.Now().Before(entry.expiresAt) {
		return entry.dataset, true
	}

	if c.store == nil {
		return nil, false
	}
	data, err := c.store.Get(ctx, key)
	if err != nil {
		return nil, false
	}
	var ds Dataset
	if err := json.Unmarshal(data, &ds); err != nil {
		c.log.Warn(ctx, "discarding corrupt cached dataset",
			logging.String("key", key), logging.Any("error", err))
		return nil, false
	}
	c.storeMemory(key, &ds)
	return &ds, true
}

// Put stores the dataset in both tiers. Object-store failures are logged
// and ignored; the memory tier always succeeds.
func (c *DatasetCache) Put(ctx context.Context, key string, ds *Dataset) {
	c.storeMemory(key, ds)
	if c.store == nil {
		return
	}
	data, err := json.Marshal(ds)
	if err != nil {
		c.log.Warn(ctx, "marshal dataset for object store",
			logging.String("key", key), logging.Any("error", err))
		return
	}
	if err := c.store.Put(ctx, key, data); err != nil {
		c.log.Warn(ctx, "object store put failed",
			logging.String("key", key), logging.Any("error", err))
	}
}

// Len reports the number of live memory entries.
func (c *DatasetCache) Len() int {
	now := time.Now()
	c.mu.RLock()
	defer c.mu.RUnlock()
	n := 0
	for _, entry := range c.entries {
		if now.Before(entry.expiresAt) {
			n++
		}
	}
	return n
}

func (c *DatasetCache) storeMemory(key string, ds *Dataset) {
	c.mu.Lock()
	c.entries[key] = cacheEntry{dataset: ds, expiresAt: time.Now().Add(c.ttl)}
	c.mu.Unlock()
}

// StartSweeper drops expired memory entries on a fixed tick until the
// context ends.
func (c *DatasetCache) StartSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = c.ttl
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.Sweep()
			}
		}
	}()
}

// Sweep drops expired memory entries.
func (c *DatasetCache) Sweep() {
	now := time.Now()
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, entry := range c.entries {
		if now.After(entry.expiresAt) {
			delete(c.entries, key)
		}
	}
}

// MinioStore is an ObjectStore backed by a MinIO (or S3-compatible) bucket.
type MinioStore struct {
	client *minio.Client
	bucket string
}

// MinioConfig carries the connection settings for the object-store tier.
type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Secure    bool
}

// NewMinioStore connects to the object store and ensures the bucket exists.
func NewMinioStore(ctx context.Context, cfg MinioConfig) (*MinioStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.Secure,
	})
	if err != nil {
		return nil, fmt.Errorf("connect object store: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %q: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket %q: %w", cfg.Bucket, err)
		}
	}
	return &MinioStore{client: client, bucket: cfg.Bucket}, nil
}

func (s *MinioStore) Get(ctx context.Context, key string) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get object %q: %w", key, err)
	}
	defer obj.Close()
	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, fmt.Errorf("read object %q: %w", key, err)
	}
	return data, nil
}

func (s *MinioStore) Put(ctx context.Context, key string, data []byte) error {
	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		return fmt.Errorf("put object %q: %w", key, err)
	}
	return nil
}
