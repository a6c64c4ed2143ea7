package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"debt-ledger/internal/clients"
)

const (
	exportSetKey = "export_ids"
	exportTTL    = 20 * time.Minute
)

// ErrExportNotFound is returned for unknown or expired export ids.
var ErrExportNotFound = errors.New("export not found")

type ExportStatus struct {
	Key      string    `json:"key"`
	Type     string    `json:"type"`
	Progress float64   `json:"progress"`
	Stage    string    `json:"stage,omitempty"`
	FileURL  *string   `json:"file_url"`
	FileName string    `json:"file_name,omitempty"`
	Error    *string   `json:"error,omitempty"`
	Created  time.Time `json:"created_at"`
}

func (st ExportStatus) Done() bool {
	return st.Progress >= 100
}

type StatusStore interface {
	Save(ctx context.Context, st *ExportStatus) error
	Get(ctx context.Context, key string) (*ExportStatus, error)
	List(ctx context.Context) ([]ExportStatus, error)
}

func sortNewestFirst(statuses []ExportStatus) {
	sort.Slice(statuses, func(i, j int) bool {
		return statuses[i].Created.After(statuses[j].Created)
	})
}

// RedisStatusStore keeps statuses as JSON strings with a TTL plus a set of keys.
type RedisStatusStore struct {
	redis *clients.RedisClient
}

func NewRedisStatusStore(redis *clients.RedisClient) *RedisStatusStore {
	return &RedisStatusStore{redis: redis}
}

func (s *RedisStatusStore) Save(ctx context.Context, st *ExportStatus) error {
	data, err := json.Marshal(st)
	if err != nil {
		return err
	}
	if err := s.redis.Set(ctx, st.Key, string(data), exportTTL); err != nil {
		return err
	}
	return s.redis.SAdd(ctx, exportSetKey, st.Key)
}

func (s *RedisStatusStore) Get(ctx context.Context, key string) (*ExportStatus, error) {
	data, err := s.redis.Get(ctx, key)
	if errors.Is(err, clients.ErrCacheMiss) {
		return nil, ErrExportNotFound
	}
	if err != nil {
		return nil, err
	}

	var st ExportStatus
	if err := json.Unmarshal([]byte(data), &st); err != nil {
		return nil, fmt.Errorf("failed to parse export status: %w", err)
	}
	return &st, nil
}

func (s *RedisStatusStore) List(ctx context.Context) ([]ExportStatus, error) {
	keys, err := s.redis.SMembers(ctx, exportSetKey)
	if err != nil {
		return nil, fmt.Errorf("failed to get export keys: %w", err)
	}

	statuses := []ExportStatus{}
	for _, key := range keys {
		st, err := s.Get(ctx, key)
		if errors.Is(err, ErrExportNotFound) {
			// expired; drop it from the index
			_ = s.redis.SRem(ctx, exportSetKey, key)
			continue
		}
		if err != nil {
			continue
		}
		statuses = append(statuses, *st)
	}

	sortNewestFirst(statuses)
	return statuses, nil
}

// MemoryStatusStore is used when redis is not configured. Entries expire after
// the same TTL as in redis.
type MemoryStatusStore struct {
	mu    sync.Mutex
	items map[string]memoryStatus
	now   func() time.Time
}

type memoryStatus struct {
	status  ExportStatus
	expires time.Time
}

func NewMemoryStatusStore() *MemoryStatusStore {
	return &MemoryStatusStore{items: make(map[string]memoryStatus), now: time.Now}
}

func (s *MemoryStatusStore) Save(_ context.Context, st *ExportStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[st.Key] = memoryStatus{status: *st, expires: s.now().Add(exportTTL)}
	return nil
}

func (s *MemoryStatusStore) Get(_ context.Context, key string) (*ExportStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[key]
	if !ok || s.now().After(item.expires) {
		delete(s.items, key)
		return nil, ErrExportNotFound
	}
	st := item.status
	return &st, nil
}

func (s *MemoryStatusStore) List(_ context.Context) ([]ExportStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	statuses := []ExportStatus{}
	for key, item := range s.items {
		if now.After(item.expires) {
			delete(s.items, key)
			continue
		}
		statuses = append(statuses, item.status)
	}
	sortNewestFirst(statuses)
	return statuses, nil
}
