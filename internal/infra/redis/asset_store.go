package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"activation-admin/internal/domain"
	"activation-admin/internal/infra/offline"

	"github.com/go-redis/redis/v8"
)

var _ offline.Store = (*AssetStore)(nil)

// AssetStore shares an offline cache between console replicas. Entries never expire.
type AssetStore struct {
	client RedisClient
}

func NewAssetStore(client RedisClient) *AssetStore {
	return &AssetStore{client: client}
}

func (s *AssetStore) assetKey(cache, path string) string {
	return fmt.Sprintf("offline:%s:%s", cache, path)
}

func (s *AssetStore) PutAll(ctx context.Context, cache string, entries []offline.Entry) error {
	for _, e := range entries {
		data, err := json.Marshal(e)
		if err != nil {
			return err
		}
		if err := s.client.Set(ctx, s.assetKey(cache, e.Path), data, 0); err != nil {
			return fmt.Errorf("store %s: %w", e.Path, err)
		}
	}
	return nil
}

func (s *AssetStore) Match(ctx context.Context, cache, path string) (*offline.Entry, error) {
	data, err := s.client.Get(ctx, s.assetKey(cache, path))
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrCacheMiss
		}
		return nil, err
	}
	var e offline.Entry
	if err := json.Unmarshal([]byte(data), &e); err != nil {
		return nil, fmt.Errorf("decode entry: %w", err)
	}
	return &e, nil
}
