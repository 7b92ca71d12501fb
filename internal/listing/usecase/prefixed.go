package usecase

import (
	"context"

	"github.com/Abdurahmanit/GroupProject/campus-cars/internal/listing/domain"
)

// prefixedStore scopes every key of an underlying store under a prefix.
type prefixedStore struct {
	prefix string
	inner  domain.KeyValueStore
}

func newPrefixedStore(inner domain.KeyValueStore, prefix string) domain.KeyValueStore {
	return &prefixedStore{prefix: prefix, inner: inner}
}

func (s *prefixedStore) Load(ctx context.Context, key string) (string, bool, error) {
	return s.inner.Load(ctx, s.prefix+key)
}

func (s *prefixedStore) Save(ctx context.Context, key, value string) error {
	return s.inner.Save(ctx, s.prefix+key, value)
}

func (s *prefixedStore) Remove(ctx context.Context, key string) error {
	return s.inner.Remove(ctx, s.prefix+key)
}
