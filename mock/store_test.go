package mock

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	bolt "go.etcd.io/bbolt"

	"github.com/dynohub/addons"
	kiterrors "github.com/dynohub/addons/kit/errors"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s := NewStore(filepath.Join(t.TempDir(), "mock.bolt"))
	require.NoError(t, s.Open(context.Background()))
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_BundleLazyCreation(t *testing.T) {
	s := newTestStore(t)

	b := s.Bundle("unknown-tenant")
	require.NotNil(t, b, "unknown tenants always get a fresh empty bundle")
	assert.Empty(t, b.Resources)
	assert.NotNil(t, b.Attachments)
	assert.NotNil(t, b.ConfigVars)
	assert.NotNil(t, b.Releases)

	assert.Same(t, b, s.Bundle("unknown-tenant"), "repeat access returns the same bundle")
}

func TestStore_TenantIsolation(t *testing.T) {
	s := newTestStore(t)
	svc := newTestService()

	_, err := svc.CreateResource(s.Bundle("alpha"), CreateResourceRequest{App: "shop", Addon: "postgres", Name: "db1"})
	require.NoError(t, err)

	b := s.Bundle("beta")
	assert.Empty(t, b.Resources, "tenant alpha's entities must not leak into beta")
	assert.Empty(t, b.Attachments["shop"])
	name := "db1"
	assert.Nil(t, svc.FindResource(b, addons.ResourceFilter{Name: &name}))
}

func TestStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mock.bolt")
	svc := newTestService()

	s := NewStore(path)
	require.NoError(t, s.Open(context.Background()))
	_, err := svc.CreateResource(s.Bundle("alpha"), CreateResourceRequest{App: "shop", Addon: "postgres", Name: "db1"})
	require.NoError(t, err)
	_, err = svc.CreateAttachment(s.Bundle("alpha"), CreateAttachmentRequest{App: "reports", Resource: "db1", Name: "WAREHOUSE"})
	require.NoError(t, err)
	before := s.Bundle("alpha")
	require.NoError(t, s.Close())

	restored := NewStore(path)
	require.NoError(t, restored.Open(context.Background()))
	defer restored.Close()

	if diff := cmp.Diff(before, restored.Bundle("alpha")); diff != "" {
		t.Fatalf("restored bundle differs from persisted bundle (-want +got):\n%s", diff)
	}
}

func TestStore_CloseWithoutMutation(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "mock.bolt"))
	require.NoError(t, s.Open(context.Background()))
	require.NoError(t, s.Close(), "flushing an untouched store must succeed")
}

func TestStore_OpenAbsentFileStartsEmpty(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "never-written.bolt"))
	require.NoError(t, s.Open(context.Background()))
	defer s.Close()

	assert.Empty(t, s.Bundle("anyone").Resources)
}

func TestStore_OpenCorruptBundleFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mock.bolt")

	db, err := bolt.Open(path, 0600, nil)
	require.NoError(t, err)
	require.NoError(t, db.Update(func(tx *bolt.Tx) error {
		bkt, err := tx.CreateBucketIfNotExists(tenantsBucket)
		if err != nil {
			return err
		}
		return bkt.Put([]byte("alpha"), []byte("{not json"))
	}))
	require.NoError(t, db.Close())

	s := NewStore(path)
	err = s.Open(context.Background())
	require.Error(t, err, "corrupt persisted state must abort, not start empty")
	assert.Equal(t, kiterrors.ECorruptState, kiterrors.ErrorCode(err))
}

func TestStore_OpenLockedFileIsInternalError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mock.bolt")

	first := NewStore(path)
	require.NoError(t, first.Open(context.Background()))
	defer first.Close()

	// The second open times out on the file lock. That is an internal
	// failure, not corrupt state: nothing durable was misread.
	second := NewStore(path)
	err := second.Open(context.Background())
	require.Error(t, err)
	assert.Equal(t, kiterrors.EInternal, kiterrors.ErrorCode(err))
}

func TestStore_ResetDropsPersistedTenant(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mock.bolt")
	svc := newTestService()

	s := NewStore(path)
	require.NoError(t, s.Open(context.Background()))
	_, err := svc.CreateResource(s.Bundle("alpha"), CreateResourceRequest{App: "shop", Addon: "redis", Name: "cache"})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s = NewStore(path)
	require.NoError(t, s.Open(context.Background()))
	require.Len(t, s.Bundle("alpha").Resources, 1)
	s.Reset("alpha")
	require.NoError(t, s.Close())

	s = NewStore(path)
	require.NoError(t, s.Open(context.Background()))
	defer s.Close()
	assert.Empty(t, s.Bundle("alpha").Resources)
}
