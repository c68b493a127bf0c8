// Package mock is an in-process simulation of the platform's add-on
// subsystem: the route table, the per-tenant datastore, and the
// consistency rules the real service enforces across resources,
// attachments, config vars, and releases.
package mock

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/hashicorp/go-multierror"
	bolt "go.etcd.io/bbolt"
	"go.uber.org/zap"

	"github.com/dynohub/addons"
	kiterrors "github.com/dynohub/addons/kit/errors"
)

var tenantsBucket = []byte("tenantsv1")

// Bundle holds every entity collection for one tenant. All collections
// are partitioned per app where the entity is app-scoped.
type Bundle struct {
	Apps        []*addons.App                   `json:"apps"`
	Resources   []*addons.Resource              `json:"resources"`
	Attachments map[string][]*addons.Attachment `json:"attachments"`
	ConfigVars  map[string]addons.ConfigVars    `json:"config_vars"`
	Releases    map[string][]*addons.Release    `json:"releases"`
}

// NewBundle returns a Bundle with every collection initialized.
func NewBundle() *Bundle {
	return &Bundle{
		Apps:        []*addons.App{},
		Resources:   []*addons.Resource{},
		Attachments: map[string][]*addons.Attachment{},
		ConfigVars:  map[string]addons.ConfigVars{},
		Releases:    map[string][]*addons.Release{},
	}
}

// App returns the app record with the given name, or nil.
func (b *Bundle) App(name string) *addons.App {
	for _, a := range b.Apps {
		if a.Name == name {
			return a
		}
	}
	return nil
}

// Resource returns the resource with the given name, or nil.
func (b *Bundle) Resource(name string) *addons.Resource {
	for _, r := range b.Resources {
		if r.Name == name {
			return r
		}
	}
	return nil
}

// ResourceByID returns the resource with the given identifier, or nil.
func (b *Bundle) ResourceByID(id string) *addons.Resource {
	for _, r := range b.Resources {
		if r.ID == id {
			return r
		}
	}
	return nil
}

// Attachment returns the named attachment on an app, or nil.
func (b *Bundle) Attachment(app, name string) *addons.Attachment {
	for _, at := range b.Attachments[app] {
		if at.Name == name {
			return at
		}
	}
	return nil
}

// Store is the durable, multi-tenant datastore behind the mock backend.
// Bundles live in memory between Open and Close; bolt is only touched at
// those two points.
type Store struct {
	Path string

	log *zap.Logger

	mu      sync.Mutex
	db      *bolt.DB
	tenants map[string]*Bundle
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithStoreLogger sets the store's logger.
func WithStoreLogger(log *zap.Logger) StoreOption {
	return func(s *Store) {
		s.log = log
	}
}

// NewStore returns a Store persisting to the bolt file at path.
func NewStore(path string, opts ...StoreOption) *Store {
	s := &Store{
		Path:    path,
		log:     zap.NewNop(),
		tenants: map[string]*Bundle{},
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Open opens the bolt file and restores every persisted tenant bundle.
// An absent file starts the store empty. A bundle that fails to decode is
// fatal: continuing would present an empty store as the tester's real
// prior state.
func (s *Store) Open(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	db, err := bolt.Open(s.Path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return &kiterrors.Error{
			Code: kiterrors.EInternal,
			Msg:  "unable to open mock datastore",
			Op:   "mock.Store.Open",
			Err:  err,
		}
	}
	s.db = db

	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(tenantsBucket)
		return err
	}); err != nil {
		return &kiterrors.Error{
			Code: kiterrors.EInternal,
			Op:   "mock.Store.Open",
			Err:  err,
		}
	}

	return db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(tenantsBucket).ForEach(func(k, v []byte) error {
			bundle := NewBundle()
			if err := json.Unmarshal(v, bundle); err != nil {
				return ErrCorruptBundle(string(k), err)
			}
			s.tenants[string(k)] = bundle
			return nil
		})
	})
}

// Bundle returns the bundle for a tenant key, creating an empty one on
// first access. Unknown tenants never fail.
func (s *Store) Bundle(tenant string) *Bundle {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.tenants[tenant]
	if !ok {
		b = NewBundle()
		s.tenants[tenant] = b
	}
	return b
}

// Reset drops a tenant's bundle. The next access starts from empty.
func (s *Store) Reset(tenant string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tenants, tenant)
}

// Close persists every tenant bundle back to bolt and closes the file.
// Persist failures are accumulated per tenant so one bad bundle does not
// block the rest from flushing.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}

	var errs error
	err := s.db.Update(func(tx *bolt.Tx) error {
		bkt, err := tx.CreateBucketIfNotExists(tenantsBucket)
		if err != nil {
			return err
		}
		for tenant, bundle := range s.tenants {
			v, err := json.Marshal(bundle)
			if err != nil {
				errs = multierror.Append(errs, err)
				continue
			}
			if err := bkt.Put([]byte(tenant), v); err != nil {
				errs = multierror.Append(errs, err)
			}
		}
		// stale keys for reset tenants
		var stale [][]byte
		if err := bkt.ForEach(func(k, _ []byte) error {
			if _, ok := s.tenants[string(k)]; !ok {
				stale = append(stale, append([]byte(nil), k...))
			}
			return nil
		}); err != nil {
			return err
		}
		for _, k := range stale {
			if err := bkt.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		errs = multierror.Append(errs, err)
	}

	if err := s.db.Close(); err != nil {
		errs = multierror.Append(errs, err)
	}
	s.db = nil

	if errs != nil {
		s.log.Error("failed to flush mock datastore", zap.Error(errs))
	}
	return errs
}
