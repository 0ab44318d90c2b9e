package records

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/searchleap/harmony-farm-sanctuary-website-sub001/internal/kv"
	"github.com/searchleap/harmony-farm-sanctuary-website-sub001/pkg/logger"
	"github.com/searchleap/harmony-farm-sanctuary-website-sub001/pkg/metrics"
)

// DefaultKeyPrefix is prepended to every resource name to form its storage key.
const DefaultKeyPrefix = "harmony_admin_"

const metadataName = "metadata"

var (
	// ErrSaveFailed matches every write failure returned by the store.
	ErrSaveFailed = errors.New("failed to save data")
	// ErrUnknownResource is returned for mutations on a resource the store was
	// not configured with.
	ErrUnknownResource = errors.New("unknown resource")
)

// SaveError reports a failed write of a whole resource array.
type SaveError struct {
	Resource string
	Err      error
}

func (e *SaveError) Error() string {
	return fmt.Sprintf("failed to save %s data: %v", e.Resource, e.Err)
}

func (e *SaveError) Unwrap() []error { return []error{ErrSaveFailed, e.Err} }

// Store provides CRUD over named resources. Each resource is one JSON array
// under one key of the backing kv.Store; every mutation reads the whole array,
// modifies it and writes it back.
//
// Mutations are serialized by a mutex, so a single Store is safe for
// concurrent use. Two processes sharing a backend are last-write-wins.
type Store struct {
	kv        kv.Store
	prefix    string
	schemas   map[string]Schema
	resources []string
	now       func() time.Time
	log       *logger.Logger

	mu sync.Mutex
}

// Option configures a Store.
type Option func(*Store)

// WithKeyPrefix overrides DefaultKeyPrefix.
func WithKeyPrefix(prefix string) Option {
	return func(s *Store) { s.prefix = prefix }
}

// WithSchemas registers per-resource date schemas.
func WithSchemas(schemas map[string]Schema) Option {
	return func(s *Store) {
		for name, sc := range schemas {
			s.schemas[name] = sc
		}
	}
}

// WithResources restricts mutations to the named resources and defines the
// set included in full backups.
func WithResources(names ...string) Option {
	return func(s *Store) { s.resources = append([]string(nil), names...) }
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// NewStore creates a Store over backend.
func NewStore(backend kv.Store, opts ...Option) *Store {
	s := &Store{
		kv:      backend,
		prefix:  DefaultKeyPrefix,
		schemas: map[string]Schema{},
		now:     time.Now,
		log:     logger.Named("records"),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Resources returns the configured resource names.
func (s *Store) Resources() []string {
	return append([]string(nil), s.resources...)
}

// IsKnown reports whether resource may be mutated through this store.
func (s *Store) IsKnown(resource string) bool {
	if resource == "" || resource == metadataName {
		return false
	}
	return len(s.resources) == 0 || slices.Contains(s.resources, resource)
}

// Key returns the storage key for resource.
func (s *Store) Key(resource string) string {
	return s.prefix + resource
}

func (s *Store) schemaFor(resource string) Schema {
	if sc, ok := s.schemas[resource]; ok {
		return sc
	}
	return DefaultSchema
}

func (s *Store) stamp() time.Time {
	return s.now().UTC().Truncate(time.Millisecond)
}

// GetAll returns every record of resource, most recent first. It never fails:
// a missing or unreadable entry is logged and yields an empty slice.
func (s *Store) GetAll(ctx context.Context, resource string) []Record {
	return s.load(ctx, resource)
}

func (s *Store) load(ctx context.Context, resource string) []Record {
	raw, err := s.kv.Get(ctx, s.Key(resource))
	if err != nil {
		if !errors.Is(err, kv.ErrNotFound) {
			s.log.Errorf("error loading %s: %v", resource, err)
			metrics.StoreReadFailures.WithLabelValues(resource).Inc()
		}
		return []Record{}
	}
	var list []Record
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		s.log.Errorf("error parsing %s: %v", resource, err)
		metrics.StoreReadFailures.WithLabelValues(resource).Inc()
		return []Record{}
	}
	schema := s.schemaFor(resource)
	out := make([]Record, 0, len(list))
	for _, r := range list {
		if r == nil {
			continue
		}
		schema.Coerce(r, resource, s.log)
		out = append(out, r)
	}
	return out
}

// GetByID returns the record with id, or false when it does not exist.
func (s *Store) GetByID(ctx context.Context, resource, id string) (Record, bool) {
	for _, r := range s.load(ctx, resource) {
		if r.ID() == id {
			return r, true
		}
	}
	return nil, false
}

// SaveAll replaces the whole resource array.
func (s *Store) SaveAll(ctx context.Context, resource string, list []Record) error {
	if !s.IsKnown(resource) {
		return fmt.Errorf("%w: %s", ErrUnknownResource, resource)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.save(ctx, resource, list); err != nil {
		return err
	}
	s.bump(ctx, resource, len(list), func(*ResourceStats) {})
	return nil
}

func (s *Store) save(ctx context.Context, resource string, list []Record) error {
	if list == nil {
		list = []Record{}
	}
	b, err := json.Marshal(list)
	if err != nil {
		return &SaveError{Resource: resource, Err: err}
	}
	if err := s.kv.Set(ctx, s.Key(resource), string(b)); err != nil {
		s.log.Errorf("error saving %s: %v", resource, err)
		return &SaveError{Resource: resource, Err: err}
	}
	return nil
}

// Create stores data as a new record and returns it. The store assigns id,
// createdAt and updatedAt; caller-supplied values for them are replaced.
func (s *Store) Create(ctx context.Context, resource string, data Record) (Record, error) {
	if !s.IsKnown(resource) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownResource, resource)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.load(ctx, resource)
	now := s.stamp()
	rec := data.Clone()
	if rec == nil {
		rec = Record{}
	}
	rec["id"] = newID(resource, now)
	rec["createdAt"] = now
	rec["updatedAt"] = now
	s.schemaFor(resource).Coerce(rec, resource, s.log)

	list = append([]Record{rec}, list...)
	if err := s.save(ctx, resource, list); err != nil {
		return nil, err
	}
	s.bump(ctx, resource, len(list), func(st *ResourceStats) { st.Created++ })
	metrics.RecordMutations.WithLabelValues(resource, "create").Inc()
	return rec, nil
}

// Update merges updates over the record with id and returns the result.
// An unknown id is logged and yields (nil, nil). The id and createdAt fields
// cannot be changed.
func (s *Store) Update(ctx context.Context, resource, id string, updates Record) (Record, error) {
	if !s.IsKnown(resource) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownResource, resource)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.load(ctx, resource)
	idx := slices.IndexFunc(list, func(r Record) bool { return r.ID() == id })
	if idx < 0 {
		s.log.Errorf("%s with id %s not found", resource, id)
		return nil, nil
	}

	merged := list[idx].Clone()
	for k, v := range updates {
		if k == "id" || k == "createdAt" {
			continue
		}
		merged[k] = cloneValue(v)
	}
	merged["updatedAt"] = s.stamp()
	s.schemaFor(resource).Coerce(merged, resource, s.log)
	list[idx] = merged

	if err := s.save(ctx, resource, list); err != nil {
		return nil, err
	}
	s.bump(ctx, resource, len(list), func(st *ResourceStats) { st.Updated++ })
	metrics.RecordMutations.WithLabelValues(resource, "update").Inc()
	return merged, nil
}

// Delete removes the record with id. It reports false when no such record
// exists, in which case nothing is written.
func (s *Store) Delete(ctx context.Context, resource, id string) (bool, error) {
	n, err := s.DeleteMultiple(ctx, resource, []string{id})
	return n > 0, err
}

// DeleteMultiple removes every record whose id is in ids with a single write
// and returns how many were removed.
func (s *Store) DeleteMultiple(ctx context.Context, resource string, ids []string) (int, error) {
	if !s.IsKnown(resource) {
		return 0, fmt.Errorf("%w: %s", ErrUnknownResource, resource)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	list := s.load(ctx, resource)
	kept := make([]Record, 0, len(list))
	for _, r := range list {
		if !drop[r.ID()] {
			kept = append(kept, r)
		}
	}
	removed := len(list) - len(kept)
	if removed == 0 {
		return 0, nil
	}
	if err := s.save(ctx, resource, kept); err != nil {
		return 0, err
	}
	s.bump(ctx, resource, len(kept), func(st *ResourceStats) { st.Deleted += removed })
	metrics.RecordMutations.WithLabelValues(resource, "delete").Add(float64(removed))
	return removed, nil
}
