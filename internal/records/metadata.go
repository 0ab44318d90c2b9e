package records

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/searchleap/harmony-farm-sanctuary-website-sub001/internal/kv"
)

// ResourceStats are the informational counters kept per resource.
type ResourceStats struct {
	Created      int       `json:"created"`
	Updated      int       `json:"updated"`
	Deleted      int       `json:"deleted"`
	Total        int       `json:"total"`
	LastModified time.Time `json:"lastModified"`
}

// Metadata maps resource name to its counters.
type Metadata map[string]ResourceStats

// Metadata returns the counters side-table. Like GetAll it fails soft.
func (s *Store) Metadata(ctx context.Context) Metadata {
	raw, err := s.kv.Get(ctx, s.Key(metadataName))
	if err != nil {
		if !errors.Is(err, kv.ErrNotFound) {
			s.log.Errorf("error loading metadata: %v", err)
		}
		return Metadata{}
	}
	md := Metadata{}
	if err := json.Unmarshal([]byte(raw), &md); err != nil {
		s.log.Errorf("error parsing metadata: %v", err)
		return Metadata{}
	}
	return md
}

// bump updates the counters for resource after a mutation. It is not
// transactional with the mutation; a failure here is only logged.
func (s *Store) bump(ctx context.Context, resource string, total int, fn func(*ResourceStats)) {
	md := s.Metadata(ctx)
	st := md[resource]
	fn(&st)
	st.Total = total
	st.LastModified = s.stamp()
	md[resource] = st

	b, err := json.Marshal(md)
	if err != nil {
		s.log.Warnf("error encoding metadata: %v", err)
		return
	}
	if err := s.kv.Set(ctx, s.Key(metadataName), string(b)); err != nil {
		s.log.Warnf("error saving metadata for %s: %v", resource, err)
	}
}

// Ping reports whether the backend answers reads. A missing metadata entry
// is fine.
func (s *Store) Ping(ctx context.Context) error {
	if _, err := s.kv.Get(ctx, s.Key(metadataName)); err != nil && !errors.Is(err, kv.ErrNotFound) {
		return err
	}
	return nil
}
