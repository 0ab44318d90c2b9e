package records

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

const exportedAtKey = "exportedAt"

// KnownResources returns the configured resources, or when none were
// configured, every resource currently present in the backend.
func (s *Store) KnownResources(ctx context.Context) []string {
	if len(s.resources) > 0 {
		return s.Resources()
	}
	keys, err := s.kv.Keys(ctx, s.prefix)
	if err != nil {
		s.log.Errorf("error listing resources: %v", err)
		return nil
	}
	var out []string
	for _, k := range keys {
		name := strings.TrimPrefix(k, s.prefix)
		if name != "" && name != metadataName {
			out = append(out, name)
		}
	}
	return out
}

// ExportData serializes every known resource, the metadata side-table and an
// exportedAt timestamp into one indented JSON document.
func (s *Store) ExportData(ctx context.Context) ([]byte, error) {
	doc := map[string]any{}
	for _, name := range s.KnownResources(ctx) {
		doc[name] = s.load(ctx, name)
	}
	doc[metadataName] = s.Metadata(ctx)
	doc[exportedAtKey] = s.stamp()

	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode backup: %w", err)
	}
	return b, nil
}

// ImportData overwrites the storage entry of every resource present in doc.
// Record shapes are not validated. Keys that are not known resources are
// skipped when the store was configured with a resource list.
func (s *Store) ImportData(ctx context.Context, doc []byte) error {
	var entries map[string]json.RawMessage
	if err := json.Unmarshal(doc, &entries); err != nil {
		s.log.Errorf("error importing data: %v", err)
		return fmt.Errorf("parse backup: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for name, raw := range entries {
		switch {
		case name == exportedAtKey:
			continue
		case name != metadataName && !s.IsKnown(name):
			s.log.Warnf("skipping unknown resource %s in backup", name)
			continue
		}
		var buf bytes.Buffer
		if err := json.Compact(&buf, raw); err != nil {
			return &SaveError{Resource: name, Err: err}
		}
		if err := s.kv.Set(ctx, s.Key(name), buf.String()); err != nil {
			s.log.Errorf("error restoring %s: %v", name, err)
			return &SaveError{Resource: name, Err: err}
		}
	}
	s.log.Infof("imported %d entries from backup", len(entries))
	return nil
}
