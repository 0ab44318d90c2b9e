package records

import (
	"github.com/searchleap/harmony-farm-sanctuary-website-sub001/internal/query"
	"github.com/searchleap/harmony-farm-sanctuary-website-sub001/pkg/logger"
)

// Schema names the date-valued fields of a resource. Those fields are
// coerced to time.Time on every read; everything else stays as decoded JSON.
type Schema struct {
	DateFields []string
	// NestedDateFields maps an array-of-objects field (e.g. "notes") to the
	// date fields of its elements.
	NestedDateFields map[string][]string
}

// DefaultSchema applies to resources registered without a schema of their own.
var DefaultSchema = Schema{
	DateFields: []string{
		"createdAt", "updatedAt", "date", "publishedAt", "arrivalDate",
		"dateOfBirth", "adoptionDate", "startDate", "endDate", "lastActive",
	},
	NestedDateFields: map[string][]string{
		"notes": {"createdAt"},
	},
}

// Coerce converts the schema's date fields in r in place. A value that cannot
// be read as a date is dropped from the record and reported through log.
func (s Schema) Coerce(r Record, resource string, log *logger.Logger) {
	coerceFields(r, s.DateFields, resource, log)
	for field, dateFields := range s.NestedDateFields {
		items, ok := r[field].([]any)
		if !ok {
			continue
		}
		for _, item := range items {
			if obj, ok := asObject(item); ok {
				coerceFields(obj, dateFields, resource, log)
			}
		}
	}
}

func coerceFields(m map[string]any, fields []string, resource string, log *logger.Logger) {
	for _, f := range fields {
		v, ok := m[f]
		if !ok || v == nil {
			continue
		}
		t, ok := query.ToTime(v)
		if !ok {
			log.Warnf("invalid date in %s record %v field %s: %v", resource, m["id"], f, v)
			delete(m, f)
			continue
		}
		m[f] = t
	}
}
