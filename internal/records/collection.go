package records

import "context"

// Collection gives typed access to one resource for callers that prefer a
// concrete struct over a Record.
type Collection[T any] struct {
	store    *Store
	resource string
}

func NewCollection[T any](store *Store, resource string) *Collection[T] {
	return &Collection[T]{store: store, resource: resource}
}

// All decodes every record. Records that do not fit T are skipped and logged.
func (c *Collection[T]) All(ctx context.Context) []T {
	list := c.store.GetAll(ctx, c.resource)
	out := make([]T, 0, len(list))
	for _, r := range list {
		v, err := Decode[T](r)
		if err != nil {
			c.store.log.Warnf("skipping %s: %v", c.resource, err)
			continue
		}
		out = append(out, v)
	}
	return out
}

func (c *Collection[T]) Get(ctx context.Context, id string) (T, bool) {
	var zero T
	r, ok := c.store.GetByID(ctx, c.resource, id)
	if !ok {
		return zero, false
	}
	v, err := Decode[T](r)
	if err != nil {
		c.store.log.Warnf("decoding %s %s: %v", c.resource, id, err)
		return zero, false
	}
	return v, true
}

// Create stores v and returns it with the store-assigned id and timestamps.
func (c *Collection[T]) Create(ctx context.Context, v T) (T, error) {
	var zero T
	data, err := ToRecord(v)
	if err != nil {
		return zero, err
	}
	rec, err := c.store.Create(ctx, c.resource, data)
	if err != nil {
		return zero, err
	}
	return Decode[T](rec)
}
