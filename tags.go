package slirc

import "reflect"

// A TagKey identifies a tag by its Go type. Keys are stable: TagKeyOf for
// the same type always yields the same key, from any package.
type TagKey struct {
	rt reflect.Type
}

// TagKeyOf returns the key under which values of type T are stored.
func TagKeyOf[T any]() TagKey {
	return TagKey{rt: reflect.TypeOf((*T)(nil)).Elem()}
}

func (k TagKey) String() string {
	if k.rt == nil {
		return "<invalid tag key>"
	}
	return k.rt.String()
}

// A TagContainer holds at most one value per tag type. The zero value is an
// empty container ready for use.
//
// Containers are not safe for concurrent use; during dispatch only the
// dispatching goroutine may touch an event's tags.
type TagContainer struct {
	data map[TagKey]any
}

// Has reports whether a tag with the given key is present.
func (c *TagContainer) Has(k TagKey) bool {
	_, ok := c.data[k]
	return ok
}

// SetTag stores tag in c, replacing any previous value of the same type,
// and returns a pointer to the stored value so callers can keep filling it
// in place.
func SetTag[T any](c *TagContainer, tag T) *T {
	if c.data == nil {
		c.data = make(map[TagKey]any)
	}
	p := &tag
	c.data[TagKeyOf[T]()] = p
	return p
}

// GetTag retrieves the tag of type T, if present.
func GetTag[T any](c *TagContainer) (tag T, ok bool) {
	p, ok := c.data[TagKeyOf[T]()].(*T)
	if !ok {
		return
	}
	return *p, true
}

// MustTag retrieves the tag of type T and panics with ErrNoTag if it is
// absent. Handlers may use it for tags guaranteed by their event's declared
// requirements.
func MustTag[T any](c *TagContainer) T {
	p, ok := c.data[TagKeyOf[T]()].(*T)
	if !ok {
		panic(ErrNoTag)
	}
	return *p
}

// UnsetTag removes the tag of type T. It returns ErrNoTag if no such tag
// was stored.
func UnsetTag[T any](c *TagContainer) error {
	k := TagKeyOf[T]()
	if _, ok := c.data[k]; !ok {
		return ErrNoTag
	}
	delete(c.data, k)
	return nil
}
