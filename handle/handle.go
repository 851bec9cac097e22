// Package handle implements the handle-binding layer: numeric
// and string handle-ids mapped to backend-returned opaque handles, scoped
// per category (object, light) and per archive.
package handle

import "github.com/rmanicore/ri/backend"

// Bindings holds the four {object, light} x {integer-keyed, string-keyed}
// dictionaries plus the string-keyed archive map. Writes happen at capture
// time; reads happen at replay time or at the next ObjectInstance/
// Illuminate.
type Bindings struct {
	objectsByInt    map[int64]backend.Handle
	objectsByString map[string]backend.Handle
	lightsByInt     map[int64]backend.Handle
	lightsByString  map[string]backend.Handle
	archives        map[string]backend.Handle

	onWarning func(msg string)
}

// New creates an empty Bindings table.
func New() *Bindings {
	return &Bindings{
		objectsByInt:    make(map[int64]backend.Handle),
		objectsByString: make(map[string]backend.Handle),
		lightsByInt:     make(map[int64]backend.Handle),
		lightsByString:  make(map[string]backend.Handle),
		archives:        make(map[string]backend.Handle),
	}
}

// OnWarning installs a callback invoked when a bind call overwrites an
// existing entry in the same scope.
func (b *Bindings) OnWarning(f func(msg string)) { b.onWarning = f }

func (b *Bindings) warn(msg string) {
	if b.onWarning != nil {
		b.onWarning(msg)
	}
}

// BindObjectInt records id -> h for an integer object handle-id, emitting a
// rebind warning if id was already bound in this scope.
func (b *Bindings) BindObjectInt(id int64, h backend.Handle) {
	if _, exists := b.objectsByInt[id]; exists {
		b.warn("handle: re-binding object id (integer) overwrites the previous entry")
	}
	b.objectsByInt[id] = h
}

// BindObjectString records id -> h for a string object handle-id.
func (b *Bindings) BindObjectString(id string, h backend.Handle) {
	if _, exists := b.objectsByString[id]; exists {
		b.warn("handle: re-binding object id (string) overwrites the previous entry")
	}
	b.objectsByString[id] = h
}

// LookupObjectInt resolves an integer object handle-id.
func (b *Bindings) LookupObjectInt(id int64) (backend.Handle, bool) {
	h, ok := b.objectsByInt[id]
	return h, ok
}

// LookupObjectString resolves a string object handle-id.
func (b *Bindings) LookupObjectString(id string) (backend.Handle, bool) {
	h, ok := b.objectsByString[id]
	return h, ok
}

// BindLightInt records id -> h for an integer light handle-id.
func (b *Bindings) BindLightInt(id int64, h backend.Handle) {
	if _, exists := b.lightsByInt[id]; exists {
		b.warn("handle: re-binding light id (integer) overwrites the previous entry")
	}
	b.lightsByInt[id] = h
}

// BindLightString records id -> h for a string light handle-id.
func (b *Bindings) BindLightString(id string, h backend.Handle) {
	if _, exists := b.lightsByString[id]; exists {
		b.warn("handle: re-binding light id (string) overwrites the previous entry")
	}
	b.lightsByString[id] = h
}

// LookupLightInt resolves an integer light handle-id.
func (b *Bindings) LookupLightInt(id int64) (backend.Handle, bool) {
	h, ok := b.lightsByInt[id]
	return h, ok
}

// LookupLightString resolves a string light handle-id.
func (b *Bindings) LookupLightString(id string) (backend.Handle, bool) {
	h, ok := b.lightsByString[id]
	return h, ok
}

// BindArchive records name -> h for an archive handle-id.
func (b *Bindings) BindArchive(name string, h backend.Handle) {
	if _, exists := b.archives[name]; exists {
		b.warn("handle: re-binding archive id overwrites the previous entry")
	}
	b.archives[name] = h
}

// LookupArchive resolves an archive handle-id.
func (b *Bindings) LookupArchive(name string) (backend.Handle, bool) {
	h, ok := b.archives[name]
	return h, ok
}

// ReleaseScope drops every entry bound by this Bindings table, used when
// the containing macro is discarded (cross-archive handles are scoped by
// the containing macro's lifetime).
func (b *Bindings) ReleaseScope() {
	b.objectsByInt = make(map[int64]backend.Handle)
	b.objectsByString = make(map[string]backend.Handle)
	b.lightsByInt = make(map[int64]backend.Handle)
	b.lightsByString = make(map[string]backend.Handle)
	b.archives = make(map[string]backend.Handle)
}
