package extension

import (
	"io"
	"log/slog"
)

// Registry owns the extensions consulted during one checking session: a
// persistent global list plus a stack of transient local lists scoped to
// nested checking contexts (a closure body, an inferred block). Only the
// top of the stack participates in dispatch.
//
// The Registry is single-threaded by contract — the checker drives all
// dispatch from one goroutine — so there is no locking.
type Registry struct {
	global []Extension
	locals [][]Extension
	logger *slog.Logger
}

// NewRegistry creates an empty registry. A nil logger disables tracing.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Registry{logger: logger}
}

// AddGlobal appends an extension to the global list. Duplicates are kept:
// registering the same extension twice means it is consulted twice.
// Appending is legal even while a dispatch over the global list is in
// flight; the in-progress traversal will visit the addition.
func (r *Registry) AddGlobal(e Extension) {
	r.global = append(r.global, e)
	r.logger.Debug("extension registered", "count", len(r.global))
}

// RemoveGlobal removes the first matching extension from the global list,
// comparing by interface equality. Removing an absent extension is a no-op.
func (r *Registry) RemoveGlobal(e Extension) {
	for i, cur := range r.global {
		if cur == e {
			r.global = append(r.global[:i], r.global[i+1:]...)
			r.logger.Debug("extension removed", "count", len(r.global))
			return
		}
	}
}

// GlobalLen reports how many extensions the global list currently holds,
// counting duplicates.
func (r *Registry) GlobalLen() int { return len(r.global) }

// PushLocal activates a local extension list for a nested checking scope.
// The list shadows nothing: dispatch order is global first, then locals.
func (r *Registry) PushLocal(locals []Extension) {
	r.locals = append(r.locals, locals)
}

// PopLocal deactivates the most recently pushed local list. Popping with
// no active local scope is a scope-nesting bug in the caller and panics.
func (r *Registry) PopLocal() {
	if len(r.locals) == 0 {
		panic("extension: PopLocal on empty local scope stack")
	}
	r.locals = r.locals[:len(r.locals)-1]
}

// each invokes visit over the current dispatch view: the global list in
// insertion order, then the top-of-stack local list in insertion order.
// visit returning true stops the traversal.
//
// The global walk is index-based and re-reads the slice header every step,
// so extensions appended mid-traversal (Setup self-registration) are
// visited exactly once before the traversal ends. The active local list is
// captured up front; locals are not expected to change mid-dispatch.
func (r *Registry) each(visit func(Extension) bool) {
	var local []Extension
	if n := len(r.locals); n > 0 {
		local = r.locals[n-1]
	}
	for i := 0; i < len(r.global); i++ {
		if visit(r.global[i]) {
			return
		}
	}
	for i := 0; i < len(local); i++ {
		if visit(local[i]) {
			return
		}
	}
}
