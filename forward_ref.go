package shift

import "sync"

///////////////////////////////////////////////////////////////////////////////
// Forward-Reference Registry
///////////////////////////////////////////////////////////////////////////////

// ForwardRefRegistry maps reference names to concrete type descriptors.
// Schemas register themselves by name when built, and callers may bind
// additional names explicitly with Register.
type ForwardRefRegistry struct {
	refs map[string]TypeDesc
}

func NewForwardRefRegistry() *ForwardRefRegistry {
	return &ForwardRefRegistry{refs: make(map[string]TypeDesc)}
}

// Register binds name to a concrete descriptor, replacing any previous
// binding with the same name.
func (r *ForwardRefRegistry) Register(name string, desc TypeDesc) {
	r.refs[name] = desc
}

// Deregister removes the binding for name.
func (r *ForwardRefRegistry) Deregister(name string) {
	delete(r.refs, name)
}

// Clear removes every binding.
func (r *ForwardRefRegistry) Clear() {
	r.refs = make(map[string]TypeDesc)
}

// Lookup returns the descriptor bound to name.
func (r *ForwardRefRegistry) Lookup(name string) (TypeDesc, bool) {
	d, ok := r.refs[name]
	return d, ok
}

// Snapshot returns a copy of the bindings for introspection.
func (r *ForwardRefRegistry) Snapshot() map[string]TypeDesc {
	out := make(map[string]TypeDesc, len(r.refs))
	for k, v := range r.refs {
		out[k] = v
	}
	return out
}

///////////////////////////////////////////////////////////////////////////////
// Resolution cache
///////////////////////////////////////////////////////////////////////////////

// refCacheKey identifies one resolution: the same expression can resolve
// differently under different defining scopes.
type refCacheKey struct {
	expr  string
	scope string
}

// refCache memoizes successful resolutions. Resolution happens lazily
// during validation, which may run from concurrent construction calls, so
// the cache guards its map; it is the only internal lock in the package.
type refCache struct {
	mu    sync.RWMutex
	cache map[refCacheKey]TypeDesc
}

func newRefCache() *refCache {
	return &refCache{cache: make(map[refCacheKey]TypeDesc)}
}

func (c *refCache) get(key refCacheKey) (TypeDesc, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	d, ok := c.cache[key]
	return d, ok
}

func (c *refCache) put(key refCacheKey, desc TypeDesc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache[key] = desc
}

func (c *refCache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache = make(map[refCacheKey]TypeDesc)
}

///////////////////////////////////////////////////////////////////////////////
// Resolution
///////////////////////////////////////////////////////////////////////////////

// ResolveRef resolves a deferred type expression against a defining scope:
// the scope schema's own name first, then the global forward-ref registry.
// Successful resolutions are cached by (expression, scope) and the cached
// descriptor is returned on every later call.
func ResolveRef(expr string, scope *Schema) (TypeDesc, error) {
	scopeName := ""
	if scope != nil {
		scopeName = scope.Name()
	}
	key := refCacheKey{expr: expr, scope: scopeName}

	if d, ok := _refCache.get(key); ok {
		return d, nil
	}

	// Self reference: a field typed as its own enclosing schema.
	if scope != nil && expr == scope.Name() {
		d := Of(scope)
		_refCache.put(key, d)
		return d, nil
	}

	if d, ok := _forwardRefs.Lookup(expr); ok {
		_refCache.put(key, d)
		return d, nil
	}

	return nil, &ResolutionError{Expr: expr, Scope: scopeName}
}

///////////////////////////////////////////////////////////////////////////////
// Global Singleton and Package Functions
///////////////////////////////////////////////////////////////////////////////

var (
	_forwardRefs *ForwardRefRegistry
	_refCache    *refCache
)

func init() {
	_forwardRefs = NewForwardRefRegistry()
	_refCache = newRefCache()
}

// RegisterForwardRef binds a reference name in the global registry.
func RegisterForwardRef(name string, desc TypeDesc) {
	_forwardRefs.Register(name, desc)
}

// DeregisterForwardRef removes a binding from the global registry.
func DeregisterForwardRef(name string) {
	_forwardRefs.Deregister(name)
	_refCache.clear()
}

// ClearForwardRefs removes every binding and empties the resolution cache.
func ClearForwardRefs() {
	_forwardRefs.Clear()
	_refCache.clear()
}

// GetForwardRefRegistry returns a copy of the global bindings.
func GetForwardRefRegistry() map[string]TypeDesc {
	return _forwardRefs.Snapshot()
}
