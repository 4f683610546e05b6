package hash

import (
	"sync"

	"github.com/pkg/errors"
)

// ErrCollision is returned when two different names hash to the same Value
var ErrCollision = errors.New("hash collision")

// Registry maps names to hash values and back.
//
// Collisions are detected at registration time, so a Value handed out by a
// Registry always resolves back to exactly one name.
type Registry struct {
	mu    sync.RWMutex
	names map[Value]string
}

func NewRegistry() *Registry {
	return &Registry{
		names: make(map[Value]string),
	}
}

// Register returns the hash of name and remembers it for Resolve.
// Registering the same name twice is fine and returns the same value.
func (r *Registry) Register(name string) (Value, error) {
	v := String(name)
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.names == nil {
		r.names = make(map[Value]string)
	}
	if existing, ok := r.names[v]; ok {
		if existing != name {
			return 0, errors.Wrapf(ErrCollision, "%q and %q both hash to %v", existing, name, v)
		}
		return v, nil
	}
	r.names[v] = name
	return v, nil
}

// MustRegister is Register but panics on collision. Only use this for names
// that are compiled into the binary.
func (r *Registry) MustRegister(name string) Value {
	v, err := r.Register(name)
	if err != nil {
		panic(err)
	}
	return v
}

// Resolve returns the name that was registered for v
func (r *Registry) Resolve(v Value) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	name, ok := r.names[v]
	return name, ok
}

// Len returns the number of registered names
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.names)
}
