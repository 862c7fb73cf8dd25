package handler

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/maestrohq/maestro/pkg/logger"
)

// Registry holds the registered handlers and their aliases. Names and
// aliases share one case-insensitive namespace and must be globally unique.
// The registry is constructed once at startup and handed to the parser and
// router by reference; there is no ambient global instance.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler // canonical lower-cased name -> handler
	aliases  map[string]string  // lower-cased alias -> canonical name
}

// NewRegistry creates an empty handler registry.
func NewRegistry() *Registry {
	return &Registry{
		handlers: make(map[string]Handler),
		aliases:  make(map[string]string),
	}
}

// Register adds a handler. It fails when the handler's name or any alias is
// already taken, by either a name or an alias.
func (r *Registry) Register(h Handler) error {
	name := strings.ToLower(h.Name())
	if name == "" {
		return fmt.Errorf("handler has no name")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.taken(name) {
		return fmt.Errorf("handler %q already registered", name)
	}
	lowered := make([]string, 0, len(h.Aliases()))
	for _, alias := range h.Aliases() {
		alias = strings.ToLower(alias)
		if r.taken(alias) {
			return fmt.Errorf("alias %q already registered", alias)
		}
		lowered = append(lowered, alias)
	}

	r.handlers[name] = h
	for _, alias := range lowered {
		r.aliases[alias] = name
	}

	logger.DebugCF("registry", "Handler registered",
		map[string]any{"name": name, "aliases": lowered})
	return nil
}

// Unregister removes a handler and its aliases, reporting whether it was
// present.
func (r *Registry) Unregister(name string) bool {
	name = strings.ToLower(name)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.handlers[name]; !ok {
		return false
	}
	delete(r.handlers, name)
	for alias, canonical := range r.aliases {
		if canonical == name {
			delete(r.aliases, alias)
		}
	}
	return true
}

// Get looks a handler up by canonical name or alias.
func (r *Registry) Get(name string) (Handler, bool) {
	name = strings.ToLower(name)

	r.mu.RLock()
	defer r.mu.RUnlock()

	if canonical, ok := r.aliases[name]; ok {
		name = canonical
	}
	h, ok := r.handlers[name]
	return h, ok
}

// Resolve maps an alias to its canonical name; unknown names pass through
// unchanged. Resolving an already-canonical name is the identity.
func (r *Registry) Resolve(name string) string {
	name = strings.ToLower(name)

	r.mu.RLock()
	defer r.mu.RUnlock()

	if canonical, ok := r.aliases[name]; ok {
		return canonical
	}
	return name
}

// Exists reports whether name resolves to a registered handler.
func (r *Registry) Exists(name string) bool {
	_, ok := r.Get(name)
	return ok
}

// Names returns all canonical handler names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Handlers returns the registered handlers in name order.
func (r *Registry) Handlers() []Handler {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]Handler, 0, len(names))
	for _, name := range names {
		out = append(out, r.handlers[name])
	}
	return out
}

func (r *Registry) taken(name string) bool {
	if _, ok := r.handlers[name]; ok {
		return true
	}
	_, ok := r.aliases[name]
	return ok
}
